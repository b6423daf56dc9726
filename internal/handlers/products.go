package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"backend/internal/models"
)

// ProductLister exposes the catalog read the storefront browses with.
type ProductLister interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
}

func GetProducts(catalog ProductLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products"
		defer handlePanic(c, route)

		products, err := catalog.ListProducts(c.Request.Context())
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, products)
	}
}
