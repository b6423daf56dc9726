package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/checkout"
	"backend/internal/repository"
)

// OrderReader lists a user's orders with embedded shipments.
type OrderReader interface {
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]repository.OrderWithShipment, error)
}

func GetOrders(orders OrderReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders"
		defer handlePanic(c, route)

		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		list, err := orders.ListByUser(c.Request.Context(), userID)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, list)
	}
}

// PaymentConfirmer applies the external gateway's settlement outcome to an
// order. Stands in for the webhook collaborator, behind admin auth.
type PaymentConfirmer interface {
	MarkPaid(ctx context.Context, orderID primitive.ObjectID) error
	MarkFailed(ctx context.Context, orderID primitive.ObjectID) error
}

type confirmPaymentRequest struct {
	Status string `json:"status" binding:"required"`
}

func ConfirmPayment(orders PaymentConfirmer) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/api/orders/:id/payment"
		defer handlePanic(c, route)

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req confirmPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		switch req.Status {
		case "Paid":
			err = orders.MarkPaid(c.Request.Context(), orderID)
		case "Failed":
			err = orders.MarkFailed(c.Request.Context(), orderID)
		default:
			respondWithError(c, http.StatusBadRequest, route, "status must be Paid or Failed")
			return
		}

		if err != nil {
			var notFoundErr checkout.NotFoundError
			if errors.As(err, &notFoundErr) {
				c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
				return
			}
			var stateErr checkout.InvalidPaymentStateError
			if errors.As(err, &stateErr) {
				c.JSON(http.StatusBadRequest, gin.H{"error": stateErr.Error()})
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
