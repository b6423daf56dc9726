package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/models"
	"backend/internal/shipping"
)

// ShipmentTracker is what the tracking handlers need from the shipment
// state machine.
type ShipmentTracker interface {
	GetTracking(ctx context.Context, orderID primitive.ObjectID) (shipping.Tracking, error)
	AdvanceByOrder(ctx context.Context, orderID primitive.ObjectID, target models.ShipmentStatus) (models.Shipment, error)
}

func GetTracking(tracker ShipmentTracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders/:id/tracking"
		defer handlePanic(c, route)

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		tracking, err := tracker.GetTracking(c.Request.Context(), orderID)
		if err != nil {
			var notFoundErr shipping.NotFoundError
			if errors.As(err, &notFoundErr) {
				c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, tracking)
	}
}

type advanceShipmentRequest struct {
	Status string `json:"status" binding:"required"`
}

// AdvanceShipment moves an order's shipment one step along its lifecycle.
// Privileged callers only; routed behind admin auth.
func AdvanceShipment(tracker ShipmentTracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /orders/:id/shipment"
		defer handlePanic(c, route)

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req advanceShipmentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		target, err := models.ParseShipmentStatus(req.Status)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid shipment status")
			return
		}

		if _, err := tracker.AdvanceByOrder(c.Request.Context(), orderID, target); err != nil {
			var notFoundErr shipping.NotFoundError
			if errors.As(err, &notFoundErr) {
				c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
				return
			}
			var transitionErr shipping.InvalidTransitionError
			if errors.As(err, &transitionErr) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "InvalidShipmentTransition"})
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
