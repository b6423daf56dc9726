package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/checkout"
	"backend/internal/models"
	"backend/internal/payments"
)

// IdempotencyKeyHeader carries the caller-supplied checkout idempotency key.
const IdempotencyKeyHeader = "Idempotency-Key"

// CheckoutService is what the checkout handler needs from the orchestrator.
type CheckoutService interface {
	Checkout(ctx context.Context, userID primitive.ObjectID, method models.PaymentMethod, idempotencyKey string) (checkout.Result, error)
}

type checkoutRequest struct {
	PaymentMethod string `json:"paymentMethod" binding:"required"`
}

func Checkout(service CheckoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /checkout"
		defer handlePanic(c, route)

		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req checkoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		method, err := models.ParsePaymentMethod(req.PaymentMethod)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid payment method")
			return
		}

		result, err := service.Checkout(c.Request.Context(), userID, method, c.GetHeader(IdempotencyKeyHeader))
		if err != nil {
			writeCheckoutError(c, route, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"orderId":         result.OrderID.Hex(),
			"paymentRequired": result.PaymentRequired,
			"message":         "order created",
		})
	}
}

func writeCheckoutError(c *gin.Context, route string, err error) {
	var stockErr checkout.InsufficientStockError
	if errors.As(err, &stockErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "insufficient stock",
			"productId": stockErr.ProductID.Hex(),
			"available": stockErr.Available,
			"requested": stockErr.Requested,
		})
		return
	}

	var notFoundErr checkout.NotFoundError
	if errors.As(err, &notFoundErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": notFoundErr.Error()})
		return
	}

	var gatewayErr checkout.GatewayError
	if errors.As(err, &gatewayErr) {
		respondWithError(c, http.StatusBadGateway, route, "payment gateway error")
		return
	}

	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		respondWithError(c, http.StatusBadRequest, route, "cart is empty")
	case errors.Is(err, checkout.ErrEmptyOrder):
		respondWithError(c, http.StatusBadRequest, route, "order requires at least one item")
	case errors.Is(err, checkout.ErrCheckoutInProgress):
		respondWithError(c, http.StatusConflict, route, "checkout already in progress")
	default:
		respondWithError(c, http.StatusInternalServerError, route, "db error")
	}
}

type createPaymentIntentRequest struct {
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	Currency string  `json:"currency" binding:"required"`
}

// CreatePaymentIntent delegates payment initiation to the external gateway
// and hands the resulting client secret back to the browser.
func CreatePaymentIntent(gateway payments.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /checkout/create-payment-intent"
		defer handlePanic(c, route)

		var req createPaymentIntentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		clientSecret, err := gateway.CreateIntent(c.Request.Context(), req.Amount, req.Currency)
		if err != nil {
			respondWithError(c, http.StatusBadGateway, route, "payment gateway error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"clientSecret": clientSecret})
	}
}
