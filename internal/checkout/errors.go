package checkout

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/models"
)

var (
	// ErrEmptyCart is returned when checkout is attempted on an empty cart.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrEmptyOrder guards the order factory against an empty line-item set.
	// Unreachable through the orchestrator, which rejects empty carts first.
	ErrEmptyOrder = errors.New("order requires at least one item")

	// ErrStockConflict signals that a conditional stock update matched no
	// document because stock changed between validate and commit. It is
	// retried internally and never surfaced to callers.
	ErrStockConflict = errors.New("stock changed concurrently")

	// ErrCheckoutInProgress is returned when a second checkout carrying the
	// same idempotency key arrives before the first one committed.
	ErrCheckoutInProgress = errors.New("checkout already in progress")
)

type InsufficientStockError struct {
	ProductID primitive.ObjectID
	Available int
	Requested int
}

func (e InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s", e.ProductID.Hex())
}

type GatewayError struct {
	Err error
}

func (e GatewayError) Error() string {
	return fmt.Sprintf("payment gateway: %v", e.Err)
}

func (e GatewayError) Unwrap() error {
	return e.Err
}

// InvalidPaymentStateError reports a payment confirmation for an order that
// is not sitting in Processing.
type InvalidPaymentStateError struct {
	OrderID primitive.ObjectID
	To      models.PaymentStatus
}

func (e InvalidPaymentStateError) Error() string {
	return fmt.Sprintf("order %s cannot move to payment status %s", e.OrderID.Hex(), e.To)
}

type NotFoundError struct {
	Entity string
	ID     string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}
