package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentMethod is the closed set of supported payment methods.
type PaymentMethod string

const (
	PaymentMethodCard       PaymentMethod = "card"
	PaymentMethodUPI        PaymentMethod = "upi"
	PaymentMethodNetbanking PaymentMethod = "netbanking"
	PaymentMethodCOD        PaymentMethod = "cod"
)

// ParsePaymentMethod rejects anything outside the closed set so arbitrary
// strings never reach the order document.
func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	switch m := PaymentMethod(raw); m {
	case PaymentMethodCard, PaymentMethodUPI, PaymentMethodNetbanking, PaymentMethodCOD:
		return m, nil
	default:
		return "", fmt.Errorf("invalid payment method %q", raw)
	}
}

// RequiresGateway reports whether the method settles through the external
// payment gateway. COD settles physically on delivery.
func (m PaymentMethod) RequiresGateway() bool {
	return m != PaymentMethodCOD
}

// PaymentStatus tracks where an order's payment stands. Paid and Failed are
// only ever set by the external confirmation path, never by checkout itself.
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "Pending"
	PaymentStatusProcessing PaymentStatus = "Processing"
	PaymentStatusPaid       PaymentStatus = "Paid"
	PaymentStatusFailed     PaymentStatus = "Failed"
)

// OrderLineItem is owned exclusively by its order. Price and cod eligibility
// are frozen at checkout time and never recomputed from the product.
type OrderLineItem struct {
	ProductID       primitive.ObjectID `bson:"productId" json:"productId"`
	Name            string             `bson:"name" json:"name"`
	Quantity        int                `bson:"quantity" json:"quantity"`
	PriceAtPurchase float64            `bson:"priceAtPurchase" json:"priceAtPurchase"`
	CodEligible     bool               `bson:"codEligible" json:"codEligible"`
}

// Order defines the persisted order document. Immutable after insert except
// for PaymentStatus.
type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	Items         []OrderLineItem    `bson:"items" json:"items"`
	Total         float64            `bson:"total" json:"total"`
	PaymentMethod PaymentMethod      `bson:"paymentMethod" json:"paymentMethod"`
	PaymentStatus PaymentStatus      `bson:"paymentStatus" json:"paymentStatus"`
	ShipmentID    primitive.ObjectID `bson:"shipmentId" json:"shipmentId"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
