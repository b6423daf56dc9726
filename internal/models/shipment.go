package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ShipmentStatus is the closed, strictly ordered set of shipment states.
type ShipmentStatus string

const (
	ShipmentStatusCreated   ShipmentStatus = "Created"
	ShipmentStatusShipped   ShipmentStatus = "Shipped"
	ShipmentStatusInTransit ShipmentStatus = "InTransit"
	ShipmentStatusDelivered ShipmentStatus = "Delivered"
)

func ParseShipmentStatus(raw string) (ShipmentStatus, error) {
	switch s := ShipmentStatus(raw); s {
	case ShipmentStatusCreated, ShipmentStatusShipped, ShipmentStatusInTransit, ShipmentStatusDelivered:
		return s, nil
	default:
		return "", fmt.Errorf("invalid shipment status %q", raw)
	}
}

// shipmentPredecessor maps each reachable status to the single status it may
// be advanced from. Created has no predecessor; nothing follows Delivered.
var shipmentPredecessor = map[ShipmentStatus]ShipmentStatus{
	ShipmentStatusShipped:   ShipmentStatusCreated,
	ShipmentStatusInTransit: ShipmentStatusShipped,
	ShipmentStatusDelivered: ShipmentStatusInTransit,
}

// Predecessor returns the only status from which target may be reached.
// ok is false when target is Created (or unknown), which no transition
// may produce.
func (s ShipmentStatus) Predecessor() (ShipmentStatus, bool) {
	from, ok := shipmentPredecessor[s]
	return from, ok
}

// CanAdvanceTo reports whether a shipment currently in s may move to target.
// The lifecycle is strictly linear: no skipping, no regression, no self-loop.
func (s ShipmentStatus) CanAdvanceTo(target ShipmentStatus) bool {
	from, ok := shipmentPredecessor[target]
	return ok && from == s
}

// Shipment is owned one-to-one by its order, created in the same transaction
// and never deleted.
type Shipment struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderID        primitive.ObjectID `bson:"orderId" json:"orderId"`
	TrackingNumber string             `bson:"trackingNumber" json:"trackingNumber"`
	Status         ShipmentStatus     `bson:"status" json:"status"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}
