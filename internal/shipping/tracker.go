package shipping

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/models"
)

type NotFoundError struct {
	Entity string
	ID     string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// InvalidTransitionError reports a requested shipment status change that the
// linear lifecycle does not allow.
type InvalidTransitionError struct {
	From models.ShipmentStatus
	To   models.ShipmentStatus
}

func (e InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid shipment transition %s -> %s", e.From, e.To)
}

// Store is the persistence contract the tracker needs. CompareAndSetStatus
// must apply the update only while the shipment still sits in from,
// reporting whether a document matched, so concurrent advance requests for
// the same shipment cannot produce lost updates.
type Store interface {
	Get(ctx context.Context, id primitive.ObjectID) (models.Shipment, error)
	GetByOrderID(ctx context.Context, orderID primitive.ObjectID) (models.Shipment, error)
	CompareAndSetStatus(ctx context.Context, id primitive.ObjectID, from, to models.ShipmentStatus, at time.Time) (bool, error)
}

// Tracker owns the shipment state machine.
type Tracker struct {
	store Store
}

func NewTracker(store Store) *Tracker {
	return &Tracker{store: store}
}

// NewShipment builds the shipment record created alongside an order at
// checkout commit. The tracking number is generated here, once.
func NewShipment(orderID primitive.ObjectID) models.Shipment {
	now := time.Now()
	return models.Shipment{
		ID:             primitive.NewObjectID(),
		OrderID:        orderID,
		TrackingNumber: uuid.NewString(),
		Status:         models.ShipmentStatusCreated,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Tracking is the read model for GET /orders/:id/tracking.
type Tracking struct {
	TrackingNumber string                `json:"trackingNumber"`
	Status         models.ShipmentStatus `json:"status"`
}

// GetTracking resolves the shipment owned by the given order.
func (t *Tracker) GetTracking(ctx context.Context, orderID primitive.ObjectID) (Tracking, error) {
	shipment, err := t.store.GetByOrderID(ctx, orderID)
	if err != nil {
		return Tracking{}, err
	}
	return Tracking{TrackingNumber: shipment.TrackingNumber, Status: shipment.Status}, nil
}

// AdvanceByOrder moves the order's shipment to target. Only the single legal
// successor step is accepted; a non-adjacent, backward, or repeated target
// fails and leaves the status untouched. The write is conditional on the
// status still being the legal predecessor, so two racing advance calls
// cannot both succeed.
func (t *Tracker) AdvanceByOrder(ctx context.Context, orderID primitive.ObjectID, target models.ShipmentStatus) (models.Shipment, error) {
	shipment, err := t.store.GetByOrderID(ctx, orderID)
	if err != nil {
		return models.Shipment{}, err
	}
	return t.advance(ctx, shipment, target)
}

// Advance moves the shipment with the given id to target.
func (t *Tracker) Advance(ctx context.Context, shipmentID primitive.ObjectID, target models.ShipmentStatus) (models.Shipment, error) {
	shipment, err := t.store.Get(ctx, shipmentID)
	if err != nil {
		return models.Shipment{}, err
	}
	return t.advance(ctx, shipment, target)
}

func (t *Tracker) advance(ctx context.Context, shipment models.Shipment, target models.ShipmentStatus) (models.Shipment, error) {
	from, ok := target.Predecessor()
	if !ok || shipment.Status != from {
		return models.Shipment{}, InvalidTransitionError{From: shipment.Status, To: target}
	}

	now := time.Now()
	matched, err := t.store.CompareAndSetStatus(ctx, shipment.ID, from, target, now)
	if err != nil {
		return models.Shipment{}, err
	}
	if !matched {
		// Lost a race: re-read so the error names the real current state.
		current, err := t.store.Get(ctx, shipment.ID)
		if err != nil {
			return models.Shipment{}, err
		}
		return models.Shipment{}, InvalidTransitionError{From: current.Status, To: target}
	}

	shipment.Status = target
	shipment.UpdatedAt = now
	return shipment, nil
}
