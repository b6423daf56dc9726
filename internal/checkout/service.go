package checkout

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/models"
	"backend/internal/payments"
	"backend/internal/shipping"
)

// CartProvider exposes the cart snapshot the orchestrator consumes. The
// cart is owned elsewhere; checkout only reads it and clears it on success.
type CartProvider interface {
	GetCart(ctx context.Context, userID primitive.ObjectID) ([]models.CartItem, error)
	ClearCart(ctx context.Context, userID primitive.ObjectID) error
}

// OrderStore persists the frozen order together with its shipment as one
// atomic unit. A failure must leave neither record behind.
type OrderStore interface {
	CreateOrderWithShipment(ctx context.Context, order models.Order, shipment models.Shipment) error
}

// IdempotencyState marks how far a keyed checkout attempt got.
type IdempotencyState string

const (
	IdempotencyPending   IdempotencyState = "pending"
	IdempotencyCompleted IdempotencyState = "completed"
)

// IdempotencyRecord is what a repeated checkout call with the same key
// finds: either the original result, or proof the original is still running.
type IdempotencyRecord struct {
	State           IdempotencyState
	OrderID         primitive.ObjectID
	PaymentRequired bool
}

// IdempotencyStore reserves checkout keys. Begin must be first-writer-wins:
// exactly one caller per (user, key) observes created == true.
type IdempotencyStore interface {
	Begin(ctx context.Context, userID primitive.ObjectID, key string) (rec IdempotencyRecord, created bool, err error)
	Complete(ctx context.Context, userID primitive.ObjectID, key string, orderID primitive.ObjectID, paymentRequired bool) error
	Abandon(ctx context.Context, userID primitive.ObjectID, key string) error
}

// Result is the successful checkout outcome.
type Result struct {
	OrderID         primitive.ObjectID
	PaymentRequired bool
}

// Service turns a mutable cart into an immutable order, all or nothing.
type Service struct {
	carts       CartProvider
	catalog     Catalog
	reservation *ReservationService
	orders      OrderStore
	keys        IdempotencyStore
}

func NewService(carts CartProvider, catalog Catalog, reservation *ReservationService, orders OrderStore, keys IdempotencyStore) *Service {
	return &Service{
		carts:       carts,
		catalog:     catalog,
		reservation: reservation,
		orders:      orders,
		keys:        keys,
	}
}

// Checkout runs the full sequence: cart snapshot, authoritative product
// reads, stock reservation, order freeze, shipment creation, cart clear.
// Any failure before the order+shipment commit leaves stock, orders and
// shipments exactly as they were. idempotencyKey may be empty.
func (s *Service) Checkout(ctx context.Context, userID primitive.ObjectID, method models.PaymentMethod, idempotencyKey string) (Result, error) {
	if idempotencyKey != "" {
		rec, created, err := s.keys.Begin(ctx, userID, idempotencyKey)
		if err != nil {
			return Result{}, err
		}
		if !created {
			if rec.State == IdempotencyCompleted {
				log.Printf("[CHECKOUT] [INFO] replaying result for idempotency key of user %s", userID.Hex())
				return Result{OrderID: rec.OrderID, PaymentRequired: rec.PaymentRequired}, nil
			}
			return Result{}, ErrCheckoutInProgress
		}
	}

	result, err := s.run(ctx, userID, method)

	if idempotencyKey != "" {
		if err != nil {
			// A failed attempt releases its key so the client may retry.
			if abandonErr := s.keys.Abandon(ctx, userID, idempotencyKey); abandonErr != nil {
				log.Printf("[CHECKOUT] [ERROR] failed to abandon idempotency key: %v", abandonErr)
			}
		} else if completeErr := s.keys.Complete(ctx, userID, idempotencyKey, result.OrderID, result.PaymentRequired); completeErr != nil {
			log.Printf("[CHECKOUT] [ERROR] failed to record idempotency result: %v", completeErr)
		}
	}

	return result, err
}

func (s *Service) run(ctx context.Context, userID primitive.ObjectID, method models.PaymentMethod) (Result, error) {
	items, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return Result{}, err
	}
	if len(items) == 0 {
		return Result{}, ErrEmptyCart
	}

	// Authoritative product snapshot. The same records price the order
	// after reservation, so priceAtPurchase matches what was validated.
	products := make(map[primitive.ObjectID]models.Product, len(items))
	for _, item := range items {
		product, err := s.catalog.GetProduct(ctx, item.ProductID)
		if err != nil {
			return Result{}, err
		}
		products[item.ProductID] = product
	}

	reservation, err := s.reservation.Reserve(ctx, items)
	if err != nil {
		return Result{}, err
	}

	order, err := BuildOrder(userID, items, products, method)
	if err != nil {
		s.reservation.Release(ctx, reservation)
		return Result{}, err
	}

	shipment := shipping.NewShipment(order.ID)
	order.ShipmentID = shipment.ID

	if err := s.orders.CreateOrderWithShipment(ctx, order, shipment); err != nil {
		// Stock was already decremented; compensate before surfacing.
		s.reservation.Release(ctx, reservation)
		return Result{}, err
	}

	// Past the commit point. Cart clearing is best-effort: a failure here
	// leaves the order standing and the clear idempotent on retry.
	if err := s.carts.ClearCart(ctx, userID); err != nil {
		log.Printf("[CHECKOUT] [WARN] order %s created but cart clear failed for user %s: %v", order.ID.Hex(), userID.Hex(), err)
	}

	log.Printf("[CHECKOUT] [INFO] order %s created for user %s (method %s)", order.ID.Hex(), userID.Hex(), method)
	return Result{OrderID: order.ID, PaymentRequired: payments.PaymentRequired(method)}, nil
}
