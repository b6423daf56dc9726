package checkout

import (
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/models"
)

// Catalog exposes authoritative product reads. The cart never carries
// prices; everything is re-read from here during validation.
type Catalog interface {
	GetProduct(ctx context.Context, id primitive.ObjectID) (models.Product, error)
}

// StockStore is the single mutation boundary for product stock.
// DecrementStock must apply the decrement only while stock >= qty still
// holds, returning ErrStockConflict otherwise, so stock can never go
// negative no matter how many reservations race.
type StockStore interface {
	DecrementStock(ctx context.Context, productID primitive.ObjectID, qty int) error
	IncrementStock(ctx context.Context, productID primitive.ObjectID, qty int) error
}

// Reservation records exactly which decrements a checkout attempt applied,
// so a later failure can compensate by re-incrementing them.
type Reservation struct {
	Items []models.CartItem
}

const (
	defaultReserveAttempts = 3
	reserveBackoff         = 25 * time.Millisecond
)

// ReservationService validates and decrements stock for a whole line-item
// set as a unit: either every decrement applies or none do.
type ReservationService struct {
	catalog  Catalog
	stock    StockStore
	attempts int
}

func NewReservationService(catalog Catalog, stock StockStore) *ReservationService {
	return &ReservationService{
		catalog:  catalog,
		stock:    stock,
		attempts: defaultReserveAttempts,
	}
}

// Reserve runs the two-phase reservation: validate every item against the
// current product record, then commit one conditional decrement per item.
// A commit-phase conflict rolls back this attempt's decrements and retries
// the whole reservation from validate, up to the attempt bound.
func (s *ReservationService) Reserve(ctx context.Context, items []models.CartItem) (*Reservation, error) {
	var lastConflict primitive.ObjectID
	for attempt := 1; attempt <= s.attempts; attempt++ {
		res, err := s.tryReserve(ctx, items)
		if err == nil {
			return res, nil
		}

		var conflict stockConflictError
		if !errors.As(err, &conflict) {
			return nil, err
		}

		lastConflict = conflict.ProductID
		log.Printf("[RESERVE] [WARN] stock conflict on product %s (attempt %d/%d)", conflict.ProductID.Hex(), attempt, s.attempts)
		if attempt < s.attempts {
			select {
			case <-time.After(time.Duration(attempt) * reserveBackoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	// Retries exhausted: another buyer kept winning the remaining stock.
	return nil, InsufficientStockError{ProductID: lastConflict}
}

func (s *ReservationService) tryReserve(ctx context.Context, items []models.CartItem) (*Reservation, error) {
	// Validate phase: re-read every product and confirm stock covers the
	// requested quantity. Nothing is decremented if any item fails.
	for _, item := range items {
		product, err := s.catalog.GetProduct(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if product.Stock < item.Quantity {
			return nil, InsufficientStockError{
				ProductID: item.ProductID,
				Available: product.Stock,
				Requested: item.Quantity,
			}
		}
	}

	// Commit phase: conditional decrement per product. On a conflict the
	// decrements already applied in this attempt are reversed before the
	// conflict is reported, so no partial reservation is ever left behind.
	applied := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		err := s.stock.DecrementStock(ctx, item.ProductID, item.Quantity)
		if err == nil {
			applied = append(applied, item)
			continue
		}
		if errors.Is(err, ErrStockConflict) {
			s.rollback(ctx, applied)
			return nil, stockConflictError{ProductID: item.ProductID}
		}
		s.rollback(ctx, applied)
		return nil, err
	}

	return &Reservation{Items: applied}, nil
}

// Release re-increments every decrement the reservation applied. It is the
// compensating action for failures after the commit phase; increments are
// unconditional so release itself cannot conflict.
func (s *ReservationService) Release(ctx context.Context, r *Reservation) {
	if r == nil {
		return
	}
	s.rollback(ctx, r.Items)
}

func (s *ReservationService) rollback(ctx context.Context, applied []models.CartItem) {
	for _, item := range applied {
		if err := s.stock.IncrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			log.Printf("[RESERVE] [ERROR] failed to release %d units of product %s: %v", item.Quantity, item.ProductID.Hex(), err)
		}
	}
}

// stockConflictError carries the product whose conditional decrement lost
// the race, so retry exhaustion can name it in InsufficientStock.
type stockConflictError struct {
	ProductID primitive.ObjectID
}

func (e stockConflictError) Error() string {
	return "stock changed concurrently for product " + e.ProductID.Hex()
}
