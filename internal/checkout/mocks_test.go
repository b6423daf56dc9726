package checkout

import (
	"context"
	"errors"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/models"
)

// memStore is an in-memory product/stock store shared by the fakes. Guarded
// by a mutex so concurrency tests exercise real interleavings.
type memStore struct {
	mu       sync.Mutex
	products map[primitive.ObjectID]models.Product

	// conflictFirstN makes the first N decrements fail with ErrStockConflict
	// without touching stock, simulating a racing writer.
	conflictFirstN int
}

func newMemStore(products ...models.Product) *memStore {
	m := &memStore{products: make(map[primitive.ObjectID]models.Product)}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *memStore) GetProduct(_ context.Context, id primitive.ObjectID) (models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return models.Product{}, NotFoundError{Entity: "product", ID: id.Hex()}
	}
	return p, nil
}

func (m *memStore) DecrementStock(_ context.Context, id primitive.ObjectID, qty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conflictFirstN > 0 {
		m.conflictFirstN--
		return ErrStockConflict
	}
	p, ok := m.products[id]
	if !ok || p.Stock < qty {
		return ErrStockConflict
	}
	p.Stock -= qty
	m.products[id] = p
	return nil
}

func (m *memStore) IncrementStock(_ context.Context, id primitive.ObjectID, qty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.products[id]
	p.Stock += qty
	m.products[id] = p
	return nil
}

func (m *memStore) stockOf(id primitive.ObjectID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products[id].Stock
}

type fakeCarts struct {
	mu       sync.Mutex
	items    map[primitive.ObjectID][]models.CartItem
	clearErr error
	cleared  map[primitive.ObjectID]int
}

func newFakeCarts() *fakeCarts {
	return &fakeCarts{
		items:   make(map[primitive.ObjectID][]models.CartItem),
		cleared: make(map[primitive.ObjectID]int),
	}
}

func (f *fakeCarts) GetCart(_ context.Context, userID primitive.ObjectID) ([]models.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[userID], nil
}

func (f *fakeCarts) ClearCart(_ context.Context, userID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.clearErr != nil {
		return f.clearErr
	}
	f.cleared[userID]++
	delete(f.items, userID)
	return nil
}

type fakeOrders struct {
	mu        sync.Mutex
	createErr error
	orders    []models.Order
	shipments []models.Shipment
}

func (f *fakeOrders) CreateOrderWithShipment(_ context.Context, order models.Order, shipment models.Shipment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.orders = append(f.orders, order)
	f.shipments = append(f.shipments, shipment)
	return nil
}

func (f *fakeOrders) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orders)
}

type keyEntry struct {
	rec IdempotencyRecord
}

type fakeKeys struct {
	mu      sync.Mutex
	entries map[string]*keyEntry
}

func newFakeKeys() *fakeKeys {
	return &fakeKeys{entries: make(map[string]*keyEntry)}
}

func (f *fakeKeys) Begin(_ context.Context, userID primitive.ObjectID, key string) (IdempotencyRecord, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := userID.Hex() + "/" + key
	if entry, ok := f.entries[k]; ok {
		return entry.rec, false, nil
	}
	f.entries[k] = &keyEntry{rec: IdempotencyRecord{State: IdempotencyPending}}
	return IdempotencyRecord{State: IdempotencyPending}, true, nil
}

func (f *fakeKeys) Complete(_ context.Context, userID primitive.ObjectID, key string, orderID primitive.ObjectID, paymentRequired bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := userID.Hex() + "/" + key
	entry, ok := f.entries[k]
	if !ok {
		return errors.New("unknown key")
	}
	entry.rec = IdempotencyRecord{State: IdempotencyCompleted, OrderID: orderID, PaymentRequired: paymentRequired}
	return nil
}

func (f *fakeKeys) Abandon(_ context.Context, userID primitive.ObjectID, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, userID.Hex()+"/"+key)
	return nil
}
