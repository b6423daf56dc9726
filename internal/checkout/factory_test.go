package checkout

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/models"
)

func TestBuildOrderComputesExactTotal(t *testing.T) {
	userID := primitive.NewObjectID()
	p1 := testProduct(10, 19.5)
	p2 := testProduct(10, 3.25)
	products := map[primitive.ObjectID]models.Product{p1.ID: p1, p2.ID: p2}

	order, err := BuildOrder(userID, []models.CartItem{
		{ProductID: p1.ID, Quantity: 2},
		{ProductID: p2.ID, Quantity: 4},
	}, products, models.PaymentMethodCard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := 2*19.5 + 4*3.25
	if order.Total != want {
		t.Fatalf("expected total %v, got %v", want, order.Total)
	}

	var sum float64
	for _, item := range order.Items {
		sum += float64(item.Quantity) * item.PriceAtPurchase
	}
	if order.Total != sum {
		t.Fatalf("total %v does not match line-item sum %v", order.Total, sum)
	}
}

func TestBuildOrderFreezesPriceAtPurchase(t *testing.T) {
	userID := primitive.NewObjectID()
	p := testProduct(10, 50)
	products := map[primitive.ObjectID]models.Product{p.ID: p}

	order, err := BuildOrder(userID, []models.CartItem{{ProductID: p.ID, Quantity: 1}}, products, models.PaymentMethodCOD)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A later price change on the product must not affect the order.
	p.Price = 99
	products[p.ID] = p

	if order.Items[0].PriceAtPurchase != 50 {
		t.Fatalf("expected frozen price 50, got %v", order.Items[0].PriceAtPurchase)
	}
	if order.Total != 50 {
		t.Fatalf("expected total 50, got %v", order.Total)
	}
}

func TestBuildOrderRejectsEmptyItems(t *testing.T) {
	_, err := BuildOrder(primitive.NewObjectID(), nil, nil, models.PaymentMethodCard)
	if !errors.Is(err, ErrEmptyOrder) {
		t.Fatalf("expected ErrEmptyOrder, got %v", err)
	}
}

func TestBuildOrderInitialPaymentStatus(t *testing.T) {
	userID := primitive.NewObjectID()
	p := testProduct(5, 10)
	products := map[primitive.ObjectID]models.Product{p.ID: p}
	items := []models.CartItem{{ProductID: p.ID, Quantity: 1}}

	cod, err := BuildOrder(userID, items, products, models.PaymentMethodCOD)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cod.PaymentStatus != models.PaymentStatusPending {
		t.Fatalf("cod order must start Pending, got %s", cod.PaymentStatus)
	}

	for _, method := range []models.PaymentMethod{models.PaymentMethodCard, models.PaymentMethodUPI, models.PaymentMethodNetbanking} {
		order, err := BuildOrder(userID, items, products, method)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if order.PaymentStatus != models.PaymentStatusProcessing {
			t.Fatalf("%s order must start Processing, got %s", method, order.PaymentStatus)
		}
	}
}

func TestBuildOrderCapturesCodEligibility(t *testing.T) {
	userID := primitive.NewObjectID()
	p := testProduct(5, 10)
	p.CodAvailable = false
	products := map[primitive.ObjectID]models.Product{p.ID: p}

	order, err := BuildOrder(userID, []models.CartItem{{ProductID: p.ID, Quantity: 1}}, products, models.PaymentMethodCard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Items[0].CodEligible {
		t.Fatal("expected codEligible to be captured as false")
	}
}
