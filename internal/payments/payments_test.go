package payments

import (
	"context"
	"errors"
	"testing"

	"github.com/stripe/stripe-go/v78"

	"backend/internal/models"
)

func TestInitialStatus(t *testing.T) {
	if got := InitialStatus(models.PaymentMethodCOD); got != models.PaymentStatusPending {
		t.Fatalf("cod must start Pending, got %s", got)
	}
	for _, m := range []models.PaymentMethod{models.PaymentMethodCard, models.PaymentMethodUPI, models.PaymentMethodNetbanking} {
		if got := InitialStatus(m); got != models.PaymentStatusProcessing {
			t.Fatalf("%s must start Processing, got %s", m, got)
		}
	}
}

func TestPaymentRequired(t *testing.T) {
	if PaymentRequired(models.PaymentMethodCOD) {
		t.Fatal("cod must not require payment")
	}
	if !PaymentRequired(models.PaymentMethodUPI) {
		t.Fatal("upi must require payment")
	}
}

type fakeIntentAPI struct {
	params *stripe.PaymentIntentParams
	intent *stripe.PaymentIntent
	err    error
}

func (f *fakeIntentAPI) New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	f.params = params
	if f.err != nil {
		return nil, f.err
	}
	return f.intent, nil
}

func TestStripeGatewayCreateIntent(t *testing.T) {
	api := &fakeIntentAPI{intent: &stripe.PaymentIntent{ClientSecret: "pi_123_secret"}}
	gateway, err := NewStripeGateway("", api)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	secret, err := gateway.CreateIntent(context.Background(), 249.50, "INR")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if secret != "pi_123_secret" {
		t.Fatalf("unexpected client secret %q", secret)
	}
	if got := *api.params.Amount; got != 24950 {
		t.Fatalf("expected minor-unit amount 24950, got %d", got)
	}
	if got := *api.params.Currency; got != "inr" {
		t.Fatalf("expected currency inr, got %q", got)
	}
}

func TestStripeGatewayRejectsBadInput(t *testing.T) {
	gateway, err := NewStripeGateway("", &fakeIntentAPI{intent: &stripe.PaymentIntent{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := gateway.CreateIntent(context.Background(), 0, "inr"); err == nil {
		t.Fatal("expected error for non-positive amount")
	}
	if _, err := gateway.CreateIntent(context.Background(), 10, " "); err == nil {
		t.Fatal("expected error for missing currency")
	}
}

func TestStripeGatewayPropagatesAPIError(t *testing.T) {
	api := &fakeIntentAPI{err: errors.New("stripe unavailable")}
	gateway, err := NewStripeGateway("", api)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := gateway.CreateIntent(context.Background(), 10, "inr"); err == nil {
		t.Fatal("expected gateway error to propagate")
	}
}

func TestNewStripeGatewayRequiresKey(t *testing.T) {
	if _, err := NewStripeGateway("", nil); err == nil {
		t.Fatal("expected error when api key and client are both missing")
	}
}
