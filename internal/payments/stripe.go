package payments

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
)

// Gateway initiates external payment settlement. Checkout only records the
// intent; confirmation arrives later through the external collaborator.
type Gateway interface {
	CreateIntent(ctx context.Context, amount float64, currency string) (clientSecret string, err error)
}

type stripeIntentAPI interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

// StripeGateway implements Gateway on Stripe payment intents.
type StripeGateway struct {
	intents stripeIntentAPI
}

// NewStripeGateway builds a gateway from an API key. intents may be passed
// to substitute the Stripe client in tests.
func NewStripeGateway(apiKey string, intents stripeIntentAPI) (*StripeGateway, error) {
	if intents == nil {
		if strings.TrimSpace(apiKey) == "" {
			return nil, errors.New("stripe: api key is required")
		}
		sc := client.New(apiKey, nil)
		intents = sc.PaymentIntents
	}
	return &StripeGateway{intents: intents}, nil
}

// CreateIntent creates a payment intent for the given major-unit amount and
// returns the client secret the browser completes the payment with.
func (g *StripeGateway) CreateIntent(ctx context.Context, amount float64, currency string) (string, error) {
	if amount <= 0 {
		return "", fmt.Errorf("stripe: amount must be positive, got %v", amount)
	}
	currency = strings.ToLower(strings.TrimSpace(currency))
	if currency == "" {
		return "", errors.New("stripe: currency is required")
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(math.Round(amount * 100))),
		Currency: stripe.String(currency),
	}
	params.Context = ctx

	intent, err := g.intents.New(params)
	if err != nil {
		return "", err
	}
	return intent.ClientSecret, nil
}
