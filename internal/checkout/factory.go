package checkout

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/models"
	"backend/internal/payments"
)

// BuildOrder freezes a priced order from the reserved line items. Prices and
// cod eligibility come from the server-held product records captured during
// validation, never from anything the client sent; the total is the exact
// sum over the frozen per-item prices.
func BuildOrder(userID primitive.ObjectID, items []models.CartItem, products map[primitive.ObjectID]models.Product, method models.PaymentMethod) (models.Order, error) {
	if len(items) == 0 {
		return models.Order{}, ErrEmptyOrder
	}

	lineItems := make([]models.OrderLineItem, 0, len(items))
	var total float64
	for _, item := range items {
		product := products[item.ProductID]
		lineItems = append(lineItems, models.OrderLineItem{
			ProductID:       item.ProductID,
			Name:            product.Name,
			Quantity:        item.Quantity,
			PriceAtPurchase: product.Price,
			CodEligible:     product.CodAvailable,
		})
		total += product.Price * float64(item.Quantity)
	}

	return models.Order{
		ID:            primitive.NewObjectID(),
		UserID:        userID,
		Items:         lineItems,
		Total:         total,
		PaymentMethod: method,
		PaymentStatus: payments.InitialStatus(method),
		CreatedAt:     time.Now(),
	}, nil
}
