package payments

import "backend/internal/models"

// InitialStatus decides the payment status a freshly created order starts
// in. COD settles on delivery and stays Pending; every gateway method goes
// straight to Processing while the external gateway settles it.
func InitialStatus(method models.PaymentMethod) models.PaymentStatus {
	if method == models.PaymentMethodCOD {
		return models.PaymentStatusPending
	}
	return models.PaymentStatusProcessing
}

// PaymentRequired reports whether the client must complete an external
// payment step after checkout.
func PaymentRequired(method models.PaymentMethod) bool {
	return method.RequiresGateway()
}
