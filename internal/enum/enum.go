package enum

// ── Checkout steps ──

const (
	StepInfo         = "info"
	StepPayment      = "payment"
	StepConfirmation = "confirmation"
	StepPix          = "pix"
	StepSuccess      = "success"
)

// ── Order lifecycle ──

const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusDelivered = "delivered"
	OrderStatusCompleted = "completed"
)

const (
	OrderTypeDelivery = "delivery"
	OrderTypePickup   = "pickup"
)

const (
	PaymentMethodCredit = "credit"
	PaymentMethodPix    = "pix"
	PaymentMethodCash   = "cash"
)

// ── Upstream wire values ──
// The submission endpoint speaks PT-BR. Local values stay English; only the
// outbound payload is translated.

const (
	WireOrderTypePickup     = "retirada"
	WirePaymentMethodCash   = "dinheiro"
	WirePaymentMethodCredit = "credito/debito"
	WireOrderStatusPending  = "pendente"
)

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusReady, OrderStatusDelivered, OrderStatusCompleted:
		return true
	}
	return false
}

// ValidOrderType reports whether s is a known order type.
func ValidOrderType(s string) bool {
	return s == OrderTypeDelivery || s == OrderTypePickup
}

// ValidPaymentMethod reports whether s is a known payment method.
func ValidPaymentMethod(s string) bool {
	switch s {
	case PaymentMethodCredit, PaymentMethodPix, PaymentMethodCash:
		return true
	}
	return false
}

// WireOrderType translates a local order type to the upstream value.
func WireOrderType(s string) string {
	if s == OrderTypePickup {
		return WireOrderTypePickup
	}
	return s
}

// WirePaymentMethod translates a local payment method to the upstream value.
func WirePaymentMethod(s string) string {
	switch s {
	case PaymentMethodCash:
		return WirePaymentMethodCash
	case PaymentMethodCredit:
		return WirePaymentMethodCredit
	}
	return s
}
