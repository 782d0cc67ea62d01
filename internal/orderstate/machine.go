// Package orderstate enforces the order and payment status machines and their
// gated side effects: delivery timestamps, cash auto-collection, refunds and
// notifications.
package orderstate

import (
	"github.com/example/foodcourt/internal/apperr"
	"github.com/example/foodcourt/internal/models"
)

// orderTransitions is the fixed directed graph over order status. Absent
// sources are terminal.
var orderTransitions = map[string][]string{
	models.OrderPending:        {models.OrderAccepted, models.OrderRejected},
	models.OrderAccepted:       {models.OrderPreparing, models.OrderCancelled},
	models.OrderPreparing:      {models.OrderReady},
	models.OrderReady:          {models.OrderOutForDelivery},
	models.OrderOutForDelivery: {models.OrderDelivered},
}

// paymentTransitions applies to cash orders only; card payment state is owned
// by the gateway.
var paymentTransitions = map[string][]string{
	models.PaymentStatusPending: {models.PaymentStatusPaid, models.PaymentStatusFailed},
	models.PaymentStatusPaid:    {models.PaymentStatusRefunded, models.PaymentStatusPending},
	models.PaymentStatusFailed:  {models.PaymentStatusPaid, models.PaymentStatusPending},
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// CanTransition reports whether the order-status pair appears in the table.
func CanTransition(from, to string) bool {
	return contains(orderTransitions[from], to)
}

// ValidateTransition returns an InvalidTransition error naming the pair when
// it is not allowed.
func ValidateTransition(from, to string) error {
	if !CanTransition(from, to) {
		return apperr.InvalidTransition(from, to)
	}
	return nil
}

// CanPaymentTransition reports whether the payment-status pair is allowed.
func CanPaymentTransition(from, to string) bool {
	return contains(paymentTransitions[from], to)
}

// ValidatePaymentTransition additionally guards REFUNDED on the current
// status being exactly PAID.
func ValidatePaymentTransition(from, to string) error {
	if !CanPaymentTransition(from, to) {
		return apperr.InvalidTransition(from, to)
	}
	if to == models.PaymentStatusRefunded && from != models.PaymentStatusPaid {
		return apperr.InvalidTransition(from, to)
	}
	return nil
}
