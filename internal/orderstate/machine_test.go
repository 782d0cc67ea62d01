package orderstate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/foodcourt/internal/apperr"
	"github.com/example/foodcourt/internal/models"
)

func TestOrderTransitions(t *testing.T) {
	tests := []struct {
		from string
		to   string
		ok   bool
	}{
		{models.OrderPending, models.OrderAccepted, true},
		{models.OrderPending, models.OrderRejected, true},
		{models.OrderAccepted, models.OrderPreparing, true},
		{models.OrderAccepted, models.OrderCancelled, true},
		{models.OrderPreparing, models.OrderReady, true},
		{models.OrderReady, models.OrderOutForDelivery, true},
		{models.OrderOutForDelivery, models.OrderDelivered, true},

		// No skipping forward.
		{models.OrderPending, models.OrderPreparing, false},
		{models.OrderPending, models.OrderDelivered, false},
		{models.OrderAccepted, models.OrderReady, false},
		{models.OrderPreparing, models.OrderOutForDelivery, false},

		// No moving backward.
		{models.OrderAccepted, models.OrderPending, false},
		{models.OrderReady, models.OrderPreparing, false},

		// Rejection only from PENDING, cancellation only from ACCEPTED.
		{models.OrderAccepted, models.OrderRejected, false},
		{models.OrderPreparing, models.OrderCancelled, false},

		// Terminal states have no exits.
		{models.OrderDelivered, models.OrderPending, false},
		{models.OrderRejected, models.OrderAccepted, false},
		{models.OrderCancelled, models.OrderPending, false},

		// Unknown statuses never transition.
		{"BOGUS", models.OrderAccepted, false},
		{models.OrderPending, "BOGUS", false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s->%s", tt.from, tt.to), func(t *testing.T) {
			assert.Equal(t, tt.ok, CanTransition(tt.from, tt.to))

			err := ValidateTransition(tt.from, tt.to)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, apperr.IsKind(err, apperr.KindInvalidTransition), "got %v", err)
			}
		})
	}
}

func TestPaymentTransitions(t *testing.T) {
	tests := []struct {
		from string
		to   string
		ok   bool
	}{
		{models.PaymentStatusPending, models.PaymentStatusPaid, true},
		{models.PaymentStatusPending, models.PaymentStatusFailed, true},
		{models.PaymentStatusPaid, models.PaymentStatusRefunded, true},
		{models.PaymentStatusPaid, models.PaymentStatusPending, true},
		{models.PaymentStatusFailed, models.PaymentStatusPaid, true},
		{models.PaymentStatusFailed, models.PaymentStatusPending, true},

		{models.PaymentStatusPending, models.PaymentStatusRefunded, false},
		{models.PaymentStatusFailed, models.PaymentStatusRefunded, false},
		{models.PaymentStatusRefunded, models.PaymentStatusPaid, false},
		{models.PaymentStatusRefunded, models.PaymentStatusPending, false},
		{models.PaymentStatusPaid, models.PaymentStatusFailed, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s->%s", tt.from, tt.to), func(t *testing.T) {
			err := ValidatePaymentTransition(tt.from, tt.to)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, apperr.IsKind(err, apperr.KindInvalidTransition), "got %v", err)
			}
		})
	}
}

func TestTerminalStatesHaveNoOutboundTransitions(t *testing.T) {
	require.NoError(t, assertTerminalConsistency())
}

func TestInvalidTransitionErrorNamesThePair(t *testing.T) {
	err := ValidateTransition(models.OrderDelivered, models.OrderPending)
	require.Error(t, err)
	assert.Contains(t, err.Error(), models.OrderDelivered)
	assert.Contains(t, err.Error(), models.OrderPending)
}
