package bookings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusActive, false},
		{StatusPending, StatusCompleted, false},

		{StatusConfirmed, StatusActive, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusCompleted, false},
		{StatusConfirmed, StatusPending, false},

		{StatusActive, StatusCompleted, true},
		{StatusActive, StatusCancelled, false},

		// Terminal states allow nothing.
		{StatusCompleted, StatusActive, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
	}

	for _, tt := range tests {
		got := tt.from.CanTransitionTo(tt.to)
		assert.Equal(t, tt.allowed, got, "%s -> %s", tt.from, tt.to)
	}
}

func TestStatusBlocksAvailability(t *testing.T) {
	assert.True(t, StatusPending.BlocksAvailability())
	assert.True(t, StatusConfirmed.BlocksAvailability())
	assert.True(t, StatusActive.BlocksAvailability())
	assert.False(t, StatusCompleted.BlocksAvailability())
	assert.False(t, StatusCancelled.BlocksAvailability())
}

func TestStatusTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
	assert.False(t, StatusActive.IsTerminal())
}

func TestPaymentStatusTransitions(t *testing.T) {
	tests := []struct {
		from    PaymentStatus
		to      PaymentStatus
		allowed bool
	}{
		{PaymentUnpaid, PaymentProcessing, true},
		{PaymentUnpaid, PaymentPaid, true},
		{PaymentUnpaid, PaymentNotRequired, true},
		{PaymentUnpaid, PaymentRefunded, false},

		{PaymentProcessing, PaymentPaid, true},
		{PaymentProcessing, PaymentUnpaid, true},
		{PaymentProcessing, PaymentRefunded, false},

		{PaymentPaid, PaymentRefundPending, true},
		{PaymentPaid, PaymentRefunded, true},
		{PaymentPaid, PaymentUnpaid, false},

		{PaymentRefundPending, PaymentRefunded, true},
		{PaymentRefunded, PaymentPaid, false},
	}

	for _, tt := range tests {
		got := tt.from.CanTransitionTo(tt.to)
		assert.Equal(t, tt.allowed, got, "%s -> %s", tt.from, tt.to)
	}
}

func TestPaymentStatusAllowsPickup(t *testing.T) {
	assert.True(t, PaymentPaid.AllowsPickup())
	assert.True(t, PaymentNotRequired.AllowsPickup())
	assert.False(t, PaymentUnpaid.AllowsPickup())
	assert.False(t, PaymentProcessing.AllowsPickup())
	assert.False(t, PaymentRefunded.AllowsPickup())
}
