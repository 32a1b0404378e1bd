package cancellation

import "time"

// Refund tiers, as percentages of the total charged amount.
const (
	FullRefund    = 100
	PartialRefund = 50
	NoRefund      = 0
)

// Policy decides the refund tier for a cancellation based on how far ahead
// of pickup it lands.
type Policy struct {
	fullRefundWindow time.Duration
}

// NewPolicy returns the standard policy: full refund at 24h or more before
// pickup, half refund inside 24h, nothing once pickup has passed.
func NewPolicy() *Policy {
	return &Policy{fullRefundWindow: 24 * time.Hour}
}

// Evaluate returns the refund percent for a cancellation at the given
// moment. Exactly 24 hours before pickup still earns the full refund.
func (p *Policy) Evaluate(pickupDate time.Time, now time.Time) int {
	if !now.Before(pickupDate) {
		return NoRefund
	}
	if pickupDate.Sub(now) >= p.fullRefundWindow {
		return FullRefund
	}
	return PartialRefund
}
