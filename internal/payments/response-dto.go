package payments

import "motoshare/internal/bookings"

// CheckoutSessionResponse carries the hosted checkout redirect details.
type CheckoutSessionResponse struct {
	SessionID   string `json:"sessionId"`
	CheckoutURL string `json:"checkoutUrl"`
	AmountTotal int64  `json:"amountTotal"`
}

// VerifySessionResponse reports provider ground truth for a checkout
// session. Clients poll this after the checkout redirect.
type VerifySessionResponse struct {
	Paid    bool                     `json:"paid"`
	Booking bookings.BookingResponse `json:"booking"`
}
