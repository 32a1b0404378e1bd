package payments

// CreateSessionRequest represents the request to open a checkout session
type CreateSessionRequest struct {
	BookingID string `json:"bookingId" binding:"required,uuid"`
}
