package payments

// Webhook event types delivered by the checkout provider.
const (
	EventCheckoutCompleted = "checkout.session.completed"
	EventCheckoutExpired   = "checkout.session.expired"
	EventChargeRefunded    = "charge.refunded"
)

// WebhookEvent is the provider's event envelope.
type WebhookEvent struct {
	ID   string `json:"id" binding:"required"`
	Type string `json:"type" binding:"required"`
	Data struct {
		SessionID string `json:"session_id"`
	} `json:"data"`
}

// SessionID returns the checkout session the event refers to.
func (e WebhookEvent) SessionID() string {
	return e.Data.SessionID
}
