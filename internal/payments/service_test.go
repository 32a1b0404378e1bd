package payments

import (
	"context"
	"errors"
	"testing"
	"time"

	"motoshare/internal/bookings"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider returns canned sessions.
type fakeProvider struct {
	sessions map[string]*Session
	created  int
	refunds  map[string]int64
	failGets int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		sessions: make(map[string]*Session),
		refunds:  make(map[string]int64),
	}
}

func (p *fakeProvider) Configured() bool { return true }

func (p *fakeProvider) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	p.created++
	session := &Session{
		ID:          uuid.NewString(),
		URL:         "https://checkout.example/" + req.Reference,
		Status:      SessionOpen,
		AmountTotal: req.AmountTotal,
		Reference:   req.Reference,
	}
	p.sessions[session.ID] = session
	return session, nil
}

func (p *fakeProvider) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	if p.failGets > 0 {
		p.failGets--
		return nil, errors.New("provider unreachable")
	}
	session, ok := p.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (p *fakeProvider) RefundSession(ctx context.Context, sessionID string, amount int64) error {
	p.refunds[sessionID] = amount
	return nil
}

// fakeReconciler is an in-memory BookingReconciler.
type fakeReconciler struct {
	bookings map[uuid.UUID]*bookings.Booking
}

func (f *fakeReconciler) byID(id uuid.UUID) (*bookings.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookings.ErrBookingNotFound
	}
	return b, nil
}

func (f *fakeReconciler) bySession(sessionID string) (*bookings.Booking, error) {
	for _, b := range f.bookings {
		if b.PaymentSessionID != nil && *b.PaymentSessionID == sessionID {
			return b, nil
		}
	}
	return nil, bookings.ErrBookingNotFound
}

func (f *fakeReconciler) GetBooking(ctx context.Context, bookingID uuid.UUID, actorID uuid.UUID, isAdmin bool) (*bookings.Booking, error) {
	return f.byID(bookingID)
}

func (f *fakeReconciler) AttachPaymentSession(ctx context.Context, bookingID uuid.UUID, sessionID string) (*bookings.Booking, error) {
	b, err := f.byID(bookingID)
	if err != nil {
		return nil, err
	}
	b.PaymentSessionID = &sessionID
	b.PaymentStatus = bookings.PaymentProcessing
	return b, nil
}

func (f *fakeReconciler) ConfirmPayment(ctx context.Context, sessionID string) (*bookings.Booking, error) {
	b, err := f.bySession(sessionID)
	if err != nil {
		return nil, err
	}
	if b.Status == bookings.StatusPending {
		b.Status = bookings.StatusConfirmed
		b.PaymentStatus = bookings.PaymentPaid
	}
	return b, nil
}

func (f *fakeReconciler) MarkRefunded(ctx context.Context, sessionID string) (*bookings.Booking, error) {
	b, err := f.bySession(sessionID)
	if err != nil {
		return nil, err
	}
	b.PaymentStatus = bookings.PaymentRefunded
	return b, nil
}

// fakeCache implements the dedupe surface of cache.Service in memory.
type fakeCache struct {
	keys map[string]bool
}

func newFakeCache() *fakeCache { return &fakeCache{keys: make(map[string]bool)} }

func (c *fakeCache) Get(ctx context.Context, key string, dest interface{}) error { return nil }
func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}
func (c *fakeCache) Delete(ctx context.Context, key string) error {
	delete(c.keys, key)
	return nil
}
func (c *fakeCache) Exists(ctx context.Context, key string) bool  { return c.keys[key] }
func (c *fakeCache) SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error) {
	if c.keys[key] {
		return false, nil
	}
	c.keys[key] = true
	return true, nil
}
func (c *fakeCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	return nil
}
func (c *fakeCache) Ping(ctx context.Context) error { return nil }

func pendingBooking(renterID uuid.UUID) *bookings.Booking {
	return &bookings.Booking{
		ID:            uuid.New(),
		VehicleID:     uuid.New(),
		RenterID:      renterID,
		OwnerID:       uuid.New(),
		RentalDays:    2,
		TotalPrice:    8400,
		Status:        bookings.StatusPending,
		PaymentStatus: bookings.PaymentUnpaid,
	}
}

func newPaymentFixture(booking *bookings.Booking) (*fakeProvider, *fakeReconciler, Service) {
	provider := newFakeProvider()
	reconciler := &fakeReconciler{bookings: map[uuid.UUID]*bookings.Booking{booking.ID: booking}}
	svc := NewService(provider, reconciler, newFakeCache(),
		"https://app.example/success", "https://app.example/cancel")
	return provider, reconciler, svc
}

func TestCreateCheckoutSession(t *testing.T) {
	renterID := uuid.New()
	booking := pendingBooking(renterID)
	provider, _, svc := newPaymentFixture(booking)

	resp, err := svc.CreateCheckoutSession(context.Background(), booking.ID, renterID)
	require.NoError(t, err)

	assert.Equal(t, int64(8400), resp.AmountTotal)
	assert.NotEmpty(t, resp.CheckoutURL)
	assert.Equal(t, 1, provider.created)
	assert.Equal(t, bookings.PaymentProcessing, booking.PaymentStatus)
}

func TestCreateCheckoutSessionReusesOpenSession(t *testing.T) {
	renterID := uuid.New()
	booking := pendingBooking(renterID)
	provider, _, svc := newPaymentFixture(booking)

	first, err := svc.CreateCheckoutSession(context.Background(), booking.ID, renterID)
	require.NoError(t, err)

	second, err := svc.CreateCheckoutSession(context.Background(), booking.ID, renterID)
	require.NoError(t, err)

	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Equal(t, 1, provider.created, "an open session must be reused, not replaced")
}

func TestCreateCheckoutSessionRejectsOtherUsers(t *testing.T) {
	booking := pendingBooking(uuid.New())
	_, _, svc := newPaymentFixture(booking)

	_, err := svc.CreateCheckoutSession(context.Background(), booking.ID, uuid.New())
	assert.ErrorIs(t, err, bookings.ErrNotAuthorized)
}

func TestCreateCheckoutSessionRejectsNonPending(t *testing.T) {
	renterID := uuid.New()
	booking := pendingBooking(renterID)
	booking.Status = bookings.StatusConfirmed
	_, _, svc := newPaymentFixture(booking)

	_, err := svc.CreateCheckoutSession(context.Background(), booking.ID, renterID)
	assert.ErrorIs(t, err, bookings.ErrInvalidTransition)
}

func TestHandleWebhookConfirmsPayment(t *testing.T) {
	renterID := uuid.New()
	booking := pendingBooking(renterID)
	provider, _, svc := newPaymentFixture(booking)

	resp, err := svc.CreateCheckoutSession(context.Background(), booking.ID, renterID)
	require.NoError(t, err)
	provider.sessions[resp.SessionID].Status = SessionPaid

	event := WebhookEvent{ID: "evt_1", Type: EventCheckoutCompleted}
	event.Data.SessionID = resp.SessionID

	require.NoError(t, svc.HandleWebhook(context.Background(), event))
	assert.Equal(t, bookings.StatusConfirmed, booking.Status)
	assert.Equal(t, bookings.PaymentPaid, booking.PaymentStatus)
}

func TestHandleWebhookDeduplicatesByEventID(t *testing.T) {
	renterID := uuid.New()
	booking := pendingBooking(renterID)
	provider, _, svc := newPaymentFixture(booking)

	resp, err := svc.CreateCheckoutSession(context.Background(), booking.ID, renterID)
	require.NoError(t, err)
	provider.sessions[resp.SessionID].Status = SessionPaid

	event := WebhookEvent{ID: "evt_dup", Type: EventCheckoutCompleted}
	event.Data.SessionID = resp.SessionID

	require.NoError(t, svc.HandleWebhook(context.Background(), event))
	first := booking.Status

	// Redelivery of the same event is swallowed.
	require.NoError(t, svc.HandleWebhook(context.Background(), event))
	assert.Equal(t, first, booking.Status)
}

func TestHandleWebhookRedeliveryAfterTransientFailure(t *testing.T) {
	renterID := uuid.New()
	booking := pendingBooking(renterID)
	provider, _, svc := newPaymentFixture(booking)

	resp, err := svc.CreateCheckoutSession(context.Background(), booking.ID, renterID)
	require.NoError(t, err)
	provider.sessions[resp.SessionID].Status = SessionPaid

	event := WebhookEvent{ID: "evt_retry", Type: EventCheckoutCompleted}
	event.Data.SessionID = resp.SessionID

	// First delivery fails mid-processing; the handler must surface the
	// error so the provider redelivers.
	provider.failGets = 1
	require.Error(t, svc.HandleWebhook(context.Background(), event))
	assert.Equal(t, bookings.StatusPending, booking.Status)

	// The redelivery carries the same event ID and must not be treated
	// as a duplicate of the failed attempt.
	require.NoError(t, svc.HandleWebhook(context.Background(), event))
	assert.Equal(t, bookings.StatusConfirmed, booking.Status)
	assert.Equal(t, bookings.PaymentPaid, booking.PaymentStatus)
}

func TestHandleWebhookUnknownSessionIsAcknowledged(t *testing.T) {
	booking := pendingBooking(uuid.New())
	provider, _, svc := newPaymentFixture(booking)

	provider.sessions["cs_orphan"] = &Session{ID: "cs_orphan", Status: SessionPaid, Reference: uuid.NewString()}

	event := WebhookEvent{ID: "evt_orphan", Type: EventCheckoutCompleted}
	event.Data.SessionID = "cs_orphan"

	// Unknown bookings must not bounce the webhook into endless retries.
	assert.NoError(t, svc.HandleWebhook(context.Background(), event))
}

func TestHandleWebhookRefund(t *testing.T) {
	renterID := uuid.New()
	booking := pendingBooking(renterID)
	provider, _, svc := newPaymentFixture(booking)

	resp, err := svc.CreateCheckoutSession(context.Background(), booking.ID, renterID)
	require.NoError(t, err)
	provider.sessions[resp.SessionID].Status = SessionRefunded

	event := WebhookEvent{ID: "evt_refund", Type: EventChargeRefunded}
	event.Data.SessionID = resp.SessionID

	require.NoError(t, svc.HandleWebhook(context.Background(), event))
	assert.Equal(t, bookings.PaymentRefunded, booking.PaymentStatus)
}

func TestInitiateRefund(t *testing.T) {
	renterID := uuid.New()
	booking := pendingBooking(renterID)
	provider, _, svc := newPaymentFixture(booking)

	resp, err := svc.CreateCheckoutSession(context.Background(), booking.ID, renterID)
	require.NoError(t, err)

	booking.PaymentStatus = bookings.PaymentRefundPending
	booking.Cancellation = &bookings.Cancellation{RefundAmount: 4200}

	require.NoError(t, svc.InitiateRefund(context.Background(), booking.ID))
	assert.Equal(t, int64(4200), provider.refunds[resp.SessionID])
}

func TestInitiateRefundRequiresRefundPending(t *testing.T) {
	booking := pendingBooking(uuid.New())
	_, _, svc := newPaymentFixture(booking)

	err := svc.InitiateRefund(context.Background(), booking.ID)
	assert.ErrorIs(t, err, bookings.ErrInvalidTransition)
}
