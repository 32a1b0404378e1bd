package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"motoshare/internal/bookings"
	"motoshare/internal/shared/constants"
	"motoshare/pkg/cache"
	"motoshare/pkg/logger"

	"github.com/google/uuid"
)

// BookingReconciler is the slice of the booking service the payment flow
// drives.
type BookingReconciler interface {
	GetBooking(ctx context.Context, bookingID uuid.UUID, actorID uuid.UUID, isAdmin bool) (*bookings.Booking, error)
	AttachPaymentSession(ctx context.Context, bookingID uuid.UUID, sessionID string) (*bookings.Booking, error)
	ConfirmPayment(ctx context.Context, sessionID string) (*bookings.Booking, error)
	MarkRefunded(ctx context.Context, sessionID string) (*bookings.Booking, error)
}

// Service interface defines the contract for payment business logic
type Service interface {
	CreateCheckoutSession(ctx context.Context, bookingID uuid.UUID, renterID uuid.UUID) (*CheckoutSessionResponse, error)
	VerifySession(ctx context.Context, sessionID string) (*bookings.Booking, error)
	HandleWebhook(ctx context.Context, event WebhookEvent) error
	InitiateRefund(ctx context.Context, bookingID uuid.UUID) error
	Configured() bool
}

type service struct {
	provider Provider
	book     BookingReconciler
	cache    cache.Service
	success  string
	cancel   string
	log      *logger.Logger
}

// NewService creates a new payment service instance.
func NewService(provider Provider, book BookingReconciler, cacheService cache.Service, successURL, cancelURL string) Service {
	return &service{
		provider: provider,
		book:     book,
		cache:    cacheService,
		success:  successURL,
		cancel:   cancelURL,
		log:      logger.GetDefault(),
	}
}

func (s *service) Configured() bool {
	return s.provider.Configured()
}

// CreateCheckoutSession opens a hosted checkout session for a pending
// booking. Calling it again for the same booking returns the already
// attached session instead of opening a second one.
func (s *service) CreateCheckoutSession(ctx context.Context, bookingID uuid.UUID, renterID uuid.UUID) (*CheckoutSessionResponse, error) {
	booking, err := s.book.GetBooking(ctx, bookingID, renterID, false)
	if err != nil {
		return nil, err
	}
	if booking.RenterID != renterID {
		return nil, bookings.ErrNotAuthorized
	}
	if booking.Status != bookings.StatusPending {
		return nil, bookings.ErrInvalidTransition
	}

	if booking.HasOpenSession() {
		session, err := s.provider.GetSession(ctx, *booking.PaymentSessionID)
		if err == nil && session.Status == SessionOpen {
			return &CheckoutSessionResponse{
				SessionID:   session.ID,
				CheckoutURL: session.URL,
				AmountTotal: session.AmountTotal,
			}, nil
		}
		// Previous session expired or unreachable; open a fresh one.
	}

	session, err := s.provider.CreateSession(ctx, SessionRequest{
		Reference:   booking.ID.String(),
		AmountTotal: booking.TotalPrice,
		Currency:    "usd",
		Description: fmt.Sprintf("Vehicle rental, %d day(s)", booking.RentalDays),
		SuccessURL:  s.success,
		CancelURL:   s.cancel,
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.book.AttachPaymentSession(ctx, booking.ID, session.ID); err != nil {
		return nil, err
	}

	return &CheckoutSessionResponse{
		SessionID:   session.ID,
		CheckoutURL: session.URL,
		AmountTotal: session.AmountTotal,
	}, nil
}

// VerifySession asks the provider for the session's current state and
// reconciles the booking against it. Safe to call any number of times.
func (s *service) VerifySession(ctx context.Context, sessionID string) (*bookings.Booking, error) {
	session, err := s.provider.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	switch session.Status {
	case SessionPaid:
		return s.book.ConfirmPayment(ctx, sessionID)
	case SessionRefunded:
		return s.book.MarkRefunded(ctx, sessionID)
	default:
		bookingID, err := uuid.Parse(session.Reference)
		if err != nil {
			return nil, bookings.ErrBookingNotFound
		}
		return s.book.GetBooking(ctx, bookingID, uuid.Nil, true)
	}
}

// HandleWebhook applies a provider event to the affected booking. Events
// are deduplicated by ID so redelivery is harmless, and the session state
// is re-verified with the provider rather than trusted from the payload.
func (s *service) HandleWebhook(ctx context.Context, event WebhookEvent) error {
	dedupeKey := constants.WebhookEventKey(event.ID)
	fresh, err := s.cache.SetNX(ctx, dedupeKey, "1", constants.TTL_WEBHOOK_DEDUPE)
	if err != nil {
		// Redis being down must not drop payment events; reconciliation is
		// idempotent downstream anyway.
		s.log.ErrorWithContext(ctx, "webhook dedupe check failed", err, map[string]interface{}{"event_id": event.ID})
	} else if !fresh {
		s.log.LogWebhookDuplicate(ctx, event.ID)
		return nil
	}

	switch event.Type {
	case EventCheckoutCompleted, EventChargeRefunded:
		if _, err := s.VerifySession(ctx, event.SessionID()); err != nil {
			if errors.Is(err, bookings.ErrBookingNotFound) {
				// Session belongs to no booking we know; acknowledge so the
				// provider stops retrying.
				s.log.ErrorWithContext(ctx, "webhook for unknown session", err, map[string]interface{}{"event_id": event.ID})
				return nil
			}
			// The event was delivered but not processed. Release the dedupe
			// guard so the provider's redelivery goes through; reconciliation
			// is idempotent downstream.
			if delErr := s.cache.Delete(ctx, dedupeKey); delErr != nil {
				s.log.ErrorWithContext(ctx, "failed to release webhook dedupe key", delErr, map[string]interface{}{"event_id": event.ID})
			}
			return err
		}
		return nil
	case EventCheckoutExpired:
		// The expiry sweep owns stale pending bookings; nothing to do here.
		return nil
	default:
		return nil
	}
}

// InitiateRefund asks the provider to refund the recorded amount for a
// cancelled booking awaiting settlement.
func (s *service) InitiateRefund(ctx context.Context, bookingID uuid.UUID) error {
	booking, err := s.book.GetBooking(ctx, bookingID, uuid.Nil, true)
	if err != nil {
		return err
	}
	if booking.PaymentStatus != bookings.PaymentRefundPending {
		return bookings.ErrInvalidTransition
	}
	if booking.PaymentSessionID == nil || booking.Cancellation == nil {
		return bookings.ErrInvalidTransition
	}

	refundCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	return s.provider.RefundSession(refundCtx, *booking.PaymentSessionID, booking.Cancellation.RefundAmount)
}
