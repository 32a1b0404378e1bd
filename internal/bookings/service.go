package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"motoshare/internal/vehicles"
	"motoshare/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RefundPolicy computes the refund tier for a cancellation
// (implemented by the cancellation package, injected to avoid a cycle).
type RefundPolicy interface {
	Evaluate(pickupDate time.Time, now time.Time) int // refund percent: 100, 50 or 0
}

// Notifier publishes booking lifecycle events fire-and-forget. A publish
// failure must never roll back a transition, so implementations swallow
// their own errors.
type Notifier interface {
	BookingConfirmed(ctx context.Context, b *Booking)
	BookingCancelled(ctx context.Context, b *Booking)
	BookingCompleted(ctx context.Context, b *Booking)
}

// Config carries the settlement parameters the engine prices against.
type Config struct {
	CommissionRateBP int
	ServiceFeeRateBP int
	ConfirmWindow    time.Duration

	// PaymentConfigured toggles whether new bookings owe a payment at all.
	// Without a checkout provider, bookings proceed unpaid.
	PaymentConfigured bool
}

// Service interface defines the contract for booking business logic
type Service interface {
	Create(ctx context.Context, renterID uuid.UUID, isVerified bool, req CreateBookingRequest) (*Booking, error)
	GetBooking(ctx context.Context, bookingID uuid.UUID, actorID uuid.UUID, isAdmin bool) (*Booking, error)
	GetRenterBookings(ctx context.Context, renterID uuid.UUID, query ListQuery) ([]Booking, int64, error)
	GetOwnerBookings(ctx context.Context, ownerID uuid.UUID, query ListQuery) ([]Booking, int64, error)

	// Payment reconciliation (driven by the payments service)
	AttachPaymentSession(ctx context.Context, bookingID uuid.UUID, sessionID string) (*Booking, error)
	MarkPaymentNotRequired(ctx context.Context, bookingID uuid.UUID) (*Booking, error)
	ConfirmPayment(ctx context.Context, sessionID string) (*Booking, error)
	MarkRefunded(ctx context.Context, sessionID string) (*Booking, error)

	// Lifecycle transitions
	BeginRental(ctx context.Context, bookingID uuid.UUID, actorID uuid.UUID) (*Booking, error)
	CompleteRental(ctx context.Context, bookingID uuid.UUID, actorID uuid.UUID) (*Booking, error)
	Cancel(ctx context.Context, bookingID uuid.UUID, actorID uuid.UUID, isAdmin bool, reason string) (*Booking, error)

	// Background maintenance
	ExpireStalePending(ctx context.Context) (int64, error)
}

type service struct {
	repo     Repository
	vehicles vehicles.Repository
	policy   RefundPolicy
	notifier Notifier
	cfg      Config
	log      *logger.Logger
}

// NewService creates a new booking service instance. notifier may be nil.
func NewService(repo Repository, vehicleRepo vehicles.Repository, policy RefundPolicy, notifier Notifier, cfg Config) Service {
	return &service{
		repo:     repo,
		vehicles: vehicleRepo,
		policy:   policy,
		notifier: notifier,
		cfg:      cfg,
		log:      logger.GetDefault(),
	}
}

// Create reserves the vehicle for the range and prices the booking. The
// breakdown is snapshotted once here and never recomputed.
func (s *service) Create(ctx context.Context, renterID uuid.UUID, isVerified bool, req CreateBookingRequest) (*Booking, error) {
	if !isVerified {
		return nil, ErrRenterNotVerified
	}

	pickup, returnDate, err := req.ParseDates()
	if err != nil {
		return nil, err
	}
	if !returnDate.After(pickup) {
		return nil, ErrInvalidDates
	}

	vehicleID, err := uuid.Parse(req.VehicleID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid vehicle id", ErrInvalidDates)
	}

	vehicle, err := s.vehicles.GetByID(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotListed
		}
		return nil, fmt.Errorf("failed to load vehicle: %w", err)
	}
	if !vehicle.Listed {
		return nil, ErrVehicleNotListed
	}
	if vehicle.OwnerID == renterID {
		return nil, ErrOwnVehicle
	}

	breakdown := ComputePrice(vehicle.PricePerDay, pickup, returnDate,
		s.cfg.CommissionRateBP, s.cfg.ServiceFeeRateBP, vehicle.DepositAmount)

	paymentStatus := PaymentUnpaid
	if !s.cfg.PaymentConfigured {
		paymentStatus = PaymentNotRequired
	}

	booking := &Booking{
		VehicleID:           vehicle.ID,
		RenterID:            renterID,
		OwnerID:             vehicle.OwnerID,
		PickupDate:          pickup,
		ReturnDate:          returnDate,
		RentalDays:          breakdown.RentalDays,
		PricePerDaySnapshot: breakdown.PricePerDay,
		Subtotal:            breakdown.Subtotal,
		ServiceFeeAmount:    breakdown.ServiceFeeAmount,
		CommissionAmount:    breakdown.CommissionAmount,
		OwnerEarnings:       breakdown.OwnerEarnings,
		TotalPrice:          breakdown.TotalPrice,
		DepositAmount:       breakdown.DepositAmount,
		Status:              StatusPending,
		PaymentStatus:       paymentStatus,
	}

	if err := s.repo.CreateWithAvailabilityCheck(ctx, booking); err != nil {
		return nil, err
	}

	s.log.LogBookingCreated(ctx, booking.ID.String(), booking.VehicleID.String(), renterID.String())
	return booking, nil
}

func (s *service) GetBooking(ctx context.Context, bookingID uuid.UUID, actorID uuid.UUID, isAdmin bool) (*Booking, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && booking.RenterID != actorID && booking.OwnerID != actorID {
		return nil, ErrNotAuthorized
	}
	return booking, nil
}

func (s *service) GetRenterBookings(ctx context.Context, renterID uuid.UUID, query ListQuery) ([]Booking, int64, error) {
	return s.repo.GetByRenter(ctx, renterID, query)
}

func (s *service) GetOwnerBookings(ctx context.Context, ownerID uuid.UUID, query ListQuery) ([]Booking, int64, error) {
	return s.repo.GetByOwner(ctx, ownerID, query)
}

// AttachPaymentSession records the checkout session handle and moves the
// payment to PROCESSING. Re-attaching the same session is a no-op so
// createSession stays idempotent.
func (s *service) AttachPaymentSession(ctx context.Context, bookingID uuid.UUID, sessionID string) (*Booking, error) {
	return s.repo.Transition(ctx, bookingID, func(tx *gorm.DB, b *Booking) error {
		if b.PaymentSessionID != nil && *b.PaymentSessionID == sessionID {
			return nil
		}
		if b.Status != StatusPending {
			return ErrInvalidTransition
		}
		if !b.PaymentStatus.CanTransitionTo(PaymentProcessing) {
			return ErrInvalidTransition
		}
		b.PaymentSessionID = &sessionID
		b.PaymentStatus = PaymentProcessing
		return nil
	})
}

// MarkPaymentNotRequired flags a booking as payable-out-of-band because no
// checkout provider is configured. The booking stays PENDING and may go
// straight to pickup.
func (s *service) MarkPaymentNotRequired(ctx context.Context, bookingID uuid.UUID) (*Booking, error) {
	return s.repo.Transition(ctx, bookingID, func(tx *gorm.DB, b *Booking) error {
		if b.PaymentStatus == PaymentNotRequired {
			return nil
		}
		if b.Status != StatusPending || !b.PaymentStatus.CanTransitionTo(PaymentNotRequired) {
			return ErrInvalidTransition
		}
		b.PaymentStatus = PaymentNotRequired
		return nil
	})
}

// ConfirmPayment applies a verified payment to the booking. This is the
// idempotency guard against duplicate webhook delivery: a booking already
// confirmed or beyond is returned unchanged rather than rejected.
func (s *service) ConfirmPayment(ctx context.Context, sessionID string) (*Booking, error) {
	existing, err := s.repo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var confirmed bool
	booking, err := s.repo.Transition(ctx, existing.ID, func(tx *gorm.DB, b *Booking) error {
		if b.Status != StatusPending {
			// Duplicate delivery, or payment landed after expiry. Expected,
			// not an error.
			return nil
		}
		b.Status = StatusConfirmed
		b.PaymentStatus = PaymentPaid
		now := time.Now().UTC()
		b.ConfirmedAt = &now
		confirmed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if confirmed {
		s.log.LogPaymentReconciled(ctx, booking.ID.String(), sessionID)
		s.log.LogBookingTransition(ctx, booking.ID.String(), StatusPending.String(), StatusConfirmed.String())
		if s.notifier != nil {
			s.notifier.BookingConfirmed(ctx, booking)
		}
	}
	return booking, nil
}

// MarkRefunded records that the provider completed a refund.
func (s *service) MarkRefunded(ctx context.Context, sessionID string) (*Booking, error) {
	existing, err := s.repo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return s.repo.Transition(ctx, existing.ID, func(tx *gorm.DB, b *Booking) error {
		if b.PaymentStatus == PaymentRefunded {
			return nil
		}
		if !b.PaymentStatus.CanTransitionTo(PaymentRefunded) {
			return ErrInvalidTransition
		}
		b.PaymentStatus = PaymentRefunded
		return nil
	})
}

// BeginRental marks the pickup handoff. Only the vehicle owner confirms a
// pickup. A PENDING booking whose payment is NOT_REQUIRED is confirmed on
// the spot, since there is no payment event to do it first.
func (s *service) BeginRental(ctx context.Context, bookingID uuid.UUID, actorID uuid.UUID) (*Booking, error) {
	booking, err := s.repo.Transition(ctx, bookingID, func(tx *gorm.DB, b *Booking) error {
		if b.OwnerID != actorID {
			return ErrNotAuthorized
		}
		if !b.PaymentStatus.AllowsPickup() {
			return ErrInvalidTransition
		}
		if b.Status == StatusPending && b.PaymentStatus == PaymentNotRequired {
			now := time.Now().UTC()
			b.Status = StatusConfirmed
			b.ConfirmedAt = &now
		}
		if !b.Status.CanTransitionTo(StatusActive) {
			return ErrInvalidTransition
		}
		b.Status = StatusActive
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.LogBookingTransition(ctx, booking.ID.String(), StatusConfirmed.String(), StatusActive.String())
	return booking, nil
}

// CompleteRental marks the return handoff and releases the reservation.
func (s *service) CompleteRental(ctx context.Context, bookingID uuid.UUID, actorID uuid.UUID) (*Booking, error) {
	booking, err := s.repo.Transition(ctx, bookingID, func(tx *gorm.DB, b *Booking) error {
		if b.OwnerID != actorID {
			return ErrNotAuthorized
		}
		if !b.Status.CanTransitionTo(StatusCompleted) {
			return ErrInvalidTransition
		}
		b.Status = StatusCompleted
		now := time.Now().UTC()
		b.CompletedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.LogBookingTransition(ctx, booking.ID.String(), StatusActive.String(), StatusCompleted.String())
	if s.notifier != nil {
		s.notifier.BookingCompleted(ctx, booking)
	}
	return booking, nil
}

// Cancel moves the booking to its terminal cancelled state and records the
// refund tier. Legal from PENDING and CONFIRMED; from ACTIVE only through
// the admin no-show override, at 0% refund.
func (s *service) Cancel(ctx context.Context, bookingID uuid.UUID, actorID uuid.UUID, isAdmin bool, reason string) (*Booking, error) {
	now := time.Now().UTC()

	booking, err := s.repo.Transition(ctx, bookingID, func(tx *gorm.DB, b *Booking) error {
		if !isAdmin && b.RenterID != actorID && b.OwnerID != actorID {
			return ErrNotAuthorized
		}

		adminOverride := isAdmin && b.Status == StatusActive
		if !b.Status.CanBeCancelled() && !adminOverride {
			return ErrInvalidTransition
		}
		// Past the pickup moment only an admin may cancel (no-shows,
		// disputes); renters and owners are locked in.
		if !now.Before(b.PickupDate) && !isAdmin {
			return ErrInvalidTransition
		}

		refundPercent := 0
		if b.Status.CanBeCancelled() {
			refundPercent = s.policy.Evaluate(b.PickupDate, now)
		}

		refundAmount := int64(0)
		if b.PaymentStatus == PaymentPaid {
			refundAmount = b.TotalPrice * int64(refundPercent) / 100
		}

		b.Status = StatusCancelled
		if b.PaymentStatus == PaymentPaid && refundAmount > 0 {
			b.PaymentStatus = PaymentRefundPending
		}
		// Saved through the booking association in the same transaction.
		b.Cancellation = &Cancellation{
			BookingID:     b.ID,
			CancelledBy:   actorID,
			ActorRole:     cancelActorRole(b, actorID, isAdmin),
			Reason:        reason,
			RefundPercent: refundPercent,
			RefundAmount:  refundAmount,
			CancelledAt:   now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.LogBookingTransition(ctx, booking.ID.String(), "", StatusCancelled.String())
	if s.notifier != nil {
		s.notifier.BookingCancelled(ctx, booking)
	}
	return booking, nil
}

// ExpireStalePending cancels unpaid PENDING bookings older than the
// confirmation window. Nothing was charged, so no refund record is written.
func (s *service) ExpireStalePending(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().Add(-s.cfg.ConfirmWindow)
	return s.repo.ExpirePending(ctx, cutoff)
}

func cancelActorRole(b *Booking, actorID uuid.UUID, isAdmin bool) string {
	switch {
	case b.RenterID == actorID:
		return "RENTER"
	case b.OwnerID == actorID:
		return "OWNER"
	case isAdmin:
		return "ADMIN"
	default:
		return "UNKNOWN"
	}
}
