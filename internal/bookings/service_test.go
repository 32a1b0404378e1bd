package bookings

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"motoshare/internal/cancellation"
	"motoshare/internal/vehicles"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeRepo is an in-memory Repository for exercising service semantics.
// The mutex mirrors the row lock: the overlap check and the insert are
// one critical section.
type fakeRepo struct {
	mu        sync.Mutex
	bookings  map[uuid.UUID]*Booking
	createErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{bookings: make(map[uuid.UUID]*Booking)}
}

func (f *fakeRepo) CreateWithAvailabilityCheck(ctx context.Context, booking *Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.bookings {
		if existing.VehicleID == booking.VehicleID &&
			existing.Status.BlocksAvailability() &&
			booking.PickupDate.Before(existing.ReturnDate) &&
			existing.PickupDate.Before(booking.ReturnDate) {
			return ErrVehicleUnavailable
		}
	}
	booking.ID = uuid.New()
	booking.CreatedAt = time.Now().UTC()
	f.bookings[booking.ID] = booking
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeRepo) GetBySessionID(ctx context.Context, sessionID string) (*Booking, error) {
	for _, b := range f.bookings {
		if b.PaymentSessionID != nil && *b.PaymentSessionID == sessionID {
			copied := *b
			return &copied, nil
		}
	}
	return nil, ErrBookingNotFound
}

func (f *fakeRepo) GetByRenter(ctx context.Context, renterID uuid.UUID, query ListQuery) ([]Booking, int64, error) {
	var out []Booking
	for _, b := range f.bookings {
		if b.RenterID == renterID {
			out = append(out, *b)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepo) GetByOwner(ctx context.Context, ownerID uuid.UUID, query ListQuery) ([]Booking, int64, error) {
	var out []Booking
	for _, b := range f.bookings {
		if b.OwnerID == ownerID {
			out = append(out, *b)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepo) Transition(ctx context.Context, id uuid.UUID, mutate func(tx *gorm.DB, b *Booking) error) (*Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	if err := mutate(nil, b); err != nil {
		return nil, err
	}
	b.UpdatedAt = time.Now().UTC()
	copied := *b
	return &copied, nil
}

func (f *fakeRepo) ExpirePending(ctx context.Context, cutoff time.Time) (int64, error) {
	var expired int64
	for _, b := range f.bookings {
		if b.Status == StatusPending &&
			(b.PaymentStatus == PaymentUnpaid || b.PaymentStatus == PaymentProcessing) &&
			b.CreatedAt.Before(cutoff) {
			b.Status = StatusCancelled
			expired++
		}
	}
	return expired, nil
}

// fakeVehicles serves a fixed fleet.
type fakeVehicles struct {
	fleet map[uuid.UUID]*vehicles.Vehicle
}

func (f *fakeVehicles) Create(ctx context.Context, v *vehicles.Vehicle) error { return nil }
func (f *fakeVehicles) Update(ctx context.Context, v *vehicles.Vehicle) error { return nil }
func (f *fakeVehicles) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]vehicles.Vehicle, error) {
	return nil, nil
}
func (f *fakeVehicles) ListListed(ctx context.Context, vehicleType string, page, limit int) ([]vehicles.Vehicle, int64, error) {
	return nil, 0, nil
}
func (f *fakeVehicles) GetByID(ctx context.Context, id uuid.UUID) (*vehicles.Vehicle, error) {
	v, ok := f.fleet[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

type recordingNotifier struct {
	confirmed int
	cancelled int
	completed int
}

func (n *recordingNotifier) BookingConfirmed(ctx context.Context, b *Booking) { n.confirmed++ }
func (n *recordingNotifier) BookingCancelled(ctx context.Context, b *Booking) { n.cancelled++ }
func (n *recordingNotifier) BookingCompleted(ctx context.Context, b *Booking) { n.completed++ }

type fixture struct {
	repo     *fakeRepo
	notifier *recordingNotifier
	service  Service
	vehicle  *vehicles.Vehicle
	ownerID  uuid.UUID
	renterID uuid.UUID
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()

	ownerID := uuid.New()
	vehicle := &vehicles.Vehicle{
		ID:            uuid.New(),
		OwnerID:       ownerID,
		Type:          "CAR",
		PricePerDay:   4000,
		DepositAmount: 20000,
		Listed:        true,
	}

	repo := newFakeRepo()
	notifier := &recordingNotifier{}
	svc := NewService(repo, &fakeVehicles{fleet: map[uuid.UUID]*vehicles.Vehicle{vehicle.ID: vehicle}},
		cancellation.NewPolicy(), notifier, cfg)

	return &fixture{
		repo:     repo,
		notifier: notifier,
		service:  svc,
		vehicle:  vehicle,
		ownerID:  ownerID,
		renterID: uuid.New(),
	}
}

func paidConfig() Config {
	return Config{CommissionRateBP: 1000, ServiceFeeRateBP: 500, ConfirmWindow: 30 * time.Minute, PaymentConfigured: true}
}

func createRequest(pickup, ret string, vehicleID uuid.UUID) CreateBookingRequest {
	return CreateBookingRequest{VehicleID: vehicleID.String(), PickupDate: pickup, ReturnDate: ret}
}

// futureDate keeps fixtures ahead of the wall clock, since cancellation
// tiers and the post-pickup cancel guard compare against time.Now.
func futureDate(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format(dateLayout)
}

func TestCreateBooking(t *testing.T) {
	fx := newFixture(t, paidConfig())
	ctx := context.Background()

	booking, err := fx.service.Create(ctx, fx.renterID, true, createRequest(futureDate(30), futureDate(32), fx.vehicle.ID))
	require.NoError(t, err)

	assert.Equal(t, StatusPending, booking.Status)
	assert.Equal(t, PaymentUnpaid, booking.PaymentStatus)
	assert.Equal(t, fx.ownerID, booking.OwnerID)
	assert.Equal(t, 2, booking.RentalDays)
	assert.Equal(t, int64(8000), booking.Subtotal)
	assert.Equal(t, int64(800), booking.CommissionAmount)
	assert.Equal(t, int64(7200), booking.OwnerEarnings)
	assert.Equal(t, int64(8400), booking.TotalPrice)
}

func TestCreateBookingRejectsUnverifiedRenter(t *testing.T) {
	fx := newFixture(t, paidConfig())

	_, err := fx.service.Create(context.Background(), fx.renterID, false, createRequest(futureDate(30), futureDate(32), fx.vehicle.ID))
	assert.ErrorIs(t, err, ErrRenterNotVerified)
}

func TestCreateBookingRejectsInvalidDateOrder(t *testing.T) {
	fx := newFixture(t, paidConfig())

	_, err := fx.service.Create(context.Background(), fx.renterID, true, createRequest(futureDate(32), futureDate(30), fx.vehicle.ID))
	assert.ErrorIs(t, err, ErrInvalidDates)

	_, err = fx.service.Create(context.Background(), fx.renterID, true, createRequest(futureDate(30), futureDate(30), fx.vehicle.ID))
	assert.ErrorIs(t, err, ErrInvalidDates)
}

func TestCreateBookingRejectsOwnVehicle(t *testing.T) {
	fx := newFixture(t, paidConfig())

	_, err := fx.service.Create(context.Background(), fx.ownerID, true, createRequest(futureDate(30), futureDate(32), fx.vehicle.ID))
	assert.ErrorIs(t, err, ErrOwnVehicle)
}

func TestCreateBookingOverlapConflict(t *testing.T) {
	fx := newFixture(t, paidConfig())
	ctx := context.Background()

	_, err := fx.service.Create(ctx, fx.renterID, true, createRequest(futureDate(30), futureDate(34), fx.vehicle.ID))
	require.NoError(t, err)

	// Overlapping range must be rejected.
	_, err = fx.service.Create(ctx, uuid.New(), true, createRequest(futureDate(32), futureDate(36), fx.vehicle.ID))
	assert.ErrorIs(t, err, ErrVehicleUnavailable)

	// Back-to-back is fine: return day is exclusive.
	_, err = fx.service.Create(ctx, uuid.New(), true, createRequest(futureDate(34), futureDate(37), fx.vehicle.ID))
	assert.NoError(t, err)
}

func TestCreateBookingConcurrentOverlapSingleWinner(t *testing.T) {
	fx := newFixture(t, paidConfig())

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = fx.service.Create(context.Background(), uuid.New(), true,
				createRequest(futureDate(30), futureDate(32), fx.vehicle.ID))
		}(i)
	}
	wg.Wait()

	var won, conflicted int
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case errors.Is(err, ErrVehicleUnavailable):
			conflicted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, won, "exactly one overlapping reservation may win")
	assert.Equal(t, attempts-1, conflicted)
}

func TestCreateBookingWithoutCheckoutProvider(t *testing.T) {
	cfg := paidConfig()
	cfg.PaymentConfigured = false
	fx := newFixture(t, cfg)

	booking, err := fx.service.Create(context.Background(), fx.renterID, true, createRequest(futureDate(30), futureDate(32), fx.vehicle.ID))
	require.NoError(t, err)

	assert.Equal(t, StatusPending, booking.Status)
	assert.Equal(t, PaymentNotRequired, booking.PaymentStatus)
}

func TestConfirmPaymentIsIdempotent(t *testing.T) {
	fx := newFixture(t, paidConfig())
	ctx := context.Background()

	booking, err := fx.service.Create(ctx, fx.renterID, true, createRequest(futureDate(30), futureDate(32), fx.vehicle.ID))
	require.NoError(t, err)

	_, err = fx.service.AttachPaymentSession(ctx, booking.ID, "cs_test_123")
	require.NoError(t, err)

	first, err := fx.service.ConfirmPayment(ctx, "cs_test_123")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, first.Status)
	assert.Equal(t, PaymentPaid, first.PaymentStatus)
	require.NotNil(t, first.ConfirmedAt)

	// Duplicate webhook delivery: same result, no error, no extra event.
	second, err := fx.service.ConfirmPayment(ctx, "cs_test_123")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, second.Status)
	assert.Equal(t, first.ConfirmedAt.Unix(), second.ConfirmedAt.Unix())
	assert.Equal(t, 1, fx.notifier.confirmed)
}

func TestConfirmPaymentAfterCancellationIsNoOp(t *testing.T) {
	fx := newFixture(t, paidConfig())
	ctx := context.Background()

	booking, err := fx.service.Create(ctx, fx.renterID, true, createRequest(futureDate(30), futureDate(32), fx.vehicle.ID))
	require.NoError(t, err)
	_, err = fx.service.AttachPaymentSession(ctx, booking.ID, "cs_late")
	require.NoError(t, err)

	_, err = fx.service.Cancel(ctx, booking.ID, fx.renterID, false, "changed plans")
	require.NoError(t, err)

	// Payment landed after the booking was already cancelled.
	result, err := fx.service.ConfirmPayment(ctx, "cs_late")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, result.Status)
	assert.Equal(t, 0, fx.notifier.confirmed)
}

func TestAttachPaymentSessionIsIdempotent(t *testing.T) {
	fx := newFixture(t, paidConfig())
	ctx := context.Background()

	booking, err := fx.service.Create(ctx, fx.renterID, true, createRequest(futureDate(30), futureDate(32), fx.vehicle.ID))
	require.NoError(t, err)

	first, err := fx.service.AttachPaymentSession(ctx, booking.ID, "cs_abc")
	require.NoError(t, err)
	assert.Equal(t, PaymentProcessing, first.PaymentStatus)

	second, err := fx.service.AttachPaymentSession(ctx, booking.ID, "cs_abc")
	require.NoError(t, err)
	assert.Equal(t, PaymentProcessing, second.PaymentStatus)
}

func TestBeginRentalRequiresSettledPayment(t *testing.T) {
	fx := newFixture(t, paidConfig())
	ctx := context.Background()

	booking, err := fx.service.Create(ctx, fx.renterID, true, createRequest(futureDate(30), futureDate(32), fx.vehicle.ID))
	require.NoError(t, err)

	// Unpaid booking cannot be handed over.
	_, err = fx.service.BeginRental(ctx, booking.ID, fx.ownerID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = fx.service.AttachPaymentSession(ctx, booking.ID, "cs_pickup")
	require.NoError(t, err)
	_, err = fx.service.ConfirmPayment(ctx, "cs_pickup")
	require.NoError(t, err)

	// Only the owner may confirm the handoff.
	_, err = fx.service.BeginRental(ctx, booking.ID, fx.renterID)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	active, err := fx.service.BeginRental(ctx, booking.ID, fx.ownerID)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, active.Status)
}

func TestBeginRentalAutoConfirmsWhenPaymentNotRequired(t *testing.T) {
	cfg := paidConfig()
	cfg.PaymentConfigured = false
	fx := newFixture(t, cfg)
	ctx := context.Background()

	booking, err := fx.service.Create(ctx, fx.renterID, true, createRequest(futureDate(30), futureDate(32), fx.vehicle.ID))
	require.NoError(t, err)
	assert.Equal(t, StatusPending, booking.Status)

	active, err := fx.service.BeginRental(ctx, booking.ID, fx.ownerID)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, active.Status)
	assert.NotNil(t, active.ConfirmedAt)
}

func TestCompleteRental(t *testing.T) {
	fx := newFixture(t, paidConfig())
	ctx := context.Background()

	booking, err := fx.service.Create(ctx, fx.renterID, true, createRequest(futureDate(30), futureDate(32), fx.vehicle.ID))
	require.NoError(t, err)
	_, err = fx.service.AttachPaymentSession(ctx, booking.ID, "cs_done")
	require.NoError(t, err)
	_, err = fx.service.ConfirmPayment(ctx, "cs_done")
	require.NoError(t, err)
	_, err = fx.service.BeginRental(ctx, booking.ID, fx.ownerID)
	require.NoError(t, err)

	done, err := fx.service.CompleteRental(ctx, booking.ID, fx.ownerID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, done.Status)
	assert.NotNil(t, done.CompletedAt)
	assert.Equal(t, 1, fx.notifier.completed)

	// Terminal: no further transitions.
	_, err = fx.service.Cancel(ctx, booking.ID, fx.renterID, false, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancelPaidBookingSchedulesRefund(t *testing.T) {
	fx := newFixture(t, paidConfig())
	ctx := context.Background()

	// Pickup far in the future: full refund tier.
	pickup := time.Now().UTC().AddDate(0, 0, 14).Format("2006-01-02")
	ret := time.Now().UTC().AddDate(0, 0, 16).Format("2006-01-02")

	booking, err := fx.service.Create(ctx, fx.renterID, true, createRequest(pickup, ret, fx.vehicle.ID))
	require.NoError(t, err)
	_, err = fx.service.AttachPaymentSession(ctx, booking.ID, "cs_refund")
	require.NoError(t, err)
	_, err = fx.service.ConfirmPayment(ctx, "cs_refund")
	require.NoError(t, err)

	cancelled, err := fx.service.Cancel(ctx, booking.ID, fx.renterID, false, "trip fell through")
	require.NoError(t, err)

	assert.Equal(t, StatusCancelled, cancelled.Status)
	assert.Equal(t, PaymentRefundPending, cancelled.PaymentStatus)
	require.NotNil(t, cancelled.Cancellation)
	assert.Equal(t, 100, cancelled.Cancellation.RefundPercent)
	assert.Equal(t, cancelled.TotalPrice, cancelled.Cancellation.RefundAmount)
	assert.Equal(t, "RENTER", cancelled.Cancellation.ActorRole)
	assert.Equal(t, 1, fx.notifier.cancelled)
}

func TestCancelUnpaidBookingHasNoRefund(t *testing.T) {
	fx := newFixture(t, paidConfig())
	ctx := context.Background()

	booking, err := fx.service.Create(ctx, fx.renterID, true, createRequest(futureDate(30), futureDate(32), fx.vehicle.ID))
	require.NoError(t, err)

	cancelled, err := fx.service.Cancel(ctx, booking.ID, fx.renterID, false, "")
	require.NoError(t, err)

	assert.Equal(t, StatusCancelled, cancelled.Status)
	assert.Equal(t, PaymentUnpaid, cancelled.PaymentStatus)
	require.NotNil(t, cancelled.Cancellation)
	assert.Equal(t, int64(0), cancelled.Cancellation.RefundAmount)
}

func TestCancelByStrangerIsForbidden(t *testing.T) {
	fx := newFixture(t, paidConfig())
	ctx := context.Background()

	booking, err := fx.service.Create(ctx, fx.renterID, true, createRequest(futureDate(30), futureDate(32), fx.vehicle.ID))
	require.NoError(t, err)

	_, err = fx.service.Cancel(ctx, booking.ID, uuid.New(), false, "")
	assert.ErrorIs(t, err, ErrNotAuthorized)
}

func TestCancelAfterPickupRequiresAdmin(t *testing.T) {
	fx := newFixture(t, paidConfig())
	ctx := context.Background()

	booking, err := fx.service.Create(ctx, fx.renterID, true, createRequest(futureDate(-2), futureDate(1), fx.vehicle.ID))
	require.NoError(t, err)

	_, err = fx.service.Cancel(ctx, booking.ID, fx.renterID, false, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	adminID := uuid.New()
	cancelled, err := fx.service.Cancel(ctx, booking.ID, adminID, true, "renter never showed")
	require.NoError(t, err)

	assert.Equal(t, StatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.Cancellation)
	assert.Equal(t, 0, cancelled.Cancellation.RefundPercent)
	assert.Equal(t, "ADMIN", cancelled.Cancellation.ActorRole)
}

func TestAdminNoShowOverrideCancelsActiveRental(t *testing.T) {
	fx := newFixture(t, paidConfig())
	ctx := context.Background()

	booking, err := fx.service.Create(ctx, fx.renterID, true, createRequest(futureDate(30), futureDate(32), fx.vehicle.ID))
	require.NoError(t, err)
	_, err = fx.service.AttachPaymentSession(ctx, booking.ID, "cs_noshow")
	require.NoError(t, err)
	_, err = fx.service.ConfirmPayment(ctx, "cs_noshow")
	require.NoError(t, err)
	_, err = fx.service.BeginRental(ctx, booking.ID, fx.ownerID)
	require.NoError(t, err)

	// Owner cannot cancel an active rental.
	_, err = fx.service.Cancel(ctx, booking.ID, fx.ownerID, false, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Admin override: cancellation at zero refund.
	adminID := uuid.New()
	cancelled, err := fx.service.Cancel(ctx, booking.ID, adminID, true, "vehicle reported abandoned")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)
	assert.Equal(t, PaymentPaid, cancelled.PaymentStatus)
	require.NotNil(t, cancelled.Cancellation)
	assert.Equal(t, 0, cancelled.Cancellation.RefundPercent)
	assert.Equal(t, "ADMIN", cancelled.Cancellation.ActorRole)
}

func TestExpireStalePending(t *testing.T) {
	fx := newFixture(t, paidConfig())
	ctx := context.Background()

	booking, err := fx.service.Create(ctx, fx.renterID, true, createRequest(futureDate(30), futureDate(32), fx.vehicle.ID))
	require.NoError(t, err)

	// Age the booking past the confirmation window.
	fx.repo.bookings[booking.ID].CreatedAt = time.Now().UTC().Add(-time.Hour)

	expired, err := fx.service.ExpireStalePending(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), expired)

	got, err := fx.service.GetBooking(ctx, booking.ID, fx.renterID, false)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, got.Status)
}

func TestGetBookingAuthorization(t *testing.T) {
	fx := newFixture(t, paidConfig())
	ctx := context.Background()

	booking, err := fx.service.Create(ctx, fx.renterID, true, createRequest(futureDate(30), futureDate(32), fx.vehicle.ID))
	require.NoError(t, err)

	_, err = fx.service.GetBooking(ctx, booking.ID, fx.renterID, false)
	assert.NoError(t, err)
	_, err = fx.service.GetBooking(ctx, booking.ID, fx.ownerID, false)
	assert.NoError(t, err)
	_, err = fx.service.GetBooking(ctx, booking.ID, uuid.New(), true)
	assert.NoError(t, err)

	_, err = fx.service.GetBooking(ctx, booking.ID, uuid.New(), false)
	assert.ErrorIs(t, err, ErrNotAuthorized)
}
