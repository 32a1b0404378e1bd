package bookings

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	// Atomic check-and-reserve: the overlap check and the insert run in one
	// transaction holding the vehicle row lock, so two concurrent attempts
	// on overlapping ranges cannot both succeed.
	CreateWithAvailabilityCheck(ctx context.Context, booking *Booking) error

	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetBySessionID(ctx context.Context, sessionID string) (*Booking, error)

	GetByRenter(ctx context.Context, renterID uuid.UUID, query ListQuery) ([]Booking, int64, error)
	GetByOwner(ctx context.Context, ownerID uuid.UUID, query ListQuery) ([]Booking, int64, error)

	// Transition reloads the booking under a row lock, applies mutate and
	// persists the result (including any newly attached association rows),
	// all in one transaction.
	Transition(ctx context.Context, id uuid.UUID, mutate func(tx *gorm.DB, b *Booking) error) (*Booking, error)

	// ExpirePending cancels unpaid PENDING bookings created before cutoff,
	// freeing their date ranges. Returns the number of bookings expired.
	ExpirePending(ctx context.Context, cutoff time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateWithAvailabilityCheck(ctx context.Context, booking *Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Serialize reservation attempts per vehicle by locking the
		// vehicle row for the duration of check+insert.
		var vehicle struct {
			ID     uuid.UUID `gorm:"column:id"`
			Listed bool      `gorm:"column:listed"`
		}
		err := tx.Table("vehicles").
			Select("id, listed").
			Where("id = ?", booking.VehicleID).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&vehicle).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return gorm.ErrRecordNotFound
			}
			return fmt.Errorf("failed to lock vehicle: %w", err)
		}
		if !vehicle.Listed {
			return ErrVehicleNotListed
		}

		// Two half-open ranges [a1,a2) and [b1,b2) overlap iff
		// a1 < b2 && b1 < a2. Cancelled and completed bookings never block.
		var overlapping int64
		err = tx.Model(&Booking{}).
			Where("vehicle_id = ?", booking.VehicleID).
			Where("status IN ?", []Status{StatusPending, StatusConfirmed, StatusActive}).
			Where("pickup_date < ? AND ? < return_date", booking.ReturnDate, booking.PickupDate).
			Count(&overlapping).Error
		if err != nil {
			return fmt.Errorf("failed to check availability: %w", err)
		}
		if overlapping > 0 {
			return ErrVehicleUnavailable
		}

		if err := tx.Create(booking).Error; err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}

		return nil
	})
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("Cancellation").
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetBySessionID(ctx context.Context, sessionID string) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Where("payment_session_id = ?", sessionID).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetByRenter(ctx context.Context, renterID uuid.UUID, query ListQuery) ([]Booking, int64, error) {
	return r.list(ctx, "renter_id", renterID, query)
}

func (r *repository) GetByOwner(ctx context.Context, ownerID uuid.UUID, query ListQuery) ([]Booking, int64, error) {
	return r.list(ctx, "owner_id", ownerID, query)
}

func (r *repository) list(ctx context.Context, column string, id uuid.UUID, query ListQuery) ([]Booking, int64, error) {
	var bookings []Booking
	var totalCount int64

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	baseQuery := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where(column+" = ?", id)

	baseQuery = r.applyFilters(baseQuery, query)

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := baseQuery.
		Preload("Cancellation").
		Order("created_at DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&bookings).Error

	return bookings, totalCount, err
}

func (r *repository) Transition(ctx context.Context, id uuid.UUID, mutate func(tx *gorm.DB, b *Booking) error) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&booking).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		if err := mutate(tx, &booking); err != nil {
			return err
		}

		booking.UpdatedAt = time.Now().UTC()
		return tx.Save(&booking).Error
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) ExpirePending(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("status = ?", StatusPending).
		Where("payment_status IN ?", []PaymentStatus{PaymentUnpaid, PaymentProcessing}).
		Where("created_at < ?", cutoff).
		Updates(map[string]interface{}{
			"status":     StatusCancelled,
			"updated_at": time.Now().UTC(),
		})
	return result.RowsAffected, result.Error
}

// applyFilters applies query filters to the GORM query
func (r *repository) applyFilters(query *gorm.DB, filters ListQuery) *gorm.DB {
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}

	if filters.DateFrom != "" {
		if dateFrom, err := time.Parse("2006-01-02", filters.DateFrom); err == nil {
			query = query.Where("created_at >= ?", dateFrom)
		}
	}

	if filters.DateTo != "" {
		if dateTo, err := time.Parse("2006-01-02", filters.DateTo); err == nil {
			dateTo = dateTo.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
			query = query.Where("created_at <= ?", dateTo)
		}
	}

	return query
}

// CalculateTotalPages is a helper for paginated responses.
func CalculateTotalPages(totalCount int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(totalCount) / float64(limit)))
}
