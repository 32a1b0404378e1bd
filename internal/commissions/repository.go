package commissions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository reads settlement rollups straight off the bookings table.
// There is no separate ledger table: the per-booking breakdown is the
// ledger, and these queries are pure aggregations over it.
type Repository interface {
	GetSummary(ctx context.Context, status string) (*Summary, error)
	GetPeriodStats(ctx context.Context, period string, from, to time.Time) (*PeriodStats, error)
	GetOwnerEarnings(ctx context.Context, ownerID uuid.UUID) (*OwnerEarnings, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new commissions repository instance
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// GetSummary aggregates the whole table, or only bookings in the given
// lifecycle status when one is supplied. Cancelled bookings are counted
// either way but never contribute to the money sums.
func (r *repository) GetSummary(ctx context.Context, status string) (*Summary, error) {
	var summary Summary
	query := `
		SELECT
			COUNT(*) as total_bookings,
			COUNT(*) FILTER (WHERE status = 'COMPLETED') as completed_bookings,
			COUNT(*) FILTER (WHERE status = 'CANCELLED') as cancelled_bookings,
			COALESCE(SUM(total_price) FILTER (WHERE status != 'CANCELLED'), 0) as total_revenue,
			COALESCE(SUM(commission_amount) FILTER (WHERE status != 'CANCELLED'), 0) as total_commission,
			COALESCE(SUM(service_fee_amount) FILTER (WHERE status != 'CANCELLED'), 0) as total_service_fees,
			COALESCE(SUM(owner_earnings) FILTER (WHERE status != 'CANCELLED'), 0) as total_owner_payouts
		FROM bookings`

	var err error
	if status != "" {
		err = r.db.WithContext(ctx).Raw(query+` WHERE status = ?`, status).Scan(&summary).Error
	} else {
		err = r.db.WithContext(ctx).Raw(query).Scan(&summary).Error
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get commission summary: %w", err)
	}
	return &summary, nil
}

func (r *repository) GetPeriodStats(ctx context.Context, period string, from, to time.Time) (*PeriodStats, error) {
	stats := PeriodStats{Period: period, From: from, To: to}
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) as bookings,
			COALESCE(SUM(total_price), 0) as total_revenue,
			COALESCE(SUM(commission_amount), 0) as total_commission,
			COALESCE(SUM(owner_earnings), 0) as owner_payouts
		FROM bookings
		WHERE confirmed_at >= ? AND confirmed_at < ?
		  AND status != 'CANCELLED'
	`, from, to).Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get period stats: %w", err)
	}
	if stats.Bookings > 0 {
		stats.AverageCommission = stats.TotalCommission / stats.Bookings
	}
	return &stats, nil
}

func (r *repository) GetOwnerEarnings(ctx context.Context, ownerID uuid.UUID) (*OwnerEarnings, error) {
	earnings := OwnerEarnings{OwnerID: ownerID.String()}
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) FILTER (WHERE status = 'COMPLETED') as completed_rentals,
			COALESCE(SUM(owner_earnings) FILTER (WHERE status IN ('CONFIRMED', 'ACTIVE')), 0) as pending_earnings,
			COALESCE(SUM(owner_earnings) FILTER (WHERE status = 'COMPLETED'), 0) as settled_earnings
		FROM bookings
		WHERE owner_id = ?
	`, ownerID).Scan(&earnings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get owner earnings: %w", err)
	}
	return &earnings, nil
}
