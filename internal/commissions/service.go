package commissions

import (
	"context"
	"fmt"
	"time"

	"motoshare/internal/bookings"
	"motoshare/internal/shared/constants"
	"motoshare/pkg/cache"

	"github.com/google/uuid"
)

// ErrInvalidPeriod is returned for an unrecognized reporting window.
var ErrInvalidPeriod = fmt.Errorf("invalid reporting period")

// ErrInvalidStatus is returned for an unrecognized status filter.
var ErrInvalidStatus = fmt.Errorf("invalid status filter")

// Service interface defines the contract for commission reporting
type Service interface {
	GetSummary(ctx context.Context, status string) (*Summary, error)
	GetPeriodStats(ctx context.Context, period string) (*PeriodStats, error)
	GetOwnerEarnings(ctx context.Context, ownerID uuid.UUID) (*OwnerEarnings, error)
}

type service struct {
	repo  Repository
	cache cache.Service
}

// NewService creates a new commission reporting service instance.
func NewService(repo Repository, cacheService cache.Service) Service {
	return &service{repo: repo, cache: cacheService}
}

// GetSummary returns the platform rollup, optionally filtered to one
// booking status. Cached briefly since it scans the whole bookings table.
func (s *service) GetSummary(ctx context.Context, status string) (*Summary, error) {
	if status != "" && !bookings.Status(status).IsValid() {
		return nil, ErrInvalidStatus
	}

	var summary Summary
	err := s.cache.GetOrSet(ctx, constants.CommissionSummaryKey(status), constants.TTL_STATS_SUMMARY,
		func() (interface{}, error) {
			return s.repo.GetSummary(ctx, status)
		}, &summary)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *service) GetPeriodStats(ctx context.Context, period string) (*PeriodStats, error) {
	window, ok := periodWindows[period]
	if !ok {
		return nil, ErrInvalidPeriod
	}

	var stats PeriodStats
	err := s.cache.GetOrSet(ctx, constants.CommissionPeriodKey(period), constants.TTL_STATS_PERIOD,
		func() (interface{}, error) {
			to := time.Now().UTC()
			return s.repo.GetPeriodStats(ctx, period, to.Add(-window), to)
		}, &stats)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetOwnerEarnings is uncached: owners check it right after a transition
// and expect to see the change.
func (s *service) GetOwnerEarnings(ctx context.Context, ownerID uuid.UUID) (*OwnerEarnings, error) {
	return s.repo.GetOwnerEarnings(ctx, ownerID)
}
