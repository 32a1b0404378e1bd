package commissions

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return gdb, mock
}

func TestGetSummaryExcludesCancelledFromTotals(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewRepository(gdb)

	rows := sqlmock.NewRows([]string{
		"total_bookings", "completed_bookings", "cancelled_bookings", "total_revenue",
		"total_commission", "total_service_fees", "total_owner_payouts",
	}).AddRow(12, 6, 3, 75600, 7200, 3600, 64800)

	mock.ExpectQuery(`SELECT(.|\s)*FROM bookings$`).WillReturnRows(rows)

	summary, err := repo.GetSummary(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, int64(12), summary.TotalBookings)
	assert.Equal(t, int64(6), summary.CompletedBookings)
	assert.Equal(t, int64(3), summary.CancelledBookings)
	assert.Equal(t, int64(75600), summary.TotalRevenue)
	assert.Equal(t, int64(7200), summary.TotalCommission)
	assert.Equal(t, int64(3600), summary.TotalServiceFees)
	assert.Equal(t, int64(64800), summary.TotalOwnerPayouts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSummaryWithStatusFilter(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewRepository(gdb)

	rows := sqlmock.NewRows([]string{
		"total_bookings", "completed_bookings", "cancelled_bookings", "total_revenue",
		"total_commission", "total_service_fees", "total_owner_payouts",
	}).AddRow(6, 6, 0, 50400, 4800, 2400, 43200)

	mock.ExpectQuery(`SELECT(.|\s)*FROM bookings WHERE status = \$1`).
		WithArgs("COMPLETED").
		WillReturnRows(rows)

	summary, err := repo.GetSummary(context.Background(), "COMPLETED")
	require.NoError(t, err)

	assert.Equal(t, int64(6), summary.TotalBookings)
	assert.Equal(t, int64(6), summary.CompletedBookings)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPeriodStats(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewRepository(gdb)

	to := time.Now().UTC()
	from := to.Add(-7 * 24 * time.Hour)

	rows := sqlmock.NewRows([]string{
		"bookings", "total_revenue", "total_commission", "owner_payouts",
	}).AddRow(5, 42000, 4000, 36000)

	mock.ExpectQuery(`SELECT(.|\s)*WHERE confirmed_at >= \$1 AND confirmed_at < \$2`).
		WithArgs(from, to).
		WillReturnRows(rows)

	stats, err := repo.GetPeriodStats(context.Background(), "7d", from, to)
	require.NoError(t, err)

	assert.Equal(t, "7d", stats.Period)
	assert.Equal(t, int64(5), stats.Bookings)
	assert.Equal(t, int64(4000), stats.TotalCommission)
	assert.Equal(t, int64(800), stats.AverageCommission)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOwnerEarnings(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewRepository(gdb)

	ownerID := uuid.New()
	rows := sqlmock.NewRows([]string{
		"completed_rentals", "pending_earnings", "settled_earnings",
	}).AddRow(4, 7200, 28800)

	mock.ExpectQuery(`SELECT(.|\s)*WHERE owner_id = \$1`).
		WithArgs(ownerID).
		WillReturnRows(rows)

	earnings, err := repo.GetOwnerEarnings(context.Background(), ownerID)
	require.NoError(t, err)

	assert.Equal(t, ownerID.String(), earnings.OwnerID)
	assert.Equal(t, int64(4), earnings.CompletedRentals)
	assert.Equal(t, int64(7200), earnings.PendingEarnings)
	assert.Equal(t, int64(28800), earnings.SettledEarnings)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidPeriod(t *testing.T) {
	for _, period := range []string{"24h", "7d", "30d", "1y"} {
		assert.True(t, ValidPeriod(period), period)
	}
	assert.False(t, ValidPeriod("2w"))
	assert.False(t, ValidPeriod(""))
}
