package database

import (
	"gorm.io/gorm"
)

// EnsureConstraints adds the indexes the availability check and reporting
// queries depend on.
func EnsureConstraints(db *gorm.DB) error {
	// The overlap check scans a vehicle's active reservations; keep that
	// scan on an index.
	err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_vehicle_dates
		ON bookings (vehicle_id, pickup_date, return_date)
		WHERE status IN ('PENDING', 'CONFIRMED', 'ACTIVE');
	`).Error
	if err != nil {
		return err
	}

	// Webhook reconciliation looks bookings up by session handle.
	err = db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_bookings_payment_session
		ON bookings (payment_session_id)
		WHERE payment_session_id IS NOT NULL;
	`).Error
	if err != nil {
		return err
	}

	// Period stats bucket by confirmation time.
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_confirmed_at
		ON bookings (confirmed_at)
		WHERE confirmed_at IS NOT NULL;
	`).Error
	if err != nil {
		return err
	}

	return nil
}
