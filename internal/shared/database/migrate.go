package database

import (
	"motoshare/internal/bookings"
	"motoshare/internal/vehicles"
	"motoshare/internal/verification"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	// uuid_generate_v4 defaults on primary keys need the extension.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return err
	}

	return db.AutoMigrate(
		&vehicles.Vehicle{},
		&bookings.Booking{},
		&bookings.Cancellation{},
		&verification.VerificationRequest{},
	)
}
