package vehicles

import (
	"time"

	"github.com/google/uuid"
)

// Vehicle is the listing record the booking flow snapshots pricing from.
// Bookings only ever read price_per_day, deposit_amount and owner_id at
// creation time; later edits never touch existing bookings.
type Vehicle struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OwnerID       uuid.UUID `gorm:"type:uuid;index;not null" json:"owner_id"`
	Type          string    `gorm:"type:varchar(20);check:type IN ('CAR', 'MOTORBIKE', 'BICYCLE');not null" json:"type"`
	Make          string    `gorm:"type:varchar(50)" json:"make"`
	Model         string    `gorm:"type:varchar(50)" json:"model"`
	PricePerDay   int64     `gorm:"not null" json:"price_per_day"`   // minor units
	DepositAmount int64     `gorm:"default:0" json:"deposit_amount"` // minor units
	Listed        bool      `gorm:"default:true" json:"listed"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName sets the table name for Vehicle
func (Vehicle) TableName() string {
	return "vehicles"
}
