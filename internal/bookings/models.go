package bookings

import (
	"time"

	"github.com/google/uuid"
)

// Booking is the central settlement entity. Vehicle and user state is never
// embedded beyond the immutable price snapshot taken at creation, so later
// rate changes cannot rewrite historical commission figures.
type Booking struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	VehicleID uuid.UUID `gorm:"type:uuid;index;not null" json:"vehicle_id"`
	RenterID  uuid.UUID `gorm:"type:uuid;index;not null" json:"renter_id"`
	OwnerID   uuid.UUID `gorm:"type:uuid;index;not null" json:"owner_id"`

	// Calendar dates, day granularity. ReturnDate is exclusive for
	// availability purposes: [pickup, return).
	PickupDate time.Time `gorm:"type:date;not null" json:"pickup_date"`
	ReturnDate time.Time `gorm:"type:date;not null" json:"return_date"`

	// Price snapshot, minor units, fixed at creation.
	RentalDays          int   `gorm:"not null" json:"rental_days"`
	PricePerDaySnapshot int64 `gorm:"not null" json:"price_per_day_snapshot"`
	Subtotal            int64 `gorm:"not null" json:"subtotal"`
	ServiceFeeAmount    int64 `gorm:"not null" json:"service_fee_amount"`
	CommissionAmount    int64 `gorm:"not null" json:"commission_amount"`
	OwnerEarnings       int64 `gorm:"not null" json:"owner_earnings"`
	TotalPrice          int64 `gorm:"not null" json:"total_price"`
	DepositAmount       int64 `gorm:"default:0" json:"deposit_amount"`

	Status        Status        `gorm:"type:varchar(20);check:status IN ('PENDING', 'CONFIRMED', 'ACTIVE', 'COMPLETED', 'CANCELLED');default:'PENDING'" json:"status"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);check:payment_status IN ('UNPAID', 'PROCESSING', 'PAID', 'REFUND_PENDING', 'REFUNDED', 'NOT_REQUIRED');default:'UNPAID'" json:"payment_status"`

	// External checkout session handle; unique so webhook redelivery and
	// verify polling always resolve to exactly one booking.
	PaymentSessionID *string `gorm:"uniqueIndex" json:"payment_session_id,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Relationships
	Cancellation *Cancellation `json:"cancellation,omitempty" gorm:"foreignKey:BookingID"`
}

// Cancellation records why and how a booking was cancelled. Bookings are
// never hard-deleted; this record plus the CANCELLED status is the audit
// trail.
type Cancellation struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID     uuid.UUID `gorm:"type:uuid;unique;not null" json:"booking_id"`
	CancelledBy   uuid.UUID `gorm:"type:uuid;not null" json:"cancelled_by"`
	ActorRole     string    `gorm:"type:varchar(20)" json:"actor_role"`
	Reason        string    `json:"reason"`
	RefundPercent int       `gorm:"not null" json:"refund_percent"`
	RefundAmount  int64     `gorm:"not null" json:"refund_amount"` // minor units
	CancelledAt   time.Time `json:"cancelled_at"`
}

// TableName sets the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

// TableName sets the table name for Cancellation
func (Cancellation) TableName() string {
	return "booking_cancellations"
}

// Breakdown reconstructs the stored price snapshot.
func (b *Booking) Breakdown() PriceBreakdown {
	return PriceBreakdown{
		RentalDays:       b.RentalDays,
		PricePerDay:      b.PricePerDaySnapshot,
		Subtotal:         b.Subtotal,
		CommissionAmount: b.CommissionAmount,
		OwnerEarnings:    b.OwnerEarnings,
		ServiceFeeAmount: b.ServiceFeeAmount,
		TotalPrice:       b.TotalPrice,
		DepositAmount:    b.DepositAmount,
	}
}

func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// HasOpenSession reports whether a checkout session is attached and the
// booking is still waiting on it.
func (b *Booking) HasOpenSession() bool {
	return b.PaymentSessionID != nil && b.PaymentStatus == PaymentProcessing
}
