package bookings

import "time"

const dateLayout = "2006-01-02"

// CreateBookingRequest represents the request to reserve a vehicle
type CreateBookingRequest struct {
	VehicleID  string `json:"vehicleId" binding:"required,uuid"`
	PickupDate string `json:"pickupDate" binding:"required,datetime=2006-01-02"`
	ReturnDate string `json:"returnDate" binding:"required,datetime=2006-01-02"`
}

// ParseDates returns the pickup and return timestamps at UTC midnight.
func (r CreateBookingRequest) ParseDates() (time.Time, time.Time, error) {
	pickup, err := time.ParseInLocation(dateLayout, r.PickupDate, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidDates
	}
	returnDate, err := time.ParseInLocation(dateLayout, r.ReturnDate, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidDates
	}
	return pickup, returnDate, nil
}

// CancelBookingRequest represents the request to cancel a booking
type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// ListQuery represents pagination and filtering for booking listings
type ListQuery struct {
	Status   string `form:"status" binding:"omitempty,oneof=PENDING CONFIRMED ACTIVE COMPLETED CANCELLED"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
	DateFrom string `form:"dateFrom" binding:"omitempty,datetime=2006-01-02"`
	DateTo   string `form:"dateTo" binding:"omitempty,datetime=2006-01-02"`
}
