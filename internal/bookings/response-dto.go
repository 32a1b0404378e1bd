package bookings

import "time"

type BookingResponse struct {
	ID            string      `json:"id"`
	VehicleID     string      `json:"vehicleId"`
	RenterID      string      `json:"renterId"`
	OwnerID       string      `json:"ownerId"`
	PickupDate    string      `json:"pickupDate"`
	ReturnDate    string      `json:"returnDate"`
	Status        string      `json:"status"`
	PaymentStatus string      `json:"paymentStatus"`
	Price         PriceInfo   `json:"price"`
	Cancellation  *CancelInfo `json:"cancellation,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
	ConfirmedAt   *time.Time  `json:"confirmedAt,omitempty"`
	CompletedAt   *time.Time  `json:"completedAt,omitempty"`
}

// PriceInfo is the immutable settlement breakdown, in minor units.
type PriceInfo struct {
	RentalDays       int   `json:"rentalDays"`
	PricePerDay      int64 `json:"pricePerDay"`
	Subtotal         int64 `json:"subtotal"`
	ServiceFeeAmount int64 `json:"serviceFeeAmount"`
	CommissionAmount int64 `json:"commissionAmount"`
	OwnerEarnings    int64 `json:"ownerEarnings"`
	TotalPrice       int64 `json:"totalPrice"`
	DepositAmount    int64 `json:"depositAmount"`
}

type CancelInfo struct {
	CancelledBy   string    `json:"cancelledBy"`
	ActorRole     string    `json:"actorRole"`
	Reason        string    `json:"reason,omitempty"`
	RefundPercent int       `json:"refundPercent"`
	RefundAmount  int64     `json:"refundAmount"`
	CancelledAt   time.Time `json:"cancelledAt"`
}

type BookingListResponse struct {
	Bookings   []BookingResponse `json:"bookings"`
	Pagination PaginationInfo    `json:"pagination"`
}

type PaginationInfo struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// ToResponse converts a booking model to its API representation.
func ToResponse(b *Booking) BookingResponse {
	resp := BookingResponse{
		ID:            b.ID.String(),
		VehicleID:     b.VehicleID.String(),
		RenterID:      b.RenterID.String(),
		OwnerID:       b.OwnerID.String(),
		PickupDate:    b.PickupDate.Format(dateLayout),
		ReturnDate:    b.ReturnDate.Format(dateLayout),
		Status:        b.Status.String(),
		PaymentStatus: b.PaymentStatus.String(),
		Price: PriceInfo{
			RentalDays:       b.RentalDays,
			PricePerDay:      b.PricePerDaySnapshot,
			Subtotal:         b.Subtotal,
			ServiceFeeAmount: b.ServiceFeeAmount,
			CommissionAmount: b.CommissionAmount,
			OwnerEarnings:    b.OwnerEarnings,
			TotalPrice:       b.TotalPrice,
			DepositAmount:    b.DepositAmount,
		},
		CreatedAt:   b.CreatedAt,
		ConfirmedAt: b.ConfirmedAt,
		CompletedAt: b.CompletedAt,
	}
	if b.Cancellation != nil {
		resp.Cancellation = &CancelInfo{
			CancelledBy:   b.Cancellation.CancelledBy.String(),
			ActorRole:     b.Cancellation.ActorRole,
			Reason:        b.Cancellation.Reason,
			RefundPercent: b.Cancellation.RefundPercent,
			RefundAmount:  b.Cancellation.RefundAmount,
			CancelledAt:   b.Cancellation.CancelledAt,
		}
	}
	return resp
}

// ToListResponse converts a page of bookings with pagination metadata.
func ToListResponse(items []Booking, total int64, page, limit int) BookingListResponse {
	responses := make([]BookingResponse, 0, len(items))
	for i := range items {
		responses = append(responses, ToResponse(&items[i]))
	}
	return BookingListResponse{
		Bookings: responses,
		Pagination: PaginationInfo{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: CalculateTotalPages(total, limit),
		},
	}
}
