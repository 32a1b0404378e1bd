package bookings

import "time"

// PriceBreakdown is the immutable settlement snapshot stored on a booking
// at creation time. All amounts are integer minor units; recomputing from
// live vehicle rates later must never change historical figures.
//
// Invariants:
//
//	OwnerEarnings + CommissionAmount == Subtotal
//	Subtotal + ServiceFeeAmount == TotalPrice
type PriceBreakdown struct {
	RentalDays       int   `json:"rental_days"`
	PricePerDay      int64 `json:"price_per_day"`
	Subtotal         int64 `json:"subtotal"`
	CommissionAmount int64 `json:"commission_amount"`
	OwnerEarnings    int64 `json:"owner_earnings"`
	ServiceFeeAmount int64 `json:"service_fee_amount"`
	TotalPrice       int64 `json:"total_price"`
	DepositAmount    int64 `json:"deposit_amount"`
}

const bpDenominator = 10000

// roundBP applies a basis-point rate with round-half-up. This is the only
// place rounding happens; every derived amount is carried, not re-derived.
func roundBP(amount int64, rateBP int) int64 {
	return (amount*int64(rateBP) + bpDenominator/2) / bpDenominator
}

// RentalDays returns the chargeable days for a date range: the ceiling of
// the span in days, never less than one. A same-day or sub-24h rental
// always charges a full day.
func RentalDays(pickupDate, returnDate time.Time) int {
	span := returnDate.Sub(pickupDate)
	if span <= 0 {
		return 1
	}
	days := int(span / (24 * time.Hour))
	if span%(24*time.Hour) != 0 {
		days++
	}
	if days < 1 {
		days = 1
	}
	return days
}

// ComputePrice derives the full settlement breakdown for a rental. Pure and
// deterministic: no I/O, no clock, no global rate lookups. Commission is
// carved out of the owner's share; the service fee is charged to the renter
// on top of the subtotal.
func ComputePrice(pricePerDay int64, pickupDate, returnDate time.Time, commissionRateBP, serviceFeeRateBP int, depositAmount int64) PriceBreakdown {
	days := RentalDays(pickupDate, returnDate)
	subtotal := pricePerDay * int64(days)
	commission := roundBP(subtotal, commissionRateBP)
	serviceFee := roundBP(subtotal, serviceFeeRateBP)

	return PriceBreakdown{
		RentalDays:       days,
		PricePerDay:      pricePerDay,
		Subtotal:         subtotal,
		CommissionAmount: commission,
		OwnerEarnings:    subtotal - commission,
		ServiceFeeAmount: serviceFee,
		TotalPrice:       subtotal + serviceFee,
		DepositAmount:    depositAmount,
	}
}
