package commissions

import "time"

// Summary is the platform-wide settlement rollup. All money fields are in
// minor units and come only from bookings that still owe or earned money;
// cancelled bookings are counted but never summed.
type Summary struct {
	TotalBookings     int64 `json:"totalBookings"`
	CompletedBookings int64 `json:"completedBookings"`
	CancelledBookings int64 `json:"cancelledBookings"`
	TotalRevenue      int64 `json:"totalRevenue"`
	TotalCommission   int64 `json:"totalCommission"`
	TotalServiceFees  int64 `json:"totalServiceFees"`
	TotalOwnerPayouts int64 `json:"totalOwnerPayouts"`
}

// PeriodStats is the rollup for one trailing window, bucketed by the
// moment the booking was confirmed.
type PeriodStats struct {
	Period            string    `json:"period"`
	From              time.Time `json:"from"`
	To                time.Time `json:"to"`
	Bookings          int64     `json:"bookings"`
	TotalRevenue      int64     `json:"totalRevenue"`
	TotalCommission   int64     `json:"totalCommission"`
	AverageCommission int64     `json:"averageCommission"`
	OwnerPayouts      int64     `json:"ownerPayouts"`
}

// OwnerEarnings is the per-owner payout rollup.
type OwnerEarnings struct {
	OwnerID          string `json:"ownerId"`
	CompletedRentals int64  `json:"completedRentals"`
	PendingEarnings  int64  `json:"pendingEarnings"`
	SettledEarnings  int64  `json:"settledEarnings"`
}

// Reporting periods accepted by the period stats endpoint.
var periodWindows = map[string]time.Duration{
	"24h": 24 * time.Hour,
	"7d":  7 * 24 * time.Hour,
	"30d": 30 * 24 * time.Hour,
	"1y":  365 * 24 * time.Hour,
}

// ValidPeriod reports whether the period label is supported.
func ValidPeriod(period string) bool {
	_, ok := periodWindows[period]
	return ok
}
