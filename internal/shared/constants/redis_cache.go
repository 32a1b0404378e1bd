package constants

import (
	"fmt"
	"time"
)

// Centralized Redis keys and TTLs.
// Pattern: motoshare:{module}:{operation}:{identifier}

const CACHE_PREFIX = "motoshare"

// TTLs
const (
	TTL_STATS_SUMMARY  = 5 * time.Minute  // admin commission summaries
	TTL_STATS_PERIOD   = 2 * time.Minute  // trailing-window commission stats
	TTL_WEBHOOK_DEDUPE = 24 * time.Hour   // provider event redelivery window
	TTL_VEHICLE_DETAIL = 15 * time.Minute // vehicle snapshots for listings
)

// Commission ledger cache keys
const (
	CACHE_KEY_COMMISSION_SUMMARY = CACHE_PREFIX + ":commissions:summary" // + :status:X
	CACHE_KEY_COMMISSION_PERIOD  = CACHE_PREFIX + ":commissions:period"  // + :window
)

// Payment webhook dedupe keys
const (
	CACHE_KEY_WEBHOOK_EVENT = CACHE_PREFIX + ":payments:webhook:event:" // + event-id
)

// Vehicle listing cache keys
const (
	CACHE_KEY_VEHICLE_DETAIL = CACHE_PREFIX + ":vehicles:detail:" // + vehicle-id
)

// Rate limiter keys
const (
	CACHE_KEY_RATELIMIT = CACHE_PREFIX + ":ratelimit" // + :ip:type
)

// VehicleDetailKey builds the cache key for a vehicle snapshot.
func VehicleDetailKey(vehicleID string) string {
	return CACHE_KEY_VEHICLE_DETAIL + vehicleID
}

// CommissionSummaryKey builds the cache key for a filtered commission summary.
func CommissionSummaryKey(status string) string {
	if status == "" {
		status = "all"
	}
	return fmt.Sprintf("%s:status:%s", CACHE_KEY_COMMISSION_SUMMARY, status)
}

// CommissionPeriodKey builds the cache key for a trailing-window stats query.
func CommissionPeriodKey(period string) string {
	return fmt.Sprintf("%s:%s", CACHE_KEY_COMMISSION_PERIOD, period)
}

// WebhookEventKey builds the dedupe key for a provider webhook event.
func WebhookEventKey(eventID string) string {
	return CACHE_KEY_WEBHOOK_EVENT + eventID
}
