package types

import "time"

// RefreshKey is the default cache-refresh policy for measures without one.
// Every is the check cadence; RenewalThreshold is the age after which a
// previously computed value is stale.
type RefreshKey struct {
	Every            Interval
	RenewalThreshold time.Duration
}
