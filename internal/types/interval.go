package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Interval is an (amount, unit) pair such as "2 minutes".
type Interval struct {
	Unit   Granularity
	Amount int
}

// ParseInterval parses "<amount> <unit>" where unit is a granularity name,
// singular or plural.
func ParseInterval(s string) (Interval, error) {
	parts := strings.Fields(s)
	if len(parts) != 2 {
		return Interval{}, fmt.Errorf("invalid interval %q: expected \"<amount> <unit>\"", s)
	}
	amount, err := strconv.Atoi(parts[0])
	if err != nil {
		return Interval{}, fmt.Errorf("invalid interval %q: %w", s, err)
	}
	unit, err := ParseGranularity(parts[1])
	if err != nil {
		return Interval{}, fmt.Errorf("invalid interval %q: %w", s, err)
	}
	return Interval{Amount: amount, Unit: unit}, nil
}

// MustInterval is ParseInterval that panics on error.
func MustInterval(s string) Interval {
	iv, err := ParseInterval(s)
	if err != nil {
		panic(err)
	}
	return iv
}

// String renders the interval as "2 minutes" / "1 day".
func (i Interval) String() string {
	if i.Amount == 1 || i.Amount == -1 {
		return fmt.Sprintf("%d %s", i.Amount, i.Unit)
	}
	return fmt.Sprintf("%d %ss", i.Amount, i.Unit)
}

// Negate flips the sign of the amount.
func (i Interval) Negate() Interval {
	return Interval{Amount: -i.Amount, Unit: i.Unit}
}

// Validate checks the unit against the granularity set.
func (i Interval) Validate() error {
	if !i.Unit.Valid() {
		return &UnknownGranularityError{Granularity: string(i.Unit)}
	}
	return nil
}

// Duration converts fixed-length intervals to a time.Duration.
// Months, quarters and years have no fixed length and report false.
func (i Interval) Duration() (time.Duration, bool) {
	var unit time.Duration
	switch i.Unit {
	case Second:
		unit = time.Second
	case Minute:
		unit = time.Minute
	case Hour:
		unit = time.Hour
	case Day:
		unit = 24 * time.Hour
	case Week:
		unit = 7 * 24 * time.Hour
	default:
		return 0, false
	}
	return time.Duration(i.Amount) * unit, true
}
