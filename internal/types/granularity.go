package types

import (
	"fmt"
	"strings"
)

// Granularity is the truncation unit of a time dimension.
type Granularity string

const (
	Second  Granularity = "second"
	Minute  Granularity = "minute"
	Hour    Granularity = "hour"
	Day     Granularity = "day"
	Week    Granularity = "week"
	Month   Granularity = "month"
	Quarter Granularity = "quarter"
	Year    Granularity = "year"
)

// Granularities lists every supported granularity, finest first.
var Granularities = []Granularity{Second, Minute, Hour, Day, Week, Month, Quarter, Year}

// Valid reports whether g is a member of the enumerated set.
func (g Granularity) Valid() bool {
	switch g {
	case Second, Minute, Hour, Day, Week, Month, Quarter, Year:
		return true
	}
	return false
}

// ParseGranularity normalizes s and checks it against the enumerated set.
// Trailing plural "s" is accepted ("days" -> day).
func ParseGranularity(s string) (Granularity, error) {
	g := Granularity(strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s"))
	if !g.Valid() {
		return "", &UnknownGranularityError{Granularity: s}
	}
	return g, nil
}

// UnknownGranularityError reports a granularity outside the enumerated set.
// It is a configuration error and is never replaced by a default.
type UnknownGranularityError struct {
	Granularity string
	Dialect     string
}

func (e *UnknownGranularityError) Error() string {
	if e.Dialect != "" {
		return fmt.Sprintf("%s: unknown granularity %q", e.Dialect, e.Granularity)
	}
	return fmt.Sprintf("unknown granularity %q", e.Granularity)
}
