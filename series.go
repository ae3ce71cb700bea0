package rollup

import (
	"fmt"
	"time"
)

// SeriesTimeFormat is the layout of generated bucket boundaries.
const SeriesTimeFormat = "2006-01-02T15:04:05.000"

// MaxSeriesBuckets bounds the number of buckets TimeSeries will generate.
const MaxSeriesBuckets = 50000

var seriesInputLayouts = []string{
	SeriesTimeFormat,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// DateSeries renders the date series CTE for td: "<alias> AS (<series>)".
func (c *Compiler) DateSeries(td TimeDimension) (string, error) {
	if !td.Granularity.Valid() {
		return "", &UnknownGranularityError{Granularity: string(td.Granularity), Dialect: c.dialect.Name()}
	}
	if len(td.Series) == 0 {
		return "", ErrNoSeries
	}
	return fmt.Sprintf("%s AS (%s)", td.DateSeriesAlias(), c.dialect.SeriesSQL(td.Series)), nil
}

func parseSeriesTime(s string) (time.Time, error) {
	for _, layout := range seriesInputLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid series boundary %q", s)
}

// truncate floors t to the start of its g bucket.
func truncate(t time.Time, g Granularity, weekStart time.Weekday) time.Time {
	y, m, d := t.Date()
	switch g {
	case Second:
		return t.Truncate(time.Second)
	case Minute:
		return t.Truncate(time.Minute)
	case Hour:
		return t.Truncate(time.Hour)
	case Day:
		return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	case Week:
		back := (int(t.Weekday()) - int(weekStart) + 7) % 7
		return time.Date(y, m, d-back, 0, 0, 0, 0, t.Location())
	case Month:
		return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
	case Quarter:
		return time.Date(y, m-(m-1)%3, 1, 0, 0, 0, 0, t.Location())
	default:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, t.Location())
	}
}

// next returns the start of the bucket after the one starting at t.
func next(t time.Time, g Granularity) time.Time {
	switch g {
	case Second:
		return t.Add(time.Second)
	case Minute:
		return t.Add(time.Minute)
	case Hour:
		return t.Add(time.Hour)
	case Day:
		return t.AddDate(0, 0, 1)
	case Week:
		return t.AddDate(0, 0, 7)
	case Month:
		return t.AddDate(0, 1, 0)
	case Quarter:
		return t.AddDate(0, 3, 0)
	default:
		return t.AddDate(1, 0, 0)
	}
}

// TimeSeries splits [from, to] into g buckets. The first bucket starts at
// from truncated to g; each bucket ends one millisecond before the next one
// starts. Boundaries use SeriesTimeFormat.
func TimeSeries(g Granularity, from, to string, weekStart time.Weekday) ([]TimeRange, error) {
	if !g.Valid() {
		return nil, &UnknownGranularityError{Granularity: string(g)}
	}
	start, err := parseSeriesTime(from)
	if err != nil {
		return nil, err
	}
	end, err := parseSeriesTime(to)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("series end %s is before start %s", to, from)
	}

	var ranges []TimeRange
	for cur := truncate(start, g, weekStart); !cur.After(end); {
		if len(ranges) == MaxSeriesBuckets {
			return nil, fmt.Errorf("series from %s to %s by %s exceeds %d buckets", from, to, g, MaxSeriesBuckets)
		}
		n := next(cur, g)
		ranges = append(ranges, TimeRange{
			From: cur.Format(SeriesTimeFormat),
			To:   n.Add(-time.Millisecond).Format(SeriesTimeFormat),
		})
		cur = n
	}
	return ranges, nil
}
