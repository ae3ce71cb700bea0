package types

import (
	"errors"
	"fmt"
)

// TimeRange is one reporting bucket, bounded by literal timestamp strings.
type TimeRange struct {
	From string
	To   string
}

// TimeDimension identifies a time-valued column and its requested granularity.
// Series holds the precomputed buckets when the dimension anchors a time series.
type TimeDimension struct {
	Column        string // rendered SQL of the time column
	Member        string // optional "table.column" reference for schema lookups
	Alias         string
	Granularity   Granularity
	Series        []TimeRange
	TimezoneAware bool // column holds instants rather than civil datetimes
}

// Active reports whether the dimension participates in grouping.
func (td TimeDimension) Active() bool {
	return td.Granularity != ""
}

// DateSeriesAlias is the CTE name used for the dimension's date series.
func (TimeDimension) DateSeriesAlias() string {
	return "date_series"
}

// Dimension is a non-time grouping column exposed by the base query.
type Dimension struct {
	Alias string
	SQL   string
}

// MeasureType is the aggregation kind of a measure.
type MeasureType string

const (
	MeasureSum                 MeasureType = "sum"
	MeasureCount               MeasureType = "count"
	MeasureMin                 MeasureType = "min"
	MeasureMax                 MeasureType = "max"
	MeasureCountDistinctApprox MeasureType = "countDistinctApprox"
	MeasureNumber              MeasureType = "number"
	MeasureString              MeasureType = "string"
	MeasureBoolean             MeasureType = "boolean"
	MeasureTime                MeasureType = "time"
)

// Measure is a named aggregate expression owned by the caller's IR.
type Measure struct {
	Alias        string
	SQL          string
	Type         MeasureType
	Cumulative   bool
	MeasureTyped bool
}

// Errors returned by CumulativeQuery.Validate.
var (
	ErrNoTimeDimension        = errors.New("cumulative query requires an active time dimension")
	ErrMultipleTimeDimensions = errors.New("cumulative query supports exactly one active time dimension")
	ErrNoSeries               = errors.New("time dimension has no series ranges")
)

// CumulativeQuery describes a rolling/cumulative aggregation over a date series.
// JoinCondition is supplied by the caller and relates base rows to
// date_series.date_from/date_to.
type CumulativeQuery struct {
	TimeDimensions []TimeDimension
	Dimensions     []Dimension
	Measures       []Measure
	BaseQuery      string
	BaseAlias      string
	JoinCondition  string
}

// TimeDimension returns the single active time dimension.
func (q *CumulativeQuery) TimeDimension() (TimeDimension, error) {
	var found []TimeDimension
	for _, td := range q.TimeDimensions {
		if td.Active() {
			found = append(found, td)
		}
	}
	switch len(found) {
	case 0:
		return TimeDimension{}, ErrNoTimeDimension
	case 1:
		return found[0], nil
	default:
		return TimeDimension{}, fmt.Errorf("%w: got %d", ErrMultipleTimeDimensions, len(found))
	}
}

// Validate performs basic validation on the query.
func (q *CumulativeQuery) Validate() error {
	td, err := q.TimeDimension()
	if err != nil {
		return err
	}
	if !td.Granularity.Valid() {
		return &UnknownGranularityError{Granularity: string(td.Granularity)}
	}
	if len(td.Series) == 0 {
		return ErrNoSeries
	}
	if td.Alias == "" {
		return fmt.Errorf("time dimension alias is required")
	}
	if q.BaseQuery == "" {
		return fmt.Errorf("base query is required")
	}
	if q.BaseAlias == "" {
		return fmt.Errorf("base query alias is required")
	}
	if q.JoinCondition == "" {
		return fmt.Errorf("join condition is required")
	}
	if len(q.Measures) == 0 {
		return fmt.Errorf("at least one cumulative measure is required")
	}
	return nil
}
