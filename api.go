// Package rollup renders dialect-specific SQL for time-windowed and cumulative
// aggregation queries.
//
// The package consumes a ready-made query description (time dimensions,
// dimensions, measures, filters) and produces SQL text for one target engine.
// It never executes anything.
//
// # Basic Usage
//
// Pick a dialect and build a Compiler around it:
//
//	import "github.com/zoobzio/rollup/bigquery"
//
//	c := rollup.New(bigquery.New())
//
//	series, _ := rollup.TimeSeries(rollup.Month, "2021-01-01", "2021-02-28", time.Monday)
//	result, err := c.OverTimeSeriesSelect(rollup.CumulativeQuery{
//		TimeDimensions: []rollup.TimeDimension{{
//			Column:      "created_at",
//			Alias:       "date_from",
//			Granularity: rollup.Month,
//			Series:      series,
//		}},
//		Measures:      []rollup.Measure{{Alias: "total", Type: rollup.MeasureSum, Cumulative: true}},
//		BaseQuery:     "SELECT SUM(amount) total, created_at FROM orders GROUP BY created_at",
//		BaseAlias:     "base",
//		JoinCondition: "created_at <= date_to",
//	})
//
// # Dialects
//
// Each engine lives in its own package and implements Dialect:
// bigquery, postgres, mssql, mysql, sqlite. The dialects package registers
// them by name; configuration selects one with dialects.Open.
//
// # Templates
//
// Every dialect carries an immutable template table for generic operations
// (date truncation, logarithm, binary operators, interval literals, date-part
// extraction). Individual keys can be shadowed at construction time with
// WithTemplates; keys that are not overridden keep resolving to the
// dialect's table and then to the ANSI defaults.
//
// # Parameters
//
// Filter values are always bound. QueryResult.Params holds them in
// placeholder order. Only date series boundaries are inlined as literals.
package rollup

import (
	"time"

	"github.com/zoobzio/rollup/internal/render"
	"github.com/zoobzio/rollup/internal/types"
)

// Granularity is the truncation unit of a time dimension.
type Granularity = types.Granularity

// Re-export granularity constants for public API.
const (
	Second  = types.Second
	Minute  = types.Minute
	Hour    = types.Hour
	Day     = types.Day
	Week    = types.Week
	Month   = types.Month
	Quarter = types.Quarter
	Year    = types.Year
)

// ParseGranularity normalizes a granularity name.
func ParseGranularity(s string) (Granularity, error) {
	return types.ParseGranularity(s)
}

// Interval is an (amount, unit) pair.
type Interval = types.Interval

// ParseInterval parses "<amount> <unit>".
func ParseInterval(s string) (Interval, error) {
	return types.ParseInterval(s)
}

// TimeRange is one reporting bucket.
type TimeRange = types.TimeRange

// TimeDimension is a time-valued column with a requested granularity.
type TimeDimension = types.TimeDimension

// Dimension is a non-time grouping column.
type Dimension = types.Dimension

// Measure is a named aggregate expression.
type Measure = types.Measure

// MeasureType is the aggregation kind of a measure.
type MeasureType = types.MeasureType

// Re-export measure type constants for public API.
const (
	MeasureSum                 = types.MeasureSum
	MeasureCount               = types.MeasureCount
	MeasureMin                 = types.MeasureMin
	MeasureMax                 = types.MeasureMax
	MeasureCountDistinctApprox = types.MeasureCountDistinctApprox
	MeasureNumber              = types.MeasureNumber
	MeasureString              = types.MeasureString
	MeasureBoolean             = types.MeasureBoolean
	MeasureTime                = types.MeasureTime
)

// CumulativeQuery describes a rolling aggregation over a date series.
type CumulativeQuery = types.CumulativeQuery

// Filter is a predicate over one member.
type Filter = types.Filter

// Operator is a filter comparison operator.
type Operator = types.Operator

// Re-export operator constants for public API.
const (
	Equals         = types.Equals
	NotEquals      = types.NotEquals
	GT             = types.GT
	GTE            = types.GTE
	LT             = types.LT
	LTE            = types.LTE
	Contains       = types.Contains
	NotContains    = types.NotContains
	StartsWith     = types.StartsWith
	NotStartsWith  = types.NotStartsWith
	EndsWith       = types.EndsWith
	NotEndsWith    = types.NotEndsWith
	Set            = types.Set
	NotSet         = types.NotSet
	InDateRange    = types.InDateRange
	NotInDateRange = types.NotInDateRange
	BeforeDate     = types.BeforeDate
	AfterDate      = types.AfterDate
)

// SemanticType is the declared type of a filtered member.
type SemanticType = types.SemanticType

// Re-export semantic type constants for public API.
const (
	TypeString  = types.TypeString
	TypeNumber  = types.TypeNumber
	TypeBoolean = types.TypeBoolean
	TypeTime    = types.TypeTime
)

// MatchType selects wildcard placement for case-insensitive matches.
type MatchType = types.MatchType

// Re-export match type constants for public API.
const (
	MatchContains = types.MatchContains
	MatchStarts   = types.MatchStarts
	MatchEnds     = types.MatchEnds
)

// RefreshKey is a default cache-refresh policy.
type RefreshKey = types.RefreshKey

// QueryResult contains rendered SQL and its bound values.
type QueryResult = types.QueryResult

// Errors returned when assembling cumulative queries.
var (
	ErrNoTimeDimension        = types.ErrNoTimeDimension
	ErrMultipleTimeDimensions = types.ErrMultipleTimeDimensions
	ErrNoSeries               = types.ErrNoSeries
)

// UnknownGranularityError reports a granularity outside the enumerated set.
type UnknownGranularityError = types.UnknownGranularityError

// UnsupportedFeatureError indicates a feature the dialect cannot render.
type UnsupportedFeatureError = render.UnsupportedFeatureError

// Template renders one generic operation for a dialect.
type Template = render.Template

// TemplateArgs is the input of a Template.
type TemplateArgs = render.TemplateArgs

// DialectOption configures a dialect at construction time.
type DialectOption = render.Option

// WithTimezone sets the timezone used to convert instants to civil datetimes.
func WithTimezone(tz string) DialectOption {
	return render.WithTimezone(tz)
}

// WithWeekStart sets the first day of the week for week truncation.
func WithWeekStart(day time.Weekday) DialectOption {
	return render.WithWeekStart(day)
}

// WithTemplates shadows individual template keys.
func WithTemplates(overrides map[string]Template) DialectOption {
	return render.WithTemplates(overrides)
}
