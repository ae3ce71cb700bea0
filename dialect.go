package rollup

import "github.com/zoobzio/rollup/internal/render"

// Dialect is the capability table of one SQL engine. Implementations are
// immutable after construction and safe for concurrent use.
type Dialect interface {
	// Name returns the registry name of the dialect.
	Name() string

	// Capabilities reports the optional SQL features the engine supports.
	Capabilities() render.Capabilities

	// Templates returns the immutable template table.
	Templates() *render.Templates

	// TruncationUnit looks up the truncation unit for g. ok is false for
	// granularities outside the enumerated set.
	TruncationUnit(g Granularity) (unit string, ok bool)

	// TimeGroupedColumn truncates expr to g.
	TimeGroupedColumn(g Granularity, expr string) (string, error)

	// ConvertTz converts an instant column to a civil datetime in the
	// configured timezone.
	ConvertTz(field string) string

	// DateTimeCast casts value to the civil datetime type.
	DateTimeCast(value string) string

	// TimeStampCast casts value to the instant timestamp type.
	TimeStampCast(value string) string

	// CastToString casts any value to the string type.
	CastToString(sql string) string

	// CastParameter wraps a bound placeholder according to the declared type.
	CastParameter(placeholder string, t SemanticType, measure bool) string

	// EscapeColumnName quotes an identifier.
	EscapeColumnName(name string) string

	// AddInterval and SubtractInterval operate on civil datetimes.
	AddInterval(date string, iv Interval) (string, error)
	SubtractInterval(date string, iv Interval) (string, error)

	// AddTimestampInterval and SubtractTimestampInterval operate on instants.
	AddTimestampInterval(date string, iv Interval) (string, error)
	SubtractTimestampInterval(date string, iv Interval) (string, error)

	// LikeIgnoreCase renders a case-insensitive substring match.
	LikeIgnoreCase(column string, not bool, placeholder string, match MatchType) string

	// SeriesSQL renders ranges as a derived table with date_from/date_to.
	SeriesSQL(ranges []TimeRange) string

	// HLLInit, HLLMerge and CountDistinctApprox render approximate distinct
	// counting. Engines without sketches return UnsupportedFeatureError.
	HLLInit(sql string) (string, error)
	HLLMerge(sql string) (string, error)
	CountDistinctApprox(sql string) (string, error)

	NowTimestampSQL() string
	UnixTimestampSQL() string
	ConcatStrings(parts []string) string

	// DefaultRefreshKey is the refresh policy for measures without one.
	DefaultRefreshKey() RefreshKey
}
