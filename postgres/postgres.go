// Package postgres provides the PostgreSQL dialect for rollup.
package postgres

import (
	"fmt"
	"strings"
	"time"

	"github.com/zoobzio/rollup/internal/render"
	"github.com/zoobzio/rollup/internal/types"
)

// Name is the registry name of the dialect.
const Name = "postgres"

var units = map[types.Granularity]string{
	types.Second:  "second",
	types.Minute:  "minute",
	types.Hour:    "hour",
	types.Day:     "day",
	types.Week:    "week",
	types.Month:   "month",
	types.Quarter: "quarter",
	types.Year:    "year",
}

// Dialect implements the PostgreSQL capability table.
type Dialect struct {
	templates *render.Templates
	timezone  string
	weekShift int // days from the configured week start to Monday
}

// New creates a PostgreSQL dialect.
func New(opts ...render.Option) *Dialect {
	o := render.NewOptions(opts...)
	return &Dialect{
		templates: o.Build(render.Defaults()),
		timezone:  o.Timezone,
		weekShift: (int(time.Monday) - int(o.WeekStart) + 7) % 7,
	}
}

// Name returns the registry name.
func (*Dialect) Name() string { return Name }

// Capabilities reports PostgreSQL features.
func (*Dialect) Capabilities() render.Capabilities {
	return render.Capabilities{
		Placeholder:        types.PlaceholderDollar,
		GroupByOrdinal:     true,
		TimezoneConversion: true,
	}
}

// Templates returns the template table.
func (d *Dialect) Templates() *render.Templates { return d.templates }

// TruncationUnit looks up the DATE_TRUNC field for g.
func (*Dialect) TruncationUnit(g types.Granularity) (string, bool) {
	u, ok := units[g]
	return u, ok
}

// TimeGroupedColumn renders DATE_TRUNC('unit', expr). DATE_TRUNC weeks
// start on Monday; other week starts shift the value before and after.
func (d *Dialect) TimeGroupedColumn(g types.Granularity, expr string) (string, error) {
	unit, ok := units[g]
	if !ok {
		return "", &types.UnknownGranularityError{Granularity: string(g), Dialect: Name}
	}
	if g == types.Week && d.weekShift != 0 {
		shift := fmt.Sprintf("INTERVAL '%d days'", d.weekShift)
		return fmt.Sprintf("(DATE_TRUNC('week', %s + %s) - %s)", expr, shift, shift), nil
	}
	return fmt.Sprintf("DATE_TRUNC('%s', %s)", unit, expr), nil
}

// ConvertTz converts a timestamptz to local time in the configured timezone.
func (d *Dialect) ConvertTz(field string) string {
	return fmt.Sprintf("(%s::timestamptz AT TIME ZONE '%s')", field, d.timezone)
}

func (*Dialect) DateTimeCast(value string) string {
	return value + "::timestamp"
}

func (*Dialect) TimeStampCast(value string) string {
	return value + "::timestamptz"
}

func (*Dialect) CastToString(sql string) string {
	return fmt.Sprintf("CAST(%s AS TEXT)", sql)
}

// CastParameter casts booleans to boolean and numbers (and every measure)
// to float.
func (*Dialect) CastParameter(placeholder string, t types.SemanticType, measure bool) string {
	switch {
	case t == types.TypeBoolean:
		return placeholder + "::boolean"
	case measure || t == types.TypeNumber:
		return placeholder + "::float"
	}
	return placeholder
}

// EscapeColumnName wraps name in double quotes, doubling embedded quotes.
func (d *Dialect) EscapeColumnName(name string) string {
	return d.templates.QuoteIdentifier(name)
}

func (d *Dialect) shift(op, date string, iv types.Interval) (string, error) {
	if err := iv.Validate(); err != nil {
		return "", &types.UnknownGranularityError{Granularity: string(iv.Unit), Dialect: Name}
	}
	// PostgreSQL interval input has no quarter field.
	if iv.Unit == types.Quarter {
		iv = types.Interval{Amount: iv.Amount * 3, Unit: types.Month}
	}
	interval, err := d.templates.Render(render.ExprInterval, render.TemplateArgs{Interval: iv.String()})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("(%s %s %s)", date, op, interval), nil
}

func (d *Dialect) AddInterval(date string, iv types.Interval) (string, error) {
	return d.shift("+", date, iv)
}

func (d *Dialect) SubtractInterval(date string, iv types.Interval) (string, error) {
	return d.shift("-", date, iv)
}

func (d *Dialect) AddTimestampInterval(date string, iv types.Interval) (string, error) {
	return d.shift("+", date, iv)
}

func (d *Dialect) SubtractTimestampInterval(date string, iv types.Interval) (string, error) {
	return d.shift("-", date, iv)
}

// LikeIgnoreCase renders column [NOT] ILIKE '%' || $n || '%'.
func (*Dialect) LikeIgnoreCase(column string, not bool, placeholder string, match types.MatchType) string {
	var sql strings.Builder
	sql.WriteString(column)
	if not {
		sql.WriteString(" NOT")
	}
	sql.WriteString(" ILIKE ")
	sql.WriteString(render.LikePattern(placeholder, match, render.PipeConcat))
	return sql.String()
}

// SeriesSQL renders ranges as a VALUES derived table.
func (d *Dialect) SeriesSQL(ranges []types.TimeRange) string {
	return fmt.Sprintf("SELECT %s date_from, %s date_to FROM (%s) AS dates (f, t)",
		d.DateTimeCast("dates.f"), d.DateTimeCast("dates.t"), render.ValuesSeries(ranges, "''"))
}

func (*Dialect) HLLInit(string) (string, error) {
	return "", render.NewUnsupportedFeatureError(Name, "HLL sketches", "install postgresql-hll and override the dialect")
}

func (*Dialect) HLLMerge(string) (string, error) {
	return "", render.NewUnsupportedFeatureError(Name, "HLL sketches", "install postgresql-hll and override the dialect")
}

func (*Dialect) CountDistinctApprox(string) (string, error) {
	return "", render.NewUnsupportedFeatureError(Name, "approximate distinct count", "use COUNT(DISTINCT ...)")
}

func (*Dialect) NowTimestampSQL() string {
	return "NOW()"
}

func (*Dialect) UnixTimestampSQL() string {
	return "EXTRACT(EPOCH FROM NOW())"
}

func (*Dialect) ConcatStrings(parts []string) string {
	return render.PipeConcat(parts)
}

func (*Dialect) DefaultRefreshKey() types.RefreshKey {
	return render.DefaultRefreshKey()
}
