// Package sqlite provides the SQLite dialect for rollup.
//
// SQLite stores datetimes as ISO-8601 text. Truncation and interval
// arithmetic use the datetime() and strftime() modifiers, so every rendered
// value has the form "YYYY-MM-DD HH:MM:SS".
package sqlite

import (
	"fmt"
	"strings"
	"time"

	"github.com/zoobzio/rollup/internal/render"
	"github.com/zoobzio/rollup/internal/types"
)

// Name is the registry name of the dialect.
const Name = "sqlite"

var units = map[types.Granularity]string{
	types.Second:  "seconds",
	types.Minute:  "minutes",
	types.Hour:    "hours",
	types.Day:     "days",
	types.Week:    "days",
	types.Month:   "months",
	types.Quarter: "months",
	types.Year:    "years",
}

var strftimeParts = map[string]string{
	"YEAR":   "%Y",
	"MONTH":  "%m",
	"DAY":    "%d",
	"HOUR":   "%H",
	"MINUTE": "%M",
	"SECOND": "%S",
	"DOW":    "%w",
	"DOY":    "%j",
}

// Dialect implements the SQLite capability table.
type Dialect struct {
	templates *render.Templates
	weekStart time.Weekday
}

// New creates a SQLite dialect. SQLite has no timezone support; the
// timezone option is ignored.
func New(opts ...render.Option) *Dialect {
	o := render.NewOptions(opts...)
	d := &Dialect{weekStart: o.WeekStart}

	base := render.Defaults().Extend(map[string]render.Template{
		render.FuncDateTrunc: d.dateTrunc,
		render.ExprInterval: func(render.TemplateArgs) (string, error) {
			return "", render.NewUnsupportedFeatureError(Name, "INTERVAL literals", "use datetime() modifiers")
		},
		render.ExprExtract: func(a render.TemplateArgs) (string, error) {
			format, ok := strftimeParts[a.DatePart]
			if !ok {
				return "", render.NewUnsupportedFeatureError(Name, "EXTRACT("+a.DatePart+")")
			}
			return fmt.Sprintf("CAST(strftime('%s', %s) AS INTEGER)", format, a.Expr), nil
		},
	})

	d.templates = o.Build(base)
	return d
}

func (d *Dialect) dateTrunc(a render.TemplateArgs) (string, error) {
	if len(a.Args) < 2 {
		return "", render.TemplateArgumentError{Key: render.FuncDateTrunc, Want: "(granularity, expr)", Got: a.Args}
	}
	g, err := types.ParseGranularity(a.DatePart)
	if err != nil {
		return "", err
	}
	return d.TimeGroupedColumn(g, a.Args[1])
}

// Name returns the registry name.
func (*Dialect) Name() string { return Name }

// Capabilities reports SQLite features.
func (*Dialect) Capabilities() render.Capabilities {
	return render.Capabilities{
		Placeholder:    types.PlaceholderQuestion,
		GroupByOrdinal: true,
	}
}

// Templates returns the template table.
func (d *Dialect) Templates() *render.Templates { return d.templates }

// TruncationUnit returns the datetime() modifier unit for g.
func (*Dialect) TruncationUnit(g types.Granularity) (string, bool) {
	u, ok := units[g]
	return u, ok
}

// TimeGroupedColumn truncates expr with strftime or datetime modifiers.
func (d *Dialect) TimeGroupedColumn(g types.Granularity, expr string) (string, error) {
	switch g {
	case types.Second:
		return fmt.Sprintf("strftime('%%Y-%%m-%%d %%H:%%M:%%S', %s)", expr), nil
	case types.Minute:
		return fmt.Sprintf("strftime('%%Y-%%m-%%d %%H:%%M:00', %s)", expr), nil
	case types.Hour:
		return fmt.Sprintf("strftime('%%Y-%%m-%%d %%H:00:00', %s)", expr), nil
	case types.Day:
		return fmt.Sprintf("datetime(%s, 'start of day')", expr), nil
	case types.Week:
		// 'weekday N' moves forward to the next day N, so step back first.
		return fmt.Sprintf("datetime(%s, 'start of day', '-6 days', 'weekday %d')", expr, int(d.weekStart)), nil
	case types.Month:
		return fmt.Sprintf("datetime(%s, 'start of month')", expr), nil
	case types.Quarter:
		return fmt.Sprintf("datetime(%s, 'start of month', '-' || ((CAST(strftime('%%m', %s) AS INTEGER) - 1) %% 3) || ' months')",
			expr, expr), nil
	case types.Year:
		return fmt.Sprintf("datetime(%s, 'start of year')", expr), nil
	}
	return "", &types.UnknownGranularityError{Granularity: string(g), Dialect: Name}
}

// ConvertTz is the identity: SQLite has no named timezones.
func (*Dialect) ConvertTz(field string) string {
	return field
}

func (*Dialect) DateTimeCast(value string) string {
	return fmt.Sprintf("datetime(%s)", value)
}

func (*Dialect) TimeStampCast(value string) string {
	return fmt.Sprintf("datetime(%s)", value)
}

func (*Dialect) CastToString(sql string) string {
	return fmt.Sprintf("CAST(%s AS TEXT)", sql)
}

// CastParameter casts booleans to INTEGER and numbers (and every measure)
// to REAL.
func (*Dialect) CastParameter(placeholder string, t types.SemanticType, measure bool) string {
	switch {
	case t == types.TypeBoolean:
		return fmt.Sprintf("CAST(%s AS INTEGER)", placeholder)
	case measure || t == types.TypeNumber:
		return fmt.Sprintf("CAST(%s AS REAL)", placeholder)
	}
	return placeholder
}

// EscapeColumnName wraps name in double quotes, doubling embedded quotes.
func (d *Dialect) EscapeColumnName(name string) string {
	return d.templates.QuoteIdentifier(name)
}

// modifier renders the datetime() modifier for iv, e.g. '+14 days'.
func modifier(iv types.Interval, sign int) (string, error) {
	unit, ok := units[iv.Unit]
	if !ok {
		return "", &types.UnknownGranularityError{Granularity: string(iv.Unit), Dialect: Name}
	}
	amount := sign * iv.Amount
	switch iv.Unit {
	case types.Week:
		amount *= 7
	case types.Quarter:
		amount *= 3
	}
	return fmt.Sprintf("'%+d %s'", amount, unit), nil
}

func shift(date string, iv types.Interval, sign int) (string, error) {
	mod, err := modifier(iv, sign)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("datetime(%s, %s)", date, mod), nil
}

func (*Dialect) AddInterval(date string, iv types.Interval) (string, error) {
	return shift(date, iv, 1)
}

func (*Dialect) SubtractInterval(date string, iv types.Interval) (string, error) {
	return shift(date, iv, -1)
}

func (*Dialect) AddTimestampInterval(date string, iv types.Interval) (string, error) {
	return shift(date, iv, 1)
}

func (*Dialect) SubtractTimestampInterval(date string, iv types.Interval) (string, error) {
	return shift(date, iv, -1)
}

// LikeIgnoreCase renders LOWER(column) [NOT] LIKE '%' || LOWER(?) || '%'.
func (*Dialect) LikeIgnoreCase(column string, not bool, placeholder string, match types.MatchType) string {
	var sql strings.Builder
	sql.WriteString("LOWER(")
	sql.WriteString(column)
	sql.WriteString(")")
	if not {
		sql.WriteString(" NOT")
	}
	sql.WriteString(" LIKE ")
	sql.WriteString(render.LikePattern("LOWER("+placeholder+")", match, render.PipeConcat))
	return sql.String()
}

// SeriesSQL renders ranges as a UNION ALL derived table.
func (d *Dialect) SeriesSQL(ranges []types.TimeRange) string {
	return fmt.Sprintf("SELECT %s date_from, %s date_to FROM (%s) AS dates",
		d.DateTimeCast("dates.f"), d.DateTimeCast("dates.t"), render.UnionSeries(ranges, "''"))
}

func (*Dialect) HLLInit(string) (string, error) {
	return "", render.NewUnsupportedFeatureError(Name, "HLL sketches")
}

func (*Dialect) HLLMerge(string) (string, error) {
	return "", render.NewUnsupportedFeatureError(Name, "HLL sketches")
}

func (*Dialect) CountDistinctApprox(string) (string, error) {
	return "", render.NewUnsupportedFeatureError(Name, "approximate distinct count", "use COUNT(DISTINCT ...)")
}

func (*Dialect) NowTimestampSQL() string {
	return "datetime('now')"
}

func (*Dialect) UnixTimestampSQL() string {
	return "CAST(strftime('%s', 'now') AS INTEGER)"
}

func (*Dialect) ConcatStrings(parts []string) string {
	return render.PipeConcat(parts)
}

func (*Dialect) DefaultRefreshKey() types.RefreshKey {
	return render.DefaultRefreshKey()
}
