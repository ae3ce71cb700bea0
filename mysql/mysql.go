// Package mysql provides the MySQL and MariaDB dialect for rollup.
package mysql

import (
	"fmt"
	"strings"
	"time"

	"github.com/zoobzio/rollup/internal/render"
	"github.com/zoobzio/rollup/internal/types"
)

// Name is the registry name of the dialect.
const Name = "mysql"

// formats truncate by reformatting the value; week and quarter are computed.
var formats = map[types.Granularity]string{
	types.Second: "%Y-%m-%d %H:%i:%s",
	types.Minute: "%Y-%m-%d %H:%i:00",
	types.Hour:   "%Y-%m-%d %H:00:00",
	types.Day:    "%Y-%m-%d 00:00:00",
	types.Month:  "%Y-%m-01 00:00:00",
	types.Year:   "%Y-01-01 00:00:00",
}

var units = map[types.Granularity]string{
	types.Second:  "SECOND",
	types.Minute:  "MINUTE",
	types.Hour:    "HOUR",
	types.Day:     "DAY",
	types.Week:    "WEEK",
	types.Month:   "MONTH",
	types.Quarter: "QUARTER",
	types.Year:    "YEAR",
}

// Dialect implements the MySQL capability table.
type Dialect struct {
	templates *render.Templates
	timezone  string
	weekStart time.Weekday
}

// New creates a MySQL dialect.
func New(opts ...render.Option) *Dialect {
	o := render.NewOptions(opts...)
	d := &Dialect{timezone: o.Timezone, weekStart: o.WeekStart}

	base := render.Defaults().Extend(map[string]render.Template{
		render.FuncDateTrunc: d.dateTrunc,
		render.FuncLog:       render.Log("LOG10", "LOG"),
		render.ExprInterval: func(a render.TemplateArgs) (string, error) {
			return "INTERVAL " + a.Interval, nil
		},
		render.ExprExtract: func(a render.TemplateArgs) (string, error) {
			switch a.DatePart {
			case "DOW":
				return fmt.Sprintf("DAYOFWEEK(%s)", a.Expr), nil
			case "DOY":
				return fmt.Sprintf("DAYOFYEAR(%s)", a.Expr), nil
			}
			return fmt.Sprintf("EXTRACT(%s FROM %s)", a.DatePart, a.Expr), nil
		},
	}).WithQuotes(render.Quotes{Identifiers: "`", Escape: "``"})

	d.templates = o.Build(base)
	return d
}

// dateTrunc has no native counterpart; it reuses TimeGroupedColumn.
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

// Capabilities reports MySQL features.
func (*Dialect) Capabilities() render.Capabilities {
	return render.Capabilities{
		Placeholder:        types.PlaceholderQuestion,
		GroupByOrdinal:     true,
		TimezoneConversion: true,
	}
}

// Templates returns the template table.
func (d *Dialect) Templates() *render.Templates { return d.templates }

// TruncationUnit returns the MySQL unit keyword for g.
func (*Dialect) TruncationUnit(g types.Granularity) (string, bool) {
	u, ok := units[g]
	return u, ok
}

// TimeGroupedColumn truncates expr with DATE_FORMAT, or date arithmetic for
// weeks and quarters.
func (d *Dialect) TimeGroupedColumn(g types.Granularity, expr string) (string, error) {
	switch g {
	case types.Week:
		days := fmt.Sprintf("WEEKDAY(%s)", expr)
		if d.weekStart != time.Monday {
			days = fmt.Sprintf("((WEEKDAY(%s) + %d) %% 7)", expr, 8-int(d.weekStart))
		}
		return fmt.Sprintf("CAST(DATE_SUB(DATE(%s), INTERVAL %s DAY) AS DATETIME)", expr, days), nil
	case types.Quarter:
		return fmt.Sprintf("CAST(MAKEDATE(YEAR(%s), 1) + INTERVAL QUARTER(%s) QUARTER - INTERVAL 1 QUARTER AS DATETIME)",
			expr, expr), nil
	}
	format, ok := formats[g]
	if !ok {
		return "", &types.UnknownGranularityError{Granularity: string(g), Dialect: Name}
	}
	return fmt.Sprintf("CAST(DATE_FORMAT(%s, '%s') AS DATETIME)", expr, format), nil
}

// ConvertTz converts from the session timezone to the configured one. Named
// zones require the server's time zone tables.
func (d *Dialect) ConvertTz(field string) string {
	return fmt.Sprintf("CONVERT_TZ(%s, @@session.time_zone, '%s')", field, d.timezone)
}

func (*Dialect) DateTimeCast(value string) string {
	return fmt.Sprintf("CAST(%s AS DATETIME)", value)
}

func (*Dialect) TimeStampCast(value string) string {
	return fmt.Sprintf("TIMESTAMP(%s)", value)
}

func (*Dialect) CastToString(sql string) string {
	return fmt.Sprintf("CAST(%s AS CHAR)", sql)
}

// CastParameter casts booleans to UNSIGNED and numbers (and every measure)
// to DOUBLE.
func (*Dialect) CastParameter(placeholder string, t types.SemanticType, measure bool) string {
	switch {
	case t == types.TypeBoolean:
		return fmt.Sprintf("CAST(%s AS UNSIGNED)", placeholder)
	case measure || t == types.TypeNumber:
		return fmt.Sprintf("CAST(%s AS DOUBLE)", placeholder)
	}
	return placeholder
}

// EscapeColumnName wraps name in backticks, doubling embedded backticks.
func (d *Dialect) EscapeColumnName(name string) string {
	return d.templates.QuoteIdentifier(name)
}

func (d *Dialect) shift(fn, date string, iv types.Interval) (string, error) {
	unit, ok := units[iv.Unit]
	if !ok {
		return "", &types.UnknownGranularityError{Granularity: string(iv.Unit), Dialect: Name}
	}
	interval, err := d.templates.Render(render.ExprInterval, render.TemplateArgs{
		Interval: fmt.Sprintf("%d %s", iv.Amount, unit),
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s(%s, %s)", fn, date, interval), nil
}

func (d *Dialect) AddInterval(date string, iv types.Interval) (string, error) {
	return d.shift("DATE_ADD", date, iv)
}

func (d *Dialect) SubtractInterval(date string, iv types.Interval) (string, error) {
	return d.shift("DATE_SUB", date, iv)
}

func (d *Dialect) AddTimestampInterval(date string, iv types.Interval) (string, error) {
	return d.shift("DATE_ADD", date, iv)
}

func (d *Dialect) SubtractTimestampInterval(date string, iv types.Interval) (string, error) {
	return d.shift("DATE_SUB", date, iv)
}

// LikeIgnoreCase renders LOWER(column) [NOT] LIKE CONCAT('%', LOWER(?), '%').
func (*Dialect) LikeIgnoreCase(column string, not bool, placeholder string, match types.MatchType) string {
	var sql strings.Builder
	sql.WriteString("LOWER(")
	sql.WriteString(column)
	sql.WriteString(")")
	if not {
		sql.WriteString(" NOT")
	}
	sql.WriteString(" LIKE ")
	sql.WriteString(render.LikePattern("LOWER("+placeholder+")", match, render.ConcatFunc))
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
	return "CURRENT_TIMESTAMP"
}

func (*Dialect) UnixTimestampSQL() string {
	return "UNIX_TIMESTAMP()"
}

func (*Dialect) ConcatStrings(parts []string) string {
	return render.ConcatFunc(parts)
}

func (*Dialect) DefaultRefreshKey() types.RefreshKey {
	return render.DefaultRefreshKey()
}
