// Package bigquery provides the BigQuery dialect for rollup.
package bigquery

import (
	"fmt"
	"strings"
	"time"

	"github.com/zoobzio/rollup/internal/render"
	"github.com/zoobzio/rollup/internal/types"
)

// Name is the registry name of the dialect.
const Name = "bigquery"

var baseUnits = map[types.Granularity]string{
	types.Second:  "SECOND",
	types.Minute:  "MINUTE",
	types.Hour:    "HOUR",
	types.Day:     "DAY",
	types.Month:   "MONTH",
	types.Quarter: "QUARTER",
	types.Year:    "YEAR",
}

var templates = render.Defaults().Extend(map[string]render.Template{
	render.FuncDateTrunc: func(a render.TemplateArgs) (string, error) {
		if len(a.Args) < 2 {
			return "", render.TemplateArgumentError{Key: render.FuncDateTrunc, Want: "(granularity, expr)", Got: a.Args}
		}
		return fmt.Sprintf("DATETIME_TRUNC(CAST(%s AS DATETIME), %s)", a.Args[1], a.DatePart), nil
	},
	render.FuncLog: func(a render.TemplateArgs) (string, error) {
		if len(a.Args) == 0 {
			return "", render.TemplateArgumentError{Key: render.FuncLog, Want: "(expr[, base])", Got: a.Args}
		}
		if len(a.Args) < 2 {
			return fmt.Sprintf("LOG(%s, 10)", a.ArgsConcat()), nil
		}
		return fmt.Sprintf("LOG(%s)", a.ArgsConcat()), nil
	},
	render.ExprBinary: func(a render.TemplateArgs) (string, error) {
		if a.Op == "%" {
			return fmt.Sprintf("MOD(%s, %s)", a.Left, a.Right), nil
		}
		return fmt.Sprintf("(%s %s %s)", a.Left, a.Op, a.Right), nil
	},
	render.ExprInterval: func(a render.TemplateArgs) (string, error) {
		return "INTERVAL " + a.Interval, nil
	},
	render.ExprExtract: func(a render.TemplateArgs) (string, error) {
		part := a.DatePart
		switch part {
		case "DOW":
			part = "DAYOFWEEK"
		case "DOY":
			part = "DAYOFYEAR"
		}
		return fmt.Sprintf("EXTRACT(%s FROM %s)", part, a.Expr), nil
	},
}).WithQuotes(render.Quotes{Identifiers: "`", Escape: "\\`"})

// Dialect implements the BigQuery capability table.
type Dialect struct {
	units     map[types.Granularity]string
	templates *render.Templates
	timezone  string
}

// New creates a BigQuery dialect.
func New(opts ...render.Option) *Dialect {
	o := render.NewOptions(opts...)

	units := make(map[types.Granularity]string, len(baseUnits)+1)
	for g, u := range baseUnits {
		units[g] = u
	}
	units[types.Week] = "WEEK(" + strings.ToUpper(o.WeekStart.String()) + ")"

	return &Dialect{
		units:     units,
		templates: o.Build(templates),
		timezone:  o.Timezone,
	}
}

// Name returns the registry name.
func (*Dialect) Name() string { return Name }

// Capabilities reports BigQuery features.
func (*Dialect) Capabilities() render.Capabilities {
	return render.Capabilities{
		Placeholder:        types.PlaceholderQuestion,
		GroupByOrdinal:     true,
		Sketches:           true,
		TimezoneConversion: true,
		TimestampIsInstant: true,
	}
}

// Templates returns the template table.
func (d *Dialect) Templates() *render.Templates { return d.templates }

// TruncationUnit looks up the DATETIME_TRUNC unit for g.
func (d *Dialect) TruncationUnit(g types.Granularity) (string, bool) {
	u, ok := d.units[g]
	return u, ok
}

// TimeGroupedColumn renders DATETIME_TRUNC(expr, UNIT).
func (d *Dialect) TimeGroupedColumn(g types.Granularity, expr string) (string, error) {
	unit, ok := d.units[g]
	if !ok {
		return "", &types.UnknownGranularityError{Granularity: string(g), Dialect: Name}
	}
	return fmt.Sprintf("DATETIME_TRUNC(%s, %s)", expr, unit), nil
}

// ConvertTz converts a TIMESTAMP to a DATETIME in the configured timezone.
func (d *Dialect) ConvertTz(field string) string {
	return fmt.Sprintf("DATETIME(%s, '%s')", field, d.timezone)
}

func (*Dialect) TimeStampCast(value string) string {
	return fmt.Sprintf("TIMESTAMP(%s)", value)
}

func (*Dialect) DateTimeCast(value string) string {
	return fmt.Sprintf("DATETIME(TIMESTAMP(%s))", value)
}

func (*Dialect) CastToString(sql string) string {
	return fmt.Sprintf("CAST(%s as STRING)", sql)
}

// CastParameter casts booleans to BOOL and numbers (and every measure) to
// FLOAT64. A measure holding strings is still cast to FLOAT64.
func (*Dialect) CastParameter(placeholder string, t types.SemanticType, measure bool) string {
	switch {
	case t == types.TypeBoolean:
		return fmt.Sprintf("CAST(%s AS BOOL)", placeholder)
	case measure || t == types.TypeNumber:
		return fmt.Sprintf("CAST(%s AS FLOAT64)", placeholder)
	}
	return placeholder
}

// EscapeColumnName wraps name in backticks.
func (d *Dialect) EscapeColumnName(name string) string {
	return d.templates.QuoteIdentifier(name)
}

func (d *Dialect) interval(iv types.Interval) (string, error) {
	unit, ok := baseUnits[iv.Unit]
	if iv.Unit == types.Week {
		unit, ok = "WEEK", true
	}
	if !ok {
		return "", &types.UnknownGranularityError{Granularity: string(iv.Unit), Dialect: Name}
	}
	return d.templates.Render(render.ExprInterval, render.TemplateArgs{
		Interval: fmt.Sprintf("%d %s", iv.Amount, unit),
	})
}

func (d *Dialect) wrap(fn, date string, iv types.Interval) (string, error) {
	interval, err := d.interval(iv)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s(%s, %s)", fn, date, interval), nil
}

func (d *Dialect) AddInterval(date string, iv types.Interval) (string, error) {
	return d.wrap("DATETIME_ADD", date, iv)
}

func (d *Dialect) SubtractInterval(date string, iv types.Interval) (string, error) {
	return d.wrap("DATETIME_SUB", date, iv)
}

// instantUnits are the units TIMESTAMP_ADD and TIMESTAMP_SUB accept.
var instantUnits = map[types.Granularity]bool{
	types.Second: true,
	types.Minute: true,
	types.Hour:   true,
	types.Day:    true,
}

func (d *Dialect) wrapInstant(fn, date string, iv types.Interval) (string, error) {
	_, known := baseUnits[iv.Unit]
	if (known || iv.Unit == types.Week) && !instantUnits[iv.Unit] {
		return "", render.NewUnsupportedFeatureError(Name,
			fmt.Sprintf("%s with %s intervals", fn, iv.Unit),
			"use a DATETIME column or express the interval in days")
	}
	return d.wrap(fn, date, iv)
}

func (d *Dialect) AddTimestampInterval(date string, iv types.Interval) (string, error) {
	return d.wrapInstant("TIMESTAMP_ADD", date, iv)
}

func (d *Dialect) SubtractTimestampInterval(date string, iv types.Interval) (string, error) {
	return d.wrapInstant("TIMESTAMP_SUB", date, iv)
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

// SeriesSQL renders one row per range as DATETIME date_from/date_to.
func (d *Dialect) SeriesSQL(ranges []types.TimeRange) string {
	return fmt.Sprintf("SELECT %s date_from, %s date_to FROM (%s) AS dates",
		d.DateTimeCast("dates.f"), d.DateTimeCast("dates.t"), render.UnionSeries(ranges, `\'`))
}

func (*Dialect) HLLInit(sql string) (string, error) {
	return fmt.Sprintf("HLL_COUNT.INIT(%s)", sql), nil
}

func (*Dialect) HLLMerge(sql string) (string, error) {
	return fmt.Sprintf("HLL_COUNT.MERGE(%s)", sql), nil
}

func (*Dialect) CountDistinctApprox(sql string) (string, error) {
	return fmt.Sprintf("APPROX_COUNT_DISTINCT(%s)", sql), nil
}

func (*Dialect) NowTimestampSQL() string {
	return "CURRENT_TIMESTAMP()"
}

func (d *Dialect) UnixTimestampSQL() string {
	return fmt.Sprintf("UNIX_SECONDS(%s)", d.NowTimestampSQL())
}

func (*Dialect) ConcatStrings(parts []string) string {
	return render.ConcatFunc(parts)
}

// DefaultRefreshKey checks every 2 minutes and treats values older than
// 120 seconds as stale.
func (*Dialect) DefaultRefreshKey() types.RefreshKey {
	return types.RefreshKey{
		Every:            types.Interval{Amount: 2, Unit: types.Minute},
		RenewalThreshold: 120 * time.Second,
	}
}
