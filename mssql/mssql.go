// Package mssql provides the SQL Server dialect for rollup.
package mssql

import (
	"fmt"
	"strings"

	"github.com/zoobzio/rollup/internal/render"
	"github.com/zoobzio/rollup/internal/types"
)

// Name is the registry name of the dialect.
const Name = "mssql"

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

var extractParts = map[string]string{
	"DOW": "weekday",
	"DOY": "dayofyear",
}

var templates = render.Defaults().Extend(map[string]render.Template{
	render.FuncDateTrunc: func(a render.TemplateArgs) (string, error) {
		if len(a.Args) < 2 {
			return "", render.TemplateArgumentError{Key: render.FuncDateTrunc, Want: "(granularity, expr)", Got: a.Args}
		}
		return fmt.Sprintf("DATETRUNC(%s, %s)", strings.ToLower(a.DatePart), a.Args[1]), nil
	},
	render.FuncLog: func(a render.TemplateArgs) (string, error) {
		switch len(a.Args) {
		case 1:
			return fmt.Sprintf("LOG10(%s)", a.Args[0]), nil
		case 2:
			return fmt.Sprintf("LOG(%s)", a.ArgsConcat()), nil
		}
		return "", render.TemplateArgumentError{Key: render.FuncLog, Want: "(x[, base])", Got: a.Args}
	},
	render.ExprInterval: func(render.TemplateArgs) (string, error) {
		return "", render.NewUnsupportedFeatureError(Name, "INTERVAL literals", "use DATEADD")
	},
	render.ExprExtract: func(a render.TemplateArgs) (string, error) {
		part, ok := extractParts[a.DatePart]
		if !ok {
			part = strings.ToLower(a.DatePart)
		}
		return fmt.Sprintf("DATEPART(%s, %s)", part, a.Expr), nil
	},
}).WithQuotes(render.Quotes{Identifiers: "[", Close: "]", Escape: "]]"})

// Dialect implements the SQL Server capability table.
type Dialect struct {
	templates *render.Templates
	timezone  string
	weekShift int
}

// New creates a SQL Server dialect.
func New(opts ...render.Option) *Dialect {
	o := render.NewOptions(opts...)
	return &Dialect{
		templates: o.Build(templates),
		timezone:  o.Timezone,
		weekShift: 6 - int(o.WeekStart),
	}
}

// Name returns the registry name.
func (*Dialect) Name() string { return Name }

// Capabilities reports SQL Server features.
func (*Dialect) Capabilities() render.Capabilities {
	return render.Capabilities{
		Placeholder:        types.PlaceholderAtP,
		TimezoneConversion: true,
	}
}

// Templates returns the template table.
func (d *Dialect) Templates() *render.Templates { return d.templates }

// TruncationUnit looks up the DATETRUNC datepart for g.
func (*Dialect) TruncationUnit(g types.Granularity) (string, bool) {
	u, ok := units[g]
	return u, ok
}

// TimeGroupedColumn renders DATETRUNC(unit, expr). Weeks are computed from
// DATEPART(weekday) and @@DATEFIRST so the result does not depend on the
// session language.
func (d *Dialect) TimeGroupedColumn(g types.Granularity, expr string) (string, error) {
	unit, ok := units[g]
	if !ok {
		return "", &types.UnknownGranularityError{Granularity: string(g), Dialect: Name}
	}
	if g == types.Week {
		return fmt.Sprintf("DATEADD(day, -((DATEPART(weekday, %s) + @@DATEFIRST + %d) %% 7), DATETRUNC(day, %s))",
			expr, d.weekShift, expr), nil
	}
	return fmt.Sprintf("DATETRUNC(%s, %s)", unit, expr), nil
}

// ConvertTz converts a datetimeoffset to local datetime2 in the configured
// timezone.
func (d *Dialect) ConvertTz(field string) string {
	return fmt.Sprintf("CAST(%s AT TIME ZONE '%s' AS datetime2)", field, d.timezone)
}

func (*Dialect) DateTimeCast(value string) string {
	return fmt.Sprintf("CAST(%s AS datetime2)", value)
}

func (*Dialect) TimeStampCast(value string) string {
	return fmt.Sprintf("CAST(%s AS datetimeoffset)", value)
}

func (*Dialect) CastToString(sql string) string {
	return fmt.Sprintf("CAST(%s AS NVARCHAR(MAX))", sql)
}

// CastParameter casts booleans to BIT and numbers (and every measure) to
// FLOAT.
func (*Dialect) CastParameter(placeholder string, t types.SemanticType, measure bool) string {
	switch {
	case t == types.TypeBoolean:
		return fmt.Sprintf("CAST(%s AS BIT)", placeholder)
	case measure || t == types.TypeNumber:
		return fmt.Sprintf("CAST(%s AS FLOAT)", placeholder)
	}
	return placeholder
}

// EscapeColumnName quotes a SQL Server identifier with square brackets.
func (d *Dialect) EscapeColumnName(name string) string {
	return d.templates.QuoteIdentifier(name)
}

func (*Dialect) dateAdd(date string, iv types.Interval, sign int) (string, error) {
	unit, ok := units[iv.Unit]
	if !ok {
		return "", &types.UnknownGranularityError{Granularity: string(iv.Unit), Dialect: Name}
	}
	return fmt.Sprintf("DATEADD(%s, %d, %s)", unit, sign*iv.Amount, date), nil
}

func (d *Dialect) AddInterval(date string, iv types.Interval) (string, error) {
	return d.dateAdd(date, iv, 1)
}

func (d *Dialect) SubtractInterval(date string, iv types.Interval) (string, error) {
	return d.dateAdd(date, iv, -1)
}

func (d *Dialect) AddTimestampInterval(date string, iv types.Interval) (string, error) {
	return d.dateAdd(date, iv, 1)
}

func (d *Dialect) SubtractTimestampInterval(date string, iv types.Interval) (string, error) {
	return d.dateAdd(date, iv, -1)
}

// LikeIgnoreCase renders LOWER(column) [NOT] LIKE CONCAT('%', LOWER(@pN), '%').
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

// SeriesSQL renders ranges as a VALUES derived table.
func (d *Dialect) SeriesSQL(ranges []types.TimeRange) string {
	return fmt.Sprintf("SELECT %s date_from, %s date_to FROM (%s) AS dates (f, t)",
		d.DateTimeCast("dates.f"), d.DateTimeCast("dates.t"), render.ValuesSeries(ranges, "''"))
}

func (*Dialect) HLLInit(string) (string, error) {
	return "", render.NewUnsupportedFeatureError(Name, "HLL sketches", "use APPROX_COUNT_DISTINCT")
}

func (*Dialect) HLLMerge(string) (string, error) {
	return "", render.NewUnsupportedFeatureError(Name, "HLL sketches", "use APPROX_COUNT_DISTINCT")
}

func (*Dialect) CountDistinctApprox(sql string) (string, error) {
	return fmt.Sprintf("APPROX_COUNT_DISTINCT(%s)", sql), nil
}

func (*Dialect) NowTimestampSQL() string {
	return "SYSDATETIMEOFFSET()"
}

func (*Dialect) UnixTimestampSQL() string {
	return "DATEDIFF_BIG(second, '1970-01-01', SYSUTCDATETIME())"
}

func (*Dialect) ConcatStrings(parts []string) string {
	return render.ConcatFunc(parts)
}

func (*Dialect) DefaultRefreshKey() types.RefreshKey {
	return render.DefaultRefreshKey()
}
