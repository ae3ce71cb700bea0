package rollup

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zoobzio/rollup/internal/render"
)

const (
	outerSeriesAlias = "outer_series"
	outerBaseAlias   = "outer_base"
	seriesFromColumn = "date_from"
)

// OverTimeSeriesSelect renders a cumulative query: every bucket of the date
// series is LEFT JOINed to the per-bucket aggregate of the base rows that
// satisfy the join condition, so buckets without rows yield NULL measures.
//
// Exactly one active time dimension is supported.
func (c *Compiler) OverTimeSeriesSelect(q CumulativeQuery) (*QueryResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	td, _ := q.TimeDimension()

	cte, err := c.DateSeries(td)
	if err != nil {
		return nil, err
	}
	inner, err := c.cumulativeSelect(q, td)
	if err != nil {
		return nil, err
	}

	d := c.dialect
	seriesAlias := td.DateSeriesAlias()
	from := d.EscapeColumnName(seriesFromColumn)

	var sql strings.Builder
	sql.WriteString("WITH ")
	sql.WriteString(cte)
	sql.WriteString(" SELECT ")
	sql.WriteString(strings.Join(c.outerColumns(q, td), ", "))
	sql.WriteString(" FROM ")
	sql.WriteString(seriesAlias)
	sql.WriteString(" AS ")
	sql.WriteString(outerSeriesAlias)
	sql.WriteString(" LEFT JOIN (")
	sql.WriteString(inner)
	sql.WriteString(") AS ")
	sql.WriteString(outerBaseAlias)
	sql.WriteString(" ON ")
	sql.WriteString(outerSeriesAlias + "." + from)
	sql.WriteString(" = ")
	sql.WriteString(outerBaseAlias + "." + d.EscapeColumnName(td.Alias))

	c.logger.Debug("rendered cumulative query", "time_dimension", td.Alias, "measures", len(q.Measures))
	return &QueryResult{SQL: sql.String()}, nil
}

// outerColumns lists the bucket column, then dimension and measure aliases.
// Entries without an alias are dropped.
func (c *Compiler) outerColumns(q CumulativeQuery, td TimeDimension) []string {
	d := c.dialect
	cols := []string{fmt.Sprintf("%s.%s %s", outerSeriesAlias, d.EscapeColumnName(seriesFromColumn), d.EscapeColumnName(td.Alias))}
	for _, dim := range q.Dimensions {
		if dim.Alias != "" {
			cols = append(cols, d.EscapeColumnName(dim.Alias))
		}
	}
	for _, m := range q.Measures {
		if m.Alias != "" {
			cols = append(cols, d.EscapeColumnName(m.Alias))
		}
	}
	return cols
}

// cumulativeSelect renders the inner per-bucket aggregate.
func (c *Compiler) cumulativeSelect(q CumulativeQuery, td TimeDimension) (string, error) {
	d := c.dialect
	seriesAlias := td.DateSeriesAlias()

	bucket := seriesAlias + "." + d.EscapeColumnName(seriesFromColumn)
	columns := []string{bucket + " " + d.EscapeColumnName(td.Alias)}
	grouping := []string{bucket}

	for _, dim := range q.Dimensions {
		if dim.Alias == "" {
			continue
		}
		ref := q.BaseAlias + "." + d.EscapeColumnName(dim.Alias)
		columns = append(columns, ref+" "+d.EscapeColumnName(dim.Alias))
		grouping = append(grouping, ref)
	}
	for _, m := range q.Measures {
		if m.Alias == "" {
			continue
		}
		agg, err := c.rollupMeasure(m, q.BaseAlias+"."+d.EscapeColumnName(m.Alias))
		if err != nil {
			return "", err
		}
		columns = append(columns, agg+" "+d.EscapeColumnName(m.Alias))
	}

	var sql strings.Builder
	sql.WriteString("SELECT ")
	sql.WriteString(strings.Join(columns, ", "))
	sql.WriteString(" FROM ")
	sql.WriteString(seriesAlias)
	sql.WriteString(" INNER JOIN (")
	sql.WriteString(q.BaseQuery)
	sql.WriteString(") AS ")
	sql.WriteString(q.BaseAlias)
	sql.WriteString(" ON ")
	sql.WriteString(q.JoinCondition)
	sql.WriteString(" GROUP BY ")
	sql.WriteString(strings.Join(c.groupBy(grouping), ", "))
	return sql.String(), nil
}

// groupBy uses ordinals when the dialect accepts them.
func (c *Compiler) groupBy(exprs []string) []string {
	if !c.dialect.Capabilities().GroupByOrdinal {
		return exprs
	}
	ordinals := make([]string, len(exprs))
	for i := range exprs {
		ordinals[i] = strconv.Itoa(i + 1)
	}
	return ordinals
}

// rollupMeasure re-aggregates a base measure column across the rows joined
// to a bucket.
func (c *Compiler) rollupMeasure(m Measure, ref string) (string, error) {
	switch m.Type {
	case MeasureSum, MeasureCount, "":
		return "SUM(" + ref + ")", nil
	case MeasureMin:
		return "MIN(" + ref + ")", nil
	case MeasureMax:
		return "MAX(" + ref + ")", nil
	case MeasureCountDistinctApprox:
		if !c.dialect.Capabilities().Sketches {
			return "", render.NewUnsupportedFeatureError(c.dialect.Name(),
				fmt.Sprintf("cumulative approximate distinct count %q", m.Alias),
				"the engine has no mergeable HLL sketches")
		}
		return c.dialect.HLLMerge(ref)
	}
	return "", render.NewUnsupportedFeatureError(c.dialect.Name(),
		fmt.Sprintf("cumulative %s measure %q", m.Type, m.Alias),
		"use sum, count, min, max or countDistinctApprox")
}
