package cli

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/zoobzio/rollup"
)

// queryFile is the YAML form of a cumulative query. Scalars that YAML
// users tend to quote or not (booleans, filter values) are decoded loosely.
type queryFile struct {
	TimeDimensions []timeDimensionSpec `yaml:"time_dimensions"`
	Dimensions     []dimensionSpec     `yaml:"dimensions"`
	Measures       []measureSpec       `yaml:"measures"`
	Filters        []filterSpec        `yaml:"filters"`
	BaseQuery      string              `yaml:"base_query"`
	BaseAlias      string              `yaml:"base_alias"`
	JoinCondition  string              `yaml:"join_condition"`
	RollingWindow  *windowSpec         `yaml:"rolling_window"`
}

type timeDimensionSpec struct {
	Column        string     `yaml:"column"`
	Member        string     `yaml:"member"`
	Alias         string     `yaml:"alias"`
	Granularity   string     `yaml:"granularity"`
	DateRange     []string   `yaml:"date_range"`
	Series        [][]string `yaml:"series"`
	TimezoneAware any        `yaml:"timezone_aware"`
}

type dimensionSpec struct {
	Alias string `yaml:"alias"`
	SQL   string `yaml:"sql"`
}

type measureSpec struct {
	Alias string `yaml:"alias"`
	SQL   string `yaml:"sql"`
	Type  string `yaml:"type"`
}

type filterSpec struct {
	Column   string `yaml:"column"`
	Member   string `yaml:"member"`
	Operator string `yaml:"operator"`
	Type     string `yaml:"type"`
	Values   []any  `yaml:"values"`
	Measure  any    `yaml:"measure"`
}

type windowSpec struct {
	Column   string `yaml:"column"`
	Trailing string `yaml:"trailing"`
	Leading  string `yaml:"leading"`
	Offset   string `yaml:"offset"`
}

// Query is a decoded query file.
type Query struct {
	Cumulative rollup.CumulativeQuery
	Filters    []rollup.Filter
}

// LoadQuery reads and decodes a query file. Rolling windows are turned into
// join conditions with c; date ranges are split into buckets starting weeks
// on weekStart.
func LoadQuery(path string, c *rollup.Compiler, weekStart time.Weekday) (*Query, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read query file: %w", err)
	}
	return ParseQuery(data, c, weekStart)
}

// ParseQuery decodes query YAML.
func ParseQuery(data []byte, c *rollup.Compiler, weekStart time.Weekday) (*Query, error) {
	var qf queryFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&qf); err != nil {
		return nil, fmt.Errorf("invalid query file: %w", err)
	}

	q := &Query{}
	cq := &q.Cumulative
	cq.BaseQuery = qf.BaseQuery
	cq.BaseAlias = qf.BaseAlias
	if cq.BaseAlias == "" {
		cq.BaseAlias = "base"
	}

	for i, spec := range qf.TimeDimensions {
		td, err := spec.build(weekStart)
		if err != nil {
			return nil, fmt.Errorf("time_dimensions[%d]: %w", i, err)
		}
		cq.TimeDimensions = append(cq.TimeDimensions, td)
	}
	for _, d := range qf.Dimensions {
		cq.Dimensions = append(cq.Dimensions, rollup.Dimension{Alias: d.Alias, SQL: d.SQL})
	}
	for _, m := range qf.Measures {
		cq.Measures = append(cq.Measures, rollup.Measure{
			Alias:      m.Alias,
			SQL:        m.SQL,
			Type:       rollup.MeasureType(m.Type),
			Cumulative: true,
		})
	}
	for i, spec := range qf.Filters {
		f, err := spec.build()
		if err != nil {
			return nil, fmt.Errorf("filters[%d]: %w", i, err)
		}
		q.Filters = append(q.Filters, f)
	}

	cq.JoinCondition = qf.JoinCondition
	if cq.JoinCondition == "" && qf.RollingWindow != nil {
		w := qf.RollingWindow
		column := w.Column
		if column == "" && len(cq.TimeDimensions) > 0 {
			column = cq.BaseAlias + "." + cq.TimeDimensions[0].Column
		}
		cond, err := c.DateJoinCondition(column, rollup.RollingWindow{
			Trailing: w.Trailing,
			Leading:  w.Leading,
			Offset:   rollup.WindowOffset(w.Offset),
		})
		if err != nil {
			return nil, fmt.Errorf("rolling_window: %w", err)
		}
		cq.JoinCondition = cond
	}
	return q, nil
}

func (s timeDimensionSpec) build(weekStart time.Weekday) (rollup.TimeDimension, error) {
	td := rollup.TimeDimension{
		Column: s.Column,
		Member: s.Member,
		Alias:  s.Alias,
	}
	if s.Granularity != "" {
		g, err := rollup.ParseGranularity(s.Granularity)
		if err != nil {
			return td, err
		}
		td.Granularity = g
	}
	if s.TimezoneAware != nil {
		aware, err := cast.ToBoolE(s.TimezoneAware)
		if err != nil {
			return td, fmt.Errorf("timezone_aware: %w", err)
		}
		td.TimezoneAware = aware
	}

	switch {
	case len(s.Series) > 0:
		for i, pair := range s.Series {
			if len(pair) != 2 {
				return td, fmt.Errorf("series[%d]: expected [from, to], got %d values", i, len(pair))
			}
			td.Series = append(td.Series, rollup.TimeRange{From: pair[0], To: pair[1]})
		}
	case len(s.DateRange) > 0:
		if len(s.DateRange) != 2 {
			return td, fmt.Errorf("date_range: expected [from, to], got %d values", len(s.DateRange))
		}
		series, err := rollup.TimeSeries(td.Granularity, s.DateRange[0], s.DateRange[1], weekStart)
		if err != nil {
			return td, err
		}
		td.Series = series
	}
	return td, nil
}

func (s filterSpec) build() (rollup.Filter, error) {
	f := rollup.Filter{
		Column:   s.Column,
		Member:   s.Member,
		Operator: rollup.Operator(s.Operator),
		Type:     rollup.SemanticType(s.Type),
	}
	if s.Measure != nil {
		measure, err := cast.ToBoolE(s.Measure)
		if err != nil {
			return f, fmt.Errorf("measure: %w", err)
		}
		f.Measure = measure
	}
	for i, v := range s.Values {
		value, err := normalizeValue(v, f.Type)
		if err != nil {
			return f, fmt.Errorf("values[%d]: %w", i, err)
		}
		f.Values = append(f.Values, value)
	}
	return f, nil
}

// normalizeValue converts a decoded YAML scalar to the Go type bound for t.
func normalizeValue(v any, t rollup.SemanticType) (any, error) {
	switch t {
	case rollup.TypeNumber:
		return cast.ToFloat64E(v)
	case rollup.TypeBoolean:
		return cast.ToBoolE(v)
	case rollup.TypeTime:
		if tm, ok := v.(time.Time); ok {
			return tm.Format(rollup.SeriesTimeFormat), nil
		}
	}
	return cast.ToStringE(v)
}
