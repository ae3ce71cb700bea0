package rollup

import (
	"io"
	"log/slog"

	"github.com/zoobzio/rollup/internal/types"
)

// Compiler renders query fragments for one dialect. It holds no per-call
// state and is safe for concurrent use.
type Compiler struct {
	dialect Dialect
	schema  *Schema
	logger  *slog.Logger
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithSchema resolves member types and timezone awareness from a schema.
func WithSchema(s *Schema) Option {
	return func(c *Compiler) {
		c.schema = s
	}
}

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *slog.Logger) Option {
	return func(c *Compiler) {
		c.logger = l
	}
}

// New creates a Compiler for d.
func New(d Dialect, opts ...Option) *Compiler {
	c := &Compiler{dialect: d}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c.logger = c.logger.With("dialect", d.Name())
	return c
}

// Dialect returns the compiler's dialect.
func (c *Compiler) Dialect() Dialect {
	return c.dialect
}

// renderContext allocates positional placeholders for bound values.
type renderContext struct {
	style  types.PlaceholderStyle
	params []any
}

func (c *Compiler) newRenderContext() *renderContext {
	return &renderContext{style: c.dialect.Capabilities().Placeholder}
}

// addParam binds v and returns its placeholder.
func (ctx *renderContext) addParam(v any) string {
	ctx.params = append(ctx.params, v)
	return ctx.style.Placeholder(len(ctx.params))
}

// instant reports whether the member's column holds instants.
func (c *Compiler) instant(member string, declared bool) bool {
	if declared || c.schema == nil || member == "" {
		return declared
	}
	aware, err := c.schema.TimezoneAware(member, c.dialect.Capabilities().TimestampIsInstant)
	if err != nil {
		c.logger.Debug("schema lookup failed", "member", member, "error", err)
		return false
	}
	return aware
}

// TimeGroupedColumn truncates the dimension's column to its granularity,
// converting instants to the configured timezone first.
func (c *Compiler) TimeGroupedColumn(td TimeDimension) (string, error) {
	expr := td.Column
	if c.instant(td.Member, td.TimezoneAware) {
		if !c.dialect.Capabilities().TimezoneConversion {
			c.logger.Warn("dialect cannot convert timezones, truncating in storage time", "column", td.Column)
		}
		expr = c.dialect.ConvertTz(expr)
	}
	return c.dialect.TimeGroupedColumn(td.Granularity, expr)
}

// AddInterval adds iv to date, choosing the instant or civil arithmetic
// from the dimension's timezone awareness.
func (c *Compiler) AddInterval(td TimeDimension, date string, iv Interval) (string, error) {
	if c.instant(td.Member, td.TimezoneAware) {
		return c.dialect.AddTimestampInterval(date, iv)
	}
	return c.dialect.AddInterval(date, iv)
}

// SubtractInterval subtracts iv from date, choosing the instant or civil
// arithmetic from the dimension's timezone awareness.
func (c *Compiler) SubtractInterval(td TimeDimension, date string, iv Interval) (string, error) {
	if c.instant(td.Member, td.TimezoneAware) {
		return c.dialect.SubtractTimestampInterval(date, iv)
	}
	return c.dialect.SubtractInterval(date, iv)
}
