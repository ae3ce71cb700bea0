package rollup

import (
	"fmt"
	"strings"

	"github.com/zoobzio/rollup/internal/render"
)

// Filter renders a single predicate. Values are bound in order.
func (c *Compiler) Filter(f Filter) (*QueryResult, error) {
	ctx := c.newRenderContext()
	sql, err := c.renderFilter(f, ctx)
	if err != nil {
		return nil, err
	}
	return &QueryResult{SQL: sql, Params: ctx.params}, nil
}

// Filters renders predicates joined with AND, sharing one parameter
// sequence.
func (c *Compiler) Filters(fs []Filter) (*QueryResult, error) {
	ctx := c.newRenderContext()
	parts := make([]string, 0, len(fs))
	for i, f := range fs {
		sql, err := c.renderFilter(f, ctx)
		if err != nil {
			return nil, fmt.Errorf("filter %d: %w", i, err)
		}
		parts = append(parts, sql)
	}
	return &QueryResult{SQL: strings.Join(parts, " AND "), Params: ctx.params}, nil
}

// semanticType resolves the filter's declared type, falling back to the
// schema and then to string.
func (c *Compiler) semanticType(f Filter) SemanticType {
	if f.Type != "" {
		return f.Type
	}
	if c.schema != nil && f.Member != "" {
		if t, err := c.schema.SemanticType(f.Member); err == nil {
			return t
		}
	}
	return TypeString
}

// castParam binds v and casts its placeholder per the member's type.
func (c *Compiler) castParam(f Filter, t SemanticType, v any, ctx *renderContext) string {
	if f.Measure && t == TypeString {
		c.logger.Warn("measure filter declared as string is cast to float", "column", f.Column)
	}
	return c.dialect.CastParameter(ctx.addParam(v), t, f.Measure)
}

func (c *Compiler) renderFilter(f Filter, ctx *renderContext) (string, error) {
	if f.Column == "" {
		return "", fmt.Errorf("filter on %q has no column", f.Member)
	}
	t := c.semanticType(f)

	if match, ok := f.Operator.MatchType(); ok {
		return c.renderLike(f, match, ctx)
	}

	switch f.Operator {
	case Equals, NotEquals:
		return c.renderEquality(f, t, ctx)
	case GT, GTE, LT, LTE:
		if err := requireValues(f, 1); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s %s", f.Column, comparison[f.Operator], c.castParam(f, t, f.Values[0], ctx)), nil
	case Set, NotSet:
		return c.dialect.Templates().Render(render.ExprIsNull, render.TemplateArgs{
			Expr:    f.Column,
			Negated: f.Operator == Set,
		})
	case InDateRange, NotInDateRange:
		if err := requireValues(f, 2); err != nil {
			return "", err
		}
		from, to := c.dateParam(f, f.Values[0], ctx), c.dateParam(f, f.Values[1], ctx)
		if f.Operator == InDateRange {
			return fmt.Sprintf("%s >= %s AND %s <= %s", f.Column, from, f.Column, to), nil
		}
		return fmt.Sprintf("(%s < %s OR %s > %s)", f.Column, from, f.Column, to), nil
	case BeforeDate:
		if err := requireValues(f, 1); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s < %s", f.Column, c.dateParam(f, f.Values[0], ctx)), nil
	case AfterDate:
		if err := requireValues(f, 1); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s > %s", f.Column, c.dateParam(f, f.Values[0], ctx)), nil
	}
	return "", fmt.Errorf("unsupported filter operator: %s", f.Operator)
}

var comparison = map[Operator]string{
	GT:  ">",
	GTE: ">=",
	LT:  "<",
	LTE: "<=",
}

func requireValues(f Filter, n int) error {
	if len(f.Values) != n {
		return fmt.Errorf("%s filter on %s requires %d value(s), got %d", f.Operator, f.Column, n, len(f.Values))
	}
	return nil
}

// dateParam binds a date boundary cast to the column's temporal kind.
func (c *Compiler) dateParam(f Filter, v any, ctx *renderContext) string {
	p := ctx.addParam(v)
	if c.instant(f.Member, false) {
		return c.dialect.TimeStampCast(p)
	}
	return c.dialect.DateTimeCast(p)
}

// renderEquality renders = / IN, and their negations which also match NULL.
func (c *Compiler) renderEquality(f Filter, t SemanticType, ctx *renderContext) (string, error) {
	if len(f.Values) == 0 {
		return "", fmt.Errorf("%s filter on %s requires at least one value", f.Operator, f.Column)
	}
	placeholders := make([]string, len(f.Values))
	for i, v := range f.Values {
		placeholders[i] = c.castParam(f, t, v, ctx)
	}

	var cmp string
	switch {
	case len(placeholders) == 1 && f.Operator == Equals:
		cmp = fmt.Sprintf("%s = %s", f.Column, placeholders[0])
	case len(placeholders) == 1:
		cmp = fmt.Sprintf("%s <> %s", f.Column, placeholders[0])
	case f.Operator == Equals:
		cmp = fmt.Sprintf("%s IN (%s)", f.Column, strings.Join(placeholders, ", "))
	default:
		cmp = fmt.Sprintf("%s NOT IN (%s)", f.Column, strings.Join(placeholders, ", "))
	}
	if f.Operator == NotEquals {
		return fmt.Sprintf("(%s OR %s IS NULL)", cmp, f.Column), nil
	}
	return cmp, nil
}

// renderLike renders one case-insensitive match per value. Positive matches
// are joined with OR; negated ones with AND and also match NULL.
func (c *Compiler) renderLike(f Filter, match MatchType, ctx *renderContext) (string, error) {
	if len(f.Values) == 0 {
		return "", fmt.Errorf("%s filter on %s requires at least one value", f.Operator, f.Column)
	}
	not := f.Operator.Negated()
	parts := make([]string, len(f.Values))
	for i, v := range f.Values {
		parts[i] = c.dialect.LikeIgnoreCase(f.Column, not, ctx.addParam(v), match)
	}
	if not {
		return fmt.Sprintf("(%s OR %s IS NULL)", strings.Join(parts, " AND "), f.Column), nil
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return "(" + strings.Join(parts, " OR ") + ")", nil
}
