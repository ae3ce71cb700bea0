package render

import (
	"strings"

	"github.com/zoobzio/rollup/internal/types"
)

// Literal quotes s as a SQL string literal; embedded quotes become escape.
func Literal(s, escape string) string {
	return "'" + strings.ReplaceAll(s, "'", escape) + "'"
}

// UnionSeries renders ranges as a UNION ALL of single-row selects with
// columns f and t, in input order.
func UnionSeries(ranges []types.TimeRange, escape string) string {
	rows := make([]string, len(ranges))
	for i, r := range ranges {
		rows[i] = "select " + Literal(r.From, escape) + " f, " + Literal(r.To, escape) + " t"
	}
	return strings.Join(rows, " UNION ALL ")
}

// ValuesSeries renders ranges as a VALUES list, in input order.
func ValuesSeries(ranges []types.TimeRange, escape string) string {
	rows := make([]string, len(ranges))
	for i, r := range ranges {
		rows[i] = "(" + Literal(r.From, escape) + ", " + Literal(r.To, escape) + ")"
	}
	return "VALUES " + strings.Join(rows, ", ")
}

// LikePattern builds the wildcard pattern around value by concatenation,
// using concat to join the parts.
func LikePattern(value string, match types.MatchType, concat func([]string) string) string {
	parts := make([]string, 0, 3)
	if match.Leading() {
		parts = append(parts, "'%'")
	}
	parts = append(parts, value)
	if match.Trailing() {
		parts = append(parts, "'%'")
	}
	return concat(parts)
}

// PipeConcat joins parts with the || operator.
func PipeConcat(parts []string) string {
	return strings.Join(parts, " || ")
}

// ConcatFunc joins parts with CONCAT(...).
func ConcatFunc(parts []string) string {
	return "CONCAT(" + strings.Join(parts, ", ") + ")"
}
