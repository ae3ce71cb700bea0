package types

// SemanticType is the declared type of a filtered member.
type SemanticType string

const (
	TypeString  SemanticType = "string"
	TypeNumber  SemanticType = "number"
	TypeBoolean SemanticType = "boolean"
	TypeTime    SemanticType = "time"
)

// MatchType selects which side(s) of a LIKE pattern receive a wildcard.
type MatchType string

const (
	MatchContains MatchType = "contains" // also the zero value
	MatchStarts   MatchType = "starts"
	MatchEnds     MatchType = "ends"
)

// Leading reports whether the pattern needs a leading wildcard.
func (m MatchType) Leading() bool {
	return m == "" || m == MatchContains || m == MatchEnds
}

// Trailing reports whether the pattern needs a trailing wildcard.
func (m MatchType) Trailing() bool {
	return m == "" || m == MatchContains || m == MatchStarts
}

// Filter is a (column, operator, values) predicate over one member.
// Values are always bound as parameters, never inlined.
type Filter struct {
	Column   string // rendered column SQL
	Member   string // optional "table.column" reference for schema lookups
	Operator Operator
	Values   []any
	Type     SemanticType
	Measure  bool
}
