package types

// Operator represents filter comparison operators.
type Operator string

const (
	// Basic comparison operators.
	Equals    Operator = "equals"
	NotEquals Operator = "notEquals"
	GT        Operator = "gt"
	GTE       Operator = "gte"
	LT        Operator = "lt"
	LTE       Operator = "lte"

	// Case-insensitive substring operators.
	Contains      Operator = "contains"
	NotContains   Operator = "notContains"
	StartsWith    Operator = "startsWith"
	NotStartsWith Operator = "notStartsWith"
	EndsWith      Operator = "endsWith"
	NotEndsWith   Operator = "notEndsWith"

	// Null checks.
	Set    Operator = "set"
	NotSet Operator = "notSet"

	// Date operators.
	InDateRange    Operator = "inDateRange"
	NotInDateRange Operator = "notInDateRange"
	BeforeDate     Operator = "beforeDate"
	AfterDate      Operator = "afterDate"
)

// Negated reports whether the operator is the NOT form of a like match.
func (o Operator) Negated() bool {
	switch o {
	case NotContains, NotStartsWith, NotEndsWith:
		return true
	}
	return false
}

// MatchType returns the wildcard placement for like operators.
func (o Operator) MatchType() (MatchType, bool) {
	switch o {
	case Contains, NotContains:
		return MatchContains, true
	case StartsWith, NotStartsWith:
		return MatchStarts, true
	case EndsWith, NotEndsWith:
		return MatchEnds, true
	}
	return "", false
}
