package render

import (
	"sort"
	"strings"
)

// Template keys recognized by every dialect.
const (
	FuncDateTrunc   = "functions.DATETRUNC"
	FuncLog         = "functions.LOG"
	FuncConcat      = "functions.CONCAT"
	FuncCoalesce    = "functions.COALESCE"
	FuncLower       = "functions.LOWER"
	ExprBinary      = "expressions.binary"
	ExprInterval    = "expressions.interval"
	ExprExtract     = "expressions.extract"
	ExprCast        = "expressions.cast"
	ExprColumnAlias = "expressions.column_aliased"
	ExprIsNull      = "expressions.is_null"
)

// TemplateArgs is the input of a template. Args holds already-rendered
// fragments in call order; the remaining fields apply to expression templates.
type TemplateArgs struct {
	Args     []string
	DatePart string
	Op       string
	Left     string
	Right    string
	Interval string
	Expr     string
	DataType string
	Alias    string
	Negated  bool
}

// ArgsConcat joins Args with ", ".
func (a TemplateArgs) ArgsConcat() string {
	return strings.Join(a.Args, ", ")
}

// Template renders one operation for one dialect.
type Template func(TemplateArgs) (string, error)

// Quotes configures identifier quoting. Close defaults to Identifiers;
// Escape replaces an embedded closing quote.
type Quotes struct {
	Identifiers string
	Close       string
	Escape      string
}

// Templates is an immutable template table. Entries shadow the parent by key;
// keys absent here resolve through the parent chain.
type Templates struct {
	parent  *Templates
	entries map[string]Template
	quotes  *Quotes
}

// NewTemplates creates a root table with the given entries and quotes.
func NewTemplates(entries map[string]Template, quotes Quotes) *Templates {
	t := &Templates{entries: make(map[string]Template, len(entries)), quotes: &quotes}
	for k, v := range entries {
		t.entries[k] = v
	}
	return t
}

// Extend returns a child table whose entries shadow t. The receiver is not
// modified.
func (t *Templates) Extend(overrides map[string]Template) *Templates {
	child := &Templates{parent: t, entries: make(map[string]Template, len(overrides))}
	for k, v := range overrides {
		child.entries[k] = v
	}
	return child
}

// WithQuotes returns a child table that overrides identifier quoting only.
func (t *Templates) WithQuotes(q Quotes) *Templates {
	child := t.Extend(nil)
	child.quotes = &q
	return child
}

// Lookup finds the template for key, walking the parent chain.
func (t *Templates) Lookup(key string) (Template, bool) {
	for cur := t; cur != nil; cur = cur.parent {
		if tmpl, ok := cur.entries[key]; ok {
			return tmpl, true
		}
	}
	return nil, false
}

// Render renders key with args.
func (t *Templates) Render(key string, args TemplateArgs) (string, error) {
	tmpl, ok := t.Lookup(key)
	if !ok {
		return "", UnknownTemplateError{Key: key}
	}
	return tmpl(args)
}

// Quotes returns the nearest quote configuration in the chain.
func (t *Templates) Quotes() Quotes {
	for cur := t; cur != nil; cur = cur.parent {
		if cur.quotes != nil {
			return *cur.quotes
		}
	}
	return Quotes{Identifiers: `"`, Escape: `""`}
}

// QuoteIdentifier wraps name in the identifier quote, escaping only the
// quote character itself.
func (t *Templates) QuoteIdentifier(name string) string {
	q := t.Quotes()
	closing := q.Close
	if closing == "" {
		closing = q.Identifiers
	}
	if q.Escape != "" {
		name = strings.ReplaceAll(name, closing, q.Escape)
	}
	return q.Identifiers + name + closing
}

// Keys returns every key reachable from t, sorted.
func (t *Templates) Keys() []string {
	seen := make(map[string]struct{})
	for cur := t; cur != nil; cur = cur.parent {
		for k := range cur.entries {
			seen[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
