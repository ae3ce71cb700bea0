package types

// QueryResult contains a rendered SQL fragment and its bound values in
// placeholder order.
type QueryResult struct {
	SQL    string
	Params []any
}
