package types

import "strconv"

// PlaceholderStyle is how a dialect spells a positional bound parameter.
type PlaceholderStyle int

const (
	PlaceholderQuestion PlaceholderStyle = iota // ?
	PlaceholderDollar                           // $1, $2
	PlaceholderAtP                              // @p1, @p2
)

// Placeholder renders the marker for the 1-based parameter index.
func (s PlaceholderStyle) Placeholder(index int) string {
	switch s {
	case PlaceholderDollar:
		return "$" + strconv.Itoa(index)
	case PlaceholderAtP:
		return "@p" + strconv.Itoa(index)
	default:
		return "?"
	}
}
