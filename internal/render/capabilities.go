package render

import "github.com/zoobzio/rollup/internal/types"

// Capabilities describes the SQL features supported by a dialect.
type Capabilities struct {
	Placeholder        types.PlaceholderStyle // positional parameter spelling
	GroupByOrdinal     bool                   // GROUP BY 1, 2
	Sketches           bool                   // HLL init/merge
	TimezoneConversion bool                   // named timezone conversion
	TimestampIsInstant bool                   // plain TIMESTAMP columns hold instants
}
