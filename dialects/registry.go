// Package dialects registers the built-in rollup dialects by name.
package dialects

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/zoobzio/rollup"
	"github.com/zoobzio/rollup/bigquery"
	"github.com/zoobzio/rollup/mssql"
	"github.com/zoobzio/rollup/mysql"
	"github.com/zoobzio/rollup/postgres"
	"github.com/zoobzio/rollup/sqlite"
)

// Factory creates a dialect from construction options.
type Factory func(opts ...rollup.DialectOption) rollup.Dialect

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

var (
	_ rollup.Dialect = (*bigquery.Dialect)(nil)
	_ rollup.Dialect = (*postgres.Dialect)(nil)
	_ rollup.Dialect = (*mssql.Dialect)(nil)
	_ rollup.Dialect = (*mysql.Dialect)(nil)
	_ rollup.Dialect = (*sqlite.Dialect)(nil)
)

func init() {
	Register(bigquery.Name, func(opts ...rollup.DialectOption) rollup.Dialect { return bigquery.New(opts...) })
	Register(postgres.Name, func(opts ...rollup.DialectOption) rollup.Dialect { return postgres.New(opts...) })
	Register(mssql.Name, func(opts ...rollup.DialectOption) rollup.Dialect { return mssql.New(opts...) })
	Register(mysql.Name, func(opts ...rollup.DialectOption) rollup.Dialect { return mysql.New(opts...) })
	Register("mariadb", func(opts ...rollup.DialectOption) rollup.Dialect { return mysql.New(opts...) })
	Register(sqlite.Name, func(opts ...rollup.DialectOption) rollup.Dialect { return sqlite.New(opts...) })
}

// Register adds a dialect factory to the registry, replacing any factory
// with the same name.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[strings.ToLower(name)] = factory
}

// Get retrieves a dialect factory by name.
func Get(name string) (Factory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[strings.ToLower(name)]
	return f, ok
}

// Open creates the named dialect.
func Open(name string, opts ...rollup.DialectOption) (rollup.Dialect, error) {
	if name == "" {
		return nil, fmt.Errorf("dialect not specified")
	}
	factory, ok := Get(name)
	if !ok {
		return nil, &UnknownDialectError{Name: name, Available: Names()}
	}
	return factory(opts...), nil
}

// Names returns all registered dialect names (sorted).
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a dialect name is registered.
func IsRegistered(name string) bool {
	_, ok := Get(name)
	return ok
}

// UnknownDialectError is returned when an unknown dialect is requested.
type UnknownDialectError struct {
	Name      string
	Available []string
}

func (e *UnknownDialectError) Error() string {
	return fmt.Sprintf("unknown dialect %q\nAvailable dialects: %v\nHint: Check dialect in rollup.yaml", e.Name, e.Available)
}
