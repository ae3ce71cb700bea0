// Package testing provides test utilities for rollup.
package testing

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/zoobzio/dbml"

	"github.com/zoobzio/rollup"
	"github.com/zoobzio/rollup/internal/testutil"
)

// TestProject builds the orders/events DBML project shared by rollup tests.
func TestProject() *dbml.Project {
	project := dbml.NewProject("test")

	// Orders table
	orders := dbml.NewTable("orders")
	orders.AddColumn(dbml.NewColumn("id", "bigint"))
	orders.AddColumn(dbml.NewColumn("user_id", "bigint"))
	orders.AddColumn(dbml.NewColumn("status", "varchar"))
	orders.AddColumn(dbml.NewColumn("amount", "numeric"))
	orders.AddColumn(dbml.NewColumn("paid", "boolean"))
	orders.AddColumn(dbml.NewColumn("created_at", "timestamp"))
	project.AddTable(orders)

	// Events table
	events := dbml.NewTable("events")
	events.AddColumn(dbml.NewColumn("id", "bigint"))
	events.AddColumn(dbml.NewColumn("name", "text"))
	events.AddColumn(dbml.NewColumn("occurred_at", "timestamptz"))
	project.AddTable(events)

	return project
}

// TestSchema indexes TestProject.
func TestSchema(t *testing.T) *rollup.Schema {
	t.Helper()
	s, err := rollup.NewSchema(TestProject())
	if err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}
	return s
}

// TestCompiler creates a compiler for d with the test schema and a logger
// writing to t.Log.
func TestCompiler(t *testing.T, d rollup.Dialect) *rollup.Compiler {
	t.Helper()
	return rollup.New(d,
		rollup.WithSchema(TestSchema(t)),
		rollup.WithLogger(testutil.NewTestLogger(t)),
	)
}

// Series generates the buckets of [from, to] with weeks starting Monday.
func Series(t *testing.T, g rollup.Granularity, from, to string) []rollup.TimeRange {
	t.Helper()
	ranges, err := rollup.TimeSeries(g, from, to, time.Monday)
	if err != nil {
		t.Fatalf("Failed to generate series: %v", err)
	}
	return ranges
}

// AssertSQL compares expected and actual SQL, reporting detailed differences.
func AssertSQL(t *testing.T, expected, actual string) {
	t.Helper()
	if expected != actual {
		t.Errorf("SQL mismatch:\nExpected: %s\nActual:   %s", expected, actual)
	}
}

// AssertParams checks bound values in placeholder order.
func AssertParams(t *testing.T, expected, actual []any) {
	t.Helper()
	if len(expected) != len(actual) {
		t.Errorf("Param count mismatch: expected %d, got %d\nExpected: %v\nActual: %v",
			len(expected), len(actual), expected, actual)
		return
	}
	for i := range expected {
		if !reflect.DeepEqual(expected[i], actual[i]) {
			t.Errorf("Param %d mismatch: expected %v, got %v", i+1, expected[i], actual[i])
		}
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("Expected error but got nil")
	}
}

// AssertErrorContains checks that error message contains substring.
func AssertErrorContains(t *testing.T, err error, substr string) {
	t.Helper()
	if err == nil {
		t.Fatalf("Expected error containing %q but got nil", substr)
	}
	if !strings.Contains(err.Error(), substr) {
		t.Errorf("Expected error containing %q, got: %v", substr, err)
	}
}

// AssertPanics verifies that a function panics.
func AssertPanics(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic but function completed normally")
		}
	}()
	fn()
}
