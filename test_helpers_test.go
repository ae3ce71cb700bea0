package rollup

import (
	"testing"

	"github.com/zoobzio/dbml"
)

// testSchema builds the orders/events schema used across compiler tests.
func testSchema(t *testing.T) *Schema {
	t.Helper()

	project := dbml.NewProject("test")

	orders := dbml.NewTable("orders")
	orders.AddColumn(dbml.NewColumn("id", "bigint"))
	orders.AddColumn(dbml.NewColumn("status", "varchar"))
	orders.AddColumn(dbml.NewColumn("amount", "numeric(10, 2)"))
	orders.AddColumn(dbml.NewColumn("paid", "boolean"))
	orders.AddColumn(dbml.NewColumn("created_at", "timestamp"))
	orders.AddColumn(dbml.NewColumn("shipped_on", "date"))
	project.AddTable(orders)

	events := dbml.NewTable("events")
	events.AddColumn(dbml.NewColumn("id", "bigint"))
	events.AddColumn(dbml.NewColumn("name", "text"))
	events.AddColumn(dbml.NewColumn("occurred_at", "timestamptz"))
	events.AddColumn(dbml.NewColumn("logged_at", "timestamp with time zone"))
	events.AddColumn(dbml.NewColumn("payload", "jsonb"))
	project.AddTable(events)

	s, err := NewSchema(project)
	if err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}
	return s
}

// twoMonths is the January/February 2021 series.
var twoMonths = []TimeRange{
	{From: "2021-01-01", To: "2021-01-31"},
	{From: "2021-02-01", To: "2021-02-28"},
}

func assertSQL(t *testing.T, expected, actual string) {
	t.Helper()
	if expected != actual {
		t.Errorf("SQL mismatch:\nExpected: %s\nActual:   %s", expected, actual)
	}
}

func assertParams(t *testing.T, expected, actual []any) {
	t.Helper()
	if len(expected) != len(actual) {
		t.Errorf("Param count mismatch: expected %d, got %d\nExpected: %v\nActual: %v",
			len(expected), len(actual), expected, actual)
		return
	}
	for i := range expected {
		if expected[i] != actual[i] {
			t.Errorf("Param %d = %v, want %v", i, actual[i], expected[i])
		}
	}
}
