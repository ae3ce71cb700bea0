package rollup

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/zoobzio/rollup/bigquery"
	"github.com/zoobzio/rollup/internal/testutil"
	"github.com/zoobzio/rollup/mssql"
	"github.com/zoobzio/rollup/postgres"
	"github.com/zoobzio/rollup/sqlite"
)

func TestFilter_BigQuery(t *testing.T) {
	c := New(bigquery.New())

	tests := []struct {
		name     string
		filter   Filter
		expected string
		params   []any
	}{
		{
			name:     "equals",
			filter:   Filter{Column: "status", Operator: Equals, Values: []any{"paid"}},
			expected: "status = ?",
			params:   []any{"paid"},
		},
		{
			name:     "equals many numbers",
			filter:   Filter{Column: "amount", Operator: Equals, Type: TypeNumber, Values: []any{1, 2}},
			expected: "amount IN (CAST(? AS FLOAT64), CAST(? AS FLOAT64))",
			params:   []any{1, 2},
		},
		{
			name:     "not equals matches null",
			filter:   Filter{Column: "status", Operator: NotEquals, Values: []any{"paid"}},
			expected: "(status <> ? OR status IS NULL)",
			params:   []any{"paid"},
		},
		{
			name:     "not equals many",
			filter:   Filter{Column: "status", Operator: NotEquals, Values: []any{"paid", "void"}},
			expected: "(status NOT IN (?, ?) OR status IS NULL)",
			params:   []any{"paid", "void"},
		},
		{
			name:     "boolean",
			filter:   Filter{Column: "paid", Operator: Equals, Type: TypeBoolean, Values: []any{true}},
			expected: "paid = CAST(? AS BOOL)",
			params:   []any{true},
		},
		{
			name:     "measure comparison",
			filter:   Filter{Column: "total", Operator: GTE, Type: TypeNumber, Measure: true, Values: []any{100}},
			expected: "total >= CAST(? AS FLOAT64)",
			params:   []any{100},
		},
		{
			name:     "less than",
			filter:   Filter{Column: "amount", Operator: LT, Type: TypeNumber, Values: []any{5}},
			expected: "amount < CAST(? AS FLOAT64)",
			params:   []any{5},
		},
		{
			name:     "set",
			filter:   Filter{Column: "status", Operator: Set},
			expected: "status IS NOT NULL",
		},
		{
			name:     "not set",
			filter:   Filter{Column: "status", Operator: NotSet},
			expected: "status IS NULL",
		},
		{
			name:     "in date range",
			filter:   Filter{Column: "created_at", Operator: InDateRange, Values: []any{"2021-01-01", "2021-01-31"}},
			expected: "created_at >= DATETIME(TIMESTAMP(?)) AND created_at <= DATETIME(TIMESTAMP(?))",
			params:   []any{"2021-01-01", "2021-01-31"},
		},
		{
			name:     "not in date range",
			filter:   Filter{Column: "created_at", Operator: NotInDateRange, Values: []any{"2021-01-01", "2021-01-31"}},
			expected: "(created_at < DATETIME(TIMESTAMP(?)) OR created_at > DATETIME(TIMESTAMP(?)))",
			params:   []any{"2021-01-01", "2021-01-31"},
		},
		{
			name:     "before date",
			filter:   Filter{Column: "created_at", Operator: BeforeDate, Values: []any{"2021-01-01"}},
			expected: "created_at < DATETIME(TIMESTAMP(?))",
			params:   []any{"2021-01-01"},
		},
		{
			name:     "after date",
			filter:   Filter{Column: "created_at", Operator: AfterDate, Values: []any{"2021-01-01"}},
			expected: "created_at > DATETIME(TIMESTAMP(?))",
			params:   []any{"2021-01-01"},
		},
		{
			name:     "contains",
			filter:   Filter{Column: "name", Operator: Contains, Values: []any{"ann"}},
			expected: "LOWER(name) LIKE CONCAT('%', LOWER(?), '%')",
			params:   []any{"ann"},
		},
		{
			name:     "contains any",
			filter:   Filter{Column: "name", Operator: Contains, Values: []any{"ann", "bob"}},
			expected: "(LOWER(name) LIKE CONCAT('%', LOWER(?), '%') OR LOWER(name) LIKE CONCAT('%', LOWER(?), '%'))",
			params:   []any{"ann", "bob"},
		},
		{
			name:     "starts with",
			filter:   Filter{Column: "name", Operator: StartsWith, Values: []any{"ann"}},
			expected: "LOWER(name) LIKE CONCAT(LOWER(?), '%')",
			params:   []any{"ann"},
		},
		{
			name:     "not ends with",
			filter:   Filter{Column: "name", Operator: NotEndsWith, Values: []any{"son"}},
			expected: "(LOWER(name) NOT LIKE CONCAT('%', LOWER(?)) OR name IS NULL)",
			params:   []any{"son"},
		},
		{
			name:     "not contains all",
			filter:   Filter{Column: "name", Operator: NotContains, Values: []any{"ann", "bob"}},
			expected: "(LOWER(name) NOT LIKE CONCAT('%', LOWER(?), '%') AND LOWER(name) NOT LIKE CONCAT('%', LOWER(?), '%') OR name IS NULL)",
			params:   []any{"ann", "bob"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := c.Filter(tt.filter)
			if err != nil {
				t.Fatalf("Filter failed: %v", err)
			}
			assertSQL(t, tt.expected, result.SQL)
			assertParams(t, tt.params, result.Params)
		})
	}
}

func TestFilters_SharedPlaceholders(t *testing.T) {
	c := New(postgres.New())

	result, err := c.Filters([]Filter{
		{Column: "status", Operator: Equals, Values: []any{"paid", "shipped"}},
		{Column: "name", Operator: StartsWith, Values: []any{"ann"}},
		{Column: "amount", Operator: GT, Type: TypeNumber, Values: []any{10.5}},
	})
	if err != nil {
		t.Fatalf("Filters failed: %v", err)
	}

	assertSQL(t, "status IN ($1, $2) AND name ILIKE $3 || '%' AND amount > $4::float", result.SQL)
	assertParams(t, []any{"paid", "shipped", "ann", 10.5}, result.Params)
}

func TestFilters_MSSQLPlaceholders(t *testing.T) {
	c := New(mssql.New())

	result, err := c.Filters([]Filter{
		{Column: "[status]", Operator: NotEquals, Values: []any{"void"}},
		{Column: "[created_at]", Operator: InDateRange, Values: []any{"2021-01-01", "2021-12-31"}},
	})
	if err != nil {
		t.Fatalf("Filters failed: %v", err)
	}

	assertSQL(t,
		"([status] <> @p1 OR [status] IS NULL) AND [created_at] >= CAST(@p2 AS datetime2) AND [created_at] <= CAST(@p3 AS datetime2)",
		result.SQL)
}

func TestFilter_Errors(t *testing.T) {
	c := New(bigquery.New())

	tests := []struct {
		name      string
		filter    Filter
		errSubstr string
	}{
		{"no column", Filter{Member: "orders.status", Operator: Equals, Values: []any{"x"}}, "has no column"},
		{"no values", Filter{Column: "status", Operator: Equals}, "at least one value"},
		{"like without values", Filter{Column: "status", Operator: Contains}, "at least one value"},
		{"comparison arity", Filter{Column: "amount", Operator: GT, Values: []any{1, 2}}, "requires 1 value(s), got 2"},
		{"date range arity", Filter{Column: "created_at", Operator: InDateRange, Values: []any{"2021-01-01"}}, "requires 2 value(s), got 1"},
		{"unknown operator", Filter{Column: "status", Operator: "between", Values: []any{1}}, "unsupported filter operator"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Filter(tt.filter)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.errSubstr) {
				t.Errorf("error %q does not contain %q", err, tt.errSubstr)
			}
		})
	}

	_, err := c.Filters([]Filter{
		{Column: "status", Operator: Set},
		{Column: "amount", Operator: LT},
	})
	if err == nil || !strings.HasPrefix(err.Error(), "filter 1:") {
		t.Errorf("expected error for filter 1, got %v", err)
	}
}

func TestFilter_SchemaTypes(t *testing.T) {
	c := New(bigquery.New(), WithSchema(testSchema(t)))

	tests := []struct {
		name     string
		filter   Filter
		expected string
	}{
		{
			name:     "numeric column",
			filter:   Filter{Column: "amount", Member: "orders.amount", Operator: GT, Values: []any{1}},
			expected: "amount > CAST(? AS FLOAT64)",
		},
		{
			name:     "boolean column",
			filter:   Filter{Column: "paid", Member: "orders.paid", Operator: Equals, Values: []any{true}},
			expected: "paid = CAST(? AS BOOL)",
		},
		{
			name:     "declared type wins",
			filter:   Filter{Column: "amount", Member: "orders.amount", Operator: Equals, Type: TypeString, Values: []any{"1"}},
			expected: "amount = ?",
		},
		{
			name:     "unknown member falls back to string",
			filter:   Filter{Column: "x", Member: "orders.missing", Operator: Equals, Values: []any{"1"}},
			expected: "x = ?",
		},
		{
			name:     "bigquery timestamps are instants",
			filter:   Filter{Column: "created_at", Member: "orders.created_at", Operator: BeforeDate, Values: []any{"2021-01-01"}},
			expected: "created_at < TIMESTAMP(?)",
		},
		{
			name:     "dates are civil",
			filter:   Filter{Column: "shipped_on", Member: "orders.shipped_on", Operator: AfterDate, Values: []any{"2021-01-01"}},
			expected: "shipped_on > DATETIME(TIMESTAMP(?))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := c.Filter(tt.filter)
			if err != nil {
				t.Fatalf("Filter failed: %v", err)
			}
			assertSQL(t, tt.expected, result.SQL)
		})
	}
}

func TestFilter_PostgresInstants(t *testing.T) {
	c := New(postgres.New(), WithSchema(testSchema(t)))

	plain, err := c.Filter(Filter{Column: "created_at", Member: "orders.created_at", Operator: AfterDate, Values: []any{"2021-01-01"}})
	if err != nil {
		t.Fatalf("Filter failed: %v", err)
	}
	assertSQL(t, "created_at > $1::timestamp", plain.SQL)

	aware, err := c.Filter(Filter{Column: "occurred_at", Member: "events.occurred_at", Operator: AfterDate, Values: []any{"2021-01-01"}})
	if err != nil {
		t.Fatalf("Filter failed: %v", err)
	}
	assertSQL(t, "occurred_at > $1::timestamptz", aware.SQL)
}

func TestFilter_StringMeasureWarns(t *testing.T) {
	logger, logs := testutil.NewRecorder(slog.LevelWarn)
	c := New(bigquery.New(), WithLogger(logger))

	result, err := c.Filter(Filter{Column: "total", Operator: GT, Type: TypeString, Measure: true, Values: []any{"5"}})
	if err != nil {
		t.Fatalf("Filter failed: %v", err)
	}

	assertSQL(t, "total > CAST(? AS FLOAT64)", result.SQL)
	out := logs.String()
	if !strings.Contains(out, "measure filter declared as string") {
		t.Errorf("expected warning, got %q", out)
	}
	if !strings.Contains(out, "dialect=bigquery") {
		t.Errorf("expected dialect attribute, got %q", out)
	}
}

func TestFilter_SQLitePlaceholders(t *testing.T) {
	c := New(sqlite.New(), WithLogger(testutil.NewTestLogger(t)))

	result, err := c.Filter(Filter{Column: "name", Operator: NotContains, Values: []any{"x"}})
	if err != nil {
		t.Fatalf("Filter failed: %v", err)
	}
	assertSQL(t, "(LOWER(name) NOT LIKE '%' || LOWER(?) || '%' OR name IS NULL)", result.SQL)
}
