package rollup

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/zoobzio/rollup/bigquery"
	"github.com/zoobzio/rollup/internal/render"
	"github.com/zoobzio/rollup/internal/testutil"
	"github.com/zoobzio/rollup/postgres"
	"github.com/zoobzio/rollup/sqlite"
)

func TestNew(t *testing.T) {
	d := bigquery.New()
	c := New(d)
	if c.Dialect() != Dialect(d) {
		t.Error("Dialect() did not return the configured dialect")
	}
	// a nil logger is replaced so calls never panic
	c = New(d, WithLogger(nil))
	if _, err := c.Filter(Filter{Column: "x", Operator: GT, Measure: true, Type: TypeString, Values: []any{1}}); err != nil {
		t.Fatalf("Filter failed: %v", err)
	}
}

func TestTimeGroupedColumn(t *testing.T) {
	schema := testSchema(t)

	tests := []struct {
		name     string
		c        *Compiler
		td       TimeDimension
		expected string
	}{
		{
			name:     "civil",
			c:        New(bigquery.New()),
			td:       TimeDimension{Column: "created_at", Granularity: Month},
			expected: "DATETIME_TRUNC(created_at, MONTH)",
		},
		{
			name:     "declared instant",
			c:        New(bigquery.New(WithTimezone("America/New_York"))),
			td:       TimeDimension{Column: "created_at", Granularity: Day, TimezoneAware: true},
			expected: "DATETIME_TRUNC(DATETIME(created_at, 'America/New_York'), DAY)",
		},
		{
			name:     "bigquery timestamp from schema",
			c:        New(bigquery.New(), WithSchema(schema)),
			td:       TimeDimension{Column: "created_at", Member: "orders.created_at", Granularity: Week},
			expected: "DATETIME_TRUNC(DATETIME(created_at, 'UTC'), WEEK(MONDAY))",
		},
		{
			name:     "postgres plain timestamp from schema",
			c:        New(postgres.New(), WithSchema(schema)),
			td:       TimeDimension{Column: "created_at", Member: "orders.created_at", Granularity: Month},
			expected: "DATE_TRUNC('month', created_at)",
		},
		{
			name:     "postgres timestamptz from schema",
			c:        New(postgres.New(WithTimezone("Asia/Tokyo")), WithSchema(schema)),
			td:       TimeDimension{Column: "occurred_at", Member: "events.occurred_at", Granularity: Hour},
			expected: "DATE_TRUNC('hour', (occurred_at::timestamptz AT TIME ZONE 'Asia/Tokyo'))",
		},
		{
			name:     "unknown member is civil",
			c:        New(postgres.New(), WithSchema(schema)),
			td:       TimeDimension{Column: "x", Member: "orders.missing", Granularity: Day},
			expected: "DATE_TRUNC('day', x)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.c.TimeGroupedColumn(tt.td)
			if err != nil {
				t.Fatalf("TimeGroupedColumn failed: %v", err)
			}
			assertSQL(t, tt.expected, got)
		})
	}
}

func TestTimeGroupedColumn_NoTimezoneSupport(t *testing.T) {
	logger, logs := testutil.NewRecorder(slog.LevelWarn)
	c := New(sqlite.New(), WithLogger(logger))

	got, err := c.TimeGroupedColumn(TimeDimension{Column: "ts", Granularity: Day, TimezoneAware: true})
	if err != nil {
		t.Fatalf("TimeGroupedColumn failed: %v", err)
	}
	assertSQL(t, "datetime(ts, 'start of day')", got)
	if !strings.Contains(logs.String(), "dialect cannot convert timezones") {
		t.Errorf("expected warning, got %q", logs.String())
	}
}

func TestIntervalArithmetic(t *testing.T) {
	c := New(bigquery.New())
	iv := Interval{Amount: 2, Unit: Minute}

	civil := TimeDimension{Column: "created_at"}
	instant := TimeDimension{Column: "created_at", TimezoneAware: true}

	tests := []struct {
		name     string
		fn       func(TimeDimension, string, Interval) (string, error)
		td       TimeDimension
		expected string
	}{
		{"add civil", c.AddInterval, civil, "DATETIME_ADD(x, INTERVAL 2 MINUTE)"},
		{"subtract civil", c.SubtractInterval, civil, "DATETIME_SUB(x, INTERVAL 2 MINUTE)"},
		{"add instant", c.AddInterval, instant, "TIMESTAMP_ADD(x, INTERVAL 2 MINUTE)"},
		{"subtract instant", c.SubtractInterval, instant, "TIMESTAMP_SUB(x, INTERVAL 2 MINUTE)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn(tt.td, "x", iv)
			if err != nil {
				t.Fatalf("interval failed: %v", err)
			}
			assertSQL(t, tt.expected, got)
		})
	}
}

func TestDialectOptions(t *testing.T) {
	d := bigquery.New(
		WithWeekStart(time.Saturday),
		WithTemplates(map[string]Template{
			render.ExprBinary: func(a TemplateArgs) (string, error) {
				return "SAFE_DIVIDE(" + a.Left + ", " + a.Right + ")", nil
			},
		}),
	)

	unit, ok := d.TruncationUnit(Week)
	if !ok || unit != "WEEK(SATURDAY)" {
		t.Errorf("TruncationUnit(week) = %q, %v", unit, ok)
	}

	got, err := d.Templates().Render(render.ExprBinary, TemplateArgs{Op: "/", Left: "a", Right: "b"})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	assertSQL(t, "SAFE_DIVIDE(a, b)", got)

	// untouched keys still resolve through the dialect table
	got, err = d.Templates().Render(render.FuncLog, TemplateArgs{Args: []string{"x"}})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	assertSQL(t, "LOG(x, 10)", got)
}

func TestParseHelpers(t *testing.T) {
	g, err := ParseGranularity("Weeks")
	if err != nil || g != Week {
		t.Errorf("ParseGranularity(Weeks) = %q, %v", g, err)
	}
	iv, err := ParseInterval("3 quarters")
	if err != nil || iv != (Interval{Amount: 3, Unit: Quarter}) {
		t.Errorf("ParseInterval = %+v, %v", iv, err)
	}
}
