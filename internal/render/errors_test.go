package render

import (
	"errors"
	"testing"
)

func TestUnsupportedFeatureError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "without hint",
			err:      NewUnsupportedFeatureError("sqlite", "INTERVAL literals"),
			expected: "sqlite: INTERVAL literals is not supported",
		},
		{
			name:     "with hint",
			err:      NewUnsupportedFeatureError("postgres", "HLL sketches", "install postgresql-hll and override the dialect"),
			expected: "postgres: HLL sketches is not supported: install postgresql-hll and override the dialect",
		},
		{
			name:     "extra hints ignored",
			err:      NewUnsupportedFeatureError("mssql", "INTERVAL literals", "use DATEADD", "unused"),
			expected: "mssql: INTERVAL literals is not supported: use DATEADD",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestNewUnsupportedFeatureError(t *testing.T) {
	err := NewUnsupportedFeatureError("mssql", "HLL sketches", "use APPROX_COUNT_DISTINCT")

	var ufErr UnsupportedFeatureError
	if !errors.As(err, &ufErr) {
		t.Fatal("expected UnsupportedFeatureError")
	}
	if ufErr.Dialect != "mssql" {
		t.Errorf("Dialect = %q, want mssql", ufErr.Dialect)
	}
	if ufErr.Feature != "HLL sketches" {
		t.Errorf("Feature = %q, want HLL sketches", ufErr.Feature)
	}
	if ufErr.Hint != "use APPROX_COUNT_DISTINCT" {
		t.Errorf("Hint = %q, want use APPROX_COUNT_DISTINCT", ufErr.Hint)
	}
}

func TestUnknownTemplateError_Error(t *testing.T) {
	err := UnknownTemplateError{Key: "functions.MEDIAN"}
	if got, want := err.Error(), `no template registered for "functions.MEDIAN"`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestTemplateArgumentError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      TemplateArgumentError
		expected string
	}{
		{
			name:     "no arguments",
			err:      TemplateArgumentError{Key: FuncLog, Want: "(x[, base])"},
			expected: FuncLog + ": expected (x[, base]), got ()",
		},
		{
			name:     "too few arguments",
			err:      TemplateArgumentError{Key: FuncDateTrunc, Want: "(granularity, expr)", Got: []string{"MONTH"}},
			expected: FuncDateTrunc + ": expected (granularity, expr), got (MONTH)",
		},
		{
			name:     "joined arguments",
			err:      TemplateArgumentError{Key: FuncLog, Want: "(x[, base])", Got: []string{"x", "2", "3"}},
			expected: FuncLog + ": expected (x[, base]), got (x, 2, 3)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestTemplateErrors_FromRender(t *testing.T) {
	tmpl := Defaults()

	_, err := tmpl.Render("functions.MEDIAN", TemplateArgs{})
	var unknown UnknownTemplateError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownTemplateError, got %v", err)
	}
	if unknown.Key != "functions.MEDIAN" {
		t.Errorf("Key = %q, want functions.MEDIAN", unknown.Key)
	}
}
