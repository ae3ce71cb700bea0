package types

import (
	"errors"
	"testing"
	"time"
)

func TestParseGranularity(t *testing.T) {
	tests := []struct {
		in      string
		want    Granularity
		wantErr bool
	}{
		{"day", Day, false},
		{"Days", Day, false},
		{" WEEK ", Week, false},
		{"quarters", Quarter, false},
		{"fortnight", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseGranularity(tt.in)
			if tt.wantErr {
				var unknown *UnknownGranularityError
				if !errors.As(err, &unknown) {
					t.Fatalf("expected UnknownGranularityError, got %v", err)
				}
				if unknown.Granularity != tt.in {
					t.Errorf("Granularity = %q, want %q", unknown.Granularity, tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseGranularity(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestUnknownGranularityError(t *testing.T) {
	if got := (&UnknownGranularityError{Granularity: "x"}).Error(); got != `unknown granularity "x"` {
		t.Errorf("Error() = %q", got)
	}
	if got := (&UnknownGranularityError{Granularity: "x", Dialect: "mysql"}).Error(); got != `mysql: unknown granularity "x"` {
		t.Errorf("Error() = %q", got)
	}
}

func TestParseInterval(t *testing.T) {
	tests := []struct {
		in      string
		want    Interval
		wantErr bool
	}{
		{"2 minutes", Interval{Amount: 2, Unit: Minute}, false},
		{"1 day", Interval{Amount: 1, Unit: Day}, false},
		{"  7   days ", Interval{Amount: 7, Unit: Day}, false},
		{"-3 months", Interval{Amount: -3, Unit: Month}, false},
		{"minutes", Interval{}, true},
		{"two minutes", Interval{}, true},
		{"2 fortnights", Interval{}, true},
		{"2 minutes ago", Interval{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseInterval(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseInterval(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestInterval(t *testing.T) {
	iv := MustInterval("2 minutes")
	if iv.String() != "2 minutes" {
		t.Errorf("String() = %q", iv.String())
	}
	if got := iv.Negate().String(); got != "-2 minutes" {
		t.Errorf("Negate().String() = %q", got)
	}
	if got := MustInterval("1 day").String(); got != "1 day" {
		t.Errorf("String() = %q", got)
	}

	if d, ok := MustInterval("2 weeks").Duration(); !ok || d != 14*24*time.Hour {
		t.Errorf("Duration() = %v, %v", d, ok)
	}
	if _, ok := MustInterval("1 month").Duration(); ok {
		t.Error("months have no fixed duration")
	}

	if err := (Interval{Amount: 1, Unit: "eon"}).Validate(); err == nil {
		t.Error("expected Validate error")
	}

	defer func() {
		if recover() == nil {
			t.Error("MustInterval should panic on bad input")
		}
	}()
	MustInterval("soon")
}

func TestOperator(t *testing.T) {
	tests := []struct {
		op      Operator
		match   MatchType
		like    bool
		negated bool
	}{
		{Contains, MatchContains, true, false},
		{NotContains, MatchContains, true, true},
		{StartsWith, MatchStarts, true, false},
		{NotStartsWith, MatchStarts, true, true},
		{EndsWith, MatchEnds, true, false},
		{NotEndsWith, MatchEnds, true, true},
		{Equals, "", false, false},
		{NotEquals, "", false, false},
		{InDateRange, "", false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			match, ok := tt.op.MatchType()
			if ok != tt.like || match != tt.match {
				t.Errorf("MatchType() = %q, %v; want %q, %v", match, ok, tt.match, tt.like)
			}
			if tt.op.Negated() != tt.negated {
				t.Errorf("Negated() = %v, want %v", tt.op.Negated(), tt.negated)
			}
		})
	}
}

func TestMatchType(t *testing.T) {
	tests := []struct {
		m                 MatchType
		leading, trailing bool
	}{
		{"", true, true},
		{MatchContains, true, true},
		{MatchStarts, false, true},
		{MatchEnds, true, false},
	}
	for _, tt := range tests {
		if tt.m.Leading() != tt.leading || tt.m.Trailing() != tt.trailing {
			t.Errorf("%q: Leading/Trailing = %v/%v, want %v/%v",
				tt.m, tt.m.Leading(), tt.m.Trailing(), tt.leading, tt.trailing)
		}
	}
}

func TestPlaceholderStyle(t *testing.T) {
	if got := PlaceholderQuestion.Placeholder(3); got != "?" {
		t.Errorf("question = %q", got)
	}
	if got := PlaceholderDollar.Placeholder(3); got != "$3" {
		t.Errorf("dollar = %q", got)
	}
	if got := PlaceholderAtP.Placeholder(3); got != "@p3" {
		t.Errorf("atp = %q", got)
	}
}

func TestCumulativeQuery_TimeDimension(t *testing.T) {
	q := CumulativeQuery{TimeDimensions: []TimeDimension{
		{Column: "a"},
		{Column: "b", Granularity: Day},
	}}
	td, err := q.TimeDimension()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if td.Column != "b" {
		t.Errorf("Column = %q, want b", td.Column)
	}
	if td.DateSeriesAlias() != "date_series" {
		t.Errorf("DateSeriesAlias() = %q", td.DateSeriesAlias())
	}

	q.TimeDimensions = append(q.TimeDimensions, TimeDimension{Column: "c", Granularity: Week})
	if _, err := q.TimeDimension(); !errors.Is(err, ErrMultipleTimeDimensions) {
		t.Errorf("expected ErrMultipleTimeDimensions, got %v", err)
	}

	q.TimeDimensions = nil
	if _, err := q.TimeDimension(); !errors.Is(err, ErrNoTimeDimension) {
		t.Errorf("expected ErrNoTimeDimension, got %v", err)
	}
}
