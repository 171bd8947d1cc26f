package month

import (
	"errors"
	"testing"
)

func TestParseMapping_PartitionCompleteness(t *testing.T) {
	t.Parallel()

	def, err := ParseMapping("1-4,5-9")
	if err != nil {
		t.Fatalf("parse mapping: %v", err)
	}

	for gw := 1; gw <= 9; gw++ {
		matches := 0
		for _, m := range def.Months() {
			if m.Contains(gw) {
				matches++
			}
		}
		if matches != 1 {
			t.Fatalf("gw %d belongs to %d months, want exactly 1", gw, matches)
		}
	}

	if m, ok := def.MonthOf(3); !ok || m.Number != 1 {
		t.Fatalf("gw 3 should be in month 1, got %+v ok=%v", m, ok)
	}
	if m, ok := def.MonthOf(9); !ok || m.Number != 2 {
		t.Fatalf("gw 9 should be in month 2, got %+v ok=%v", m, ok)
	}
	if _, ok := def.MonthOf(10); ok {
		t.Fatalf("gw 10 is outside the mapping and should map to no month")
	}
}

func TestParseMapping_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "start after end", input: "5-1"},
		{name: "overlap", input: "1-4,4-6"},
		{name: "descending order", input: "5-8,1-4"},
		{name: "non integer", input: "a-4"},
		{name: "single number", input: "1-4,5"},
		{name: "trailing comma", input: "1-4,"},
		{name: "empty", input: "  "},
		{name: "beyond season", input: "37-39"},
		{name: "zero start", input: "0-3"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseMapping(tc.input)
			if !errors.Is(err, ErrInvalidMapping) {
				t.Fatalf("expected ErrInvalidMapping for %q, got %v", tc.input, err)
			}
		})
	}
}

func TestParseMapping_GapsAndCanonicalString(t *testing.T) {
	t.Parallel()

	def, err := ParseMapping(" 1 - 4 , 10-12 ")
	if err != nil {
		t.Fatalf("parse mapping: %v", err)
	}
	if got := def.String(); got != "1-4,10-12" {
		t.Fatalf("unexpected canonical form %q", got)
	}
	if _, ok := def.MonthOf(7); ok {
		t.Fatalf("gw 7 falls in the gap and should have no month")
	}
	if m, ok := def.Month(2); !ok || m.Start != 10 || m.End != 12 {
		t.Fatalf("unexpected month 2: %+v", m)
	}
}

func TestDefaultMapping(t *testing.T) {
	t.Parallel()

	def := MustParseMapping(DefaultMapping)
	if def.Len() != 10 {
		t.Fatalf("expected 10 months, got %d", def.Len())
	}
	last, _ := def.Month(10)
	if last.Start != 37 || last.End != 38 {
		t.Fatalf("unexpected last month: %+v", last)
	}
}
