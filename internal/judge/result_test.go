package judge

import (
	"reflect"
	"testing"
)

func TestNormalizeList(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected []string
	}{
		{"string wraps to single element", "a", []string{"a"}},
		{"missing becomes empty", nil, []string{}},
		{"number becomes empty", float64(42), []string{}},
		{"bool becomes empty", true, []string{}},
		{"object becomes empty", map[string]any{"k": "v"}, []string{}},
		{"array kept unchanged", []any{"a", "b"}, []string{"a", "b"}},
		{"empty array stays empty", []any{}, []string{}},
		{"non-string elements dropped", []any{"a", float64(1), "b"}, []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeList(tt.input)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("normalizeList(%v) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

// Normalizing an already-normalized value is a no-op.
func TestNormalizeListIdempotent(t *testing.T) {
	inputs := []any{"a", nil, float64(42), []any{"a", "b"}}
	for _, in := range inputs {
		once := normalizeList(in)
		twice := normalizeList(any(once))
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("normalizeList not idempotent for %v: %v != %v", in, once, twice)
		}
	}
}

func TestResultNormalizeIdempotent(t *testing.T) {
	r := &Result{Strengths: []string{"kept"}}
	r.Normalize()
	first := *r
	r.Normalize()
	if !reflect.DeepEqual(first, *r) {
		t.Errorf("Normalize not idempotent: %+v != %+v", first, *r)
	}
	if r.Weaknesses == nil || r.Questions == nil || r.Limitations == nil || r.PresentationNotes == nil {
		t.Error("Normalize left a nil list field")
	}
	if r.Strengths[0] != "kept" {
		t.Error("Normalize dropped existing content")
	}
}

func TestScorePercent(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	tests := []struct {
		name     string
		score    *float64
		expected int
	}{
		{"mid scale", f(7), 70},
		{"below range clamps to 0", f(-5), 0},
		{"above range clamps to 100", f(15), 100},
		{"missing is 0", nil, 0},
		{"fractional rounds", f(6.55), 66},
		{"zero", f(0), 0},
		{"full", f(10), 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScorePercent(tt.score); got != tt.expected {
				t.Errorf("ScorePercent(%v) = %d, want %d", tt.score, got, tt.expected)
			}
		})
	}
}

func TestDecisionClass(t *testing.T) {
	tests := []struct {
		decision string
		expected string
	}{
		{"Accept", "accept"},
		{"Strong Accept", "accept"},
		{"reject", "reject"},
		{"Borderline reject", "reject"},
		{"Undecided", "neutral"},
		{"", "neutral"},
	}

	for _, tt := range tests {
		t.Run(tt.decision, func(t *testing.T) {
			if got := DecisionClass(tt.decision); got != tt.expected {
				t.Errorf("DecisionClass(%q) = %q, want %q", tt.decision, got, tt.expected)
			}
		})
	}
}
