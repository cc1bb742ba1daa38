// Package judge assembles the structured review embedded in the AI-judge
// response stream. The model is asked to wrap its reasoning in
// <THOUGHT>...</THOUGHT> and its machine-readable verdict in a
// <JSON>...</JSON> block; this package extracts and normalizes both.
package judge

import (
	"math"
	"strings"
)

// Result is the normalized evaluation review. Scalar fields are pointers:
// nil means the model omitted the field or supplied an unusable value.
// List fields are never nil after normalization.
type Result struct {
	Summary                  *string  `json:"summary,omitempty"`
	Strengths                []string `json:"strengths"`
	Weaknesses               []string `json:"weaknesses"`
	Relevance                *float64 `json:"relevance,omitempty"`
	LiteratureAndOriginality *float64 `json:"literature_and_originality,omitempty"`
	PracticalSignificance    *float64 `json:"practical_significance,omitempty"`
	AuthorContribution       *float64 `json:"author_contribution,omitempty"`
	PresentationAndQA        *float64 `json:"presentation_and_qa,omitempty"`
	PresentationNotes        []string `json:"presentation_notes"`
	Soundness                *float64 `json:"soundness,omitempty"`
	Questions                []string `json:"questions"`
	Limitations              []string `json:"limitations"`
	EthicalConcerns          *bool    `json:"ethical_concerns,omitempty"`
	Overall                  *float64 `json:"overall,omitempty"`
	Confidence               *float64 `json:"confidence,omitempty"`
	Decision                 *string  `json:"decision,omitempty"`
}

// Normalize guarantees the list-field invariant: every list field is a
// non-nil slice. Scalars are left untouched. Idempotent.
func (r *Result) Normalize() {
	if r.Strengths == nil {
		r.Strengths = []string{}
	}
	if r.Weaknesses == nil {
		r.Weaknesses = []string{}
	}
	if r.PresentationNotes == nil {
		r.PresentationNotes = []string{}
	}
	if r.Questions == nil {
		r.Questions = []string{}
	}
	if r.Limitations == nil {
		r.Limitations = []string{}
	}
}

// normalizeList coerces a decoded JSON value to the list-field invariant:
// an array keeps its string elements, a bare string becomes a one-element
// list, anything else becomes an empty list.
func normalizeList(v any) []string {
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		if t == nil {
			return []string{}
		}
		return t
	case string:
		return []string{t}
	default:
		return []string{}
	}
}

// ScorePercents maps the metric scores and the overall score onto display
// percentages, keyed by the result's JSON field names.
func (r *Result) ScorePercents() map[string]int {
	return map[string]int{
		"relevance":                  ScorePercent(r.Relevance),
		"literature_and_originality": ScorePercent(r.LiteratureAndOriginality),
		"practical_significance":     ScorePercent(r.PracticalSignificance),
		"author_contribution":        ScorePercent(r.AuthorContribution),
		"presentation_and_qa":        ScorePercent(r.PresentationAndQA),
		"soundness":                  ScorePercent(r.Soundness),
		"overall":                    ScorePercent(r.Overall),
	}
}

// ScorePercent maps a 1-10 score onto a display percentage clamped to
// [0,100]. A missing score displays as 0%.
func ScorePercent(score *float64) int {
	if score == nil {
		return 0
	}
	p := *score * 10
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return int(math.Round(p))
}

// DecisionClass classifies a free-text decision for display coloring,
// matched case-insensitively by substring.
func DecisionClass(decision string) string {
	lower := strings.ToLower(decision)
	switch {
	case strings.Contains(lower, "accept"):
		return "accept"
	case strings.Contains(lower, "reject"):
		return "reject"
	default:
		return "neutral"
	}
}
