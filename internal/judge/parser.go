package judge

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	jsonBlockPattern    = regexp.MustCompile(`(?s)<JSON>(.*?)</JSON>`)
	thoughtBlockPattern = regexp.MustCompile(`(?s)<THOUGHT>(.*?)</THOUGHT>`)
)

// Parse locates the structured payload embedded in the accumulated response
// text and returns the normalized result. ok is false when no payload could
// be located or the payload is not valid JSON; the caller is expected to
// fall back to showing the raw text.
func Parse(raw string) (*Result, bool) {
	payload, found := extractPayload(raw)
	if !found {
		return nil, false
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(payload), &fields); err != nil {
		return nil, false
	}

	r := &Result{
		Summary:                  asString(fields["Summary"]),
		Strengths:                normalizeList(fields["Strengths"]),
		Weaknesses:               normalizeList(fields["Weaknesses"]),
		Relevance:                asNumber(fields["Relevance"]),
		LiteratureAndOriginality: asNumber(fields["Literature_and_Originality"]),
		PracticalSignificance:    asNumber(fields["Practical_Significance"]),
		AuthorContribution:       asNumber(fields["Author_Contribution"]),
		PresentationAndQA:        asNumber(fields["Presentation_and_QA"]),
		PresentationNotes:        normalizeList(fields["PresentationNotes"]),
		Soundness:                asNumber(fields["Soundness"]),
		Questions:                normalizeList(fields["Questions"]),
		Limitations:              normalizeList(fields["Limitations"]),
		EthicalConcerns:          asBool(fields["Ethical_Concerns"]),
		Overall:                  asNumber(fields["Overall"]),
		Confidence:               asNumber(fields["Confidence"]),
		Decision:                 asString(fields["Decision"]),
	}
	return r, true
}

// ExtractThought returns the contents of the <THOUGHT> block, independent of
// whether the JSON payload parses. Empty string when absent.
func ExtractThought(raw string) string {
	if m := thoughtBlockPattern.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// extractPayload applies the two-tier extraction strategy: an explicit
// <JSON> block first, then the substring from the first '{' to the last '}'.
// The last-brace heuristic tolerates prose before the payload's closing
// brace but can be fooled by trailing prose containing '}'.
func extractPayload(raw string) (string, bool) {
	if m := jsonBlockPattern.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start >= 0 && end > start {
		return raw[start : end+1], true
	}
	return "", false
}

func asString(v any) *string {
	if s, ok := v.(string); ok {
		return &s
	}
	return nil
}

func asNumber(v any) *float64 {
	if n, ok := v.(float64); ok {
		return &n
	}
	return nil
}

func asBool(v any) *bool {
	if b, ok := v.(bool); ok {
		return &b
	}
	return nil
}
