package writing

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/edutech/naplan/internal/sanitize"
)

const (
	defaultSuggestion   = "Add more detail and check this area next time."
	narrativeSuggestion = "N/A (narrative)"
	criterionTextLimit  = 220
)

// NormalizeCriteria reconciles model criteria with the rubric for tt. Unknown
// and repeated names are dropped, scores are clamped, and missing criteria
// are appended with a zero score. The returned total sums the clamped scores.
func NormalizeCriteria(raw any, tt TextType) ([]Criterion, int) {
	items, _ := raw.([]any)

	out := make([]Criterion, 0, len(Rubric))
	seen := make(map[string]bool, len(Rubric))
	total := 0

	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name, _ := obj["name"].(string)
		entry, ok := lookupCriterion(name)
		if !ok {
			continue
		}
		key := strings.ToLower(entry.Name)
		if seen[key] {
			continue
		}
		seen[key] = true

		suggestion, _ := obj["suggestion"].(string)
		if !entry.Scored(tt) {
			if sanitize.IsBlank(suggestion) {
				suggestion = narrativeSuggestion
			}
			out = append(out, Criterion{
				Name:       entry.Name,
				Suggestion: sanitize.Text(suggestion, criterionTextLimit),
			})
			continue
		}

		score, _ := intValue(obj["score"])
		score = clamp(score, 0, entry.Max)
		total += score

		evidence, _ := obj["evidence_quote"].(string)
		out = append(out, Criterion{
			Name:          entry.Name,
			Score:         intPtr(score),
			Max:           intPtr(entry.Max),
			Suggestion:    suggestionOrDefault(suggestion),
			EvidenceQuote: sanitize.Text(evidence, criterionTextLimit),
		})
	}

	for _, entry := range Rubric {
		if seen[strings.ToLower(entry.Name)] {
			continue
		}
		out = append(out, missingCriterion(entry, tt))
	}
	return out, total
}

func missingCriterion(entry RubricEntry, tt TextType) Criterion {
	if !entry.Scored(tt) {
		return Criterion{Name: entry.Name, Suggestion: narrativeSuggestion}
	}
	return Criterion{
		Name:       entry.Name,
		Score:      intPtr(0),
		Max:        intPtr(entry.Max),
		Suggestion: defaultSuggestion,
	}
}

func suggestionOrDefault(s string) string {
	s = sanitize.Text(s, criterionTextLimit)
	if s == "" {
		return defaultSuggestion
	}
	return s
}

// intValue accepts whole JSON numbers only. Strings, fractions and other
// types report false; booleans are not numbers, so true does not read as 1.
// Magnitudes beyond int32 saturate so clamping still sees their sign.
func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return saturate(float64(n)), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return saturate(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil || f != math.Trunc(f) {
			return 0, false
		}
		return saturate(f), true
	}
	return 0, false
}

func saturate(f float64) int {
	return int(max(math.MinInt32, min(math.MaxInt32, f)))
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

func intPtr(v int) *int { return &v }
