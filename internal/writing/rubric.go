package writing

import (
	"strings"

	"github.com/edutech/naplan/internal/sanitize"
)

// RubricEntry is one NAPLAN marking criterion.
type RubricEntry struct {
	Name string
	Max  int
	// PersuasiveOnly criteria carry no score for narratives.
	PersuasiveOnly bool
}

// Rubric lists the criteria in marking order.
var Rubric = []RubricEntry{
	{Name: "Audience", Max: 6},
	{Name: "Text Structure", Max: 6},
	{Name: "Ideas", Max: 6},
	{Name: "Persuasive Devices", Max: 5, PersuasiveOnly: true},
	{Name: "Vocabulary", Max: 6},
	{Name: "Cohesion", Max: 5},
	{Name: "Paragraphing", Max: 4},
	{Name: "Sentence Structure", Max: 6},
	{Name: "Punctuation", Max: 5},
	{Name: "Spelling", Max: 6},
}

// Scored reports whether the entry earns marks for tt.
func (e RubricEntry) Scored(tt TextType) bool {
	return !(e.PersuasiveOnly && tt == Narrative)
}

// MaxScore sums the maxima of the criteria scored for tt.
func MaxScore(tt TextType) int {
	total := 0
	for _, e := range Rubric {
		if e.Scored(tt) {
			total += e.Max
		}
	}
	return total
}

// lookupCriterion finds a rubric entry by case-insensitive name.
func lookupCriterion(name string) (RubricEntry, bool) {
	name = strings.ToLower(sanitize.Text(name, 40))
	if name == "" {
		return RubricEntry{}, false
	}
	for _, e := range Rubric {
		if strings.ToLower(e.Name) == name {
			return e, true
		}
	}
	return RubricEntry{}, false
}

// Band maps a total to its standard. Thresholds sit at 35% and 65%, each
// inclusive of the higher band.
func Band(total, max int) string {
	if max <= 0 {
		return BandBelow
	}
	pct := float64(total) / float64(max) * 100
	switch {
	case pct < 35:
		return BandBelow
	case pct < 65:
		return BandAt
	}
	return BandAbove
}

func validBand(b string) bool {
	switch b {
	case BandBelow, BandAt, BandAbove:
		return true
	}
	return false
}

// ResolveTextType returns the requested type, guessing when none is given.
// Unknown values fall back to Narrative.
func ResolveTextType(requested, prompt, writing string) TextType {
	requested = strings.TrimSpace(requested)
	if requested == "" {
		return GuessTextType(prompt, writing)
	}
	if strings.EqualFold(requested, string(Persuasive)) {
		return Persuasive
	}
	return Narrative
}

var (
	persuasiveSignals = []string{
		"convince", "persuade", "should", "must", "because",
		"i think", "i believe", "dear", "first", "second", "therefore",
		"in conclusion", "please",
	}
	narrativeSignals = []string{
		"one day", "once", "then", "suddenly", "after that",
		"the end", "story", "went", "found",
	}
)

// GuessTextType counts genre signal phrases. Persuasive needs a strict
// majority.
func GuessTextType(prompt, writing string) TextType {
	text := strings.ToLower(prompt + "\n" + writing)
	count := func(signals []string) int {
		n := 0
		for _, s := range signals {
			if strings.Contains(text, s) {
				n++
			}
		}
		return n
	}
	if count(persuasiveSignals) > count(narrativeSignals) {
		return Persuasive
	}
	return Narrative
}
