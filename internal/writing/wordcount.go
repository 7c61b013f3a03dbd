package writing

import "fmt"

// MinAIWords is the shortest response sent to the model.
const MinAIWords = 20

// WordRange is the expected length for a year level.
type WordRange struct {
	Min       int
	Max       int
	StrongMax int
}

var wordRanges = map[int]WordRange{
	3: {Min: 80, Max: 150, StrongMax: 200},
	5: {Min: 180, Max: 300, StrongMax: 350},
	7: {Min: 300, Max: 500, StrongMax: 600},
	9: {Min: 450, Max: 700, StrongMax: 700},
}

// RangeFor returns the word range for year, using year 3 for unknown years.
func RangeFor(year int) WordRange {
	if r, ok := wordRanges[year]; ok {
		return r
	}
	return wordRanges[3]
}

// Word count statuses.
const (
	LengthBelowMinimum     = "below_minimum"
	LengthBelowRecommended = "below_recommended"
	LengthWithinRange      = "within_range"
	LengthAboveMaximum     = "above_maximum"
	LengthTooShortForAI    = "too_short_for_ai"
)

// LengthFeedback grades a word count against the year's range.
func LengthFeedback(year, words int) WordCountFeedback {
	r := RangeFor(year)
	fb := WordCountFeedback{WordCount: words, YearLevel: year}

	switch {
	case words < r.Min:
		fb.Status = LengthBelowMinimum
		fb.Message = fmt.Sprintf("Word count (%d) is below the expected minimum for Year %d.", words, year)
		fb.Suggestion = fmt.Sprintf("Aim for %d-%d words. Add more detail and examples to reach the target.", r.Min, r.Max)
	case words > r.StrongMax:
		fb.Status = LengthAboveMaximum
		fb.Message = fmt.Sprintf("Word count (%d) exceeds the recommended maximum for Year %d.", words, year)
		fb.Suggestion = fmt.Sprintf("Try to be more concise. Target %d-%d words by combining ideas and removing repetition.", r.Min, r.Max)
	case words < r.Max:
		fb.Status = LengthBelowRecommended
		fb.Message = fmt.Sprintf("Word count (%d) is within range but could be developed further.", words)
		fb.Suggestion = fmt.Sprintf("Consider adding more detail to reach %d-%d words.", r.Min, r.Max)
	default:
		fb.Status = LengthWithinRange
		fb.Message = fmt.Sprintf("Word count (%d) is within the expected range for Year %d.", words, year)
		fb.Suggestion = "Good length for this year level."
	}
	return fb
}

func tooShortFeedback(year, words int) *WordCountFeedback {
	return &WordCountFeedback{
		WordCount:  words,
		YearLevel:  year,
		Status:     LengthTooShortForAI,
		Message:    "Text length is not enough to run NAPLAN evaluation.",
		Suggestion: "Add more sentences with clear ideas and details, then try again.",
	}
}
