package coach

import (
	"github.com/tidwall/gjson"
)

// MissingDataError reports an input document that cannot be analysed.
type MissingDataError struct {
	Reason string
}

func (e *MissingDataError) Error() string { return e.Reason }

var (
	errNoTopics = &MissingDataError{
		Reason: "Missing/empty topicBreakdown (expected an object with {topic:{scored,total}} or compatible keys)",
	}
	errNoPercentage = &MissingDataError{
		Reason: "Missing overall percentage (score.percentage or score.points/available or computable from topics)",
	}
)

// TopicScore is a raw scored/total pair read from the document.
type TopicScore struct {
	Name   string
	Scored float64
	Total  float64
}

// StudentData is the normalized document.
type StudentData struct {
	// Percentage is nil when neither the score block nor the topics yield
	// one.
	Percentage *float64
	Grade      string
	Topics     []TopicScore
	// Duration is the raw duration value, seconds or milliseconds.
	Duration *float64
}

// PossiblePoints sums topic totals.
func (d StudentData) PossiblePoints() float64 {
	total := 0.0
	for _, t := range d.Topics {
		total += t.Total
	}
	return total
}

var topicPairs = [][2]string{
	{"scored", "total"},
	{"points", "available"},
	{"points_scored", "points_available"},
	{"correct", "attempted"},
}

// NormalizeDoc reads the score block and topic breakdown. Topics keep
// document order. It fails only when no topic is usable; a missing
// percentage is left for the caller to decide on.
func NormalizeDoc(doc gjson.Result) (StudentData, error) {
	var data StudentData

	score := doc.Get("score")
	if score.IsObject() {
		if g := score.Get("grade"); g.Type == gjson.String {
			data.Grade = g.Str
		}
		if pct, ok := ToNumber(score.Get("percentage")); ok {
			data.Percentage = &pct
		} else {
			pts, okPts := ToNumber(score.Get("points"))
			avail, okAvail := ToNumber(score.Get("available"))
			if okPts && okAvail && avail > 0 {
				pct := pts / avail * 100
				data.Percentage = &pct
			}
		}
	}

	breakdown := doc.Get("topicBreakdown")
	if breakdown.IsObject() {
		breakdown.ForEach(func(key, value gjson.Result) bool {
			if !value.IsObject() {
				return true
			}
			if scored, total, ok := topicScoredTotal(value); ok {
				data.Topics = append(data.Topics, TopicScore{Name: key.String(), Scored: scored, Total: total})
			}
			return true
		})
	}
	if len(data.Topics) == 0 {
		return StudentData{}, errNoTopics
	}

	if data.Percentage == nil {
		var scored, total float64
		for _, t := range data.Topics {
			scored += t.Scored
			total += t.Total
		}
		if total > 0 {
			pct := scored / total * 100
			data.Percentage = &pct
		}
	}

	if d, ok := ToNumber(doc.Get("duration")); ok {
		data.Duration = &d
	}
	return data, nil
}

func topicScoredTotal(v gjson.Result) (float64, float64, bool) {
	for _, pair := range topicPairs {
		a, okA := ToNumber(v.Get(pair[0]))
		b, okB := ToNumber(v.Get(pair[1]))
		if okA && okB {
			return a, b, true
		}
	}
	return 0, 0, false
}

// QuizName reads quiz_name, falling back to quizName.
func QuizName(doc gjson.Result) string {
	for _, key := range []string{"quiz_name", "quizName"} {
		if v := doc.Get(key); v.Type == gjson.String && v.Str != "" {
			return v.Str
		}
	}
	return ""
}
