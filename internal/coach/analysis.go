package coach

import "sort"

const (
	highPerformance = 80.0
	lowPerformance  = 30.0
	topicListSize   = 3
	// Durations above this are milliseconds.
	millisecondCutoff = 100000.0
)

type paceBand struct {
	fast, slow float64
}

var paceBands = map[int]paceBand{
	3: {fast: 25, slow: 70},
	5: {fast: 22, slow: 60},
	7: {fast: 20, slow: 55},
	9: {fast: 18, slow: 50},
}

var defaultPaceBand = paceBand{fast: 20, slow: 60}

// PaceFor classifies seconds per question for a year level. Both bounds are
// exclusive.
func PaceFor(year *int, secondsPerQuestion *float64) Pace {
	if secondsPerQuestion == nil {
		return PaceUnknown
	}
	band := defaultPaceBand
	if year != nil {
		if b, ok := paceBands[*year]; ok {
			band = b
		}
	}
	switch spq := *secondsPerQuestion; {
	case spq < band.fast:
		return PaceFast
	case spq > band.slow:
		return PaceSlow
	}
	return PaceSteady
}

// TimeMetrics holds the timing derived from a document.
type TimeMetrics struct {
	TakenMinutes       *float64
	TotalQuestions     int
	SecondsPerQuestion *float64
}

// ComputeTiming converts the raw duration into minutes and a per-question
// rate. Every topic total counts towards the question count.
func ComputeTiming(duration *float64, topics []TopicScore) TimeMetrics {
	var tm TimeMetrics

	if duration != nil {
		secs := *duration
		if secs > millisecondCutoff {
			secs /= 1000
		}
		minutes := round1(secs / 60)
		tm.TakenMinutes = &minutes
	}

	for _, t := range topics {
		tm.TotalQuestions += int(t.Total)
	}

	if tm.TakenMinutes != nil && tm.TotalQuestions > 0 {
		spq := round1(*tm.TakenMinutes * 60 / float64(tm.TotalQuestions))
		tm.SecondsPerQuestion = &spq
	}
	return tm
}

// Analyze builds the performance summary. data must carry a percentage.
func Analyze(data StudentData, year *int) Analysis {
	overall := 0.0
	if data.Percentage != nil {
		overall = round1(*data.Percentage)
	}

	a := Analysis{
		YearLevel:         year,
		OverallPercentage: overall,
		Accuracy:          overall,
		Grade:             data.Grade,
	}

	topics := make([]Topic, 0, len(data.Topics))
	for _, t := range data.Topics {
		if t.Total == 0 {
			continue
		}
		pct := t.Scored / t.Total * 100
		topics = append(topics, Topic{
			Name:       t.Name,
			Percentage: round1(pct),
			Scored:     t.Scored,
			Total:      t.Total,
			Missed:     round1(max(0, t.Total-t.Scored)),
		})
		switch {
		case pct >= highPerformance:
			a.HighPerformanceCount++
		case pct <= lowPerformance:
			a.LowPerformanceCount++
		}
	}

	sort.SliceStable(topics, func(i, j int) bool {
		return topics[i].Percentage > topics[j].Percentage
	})

	n := min(topicListSize, len(topics))
	a.TopTopics = append([]Topic{}, topics[:n]...)
	a.WeakTopics = make([]Topic, 0, n)
	for i := len(topics) - 1; i >= len(topics)-n; i-- {
		a.WeakTopics = append(a.WeakTopics, topics[i])
	}

	tm := ComputeTiming(data.Duration, data.Topics)
	a.TimeTakenMinutes = tm.TakenMinutes
	a.TotalQuestions = tm.TotalQuestions
	a.SecondsPerQuestion = tm.SecondsPerQuestion
	a.Pace = PaceFor(year, tm.SecondsPerQuestion)
	return a
}
