package coach

import (
	"encoding/json"
	"time"
)

// Request is the subject feedback entry point payload.
type Request struct {
	Doc json.RawMessage `json:"doc"`
}

// Pace classifies answering speed for the year level.
type Pace string

const (
	PaceFast    Pace = "fast"
	PaceSteady  Pace = "steady"
	PaceSlow    Pace = "slow"
	PaceUnknown Pace = "unknown"
)

// Topic is one attempted topic with its accuracy.
type Topic struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
	Scored     float64 `json:"scored"`
	Total      float64 `json:"total"`
	Missed     float64 `json:"missed"`
}

// Analysis summarizes a quiz attempt.
type Analysis struct {
	YearLevel            *int     `json:"year_level"`
	OverallPercentage    float64  `json:"overall_percentage"`
	Accuracy             float64  `json:"accuracy"`
	Grade                string   `json:"grade"`
	TimeTakenMinutes     *float64 `json:"time_taken_minutes"`
	TotalQuestions       int      `json:"total_questions"`
	SecondsPerQuestion   *float64 `json:"seconds_per_question"`
	Pace                 Pace     `json:"pace"`
	HighPerformanceCount int      `json:"high_performance_count"`
	LowPerformanceCount  int      `json:"low_performance_count"`
	TopTopics            []Topic  `json:"top_topics"`
	WeakTopics           []Topic  `json:"weak_topics"`
}

// Weakest returns the lowest scoring topic, if any.
func (a Analysis) Weakest() (Topic, bool) {
	if len(a.WeakTopics) == 0 {
		return Topic{}, false
	}
	return a.WeakTopics[0], true
}

// timed reports whether both timing values are known.
func (a Analysis) timed() bool {
	return a.TimeTakenMinutes != nil && a.SecondsPerQuestion != nil
}

type CoachItem struct {
	Insight string `json:"insight"`
	Reason  string `json:"reason"`
	Action  string `json:"action"`
}

// Feedback is the coaching text shown to the student.
type Feedback struct {
	OverallFeedback string      `json:"overall_feedback"`
	Coach           []CoachItem `json:"coach"`
	Strengths       []string    `json:"strengths"`
	Weaknesses      []string    `json:"weaknesses"`
	GrowthAreas     []string    `json:"growth_areas"`
	StudyTips       []string    `json:"study_tips"`
	CTA             string      `json:"cta"`
	Encouragement   string      `json:"encouragement"`
}

// Status messages.
const (
	StatusGenerated = "Feedback generated successfully"
	StatusAwaiting  = "Ready - awaiting first quiz attempt"
)

type Meta struct {
	ResponseID    string    `json:"response_id"`
	Model         string    `json:"model"`
	GeneratedAt   time.Time `json:"generated_at"`
	Subject       string    `json:"subject"`
	QuizName      string    `json:"quiz_name"`
	YearLevel     *int      `json:"year_level"`
	Status        string    `json:"status"`
	StatusMessage string    `json:"status_message"`
}

// Outcome is either full feedback or a top-level failure.
type Outcome struct {
	Success             bool      `json:"success"`
	PerformanceAnalysis *Analysis `json:"performance_analysis,omitempty"`
	AIFeedback          *Feedback `json:"ai_feedback,omitempty"`
	Meta                *Meta     `json:"ai_feedback_meta,omitempty"`
	Error               string    `json:"error,omitempty"`
}

// Failure builds a top-level failure outcome.
func Failure(msg string) Outcome {
	return Outcome{Success: false, Error: msg}
}
