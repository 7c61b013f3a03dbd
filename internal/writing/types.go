package writing

// TextType is the NAPLAN writing genre being assessed.
type TextType string

const (
	Narrative  TextType = "Narrative"
	Persuasive TextType = "Persuasive"
)

// Band values.
const (
	BandBelow = "Below Minimum Standard"
	BandAt    = "At Minimum Standard"
	BandAbove = "Above Minimum Standard"
)

// Relevance verdicts.
const (
	VerdictOnTopic          = "on_topic"
	VerdictPartiallyOnTopic = "partially_on_topic"
	VerdictOffTopic         = "off_topic"
)

// Input is the writing evaluation request.
type Input struct {
	StudentYear    int    `json:"student_year"`
	WritingPrompt  string `json:"writing_prompt"`
	StudentWriting string `json:"student_writing"`
	// TextType is optional; empty means guess from the prompt and writing.
	TextType string `json:"text_type,omitempty"`
}

type Relevance struct {
	Score    int    `json:"score"`
	Verdict  string `json:"verdict"`
	Note     string `json:"note"`
	Evidence string `json:"evidence"`
}

type WordCountFeedback struct {
	WordCount  int    `json:"word_count"`
	YearLevel  int    `json:"year_level"`
	Status     string `json:"status"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion"`
}

type Meta struct {
	YearLevel         int                `json:"year_level"`
	TextType          TextType           `json:"text_type"`
	ValidResponse     bool               `json:"valid_response"`
	PromptRelevance   Relevance          `json:"prompt_relevance"`
	Message           string             `json:"message,omitempty"`
	WordCountFeedback *WordCountFeedback `json:"word_count_feedback,omitempty"`
	ErrorDetail       string             `json:"error_detail,omitempty"`
}

type Overall struct {
	TotalScore     int      `json:"total_score"`
	MaxScore       int      `json:"max_score"`
	Band           string   `json:"band"`
	OneLineSummary string   `json:"one_line_summary"`
	Summary        string   `json:"summary"`
	Strengths      []string `json:"strengths"`
	Weaknesses     []string `json:"weaknesses"`
}

// Criterion is one scored rubric line. Score and Max are nil for criteria
// that do not apply to the text type.
type Criterion struct {
	Name          string `json:"name"`
	Score         *int   `json:"score"`
	Max           *int   `json:"max"`
	Suggestion    string `json:"suggestion"`
	EvidenceQuote string `json:"evidence_quote"`
}

// ReviewSection items are strings or flat string maps.
type ReviewSection struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Items []any  `json:"items"`
}

// Result is the full writing assessment.
type Result struct {
	Meta           Meta            `json:"meta"`
	Overall        Overall         `json:"overall"`
	ReviewSections []ReviewSection `json:"review_sections"`
	Criteria       []Criterion     `json:"criteria"`
}

// State names the terminal step an evaluation finished in.
type State string

const (
	StateComputeMax  State = "COMPUTE_MAX"
	StateBlank       State = "BLANK"
	StateTooShort    State = "TOO_SHORT"
	StateMissingKey  State = "MISSING_KEY"
	StateCallModel   State = "CALL_MODEL"
	StateNormalize   State = "NORMALIZE"
	StateModelFailed State = "MODEL_FAILED"
)

// Outcome is either a result or a top-level failure.
type Outcome struct {
	Success bool    `json:"success"`
	Result  *Result `json:"result,omitempty"`
	Error   string  `json:"error,omitempty"`

	State State `json:"-"`
}

func succeeded(state State, r *Result) Outcome {
	return Outcome{Success: true, Result: r, State: state}
}

func failed(state State, msg string) Outcome {
	return Outcome{Success: false, Error: msg, State: state}
}
