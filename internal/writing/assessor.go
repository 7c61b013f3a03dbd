// Package writing scores NAPLAN writing responses. Scoring totals and bands
// are computed from the rubric; the model's reply only supplies criterion
// scores and commentary, and every field of it is repaired before use.
package writing

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/edutech/naplan/internal/extract"
	"github.com/edutech/naplan/internal/llm"
	"github.com/edutech/naplan/internal/sanitize"
)

// Config holds generation settings for the assessor.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the settings used in production.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   0,
		Temperature: 0.25,
	}
}

const (
	promptLimit        = 4000
	oneLineLimit       = 140
	summaryLimit       = 260
	listItemLimit      = 120
	listLimit          = 4
	errorDetailLimit   = 260
	fallbackSummary    = "Good effort. Keep practising and add more detail next time."
	blankSummary       = "No writing was provided for assessment."
	tooShortSummary    = "The response is too short to assess reliably."
	failedSummary      = "Prompt relevance was checked, but full assessment failed."
	failedMessage      = "AI evaluation failed."
	failedRelevanceMsg = "Relevance could not be confirmed because the assessment failed."
)

// Assessor evaluates writing with a model.
type Assessor struct {
	provider llm.Provider
	cfg      Config
}

// NewAssessor creates an assessor. A nil or unconfigured provider makes
// every evaluation that reaches the model fail with the credential error.
func NewAssessor(provider llm.Provider, cfg Config) *Assessor {
	return &Assessor{provider: provider, cfg: cfg}
}

// Evaluate runs the assessment. Domain failures are reported in the
// Outcome, never as a Go error.
func (a *Assessor) Evaluate(ctx context.Context, in Input) Outcome {
	tt := ResolveTextType(in.TextType, in.WritingPrompt, in.StudentWriting)
	maxScore := MaxScore(tt)

	writing := sanitize.Clean(in.StudentWriting)
	if sanitize.IsBlank(writing) {
		r := baseResult(in.StudentYear, tt, maxScore)
		r.Meta.PromptRelevance = Relevance{Verdict: VerdictOffTopic, Note: "No student writing provided."}
		r.Overall.Summary = blankSummary
		return succeeded(StateBlank, r)
	}

	words := sanitize.CountWords(writing)
	if words < MinAIWords {
		r := baseResult(in.StudentYear, tt, maxScore)
		r.Meta.Message = fmt.Sprintf(
			"Text length is not enough to assess. Please write at least %d words (current: %d).",
			MinAIWords, words)
		r.Meta.WordCountFeedback = tooShortFeedback(in.StudentYear, words)
		r.Meta.PromptRelevance = Relevance{Verdict: VerdictOffTopic, Note: "Too little text to judge relevance."}
		r.Overall.Summary = tooShortSummary
		return succeeded(StateTooShort, r)
	}

	if err := llm.CheckConfigured(a.provider); err != nil {
		return failed(StateMissingKey, err.Error())
	}

	length := LengthFeedback(in.StudentYear, words)

	reply, err := a.callModel(ctx, promptData{
		Year:        in.StudentYear,
		TextType:    tt,
		Expectation: YearExpectation(in.StudentYear),
		Prompt:      sanitize.Text(in.WritingPrompt, promptLimit),
		Response:    writing,
		MaxScore:    maxScore,
	})
	if err != nil {
		var missing *llm.ErrMissingCredential
		if errors.As(err, &missing) {
			return failed(StateMissingKey, missing.Error())
		}
		return succeeded(StateModelFailed, modelFailedResult(in.StudentYear, tt, maxScore, length, err))
	}

	return succeeded(StateNormalize, normalizeReply(reply, in.StudentYear, tt, maxScore, length))
}

// modelReply is the reply after the envelope check. Fields stay loosely
// typed because the normalizer repairs them one by one.
type modelReply struct {
	Meta           map[string]any
	Overall        map[string]any
	Criteria       any
	ReviewSections any
}

func (a *Assessor) callModel(ctx context.Context, d promptData) (*modelReply, error) {
	ctx = llm.WithPurpose(ctx, "writing-assessment")

	userMsg, err := buildAssessmentMessage(d)
	if err != nil {
		return nil, fmt.Errorf("build assessment prompt: %w", err)
	}

	resp, err := a.provider.Generate(ctx, llm.Request{
		System:      assessorSystemPrompt,
		Messages:    llm.UserPrompt(userMsg),
		Schema:      AssessmentSchema,
		MaxTokens:   a.cfg.MaxTokens,
		Temperature: a.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("writing assessment: %w", err)
	}

	obj, err := extract.Object(string(resp.Content))
	if err != nil {
		return nil, err
	}
	if err := llm.ValidateShape(envelopeSchema, obj); err != nil {
		return nil, fmt.Errorf("malformed assessment: %w", err)
	}

	reply := &modelReply{Criteria: obj["criteria"], ReviewSections: obj["review_sections"]}
	reply.Meta, _ = obj["meta"].(map[string]any)
	reply.Overall, _ = obj["overall"].(map[string]any)
	return reply, nil
}

func normalizeReply(reply *modelReply, year int, tt TextType, maxScore int, length WordCountFeedback) *Result {
	criteria, total := NormalizeCriteria(reply.Criteria, tt)

	band, _ := reply.Overall["band"].(string)
	band = sanitize.Text(band, 32)
	if !validBand(band) {
		band = Band(total, maxScore)
	}

	return &Result{
		Meta: Meta{
			YearLevel:         year,
			TextType:          tt,
			ValidResponse:     true,
			PromptRelevance:   declaredRelevance(reply.Meta["prompt_relevance"]),
			WordCountFeedback: &length,
		},
		Overall: Overall{
			TotalScore:     total,
			MaxScore:       maxScore,
			Band:           band,
			OneLineSummary: textOrDefault(reply.Overall["one_line_summary"], oneLineLimit),
			Summary:        textOrDefault(reply.Overall["summary"], summaryLimit),
			Strengths:      textList(reply.Overall["strengths"]),
			Weaknesses:     textList(reply.Overall["weaknesses"]),
		},
		ReviewSections: ShapeReviewSections(reply.ReviewSections),
		Criteria:       criteria,
	}
}

// declaredRelevance keeps the model's relevance when it names a known
// verdict and defaults to fully on topic otherwise.
func declaredRelevance(raw any) Relevance {
	obj, ok := raw.(map[string]any)
	verdict, _ := obj["verdict"].(string)
	if !ok || !validVerdict(verdict) {
		return Relevance{Score: 100, Verdict: VerdictOnTopic}
	}
	score := 0
	if f, isNum := obj["score"].(float64); isNum {
		score = int(math.Round(max(0, min(100, f))))
	}
	note, _ := obj["note"].(string)
	evidence, _ := obj["evidence"].(string)
	return Relevance{
		Score:    clamp(score, 0, 100),
		Verdict:  verdict,
		Note:     sanitize.Text(note, criterionTextLimit),
		Evidence: sanitize.Text(evidence, summaryLimit),
	}
}

func validVerdict(v string) bool {
	switch v {
	case VerdictOnTopic, VerdictPartiallyOnTopic, VerdictOffTopic:
		return true
	}
	return false
}

func textOrDefault(v any, limit int) string {
	s, _ := v.(string)
	if sanitize.IsBlank(s) {
		s = fallbackSummary
	}
	return sanitize.Text(s, limit)
}

// textList keeps the first four entries and drops blanks and non-strings.
func textList(v any) []string {
	items, _ := v.([]any)
	if len(items) > listLimit {
		items = items[:listLimit]
	}
	out := []string{}
	for _, it := range items {
		s, ok := it.(string)
		if !ok || sanitize.IsBlank(s) {
			continue
		}
		out = append(out, sanitize.Text(s, listItemLimit))
	}
	return out
}

// baseResult is the shape every non-model path starts from.
func baseResult(year int, tt TextType, maxScore int) *Result {
	criteria, _ := NormalizeCriteria(nil, tt)
	return &Result{
		Meta: Meta{
			YearLevel:       year,
			TextType:        tt,
			PromptRelevance: Relevance{Verdict: VerdictOffTopic},
		},
		Overall: Overall{
			MaxScore:   maxScore,
			Band:       BandBelow,
			Strengths:  []string{},
			Weaknesses: []string{},
		},
		ReviewSections: ShapeReviewSections(nil),
		Criteria:       criteria,
	}
}

func modelFailedResult(year int, tt TextType, maxScore int, length WordCountFeedback, err error) *Result {
	r := baseResult(year, tt, maxScore)
	r.Meta.WordCountFeedback = &length
	r.Meta.Message = failedMessage
	r.Meta.ErrorDetail = sanitize.Text(err.Error(), errorDetailLimit)
	r.Meta.PromptRelevance = Relevance{Score: 50, Verdict: VerdictPartiallyOnTopic, Note: failedRelevanceMsg}
	r.Overall.Summary = failedSummary
	return r
}
