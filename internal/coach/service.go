// Package coach turns a subject quiz attempt into a performance analysis
// and model-written coaching feedback. The feedback is coerced so the
// weakest topic is always addressed, whatever the model returns.
package coach

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/edutech/naplan/internal/extract"
	"github.com/edutech/naplan/internal/llm"
)

// Config holds generation settings for the coach.
type Config struct {
	MaxTokens   int
	Temperature float64
	// ModelName is reported when the provider cannot name its model.
	ModelName string
	Insights  []string
}

// DefaultConfig returns the settings used in production.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   0,
		Temperature: 0.7,
		Insights:    ProductInsights,
	}
}

// Service produces subject feedback. It holds no per-request state.
type Service struct {
	provider llm.Provider
	cfg      Config
	now      func() time.Time
}

// NewService creates a feedback service.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg, now: time.Now}
}

// HandlePayload decodes a {"doc": {...}} payload and runs Feedback.
func (s *Service) HandlePayload(ctx context.Context, payload []byte) Outcome {
	var req Request
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &req); err != nil {
			return Failure(fmt.Sprintf("Invalid JSON input: %v", err))
		}
	}
	return s.Feedback(ctx, req.Doc)
}

// Feedback analyses a quiz document and asks the model for coaching.
// Failures are reported in the Outcome.
func (s *Service) Feedback(ctx context.Context, rawDoc json.RawMessage) Outcome {
	doc := gjson.ParseBytes(rawDoc)
	if !doc.IsObject() {
		doc = gjson.Parse("{}")
	}

	quizName := QuizName(doc)
	subject := InferSubject(quizName)
	if subject == SubjectWriting {
		return Failure("Writing assessments are handled separately")
	}
	year := InferYear(doc, quizName)

	data, err := NormalizeDoc(doc)
	if err != nil {
		return Failure(err.Error())
	}

	meta := s.meta(subject, quizName, year)

	if data.PossiblePoints() <= 0 {
		analysis, feedback := placeholderFeedback(year)
		meta.StatusMessage = StatusAwaiting
		return Outcome{Success: true, PerformanceAnalysis: analysis, AIFeedback: feedback, Meta: meta}
	}
	if data.Percentage == nil {
		return Failure(errNoPercentage.Error())
	}

	if err := llm.CheckConfigured(s.provider); err != nil {
		return Failure(err.Error())
	}

	analysis := Analyze(data, year)
	feedback, err := s.generate(ctx, analysis, subject)
	if err != nil {
		return Failure(fmt.Sprintf("AI generation failed: %v", err))
	}

	meta.StatusMessage = StatusGenerated
	return Outcome{Success: true, PerformanceAnalysis: &analysis, AIFeedback: feedback, Meta: meta}
}

func (s *Service) generate(ctx context.Context, a Analysis, subject string) (*Feedback, error) {
	ctx = llm.WithPurpose(ctx, "subject-feedback")

	prompt, err := BuildPrompt(a, subject, s.cfg.Insights)
	if err != nil {
		return nil, fmt.Errorf("build feedback prompt: %w", err)
	}

	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      coachSystemPrompt,
		Messages:    llm.UserPrompt(prompt),
		Schema:      FeedbackSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, err
	}

	obj, err := extract.Object(string(resp.Content))
	if err != nil {
		return nil, err
	}
	canonical, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("re-encode feedback: %w", err)
	}

	fb := Coerce(gjson.ParseBytes(canonical), a)
	return &fb, nil
}

func (s *Service) meta(subject, quizName string, year *int) *Meta {
	model := s.cfg.ModelName
	if s.provider != nil && s.provider.ModelID() != "" {
		model = s.provider.ModelID()
	}
	return &Meta{
		ResponseID:  uuid.NewString(),
		Model:       model,
		GeneratedAt: s.now().UTC(),
		Subject:     subject,
		QuizName:    quizName,
		YearLevel:   year,
		Status:      "done",
	}
}
