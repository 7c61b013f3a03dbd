package llm

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/edutech/naplan/internal/logger"
	"github.com/edutech/naplan/internal/store"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type failingRepo struct{ store.EventRepo }

func (failingRepo) AppendLLMRequest(context.Context, store.LLMRequestEventData) error {
	return errors.New("disk full")
}

func TestEventObserver_RecordsAttempts(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "llm.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	mock := NewMockProvider(
		MockText("not json at all"),
		MockResponse{Content: []byte("```json\n{\"ok\":true}\n```"), Usage: Usage{InputTokens: 12, OutputTokens: 7}},
	)
	p := Wrap(mock, DefaultConfig().Retry, NewEventObserver(s.EventRepo(), nil))

	ctx := WithPurpose(context.Background(), "writing-assessment")
	if _, err := p.Generate(ctx, Request{System: "assessor", Messages: UserPrompt("YEAR: 5")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	events, err := s.EventRepo().QueryLLMEvents(ctx, store.QueryOpts{})
	if err != nil {
		t.Fatalf("query events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	latest, first := events[0], events[1]
	if first.Attempt != 1 || latest.Attempt != 2 {
		t.Fatalf("expected attempts 1 then 2, got %d then %d", first.Attempt, latest.Attempt)
	}
	// The observer sits below JSON recovery, so it sees raw replies and
	// records the attempt as delivered by the provider.
	if !first.Success || first.ResponseBody != "not json at all" {
		t.Fatalf("unexpected first event: %+v", first)
	}
	if latest.InputTokens != 12 || latest.OutputTokens != 7 || latest.Purpose != "writing-assessment" {
		t.Fatalf("unexpected latest event: %+v", latest)
	}
	if !strings.Contains(latest.RequestBody, "[system]\nassessor") || !strings.Contains(latest.RequestBody, "[user]\nYEAR: 5") {
		t.Fatalf("request body not captured: %q", latest.RequestBody)
	}
}

func TestEventObserver_WriteFailureDoesNotFailCall(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	obs := NewEventObserver(failingRepo{}, logger.FromCore(core))

	p := WithObserver(NewMockProvider(MockText(`{}`)), obs)
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("log failure leaked into the call: %v", err)
	}
	if logs.FilterMessage("failed to log LLM request event").Len() != 1 {
		t.Fatal("expected a warning about the failed log write")
	}
}

func TestLogObserver(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	obs := NewLogObserver(logger.FromCore(core))

	p := WithObserver(NewMockProvider(
		MockText(`{}`),
		MockResponse{Err: &ErrRateLimit{Err: errors.New("429")}},
	), obs)

	_, _ = p.Generate(context.Background(), Request{})
	_, _ = p.Generate(context.Background(), Request{})

	if logs.FilterMessage("llm call started").Len() != 2 {
		t.Fatal("expected two start lines")
	}
	if logs.FilterMessage("llm call finished").Len() != 1 {
		t.Fatal("expected one success line")
	}
	failed := logs.FilterMessage("llm call failed").All()
	if len(failed) != 1 || failed[0].Level != zapcore.WarnLevel {
		t.Fatalf("expected one warn line for the failure, got %v", failed)
	}
}
