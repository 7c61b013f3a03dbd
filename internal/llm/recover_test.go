package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/edutech/naplan/internal/extract"
)

func TestJSONRecovery_Stages(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"plain", `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```"},
		{"prose", `Sure! {"a":1} Hope that helps.`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := WithJSONRecovery(NewMockProvider(MockText(tt.text)))
			resp, err := p.Generate(context.Background(), Request{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(resp.Content) != `{"a":1}` {
				t.Fatalf("expected canonical object, got %s", resp.Content)
			}
			if resp.Model != "mock" {
				t.Fatalf("expected response metadata preserved, got model %q", resp.Model)
			}
		})
	}
}

func TestJSONRecovery_NoObjectIsInvalidResponse(t *testing.T) {
	p := WithJSONRecovery(NewMockProvider(MockText("I cannot help with that.")))
	_, err := p.Generate(context.Background(), Request{})

	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got: %T (%v)", err, err)
	}
	var exErr *extract.ExtractionError
	if !errors.As(err, &exErr) {
		t.Fatalf("expected wrapped ExtractionError, got: %v", err)
	}
	if string(inv.Content) != "I cannot help with that." {
		t.Fatalf("expected raw content kept for diagnostics, got %s", inv.Content)
	}
}

func TestJSONRecovery_StrictSchema(t *testing.T) {
	schema := envelopeSchema()
	schema.Name = "test-envelope-strict"
	schema.Strict = true

	p := WithJSONRecovery(NewMockProvider(
		MockText(`{"overall":"not an object"}`),
		MockText(`{"overall":{"total_score":10}}`),
	))

	_, err := p.Generate(context.Background(), Request{Schema: schema})
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse for shape mismatch, got: %T (%v)", err, err)
	}

	resp, err := p.Generate(context.Background(), Request{Schema: schema})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(resp.Content, &got); err != nil {
		t.Fatalf("content is not JSON: %v", err)
	}
}

func TestJSONRecovery_LooseSchemaNotValidated(t *testing.T) {
	schema := envelopeSchema()
	schema.Name = "test-envelope-loose"

	p := WithJSONRecovery(NewMockProvider(MockText(`{"overall":"not an object"}`)))
	if _, err := p.Generate(context.Background(), Request{Schema: schema}); err != nil {
		t.Fatalf("loose schema must not reject replies: %v", err)
	}
}

func TestRetryWithRecovery_RetriesExtractionFailureOnce(t *testing.T) {
	mock := NewMockProvider(
		MockText("no json here"),
		MockText("```json\n{\"ok\":true}\n```"),
	)
	p := WithRetry(WithJSONRecovery(mock), DefaultConfig().Retry)

	resp, err := p.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"ok":true}` {
		t.Fatalf("unexpected content: %s", resp.Content)
	}
	if mock.CallCount() != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.CallCount())
	}
}

func TestRetryWithRecovery_ExhaustedAfterTwoBadReplies(t *testing.T) {
	mock := NewMockProvider(MockText(""), MockText("still nothing"))
	p := WithRetry(WithJSONRecovery(mock), DefaultConfig().Retry)

	_, err := p.Generate(context.Background(), Request{})
	var exhausted *ErrRetriesExhausted
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected ErrRetriesExhausted, got: %T (%v)", err, err)
	}
	if exhausted.Attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", exhausted.Attempts)
	}
}
