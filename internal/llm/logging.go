package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/edutech/naplan/internal/logger"
	"github.com/edutech/naplan/internal/store"
)

// EventObserver records every model call attempt in the call log.
type EventObserver struct {
	repo store.EventRepo
	log  *logger.Logger
}

// NewEventObserver returns an Observer that appends to repo. Failures to
// write the log are reported through log and never fail the call.
func NewEventObserver(repo store.EventRepo, log *logger.Logger) *EventObserver {
	if log == nil {
		log = logger.Nop()
	}
	return &EventObserver{repo: repo, log: log}
}

func (e *EventObserver) Started(ctx context.Context, _ CallInfo) context.Context {
	return ctx
}

func (e *EventObserver) Finished(ctx context.Context, info CallInfo, result CallResult) {
	data := store.LLMRequestEventData{
		CallID:      info.ID,
		Provider:    info.Provider,
		Model:       info.Model,
		Purpose:     info.Purpose,
		Attempt:     info.Attempt,
		LatencyMs:   result.Latency.Milliseconds(),
		Success:     result.Err == nil,
		RequestBody: serializeRequest(info.Request),
	}

	if resp := result.Response; resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
		data.ResponseBody = string(resp.Content)
	}
	if result.Err != nil {
		data.ErrorMessage = result.Err.Error()
	}

	// The call outcome must not depend on the log write or on the caller's
	// deadline.
	if err := e.repo.AppendLLMRequest(context.WithoutCancel(ctx), data); err != nil {
		e.log.Warn("failed to log LLM request event", "call_id", info.ID, "error", err)
	}
}

// LogObserver writes one structured log line per model call attempt.
type LogObserver struct {
	log *logger.Logger
}

func NewLogObserver(log *logger.Logger) *LogObserver {
	return &LogObserver{log: log}
}

func (l *LogObserver) Started(ctx context.Context, info CallInfo) context.Context {
	l.log.Debug("llm call started",
		"call_id", info.ID,
		"provider", info.Provider,
		"model", info.Model,
		"purpose", info.Purpose,
		"attempt", info.Attempt,
	)
	return ctx
}

func (l *LogObserver) Finished(_ context.Context, info CallInfo, result CallResult) {
	kv := []interface{}{
		"call_id", info.ID,
		"provider", info.Provider,
		"model", info.Model,
		"purpose", info.Purpose,
		"attempt", info.Attempt,
		"latency_ms", result.Latency.Milliseconds(),
	}
	if result.Response != nil {
		kv = append(kv,
			"input_tokens", result.Response.Usage.InputTokens,
			"output_tokens", result.Response.Usage.OutputTokens,
			"stop_reason", result.Response.StopReason,
		)
	}
	if result.Err != nil {
		l.log.Warn("llm call failed", append(kv, "error", result.Err.Error())...)
		return
	}
	l.log.Info("llm call finished", kv...)
}

// serializeRequest builds a readable representation of the model request.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	for _, m := range req.Messages {
		b.WriteString(fmt.Sprintf("[%s]\n", m.Role))
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}

	if req.Schema != nil {
		schemaDef, err := json.Marshal(req.Schema.Definition)
		if err == nil {
			b.WriteString(fmt.Sprintf("[schema: %s]\n", req.Schema.Name))
			b.WriteString(string(schemaDef))
			b.WriteString("\n")
		}
	}

	return b.String()
}
