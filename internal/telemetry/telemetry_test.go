package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/edutech/naplan/internal/llm"
)

func attrMap(attrs []attribute.KeyValue) map[string]attribute.Value {
	m := make(map[string]attribute.Value, len(attrs))
	for _, kv := range attrs {
		m[string(kv.Key)] = kv.Value
	}
	return m
}

func TestTracingObserver_SpanPerAttempt(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("503")}},
		llm.MockResponse{Content: []byte(`{"ok":true}`), Usage: llm.Usage{InputTokens: 9, OutputTokens: 4}},
	)
	p := llm.Wrap(mock, llm.DefaultConfig().Retry, NewTracingObserverWith(tp))

	ctx := llm.WithPurpose(context.Background(), "subject-feedback")
	_, err := p.Generate(ctx, llm.Request{})
	require.NoError(t, err)

	spans := rec.Ended()
	require.Len(t, spans, 2)

	failed, ok := spans[0], spans[1]
	assert.Equal(t, "llm.generate", failed.Name())
	assert.Equal(t, codes.Error, failed.Status().Code)
	assert.Equal(t, codes.Ok, ok.Status().Code)

	attrs := attrMap(ok.Attributes())
	assert.Equal(t, "subject-feedback", attrs["llm.purpose"].AsString())
	assert.Equal(t, "mock", attrs["llm.provider"].AsString())
	assert.EqualValues(t, 2, attrs["llm.attempt"].AsInt64())
	assert.EqualValues(t, 9, attrs["llm.input_tokens"].AsInt64())
}

func TestInitDisabledIsNoop(t *testing.T) {
	shutdown, err := Init(context.Background(), nil, Config{})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestParseHeaders(t *testing.T) {
	assert.Equal(t, map[string]string{"api-key": "abc", "x-team": "naplan"},
		ParseHeaders(" api-key=abc , x-team=naplan,broken,=v,k="))
	assert.Nil(t, ParseHeaders(""))
}

func TestSampleRatio(t *testing.T) {
	assert.Equal(t, 1.0, sampleRatio(0))
	assert.Equal(t, 0.25, sampleRatio(0.25))
	assert.Equal(t, 1.0, sampleRatio(3))
}
