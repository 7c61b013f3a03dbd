package llm

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type contextKey string

const (
	purposeKey contextKey = "llm_purpose"
	attemptKey contextKey = "llm_attempt"
)

// WithPurpose attaches a purpose label to the context for call observers.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom extracts the purpose label from the context.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return "unknown"
}

func withAttempt(ctx context.Context, n int) context.Context {
	return context.WithValue(ctx, attemptKey, n)
}

// AttemptFrom returns the 1-based retry attempt carried by ctx, or 1.
func AttemptFrom(ctx context.Context) int {
	if v, ok := ctx.Value(attemptKey).(int); ok && v > 0 {
		return v
	}
	return 1
}

// CallInfo describes one model call attempt.
type CallInfo struct {
	ID       string
	Provider string
	Model    string
	Purpose  string
	Attempt  int
	Request  Request
	Started  time.Time
}

// CallResult is the outcome of one model call attempt.
type CallResult struct {
	Response *Response
	Err      error
	Latency  time.Duration
}

// Observer is an optional hook invoked around every model call attempt.
// Started may return a derived context (e.g. carrying a span); Finished
// receives that context.
type Observer interface {
	Started(ctx context.Context, info CallInfo) context.Context
	Finished(ctx context.Context, info CallInfo, result CallResult)
}

// Observers fans out to several observers. Nil entries are skipped.
func Observers(obs ...Observer) Observer {
	var list multiObserver
	for _, o := range obs {
		if o != nil {
			list = append(list, o)
		}
	}
	switch len(list) {
	case 0:
		return nil
	case 1:
		return list[0]
	}
	return list
}

type multiObserver []Observer

func (m multiObserver) Started(ctx context.Context, info CallInfo) context.Context {
	for _, o := range m {
		ctx = o.Started(ctx, info)
	}
	return ctx
}

func (m multiObserver) Finished(ctx context.Context, info CallInfo, result CallResult) {
	for i := len(m) - 1; i >= 0; i-- {
		m[i].Finished(ctx, info, result)
	}
}

// ObservedProvider reports each call to an Observer.
type ObservedProvider struct {
	inner    Provider
	observer Observer
	name     string
	now      func() time.Time
}

// WithObserver wraps p so that obs sees every call. A nil observer returns
// p unchanged.
func WithObserver(p Provider, obs Observer) Provider {
	if obs == nil {
		return p
	}
	return &ObservedProvider{inner: p, observer: obs, name: ProviderName(p), now: time.Now}
}

func (o *ObservedProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	info := CallInfo{
		ID:       uuid.NewString(),
		Provider: o.name,
		Model:    o.inner.ModelID(),
		Purpose:  PurposeFrom(ctx),
		Attempt:  AttemptFrom(ctx),
		Request:  req,
		Started:  o.now(),
	}

	callCtx := o.observer.Started(ctx, info)
	resp, err := o.inner.Generate(callCtx, req)
	o.observer.Finished(callCtx, info, CallResult{
		Response: resp,
		Err:      err,
		Latency:  o.now().Sub(info.Started),
	})

	return resp, err
}

func (o *ObservedProvider) ModelID() string {
	return o.inner.ModelID()
}

// ProviderName returns the adapter name of p ("gemini", "openai", ...),
// or "unknown" for providers that do not report one.
func ProviderName(p Provider) string {
	if n, ok := p.(interface{ Name() string }); ok {
		return n.Name()
	}
	return "unknown"
}
