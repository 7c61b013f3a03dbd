package llm

import (
	"context"
	"errors"
	"fmt"
)

// NewProvider creates a Provider from configuration, wrapped with the
// standard middleware: caller → retry → JSON recovery → observer → adapter.
// obs may be nil. A missing credential is returned as *ErrMissingCredential.
func NewProvider(ctx context.Context, cfg Config, obs Observer) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		base = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return Wrap(base, cfg.Retry, obs), nil
}

// Wrap applies the standard middleware stack to an adapter.
func Wrap(base Provider, retry RetryConfig, obs Observer) Provider {
	observed := WithObserver(base, obs)
	recovered := WithJSONRecovery(observed)
	return WithRetry(recovered, retry)
}

// UnconfiguredProvider stands in for a provider that could not be built,
// typically because its credential is missing. Every call fails with Err.
type UnconfiguredProvider struct {
	Err error
}

// Unconfigured returns a Provider that always fails with err.
func Unconfigured(err error) *UnconfiguredProvider {
	return &UnconfiguredProvider{Err: err}
}

func (u *UnconfiguredProvider) Generate(context.Context, Request) (*Response, error) {
	return nil, u.Err
}

func (u *UnconfiguredProvider) ModelID() string {
	return ""
}

// NewProviderOrUnconfigured is NewProvider that turns a missing credential
// into an UnconfiguredProvider, so entry points can report it as a
// structured failure. Other errors are returned.
func NewProviderOrUnconfigured(ctx context.Context, cfg Config, obs Observer) (Provider, error) {
	p, err := NewProvider(ctx, cfg, obs)
	var missing *ErrMissingCredential
	if errors.As(err, &missing) {
		return Unconfigured(missing), nil
	}
	return p, err
}

// CheckConfigured reports why p cannot serve calls: nil providers and
// UnconfiguredProviders fail, anything else is ready.
func CheckConfigured(p Provider) error {
	if p == nil {
		return &ErrMissingCredential{}
	}
	if u, ok := p.(*UnconfiguredProvider); ok {
		if u.Err == nil {
			return &ErrMissingCredential{}
		}
		return u.Err
	}
	return nil
}
