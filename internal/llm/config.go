package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds all model provider configuration.
type Config struct {
	// Provider selects which provider to use.
	// Values: "gemini", "openai", "anthropic", "openrouter", "mock"
	Provider string

	Gemini     GeminiConfig
	OpenAI     OpenAIConfig
	Anthropic  AnthropicConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single logical call including retries. Zero means
	// no bound beyond the caller's context.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string // Default: "claude-haiku"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional. Override for compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-2.5-flash"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "google/gemini-2.5-flash"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration // 0 disables backoff
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with the production defaults: Gemini
// 2.5 Flash, two attempts, no backoff.
func DefaultConfig() Config {
	return Config{
		Provider: "gemini",
		Gemini: GeminiConfig{
			Model: "gemini-2.5-flash",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenRouter: OpenRouterConfig{
			Model: "google/gemini-2.5-flash",
		},
		Retry: RetryConfig{
			MaxAttempts: 2,
			Multiplier:  2.0,
		},
		Timeout: 90 * time.Second,
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values. NAPLAN_* variables win over the provider's
// conventional variable names.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if p := os.Getenv("NAPLAN_LLM_PROVIDER"); p != "" {
		cfg.Provider = strings.ToLower(p)
	}

	cfg.Gemini.APIKey = firstEnv("NAPLAN_GEMINI_API_KEY", "GEMINI_API_KEY")
	if m := firstEnv("NAPLAN_GEMINI_MODEL", "GEMINI_MODEL"); m != "" {
		cfg.Gemini.Model = m
	}

	cfg.OpenAI.APIKey = firstEnv("NAPLAN_OPENAI_API_KEY", "OPENAI_API_KEY")
	if m := os.Getenv("NAPLAN_OPENAI_MODEL"); m != "" {
		cfg.OpenAI.Model = m
	}
	if u := os.Getenv("NAPLAN_OPENAI_BASE_URL"); u != "" {
		cfg.OpenAI.BaseURL = u
	}

	cfg.Anthropic.APIKey = firstEnv("NAPLAN_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")
	if m := os.Getenv("NAPLAN_ANTHROPIC_MODEL"); m != "" {
		cfg.Anthropic.Model = m
	}

	cfg.OpenRouter.APIKey = firstEnv("NAPLAN_OPENROUTER_API_KEY", "OPENROUTER_API_KEY")
	if m := os.Getenv("NAPLAN_OPENROUTER_MODEL"); m != "" {
		cfg.OpenRouter.Model = m
	}

	// NAPLAN_MODEL overrides whichever provider is selected.
	if m := os.Getenv("NAPLAN_MODEL"); m != "" {
		cfg.SetModel(m)
	}

	return cfg
}

// SetModel overrides the model of the selected provider.
func (c *Config) SetModel(model string) {
	switch c.Provider {
	case "gemini":
		c.Gemini.Model = model
	case "openai":
		c.OpenAI.Model = model
	case "anthropic":
		c.Anthropic.Model = model
	case "openrouter":
		c.OpenRouter.Model = model
	}
}

// Model returns the configured model name of the selected provider.
func (c Config) Model() string {
	switch c.Provider {
	case "gemini":
		return c.Gemini.Model
	case "openai":
		return c.OpenAI.Model
	case "anthropic":
		return c.Anthropic.Model
	case "openrouter":
		return c.OpenRouter.Model
	case "mock":
		return "mock"
	}
	return ""
}

// Validate checks that the selected provider has its required API key set.
// A missing key is reported as *ErrMissingCredential.
func (c Config) Validate() error {
	switch c.Provider {
	case "gemini":
		if c.Gemini.APIKey == "" {
			return &ErrMissingCredential{Provider: c.Provider, EnvVar: "GEMINI_API_KEY"}
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return &ErrMissingCredential{Provider: c.Provider, EnvVar: "OPENAI_API_KEY"}
		}
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return &ErrMissingCredential{Provider: c.Provider, EnvVar: "ANTHROPIC_API_KEY"}
		}
	case "openrouter":
		if c.OpenRouter.APIKey == "" {
			return &ErrMissingCredential{Provider: c.Provider, EnvVar: "OPENROUTER_API_KEY"}
		}
	case "mock":
		// No API key needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}
