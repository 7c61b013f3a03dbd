// Package config assembles process configuration from flags, NAPLAN_*
// environment variables and an optional naplan.yaml file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/edutech/naplan/internal/llm"
	"github.com/edutech/naplan/internal/telemetry"
)

// Config is read once at startup and passed to constructors.
type Config struct {
	LLM       llm.Config
	Log       LogConfig
	Server    ServerConfig
	Telemetry telemetry.Config
	// LLMLog is the SQLite call log path. Empty disables the log.
	LLMLog string
}

type LogConfig struct {
	Level string
	Mode  string
}

type ServerConfig struct {
	Addr           string
	RequestTimeout time.Duration
	AllowedOrigins []string
}

// Keys shared by flags, environment variables and the config file. Dashes
// and dots map to underscores in environment names, so "log-level" reads
// NAPLAN_LOG_LEVEL.
const (
	KeyConfig         = "config"
	KeyProvider       = "provider"
	KeyModel          = "model"
	KeyLLMLog         = "llm-log"
	KeyLogLevel       = "log-level"
	KeyLogMode        = "log-mode"
	KeyAddr           = "addr"
	KeyRequestTimeout = "request-timeout"
	KeyAllowedOrigins = "allowed-origins"
	KeyLLMTimeout     = "llm-timeout"
	KeyRetryAttempts  = "retry-attempts"
	KeyRetryWait      = "retry-wait"
	KeyTracing        = "tracing"
	KeyOTLPEndpoint   = "otlp-endpoint"
	KeyOTLPInsecure   = "otlp-insecure"
	KeyOTLPHeaders    = "otlp-headers"
	KeyTraceRatio     = "trace-sample-ratio"
	KeyEnvironment    = "environment"
)

func setDefaults(v *viper.Viper) {
	def := llm.DefaultConfig()
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogMode, "dev")
	v.SetDefault(KeyAddr, ":8080")
	v.SetDefault(KeyRequestTimeout, 2*time.Minute)
	v.SetDefault(KeyAllowedOrigins, []string{"*"})
	v.SetDefault(KeyLLMTimeout, def.Timeout)
	v.SetDefault(KeyRetryAttempts, def.Retry.MaxAttempts)
	v.SetDefault(KeyRetryWait, def.Retry.InitialWait)
	v.SetDefault(KeyTraceRatio, 1.0)
	v.SetDefault(KeyEnvironment, "development")
}

// New returns a viper instance bound to flags (may be nil) and the
// environment, with the config file loaded. An explicitly named file that
// cannot be read is an error; a missing default file is not.
func New(flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)
	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	v.SetEnvPrefix("NAPLAN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if file := v.GetString(KeyConfig); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
		return v, nil
	}

	v.SetConfigName("naplan")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/naplan")
	v.AddConfigPath("/etc/naplan")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// Load builds a Config from flags, environment and config file. Provider
// credentials keep their conventional environment names.
func Load(flags *pflag.FlagSet) (Config, error) {
	v, err := New(flags)
	if err != nil {
		return Config{}, err
	}
	return FromViper(v), nil
}

// FromViper decodes a prepared viper instance.
func FromViper(v *viper.Viper) Config {
	lc := llm.ConfigFromEnv()
	if p := strings.TrimSpace(v.GetString(KeyProvider)); p != "" {
		lc.Provider = strings.ToLower(p)
	}
	for _, key := range []string{"gemini", "openai", "anthropic", "openrouter"} {
		setProviderKey(&lc, key, v.GetString(key+".api_key"))
	}
	if m := strings.TrimSpace(v.GetString(KeyModel)); m != "" {
		lc.SetModel(m)
	}
	lc.Timeout = v.GetDuration(KeyLLMTimeout)
	lc.Retry.MaxAttempts = v.GetInt(KeyRetryAttempts)
	lc.Retry.InitialWait = v.GetDuration(KeyRetryWait)
	if lc.Retry.InitialWait > 0 && lc.Retry.MaxWait == 0 {
		lc.Retry.MaxWait = 8 * lc.Retry.InitialWait
	}

	return Config{
		LLM: lc,
		Log: LogConfig{
			Level: v.GetString(KeyLogLevel),
			Mode:  v.GetString(KeyLogMode),
		},
		Server: ServerConfig{
			Addr:           v.GetString(KeyAddr),
			RequestTimeout: v.GetDuration(KeyRequestTimeout),
			AllowedOrigins: v.GetStringSlice(KeyAllowedOrigins),
		},
		Telemetry: telemetry.Config{
			Enabled:     v.GetBool(KeyTracing),
			ServiceName: "naplan",
			Environment: v.GetString(KeyEnvironment),
			Endpoint:    v.GetString(KeyOTLPEndpoint),
			Insecure:    v.GetBool(KeyOTLPInsecure),
			Headers:     telemetry.ParseHeaders(v.GetString(KeyOTLPHeaders)),
			SampleRatio: v.GetFloat64(KeyTraceRatio),
		},
		LLMLog: v.GetString(KeyLLMLog),
	}
}

// setProviderKey fills a credential from the config file when the
// environment left it empty.
func setProviderKey(c *llm.Config, provider, key string) {
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}
	switch provider {
	case "gemini":
		if c.Gemini.APIKey == "" {
			c.Gemini.APIKey = key
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			c.OpenAI.APIKey = key
		}
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			c.Anthropic.APIKey = key
		}
	case "openrouter":
		if c.OpenRouter.APIKey == "" {
			c.OpenRouter.APIKey = key
		}
	}
}

// RegisterFlags adds the global flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(KeyConfig, "", "config file (default ./naplan.yaml)")
	fs.String(KeyProvider, "", "model provider: gemini, openai, anthropic, openrouter, mock")
	fs.String(KeyModel, "", "model name override")
	fs.String(KeyLLMLog, "", "SQLite file recording every model call")
	fs.String(KeyLogLevel, "info", "log level: debug, info, warn, error")
	fs.String(KeyLogMode, "dev", "log encoder: dev or prod")
	fs.Bool(KeyTracing, false, "export OpenTelemetry traces")
	fs.String(KeyOTLPEndpoint, "", "OTLP/HTTP endpoint; empty prints spans to stderr")
}
