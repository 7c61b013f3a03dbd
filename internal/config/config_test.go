package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"GEMINI_API_KEY", "GEMINI_MODEL", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
		"NAPLAN_GEMINI_API_KEY", "NAPLAN_MODEL", "NAPLAN_PROVIDER", "NAPLAN_LLM_PROVIDER",
		"NAPLAN_LOG_LEVEL", "NAPLAN_ADDR", "NAPLAN_RETRY_ATTEMPTS", "NAPLAN_LLM_LOG", "NAPLAN_TRACING",
	} {
		t.Setenv(k, "")
	}
	// Keep the default config search away from the developer's files.
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
}

func testFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(testFlags(t))
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.LLM.Model())
	assert.Equal(t, 2, cfg.LLM.Retry.MaxAttempts)
	assert.Zero(t, cfg.LLM.Retry.InitialWait)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "dev", cfg.Log.Mode)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 2*time.Minute, cfg.Server.RequestTimeout)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Empty(t, cfg.LLMLog)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("NAPLAN_PROVIDER", "openai")
	t.Setenv("NAPLAN_LOG_LEVEL", "warn")
	t.Setenv("GEMINI_API_KEY", "g-key")

	cfg, err := Load(testFlags(t, "--provider", "gemini", "--model", "gemini-2.5-pro", "--llm-log", "calls.db"))
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "gemini-2.5-pro", cfg.LLM.Gemini.Model)
	assert.Equal(t, "g-key", cfg.LLM.Gemini.APIKey)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "calls.db", cfg.LLMLog)
	assert.NoError(t, cfg.LLM.Validate())
}

func TestLoad_EnvOnly(t *testing.T) {
	clearEnv(t)
	t.Setenv("NAPLAN_ADDR", "127.0.0.1:9000")
	t.Setenv("NAPLAN_RETRY_ATTEMPTS", "4")

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, 4, cfg.LLM.Retry.MaxAttempts)
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
provider: anthropic
log-mode: prod
retry-wait: 500ms
anthropic:
  api_key: file-key
tracing: true
otlp-headers: "x-team=edu, bad"
`), 0o600))

	cfg, err := Load(testFlags(t, "--config", path))
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "file-key", cfg.LLM.Anthropic.APIKey)
	assert.Equal(t, "prod", cfg.Log.Mode)
	assert.Equal(t, 500*time.Millisecond, cfg.LLM.Retry.InitialWait)
	assert.Equal(t, 4*time.Second, cfg.LLM.Retry.MaxWait)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, map[string]string{"x-team": "edu"}, cfg.Telemetry.Headers)
}

func TestLoad_DefaultFileInWorkingDir(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.WriteFile("naplan.yaml", []byte("addr: \":7070\"\n"), 0o600))

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(testFlags(t, "--config", filepath.Join(t.TempDir(), "nope.yaml")))
	assert.Error(t, err)
}

func TestLoad_EnvCredentialWinsOverFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "env-key")
	require.NoError(t, os.WriteFile("naplan.yaml", []byte("gemini:\n  api_key: file-key\n"), 0o600))

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.LLM.Gemini.APIKey)
}
