package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edutech/naplan/internal/config"
	"github.com/edutech/naplan/internal/llm"
	"github.com/edutech/naplan/internal/logger"
	"github.com/edutech/naplan/internal/store"
	"github.com/edutech/naplan/internal/telemetry"
)

// buildProvider is replaced in tests.
var buildProvider = llm.NewProviderOrUnconfigured

// runtime holds the process-wide dependencies of a command.
type runtime struct {
	cfg      config.Config
	log      *logger.Logger
	provider llm.Provider
	store    *store.Store
	shutdown telemetry.Shutdown
}

// setup reads configuration and builds the logger, tracing, call log and
// model provider. A missing credential is not an error here; the entry
// points report it per request.
func setup(cmd *cobra.Command) (*runtime, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	rt := &runtime{cfg: cfg, log: log}

	cfg.Telemetry.Version = version
	rt.shutdown, err = telemetry.Init(ctx, log, cfg.Telemetry)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	observers := []llm.Observer{llm.NewLogObserver(log)}
	if cfg.Telemetry.Enabled {
		observers = append(observers, telemetry.NewTracingObserver())
	}
	if cfg.LLMLog != "" {
		if err := store.EnsureDir(cfg.LLMLog); err != nil {
			rt.Close()
			return nil, fmt.Errorf("create call log directory: %w", err)
		}
		rt.store, err = store.Open(cfg.LLMLog)
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("open call log: %w", err)
		}
		observers = append(observers, llm.NewEventObserver(rt.store.EventRepo(), log))
	}

	rt.provider, err = buildProvider(ctx, cfg.LLM, llm.Observers(observers...))
	if err != nil {
		rt.Close()
		return nil, err
	}
	if err := llm.CheckConfigured(rt.provider); err != nil {
		var missing *llm.ErrMissingCredential
		if errors.As(err, &missing) {
			log.Warn("model provider not configured; assessments will fail", "provider", missing.Provider, "env", missing.EnvVar)
		}
	} else {
		log.Debug("model provider ready", "provider", cfg.LLM.Provider, "model", rt.provider.ModelID())
	}
	return rt, nil
}

// withTimeout bounds one entry point call by the configured model timeout.
func (r *runtime) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.cfg.LLM.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.cfg.LLM.Timeout)
}

func (r *runtime) Close() {
	if r.shutdown != nil {
		if err := r.shutdown(context.Background()); err != nil {
			r.log.Warn("telemetry shutdown failed", "error", err)
		}
	}
	if r.store != nil {
		if err := r.store.Close(); err != nil {
			r.log.Warn("close call log failed", "error", err)
		}
	}
	r.log.Sync()
}
