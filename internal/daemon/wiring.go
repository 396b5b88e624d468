package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"nriassist/internal/appstore"
	"nriassist/internal/assistant"
	"nriassist/internal/catalog"
	"nriassist/internal/config"
	"nriassist/internal/events"
	"nriassist/internal/logging"
	"nriassist/internal/script"
	"nriassist/internal/search"
	"nriassist/internal/services/chat"
	"nriassist/internal/services/upload"
	"nriassist/internal/workflow"
)

// LoadScript returns the configured guide script, falling back to the
// embedded default when search.script_path is unset.
func LoadScript(cfg *config.Config) (*script.Script, error) {
	if cfg == nil || strings.TrimSpace(cfg.Search.ScriptPath) == "" {
		return script.Default(), nil
	}
	sc, err := script.LoadFile(cfg.Search.ScriptPath)
	if err != nil {
		return nil, fmt.Errorf("load guide script: %w", err)
	}
	return sc, nil
}

// NewAssistantDeps builds the collaborators shared by assistant sessions.
func NewAssistantDeps(cfg *config.Config, sc *script.Script, logger *slog.Logger) (assistant.Deps, error) {
	scorer, err := search.ParseScorer(cfg.Search.Scorer)
	if err != nil {
		return assistant.Deps{}, err
	}
	if sc == nil {
		sc = script.Default()
	}
	return assistant.Deps{
		Chat: chat.NewClient(chat.Config{
			URL:            cfg.Chat.URL,
			TimeoutSeconds: cfg.Chat.TimeoutSeconds,
		}),
		Uploader: upload.NewClient(upload.Config{
			URL:            cfg.Upload.URL,
			TimeoutSeconds: cfg.Upload.TimeoutSeconds,
			Precheck: upload.PrecheckConfig{
				Enabled:           cfg.Upload.Precheck,
				MaxBytes:          cfg.Upload.MaxBytes,
				AllowedExtensions: cfg.Upload.AllowedExtensions,
				ValidatePDF:       cfg.Upload.ValidatePDF,
			},
		}),
		Script:     sc.List(),
		Threshold:  cfg.Search.Threshold,
		Scorer:     scorer,
		MaxResults: cfg.Search.MaxResults,
		Logger:     logging.ForComponent(logger, "assistant", cfg.Logging.ComponentLevels),
	}, nil
}

// OpenDependencies opens the store (when enabled), loads the application
// collection into an engine, and builds the publisher and session manager.
// Callers own the returned store and publisher; Daemon.Close releases them.
func OpenDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Dependencies, error) {
	if cfg == nil {
		return Dependencies{}, fmt.Errorf("config is required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	sc, err := LoadScript(cfg)
	if err != nil {
		return Dependencies{}, err
	}
	assistantDeps, err := NewAssistantDeps(cfg, sc, logger)
	if err != nil {
		return Dependencies{}, err
	}

	deps := Dependencies{
		Script:   sc,
		Sessions: assistant.NewManager(assistantDeps),
	}

	apps := workflow.SeedApplications()
	if cfg.Store.Enabled {
		store, err := appstore.Open(cfg)
		if err != nil {
			return Dependencies{}, fmt.Errorf("open application store: %w", err)
		}
		apps, err = store.List(ctx)
		if err != nil {
			_ = store.Close()
			return Dependencies{}, fmt.Errorf("load applications: %w", err)
		}
		deps.Store = store
	}
	cat := catalog.Default()
	deps.Engine = workflow.NewEngine(cat, apps)

	publisher, err := events.New(cfg.Events, logging.ForComponent(logger, "events", cfg.Logging.ComponentLevels))
	if err != nil {
		if deps.Store != nil {
			_ = deps.Store.Close()
		}
		return Dependencies{}, fmt.Errorf("init event publisher: %w", err)
	}
	deps.Publisher = publisher
	return deps, nil
}
