package logging

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"nriassist/internal/config"
)

// Options describes logger construction parameters.
type Options struct {
	Level            string
	Format           string
	OutputPaths      []string
	ErrorOutputPaths []string
	Development      bool
	// ComponentLevels maps component names to their own minimum level.
	ComponentLevels map[string]string
}

// New builds a logger from opts. Format is "console" (default) or "json".
// When a component level is more verbose than Level, the handler runs at
// that level and a filter holds everything else at Level.
func New(opts Options) (*slog.Logger, error) {
	rootLevel := parseLevel(opts.Level)
	floor := rootLevel
	for _, raw := range opts.ComponentLevels {
		floor = min(floor, parseLevel(raw))
	}
	handlerLevel := new(slog.LevelVar)
	handlerLevel.Set(floor)

	targets := withFallback(opts.OutputPaths, "stdout")
	targets = append(targets, withFallback(opts.ErrorOutputPaths, "stderr")...)
	out, err := openSinks(targets)
	if err != nil {
		return nil, err
	}

	addSource := opts.Development || rootLevel <= slog.LevelDebug
	var handler slog.Handler
	switch format := strings.ToLower(strings.TrimSpace(opts.Format)); format {
	case "", "console":
		handler = newPrettyHandler(out, handlerLevel, addSource)
	case "json":
		handler = newJSONHandler(out, handlerLevel, addSource)
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}
	if floor < rootLevel {
		handler = newLevelOverrideHandler(handler, rootLevel)
	}
	return slog.New(handler), nil
}

// Override adjusts the Options derived from config, for command-line flags.
type Override func(*Options)

// WithLevel replaces logging.level when level is not empty.
func WithLevel(level string) Override {
	return func(o *Options) {
		if strings.TrimSpace(level) != "" {
			o.Level = level
		}
	}
}

// WithDevelopment adds source locations to every line.
func WithDevelopment(enabled bool) Override {
	return func(o *Options) { o.Development = o.Development || enabled }
}

// NewFromConfig builds the daemon logger, which writes to stdout and to
// the log file under paths.log_dir.
func NewFromConfig(cfg *config.Config, overrides ...Override) (*slog.Logger, error) {
	if cfg == nil {
		cfg = &config.Config{}
	}
	opts := Options{
		Level:           cfg.Logging.Level,
		Format:          cfg.Logging.Format,
		OutputPaths:     []string{"stdout"},
		ComponentLevels: cfg.Logging.ComponentLevels,
	}
	if cfg.Paths.LogDir != "" {
		if err := os.MkdirAll(cfg.Paths.LogDir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure log directory: %w", err)
		}
		opts.OutputPaths = append(opts.OutputPaths, cfg.LogPath())
		opts.ErrorOutputPaths = []string{"stderr", cfg.LogPath()}
	}
	for _, override := range overrides {
		override(&opts)
	}
	return New(opts)
}

// ForComponent tags logger with component and applies that component's
// level from overrides, if any.
func ForComponent(logger *slog.Logger, component string, overrides map[string]string) *slog.Logger {
	logger = NewComponentLogger(logger, component)
	if raw, ok := overrides[strings.ToLower(strings.TrimSpace(component))]; ok {
		logger = WithLevelOverride(logger, parseLevel(raw))
	}
	return logger
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func withFallback(values []string, fallback string) []string {
	if len(values) == 0 {
		return []string{fallback}
	}
	return append([]string(nil), values...)
}
