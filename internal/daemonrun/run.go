package daemonrun

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"nriassist/internal/config"
	"nriassist/internal/daemon"
	"nriassist/internal/ipc"
	"nriassist/internal/logging"
	"nriassist/internal/preflight"
)

// PIDFileName is written to the data directory while the daemon runs.
const PIDFileName = "nriassistd.pid"

// Options configures daemon process runtime behavior.
type Options struct {
	LogLevel    string
	Development bool
}

// PIDPath returns the pid file location for cfg.
func PIDPath(cfg *config.Config) string {
	return filepath.Join(cfg.Paths.DataDir, PIDFileName)
}

// Run starts the nriassist daemon runtime loop and blocks until a signal
// arrives or cmdCtx is cancelled.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}

	logger, err := logging.NewFromConfig(cfg,
		logging.WithLevel(opts.LogLevel),
		logging.WithDevelopment(opts.Development),
	)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	pidPath := PIDPath(cfg)
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	checks := runPreflight(signalCtx, cfg, logger)

	deps, err := daemon.OpenDependencies(signalCtx, cfg, logger)
	if err != nil {
		logger.Error("open daemon dependencies", logging.Error(err))
		return err
	}
	d, err := daemon.New(cfg, logger, deps)
	if err != nil {
		_ = deps.Publisher.Close()
		if deps.Store != nil {
			_ = deps.Store.Close()
		}
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()
	d.SetChecks(checks)

	ipcServer, err := ipc.NewServer(signalCtx, cfg.Paths.SocketPath, d, logger)
	if err != nil {
		return fmt.Errorf("start IPC server: %w", err)
	}
	defer ipcServer.Close()
	ipcServer.Serve()

	logger.Info("nriassist daemon listening",
		logging.String(logging.FieldEventType, "daemon_listening"),
		logging.String("socket", cfg.Paths.SocketPath),
		logging.String("api_bind", cfg.API.Bind),
		logging.String("log_path", cfg.LogPath()),
	)

	if err := d.Run(signalCtx); err != nil {
		logging.ErrorWithContext(logger, "daemon run failed", "daemon_run_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the api bind address and lock file"),
		)
		return err
	}
	logger.Info("nriassist daemon shutting down")
	return nil
}

func runPreflight(ctx context.Context, cfg *config.Config, logger *slog.Logger) []preflight.Result {
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	results := preflight.RunAll(checkCtx, cfg)
	for _, failed := range preflight.Failed(results) {
		logging.WarnWithContext(logger, "preflight check failed", "preflight_failed",
			logging.String("check", failed.Name),
			logging.String("detail", failed.Detail),
			logging.String(logging.FieldImpact, "dependent features may be unavailable"),
		)
	}
	return results
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}
