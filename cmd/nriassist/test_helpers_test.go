package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"nriassist/internal/config"
	"nriassist/internal/daemon"
	"nriassist/internal/ipc"
	"nriassist/internal/logging"
	"nriassist/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	socketPath string
	configPath string
}

// setupCLITestEnv points HOME at a temp dir, writes a config file there and
// serves a live daemon on the config's socket for the rest of the test.
func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	home := filepath.Join(testsupport.BaseDir(cfg), "home")
	t.Setenv("HOME", home)
	configPath := filepath.Join(home, ".config", "nriassist", "config.toml")
	writeTestConfig(t, configPath, cfg)

	logger := logging.NewNop()
	deps, err := daemon.OpenDependencies(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("daemon.OpenDependencies: %v", err)
	}
	d, err := daemon.New(cfg, logger, deps)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if err := d.Start(ctx); err != nil {
		t.Fatalf("daemon.Start: %v", err)
	}

	srv, err := ipc.NewServer(ctx, cfg.Paths.SocketPath, d, logger)
	if err != nil {
		if strings.Contains(err.Error(), "operation not permitted") {
			t.Skipf("skipping CLI test: %v", err)
		}
		t.Fatalf("ipc.NewServer: %v", err)
	}
	srv.Serve()
	t.Cleanup(srv.Close)

	return &cliTestEnv{cfg: cfg, socketPath: cfg.Paths.SocketPath, configPath: configPath}
}

// runCLI executes the root command with --socket (and --config when set)
// prepended to args.
func runCLI(t *testing.T, args []string, socket, configPath string) (string, string, error) {
	t.Helper()
	argv := []string{"--socket", socket}
	if configPath != "" {
		argv = append(argv, "--config", configPath)
	}

	var stdout, stderr bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(argv, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	doc := map[string]any{
		"paths": map[string]any{
			"data_dir":    cfg.Paths.DataDir,
			"log_dir":     cfg.Paths.LogDir,
			"socket_path": cfg.Paths.SocketPath,
		},
		"api": map[string]any{"bind": cfg.API.Bind},
		"store": map[string]any{
			"enabled": cfg.Store.Enabled,
			"path":    cfg.Store.Path,
			"seed":    cfg.Store.Seed,
		},
		"logging": map[string]any{"level": cfg.Logging.Level},
	}
	data, err := toml.Marshal(doc)
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireNotContains(t *testing.T, output, substr string) {
	t.Helper()
	if strings.Contains(output, substr) {
		t.Fatalf("expected %q not to contain %q", output, substr)
	}
}
