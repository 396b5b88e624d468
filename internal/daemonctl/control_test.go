package daemonctl_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"nriassist/internal/api"
	"nriassist/internal/catalog"
	"nriassist/internal/config"
	"nriassist/internal/daemon"
	"nriassist/internal/daemonctl"
	"nriassist/internal/ipc"
	"nriassist/internal/logging"
	"nriassist/internal/testsupport"
	"nriassist/internal/workflow"
)

func startDaemon(t *testing.T, cfg *config.Config) {
	t.Helper()
	logger := logging.NewNop()
	deps, err := daemon.OpenDependencies(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("OpenDependencies: %v", err)
	}
	d, err := daemon.New(cfg, logger, deps)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	srv, err := ipc.NewServer(ctx, cfg.Paths.SocketPath, d, logger)
	if err != nil {
		if strings.Contains(err.Error(), "operation not permitted") {
			t.Skipf("skipping IPC server test: %v", err)
		}
		t.Fatalf("ipc.NewServer: %v", err)
	}
	srv.Serve()
	t.Cleanup(func() { srv.Close() })
}

func TestBuildStatusSnapshotOfflineUsesDemoData(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	snapshot, err := daemonctl.BuildStatusSnapshot(context.Background(), cfg.Paths.SocketPath, cfg)
	if err != nil {
		t.Fatalf("BuildStatusSnapshot: %v", err)
	}
	if snapshot.Daemon.Running {
		t.Fatal("expected daemon to be reported as not running")
	}
	if got := snapshot.StatusCounts[string(catalog.StatusBranchReview)]; got != 2 {
		t.Fatalf("branch review count = %d, want 2", got)
	}
	if snapshot.SystemChecks[0].Severity != "warn" || !strings.Contains(snapshot.SystemChecks[0].Detail, "nriassist start") {
		t.Fatalf("unexpected first system line: %+v", snapshot.SystemChecks[0])
	}
	if len(snapshot.Backends) == 0 {
		t.Fatal("expected offline preflight lines")
	}
}

func TestBuildStatusSnapshotOfflineReadsStore(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStore())
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	app, err := store.Get(ctx, "NRI100890")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if err := store.UpdateStatus(ctx, workflow.Change{
		Application: app,
		Role:        catalog.RoleCompliance,
		From:        catalog.StatusComplianceReview,
		To:          catalog.StatusCompleted,
	}); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	snapshot, err := daemonctl.BuildStatusSnapshot(ctx, cfg.Paths.SocketPath, cfg)
	if err != nil {
		t.Fatalf("BuildStatusSnapshot: %v", err)
	}
	if got := snapshot.StatusCounts[string(catalog.StatusCompleted)]; got != 2 {
		t.Fatalf("completed count = %d, want 2", got)
	}
	if got := snapshot.StatusCounts[string(catalog.StatusComplianceReview)]; got != 0 {
		t.Fatalf("compliance count = %d, want 0", got)
	}
}

func TestBuildStatusSnapshotLive(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	startDaemon(t, cfg)

	snapshot, err := daemonctl.BuildStatusSnapshot(context.Background(), cfg.Paths.SocketPath, cfg)
	if err != nil {
		t.Fatalf("BuildStatusSnapshot: %v", err)
	}
	if !snapshot.Daemon.Running || snapshot.Daemon.PID != os.Getpid() {
		t.Fatalf("unexpected daemon status: %+v", snapshot.Daemon)
	}
	if snapshot.Daemon.Applications != 6 {
		t.Fatalf("applications = %d, want 6", snapshot.Daemon.Applications)
	}
	if got := snapshot.StatusCounts[string(catalog.StatusProcessing)]; got != 2 {
		t.Fatalf("processing count = %d, want 2", got)
	}
	if snapshot.SystemChecks[0].Severity != "ok" {
		t.Fatalf("unexpected first system line: %+v", snapshot.SystemChecks[0])
	}
}

func TestEnsureStartedReportsAlreadyRunning(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	startDaemon(t, cfg)

	result, err := daemonctl.EnsureStarted(cfg.Paths.SocketPath, "", daemonctl.LaunchOptions{}, time.Second)
	if err != nil {
		t.Fatalf("EnsureStarted: %v", err)
	}
	if result.State != daemonctl.StartStateAlreadyRunning || result.Launched {
		t.Fatalf("unexpected start result: %+v", result)
	}
}

func TestLaunchRequiresExecutable(t *testing.T) {
	if err := daemonctl.Launch("  ", daemonctl.LaunchOptions{}); err == nil {
		t.Fatal("expected error for empty executable path")
	}
}

func TestStopAndTerminate(t *testing.T) {
	t.Run("not running", func(t *testing.T) {
		cfg := testsupport.NewConfig(t)
		_, err := daemonctl.StopAndTerminate(cfg.Paths.SocketPath, cfg, time.Second)
		if !errors.Is(err, daemonctl.ErrDaemonNotRunning) {
			t.Fatalf("expected ErrDaemonNotRunning, got %v", err)
		}
	})

	t.Run("refuses own process", func(t *testing.T) {
		cfg := testsupport.NewConfig(t)
		startDaemon(t, cfg)
		_, err := daemonctl.StopAndTerminate(cfg.Paths.SocketPath, cfg, time.Second)
		if err == nil || !strings.Contains(err.Error(), "refusing") {
			t.Fatalf("expected refusal, got %v", err)
		}
	})
}

func TestReadPID(t *testing.T) {
	dir := t.TempDir()

	pid, err := daemonctl.ReadPID(filepath.Join(dir, "missing.pid"))
	if err != nil || pid != 0 {
		t.Fatalf("missing pid file: pid=%d err=%v", pid, err)
	}

	valid := filepath.Join(dir, "valid.pid")
	if err := os.WriteFile(valid, []byte("4242\n"), 0o644); err != nil {
		t.Fatalf("write pid: %v", err)
	}
	if pid, err := daemonctl.ReadPID(valid); err != nil || pid != 4242 {
		t.Fatalf("valid pid file: pid=%d err=%v", pid, err)
	}

	invalid := filepath.Join(dir, "invalid.pid")
	if err := os.WriteFile(invalid, []byte("abc"), 0o644); err != nil {
		t.Fatalf("write pid: %v", err)
	}
	if _, err := daemonctl.ReadPID(invalid); err == nil {
		t.Fatal("expected error for invalid pid")
	}
}

func TestBuildCheckLines(t *testing.T) {
	lines := daemonctl.BuildCheckLines([]api.CheckResult{
		{Name: "Chat backend", Passed: true, Detail: "127.0.0.1:8000 reachable"},
		{Name: "Upload backend", Detail: "connection refused"},
	})
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	if lines[0].Severity != "ok" || lines[1].Severity != "error" {
		t.Fatalf("unexpected severities: %+v", lines)
	}
}

func TestBuildSystemChecksReflectsConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStore())
	cfg.Events.Enabled = true
	cfg.Events.Brokers = []string{"kafka:9092"}

	lines := daemonctl.BuildSystemChecks(cfg, api.DaemonStatus{Running: true, PID: 99, APIBind: "127.0.0.1:7490", Sessions: 3})
	byLabel := make(map[string]daemonctl.StatusLine, len(lines))
	for _, line := range lines {
		byLabel[line.Label] = line
	}
	if byLabel["NRI Assist"].Detail != "Running (pid 99)" {
		t.Fatalf("unexpected daemon line: %+v", byLabel["NRI Assist"])
	}
	if byLabel["Sessions"].Detail != "3 active" {
		t.Fatalf("unexpected sessions line: %+v", byLabel["Sessions"])
	}
	if byLabel["Store"].Detail != cfg.Store.Path {
		t.Fatalf("unexpected store line: %+v", byLabel["Store"])
	}
	if !strings.Contains(byLabel["Events"].Detail, "kafka:9092") {
		t.Fatalf("unexpected events line: %+v", byLabel["Events"])
	}
}
