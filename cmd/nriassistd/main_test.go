package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigAppliesSocketOverride(t *testing.T) {
	base := t.TempDir()
	configPath := filepath.Join(base, "config.toml")
	content := "[paths]\ndata_dir = \"" + filepath.Join(base, "data") + "\"\nlog_dir = \"" + filepath.Join(base, "logs") + "\"\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	socket := filepath.Join(base, "custom.sock")
	cfg, err := loadConfig(daemonFlags{configPath: configPath, socketPath: socket})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Paths.SocketPath != socket {
		t.Fatalf("socket = %q, want %q", cfg.Paths.SocketPath, socket)
	}
	if cfg.Paths.DataDir != filepath.Join(base, "data") {
		t.Fatalf("data dir = %q", cfg.Paths.DataDir)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("optical_drive = \"/dev/sr0\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := loadConfig(daemonFlags{configPath: configPath})
	if err == nil || !strings.Contains(err.Error(), "load config") {
		t.Fatalf("expected load error, got %v", err)
	}
}

func TestRootCommandRejectsArgs(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{"extra"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected positional arguments to be rejected")
	}
}
