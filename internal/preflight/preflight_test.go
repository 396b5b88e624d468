package preflight

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nriassist/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckEndpoint_Reachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	defer srv.Close()

	result := CheckEndpoint(context.Background(), "Chat backend", srv.URL+"/api/chat")
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
}

func TestCheckEndpoint_Unreachable(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := listener.Addr().String()
	listener.Close()

	result := CheckEndpoint(context.Background(), "Upload backend", "http://"+addr+"/api/upload")
	if result.Passed {
		t.Fatal("expected failure for closed port")
	}
	if !strings.Contains(result.Detail, "unreachable") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckEndpoint_InvalidURL(t *testing.T) {
	for _, raw := range []string{"", "not a url", "/relative"} {
		if result := CheckEndpoint(context.Background(), "x", raw); result.Passed {
			t.Fatalf("expected failure for %q", raw)
		}
	}
}

func TestEndpointAddressDefaultsPort(t *testing.T) {
	tests := map[string]string{
		"http://example.com/api":     "example.com:80",
		"https://example.com/api":    "example.com:443",
		"http://localhost:8000/chat": "localhost:8000",
	}
	for raw, want := range tests {
		got, err := endpointAddress(raw)
		if err != nil || got != want {
			t.Fatalf("endpointAddress(%q) = %q, %v; want %q", raw, got, err, want)
		}
	}
}

func TestCheckKafka_NoBrokers(t *testing.T) {
	if result := CheckKafka(context.Background(), nil); result.Passed {
		t.Fatal("expected failure without brokers")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_DefaultChecks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Paths.DataDir = t.TempDir()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Chat.URL = srv.URL + "/api/chat"
	cfg.Upload.URL = srv.URL + "/api/upload"

	results := RunAll(context.Background(), &cfg)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("unexpected failures: %+v", failed)
	}
}

func TestRunAll_IncludesOptionalChecks(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.DataDir = t.TempDir()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Store.Enabled = true
	cfg.Store.Path = filepath.Join(cfg.Paths.DataDir, "applications.db")
	cfg.Events.Enabled = true

	names := map[string]bool{}
	for _, r := range RunAll(context.Background(), &cfg) {
		names[r.Name] = true
	}
	if !names["Store directory"] || !names["Kafka"] {
		t.Fatalf("optional checks missing: %v", names)
	}
}
