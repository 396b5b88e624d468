package testsupport

import (
	"path/filepath"
	"testing"

	"nriassist/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.SocketPath = filepath.Join(base, "nriassist.sock")
	cfgVal.Store.Path = filepath.Join(base, "data", "applications.db")
	cfgVal.API.Bind = "127.0.0.1:0"
	cfgVal.Logging.Level = "error"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithStore enables the SQLite application store.
func WithStore() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Store.Enabled = true
		b.cfg.Store.Seed = true
	}
}

// WithAPIToken requires bearer authentication on the HTTP API.
func WithAPIToken(token string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.API.Token = token
	}
}

// WithBackends points the chat and upload clients at stubbed servers.
func WithBackends(backends *Backends) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Chat.URL = backends.ChatURL()
		b.cfg.Upload.URL = backends.UploadURL()
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.SocketPath)
}
