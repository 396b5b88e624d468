package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and socket configuration.
type Paths struct {
	DataDir    string `toml:"data_dir"`
	LogDir     string `toml:"log_dir"`
	SocketPath string `toml:"socket_path"`
}

// API contains the HTTP API listener settings.
type API struct {
	Bind  string `toml:"bind"`
	Token string `toml:"token"`
}

// Store contains configuration for the persisted application store.
type Store struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
	Seed    bool   `toml:"seed"`
}

// Search contains configuration for the assistant's fuzzy index.
type Search struct {
	Threshold  float64 `toml:"threshold"`
	Scorer     string  `toml:"scorer"`
	MaxResults int     `toml:"max_results"`
	ScriptPath string  `toml:"script_path"`
}

// Chat contains configuration for the remote chat backend.
type Chat struct {
	URL            string `toml:"url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Upload contains configuration for the remote upload backend and the local
// precheck.
type Upload struct {
	URL               string   `toml:"url"`
	TimeoutSeconds    int      `toml:"timeout_seconds"`
	Precheck          bool     `toml:"precheck"`
	MaxBytes          int64    `toml:"max_bytes"`
	AllowedExtensions []string `toml:"allowed_extensions"`
	ValidatePDF       bool     `toml:"validate_pdf"`
}

// Events contains configuration for transition event publishing.
type Events struct {
	Enabled bool     `toml:"enabled"`
	Brokers []string `toml:"brokers"`
	Topic   string   `toml:"topic"`
	Source  string   `toml:"source"`
}

// Sessions contains configuration for assistant session housekeeping.
type Sessions struct {
	IdleMinutes          int `toml:"idle_minutes"`
	SweepIntervalSeconds int `toml:"sweep_interval_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format          string            `toml:"format"`
	Level           string            `toml:"level"`
	ComponentLevels map[string]string `toml:"component_levels"`
}

// Config encapsulates all configuration values for NRI Assist.
//
// Configuration sections by subsystem:
//   - Paths: state, log, and IPC socket locations
//   - API: HTTP bind address and bearer token
//   - Store: SQLite application store
//   - Search: threshold, scorer, result cap, and guide override
//   - Chat / Upload: remote backends used by assistant sessions
//   - Events: Kafka transition events
//   - Sessions: idle expiry of assistant sessions
//   - Logging: log format, level, and per-component overrides
type Config struct {
	Paths    Paths    `toml:"paths"`
	API      API      `toml:"api"`
	Store    Store    `toml:"store"`
	Search   Search   `toml:"search"`
	Chat     Chat     `toml:"chat"`
	Upload   Upload   `toml:"upload"`
	Events   Events   `toml:"events"`
	Sessions Sessions `toml:"sessions"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the expanded ~/.config/nriassist/config.toml.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// DefaultSocketPath is the socket used when neither a flag nor a config
// file names one.
func DefaultSocketPath() string {
	dataDir, err := expandPath(defaultDataDir)
	if err != nil {
		return filepath.Join(os.TempDir(), defaultSocketName)
	}
	return filepath.Join(dataDir, defaultSocketName)
}

// Load reads the config file at path, or searches the default locations
// when path is empty, then applies environment fallbacks, normalizes and
// validates. It returns the config, the file it resolved to and whether that
// file existed. A missing file yields the defaults.
func Load(path string) (*Config, string, bool, error) {
	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}
	cfg := Default()
	if exists {
		if err := decodeFile(resolved, &cfg); err != nil {
			return nil, "", false, err
		}
	}
	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

// decodeFile overlays the TOML at path onto cfg. Unknown keys are errors so
// a misspelled setting does not silently fall back to its default.
func decodeFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	dec := toml.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// resolveConfigPath expands an explicit path as-is. Without one it tries the
// user config, then nriassist.toml in the working directory, and reports
// the user config as missing when neither exists.
func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		exists, err := isFile(expanded)
		if err != nil {
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, exists, nil
	}

	userPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}
	for _, candidate := range []string{userPath, projectPath} {
		if ok, _ := isFile(candidate); ok {
			return candidate, true, nil
		}
	}
	return userPath, false, nil
}

func isFile(path string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}

// EnsureDirectories creates the data, log and socket directories, plus the
// store directory when the store is enabled.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.DataDir, c.Paths.LogDir, filepath.Dir(c.Paths.SocketPath)}
	if c.Store.Enabled {
		dirs = append(dirs, filepath.Dir(c.Store.Path))
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// LockPath is the daemon's single-instance lock file.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "nriassistd.lock")
}

// LogPath is the daemon's log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.Paths.LogDir, "nriassistd.log")
}

// ExpandPath resolves a leading "~" to the home directory and returns an
// absolute, cleaned path. The empty string is returned unchanged.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func expandPath(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		p = filepath.Join(home, strings.TrimPrefix(p[1:], "/"))
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", p, err)
	}
	return abs, nil
}

// CreateSample writes the commented sample configuration to path.
func CreateSample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
