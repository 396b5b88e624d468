package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAPI()
	if err := c.normalizeStore(); err != nil {
		return err
	}
	if err := c.normalizeSearch(); err != nil {
		return err
	}
	c.normalizeChat()
	c.normalizeUpload()
	c.normalizeEvents()
	c.normalizeSessions()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(strings.TrimSpace(c.Paths.DataDir)); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = filepath.Join(c.Paths.DataDir, "logs")
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.SocketPath) == "" {
		c.Paths.SocketPath = filepath.Join(c.Paths.DataDir, defaultSocketName)
	}
	if c.Paths.SocketPath, err = expandPath(strings.TrimSpace(c.Paths.SocketPath)); err != nil {
		return fmt.Errorf("paths.socket_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeAPI() {
	c.API.Bind = strings.TrimSpace(c.API.Bind)
	if c.API.Bind == "" {
		c.API.Bind = defaultAPIBind
	}
	c.API.Token = strings.TrimSpace(c.API.Token)
	if c.API.Token == "" {
		if value, ok := os.LookupEnv("NRIASSIST_API_TOKEN"); ok {
			c.API.Token = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizeStore() error {
	var err error
	if strings.TrimSpace(c.Store.Path) == "" {
		c.Store.Path = filepath.Join(c.Paths.DataDir, defaultStoreName)
	}
	if c.Store.Path, err = expandPath(strings.TrimSpace(c.Store.Path)); err != nil {
		return fmt.Errorf("store.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeSearch() error {
	c.Search.Scorer = strings.ToLower(strings.TrimSpace(c.Search.Scorer))
	if c.Search.Scorer == "" {
		c.Search.Scorer = defaultSearchScorer
	}
	if c.Search.MaxResults <= 0 {
		c.Search.MaxResults = defaultSearchMaxResults
	}
	if path := strings.TrimSpace(c.Search.ScriptPath); path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return fmt.Errorf("search.script_path: %w", err)
		}
		c.Search.ScriptPath = expanded
	}
	return nil
}

func (c *Config) normalizeChat() {
	c.Chat.URL = strings.TrimSpace(c.Chat.URL)
	if value, ok := os.LookupEnv("NRIASSIST_CHAT_URL"); ok && strings.TrimSpace(value) != "" {
		c.Chat.URL = strings.TrimSpace(value)
	}
	if c.Chat.URL == "" {
		c.Chat.URL = defaultChatURL
	}
	if c.Chat.TimeoutSeconds <= 0 {
		c.Chat.TimeoutSeconds = defaultChatTimeout
	}
}

func (c *Config) normalizeUpload() {
	c.Upload.URL = strings.TrimSpace(c.Upload.URL)
	if value, ok := os.LookupEnv("NRIASSIST_UPLOAD_URL"); ok && strings.TrimSpace(value) != "" {
		c.Upload.URL = strings.TrimSpace(value)
	}
	if c.Upload.URL == "" {
		c.Upload.URL = defaultUploadURL
	}
	if c.Upload.TimeoutSeconds <= 0 {
		c.Upload.TimeoutSeconds = defaultUploadTimeout
	}
	if c.Upload.MaxBytes <= 0 {
		c.Upload.MaxBytes = defaultUploadMaxBytes
	}
	exts := make([]string, 0, len(c.Upload.AllowedExtensions))
	seen := make(map[string]struct{}, len(c.Upload.AllowedExtensions))
	for _, ext := range c.Upload.AllowedExtensions {
		normalized := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		exts = append(exts, normalized)
	}
	if len(exts) == 0 {
		exts = defaultAllowedExtensions()
	}
	c.Upload.AllowedExtensions = exts
}

func (c *Config) normalizeEvents() {
	if value, ok := os.LookupEnv("NRIASSIST_KAFKA_BROKERS"); ok && strings.TrimSpace(value) != "" && len(c.Events.Brokers) == 0 {
		c.Events.Brokers = strings.Split(value, ",")
	}
	brokers := make([]string, 0, len(c.Events.Brokers))
	for _, broker := range c.Events.Brokers {
		if broker = strings.TrimSpace(broker); broker != "" {
			brokers = append(brokers, broker)
		}
	}
	c.Events.Brokers = brokers
	c.Events.Topic = strings.TrimSpace(c.Events.Topic)
	if c.Events.Topic == "" {
		c.Events.Topic = defaultEventsTopic
	}
	c.Events.Source = strings.TrimSpace(c.Events.Source)
	if c.Events.Source == "" {
		c.Events.Source = defaultEventsSource
	}
}

func (c *Config) normalizeSessions() {
	if c.Sessions.IdleMinutes <= 0 {
		c.Sessions.IdleMinutes = defaultSessionIdle
	}
	if c.Sessions.SweepIntervalSeconds <= 0 {
		c.Sessions.SweepIntervalSeconds = defaultSessionSweep
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if len(c.Logging.ComponentLevels) > 0 {
		levels := make(map[string]string, len(c.Logging.ComponentLevels))
		for component, level := range c.Logging.ComponentLevels {
			component = strings.ToLower(strings.TrimSpace(component))
			level = strings.ToLower(strings.TrimSpace(level))
			if component == "" || level == "" {
				continue
			}
			levels[component] = level
		}
		c.Logging.ComponentLevels = levels
	}
}
