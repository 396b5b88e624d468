package config

const (
	defaultConfigPath       = "~/.config/nriassist/config.toml"
	projectConfigName       = "nriassist.toml"
	defaultDataDir          = "~/.local/share/nriassist"
	defaultLogDir           = "~/.local/share/nriassist/logs"
	defaultSocketName       = "nriassist.sock"
	defaultStoreName        = "applications.db"
	defaultAPIBind          = "127.0.0.1:7490"
	defaultSearchThreshold  = 0.3
	defaultSearchScorer     = "edit"
	defaultSearchMaxResults = 5
	defaultChatURL          = "http://localhost:8000/api/chat"
	defaultChatTimeout      = 30
	defaultUploadURL        = "http://localhost:8000/api/upload"
	defaultUploadTimeout    = 60
	defaultUploadMaxBytes   = 5 << 20
	defaultEventsTopic      = "nri.application.transitions"
	defaultEventsSource     = "nriassist/workflow"
	defaultSessionIdle      = 30
	defaultSessionSweep     = 60
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

func defaultAllowedExtensions() []string {
	return []string{"pdf", "jpg", "jpeg", "png"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		API: API{
			Bind: defaultAPIBind,
		},
		Store: Store{
			Seed: true,
		},
		Search: Search{
			Threshold:  defaultSearchThreshold,
			Scorer:     defaultSearchScorer,
			MaxResults: defaultSearchMaxResults,
		},
		Chat: Chat{
			URL:            defaultChatURL,
			TimeoutSeconds: defaultChatTimeout,
		},
		Upload: Upload{
			URL:               defaultUploadURL,
			TimeoutSeconds:    defaultUploadTimeout,
			Precheck:          true,
			MaxBytes:          defaultUploadMaxBytes,
			AllowedExtensions: defaultAllowedExtensions(),
			ValidatePDF:       true,
		},
		Events: Events{
			Topic:  defaultEventsTopic,
			Source: defaultEventsSource,
		},
		Sessions: Sessions{
			IdleMinutes:          defaultSessionIdle,
			SweepIntervalSeconds: defaultSessionSweep,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
