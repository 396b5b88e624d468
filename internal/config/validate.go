package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

var (
	validScorers   = []string{"edit", "subsequence", "fuzzy", "token", "tokens"}
	validLogLevels = []string{"debug", "info", "warn", "error"}
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateSearch(); err != nil {
		return err
	}
	if err := c.validateBackends(); err != nil {
		return err
	}
	if err := c.validateEvents(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAPI() error {
	if _, _, err := net.SplitHostPort(c.API.Bind); err != nil {
		return fmt.Errorf("api.bind must be host:port: %w", err)
	}
	return nil
}

func (c *Config) validateSearch() error {
	if c.Search.Threshold <= 0 || c.Search.Threshold > 1 {
		return errors.New("search.threshold must be greater than 0 and at most 1")
	}
	if !contains(validScorers, c.Search.Scorer) {
		return fmt.Errorf("search.scorer must be one of edit, subsequence, token (got %q)", c.Search.Scorer)
	}
	return nil
}

func (c *Config) validateBackends() error {
	if err := validateHTTPURL("chat.url", c.Chat.URL); err != nil {
		return err
	}
	if err := validateHTTPURL("upload.url", c.Upload.URL); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateEvents() error {
	if !c.Events.Enabled {
		return nil
	}
	if len(c.Events.Brokers) == 0 {
		return errors.New("events.brokers must list at least one broker when events are enabled (or set NRIASSIST_KAFKA_BROKERS)")
	}
	for _, broker := range c.Events.Brokers {
		if _, _, err := net.SplitHostPort(broker); err != nil {
			return fmt.Errorf("events.brokers entry %q must be host:port", broker)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	if !contains(validLogLevels, c.Logging.Level) {
		return fmt.Errorf("logging.level must be one of %s (got %q)", strings.Join(validLogLevels, ", "), c.Logging.Level)
	}
	for component, level := range c.Logging.ComponentLevels {
		if !contains(validLogLevels, level) {
			return fmt.Errorf("logging.component_levels.%s must be one of %s (got %q)", component, strings.Join(validLogLevels, ", "), level)
		}
	}
	return nil
}

func validateHTTPURL(key, value string) error {
	parsed, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must use http or https (got %q)", key, value)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s must include a host", key)
	}
	return nil
}

func contains(values []string, candidate string) bool {
	for _, v := range values {
		if v == candidate {
			return true
		}
	}
	return false
}
