package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"nriassist/internal/config"
	"nriassist/internal/ipc"
)

// globalFlags holds the persistent flags shared by every subcommand.
type globalFlags struct {
	socket   string
	config   string
	logLevel string
}

// commandContext resolves configuration lazily so commands that never touch
// it (config init) do not fail on a broken file.
type commandContext struct {
	flags *globalFlags

	load   sync.Once
	cfg    *config.Config
	cfgErr error
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.load.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err == nil {
			if socket := c.socketOverride(); socket != "" {
				cfg.Paths.SocketPath = socket
			}
			err = cfg.EnsureDirectories()
		}
		if err != nil {
			c.cfgErr = err
			return
		}
		c.cfg = cfg
	})
	return c.cfg, c.cfgErr
}

// configValue returns the loaded config or nil when loading failed.
func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) configPath() string     { return strings.TrimSpace(c.flags.config) }
func (c *commandContext) socketOverride() string { return strings.TrimSpace(c.flags.socket) }
func (c *commandContext) logLevel() string       { return strings.TrimSpace(c.flags.logLevel) }

// socketPath prefers --socket, then the config, then the built-in default.
func (c *commandContext) socketPath() string {
	if socket := c.socketOverride(); socket != "" {
		return socket
	}
	if cfg := c.configValue(); cfg != nil {
		return cfg.Paths.SocketPath
	}
	return config.DefaultSocketPath()
}

// withClient dials the daemon, runs fn and closes the connection.
func (c *commandContext) withClient(fn func(*ipc.Client) error) error {
	socket := c.socketPath()
	client, err := ipc.Dial(socket)
	if err != nil {
		return describeDialError(err, socket)
	}
	defer client.Close()
	return fn(client)
}

func describeDialError(err error, socket string) error {
	if errors.Is(err, syscall.ENOENT) || errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("connect to daemon: no socket at %s; run `nriassist start` first", socket)
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return fmt.Errorf("connect to daemon: %s refused the connection; is the daemon still running?", socket)
	}
	return fmt.Errorf("connect to daemon: %w", err)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
