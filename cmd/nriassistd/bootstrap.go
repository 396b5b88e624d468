package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"nriassist/internal/config"
	"nriassist/internal/daemonrun"
)

type daemonFlags struct {
	configPath  string
	socketPath  string
	logLevel    string
	development bool
}

func newRootCommand() *cobra.Command {
	var flags daemonFlags

	cmd := &cobra.Command{
		Use:           "nriassistd",
		Short:         "Run the NRI Assist daemon in the foreground",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			return daemonrun.Run(cmd.Context(), cfg, daemonrun.Options{
				LogLevel:    strings.TrimSpace(flags.logLevel),
				Development: flags.development,
			})
		},
	}

	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "Configuration file path")
	cmd.Flags().StringVar(&flags.socketPath, "socket", "", "Override paths.socket_path")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "", "Override logging.level (debug, info, warn, error)")
	cmd.Flags().BoolVar(&flags.development, "development", false, "Include source locations in log output")
	return cmd
}

func loadConfig(flags daemonFlags) (*config.Config, error) {
	cfg, _, _, err := config.Load(strings.TrimSpace(flags.configPath))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if socket := strings.TrimSpace(flags.socketPath); socket != "" {
		cfg.Paths.SocketPath = socket
	}
	return cfg, nil
}
