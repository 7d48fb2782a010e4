package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/planavail/config"
	coremon "github.com/kilianp07/planavail/core/monitoring"
	"github.com/kilianp07/planavail/infra/logger"
	"github.com/kilianp07/planavail/infra/monitoring"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:           "planavail",
	Short:         "Schedulable availability service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// loadConfig reads cfgPath. When the file does not exist and the flag was not
// set explicitly, defaults are used so that one-off commands work without a file.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) && !cmd.Flags().Changed("config") {
		return config.Default(), nil
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// setup applies the log level and installs the error monitor.
func setup(cfg *config.Config) error {
	if err := logger.SetLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return fmt.Errorf("sentry: %w", err)
	}
	coremon.Init(mon)
	return nil
}
