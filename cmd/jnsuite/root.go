package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/javanetict/jnsuite/internal/cli"
	"github.com/javanetict/jnsuite/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jnsuite",
	Short: "JavaNet edTech Suite sales assistant",
	Long: `jnsuite runs the JavaNet sales assistant: a rule-based conversation engine
with the API, proposal and account services around it.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", config.Path(), "Path to the YAML settings file")
	rootCmd.PersistentFlags().String("log-level", "", "Override the configured log level (debug, info, warn, error)")
}

// loadConfig reads the settings file named by --config and applies flag
// overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Log.Level = level
	}
	return cfg, nil
}

// bootstrap loads settings, builds the logger and wires the application.
// The returned func releases everything.
func bootstrap(cmd *cobra.Command) (*cli.App, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	logger, closeLog, err := cli.NewLogger(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(logger)

	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		_ = closeLog()
		return nil, nil, err
	}
	cleanup := func() {
		if err := app.Close(); err != nil {
			logger.Warn("shutdown incomplete", "err", err)
		}
		_ = closeLog()
	}
	return app, cleanup, nil
}
