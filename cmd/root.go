// Package cmd is the mentora command tree.
//
// Every command loads configuration the same way: defaults, then an
// optional YAML file, then MENTORA_* environment variables, then the
// persistent flags. User-facing output goes through the i18n catalog;
// logs go to stderr so stdout stays pipeable.
package cmd

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/spf13/cobra"

	"github.com/mentora-app/mentora/internal/config"
	"github.com/mentora-app/mentora/internal/i18n"
	"github.com/mentora-app/mentora/internal/log"
)

var (
	configPath string
	logLevel   string
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:           "mentora",
	Short:         short("cli.root.short"),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text or json")
}

// Execute runs the command tree and returns the resulting error.
func Execute() error {
	return rootCmd.Execute()
}

var langOnce sync.Once

// short resolves localized help text. Command variables initialize
// before any flag or config parsing, so the language comes from the
// environment here and config.Load picks the same variable up later.
func short(key string) string {
	langOnce.Do(func() { i18n.Init("") })
	return i18n.T(i18n.Default(), key)
}

// loadConfig builds the configuration and logger every command shares.
// Flags win over the file and the environment.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	i18n.Init(cfg.Language)
	return cfg, log.New(cfg.Log.Level, cfg.Log.Format), nil
}
