package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"doccheck/internal/config"
	"doccheck/internal/handlers"
	"doccheck/internal/logger"
)

var (
	cfgFile      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "doccheck",
	Short: "Passport and translated document verification",
	Long: `doccheck reads a student's passport and the translated copy of their
documents, extracts the identity fields from both and reports which of
them agree.

It runs as an HTTP service (doccheck serve) or against local image files
(doccheck extract, doccheck check).`,
	Version:      handlers.Version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.doccheck/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)
}

// setup loads the configuration and the logger every command shares.
func setup() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, fmt.Errorf("configure logger: %w", err)
	}
	return cfg, log, nil
}
