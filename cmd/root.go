// Package cmd implements the CLI commands for docpipe using Cobra.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/gaurav-prasanna/docpipe/core/meta"
)

var (
	flagConfig  string
	flagVerbose bool

	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "docpipe",
	Short: "docpipe — convert Markdown into paginated and styled documents",
	Long: `docpipe converts Markdown into PDF, DOCX, XLSX, plain text, or structured
JSON, and imports DOCX/HTML documents back into Markdown plus a formatting
sidecar for round trips.

Usage:
  docpipe convert <input.md> [flags]
  docpipe import <input.docx|input.html|url> [flags]`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogger()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file with formatting defaults (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initLogger() error {
	cfg := zap.NewDevelopmentConfig()
	if !flagVerbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	cfg.DisableStacktrace = true
	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	log = l
	return nil
}

// configFormatting loads formatting defaults from the --config file, or
// from a docpipe.yaml in the working directory. A missing config is not an
// error; the zero record just falls through to per-format defaults.
func configFormatting() (meta.Formatting, error) {
	v := viper.New()
	if flagConfig != "" {
		v.SetConfigFile(flagConfig)
	} else {
		v.SetConfigName("docpipe")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if flagConfig == "" && errors.As(err, &notFound) {
			return meta.Formatting{}, nil
		}
		return meta.Formatting{}, fmt.Errorf("reading config: %w", err)
	}

	var f meta.Formatting
	if err := v.Unmarshal(&f, func(dc *mapstructure.DecoderConfig) { dc.TagName = "json" }); err != nil {
		return meta.Formatting{}, fmt.Errorf("decoding config: %w", err)
	}
	log.Debug("loaded formatting config", zap.String("file", v.ConfigFileUsed()))
	return f, nil
}
