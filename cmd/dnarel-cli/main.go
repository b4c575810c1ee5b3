package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"dnarelationships/internal/logging"
	"dnarelationships/relationships"
)

type globalOptions struct {
	configPath string
	locale     string
	dataDir    string
	logLevel   string
}

func main() {
	if err := rootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "dnarel:", err)
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:           "dnarel",
		Short:         "Estimate family relationships from shared centimorgans",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to config.yaml (default: ./config.yaml)")
	flags.StringVar(&opts.locale, "locale", "", "Locale for numbers, e.g. en-CA or de-DE (overrides config)")
	flags.StringVar(&opts.dataDir, "data-dir", "", "Directory with ranges.csv, groupings.csv and likelihoods.csv (default: bundled tables)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error (overrides config)")

	root.AddCommand(
		computeCommand(opts),
		batchCommand(opts),
		validateCommand(opts),
		groupsCommand(opts),
		configCommand(opts),
	)
	return root
}

// load resolves configuration (file, env, then flags) and opens a calculator.
func (o *globalOptions) load() (relationships.Config, *relationships.Calculator, *slog.Logger, error) {
	cfg, err := relationships.LoadConfig(o.configPath)
	if err != nil {
		return cfg, nil, nil, fmt.Errorf("load config: %w", err)
	}
	o.override(&cfg)
	logger := logging.New(os.Stderr, cfg.LogLevel)
	calc, err := relationships.Open(cfg, logging.Module(logger, "relationships"))
	if err != nil {
		return cfg, nil, logger, err
	}
	return cfg, calc, logger, nil
}

// override applies the persistent flags on top of cfg.
func (o *globalOptions) override(cfg *relationships.Config) {
	if o.locale != "" {
		cfg.Locale = o.locale
	}
	if o.dataDir != "" {
		cfg.DataDir = o.dataDir
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
}
