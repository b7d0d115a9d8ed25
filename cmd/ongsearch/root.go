package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ongsearch/internal/config"
	logpkg "github.com/kailas-cloud/ongsearch/internal/logger"
	"github.com/kailas-cloud/ongsearch/internal/version"
)

// rootOptions are shared by every subcommand.
type rootOptions struct {
	env    string
	source string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "ongsearch",
		Short:         "NGO product catalog with natural-language search",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.String(),
	}
	rootCmd.PersistentFlags().StringVar(&opts.env, "env", config.GetEnv(), "Config environment (config/<env>.yaml)")
	rootCmd.PersistentFlags().StringVar(&opts.source, "source", "", "Override catalog.source (memory, redis, valkey, sqlite, remote)")

	rootCmd.AddCommand(newServeCmd(opts))
	rootCmd.AddCommand(newSearchCmd(opts))
	rootCmd.AddCommand(newSeedCmd(opts))
	return rootCmd
}

// load reads the config for opts.env and builds the process logger.
func (o *rootOptions) load() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(o.env)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}
	if o.source != "" {
		cfg.Catalog.Source = o.source
		cfg.ApplyDefaults()
		if err := cfg.Validate(); err != nil {
			return config.Config{}, nil, fmt.Errorf("invalid config: %w", err)
		}
	}

	logger, err := logpkg.NewLogger(o.env, cfg.Logging.Level)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("create logger: %w", err)
	}
	return cfg, logger, nil
}
