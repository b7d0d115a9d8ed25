package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ongsearch/internal/config"
	"github.com/kailas-cloud/ongsearch/internal/domain"
	"github.com/kailas-cloud/ongsearch/internal/repository/memcatalog"
)

func newSeedCmd(opts *rootOptions) *cobra.Command {
	var (
		overwrite  bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Copy the built-in demo catalog into the configured store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			switch cfg.Catalog.Source {
			case config.SourceMemory:
				return fmt.Errorf("catalog.source %q is already the demo catalog", cfg.Catalog.Source)
			case config.SourceRemote:
				return fmt.Errorf("seed %s: %w", cfg.Catalog.Source, domain.ErrReadOnlyCatalog)
			}

			products, err := memcatalog.Seed()
			if err != nil {
				return fmt.Errorf("load demo catalog: %w", err)
			}

			a, err := buildApp(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			created, existing, err := seedInto(cmd.Context(), a.source, products, overwrite)
			if err != nil {
				return err
			}
			logger.Info("Catalog seeded",
				zap.String("source", cfg.Catalog.Source),
				zap.Int("created", created),
				zap.Int("existing", existing),
			)

			if jsonOutput {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]int{"created": created, "existing": existing})
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "seeded %d new products (%d already present)\n", created, existing)
			return err
		},
	}
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace products that already exist")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")
	return cmd
}
