package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/ongsearch/internal/domain/search/result"
)

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run one natural-language search against the configured catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			a, err := buildApp(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			res, err := a.search.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}
			if jsonOutput {
				return writeSearchJSON(cmd.OutOrStdout(), &res)
			}
			return writeSearchText(cmd.OutOrStdout(), &res)
		},
	}
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")
	return cmd
}

type searchOutput struct {
	Products        []productOutput `json:"products"`
	Interpretation  map[string]any  `json:"interpretation,omitempty"`
	AIUsed          bool            `json:"ai_used"`
	FallbackApplied bool            `json:"fallback_applied"`
}

type productOutput struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}

func writeSearchJSON(w io.Writer, res *result.Result) error {
	out := searchOutput{
		Products:        make([]productOutput, 0, len(res.Products())),
		AIUsed:          res.AIUsed(),
		FallbackApplied: res.FallbackApplied(),
	}
	for _, p := range res.Products() {
		out.Products = append(out.Products, productOutput{ID: p.ID(), Name: p.Name(), Category: p.Category(), Price: p.Price()})
	}
	if in := res.Interpretation(); in != nil {
		out.Interpretation = map[string]any{"raw": in.Raw}
		if in.Category != nil {
			out.Interpretation["category"] = *in.Category
		}
		if in.PriceMax != nil {
			out.Interpretation["priceMax"] = *in.PriceMax
		}
		if in.PriceMin != nil {
			out.Interpretation["priceMin"] = *in.PriceMin
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeSearchText(w io.Writer, res *result.Result) error {
	header := res.Summary()
	if res.FallbackApplied() {
		header = "busca textual"
	}
	if _, err := fmt.Fprintf(w, "%s (%d products)\n", header, len(res.Products())); err != nil {
		return err
	}
	for _, p := range res.Products() {
		if _, err := fmt.Fprintf(w, "  %-10s %-32s %-12s R$ %.2f\n", p.ID(), p.Name(), p.Category(), p.Price()); err != nil {
			return err
		}
	}
	return nil
}
