package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"CryptoAdvisor/internal/metrics"
	"CryptoAdvisor/internal/narrative"
	"CryptoAdvisor/internal/report"
	"CryptoAdvisor/internal/strategy"
)

func newRankCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank the current market under one strategy",
		Long: `Fetch the current market batch and print the top recommendations.
Example: advisor rank --strategy swing-trading --offline`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, _ := cmd.Flags().GetString("strategy")
			offline, _ := cmd.Flags().GetBool("offline")
			asJSON, _ := cmd.Flags().GetBool("json")
			explain, _ := cmd.Flags().GetBool("explain")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log := newLogger(cfg, os.Stderr)
			ctx := cmd.Context()

			engine := strategy.NewEngine(nil)
			p, err := engine.Catalog().Get(id)
			if err != nil {
				return err
			}

			m := metrics.New()
			batch := newCollector(ctx, cfg, m, log, offline).Collect(ctx)
			recs := strategy.RankProfile(batch.Snapshots, p)

			var text string
			if explain {
				text, err = newNarrator(ctx, cfg, m, log).Generate(ctx, narrative.Request{
					Strategy:        p,
					Assets:          strategy.Indicators(batch.Snapshots),
					Recommendations: recs,
				})
				if err != nil {
					log.Warn().Err(err).Msg("narrative unavailable")
				}
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{
					"strategy":        p.ID,
					"source":          batch.Source,
					"fetched_at":      batch.FetchedAt,
					"recommendations": recs,
					"analysis":        text,
				})
			}
			fmt.Fprint(out, report.FormatRanking(p, batch.Source, recs, time.Now()))
			if text != "" {
				fmt.Fprintln(out)
				fmt.Fprint(out, report.FormatNarrative(text))
			}
			return nil
		},
	}

	cmd.Flags().String("strategy", "wealth-building", "Strategy id")
	cmd.Flags().Bool("offline", false, "Skip the network and use the built-in dataset")
	cmd.Flags().Bool("json", false, "Print JSON instead of a table")
	cmd.Flags().Bool("explain", false, "Append a narrative analysis")
	return cmd
}

func newStrategiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "strategies",
		Short: "List the available strategies",
		RunE: func(cmd *cobra.Command, _ []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			profiles := strategy.Default().List()
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(profiles)
			}
			fmt.Fprint(out, report.FormatStrategies(profiles))
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Print JSON")
	return cmd
}
