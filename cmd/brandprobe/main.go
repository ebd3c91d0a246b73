// Command brandprobe investigates who is really behind a consumer brand.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/brandprobe/brandprobe/internal/analysis"
	"github.com/brandprobe/brandprobe/internal/config"
	"github.com/brandprobe/brandprobe/internal/investigation"
	"github.com/brandprobe/brandprobe/internal/profile"
	"github.com/brandprobe/brandprobe/internal/report"
	"github.com/brandprobe/brandprobe/internal/scrape"
	"github.com/brandprobe/brandprobe/internal/search"
	"github.com/brandprobe/brandprobe/pkg/redact"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "brandprobe: %s\n", redact.Secrets(err.Error()))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "brandprobe",
		Short:         "Investigate who is really behind a consumer brand",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newInvestigateCmd())
	root.AddCommand(newStagesCmd())
	return root
}

func newInvestigateCmd() *cobra.Command {
	var (
		configPath string
		brand      string
		category   string
		format     string
	)

	cmd := &cobra.Command{
		Use:   "investigate",
		Short: "Run the full investigation pipeline for one brand",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			log, err := newLogger(cfg.Logging)
			if err != nil {
				return err
			}
			defer func() {
				_ = log.Sync()
			}()

			creds := cfg.CoreCredentials()
			if err := creds.Validate(); err != nil {
				return err
			}

			analyzer, err := analysis.New(cmd.Context(), analysis.Config{
				APIKey:  creds.Analysis,
				Model:   cfg.Analysis.Model,
				BaseURL: cfg.Analysis.BaseURL,
			}, log.Named("analysis"))
			if err != nil {
				return err
			}

			opts := []investigation.Option{
				investigation.WithLogger(log.Named("pipeline")),
				investigation.WithProgress(func(step int, message string) {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "[%d/7] %s\n", step, message)
				}),
			}
			if creds.Scrape != "" {
				opts = append(opts, investigation.WithScraper(
					scrape.New(creds.Scrape, cfg.Options.ScrapeBaseURL, log.Named("scrape")),
				))
			}
			if creds.Profile != "" {
				opts = append(opts,
					investigation.WithProfileClient(profile.New(creds.Profile, cfg.Options.ProfileBaseURL)),
					investigation.WithProfileRate(cfg.Options.ProfileRateRPS),
				)
			}

			orch := investigation.New(
				search.New(creds.Search, cfg.Options.SearchBaseURL),
				analyzer,
				opts...,
			)

			agg, err := orch.Run(cmd.Context(), brand, category)
			if err != nil {
				return fmt.Errorf("%s: %w", investigation.KindOf(err), err)
			}

			if format == "json" {
				return report.WriteJSON(cmd.OutOrStdout(), agg)
			}
			return report.WriteText(cmd.OutOrStdout(), agg)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to YAML config (env: BRANDPROBE_CONFIG)")
	cmd.Flags().StringVar(&brand, "brand", "", "Brand name to investigate (required)")
	cmd.Flags().StringVar(&category, "category", "", "Product category (defaults to \"products\")")
	cmd.Flags().StringVar(&format, "format", "text", "Report format: text or json")
	_ = cmd.MarkFlagRequired("brand")
	return cmd
}

func newStagesCmd() *cobra.Command {
	var (
		brand    string
		category string
	)

	cmd := &cobra.Command{
		Use:   "stages",
		Short: "Print the derived stage queries without calling any service",
		RunE: func(cmd *cobra.Command, args []string) error {
			if brand == "" {
				return fmt.Errorf("--brand is required")
			}
			if category == "" {
				category = investigation.DefaultCategory
			}
			for _, stage := range investigation.DeriveStages(brand, category) {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d. %-14s %s\n   %s\n", stage.Priority, stage.ID, stage.Title, stage.Query)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&brand, "brand", "", "Brand name")
	cmd.Flags().StringVar(&category, "category", "", "Product category")
	return cmd
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	zc := zap.NewProductionConfig()
	if !cfg.JSON {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = level
	return zc.Build()
}
