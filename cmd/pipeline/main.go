package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"places_reviews/internal/adapters/observability"
	"places_reviews/internal/adapters/places"
	"places_reviews/internal/app"
	"places_reviews/internal/domain"
	"places_reviews/internal/shared"
	"places_reviews/internal/storage/csvfile"
	"places_reviews/internal/storage/jsonfile"
)

func main() {
	cfg := shared.Load()
	log.Logger, _ = observability.WithRunID(observability.NewLogger(cfg.AppEnv, cfg.LogLevel))

	cmd := &cobra.Command{
		Use:           "pipeline",
		Short:         "Collect reviews and export the bulk-import CSV in one run",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cfg)
		},
	}

	err := cmd.ExecuteContext(context.Background())
	if mErr := observability.WriteTextfile(cfg.MetricsTextfile); mErr != nil {
		log.Warn().Err(mErr).Msg("metrics not written")
	}
	if err != nil {
		log.Error().Err(err).Msg("pipeline failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg shared.Config) error {
	p := app.NewPipeline(app.PipelineDeps{
		Credentials: []shared.CredentialProvider{
			shared.FileProvider{Path: cfg.ConfigFile},
			shared.EnvProvider{},
		},
		NewClient: func(apiKey string) (domain.PlacesClient, error) {
			return places.New(cfg.PlacesBase, apiKey, cfg.PlacesTimeout)
		},
		Store:    jsonfile.New(cfg.OutputFolder),
		Exporter: csvfile.New(),
		CSVBase:  cfg.OutputCSV,
	})

	res, err := p.Run(ctx)
	if errors.Is(err, shared.ErrMissingCredentials) {
		fmt.Fprintln(os.Stderr, shared.Remediation)
		return err
	}
	if err != nil {
		return err
	}

	switch res.Outcome {
	case app.OutcomeNoReviews:
		log.Warn().Str("reason", string(res.EmptyReason)).Msg("pipeline finished without reviews to export")
	case app.OutcomeExported:
		log.Info().
			Str("json", res.JSONPath).
			Str("csv", res.CSVPath).
			Msg("pipeline complete, upload the CSV via the app's Bulk Import (CSV mode)")
	}
	return nil
}
