package main

import (
	"context"
	"errors"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"places_reviews/internal/adapters/observability"
	"places_reviews/internal/app"
	"places_reviews/internal/shared"
	"places_reviews/internal/storage/csvfile"
	"places_reviews/internal/storage/jsonfile"
)

func main() {
	cfg := shared.Load()
	log.Logger, _ = observability.WithRunID(observability.NewLogger(cfg.AppEnv, cfg.LogLevel))

	cmd := &cobra.Command{
		Use:   "preprocessor [source-file] [output-file]",
		Short: "Clean collected reviews and export the bulk-import CSV",
		Long: `Loads source-file, or every google_reviews_*.json in the output folder when omitted,
cleans the reviews and writes author,location,content,category,rating to output-file
(default app_ready_reviews.csv).`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var specific string
			output := cfg.OutputCSV
			if len(args) > 0 {
				specific = args[0]
			}
			if len(args) > 1 {
				output = args[1]
			}
			return run(cfg, specific, output)
		},
	}

	err := cmd.ExecuteContext(context.Background())
	if mErr := observability.WriteTextfile(cfg.MetricsTextfile); mErr != nil {
		log.Warn().Err(mErr).Msg("metrics not written")
	}
	if err != nil {
		log.Error().Err(err).Msg("preprocessing failed")
		os.Exit(1)
	}
}

func run(cfg shared.Config, specific, output string) error {
	svc := app.NewPreprocessService(jsonfile.New(cfg.OutputFolder), csvfile.New())
	path, err := svc.ProcessAll(specific, output)
	switch {
	case errors.Is(err, app.ErrNoFiles), errors.Is(err, app.ErrNoReviews),
		errors.Is(err, app.ErrNoValidReviews), errors.Is(err, app.ErrNothingToExport):
		log.Warn().Err(err).Msg("nothing exported")
		return nil
	case err != nil:
		return err
	}
	log.Info().Str("file", path).Msg("preprocessing complete")
	return nil
}
