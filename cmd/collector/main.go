package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"places_reviews/internal/adapters/observability"
	"places_reviews/internal/adapters/places"
	"places_reviews/internal/app"
	"places_reviews/internal/shared"
	"places_reviews/internal/storage/jsonfile"
)

func main() {
	cfg := shared.Load()

	// global logger (console in dev, JSON otherwise), tagged with a run id
	log.Logger, _ = observability.WithRunID(observability.NewLogger(cfg.AppEnv, cfg.LogLevel))

	cmd := &cobra.Command{
		Use:           "collector",
		Short:         "Fetch the reviews of one place and save them as JSON",
		Long:          "Reads GOOGLE_PLACES_API_KEY and GOOGLE_PLACE_ID from the environment,\ncalls the place-details endpoint once and writes collected_reviews/google_reviews_<stamp>.json.",
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
		log.Error().Err(err).Msg("collector failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg shared.Config) error {
	creds, err := shared.ResolveCredentials(shared.EnvProvider{})
	if err != nil {
		fmt.Fprintln(os.Stderr, shared.Remediation)
		return err
	}

	client, err := places.New(cfg.PlacesBase, creds.APIKey, cfg.PlacesTimeout)
	if err != nil {
		return err
	}

	svc := app.NewCollectService(client, jsonfile.New(cfg.OutputFolder), creds.PlaceID)
	path, res, err := svc.CollectAndSave(ctx)
	if err != nil {
		// already reported; a failed fetch is not a process failure
		log.Warn().Str("outcome", res.Outcome.String()).Msg("nothing saved")
		return nil
	}
	if path == "" {
		log.Info().Str("outcome", res.Outcome.String()).Msg("nothing saved")
	}
	return nil
}
