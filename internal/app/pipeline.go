package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"places_reviews/internal/domain"
	"places_reviews/internal/shared"
)

type Outcome int

const (
	OutcomeExported Outcome = iota
	// OutcomeNoReviews: the fetch succeeded but the place exposes no reviews.
	OutcomeNoReviews
)

type PipelineResult struct {
	Outcome     Outcome
	JSONPath    string
	CSVPath     string
	EmptyReason domain.EmptyReason
}

// PipelineDeps wires the driver. NewClient is only called once credentials resolve.
type PipelineDeps struct {
	Credentials []shared.CredentialProvider
	NewClient   func(apiKey string) (domain.PlacesClient, error)
	Store       domain.ReviewStore
	Exporter    domain.ReviewExporter
	CSVBase     string
	Now         func() time.Time
}

type Pipeline struct {
	providers []shared.CredentialProvider
	newClient func(apiKey string) (domain.PlacesClient, error)
	store     domain.ReviewStore
	exporter  domain.ReviewExporter
	csvBase   string
	now       func() time.Time
}

func NewPipeline(d PipelineDeps) *Pipeline {
	p := &Pipeline{
		providers: d.Credentials,
		newClient: d.NewClient,
		store:     d.Store,
		exporter:  d.Exporter,
		csvBase:   d.CSVBase,
		now:       d.Now,
	}
	if p.csvBase == "" {
		p.csvBase = shared.DefaultOutputCSV
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p
}

// Run collects, then preprocesses the file just written into a timestamped CSV.
// Nothing is retried.
func (p *Pipeline) Run(ctx context.Context) (PipelineResult, error) {
	creds, err := shared.ResolveCredentials(p.providers...)
	if err != nil {
		return PipelineResult{}, err
	}

	client, err := p.newClient(creds.APIKey)
	if err != nil {
		return PipelineResult{}, fmt.Errorf("places client: %w", err)
	}

	collector := NewCollectService(client, p.store, creds.PlaceID).WithClock(p.now)
	jsonPath, fetched, err := collector.CollectAndSave(ctx)
	if err != nil {
		return PipelineResult{}, fmt.Errorf("collect: %w", err)
	}
	if jsonPath == "" {
		log.Warn().Str("reason", string(fetched.EmptyReason)).Msg("place returned no reviews, skipping preprocessing")
		return PipelineResult{Outcome: OutcomeNoReviews, EmptyReason: fetched.EmptyReason}, nil
	}

	csvPath := timestamped(p.csvBase, p.now())
	out, err := NewPreprocessService(p.store, p.exporter).WithClock(p.now).ProcessAll(jsonPath, csvPath)
	if err != nil {
		return PipelineResult{JSONPath: jsonPath}, fmt.Errorf("preprocess: %w", err)
	}
	return PipelineResult{Outcome: OutcomeExported, JSONPath: jsonPath, CSVPath: out}, nil
}

// timestamped turns app_ready_reviews.csv into app_ready_reviews_<YYYYMMDD_HHMMSS>.csv.
func timestamped(base string, t time.Time) string {
	ext := filepath.Ext(base)
	if ext == "" {
		ext = ".csv"
	}
	return strings.TrimSuffix(base, filepath.Ext(base)) + "_" + t.Format("20060102_150405") + ext
}
