package app

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"places_reviews/internal/adapters/observability"
	"places_reviews/internal/domain"
)

var (
	ErrNoFiles         = errors.New("no collector JSON files found")
	ErrNoReviews       = errors.New("no reviews to process")
	ErrNoValidReviews  = errors.New("extraction yielded no valid reviews")
	ErrNothingToExport = domain.ErrNothingToExport
)

type PreprocessService struct {
	store    domain.ReviewStore
	exporter domain.ReviewExporter
	now      func() time.Time
}

func NewPreprocessService(s domain.ReviewStore, e domain.ReviewExporter) *PreprocessService {
	return &PreprocessService{store: s, exporter: e, now: time.Now}
}

func (s *PreprocessService) WithClock(now func() time.Time) *PreprocessService {
	s.now = now
	return s
}

// LoadAll concatenates the records of specific, or of every collector file when
// specific is empty. Files that cannot be read or decoded are skipped.
func (s *PreprocessService) LoadAll(specific string) ([]domain.RawReview, error) {
	files, err := s.store.Find(specific)
	if err != nil {
		return nil, fmt.Errorf("find collector files: %w", err)
	}
	if len(files) == 0 {
		log.Warn().Str("pattern", "google_reviews_*.json").Msg("no collector JSON files found")
		return nil, ErrNoFiles
	}
	log.Info().Int("files", len(files)).Msg("found collector JSON files")

	var all []domain.RawReview
	for _, f := range files {
		rs, err := s.store.Load(f)
		if err != nil {
			observability.ObserveFile("skipped")
			log.Warn().Err(err).Str("file", f).Msg("skipping file")
			continue
		}
		observability.ObserveFile("ok")
		log.Info().Int("reviews", len(rs)).Str("file", filepath.Base(f)).Msg("loaded reviews")
		all = append(all, rs...)
	}
	return all, nil
}

// Extract formats dates, trims text and resolves locations. Records whose trimmed
// text is shorter than 5 characters are dropped.
func (s *PreprocessService) Extract(raw []domain.RawReview) []domain.CandidateReview {
	now := s.now()
	out := make([]domain.CandidateReview, 0, len(raw))
	for _, r := range raw {
		if c, ok := extractReview(r, now); ok {
			out = append(out, c)
		}
	}
	return out
}

// Export writes the cleaned batch and returns the path written.
func (s *PreprocessService) Export(path string, cleaned []domain.CleanedReview) (string, error) {
	if err := s.exporter.Export(path, cleaned); err != nil {
		if errors.Is(err, ErrNothingToExport) {
			log.Warn().Msg("no data to export")
			return "", err
		}
		return "", fmt.Errorf("export %s: %w", path, err)
	}
	observability.ObserveExport(len(cleaned))
	log.Info().
		Int("reviews", len(cleaned)).
		Str("file", path).
		Str("format", "author,location,content,category,rating").
		Msg("exported reviews, ready for bulk import")
	return path, nil
}

// ProcessAll runs load, extract, clean and export.
func (s *PreprocessService) ProcessAll(specific, output string) (string, error) {
	raw, err := s.LoadAll(specific)
	if err != nil {
		return "", err
	}
	if len(raw) == 0 {
		log.Warn().Msg("no reviews to process, run the collector first")
		return "", ErrNoReviews
	}
	log.Info().Int("reviews", len(raw)).Msg("total reviews loaded")

	extracted := s.Extract(raw)
	log.Info().Int("reviews", len(extracted)).Msg("extracted valid reviews")
	if len(extracted) == 0 {
		return "", ErrNoValidReviews
	}

	cleaned := Finalize(Clean(extracted))
	if len(cleaned) == 0 {
		log.Warn().Msg("no reviews survived cleaning")
		return "", ErrNothingToExport
	}
	logStats(cleaned)

	return s.Export(output, cleaned)
}

func logStats(rs []domain.CleanedReview) {
	if len(rs) == 0 {
		return
	}
	dist := map[int]int{}
	sum := 0
	for _, r := range rs {
		dist[r.Rating]++
		sum += r.Rating
	}
	log.Info().Float64("average_rating", float64(sum)/float64(len(rs))).Msg("data statistics")

	stars := make([]int, 0, len(dist))
	for k := range dist {
		stars = append(stars, k)
	}
	sort.Ints(stars)
	for _, k := range stars {
		log.Info().
			Int("stars", k).
			Int("count", dist[k]).
			Float64("percent", float64(dist[k])*100/float64(len(rs))).
			Msg("rating distribution")
	}
}
