package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"places_reviews/internal/adapters/observability"
	"places_reviews/internal/domain"
)

type FetchOutcome int

const (
	FetchOK FetchOutcome = iota
	FetchEmpty
	FetchTransportFailed
	FetchAPIFailed
)

func (o FetchOutcome) String() string {
	switch o {
	case FetchOK:
		return "ok"
	case FetchEmpty:
		return "empty"
	case FetchTransportFailed:
		return "transport_failed"
	case FetchAPIFailed:
		return "api_failed"
	}
	return "unknown"
}

// FetchResult keeps the three fetch outcomes apart: a failure (Outcome is one of the
// *Failed values and an error is returned alongside), an empty but successful fetch,
// and a fetch with reviews.
type FetchResult struct {
	Outcome     FetchOutcome
	Place       domain.PlaceDetails
	Category    domain.Category
	Reviews     []domain.RawReview
	EmptyReason domain.EmptyReason
}

type CollectService struct {
	places  domain.PlacesClient
	store   domain.ReviewStore
	placeID string
	now     func() time.Time
}

func NewCollectService(c domain.PlacesClient, s domain.ReviewStore, placeID string) *CollectService {
	return &CollectService{places: c, store: s, placeID: placeID, now: time.Now}
}

func (s *CollectService) WithClock(now func() time.Time) *CollectService {
	s.now = now
	return s
}

// Fetch calls the place-details endpoint once and maps the reply.
func (s *CollectService) Fetch(ctx context.Context) (FetchResult, error) {
	log.Info().Str("place_id", s.placeID).Msg("fetching reviews")

	p, err := s.places.GetPlaceDetails(ctx, s.placeID)
	if err != nil {
		var apiErr *domain.APIStatusError
		if errors.As(err, &apiErr) {
			observability.ObserveFetch(FetchAPIFailed.String())
			log.Error().Str("status", apiErr.Status).Str("message", apiErr.Message).Msg("place details request rejected")
			return FetchResult{Outcome: FetchAPIFailed}, err
		}
		observability.ObserveFetch(FetchTransportFailed.String())
		log.Error().Err(err).Msg("error fetching reviews")
		return FetchResult{Outcome: FetchTransportFailed}, err
	}

	res := FetchResult{
		Outcome:  FetchOK,
		Place:    p,
		Category: domain.CategoryFromTypes(p.Types),
		Reviews:  mapReviews(p, s.now()),
	}

	ev := log.Info().
		Int("reviews", len(res.Reviews)).
		Str("place", deref(p.Name, defaultPlaceName)).
		Str("address", p.FormattedAddress).
		Str("category", string(res.Category))
	if p.Rating != nil {
		ev = ev.Float64("overall_rating", *p.Rating)
	}
	if p.UserRatingsTotal != nil {
		ev = ev.Int("total_ratings", *p.UserRatingsTotal)
	}
	ev.Msg("fetched reviews")

	if len(res.Reviews) == 0 {
		res.Outcome = FetchEmpty
		res.EmptyReason = domain.ClassifyEmpty(p)
		logEmpty(res.EmptyReason)
	}
	observability.ObserveFetch(res.Outcome.String())
	return res, nil
}

func logEmpty(reason domain.EmptyReason) {
	var hint string
	switch reason {
	case domain.EmptyAddressPlace:
		hint = "this Place ID describes an address or area, which typically has no public reviews"
	case domain.EmptyNoRatings:
		hint = "the provider reports no ratings for this listing yet"
	default:
		hint = "some listings hide their reviews from the API due to policy or region settings"
	}
	log.Warn().
		Str("reason", string(reason)).
		Str("hint", hint).
		Str("tip", "pick the exact business with the Place ID Finder: https://developers.google.com/maps/documentation/places/web-service/place-id").
		Msg("place details returned zero reviews")
}

// CollectAndSave fetches and persists the batch. The path is empty when the fetch
// failed (err != nil) or returned no reviews (err == nil, Outcome FetchEmpty).
func (s *CollectService) CollectAndSave(ctx context.Context) (string, FetchResult, error) {
	log.Info().Time("at", s.now()).Msg("starting review collection")

	res, err := s.Fetch(ctx)
	if err != nil {
		return "", res, err
	}
	if len(res.Reviews) == 0 {
		log.Warn().Msg("no data to save")
		return "", res, nil
	}

	path, err := s.store.Save(res.Reviews)
	if err != nil {
		log.Error().Err(err).Msg("error saving reviews to JSON")
		return "", res, fmt.Errorf("save reviews: %w", err)
	}
	log.Info().Str("file", path).Int("reviews", len(res.Reviews)).Msg("reviews saved")
	return path, res, nil
}
