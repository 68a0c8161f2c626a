package app

import (
	"math"
	"strings"

	"github.com/rs/zerolog/log"

	"places_reviews/internal/adapters/observability"
	"places_reviews/internal/domain"
)

const (
	minExtractLength = 5
	minReviewLength  = 10
)

// CleaningStep is a pure transformation over a batch. Steps never modify their input.
type CleaningStep struct {
	Name  string
	Apply func([]domain.CandidateReview) []domain.CandidateReview
}

// CleaningSteps run in this order.
var CleaningSteps = []CleaningStep{
	{Name: "dedupe", Apply: DropDuplicateText},
	{Name: "trim", Apply: TrimText},
	{Name: "min_length", Apply: DropShortText},
	{Name: "fill_rating", Apply: FillMissingRatings},
	{Name: "clamp_rating", Apply: ClampRatings},
	{Name: "category", Apply: NormalizeCategories},
}

// Clean runs every cleaning step, logging and publishing the row count after each.
func Clean(in []domain.CandidateReview) []domain.CandidateReview {
	log.Info().Int("rows", len(in)).Msg("cleaning started")
	observability.ObserveStage("extracted", len(in))

	out := in
	for _, st := range CleaningSteps {
		before := len(out)
		out = st.Apply(out)
		observability.ObserveStage(st.Name, len(out))
		log.Debug().Str("step", st.Name).Int("rows", len(out)).Int("removed", before-len(out)).Msg("cleaning step")
	}

	log.Info().Int("rows", len(out)).Int("removed", len(in)-len(out)).Msg("cleaning finished")
	return out
}

// DropDuplicateText keeps the first record for each exact review text.
func DropDuplicateText(in []domain.CandidateReview) []domain.CandidateReview {
	seen := make(map[string]struct{}, len(in))
	out := make([]domain.CandidateReview, 0, len(in))
	for _, r := range in {
		if _, dup := seen[r.ReviewText]; dup {
			continue
		}
		seen[r.ReviewText] = struct{}{}
		out = append(out, r)
	}
	return out
}

func TrimText(in []domain.CandidateReview) []domain.CandidateReview {
	out := make([]domain.CandidateReview, len(in))
	for i, r := range in {
		r.ReviewText = strings.TrimSpace(r.ReviewText)
		out[i] = r
	}
	return out
}

// DropShortText removes records with fewer than 10 characters of text.
func DropShortText(in []domain.CandidateReview) []domain.CandidateReview {
	out := make([]domain.CandidateReview, 0, len(in))
	for _, r := range in {
		if runeLen(r.ReviewText) >= minReviewLength {
			out = append(out, r)
		}
	}
	return out
}

func FillMissingRatings(in []domain.CandidateReview) []domain.CandidateReview {
	out := make([]domain.CandidateReview, len(in))
	missing := 0
	for i, r := range in {
		if r.Rating == nil {
			r.Rating = pfloat(defaultRating)
			missing++
		}
		out[i] = r
	}
	if missing > 0 {
		log.Warn().Int("count", missing).Msg("reviews have missing ratings")
	}
	return out
}

// ClampRatings bounds ratings to [1,5] and drops the fractional part.
func ClampRatings(in []domain.CandidateReview) []domain.CandidateReview {
	out := make([]domain.CandidateReview, len(in))
	for i, r := range in {
		if r.Rating != nil {
			r.Rating = pfloat(clampRating(*r.Rating))
		}
		out[i] = r
	}
	return out
}

func clampRating(f float64) float64 {
	return math.Trunc(math.Max(1, math.Min(5, f)))
}

func NormalizeCategories(in []domain.CandidateReview) []domain.CandidateReview {
	out := make([]domain.CandidateReview, len(in))
	for i, r := range in {
		r.Category = string(domain.NormalizeCategory(r.Category))
		out[i] = r
	}
	return out
}

// Finalize converts a cleaned batch into export records.
func Finalize(in []domain.CandidateReview) []domain.CleanedReview {
	out := make([]domain.CleanedReview, 0, len(in))
	for _, r := range in {
		rating := defaultRating
		if r.Rating != nil {
			rating = *r.Rating
		}
		out = append(out, domain.CleanedReview{
			ID:           r.ID,
			User:         r.User,
			ReviewText:   r.ReviewText,
			Rating:       int(clampRating(rating)),
			Date:         r.Date,
			Location:     r.Location,
			Category:     domain.NormalizeCategory(r.Category),
			RelativeTime: r.RelativeTime,
			ProfilePhoto: r.ProfilePhoto,
		})
	}
	return out
}
