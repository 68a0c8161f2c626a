package app

import (
	"strings"
	"time"
	"unicode/utf8"

	"places_reviews/internal/domain"
)

const (
	defaultUser      = "Anonymous"
	defaultPlaceName = "Unknown"
	defaultLocation  = "Not specified"
	defaultRating    = 3.0
	dateLayout       = "2006-01-02"
)

/********** tiny helpers **********/

func deref(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}

func pfloat(f float64) *float64 { return &f }

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func runeLen(s string) int { return utf8.RuneCountInString(s) }

/********** collector mapper **********/

// mapReviews reshapes provider reviews into RawReview records with a 1-based id.
// Every record of the batch carries the same place name, address and category.
func mapReviews(p domain.PlaceDetails, now time.Time) []domain.RawReview {
	name := deref(p.Name, defaultPlaceName)
	category := domain.CategoryFromTypes(p.Types)

	out := make([]domain.RawReview, 0, len(p.Reviews))
	for i, r := range p.Reviews {
		rv := domain.RawReview{
			ID:           i + 1,
			User:         deref(r.AuthorName, defaultUser),
			Rating:       pfloat(0),
			Review:       r.Text,
			Date:         domain.NewTimestamp(now),
			ProfilePhoto: r.ProfilePhoto,
			RelativeTime: r.RelativeTime,
			PlaceName:    name,
			PlaceAddress: p.FormattedAddress,
			Category:     string(category),
		}
		if r.Rating != nil {
			rv.Rating = pfloat(*r.Rating)
		}
		if r.Time != nil {
			rv.Date = domain.Timestamp{Unix: *r.Time, Valid: true}
		}
		out = append(out, rv)
	}
	return out
}

/********** extraction mapper **********/

// extractReview turns one raw record into a candidate. ok=false when the trimmed
// text is shorter than minExtractLength.
func extractReview(r domain.RawReview, now time.Time) (domain.CandidateReview, bool) {
	text := strings.TrimSpace(r.Review)
	if runeLen(text) < minExtractLength {
		return domain.CandidateReview{}, false
	}

	date := now.Format(dateLayout)
	if t, ok := r.Date.Time(); ok {
		date = t.Format(dateLayout)
	}

	c := domain.CandidateReview{
		ID:           r.ID,
		User:         firstNonEmpty(r.User, defaultUser),
		ReviewText:   text,
		Date:         date,
		Location:     firstNonEmpty(r.PlaceAddress, r.PlaceName, defaultLocation),
		Category:     firstNonEmpty(r.Category, string(domain.CategoryProduct)),
		RelativeTime: r.RelativeTime,
		ProfilePhoto: r.ProfilePhoto,
	}
	if r.Rating != nil {
		c.Rating = pfloat(*r.Rating)
	}
	return c, true
}
