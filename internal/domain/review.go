package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// RawReview is one review as written by the collector. Field names are part of the
// JSON file contract read back by the preprocessor.
type RawReview struct {
	ID           int       `json:"id"`
	User         string    `json:"user"`
	Rating       *float64  `json:"rating"`
	Review       string    `json:"review"`
	Date         Timestamp `json:"date"`
	ProfilePhoto string    `json:"profile_photo"`
	RelativeTime string    `json:"relative_time"`
	PlaceName    string    `json:"place_name"`
	PlaceAddress string    `json:"place_address"`
	Category     string    `json:"category"`
}

// CandidateReview is an extracted review waiting for the cleaning steps.
type CandidateReview struct {
	ID           int
	User         string
	ReviewText   string
	Rating       *float64 // nil until filled
	Date         string
	Location     string
	Category     string
	RelativeTime string
	ProfilePhoto string
}

// CleanedReview is a review that survived cleaning and is ready for export.
type CleanedReview struct {
	ID           int
	User         string
	ReviewText   string
	Rating       int
	Date         string
	Location     string
	Category     Category
	RelativeTime string
	ProfilePhoto string
}

// Timestamp is a unix-seconds value that decodes leniently. Values that are not
// numbers (or numeric strings) decode to an invalid Timestamp instead of an error.
type Timestamp struct {
	Unix  int64
	Valid bool
}

func NewTimestamp(t time.Time) Timestamp { return Timestamp{Unix: t.Unix(), Valid: true} }

// Time returns the timestamp as local time, or ok=false when it carries no usable value
// or falls outside years 1..9999.
func (t Timestamp) Time() (time.Time, bool) {
	if !t.Valid || t.Unix == 0 {
		return time.Time{}, false
	}
	tm := time.Unix(t.Unix, 0)
	if y := tm.Year(); y < 1 || y > 9999 {
		return time.Time{}, false
	}
	return tm, true
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte("null"), nil
	}
	return strconv.AppendInt(nil, t.Unix, 10), nil
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	*t = Timestamp{}
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		return nil
	}
	if unq, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unq)
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		*t = Timestamp{Unix: n, Valid: true}
		return nil
	}
	// -2^63 is exact in float64, 2^63 is the first value past MaxInt64.
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= math.MinInt64 && f < math.MaxInt64 {
		*t = Timestamp{Unix: int64(f), Valid: true}
	}
	return nil
}
