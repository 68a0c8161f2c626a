// internal/adapters/places/client.go
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"places_reviews/internal/adapters/observability"
	"places_reviews/internal/domain"
)

const (
	DefaultBaseURL = "https://maps.googleapis.com/maps/api/place/details/json"
	DefaultTimeout = 30 * time.Second

	detailFields = "name,rating,reviews,user_ratings_total,types,formatted_address"
)

type Client struct {
	base string
	hc   *http.Client
	key  string
}

func New(base, key string, timeout time.Duration) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if base == "" {
		base = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		base: base,
		hc:   &http.Client{Timeout: timeout},
		key:  key,
	}, nil
}

// ---- wire format ----

type detailsResponse struct {
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message"`
	Result       detailsResult `json:"result"`
}

type detailsResult struct {
	Name             *string        `json:"name"`
	FormattedAddress string         `json:"formatted_address"`
	Types            []string       `json:"types"`
	Rating           *float64       `json:"rating"`
	UserRatingsTotal *int           `json:"user_ratings_total"`
	Reviews          []reviewResult `json:"reviews"`
}

type reviewResult struct {
	AuthorName              *string  `json:"author_name"`
	Rating                  *float64 `json:"rating"`
	Text                    string   `json:"text"`
	Time                    *int64   `json:"time"`
	ProfilePhotoURL         string   `json:"profile_photo_url"`
	RelativeTimeDescription string   `json:"relative_time_description"`
}

// GetPlaceDetails performs exactly one request. Transport problems come back wrapped
// in domain.ErrTransport, a non-OK status as *domain.APIStatusError.
func (c *Client) GetPlaceDetails(ctx context.Context, placeID string) (domain.PlaceDetails, error) {
	q := url.Values{}
	q.Set("place_id", placeID)
	q.Set("fields", detailFields)
	q.Set("key", c.key)

	var out detailsResponse
	if err := c.get(ctx, c.base+"?"+q.Encode(), &out); err != nil {
		return domain.PlaceDetails{}, err
	}
	if out.Status != "OK" {
		return domain.PlaceDetails{}, &domain.APIStatusError{Status: out.Status, Message: out.ErrorMessage}
	}
	return toDomain(out.Result), nil
}

func toDomain(r detailsResult) domain.PlaceDetails {
	pd := domain.PlaceDetails{
		Name:             r.Name,
		FormattedAddress: r.FormattedAddress,
		Types:            r.Types,
		Rating:           r.Rating,
		UserRatingsTotal: r.UserRatingsTotal,
		Reviews:          make([]domain.PlaceReview, 0, len(r.Reviews)),
	}
	for _, rv := range r.Reviews {
		pd.Reviews = append(pd.Reviews, domain.PlaceReview{
			AuthorName:   rv.AuthorName,
			Rating:       rv.Rating,
			Text:         rv.Text,
			Time:         rv.Time,
			ProfilePhoto: rv.ProfilePhotoURL,
			RelativeTime: rv.RelativeTimeDescription,
		})
	}
	return pd
}

// get performs a single GET and decodes the JSON body into out. No retries.
func (c *Client) get(ctx context.Context, u string, out any) error {
	start := time.Now()
	status := 0
	defer func() { observability.ObserveExternal("places", "details", status, time.Since(start)) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "places-reviews/1.0")

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s", domain.ErrTransport, redact(err.Error(), c.key))
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// read a small error body for diagnostics
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &domain.HTTPStatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode body: %v", domain.ErrTransport, err)
	}
	return nil
}

// redact keeps the API key out of url.Error messages, which embed the request URL.
func redact(msg, key string) string {
	if key == "" {
		return msg
	}
	return strings.ReplaceAll(msg, key, "REDACTED")
}
