package domain

import "context"

type PlacesClient interface {
	GetPlaceDetails(ctx context.Context, placeID string) (PlaceDetails, error)
}

// ReviewStore persists collector batches as whole files.
type ReviewStore interface {
	Save(reviews []RawReview) (string, error)
	// Find returns specific when set, otherwise every collector file in the store.
	Find(specific string) ([]string, error)
	Load(path string) ([]RawReview, error)
}

type ReviewExporter interface {
	Export(path string, reviews []CleanedReview) error
}
