package domain

import "strings"

type Category string

const (
	CategoryHotel      Category = "hotel"
	CategoryRestaurant Category = "restaurant"
	CategoryProduct    Category = "product"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryHotel, CategoryRestaurant, CategoryProduct:
		return true
	}
	return false
}

// NormalizeCategory keeps exact matches of the three known categories and maps
// everything else to product.
func NormalizeCategory(s string) Category {
	if c := Category(s); c.Valid() {
		return c
	}
	return CategoryProduct
}

var (
	hotelKeywords      = []string{"lodging", "hotel", "resort", "motel", "hostel", "bed_and_breakfast"}
	restaurantKeywords = []string{"restaurant", "food", "cafe", "meal_takeaway", "bakery", "bar", "meal_delivery"}
	addressTypes       = []string{"street_address", "route", "premise", "plus_code"}
)

// CategoryFromTypes derives a category from provider type tags by substring search
// over the joined, lowercased list. Hotel keywords win over restaurant keywords.
func CategoryFromTypes(types []string) Category {
	joined := strings.ToLower(strings.Join(types, " "))
	for _, kw := range hotelKeywords {
		if strings.Contains(joined, kw) {
			return CategoryHotel
		}
	}
	for _, kw := range restaurantKeywords {
		if strings.Contains(joined, kw) {
			return CategoryRestaurant
		}
	}
	return CategoryProduct
}

// PlaceDetails is the part of the provider's place-details result we use.
type PlaceDetails struct {
	Name             *string
	FormattedAddress string
	Types            []string
	Rating           *float64
	UserRatingsTotal *int
	Reviews          []PlaceReview
}

type PlaceReview struct {
	AuthorName   *string
	Rating       *float64
	Text         string
	Time         *int64
	ProfilePhoto string
	RelativeTime string
}

// EmptyReason explains why a successful fetch returned no reviews.
type EmptyReason string

const (
	EmptyNone         EmptyReason = ""
	EmptyAddressPlace EmptyReason = "address_place"
	EmptyNoRatings    EmptyReason = "no_ratings"
	EmptyHidden       EmptyReason = "hidden"
)

// ClassifyEmpty guesses why a place came back without reviews.
func ClassifyEmpty(p PlaceDetails) EmptyReason {
	for _, t := range p.Types {
		lt := strings.ToLower(t)
		for _, at := range addressTypes {
			if lt == at {
				return EmptyAddressPlace
			}
		}
	}
	if p.UserRatingsTotal == nil || *p.UserRatingsTotal == 0 {
		return EmptyNoRatings
	}
	return EmptyHidden
}
