package domain

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type SearchQuerySuite struct {
	suite.Suite
	cafes []Cafe
}

func TestSearchQuerySuite(t *testing.T) {
	suite.Run(t, new(SearchQuerySuite))
}

func (s *SearchQuerySuite) SetupTest() {
	s.cafes = []Cafe{
		{
			ID: "octane",
			Profile: Profile{
				Name: "Octane Coffee", Description: "Espresso bar on the westside",
				Tags: TagList{"espresso", "laptop"}, Address: Address{City: "Atlanta"},
				Location:   Coordinates{Latitude: 33.77, Longitude: -84.40},
				Amenities:  Amenities{WiFi: true, Seating: true, WorkFriendly: true},
				PriceRange: PriceModerate,
			},
			Ratings: RatingSummary{AvgRating: 4.6, ReviewsCount: 12},
		},
		{
			ID: "dancing-goats",
			Profile: Profile{
				Name: "Dancing Goats", Description: "Roaster cafe",
				Tags: TagList{"pour over"}, Address: Address{City: "Decatur"},
				Location:   Coordinates{Latitude: 33.7748, Longitude: -84.2963},
				Amenities:  Amenities{WiFi: true, Seating: false},
				PriceRange: PriceModerate,
			},
			Ratings: RatingSummary{AvgRating: 4.2, ReviewsCount: 40},
		},
		{
			ID: "chrome-yellow",
			Profile: Profile{
				Name: "Chrome Yellow Trading Co", Description: "Coffee and goods",
				Address:    Address{City: "Atlanta"},
				Location:   Coordinates{Latitude: 33.7536, Longitude: -84.3621},
				Amenities:  Amenities{WiFi: false, Seating: true},
				PriceRange: PriceExpensive,
			},
			Ratings: RatingSummary{AvgRating: 4.6, ReviewsCount: 30},
		},
	}
}

func (s *SearchQuerySuite) TestEmptyQueryReturnsEverything() {
	s.Equal([]string{"octane", "dancing-goats", "chrome-yellow"}, ids(SearchQuery{}.Filter(s.cafes)))
}

func (s *SearchQuerySuite) TestPredicates() {
	s.Run("text matches name description and tags case-insensitively", func() {
		s.Equal([]string{"octane"}, ids(SearchQuery{Text: ptr("ESPRESSO")}.Filter(s.cafes)))
		s.Equal([]string{"dancing-goats"}, ids(SearchQuery{Text: ptr("Pour")}.Filter(s.cafes)))
		s.Equal([]string{"dancing-goats"}, ids(SearchQuery{Text: ptr("roaster")}.Filter(s.cafes)))
	})

	s.Run("blank text is ignored", func() {
		s.Len(SearchQuery{Text: ptr("   ")}.Filter(s.cafes), 3)
	})

	s.Run("city matches exact or contained", func() {
		s.Equal([]string{"octane", "chrome-yellow"}, ids(SearchQuery{City: ptr("atlanta")}.Filter(s.cafes)))
		s.Equal([]string{"dancing-goats"}, ids(SearchQuery{City: ptr("catu")}.Filter(s.cafes)))
	})

	s.Run("tri-state amenities apply only when present", func() {
		s.Equal([]string{"chrome-yellow"}, ids(SearchQuery{WiFi: ptr(false)}.Filter(s.cafes)))
		s.Equal([]string{"octane", "chrome-yellow"}, ids(SearchQuery{Seating: ptr(true)}.Filter(s.cafes)))
		s.Equal([]string{"octane"}, ids(SearchQuery{WorkFriendly: ptr(true)}.Filter(s.cafes)))
	})

	s.Run("price range and minimum rating combine with AND", func() {
		q := SearchQuery{PriceRange: ptr(PriceModerate), MinRating: ptr(4.5)}
		s.Equal([]string{"octane"}, ids(q.Filter(s.cafes)))
	})

	s.Run("zero radius keeps the cafe at the center", func() {
		q := SearchQuery{Near: &GeoFilter{Center: Coordinates{Latitude: 33.77, Longitude: -84.40}}}
		s.Equal([]string{"octane"}, ids(q.Filter(s.cafes)))
	})

	s.Run("radius combines with attributes", func() {
		q := SearchQuery{
			Near: &GeoFilter{Center: Coordinates{Latitude: 33.77, Longitude: -84.40}, RadiusKm: 5},
			WiFi: ptr(false),
		}
		s.Equal([]string{"chrome-yellow"}, ids(q.Filter(s.cafes)))
	})
}

func (s *SearchQuerySuite) TestPopular() {
	s.Run("sorts by rating then review count", func() {
		s.Equal([]string{"chrome-yellow", "octane", "dancing-goats"}, ids(Popular(s.cafes, 10)))
	})

	s.Run("truncates to limit without touching input", func() {
		s.Equal([]string{"chrome-yellow"}, ids(Popular(s.cafes, 1)))
		s.Equal("octane", s.cafes[0].ID)
	})

	s.Run("limit is clamped", func() {
		s.Equal(DefaultPopularLimit, ClampPopularLimit(0))
		s.Equal(MaxPopularLimit, ClampPopularLimit(500))
		s.Equal(3, ClampPopularLimit(3))
	})
}

func ptr[T any](v T) *T {
	return &v
}
