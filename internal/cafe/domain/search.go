package domain

import (
	"sort"
	"strings"
)

const (
	DefaultSearchRadiusKm = 10.0
	DefaultNearbyRadiusKm = 5.0
	DefaultPopularLimit   = 10
	MaxPopularLimit       = 50
)

// GeoFilter restricts results to a circle around Center.
type GeoFilter struct {
	Center   Coordinates
	RadiusKm float64
}

// SearchQuery is a set of optional predicates combined with AND. A nil field
// is not applied; the zero query matches every cafe.
type SearchQuery struct {
	Text         *string
	City         *string
	Near         *GeoFilter
	WiFi         *bool
	Seating      *bool
	WorkFriendly *bool
	PriceRange   *PriceRange
	MinRating    *float64
}

// Normalize trims text predicates and drops empty ones.
func (q SearchQuery) Normalize() SearchQuery {
	q.Text = trimmedOrNil(q.Text)
	q.City = trimmedOrNil(q.City)
	return q
}

// Matches evaluates the query against a single cafe in memory.
func (q SearchQuery) Matches(c Cafe) bool {
	q = q.Normalize()
	if q.Text != nil && !matchesText(c, *q.Text) {
		return false
	}
	if q.City != nil && !containsFold(c.Address.City, *q.City) {
		return false
	}
	if q.WiFi != nil && c.Amenities.WiFi != *q.WiFi {
		return false
	}
	if q.Seating != nil && c.Amenities.Seating != *q.Seating {
		return false
	}
	if q.WorkFriendly != nil && c.Amenities.WorkFriendly != *q.WorkFriendly {
		return false
	}
	if q.PriceRange != nil && c.PriceRange != *q.PriceRange {
		return false
	}
	if q.MinRating != nil && c.Ratings.AvgRating < *q.MinRating {
		return false
	}
	if q.Near != nil && q.Near.Center.DistanceTo(c.Location) > q.Near.RadiusKm {
		return false
	}
	return true
}

// Filter returns the cafes matching q, in input order.
func (q SearchQuery) Filter(cafes []Cafe) []Cafe {
	result := make([]Cafe, 0, len(cafes))
	for _, c := range cafes {
		if q.Matches(c) {
			result = append(result, c)
		}
	}
	return result
}

// SortPopular orders cafes by average rating then review count, both descending.
func SortPopular(cafes []Cafe) {
	sort.SliceStable(cafes, func(i, j int) bool {
		a, b := cafes[i].Ratings, cafes[j].Ratings
		if a.AvgRating != b.AvgRating {
			return a.AvgRating > b.AvgRating
		}
		return a.ReviewsCount > b.ReviewsCount
	})
}

// Popular returns at most limit cafes in popularity order. cafes is not modified.
func Popular(cafes []Cafe, limit int) []Cafe {
	sorted := append([]Cafe(nil), cafes...)
	SortPopular(sorted)
	if limit >= 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// ClampPopularLimit applies the default and the upper bound to a requested limit.
func ClampPopularLimit(limit int) int {
	if limit <= 0 {
		return DefaultPopularLimit
	}
	if limit > MaxPopularLimit {
		return MaxPopularLimit
	}
	return limit
}

func matchesText(c Cafe, text string) bool {
	if containsFold(c.Name, text) || containsFold(c.Description, text) {
		return true
	}
	for _, tag := range c.Tags {
		if containsFold(tag, text) {
			return true
		}
	}
	return false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func trimmedOrNil(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
