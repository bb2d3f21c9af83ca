package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sngm3741/cafe-finder/api/internal/cafe/domain"
)

func TestCafeDocumentMapping(t *testing.T) {
	claimedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	wait := 5
	cafe := domain.Cafe{
		Profile: domain.Profile{
			Name:       "Octane",
			Location:   domain.Coordinates{Latitude: 33.7731, Longitude: -84.4044},
			Address:    domain.Address{City: "Atlanta"},
			Website:    "https://octane.example",
			Tags:       domain.TagList{"espresso"},
			Amenities:  domain.Amenities{WiFi: true},
			PriceRange: "$$",
			MenuItems:  []domain.MenuItem{{Name: "Cortado", Category: "coffee", Price: 4.5}},
			Photos:     domain.URLList{"https://img.example/1.jpg"},
		},
		Ratings: domain.RatingSummary{AvgRating: 4.5, AvgCoffeeRating: 4, ReviewsCount: 2},
		Ownership: domain.Ownership{
			OwnerID:       "user-1",
			IsClaimed:     true,
			ClaimStatus:   domain.ClaimStatusVerified,
			IsVerified:    true,
			ClaimedAt:     &claimedAt,
			BusinessEmail: "owner@example.com",
		},
		CurrentStatus:   domain.CrowdBusy,
		CurrentWaitTime: &wait,
	}

	doc := newCafeDocument(&cafe)
	doc.ID = primitive.NewObjectID()
	raw, err := bson.Marshal(doc)
	require.NoError(t, err)

	var decoded CafeDocument
	require.NoError(t, bson.Unmarshal(raw, &decoded))
	got := decoded.toDomain()

	assert.Equal(t, doc.ID.Hex(), got.ID)
	assert.Equal(t, cafe.Profile, got.Profile)
	assert.Equal(t, cafe.Ratings, got.Ratings)
	assert.Equal(t, cafe.Ownership.OwnerID, got.Ownership.OwnerID)
	assert.True(t, got.Ownership.IsClaimed)
	assert.Equal(t, domain.CrowdBusy, got.CurrentStatus)

	t.Run("profile fields are stored at the top level", func(t *testing.T) {
		var flat bson.M
		require.NoError(t, bson.Unmarshal(raw, &flat))
		assert.Equal(t, "Octane", flat["name"])
		assert.Contains(t, flat, "ratings")
		assert.NotContains(t, flat, "CafeProfileDocument")
	})
}

func TestReviewDocumentKeepsOptionalScores(t *testing.T) {
	coffee := domain.Score(4)
	review := domain.Review{
		CafeID:        "cafe-1",
		UserID:        "user-1",
		ReviewContent: domain.ReviewContent{Overall: 5, Coffee: &coffee, Text: "great"},
		Status:        domain.ReviewApproved,
	}
	doc := newReviewDocument(&review)
	doc.ID = primitive.NewObjectID()
	got := doc.toDomain()

	require.NotNil(t, got.Coffee)
	assert.Equal(t, domain.Score(4), *got.Coffee)
	assert.Nil(t, got.Taste)
	assert.Equal(t, domain.Score(5), got.Overall)
	assert.True(t, got.IsApproved())
}

func TestBuildSearchFilter(t *testing.T) {
	t.Run("empty query matches everything", func(t *testing.T) {
		assert.Equal(t, bson.M{}, buildSearchFilter(domain.SearchQuery{}))
	})

	t.Run("single predicate is not wrapped", func(t *testing.T) {
		wifi := true
		assert.Equal(t, bson.M{"amenities.wifi": true}, buildSearchFilter(domain.SearchQuery{WiFi: &wifi}))
	})

	t.Run("text is escaped and predicates are combined with and", func(t *testing.T) {
		text := "a.b"
		price := domain.PriceRange("$$")
		filter := buildSearchFilter(domain.SearchQuery{Text: &text, PriceRange: &price})
		clauses, ok := filter["$and"].([]bson.M)
		require.True(t, ok)
		require.Len(t, clauses, 2)
		or := clauses[0]["$or"].(bson.A)
		assert.Equal(t, primitive.Regex{Pattern: `a\.b`, Options: "i"}, or[0].(bson.M)["name"])
		assert.Equal(t, bson.M{"priceRange": "$$"}, clauses[1])
	})

	t.Run("geo filter adds a bounding box", func(t *testing.T) {
		filter := buildSearchFilter(domain.SearchQuery{Near: &domain.GeoFilter{
			Center:   domain.Coordinates{Latitude: 33.77, Longitude: -84.40},
			RadiusKm: 5,
		}})
		clauses, ok := filter["$and"].([]bson.M)
		require.True(t, ok)
		assert.Contains(t, clauses[0], "location.lat")
		assert.Contains(t, clauses[1], "location.lng")
	})
}
