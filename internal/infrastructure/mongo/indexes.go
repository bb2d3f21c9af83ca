package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collections names the collections the repositories use.
type Collections struct {
	Cafes               string
	Reviews             string
	Votes               string
	Claims              string
	Busy                string
	FailedNotifications string
}

// EnsureIndexes creates the indexes the repositories rely on. It is idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database, c Collections) error {
	specs := map[string][]mongo.IndexModel{
		c.Cafes: {
			{Keys: bson.D{{Key: "ratings.avgRating", Value: -1}, {Key: "ratings.reviewsCount", Value: -1}}, Options: options.Index().SetName("cafes_popular")},
			{Keys: bson.D{{Key: "location.lat", Value: 1}, {Key: "location.lng", Value: 1}}, Options: options.Index().SetName("cafes_location")},
			{Keys: bson.D{{Key: "address.city", Value: 1}}, Options: options.Index().SetName("cafes_city")},
		},
		c.Reviews: {
			{Keys: bson.D{{Key: "cafeId", Value: 1}, {Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}, Options: options.Index().SetName("reviews_cafe_status")},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}, Options: options.Index().SetName("reviews_user")},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}, Options: options.Index().SetName("reviews_status")},
		},
		c.Votes: {
			{Keys: bson.D{{Key: "reviewId", Value: 1}, {Key: "voterId", Value: 1}, {Key: "kind", Value: 1}}, Options: options.Index().SetName("votes_unique").SetUnique(true)},
		},
		c.Claims: {
			{
				Keys: bson.D{{Key: "cafeId", Value: 1}},
				Options: options.Index().
					SetName("claims_one_pending_per_cafe").
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"status": "PENDING"}),
			},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "submittedAt", Value: 1}}, Options: options.Index().SetName("claims_user")},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "submittedAt", Value: 1}}, Options: options.Index().SetName("claims_status")},
		},
		c.Busy: {
			{Keys: bson.D{{Key: "cafeId", Value: 1}, {Key: "timestamp", Value: -1}}, Options: options.Index().SetName("busy_cafe_timestamp")},
		},
		c.FailedNotifications: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: 1}}, Options: options.Index().SetName("failed_notifications_status")},
		},
	}

	for collection, models := range specs {
		if collection == "" {
			continue
		}
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", collection, err)
		}
	}
	return nil
}
