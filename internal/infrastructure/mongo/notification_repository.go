package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// FailedNotificationRepository keeps notifications the messenger gateway did
// not accept so they can be retried out of band.
type FailedNotificationRepository struct {
	collection *mongo.Collection
}

func NewFailedNotificationRepository(db *mongo.Database, collectionName string) *FailedNotificationRepository {
	return &FailedNotificationRepository{collection: db.Collection(collectionName)}
}

func (r *FailedNotificationRepository) Save(ctx context.Context, target string, payload any, cause error, attempts int) error {
	now := time.Now().UTC()
	doc := bson.M{
		"target":      target,
		"payload":     payload,
		"error":       cause.Error(),
		"attempts":    attempts,
		"status":      "pending",
		"createdAt":   now,
		"lastTriedAt": now,
	}
	_, err := r.collection.InsertOne(ctx, doc)
	return err
}
