package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/cafe-finder/api/internal/cafe/application"
)

// VoteRepository persists likes and helpful votes per voter.
type VoteRepository struct {
	collection *mongo.Collection
}

func NewVoteRepository(db *mongo.Database, collectionName string) *VoteRepository {
	return &VoteRepository{collection: db.Collection(collectionName)}
}

// Record upserts the vote. It reports true only when the vote was inserted.
func (r *VoteRepository) Record(ctx context.Context, reviewID, voterID string, counter application.ReviewCounter) (bool, error) {
	filter := bson.M{"reviewId": reviewID, "voterId": voterID, "kind": string(counter)}
	update := bson.M{
		"$setOnInsert": bson.M{
			"createdAt": time.Now().UTC(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}
	return result.UpsertedCount > 0, nil
}
