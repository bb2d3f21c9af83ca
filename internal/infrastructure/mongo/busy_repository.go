package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/cafe-finder/api/internal/cafe/domain"
)

// BusyRepository implements application.BusyRepository using MongoDB.
type BusyRepository struct {
	collection *mongo.Collection
}

func NewBusyRepository(db *mongo.Database, collectionName string) *BusyRepository {
	return &BusyRepository{collection: db.Collection(collectionName)}
}

func (r *BusyRepository) Create(ctx context.Context, entry *domain.BusyEntry) error {
	doc := BusyDocument{
		ID:         primitive.NewObjectID(),
		CafeID:     entry.CafeID,
		UserID:     entry.UserID,
		CrowdLevel: entry.CrowdLevel,
		WaitMins:   entry.WaitMins,
		Timestamp:  entry.Timestamp,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return err
	}
	entry.ID = doc.ID.Hex()
	return nil
}

// Since returns the cafe's entries at or after since, newest first.
func (r *BusyRepository) Since(ctx context.Context, cafeID string, since time.Time) ([]domain.BusyEntry, error) {
	filter := bson.M{"cafeId": cafeID, "timestamp": bson.M{"$gte": since}}
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := make([]domain.BusyEntry, 0)
	for cursor.Next(ctx) {
		var doc BusyDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		entries = append(entries, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Latest returns the newest entry for the cafe, or nil when none exist.
func (r *BusyRepository) Latest(ctx context.Context, cafeID string) (*domain.BusyEntry, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	var doc BusyDocument
	err := r.collection.FindOne(ctx, bson.M{"cafeId": cafeID}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	entry := doc.toDomain()
	return &entry, nil
}
