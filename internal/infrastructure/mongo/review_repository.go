package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/cafe-finder/api/internal/cafe/application"
	"github.com/sngm3741/cafe-finder/api/internal/cafe/domain"
)

// ReviewRepository implements application.ReviewRepository using MongoDB.
type ReviewRepository struct {
	collection *mongo.Collection
}

func NewReviewRepository(db *mongo.Database, collectionName string) *ReviewRepository {
	return &ReviewRepository{collection: db.Collection(collectionName)}
}

func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	doc := newReviewDocument(review)
	doc.ID = primitive.NewObjectID()
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return err
	}
	review.ID = doc.ID.Hex()
	return nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, id string) (*domain.Review, error) {
	oid, err := objectID("review", id)
	if err != nil {
		return nil, err
	}
	var doc ReviewDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, notFoundOr(err, "review", id)
	}
	review := doc.toDomain()
	return &review, nil
}

// Find lists reviews newest first.
func (r *ReviewRepository) Find(ctx context.Context, filter application.ReviewFilter, paging application.Paging) ([]domain.Review, error) {
	mongoFilter := bson.M{}
	if filter.CafeID != "" {
		mongoFilter["cafeId"] = filter.CafeID
	}
	if filter.UserID != "" {
		mongoFilter["userId"] = filter.UserID
	}
	if filter.Status != nil {
		mongoFilter["status"] = string(*filter.Status)
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	if paging.Limit > 0 {
		findOpts.SetLimit(int64(paging.Limit))
		if skip := paging.Skip(); skip > 0 {
			findOpts.SetSkip(int64(skip))
		}
	}
	return r.find(ctx, mongoFilter, findOpts)
}

func (r *ReviewRepository) ApprovedByCafe(ctx context.Context, cafeID string) ([]domain.Review, error) {
	return r.find(ctx, bson.M{"cafeId": cafeID, "status": string(domain.ReviewApproved)}, options.Find())
}

// UpdateContent sets the author-editable fields and returns the stored review.
// Status, moderation and counters are not part of the write.
func (r *ReviewRepository) UpdateContent(ctx context.Context, id string, content domain.ReviewContent, updatedAt time.Time) (*domain.Review, error) {
	oid, err := objectID("review", id)
	if err != nil {
		return nil, err
	}
	doc := newReviewDocument(&domain.Review{ReviewContent: content})
	update := bson.M{"$set": bson.M{
		"overallRating":  doc.OverallRating,
		"coffeeRating":   doc.CoffeeRating,
		"tasteRating":    doc.TasteRating,
		"ambianceRating": doc.AmbianceRating,
		"serviceRating":  doc.ServiceRating,
		"valueRating":    doc.ValueRating,
		"text":           doc.Text,
		"tasteNotes":     doc.TasteNotes,
		"photos":         doc.Photos,
		"updatedAt":      updatedAt.UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var stored ReviewDocument
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&stored); err != nil {
		return nil, notFoundOr(err, "review", id)
	}
	review := stored.toDomain()
	return &review, nil
}

// UpdateModeration sets the status and the audit trail of the latest decision.
func (r *ReviewRepository) UpdateModeration(ctx context.Context, review *domain.Review) error {
	oid, err := objectID("review", review.ID)
	if err != nil {
		return err
	}
	set := bson.M{
		"status":    string(review.Status),
		"adminId":   review.Moderation.AdminID,
		"updatedAt": review.UpdatedAt.UTC(),
	}
	if review.Moderation.AdminNotes != "" {
		set["adminNotes"] = review.Moderation.AdminNotes
	}
	if review.Moderation.ReviewedAt != nil {
		set["reviewedAt"] = review.Moderation.ReviewedAt.UTC()
	}
	update := bson.M{"$set": set}
	if review.Moderation.AdminNotes == "" {
		update["$unset"] = bson.M{"adminNotes": ""}
	}
	result, err := r.collection.UpdateByID(ctx, oid, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return domain.NotFoundf("review %s", review.ID)
	}
	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID("review", id)
	if err != nil {
		return err
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return domain.NotFoundf("review %s", id)
	}
	return nil
}

// Increment bumps a counter atomically and returns the updated review.
func (r *ReviewRepository) Increment(ctx context.Context, id string, counter application.ReviewCounter) (*domain.Review, error) {
	switch counter {
	case application.CounterLikes, application.CounterHelpful:
	default:
		return nil, domain.Validationf("unknown counter %q", counter)
	}
	oid, err := objectID("review", id)
	if err != nil {
		return nil, err
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc ReviewDocument
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$inc": bson.M{string(counter): 1}}, opts).Decode(&doc)
	if err != nil {
		return nil, notFoundOr(err, "review", id)
	}
	review := doc.toDomain()
	return &review, nil
}

func (r *ReviewRepository) CountByStatus(ctx context.Context) (map[domain.ReviewStatus]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
		}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	counts := make(map[domain.ReviewStatus]int64)
	for cursor.Next(ctx) {
		var row struct {
			Status string `bson:"_id"`
			Count  int64  `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		counts[domain.ReviewStatus(row.Status)] = row.Count
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *ReviewRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.Review, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	reviews := make([]domain.Review, 0)
	for cursor.Next(ctx) {
		var doc ReviewDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		reviews = append(reviews, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}
