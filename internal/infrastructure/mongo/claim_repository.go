package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/cafe-finder/api/internal/cafe/application"
	"github.com/sngm3741/cafe-finder/api/internal/cafe/domain"
)

// ClaimRepository implements application.ClaimRepository using MongoDB.
// The partial unique index created by EnsureIndexes keeps at most one pending
// claim per cafe.
type ClaimRepository struct {
	collection *mongo.Collection
}

func NewClaimRepository(db *mongo.Database, collectionName string) *ClaimRepository {
	return &ClaimRepository{collection: db.Collection(collectionName)}
}

func (r *ClaimRepository) Create(ctx context.Context, claim *domain.ClaimRequest) error {
	doc := newClaimDocument(claim)
	doc.ID = primitive.NewObjectID()
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return r.pendingConflict(ctx, claim)
		}
		return err
	}
	claim.ID = doc.ID.Hex()
	return nil
}

func (r *ClaimRepository) FindByID(ctx context.Context, id string) (*domain.ClaimRequest, error) {
	oid, err := objectID("claim", id)
	if err != nil {
		return nil, err
	}
	var doc ClaimDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, notFoundOr(err, "claim", id)
	}
	claim := doc.toDomain()
	return &claim, nil
}

// Find lists claims oldest first.
func (r *ClaimRepository) Find(ctx context.Context, filter application.ClaimFilter) ([]domain.ClaimRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submittedAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, claimFilter(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	claims := make([]domain.ClaimRequest, 0)
	for cursor.Next(ctx) {
		var doc ClaimDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		claims = append(claims, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return claims, nil
}

// UpdateDecision writes the decision only while the stored claim is pending,
// so two admins deciding at once cannot both succeed.
func (r *ClaimRepository) UpdateDecision(ctx context.Context, claim *domain.ClaimRequest) error {
	oid, err := objectID("claim", claim.ID)
	if err != nil {
		return err
	}
	filter := bson.M{"_id": oid, "status": string(domain.ClaimPending)}
	update := bson.M{"$set": bson.M{
		"status":      string(claim.Status),
		"reviewedAt":  claim.ReviewedAt,
		"reviewedBy":  claim.ReviewedBy,
		"reviewNotes": claim.ReviewNotes,
	}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		if _, err := r.FindByID(ctx, claim.ID); err != nil {
			return err
		}
		return domain.ErrInvalidTransition
	}
	return nil
}

func (r *ClaimRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID("claim", id)
	if err != nil {
		return err
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return domain.NotFoundf("claim %s", id)
	}
	return nil
}

func (r *ClaimRepository) Count(ctx context.Context, filter application.ClaimFilter) (int64, error) {
	return r.collection.CountDocuments(ctx, claimFilter(filter))
}

// pendingConflict tells apart a duplicate from the same user and a claim by
// someone else that won the race.
func (r *ClaimRepository) pendingConflict(ctx context.Context, claim *domain.ClaimRequest) error {
	var doc ClaimDocument
	err := r.collection.FindOne(ctx, bson.M{
		"cafeId": claim.CafeID,
		"status": string(domain.ClaimPending),
	}).Decode(&doc)
	if err == nil && doc.UserID == claim.UserID {
		return domain.ErrDuplicateClaim
	}
	return domain.ErrClaimInProgress
}

func claimFilter(filter application.ClaimFilter) bson.M {
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
	return mongoFilter
}
