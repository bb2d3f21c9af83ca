package mongo

import (
	"context"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/cafe-finder/api/internal/cafe/domain"
)

// CafeRepository implements application.CafeRepository using MongoDB.
type CafeRepository struct {
	collection *mongo.Collection
}

func NewCafeRepository(db *mongo.Database, collectionName string) *CafeRepository {
	return &CafeRepository{collection: db.Collection(collectionName)}
}

func (r *CafeRepository) Create(ctx context.Context, cafe *domain.Cafe) error {
	doc := newCafeDocument(cafe)
	doc.ID = primitive.NewObjectID()
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return err
	}
	cafe.ID = doc.ID.Hex()
	return nil
}

func (r *CafeRepository) FindByID(ctx context.Context, id string) (*domain.Cafe, error) {
	oid, err := objectID("cafe", id)
	if err != nil {
		return nil, err
	}
	var doc CafeDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, notFoundOr(err, "cafe", id)
	}
	cafe := doc.toDomain()
	return &cafe, nil
}

// Search pushes the attribute predicates and a bounding box down to MongoDB,
// then applies the exact great-circle radius in process.
func (r *CafeRepository) Search(ctx context.Context, query domain.SearchQuery) ([]domain.Cafe, error) {
	query = query.Normalize()
	cafes, err := r.find(ctx, buildSearchFilter(query), options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	if query.Near != nil {
		cafes = domain.FilterByRadius(cafes, query.Near.Center, query.Near.RadiusKm)
	}
	return cafes, nil
}

func (r *CafeRepository) Popular(ctx context.Context, limit int) ([]domain.Cafe, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "ratings.avgRating", Value: -1},
		{Key: "ratings.reviewsCount", Value: -1},
		{Key: "createdAt", Value: 1},
	})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return r.find(ctx, bson.M{}, opts)
}

func (r *CafeRepository) UpdateProfile(ctx context.Context, id string, profile domain.Profile) error {
	return r.set(ctx, id, bson.M{"$set": newCafeProfileDocument(profile)})
}

func (r *CafeRepository) UpdateRatings(ctx context.Context, id string, ratings domain.RatingSummary) error {
	return r.set(ctx, id, bson.M{"$set": bson.M{"ratings": newRatingsDocument(ratings)}})
}

func (r *CafeRepository) UpdateOwnership(ctx context.Context, id string, ownership domain.Ownership) error {
	return r.set(ctx, id, bson.M{"$set": bson.M{"ownership": newOwnershipDocument(ownership)}})
}

func (r *CafeRepository) UpdateCrowd(ctx context.Context, id string, status domain.CrowdStatus, waitMins *int) error {
	return r.set(ctx, id, bson.M{"$set": bson.M{
		"currentStatus":   string(status),
		"currentWaitTime": waitMins,
	}})
}

func (r *CafeRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID("cafe", id)
	if err != nil {
		return err
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return domain.NotFoundf("cafe %s", id)
	}
	return nil
}

// set applies update to one cafe as a single-document write and stamps updatedAt.
func (r *CafeRepository) set(ctx context.Context, id string, update bson.M) error {
	oid, err := objectID("cafe", id)
	if err != nil {
		return err
	}
	update["$currentDate"] = bson.M{"updatedAt": true}
	result, err := r.collection.UpdateByID(ctx, oid, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return domain.NotFoundf("cafe %s", id)
	}
	return nil
}

func (r *CafeRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.Cafe, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	cafes := make([]domain.Cafe, 0)
	for cursor.Next(ctx) {
		var doc CafeDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		cafes = append(cafes, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return cafes, nil
}

func buildSearchFilter(query domain.SearchQuery) bson.M {
	clauses := make([]bson.M, 0)
	if query.Text != nil {
		regex := primitive.Regex{Pattern: regexp.QuoteMeta(*query.Text), Options: "i"}
		clauses = append(clauses, bson.M{"$or": bson.A{
			bson.M{"name": regex},
			bson.M{"description": regex},
			bson.M{"tags": regex},
		}})
	}
	if query.City != nil {
		clauses = append(clauses, bson.M{"address.city": primitive.Regex{Pattern: regexp.QuoteMeta(*query.City), Options: "i"}})
	}
	if query.WiFi != nil {
		clauses = append(clauses, bson.M{"amenities.wifi": *query.WiFi})
	}
	if query.Seating != nil {
		clauses = append(clauses, bson.M{"amenities.seating": *query.Seating})
	}
	if query.WorkFriendly != nil {
		clauses = append(clauses, bson.M{"amenities.workFriendly": *query.WorkFriendly})
	}
	if query.PriceRange != nil {
		clauses = append(clauses, bson.M{"priceRange": query.PriceRange.String()})
	}
	if query.MinRating != nil {
		clauses = append(clauses, bson.M{"ratings.avgRating": bson.M{"$gte": *query.MinRating}})
	}
	if query.Near != nil {
		box := query.Near.Bounds()
		clauses = append(clauses, bson.M{"location.lat": bson.M{"$gte": box.MinLat, "$lte": box.MaxLat}})
		if box.LngBounded {
			clauses = append(clauses, bson.M{"location.lng": bson.M{"$gte": box.MinLng, "$lte": box.MaxLng}})
		}
	}

	switch len(clauses) {
	case 0:
		return bson.M{}
	case 1:
		return clauses[0]
	default:
		return bson.M{"$and": clauses}
	}
}
