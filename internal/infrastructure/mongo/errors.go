package mongo

import (
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sngm3741/cafe-finder/api/internal/cafe/domain"
)

// objectID parses a hex identifier. A malformed id cannot match any document,
// so it is reported as not found.
func objectID(kind, id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, domain.NotFoundf("%s %s", kind, id)
	}
	return oid, nil
}

func notFoundOr(err error, kind, id string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.NotFoundf("%s %s", kind, id)
	}
	return err
}
