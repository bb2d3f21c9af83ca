//go:build integration

package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcmongo "github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/cafe-finder/api/internal/cafe/application"
	"github.com/sngm3741/cafe-finder/api/internal/cafe/domain"
)

var testCollections = Collections{
	Cafes:               "cafes",
	Reviews:             "reviews",
	Votes:               "review_votes",
	Claims:              "claims",
	Busy:                "busy_entries",
	FailedNotifications: "failed_notifications",
}

type RepositorySuite struct {
	suite.Suite
	container *tcmongo.MongoDBContainer
	client    *mongo.Client
	db        *mongo.Database
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) SetupSuite() {
	ctx := context.Background()
	container, err := tcmongo.Run(ctx, "mongo:7")
	s.Require().NoError(err)
	s.container = container

	uri, err := container.ConnectionString(ctx)
	s.Require().NoError(err)
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	s.Require().NoError(err)
	s.client = client
}

func (s *RepositorySuite) TearDownSuite() {
	ctx := context.Background()
	if s.client != nil {
		_ = s.client.Disconnect(ctx)
	}
	if err := testcontainers.TerminateContainer(s.container); err != nil {
		s.T().Logf("terminate container: %v", err)
	}
}

func (s *RepositorySuite) SetupTest() {
	ctx := context.Background()
	s.db = s.client.Database("cafe_finder_test")
	s.Require().NoError(s.db.Drop(ctx))
	s.Require().NoError(EnsureIndexes(ctx, s.db, testCollections))
}

func (s *RepositorySuite) newCafe(name string, lat, lng float64) *domain.Cafe {
	cafe := domain.NewCafe(domain.Profile{
		Name:      name,
		Location:  domain.Coordinates{Latitude: lat, Longitude: lng},
		Address:   domain.Address{City: "Atlanta"},
		Amenities: domain.Amenities{WiFi: true},
	}, time.Now().UTC())
	s.Require().NoError(NewCafeRepository(s.db, testCollections.Cafes).Create(context.Background(), &cafe))
	return &cafe
}

func (s *RepositorySuite) TestCafeSearchAndPopular() {
	ctx := context.Background()
	repo := NewCafeRepository(s.db, testCollections.Cafes)
	octane := s.newCafe("Octane", 33.7731, -84.4044)
	spiller := s.newCafe("Spiller Park", 33.7490, -84.3880)
	s.newCafe("Savannah Roast", 32.0809, -81.0912)

	s.Require().NoError(repo.UpdateRatings(ctx, spiller.ID, domain.RatingSummary{AvgRating: 4.5, ReviewsCount: 2}))
	s.Require().NoError(repo.UpdateRatings(ctx, octane.ID, domain.RatingSummary{AvgRating: 4.5, ReviewsCount: 5}))

	near, err := repo.Search(ctx, domain.SearchQuery{Near: &domain.GeoFilter{
		Center:   domain.Coordinates{Latitude: 33.7731, Longitude: -84.4044},
		RadiusKm: 5,
	}})
	s.Require().NoError(err)
	s.Len(near, 2)

	popular, err := repo.Popular(ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(popular, 2)
	s.Equal(octane.ID, popular[0].ID)
	s.Equal(spiller.ID, popular[1].ID)

	_, err = repo.FindByID(ctx, "not-an-object-id")
	s.Require().ErrorIs(err, domain.ErrNotFound)
	s.Require().ErrorIs(repo.UpdateProfile(ctx, "64b7f0000000000000000000", domain.Profile{Name: "x"}), domain.ErrNotFound)
}

func (s *RepositorySuite) TestOnePendingClaimPerCafe() {
	ctx := context.Background()
	repo := NewClaimRepository(s.db, testCollections.Claims)
	first := domain.NewClaimRequest("cafe-1", "alice", domain.BusinessInfo{BusinessEmail: "a@example.com"}, time.Now().UTC())
	s.Require().NoError(repo.Create(ctx, &first))

	dup := domain.NewClaimRequest("cafe-1", "alice", domain.BusinessInfo{}, time.Now().UTC())
	s.Require().ErrorIs(repo.Create(ctx, &dup), domain.ErrDuplicateClaim)
	other := domain.NewClaimRequest("cafe-1", "bob", domain.BusinessInfo{}, time.Now().UTC())
	s.Require().ErrorIs(repo.Create(ctx, &other), domain.ErrClaimInProgress)

	s.Require().NoError(first.Decide(domain.DecisionRejected, "admin", "", time.Now().UTC()))
	s.Require().NoError(repo.UpdateDecision(ctx, &first))
	s.Require().ErrorIs(repo.UpdateDecision(ctx, &first), domain.ErrInvalidTransition)

	s.Require().NoError(repo.Create(ctx, &other))
	status := domain.ClaimPending
	n, err := repo.Count(ctx, application.ClaimFilter{Status: &status})
	s.Require().NoError(err)
	s.Equal(int64(1), n)
}

func (s *RepositorySuite) TestReviewCountersAndVotes() {
	ctx := context.Background()
	reviews := NewReviewRepository(s.db, testCollections.Reviews)
	votes := NewVoteRepository(s.db, testCollections.Votes)

	review := domain.Review{CafeID: "cafe-1", UserID: "alice", Status: domain.ReviewPending, CreatedAt: time.Now().UTC()}
	s.Require().NoError(reviews.Create(ctx, &review))

	fresh, err := votes.Record(ctx, review.ID, "bob", application.CounterLikes)
	s.Require().NoError(err)
	s.True(fresh)
	fresh, err = votes.Record(ctx, review.ID, "bob", application.CounterLikes)
	s.Require().NoError(err)
	s.False(fresh)

	updated, err := reviews.Increment(ctx, review.ID, application.CounterHelpful)
	s.Require().NoError(err)
	s.Equal(1, updated.HelpfulVotes)

	counts, err := reviews.CountByStatus(ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), counts[domain.ReviewPending])
}

func (s *RepositorySuite) TestReviewContentAndModerationWrites() {
	ctx := context.Background()
	reviews := NewReviewRepository(s.db, testCollections.Reviews)

	review := domain.Review{CafeID: "cafe-1", UserID: "alice", Status: domain.ReviewPending, CreatedAt: time.Now().UTC()}
	s.Require().NoError(reviews.Create(ctx, &review))
	_, err := reviews.Increment(ctx, review.ID, application.CounterLikes)
	s.Require().NoError(err)

	reviewedAt := time.Now().UTC().Truncate(time.Millisecond)
	decided := review
	decided.Status = domain.ReviewApproved
	decided.Moderation = domain.Moderation{AdminID: "admin-1", AdminNotes: "ok", ReviewedAt: &reviewedAt}
	decided.UpdatedAt = reviewedAt
	s.Require().NoError(reviews.UpdateModeration(ctx, &decided))

	overall, err := domain.NewScore("overallRating", 3)
	s.Require().NoError(err)
	updated, err := reviews.UpdateContent(ctx, review.ID, domain.ReviewContent{Overall: overall, Text: "edited"}, time.Now())
	s.Require().NoError(err)
	s.Equal(domain.ReviewApproved, updated.Status)
	s.Equal("admin-1", updated.Moderation.AdminID)
	s.Equal(1, updated.Likes)
	s.Equal(3, updated.Overall.Int())
	s.Equal("edited", updated.Text)

	_, err = reviews.UpdateContent(ctx, primitive.NewObjectID().Hex(), domain.ReviewContent{Overall: overall}, time.Now())
	s.Require().ErrorIs(err, domain.ErrNotFound)
}

func (s *RepositorySuite) TestBusyLatest() {
	ctx := context.Background()
	repo := NewBusyRepository(s.db, testCollections.Busy)

	latest, err := repo.Latest(ctx, "cafe-1")
	s.Require().NoError(err)
	s.Nil(latest)

	base := time.Now().UTC().Truncate(time.Millisecond)
	for i, level := range []int{20, 70} {
		entry := domain.BusyEntry{CafeID: "cafe-1", UserID: "alice", CrowdLevel: level, Timestamp: base.Add(time.Duration(i) * time.Minute)}
		s.Require().NoError(repo.Create(ctx, &entry))
	}
	latest, err = repo.Latest(ctx, "cafe-1")
	s.Require().NoError(err)
	s.Require().NotNil(latest)
	s.Equal(70, latest.CrowdLevel)

	since, err := repo.Since(ctx, "cafe-1", base.Add(30*time.Second))
	s.Require().NoError(err)
	s.Len(since, 1)
}
