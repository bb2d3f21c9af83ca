package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/sngm3741/cafe-finder/api/internal/cafe/application"
	"github.com/sngm3741/cafe-finder/api/internal/cafe/domain"
)

type ClaimStoreSuite struct {
	suite.Suite
	ctx   context.Context
	store *ClaimStore
}

func TestClaimStoreSuite(t *testing.T) {
	suite.Run(t, new(ClaimStoreSuite))
}

func (s *ClaimStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewClaimStore()
}

func (s *ClaimStoreSuite) pending(cafeID, userID string) *domain.ClaimRequest {
	claim := domain.NewClaimRequest(cafeID, userID, domain.BusinessInfo{}, time.Now())
	return &claim
}

func (s *ClaimStoreSuite) TestOnePendingClaimPerCafe() {
	first := s.pending("cafe-1", "alice")
	s.Require().NoError(s.store.Create(s.ctx, first))
	s.NotEmpty(first.ID)

	s.Require().ErrorIs(s.store.Create(s.ctx, s.pending("cafe-1", "alice")), domain.ErrDuplicateClaim)
	s.Require().ErrorIs(s.store.Create(s.ctx, s.pending("cafe-1", "bob")), domain.ErrClaimInProgress)
	s.Require().NoError(s.store.Create(s.ctx, s.pending("cafe-2", "bob")))

	s.Run("a decided claim frees the cafe", func() {
		s.Require().NoError(first.Decide(domain.DecisionRejected, "admin", "", time.Now()))
		s.Require().NoError(s.store.UpdateDecision(s.ctx, first))
		s.Require().NoError(s.store.Create(s.ctx, s.pending("cafe-1", "bob")))
	})

	s.Run("a decided claim cannot be stored again", func() {
		s.Require().ErrorIs(s.store.UpdateDecision(s.ctx, first), domain.ErrInvalidTransition)
	})

	status := domain.ClaimPending
	n, err := s.store.Count(s.ctx, application.ClaimFilter{Status: &status})
	s.Require().NoError(err)
	s.Equal(int64(2), n)
}

func (s *ClaimStoreSuite) TestFindByIDReturnsACopy() {
	claim := s.pending("cafe-1", "alice")
	s.Require().NoError(s.store.Create(s.ctx, claim))

	loaded, err := s.store.FindByID(s.ctx, claim.ID)
	s.Require().NoError(err)
	loaded.Status = domain.ClaimApproved

	again, err := s.store.FindByID(s.ctx, claim.ID)
	s.Require().NoError(err)
	s.Equal(domain.ClaimPending, again.Status)

	_, err = s.store.FindByID(s.ctx, "missing")
	s.Require().ErrorIs(err, domain.ErrNotFound)
}

type ReviewStoreSuite struct {
	suite.Suite
	ctx   context.Context
	store *ReviewStore
}

func TestReviewStoreSuite(t *testing.T) {
	suite.Run(t, new(ReviewStoreSuite))
}

func (s *ReviewStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewReviewStore()
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		review := domain.Review{CafeID: "cafe-1", UserID: "alice", Status: domain.ReviewPending, CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		if i%2 == 0 {
			review.Status = domain.ReviewApproved
		}
		s.Require().NoError(s.store.Create(s.ctx, &review))
	}
}

func (s *ReviewStoreSuite) TestPagingNewestFirst() {
	first, err := s.store.Find(s.ctx, application.ReviewFilter{CafeID: "cafe-1"}, application.Paging{Page: 1, Limit: 2})
	s.Require().NoError(err)
	s.Require().Len(first, 2)
	s.True(first[0].CreatedAt.After(first[1].CreatedAt))

	last, err := s.store.Find(s.ctx, application.ReviewFilter{CafeID: "cafe-1"}, application.Paging{Page: 3, Limit: 2})
	s.Require().NoError(err)
	s.Len(last, 1)

	beyond, err := s.store.Find(s.ctx, application.ReviewFilter{}, application.Paging{Page: 9, Limit: 2})
	s.Require().NoError(err)
	s.Empty(beyond)
}

func (s *ReviewStoreSuite) TestCountsAndCounters() {
	approved, err := s.store.ApprovedByCafe(s.ctx, "cafe-1")
	s.Require().NoError(err)
	s.Len(approved, 3)

	counts, err := s.store.CountByStatus(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(3), counts[domain.ReviewApproved])
	s.Equal(int64(2), counts[domain.ReviewPending])

	liked, err := s.store.Increment(s.ctx, approved[0].ID, application.CounterLikes)
	s.Require().NoError(err)
	s.Equal(1, liked.Likes)
	liked, err = s.store.Increment(s.ctx, approved[0].ID, application.CounterLikes)
	s.Require().NoError(err)
	s.Equal(2, liked.Likes)
	s.Zero(liked.HelpfulVotes)

	_, err = s.store.Increment(s.ctx, "missing", application.CounterHelpful)
	s.Require().ErrorIs(err, domain.ErrNotFound)
}

func (s *ReviewStoreSuite) TestContentAndModerationWritesAreSeparate() {
	approved, err := s.store.ApprovedByCafe(s.ctx, "cafe-1")
	s.Require().NoError(err)
	target := approved[0]
	_, err = s.store.Increment(s.ctx, target.ID, application.CounterLikes)
	s.Require().NoError(err)

	overall, err := domain.NewScore("overallRating", 2)
	s.Require().NoError(err)
	edited := time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)
	updated, err := s.store.UpdateContent(s.ctx, target.ID, domain.ReviewContent{Overall: overall, Text: "colder than before"}, edited)
	s.Require().NoError(err)
	s.Equal(domain.ReviewApproved, updated.Status)
	s.Equal(1, updated.Likes)
	s.Equal(2, updated.Overall.Int())
	s.Equal(edited, updated.UpdatedAt)

	// a stale copy only carries its moderation fields back
	stale := target
	stale.Status = domain.ReviewRejected
	stale.Moderation = domain.Moderation{AdminID: "admin-1", ReviewedAt: &edited}
	s.Require().NoError(s.store.UpdateModeration(s.ctx, &stale))

	stored, err := s.store.FindByID(s.ctx, target.ID)
	s.Require().NoError(err)
	s.Equal(domain.ReviewRejected, stored.Status)
	s.Equal("admin-1", stored.Moderation.AdminID)
	s.Equal("colder than before", stored.Text)
	s.Equal(1, stored.Likes)

	_, err = s.store.UpdateContent(s.ctx, "missing", domain.ReviewContent{Overall: overall}, edited)
	s.Require().ErrorIs(err, domain.ErrNotFound)
	s.Require().ErrorIs(s.store.UpdateModeration(s.ctx, &domain.Review{ID: "missing"}), domain.ErrNotFound)
}

func TestPopularCacheExpires(t *testing.T) {
	ctx := context.Background()
	cache := NewPopularCache(20 * time.Millisecond)

	require.NoError(t, cache.Set(ctx, 10, []domain.Cafe{{ID: "a"}}))
	got, ok, err := cache.Get(ctx, 10)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, got, 1)

	assert.Eventually(t, func() bool {
		_, ok, _ := cache.Get(ctx, 10)
		return !ok
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, cache.Set(ctx, 10, []domain.Cafe{{ID: "a"}}))
	require.NoError(t, cache.Invalidate(ctx))
	_, ok, err = cache.Get(ctx, 10)
	require.NoError(t, err)
	assert.False(t, ok)
}
