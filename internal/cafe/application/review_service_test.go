package application_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/sngm3741/cafe-finder/api/internal/cafe/application"
	"github.com/sngm3741/cafe-finder/api/internal/cafe/domain"
	"github.com/sngm3741/cafe-finder/api/internal/infrastructure/memory"
)

type ReviewServiceSuite struct {
	suite.Suite
	ctx  context.Context
	h    *harness
	cafe *domain.Cafe
}

func TestReviewServiceSuite(t *testing.T) {
	suite.Run(t, new(ReviewServiceSuite))
}

func (s *ReviewServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.h = newHarness()
	s.cafe = s.h.createCafe(s.ctx, "Octane")
}

func (s *ReviewServiceSuite) submit(actor domain.Principal, overall int, coffee *int) *domain.Review {
	review, err := s.h.reviewSvc.Submit(s.ctx, actor, s.cafe.ID, application.ReviewCommand{
		OverallRating: overall,
		CoffeeRating:  coffee,
		Text:          "Great cortado",
	})
	s.Require().NoError(err)
	return review
}

func (s *ReviewServiceSuite) ratings() domain.RatingSummary {
	cafe, err := s.h.cafes.FindByID(s.ctx, s.cafe.ID)
	s.Require().NoError(err)
	return cafe.Ratings
}

func (s *ReviewServiceSuite) decide(id, decision string) {
	_, err := s.h.reviewSvc.Decide(s.ctx, admin, id, application.DecideCommand{Decision: decision})
	s.Require().NoError(err)
}

func (s *ReviewServiceSuite) TestPendingReviewsAreExcluded() {
	review := s.submit(alice, 4, nil)
	s.Equal(domain.ReviewPending, review.Status)
	s.Zero(review.Likes)
	s.Equal(domain.RatingSummary{}, s.ratings())
}

func (s *ReviewServiceSuite) TestApprovalUpdatesRatings() {
	first := s.submit(alice, 5, intPtr(4))
	s.decide(first.ID, "APPROVED")
	s.Equal(1, s.ratings().ReviewsCount)
	s.InDelta(5.0, s.ratings().AvgRating, 1e-9)

	second := s.submit(bob, 2, nil)
	before := s.ratings().ReviewsCount
	s.decide(second.ID, "APPROVED")

	after := s.ratings()
	s.Equal(before+1, after.ReviewsCount)
	s.InDelta(3.5, after.AvgRating, 1e-9)
	s.InDelta(4.0, after.AvgCoffeeRating, 1e-9)
	s.Zero(after.AvgTasteRating)

	s.Run("revoking an approval leaves the approved set", func() {
		s.decide(first.ID, "REJECTED")
		got := s.ratings()
		s.Equal(1, got.ReviewsCount)
		s.InDelta(2.0, got.AvgRating, 1e-9)
		s.Zero(got.AvgCoffeeRating)
	})
}

func (s *ReviewServiceSuite) TestModerationMetadata() {
	review := s.submit(alice, 3, nil)
	decided, err := s.h.reviewSvc.Decide(s.ctx, admin, review.ID, application.DecideCommand{Decision: "REJECTED", Notes: "off topic"})
	s.Require().NoError(err)
	s.Equal(domain.ReviewRejected, decided.Status)
	s.Equal(admin.ID, decided.Moderation.AdminID)
	s.Equal("off topic", decided.Moderation.AdminNotes)
	s.NotNil(decided.Moderation.ReviewedAt)
	s.Equal(0, s.ratings().ReviewsCount)

	_, err = s.h.reviewSvc.Decide(s.ctx, admin, "missing", application.DecideCommand{Decision: "APPROVED"})
	s.Require().ErrorIs(err, domain.ErrNotFound)

	_, err = s.h.reviewSvc.Decide(s.ctx, alice, review.ID, application.DecideCommand{Decision: "APPROVED"})
	s.Require().ErrorIs(err, domain.ErrForbidden)
}

func (s *ReviewServiceSuite) TestValidation() {
	_, err := s.h.reviewSvc.Submit(s.ctx, alice, s.cafe.ID, application.ReviewCommand{OverallRating: 6})
	s.Require().ErrorIs(err, domain.ErrValidation)

	_, err = s.h.reviewSvc.Submit(s.ctx, alice, s.cafe.ID, application.ReviewCommand{OverallRating: 4, TasteRating: intPtr(0)})
	s.Require().ErrorIs(err, domain.ErrValidation)

	_, err = s.h.reviewSvc.Submit(s.ctx, alice, "missing", application.ReviewCommand{OverallRating: 4})
	s.Require().ErrorIs(err, domain.ErrNotFound)

	_, err = s.h.reviewSvc.Submit(s.ctx, guideOnly, s.cafe.ID, application.ReviewCommand{OverallRating: 4})
	s.Require().ErrorIs(err, domain.ErrForbidden)
}

func (s *ReviewServiceSuite) TestAuthorEditsAndDeletes() {
	review := s.submit(alice, 5, nil)
	s.decide(review.ID, "APPROVED")

	s.Run("only the author edits", func() {
		_, err := s.h.reviewSvc.Update(s.ctx, bob, review.ID, application.ReviewCommand{OverallRating: 1})
		s.Require().ErrorIs(err, domain.ErrForbidden)
		s.InDelta(5.0, s.ratings().AvgRating, 1e-9)
	})

	s.Run("editing an approved review refreshes ratings", func() {
		updated, err := s.h.reviewSvc.Update(s.ctx, alice, review.ID, application.ReviewCommand{OverallRating: 3})
		s.Require().NoError(err)
		s.Equal(domain.ReviewApproved, updated.Status)
		s.InDelta(3.0, s.ratings().AvgRating, 1e-9)
	})

	s.Run("strangers cannot delete", func() {
		s.Require().ErrorIs(s.h.reviewSvc.Delete(s.ctx, bob, review.ID), domain.ErrForbidden)
	})

	s.Run("admin deletion refreshes ratings", func() {
		s.Require().NoError(s.h.reviewSvc.Delete(s.ctx, admin, review.ID))
		s.Equal(domain.RatingSummary{}, s.ratings())
	})
}

func (s *ReviewServiceSuite) TestCountersAndListings() {
	review := s.submit(alice, 4, nil)
	s.submit(bob, 2, nil)
	s.decide(review.ID, "APPROVED")

	liked, err := s.h.reviewSvc.Like(s.ctx, bob, review.ID)
	s.Require().NoError(err)
	s.Equal(1, liked.Likes)
	helpful, err := s.h.reviewSvc.MarkHelpful(s.ctx, bob, review.ID)
	s.Require().NoError(err)
	s.Equal(1, helpful.HelpfulVotes)
	s.Equal(1, helpful.Likes)

	again, err := s.h.reviewSvc.Like(s.ctx, bob, review.ID)
	s.Require().NoError(err)
	s.Equal(1, again.Likes)
	again, err = s.h.reviewSvc.Like(s.ctx, alice, review.ID)
	s.Require().NoError(err)
	s.Equal(2, again.Likes)

	_, err = s.h.reviewSvc.Like(s.ctx, bob, "missing")
	s.Require().ErrorIs(err, domain.ErrNotFound)

	approved, err := s.h.reviewSvc.ApprovedForCafe(s.ctx, s.cafe.ID, application.Paging{})
	s.Require().NoError(err)
	s.Len(approved, 1)

	byUser, err := s.h.reviewSvc.ApprovedForUser(s.ctx, bob.ID, application.Paging{})
	s.Require().NoError(err)
	s.Empty(byUser)

	recent, err := s.h.reviewSvc.Recent(s.ctx, 0)
	s.Require().NoError(err)
	s.Len(recent, 1)

	pending := domain.ReviewPending
	queue, err := s.h.reviewSvc.List(s.ctx, admin, &pending, application.Paging{})
	s.Require().NoError(err)
	s.Len(queue, 1)

	all, err := s.h.reviewSvc.List(s.ctx, admin, nil, application.Paging{})
	s.Require().NoError(err)
	s.Len(all, 2)

	stats, err := s.h.stats.Overview(s.ctx, admin)
	s.Require().NoError(err)
	s.Equal(application.ModerationStats{TotalReviews: 2, PendingReviews: 1, ApprovedReviews: 1}, stats)

	_, err = s.h.stats.Overview(s.ctx, alice)
	s.Require().ErrorIs(err, domain.ErrForbidden)
}

// racingReviews runs between once, right after the first FindByID, so the
// caller works from a copy that is already stale.
type racingReviews struct {
	*memory.ReviewStore
	between func()
}

func (r *racingReviews) FindByID(ctx context.Context, id string) (*domain.Review, error) {
	review, err := r.ReviewStore.FindByID(ctx, id)
	if r.between != nil {
		between := r.between
		r.between = nil
		between()
	}
	return review, err
}

func (s *ReviewServiceSuite) editorRacing(between func()) application.ReviewService {
	ratings := application.NewRatingRecalculator(s.h.reviews, s.h.cafes, s.h.cache, nil, nil)
	store := &racingReviews{ReviewStore: s.h.reviews, between: between}
	return application.NewReviewService(store, s.h.votes, s.h.cafes, ratings, nil, nil, nil)
}

func (s *ReviewServiceSuite) approvedSet() []domain.Review {
	approved, err := s.h.reviews.ApprovedByCafe(s.ctx, s.cafe.ID)
	s.Require().NoError(err)
	return approved
}

func (s *ReviewServiceSuite) TestApprovalDuringEditSurvives() {
	review := s.submit(alice, 4, nil)
	editor := s.editorRacing(func() { s.decide(review.ID, "APPROVED") })

	updated, err := editor.Update(s.ctx, alice, review.ID, application.ReviewCommand{OverallRating: 2})
	s.Require().NoError(err)

	s.Equal(domain.ReviewApproved, updated.Status)
	s.Equal(admin.ID, updated.Moderation.AdminID)
	s.Len(s.approvedSet(), 1)
	s.Equal(1, s.ratings().ReviewsCount)
	s.InDelta(2.0, s.ratings().AvgRating, 1e-9)
}

func (s *ReviewServiceSuite) TestRejectionDuringEditLeavesApprovedSet() {
	review := s.submit(alice, 5, nil)
	s.decide(review.ID, "APPROVED")
	editor := s.editorRacing(func() { s.decide(review.ID, "REJECTED") })

	updated, err := editor.Update(s.ctx, alice, review.ID, application.ReviewCommand{OverallRating: 3})
	s.Require().NoError(err)

	s.Equal(domain.ReviewRejected, updated.Status)
	s.Empty(s.approvedSet())
	s.Equal(domain.RatingSummary{}, s.ratings())
}

func (s *ReviewServiceSuite) TestVotesDuringEditAreKept() {
	review := s.submit(alice, 5, nil)
	editor := s.editorRacing(func() {
		_, err := s.h.reviewSvc.Like(s.ctx, bob, review.ID)
		s.Require().NoError(err)
	})

	updated, err := editor.Update(s.ctx, alice, review.ID, application.ReviewCommand{OverallRating: 4})
	s.Require().NoError(err)
	s.Equal(1, updated.Likes)
	s.Equal(4, updated.Overall.Int())
}
