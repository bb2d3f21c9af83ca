package application

import (
	"context"

	"github.com/sngm3741/cafe-finder/api/internal/cafe/domain"
	"golang.org/x/sync/errgroup"
)

type statsService struct {
	reviews ReviewRepository
	claims  ClaimRepository
}

func NewStatsService(reviews ReviewRepository, claims ClaimRepository) StatsService {
	return &statsService{reviews: reviews, claims: claims}
}

func (s *statsService) Overview(ctx context.Context, actor domain.Principal) (ModerationStats, error) {
	if err := actor.Require(domain.RoleAdmin); err != nil {
		return ModerationStats{}, err
	}

	var (
		byStatus      map[domain.ReviewStatus]int64
		pendingClaims int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		counts, err := s.reviews.CountByStatus(gctx)
		byStatus = counts
		return err
	})
	g.Go(func() error {
		status := domain.ClaimPending
		n, err := s.claims.Count(gctx, ClaimFilter{Status: &status})
		pendingClaims = n
		return err
	})
	if err := g.Wait(); err != nil {
		return ModerationStats{}, err
	}

	stats := ModerationStats{
		PendingReviews:  byStatus[domain.ReviewPending],
		ApprovedReviews: byStatus[domain.ReviewApproved],
		RejectedReviews: byStatus[domain.ReviewRejected],
		PendingClaims:   pendingClaims,
	}
	stats.TotalReviews = stats.PendingReviews + stats.ApprovedReviews + stats.RejectedReviews
	return stats, nil
}
