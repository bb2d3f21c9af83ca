package application

import (
	"context"

	"github.com/sngm3741/cafe-finder/api/internal/cafe/domain"
	"go.uber.org/zap"
)

// RatingRecalculator rebuilds a cafe's rating fields from the approved reviews
// currently stored, never from cached values.
type RatingRecalculator struct {
	reviews ReviewRepository
	cafes   CafeRepository
	cache   PopularCache
	metrics Metrics
	logger  *zap.Logger
}

func NewRatingRecalculator(reviews ReviewRepository, cafes CafeRepository, cache PopularCache, metrics Metrics, logger *zap.Logger) *RatingRecalculator {
	if metrics == nil {
		metrics = NopMetrics()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RatingRecalculator{reviews: reviews, cafes: cafes, cache: cache, metrics: metrics, logger: logger}
}

// Recalculate is safe to retry: the same approved set always produces the same fields.
func (r *RatingRecalculator) Recalculate(ctx context.Context, cafeID string) (domain.RatingSummary, error) {
	approved, err := r.reviews.ApprovedByCafe(ctx, cafeID)
	if err != nil {
		return domain.RatingSummary{}, err
	}
	summary := domain.Aggregate(approved)
	if err := r.cafes.UpdateRatings(ctx, cafeID, summary); err != nil {
		return domain.RatingSummary{}, err
	}
	r.metrics.RatingsRecalculated()
	if r.cache != nil {
		if err := r.cache.Invalidate(ctx); err != nil {
			r.logger.Warn("popular cache invalidation failed", zap.String("cafeId", cafeID), zap.Error(err))
		}
	}
	return summary, nil
}
