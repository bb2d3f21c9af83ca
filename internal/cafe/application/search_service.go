package application

import (
	"context"
	"math"
	"time"

	"github.com/sngm3741/cafe-finder/api/internal/cafe/domain"
	"go.uber.org/zap"
)

type searchService struct {
	cafes   CafeRepository
	cache   PopularCache
	metrics Metrics
	logger  *zap.Logger
}

// NewSearchService wires cafe discovery. cache may be nil.
func NewSearchService(cafes CafeRepository, cache PopularCache, metrics Metrics, logger *zap.Logger) SearchService {
	if metrics == nil {
		metrics = NopMetrics()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &searchService{cafes: cafes, cache: cache, metrics: metrics, logger: logger}
}

func (s *searchService) Search(ctx context.Context, query domain.SearchQuery) ([]domain.Cafe, error) {
	defer s.metrics.ObserveSearch(time.Now())
	query = query.Normalize()
	if query.Near != nil {
		if r := query.Near.RadiusKm; math.IsNaN(r) || math.IsInf(r, 0) || r < 0 {
			return nil, domain.Validationf("radius must be a non-negative number")
		}
	}
	if query.MinRating != nil && math.IsNaN(*query.MinRating) {
		return nil, domain.Validationf("minRating must be a number")
	}
	return s.cafes.Search(ctx, query)
}

func (s *searchService) Nearby(ctx context.Context, center domain.Coordinates, radiusKm float64) ([]domain.Cafe, error) {
	if radiusKm <= 0 {
		radiusKm = domain.DefaultNearbyRadiusKm
	}
	return s.Search(ctx, domain.SearchQuery{Near: &domain.GeoFilter{Center: center, RadiusKm: radiusKm}})
}

func (s *searchService) Popular(ctx context.Context, limit int) ([]domain.Cafe, error) {
	limit = domain.ClampPopularLimit(limit)
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, limit)
		if err != nil {
			s.logger.Warn("popular cache read failed", zap.Int("limit", limit), zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	cafes, err := s.cafes.Popular(ctx, limit)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, limit, cafes); err != nil {
			s.logger.Warn("popular cache write failed", zap.Int("limit", limit), zap.Error(err))
		}
	}
	return cafes, nil
}
