//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/sngm3741/cafe-finder/api/internal/cafe/domain"
)

type PopularCacheSuite struct {
	suite.Suite
	container *tcredis.RedisContainer
	client    *redis.Client
	cache     *PopularCache
}

func TestPopularCacheSuite(t *testing.T) {
	suite.Run(t, new(PopularCacheSuite))
}

func (s *PopularCacheSuite) SetupSuite() {
	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	s.Require().NoError(err)
	s.container = container

	uri, err := container.ConnectionString(ctx)
	s.Require().NoError(err)
	opts, err := redis.ParseURL(uri)
	s.Require().NoError(err)

	client, err := NewRedisClient(ctx, RedisOptions{Addr: opts.Addr})
	s.Require().NoError(err)
	s.client = client
}

func (s *PopularCacheSuite) TearDownSuite() {
	if s.client != nil {
		_ = s.client.Close()
	}
	if err := testcontainers.TerminateContainer(s.container); err != nil {
		s.T().Logf("terminate container: %v", err)
	}
}

func (s *PopularCacheSuite) SetupTest() {
	s.Require().NoError(s.client.FlushAll(context.Background()).Err())
	s.cache = NewPopularCache(s.client, time.Minute, "test")
}

func (s *PopularCacheSuite) TestRoundTrip() {
	ctx := context.Background()
	_, ok, err := s.cache.Get(ctx, 10)
	s.Require().NoError(err)
	s.False(ok)

	cafes := []domain.Cafe{
		{ID: "a", Profile: domain.Profile{Name: "Octane"}, Ratings: domain.RatingSummary{AvgRating: 4.5, ReviewsCount: 2}},
		{ID: "b", Profile: domain.Profile{Name: "Dark Horse"}},
	}
	s.Require().NoError(s.cache.Set(ctx, 10, cafes))

	got, ok, err := s.cache.Get(ctx, 10)
	s.Require().NoError(err)
	s.True(ok)
	s.Require().Len(got, 2)
	s.Equal("Octane", got[0].Name)
	s.Equal(2, got[0].Ratings.ReviewsCount)

	_, ok, err = s.cache.Get(ctx, 5)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *PopularCacheSuite) TestInvalidate() {
	ctx := context.Background()
	s.Require().NoError(s.cache.Set(ctx, 10, []domain.Cafe{{ID: "a"}}))
	s.Require().NoError(s.cache.Invalidate(ctx))

	_, ok, err := s.cache.Get(ctx, 10)
	s.Require().NoError(err)
	s.False(ok)

	s.Require().NoError(s.cache.Set(ctx, 10, []domain.Cafe{{ID: "b"}}))
	got, ok, err := s.cache.Get(ctx, 10)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal("b", got[0].ID)
}
