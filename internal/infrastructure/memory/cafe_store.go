// Package memory implements the repository ports with process-local maps.
// It backs the handler and service tests and local runs without MongoDB.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sngm3741/cafe-finder/api/internal/cafe/domain"
)

// CafeStore implements application.CafeRepository.
type CafeStore struct {
	mu    sync.RWMutex
	cafes map[string]domain.Cafe
	order []string
}

func NewCafeStore() *CafeStore {
	return &CafeStore{cafes: make(map[string]domain.Cafe)}
}

func (s *CafeStore) Create(_ context.Context, cafe *domain.Cafe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cafe.ID == "" {
		cafe.ID = uuid.NewString()
	}
	s.cafes[cafe.ID] = *cafe
	s.order = append(s.order, cafe.ID)
	return nil
}

func (s *CafeStore) FindByID(_ context.Context, id string) (*domain.Cafe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cafe, ok := s.cafes[id]
	if !ok {
		return nil, domain.NotFoundf("cafe %s", id)
	}
	return &cafe, nil
}

func (s *CafeStore) Search(_ context.Context, query domain.SearchQuery) ([]domain.Cafe, error) {
	return query.Filter(s.all()), nil
}

func (s *CafeStore) Popular(_ context.Context, limit int) ([]domain.Cafe, error) {
	return domain.Popular(s.all(), limit), nil
}

func (s *CafeStore) UpdateProfile(_ context.Context, id string, profile domain.Profile) error {
	return s.mutate(id, func(c *domain.Cafe) { c.Profile = profile })
}

func (s *CafeStore) UpdateRatings(_ context.Context, id string, ratings domain.RatingSummary) error {
	return s.mutate(id, func(c *domain.Cafe) { c.Ratings = ratings })
}

func (s *CafeStore) UpdateOwnership(_ context.Context, id string, ownership domain.Ownership) error {
	return s.mutate(id, func(c *domain.Cafe) { c.Ownership = ownership })
}

func (s *CafeStore) UpdateCrowd(_ context.Context, id string, status domain.CrowdStatus, waitMins *int) error {
	return s.mutate(id, func(c *domain.Cafe) {
		c.CurrentStatus = status
		c.CurrentWaitTime = waitMins
	})
}

func (s *CafeStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cafes[id]; !ok {
		return domain.NotFoundf("cafe %s", id)
	}
	delete(s.cafes, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *CafeStore) mutate(id string, apply func(*domain.Cafe)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cafe, ok := s.cafes[id]
	if !ok {
		return domain.NotFoundf("cafe %s", id)
	}
	apply(&cafe)
	cafe.UpdatedAt = time.Now().UTC()
	s.cafes[id] = cafe
	return nil
}

func (s *CafeStore) all() []domain.Cafe {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Cafe, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.cafes[id])
	}
	return result
}

// newestFirst sorts by the given timestamp, descending, keeping insertion order for ties.
func newestFirst[T any](items []T, at func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool { return at(items[i]).After(at(items[j])) })
}

func page[T any](items []T, skip, limit int) []T {
	if skip >= len(items) {
		return []T{}
	}
	items = items[skip:]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
