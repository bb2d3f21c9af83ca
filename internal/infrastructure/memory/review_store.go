package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sngm3741/cafe-finder/api/internal/cafe/application"
	"github.com/sngm3741/cafe-finder/api/internal/cafe/domain"
)

// ReviewStore implements application.ReviewRepository.
type ReviewStore struct {
	mu      sync.RWMutex
	reviews map[string]domain.Review
	order   []string
}

func NewReviewStore() *ReviewStore {
	return &ReviewStore{reviews: make(map[string]domain.Review)}
}

func (s *ReviewStore) Create(_ context.Context, review *domain.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	s.reviews[review.ID] = *review
	s.order = append(s.order, review.ID)
	return nil
}

func (s *ReviewStore) FindByID(_ context.Context, id string) (*domain.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	review, ok := s.reviews[id]
	if !ok {
		return nil, domain.NotFoundf("review %s", id)
	}
	return &review, nil
}

func (s *ReviewStore) Find(_ context.Context, filter application.ReviewFilter, paging application.Paging) ([]domain.Review, error) {
	matched := s.filter(func(r domain.Review) bool {
		if filter.CafeID != "" && r.CafeID != filter.CafeID {
			return false
		}
		if filter.UserID != "" && r.UserID != filter.UserID {
			return false
		}
		return filter.Status == nil || r.Status == *filter.Status
	})
	newestFirst(matched, func(r domain.Review) time.Time { return r.CreatedAt })
	return page(matched, paging.Skip(), paging.Limit), nil
}

func (s *ReviewStore) ApprovedByCafe(_ context.Context, cafeID string) ([]domain.Review, error) {
	return s.filter(func(r domain.Review) bool {
		return r.CafeID == cafeID && r.IsApproved()
	}), nil
}

// UpdateContent swaps the author content under the lock so a decision or a
// vote recorded since the caller read the review is kept.
func (s *ReviewStore) UpdateContent(_ context.Context, id string, content domain.ReviewContent, updatedAt time.Time) (*domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	review, ok := s.reviews[id]
	if !ok {
		return nil, domain.NotFoundf("review %s", id)
	}
	review.ReviewContent = content
	review.UpdatedAt = updatedAt
	s.reviews[id] = review
	return &review, nil
}

func (s *ReviewStore) UpdateModeration(_ context.Context, review *domain.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.reviews[review.ID]
	if !ok {
		return domain.NotFoundf("review %s", review.ID)
	}
	stored.Status = review.Status
	stored.Moderation = review.Moderation
	stored.UpdatedAt = review.UpdatedAt
	s.reviews[review.ID] = stored
	return nil
}

func (s *ReviewStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reviews[id]; !ok {
		return domain.NotFoundf("review %s", id)
	}
	delete(s.reviews, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *ReviewStore) Increment(_ context.Context, id string, counter application.ReviewCounter) (*domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	review, ok := s.reviews[id]
	if !ok {
		return nil, domain.NotFoundf("review %s", id)
	}
	switch counter {
	case application.CounterLikes:
		review.Likes++
	case application.CounterHelpful:
		review.HelpfulVotes++
	default:
		return nil, domain.Validationf("unknown counter %q", counter)
	}
	s.reviews[id] = review
	return &review, nil
}

func (s *ReviewStore) CountByStatus(_ context.Context) (map[domain.ReviewStatus]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[domain.ReviewStatus]int64)
	for _, r := range s.reviews {
		counts[r.Status]++
	}
	return counts, nil
}

func (s *ReviewStore) filter(keep func(domain.Review) bool) []domain.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Review, 0)
	for _, id := range s.order {
		if r := s.reviews[id]; keep(r) {
			result = append(result, r)
		}
	}
	return result
}
