package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/sngm3741/cafe-finder/api/internal/cafe/application"
	"github.com/sngm3741/cafe-finder/api/internal/cafe/domain"
)

// ClaimStore implements application.ClaimRepository. Like the Mongo unique
// index, it allows at most one pending claim per cafe.
type ClaimStore struct {
	mu     sync.RWMutex
	claims map[string]domain.ClaimRequest
}

func NewClaimStore() *ClaimStore {
	return &ClaimStore{claims: make(map[string]domain.ClaimRequest)}
}

func (s *ClaimStore) Create(_ context.Context, claim *domain.ClaimRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if claim.Status == domain.ClaimPending {
		for _, existing := range s.claims {
			if existing.CafeID != claim.CafeID || existing.Status != domain.ClaimPending {
				continue
			}
			if existing.UserID == claim.UserID {
				return domain.ErrDuplicateClaim
			}
			return domain.ErrClaimInProgress
		}
	}
	if claim.ID == "" {
		claim.ID = uuid.NewString()
	}
	s.claims[claim.ID] = *claim
	return nil
}

func (s *ClaimStore) FindByID(_ context.Context, id string) (*domain.ClaimRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	claim, ok := s.claims[id]
	if !ok {
		return nil, domain.NotFoundf("claim %s", id)
	}
	return &claim, nil
}

// Find returns matching claims ordered by submission time, oldest first.
func (s *ClaimStore) Find(_ context.Context, filter application.ClaimFilter) ([]domain.ClaimRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.ClaimRequest, 0)
	for _, claim := range s.claims {
		if matchesClaim(claim, filter) {
			result = append(result, claim)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].SubmittedAt.Equal(result[j].SubmittedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].SubmittedAt.Before(result[j].SubmittedAt)
	})
	return result, nil
}

func (s *ClaimStore) UpdateDecision(_ context.Context, claim *domain.ClaimRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.claims[claim.ID]
	if !ok {
		return domain.NotFoundf("claim %s", claim.ID)
	}
	if existing.Status != domain.ClaimPending {
		return domain.ErrInvalidTransition
	}
	s.claims[claim.ID] = *claim
	return nil
}

func (s *ClaimStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.claims[id]; !ok {
		return domain.NotFoundf("claim %s", id)
	}
	delete(s.claims, id)
	return nil
}

func (s *ClaimStore) Count(_ context.Context, filter application.ClaimFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, claim := range s.claims {
		if matchesClaim(claim, filter) {
			n++
		}
	}
	return n, nil
}

func matchesClaim(claim domain.ClaimRequest, filter application.ClaimFilter) bool {
	if filter.CafeID != "" && claim.CafeID != filter.CafeID {
		return false
	}
	if filter.UserID != "" && claim.UserID != filter.UserID {
		return false
	}
	return filter.Status == nil || claim.Status == *filter.Status
}
