package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sngm3741/cafe-finder/api/internal/cafe/domain"
)

// BusyStore implements application.BusyRepository.
type BusyStore struct {
	mu      sync.RWMutex
	entries []domain.BusyEntry
}

func NewBusyStore() *BusyStore {
	return &BusyStore{}
}

func (s *BusyStore) Create(_ context.Context, entry *domain.BusyEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	s.entries = append(s.entries, *entry)
	return nil
}

// Since returns the cafe's entries at or after since, newest first.
func (s *BusyStore) Since(_ context.Context, cafeID string, since time.Time) ([]domain.BusyEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.BusyEntry, 0)
	for _, e := range s.entries {
		if e.CafeID == cafeID && !e.Timestamp.Before(since) {
			result = append(result, e)
		}
	}
	newestFirst(result, func(e domain.BusyEntry) time.Time { return e.Timestamp })
	return result, nil
}

func (s *BusyStore) Latest(ctx context.Context, cafeID string) (*domain.BusyEntry, error) {
	entries, err := s.Since(ctx, cafeID, time.Time{})
	if err != nil || len(entries) == 0 {
		return nil, err
	}
	latest := entries[0]
	return &latest, nil
}
