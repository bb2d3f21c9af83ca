package memory

import (
	"context"
	"sync"
	"time"

	"github.com/sngm3741/cafe-finder/api/internal/cafe/domain"
)

// PopularCache implements application.PopularCache with a TTL, for runs without Redis.
type PopularCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[int]popularEntry
}

type popularEntry struct {
	cafes     []domain.Cafe
	expiresAt time.Time
}

func NewPopularCache(ttl time.Duration) *PopularCache {
	return &PopularCache{ttl: ttl, entries: make(map[int]popularEntry)}
}

func (c *PopularCache) Get(_ context.Context, limit int) ([]domain.Cafe, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[limit]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(c.entries, limit)
		return nil, false, nil
	}
	return append([]domain.Cafe(nil), entry.cafes...), true, nil
}

func (c *PopularCache) Set(_ context.Context, limit int, cafes []domain.Cafe) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[limit] = popularEntry{
		cafes:     append([]domain.Cafe(nil), cafes...),
		expiresAt: time.Now().Add(c.ttl),
	}
	return nil
}

func (c *PopularCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[int]popularEntry)
	return nil
}
