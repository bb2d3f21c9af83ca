package memory

import (
	"context"
	"sync"

	"github.com/sngm3741/cafe-finder/api/internal/cafe/application"
)

type voteKey struct {
	reviewID string
	voterID  string
	counter  application.ReviewCounter
}

// VoteStore implements application.VoteRepository.
type VoteStore struct {
	mu    sync.Mutex
	votes map[voteKey]struct{}
}

func NewVoteStore() *VoteStore {
	return &VoteStore{votes: make(map[voteKey]struct{})}
}

func (s *VoteStore) Record(_ context.Context, reviewID, voterID string, counter application.ReviewCounter) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := voteKey{reviewID: reviewID, voterID: voterID, counter: counter}
	if _, ok := s.votes[key]; ok {
		return false, nil
	}
	s.votes[key] = struct{}{}
	return true, nil
}
