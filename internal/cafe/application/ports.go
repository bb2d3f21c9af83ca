package application

import (
	"context"
	"time"

	"github.com/sngm3741/cafe-finder/api/internal/cafe/domain"
)

// CafeRepository persists cafes. Each Update* call must apply as a single-document write.
type CafeRepository interface {
	Create(ctx context.Context, cafe *domain.Cafe) error
	FindByID(ctx context.Context, id string) (*domain.Cafe, error)
	Search(ctx context.Context, query domain.SearchQuery) ([]domain.Cafe, error)
	Popular(ctx context.Context, limit int) ([]domain.Cafe, error)
	UpdateProfile(ctx context.Context, id string, profile domain.Profile) error
	UpdateRatings(ctx context.Context, id string, ratings domain.RatingSummary) error
	UpdateOwnership(ctx context.Context, id string, ownership domain.Ownership) error
	UpdateCrowd(ctx context.Context, id string, status domain.CrowdStatus, waitMins *int) error
	Delete(ctx context.Context, id string) error
}

// ReviewRepository persists reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	FindByID(ctx context.Context, id string) (*domain.Review, error)
	Find(ctx context.Context, filter ReviewFilter, paging Paging) ([]domain.Review, error)
	ApprovedByCafe(ctx context.Context, cafeID string) ([]domain.Review, error)
	// UpdateContent replaces the author-editable fields only and returns the
	// review as stored afterwards.
	UpdateContent(ctx context.Context, id string, content domain.ReviewContent, updatedAt time.Time) (*domain.Review, error)
	// UpdateModeration writes status and the moderation audit fields only.
	UpdateModeration(ctx context.Context, review *domain.Review) error
	Delete(ctx context.Context, id string) error
	Increment(ctx context.Context, id string, counter ReviewCounter) (*domain.Review, error)
	CountByStatus(ctx context.Context) (map[domain.ReviewStatus]int64, error)
}

// VoteRepository remembers which users liked or marked a review helpful.
type VoteRepository interface {
	// Record stores the vote and reports whether the voter had not cast it before.
	Record(ctx context.Context, reviewID, voterID string, counter ReviewCounter) (bool, error)
}

// ClaimRepository persists ownership claims.
type ClaimRepository interface {
	Create(ctx context.Context, claim *domain.ClaimRequest) error
	FindByID(ctx context.Context, id string) (*domain.ClaimRequest, error)
	Find(ctx context.Context, filter ClaimFilter) ([]domain.ClaimRequest, error)
	// UpdateDecision stores a decided claim only if it is still pending.
	UpdateDecision(ctx context.Context, claim *domain.ClaimRequest) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, filter ClaimFilter) (int64, error)
}

// BusyRepository persists crowd reports.
type BusyRepository interface {
	Create(ctx context.Context, entry *domain.BusyEntry) error
	Since(ctx context.Context, cafeID string, since time.Time) ([]domain.BusyEntry, error)
	Latest(ctx context.Context, cafeID string) (*domain.BusyEntry, error)
}

// PopularCache stores popular-cafe lists keyed by limit.
type PopularCache interface {
	Get(ctx context.Context, limit int) ([]domain.Cafe, bool, error)
	Set(ctx context.Context, limit int, cafes []domain.Cafe) error
	Invalidate(ctx context.Context) error
}

// Metrics receives domain events worth counting.
type Metrics interface {
	ReviewSubmitted()
	ReviewDecided(decision domain.Decision)
	ClaimSubmitted()
	ClaimDecided(decision domain.Decision)
	RatingsRecalculated()
	ObserveSearch(start time.Time)
}

// Notifier tells moderators about new submissions.
type Notifier interface {
	ReviewSubmitted(ctx context.Context, cafe domain.Cafe, review domain.Review)
	ClaimSubmitted(ctx context.Context, cafe domain.Cafe, claim domain.ClaimRequest)
}

// ReviewFilter narrows review listings. Empty fields are not applied.
type ReviewFilter struct {
	CafeID string
	UserID string
	Status *domain.ReviewStatus
}

// ClaimFilter narrows claim listings. Empty fields are not applied.
type ClaimFilter struct {
	CafeID string
	UserID string
	Status *domain.ClaimRequestStatus
}

// Paging controls pagination. Results are ordered newest first.
type Paging struct {
	Page  int
	Limit int
}

// Skip returns the number of records preceding the page.
func (p Paging) Skip() int {
	if p.Limit <= 0 || p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

type ReviewCounter string

const (
	CounterLikes   ReviewCounter = "likes"
	CounterHelpful ReviewCounter = "helpfulVotes"
)

type nopMetrics struct{}

func (nopMetrics) ReviewSubmitted()              {}
func (nopMetrics) ReviewDecided(domain.Decision) {}
func (nopMetrics) ClaimSubmitted()               {}
func (nopMetrics) ClaimDecided(domain.Decision)  {}
func (nopMetrics) RatingsRecalculated()          {}
func (nopMetrics) ObserveSearch(time.Time)       {}

// NopMetrics discards every observation.
func NopMetrics() Metrics { return nopMetrics{} }

var now = func() time.Time { return time.Now().UTC() }
