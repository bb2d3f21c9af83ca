package application

import (
	"context"

	"github.com/sngm3741/cafe-finder/api/internal/cafe/domain"
)

// DirectoryService describes cafe listing use-cases.
type DirectoryService interface {
	Create(ctx context.Context, actor domain.Principal, cmd UpsertCafeCommand) (*domain.Cafe, error)
	Update(ctx context.Context, actor domain.Principal, id string, cmd UpsertCafeCommand) (*domain.Cafe, error)
	Detail(ctx context.Context, id string) (*domain.Cafe, error)
	Menu(ctx context.Context, id string) ([]domain.MenuItem, error)
	Delete(ctx context.Context, actor domain.Principal, id string) error
}

// SearchService describes cafe discovery use-cases.
type SearchService interface {
	Search(ctx context.Context, query domain.SearchQuery) ([]domain.Cafe, error)
	Nearby(ctx context.Context, center domain.Coordinates, radiusKm float64) ([]domain.Cafe, error)
	Popular(ctx context.Context, limit int) ([]domain.Cafe, error)
}

// ReviewService describes review submission and moderation use-cases.
type ReviewService interface {
	Submit(ctx context.Context, actor domain.Principal, cafeID string, cmd ReviewCommand) (*domain.Review, error)
	Update(ctx context.Context, actor domain.Principal, id string, cmd ReviewCommand) (*domain.Review, error)
	Delete(ctx context.Context, actor domain.Principal, id string) error
	Decide(ctx context.Context, actor domain.Principal, id string, cmd DecideCommand) (*domain.Review, error)
	Like(ctx context.Context, actor domain.Principal, id string) (*domain.Review, error)
	MarkHelpful(ctx context.Context, actor domain.Principal, id string) (*domain.Review, error)
	ApprovedForCafe(ctx context.Context, cafeID string, paging Paging) ([]domain.Review, error)
	ApprovedForUser(ctx context.Context, userID string, paging Paging) ([]domain.Review, error)
	Recent(ctx context.Context, limit int) ([]domain.Review, error)
	List(ctx context.Context, actor domain.Principal, status *domain.ReviewStatus, paging Paging) ([]domain.Review, error)
}

// ClaimService describes the ownership claim workflow.
type ClaimService interface {
	Submit(ctx context.Context, actor domain.Principal, cafeID string, cmd ClaimCommand) (*domain.ClaimRequest, error)
	Decide(ctx context.Context, actor domain.Principal, id string, cmd DecideCommand) (*domain.ClaimRequest, error)
	CanClaim(ctx context.Context, cafeID string) (ClaimEligibility, error)
	Mine(ctx context.Context, actor domain.Principal) ([]domain.ClaimRequest, error)
	ForCafe(ctx context.Context, actor domain.Principal, cafeID string) ([]domain.ClaimRequest, error)
	Pending(ctx context.Context, actor domain.Principal) ([]domain.ClaimRequest, error)
}

// BusyService describes crowd reporting use-cases.
type BusyService interface {
	Report(ctx context.Context, actor domain.Principal, cafeID string, cmd BusyReportCommand) (*domain.BusyEntry, error)
	History(ctx context.Context, cafeID string, hours int) ([]domain.BusyEntry, error)
	Current(ctx context.Context, cafeID string) (domain.CurrentCrowd, error)
	Trends(ctx context.Context, cafeID string, days int) ([]domain.HourlyTrend, error)
}

// StatsService describes the admin dashboard.
type StatsService interface {
	Overview(ctx context.Context, actor domain.Principal) (ModerationStats, error)
}

// UpsertCafeCommand contains inputs for creating/updating cafes.
type UpsertCafeCommand struct {
	Name             string
	Description      string
	Latitude         float64
	Longitude        float64
	Street           string
	City             string
	State            string
	ZipCode          string
	Phone            string
	Website          string
	Hours            map[string]string
	Tags             []string
	Amenities        domain.Amenities
	PriceRange       string
	Parking          string
	AlternativeMilks []string
	CoffeeTypes      []string
	DietaryOptions   []string
	MenuItems        []MenuItemCommand
	Instagram        string
	Twitter          string
	Facebook         string
	Photos           []string
}

type MenuItemCommand struct {
	Name     string
	Category string
	Price    float64
}

// ReviewCommand contains the author-supplied part of a review.
type ReviewCommand struct {
	OverallRating  int
	CoffeeRating   *int
	TasteRating    *int
	AmbianceRating *int
	ServiceRating  *int
	ValueRating    *int
	Text           string
	TasteNotes     []string
	Photos         []string
}

// DecideCommand carries an admin verdict.
type DecideCommand struct {
	Decision string
	Notes    string
}

// ClaimCommand carries the claimant's business details.
type ClaimCommand struct {
	BusinessEmail string
	BusinessPhone string
	OwnerName     string
	OwnerTitle    string
	Reason        string
}

type BusyReportCommand struct {
	CrowdLevel int
	WaitMins   *int
}

// ClaimEligibility answers whether a cafe can be claimed right now.
type ClaimEligibility struct {
	CanClaim    bool
	IsClaimed   bool
	ClaimStatus domain.ClaimStatus
}

// ModerationStats summarises the moderation queues.
type ModerationStats struct {
	TotalReviews    int64
	PendingReviews  int64
	ApprovedReviews int64
	RejectedReviews int64
	PendingClaims   int64
}
