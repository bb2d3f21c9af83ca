package application_test

import (
	"context"
	"time"

	"github.com/sngm3741/cafe-finder/api/internal/cafe/application"
	"github.com/sngm3741/cafe-finder/api/internal/cafe/domain"
	"github.com/sngm3741/cafe-finder/api/internal/infrastructure/memory"
)

var (
	admin     = domain.Principal{ID: "admin-1", Username: "admin", Roles: []domain.Role{domain.RoleAdmin}}
	alice     = domain.Principal{ID: "user-alice", Username: "alice", Roles: []domain.Role{domain.RoleUser}}
	bob       = domain.Principal{ID: "user-bob", Username: "bob", Roles: []domain.Role{domain.RoleUser}}
	nobody    = domain.Principal{}
	guideOnly = domain.Principal{ID: "guide", Roles: []domain.Role{domain.RoleLocalGuide}}
)

// harness wires every service over fresh in-memory stores.
type harness struct {
	cafes     *memory.CafeStore
	reviews   *memory.ReviewStore
	claims    *memory.ClaimStore
	votes     *memory.VoteStore
	busy      *memory.BusyStore
	cache     *memory.PopularCache
	directory application.DirectoryService
	search    application.SearchService
	reviewSvc application.ReviewService
	claimSvc  application.ClaimService
	busySvc   application.BusyService
	stats     application.StatsService
}

func newHarness() *harness {
	h := &harness{
		cafes:   memory.NewCafeStore(),
		reviews: memory.NewReviewStore(),
		votes:   memory.NewVoteStore(),
		claims:  memory.NewClaimStore(),
		busy:    memory.NewBusyStore(),
		cache:   memory.NewPopularCache(time.Minute),
	}
	ratings := application.NewRatingRecalculator(h.reviews, h.cafes, h.cache, nil, nil)
	h.directory = application.NewDirectoryService(h.cafes, h.cache, nil)
	h.search = application.NewSearchService(h.cafes, h.cache, nil, nil)
	h.reviewSvc = application.NewReviewService(h.reviews, h.votes, h.cafes, ratings, nil, nil, nil)
	h.claimSvc = application.NewClaimService(h.claims, h.cafes, nil, nil, nil)
	h.busySvc = application.NewBusyService(h.busy, h.cafes)
	h.stats = application.NewStatsService(h.reviews, h.claims)
	return h
}

func cafeCommand(name string, lat, lng float64) application.UpsertCafeCommand {
	return application.UpsertCafeCommand{
		Name:        name,
		Description: "Neighbourhood coffee",
		Latitude:    lat,
		Longitude:   lng,
		City:        "Atlanta",
		PriceRange:  "$$",
		Amenities:   domain.Amenities{WiFi: true, Seating: true},
		Tags:        []string{"espresso"},
	}
}

func (h *harness) createCafe(ctx context.Context, name string) *domain.Cafe {
	cafe, err := h.directory.Create(ctx, admin, cafeCommand(name, 33.7731, -84.4044))
	if err != nil {
		panic(err)
	}
	return cafe
}

func intPtr(v int) *int {
	return &v
}
