package admin

import (
	"github.com/go-chi/chi/v5"
	"github.com/sngm3741/cafe-finder/api/internal/cafe/application"
	"go.uber.org/zap"
)

// Handler wires admin HTTP endpoints to application services. Every route
// requires the ADMIN role; the services enforce it.
type Handler struct {
	logger    *zap.Logger
	directory application.DirectoryService
	reviews   application.ReviewService
	claims    application.ClaimService
	stats     application.StatsService
}

// Config provides dependencies for Handler.
type Config struct {
	Logger    *zap.Logger
	Directory application.DirectoryService
	Reviews   application.ReviewService
	Claims    application.ClaimService
	Stats     application.StatsService
}

// NewHandler constructs an admin HTTP handler set.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		logger:    logger,
		directory: cfg.Directory,
		reviews:   cfg.Reviews,
		claims:    cfg.Claims,
		stats:     cfg.Stats,
	}
}

// Register mounts admin routes onto router.
func (h *Handler) Register(r chi.Router) {
	r.Delete("/cafes/{id}", h.cafeDeleteHandler())
	r.Get("/reviews", h.reviewListHandler())
	r.Get("/reviews/pending", h.reviewPendingHandler())
	r.Post("/reviews/{id}/decision", h.reviewDecisionHandler())
	r.Get("/claims", h.claimListHandler())
	r.Get("/claims/pending", h.claimPendingHandler())
	r.Post("/claims/{id}/decision", h.claimDecisionHandler())
	r.Get("/stats", h.statsHandler())
}
