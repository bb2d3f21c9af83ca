package public

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sngm3741/cafe-finder/api/internal/cafe/application"
	"github.com/sngm3741/cafe-finder/api/internal/cafe/domain"
	"github.com/sngm3741/cafe-finder/api/internal/interfaces/http/common"
	"go.uber.org/zap"
)

// Handler wires public and signed-in HTTP endpoints to application services.
type Handler struct {
	logger    *zap.Logger
	directory application.DirectoryService
	search    application.SearchService
	reviews   application.ReviewService
	claims    application.ClaimService
	busy      application.BusyService
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger    *zap.Logger
	Directory application.DirectoryService
	Search    application.SearchService
	Reviews   application.ReviewService
	Claims    application.ClaimService
	Busy      application.BusyService
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		logger:    logger,
		directory: cfg.Directory,
		search:    cfg.Search,
		reviews:   cfg.Reviews,
		claims:    cfg.Claims,
		busy:      cfg.Busy,
	}
}

// Register mounts all public routes onto the router. Routes that act on behalf
// of a user are wrapped with authMiddleware.
func (h *Handler) Register(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Get("/cafes", h.cafeSearchHandler())
	r.Get("/cafes/popular", h.cafePopularHandler())
	r.Get("/cafes/nearby", h.cafeNearbyHandler())
	r.Get("/cafes/{id}", h.cafeDetailHandler())
	r.Get("/cafes/{id}/menu", h.cafeMenuHandler())
	r.Get("/cafes/{id}/reviews", h.cafeReviewsHandler())
	r.Get("/cafes/{id}/can-claim", h.canClaimHandler())
	r.Get("/cafes/{id}/busy", h.busyHistoryHandler())
	r.Get("/cafes/{id}/busy/current", h.busyCurrentHandler())
	r.Get("/cafes/{id}/busy/trends", h.busyTrendsHandler())
	r.Get("/reviews/recent", h.reviewRecentHandler())
	r.Get("/users/{id}/reviews", h.userReviewsHandler())

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/cafes", h.cafeCreateHandler())
		r.Put("/cafes/{id}", h.cafeUpdateHandler())
		r.Post("/cafes/{id}/reviews", h.reviewCreateHandler())
		r.Patch("/reviews/{id}", h.reviewUpdateHandler())
		r.Delete("/reviews/{id}", h.reviewDeleteHandler())
		r.Post("/reviews/{id}/like", h.reviewLikeHandler())
		r.Post("/reviews/{id}/helpful", h.reviewHelpfulHandler())
		r.Post("/cafes/{id}/claims", h.claimCreateHandler())
		r.Get("/me/claims", h.myClaimsHandler())
		r.Post("/cafes/{id}/busy", h.busyReportHandler())
		r.Get("/auth/verify", h.authVerifyHandler())
	})
}

// principal returns the caller placed in context by the auth middleware. An
// anonymous request yields the zero Principal, which every role check rejects.
func principal(r *http.Request) domain.Principal {
	p, _ := common.PrincipalFromContext(r.Context())
	return p
}

func (h *Handler) authVerifyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := common.PrincipalFromContext(r.Context())
		if !ok {
			common.WriteMessage(h.logger, w, http.StatusUnauthorized, "authentication required")
			return
		}
		roles := make([]string, 0, len(p.Roles))
		for _, role := range p.Roles {
			roles = append(roles, string(role))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{
			"status": "ok",
			"user": map[string]any{
				"id":       p.ID,
				"username": p.Username,
				"roles":    roles,
			},
		})
	}
}
