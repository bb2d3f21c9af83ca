package admin

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sngm3741/cafe-finder/api/internal/interfaces/http/common"
)

func (h *Handler) cafeDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		actor, _ := common.PrincipalFromContext(r.Context())
		if err := h.directory.Delete(ctx, actor, chi.URLParam(r, "id")); err != nil {
			common.WriteError(h.logger, w, err, "failed to delete cafe")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handler) statsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		actor, _ := common.PrincipalFromContext(r.Context())
		stats, err := h.stats.Overview(ctx, actor)
		if err != nil {
			common.WriteError(h.logger, w, err, "failed to load stats")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, statsResponse{
			TotalReviews:    stats.TotalReviews,
			PendingReviews:  stats.PendingReviews,
			ApprovedReviews: stats.ApprovedReviews,
			RejectedReviews: stats.RejectedReviews,
			PendingClaims:   stats.PendingClaims,
		})
	}
}
