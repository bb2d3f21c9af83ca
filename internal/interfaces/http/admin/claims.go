package admin

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sngm3741/cafe-finder/api/internal/cafe/domain"
	"github.com/sngm3741/cafe-finder/api/internal/interfaces/http/common"
)

func (h *Handler) claimPendingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		actor, _ := common.PrincipalFromContext(r.Context())
		claims, err := h.claims.Pending(ctx, actor)
		if err != nil {
			common.WriteError(h.logger, w, err, "failed to list claims")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, common.NewClaimListResponse(claims))
	}
}

func (h *Handler) claimListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		cafeID := strings.TrimSpace(r.URL.Query().Get("cafeId"))
		if cafeID == "" {
			common.WriteError(h.logger, w, domain.Validationf("cafeId is required"), "failed to list claims")
			return
		}
		actor, _ := common.PrincipalFromContext(r.Context())
		claims, err := h.claims.ForCafe(ctx, actor, cafeID)
		if err != nil {
			common.WriteError(h.logger, w, err, "failed to list claims")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, common.NewClaimListResponse(claims))
	}
}

func (h *Handler) claimDecisionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		var req decisionRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteError(h.logger, w, err, "failed to decide claim")
			return
		}
		actor, _ := common.PrincipalFromContext(r.Context())
		claim, err := h.claims.Decide(ctx, actor, chi.URLParam(r, "id"), req.toCommand())
		if err != nil {
			common.WriteError(h.logger, w, err, "failed to decide claim")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, common.NewClaimResponse(*claim))
	}
}
