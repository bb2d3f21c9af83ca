package public

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sngm3741/cafe-finder/api/internal/interfaces/http/common"
)

func (h *Handler) canClaimHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		eligibility, err := h.claims.CanClaim(ctx, chi.URLParam(r, "id"))
		if err != nil {
			common.WriteError(h.logger, w, err, "failed to check claim status")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, canClaimResponse{
			CanClaim:    eligibility.CanClaim,
			IsClaimed:   eligibility.IsClaimed,
			ClaimStatus: string(eligibility.ClaimStatus),
		})
	}
}

func (h *Handler) claimCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		var req claimRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteError(h.logger, w, err, "failed to submit claim")
			return
		}
		claim, err := h.claims.Submit(ctx, principal(r), chi.URLParam(r, "id"), req.toCommand())
		if err != nil {
			common.WriteError(h.logger, w, err, "failed to submit claim")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, common.NewClaimResponse(*claim))
	}
}

func (h *Handler) myClaimsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		claims, err := h.claims.Mine(ctx, principal(r))
		if err != nil {
			common.WriteError(h.logger, w, err, "failed to load claims")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, common.NewClaimListResponse(claims))
	}
}
