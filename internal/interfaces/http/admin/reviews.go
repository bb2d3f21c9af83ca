package admin

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sngm3741/cafe-finder/api/internal/cafe/application"
	"github.com/sngm3741/cafe-finder/api/internal/cafe/domain"
	"github.com/sngm3741/cafe-finder/api/internal/interfaces/http/common"
)

// parseReviewStatus accepts PENDING, APPROVED, REJECTED or ALL. ALL and an
// empty value mean no status filter.
func parseReviewStatus(raw string) (*domain.ReviewStatus, error) {
	value := strings.ToUpper(strings.TrimSpace(raw))
	switch status := domain.ReviewStatus(value); status {
	case "", "ALL":
		return nil, nil
	case domain.ReviewPending, domain.ReviewApproved, domain.ReviewRejected:
		return &status, nil
	}
	return nil, domain.Validationf("status must be one of PENDING, APPROVED, REJECTED, ALL")
}

func (h *Handler) reviewListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		query := r.URL.Query()
		status, err := parseReviewStatus(query.Get("status"))
		if err != nil {
			common.WriteError(h.logger, w, err, "failed to list reviews")
			return
		}
		h.writeReviewList(ctx, w, r, status)
	}
}

func (h *Handler) reviewPendingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		pending := domain.ReviewPending
		h.writeReviewList(ctx, w, r, &pending)
	}
}

func (h *Handler) writeReviewList(ctx context.Context, w http.ResponseWriter, r *http.Request, status *domain.ReviewStatus) {
	page, limit := common.ParsePaging(r.URL.Query())
	actor, _ := common.PrincipalFromContext(r.Context())
	reviews, err := h.reviews.List(ctx, actor, status, application.Paging{Page: page, Limit: limit})
	if err != nil {
		common.WriteError(h.logger, w, err, "failed to list reviews")
		return
	}
	common.WriteJSON(h.logger, w, http.StatusOK, common.NewReviewListResponse(reviews))
}

func (h *Handler) reviewDecisionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		var req decisionRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteError(h.logger, w, err, "failed to moderate review")
			return
		}
		actor, _ := common.PrincipalFromContext(r.Context())
		review, err := h.reviews.Decide(ctx, actor, chi.URLParam(r, "id"), req.toCommand())
		if err != nil {
			common.WriteError(h.logger, w, err, "failed to moderate review")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, common.NewReviewResponse(*review))
	}
}
