package public

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sngm3741/cafe-finder/api/internal/cafe/application"
	"github.com/sngm3741/cafe-finder/api/internal/cafe/domain"
	"github.com/sngm3741/cafe-finder/api/internal/interfaces/http/common"
)

const defaultRecentLimit = 10

func (h *Handler) cafeReviewsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		page, limit := common.ParsePaging(r.URL.Query())
		reviews, err := h.reviews.ApprovedForCafe(ctx, chi.URLParam(r, "id"), application.Paging{Page: page, Limit: limit})
		if err != nil {
			common.WriteError(h.logger, w, err, "failed to load reviews")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, common.NewReviewListResponse(reviews))
	}
}

func (h *Handler) userReviewsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		page, limit := common.ParsePaging(r.URL.Query())
		reviews, err := h.reviews.ApprovedForUser(ctx, chi.URLParam(r, "id"), application.Paging{Page: page, Limit: limit})
		if err != nil {
			common.WriteError(h.logger, w, err, "failed to load reviews")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, common.NewReviewListResponse(reviews))
	}
}

func (h *Handler) reviewRecentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		limit, _ := common.ParsePositiveInt(r.URL.Query().Get("limit"), defaultRecentLimit)
		if limit > common.MaxPageLimit {
			limit = common.MaxPageLimit
		}
		reviews, err := h.reviews.Recent(ctx, limit)
		if err != nil {
			common.WriteError(h.logger, w, err, "failed to load reviews")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, common.NewReviewListResponse(reviews))
	}
}

func (h *Handler) reviewCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		var req reviewRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteError(h.logger, w, err, "failed to submit review")
			return
		}
		review, err := h.reviews.Submit(ctx, principal(r), chi.URLParam(r, "id"), req.toCommand())
		if err != nil {
			common.WriteError(h.logger, w, err, "failed to submit review")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, common.NewReviewResponse(*review))
	}
}

func (h *Handler) reviewUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		var req reviewRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteError(h.logger, w, err, "failed to update review")
			return
		}
		review, err := h.reviews.Update(ctx, principal(r), chi.URLParam(r, "id"), req.toCommand())
		if err != nil {
			common.WriteError(h.logger, w, err, "failed to update review")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, common.NewReviewResponse(*review))
	}
}

func (h *Handler) reviewDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		if err := h.reviews.Delete(ctx, principal(r), chi.URLParam(r, "id")); err != nil {
			common.WriteError(h.logger, w, err, "failed to delete review")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handler) reviewLikeHandler() http.HandlerFunc {
	return h.reviewVoteHandler(h.reviews.Like)
}

func (h *Handler) reviewHelpfulHandler() http.HandlerFunc {
	return h.reviewVoteHandler(h.reviews.MarkHelpful)
}

type reviewVote func(ctx context.Context, actor domain.Principal, id string) (*domain.Review, error)

func (h *Handler) reviewVoteHandler(vote reviewVote) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		review, err := vote(ctx, principal(r), chi.URLParam(r, "id"))
		if err != nil {
			common.WriteError(h.logger, w, err, "failed to record vote")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{
			"id":           review.ID,
			"likes":        review.Likes,
			"helpfulVotes": review.HelpfulVotes,
		})
	}
}
