package public

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sngm3741/cafe-finder/api/internal/cafe/domain"
	"github.com/sngm3741/cafe-finder/api/internal/interfaces/http/common"
)

func (h *Handler) cafeSearchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		query, err := parseSearchQuery(r)
		if err != nil {
			common.WriteError(h.logger, w, err, "failed to search cafes")
			return
		}
		cafes, err := h.search.Search(ctx, query)
		if err != nil {
			common.WriteError(h.logger, w, err, "failed to search cafes")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, common.NewCafeListResponse(cafes))
	}
}

func parseSearchQuery(r *http.Request) (domain.SearchQuery, error) {
	values := r.URL.Query()
	query := domain.SearchQuery{
		Text: common.QueryString(values, "q"),
		City: common.QueryString(values, "city"),
	}

	var err error
	if query.WiFi, err = common.QueryBool(values, "wifi"); err != nil {
		return domain.SearchQuery{}, err
	}
	if query.Seating, err = common.QueryBool(values, "seating"); err != nil {
		return domain.SearchQuery{}, err
	}
	if query.WorkFriendly, err = common.QueryBool(values, "workFriendly"); err != nil {
		return domain.SearchQuery{}, err
	}
	if query.MinRating, err = common.QueryFloat(values, "minRating"); err != nil {
		return domain.SearchQuery{}, err
	}
	if raw := common.QueryString(values, "priceRange"); raw != nil {
		price, err := domain.NewPriceRange(*raw)
		if err != nil {
			return domain.SearchQuery{}, err
		}
		query.PriceRange = &price
	}

	center, err := parseCenter(values.Get("lat"), values.Get("lng"), false)
	if err != nil {
		return domain.SearchQuery{}, err
	}
	if center != nil {
		radius, err := parseRadius(values.Get("radius"), domain.DefaultSearchRadiusKm)
		if err != nil {
			return domain.SearchQuery{}, err
		}
		query.Near = &domain.GeoFilter{Center: *center, RadiusKm: radius}
	}
	return query, nil
}

// parseCenter reads a lat/lng pair. Both or neither must be present unless
// required is set, in which case both must be.
func parseCenter(latRaw, lngRaw string, required bool) (*domain.Coordinates, error) {
	latRaw, lngRaw = strings.TrimSpace(latRaw), strings.TrimSpace(lngRaw)
	if latRaw == "" && lngRaw == "" && !required {
		return nil, nil
	}
	if latRaw == "" || lngRaw == "" {
		return nil, domain.Validationf("lat and lng must be provided together")
	}
	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		return nil, domain.Validationf("lat must be a number")
	}
	lng, err := strconv.ParseFloat(lngRaw, 64)
	if err != nil {
		return nil, domain.Validationf("lng must be a number")
	}
	center, err := domain.NewCoordinates(lat, lng)
	if err != nil {
		return nil, err
	}
	return &center, nil
}

func parseRadius(raw string, fallback float64) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	radius, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(radius) || math.IsInf(radius, 0) || radius < 0 {
		return 0, domain.Validationf("radius must be a non-negative number")
	}
	return radius, nil
}

func (h *Handler) cafeNearbyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		values := r.URL.Query()
		center, err := parseCenter(values.Get("lat"), values.Get("lng"), true)
		if err != nil {
			common.WriteError(h.logger, w, err, "failed to find nearby cafes")
			return
		}
		radius, err := parseRadius(values.Get("radius"), domain.DefaultNearbyRadiusKm)
		if err != nil {
			common.WriteError(h.logger, w, err, "failed to find nearby cafes")
			return
		}
		cafes, err := h.search.Nearby(ctx, *center, radius)
		if err != nil {
			common.WriteError(h.logger, w, err, "failed to find nearby cafes")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, common.NewCafeListResponse(cafes))
	}
}

func (h *Handler) cafePopularHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		limit, _ := common.ParsePositiveInt(r.URL.Query().Get("limit"), domain.DefaultPopularLimit)
		cafes, err := h.search.Popular(ctx, limit)
		if err != nil {
			common.WriteError(h.logger, w, err, "failed to load popular cafes")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, common.NewCafeListResponse(cafes))
	}
}

func (h *Handler) cafeDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		cafe, err := h.directory.Detail(ctx, chi.URLParam(r, "id"))
		if err != nil {
			common.WriteError(h.logger, w, err, "failed to load cafe")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, common.NewCafeResponse(*cafe))
	}
}

func (h *Handler) cafeMenuHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		menu, err := h.directory.Menu(ctx, chi.URLParam(r, "id"))
		if err != nil {
			common.WriteError(h.logger, w, err, "failed to load menu")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, common.NewMenuResponse(menu))
	}
}

func (h *Handler) cafeCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		var req cafeRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteError(h.logger, w, err, "failed to create cafe")
			return
		}
		cmd, err := req.toCommand()
		if err != nil {
			common.WriteError(h.logger, w, err, "failed to create cafe")
			return
		}
		cafe, err := h.directory.Create(ctx, principal(r), cmd)
		if err != nil {
			common.WriteError(h.logger, w, err, "failed to create cafe")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, common.NewCafeResponse(*cafe))
	}
}

func (h *Handler) cafeUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		var req cafeRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteError(h.logger, w, err, "failed to update cafe")
			return
		}
		cmd, err := req.toCommand()
		if err != nil {
			common.WriteError(h.logger, w, err, "failed to update cafe")
			return
		}
		cafe, err := h.directory.Update(ctx, principal(r), chi.URLParam(r, "id"), cmd)
		if err != nil {
			common.WriteError(h.logger, w, err, "failed to update cafe")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, common.NewCafeResponse(*cafe))
	}
}
