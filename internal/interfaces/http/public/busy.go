package public

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sngm3741/cafe-finder/api/internal/cafe/application"
	"github.com/sngm3741/cafe-finder/api/internal/cafe/domain"
	"github.com/sngm3741/cafe-finder/api/internal/interfaces/http/common"
)

func (h *Handler) busyHistoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		hours, _ := common.ParsePositiveInt(r.URL.Query().Get("hours"), domain.DefaultBusyHistoryHours)
		entries, err := h.busy.History(ctx, chi.URLParam(r, "id"), hours)
		if err != nil {
			common.WriteError(h.logger, w, err, "failed to load crowd reports")
			return
		}
		items := make([]busyEntryResponse, 0, len(entries))
		for _, e := range entries {
			items = append(items, newBusyEntryResponse(e))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, items)
	}
}

func (h *Handler) busyCurrentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		current, err := h.busy.Current(ctx, chi.URLParam(r, "id"))
		if err != nil {
			common.WriteError(h.logger, w, err, "failed to load crowd status")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, currentCrowdResponse{
			Status:     string(current.Status),
			CrowdLevel: current.CrowdLevel,
			WaitMins:   current.WaitMins,
			ReportedAt: current.ReportedAt,
		})
	}
}

func (h *Handler) busyTrendsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		days, _ := common.ParsePositiveInt(r.URL.Query().Get("days"), domain.DefaultBusyTrendDays)
		trends, err := h.busy.Trends(ctx, chi.URLParam(r, "id"), days)
		if err != nil {
			common.WriteError(h.logger, w, err, "failed to load crowd trends")
			return
		}
		items := make([]hourlyTrendResponse, 0, len(trends))
		for _, t := range trends {
			items = append(items, hourlyTrendResponse{Hour: t.Hour, AvgCrowdLevel: t.AvgCrowdLevel, Samples: t.Samples})
		}
		common.WriteJSON(h.logger, w, http.StatusOK, items)
	}
}

func (h *Handler) busyReportHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		var req busyRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteError(h.logger, w, err, "failed to report crowd level")
			return
		}
		if req.CrowdLevel == nil {
			common.WriteError(h.logger, w, domain.Validationf("crowdLevel is required"), "failed to report crowd level")
			return
		}
		entry, err := h.busy.Report(ctx, principal(r), chi.URLParam(r, "id"), application.BusyReportCommand{
			CrowdLevel: *req.CrowdLevel,
			WaitMins:   req.WaitMins,
		})
		if err != nil {
			common.WriteError(h.logger, w, err, "failed to report crowd level")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, newBusyEntryResponse(*entry))
	}
}
