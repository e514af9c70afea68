package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/md-rashed-zaman/palor/libs/httpx"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/analytics"
	"github.com/md-rashed-zaman/palor/services/salon-service/internal/model"
)

type AnalyticsService interface {
	Range(startDate, endDate string) (model.DateRange, error)
	Overview(ctx context.Context, r model.DateRange) (analytics.Overview, error)
	RevenueByPeriod(ctx context.Context, r model.DateRange, groupBy string) ([]analytics.RevenuePoint, error)
	ExportRevenue(ctx context.Context, r model.DateRange, groupBy string) ([]byte, error)
	PopularServices(ctx context.Context, limit int) ([]analytics.PopularService, error)
	AppointmentStatusBreakdown(ctx context.Context, r model.DateRange) (analytics.StatusBreakdown, error)
	RecentTransactions(ctx context.Context, limit int) ([]model.Transaction, error)
	CustomerGrowth(ctx context.Context, r model.DateRange) ([]analytics.GrowthPoint, error)
}

type DashboardHandler struct {
	svc    AnalyticsService
	logger *slog.Logger
}

func NewDashboardHandler(svc AnalyticsService, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{svc: svc, logger: logger}
}

func (h *DashboardHandler) dateRange(r *http.Request) (model.DateRange, error) {
	q := r.URL.Query()
	return h.svc.Range(q.Get("startDate"), q.Get("endDate"))
}

func (h *DashboardHandler) Overview(w http.ResponseWriter, r *http.Request) {
	dr, err := h.dateRange(r)
	if err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	ov, err := h.svc.Overview(r.Context(), dr)
	if err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	httpx.Respond(w, http.StatusOK, ov, "Dashboard overview fetched successfully")
}

func (h *DashboardHandler) Revenue(w http.ResponseWriter, r *http.Request) {
	dr, err := h.dateRange(r)
	if err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	points, err := h.svc.RevenueByPeriod(r.Context(), dr, r.URL.Query().Get("groupBy"))
	if err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	httpx.Respond(w, http.StatusOK, points, "Revenue analytics fetched successfully")
}

// ExportRevenue streams the revenue series as a spreadsheet download instead
// of the JSON envelope.
func (h *DashboardHandler) ExportRevenue(w http.ResponseWriter, r *http.Request) {
	dr, err := h.dateRange(r)
	if err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	body, err := h.svc.ExportRevenue(r.Context(), dr, r.URL.Query().Get("groupBy"))
	if err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	w.Header().Set("Content-Type", analytics.XLSXMimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "revenue.xlsx"))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (h *DashboardHandler) PopularServices(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	items, err := h.svc.PopularServices(r.Context(), limit)
	if err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	httpx.Respond(w, http.StatusOK, items, "Popular services fetched successfully")
}

func (h *DashboardHandler) AppointmentStats(w http.ResponseWriter, r *http.Request) {
	dr, err := h.dateRange(r)
	if err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	st, err := h.svc.AppointmentStatusBreakdown(r.Context(), dr)
	if err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	httpx.Respond(w, http.StatusOK, st, "Appointment statistics fetched successfully")
}

func (h *DashboardHandler) RecentTransactions(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	items, err := h.svc.RecentTransactions(r.Context(), limit)
	if err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	httpx.Respond(w, http.StatusOK, items, "Recent transactions fetched successfully")
}

func (h *DashboardHandler) CustomerGrowth(w http.ResponseWriter, r *http.Request) {
	dr, err := h.dateRange(r)
	if err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	points, err := h.svc.CustomerGrowth(r.Context(), dr)
	if err != nil {
		respondErr(w, r, h.logger, err)
		return
	}
	httpx.Respond(w, http.StatusOK, points, "Customer growth fetched successfully")
}
