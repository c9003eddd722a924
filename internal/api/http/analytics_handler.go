package http

import (
	"net/http"
	"net/url"

	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/domain"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/service"
)

// AnalyticsHandler serves the reporting endpoints.
type AnalyticsHandler struct {
	analytics service.AnalyticsService
}

func NewAnalyticsHandler(analytics service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

func (h *AnalyticsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.analytics.GetOverview(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

// analyticsQuery reads the window and shaping parameters shared by the reports.
func analyticsQuery(q url.Values) (service.AnalyticsQuery, error) {
	var problems fieldErrors
	query := service.AnalyticsQuery{
		Days:    problems.queryInt(q, "days"),
		From:    problems.date("start_date", q.Get("start_date")),
		To:      problems.date("end_date", q.Get("end_date")),
		GroupBy: domain.TimeGrain(q.Get("group_by")),
		Status:  domain.BookingStatus(q.Get("status")),
		SortBy:  q.Get("sort_by"),
		Order:   q.Get("order"),
	}
	return query, problems.err()
}

// serveReport runs one analytics report and writes its result.
func serveReport[T any](w http.ResponseWriter, r *http.Request, report func(service.AnalyticsQuery) (T, error)) {
	query, err := analyticsQuery(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}
	result, err := report(query)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *AnalyticsHandler) Bookings(w http.ResponseWriter, r *http.Request) {
	serveReport(w, r, func(q service.AnalyticsQuery) (*domain.BookingAnalytics, error) {
		return h.analytics.BookingAnalytics(r.Context(), q)
	})
}

func (h *AnalyticsHandler) Revenue(w http.ResponseWriter, r *http.Request) {
	serveReport(w, r, func(q service.AnalyticsQuery) (*domain.RevenueAnalytics, error) {
		return h.analytics.RevenueAnalytics(r.Context(), q)
	})
}

func (h *AnalyticsHandler) Utilization(w http.ResponseWriter, r *http.Request) {
	serveReport(w, r, func(q service.AnalyticsQuery) (*domain.UtilizationReport, error) {
		return h.analytics.VehicleUtilization(r.Context(), q)
	})
}

func (h *AnalyticsHandler) Customers(w http.ResponseWriter, r *http.Request) {
	serveReport(w, r, func(q service.AnalyticsQuery) (*domain.CustomerAnalytics, error) {
		return h.analytics.CustomerAnalytics(r.Context(), q)
	})
}

func (h *AnalyticsHandler) Performance(w http.ResponseWriter, r *http.Request) {
	var problems fieldErrors
	period := problems.queryInt(r.URL.Query(), "period")
	if err := problems.err(); err != nil {
		writeError(w, r, err)
		return
	}
	metrics, err := h.analytics.PerformanceMetrics(r.Context(), period)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}
