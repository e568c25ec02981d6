package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"lungscreen/internal/cache"
	"lungscreen/internal/model"
	"lungscreen/internal/service"
)

// ReportHandler handles report and stats endpoints
type ReportHandler struct {
	reportSvc *service.ReportService
	stats     cache.StatsCache
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportSvc *service.ReportService, stats cache.StatsCache) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc, stats: stats}
}

// Get handles GET /v1/reports/{sessionId}
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	report, err := h.reportSvc.Get(r.Context(), sessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if report == nil {
		writeError(w, http.StatusNotFound, "report not found")
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// List handles GET /v1/reports
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	var limit int64
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	reports, err := h.reportSvc.List(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if reports == nil {
		reports = []*model.Report{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reports": reports,
		"count":   len(reports),
	})
}

// Stats handles GET /v1/stats
func (h *ReportHandler) Stats(w http.ResponseWriter, r *http.Request) {
	distribution, err := h.stats.RiskDistribution(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var total int64
	for _, n := range distribution {
		total += n
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total":        total,
		"distribution": distribution,
	})
}
