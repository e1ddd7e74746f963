package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/silvertrading/billing/internal/httpx"
	"github.com/silvertrading/billing/internal/reports"
)

type ReportsHandler struct {
	Svc *reports.Service
}

func NewReportsHandler(svc *reports.Service) *ReportsHandler { return &ReportsHandler{Svc: svc} }

// Summary: GET /api/reports/summary
func (h *ReportsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Svc.PaymentSummary(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

// Revenue: GET /api/reports/revenue?year=2026
func (h *ReportsHandler) Revenue(w http.ResponseWriter, r *http.Request) {
	year := time.Now().Year()
	if v := r.URL.Query().Get("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1900 {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_year", nil)
			return
		}
		year = n
	}
	revenue, err := h.Svc.MonthlyRevenue(r.Context(), year)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, revenue)
}
