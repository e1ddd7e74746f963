package handlers

import (
	"net/http"
	"strconv"

	"github.com/silvertrading/billing/internal/audit"
	"github.com/silvertrading/billing/internal/httpx"
)

type AuditHandler struct {
	Recorder *audit.Recorder
}

func NewAuditHandler(rec *audit.Recorder) *AuditHandler { return &AuditHandler{Recorder: rec} }

// Trail: GET /api/audit?entity_type=...&entity_id=... — filters are
// conjunctive and optional; entries come back newest first.
func (h *AuditHandler) Trail(w http.ResponseWriter, r *http.Request) {
	entityType := r.URL.Query().Get("entity_type")
	var entityID uint
	if v := r.URL.Query().Get("entity_id"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_entity_id", nil)
			return
		}
		entityID = uint(n)
	}
	entries, err := h.Recorder.Trail(r.Context(), entityType, entityID)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, entries)
}
