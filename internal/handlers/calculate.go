package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/silvertrading/billing/internal/httpx"
	"github.com/silvertrading/billing/internal/models"
	"github.com/silvertrading/billing/internal/pricing"
)

// CalcHandler exposes the pure pricing calculator for form previews.
type CalcHandler struct {
	Calc *pricing.Calculator
}

func NewCalcHandler(calc *pricing.Calculator) *CalcHandler { return &CalcHandler{Calc: calc} }

// Pieces: POST /api/calculate/pieces
func (h *CalcHandler) Pieces(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SilverWeight float64 `json:"silver_weight"`
		PieceSize    string  `json:"piece_size"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	numPieces, err := h.Calc.PieceCount(req.SilverWeight, req.PieceSize)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]float64{"num_pieces": numPieces})
}

// Total: POST /api/calculate/total
func (h *CalcHandler) Total(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BillingMode    string  `json:"billing_mode"`
		SilverWeight   float64 `json:"silver_weight"`
		NumPieces      float64 `json:"num_pieces"`
		Rate           float64 `json:"rate"`
		AdvancePayment float64 `json:"advance_payment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	total := h.Calc.TotalAmount(models.BillingMode(req.BillingMode), req.SilverWeight, req.NumPieces, req.Rate)
	httpx.JSON(w, http.StatusOK, map[string]float64{
		"total_amount":      total,
		"remaining_balance": h.Calc.RemainingBalance(total, req.AdvancePayment),
	})
}
