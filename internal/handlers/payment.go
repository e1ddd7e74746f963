package handlers

import (
	"encoding/json"
	"net/http"

	"gorm.io/gorm"

	"github.com/silvertrading/billing/internal/httpx"
	"github.com/silvertrading/billing/internal/ledger"
	"github.com/silvertrading/billing/internal/models"
)

type PaymentHandler struct {
	DB  *gorm.DB
	Svc *ledger.Service
}

func NewPaymentHandler(db *gorm.DB, svc *ledger.Service) *PaymentHandler {
	return &PaymentHandler{DB: db, Svc: svc}
}

type paymentResponse struct {
	models.Payment
	InvoiceNumber string `json:"invoice_number"`
	CustomerName  string `json:"customer_name"`
}

func (h *PaymentHandler) respond(r *http.Request, p models.Payment) paymentResponse {
	var inv models.Invoice
	_ = h.DB.WithContext(r.Context()).Select("invoice_number").First(&inv, p.InvoiceID).Error
	var customer models.Customer
	_ = h.DB.WithContext(r.Context()).Select("name").First(&customer, p.CustomerID).Error
	return paymentResponse{Payment: p, InvoiceNumber: inv.InvoiceNumber, CustomerName: customer.Name}
}

// Add: POST /api/invoices/{id}/payments
func (h *PaymentHandler) Add(w http.ResponseWriter, r *http.Request) {
	invoiceID := pathID(r)
	if invoiceID == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var req struct {
		Amount        float64 `json:"amount"`
		PaymentMethod string  `json:"payment_method"`
		Notes         string  `json:"notes"`
		Actor         string  `json:"created_by"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if req.Actor == "" {
		req.Actor = actorFrom(r)
	}
	payment, err := h.Svc.ApplyPayment(r.Context(), invoiceID, req.Amount,
		models.PaymentMethod(req.PaymentMethod), req.Notes, req.Actor)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"message": "payment added successfully",
		"payment": h.respond(r, *payment),
	})
}

// History: GET /api/invoices/{id}/payments
func (h *PaymentHandler) History(w http.ResponseWriter, r *http.Request) {
	invoiceID := pathID(r)
	if invoiceID == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	payments, err := h.Svc.PaymentHistory(r.Context(), invoiceID)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]paymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, h.respond(r, p))
	}
	httpx.JSON(w, http.StatusOK, out)
}

// Delete: DELETE /api/payments/{id} — reversal, reopens the invoice balance.
func (h *PaymentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	paymentID := pathID(r)
	if paymentID == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := h.Svc.ReversePayment(r.Context(), paymentID, actorFrom(r)); err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "payment deleted successfully"})
}

// SetStatus: PUT /api/invoices/{id}/status — manual override, bypasses
// status derivation.
func (h *PaymentHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	invoiceID := pathID(r)
	if invoiceID == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var req struct {
		Status string `json:"status"`
		Actor  string `json:"user"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if req.Actor == "" {
		req.Actor = actorFrom(r)
	}
	if err := h.Svc.SetStatus(r.Context(), invoiceID, models.InvoiceStatus(req.Status), req.Actor); err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "invoice status updated to " + req.Status})
}
