package handlers

import (
	"encoding/json"
	"net/http"

	"gorm.io/gorm"

	"github.com/silvertrading/billing/internal/httpx"
	"github.com/silvertrading/billing/internal/models"
	"github.com/silvertrading/billing/internal/services"
)

type InvoiceHandler struct {
	DB  *gorm.DB
	Svc *services.InvoiceService
}

func NewInvoiceHandler(db *gorm.DB, svc *services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{DB: db, Svc: svc}
}

// invoiceResponse denormalizes customer display fields at serialization
// time; the engine itself keeps only the id reference.
type invoiceResponse struct {
	models.Invoice
	CustomerName    string `json:"customer_name"`
	CustomerContact string `json:"customer_contact"`
	Editable        bool   `json:"is_editable"`
}

func (h *InvoiceHandler) respond(r *http.Request, inv models.Invoice) invoiceResponse {
	var customer models.Customer
	_ = h.DB.WithContext(r.Context()).First(&customer, inv.CustomerID).Error
	return invoiceResponse{
		Invoice:         inv,
		CustomerName:    customer.Name,
		CustomerContact: customer.Contact,
		Editable:        inv.Editable(),
	}
}

// List: GET /api/invoices
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	invs, err := h.Svc.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]invoiceResponse, 0, len(invs))
	for _, inv := range invs {
		out = append(out, h.respond(r, inv))
	}
	httpx.JSON(w, http.StatusOK, out)
}

// Get: GET /api/invoices/{id}
func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	inv, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, h.respond(r, *inv))
}

// Create: POST /api/invoices
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerID     uint    `json:"customer_id"`
		CustomerName   string  `json:"customer_name"`
		Contact        string  `json:"contact"`
		SilverWeight   float64 `json:"silver_weight"`
		PieceSize      string  `json:"piece_size"`
		BillingMode    string  `json:"billing_mode"`
		Rate           float64 `json:"rate"`
		AdvancePayment float64 `json:"advance_payment"`
		PaymentMethod  string  `json:"payment_method"`
		Notes          string  `json:"notes"`
		Actor          string  `json:"created_by"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if req.Actor == "" {
		req.Actor = actorFrom(r)
	}
	inv, err := h.Svc.Create(r.Context(), services.CreateInvoiceInput{
		CustomerID:     req.CustomerID,
		CustomerName:   req.CustomerName,
		Contact:        req.Contact,
		SilverWeight:   req.SilverWeight,
		PieceSize:      req.PieceSize,
		BillingMode:    models.BillingMode(req.BillingMode),
		Rate:           req.Rate,
		AdvancePayment: req.AdvancePayment,
		PaymentMethod:  models.PaymentMethod(req.PaymentMethod),
		Notes:          req.Notes,
		Actor:          req.Actor,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, h.respond(r, *inv))
}
