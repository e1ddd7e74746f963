package handlers

import (
	"encoding/json"
	"net/http"

	"gorm.io/gorm"

	"github.com/silvertrading/billing/internal/httpx"
	"github.com/silvertrading/billing/internal/ledger"
	"github.com/silvertrading/billing/internal/models"
	"github.com/silvertrading/billing/internal/services"
)

type CustomerHandler struct {
	DB     *gorm.DB
	Svc    *services.CustomerService
	Ledger *ledger.Service
}

func NewCustomerHandler(db *gorm.DB, svc *services.CustomerService, ldg *ledger.Service) *CustomerHandler {
	return &CustomerHandler{DB: db, Svc: svc, Ledger: ldg}
}

// customerResponse carries the derived fields (outstanding, invoice count)
// that are computed per request, never stored.
type customerResponse struct {
	models.Customer
	TotalInvoices    int     `json:"total_invoices"`
	TotalOutstanding float64 `json:"total_outstanding"`
}

func (h *CustomerHandler) respond(r *http.Request, c models.Customer) (customerResponse, error) {
	outstanding, err := h.Ledger.CustomerOutstanding(r.Context(), c.ID)
	if err != nil {
		return customerResponse{}, err
	}
	var count int64
	if err := h.DB.WithContext(r.Context()).Model(&models.Invoice{}).
		Where("customer_id = ?", c.ID).Count(&count).Error; err != nil {
		return customerResponse{}, err
	}
	return customerResponse{Customer: c, TotalInvoices: int(count), TotalOutstanding: outstanding}, nil
}

// List: GET /api/customers
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	customers, err := h.Svc.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]customerResponse, 0, len(customers))
	for _, c := range customers {
		resp, err := h.respond(r, c)
		if err != nil {
			writeError(w, err)
			return
		}
		out = append(out, resp)
	}
	httpx.JSON(w, http.StatusOK, out)
}

// Get: GET /api/customers/{id}
func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	customer, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	resp, err := h.respond(r, *customer)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, resp)
}

// Create: POST /api/customers
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Contact string `json:"contact"`
		Actor   string `json:"actor"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if req.Actor == "" {
		req.Actor = actorFrom(r)
	}
	customer, err := h.Svc.Create(r.Context(), req.Name, req.Contact, req.Actor)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, customer)
}

// Update: PUT /api/customers/{id}
func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var req struct {
		Name    *string `json:"name"`
		Contact *string `json:"contact"`
		Notes   *string `json:"notes"`
		Actor   string  `json:"actor"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if req.Actor == "" {
		req.Actor = actorFrom(r)
	}
	customer, err := h.Svc.Update(r.Context(), id, services.UpdateCustomerInput{
		Name: req.Name, Contact: req.Contact, Notes: req.Notes,
	}, req.Actor)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, customer)
}

// Delete: DELETE /api/customers/{id} — cascades to invoices and payments.
func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := h.Svc.Delete(r.Context(), id, actorFrom(r)); err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "customer deleted"})
}

// Outstanding: GET /api/customers/{id}/outstanding
func (h *CustomerHandler) Outstanding(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if id == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	outstanding, err := h.Ledger.CustomerOutstanding(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]float64{"outstanding_balance": outstanding})
}
