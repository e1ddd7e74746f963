package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/silvertrading/billing/internal/models"
)

func setupServer(t *testing.T, name string) http.Handler {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Customer{}, &models.Invoice{}, &models.Payment{}, &models.AuditEntry{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return New(db, zerolog.Nop())
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	var out map[string]any
	if rr.Body.Len() > 0 && strings.HasPrefix(rr.Body.String(), "{") {
		_ = json.Unmarshal(rr.Body.Bytes(), &out)
	}
	return rr, out
}

func TestPaymentFlowEndToEnd(t *testing.T) {
	h := setupServer(t, "e2e_payment_flow")

	// Create an invoice worth 1000 with no advance.
	rr, created := doJSON(t, h, http.MethodPost, "/api/invoices", `{
		"customer_name": "Ali Traders",
		"contact": "0300-1234567",
		"silver_weight": 10,
		"piece_size": "1 kg",
		"billing_mode": "Ready",
		"rate": 100,
		"created_by": "hamza"
	}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create invoice: %d %s", rr.Code, rr.Body.String())
	}
	invoiceID := int(created["ID"].(float64))
	if created["Status"] != "Unpaid" || created["RemainingBalance"].(float64) != 1000 {
		t.Fatalf("created invoice: %v", created)
	}

	// First payment: half the balance.
	rr, _ = doJSON(t, h, http.MethodPost, fmt.Sprintf("/api/invoices/%d/payments", invoiceID),
		`{"amount": 500, "payment_method": "Cash", "created_by": "hamza"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("first payment: %d %s", rr.Code, rr.Body.String())
	}

	// Overpayment is rejected as a state conflict.
	rr, errBody := doJSON(t, h, http.MethodPost, fmt.Sprintf("/api/invoices/%d/payments", invoiceID),
		`{"amount": 600, "payment_method": "Cash"}`)
	if rr.Code != http.StatusConflict {
		t.Fatalf("overpayment: %d %s", rr.Code, rr.Body.String())
	}
	if msg := errBody["error"].(string); !strings.Contains(msg, "600.00") || !strings.Contains(msg, "500.00") {
		t.Fatalf("overpayment message: %q", msg)
	}

	// Second payment settles the invoice.
	rr, _ = doJSON(t, h, http.MethodPost, fmt.Sprintf("/api/invoices/%d/payments", invoiceID),
		`{"amount": 500, "payment_method": "Bank Transfer"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("second payment: %d %s", rr.Code, rr.Body.String())
	}

	rr, inv := doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/invoices/%d", invoiceID), "")
	if rr.Code != http.StatusOK {
		t.Fatalf("get invoice: %d", rr.Code)
	}
	if inv["Status"] != "Paid" || inv["RemainingBalance"].(float64) != 0 {
		t.Fatalf("settled invoice: status=%v balance=%v", inv["Status"], inv["RemainingBalance"])
	}

	// Paid invoice refuses more money.
	rr, _ = doJSON(t, h, http.MethodPost, fmt.Sprintf("/api/invoices/%d/payments", invoiceID),
		`{"amount": 1, "payment_method": "Cash"}`)
	if rr.Code != http.StatusConflict {
		t.Fatalf("payment on paid invoice: %d", rr.Code)
	}

	// Payment history lists both payments.
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/invoices/%d/payments", invoiceID), nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var history []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &history); err != nil {
		t.Fatalf("unmarshal history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
}

func TestOutstandingEndpoint(t *testing.T) {
	h := setupServer(t, "e2e_outstanding")

	rr, created := doJSON(t, h, http.MethodPost, "/api/invoices", `{
		"customer_name": "Noor Jewellers",
		"contact": "0321-7654321",
		"silver_weight": 5,
		"piece_size": "1 kg",
		"billing_mode": "Ready",
		"rate": 200,
		"advance_payment": 300
	}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rr.Code, rr.Body.String())
	}
	customerID := int(created["CustomerID"].(float64))

	rr, body := doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/customers/%d/outstanding", customerID), "")
	if rr.Code != http.StatusOK {
		t.Fatalf("outstanding: %d", rr.Code)
	}
	if body["outstanding_balance"].(float64) != 700 {
		t.Fatalf("outstanding = %v, want 700", body["outstanding_balance"])
	}
}

func TestStatusOverrideAndAuditTrail(t *testing.T) {
	h := setupServer(t, "e2e_status_audit")

	rr, created := doJSON(t, h, http.MethodPost, "/api/invoices", `{
		"customer_name": "A", "contact": "B",
		"silver_weight": 1, "piece_size": "1 kg",
		"billing_mode": "Ready", "rate": 100
	}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: %d", rr.Code)
	}
	invoiceID := int(created["ID"].(float64))

	rr, _ = doJSON(t, h, http.MethodPut, fmt.Sprintf("/api/invoices/%d/status", invoiceID),
		`{"status": "Cancelled", "user": "admin"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("override: %d %s", rr.Code, rr.Body.String())
	}

	rr, _ = doJSON(t, h, http.MethodPut, fmt.Sprintf("/api/invoices/%d/status", invoiceID),
		`{"status": "Settled"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("bad status: %d", rr.Code)
	}

	// Cancelled invoice rejects payments.
	rr, _ = doJSON(t, h, http.MethodPost, fmt.Sprintf("/api/invoices/%d/payments", invoiceID),
		`{"amount": 10, "payment_method": "Cash"}`)
	if rr.Code != http.StatusConflict {
		t.Fatalf("payment on cancelled: %d", rr.Code)
	}

	// The audit trail has the creation and the status change, newest first.
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/audit?entity_type=invoice&entity_id=%d", invoiceID), nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var trail []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &trail); err != nil {
		t.Fatalf("unmarshal trail: %v", err)
	}
	if len(trail) != 2 {
		t.Fatalf("trail length = %d, want 2", len(trail))
	}
	if trail[0]["Action"] != "status_changed" || trail[1]["Action"] != "created" {
		t.Fatalf("trail order: %v", trail)
	}
}

func TestCalculationEndpoints(t *testing.T) {
	h := setupServer(t, "e2e_calc")

	rr, body := doJSON(t, h, http.MethodPost, "/api/calculate/pieces",
		`{"silver_weight": 1.165, "piece_size": "10 Tola"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("pieces: %d %s", rr.Code, rr.Body.String())
	}
	if body["num_pieces"].(float64) != 10 {
		t.Fatalf("num_pieces = %v, want 10", body["num_pieces"])
	}

	rr, body = doJSON(t, h, http.MethodPost, "/api/calculate/total",
		`{"billing_mode": "Mazduri", "num_pieces": 10, "rate": 500, "advance_payment": 1000}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("total: %d", rr.Code)
	}
	if body["total_amount"].(float64) != 5000 || body["remaining_balance"].(float64) != 4000 {
		t.Fatalf("totals: %v", body)
	}

	rr, _ = doJSON(t, h, http.MethodPost, "/api/calculate/pieces",
		`{"silver_weight": 1, "piece_size": "3 Tola"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unknown size: %d", rr.Code)
	}
}
