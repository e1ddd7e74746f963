package server

import (
	"net/http"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/silvertrading/billing/internal/audit"
	"github.com/silvertrading/billing/internal/config"
	"github.com/silvertrading/billing/internal/handlers"
	"github.com/silvertrading/billing/internal/httpx"
	"github.com/silvertrading/billing/internal/ledger"
	"github.com/silvertrading/billing/internal/models"
	"github.com/silvertrading/billing/internal/pricing"
	"github.com/silvertrading/billing/internal/reports"
	"github.com/silvertrading/billing/internal/services"
)

// New constructs the root http.Handler with all routes applied.
func New(db *gorm.DB, log zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	calc := pricing.NewCalculator(config.PieceSizes)
	ledgerSvc := ledger.NewService(db, log)
	recorder := audit.NewRecorder(db, log)
	invoiceSvc := services.NewInvoiceService(db, calc, log)
	customerSvc := services.NewCustomerService(db, log)
	reportsSvc := reports.NewService(db)

	// --- Health endpoints ---
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /api/status", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "running"})
	})

	// Customers
	ch := handlers.NewCustomerHandler(db, customerSvc, ledgerSvc)
	mux.HandleFunc("GET /api/customers", ch.List)
	mux.HandleFunc("POST /api/customers", ch.Create)
	mux.HandleFunc("GET /api/customers/{id}", ch.Get)
	mux.HandleFunc("PUT /api/customers/{id}", ch.Update)
	mux.HandleFunc("DELETE /api/customers/{id}", ch.Delete)
	mux.HandleFunc("GET /api/customers/{id}/outstanding", ch.Outstanding)

	// Invoices
	ih := handlers.NewInvoiceHandler(db, invoiceSvc)
	mux.HandleFunc("GET /api/invoices", ih.List)
	mux.HandleFunc("POST /api/invoices", ih.Create)
	mux.HandleFunc("GET /api/invoices/{id}", ih.Get)

	// Payments and status overrides
	ph := handlers.NewPaymentHandler(db, ledgerSvc)
	mux.HandleFunc("POST /api/invoices/{id}/payments", ph.Add)
	mux.HandleFunc("GET /api/invoices/{id}/payments", ph.History)
	mux.HandleFunc("PUT /api/invoices/{id}/status", ph.SetStatus)
	mux.HandleFunc("DELETE /api/payments/{id}", ph.Delete)

	// Calculation previews
	calch := handlers.NewCalcHandler(calc)
	mux.HandleFunc("POST /api/calculate/pieces", calch.Pieces)
	mux.HandleFunc("POST /api/calculate/total", calch.Total)

	// Audit trail
	ah := handlers.NewAuditHandler(recorder)
	mux.HandleFunc("GET /api/audit", ah.Trail)

	// Reports
	rh := handlers.NewReportsHandler(reportsSvc)
	mux.HandleFunc("GET /api/reports/summary", rh.Summary)
	mux.HandleFunc("GET /api/reports/revenue", rh.Revenue)

	// Fixed enumerations, exposed as configuration
	mux.HandleFunc("GET /api/config/piece-sizes", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, calc.PieceSizes())
	})
	mux.HandleFunc("GET /api/config/billing-modes", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, models.BillingModes)
	})
	mux.HandleFunc("GET /api/config/payment-methods", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, models.PaymentMethods)
	})
	mux.HandleFunc("GET /api/config/invoice-statuses", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, models.InvoiceStatuses)
	})

	return mux
}
