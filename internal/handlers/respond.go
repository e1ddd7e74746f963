package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/silvertrading/billing/internal/httpx"
	"github.com/silvertrading/billing/internal/ledger"
	"github.com/silvertrading/billing/internal/pricing"
	"github.com/silvertrading/billing/internal/services"
)

// writeError translates engine errors into transport-level responses.
// NotFound -> 404, state conflicts -> 409, validation -> 400, lock
// contention -> 503 (retryable), anything else -> 500.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrInvoiceNotFound),
		errors.Is(err, ledger.ErrPaymentNotFound),
		errors.Is(err, ledger.ErrCustomerNotFound):
		httpx.JSONError(w, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, ledger.ErrInvoiceCancelled),
		errors.Is(err, ledger.ErrAlreadyPaid),
		errors.Is(err, ledger.ErrExceedsBalance):
		httpx.JSONError(w, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInvalidMethod),
		errors.Is(err, ledger.ErrInvalidStatus),
		errors.Is(err, pricing.ErrUnknownPieceSize),
		errors.Is(err, services.ErrMissingCustomer),
		errors.Is(err, services.ErrInvalidWeight),
		errors.Is(err, services.ErrInvalidRate),
		errors.Is(err, services.ErrInvalidAdvance),
		errors.Is(err, services.ErrInvalidBillingMode):
		httpx.JSONError(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, ledger.ErrBusy):
		httpx.JSONError(w, http.StatusServiceUnavailable, err.Error(), nil)
	default:
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}

// pathID parses the {id} path segment; 0 means invalid.
func pathID(r *http.Request) uint {
	n, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || n <= 0 {
		return 0
	}
	return uint(n)
}

// actorFrom pulls the acting user from body-free requests. The invoking
// layer supplies identity as a plain string; "System" when absent.
func actorFrom(r *http.Request) string {
	if u := r.URL.Query().Get("user"); u != "" {
		return u
	}
	return "System"
}
