package ledger

import (
	"errors"
	"fmt"
)

// Ledger error taxonomy. Everything here is recoverable at the call
// boundary; nothing is process-fatal.
var (
	// Not found: the referenced entity does not exist.
	ErrInvoiceNotFound  = errors.New("invoice not found")
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrCustomerNotFound = errors.New("customer not found")

	// State conflicts: rejected because of current ledger state, not input
	// shape. Retrying without a state change will fail again.
	ErrInvoiceCancelled = errors.New("cannot add payment to cancelled invoice")
	ErrAlreadyPaid      = errors.New("invoice is already fully paid")
	ErrExceedsBalance   = errors.New("payment amount exceeds remaining balance")

	// Validation: bad input; caller must change the request.
	ErrInvalidAmount = errors.New("payment amount must be greater than 0")
	ErrInvalidMethod = errors.New("invalid payment method")
	ErrInvalidStatus = errors.New("invalid invoice status")

	// Concurrency: transient, safe to retry with backoff.
	ErrBusy = errors.New("invoice is locked by another operation")
)

// ExceedsBalanceError carries both the requested amount and the balance it
// exceeded so callers can echo the numbers back to the user.
type ExceedsBalanceError struct {
	Requested float64
	Balance   float64
}

func (e *ExceedsBalanceError) Error() string {
	return fmt.Sprintf("payment amount (%.2f) exceeds remaining balance (%.2f)", e.Requested, e.Balance)
}

func (e *ExceedsBalanceError) Unwrap() error { return ErrExceedsBalance }
