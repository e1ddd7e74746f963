package ledger

import "github.com/silvertrading/billing/internal/models"

// DeriveStatus is the single source of truth for invoice status after any
// balance-affecting event. It must be re-invoked after every payment
// application and every payment reversal.
//
// Cancelled and Draft are sticky: Cancelled is terminal, and Draft is only
// promoted by an explicit external action, never by payment activity.
func DeriveStatus(current models.InvoiceStatus, remainingBalance, totalAmount float64) models.InvoiceStatus {
	if current == models.StatusCancelled {
		return models.StatusCancelled
	}
	if current == models.StatusDraft {
		return models.StatusDraft
	}
	switch {
	case remainingBalance <= 0:
		return models.StatusPaid
	case remainingBalance < totalAmount:
		return models.StatusPartiallyPaid
	default:
		return models.StatusUnpaid
	}
}
