package ledger

import (
	"testing"

	"github.com/silvertrading/billing/internal/models"
)

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name      string
		current   models.InvoiceStatus
		remaining float64
		total     float64
		want      models.InvoiceStatus
	}{
		{"full balance stays unpaid", models.StatusUnpaid, 1000, 1000, models.StatusUnpaid},
		{"partial balance", models.StatusUnpaid, 500, 1000, models.StatusPartiallyPaid},
		{"zero balance paid", models.StatusPartiallyPaid, 0, 1000, models.StatusPaid},
		{"negative balance paid", models.StatusPartiallyPaid, -0.01, 1000, models.StatusPaid},
		{"cancelled is terminal", models.StatusCancelled, 0, 1000, models.StatusCancelled},
		{"draft is sticky", models.StatusDraft, 500, 1000, models.StatusDraft},
		{"paid reopens on reversal", models.StatusPaid, 500, 1000, models.StatusPartiallyPaid},
		{"paid reopens fully", models.StatusPaid, 1000, 1000, models.StatusUnpaid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveStatus(tt.current, tt.remaining, tt.total)
			if got != tt.want {
				t.Fatalf("DeriveStatus(%s, %v, %v) = %s, want %s",
					tt.current, tt.remaining, tt.total, got, tt.want)
			}
		})
	}
}
