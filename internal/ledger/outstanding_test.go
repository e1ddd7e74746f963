package ledger

import (
	"context"
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/silvertrading/billing/internal/models"
)

func seedInvoiceFor(t *testing.T, db *gorm.DB, customerID uint, balance float64, status models.InvoiceStatus) {
	t.Helper()
	inv := models.Invoice{
		InvoiceNumber:    fmt.Sprintf("INV-OUT-%d", time.Now().UnixNano()),
		CustomerID:       customerID,
		Date:             time.Now(),
		SilverWeight:     1,
		PieceSize:        "1 kg",
		NumPieces:        1,
		BillingMode:      models.ModeReady,
		Rate:             balance,
		TotalAmount:      balance,
		RemainingBalance: balance,
		Status:           status,
	}
	if err := db.Create(&inv).Error; err != nil {
		t.Fatalf("seed invoice: %v", err)
	}
}

func TestCustomerOutstanding(t *testing.T) {
	svc, db := newTestService(t, "outstanding_mixed")
	ctx := context.Background()

	customer := models.Customer{Name: "Noor Jewellers", Contact: "0321-7654321"}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}

	seedInvoiceFor(t, db, customer.ID, 400, models.StatusUnpaid)
	seedInvoiceFor(t, db, customer.ID, 150.25, models.StatusPartiallyPaid)
	seedInvoiceFor(t, db, customer.ID, 0, models.StatusPaid)
	// Cancelled invoices never count, whatever their frozen balance says.
	seedInvoiceFor(t, db, customer.ID, 9000, models.StatusCancelled)
	seedInvoiceFor(t, db, customer.ID, 75, models.StatusDraft)

	got, err := svc.CustomerOutstanding(ctx, customer.ID)
	if err != nil {
		t.Fatalf("outstanding: %v", err)
	}
	if got != 625.25 {
		t.Fatalf("outstanding = %v, want 625.25", got)
	}
}

func TestCustomerOutstandingNoInvoices(t *testing.T) {
	svc, db := newTestService(t, "outstanding_empty")
	customer := models.Customer{Name: "New Walk-in", Contact: "n/a"}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	got, err := svc.CustomerOutstanding(context.Background(), customer.ID)
	if err != nil {
		t.Fatalf("outstanding: %v", err)
	}
	if got != 0 {
		t.Fatalf("outstanding = %v, want 0", got)
	}
}

func TestCustomerOutstandingTracksPayments(t *testing.T) {
	svc, db := newTestService(t, "outstanding_fresh")
	ctx := context.Background()
	inv := seedInvoice(t, db, 1000, models.StatusUnpaid)

	if _, err := svc.ApplyPayment(ctx, inv.ID, 600, models.MethodCash, "", "x"); err != nil {
		t.Fatalf("apply: %v", err)
	}
	// The aggregate must reflect the persisted balance immediately.
	got, err := svc.CustomerOutstanding(ctx, inv.CustomerID)
	if err != nil {
		t.Fatalf("outstanding: %v", err)
	}
	if got != 400 {
		t.Fatalf("outstanding = %v, want 400", got)
	}
}
