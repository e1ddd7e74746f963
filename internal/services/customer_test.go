package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/silvertrading/billing/internal/ledger"
	"github.com/silvertrading/billing/internal/models"
)

func strptr(s string) *string { return &s }

func TestCustomerCreateAndUpdate(t *testing.T) {
	db := setupTestDB(t, "customer_crud")
	svc := NewCustomerService(db, zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.Create(ctx, "", "", "x"); !errors.Is(err, ErrMissingCustomer) {
		t.Fatalf("empty create: got %v", err)
	}

	customer, err := svc.Create(ctx, "Ali Traders", "0300-1234567", "hamza")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(ctx, customer.ID, UpdateCustomerInput{
		Contact: strptr("0300-9999999"),
		Notes:   strptr("prefers bank transfer"),
	}, "hamza")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Contact != "0300-9999999" || updated.Notes != "prefers bank transfer" {
		t.Fatalf("updated: %+v", updated)
	}

	var entries []models.AuditEntry
	if err := db.Where("entity_type = ? AND entity_id = ?", "customer", customer.ID).Find(&entries).Error; err != nil {
		t.Fatalf("load audit: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("audit entries = %d, want 2 (created, updated)", len(entries))
	}

	if _, err := svc.Update(ctx, 9999, UpdateCustomerInput{Name: strptr("x")}, "x"); !errors.Is(err, ledger.ErrCustomerNotFound) {
		t.Fatalf("missing customer: got %v", err)
	}
}

func TestCustomerDeleteCascades(t *testing.T) {
	db := setupTestDB(t, "customer_cascade")
	custSvc := NewCustomerService(db, zerolog.Nop())
	ctx := context.Background()

	customer, err := custSvc.Create(ctx, "Doomed & Co", "n/a", "x")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	inv := models.Invoice{
		InvoiceNumber: "INV-CASCADE-1", CustomerID: customer.ID,
		SilverWeight: 1, PieceSize: "1 kg", NumPieces: 1,
		BillingMode: models.ModeReady, Rate: 100,
		TotalAmount: 100, RemainingBalance: 100, Status: models.StatusUnpaid,
	}
	if err := db.Create(&inv).Error; err != nil {
		t.Fatalf("seed invoice: %v", err)
	}
	pay := models.Payment{InvoiceID: inv.ID, CustomerID: customer.ID, Amount: 50, Method: models.MethodCash}
	if err := db.Create(&pay).Error; err != nil {
		t.Fatalf("seed payment: %v", err)
	}

	if err := custSvc.Delete(ctx, customer.ID, "admin"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	for _, probe := range []struct {
		name  string
		model any
	}{
		{"customers", &models.Customer{}},
		{"invoices", &models.Invoice{}},
		{"payments", &models.Payment{}},
	} {
		var count int64
		if err := db.Model(probe.model).Count(&count).Error; err != nil {
			t.Fatalf("count %s: %v", probe.name, err)
		}
		if count != 0 {
			t.Fatalf("%s not cascaded, %d rows left", probe.name, count)
		}
	}

	if err := custSvc.Delete(ctx, customer.ID, "admin"); !errors.Is(err, ledger.ErrCustomerNotFound) {
		t.Fatalf("second delete: got %v", err)
	}
}
