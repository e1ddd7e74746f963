package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/silvertrading/billing/internal/audit"
	"github.com/silvertrading/billing/internal/ledger"
	"github.com/silvertrading/billing/internal/models"
	"github.com/silvertrading/billing/internal/pricing"
)

// Input validation errors.
var (
	ErrMissingCustomer    = errors.New("customer name and contact are required")
	ErrInvalidWeight      = errors.New("silver weight must be greater than 0")
	ErrInvalidRate        = errors.New("rate must be greater than 0")
	ErrInvalidAdvance     = errors.New("advance payment cannot be negative")
	ErrInvalidBillingMode = errors.New("invalid billing mode")
)

type CreateInvoiceInput struct {
	CustomerID     uint // when 0, find-or-create by name and contact
	CustomerName   string
	Contact        string
	SilverWeight   float64
	PieceSize      string
	BillingMode    models.BillingMode
	Rate           float64
	AdvancePayment float64
	PaymentMethod  models.PaymentMethod // method of the advance, defaults to Cash
	Notes          string
	Actor          string
}

// InvoiceService builds invoices: it prices them, assigns the invoice
// number, records any advance as a payment, and audits the creation.
// Subsequent payments go through the reconciliation service, not here.
type InvoiceService struct {
	DB   *gorm.DB
	Calc *pricing.Calculator
	log  zerolog.Logger
}

func NewInvoiceService(db *gorm.DB, calc *pricing.Calculator, log zerolog.Logger) *InvoiceService {
	return &InvoiceService{DB: db, Calc: calc, log: log.With().Str("component", "invoices").Logger()}
}

// generateInvoiceNumber derives the number from the creation timestamp, with
// a random suffix so invoices created within the same second stay unique.
func generateInvoiceNumber(now time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:6])
	return fmt.Sprintf("INV-%s-%s", now.Format("20060102150405"), suffix)
}

func (in *CreateInvoiceInput) validate() error {
	if in.CustomerID == 0 && (in.CustomerName == "" || in.Contact == "") {
		return ErrMissingCustomer
	}
	if in.SilverWeight <= 0 {
		return ErrInvalidWeight
	}
	if in.Rate <= 0 {
		return ErrInvalidRate
	}
	if in.AdvancePayment < 0 {
		return ErrInvalidAdvance
	}
	if !models.ValidBillingMode(in.BillingMode) {
		return fmt.Errorf("%w: %q", ErrInvalidBillingMode, in.BillingMode)
	}
	return nil
}

// Create validates input, prices the invoice and persists invoice, advance
// payment and audit entry in one transaction.
func (s *InvoiceService) Create(ctx context.Context, in CreateInvoiceInput) (*models.Invoice, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	numPieces, err := s.Calc.PieceCount(in.SilverWeight, in.PieceSize)
	if err != nil {
		return nil, err
	}
	totalAmount := s.Calc.TotalAmount(in.BillingMode, in.SilverWeight, numPieces, in.Rate)
	remaining := s.Calc.RemainingBalance(totalAmount, in.AdvancePayment)

	now := time.Now()
	status := models.StatusUnpaid
	if remaining <= 0 {
		status = models.StatusPaid
	}

	var inv models.Invoice
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if in.CustomerID != 0 {
			if err := tx.First(&customer, in.CustomerID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ledger.ErrCustomerNotFound
				}
				return fmt.Errorf("load customer: %w", err)
			}
		} else {
			customer = models.Customer{Name: in.CustomerName, Contact: in.Contact}
			if err := tx.Create(&customer).Error; err != nil {
				return fmt.Errorf("create customer: %w", err)
			}
		}

		inv = models.Invoice{
			InvoiceNumber:    generateInvoiceNumber(now),
			CustomerID:       customer.ID,
			Date:             now,
			SilverWeight:     in.SilverWeight,
			PieceSize:        in.PieceSize,
			NumPieces:        numPieces,
			BillingMode:      in.BillingMode,
			Rate:             in.Rate,
			TotalAmount:      totalAmount,
			AdvancePayment:   in.AdvancePayment,
			RemainingBalance: remaining,
			Status:           status,
			Notes:            in.Notes,
			CreatedBy:        in.Actor,
		}
		if err := tx.Create(&inv).Error; err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}

		if in.AdvancePayment > 0 {
			method := in.PaymentMethod
			if method == "" {
				method = models.MethodCash
			}
			advance := models.Payment{
				InvoiceID:  inv.ID,
				CustomerID: customer.ID,
				Amount:     in.AdvancePayment,
				Method:     method,
				PaidAt:     now,
				Notes:      "Advance payment",
				CreatedBy:  in.Actor,
			}
			if err := tx.Create(&advance).Error; err != nil {
				return fmt.Errorf("create advance payment: %w", err)
			}
		}

		if err := tx.Model(&models.Customer{}).Where("id = ?", customer.ID).
			Update("last_invoice_date", now).Error; err != nil {
			return fmt.Errorf("stamp customer: %w", err)
		}

		return audit.Append(tx, in.Actor, models.ActionCreated, "invoice", inv.ID, map[string]any{
			"invoice_number": inv.InvoiceNumber,
			"customer_id":    inv.CustomerID,
			"total_amount":   inv.TotalAmount,
			"advance":        inv.AdvancePayment,
			"status":         inv.Status,
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("invoice_number", inv.InvoiceNumber).
		Uint("customer_id", inv.CustomerID).
		Float64("total", inv.TotalAmount).
		Str("status", string(inv.Status)).
		Msg("invoice created")
	return &inv, nil
}

// Get loads an invoice with its payments.
func (s *InvoiceService) Get(ctx context.Context, id uint) (*models.Invoice, error) {
	var inv models.Invoice
	err := s.DB.WithContext(ctx).Preload("Payments").First(&inv, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ledger.ErrInvoiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load invoice: %w", err)
	}
	return &inv, nil
}

// List returns all invoices, newest first.
func (s *InvoiceService) List(ctx context.Context) ([]models.Invoice, error) {
	var invs []models.Invoice
	if err := s.DB.WithContext(ctx).Order("id DESC").Find(&invs).Error; err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return invs, nil
}
