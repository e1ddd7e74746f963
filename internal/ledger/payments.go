package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/silvertrading/billing/internal/audit"
	"github.com/silvertrading/billing/internal/models"
	"github.com/silvertrading/billing/internal/pricing"
)

const defaultLockTimeout = 5 * time.Second

// Service reconciles payments against invoice balances. Every mutation runs
// under a per-invoice lock and a single DB transaction, so the
// read-validate-mutate-log sequence is atomic and never interleaves with
// another mutation of the same invoice. Balances are always re-read inside
// the transaction; nothing is cached across calls.
type Service struct {
	db          *gorm.DB
	locks       *invoiceLocks
	log         zerolog.Logger
	lockTimeout time.Duration
}

func NewService(db *gorm.DB, log zerolog.Logger) *Service {
	return &Service{
		db:          db,
		locks:       newInvoiceLocks(),
		log:         log.With().Str("component", "ledger").Logger(),
		lockTimeout: defaultLockTimeout,
	}
}

// ApplyPayment records a payment against an invoice. Preconditions are
// checked in order, first failure wins; on success the payment row, the
// balance decrement, the status transition and the audit entry commit as one
// unit.
func (s *Service) ApplyPayment(ctx context.Context, invoiceID uint, amount float64, method models.PaymentMethod, notes, actor string) (*models.Payment, error) {
	release, err := s.locks.acquire(ctx, invoiceID, s.lockTimeout)
	if err != nil {
		return nil, err
	}
	defer release()

	var payment models.Payment
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inv models.Invoice
		if err := tx.First(&inv, invoiceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvoiceNotFound
			}
			return fmt.Errorf("load invoice: %w", err)
		}
		if inv.Status == models.StatusCancelled {
			return ErrInvoiceCancelled
		}
		if inv.Status == models.StatusPaid {
			return ErrAlreadyPaid
		}
		if amount <= 0 {
			return ErrInvalidAmount
		}
		if amount > inv.RemainingBalance {
			return &ExceedsBalanceError{Requested: amount, Balance: inv.RemainingBalance}
		}
		if !models.ValidPaymentMethod(method) {
			return fmt.Errorf("%w: %q", ErrInvalidMethod, method)
		}

		payment = models.Payment{
			InvoiceID:  inv.ID,
			CustomerID: inv.CustomerID,
			Amount:     amount,
			Method:     method,
			PaidAt:     time.Now(),
			Notes:      notes,
			CreatedBy:  actor,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return fmt.Errorf("create payment: %w", err)
		}

		inv.RemainingBalance = pricing.Round2(inv.RemainingBalance - amount)
		inv.Status = DeriveStatus(inv.Status, inv.RemainingBalance, inv.TotalAmount)
		if err := tx.Model(&models.Invoice{}).Where("id = ?", inv.ID).Updates(map[string]any{
			"remaining_balance": inv.RemainingBalance,
			"status":            inv.Status,
		}).Error; err != nil {
			return fmt.Errorf("update invoice: %w", err)
		}

		return audit.Append(tx, actor, models.ActionPaymentAdded, "payment", payment.ID, map[string]any{
			"invoice_number": inv.InvoiceNumber,
			"amount":         payment.Amount,
			"payment_method": payment.Method,
			"new_balance":    inv.RemainingBalance,
			"new_status":     inv.Status,
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Uint("invoice_id", invoiceID).
		Uint("payment_id", payment.ID).
		Float64("amount", amount).
		Str("method", string(method)).
		Str("actor", actor).
		Msg("payment applied")
	return &payment, nil
}

// ReversePayment deletes a payment and adds its amount back onto the owning
// invoice, re-deriving status. Reversal is always permitted, even when the
// invoice is Cancelled; that mirrors the creation-time behavior of the
// books this system replaced.
func (s *Service) ReversePayment(ctx context.Context, paymentID uint, actor string) error {
	// Resolve the owning invoice first so the lock covers the whole
	// delete-restore sequence.
	var probe models.Payment
	if err := s.db.WithContext(ctx).First(&probe, paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPaymentNotFound
		}
		return fmt.Errorf("load payment: %w", err)
	}

	release, err := s.locks.acquire(ctx, probe.InvoiceID, s.lockTimeout)
	if err != nil {
		return err
	}
	defer release()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.First(&payment, paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentNotFound
			}
			return fmt.Errorf("load payment: %w", err)
		}
		var inv models.Invoice
		if err := tx.First(&inv, payment.InvoiceID).Error; err != nil {
			return fmt.Errorf("load invoice: %w", err)
		}

		inv.RemainingBalance = pricing.Round2(inv.RemainingBalance + payment.Amount)
		inv.Status = DeriveStatus(inv.Status, inv.RemainingBalance, inv.TotalAmount)

		if err := audit.Append(tx, actor, models.ActionPaymentDeleted, "payment", payment.ID, map[string]any{
			"invoice_id":     inv.ID,
			"amount":         payment.Amount,
			"payment_method": payment.Method,
		}); err != nil {
			return err
		}
		if err := tx.Delete(&payment).Error; err != nil {
			return fmt.Errorf("delete payment: %w", err)
		}
		if err := tx.Model(&models.Invoice{}).Where("id = ?", inv.ID).Updates(map[string]any{
			"remaining_balance": inv.RemainingBalance,
			"status":            inv.Status,
		}).Error; err != nil {
			return fmt.Errorf("update invoice: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info().
		Uint("payment_id", paymentID).
		Uint("invoice_id", probe.InvoiceID).
		Float64("amount", probe.Amount).
		Str("actor", actor).
		Msg("payment reversed")
	return nil
}

// SetStatus overwrites an invoice status unconditionally. This is a manual
// override for administrative corrections: it bypasses status derivation and
// can leave status inconsistent with the numeric balance.
func (s *Service) SetStatus(ctx context.Context, invoiceID uint, newStatus models.InvoiceStatus, actor string) error {
	if !models.ValidStatus(newStatus) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, newStatus)
	}

	release, err := s.locks.acquire(ctx, invoiceID, s.lockTimeout)
	if err != nil {
		return err
	}
	defer release()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inv models.Invoice
		if err := tx.First(&inv, invoiceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvoiceNotFound
			}
			return fmt.Errorf("load invoice: %w", err)
		}
		oldStatus := inv.Status
		if err := tx.Model(&models.Invoice{}).Where("id = ?", inv.ID).
			Update("status", newStatus).Error; err != nil {
			return fmt.Errorf("update status: %w", err)
		}
		return audit.Append(tx, actor, models.ActionStatusChanged, "invoice", inv.ID, map[string]any{
			"old_status": oldStatus,
			"new_status": newStatus,
		})
	})
}

// PaymentHistory lists an invoice's payments, newest first.
func (s *Service) PaymentHistory(ctx context.Context, invoiceID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := s.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("paid_at DESC, id DESC").
		Find(&payments).Error
	if err != nil {
		return nil, fmt.Errorf("load payments: %w", err)
	}
	return payments, nil
}
