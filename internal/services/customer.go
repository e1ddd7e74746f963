package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/silvertrading/billing/internal/audit"
	"github.com/silvertrading/billing/internal/ledger"
	"github.com/silvertrading/billing/internal/models"
)

type CustomerService struct {
	DB  *gorm.DB
	log zerolog.Logger
}

func NewCustomerService(db *gorm.DB, log zerolog.Logger) *CustomerService {
	return &CustomerService{DB: db, log: log.With().Str("component", "customers").Logger()}
}

func (s *CustomerService) Create(ctx context.Context, name, contact, actor string) (*models.Customer, error) {
	if name == "" || contact == "" {
		return nil, ErrMissingCustomer
	}
	customer := models.Customer{Name: name, Contact: contact}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&customer).Error; err != nil {
			return fmt.Errorf("create customer: %w", err)
		}
		return audit.Append(tx, actor, models.ActionCreated, "customer", customer.ID, map[string]any{
			"name": name, "contact": contact,
		})
	})
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

type UpdateCustomerInput struct {
	Name    *string
	Contact *string
	Notes   *string
}

// Update applies the non-nil fields and audits the changed values.
func (s *CustomerService) Update(ctx context.Context, id uint, in UpdateCustomerInput, actor string) (*models.Customer, error) {
	var customer models.Customer
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&customer, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ledger.ErrCustomerNotFound
			}
			return fmt.Errorf("load customer: %w", err)
		}
		changes := map[string]any{}
		details := map[string]any{}
		if in.Name != nil && *in.Name != customer.Name {
			changes["name"] = *in.Name
			details["name"] = map[string]string{"old": customer.Name, "new": *in.Name}
			customer.Name = *in.Name
		}
		if in.Contact != nil && *in.Contact != customer.Contact {
			changes["contact"] = *in.Contact
			details["contact"] = map[string]string{"old": customer.Contact, "new": *in.Contact}
			customer.Contact = *in.Contact
		}
		if in.Notes != nil && *in.Notes != customer.Notes {
			changes["notes"] = *in.Notes
			details["notes_changed"] = true
			customer.Notes = *in.Notes
		}
		if len(changes) == 0 {
			return nil
		}
		if err := tx.Model(&models.Customer{}).Where("id = ?", id).Updates(changes).Error; err != nil {
			return fmt.Errorf("update customer: %w", err)
		}
		return audit.Append(tx, actor, models.ActionUpdated, "customer", id, details)
	})
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// Delete removes a customer and everything it owns. Cascade is explicit:
// payments first, then invoices, then the customer, all in one transaction.
func (s *CustomerService) Delete(ctx context.Context, id uint, actor string) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.First(&customer, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ledger.ErrCustomerNotFound
			}
			return fmt.Errorf("load customer: %w", err)
		}
		if err := tx.Where("customer_id = ?", id).Delete(&models.Payment{}).Error; err != nil {
			return fmt.Errorf("delete payments: %w", err)
		}
		if err := tx.Where("customer_id = ?", id).Delete(&models.Invoice{}).Error; err != nil {
			return fmt.Errorf("delete invoices: %w", err)
		}
		if err := tx.Delete(&customer).Error; err != nil {
			return fmt.Errorf("delete customer: %w", err)
		}
		return audit.Append(tx, actor, models.ActionDeleted, "customer", id, map[string]any{
			"name": customer.Name,
		})
	})
	if err != nil {
		return err
	}
	s.log.Info().Uint("customer_id", id).Str("actor", actor).Msg("customer deleted with cascade")
	return nil
}

// Get loads a customer with invoices.
func (s *CustomerService) Get(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	err := s.DB.WithContext(ctx).Preload("Invoices").First(&customer, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ledger.ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load customer: %w", err)
	}
	return &customer, nil
}

// List returns all customers.
func (s *CustomerService) List(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	if err := s.DB.WithContext(ctx).Order("id").Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}
