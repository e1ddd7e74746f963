package reports

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/silvertrading/billing/internal/models"
)

// Service produces read-only financial summaries over persisted ledger
// state.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// MonthlyRevenue returns collected revenue (total minus what is still owed)
// per month name for the given year.
func (s *Service) MonthlyRevenue(ctx context.Context, year int) (map[string]float64, error) {
	var invoices []models.Invoice
	err := s.db.WithContext(ctx).
		Where("date >= ? AND date < ?",
			fmt.Sprintf("%04d-01-01", year), fmt.Sprintf("%04d-01-01", year+1)).
		Find(&invoices).Error
	if err != nil {
		return nil, fmt.Errorf("load invoices: %w", err)
	}
	revenue := make(map[string]float64)
	for _, inv := range invoices {
		month := inv.Date.Format("January")
		revenue[month] += inv.TotalAmount - inv.RemainingBalance
	}
	return revenue, nil
}

// Summary is the overall position of the book.
type Summary struct {
	TotalInvoiced float64 `json:"total_invoiced"`
	TotalPaid     float64 `json:"total_paid"`
	Outstanding   float64 `json:"outstanding"`
}

// PaymentSummary totals invoiced and collected amounts across the ledger.
func (s *Service) PaymentSummary(ctx context.Context) (Summary, error) {
	var out Summary
	err := s.db.WithContext(ctx).Model(&models.Invoice{}).
		Select("COALESCE(SUM(total_amount), 0)").Scan(&out.TotalInvoiced).Error
	if err != nil {
		return Summary{}, fmt.Errorf("sum invoiced: %w", err)
	}
	err = s.db.WithContext(ctx).Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0)").Scan(&out.TotalPaid).Error
	if err != nil {
		return Summary{}, fmt.Errorf("sum paid: %w", err)
	}
	out.Outstanding = out.TotalInvoiced - out.TotalPaid
	return out, nil
}
