package ledger

import (
	"context"
	"fmt"

	"github.com/silvertrading/billing/internal/models"
)

// CustomerOutstanding sums remaining balances across a customer's
// non-cancelled invoices. The sum is computed by the store on every call so
// it always reflects the latest persisted balances; this number backs
// financial reporting and tolerates no staleness.
func (s *Service) CustomerOutstanding(ctx context.Context, customerID uint) (float64, error) {
	var total float64
	err := s.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("customer_id = ? AND status <> ?", customerID, models.StatusCancelled).
		Select("COALESCE(SUM(remaining_balance), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("sum outstanding: %w", err)
	}
	return total, nil
}
