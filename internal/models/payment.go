package models

import "time"

// Payment is immutable once created; the only way out is reversal, which is
// itself an audited action. CustomerID is denormalized so customer-level
// aggregates never need a join through invoices.
type Payment struct {
	ID         uint          `gorm:"primaryKey"`
	InvoiceID  uint          `gorm:"not null;index"`
	CustomerID uint          `gorm:"not null;index"`
	Amount     float64       `gorm:"not null"`
	Method     PaymentMethod `gorm:"size:50;not null"`
	PaidAt     time.Time     `gorm:"not null"`
	Notes      string        `gorm:"type:text"`
	CreatedBy  string        `gorm:"size:100"`
	CreatedAt  time.Time
}
