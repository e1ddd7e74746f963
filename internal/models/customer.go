package models

import "time"

// Customer owns its invoices and payments. Deletion cascades explicitly in
// the service layer rather than through ORM relationship metadata.
type Customer struct {
	ID              uint   `gorm:"primaryKey"`
	Name            string `gorm:"size:200;not null;index"`
	Contact         string `gorm:"size:50;not null"`
	Notes           string `gorm:"type:text"`
	LastInvoiceDate *time.Time
	CreatedAt       time.Time

	Invoices []Invoice `gorm:"foreignKey:CustomerID"`
}
