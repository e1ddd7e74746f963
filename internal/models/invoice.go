package models

import "time"

// Invoice is one priced delivery of silver to a customer. TotalAmount and
// NumPieces are computed at creation by the pricing calculator;
// RemainingBalance is mutated only through the reconciliation service or an
// explicit status override.
type Invoice struct {
	ID            uint      `gorm:"primaryKey"`
	InvoiceNumber string    `gorm:"size:50;uniqueIndex;not null"`
	CustomerID    uint      `gorm:"not null;index"`
	Date          time.Time `gorm:"not null"`

	// Silver details
	SilverWeight float64 `gorm:"not null"` // kg
	PieceSize    string  `gorm:"size:20;not null"`
	NumPieces    float64 `gorm:"not null"`

	// Billing details
	BillingMode BillingMode `gorm:"size:20;not null"`
	Rate        float64     `gorm:"not null"` // per kg (Ready) or per piece (Mazduri)
	TotalAmount float64     `gorm:"not null"`
	TaxAmount   float64     `gorm:"default:0"`

	// Payment state
	AdvancePayment   float64       `gorm:"default:0"`
	RemainingBalance float64       `gorm:"not null"`
	Status           InvoiceStatus `gorm:"size:20;not null;default:'Unpaid'"`

	Notes     string `gorm:"type:text"`
	CreatedBy string `gorm:"size:100"`

	Payments []Payment `gorm:"foreignKey:InvoiceID"`
}

// Editable reports whether structural fields may still change. Once a second
// payment lands (anything beyond the initial advance) the invoice is frozen;
// cancelled invoices are never editable. Enforcement of the gate belongs to
// the invoking layer; Payments must be loaded for the answer to be accurate.
func (i *Invoice) Editable() bool {
	if i.Status == StatusCancelled {
		return false
	}
	return len(i.Payments) <= 1
}
