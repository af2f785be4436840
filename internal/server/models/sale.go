package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is an immutable point-of-sale record. UnitPrice is the product price
// at the moment of the sale.
type Sale struct {
	ID        string
	AccountID string
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
	Shift     Shift
	SoldAt    time.Time
}

// Total is quantity × unit price.
func (s *Sale) Total() decimal.Decimal {
	return s.UnitPrice.Mul(decimal.NewFromInt(s.Quantity))
}

// SaleLine is a sale joined with the current state of its product and
// account. ProductName is empty and Category is CategoryUnknown when the
// product has been deleted; AccountName is empty for deleted accounts.
type SaleLine struct {
	Sale
	ProductName string
	Category    Category
	AccountName string
}
