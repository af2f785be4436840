package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID        string
	Name      string
	Price     decimal.Decimal
	Quantity  int64
	Minimum   int64
	Category  Category
	CreatedAt time.Time
}

// ProductUpsert is the input of a create-or-merge registration.
// Nil Minimum/Category mean "not supplied".
type ProductUpsert struct {
	Name     string
	Price    decimal.Decimal
	Quantity int64
	Minimum  *int64
	Category *Category
}

// ProductFields is a partial update; nil fields keep their value.
type ProductFields struct {
	Quantity *int64
	Minimum  *int64
	Category *Category
}

// StockAlert is a product whose stock has reached its minimum threshold.
type StockAlert struct {
	Product   *Product
	Shortfall int64
}
