package products

import (
	"context"

	"github.com/dmitrijs2005/stockkeeper/internal/server/models"
	"github.com/shopspring/decimal"
)

// Repository persists products. Every quantity change is a single atomic
// read-modify-write on one row, so concurrent callers never lose updates or
// drive stock below zero.
type Repository interface {
	// Upsert creates the product or merges into the row whose name matches
	// case-insensitively. created is false for a merge.
	Upsert(ctx context.Context, in models.ProductUpsert) (id string, created bool, err error)
	Get(ctx context.Context, id string) (*models.Product, error)
	List(ctx context.Context) ([]*models.Product, error)
	// ListAtOrBelowMinimum returns products with a positive minimum that the
	// quantity has reached or fallen under, by name.
	ListAtOrBelowMinimum(ctx context.Context) ([]*models.Product, error)
	SetFields(ctx context.Context, id string, in models.ProductFields) error
	// Adjust adds delta to the quantity and returns the new quantity. It fails
	// with common.ErrorInsufficientStock instead of going negative.
	Adjust(ctx context.Context, id string, delta int64) (int64, error)
	// Take removes qty units for a sale and returns the price at that instant
	// together with the remaining quantity.
	Take(ctx context.Context, id string, qty int64) (price decimal.Decimal, remaining int64, err error)
	Delete(ctx context.Context, id string) error
}
