// Package sales stores the append-only sale journal.
package sales

import (
	"context"
	"time"

	"github.com/dmitrijs2005/stockkeeper/internal/server/models"
)

// Repository persists sales. Sales are never updated or deleted, and they
// outlive the products and accounts they reference.
type Repository interface {
	// Create inserts the sale and fills in its generated id.
	Create(ctx context.Context, sale *models.Sale) (*models.Sale, error)
	// ListByAccount returns the account's sales sold in [from, to), newest first.
	ListByAccount(ctx context.Context, accountID string, from, to time.Time) ([]*models.SaleLine, error)
	// ListStaff returns sales of every non-admin account sold in [from, to),
	// newest first. Sales of deleted accounts are included.
	ListStaff(ctx context.Context, from, to time.Time) ([]*models.SaleLine, error)
}
