// Package accounts declares the credential store contract and its
// PostgreSQL and in-memory implementations.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/stockkeeper/internal/server/models"
)

// Repository persists accounts. Lookups return common.ErrorNotFound for
// missing rows and Create returns common.ErrorConflict for a taken name.
type Repository interface {
	// LockBootstrap serialises admin bootstrap. It must be called inside a
	// transaction; the lock is released on commit or rollback.
	LockBootstrap(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByName(ctx context.Context, name string) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	List(ctx context.Context) ([]*models.Account, error)
	Delete(ctx context.Context, id string) error
	// SetTOTP stores the two-factor state. An empty secret clears it.
	SetTOTP(ctx context.Context, id string, secret string, enabled bool) error
}
