// Package sessions keeps per-login state: who is logged in and which shift
// they work. Sessions expire together with their access token.
package sessions

import (
	"context"
	"time"

	"github.com/dmitrijs2005/stockkeeper/internal/server/models"
)

// Store persists sessions. Missing or expired sessions are
// common.ErrorNotFound.
type Store interface {
	Create(ctx context.Context, s *models.Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (*models.Session, error)
	// SetShift records the shift without extending the session lifetime.
	SetShift(ctx context.Context, id string, shift models.Shift) (*models.Session, error)
	Delete(ctx context.Context, id string) error
}
