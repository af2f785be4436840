// Package services contains server-side business logic: accounts and
// sessions, two-factor authentication, the stock ledger, sale recording and
// reports. Services take the caller's *models.Session where an operation is
// scoped to a logged-in account.
package services

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/stockkeeper/internal/common"
	"github.com/dmitrijs2005/stockkeeper/internal/cryptox"
	"github.com/dmitrijs2005/stockkeeper/internal/dbx"
	"github.com/dmitrijs2005/stockkeeper/internal/logging"
	"github.com/dmitrijs2005/stockkeeper/internal/server/archive"
	"github.com/dmitrijs2005/stockkeeper/internal/server/metrics"
	"github.com/dmitrijs2005/stockkeeper/internal/server/models"
	"github.com/dmitrijs2005/stockkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/stockkeeper/internal/server/sessions"
	"github.com/dmitrijs2005/stockkeeper/internal/server/twofa"
)

// Deps are the collaborators shared by all services. Metrics may be nil;
// Logger and Now default to a no-op logger and time.Now.
type Deps struct {
	Tx       dbx.Transactor
	Repos    repomanager.RepositoryManager
	Sessions sessions.Store
	Hasher   cryptox.PasswordHasher
	TOTP     *twofa.Authenticator
	Archive  archive.Archive
	Metrics  *metrics.Recorder
	Logger   logging.Logger
	Now      func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Logger == nil {
		d.Logger = logging.Nop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

func requireSession(s *models.Session) error {
	if s == nil || s.AccountID == "" {
		return common.ErrorUnauthorized
	}
	return nil
}

func requireAdmin(s *models.Session) error {
	if err := requireSession(s); err != nil {
		return err
	}
	if !s.IsAdmin {
		return fmt.Errorf("%w: admin only", common.ErrorForbidden)
	}
	return nil
}
