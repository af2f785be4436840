package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/stockkeeper/internal/common"
	"github.com/dmitrijs2005/stockkeeper/internal/server/models"
)

// Enrollment is a TOTP secret offered to the user but not yet bound to the
// account.
type Enrollment struct {
	Secret string
	URI    string
}

// TwoFactorService drives the per-account TOTP state machine:
// disabled, pending enrollment (client-held secret), enabled.
type TwoFactorService struct {
	deps Deps
}

func NewTwoFactorService(d Deps) *TwoFactorService {
	return &TwoFactorService{deps: d.withDefaults()}
}

// Begin issues a fresh secret. Nothing is stored, so an abandoned
// enrollment leaves the account untouched.
func (s *TwoFactorService) Begin(ctx context.Context, sess *models.Session) (*Enrollment, error) {
	account, err := s.account(ctx, sess)
	if err != nil {
		return nil, err
	}
	if account.TOTPEnabled {
		return nil, fmt.Errorf("%w: two-factor already enabled", common.ErrorConflict)
	}
	secret, uri, err := s.deps.TOTP.NewSecret(account.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return &Enrollment{Secret: secret, URI: uri}, nil
}

// Confirm binds secret to the account once code proves the authenticator
// holds it.
func (s *TwoFactorService) Confirm(ctx context.Context, sess *models.Session, secret, code string) error {
	account, err := s.account(ctx, sess)
	if err != nil {
		return err
	}
	if account.TOTPEnabled {
		return fmt.Errorf("%w: two-factor already enabled", common.ErrorConflict)
	}
	if secret == "" {
		return fmt.Errorf("%w: secret is required", common.ErrorInvalidInput)
	}
	if !s.deps.TOTP.Validate(secret, code) {
		return common.ErrorInvalidCode
	}
	if err := s.deps.Repos.Accounts(s.deps.Tx.Conn()).SetTOTP(ctx, account.ID, secret, true); err != nil {
		return fmt.Errorf("error enabling two-factor: %w", err)
	}
	s.deps.Logger.Info(ctx, "two-factor enabled", "account_id", account.ID)
	return nil
}

// VerifyLogin checks code against the account's bound secret.
func (s *TwoFactorService) VerifyLogin(ctx context.Context, accountID, code string) error {
	account, err := s.deps.Repos.Accounts(s.deps.Tx.Conn()).GetByID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("error loading account: %w", err)
	}
	if !account.TOTPEnabled || !s.deps.TOTP.Validate(account.TOTPSecret, code) {
		return common.ErrorInvalidCode
	}
	return nil
}

// Disable clears the secret after a valid code. Re-enabling requires a new
// enrollment.
func (s *TwoFactorService) Disable(ctx context.Context, sess *models.Session, code string) error {
	account, err := s.account(ctx, sess)
	if err != nil {
		return err
	}
	if !account.TOTPEnabled {
		return fmt.Errorf("%w: two-factor is not enabled", common.ErrorInvalidInput)
	}
	if !s.deps.TOTP.Validate(account.TOTPSecret, code) {
		return common.ErrorInvalidCode
	}
	if err := s.deps.Repos.Accounts(s.deps.Tx.Conn()).SetTOTP(ctx, account.ID, "", false); err != nil {
		return fmt.Errorf("error disabling two-factor: %w", err)
	}
	s.deps.Logger.Info(ctx, "two-factor disabled", "account_id", account.ID)
	return nil
}

func (s *TwoFactorService) Status(ctx context.Context, sess *models.Session) (bool, error) {
	account, err := s.account(ctx, sess)
	if err != nil {
		return false, err
	}
	return account.TOTPEnabled, nil
}

func (s *TwoFactorService) account(ctx context.Context, sess *models.Session) (*models.Account, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	account, err := s.deps.Repos.Accounts(s.deps.Tx.Conn()).GetByID(ctx, sess.AccountID)
	if err != nil {
		return nil, fmt.Errorf("error loading account: %w", err)
	}
	return account, nil
}
