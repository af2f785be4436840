package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/stockkeeper/internal/common"
	"github.com/dmitrijs2005/stockkeeper/internal/dbx"
	"github.com/dmitrijs2005/stockkeeper/internal/server/auth"
	"github.com/dmitrijs2005/stockkeeper/internal/server/config"
	"github.com/dmitrijs2005/stockkeeper/internal/server/models"
	"github.com/google/uuid"
)

// LoginResult is the outcome of a login attempt. When TwoFactorRequired is
// set no session was created and the caller must resubmit with a code.
type LoginResult struct {
	TwoFactorRequired bool
	AccessToken       string
	Session           *models.Session
}

// AccountService handles registration, account administration, login and
// the session lifecycle.
type AccountService struct {
	deps                        Deps
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration

	dummyOnce sync.Once
	dummy     []byte
}

func NewAccountService(d Deps, cfg *config.Config) *AccountService {
	return &AccountService{
		deps:                        d.withDefaults(),
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// Register creates a self-service account. The very first account becomes
// the administrator; the count and the insert share a transaction that holds
// the bootstrap lock.
func (s *AccountService) Register(ctx context.Context, name, password string) (*models.Account, error) {
	account, err := s.newAccount(name, password)
	if err != nil {
		return nil, err
	}

	err = s.deps.Tx.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.deps.Repos.Accounts(tx)
		if err := repo.LockBootstrap(ctx); err != nil {
			return err
		}
		n, err := repo.Count(ctx)
		if err != nil {
			return err
		}
		account.IsAdmin = n == 0
		account, err = repo.Create(ctx, account)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error creating account: %w", err)
	}

	if account.IsAdmin {
		s.deps.Logger.Info(ctx, "administrator bootstrapped", "account_id", account.ID)
	}
	return account, nil
}

// CreateAccount lets an administrator issue a staff account.
func (s *AccountService) CreateAccount(ctx context.Context, actor *models.Session, name, password string) (*models.Account, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	account, err := s.newAccount(name, password)
	if err != nil {
		return nil, err
	}
	account, err = s.deps.Repos.Accounts(s.deps.Tx.Conn()).Create(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("error creating account: %w", err)
	}
	return account, nil
}

// DeleteAccount removes an account but keeps its sales. Administrators
// cannot delete themselves.
func (s *AccountService) DeleteAccount(ctx context.Context, actor *models.Session, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if id == actor.AccountID {
		return fmt.Errorf("%w: cannot delete own account", common.ErrorForbidden)
	}
	if err := s.deps.Repos.Accounts(s.deps.Tx.Conn()).Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting account: %w", err)
	}
	return nil
}

func (s *AccountService) ListAccounts(ctx context.Context, actor *models.Session) ([]*models.Account, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	list, err := s.deps.Repos.Accounts(s.deps.Tx.Conn()).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing accounts: %w", err)
	}
	return list, nil
}

// Login verifies the password and, for accounts with two-factor enabled,
// the TOTP code. The password is checked on every submission.
func (s *AccountService) Login(ctx context.Context, name, password, code string) (*LoginResult, error) {
	name = strings.TrimSpace(name)
	if name == "" || password == "" {
		return nil, fmt.Errorf("%w: name and password are required", common.ErrorInvalidInput)
	}

	account, err := s.deps.Repos.Accounts(s.deps.Tx.Conn()).GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// unknown names cost the same bcrypt round as a wrong password
			_, _ = s.deps.Hasher.Verify(s.dummyHash(), password)
			s.deps.Metrics.Login("failed")
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error loading account: %w", err)
	}

	ok, err := s.deps.Hasher.Verify(account.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	if !ok {
		s.deps.Metrics.Login("failed")
		return nil, common.ErrorUnauthorized
	}

	if account.TOTPEnabled {
		if code == "" {
			s.deps.Metrics.Login("2fa_required")
			return &LoginResult{TwoFactorRequired: true}, nil
		}
		if !s.deps.TOTP.Validate(account.TOTPSecret, code) {
			s.deps.Metrics.Login("failed")
			return nil, common.ErrorInvalidCode
		}
	}

	sess := &models.Session{
		ID:          uuid.NewString(),
		AccountID:   account.ID,
		AccountName: account.Name,
		IsAdmin:     account.IsAdmin,
		CreatedAt:   s.deps.Now(),
	}
	if err := s.deps.Sessions.Create(ctx, sess, s.accessTokenValidityDuration); err != nil {
		return nil, fmt.Errorf("error creating session: %w", err)
	}

	token, err := auth.GenerateToken(sess.ID, account.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	s.deps.Metrics.Login("ok")
	return &LoginResult{AccessToken: token, Session: sess}, nil
}

func (s *AccountService) Logout(ctx context.Context, sess *models.Session) error {
	if err := requireSession(sess); err != nil {
		return err
	}
	if err := s.deps.Sessions.Delete(ctx, sess.ID); err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}
	return nil
}

// Authenticate resolves an access token to its live session. Tokens of
// logged-out sessions and of deleted accounts are rejected.
func (s *AccountService) Authenticate(ctx context.Context, token string) (*models.Session, error) {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
	}

	sess, err := s.deps.Sessions.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: session expired", common.ErrorUnauthorized)
		}
		return nil, fmt.Errorf("error loading session: %w", err)
	}
	if sess.AccountID != claims.AccountID {
		return nil, common.ErrorUnauthorized
	}

	account, err := s.deps.Repos.Accounts(s.deps.Tx.Conn()).GetByID(ctx, sess.AccountID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: account deleted", common.ErrorUnauthorized)
		}
		return nil, fmt.Errorf("error loading account: %w", err)
	}
	sess.IsAdmin = account.IsAdmin

	return sess, nil
}

// SelectShift sets the working shift of the session.
func (s *AccountService) SelectShift(ctx context.Context, sess *models.Session, shift string) (*models.Session, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	sh, err := models.ParseShift(shift)
	if err != nil {
		return nil, err
	}
	updated, err := s.deps.Sessions.SetShift(ctx, sess.ID, sh)
	if err != nil {
		return nil, fmt.Errorf("error updating session: %w", err)
	}
	return updated, nil
}

func (s *AccountService) dummyHash() []byte {
	s.dummyOnce.Do(func() {
		s.dummy, _ = s.deps.Hasher.Hash(uuid.NewString())
	})
	return s.dummy
}

func (s *AccountService) newAccount(name, password string) (*models.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" || password == "" {
		return nil, fmt.Errorf("%w: name and password are required", common.ErrorInvalidInput)
	}
	hash, err := s.deps.Hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return &models.Account{Name: name, PasswordHash: hash}, nil
}
