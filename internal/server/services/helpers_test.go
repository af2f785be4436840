package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/stockkeeper/internal/cryptox"
	"github.com/dmitrijs2005/stockkeeper/internal/server/archive"
	"github.com/dmitrijs2005/stockkeeper/internal/server/config"
	"github.com/dmitrijs2005/stockkeeper/internal/server/metrics"
	"github.com/dmitrijs2005/stockkeeper/internal/server/models"
	"github.com/dmitrijs2005/stockkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/stockkeeper/internal/server/sessions"
	"github.com/dmitrijs2005/stockkeeper/internal/server/twofa"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type env struct {
	deps     Deps
	clock    *testClock
	archive  *archive.MemoryArchive
	accounts *AccountService
	twoFA    *TwoFactorService
	products *ProductService
	sales    *SaleService
	reports  *ReportService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	clock := &testClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	rm := repomanager.NewMemoryRepositoryManager()
	rec, err := metrics.NewRecorder(prometheus.NewRegistry())
	require.NoError(t, err)
	arch := archive.NewMemoryArchive()

	d := Deps{
		Tx:       rm,
		Repos:    rm,
		Sessions: sessions.NewMemoryStore(clock.Now),
		Hasher:   cryptox.NewBcryptHasher(bcrypt.MinCost),
		TOTP:     twofa.NewAuthenticator("StockKeeper", clock.Now),
		Archive:  arch,
		Metrics:  rec,
		Now:      clock.Now,
	}
	cfg := &config.Config{SecretKey: "test-secret", AccessTokenValidityDuration: time.Hour}

	return &env{
		deps:     d,
		clock:    clock,
		archive:  arch,
		accounts: NewAccountService(d, cfg),
		twoFA:    NewTwoFactorService(d),
		products: NewProductService(d),
		sales:    NewSaleService(d),
		reports:  NewReportService(d, time.UTC),
	}
}

// login registers name (first one becomes admin) and returns its session.
func (e *env) login(t *testing.T, name string) *models.Session {
	t.Helper()
	ctx := context.Background()
	_, err := e.accounts.Register(ctx, name, "pw-"+name)
	require.NoError(t, err)
	res, err := e.accounts.Login(ctx, name, "pw-"+name, "")
	require.NoError(t, err)
	require.NotNil(t, res.Session)
	return res.Session
}

// onShift logs name in and selects shift.
func (e *env) onShift(t *testing.T, name string, shift models.Shift) *models.Session {
	t.Helper()
	sess := e.login(t, name)
	sess, err := e.accounts.SelectShift(context.Background(), sess, string(shift))
	require.NoError(t, err)
	return sess
}

func ptr[T any](v T) *T { return &v }
