// Package server wires the StockKeeper application: storage backends,
// session store, report archive, services, the gRPC endpoint and the
// Prometheus metrics endpoint. It handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/stockkeeper/internal/cryptox"
	"github.com/dmitrijs2005/stockkeeper/internal/dbx"
	"github.com/dmitrijs2005/stockkeeper/internal/logging"
	"github.com/dmitrijs2005/stockkeeper/internal/server/archive"
	"github.com/dmitrijs2005/stockkeeper/internal/server/config"
	"github.com/dmitrijs2005/stockkeeper/internal/server/metrics"
	"github.com/dmitrijs2005/stockkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/stockkeeper/internal/server/services"
	"github.com/dmitrijs2005/stockkeeper/internal/server/sessions"
	"github.com/dmitrijs2005/stockkeeper/internal/server/twofa"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/crypto/bcrypt"

	gs "github.com/dmitrijs2005/stockkeeper/internal/server/grpc"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const shutdownTimeout = 5 * time.Second

// seams for tests
var (
	openDB         = sql.Open
	newRedisClient = sessions.NewRedisClient
	newS3Archive   = func(ctx context.Context, o archive.S3Options) (archive.Archive, error) {
		return archive.NewS3Archive(ctx, o)
	}
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	grpc     *gs.GRPCServer
	registry *prometheus.Registry
	closers  []func() error
}

// NewApp builds every component from c. An empty DSN selects the in-memory
// store, an empty Redis address in-memory sessions, and an empty S3 endpoint
// or bucket the in-memory archive.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	app := &App{config: c, logger: logger, registry: prometheus.NewRegistry()}

	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	rec, err := metrics.NewRecorder(app.registry)
	if err != nil {
		return nil, fmt.Errorf("metrics init error: %w", err)
	}

	loc, err := time.LoadLocation(c.ReportTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid report timezone %q: %w", c.ReportTimezone, err)
	}

	tx, repos, err := app.initStore(ctx)
	if err != nil {
		app.close()
		return nil, err
	}

	store, err := app.initSessions(ctx)
	if err != nil {
		app.close()
		return nil, err
	}

	arch, err := app.initArchive(ctx)
	if err != nil {
		app.close()
		return nil, err
	}

	d := services.Deps{
		Tx:       tx,
		Repos:    repos,
		Sessions: store,
		Hasher:   cryptox.NewBcryptHasher(bcrypt.DefaultCost),
		TOTP:     twofa.NewAuthenticator(c.TOTPIssuer, time.Now),
		Archive:  arch,
		Metrics:  rec,
		Logger:   logger.With("module", "services"),
	}

	app.grpc = gs.NewGRPCServer(c.EndpointAddrGRPC, logger, gs.Services{
		Accounts:  services.NewAccountService(d, c),
		TwoFactor: services.NewTwoFactorService(d),
		Products:  services.NewProductService(d),
		Sales:     services.NewSaleService(d),
		Reports:   services.NewReportService(d, loc),
	}, rec)

	return app, nil
}

func (app *App) initStore(ctx context.Context) (dbx.Transactor, repomanager.RepositoryManager, error) {
	if app.config.DatabaseDSN == "" {
		app.logger.Warn(ctx, "database DSN is empty, using in-memory store")
		m := repomanager.NewMemoryRepositoryManager()
		return m, m, nil
	}

	db, err := openDB("pgx", app.config.DatabaseDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("db init error: %w", err)
	}
	app.closers = append(app.closers, db.Close)

	if err := db.PingContext(ctx); err != nil {
		return nil, nil, fmt.Errorf("db ping error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		return nil, nil, fmt.Errorf("migrations error: %w", err)
	}

	return dbx.NewSQLTransactor(db, nil), m, nil
}

func (app *App) initSessions(ctx context.Context) (sessions.Store, error) {
	if app.config.RedisAddr == "" {
		app.logger.Warn(ctx, "redis address is empty, keeping sessions in memory")
		return sessions.NewMemoryStore(time.Now), nil
	}

	client, err := newRedisClient(ctx, app.config.RedisAddr, app.config.RedisPassword, app.config.RedisDB)
	if err != nil {
		return nil, fmt.Errorf("redis init error: %w", err)
	}
	app.closers = append(app.closers, client.Close)

	return sessions.NewRedisStore(client), nil
}

func (app *App) initArchive(ctx context.Context) (archive.Archive, error) {
	if app.config.S3BaseEndpoint == "" || app.config.S3Bucket == "" {
		app.logger.Warn(ctx, "S3 endpoint or bucket is empty, keeping report exports in memory")
		return archive.NewMemoryArchive(), nil
	}

	a, err := newS3Archive(ctx, archive.S3Options{
		Region:       app.config.S3Region,
		AccessKey:    app.config.S3RootUser,
		SecretKey:    app.config.S3RootPassword,
		BaseEndpoint: app.config.S3BaseEndpoint,
		Bucket:       app.config.S3Bucket,
	})
	if err != nil {
		return nil, fmt.Errorf("s3 init error: %w", err)
	}
	return a, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.grpc.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startMetricsServer(ctx context.Context, cancelFunc context.CancelFunc) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(app.registry))
	srv := &http.Server{Addr: app.config.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping metrics server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "metrics server shutdown", "error", err.Error())
		}
	}()

	app.logger.Info(ctx, "Starting metrics server", "address", app.config.MetricsAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is done, a termination signal arrives or a server
// fails, then releases the store connections.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	if app.config.MetricsAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startMetricsServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	app.close()
	app.logger.Info(context.Background(), "App stopped")
}

func (app *App) close() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](); err != nil {
			app.logger.Error(context.Background(), "close error", "error", err.Error())
		}
	}
	app.closers = nil
}
