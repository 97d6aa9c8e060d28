package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/bridge"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/gate"
	httpapi "github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/http"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/service"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/session"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/store"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/internal/miniapp/store/drivers/sqlite"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/httpx"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/jwtx"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/mbsdk"
	"github.com/Dev-JBA/JBAAI-WEB-VIEW/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application wires the mini-app web service together.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	signer   *jwtx.EdDSASigner
	verifier *jwtx.EdDSAVerifier
	backend  *mbsdk.Client
	sessions *session.Store
	gate     *gate.Gate

	// Services
	verificationService *service.VerificationService
	catalogService      *service.CatalogService
	paymentService      *service.PaymentService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server    *http.Server
	router    *httpapi.Router
	closing   chan struct{}
	closeOnce sync.Once
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "miniapp-web",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		closing: make(chan struct{}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initCore(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := app.initHTTP(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	return app, nil
}

// Handler is the application's HTTP handler.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("miniapp web starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down miniapp web...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Event streams never go idle on their own.
	app.closeOnce.Do(func() { close(app.closing) })

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	// Running exchanges are abandoned; their tokens stay consumed.
	app.gate.Close()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("miniapp web stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initCore sets up keys, the backend client, the session store and the gate
func (app *Application) initCore() error {
	signer, verifier, err := InitTabKeys(app.cfg, app.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize tab keys: %w", err)
	}
	app.signer = signer
	app.verifier = verifier

	sealer, err := InitSealer(app.cfg, app.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize session sealer: %w", err)
	}

	backend := mbsdk.NewClient(app.cfg.BackendURL)
	backend.HTTPClient.Timeout = app.cfg.BackendTimeout
	backend.TokenField = app.cfg.TokenField
	backend.TokenAliases = app.cfg.TokenAliases
	backend.Retries = app.cfg.BackendRetries
	app.backend = backend

	app.sessions = session.NewStore(app.db, sealer, app.cfg.TabTTL)
	app.gate = gate.New(gate.Config{
		Exchanger:   backend,
		Sessions:    app.sessions,
		Consumed:    app.db.ConsumedTokens(),
		Timeout:     app.cfg.ExchangeTimeout,
		ConsumedTTL: app.cfg.TabTTL,
	})
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() error {
	port, err := bridge.New(app.cfg.BridgePort)
	if err != nil {
		return err
	}
	app.logger.Info("payment bridge configured", "port", port.Name())

	app.verificationService = &service.VerificationService{
		Gate:          app.gate,
		Sessions:      app.sessions,
		TokenKey:      app.cfg.TokenKey,
		Marker:        app.cfg.ContextMarker,
		RequireMarker: app.cfg.RequireMarker,
	}
	app.catalogService = service.NewCatalogService(app.backend, app.cfg.CatalogTTL)
	app.paymentService = &service.PaymentService{
		Backend:  app.backend,
		Sessions: app.sessions,
		Store:    app.db,
		Port:     port,
		TTL:      app.cfg.TransactionTTL,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.gate,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() error {
	views, err := httpapi.NewViews()
	if err != nil {
		return fmt.Errorf("failed to parse page templates: %w", err)
	}

	router := httpapi.NewRouter(
		httpx.TabConfig{
			Signer:   app.signer,
			Verifier: app.verifier,
			Issuer:   app.cfg.Issuer,
			Audience: tabAudience,
			TTL:      app.cfg.TabTTL,
			Secure:   app.cfg.CookieSecure,
		},
		BuildVersion,
		app.db,
		views,
		app.logger,
	)

	// Wire services to router
	router.Sessions = app.sessions
	router.Verification = app.verificationService
	router.Catalog = app.catalogService
	router.Payments = app.paymentService
	router.LoginURL = app.cfg.LoginURL
	router.Grace = app.cfg.VerifyGrace
	router.Closing = app.closing
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return nil
}
