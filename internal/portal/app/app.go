package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/silveracademy/familyportal/internal/portal/http"
	"github.com/silveracademy/familyportal/internal/portal/notify"
	"github.com/silveracademy/familyportal/internal/portal/service"
	"github.com/silveracademy/familyportal/internal/portal/store"
	"github.com/silveracademy/familyportal/internal/portal/store/drivers/sqlite"
	"github.com/silveracademy/familyportal/pkg/cryptox"
	"github.com/silveracademy/familyportal/pkg/jwtx"
	"github.com/silveracademy/familyportal/pkg/slogx"
)

// BuildVersion should be set at build time via ldflags.
const BuildVersion = "v0.1.0"

// Application encapsulates the portal code service with all its
// dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	mailer notify.Mailer

	codeService     *service.ParentCodeService
	linkService     *service.LinkService
	codeMailService *service.CodeMailService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "portal-codes",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("PORTAL_JWT_SECRET is required")
	}

	// Key material for code hashing and plaintext retention.
	cryptox.SetPepperPath(cfg.PepperFile)
	if cfg.MasterKeyPath != "" {
		cryptox.SetMasterKeyPath(cfg.MasterKeyPath)
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initMailer()
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("portal code service starting", "port", app.cfg.Port, "version", BuildVersion)

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

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down portal code service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("portal code service stopped")
	return nil
}

func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
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

func (app *Application) initMailer() {
	if app.cfg.SendgridAPIKey != "" {
		app.mailer = notify.NewSendgridMailer(app.cfg.SendgridAPIKey, app.cfg.MailFromName, app.cfg.MailFromEmail)
		app.logger.Info("sendgrid mailer enabled", "from", app.cfg.MailFromEmail)
		return
	}
	app.mailer = notify.NewConsoleMailer(app.logger)
	app.logger.Warn("no SENDGRID_API_KEY set, emails go to the log")
}

func (app *Application) initServices() {
	app.codeService = &service.ParentCodeService{Store: app.db}
	app.linkService = &service.LinkService{
		Store:  app.db,
		Codes:  app.codeService,
		Mailer: app.mailer,
	}
	app.codeMailService = &service.CodeMailService{
		Store:  app.db,
		Codes:  app.codeService,
		Mailer: app.mailer,
	}
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		jwtx.NewHS256Verifier(app.cfg.JWTSecret, app.cfg.JWTIssuer),
		BuildVersion,
		app.db,
		app.logger,
	)

	router.CodeService = app.codeService
	router.LinkService = app.linkService
	router.CodeMailService = app.codeMailService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
