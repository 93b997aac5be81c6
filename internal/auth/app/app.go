package app

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flixtify/rolegate/internal/auth/domain"
	httpapi "github.com/flixtify/rolegate/internal/auth/http"
	"github.com/flixtify/rolegate/internal/auth/service"
	"github.com/flixtify/rolegate/internal/auth/store"
	"github.com/flixtify/rolegate/internal/auth/store/drivers/sqlite"
	"github.com/flixtify/rolegate/pkg/idx"
	"github.com/flixtify/rolegate/pkg/jwtx"
	"github.com/flixtify/rolegate/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application wires the store, services and HTTP server together.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db      store.Store
	keyPair *jwtx.KeyPair

	authService         *service.AuthService
	roleService         *service.RoleService
	menuService         *service.MenuService
	assignmentService   *service.AssignmentService
	userService         *service.UserService
	twoFAService        *service.TwoFAService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "rolegate",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initSigningKey(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := app.seedRoles(context.Background()); err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("seed roles: %w", err)
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("rolegate starting", "port", app.cfg.Port, "version", BuildVersion)

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

// Shutdown gracefully stops the server, housekeeping and database.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down rolegate...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("rolegate stopped")
	return nil
}

func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied")
	return nil
}

// initSigningKey loads the Ed25519 key pair. Without a configured seed the
// key is ephemeral and every restart invalidates outstanding tokens.
func (app *Application) initSigningKey() error {
	var seed []byte
	if app.cfg.SigningKeySeed != "" {
		decoded, err := hex.DecodeString(app.cfg.SigningKeySeed)
		if err != nil {
			return fmt.Errorf("decode signing key seed: %w", err)
		}
		seed = decoded
	}

	kp, err := jwtx.NewKeyPair(app.cfg.KeyID, seed)
	if err != nil {
		return fmt.Errorf("initialize signing key: %w", err)
	}
	app.keyPair = kp

	if seed == nil {
		app.logger.Warn("no signing key seed configured, using ephemeral key")
	}
	return nil
}

// seedRoles makes sure the default and admin roles exist so registration and
// the admin gate work on a fresh database.
func (app *Application) seedRoles(ctx context.Context) error {
	for _, name := range []string{app.cfg.DefaultRoleName, app.cfg.AdminRoleName} {
		_, err := app.db.Roles().GetRoleByName(ctx, name)
		if err == nil {
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		err = app.db.Roles().CreateRole(ctx, domain.Role{
			ID:   idx.New().String(),
			Name: name,
		})
		if err != nil && !errors.Is(err, store.ErrAlreadyExists) {
			return err
		}
		app.logger.Info("seeded role", "role", name)
	}
	return nil
}

func (app *Application) initServices() {
	app.authService = &service.AuthService{
		Store:           app.db,
		Signer:          app.keyPair.Signer(),
		Verifier:        app.keyPair.Verifier(app.cfg.Issuer),
		Issuer:          app.cfg.Issuer,
		Pepper:          app.cfg.Pepper,
		AccessTTL:       app.cfg.AccessTokenTTL,
		RefreshTTL:      app.cfg.RefreshTokenTTL,
		DefaultRoleName: app.cfg.DefaultRoleName,
	}

	app.roleService = &service.RoleService{Store: app.db}
	app.menuService = &service.MenuService{Store: app.db}
	app.assignmentService = &service.AssignmentService{Store: app.db}
	app.userService = &service.UserService{Store: app.db}
	app.twoFAService = &service.TwoFAService{
		Store:  app.db,
		Issuer: app.cfg.Issuer,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

func (app *Application) initHTTP() {
	app.router = httpapi.NewRouter(httpapi.RouterConfig{
		Auth:          app.authService,
		Roles:         app.roleService,
		Menus:         app.menuService,
		Assignments:   app.assignmentService,
		Users:         app.userService,
		TwoFA:         app.twoFAService,
		Store:         app.db,
		Verifier:      app.keyPair.Verifier(app.cfg.Issuer),
		AdminRoleName: app.cfg.AdminRoleName,
		Version:       BuildVersion,
		StartTime:     time.Now(),
	}, slogx.HTTPMiddleware(app.logger))

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           app.router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
