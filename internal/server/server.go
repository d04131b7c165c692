// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

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

	"github.com/labstack/echo/v4"
	"github.com/urfave/cli/v3"

	"github.com/iteratehackerspace/silicondzor/internal/config"
	"github.com/iteratehackerspace/silicondzor/internal/database"
	"github.com/iteratehackerspace/silicondzor/internal/handlers"
	"github.com/iteratehackerspace/silicondzor/internal/i18n"
	"github.com/iteratehackerspace/silicondzor/internal/registry"
	"github.com/iteratehackerspace/silicondzor/internal/repository"
	"github.com/iteratehackerspace/silicondzor/internal/services/account"
	"github.com/iteratehackerspace/silicondzor/internal/services/credentials"
	"github.com/iteratehackerspace/silicondzor/internal/services/email"
	"github.com/iteratehackerspace/silicondzor/internal/services/session"
)

// Run starts the server with the given CLI command.
func Run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	setupLogger(cfg.Log.Level, cfg.Log.Format)

	// Missing production secrets must stop the process here, not on the
	// first request that needs them.
	if err := cfg.Validate(); err != nil {
		return err
	}

	slog.Info("starting server",
		"env", cfg.Env,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
	)

	// Database
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()

	// i18n
	if initErr := i18n.Init(); initErr != nil {
		return fmt.Errorf("failed to init i18n: %w", initErr)
	}

	// Repository
	repo := repository.New(db)

	// Pending verification registry, swept on a fixed interval
	reg := registry.New(time.Duration(cfg.Verification.SweepInterval) * time.Minute)
	defer reg.Close()

	// Sessions
	sessions, err := session.NewManager(&cfg.Session, cfg.CookieSecure())
	if err != nil {
		return fmt.Errorf("failed to create session manager: %w", err)
	}

	// Mail dispatch, logged instead of sent when no SMTP host is
	// configured in debug
	mailer, err := newMailer(cfg)
	if err != nil {
		return fmt.Errorf("failed to create mail dispatcher: %w", err)
	}

	// Workflow
	accounts := account.NewService(repo, reg, credentials.New(cfg.Verification.BcryptCost), mailer)

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	setupMiddleware(e, cfg)
	setupRoutes(e, repo, accounts, sessions)

	return startWithGracefulShutdown(e, cfg)
}

func newMailer(cfg *config.Config) (account.Mailer, error) {
	if !cfg.IsProduction() && cfg.SMTP.Host == "" {
		slog.Info("no SMTP host configured, verification links are logged")
		return &email.DebugDispatcher{BaseURL: cfg.Server.BaseURL}, nil
	}
	return email.NewService(&cfg.SMTP, cfg.Server.BaseURL)
}

func setupRoutes(e *echo.Echo, repo *repository.Repository, accounts *account.Service, sessions *session.Manager) {
	h := handlers.New(repo)
	authHandlers := handlers.NewAuth(accounts, sessions)
	eventHandlers := handlers.NewEvents(repo, sessions)

	// Static files
	e.Static("/static", "static")

	// Routes
	e.GET("/health", h.Health)
	e.GET("/", h.Home)
	e.POST("/new-account", authHandlers.Register)
	e.POST("/sign-in", authHandlers.SignIn)
	e.GET("/verify-account/:identifier", authHandlers.Verify)
	e.POST("/add-tech-event", eventHandlers.AddEvent)

	// No other handler picked it up, so this is the 404
	e.RouteNotFound("/*", h.NotFound)
}

func startWithGracefulShutdown(e *echo.Echo, cfg *config.Config) error {
	errChan := make(chan error, 1)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		slog.Info("Server running", "url", cfg.Server.BaseURL)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	// Wait for interrupt signal or error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		slog.Info("shutting down server")
	case err := <-errChan:
		slog.Error("server error", "error", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}

	slog.Info("server stopped")
	return nil
}
