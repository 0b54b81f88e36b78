// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package server wires the services, middleware and routes and runs the
// HTTP listeners.
package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/urfave/cli/v3"

	"github.com/rbeach94/spark-dashboard-nest-87/internal/cache"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/config"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/database"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/handlers"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/i18n"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/repository"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/services/auth"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/services/codes"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/services/email"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/services/places"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/services/profiles"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/services/redirect"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/services/secrets"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/services/session"
	"github.com/rbeach94/spark-dashboard-nest-87/internal/sse"
)

// Run starts the server with the given CLI command.
func Run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	SetupLogger(cfg.Log.Level, cfg.Log.Format)

	slog.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
	)

	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()

	if initErr := i18n.Init(); initErr != nil {
		return fmt.Errorf("failed to init i18n: %w", initErr)
	}

	queryCache := cache.New(cfg.Redis)
	if queryCache != nil {
		slog.Info("query cache enabled", "addr", cfg.Redis.Addr)
	}
	defer func() { _ = queryCache.Close() }()

	e, err := New(cfg, repository.New(db), queryCache)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return startWithGracefulShutdown(ctx, e, cfg)
}

// New builds the echo instance with every service wired. queryCache may be nil.
func New(cfg *config.Config, repo *repository.Repository, queryCache *cache.Client) (*echo.Echo, error) {
	sessions, err := session.NewManager(&cfg.Session, cfg.SecureCookies())
	if err != nil {
		return nil, fmt.Errorf("failed to create session manager: %w", err)
	}

	// a typed nil in the interface would look like a configured mailer
	var mailer auth.Mailer
	if cfg.SMTP.Enabled() {
		mailSvc, mailErr := email.NewService(cfg.SMTP, cfg.Server.BaseURL)
		if mailErr != nil {
			return nil, fmt.Errorf("failed to configure mail: %w", mailErr)
		}
		mailer = mailSvc
	} else {
		slog.Info("SMTP not configured, email verification disabled")
	}

	hub := sse.NewHub()
	secretSvc := secrets.NewService(repo)

	h := handlers.New(handlers.Deps{
		Repo:     repo,
		Sessions: sessions,
		Auth:     auth.NewService(repo, mailer, cfg.Auth.AdminEmail),
		Codes:    codes.NewService(repo, queryCache, hub, cfg.Server.BaseURL),
		Profiles: profiles.NewService(repo),
		Places:   places.NewClient(secretSvc, cfg.Places.BaseURL, cfg.Places.SecretName),
		Secrets:  secretSvc,
		Resolver: redirect.NewResolver(repo),
		Hub:      hub,
	})

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handlers.NewValidator()
	e.HTTPErrorHandler = handlers.ErrorHandler

	setupMiddleware(e, cfg, sessions, repo)
	setupRoutes(e, h)

	return e, nil
}

func startWithGracefulShutdown(ctx context.Context, e *echo.Echo, cfg *config.Config) error {
	tlsResult, err := SetupTLS(cfg)
	if err != nil {
		return fmt.Errorf("TLS setup failed: %w", err)
	}

	errChan := make(chan error, 2)
	var redirectServer *http.Server

	switch tlsResult.Mode {
	case TLSModeOff:
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		go func() {
			slog.Info("server running", "url", cfg.Server.BaseURL)
			if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- err
			}
		}()

	case TLSModeACME:
		go func() {
			slog.Info("server running", "url", cfg.Server.BaseURL)
			if err := startTLSServer(e, ":443", tlsResult.TLSConfig); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- err
			}
		}()

		// answers HTTP-01 challenges and redirects everything else
		redirectServer = &http.Server{
			Addr:              ":80",
			Handler:           tlsResult.HTTPHandler,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			slog.Info("HTTP to HTTPS redirect active", "addr", ":80")
			if err := redirectServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- err
			}
		}()

	case TLSModeManual:
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		go func() {
			slog.Info("server running", "url", cfg.Server.BaseURL)
			if err := startTLSServer(e, addr, tlsResult.TLSConfig); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- err
			}
		}()
	}

	select {
	case <-ctx.Done():
		slog.Info("shutting down server")
	case err := <-errChan:
		slog.Error("server error", "error", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown main server", "error", err)
	}
	if redirectServer != nil {
		if err := redirectServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown HTTP redirect server", "error", err)
		}
	}

	slog.Info("server stopped")
	return nil
}

func startTLSServer(e *echo.Echo, addr string, tlsConfig *tls.Config) error {
	lc := &net.ListenConfig{}
	ln, err := lc.Listen(context.Background(), "tcp", addr)
	if err != nil {
		return err
	}
	e.TLSListener = tls.NewListener(ln, tlsConfig)
	e.TLSServer.TLSConfig = tlsConfig
	return e.Server.Serve(e.TLSListener)
}
