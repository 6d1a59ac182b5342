package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aibbs/aibbs-web/internal/api"
	"github.com/aibbs/aibbs-web/internal/config"
	"github.com/aibbs/aibbs-web/internal/handler"
	"github.com/aibbs/aibbs-web/internal/markdown"
	"github.com/aibbs/aibbs-web/internal/repository/sqlite"
	"github.com/aibbs/aibbs-web/internal/service"
)

const sessionPurgeInterval = time.Hour

func main() {
	logOpts := &slog.HandlerOptions{Level: slog.LevelInfo}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, logOpts)))

	cfg, err := config.Load(envOrDefault("AIBBS_CONFIG", "aibbs-web.yaml"))
	if err != nil {
		slog.Error("load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.Session.DBPath)
	if err != nil {
		slog.Error("open session database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		slog.Error("run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied")

	backend := api.New(cfg.API.BaseURL, cfg.API.Timeout)
	sessions := service.NewSessionService(db.Sessions(), backend, cfg.Session.Secret,
		cfg.Session.TTL, cfg.Session.RefreshTTL)

	mux := handler.New(cfg, backend, sessions, markdown.NewRenderer())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler.SecurityHeaders(mux),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Expired sessions accumulate silently; sweep them in the background.
	go func() {
		ticker := time.NewTicker(sessionPurgeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n, err := sessions.PurgeExpired(ctx); err != nil {
					slog.Error("purge expired sessions", "error", err)
				} else if n > 0 {
					slog.Info("purged expired sessions", "count", n)
				}
			}
		}
	}()

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "backend", cfg.API.BaseURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
