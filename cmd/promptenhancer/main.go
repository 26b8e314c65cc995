package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/ericfisherdev/promptenhancer/internal/adapter/driven/completer"
	sqliteadapter "github.com/ericfisherdev/promptenhancer/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/promptenhancer/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/promptenhancer/internal/adapter/driving/web"
	"github.com/ericfisherdev/promptenhancer/internal/application"
	"github.com/ericfisherdev/promptenhancer/internal/config"
	"github.com/ericfisherdev/promptenhancer/internal/domain/port/driven"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration.
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"provider", cfg.Provider,
		"model", cfg.Model,
		"base_url", cfg.BaseURL,
		"history", cfg.HistoryEnabled(),
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open run history when configured. A nil store disables it.
	var runStore driven.RunStore
	if cfg.HistoryEnabled() {
		db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := db.Close(); closeErr != nil {
				slog.Error("error closing database", "error", closeErr)
			}
		}()
		slog.Info("database opened", "path", cfg.DBPath)

		if err := sqliteadapter.RunMigrations(db); err != nil {
			return err
		}
		slog.Info("migrations complete")

		runStore = sqliteadapter.NewRunRepo(db)
	}

	// 4. Wire the completion provider and the enhance service.
	llm, err := completer.New(cfg.Provider, cfg.Model, cfg.BaseURL)
	if err != nil {
		return err
	}
	enhanceSvc := application.NewEnhanceService(llm, runStore, cfg.Model, slog.Default())

	// 5. Register API and GUI routes.
	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, httphandler.NewHandler(enhanceSvc, slog.Default()))
	webhandler.RegisterRoutes(mux, webhandler.NewHandler(enhanceSvc, slog.Default()))

	handler := httphandler.ApplyMiddleware(mux, slog.Default(), cfg.CORSOrigins)

	// Completions can take well over a minute; no timeout is imposed on the
	// remote call itself, so the write timeout is sized generously.
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      3 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
			stop()
		}
	}()

	slog.Info("promptenhancer started",
		"listen_addr", cfg.ListenAddr,
		"provider", enhanceSvc.Provider(),
		"model", enhanceSvc.Model(),
	)

	// 6. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
