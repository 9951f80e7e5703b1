// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/hoken/internal/api"
	"github.com/starford/hoken/internal/catalog"
	"github.com/starford/hoken/internal/mcpserver"
	"github.com/starford/hoken/internal/sse"
	"github.com/starford/hoken/internal/store"
)

var errConfigRequired = errors.New("config is required")

// newLogger builds the structured JSON logger and installs it as default.
func newLogger(cfg *Config, out io.Writer) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// openStore opens the database and makes sure categories are seeded.
func openStore(ctx context.Context, cfg *Config, logger *slog.Logger) (*store.DB, error) {
	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}
	if err := store.EnsureCategories(ctx, db, cfg.Catalog.CategoriesFile, logger); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed categories: %w", err)
	}
	return db, nil
}

func newService(db *store.DB, cfg *Config, opts ...catalog.Option) *catalog.Service {
	opts = append([]catalog.Option{catalog.WithLimits(catalog.Limits{
		Default: cfg.Catalog.DefaultLimit,
		Max:     cfg.Catalog.MaxLimit,
	})}, opts...)
	return catalog.NewService(db, opts...)
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger := newLogger(cfg, os.Stdout)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("categories_file", cfg.Catalog.CategoriesFile),
		slog.String("log_level", cfg.App.LogLevel.String()))

	db, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	svc := newService(db, cfg, catalog.WithNotifier(broker))
	apiRouter := api.NewRouter(svc, api.RouterConfig{
		CORSOrigins:  cfg.App.HTTP.CORSOrigins,
		MaxBodyBytes: cfg.App.HTTP.MaxBodyBytes,
		Events:       broker,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := svc.Ready(req.Context()); err != nil {
			logger.Warn("readiness check failed", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", apiRouter)

	if dir := cfg.App.StaticDir; dir != "" {
		r.Handle("/*", http.FileServer(http.Dir(dir)))
	}

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	if cfg.Catalog.WatchCategories {
		g.Go(func() error {
			err := store.WatchCategories(gCtx, db, cfg.Catalog.CategoriesFile, logger, broker.PublishCategoriesReloaded)
			if err != nil {
				logger.Warn("category watcher not running", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group so the watcher stops with the server.
var errShutdown = errors.New("shutdown")

// RunMCP serves the catalog as MCP tools over stdin/stdout. Logs go to
// stderr since stdout carries the protocol.
func RunMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger := newLogger(cfg, os.Stderr)

	db, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	srv := mcpserver.New(newService(db, cfg))
	logger.Info("MCP server starting on stdio", slog.String("sqlite_path", cfg.SQLite.Path))
	return srv.ServeStdio()
}

// Seed applies the categories file once and exits.
func Seed(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger := newLogger(cfg, os.Stdout)

	db, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := db.CountCategories(ctx)
	if err != nil {
		return err
	}
	logger.Info("Categories ready", slog.Int("count", n))
	return nil
}
