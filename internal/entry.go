// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/marlowe/fabula/internal/api"
	"github.com/marlowe/fabula/internal/autosave"
	"github.com/marlowe/fabula/internal/backup"
	"github.com/marlowe/fabula/internal/checksum"
	"github.com/marlowe/fabula/internal/mcpserver"
	"github.com/marlowe/fabula/internal/sse"
	"github.com/marlowe/fabula/internal/store"
	"github.com/marlowe/fabula/internal/timeline"
)

// openStore builds the persistence backend selected by the config.
func openStore(cfg *Config) (store.Store, error) {
	switch cfg.Store.Driver {
	case StoreDriverFile:
		return store.NewFile(cfg.Store.Path)
	case StoreDriverSQLite:
		return store.OpenSQLite(cfg.Store.Path)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// loadService opens the store and builds a Service seeded from it.
func loadService(cfg *Config, logger *slog.Logger) (*timeline.Service, store.Store, error) {
	st, err := openStore(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("init store: %w", err)
	}
	svc := timeline.NewService()
	svc.Replace(timeline.LoadSnapshot(st, logger, time.Now()))
	return svc, st, nil
}

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("store_driver", cfg.Store.Driver),
		slog.String("store_path", cfg.Store.Path),
		slog.Duration("autosave_delay", cfg.Autosave.Delay),
		slog.String("log_level", cfg.App.LogLevel.String()))

	svc, st, err := loadService(cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	// Debounced persistence. The checksum gate skips the write when the
	// state did not change since the last successful save.
	var lastSum struct {
		sync.Mutex
		v string
	}
	saver := autosave.New(cfg.Autosave.Delay, logger, func() error {
		snap := svc.Snapshot()
		data, err := json.Marshal(snap)
		if err != nil {
			return err
		}
		sum := checksum.Sum(data)
		lastSum.Lock()
		unchanged := sum == lastSum.v
		lastSum.Unlock()
		if unchanged {
			return nil
		}
		if err := timeline.SaveSnapshot(st, snap); err != nil {
			return err
		}
		lastSum.Lock()
		lastSum.v = sum
		lastSum.Unlock()
		return nil
	})

	// SSE broker.
	broker := sse.NewBroker()

	svc.SetChangeListener(func(ev timeline.ChangeEvent) {
		saver.Notify()
		broker.PublishChange(ev.Entity, ev.Action, ev.ID)
	})

	// Build API router.
	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, http.HandlerFunc(broker.ServeHTTP))

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// With the file driver, pick up external edits to the collection blobs.
	if fs, ok := st.(*store.File); ok {
		g.Go(func() error {
			return store.Watch(gCtx, fs, logger, func(key string) {
				if err := svc.ReloadCollection(st, logger, key); err != nil {
					logger.Warn("reload failed", slog.String("key", key), slog.String("error", err.Error()))
				}
			})
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

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

		broker.Stop()
		saver.Stop()

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunExport writes a full backup document for the stored state to out.
func RunExport(cfg *Config, out io.Writer) error {
	logger := slog.Default()
	svc, st, err := loadService(cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	data, err := backup.Export(svc.Snapshot(), time.Now())
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

// RunImport validates a backup document and replaces the stored state
// with it. A failing document leaves the store untouched.
func RunImport(cfg *Config, in io.Reader) error {
	logger := slog.Default()
	raw, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}
	snap, err := backup.Import(raw)
	if err != nil {
		return err
	}

	svc, st, err := loadService(cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	svc.Replace(snap)
	return timeline.SaveSnapshot(st, svc.Snapshot())
}

// RunMCP serves the planner tools over MCP stdio until stdin closes.
func RunMCP(cfg *Config) error {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))

	svc, st, err := loadService(cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	saver := autosave.New(cfg.Autosave.Delay, logger, func() error {
		return timeline.SaveSnapshot(st, svc.Snapshot())
	})
	defer saver.Stop()
	svc.SetChangeListener(func(timeline.ChangeEvent) { saver.Notify() })

	return mcpserver.ServeStdio(svc)
}
