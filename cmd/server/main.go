package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/giftbox-letters/internal/catalog"
	"github.com/DoyleJ11/giftbox-letters/internal/config"
	"github.com/DoyleJ11/giftbox-letters/internal/engine"
	"github.com/DoyleJ11/giftbox-letters/internal/httpapi"
	"github.com/DoyleJ11/giftbox-letters/internal/hub"
	"github.com/DoyleJ11/giftbox-letters/internal/logging"
	"github.com/DoyleJ11/giftbox-letters/internal/session"
	"github.com/DoyleJ11/giftbox-letters/internal/settings"
	"github.com/DoyleJ11/giftbox-letters/internal/storage"
	"github.com/DoyleJ11/giftbox-letters/internal/storage/file"
	"github.com/DoyleJ11/giftbox-letters/internal/storage/memory"
	"github.com/DoyleJ11/giftbox-letters/internal/storage/postgres"
	"github.com/DoyleJ11/giftbox-letters/internal/storage/sqlite"
	"github.com/DoyleJ11/giftbox-letters/internal/worksheet"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() (err error) {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	kv, err := openKV(cfg)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, kv.Close()) }()

	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st := settings.New(kv, cfg.SettingsKey, log)
	h := hub.NewHub(ctx, session.Deps{
		Dealer:   engine.Dealer{Picker: cat, Timing: cfg.Timing()},
		Settings: st,
		Log:      log,
	})

	// Build the router *with* the hub injected
	handler := httpapi.SetupRoutes(httpapi.Deps{
		Hub:       h,
		Settings:  st,
		Catalog:   cat,
		Worksheet: worksheet.Renderer{Catalog: cat, FontPath: cfg.WorksheetFont},
		Log:       log,
	})
	srv := &http.Server{Addr: cfg.Addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", cfg.Addr), zap.String("settings_backend", string(cfg.SettingsBackend)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		h.Inbox() <- hub.ShutdownHub{}

		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}

func openKV(cfg config.Config) (storage.KV, error) {
	switch cfg.SettingsBackend {
	case config.BackendMemory:
		return memory.New(), nil
	case config.BackendFile:
		return file.New(cfg.SettingsDir), nil
	case config.BackendPostgres:
		s, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
		s, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, cfg.SettingsBackend)
	}
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.LoadFile(path)
}
