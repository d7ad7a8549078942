// Package app assembles the runtime: config, persistence, the optional
// SQLite remote and the in-memory store.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/sandeepkv93/things/internal/config"
	"github.com/sandeepkv93/things/internal/model"
	"github.com/sandeepkv93/things/internal/persist"
	"github.com/sandeepkv93/things/internal/storage"
	"github.com/sandeepkv93/things/internal/store"
)

type Options struct {
	Logger *log.Logger
	Now    func() time.Time
}

type App struct {
	Config   config.Config
	Logger   *log.Logger
	Location *time.Location
	Store    *store.Store
	Manager  *persist.Manager
	Writer   *persist.Writer

	remote *storage.SQLiteRepository
}

// NewLogger returns the process logger. Quiet loggers are used by the TUI so
// log lines never tear the alt screen.
func NewLogger(quiet bool) *log.Logger {
	var out io.Writer = os.Stderr
	if quiet {
		out = io.Discard
	}
	return log.New(out, "things: ", log.LstdFlags)
}

// Open loads the aggregate, preferring the remote copy, and seeds the sample
// data on a first run. Load failures start from an empty aggregate.
func Open(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = NewLogger(false)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	a := &App{Config: cfg, Logger: logger, Location: loc}

	var remote persist.RecordStore
	if path := cfg.RemoteDBPath(); path != "" {
		repo, err := openRemote(path)
		if err != nil {
			logger.Printf("remote store unavailable, continuing locally: %v", err)
		} else {
			a.remote = repo
			remote = repo
		}
	}
	a.Manager = persist.NewManager(persist.NewFileStore(cfg.DatabasePath()), remote, logger)

	db, err := a.Manager.Load(ctx)
	if err != nil {
		logger.Printf("load failed, starting empty: %v", err)
		db = model.NewDatabase()
	}
	seeded := false
	if db.IsEmpty() && cfg.SeedSample {
		db = model.SampleDatabase(now().In(loc))
		seeded = true
	}

	a.Writer = persist.NewWriter(a.Manager, logger)
	a.Store = store.New(db,
		store.WithSink(a.Writer),
		store.WithClock(now),
		store.WithLocation(loc),
	)
	if seeded {
		a.Writer.Submit(a.Store.Snapshot())
	}
	return a, nil
}

func openRemote(path string) (*storage.SQLiteRepository, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create remote dir: %w", err)
		}
	}
	return storage.OpenSQLite(path)
}

// HandleRemoteNotification reloads after a remote change and swaps the
// fresh aggregate into the store.
func (a *App) HandleRemoteNotification(ctx context.Context, payload map[string]any) bool {
	db, ok := a.Manager.HandleRemoteNotification(ctx, payload)
	if !ok {
		return false
	}
	a.Store.Replace(db)
	return true
}

// Sync pushes pending saves, then pulls the aggregate back so edits made on
// another device show up.
func (a *App) Sync(ctx context.Context) error {
	if err := a.Writer.Flush(ctx); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	db, err := a.Manager.Load(ctx)
	if err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	a.Store.Replace(db)
	return nil
}

// Close flushes pending saves and releases the remote store.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if err := a.Writer.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("flush: %w", err))
	}
	if a.remote != nil {
		if err := a.remote.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close remote: %w", err))
		}
	}
	return errors.Join(errs...)
}
