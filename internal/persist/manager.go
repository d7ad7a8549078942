package persist

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/sandeepkv93/things/internal/model"
)

const (
	RecordName = "database"
	RecordType = "Database"
)

// RecordStore is the remote key-value store the aggregate is mirrored to.
type RecordStore interface {
	Put(ctx context.Context, name, recordType string, data []byte) error
	Get(ctx context.Context, name string) ([]byte, error)
}

type Manager struct {
	remote RecordStore
	local  *FileStore
	logger *log.Logger
}

// NewManager wires the stores together. remote may be nil for local only
// operation; a nil logger discards output.
func NewManager(local *FileStore, remote RecordStore, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Manager{remote: remote, local: local, logger: logger}
}

func (m *Manager) HasRemote() bool {
	return m.remote != nil
}

// Save mirrors db to the remote and then the local file. Remote failures
// are logged and do not prevent the local save.
func (m *Manager) Save(ctx context.Context, db model.Database) error {
	payload, err := model.Encode(db)
	if err != nil {
		return fmt.Errorf("encode database: %w", err)
	}
	if m.remote != nil {
		if err := m.remote.Put(ctx, RecordName, RecordType, payload); err != nil {
			m.logger.Printf("remote save failed: %v", err)
		}
	}
	return m.local.SaveRaw(payload)
}

// Load prefers the remote copy, caching it locally, and falls back to the
// local file. Callers treat an error as an empty starting state.
func (m *Manager) Load(ctx context.Context) (model.Database, error) {
	if db, ok := m.loadRemote(ctx); ok {
		return db, nil
	}
	return m.local.Load()
}

// HandleRemoteNotification reacts to a change pushed by the remote. The
// payload is opaque; the current aggregate is fetched again.
func (m *Manager) HandleRemoteNotification(ctx context.Context, payload map[string]any) (model.Database, bool) {
	if m.remote == nil {
		return model.Database{}, false
	}
	m.logger.Printf("remote change notification (%d keys)", len(payload))
	return m.loadRemote(ctx)
}

func (m *Manager) loadRemote(ctx context.Context) (model.Database, bool) {
	if m.remote == nil {
		return model.Database{}, false
	}
	raw, err := m.remote.Get(ctx, RecordName)
	if err != nil {
		m.logger.Printf("remote load skipped: %v", err)
		return model.Database{}, false
	}
	db, err := model.Decode(raw)
	if err != nil {
		m.logger.Printf("remote record unreadable: %v", err)
		return model.Database{}, false
	}
	if err := m.local.Save(db); err != nil {
		m.logger.Printf("local cache write failed: %v", err)
	}
	return db, true
}
