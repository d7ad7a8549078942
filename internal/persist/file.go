// Package persist saves the aggregate to a local JSON file and, when
// configured, to a remote record store that is consulted first on load.
package persist

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sandeepkv93/things/internal/model"
)

// FileStore keeps the aggregate in a single JSON document.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Save writes db atomically through a sibling temp file.
func (f *FileStore) Save(db model.Database) error {
	payload, err := model.Encode(db)
	if err != nil {
		return fmt.Errorf("encode database: %w", err)
	}
	return f.SaveRaw(payload)
}

// SaveRaw writes an already encoded aggregate.
func (f *FileStore) SaveRaw(payload []byte) error {
	if strings.TrimSpace(f.Path) == "" {
		return errors.New("persist: file path is required")
	}
	dir := filepath.Dir(f.Path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}
	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write database: %w", err)
	}
	if err := os.Rename(tmp, f.Path); err != nil {
		return fmt.Errorf("replace database: %w", err)
	}
	return nil
}

// Load reads the aggregate. A missing or blank file is an empty aggregate.
func (f *FileStore) Load() (model.Database, error) {
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.NewDatabase(), nil
		}
		return model.NewDatabase(), fmt.Errorf("read database: %w", err)
	}
	if strings.TrimSpace(string(raw)) == "" {
		return model.NewDatabase(), nil
	}
	return model.Decode(raw)
}
