package storage

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("storage: not found")

// Record is one named blob, the unit the remote mirror syncs.
type Record struct {
	Name       string
	Type       string
	Data       []byte
	ModifiedAt time.Time
}

type RecordListFilter struct {
	Type   string
	Limit  int
	Offset int
}

type Repository interface {
	Put(ctx context.Context, name, recordType string, data []byte) error
	Get(ctx context.Context, name string) ([]byte, error)
	GetRecord(ctx context.Context, name string) (Record, error)
	Delete(ctx context.Context, name string) error
	List(ctx context.Context, filter RecordListFilter) ([]Record, error)
}
