// Package store owns the in-memory aggregate. Every mutation runs against a
// working copy, is validated, and is then published to the configured Sink.
package store

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/sandeepkv93/things/internal/model"
	"github.com/sandeepkv93/things/internal/recurrence"
	"github.com/sandeepkv93/things/internal/workflow"
)

var (
	ErrNotFound = errors.New("store: not found")
	ErrInvalid  = errors.New("store: invalid input")
)

// Sink receives a snapshot after every successful mutation.
type Sink interface {
	Submit(db model.Database)
}

type Option func(*Store)

func WithSink(sink Sink) Option {
	return func(s *Store) { s.sink = sink }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

type Store struct {
	mu   sync.RWMutex
	db   model.Database
	sink Sink
	now  func() time.Time
	loc  *time.Location
}

func New(db model.Database, opts ...Option) *Store {
	s := &Store{
		db:  db.Clone(),
		now: time.Now,
		loc: time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the store clock in the store location.
func (s *Store) Now() time.Time {
	return s.now().In(s.loc)
}

func (s *Store) Location() *time.Location {
	return s.loc
}

// Engine returns a list classifier anchored at the current day.
func (s *Store) Engine() workflow.Engine {
	return workflow.New(s.Now(), s.loc)
}

func (s *Store) recurrence() recurrence.Engine {
	return recurrence.New(s.loc)
}

// Snapshot returns a deep copy of the aggregate.
func (s *Store) Snapshot() model.Database {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db.Clone()
}

// Replace swaps in an aggregate obtained elsewhere, such as a remote reload.
// It is not echoed to the sink.
func (s *Store) Replace(db model.Database) {
	s.mu.Lock()
	s.db = db.Clone()
	s.mu.Unlock()
}

// mutate applies fn to a working copy and commits it only when fn succeeds
// and every task fn created or changed validates. Records that came in
// through a load are left as they are.
func (s *Store) mutate(fn func(db *model.Database, now time.Time) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.db.Clone()
	if err := fn(&work, s.Now()); err != nil {
		return err
	}
	before := make(map[string]model.Task, len(s.db.Tasks))
	for _, t := range s.db.Tasks {
		before[t.ID] = t
	}
	for _, t := range work.Tasks {
		if old, ok := before[t.ID]; ok && reflect.DeepEqual(old.Clone(), t) {
			continue
		}
		if err := t.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	}
	s.db = work
	if s.sink != nil {
		s.sink.Submit(work.Clone())
	}
	return nil
}

func (s *Store) read(fn func(db model.Database)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.db)
}

func taskAt(db *model.Database, id string) (*model.Task, error) {
	idx := db.TaskIndex(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: task %q", ErrNotFound, id)
	}
	return &db.Tasks[idx], nil
}
