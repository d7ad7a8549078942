package persist

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/things/internal/model"
)

type memoryRemote struct {
	mu      sync.Mutex
	records map[string][]byte
	putErr  error
	getErr  error
}

func newMemoryRemote() *memoryRemote {
	return &memoryRemote{records: map[string][]byte{}}
}

func (m *memoryRemote) Put(_ context.Context, name, _ string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	m.records[name] = append([]byte(nil), data...)
	return nil
}

func (m *memoryRemote) Get(_ context.Context, name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	data, ok := m.records[name]
	if !ok {
		return nil, errors.New("missing")
	}
	return data, nil
}

var now = time.Date(2026, 2, 9, 10, 0, 0, 0, time.UTC)

func sampleDB(titles ...string) model.Database {
	db := model.NewDatabase()
	for _, title := range titles {
		db.Tasks = append(db.Tasks, model.NewTask(title, now))
	}
	return db
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "database.json")
	fs := NewFileStore(path)

	empty, err := fs.Load()
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())

	db := model.SampleDatabase(now)
	require.NoError(t, fs.Save(db))
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	loaded, err := fs.Load()
	require.NoError(t, err)
	assert.Equal(t, db, loaded)
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))
	db, err := NewFileStore(path).Load()
	assert.Error(t, err)
	assert.True(t, db.IsEmpty())
}

func TestManagerSavesToBoth(t *testing.T) {
	remote := newMemoryRemote()
	local := NewFileStore(filepath.Join(t.TempDir(), "database.json"))
	m := NewManager(local, remote, nil)

	db := sampleDB("Buy milk")
	require.NoError(t, m.Save(context.Background(), db))

	fromLocal, err := local.Load()
	require.NoError(t, err)
	assert.Equal(t, db, fromLocal)
	assert.Contains(t, remote.records, RecordName)
}

func TestManagerRemoteFailureStillSavesLocally(t *testing.T) {
	var logs bytes.Buffer
	remote := newMemoryRemote()
	remote.putErr = errors.New("offline")
	local := NewFileStore(filepath.Join(t.TempDir(), "database.json"))
	m := NewManager(local, remote, log.New(&logs, "", 0))

	db := sampleDB("Buy milk")
	require.NoError(t, m.Save(context.Background(), db))
	fromLocal, err := local.Load()
	require.NoError(t, err)
	assert.Equal(t, db, fromLocal)
	assert.Contains(t, logs.String(), "offline")
}

func TestManagerLoadPrefersRemoteAndCaches(t *testing.T) {
	remote := newMemoryRemote()
	local := NewFileStore(filepath.Join(t.TempDir(), "database.json"))
	require.NoError(t, local.Save(sampleDB("stale")))

	fresh := sampleDB("fresh")
	payload, err := model.Encode(fresh)
	require.NoError(t, err)
	remote.records[RecordName] = payload

	m := NewManager(local, remote, nil)
	got, err := m.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fresh, got)

	cached, err := local.Load()
	require.NoError(t, err)
	assert.Equal(t, fresh, cached)
}

func TestManagerLoadFallsBackToLocal(t *testing.T) {
	remote := newMemoryRemote()
	remote.getErr = errors.New("offline")
	local := NewFileStore(filepath.Join(t.TempDir(), "database.json"))
	db := sampleDB("local only")
	require.NoError(t, local.Save(db))

	got, err := NewManager(local, remote, nil).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, db, got)

	remote.getErr = nil
	remote.records[RecordName] = []byte("not json")
	got, err = NewManager(local, remote, nil).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, db, got)
}

func TestManagerLocalOnly(t *testing.T) {
	local := NewFileStore(filepath.Join(t.TempDir(), "database.json"))
	m := NewManager(local, nil, nil)
	assert.False(t, m.HasRemote())
	require.NoError(t, m.Save(context.Background(), sampleDB("a")))
	_, ok := m.HandleRemoteNotification(context.Background(), map[string]any{"ck": "x"})
	assert.False(t, ok)
}

func TestHandleRemoteNotificationReloads(t *testing.T) {
	remote := newMemoryRemote()
	local := NewFileStore(filepath.Join(t.TempDir(), "database.json"))
	m := NewManager(local, remote, nil)

	_, ok := m.HandleRemoteNotification(context.Background(), nil)
	assert.False(t, ok)

	pushed := sampleDB("from another device")
	payload, err := model.Encode(pushed)
	require.NoError(t, err)
	remote.records[RecordName] = payload

	got, ok := m.HandleRemoteNotification(context.Background(), map[string]any{"aps": map[string]any{}})
	require.True(t, ok)
	assert.Equal(t, pushed, got)
	cached, err := local.Load()
	require.NoError(t, err)
	assert.Equal(t, pushed, cached)
}

type gatedSaver struct {
	mu    sync.Mutex
	saved []model.Database
	gate  chan struct{}
	err   error
}

func (g *gatedSaver) Save(_ context.Context, db model.Database) error {
	if g.gate != nil {
		<-g.gate
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.saved = append(g.saved, db)
	return g.err
}

func (g *gatedSaver) titles() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, 0, len(g.saved))
	for _, db := range g.saved {
		out = append(out, db.Tasks[0].Title)
	}
	return out
}

func TestWriterCoalescesToLatest(t *testing.T) {
	saver := &gatedSaver{gate: make(chan struct{})}
	w := NewWriter(saver, nil)

	w.Submit(sampleDB("first"))
	// Let the worker pick up the first snapshot and block in Save.
	require.Eventually(t, func() bool {
		w.mu.Lock()
		defer w.mu.Unlock()
		return w.pending == nil
	}, time.Second, time.Millisecond)

	w.Submit(sampleDB("second"))
	w.Submit(sampleDB("third"))
	close(saver.gate)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, w.Flush(ctx))
	assert.Equal(t, []string{"first", "third"}, saver.titles())
	require.NoError(t, w.Close(ctx))
}

func TestWriterFlushTimesOut(t *testing.T) {
	saver := &gatedSaver{gate: make(chan struct{})}
	w := NewWriter(saver, nil)
	w.Submit(sampleDB("stuck"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, w.Flush(ctx), context.DeadlineExceeded)

	close(saver.gate)
	require.NoError(t, w.Close(context.Background()))
}

func TestWriterKeepsLastError(t *testing.T) {
	saver := &gatedSaver{err: errors.New("disk full")}
	w := NewWriter(saver, nil)
	w.Submit(sampleDB("a"))
	require.NoError(t, w.Flush(context.Background()))
	assert.EqualError(t, w.LastError(), "disk full")

	require.NoError(t, w.Close(context.Background()))
	w.Submit(sampleDB("after close"))
	assert.Len(t, saver.titles(), 1)
}

func TestWriterCloseDrainsPending(t *testing.T) {
	saver := &gatedSaver{}
	w := NewWriter(saver, nil)
	w.Submit(sampleDB("last words"))
	require.NoError(t, w.Close(context.Background()))
	assert.Equal(t, []string{"last words"}, saver.titles())
}
