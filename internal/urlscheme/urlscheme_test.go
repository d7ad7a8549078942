package urlscheme

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/things/internal/model"
)

var now = time.Date(2026, 2, 9, 10, 0, 0, 0, time.UTC)

func TestAddCreatesTask(t *testing.T) {
	db := model.NewDatabase()
	ok := Handle("things4://add?title=Hello&notes=From%20a%20link&when=2026-02-12T09:00:00Z&deadline=2026-02-20", &db, now)
	require.True(t, ok)
	require.Len(t, db.Tasks, 1)

	task := db.Tasks[0]
	assert.Equal(t, "Hello", task.Title)
	assert.Equal(t, "From a link", task.Notes)
	require.NotNil(t, task.StartDate)
	assert.Equal(t, time.Date(2026, 2, 12, 9, 0, 0, 0, time.UTC), *task.StartDate)
	require.NotNil(t, task.Deadline)
	assert.Equal(t, time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC), *task.Deadline)
	assert.Equal(t, model.StatusOpen, task.Status)
}

func TestBareDatesUseCallerLocation(t *testing.T) {
	newYork := time.FixedZone("EDT", -4*60*60)
	evening := time.Date(2024, 6, 9, 21, 0, 0, 0, newYork)
	db := model.NewDatabase()
	require.True(t, Handle("things4://add?title=Later&when=2024-06-10&deadline=2024-06-12", &db, evening))
	require.Len(t, db.Tasks, 1)

	start := db.Tasks[0].StartDate
	require.NotNil(t, start)
	assert.Equal(t, time.Date(2024, 6, 10, 0, 0, 0, 0, newYork), *start)
	assert.Equal(t, 10, start.Day())
	assert.Equal(t, time.Date(2024, 6, 12, 0, 0, 0, 0, newYork), *db.Tasks[0].Deadline)
}

func TestAddDefaultsAndPathForm(t *testing.T) {
	db := model.NewDatabase()
	require.True(t, Handle("THINGS4:///ADD?when=soon", &db, now))
	require.Len(t, db.Tasks, 1)
	assert.Equal(t, DefaultTitle, db.Tasks[0].Title)
	assert.Nil(t, db.Tasks[0].StartDate)
}

func TestRejectsForeignSchemeAndUnknownAction(t *testing.T) {
	db := model.NewDatabase()
	assert.False(t, Handle("https://add?title=Hello", &db, now))
	assert.False(t, Handle("things4://delete?id=1", &db, now))
	assert.False(t, Handle("::not a url", &db, now))
	assert.Empty(t, db.Tasks)
}

func TestShowLinkRoundTrip(t *testing.T) {
	link := ShowLink("abc-123")
	assert.Equal(t, "things4:///show?id=abc-123", link)

	id, ok := ShowTarget(link)
	require.True(t, ok)
	assert.Equal(t, "abc-123", id)

	_, ok = ShowTarget("things4://add?title=x")
	assert.False(t, ok)
}
