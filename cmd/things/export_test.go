package main

import (
	"strings"
	"testing"
	"time"

	"github.com/sandeepkv93/things/internal/model"
	"github.com/sandeepkv93/things/internal/store"
)

func TestExportDatabaseFormats(t *testing.T) {
	now := time.Date(2026, 2, 9, 10, 0, 0, 0, time.UTC)
	db := model.NewDatabase()
	db.Tasks = append(db.Tasks, model.NewTask("Buy milk", now))

	out, err := exportDatabase(db, "json")
	if err != nil {
		t.Fatalf("json export: %v", err)
	}
	if !strings.Contains(string(out), `"title":"Buy milk"`) {
		t.Fatalf("unexpected json: %s", out)
	}

	out, err = exportDatabase(db, "yaml")
	if err != nil {
		t.Fatalf("yaml export: %v", err)
	}
	if !strings.Contains(string(out), "title: Buy milk") || !strings.Contains(string(out), "created_at:") {
		t.Fatalf("expected snake_case yaml keys: %s", out)
	}

	if _, err := exportDatabase(db, "xml"); err == nil {
		t.Fatal("expected unknown format error")
	}
}

func TestTasksForResolvesSubjects(t *testing.T) {
	now := time.Date(2026, 2, 9, 10, 0, 0, 0, time.UTC)
	st := store.New(model.NewDatabase(),
		store.WithClock(func() time.Time { return now }),
		store.WithLocation(time.UTC),
	)
	p, err := st.AddProject("Garden", nil)
	if err != nil {
		t.Fatalf("add project: %v", err)
	}
	if _, err := st.AddTask(store.TaskDraft{Title: "Dig", ProjectID: &p.ID}); err != nil {
		t.Fatalf("add task: %v", err)
	}
	if _, err := st.AddTask(store.TaskDraft{Title: "Call", StartDate: &now}); err != nil {
		t.Fatalf("add task: %v", err)
	}

	got, err := tasksFor(st, "today")
	if err != nil || len(got) != 1 || got[0].Title != "Call" {
		t.Fatalf("unexpected today tasks: %+v err=%v", got, err)
	}
	got, err = tasksFor(st, "garden")
	if err != nil || len(got) != 1 || got[0].Title != "Dig" {
		t.Fatalf("unexpected project tasks: %+v err=%v", got, err)
	}
	if _, err := tasksFor(st, "nowhere"); err == nil {
		t.Fatal("expected error for unknown subject")
	}

	var b strings.Builder
	printTasks(&b, got, time.UTC)
	if !strings.Contains(b.String(), " 1. [ ] Dig") {
		t.Fatalf("unexpected listing: %q", b.String())
	}
}
