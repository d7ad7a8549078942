package model

import (
	"errors"
	"testing"
	"time"
)

func TestTaskValidateSuccess(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	task := NewTask("Implement model validation", now)
	task.ProjectID = Ptr("project-1")
	task.HeadingID = Ptr("heading-1")
	if err := task.Validate(); err != nil {
		t.Fatalf("expected valid task, got error: %v", err)
	}
}

func TestTaskValidateCompletedRequiresCompletedAt(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	task := NewTask("Done task", now)
	task.Status = StatusCompleted
	err := task.Validate()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err.Error() != "model: completed_at is required when status is completed" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTaskValidateContainers(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	task := NewTask("Two homes", now)
	task.ProjectID = Ptr("p")
	task.AreaID = Ptr("a")
	if err := task.Validate(); !errors.Is(err, ErrMultipleContainer) {
		t.Fatalf("expected ErrMultipleContainer, got: %v", err)
	}

	task.ProjectID = nil
	task.HeadingID = Ptr("h")
	if err := task.Validate(); !errors.Is(err, ErrHeadingNeedsProj) {
		t.Fatalf("expected ErrHeadingNeedsProj, got: %v", err)
	}
}

func TestTaskValidateInvalidStatus(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	task := NewTask("Bad status", now)
	task.Status = Status("archived")
	if err := task.Validate(); err == nil || !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got: %v", err)
	}
}

func TestTaskCloneIsDeep(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	task := NewTask("Original", now)
	task.StartDate = Ptr(now)
	task.TagIDs = []string{"t1"}
	task.ProjectID = Ptr("p1")

	c := task.Clone()
	c.TagIDs[0] = "t2"
	*c.StartDate = now.AddDate(0, 0, 1)
	*c.ProjectID = "p2"

	if task.TagIDs[0] != "t1" || !task.StartDate.Equal(now) || *task.ProjectID != "p1" {
		t.Fatalf("clone shares state with original: %+v", task)
	}
}

func TestHeadingValidate(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	h := NewHeading("Design", "", now)
	if err := h.Validate(); !errors.Is(err, ErrHeadingNeedsProj) {
		t.Fatalf("expected ErrHeadingNeedsProj, got: %v", err)
	}
	h.ProjectID = "p1"
	if err := h.Validate(); err != nil {
		t.Fatalf("expected valid heading, got: %v", err)
	}
}
