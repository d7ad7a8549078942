package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus     = errors.New("model: invalid status")
	ErrMultipleContainer = errors.New("model: task belongs to both a project and an area")
	ErrHeadingNeedsProj  = errors.New("model: heading requires a project")
)

type Status string

const (
	StatusOpen      Status = "open"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusCompleted, StatusCanceled:
		return true
	default:
		return false
	}
}

// NewID returns a fresh opaque identifier.
func NewID() string {
	return uuid.NewString()
}

type ChecklistItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	IsCompleted bool   `json:"is_completed"`
}

type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Task struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Notes        string          `json:"notes"`
	CreatedAt    time.Time       `json:"created_at"`
	ModifiedAt   time.Time       `json:"modified_at"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
	Status       Status          `json:"status"`
	StartDate    *time.Time      `json:"start_date,omitempty"`
	IsEvening    bool            `json:"is_evening"`
	IsSomeday    bool            `json:"is_someday"`
	Deadline     *time.Time      `json:"deadline,omitempty"`
	Checklist    []ChecklistItem `json:"checklist"`
	TagIDs       []string        `json:"tag_ids"`
	ProjectID    *string         `json:"project_id,omitempty"`
	AreaID       *string         `json:"area_id,omitempty"`
	HeadingID    *string         `json:"heading_id,omitempty"`
	RepeatRuleID *string         `json:"repeat_rule_id,omitempty"`
}

// NewTask returns an open task stamped with now.
func NewTask(title string, now time.Time) Task {
	return Task{
		ID:         NewID(),
		Title:      title,
		CreatedAt:  now,
		ModifiedAt: now,
		Status:     StatusOpen,
		Checklist:  []ChecklistItem{},
		TagIDs:     []string{},
	}
}

func (t Task) IsOpen() bool      { return t.Status == StatusOpen }
func (t Task) IsCompleted() bool { return t.Status == StatusCompleted }
func (t Task) IsCanceled() bool  { return t.Status == StatusCanceled }

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, t.Status)
	}
	if t.CreatedAt.IsZero() {
		return errors.New("model: task created_at is required")
	}
	if t.ProjectID != nil && t.AreaID != nil {
		return ErrMultipleContainer
	}
	if t.HeadingID != nil && t.ProjectID == nil {
		return ErrHeadingNeedsProj
	}
	if t.Status == StatusCompleted && t.CompletedAt == nil {
		return errors.New("model: completed_at is required when status is completed")
	}
	if t.Status == StatusOpen && t.CompletedAt != nil {
		return errors.New("model: completed_at must be nil when status is open")
	}
	return nil
}

// HasTag reports whether the task references tagID.
func (t Task) HasTag(tagID string) bool {
	for _, id := range t.TagIDs {
		if id == tagID {
			return true
		}
	}
	return false
}

// Clone returns a copy sharing no mutable state with t.
func (t Task) Clone() Task {
	out := t
	out.CompletedAt = cloneTime(t.CompletedAt)
	out.StartDate = cloneTime(t.StartDate)
	out.Deadline = cloneTime(t.Deadline)
	out.ProjectID = cloneString(t.ProjectID)
	out.AreaID = cloneString(t.AreaID)
	out.HeadingID = cloneString(t.HeadingID)
	out.RepeatRuleID = cloneString(t.RepeatRuleID)
	out.Checklist = append([]ChecklistItem{}, t.Checklist...)
	out.TagIDs = append([]string{}, t.TagIDs...)
	return out
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

func cloneTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
