package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Project struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Notes       string     `json:"notes"`
	CreatedAt   time.Time  `json:"created_at"`
	ModifiedAt  time.Time  `json:"modified_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Status      Status     `json:"status"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	IsEvening   bool       `json:"is_evening"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	TagIDs      []string   `json:"tag_ids"`
	AreaID      *string    `json:"area_id,omitempty"`
}

func NewProject(title string, now time.Time) Project {
	return Project{
		ID:         NewID(),
		Title:      title,
		CreatedAt:  now,
		ModifiedAt: now,
		Status:     StatusOpen,
		TagIDs:     []string{},
	}
}

func (p Project) Clone() Project {
	out := p
	out.CompletedAt = cloneTime(p.CompletedAt)
	out.StartDate = cloneTime(p.StartDate)
	out.Deadline = cloneTime(p.Deadline)
	out.AreaID = cloneString(p.AreaID)
	out.TagIDs = append([]string{}, p.TagIDs...)
	return out
}

// Area is a top-level grouping; it has no parent.
type Area struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
	TagIDs     []string  `json:"tag_ids"`
}

func NewArea(title string, now time.Time) Area {
	return Area{
		ID:         NewID(),
		Title:      title,
		CreatedAt:  now,
		ModifiedAt: now,
		TagIDs:     []string{},
	}
}

func (a Area) Clone() Area {
	out := a
	out.TagIDs = append([]string{}, a.TagIDs...)
	return out
}

type Heading struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	CreatedAt   time.Time  `json:"created_at"`
	ModifiedAt  time.Time  `json:"modified_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Status      Status     `json:"status"`
	ProjectID   string     `json:"project_id"`
}

func NewHeading(title, projectID string, now time.Time) Heading {
	return Heading{
		ID:         NewID(),
		Title:      title,
		CreatedAt:  now,
		ModifiedAt: now,
		Status:     StatusOpen,
		ProjectID:  projectID,
	}
}

func (h Heading) Validate() error {
	if strings.TrimSpace(h.ID) == "" {
		return errors.New("model: heading id is required")
	}
	if strings.TrimSpace(h.ProjectID) == "" {
		return ErrHeadingNeedsProj
	}
	if !h.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, h.Status)
	}
	return nil
}

func (h Heading) Clone() Heading {
	out := h
	out.CompletedAt = cloneTime(h.CompletedAt)
	return out
}
