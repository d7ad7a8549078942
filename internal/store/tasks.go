package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sandeepkv93/things/internal/model"
	"github.com/sandeepkv93/things/internal/recurrence"
	"github.com/sandeepkv93/things/internal/urlscheme"
	"github.com/sandeepkv93/things/internal/workflow"
)

// TaskDraft carries the user supplied fields of a new task. Tags are names
// and are created on demand.
type TaskDraft struct {
	Title     string
	Notes     string
	StartDate *time.Time
	Deadline  *time.Time
	Someday   bool
	Evening   bool
	ProjectID *string
	AreaID    *string
	HeadingID *string
	Tags      []string
	Checklist []string
}

func (s *Store) AddTask(d TaskDraft) (model.Task, error) {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return model.Task{}, fmt.Errorf("%w: title is required", ErrInvalid)
	}
	var out model.Task
	err := s.mutate(func(db *model.Database, now time.Time) error {
		t := model.NewTask(title, now)
		t.Notes = d.Notes
		t.StartDate = d.StartDate
		t.Deadline = d.Deadline
		t.IsSomeday = d.Someday
		t.IsEvening = d.Evening
		t.ProjectID = d.ProjectID
		t.AreaID = d.AreaID
		t.HeadingID = d.HeadingID
		if t.ProjectID != nil && db.ProjectIndex(*t.ProjectID) < 0 {
			return fmt.Errorf("%w: project %q", ErrNotFound, *t.ProjectID)
		}
		if t.AreaID != nil && db.AreaIndex(*t.AreaID) < 0 {
			return fmt.Errorf("%w: area %q", ErrNotFound, *t.AreaID)
		}
		for _, name := range d.Tags {
			tag, err := ensureTag(db, name)
			if err != nil {
				return err
			}
			if !t.HasTag(tag.ID) {
				t.TagIDs = append(t.TagIDs, tag.ID)
			}
		}
		for _, item := range d.Checklist {
			if item = strings.TrimSpace(item); item != "" {
				t.Checklist = append(t.Checklist, model.ChecklistItem{ID: model.NewID(), Title: item})
			}
		}
		db.Tasks = append(db.Tasks, t)
		out = t.Clone()
		return nil
	})
	return out, err
}

// UpdateTask applies fn to the task with id. The edit is discarded when the
// resulting task does not validate.
func (s *Store) UpdateTask(id string, fn func(*model.Task)) (model.Task, error) {
	var out model.Task
	err := s.mutate(func(db *model.Database, now time.Time) error {
		t, err := taskAt(db, id)
		if err != nil {
			return err
		}
		fn(t)
		t.ID = id
		t.ModifiedAt = now
		out = t.Clone()
		return nil
	})
	return out, err
}

// ToggleCompletion completes an open task, or reopens a completed one.
// Completing a repeating task appends its next occurrence.
func (s *Store) ToggleCompletion(id string) (recurrence.Result, error) {
	var res recurrence.Result
	err := s.mutate(func(db *model.Database, now time.Time) error {
		res = s.recurrence().ToggleCompletion(db, id, now)
		if !res.Found {
			return fmt.Errorf("%w: task %q", ErrNotFound, id)
		}
		return nil
	})
	return res, err
}

// Cancel moves a task to the trash.
func (s *Store) Cancel(id string) error {
	return s.setStatus(id, model.StatusCanceled)
}

// Restore reopens a canceled task.
func (s *Store) Restore(id string) error {
	return s.setStatus(id, model.StatusOpen)
}

func (s *Store) setStatus(id string, status model.Status) error {
	return s.mutate(func(db *model.Database, now time.Time) error {
		t, err := taskAt(db, id)
		if err != nil {
			return err
		}
		t.Status = status
		t.CompletedAt = nil
		t.ModifiedAt = now
		return nil
	})
}

func (s *Store) DeleteTask(id string) error {
	return s.mutate(func(db *model.Database, _ time.Time) error {
		idx := db.TaskIndex(id)
		if idx < 0 {
			return fmt.Errorf("%w: task %q", ErrNotFound, id)
		}
		db.Tasks = append(db.Tasks[:idx], db.Tasks[idx+1:]...)
		s.recurrence().Prune(db)
		return nil
	})
}

// EmptyTrash permanently removes canceled tasks and reports how many went.
func (s *Store) EmptyTrash() int {
	removed := 0
	err := s.mutate(func(db *model.Database, _ time.Time) error {
		removed = 0
		kept := db.Tasks[:0]
		for _, t := range db.Tasks {
			if t.IsCanceled() {
				removed++
				continue
			}
			kept = append(kept, t)
		}
		db.Tasks = kept
		s.recurrence().Prune(db)
		return nil
	})
	if err != nil {
		return 0
	}
	return removed
}

// Destination is where Move files a task: exactly one of List, ProjectID or
// AreaID is set.
type Destination struct {
	List      workflow.List
	ProjectID string
	AreaID    string
}

func ToList(l workflow.List) Destination { return Destination{List: l} }
func ToProject(id string) Destination    { return Destination{ProjectID: id} }
func ToArea(id string) Destination       { return Destination{AreaID: id} }

func (d Destination) String() string {
	switch {
	case d.ProjectID != "":
		return "project:" + d.ProjectID
	case d.AreaID != "":
		return "area:" + d.AreaID
	default:
		return "list:" + string(d.List)
	}
}

// Move refiles a task. Moving to a list detaches it from any container;
// Today schedules it now, Someday parks it, other lists clear scheduling.
func (s *Store) Move(id string, dest Destination) error {
	return s.mutate(func(db *model.Database, now time.Time) error {
		t, err := taskAt(db, id)
		if err != nil {
			return err
		}
		switch {
		case dest.ProjectID != "":
			if db.ProjectIndex(dest.ProjectID) < 0 {
				return fmt.Errorf("%w: project %q", ErrNotFound, dest.ProjectID)
			}
			t.ProjectID = model.Ptr(dest.ProjectID)
			t.AreaID = nil
			t.HeadingID = nil
		case dest.AreaID != "":
			if db.AreaIndex(dest.AreaID) < 0 {
				return fmt.Errorf("%w: area %q", ErrNotFound, dest.AreaID)
			}
			t.AreaID = model.Ptr(dest.AreaID)
			t.ProjectID = nil
			t.HeadingID = nil
		default:
			if _, ok := workflow.ParseList(string(dest.List)); !ok {
				return fmt.Errorf("%w: list %q", ErrInvalid, dest.List)
			}
			t.ProjectID = nil
			t.AreaID = nil
			t.HeadingID = nil
			switch dest.List {
			case workflow.ListToday:
				t.StartDate = model.Ptr(now)
				t.IsSomeday = false
			case workflow.ListSomeday:
				t.IsSomeday = true
				t.StartDate = nil
			default:
				t.StartDate = nil
				t.IsSomeday = false
			}
		}
		t.ModifiedAt = now
		return nil
	})
}

// SetWhen schedules a task. Someday wins over a start date.
func (s *Store) SetWhen(id string, start *time.Time, someday, evening bool) error {
	return s.mutate(func(db *model.Database, now time.Time) error {
		t, err := taskAt(db, id)
		if err != nil {
			return err
		}
		t.IsSomeday = someday
		t.IsEvening = evening && !someday
		t.StartDate = nil
		if start != nil && !someday {
			t.StartDate = model.Ptr(*start)
		}
		t.ModifiedAt = now
		return nil
	})
}

// Duplicate copies a task as a fresh open task.
func (s *Store) Duplicate(id string) (model.Task, error) {
	var out model.Task
	err := s.mutate(func(db *model.Database, now time.Time) error {
		t, err := taskAt(db, id)
		if err != nil {
			return err
		}
		dup := t.Clone()
		dup.ID = model.NewID()
		dup.CreatedAt = now
		dup.ModifiedAt = now
		dup.CompletedAt = nil
		dup.Status = model.StatusOpen
		db.Tasks = append(db.Tasks, dup)
		out = dup.Clone()
		return nil
	})
	return out, err
}

// ConvertToProject replaces a task with a project of the same name; checklist
// items become the project's tasks.
func (s *Store) ConvertToProject(id string) (model.Project, error) {
	var out model.Project
	err := s.mutate(func(db *model.Database, now time.Time) error {
		idx := db.TaskIndex(id)
		if idx < 0 {
			return fmt.Errorf("%w: task %q", ErrNotFound, id)
		}
		t := db.Tasks[idx]
		p := model.NewProject(t.Title, now)
		p.Notes = t.Notes
		p.StartDate = t.StartDate
		p.Deadline = t.Deadline
		p.TagIDs = append(p.TagIDs, t.TagIDs...)
		p.AreaID = t.AreaID
		db.Projects = append(db.Projects, p)

		db.Tasks = append(db.Tasks[:idx], db.Tasks[idx+1:]...)
		for _, item := range t.Checklist {
			child := model.NewTask(item.Title, now)
			child.ProjectID = model.Ptr(p.ID)
			db.Tasks = append(db.Tasks, child)
		}
		s.recurrence().Prune(db)
		out = p.Clone()
		return nil
	})
	return out, err
}

func (s *Store) RemoveFromProject(id string) error {
	return s.mutate(func(db *model.Database, now time.Time) error {
		t, err := taskAt(db, id)
		if err != nil {
			return err
		}
		t.ProjectID = nil
		t.HeadingID = nil
		t.ModifiedAt = now
		return nil
	})
}

// SetRepeat attaches or replaces a repeat rule built from the task.
func (s *Store) SetRepeat(id string, kind model.RepeatType, freq model.Frequency, interval int, weekdays []model.Weekday) (model.RepeatRule, error) {
	var rule model.RepeatRule
	err := s.mutate(func(db *model.Database, now time.Time) error {
		var err error
		rule, err = s.recurrence().Attach(db, id, kind, freq, interval, weekdays)
		if errors.Is(err, recurrence.ErrNotFound) {
			return fmt.Errorf("%w: task %q", ErrNotFound, id)
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		db.Tasks[db.TaskIndex(id)].ModifiedAt = now
		return nil
	})
	return rule, err
}

func (s *Store) ClearRepeat(id string) error {
	return s.mutate(func(db *model.Database, now time.Time) error {
		if !s.recurrence().Detach(db, id) {
			return fmt.Errorf("%w: repeat rule for %q", ErrNotFound, id)
		}
		db.Tasks[db.TaskIndex(id)].ModifiedAt = now
		return nil
	})
}

// OpenURL applies a things4:// link. It reports false for links it does not
// understand.
func (s *Store) OpenURL(raw string) bool {
	err := s.mutate(func(db *model.Database, now time.Time) error {
		if !urlscheme.Handle(raw, db, now) {
			return ErrInvalid
		}
		return nil
	})
	return err == nil
}

// CopyText renders a task as plain text for the clipboard.
func (s *Store) CopyText(id string) (string, error) {
	var out string
	var err error
	s.read(func(db model.Database) {
		idx := db.TaskIndex(id)
		if idx < 0 {
			err = fmt.Errorf("%w: task %q", ErrNotFound, id)
			return
		}
		t := db.Tasks[idx]
		var b strings.Builder
		b.WriteString(t.Title)
		if t.Notes != "" {
			b.WriteString("\n\n" + t.Notes)
		}
		if names := db.TagNames(t.TagIDs); len(names) > 0 {
			b.WriteString("\n\nTags: " + strings.Join(names, ", "))
		}
		if t.Deadline != nil {
			b.WriteString("\n\nDeadline: " + t.Deadline.In(s.loc).Format("Jan 2, 2006"))
		}
		out = b.String()
	})
	return out, err
}
