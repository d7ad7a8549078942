package store

import (
	"fmt"
	"time"

	"github.com/sandeepkv93/things/internal/model"
	"github.com/sandeepkv93/things/internal/workflow"
)

func (s *Store) Tasks(list workflow.List) []model.Task {
	var out []model.Task
	e := s.Engine()
	s.read(func(db model.Database) { out = cloneTasks(e.Tasks(list, db)) })
	return out
}

func (s *Store) Task(id string) (model.Task, error) {
	var (
		out model.Task
		err error
	)
	s.read(func(db model.Database) {
		idx := db.TaskIndex(id)
		if idx < 0 {
			err = fmt.Errorf("%w: task %q", ErrNotFound, id)
			return
		}
		out = db.Tasks[idx].Clone()
	})
	return out, err
}

func (s *Store) ProjectTasks(projectID string) []model.Task {
	var out []model.Task
	e := s.Engine()
	s.read(func(db model.Database) { out = cloneTasks(e.ProjectTasks(projectID, db)) })
	return out
}

func (s *Store) AreaTasks(areaID string) []model.Task {
	var out []model.Task
	e := s.Engine()
	s.read(func(db model.Database) { out = cloneTasks(e.AreaTasks(areaID, db)) })
	return out
}

// Progress reports the completed share of a project and whether it exists.
func (s *Store) Progress(projectID string) (float64, error) {
	var (
		out float64
		err error
	)
	e := s.Engine()
	s.read(func(db model.Database) {
		if db.ProjectIndex(projectID) < 0 {
			err = fmt.Errorf("%w: project %q", ErrNotFound, projectID)
			return
		}
		out = e.Progress(projectID, db)
	})
	return out, err
}

func (s *Store) Search(query string) []model.Task {
	var out []model.Task
	e := s.Engine()
	s.read(func(db model.Database) { out = cloneTasks(e.Search(query, db)) })
	return out
}

// Widget builds the current widget snapshot.
func (s *Store) Widget(limit int) workflow.Snapshot {
	var out workflow.Snapshot
	now := s.Now()
	e := workflow.New(now, s.loc)
	s.read(func(db model.Database) {
		out = e.Snapshot(db, now, limit)
		out.Tasks = cloneTasks(out.Tasks)
	})
	return out
}

// Timeline lists upcoming wake-ups within horizon.
func (s *Store) Timeline(horizon time.Duration) []workflow.Wake {
	var out []workflow.Wake
	now := s.Now()
	e := workflow.New(now, s.loc)
	s.read(func(db model.Database) { out = e.Timeline(db, now, horizon) })
	return out
}

func cloneTasks(in []model.Task) []model.Task {
	out := make([]model.Task, len(in))
	for i, t := range in {
		out[i] = t.Clone()
	}
	return out
}

// RepeatPreview lists the next n start dates of a repeating task. Tasks
// without a rule yield an empty slice.
func (s *Store) RepeatPreview(id string, n int) ([]time.Time, error) {
	var (
		out []time.Time
		err error
	)
	now := s.Now()
	s.read(func(db model.Database) {
		idx := db.TaskIndex(id)
		if idx < 0 {
			err = fmt.Errorf("%w: task %q", ErrNotFound, id)
			return
		}
		t := db.Tasks[idx]
		if t.RepeatRuleID == nil {
			return
		}
		ri := db.RuleIndex(*t.RepeatRuleID)
		if ri < 0 {
			return
		}
		from := now
		if t.StartDate != nil {
			from = *t.StartDate
		}
		out = s.recurrence().Preview(db.RepeatRules[ri], from, n)
	})
	return out, err
}
