// Package workflow classifies tasks into the virtual lists and derives the
// read-only views built on top of them.
package workflow

import (
	"sort"
	"strings"
	"time"

	"github.com/sandeepkv93/things/internal/model"
)

// Engine evaluates list predicates against a reference day. It holds no
// state besides the clock, so a value can be shared freely.
type Engine struct {
	Location *time.Location
	Today    time.Time
}

// New normalizes today to the start of its day in loc.
func New(today time.Time, loc *time.Location) Engine {
	if loc == nil {
		loc = time.Local
	}
	return Engine{Location: loc, Today: StartOfDay(today, loc)}
}

// StartOfDay truncates t to midnight in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	local := t.In(loc)
	y, m, d := local.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func (e Engine) day(t time.Time) time.Time {
	return StartOfDay(t, e.Location)
}

func (e Engine) isToday(t *time.Time) bool {
	return t != nil && e.day(*t).Equal(e.Today)
}

func (e Engine) inToday(t model.Task) bool {
	if t.StartDate != nil && !e.day(*t.StartDate).After(e.Today) {
		return true
	}
	return e.isToday(t.Deadline)
}

// Tasks returns the ordered subset of db.Tasks belonging to list. Unknown
// lists yield an empty result.
func (e Engine) Tasks(list List, db model.Database) []model.Task {
	out := make([]model.Task, 0)
	switch list {
	case ListInbox:
		for _, t := range db.Tasks {
			if t.IsOpen() && t.ProjectID == nil && t.AreaID == nil {
				out = append(out, t)
			}
		}
	case ListToday:
		for _, t := range db.Tasks {
			if t.IsOpen() && e.inToday(t) {
				out = append(out, t)
			}
		}
	case ListUpcoming:
		for _, t := range db.Tasks {
			if t.IsOpen() && t.StartDate != nil && e.day(*t.StartDate).After(e.Today) {
				out = append(out, t)
			}
		}
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].StartDate.Before(*out[j].StartDate)
		})
	case ListAnytime:
		for _, t := range db.Tasks {
			if t.IsOpen() && t.StartDate == nil && !t.IsSomeday && !e.inToday(t) {
				out = append(out, t)
			}
		}
	case ListSomeday:
		for _, t := range db.Tasks {
			if t.IsOpen() && t.IsSomeday {
				out = append(out, t)
			}
		}
	case ListLogbook:
		for _, t := range db.Tasks {
			if t.IsCompleted() {
				out = append(out, t)
			}
		}
		sort.SliceStable(out, func(i, j int) bool {
			return laterFirst(out[i].CompletedAt, out[j].CompletedAt)
		})
	case ListTrash:
		for _, t := range db.Tasks {
			if t.IsCanceled() {
				out = append(out, t)
			}
		}
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].ModifiedAt.After(out[j].ModifiedAt)
		})
	}
	return out
}

// laterFirst orders non-nil times descending with nil last.
func laterFirst(a, b *time.Time) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return a.After(*b)
	}
}

// Contains reports whether the task with id is currently in list.
func (e Engine) Contains(list List, id string, db model.Database) bool {
	for _, t := range e.Tasks(list, db) {
		if t.ID == id {
			return true
		}
	}
	return false
}

// Locate returns the first virtual list a task shows up in, used as the
// location label in quick find.
func (e Engine) Locate(task model.Task, db model.Database) (List, bool) {
	for _, l := range Lists() {
		if e.Contains(l, task.ID, db) {
			return l, true
		}
	}
	return "", false
}

// Progress is the share of completed tasks among the project's non-canceled
// tasks.
func (e Engine) Progress(projectID string, db model.Database) float64 {
	total, done := 0, 0
	for _, t := range db.Tasks {
		if t.ProjectID == nil || *t.ProjectID != projectID || t.IsCanceled() {
			continue
		}
		total++
		if t.IsCompleted() {
			done++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(done) / float64(total)
}

// ProjectTasks returns the project's open tasks, grouped by heading order.
func (e Engine) ProjectTasks(projectID string, db model.Database) []model.Task {
	order := map[string]int{}
	for i, h := range db.Headings {
		if h.ProjectID == projectID {
			order[h.ID] = i + 1
		}
	}
	out := make([]model.Task, 0)
	for _, t := range db.Tasks {
		if t.IsOpen() && t.ProjectID != nil && *t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return headingRank(out[i], order) < headingRank(out[j], order)
	})
	return out
}

func headingRank(t model.Task, order map[string]int) int {
	if t.HeadingID == nil {
		return 0
	}
	return order[*t.HeadingID]
}

// AreaTasks returns the open tasks filed directly under an area.
func (e Engine) AreaTasks(areaID string, db model.Database) []model.Task {
	out := make([]model.Task, 0)
	for _, t := range db.Tasks {
		if t.IsOpen() && t.AreaID != nil && *t.AreaID == areaID {
			out = append(out, t)
		}
	}
	return out
}

// Search matches title and notes case-insensitively; open tasks come first.
func (e Engine) Search(query string, db model.Database) []model.Task {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]model.Task, 0)
	if q == "" {
		return out
	}
	for _, t := range db.Tasks {
		if strings.Contains(strings.ToLower(t.Title), q) || strings.Contains(strings.ToLower(t.Notes), q) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].IsOpen() && !out[j].IsOpen()
	})
	return out
}
