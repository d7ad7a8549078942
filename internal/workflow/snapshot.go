package workflow

import (
	"sort"
	"time"

	"github.com/sandeepkv93/things/internal/model"
)

// WidgetRefresh is how long a widget snapshot stays current.
const WidgetRefresh = 15 * time.Minute

type Snapshot struct {
	Date      time.Time    `json:"date"`
	Tasks     []model.Task `json:"tasks"`
	Progress  float64      `json:"progress"`
	RefreshAt time.Time    `json:"refresh_at"`
}

// Snapshot builds the widget entry: the first limit tasks of Today and the
// share of today's work that is already done. Done means completed on
// today's date by CompletedAt, regardless of start or deadline.
func (e Engine) Snapshot(db model.Database, now time.Time, limit int) Snapshot {
	today := e.Tasks(ListToday, db)
	if limit > 0 && len(today) > limit {
		today = today[:limit]
	}

	total, done := 0, 0
	for _, t := range db.Tasks {
		if t.IsCanceled() {
			continue
		}
		switch {
		case t.IsCompleted() && e.isToday(t.CompletedAt):
			total++
			done++
		case t.IsOpen() && e.inToday(t):
			total++
		}
	}
	progress := 0.0
	if total > 0 {
		progress = float64(done) / float64(total)
	}
	return Snapshot{
		Date:      now,
		Tasks:     today,
		Progress:  progress,
		RefreshAt: now.Add(WidgetRefresh),
	}
}

type WakeKind string

const (
	WakeStart    WakeKind = "start"
	WakeDeadline WakeKind = "deadline"
	WakeRollover WakeKind = "rollover"
	WakeRefresh  WakeKind = "refresh"
)

// Wake is a point in time at which list membership may change.
type Wake struct {
	At     time.Time
	Kind   WakeKind
	TaskID string
}

// Timeline lists the wake-ups between now and now+horizon: the next
// midnight, the day a future task starts or falls due, and the periodic
// widget refresh.
func (e Engine) Timeline(db model.Database, now time.Time, horizon time.Duration) []Wake {
	until := now.Add(horizon)
	out := make([]Wake, 0)
	add := func(at time.Time, kind WakeKind, id string) {
		if !at.After(now) || at.After(until) {
			return
		}
		out = append(out, Wake{At: at, Kind: kind, TaskID: id})
	}

	add(e.Today.AddDate(0, 0, 1), WakeRollover, "")
	add(now.Add(WidgetRefresh), WakeRefresh, "")
	for _, t := range db.Tasks {
		if !t.IsOpen() {
			continue
		}
		if t.StartDate != nil {
			add(e.day(*t.StartDate), WakeStart, t.ID)
		}
		if t.Deadline != nil {
			add(e.day(*t.Deadline), WakeDeadline, t.ID)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].At.Before(out[j].At)
	})
	return out
}
