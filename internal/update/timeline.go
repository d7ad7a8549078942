package update

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/things/internal/scheduler"
	"github.com/sandeepkv93/things/internal/workflow"
)

var wakeKinds = map[workflow.WakeKind]scheduler.Kind{
	workflow.WakeStart:    scheduler.KindStart,
	workflow.WakeDeadline: scheduler.KindDeadline,
	workflow.WakeRollover: scheduler.KindRollover,
	workflow.WakeRefresh:  scheduler.KindRefresh,
}

// timelineEvents converts wake-ups into scheduler events with stable IDs.
func timelineEvents(wakes []workflow.Wake) []scheduler.Event {
	out := make([]scheduler.Event, 0, len(wakes))
	for _, w := range wakes {
		kind, ok := wakeKinds[w.Kind]
		if !ok {
			continue
		}
		id := string(kind) + "@" + w.At.UTC().Format(time.RFC3339)
		if w.TaskID != "" {
			id = string(kind) + ":" + w.TaskID
		}
		out = append(out, scheduler.Event{ID: id, TaskID: w.TaskID, Kind: kind, At: w.At})
	}
	return out
}

// scheduleTimeline replaces queued wake-ups with the store's current
// timeline.
func (m *Model) scheduleTimeline() {
	if m.Scheduler == nil {
		return
	}
	if err := m.Scheduler.Reset(timelineEvents(m.Store.Timeline(m.horizon))); err != nil {
		m.Status = StatusBar{Text: fmt.Sprintf("scheduler: %v", err), IsError: true}
	}
}

func waitForWakeCmd(ch <-chan scheduler.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return WakeMsg{Event: ev}
	}
}

// applyWake re-classifies lists and tells the user what moved.
func (m *Model) applyWake(ev scheduler.Event) {
	m.refresh()
	title := ev.TaskID
	if ev.TaskID != "" {
		i := m.snapshot.TaskIndex(ev.TaskID)
		if i < 0 || !m.snapshot.Tasks[i].IsOpen() {
			// stale wake-up for a task that was finished or removed
			if m.Scheduler != nil {
				m.Scheduler.Cancel(ev.TaskID)
			}
			return
		}
		title = m.snapshot.Tasks[i].Title
	}
	switch ev.Kind {
	case scheduler.KindStart:
		m.Status = StatusBar{Text: fmt.Sprintf("now in Today: %s", title)}
		m.notify("Today", title, "info")
	case scheduler.KindDeadline:
		m.Status = StatusBar{Text: fmt.Sprintf("due today: %s", title), IsError: true}
		m.notify("Deadline", title, "warn")
	case scheduler.KindRollover:
		m.Status = StatusBar{Text: "new day: lists updated"}
		m.scheduleTimeline()
	case scheduler.KindRefresh:
		m.scheduleTimeline()
	}
}

func (m *Model) notify(title, body, level string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	m.Notifications = append(m.Notifications, Notification{
		Title: title,
		Body:  body,
		Level: level,
		At:    m.Store.Now(),
	})
	if len(m.Notifications) > 40 {
		m.Notifications = m.Notifications[len(m.Notifications)-40:]
	}
}
