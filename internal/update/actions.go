package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/things/internal/model"
	"github.com/sandeepkv93/things/internal/store"
	"github.com/sandeepkv93/things/internal/urlscheme"
	"github.com/sandeepkv93/things/internal/workflow"
)

// draftFor files a quick-added task into the current source.
func (m Model) draftFor(title string) store.TaskDraft {
	d := store.TaskDraft{Title: title}
	switch m.Current.Kind {
	case SourceProject:
		d.ProjectID = model.Ptr(m.Current.ID)
	case SourceArea:
		d.AreaID = model.Ptr(m.Current.ID)
	case SourceList:
		now := m.Store.Now()
		switch m.Current.List {
		case workflow.ListToday:
			d.StartDate = model.Ptr(now)
		case workflow.ListUpcoming:
			d.StartDate = model.Ptr(now.AddDate(0, 0, 1))
		case workflow.ListSomeday:
			d.Someday = true
		}
	}
	if m.TagFilter != "" {
		d.Tags = []string{m.TagFilter}
	}
	return d
}

func (m *Model) addTask(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		title = urlscheme.DefaultTitle
	}
	task, err := m.Store.AddTask(m.draftFor(title))
	if err != nil {
		return err
	}
	m.afterMutation()
	for i, t := range m.Tasks {
		if t.ID == task.ID {
			m.Cursor = i
		}
	}
	m.Status = StatusBar{Text: fmt.Sprintf("added: %s", task.Title)}
	return nil
}

func (m *Model) toggleTask(t model.Task) error {
	res, err := m.Store.ToggleCompletion(t.ID)
	if err != nil {
		return err
	}
	switch {
	case !res.Completed:
		m.Status = StatusBar{Text: fmt.Sprintf("reopened: %s", t.Title)}
	case res.Spawned != nil && res.Spawned.StartDate != nil:
		m.Status = StatusBar{Text: fmt.Sprintf("completed: %s (next %s)", t.Title,
			res.Spawned.StartDate.In(m.Store.Location()).Format("Mon Jan 2"))}
	default:
		m.Status = StatusBar{Text: fmt.Sprintf("completed: %s", t.Title)}
	}
	m.afterMutation()
	return nil
}

// cancelTask trashes an open task, or restores one already in the trash.
func (m *Model) cancelTask(t model.Task) error {
	if t.IsCanceled() {
		if err := m.Store.Restore(t.ID); err != nil {
			return err
		}
		m.Status = StatusBar{Text: fmt.Sprintf("restored: %s", t.Title)}
	} else {
		if err := m.Store.Cancel(t.ID); err != nil {
			return err
		}
		m.Status = StatusBar{Text: fmt.Sprintf("canceled: %s", t.Title)}
	}
	m.afterMutation()
	return nil
}

func (m *Model) deleteTask(t model.Task) error {
	if err := m.Store.DeleteTask(t.ID); err != nil {
		return err
	}
	m.Status = StatusBar{Text: fmt.Sprintf("deleted: %s", t.Title)}
	m.afterMutation()
	return nil
}

func (m *Model) duplicateTask(t model.Task) error {
	dup, err := m.Store.Duplicate(t.ID)
	if err != nil {
		return err
	}
	m.Status = StatusBar{Text: fmt.Sprintf("duplicated: %s", dup.Title)}
	m.afterMutation()
	return nil
}

func (m *Model) copyText(t model.Task) error {
	text, err := m.Store.CopyText(t.ID)
	if err != nil {
		return err
	}
	if err := m.clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	m.Status = StatusBar{Text: "copied task text"}
	return nil
}

func (m *Model) copyLink(t model.Task) error {
	if err := m.clipboard.WriteAll(urlscheme.ShowLink(t.ID)); err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	m.Status = StatusBar{Text: "copied task link"}
	return nil
}

func (m *Model) emptyTrash() {
	n := m.Store.EmptyTrash()
	m.Status = StatusBar{Text: fmt.Sprintf("emptied trash: %d task(s)", n)}
	m.afterMutation()
}

func (m *Model) saveNotes(t model.Task, notes string) error {
	if notes == t.Notes {
		return nil
	}
	if _, err := m.Store.UpdateTask(t.ID, func(task *model.Task) { task.Notes = notes }); err != nil {
		return err
	}
	m.Status = StatusBar{Text: "notes saved"}
	m.afterMutation()
	return nil
}

// afterMutation re-reads the pane and reschedules wake-ups, since a
// changed start date or deadline moves them.
func (m *Model) afterMutation() {
	m.refresh()
	m.scheduleTimeline()
}

// startSync runs the sync hook off the update loop.
func (m *Model) startSync() tea.Cmd {
	if m.sync == nil {
		m.Status = StatusBar{Text: "remote sync not configured"}
		return nil
	}
	if m.spinnerActive {
		return nil
	}
	m.spinnerActive = true
	m.Status = StatusBar{Text: "sync started"}
	run := m.sync
	return tea.Batch(m.syncSpinner.Tick, func() tea.Msg {
		return SyncDoneMsg{Err: run()}
	})
}
