package update

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/things/internal/workflow"
)

func (m Model) handleNormalKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
		return m, nil
	case m.Keys.NextPane:
		if m.Focus == PaneSidebar {
			m.Focus = PaneTasks
		} else {
			m.Focus = PaneSidebar
		}
		return m, nil
	case m.Keys.Palette:
		return m.openPalette(), nil
	case m.Keys.Search:
		m.previous = m.Current
		m.Mode = ModeSearch
		m.searchInput.SetValue(m.Query)
		m.searchInput.Focus()
		m.Current = Source{Kind: SourceSearch, Title: "Quick Find"}
		m.Cursor = 0
		m.refresh()
		return m, nil
	case m.Keys.Add:
		m.Mode = ModeQuickAdd
		m.quickAddInput.SetValue("")
		m.quickAddInput.Focus()
		return m, nil
	case m.Keys.EmptyTrash:
		m.emptyTrash()
		return m, nil
	case "S":
		return m, m.startSync()
	}
	if m.Focus == PaneSidebar {
		return m.handleSidebarKey(msg), nil
	}
	return m.handleTaskKey(msg), nil
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case m.Keys.Up, "up":
		if m.SourceCursor > 0 {
			m.SourceCursor--
			m.selectSource(m.Sources[m.SourceCursor])
		}
	case m.Keys.Down, "down":
		if m.SourceCursor < len(m.Sources)-1 {
			m.SourceCursor++
			m.selectSource(m.Sources[m.SourceCursor])
		}
	case "enter":
		m.Focus = PaneTasks
	}
	return m
}

func (m Model) handleTaskKey(msg tea.KeyMsg) Model {
	key := msg.String()
	switch key {
	case m.Keys.Up, "up":
		if m.Cursor > 0 {
			m.Cursor--
		}
		return m
	case m.Keys.Down, "down":
		if m.Cursor < len(m.Tasks)-1 {
			m.Cursor++
		}
		return m
	case m.Keys.Preview:
		m.PreviewVisible = !m.PreviewVisible
		return m
	}

	t, ok := m.selectedTask()
	if !ok {
		return m
	}
	var err error
	switch key {
	case m.Keys.Toggle:
		err = m.toggleTask(t)
	case m.Keys.Cancel:
		err = m.cancelTask(t)
	case m.Keys.Delete:
		err = m.deleteTask(t)
	case m.Keys.Duplicate:
		err = m.duplicateTask(t)
	case m.Keys.CopyText:
		err = m.copyText(t)
	case m.Keys.CopyLink:
		err = m.copyLink(t)
	case m.Keys.Notes:
		m.Mode = ModeNotes
		m.notesTaskID = t.ID
		m.notesArea.SetValue(t.Notes)
		m.notesArea.Focus()
	}
	if err != nil {
		m.LastError = err
		m.Status = StatusBar{Text: err.Error(), IsError: true}
	}
	return m
}

func (m Model) handleQuickAddKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Mode = ModeNormal
		m.quickAddInput.Blur()
		return m, nil
	case "enter":
		title := m.quickAddInput.Value()
		m.Mode = ModeNormal
		m.quickAddInput.Blur()
		m.quickAddInput.SetValue("")
		if err := m.addTask(title); err != nil {
			m.LastError = err
			m.Status = StatusBar{Text: err.Error(), IsError: true}
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.quickAddInput, cmd = m.quickAddInput.Update(msg)
	return m, cmd
}

// handleSearchKey filters as the query is typed; esc returns to the list
// that was open before.
func (m Model) handleSearchKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Mode = ModeNormal
		m.searchInput.Blur()
		m.Query = ""
		prev := m.previous
		if prev.Kind == "" {
			prev = listSource(workflow.ListToday)
		}
		m.selectSource(prev)
		return m, nil
	case "enter":
		m.Mode = ModeNormal
		m.searchInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.Query = m.searchInput.Value()
	m.Cursor = 0
	m.refresh()
	return m, cmd
}

func (m Model) handleNotesKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.Mode = ModeNormal
		m.notesArea.Blur()
		idx := m.snapshot.TaskIndex(m.notesTaskID)
		if idx >= 0 {
			if err := m.saveNotes(m.snapshot.Tasks[idx], m.notesArea.Value()); err != nil {
				m.LastError = err
				m.Status = StatusBar{Text: err.Error(), IsError: true}
			}
		}
		m.notesTaskID = ""
		return m, nil
	}
	var cmd tea.Cmd
	m.notesArea, cmd = m.notesArea.Update(msg)
	return m, cmd
}
