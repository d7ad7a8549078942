package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/things/internal/views"
)

func (m Model) Init() tea.Cmd {
	if m.Scheduler != nil {
		return waitForWakeCmd(m.Scheduler.C())
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.syncBubbleData()
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		h := typed.Height - 14
		if h < 5 {
			h = 5
		}
		m.taskList.SetHeight(h)
		m.taskTable.SetHeight(h)
		m.notesViewport.Height = h / 2
		return m, nil
	case tea.KeyMsg:
		if typed.String() == "ctrl+c" {
			m.Quitting = true
			return m, tea.Quit
		}
		switch m.Mode {
		case ModePalette:
			return m.handlePaletteKey(typed)
		case ModeQuickAdd:
			return m.handleQuickAddKey(typed)
		case ModeSearch:
			return m.handleSearchKey(typed)
		case ModeNotes:
			return m.handleNotesKey(typed)
		}
		return m.handleNormalKey(typed)
	case spinner.TickMsg:
		if m.spinnerActive {
			var cmd tea.Cmd
			m.syncSpinner, cmd = m.syncSpinner.Update(typed)
			return m, cmd
		}
	case SyncDoneMsg:
		m.spinnerActive = false
		if typed.Err != nil {
			m.LastError = typed.Err
			m.Status = StatusBar{Text: fmt.Sprintf("sync failed: %v", typed.Err), IsError: true}
			return m, nil
		}
		m.afterMutation()
		m.Status = StatusBar{Text: "sync complete"}
		return m, nil
	case SelectSourceMsg:
		m.selectSource(typed.Source)
		m.Focus = PaneTasks
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.notify("Error", typed.Err.Error(), "error")
		}
		return m, nil
	case RefreshMsg:
		m.refresh()
		return m, nil
	case WakeMsg:
		m.applyWake(typed.Event)
		if m.Scheduler != nil {
			return m, waitForWakeCmd(m.Scheduler.C())
		}
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}
	return views.RenderApp(views.AppData{
		Header:       fmt.Sprintf("things | %s | %d to-do(s)", m.Current.Title, len(m.Tasks)),
		Sidebar:      m.renderSidebar(),
		Main:         m.renderTaskPane(),
		Detail:       m.renderDetail(),
		Overlay:      m.renderOverlay(),
		StatusLine:   status,
		StatusError:  m.Status.IsError,
		Notification: m.renderNotificationsView(),
		Footer: fmt.Sprintf("keys: %s new | %s done | %s palette | %s find | %s pane | %s help | %s quit",
			m.Keys.Add, m.Keys.Toggle, m.Keys.Palette, m.Keys.Search, m.Keys.NextPane, m.Keys.Help, m.Keys.Quit),
	}, m.Focus == PaneTasks)
}
