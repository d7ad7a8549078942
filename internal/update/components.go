package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/sandeepkv93/things/internal/views"
	"github.com/sandeepkv93/things/internal/workflow"
)

func (m *Model) initBubbleComponents() {
	m.taskList = list.New([]list.Item{}, list.NewDefaultDelegate(), views.MainWidth, 16)
	m.taskList.SetShowTitle(false)
	m.taskList.SetShowHelp(false)
	m.taskList.SetShowStatusBar(false)
	m.taskList.SetFilteringEnabled(false)

	cols := []table.Column{
		{Title: "#", Width: 3},
		{Title: "Date", Width: 11},
		{Title: "Title", Width: 26},
		{Title: "In", Width: 12},
	}
	m.taskTable = table.New(table.WithColumns(cols), table.WithRows([]table.Row{}), table.WithFocused(true), table.WithHeight(14))

	m.quickAddInput = textinput.New()
	m.quickAddInput.Prompt = "new> "
	m.quickAddInput.Placeholder = "New To-Do"
	m.quickAddInput.CharLimit = 256
	m.quickAddInput.Width = views.MainWidth - 8

	m.commandInput = textinput.New()
	m.commandInput.Prompt = ":"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 60

	m.searchInput = textinput.New()
	m.searchInput.Prompt = "find> "
	m.searchInput.CharLimit = 128
	m.searchInput.Width = views.MainWidth - 8

	m.notesArea = textarea.New()
	m.notesArea.SetWidth(views.DetailWidth - 2)
	m.notesArea.SetHeight(8)
	m.notesArea.ShowLineNumbers = false
	m.notesArea.Placeholder = "Notes (markdown)"

	m.notesViewport = viewport.New(views.DetailWidth-2, 10)

	m.projectProgress = progress.New(progress.WithDefaultGradient(), progress.WithWidth(views.MainWidth-4))

	m.syncSpinner = spinner.New()
	m.syncSpinner.Spinner = spinner.Dot

	m.helpModel = help.New()
}

// usesTable reports whether the current source renders as dated rows.
func (m Model) usesTable() bool {
	return m.Current.Kind == SourceList &&
		(m.Current.List == workflow.ListUpcoming || m.Current.List == workflow.ListLogbook)
}

func (m *Model) syncBubbleData() {
	if m.usesTable() {
		rows := make([]table.Row, 0, len(m.Tasks))
		for i, t := range m.Tasks {
			date := ""
			switch {
			case m.Current.List == workflow.ListLogbook && t.CompletedAt != nil:
				date = t.CompletedAt.In(m.Store.Location()).Format("Jan 2")
			case t.StartDate != nil:
				date = t.StartDate.In(m.Store.Location()).Format("Mon Jan 2")
			}
			rows = append(rows, table.Row{fmt.Sprintf("%d", i+1), date, t.Title, m.containerTitle(t)})
		}
		m.taskTable.SetRows(rows)
		if len(rows) > 0 {
			m.taskTable.SetCursor(m.Cursor)
		}
	} else {
		items := make([]list.Item, 0, len(m.Tasks))
		for i, t := range m.Tasks {
			items = append(items, listItem{
				title:       fmt.Sprintf("%d. %s %s", i+1, checkbox(t), t.Title),
				description: m.taskMeta(t),
			})
		}
		m.taskList.SetItems(items)
		if len(items) > 0 {
			m.taskList.Select(m.Cursor)
		}
	}

	if m.Current.Kind == SourceProject {
		_ = m.projectProgress.SetPercent(m.progressFor(m.Current.ID))
	}

	if m.Mode != ModeNotes {
		notes := ""
		if t, ok := m.selectedTask(); ok {
			notes = t.Notes
		}
		if strings.TrimSpace(notes) == "" {
			notes = "_No notes_"
		}
		m.notesViewport.SetContent(views.RenderMarkdown(notes))
	}
}

func (m Model) progressFor(projectID string) float64 {
	p, err := m.Store.Progress(projectID)
	if err != nil {
		return 0
	}
	return p
}
