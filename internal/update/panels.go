package update

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/things/internal/urlscheme"
	"github.com/sandeepkv93/things/internal/views"
)

func (m Model) renderSidebar() string {
	return views.RenderSidebar(m.sidebarEntries())
}

func (m Model) renderTaskPane() string {
	data := views.TaskPaneData{
		Title: m.Current.Title,
		Empty: len(m.Tasks) == 0,
	}
	if m.TagFilter != "" {
		data.Subtitle = "#" + m.TagFilter
	}
	if m.Current.Kind == SourceProject {
		p := m.progressFor(m.Current.ID)
		data.Subtitle = strings.TrimSpace(data.Subtitle + fmt.Sprintf(" %d%% done", int(p*100)))
		data.ProgressView = m.projectProgress.View()
	}
	if m.Mode == ModeSearch || m.Current.Kind == SourceSearch {
		data.SearchView = m.searchInput.View()
	}
	if m.Mode == ModeQuickAdd {
		data.QuickAddView = m.quickAddInput.View()
	}
	if m.usesTable() {
		data.Body = m.taskTable.View()
	} else {
		data.Body = m.taskList.View()
	}
	return views.RenderTaskPane(data)
}

func (m Model) renderDetail() string {
	t, ok := m.selectedTask()
	if !ok {
		return views.RenderDetail(views.DetailData{})
	}
	loc := m.Store.Location()
	data := views.DetailData{
		Title:  t.Title,
		Status: string(t.Status),
		Where:  m.containerTitle(t),
		Tags:   m.snapshot.TagNames(t.TagIDs),
		Link:   urlscheme.ShowLink(t.ID),
	}
	switch {
	case t.IsSomeday:
		data.When = "Someday"
	case t.StartDate != nil:
		data.When = t.StartDate.In(loc).Format("Mon Jan 2, 2006")
	}
	if t.IsEvening {
		data.When = strings.TrimSpace(data.When + " (this evening)")
	}
	if t.Deadline != nil {
		data.Deadline = t.Deadline.In(loc).Format("Mon Jan 2, 2006")
		data.Overdue = t.IsOpen() && t.Deadline.Before(m.Store.Engine().Today)
	}
	for _, item := range t.Checklist {
		mark := "[ ]"
		if item.IsCompleted {
			mark = "[x]"
		}
		data.Checklist = append(data.Checklist, mark+" "+item.Title)
	}
	data.Repeat, data.NextRepeats = m.repeatSummary(t)

	switch {
	case m.Mode == ModeNotes:
		data.NotesView = m.notesArea.View()
		data.Editing = true
	case m.PreviewVisible:
		data.NotesView = m.notesViewport.View()
	case t.Notes != "":
		data.NotesView = firstLine(t.Notes)
	}
	return views.RenderDetail(data)
}

func firstLine(s string) string {
	line, _, cut := strings.Cut(strings.TrimSpace(s), "\n")
	if cut {
		return line + " ..."
	}
	return line
}

func (m Model) renderOverlay() string {
	parts := make([]string, 0, 2)
	if m.Mode == ModePalette {
		parts = append(parts, views.RenderCommandPalette(true, m.commandInput.View()))
	}
	if help := m.renderHelpIfVisible(); help != "" {
		parts = append(parts, help)
	}
	return strings.Join(parts, "\n")
}

func (m Model) renderNotificationsView() string {
	parts := make([]string, 0, 2)
	if m.spinnerActive {
		parts = append(parts, "sync: "+m.syncSpinner.View()+" running")
	}
	if len(m.Notifications) > 0 {
		n := m.Notifications[len(m.Notifications)-1]
		parts = append(parts, views.RenderNotification(n.Level, n.Title+": "+n.Body))
	}
	return strings.Join(parts, "\n")
}
