package views

import (
	"fmt"
	"strings"
)

type SidebarEntry struct {
	Section string
	Title   string
	Count   int
	Cursor  bool
	Current bool
}

type TaskPaneData struct {
	Title        string
	Subtitle     string
	ProgressView string
	Body         string
	QuickAddView string
	SearchView   string
	Empty        bool
}

type DetailData struct {
	Title       string
	Status      string
	Where       string
	When        string
	Deadline    string
	Overdue     bool
	Tags        []string
	Checklist   []string
	Repeat      string
	NextRepeats []string
	NotesView   string
	Editing     bool
	Link        string
}

type HelpPanelData struct {
	Pane     string
	Bindings []string
	HelpView string
}

func RenderSidebar(entries []SidebarEntry) string {
	var b strings.Builder
	section := ""
	for _, e := range entries {
		if e.Section != section {
			if section != "" {
				b.WriteString("\n")
			}
			b.WriteString(mutedStyle.Render(strings.ToUpper(e.Section)) + "\n")
			section = e.Section
		}
		cursor := " "
		if e.Cursor {
			cursor = ">"
		}
		title := e.Title
		if e.Current {
			title = headerStyle.Render(title)
		}
		line := fmt.Sprintf("%s %s", cursor, title)
		if e.Count > 0 {
			line += mutedStyle.Render(fmt.Sprintf(" %d", e.Count))
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderTaskPane(data TaskPaneData) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(data.Title))
	if data.Subtitle != "" {
		b.WriteString("  " + mutedStyle.Render(data.Subtitle))
	}
	b.WriteString("\n")
	if data.ProgressView != "" {
		b.WriteString(data.ProgressView + "\n")
	}
	if data.SearchView != "" {
		b.WriteString(data.SearchView + "\n")
	}
	if data.QuickAddView != "" {
		b.WriteString(data.QuickAddView + "\n")
	}
	if data.Empty {
		b.WriteString(mutedStyle.Render("(nothing here)"))
		return b.String()
	}
	b.WriteString(data.Body)
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderDetail(data DetailData) string {
	if data.Title == "" {
		return mutedStyle.Render("(no selection)")
	}
	var b strings.Builder
	title := data.Title
	if data.Status != "open" {
		title = doneStyle.Render(title)
	}
	b.WriteString(headerStyle.Render(title) + "\n")
	field := func(name, value string) {
		if value != "" {
			b.WriteString(fmt.Sprintf("%s %s\n", mutedStyle.Render(name+":"), value))
		}
	}
	field("status", data.Status)
	field("in", data.Where)
	field("when", data.When)
	if data.Overdue {
		field("deadline", dueStyle.Render(data.Deadline))
	} else {
		field("deadline", data.Deadline)
	}
	field("tags", strings.Join(data.Tags, ", "))
	field("repeat", data.Repeat)
	if len(data.NextRepeats) > 0 {
		field("next", strings.Join(data.NextRepeats, ", "))
	}
	if len(data.Checklist) > 0 {
		b.WriteString(mutedStyle.Render("checklist:") + "\n")
		for _, item := range data.Checklist {
			b.WriteString("  " + item + "\n")
		}
	}
	if data.NotesView != "" {
		label := "notes:"
		if data.Editing {
			label = "notes (esc saves):"
		}
		b.WriteString("\n" + mutedStyle.Render(label) + "\n" + data.NotesView + "\n")
	}
	if data.Link != "" {
		b.WriteString("\n" + mutedStyle.Render(data.Link))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderCommandPalette(active bool, inputView string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: %s", inputView)
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help (%s):\n%s\n%s",
		strings.ToLower(data.Pane),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}
