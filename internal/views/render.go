package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

type AppData struct {
	Header       string
	Sidebar      string
	Main         string
	Detail       string
	Overlay      string
	StatusLine   string
	StatusError  bool
	Footer       string
	Notification string
}

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	focusedStyle = panelStyle.BorderForeground(lipgloss.Color("12"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Strikethrough(true)
	dueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// Pane widths for the three columns.
const (
	SidebarWidth = 24
	MainWidth    = 56
	DetailWidth  = 44
)

// RenderApp lays out sidebar, task pane and detail pane side by side.
// FocusMain highlights the task pane border instead of the sidebar.
func RenderApp(data AppData, focusMain bool) string {
	sideStyle, mainStyle := focusedStyle, panelStyle
	if focusMain {
		sideStyle, mainStyle = panelStyle, focusedStyle
	}
	side := sideStyle.Width(SidebarWidth).Render(data.Sidebar)
	main := mainStyle.Width(MainWidth).Render(data.Main)
	detail := panelStyle.Width(DetailWidth).Render(data.Detail)
	row := lipgloss.JoinHorizontal(lipgloss.Top, side, main, detail)

	lines := []string{headerStyle.Render(data.Header), row}
	if data.Overlay != "" {
		lines = append(lines, panelStyle.Render(data.Overlay))
	}
	if data.StatusLine != "" {
		if data.StatusError {
			lines = append(lines, errorStyle.Render(data.StatusLine))
		} else {
			lines = append(lines, statusStyle.Render(data.StatusLine))
		}
	}
	if data.Notification != "" {
		lines = append(lines, data.Notification)
	}
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out, err := glamour.Render(md, "dark")
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
