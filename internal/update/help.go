package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"

	"github.com/sandeepkv93/things/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	var plain []string
	for _, kb := range m.paneBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	global := m.helpBindings(m.globalBindings())
	return views.RenderHelpPanel(views.HelpPanelData{
		Pane:     string(m.Focus),
		Bindings: plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: global,
			full:  [][]key.Binding{global, m.helpBindings(m.paneBindings())},
		}),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.NextPane, Action: "switch pane"},
		{Key: m.Keys.Add, Action: "new to-do"},
		{Key: m.Keys.Palette, Action: "command palette"},
		{Key: m.Keys.Search, Action: "quick find"},
		{Key: "S", Action: "sync"},
		{Key: m.Keys.Help, Action: "toggle help"},
		{Key: m.Keys.Quit, Action: "quit"},
	}
}

func (m Model) paneBindings() []KeyBinding {
	if m.Focus == PaneSidebar {
		return []KeyBinding{
			{Key: m.Keys.Up + "/" + m.Keys.Down, Action: "choose list, project or area"},
			{Key: "enter", Action: "open in task pane"},
		}
	}
	return []KeyBinding{
		{Key: m.Keys.Up + "/" + m.Keys.Down, Action: "move selection"},
		{Key: m.Keys.Toggle, Action: "complete / reopen"},
		{Key: m.Keys.Cancel, Action: "cancel / restore"},
		{Key: m.Keys.Delete, Action: "delete"},
		{Key: m.Keys.Duplicate, Action: "duplicate"},
		{Key: m.Keys.Notes, Action: "edit notes"},
		{Key: m.Keys.Preview, Action: "toggle notes preview"},
		{Key: m.Keys.CopyText, Action: "copy as text"},
		{Key: m.Keys.CopyLink, Action: "copy link"},
		{Key: m.Keys.EmptyTrash, Action: "empty trash"},
	}
}

func (m Model) helpBindings(kbs []KeyBinding) []key.Binding {
	out := make([]key.Binding, 0, len(kbs))
	for _, kb := range kbs {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
