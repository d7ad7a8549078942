package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/things/internal/commands"
	"github.com/sandeepkv93/things/internal/store"
	"github.com/sandeepkv93/things/internal/workflow"
)

func (m Model) openPalette() Model {
	m.Mode = ModePalette
	m.commandInput.SetValue("")
	m.commandInput.Focus()
	return m
}

func (m Model) closePalette() Model {
	m.Mode = ModeNormal
	m.commandInput.SetValue("")
	m.commandInput.Blur()
	return m
}

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m = m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
		return m, nil
	case "enter":
		raw := m.commandInput.Value()
		m = m.closePalette()
		return m.executePaletteCommand(raw), nil
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	return m, cmd
}

func (m Model) executePaletteCommand(raw string) Model {
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}

	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			if err := m.addTask(a.Title); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("added: %s", a.Title)}, nil
		},
		Show: func(s commands.ShowArgs) (commands.Result, error) {
			src, ok := m.resolveSource(s.Subject)
			if !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no list, project or area named %q", s.Subject)}
			}
			m.TagFilter = s.Tag
			m.selectSource(src)
			if s.Tag != "" {
				return commands.Result{Message: fmt.Sprintf("showing %s tagged %s", src.Title, s.Tag)}, nil
			}
			return commands.Result{Message: fmt.Sprintf("showing %s", src.Title)}, nil
		},
		Done: func(a commands.TargetArgs) (commands.Result, error) {
			t, err := m.taskAt(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			if err := m.toggleTask(t); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: m.Status.Text}, nil
		},
		Cancel: func(a commands.TargetArgs) (commands.Result, error) {
			t, err := m.taskAt(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			if err := m.cancelTask(t); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: m.Status.Text}, nil
		},
		When: func(a commands.WhenArgs) (commands.Result, error) {
			t, err := m.taskAt(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			when, err := commands.ParseWhen(a.When, m.Store.Now())
			if err != nil {
				return commands.Result{}, err
			}
			if err := m.Store.SetWhen(t.ID, when.Start, when.Someday, when.Evening); err != nil {
				return commands.Result{}, err
			}
			m.afterMutation()
			return commands.Result{Message: fmt.Sprintf("scheduled %s: %s", t.Title, a.When)}, nil
		},
		Tag: func(a commands.TagArgs) (commands.Result, error) {
			t, err := m.taskAt(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			if err := m.Store.TagTask(t.ID, a.Name); err != nil {
				return commands.Result{}, err
			}
			m.afterMutation()
			return commands.Result{Message: fmt.Sprintf("tagged %s: %s", t.Title, a.Name)}, nil
		},
		Move: func(a commands.MoveArgs) (commands.Result, error) {
			t, err := m.taskAt(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			dest, ok := m.resolveDestination(a.Destination)
			if !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown destination %q", a.Destination)}
			}
			if err := m.Store.Move(t.ID, dest); err != nil {
				return commands.Result{}, err
			}
			m.afterMutation()
			return commands.Result{Message: fmt.Sprintf("moved %s to %s", t.Title, a.Destination)}, nil
		},
		Repeat: func(a commands.RepeatArgs) (commands.Result, error) {
			t, err := m.taskAt(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			rule, err := m.Store.SetRepeat(t.ID, a.Type, a.Frequency, a.Interval, a.Weekdays)
			if err != nil {
				return commands.Result{}, err
			}
			m.afterMutation()
			return commands.Result{Message: fmt.Sprintf("%s repeats %s", t.Title, describeRule(rule))}, nil
		},
		Trash: func(commands.TrashArgs) (commands.Result, error) {
			m.emptyTrash()
			return commands.Result{Message: m.Status.Text}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.notify("Command Failed", err.Error(), "error")
		return m
	}
	m.Status = StatusBar{Text: res.Message}
	return m
}

// resolveSource matches a list name first, then project and area titles.
func (m Model) resolveSource(subject string) (Source, bool) {
	if l, ok := workflow.ParseList(subject); ok {
		return listSource(l), true
	}
	if p, ok := m.snapshot.ProjectByTitle(subject); ok {
		return Source{Kind: SourceProject, ID: p.ID, Title: p.Title}, true
	}
	if a, ok := m.snapshot.AreaByTitle(subject); ok {
		return Source{Kind: SourceArea, ID: a.ID, Title: a.Title}, true
	}
	return Source{}, false
}

func (m Model) resolveDestination(raw string) (store.Destination, bool) {
	raw = strings.TrimSpace(raw)
	if l, ok := workflow.ParseList(raw); ok {
		return store.ToList(l), true
	}
	if p, ok := m.snapshot.ProjectByTitle(raw); ok {
		return store.ToProject(p.ID), true
	}
	if a, ok := m.snapshot.AreaByTitle(raw); ok {
		return store.ToArea(a.ID), true
	}
	return store.Destination{}, false
}
