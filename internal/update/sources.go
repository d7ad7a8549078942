package update

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/things/internal/model"
	"github.com/sandeepkv93/things/internal/views"
	"github.com/sandeepkv93/things/internal/workflow"
)

func listSource(l workflow.List) Source {
	return Source{Kind: SourceList, List: l, Title: l.Title()}
}

func (s Source) same(o Source) bool {
	if s.Kind != o.Kind {
		return false
	}
	if s.Kind == SourceList {
		return s.List == o.List
	}
	return s.ID == o.ID
}

// rebuildSources lists the sidebar: virtual lists, open projects, areas.
func (m *Model) rebuildSources() {
	m.snapshot = m.Store.Snapshot()
	out := make([]Source, 0, len(workflow.Lists())+len(m.snapshot.Projects)+len(m.snapshot.Areas))
	for _, l := range workflow.Lists() {
		out = append(out, listSource(l))
	}
	for _, p := range m.snapshot.Projects {
		if p.Status == model.StatusOpen {
			out = append(out, Source{Kind: SourceProject, ID: p.ID, Title: p.Title})
		}
	}
	for _, a := range m.snapshot.Areas {
		out = append(out, Source{Kind: SourceArea, ID: a.ID, Title: a.Title})
	}
	m.Sources = out
	if m.SourceCursor >= len(out) {
		m.SourceCursor = len(out) - 1
	}
	if m.SourceCursor < 0 {
		m.SourceCursor = 0
	}
}

func (m *Model) selectSource(src Source) {
	m.Current = src
	m.Cursor = 0
	m.Tasks = nil
	for i, s := range m.Sources {
		if s.same(src) {
			m.SourceCursor = i
			break
		}
	}
	m.refresh()
}

// refresh re-reads the task pane, keeping the selected task under the
// cursor when it is still visible.
func (m *Model) refresh() {
	prev := ""
	if t, ok := m.selectedTask(); ok {
		prev = t.ID
	}
	m.rebuildSources()

	var tasks []model.Task
	switch m.Current.Kind {
	case SourceProject:
		if m.snapshot.ProjectIndex(m.Current.ID) < 0 {
			m.Current = listSource(workflow.ListToday)
			tasks = m.Store.Tasks(workflow.ListToday)
		} else {
			tasks = m.Store.ProjectTasks(m.Current.ID)
		}
	case SourceArea:
		if m.snapshot.AreaIndex(m.Current.ID) < 0 {
			m.Current = listSource(workflow.ListToday)
			tasks = m.Store.Tasks(workflow.ListToday)
		} else {
			tasks = m.Store.AreaTasks(m.Current.ID)
		}
	case SourceSearch:
		tasks = m.Store.Search(m.Query)
	default:
		tasks = m.Store.Tasks(m.Current.List)
	}
	if m.TagFilter != "" {
		tasks = m.filterByTag(tasks, m.TagFilter)
	}
	m.Tasks = tasks

	if prev != "" {
		for i, t := range tasks {
			if t.ID == prev {
				m.Cursor = i
				break
			}
		}
	}
	m.clampCursor()
}

func (m Model) filterByTag(tasks []model.Task, name string) []model.Task {
	tag, ok := m.snapshot.TagByName(name)
	if !ok {
		return []model.Task{}
	}
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.HasTag(tag.ID) {
			out = append(out, t)
		}
	}
	return out
}

func (m *Model) clampCursor() {
	if m.Cursor >= len(m.Tasks) {
		m.Cursor = len(m.Tasks) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

func (m Model) selectedTask() (model.Task, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Tasks) {
		return model.Task{}, false
	}
	return m.Tasks[m.Cursor], true
}

// taskAt resolves a palette target: Selected is the cursor row, otherwise a
// 1-based row number.
func (m Model) taskAt(target int) (model.Task, error) {
	if target == 0 {
		t, ok := m.selectedTask()
		if !ok {
			return model.Task{}, fmt.Errorf("no task selected")
		}
		return t, nil
	}
	if target < 1 || target > len(m.Tasks) {
		return model.Task{}, fmt.Errorf("no task %d in %s", target, m.Current.Title)
	}
	return m.Tasks[target-1], nil
}

func (m Model) containerTitle(t model.Task) string {
	if t.ProjectID != nil {
		if i := m.snapshot.ProjectIndex(*t.ProjectID); i >= 0 {
			return m.snapshot.Projects[i].Title
		}
	}
	if t.AreaID != nil {
		if i := m.snapshot.AreaIndex(*t.AreaID); i >= 0 {
			return m.snapshot.Areas[i].Title
		}
	}
	return ""
}

func checkbox(t model.Task) string {
	switch {
	case t.IsCompleted():
		return "[x]"
	case t.IsCanceled():
		return "[-]"
	default:
		return "[ ]"
	}
}

func (m Model) taskMeta(t model.Task) string {
	loc := m.Store.Location()
	parts := make([]string, 0, 4)
	if where := m.containerTitle(t); where != "" && m.Current.Kind != SourceProject {
		parts = append(parts, where)
	}
	switch {
	case t.IsSomeday:
		parts = append(parts, "someday")
	case t.StartDate != nil && m.Current.List != workflow.ListToday:
		parts = append(parts, t.StartDate.In(loc).Format("Mon Jan 2"))
	}
	if t.IsEvening {
		parts = append(parts, "this evening")
	}
	if t.Deadline != nil {
		parts = append(parts, "due "+t.Deadline.In(loc).Format("Jan 2"))
	}
	if names := m.snapshot.TagNames(t.TagIDs); len(names) > 0 {
		parts = append(parts, "#"+strings.Join(names, " #"))
	}
	if t.RepeatRuleID != nil {
		parts = append(parts, "repeats")
	}
	return strings.Join(parts, " | ")
}

func (m Model) sidebarEntries() []views.SidebarEntry {
	engine := m.Store.Engine()
	out := make([]views.SidebarEntry, 0, len(m.Sources))
	for i, s := range m.Sources {
		e := views.SidebarEntry{
			Title:   s.Title,
			Cursor:  m.Focus == PaneSidebar && i == m.SourceCursor,
			Current: s.same(m.Current),
		}
		switch s.Kind {
		case SourceList:
			e.Section = "Lists"
			if s.List == workflow.ListInbox || s.List == workflow.ListToday {
				e.Count = len(engine.Tasks(s.List, m.snapshot))
			}
		case SourceProject:
			e.Section = "Projects"
			e.Count = openCount(engine.ProjectTasks(s.ID, m.snapshot))
		case SourceArea:
			e.Section = "Areas"
		}
		out = append(out, e)
	}
	return out
}

func openCount(tasks []model.Task) int {
	n := 0
	for _, t := range tasks {
		if t.IsOpen() {
			n++
		}
	}
	return n
}
