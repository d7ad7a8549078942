package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/sandeepkv93/things/internal/model"
)

func (s *Store) AddProject(title string, areaID *string) (model.Project, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Project{}, fmt.Errorf("%w: project title is required", ErrInvalid)
	}
	var out model.Project
	err := s.mutate(func(db *model.Database, now time.Time) error {
		if areaID != nil && db.AreaIndex(*areaID) < 0 {
			return fmt.Errorf("%w: area %q", ErrNotFound, *areaID)
		}
		p := model.NewProject(title, now)
		if areaID != nil {
			p.AreaID = model.Ptr(*areaID)
		}
		db.Projects = append(db.Projects, p)
		out = p.Clone()
		return nil
	})
	return out, err
}

// DeleteProject removes a project together with its tasks and headings.
func (s *Store) DeleteProject(id string) error {
	return s.mutate(func(db *model.Database, _ time.Time) error {
		if db.ProjectIndex(id) < 0 {
			return fmt.Errorf("%w: project %q", ErrNotFound, id)
		}
		removeProjects(db, map[string]bool{id: true})
		s.recurrence().Prune(db)
		return nil
	})
}

func (s *Store) AddArea(title string) (model.Area, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Area{}, fmt.Errorf("%w: area title is required", ErrInvalid)
	}
	var out model.Area
	err := s.mutate(func(db *model.Database, now time.Time) error {
		a := model.NewArea(title, now)
		db.Areas = append(db.Areas, a)
		out = a.Clone()
		return nil
	})
	return out, err
}

// DeleteArea removes an area, the tasks filed under it and its projects
// along with their contents.
func (s *Store) DeleteArea(id string) error {
	return s.mutate(func(db *model.Database, _ time.Time) error {
		idx := db.AreaIndex(id)
		if idx < 0 {
			return fmt.Errorf("%w: area %q", ErrNotFound, id)
		}
		db.Areas = append(db.Areas[:idx], db.Areas[idx+1:]...)

		owned := map[string]bool{}
		for _, p := range db.Projects {
			if p.AreaID != nil && *p.AreaID == id {
				owned[p.ID] = true
			}
		}
		removeProjects(db, owned)

		tasks := db.Tasks[:0]
		for _, t := range db.Tasks {
			if t.AreaID != nil && *t.AreaID == id {
				continue
			}
			tasks = append(tasks, t)
		}
		db.Tasks = tasks
		s.recurrence().Prune(db)
		return nil
	})
}

func removeProjects(db *model.Database, ids map[string]bool) {
	if len(ids) == 0 {
		return
	}
	projects := db.Projects[:0]
	for _, p := range db.Projects {
		if !ids[p.ID] {
			projects = append(projects, p)
		}
	}
	db.Projects = projects

	headings := db.Headings[:0]
	for _, h := range db.Headings {
		if !ids[h.ProjectID] {
			headings = append(headings, h)
		}
	}
	db.Headings = headings

	tasks := db.Tasks[:0]
	for _, t := range db.Tasks {
		if t.ProjectID != nil && ids[*t.ProjectID] {
			continue
		}
		tasks = append(tasks, t)
	}
	db.Tasks = tasks
}

func (s *Store) AddHeading(projectID, title string) (model.Heading, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Heading{}, fmt.Errorf("%w: heading title is required", ErrInvalid)
	}
	var out model.Heading
	err := s.mutate(func(db *model.Database, now time.Time) error {
		if db.ProjectIndex(projectID) < 0 {
			return fmt.Errorf("%w: project %q", ErrNotFound, projectID)
		}
		h := model.NewHeading(title, projectID, now)
		if err := h.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		db.Headings = append(db.Headings, h)
		out = h.Clone()
		return nil
	})
	return out, err
}

// EnsureTag returns the tag called name, creating it when missing.
func (s *Store) EnsureTag(name string) (model.Tag, error) {
	var out model.Tag
	err := s.mutate(func(db *model.Database, _ time.Time) error {
		var err error
		out, err = ensureTag(db, name)
		return err
	})
	return out, err
}

func ensureTag(db *model.Database, name string) (model.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Tag{}, fmt.Errorf("%w: tag name is required", ErrInvalid)
	}
	if tag, ok := db.TagByName(name); ok {
		return tag, nil
	}
	tag := model.Tag{ID: model.NewID(), Name: name}
	db.Tags = append(db.Tags, tag)
	return tag, nil
}

// TagTask adds the named tag to a task, creating the tag if needed.
func (s *Store) TagTask(id, name string) error {
	return s.mutate(func(db *model.Database, now time.Time) error {
		idx := db.TaskIndex(id)
		if idx < 0 {
			return fmt.Errorf("%w: task %q", ErrNotFound, id)
		}
		tag, err := ensureTag(db, name)
		if err != nil {
			return err
		}
		t := &db.Tasks[idx]
		if !t.HasTag(tag.ID) {
			t.TagIDs = append(t.TagIDs, tag.ID)
		}
		t.ModifiedAt = now
		return nil
	})
}

// DeleteTag removes a tag and strips it from every task, project and area.
func (s *Store) DeleteTag(id string) error {
	return s.mutate(func(db *model.Database, _ time.Time) error {
		idx := -1
		for i, tag := range db.Tags {
			if tag.ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("%w: tag %q", ErrNotFound, id)
		}
		db.Tags = append(db.Tags[:idx], db.Tags[idx+1:]...)
		for i := range db.Tasks {
			db.Tasks[i].TagIDs = without(db.Tasks[i].TagIDs, id)
		}
		for i := range db.Projects {
			db.Projects[i].TagIDs = without(db.Projects[i].TagIDs, id)
		}
		for i := range db.Areas {
			db.Areas[i].TagIDs = without(db.Areas[i].TagIDs, id)
		}
		return nil
	})
}

func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
