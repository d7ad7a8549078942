package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Database is the aggregate holding every entity as flat lists. It is
// persisted as one document.
type Database struct {
	Tasks       []Task       `json:"tasks"`
	Projects    []Project    `json:"projects"`
	Areas       []Area       `json:"areas"`
	Headings    []Heading    `json:"headings"`
	Tags        []Tag        `json:"tags"`
	RepeatRules []RepeatRule `json:"repeat_rules"`
}

func NewDatabase() Database {
	return Database{
		Tasks:       []Task{},
		Projects:    []Project{},
		Areas:       []Area{},
		Headings:    []Heading{},
		Tags:        []Tag{},
		RepeatRules: []RepeatRule{},
	}
}

func (db Database) IsEmpty() bool {
	return len(db.Tasks) == 0 && len(db.Projects) == 0 && len(db.Areas) == 0
}

func (db Database) Clone() Database {
	out := NewDatabase()
	for _, t := range db.Tasks {
		out.Tasks = append(out.Tasks, t.Clone())
	}
	for _, p := range db.Projects {
		out.Projects = append(out.Projects, p.Clone())
	}
	for _, a := range db.Areas {
		out.Areas = append(out.Areas, a.Clone())
	}
	for _, h := range db.Headings {
		out.Headings = append(out.Headings, h.Clone())
	}
	out.Tags = append(out.Tags, db.Tags...)
	for _, r := range db.RepeatRules {
		out.RepeatRules = append(out.RepeatRules, r.Clone())
	}
	return out
}

func (db Database) TaskIndex(id string) int {
	for i := range db.Tasks {
		if db.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (db Database) ProjectIndex(id string) int {
	for i := range db.Projects {
		if db.Projects[i].ID == id {
			return i
		}
	}
	return -1
}

func (db Database) AreaIndex(id string) int {
	for i := range db.Areas {
		if db.Areas[i].ID == id {
			return i
		}
	}
	return -1
}

func (db Database) HeadingIndex(id string) int {
	for i := range db.Headings {
		if db.Headings[i].ID == id {
			return i
		}
	}
	return -1
}

func (db Database) RuleIndex(id string) int {
	for i := range db.RepeatRules {
		if db.RepeatRules[i].ID == id {
			return i
		}
	}
	return -1
}

// TagByName matches case-insensitively.
func (db Database) TagByName(name string) (Tag, bool) {
	for _, tag := range db.Tags {
		if strings.EqualFold(tag.Name, strings.TrimSpace(name)) {
			return tag, true
		}
	}
	return Tag{}, false
}

// TagNames resolves ids to names, skipping dangling references.
func (db Database) TagNames(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		for _, tag := range db.Tags {
			if tag.ID == id {
				out = append(out, tag.Name)
				break
			}
		}
	}
	return out
}

// ProjectByTitle matches case-insensitively.
func (db Database) ProjectByTitle(title string) (Project, bool) {
	for _, p := range db.Projects {
		if strings.EqualFold(p.Title, strings.TrimSpace(title)) {
			return p, true
		}
	}
	return Project{}, false
}

func (db Database) AreaByTitle(title string) (Area, bool) {
	for _, a := range db.Areas {
		if strings.EqualFold(a.Title, strings.TrimSpace(title)) {
			return a, true
		}
	}
	return Area{}, false
}

func Encode(db Database) ([]byte, error) {
	return json.Marshal(db)
}

// Decode parses a serialized aggregate. Missing collections decode as empty.
func Decode(data []byte) (Database, error) {
	db := NewDatabase()
	if err := json.Unmarshal(data, &db); err != nil {
		return NewDatabase(), fmt.Errorf("decode database: %w", err)
	}
	db.normalize()
	return db, nil
}

func (db *Database) normalize() {
	if db.Tasks == nil {
		db.Tasks = []Task{}
	}
	if db.Projects == nil {
		db.Projects = []Project{}
	}
	if db.Areas == nil {
		db.Areas = []Area{}
	}
	if db.Headings == nil {
		db.Headings = []Heading{}
	}
	if db.Tags == nil {
		db.Tags = []Tag{}
	}
	if db.RepeatRules == nil {
		db.RepeatRules = []RepeatRule{}
	}
}
