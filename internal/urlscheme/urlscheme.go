// Package urlscheme handles things4:// automation links.
package urlscheme

import (
	"net/url"
	"strings"
	"time"

	"github.com/sandeepkv93/things/internal/model"
)

const (
	Scheme       = "things4"
	DefaultTitle = "New To-Do"
)

// Handle applies the action encoded in raw to db. It reports whether the
// link was recognized and applied; anything else leaves db untouched.
func Handle(raw string, db *model.Database, now time.Time) bool {
	action, query, ok := parse(raw)
	if !ok {
		return false
	}
	switch action {
	case "add":
		title := strings.TrimSpace(query.Get("title"))
		if title == "" {
			title = DefaultTitle
		}
		task := model.NewTask(title, now)
		task.Notes = query.Get("notes")
		if when, ok := parseDate(query.Get("when"), now.Location()); ok {
			task.StartDate = &when
		}
		if deadline, ok := parseDate(query.Get("deadline"), now.Location()); ok {
			task.Deadline = &deadline
		}
		db.Tasks = append(db.Tasks, task)
		return true
	default:
		return false
	}
}

// ShowLink builds the link that reveals taskID.
func ShowLink(taskID string) string {
	u := url.URL{Scheme: Scheme, Path: "/show", RawQuery: url.Values{"id": {taskID}}.Encode()}
	return u.String()
}

// ShowTarget extracts the task ID from a show link.
func ShowTarget(raw string) (string, bool) {
	action, query, ok := parse(raw)
	if !ok || action != "show" {
		return "", false
	}
	id := query.Get("id")
	return id, id != ""
}

func parse(raw string) (string, url.Values, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || !strings.EqualFold(u.Scheme, Scheme) {
		return "", nil, false
	}
	action := u.Host
	if action == "" {
		action = strings.ReplaceAll(u.Path, "/", "")
	}
	return strings.ToLower(action), u.Query(), true
}

// parseDate accepts RFC 3339 timestamps and bare calendar dates. A bare date
// means midnight in loc.
func parseDate(v string, loc *time.Location) (time.Time, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation(time.DateOnly, v, loc); err == nil {
		return t, true
	}
	return time.Time{}, false
}
