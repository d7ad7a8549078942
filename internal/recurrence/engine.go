// Package recurrence toggles task completion and materializes the next
// occurrence of repeating tasks.
package recurrence

import (
	"errors"
	"fmt"
	"time"

	"github.com/sandeepkv93/things/internal/model"
)

var ErrNotFound = errors.New("recurrence: not found")

type Engine struct {
	Location *time.Location
}

func New(loc *time.Location) Engine {
	if loc == nil {
		loc = time.Local
	}
	return Engine{Location: loc}
}

// Result describes what a toggle did.
type Result struct {
	Found     bool
	Completed bool
	Spawned   *model.Task
}

// ToggleCompletion flips the completion state of taskID. Completing a task
// that carries a repeat rule appends the next occurrence and refreshes the
// rule's template from the completed instance. Missing tasks, rules or
// unreadable templates degrade to a plain toggle.
//
// Reopening a task leaves any occurrence it already spawned in place.
func (e Engine) ToggleCompletion(db *model.Database, taskID string, today time.Time) Result {
	idx := db.TaskIndex(taskID)
	if idx < 0 {
		return Result{}
	}
	task := &db.Tasks[idx]
	if task.IsCompleted() {
		task.Status = model.StatusOpen
		task.CompletedAt = nil
		task.ModifiedAt = today
		return Result{Found: true}
	}

	task.Status = model.StatusCompleted
	task.CompletedAt = model.Ptr(today)
	task.ModifiedAt = today
	res := Result{Found: true, Completed: true}

	if task.RepeatRuleID == nil {
		return res
	}
	ruleID := *task.RepeatRuleID
	ri := db.RuleIndex(ruleID)
	if ri < 0 {
		return res
	}
	rule := db.RepeatRules[ri]
	template, err := model.DecodeTemplate(rule.Template)
	if err != nil {
		return res
	}

	next := template.Clone()
	next.ID = model.NewID()
	next.CreatedAt = today
	next.ModifiedAt = today
	next.CompletedAt = nil
	next.Status = model.StatusOpen
	next.StartDate = model.Ptr(e.NextStart(task.StartDate, today, rule))
	next.RepeatRuleID = model.Ptr(ruleID)

	refreshed := task.Clone()
	refreshed.Status = model.StatusOpen
	refreshed.CompletedAt = nil
	if data, err := model.EncodeTemplate(refreshed); err == nil {
		db.RepeatRules[ri].Template = data
	}

	// append may reallocate; task must not be used past this point.
	db.Tasks = append(db.Tasks, next)
	res.Spawned = &next
	return res
}

// NextStart computes the start date of the following occurrence. On-schedule
// rules count from the task's own start date, falling back to the completion
// date; after-completion rules always count from the completion date.
// Weekly rules step whole weeks; their weekdays are kept for display only.
func (e Engine) NextStart(start *time.Time, completedAt time.Time, rule model.RepeatRule) time.Time {
	base := completedAt
	if rule.Type == model.RepeatOnSchedule && start != nil {
		base = *start
	}
	base = base.In(e.Location)
	interval := rule.Interval
	if interval <= 0 {
		interval = 1
	}

	switch rule.Frequency {
	case model.FrequencyDaily:
		return base.AddDate(0, 0, interval)
	case model.FrequencyWeekly:
		return base.AddDate(0, 0, 7*interval)
	case model.FrequencyMonthly:
		return addMonths(base, interval)
	case model.FrequencyYearly:
		return addMonths(base, 12*interval)
	default:
		return base
	}
}

// Preview lists the next n start dates after from, for the repeat editor.
func (e Engine) Preview(rule model.RepeatRule, from time.Time, n int) []time.Time {
	if n <= 0 {
		return []time.Time{}
	}
	out := make([]time.Time, 0, n)
	cursor := from
	for i := 0; i < n; i++ {
		cursor = e.NextStart(&cursor, cursor, rule)
		out = append(out, cursor)
	}
	return out
}

// addMonths adds months keeping the wall clock, clamping the day to the end
// of a shorter target month.
func addMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := daysIn(first.Year(), first.Month(), t.Location()); d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}

func daysIn(y int, m time.Month, loc *time.Location) int {
	return time.Date(y, m+1, 0, 12, 0, 0, 0, loc).Day()
}

// Attach creates or replaces the repeat rule of taskID, using the task's
// current state as the template.
func (e Engine) Attach(db *model.Database, taskID string, kind model.RepeatType, freq model.Frequency, interval int, weekdays []model.Weekday) (model.RepeatRule, error) {
	idx := db.TaskIndex(taskID)
	if idx < 0 {
		return model.RepeatRule{}, fmt.Errorf("%w: task %q", ErrNotFound, taskID)
	}
	rule := model.RepeatRule{
		ID:        model.NewID(),
		Type:      kind,
		Frequency: freq,
		Interval:  interval,
		Weekdays:  append([]model.Weekday(nil), weekdays...),
	}
	task := &db.Tasks[idx]
	if task.RepeatRuleID != nil {
		rule.ID = *task.RepeatRuleID
	}
	if err := rule.Validate(); err != nil {
		return model.RepeatRule{}, err
	}

	template := task.Clone()
	template.Status = model.StatusOpen
	template.CompletedAt = nil
	template.RepeatRuleID = model.Ptr(rule.ID)
	data, err := model.EncodeTemplate(template)
	if err != nil {
		return model.RepeatRule{}, fmt.Errorf("encode template: %w", err)
	}
	rule.Template = data

	if ri := db.RuleIndex(rule.ID); ri >= 0 {
		db.RepeatRules[ri] = rule
	} else {
		db.RepeatRules = append(db.RepeatRules, rule)
	}
	task.RepeatRuleID = model.Ptr(rule.ID)
	return rule.Clone(), nil
}

// Detach unlinks taskID from its rule and drops the rule once no other task
// references it.
func (e Engine) Detach(db *model.Database, taskID string) bool {
	idx := db.TaskIndex(taskID)
	if idx < 0 || db.Tasks[idx].RepeatRuleID == nil {
		return false
	}
	db.Tasks[idx].RepeatRuleID = nil
	e.Prune(db)
	return true
}

// Prune drops the rules no task points at and reports how many went.
func (e Engine) Prune(db *model.Database) int {
	used := make(map[string]bool, len(db.RepeatRules))
	for _, t := range db.Tasks {
		if t.RepeatRuleID != nil {
			used[*t.RepeatRuleID] = true
		}
	}
	kept := db.RepeatRules[:0]
	for _, r := range db.RepeatRules {
		if used[r.ID] {
			kept = append(kept, r)
		}
	}
	removed := len(db.RepeatRules) - len(kept)
	db.RepeatRules = kept
	return removed
}
