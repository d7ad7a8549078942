package update

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/things/internal/model"
)

const repeatPreviewCount = 3

func describeRule(r model.RepeatRule) string {
	unit := map[model.Frequency]string{
		model.FrequencyDaily:   "day",
		model.FrequencyWeekly:  "week",
		model.FrequencyMonthly: "month",
		model.FrequencyYearly:  "year",
	}[r.Frequency]
	out := "every " + unit
	if r.Interval > 1 {
		out = fmt.Sprintf("every %d %ss", r.Interval, unit)
	}
	if len(r.Weekdays) > 0 {
		days := make([]string, 0, len(r.Weekdays))
		for _, w := range r.Weekdays {
			days = append(days, string(w))
		}
		out += " on " + strings.Join(days, ",")
	}
	if r.Type == model.RepeatAfterCompletion {
		out += " after completion"
	}
	return out
}

// repeatSummary describes the selected task's rule and its next starts.
func (m Model) repeatSummary(t model.Task) (string, []string) {
	if t.RepeatRuleID == nil {
		return "", nil
	}
	idx := m.snapshot.RuleIndex(*t.RepeatRuleID)
	if idx < 0 {
		return "", nil
	}
	rule := m.snapshot.RepeatRules[idx]
	next, err := m.Store.RepeatPreview(t.ID, repeatPreviewCount)
	if err != nil || rule.Type == model.RepeatAfterCompletion {
		return describeRule(rule), nil
	}
	out := make([]string, 0, len(next))
	for _, at := range next {
		out = append(out, at.In(m.Store.Location()).Format("Jan 2"))
	}
	return describeRule(rule), out
}
