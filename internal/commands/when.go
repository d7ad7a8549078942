package commands

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/things/internal/model"
)

// When is a parsed scheduling phrase. A nil Start without Someday means
// "anytime".
type When struct {
	Start   *time.Time
	Someday bool
	Evening bool
}

var relativeWhen = regexp.MustCompile(`^(?:in\s+)?(\d+)\s+(day|days|week|weeks)$`)

// ParseWhen understands today, tonight, tomorrow, someday, anytime, weekday
// names, YYYY-MM-DD and "N days" / "N weeks". Dates resolve to midnight in
// now's location.
func ParseWhen(raw string, now time.Time) (When, error) {
	v := strings.ToLower(strings.Join(strings.Fields(raw), " "))
	loc := now.Location()
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, loc)
	on := func(t time.Time) When { return When{Start: &t} }

	switch v {
	case "":
		return When{}, invalid("when requires a date")
	case "today":
		return on(today), nil
	case "tonight", "this evening":
		w := on(today)
		w.Evening = true
		return w, nil
	case "tomorrow":
		return on(today.AddDate(0, 0, 1)), nil
	case "someday":
		return When{Someday: true}, nil
	case "anytime":
		return When{}, nil
	}

	if wd, ok := model.ParseWeekday(strings.TrimPrefix(v, "next ")); ok {
		target, _ := wd.Time()
		ahead := (int(target) - int(today.Weekday()) + 7) % 7
		if ahead == 0 {
			ahead = 7
		}
		return on(today.AddDate(0, 0, ahead)), nil
	}

	if t, err := time.ParseInLocation(time.DateOnly, v, loc); err == nil {
		return on(t), nil
	}

	if matches := relativeWhen.FindStringSubmatch(v); len(matches) == 3 {
		amount, err := strconv.Atoi(matches[1])
		if err != nil {
			return When{}, invalid("invalid number %q", matches[1])
		}
		switch matches[2] {
		case "day", "days":
			if amount > 3650 {
				return When{}, invalid("days must be at most 3650")
			}
			return on(today.AddDate(0, 0, amount)), nil
		default:
			if amount > 520 {
				return When{}, invalid("weeks must be at most 520")
			}
			return on(today.AddDate(0, 0, 7*amount)), nil
		}
	}

	return When{}, invalid("unrecognized date %q; use today, tonight, tomorrow, someday, anytime, a weekday, YYYY-MM-DD, N days or N weeks", raw)
}
