package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

type RepeatType string

const (
	RepeatOnSchedule      RepeatType = "on_schedule"
	RepeatAfterCompletion RepeatType = "after_completion"
)

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

var (
	ErrInvalidRepeatType = errors.New("model: invalid repeat type")
	ErrInvalidFrequency  = errors.New("model: invalid repeat frequency")
	ErrInvalidInterval   = errors.New("model: invalid repeat interval")
	ErrInvalidWeekday    = errors.New("model: invalid weekday")
)

var weekdayIndex = map[Weekday]time.Weekday{
	Sunday:    time.Sunday,
	Monday:    time.Monday,
	Tuesday:   time.Tuesday,
	Wednesday: time.Wednesday,
	Thursday:  time.Thursday,
	Friday:    time.Friday,
	Saturday:  time.Saturday,
}

// Time converts w to the standard library weekday.
func (w Weekday) Time() (time.Weekday, bool) {
	d, ok := weekdayIndex[w]
	return d, ok
}

// ParseWeekday accepts full names and three letter abbreviations.
func ParseWeekday(raw string) (Weekday, bool) {
	v := strings.ToLower(strings.TrimSpace(raw))
	for w := range weekdayIndex {
		if string(w) == v || (len(v) == 3 && strings.HasPrefix(string(w), v)) {
			return w, true
		}
	}
	return "", false
}

func ParseFrequency(raw string) (Frequency, bool) {
	switch Frequency(strings.ToLower(strings.TrimSpace(raw))) {
	case FrequencyDaily:
		return FrequencyDaily, true
	case FrequencyWeekly:
		return FrequencyWeekly, true
	case FrequencyMonthly:
		return FrequencyMonthly, true
	case FrequencyYearly:
		return FrequencyYearly, true
	default:
		return "", false
	}
}

// RepeatRule regenerates a task after completion. Template holds the JSON
// encoding of the task cloned for each occurrence.
type RepeatRule struct {
	ID        string     `json:"id"`
	Type      RepeatType `json:"type"`
	Frequency Frequency  `json:"frequency"`
	Interval  int        `json:"interval"`
	Weekdays  []Weekday  `json:"weekdays,omitempty"`
	Template  []byte     `json:"template_data"`
}

func (r RepeatRule) Validate() error {
	switch r.Type {
	case RepeatOnSchedule, RepeatAfterCompletion:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidRepeatType, r.Type)
	}
	switch r.Frequency {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFrequency, r.Frequency)
	}
	if r.Interval <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidInterval, r.Interval)
	}
	if len(r.Weekdays) > 0 {
		s := make([]int, 0, len(r.Weekdays))
		for _, w := range r.Weekdays {
			d, ok := w.Time()
			if !ok {
				return fmt.Errorf("%w: %q", ErrInvalidWeekday, w)
			}
			s = append(s, int(d))
		}
		sort.Ints(s)
		for i := 1; i < len(s); i++ {
			if s[i] == s[i-1] {
				return errors.New("model: duplicate weekday in repeat rule")
			}
		}
	}
	return nil
}

func (r RepeatRule) Clone() RepeatRule {
	out := r
	out.Weekdays = append([]Weekday(nil), r.Weekdays...)
	out.Template = append([]byte(nil), r.Template...)
	return out
}

// EncodeTemplate serializes t for storage in a rule.
func EncodeTemplate(t Task) ([]byte, error) {
	return json.Marshal(t)
}

func DecodeTemplate(data []byte) (Task, error) {
	var t Task
	if len(data) == 0 {
		return Task{}, errors.New("model: empty template")
	}
	if err := json.Unmarshal(data, &t); err != nil {
		return Task{}, fmt.Errorf("decode template: %w", err)
	}
	return t, nil
}
