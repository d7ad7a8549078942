package model

import (
	"errors"
	"testing"
	"time"
)

func TestRepeatRuleValidate(t *testing.T) {
	rule := RepeatRule{ID: "r1", Type: RepeatOnSchedule, Frequency: FrequencyWeekly, Interval: 1, Weekdays: []Weekday{Monday, Friday}}
	if err := rule.Validate(); err != nil {
		t.Fatalf("expected valid rule, got: %v", err)
	}

	rule.Interval = 0
	if err := rule.Validate(); !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval, got %v", err)
	}

	rule.Interval = 1
	rule.Type = RepeatType("sometimes")
	if err := rule.Validate(); !errors.Is(err, ErrInvalidRepeatType) {
		t.Fatalf("expected ErrInvalidRepeatType, got %v", err)
	}

	rule.Type = RepeatAfterCompletion
	rule.Frequency = Frequency("hourly")
	if err := rule.Validate(); !errors.Is(err, ErrInvalidFrequency) {
		t.Fatalf("expected ErrInvalidFrequency, got %v", err)
	}

	rule.Frequency = FrequencyWeekly
	rule.Weekdays = []Weekday{Monday, Monday}
	if err := rule.Validate(); err == nil {
		t.Fatal("expected duplicate weekday error")
	}

	rule.Weekdays = []Weekday{"funday"}
	if err := rule.Validate(); !errors.Is(err, ErrInvalidWeekday) {
		t.Fatalf("expected ErrInvalidWeekday, got %v", err)
	}
}

func TestTemplateRoundTrip(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	task := NewTask("Pay Rent", now)
	task.StartDate = Ptr(now)
	data, err := EncodeTemplate(task)
	if err != nil {
		t.Fatalf("encode template: %v", err)
	}
	got, err := DecodeTemplate(data)
	if err != nil {
		t.Fatalf("decode template: %v", err)
	}
	if got.Title != "Pay Rent" || got.StartDate == nil || !got.StartDate.Equal(now) {
		t.Fatalf("unexpected template: %+v", got)
	}
}

func TestDecodeTemplateRejectsGarbage(t *testing.T) {
	if _, err := DecodeTemplate(nil); err == nil {
		t.Fatal("expected error for empty template")
	}
	if _, err := DecodeTemplate([]byte("{not json")); err == nil {
		t.Fatal("expected error for malformed template")
	}
}

func TestParseWeekdayAndFrequency(t *testing.T) {
	cases := map[string]Weekday{"mon": Monday, "Thursday": Thursday, "sun": Sunday}
	for in, want := range cases {
		got, ok := ParseWeekday(in)
		if !ok || got != want {
			t.Fatalf("ParseWeekday(%q) = %q, %v", in, got, ok)
		}
	}
	if _, ok := ParseWeekday("someday"); ok {
		t.Fatal("expected someday to be rejected")
	}
	if f, ok := ParseFrequency("Monthly"); !ok || f != FrequencyMonthly {
		t.Fatalf("unexpected frequency: %q %v", f, ok)
	}
}
