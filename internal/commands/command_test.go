package commands

import (
	"errors"
	"testing"
	"time"

	"github.com/sandeepkv93/things/internal/model"
)

func TestParseSupportedCommands(t *testing.T) {
	cases := []struct {
		in       string
		typeWant Type
	}{
		{"/add pay rent tomorrow", TypeAdd},
		{"show today", TypeShow},
		{"show Launch website tag:finance", TypeShow},
		{"done 2", TypeDone},
		{"cancel", TypeCancel},
		{"when 1 tomorrow", TypeWhen},
		{"tag 3 Errand", TypeTag},
		{"move 1 Launch website", TypeMove},
		{"repeat 1 weekly every 2 on mon,fri after", TypeRepeat},
		{"/trash empty", TypeTrash},
	}

	for _, tc := range cases {
		cmd, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if cmd.Type != tc.typeWant {
			t.Fatalf("parse %q type = %s, want %s", tc.in, cmd.Type, tc.typeWant)
		}
	}
}

func TestParseArguments(t *testing.T) {
	cmd, err := Parse("show Launch website tag:finance")
	if err != nil {
		t.Fatalf("parse show: %v", err)
	}
	if cmd.Show.Subject != "Launch website" || cmd.Show.Tag != "finance" {
		t.Fatalf("unexpected show args: %+v", cmd.Show)
	}

	cmd, err = Parse("move 4 Home")
	if err != nil {
		t.Fatalf("parse move: %v", err)
	}
	if cmd.Move.Target != 4 || cmd.Move.Destination != "Home" {
		t.Fatalf("unexpected move args: %+v", cmd.Move)
	}

	cmd, err = Parse("done .")
	if err != nil {
		t.Fatalf("parse done: %v", err)
	}
	if cmd.Done.Target != Selected {
		t.Fatalf("expected selected target, got %d", cmd.Done.Target)
	}

	cmd, err = Parse("repeat 1 weekly every 2 on mon,fri after")
	if err != nil {
		t.Fatalf("parse repeat: %v", err)
	}
	r := cmd.Repeat
	if r.Frequency != model.FrequencyWeekly || r.Interval != 2 || r.Type != model.RepeatAfterCompletion {
		t.Fatalf("unexpected repeat args: %+v", r)
	}
	if len(r.Weekdays) != 2 || r.Weekdays[0] != model.Monday || r.Weekdays[1] != model.Friday {
		t.Fatalf("unexpected weekdays: %v", r.Weekdays)
	}

	cmd, err = Parse("repeat 2 monthly")
	if err != nil {
		t.Fatalf("parse plain repeat: %v", err)
	}
	if cmd.Repeat.Interval != 1 || cmd.Repeat.Type != model.RepeatOnSchedule {
		t.Fatalf("unexpected repeat defaults: %+v", cmd.Repeat)
	}
}

func TestParseRejectsBadArguments(t *testing.T) {
	for _, in := range []string{
		"add",
		"done zero",
		"done 0",
		"when 1",
		"tag 1",
		"move x inbox",
		"repeat 1 hourly",
		"repeat 1 daily every",
		"repeat 1 monthly on mon",
		"trash",
		"trash burn",
	} {
		_, err := Parse(in)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeInvalidArgument {
			t.Fatalf("parse %q: expected invalid argument, got %v", in, err)
		}
	}
}

func TestParseUnknownCommand(t *testing.T) {
	_, err := Parse("/unknown do x")
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeUnknownCommand {
		t.Fatalf("expected unknown command error, got %v", err)
	}

	_, err = Parse("  /  ")
	if !errors.As(err, &ce) || ce.Code != ErrCodeEmptyInput {
		t.Fatalf("expected empty input error, got %v", err)
	}
}

func TestExecuteDispatch(t *testing.T) {
	cmd, err := Parse("/add write docs")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	called := false
	res, err := Execute(cmd, Handlers{
		Add: func(a AddArgs) (Result, error) {
			called = true
			if a.Title != "write docs" {
				t.Fatalf("unexpected title: %q", a.Title)
			}
			return Result{Message: "ok"}, nil
		},
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !called || res.Message != "ok" {
		t.Fatalf("dispatch failed, called=%v res=%+v", called, res)
	}
}

func TestExecuteMissingHandler(t *testing.T) {
	cmd, err := Parse("trash empty")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = Execute(cmd, Handlers{})
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeHandlerMissing {
		t.Fatalf("expected missing handler error, got %v", err)
	}
}

func TestParseWhen(t *testing.T) {
	// Monday.
	now := time.Date(2026, 2, 9, 15, 30, 0, 0, time.UTC)
	day := func(d int) time.Time { return time.Date(2026, 2, d, 0, 0, 0, 0, time.UTC) }

	cases := []struct {
		in      string
		start   *time.Time
		someday bool
		evening bool
	}{
		{"today", model.Ptr(day(9)), false, false},
		{"Tonight", model.Ptr(day(9)), false, true},
		{"tomorrow", model.Ptr(day(10)), false, false},
		{"someday", nil, true, false},
		{"anytime", nil, false, false},
		{"2026-02-20", model.Ptr(day(20)), false, false},
		{"3 days", model.Ptr(day(12)), false, false},
		{"in 2 weeks", model.Ptr(day(23)), false, false},
		{"friday", model.Ptr(day(13)), false, false},
		{"next monday", model.Ptr(day(16)), false, false},
	}
	for _, tc := range cases {
		got, err := ParseWhen(tc.in, now)
		if err != nil {
			t.Fatalf("ParseWhen(%q): %v", tc.in, err)
		}
		if got.Someday != tc.someday || got.Evening != tc.evening {
			t.Fatalf("ParseWhen(%q) flags = %+v", tc.in, got)
		}
		switch {
		case tc.start == nil && got.Start != nil:
			t.Fatalf("ParseWhen(%q) start = %s, want nil", tc.in, got.Start)
		case tc.start != nil && (got.Start == nil || !got.Start.Equal(*tc.start)):
			t.Fatalf("ParseWhen(%q) start = %v, want %s", tc.in, got.Start, tc.start)
		}
	}

	for _, bad := range []string{"", "later", "2026-13-01", "99999 days"} {
		if _, err := ParseWhen(bad, now); err == nil {
			t.Fatalf("ParseWhen(%q) expected error", bad)
		}
	}
}
