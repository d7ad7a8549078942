package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandeepkv93/things/internal/model"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeShow   Type = "show"
	TypeDone   Type = "done"
	TypeCancel Type = "cancel"
	TypeWhen   Type = "when"
	TypeTag    Type = "tag"
	TypeMove   Type = "move"
	TypeRepeat Type = "repeat"
	TypeTrash  Type = "trash"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func invalid(format string, args ...any) error {
	return &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// Selected is the Target value meaning the row under the cursor.
const Selected = 0

type AddArgs struct {
	Title string
}

type ShowArgs struct {
	Subject string
	Tag     string
}

// TargetArgs addresses a task by its 1-based row in the visible list.
type TargetArgs struct {
	Target int
}

type WhenArgs struct {
	Target int
	When   string
}

type TagArgs struct {
	Target int
	Name   string
}

type MoveArgs struct {
	Target      int
	Destination string
}

type RepeatArgs struct {
	Target    int
	Frequency model.Frequency
	Interval  int
	Type      model.RepeatType
	Weekdays  []model.Weekday
}

type TrashArgs struct {
	Action string
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Show   *ShowArgs
	Done   *TargetArgs
	Cancel *TargetArgs
	When   *WhenArgs
	Tag    *TagArgs
	Move   *MoveArgs
	Repeat *RepeatArgs
	Trash  *TrashArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeShow:
		return parseShow(input, args)
	case TypeDone, TypeCancel:
		return parseTarget(input, Type(head), args)
	case TypeWhen:
		return parseWhen(input, args)
	case TypeTag:
		return parseTag(input, args)
	case TypeMove:
		return parseMove(input, args)
	case TypeRepeat:
		return parseRepeat(input, args)
	case TypeTrash:
		return parseTrash(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return Command{}, invalid("add requires a title")
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Title: title}}, nil
}

func parseShow(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, invalid("show requires a list, project or area")
	}
	subject := make([]string, 0, len(args))
	tag := ""
	for _, arg := range args {
		if strings.HasPrefix(strings.ToLower(arg), "tag:") {
			tag = strings.TrimSpace(arg[len("tag:"):])
			continue
		}
		subject = append(subject, arg)
	}
	if len(subject) == 0 {
		return Command{}, invalid("show requires a list, project or area")
	}
	return Command{Type: TypeShow, Raw: raw, Show: &ShowArgs{Subject: strings.Join(subject, " "), Tag: tag}}, nil
}

// parseIndex accepts a positive row number, or "." / "selected".
func parseIndex(arg string) (int, error) {
	switch strings.ToLower(arg) {
	case ".", "selected", "this":
		return Selected, nil
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, invalid("task number must be a positive integer, got %q", arg)
	}
	return n, nil
}

func parseTarget(raw string, typ Type, args []string) (Command, error) {
	target := Selected
	if len(args) > 1 {
		return Command{}, invalid("%s takes at most one task number", typ)
	}
	if len(args) == 1 {
		n, err := parseIndex(args[0])
		if err != nil {
			return Command{}, err
		}
		target = n
	}
	cmd := Command{Type: typ, Raw: raw}
	if typ == TypeDone {
		cmd.Done = &TargetArgs{Target: target}
	} else {
		cmd.Cancel = &TargetArgs{Target: target}
	}
	return cmd, nil
}

func parseWhen(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, invalid("when requires a task number and a date")
	}
	n, err := parseIndex(args[0])
	if err != nil {
		return Command{}, err
	}
	return Command{Type: TypeWhen, Raw: raw, When: &WhenArgs{Target: n, When: strings.Join(args[1:], " ")}}, nil
}

func parseTag(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, invalid("tag requires a task number and a tag name")
	}
	n, err := parseIndex(args[0])
	if err != nil {
		return Command{}, err
	}
	return Command{Type: TypeTag, Raw: raw, Tag: &TagArgs{Target: n, Name: strings.Join(args[1:], " ")}}, nil
}

func parseMove(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, invalid("move requires a task number and a destination")
	}
	n, err := parseIndex(args[0])
	if err != nil {
		return Command{}, err
	}
	return Command{Type: TypeMove, Raw: raw, Move: &MoveArgs{Target: n, Destination: strings.Join(args[1:], " ")}}, nil
}

// parseRepeat reads: repeat <n> <frequency> [every N] [on mon,fri] [after]
func parseRepeat(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, invalid("repeat requires a task number and a frequency")
	}
	n, err := parseIndex(args[0])
	if err != nil {
		return Command{}, err
	}
	freq, ok := model.ParseFrequency(args[1])
	if !ok {
		return Command{}, invalid("unknown frequency %q", args[1])
	}
	out := RepeatArgs{Target: n, Frequency: freq, Interval: 1, Type: model.RepeatOnSchedule}
	rest := args[2:]
	for i := 0; i < len(rest); i++ {
		switch strings.ToLower(rest[i]) {
		case "every":
			if i+1 >= len(rest) {
				return Command{}, invalid("every requires a number")
			}
			v, err := strconv.Atoi(rest[i+1])
			if err != nil || v < 1 {
				return Command{}, invalid("interval must be a positive integer, got %q", rest[i+1])
			}
			out.Interval = v
			i++
		case "on":
			if i+1 >= len(rest) {
				return Command{}, invalid("on requires weekdays")
			}
			for _, name := range strings.Split(rest[i+1], ",") {
				w, ok := model.ParseWeekday(name)
				if !ok {
					return Command{}, invalid("unknown weekday %q", name)
				}
				out.Weekdays = append(out.Weekdays, w)
			}
			i++
		case "after":
			out.Type = model.RepeatAfterCompletion
		default:
			return Command{}, invalid("unexpected repeat option %q", rest[i])
		}
	}
	if len(out.Weekdays) > 0 && freq != model.FrequencyWeekly {
		return Command{}, invalid("weekdays only apply to weekly repeats")
	}
	return Command{Type: TypeRepeat, Raw: raw, Repeat: &out}, nil
}

func parseTrash(raw string, args []string) (Command, error) {
	if len(args) != 1 || strings.ToLower(args[0]) != "empty" {
		return Command{}, invalid("usage: trash empty")
	}
	return Command{Type: TypeTrash, Raw: raw, Trash: &TrashArgs{Action: "empty"}}, nil
}
