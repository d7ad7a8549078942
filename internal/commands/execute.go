package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add    func(AddArgs) (Result, error)
	Show   func(ShowArgs) (Result, error)
	Done   func(TargetArgs) (Result, error)
	Cancel func(TargetArgs) (Result, error)
	When   func(WhenArgs) (Result, error)
	Tag    func(TagArgs) (Result, error)
	Move   func(MoveArgs) (Result, error)
	Repeat func(RepeatArgs) (Result, error)
	Trash  func(TrashArgs) (Result, error)
}

func missing(name string) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: name + " handler not configured"}
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, missing("add")
		}
		return handlers.Add(*cmd.Add)
	case TypeShow:
		if handlers.Show == nil {
			return Result{}, missing("show")
		}
		return handlers.Show(*cmd.Show)
	case TypeDone:
		if handlers.Done == nil {
			return Result{}, missing("done")
		}
		return handlers.Done(*cmd.Done)
	case TypeCancel:
		if handlers.Cancel == nil {
			return Result{}, missing("cancel")
		}
		return handlers.Cancel(*cmd.Cancel)
	case TypeWhen:
		if handlers.When == nil {
			return Result{}, missing("when")
		}
		return handlers.When(*cmd.When)
	case TypeTag:
		if handlers.Tag == nil {
			return Result{}, missing("tag")
		}
		return handlers.Tag(*cmd.Tag)
	case TypeMove:
		if handlers.Move == nil {
			return Result{}, missing("move")
		}
		return handlers.Move(*cmd.Move)
	case TypeRepeat:
		if handlers.Repeat == nil {
			return Result{}, missing("repeat")
		}
		return handlers.Repeat(*cmd.Repeat)
	case TypeTrash:
		if handlers.Trash == nil {
			return Result{}, missing("trash")
		}
		return handlers.Trash(*cmd.Trash)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
