package update

import (
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/sandeepkv93/things/internal/config"
	"github.com/sandeepkv93/things/internal/model"
	"github.com/sandeepkv93/things/internal/scheduler"
	"github.com/sandeepkv93/things/internal/store"
	"github.com/sandeepkv93/things/internal/workflow"
)

type Pane string

const (
	PaneSidebar Pane = "Sidebar"
	PaneTasks   Pane = "Tasks"
)

type Mode string

const (
	ModeNormal   Mode = "normal"
	ModeQuickAdd Mode = "quick_add"
	ModePalette  Mode = "palette"
	ModeSearch   Mode = "search"
	ModeNotes    Mode = "notes"
)

type SourceKind string

const (
	SourceList    SourceKind = "list"
	SourceProject SourceKind = "project"
	SourceArea    SourceKind = "area"
	SourceSearch  SourceKind = "search"
)

// Source is what the task pane currently shows.
type Source struct {
	Kind  SourceKind
	List  workflow.List
	ID    string
	Title string
}

type StatusBar struct {
	Text    string
	IsError bool
}

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

// Clipboard is the system clipboard.
type Clipboard interface {
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

type Options struct {
	Scheduler *scheduler.Engine
	Keys      config.Keymap
	Clipboard Clipboard
	// Sync pushes pending saves and reloads from the remote.
	Sync func() error
	// Horizon bounds how far ahead wake-ups are scheduled.
	Horizon time.Duration
}

type Model struct {
	Store     *store.Store
	Scheduler *scheduler.Engine
	Keys      config.Keymap

	Sources      []Source
	SourceCursor int
	Current      Source
	Tasks        []model.Task
	Cursor       int
	Focus        Pane
	Mode         Mode
	TagFilter    string
	Query        string

	HelpVisible    bool
	PreviewVisible bool
	Notifications  []Notification
	Status         StatusBar
	Quitting       bool
	LastError      error

	snapshot    model.Database
	previous    Source
	notesTaskID string
	clipboard Clipboard
	sync      func() error
	horizon   time.Duration

	taskList        list.Model
	taskTable       table.Model
	quickAddInput   textinput.Model
	commandInput    textinput.Model
	searchInput     textinput.Model
	notesArea       textarea.Model
	notesViewport   viewport.Model
	projectProgress progress.Model
	syncSpinner     spinner.Model
	helpModel       help.Model
	spinnerActive   bool
}

type listItem struct {
	title       string
	description string
}

func (i listItem) FilterValue() string { return i.title + " " + i.description }
func (i listItem) Title() string       { return i.title }
func (i listItem) Description() string { return i.description }

type SelectSourceMsg struct {
	Source Source
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// RefreshMsg re-reads the current source from the store.
type RefreshMsg struct{}

type WakeMsg struct {
	Event scheduler.Event
}

type SyncDoneMsg struct {
	Err error
}

func NewModel(st *store.Store, opts Options) Model {
	keys := opts.Keys
	if keys.Quit == "" {
		keys = config.Default().Keys
	}
	horizon := opts.Horizon
	if horizon <= 0 {
		horizon = 48 * time.Hour
	}
	m := Model{
		Store:     st,
		Scheduler: opts.Scheduler,
		Keys:      keys,
		Focus:     PaneTasks,
		Mode:      ModeNormal,
		clipboard: opts.Clipboard,
		sync:      opts.Sync,
		horizon:   horizon,
	}
	if m.clipboard == nil {
		m.clipboard = systemClipboard{}
	}
	m.initBubbleComponents()
	m.rebuildSources()
	m.selectSource(Source{Kind: SourceList, List: workflow.ListToday, Title: workflow.ListToday.Title()})
	m.scheduleTimeline()
	return m
}
