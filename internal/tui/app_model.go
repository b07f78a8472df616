package tui

import (
	"time"

	"checklist-cli/internal/logging"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

const (
	defaultUnlockDelay = 500 * time.Millisecond
	statusTTL          = 4 * time.Second
)

// Config is everything the TUI needs from the CLI layer. The TUI itself reads
// no environment besides terminal color hints.
type Config struct {
	Store   TaskStore
	BaseURL string

	// Timeout bounds every remote call; zero means unbounded.
	Timeout time.Duration
	// UnlockDelay is how long the create control stays hidden after a submit.
	UnlockDelay time.Duration
	// SelectDelay > 0 selects a newly created user after this fixed delay
	// instead of waiting for the create request to finish.
	SelectDelay time.Duration

	Logger *log.Logger
	Theme  string
}

type appModel struct {
	cfg   Config
	deps  deps
	timer timerFunc

	width  int
	height int

	focus     focusArea
	creator   creatorModel
	selection selectionModel
	tasks     taskListModel

	// cursor indexes taskRows().
	cursor int

	spinner  spinner.Model
	keys     keyMap
	help     help.Model
	showHelp bool

	status    string
	statusErr bool
	statusSeq int

	// initCmd is built with the model so the first names fetch is tagged
	// with a sequence the model already knows; Init has a value receiver.
	initCmd tea.Cmd
}

func newAppModel(cfg Config) appModel {
	return newAppModelWithTimer(cfg, teaTimer)
}

func newAppModelWithTimer(cfg Config, timer timerFunc) appModel {
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}
	if cfg.UnlockDelay <= 0 {
		cfg.UnlockDelay = defaultUnlockDelay
	}
	d := deps{store: cfg.Store, timeout: cfg.Timeout, logger: cfg.Logger}

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = styleMuted()

	m := appModel{
		cfg:       cfg,
		deps:      d,
		timer:     timer,
		focus:     focusNames,
		creator:   newCreatorModel(d, timer, cfg.UnlockDelay, cfg.SelectDelay),
		selection: newSelectionModel(d),
		tasks:     newTaskListModel(d),
		spinner:   sp,
		keys:      defaultKeyMap(),
		help:      help.New(),
	}
	m.initCmd = m.selection.Init()
	return m
}

// taskRow is one line of the task pane: a category header (cell < 0) or a
// task inside an expanded category.
type taskRow struct {
	cat  int
	cell int
}

func (m appModel) taskRows() []taskRow {
	var rows []taskRow
	for ci, c := range m.tasks.categories {
		rows = append(rows, taskRow{cat: ci, cell: -1})
		if !c.expanded {
			continue
		}
		for i := range c.cells {
			rows = append(rows, taskRow{cat: ci, cell: i})
		}
	}
	return rows
}

func (m *appModel) clampCursor() {
	n := len(m.taskRows())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
