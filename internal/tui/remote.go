package tui

import (
	"context"
	"time"

	"checklist-cli/internal/model"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

// TaskStore is the remote contract the view-model consumes. *remote.Client
// implements it.
type TaskStore interface {
	CreateUser(ctx context.Context, name string) error
	UserTasks(ctx context.Context, name string) ([]model.Task, error)
	Names(ctx context.Context) ([]string, error)
	Task(ctx context.Context, id model.TaskID) (model.Task, error)
	SetChecked(ctx context.Context, id model.TaskID, checked bool) (model.Task, error)
}

// timerFunc schedules msg after d. Production uses tea.Tick; tests record calls.
type timerFunc func(d time.Duration, msg tea.Msg) tea.Cmd

func teaTimer(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}

// deps is what every component needs to talk to the store.
type deps struct {
	store   TaskStore
	timeout time.Duration
	logger  *log.Logger
}

// call runs fn with a bounded context. Only the returned message crosses
// back into Update; fn must not touch model state.
func (d deps) call(fn func(ctx context.Context) tea.Msg) tea.Cmd {
	timeout := d.timeout
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return fn(ctx)
	}
}
