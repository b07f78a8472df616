package cli

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"checklist-cli/internal/grouping"
	"checklist-cli/internal/model"

	"github.com/spf13/cobra"
)

// categoryOut is one bucket of `checklist tasks`, in first-seen order.
type categoryOut struct {
	Category string       `json:"category"`
	Tasks    []model.Task `json:"tasks"`
}

func newNamesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "names",
		Short: "List user names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cfg, closeLog, err := app.client(cmd)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer func() { _ = closeLog() }()

			ctx, cancel := withTimeout(cmd.Context(), cfg.Timeout)
			defer cancel()
			names, err := c.Names(ctx)
			if err != nil {
				return writeErr(cmd, remoteErr(c, "names", "", err))
			}
			if names == nil {
				names = []string{}
			}
			return writeOut(cmd, app, map[string]any{"data": names})
		},
	}
}

func newTasksCmd(app *App) *cobra.Command {
	var flat bool

	cmd := &cobra.Command{
		Use:   "tasks <name>",
		Short: "Show a user's tasks grouped by category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if name == "" {
				return writeErr(cmd, errors.New("tasks: empty user name"))
			}
			c, cfg, closeLog, err := app.client(cmd)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer func() { _ = closeLog() }()

			ctx, cancel := withTimeout(cmd.Context(), cfg.Timeout)
			defer cancel()
			tasks, err := c.UserTasks(ctx, name)
			if err != nil {
				return writeErr(cmd, remoteErr(c, "user", name, err))
			}
			if flat {
				if tasks == nil {
					tasks = []model.Task{}
				}
				return writeOut(cmd, app, map[string]any{"data": tasks})
			}
			return writeOut(cmd, app, map[string]any{"data": groupTasks(tasks)})
		},
	}

	cmd.Flags().BoolVar(&flat, "flat", false, "Print tasks in server order without grouping")
	return cmd
}

func groupTasks(tasks []model.Task) []categoryOut {
	idx := grouping.Group(tasks, model.CategoryOf)
	out := make([]categoryOut, 0, idx.Len())
	idx.Each(func(cat string, items []model.Task) {
		out = append(out, categoryOut{Category: cat, Tasks: items})
	})
	return out
}

func newToggleCmd(app *App) *cobra.Command {
	var set string

	cmd := &cobra.Command{
		Use:   "toggle <task-id>",
		Short: "Flip a task's checked state (or set it with --set)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := model.TaskID(strings.TrimSpace(args[0]))
			if id == "" {
				return writeErr(cmd, errors.New("toggle: empty task id"))
			}
			c, cfg, closeLog, err := app.client(cmd)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer func() { _ = closeLog() }()

			ctx, cancel := withTimeout(cmd.Context(), cfg.Timeout)
			defer cancel()

			var want bool
			if strings.TrimSpace(set) != "" {
				want, err = strconv.ParseBool(strings.TrimSpace(set))
				if err != nil {
					return writeErr(cmd, errors.New("toggle: --set must be true or false"))
				}
			} else {
				cur, err := c.Task(ctx, id)
				if err != nil {
					return writeErr(cmd, remoteErr(c, "task", id.String(), err))
				}
				want = !cur.Checked
			}

			t, err := c.SetChecked(ctx, id, want)
			if err != nil {
				return writeErr(cmd, remoteErr(c, "task", id.String(), err))
			}
			return writeOut(cmd, app, map[string]any{"data": t})
		},
	}

	cmd.Flags().StringVar(&set, "set", "", "Set checked to true|false instead of flipping")
	return cmd
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
