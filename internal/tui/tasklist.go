package tui

import (
	"context"

	"checklist-cli/internal/grouping"
	"checklist-cli/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

// taskListModel follows the selection: it fetches the selected user's tasks
// and rebuilds the grouping from them. Each fetch is tagged with the epoch at
// request time; answers from older epochs are dropped.
type taskListModel struct {
	deps deps

	name    string
	epoch   int
	loading bool
	loaded  bool
	err     error

	index      *grouping.Index[string, model.Task]
	categories []categoryModel

	mountSeq int
	// remount makes the next applied fetch replace every cell.
	remount bool
}

func newTaskListModel(d deps) taskListModel {
	return taskListModel{deps: d, index: grouping.Empty[string, model.Task]()}
}

func (t taskListModel) Name() string { return t.name }

// SetName reacts to a selection change.
func (t *taskListModel) SetName(name string) tea.Cmd {
	if name == "" {
		t.epoch++
		t.name = ""
		t.loading = false
		t.loaded = false
		t.err = nil
		t.remount = false
		t.setGrouping(nil, true)
		return nil
	}
	if name == t.name && (t.loading || (t.loaded && t.err == nil)) {
		return nil
	}
	t.name = name
	t.loaded = false
	t.remount = false
	return t.fetch()
}

// Reload re-fetches the current user's tasks and remounts every cell.
func (t *taskListModel) Reload() tea.Cmd {
	if t.name == "" {
		return nil
	}
	t.remount = true
	return t.fetch()
}

func (t *taskListModel) fetch() tea.Cmd {
	t.epoch++
	t.loading = true
	t.err = nil
	epoch, name, store := t.epoch, t.name, t.deps.store
	t.deps.logger.Debug("fetch tasks", "name", name, "epoch", epoch)
	return t.deps.call(func(ctx context.Context) tea.Msg {
		tasks, err := store.UserTasks(ctx, name)
		return tasksLoadedMsg{epoch: epoch, name: name, tasks: tasks, err: err}
	})
}

func (t *taskListModel) applyLoaded(msg tasksLoadedMsg) tea.Cmd {
	if msg.epoch != t.epoch || msg.name != t.name {
		t.deps.logger.Debug("dropping stale tasks", "name", msg.name, "epoch", msg.epoch, "latest", t.epoch)
		return nil
	}
	t.loading = false
	if msg.err != nil {
		t.err = msg.err
		t.deps.logger.Warn("tasks fetch failed", "name", msg.name, "err", msg.err)
		return nil
	}
	t.err = nil
	t.loaded = true
	remount := t.remount
	t.remount = false
	return t.setGrouping(msg.tasks, remount)
}

// setGrouping rebuilds the index in full and reconciles categories by name,
// keeping each category's expansion flag.
func (t *taskListModel) setGrouping(tasks []model.Task, remount bool) tea.Cmd {
	t.index = grouping.Group(tasks, model.CategoryOf)

	prev := map[string]categoryModel{}
	for _, c := range t.categories {
		prev[c.name] = c
	}
	next := make([]categoryModel, 0, t.index.Len())
	var cmds []tea.Cmd
	t.index.Each(func(name string, items []model.Task) {
		c, ok := prev[name]
		if !ok {
			c = newCategoryModel(name, false)
		}
		c.SetTasks(items)
		cmds = append(cmds, c.reconcileCells(t.deps, t.nextMount, remount)...)
		next = append(next, c)
	})
	t.categories = next
	return tea.Batch(cmds...)
}

func (t *taskListModel) nextMount() int {
	t.mountSeq++
	return t.mountSeq
}

func (t *taskListModel) applyCellLoaded(msg cellLoadedMsg) {
	for ci := range t.categories {
		cells := t.categories[ci].cells
		for i := range cells {
			if cells[i].mount == msg.mount {
				if !cells[i].applyLoaded(msg) {
					t.deps.logger.Debug("dropping stale cell fetch", "mount", msg.mount, "id", msg.id)
				}
				return
			}
		}
	}
}

func (t *taskListModel) applyCellToggled(msg cellToggledMsg) {
	for ci := range t.categories {
		cells := t.categories[ci].cells
		for i := range cells {
			if cells[i].mount == msg.mount {
				if !cells[i].applyToggled(msg) {
					t.deps.logger.Debug("dropping stale toggle", "mount", msg.mount, "id", msg.id)
				}
				return
			}
		}
	}
}

// Grouping is the current category → tasks view (tests and CLI share it).
func (t taskListModel) Grouping() *grouping.Index[string, model.Task] {
	return t.index
}
