package tui

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"checklist-cli/internal/logging"
	"checklist-cli/internal/model"
	"checklist-cli/internal/remote"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// fakeStore answers synchronously; tests control ordering by choosing when
// to deliver the produced messages.
type fakeStore struct {
	mu sync.Mutex

	names     []string
	namesErr  error
	tasks     map[string][]model.Task
	tasksErr  map[string]error
	byID      map[model.TaskID]model.Task
	createErr error
	// answer overrides the checked value returned by SetChecked.
	answer map[model.TaskID]bool

	calls []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tasks:    map[string][]model.Task{},
		tasksErr: map[string]error{},
		byID:     map[model.TaskID]model.Task{},
		answer:   map[model.TaskID]bool{},
	}
}

func (f *fakeStore) addUser(name string, tasks ...model.Task) {
	f.tasks[name] = tasks
	for _, t := range tasks {
		f.byID[t.ID] = t
	}
}

func (f *fakeStore) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeStore) count(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeStore) CreateUser(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("create " + name)
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.tasks[name]; !ok {
		f.tasks[name] = nil
		f.names = append(f.names, name)
	}
	return nil
}

func (f *fakeStore) UserTasks(_ context.Context, name string) ([]model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("tasks " + name)
	if err := f.tasksErr[name]; err != nil {
		return nil, err
	}
	ts, ok := f.tasks[name]
	if !ok {
		return nil, &remote.StatusError{Op: "user tasks", Code: 404}
	}
	return append([]model.Task(nil), ts...), nil
}

func (f *fakeStore) Names(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("names")
	if f.namesErr != nil {
		return nil, f.namesErr
	}
	return append([]string(nil), f.names...), nil
}

func (f *fakeStore) Task(_ context.Context, id model.TaskID) (model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("task " + id.String())
	t, ok := f.byID[id]
	if !ok {
		return model.Task{}, &remote.StatusError{Op: "task", Code: 404}
	}
	return t, nil
}

func (f *fakeStore) SetChecked(_ context.Context, id model.TaskID, checked bool) (model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(fmt.Sprintf("set %s %s", id, model.CheckedInput(checked)))
	t, ok := f.byID[id]
	if !ok {
		return model.Task{}, &remote.StatusError{Op: "set checked", Code: 404}
	}
	t.Checked = checked
	if v, ok := f.answer[id]; ok {
		t.Checked = v
	}
	f.byID[id] = t
	return t, nil
}

type timerCall struct {
	d   time.Duration
	msg tea.Msg
}

type harness struct {
	t      *testing.T
	store  *fakeStore
	m      appModel
	timers []timerCall
}

func newHarness(t *testing.T, store *fakeStore, configure func(*Config)) *harness {
	t.Helper()
	cfg := Config{Store: store, Logger: logging.Discard()}
	if configure != nil {
		configure(&cfg)
	}
	h := &harness{t: t, store: store}
	h.m = newAppModelWithTimer(cfg, h.recordTimer)
	return h
}

func (h *harness) recordTimer(d time.Duration, msg tea.Msg) tea.Cmd {
	h.timers = append(h.timers, timerCall{d: d, msg: msg})
	return nil
}

func (h *harness) timersFor(match func(tea.Msg) bool) []timerCall {
	var out []timerCall
	for _, tc := range h.timers {
		if match(tc.msg) {
			out = append(out, tc)
		}
	}
	return out
}

// collect runs cmd and returns the messages it produced, expanding batches.
// Spinner ticks are skipped so the animation never runs in tests.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, collect(c)...)
		}
		return out
	case spinner.TickMsg:
		return nil
	default:
		return []tea.Msg{msg}
	}
}

// send applies one message and returns what its commands produced, without
// delivering them.
func (h *harness) send(msg tea.Msg) []tea.Msg {
	h.t.Helper()
	mm, cmd := h.m.Update(msg)
	h.m = mm.(appModel)
	return collect(cmd)
}

// settle delivers msgs and everything they lead to until nothing is left.
func (h *harness) settle(msgs ...tea.Msg) {
	h.t.Helper()
	queue := append([]tea.Msg(nil), msgs...)
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 1000 {
			h.t.Fatalf("settle did not converge")
		}
		msg := queue[0]
		queue = queue[1:]
		queue = append(queue, h.send(msg)...)
	}
}

func (h *harness) start() {
	h.t.Helper()
	h.settle(collect(h.m.Init())...)
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func groupingKeys(m appModel) []string {
	return m.tasks.Grouping().Keys()
}

func msgsOfType[T any](msgs []tea.Msg) []T {
	var out []T
	for _, msg := range msgs {
		if v, ok := msg.(T); ok {
			out = append(out, v)
		}
	}
	return out
}
