package tui

import (
	"context"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// fallbackSelectDelay selects a created user even when the create request
// has not answered yet; an unbounded request must not strand the selection.
const fallbackSelectDelay = 700 * time.Millisecond

// creatorModel is the "create user" form. After a submit the create control
// stays hidden for unlockDelay; the newest submit owns the unlock.
type creatorModel struct {
	deps  deps
	timer timerFunc

	input textinput.Model

	unlockDelay time.Duration
	selectDelay time.Duration

	locked  bool
	lockSeq int
	// inflight maps a submit's seq to its name until the create answers.
	inflight map[int]string
}

func newCreatorModel(d deps, timer timerFunc, unlockDelay, selectDelay time.Duration) creatorModel {
	ti := textinput.New()
	ti.Placeholder = "new user name"
	ti.Prompt = "> "
	ti.CharLimit = 64
	return creatorModel{
		deps:        d,
		timer:       timer,
		input:       ti,
		unlockDelay: unlockDelay,
		selectDelay: selectDelay,
		inflight:    map[int]string{},
	}
}

func (c creatorModel) Locked() bool { return c.locked }

func (c creatorModel) Value() string { return c.input.Value() }

// Pending reports whether the create issued by submit seq is still running.
func (c creatorModel) Pending(seq int) bool {
	_, ok := c.inflight[seq]
	return ok
}

// PendingNames lists the names whose create request is still running, oldest first.
func (c creatorModel) PendingNames() []string {
	seqs := make([]int, 0, len(c.inflight))
	for seq := range c.inflight {
		seqs = append(seqs, seq)
	}
	sort.Ints(seqs)
	out := make([]string, 0, len(seqs))
	for _, seq := range seqs {
		out = append(out, c.inflight[seq])
	}
	return out
}

// Submit creates the typed user. An empty name does nothing at all.
//
// The create request runs in the background and always reports back with a
// userCreatedMsg. A selectNameMsg is also scheduled: after selectDelay when
// set, regardless of how the request fares; otherwise after
// fallbackSelectDelay, applied only if the request is still running then.
func (c *creatorModel) Submit() tea.Cmd {
	name := c.input.Value()
	if name == "" {
		return nil
	}
	c.input.SetValue("")
	c.locked = true
	c.lockSeq++
	seq := c.lockSeq
	c.inflight[seq] = name

	store := c.deps.store
	c.deps.logger.Info("create user", "name", name, "seq", seq)
	cmds := []tea.Cmd{
		c.deps.call(func(ctx context.Context) tea.Msg {
			return userCreatedMsg{seq: seq, name: name, err: store.CreateUser(ctx, name)}
		}),
		c.timer(c.unlockDelay, unlockMsg{seq: seq}),
	}
	if c.selectDelay > 0 {
		cmds = append(cmds, c.timer(c.selectDelay, selectNameMsg{seq: seq, name: name}))
	} else {
		cmds = append(cmds, c.timer(fallbackSelectDelay, selectNameMsg{seq: seq, name: name, fallback: true}))
	}
	return tea.Batch(cmds...)
}

func (c *creatorModel) applyUnlock(msg unlockMsg) {
	if msg.seq == c.lockSeq {
		c.locked = false
	}
}

func (c *creatorModel) applyCreated(msg userCreatedMsg) {
	delete(c.inflight, msg.seq)
	if msg.err != nil {
		c.deps.logger.Warn("create user failed", "name", msg.name, "err", msg.err)
	}
}

func (c *creatorModel) Focus() tea.Cmd { return c.input.Focus() }

func (c *creatorModel) Blur() { c.input.Blur() }

func (c *creatorModel) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return cmd
}
