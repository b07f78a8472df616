package tui

import (
	"context"

	"checklist-cli/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

// toggleCell shows one task's checkbox. It fetches its own state and never
// guesses: the displayed checked value only changes when the store answers.
type toggleCell struct {
	// mount is unique for the life of the app, so answers addressed to a
	// dropped cell can never land on a new one.
	mount int
	id    model.TaskID

	// idEpoch changes with the identifier; seq with every request issued.
	idEpoch int
	seq     int

	name     string
	checked  bool
	loaded   bool
	toggling bool
	err      error
}

func newToggleCell(mount int, id model.TaskID) toggleCell {
	return toggleCell{mount: mount, id: id}
}

// Mount fetches the task's current name and checked state.
func (c *toggleCell) Mount(d deps) tea.Cmd {
	c.seq++
	mount, idEpoch, seq, id := c.mount, c.idEpoch, c.seq, c.id
	return d.call(func(ctx context.Context) tea.Msg {
		t, err := d.store.Task(ctx, id)
		return cellLoadedMsg{mount: mount, idEpoch: idEpoch, seq: seq, id: id, task: t, err: err}
	})
}

// SetID retargets the cell. In-flight answers for the old id are discarded
// and the cell starts over from the placeholder state.
func (c *toggleCell) SetID(d deps, id model.TaskID) tea.Cmd {
	if id == c.id {
		return nil
	}
	c.id = id
	c.idEpoch++
	c.name = ""
	c.checked = false
	c.loaded = false
	c.toggling = false
	c.err = nil
	return c.Mount(d)
}

// Toggle sends the inverse of the displayed value.
func (c *toggleCell) Toggle(d deps) tea.Cmd {
	c.seq++
	c.toggling = true
	want := !c.checked
	mount, idEpoch, seq, id := c.mount, c.idEpoch, c.seq, c.id
	d.logger.Debug("toggle", "id", id, "want", want)
	return d.call(func(ctx context.Context) tea.Msg {
		t, err := d.store.SetChecked(ctx, id, want)
		return cellToggledMsg{mount: mount, idEpoch: idEpoch, seq: seq, id: id, task: t, err: err}
	})
}

// applyLoaded reports whether msg belonged to this cell's current id.
// The checked value is only taken when no newer request was issued since.
func (c *toggleCell) applyLoaded(msg cellLoadedMsg) bool {
	if msg.mount != c.mount || msg.idEpoch != c.idEpoch || msg.id != c.id {
		return false
	}
	if msg.err != nil {
		c.err = msg.err
		return true
	}
	c.err = nil
	c.name = msg.task.Name
	c.loaded = true
	if msg.seq == c.seq {
		c.checked = msg.task.Checked
	}
	return true
}

// applyToggled takes the store's answer verbatim, but only for the latest toggle.
func (c *toggleCell) applyToggled(msg cellToggledMsg) bool {
	if msg.mount != c.mount || msg.idEpoch != c.idEpoch || msg.id != c.id {
		return false
	}
	if msg.seq != c.seq {
		return true
	}
	c.toggling = false
	if msg.err != nil {
		c.err = msg.err
		return true
	}
	c.err = nil
	c.checked = msg.task.Checked
	if msg.task.Name != "" {
		c.name = msg.task.Name
	}
	return true
}
