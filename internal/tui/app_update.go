package tui

import (
	"fmt"

	"checklist-cli/internal/remote"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.initCmd, m.spinner.Tick)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case namesLoadedMsg:
		cmd := m.selection.applyNames(msg)
		if msg.err != nil && msg.seq == m.selection.fetchSeq {
			return m, tea.Batch(cmd, m.setStatus("users: "+describeErr(msg.err), true))
		}
		return m, cmd

	case selectionChangedMsg:
		// Selection events run as separate commands and may arrive out of
		// order; only the latest generation reaches the task list.
		if msg.gen != m.selection.gen {
			m.deps.logger.Debug("dropping superseded selection", "name", msg.name, "gen", msg.gen)
			return m, nil
		}
		prev := m.tasks.Name()
		cmd := m.tasks.SetName(msg.name)
		if prev != m.tasks.Name() {
			m.cursor = 0
		}
		return m, cmd

	case tasksLoadedMsg:
		cmd := m.tasks.applyLoaded(msg)
		m.clampCursor()
		if msg.err != nil && msg.epoch == m.tasks.epoch {
			return m, tea.Batch(cmd, m.setStatus("tasks: "+describeErr(msg.err), true))
		}
		return m, cmd

	case cellLoadedMsg:
		m.tasks.applyCellLoaded(msg)
		return m, nil

	case cellToggledMsg:
		m.tasks.applyCellToggled(msg)
		if msg.err != nil {
			return m, m.setStatus(fmt.Sprintf("toggle %s: %s", msg.id, describeErr(msg.err)), true)
		}
		return m, nil

	case userCreatedMsg:
		m.creator.applyCreated(msg)
		var cmds []tea.Cmd
		if msg.err != nil {
			cmds = append(cmds, m.setStatus(fmt.Sprintf("create %q: %s", msg.name, describeErr(msg.err)), true))
		} else {
			cmds = append(cmds, m.setStatus(fmt.Sprintf("created %q", msg.name), false))
		}
		if m.cfg.SelectDelay <= 0 {
			cmds = append(cmds, m.selectCreated(msg.name))
		}
		return m, tea.Batch(cmds...)

	case selectNameMsg:
		if msg.fallback && !m.creator.Pending(msg.seq) {
			return m, nil
		}
		return m, m.selectCreated(msg.name)

	case unlockMsg:
		m.creator.applyUnlock(msg)
		return m, nil

	case statusClearMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
			m.statusErr = false
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	if m.focus == focusCreate {
		return m, m.creator.Update(msg)
	}
	return m, nil
}

// selectCreated makes a freshly created user the selection and reloads the
// name list so it appears in the selector.
func (m *appModel) selectCreated(name string) tea.Cmd {
	return tea.Batch(m.selection.SelectName(name), m.selection.Refresh(name))
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.forceQuit) {
		return m, tea.Quit
	}

	if m.showHelp {
		if key.Matches(msg, m.keys.help, m.keys.back, m.keys.quit) {
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.nextFocus):
		return m, m.setFocus(m.focus.next())
	case key.Matches(msg, m.keys.prevFocus):
		return m, m.setFocus(m.focus.prev())
	}

	if m.focus == focusCreate {
		switch {
		case key.Matches(msg, m.keys.submit):
			return m, m.creator.Submit()
		case key.Matches(msg, m.keys.back):
			return m, m.setFocus(focusNames)
		}
		return m, m.creator.Update(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.reload):
		return m, m.tasks.Reload()
	}

	switch m.focus {
	case focusNames:
		switch {
		case key.Matches(msg, m.keys.prevName):
			return m, m.selection.Step(-1)
		case key.Matches(msg, m.keys.nextName):
			return m, m.selection.Step(1)
		case key.Matches(msg, m.keys.down):
			return m, m.setFocus(focusTasks)
		}
	case focusTasks:
		rows := m.taskRows()
		switch {
		case key.Matches(msg, m.keys.up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.down):
			if m.cursor < len(rows)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.prevName):
			return m, m.selection.Step(-1)
		case key.Matches(msg, m.keys.nextName):
			return m, m.selection.Step(1)
		case key.Matches(msg, m.keys.activate):
			return m, m.activateRow(rows)
		}
	}
	return m, nil
}

// activateRow expands or collapses a category header, or toggles a task.
func (m *appModel) activateRow(rows []taskRow) tea.Cmd {
	if m.cursor < 0 || m.cursor >= len(rows) {
		return nil
	}
	r := rows[m.cursor]
	c := &m.tasks.categories[r.cat]
	if r.cell < 0 {
		c.ToggleExpanded()
		return nil
	}
	return c.cells[r.cell].Toggle(m.deps)
}

func (m *appModel) setFocus(f focusArea) tea.Cmd {
	if f == m.focus {
		return nil
	}
	m.deps.logger.Debug("focus", "from", focusToString(m.focus), "to", focusToString(f))
	m.focus = f
	if f == focusCreate {
		return m.creator.Focus()
	}
	m.creator.Blur()
	return nil
}

func (m *appModel) setStatus(text string, isErr bool) tea.Cmd {
	m.statusSeq++
	m.status = text
	m.statusErr = isErr
	return m.timer(statusTTL, statusClearMsg{seq: m.statusSeq})
}

func describeErr(err error) string {
	if remote.IsTimeout(err) {
		return "timed out"
	}
	switch remote.Kind(err) {
	case "transport":
		return "server unreachable"
	case "malformed":
		return "unexpected response"
	}
	if remote.IsNotFound(err) {
		return "not found"
	}
	return err.Error()
}
