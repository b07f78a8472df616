package tui

import (
	"checklist-cli/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

// categoryModel is one bucket of the grouping. expanded only drives
// disclosure in the view; tasks always mirrors the input.
type categoryModel struct {
	name     string
	expanded bool
	input    []model.Task
	tasks    []model.Task
	cells    []toggleCell
}

func newCategoryModel(name string, expanded bool) categoryModel {
	return categoryModel{name: name, expanded: expanded}
}

func (c *categoryModel) SetTasks(tasks []model.Task) {
	c.input = tasks
	c.derive()
}

func (c *categoryModel) ToggleExpanded() {
	c.expanded = !c.expanded
	c.derive()
}

// Tasks is the visible task list.
func (c categoryModel) Tasks() []model.Task { return c.tasks }

func (c *categoryModel) derive() {
	c.tasks = append([]model.Task(nil), c.input...)
}

// reconcileCells lines cells up with the visible tasks by position: a
// surviving cell whose task changed is retargeted, extra tasks get new cells,
// and cells past the end are dropped. remount discards every existing cell.
func (c *categoryModel) reconcileCells(d deps, nextMount func() int, remount bool) []tea.Cmd {
	var cmds []tea.Cmd
	if remount {
		c.cells = nil
	}
	if len(c.cells) > len(c.tasks) {
		c.cells = c.cells[:len(c.tasks)]
	}
	for i, t := range c.tasks {
		if i < len(c.cells) {
			if cmd := c.cells[i].SetID(d, t.ID); cmd != nil {
				cmds = append(cmds, cmd)
			}
			continue
		}
		cell := newToggleCell(nextMount(), t.ID)
		cmds = append(cmds, cell.Mount(d))
		c.cells = append(c.cells, cell)
	}
	return cmds
}

func (c categoryModel) checkedCount() int {
	n := 0
	for _, cell := range c.cells {
		if cell.checked {
			n++
		}
	}
	return n
}
