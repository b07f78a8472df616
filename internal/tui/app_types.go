package tui

import (
	"checklist-cli/internal/model"
)

type focusArea int

const (
	focusCreate focusArea = iota
	focusNames
	focusTasks
)

func (f focusArea) next() focusArea {
	return (f + 1) % 3
}

func (f focusArea) prev() focusArea {
	return (f + 2) % 3
}

func focusToString(f focusArea) string {
	switch f {
	case focusCreate:
		return "create"
	case focusNames:
		return "names"
	case focusTasks:
		return "tasks"
	default:
		return "?"
	}
}

type namesPurpose int

const (
	namesInit namesPurpose = iota
	namesRefresh
)

// namesLoadedMsg answers one NameList fetch. seq is the selection's fetch
// generation when the request was issued.
type namesLoadedMsg struct {
	seq     int
	purpose namesPurpose
	forName string
	names   []string
	err     error
}

// selectionChangedMsg is emitted by the selection whenever the propagated
// selection changes. gen lets the app ignore events overtaken by a newer one.
type selectionChangedMsg struct {
	gen  int
	name string
}

// tasksLoadedMsg answers a user task fetch issued at epoch for name.
type tasksLoadedMsg struct {
	epoch int
	name  string
	tasks []model.Task
	err   error
}

// cellLoadedMsg answers a ToggleCell's task fetch.
type cellLoadedMsg struct {
	mount   int
	idEpoch int
	seq     int
	id      model.TaskID
	task    model.Task
	err     error
}

// cellToggledMsg answers a ToggleCell's update request.
type cellToggledMsg struct {
	mount   int
	idEpoch int
	seq     int
	id      model.TaskID
	task    model.Task
	err     error
}

// userCreatedMsg is emitted when a create-user request completes, whatever
// its outcome.
type userCreatedMsg struct {
	seq  int
	name string
	err  error
}

// selectNameMsg asks the app to select a created name after a fixed delay.
// A fallback one is dropped once the create request for seq has answered.
type selectNameMsg struct {
	seq      int
	name     string
	fallback bool
}

type unlockMsg struct{ seq int }

type statusClearMsg struct{ seq int }
