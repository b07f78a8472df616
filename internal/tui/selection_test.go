package tui

import (
	"errors"
	"testing"

	"checklist-cli/internal/model"
)

func TestInit_AutoSelectsFirstName(t *testing.T) {
	store := newFakeStore()
	store.names = []string{"alice", "bob"}
	store.addUser("alice", model.Task{ID: "1", Name: "milk", Category: "x"})
	store.addUser("bob")
	h := newHarness(t, store, nil)

	h.start()

	if got := h.m.selection.Propagated(); got != "alice" {
		t.Fatalf("expected alice to be selected, got %q", got)
	}
	if got := h.m.tasks.Name(); got != "alice" {
		t.Fatalf("expected task list to follow alice, got %q", got)
	}
	if got := store.count("names"); got != 1 {
		t.Fatalf("expected exactly one names fetch, got %d", got)
	}
	if got := groupingKeys(h.m); len(got) != 1 || got[0] != "x" {
		t.Fatalf("unexpected grouping keys: %v", got)
	}
}

func TestInit_EmptyNameListLeavesSelectionEmpty(t *testing.T) {
	store := newFakeStore()
	h := newHarness(t, store, nil)

	h.start()

	if got := h.m.selection.Current(); got != "" {
		t.Fatalf("expected empty selection, got %q", got)
	}
	if got := h.m.tasks.Name(); got != "" {
		t.Fatalf("expected empty task list name, got %q", got)
	}
	for _, c := range store.calls {
		if c != "names" {
			t.Fatalf("unexpected remote call %q", c)
		}
	}
}

func TestInit_NamesFailureKeepsSelectionAndReportsError(t *testing.T) {
	store := newFakeStore()
	store.namesErr = errors.New("boom")
	h := newHarness(t, store, nil)

	h.start()

	if h.m.selection.err == nil {
		t.Fatalf("expected names error to be recorded")
	}
	if h.m.selection.Current() != "" || h.m.selection.Propagated() != "" {
		t.Fatalf("expected selection to stay empty")
	}
	if !h.m.statusErr || h.m.status == "" {
		t.Fatalf("expected an error status, got %q", h.m.status)
	}
}

func TestRefresh_UpdatesDisplayedValueWithoutPropagating(t *testing.T) {
	store := newFakeStore()
	store.names = []string{"alice", "bob"}
	store.addUser("alice")
	store.addUser("bob")
	h := newHarness(t, store, nil)
	h.start()

	h.settle(collect(h.m.selection.Refresh("bob"))...)

	if got := h.m.selection.Current(); got != "bob" {
		t.Fatalf("expected displayed value bob, got %q", got)
	}
	if got := h.m.selection.Propagated(); got != "alice" {
		t.Fatalf("expected propagated value to stay alice, got %q", got)
	}
	if got := store.count("tasks bob"); got != 0 {
		t.Fatalf("refresh must not trigger a task fetch, got %d", got)
	}
}

func TestStaleNamesFetchIsDropped(t *testing.T) {
	store := newFakeStore()
	store.names = []string{"alice"}
	h := newHarness(t, store, nil)

	first := collect(h.m.selection.Refresh("alice"))
	store.names = []string{"alice", "bob"}
	second := collect(h.m.selection.Refresh("bob"))

	h.settle(second...)
	h.settle(first...)

	if got := h.m.selection.Names(); len(got) != 2 {
		t.Fatalf("expected the newer name list to win, got %v", got)
	}
	if got := h.m.selection.Current(); got != "bob" {
		t.Fatalf("expected bob, got %q", got)
	}
}

func TestStepKeysCycleAndSelect(t *testing.T) {
	store := newFakeStore()
	store.names = []string{"alice", "bob"}
	store.addUser("alice")
	store.addUser("bob")
	h := newHarness(t, store, nil)
	h.start()

	h.settle(keyRunes("l"))
	if got := h.m.tasks.Name(); got != "bob" {
		t.Fatalf("expected bob after l, got %q", got)
	}
	h.settle(keyRunes("l"))
	if got := h.m.tasks.Name(); got != "alice" {
		t.Fatalf("expected wrap to alice, got %q", got)
	}
	if got := store.count("tasks alice"); got != 2 {
		t.Fatalf("expected alice fetched once per selection, got %d", got)
	}
}

func TestOutOfOrderSelectionEventsKeepLatest(t *testing.T) {
	store := newFakeStore()
	store.addUser("alice")
	store.addUser("bob")
	h := newHarness(t, store, nil)

	toAlice := collect(h.m.selection.SelectName("alice"))
	toBob := collect(h.m.selection.SelectName("bob"))

	h.settle(toBob...)
	h.settle(toAlice...)

	if got := h.m.tasks.Name(); got != "bob" {
		t.Fatalf("expected bob to win, got %q", got)
	}
	if got := store.count("tasks alice"); got != 0 {
		t.Fatalf("superseded selection must not fetch, got %d", got)
	}
}
