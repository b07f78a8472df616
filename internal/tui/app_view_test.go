package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"checklist-cli/internal/model"
	"checklist-cli/internal/remote"

	tea "github.com/charmbracelet/bubbletea"
)

func TestView_ShowsSelectionCategoriesAndCells(t *testing.T) {
	store := newFakeStore()
	store.names = []string{"alice", "bob"}
	store.addUser("alice",
		model.Task{ID: "1", Name: "milk", Category: "dairy", Checked: true},
		model.Task{ID: "2", Name: "bread", Category: "bakery"},
	)
	h := newHarness(t, store, nil)
	h.start()
	h.settle(tea.WindowSizeMsg{Width: 100, Height: 40})

	out := h.m.View()
	for _, want := range []string{"alice", "bob", "Tasks for alice", "▸ dairy", "▸ bakery", "1/1", "0/1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected view to contain %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "milk") {
		t.Fatalf("collapsed categories must not list their tasks:\n%s", out)
	}

	h.m.focus = focusTasks
	h.settle(keyRunes(" "))
	out = h.m.View()
	if !strings.Contains(out, "▾ dairy") || !strings.Contains(out, "[x] milk") {
		t.Fatalf("expected expanded dairy with a checked milk:\n%s", out)
	}
}

func TestView_LockedCreatorHidesSubmitHint(t *testing.T) {
	h := newHarness(t, newFakeStore(), nil)
	h.start()

	if !strings.Contains(h.m.View(), "[enter] create") {
		t.Fatalf("expected submit hint while unlocked")
	}
	submit(h, "carol")
	if strings.Contains(h.m.View(), "[enter] create") {
		t.Fatalf("expected submit hint hidden while locked")
	}
}

func TestView_HelpOverlayToggles(t *testing.T) {
	h := newHarness(t, newFakeStore(), nil)
	h.start()

	h.settle(keyRunes("?"))
	if !h.m.showHelp {
		t.Fatalf("expected help overlay")
	}
	if strings.TrimSpace(h.m.View()) == "" {
		t.Fatalf("expected help content")
	}
	h.settle(tea.KeyMsg{Type: tea.KeyEsc})
	if h.m.showHelp {
		t.Fatalf("expected esc to close help")
	}
}

func TestDescribeErr(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{&remote.TransportError{Op: "names", Err: context.DeadlineExceeded}, "timed out"},
		{&remote.TransportError{Op: "names", Err: errors.New("connection refused")}, "server unreachable"},
		{&remote.MalformedError{Op: "names", Err: errors.New("names: missing")}, "unexpected response"},
		{&remote.StatusError{Op: "task", Code: 404}, "not found"},
	}
	for _, tc := range cases {
		if got := describeErr(tc.err); got != tc.want {
			t.Fatalf("describeErr(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
