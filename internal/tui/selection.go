package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// selectionModel holds the known names and the single current selection.
//
// current is what the selector displays; propagated is what listeners were
// last told. Refresh may move current without touching propagated.
type selectionModel struct {
	deps deps

	names      []string
	current    string
	propagated string

	loaded bool
	err    error

	// fetchSeq tags NameList fetches; only the latest one is applied.
	fetchSeq int
	// gen counts propagated changes.
	gen int
}

func newSelectionModel(d deps) selectionModel {
	return selectionModel{deps: d}
}

func (s selectionModel) Current() string    { return s.current }
func (s selectionModel) Propagated() string { return s.propagated }
func (s selectionModel) Names() []string    { return s.names }

// Init fetches the NameList once and auto-selects its first entry.
func (s *selectionModel) Init() tea.Cmd {
	return s.fetchNames(namesInit, "")
}

// Refresh re-fetches the NameList and, once it arrives, displays forName.
// It does not announce a selection change.
func (s *selectionModel) Refresh(forName string) tea.Cmd {
	return s.fetchNames(namesRefresh, forName)
}

// SelectName makes name the current and propagated selection and announces it.
func (s *selectionModel) SelectName(name string) tea.Cmd {
	s.current = name
	s.propagated = name
	s.gen++
	ev := selectionChangedMsg{gen: s.gen, name: name}
	return func() tea.Msg { return ev }
}

// Step moves the selection by delta through the NameList, wrapping.
func (s *selectionModel) Step(delta int) tea.Cmd {
	n := len(s.names)
	if n == 0 {
		return nil
	}
	i := indexOf(s.names, s.current)
	switch {
	case i < 0 && delta > 0:
		i = 0
	case i < 0:
		i = n - 1
	default:
		i = ((i+delta)%n + n) % n
	}
	if s.names[i] == s.propagated && s.names[i] == s.current {
		return nil
	}
	return s.SelectName(s.names[i])
}

func (s *selectionModel) fetchNames(purpose namesPurpose, forName string) tea.Cmd {
	s.fetchSeq++
	seq := s.fetchSeq
	store := s.deps.store
	return s.deps.call(func(ctx context.Context) tea.Msg {
		names, err := store.Names(ctx)
		return namesLoadedMsg{seq: seq, purpose: purpose, forName: forName, names: names, err: err}
	})
}

// applyNames folds a NameList result in. A failed or superseded fetch leaves
// the selection untouched.
func (s *selectionModel) applyNames(msg namesLoadedMsg) tea.Cmd {
	if msg.seq != s.fetchSeq {
		s.deps.logger.Debug("dropping stale names", "seq", msg.seq, "latest", s.fetchSeq)
		return nil
	}
	if msg.err != nil {
		s.err = msg.err
		s.deps.logger.Warn("names fetch failed", "err", msg.err)
		return nil
	}
	s.err = nil
	s.loaded = true
	s.names = append([]string(nil), msg.names...)

	switch msg.purpose {
	case namesRefresh:
		s.current = msg.forName
		return nil
	default:
		// Someone already chose a user while the first fetch was in flight.
		if s.propagated != "" {
			return nil
		}
		if len(s.names) == 0 {
			s.current = ""
			return nil
		}
		return s.SelectName(s.names[0])
	}
}

func indexOf(xs []string, x string) int {
	for i, v := range xs {
		if v == x {
			return i
		}
	}
	return -1
}
