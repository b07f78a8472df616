package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	submit    key.Binding
	nextFocus key.Binding
	prevFocus key.Binding
	prevName  key.Binding
	nextName  key.Binding
	up        key.Binding
	down      key.Binding
	activate  key.Binding
	reload    key.Binding
	help      key.Binding
	back      key.Binding
	quit      key.Binding
	forceQuit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "create")),
		nextFocus: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next pane")),
		prevFocus: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev pane")),
		prevName:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev user")),
		nextName:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next user")),
		up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		activate:  key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter/space", "toggle")),
		reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		forceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// keysFor is the short help shown for the focused pane.
type keysFor struct {
	km    keyMap
	focus focusArea
}

func (k keysFor) ShortHelp() []key.Binding {
	switch k.focus {
	case focusCreate:
		return []key.Binding{k.km.submit, k.km.nextFocus, k.km.back}
	case focusNames:
		return []key.Binding{k.km.prevName, k.km.nextName, k.km.reload, k.km.nextFocus, k.km.help, k.km.quit}
	default:
		return []key.Binding{k.km.up, k.km.down, k.km.activate, k.km.reload, k.km.nextFocus, k.km.help, k.km.quit}
	}
}

func (k keysFor) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.km.nextFocus, k.km.prevFocus, k.km.help, k.km.quit},
		{k.km.prevName, k.km.nextName, k.km.reload},
		{k.km.up, k.km.down, k.km.activate},
	}
}
