package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

const defaultWidth = 80

func (m appModel) View() string {
	w := m.width
	if w <= 0 {
		w = defaultWidth
	}
	if m.showHelp {
		return renderMarkdown(helpMarkdown(), w-2)
	}

	inner := w - 4
	var b strings.Builder
	b.WriteString(styleTitle().Render("checklist"))
	if m.cfg.BaseURL != "" {
		b.WriteString(" " + styleMuted().Render(m.cfg.BaseURL))
	}
	b.WriteString("\n")
	b.WriteString(stylePane(m.focus == focusCreate).Width(inner).Render(m.viewCreator(inner)))
	b.WriteString("\n")
	b.WriteString(stylePane(m.focus == focusNames).Width(inner).Render(m.viewNames(inner)))
	b.WriteString("\n")
	b.WriteString(stylePane(m.focus == focusTasks).Width(inner).Render(m.viewTasks(inner)))
	b.WriteString("\n")
	b.WriteString(m.viewStatus(w))
	b.WriteString("\n")
	b.WriteString(m.help.View(keysFor{km: m.keys, focus: m.focus}))
	return b.String()
}

func (m appModel) viewCreator(width int) string {
	head := styleHeading(m.focus == focusCreate).Render("New user")
	line := m.creator.input.View()
	if !m.creator.Locked() {
		line += "  " + styleMuted().Render("[enter] create")
	}
	out := head + "\n" + xansi.Truncate(line, width, "…")
	if pending := m.creator.PendingNames(); len(pending) > 0 {
		status := m.spinner.View() + " creating " + strings.Join(pending, ", ")
		out += "\n" + styleMuted().Render(xansi.Truncate(status, width, "…"))
	}
	return out
}

func (m appModel) viewNames(width int) string {
	head := styleHeading(m.focus == focusNames).Render("User")
	s := m.selection
	var line string
	switch {
	case !s.loaded && s.err == nil:
		line = m.spinner.View() + " Loading…"
	case len(s.names) == 0 && s.current == "":
		line = styleMuted().Render("no users yet")
	default:
		line = renderNameStrip(s.names, s.current)
	}
	if s.err != nil {
		line += "  " + styleError().Render("! "+describeErr(s.err))
	}
	return head + "\n" + xansi.Truncate(line, width, "…")
}

// renderNameStrip shows every name with the current one highlighted. A
// current value missing from the list (a refresh not yet landed) is shown
// on its own.
func renderNameStrip(names []string, current string) string {
	parts := make([]string, 0, len(names)+1)
	found := false
	for _, n := range names {
		if n == current {
			found = true
			parts = append(parts, styleSelected().Render(" "+n+" "))
			continue
		}
		parts = append(parts, " "+n+" ")
	}
	if !found && current != "" {
		parts = append(parts, styleSelected().Render(" "+current+" "))
	}
	return "‹" + strings.Join(parts, "") + "›"
}

func (m appModel) viewTasks(width int) string {
	t := m.tasks
	title := "Tasks"
	if t.name != "" {
		title = "Tasks for " + t.name
	}
	head := styleHeading(m.focus == focusTasks).Render(title)
	if t.loading {
		head += " " + m.spinner.View()
	}
	lines := []string{head}
	if t.err != nil {
		lines = append(lines, styleError().Render("! "+describeErr(t.err)))
	}
	if t.name == "" {
		lines = append(lines, styleMuted().Render("select a user"))
		return strings.Join(lines, "\n")
	}
	if t.loaded && len(t.categories) == 0 {
		lines = append(lines, styleMuted().Render("no tasks"))
	}

	for i, r := range m.taskRows() {
		c := t.categories[r.cat]
		var line string
		if r.cell < 0 {
			marker := "▸"
			if c.expanded {
				marker = "▾"
			}
			line = fmt.Sprintf("%s %s %s", marker, c.name,
				styleMuted().Render(fmt.Sprintf("%d/%d", c.checkedCount(), len(c.cells))))
		} else {
			line = "  " + m.viewCell(c.cells[r.cell])
		}
		line = xansi.Truncate(line, width, "…")
		if m.focus == focusTasks && i == m.cursor {
			line = styleSelected().Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m appModel) viewCell(c toggleCell) string {
	box := "[ ]"
	if c.checked {
		box = styleChecked().Render("[x]")
	}
	name := c.name
	if !c.loaded {
		name = m.spinner.View()
		if c.name == "" {
			name += " " + styleMuted().Render(c.id.String())
		}
	}
	if c.toggling {
		name += " " + m.spinner.View()
	}
	if c.err != nil {
		name += " " + styleError().Render("!")
	}
	return box + " " + name
}

func (m appModel) viewStatus(width int) string {
	if m.status == "" {
		return ""
	}
	st := lipgloss.NewStyle()
	if m.statusErr {
		st = styleError()
	}
	return st.Render(xansi.Truncate(m.status, width, "…"))
}
