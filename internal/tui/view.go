package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"github.com/todoterm/todoterm/internal/todo"
)

func (m Model) viewLogin() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Sign in"))
	b.WriteString("\n\n")
	b.WriteString(m.userTI.View())
	b.WriteString("\n")
	b.WriteString(m.passTI.View())
	b.WriteString("\n\n")
	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("enter sign in • tab switch field • esc quit"))
	return panelStyle.Render(b.String())
}

func (m Model) viewBoard() string {
	listHeight := m.height - 5
	if m.state != stateList {
		listHeight = m.height - 8
	}
	if listHeight < 3 {
		listHeight = 3
	}
	m.list.SetSize(m.width-4, listHeight)

	var b strings.Builder

	switch {
	case !m.loaded:
		b.WriteString(mutedStyle.Render("loading…"))
		b.WriteString("\n")
	case len(m.list.Items()) == 0 && m.list.FilterState() == list.Unfiltered:
		b.WriteString(titleStyle.Render("Tasks"))
		b.WriteString("\n\n")
		b.WriteString(mutedStyle.Render("No tasks yet — press a to add one"))
		b.WriteString("\n")
	default:
		b.WriteString(m.list.View())
		b.WriteString("\n")
	}

	if m.state != stateList {
		b.WriteString(m.inputBar())
		b.WriteString("\n")
	}

	b.WriteString(m.statusLine())
	return panelStyle.Render(b.String())
}

func (m Model) inputBar() string {
	title := "Add task"
	switch m.state {
	case stateEdit:
		title = "Edit task"
	case stateAttach:
		title = "Attach file"
	}

	var notes []string
	if m.state == stateAdd || m.state == stateAttach && !m.attachForEdit {
		if f := m.syncer.ComposeFile(); f != nil {
			notes = append(notes, attachNote(f))
		}
	}
	if m.state == stateEdit || m.state == stateAttach && m.attachForEdit {
		if d := m.syncer.Draft(); d != nil {
			switch {
			case d.Staged != nil:
				notes = append(notes, attachNote(d.Staged))
			case d.RemoveAttachment:
				notes = append(notes, mutedStyle.Render("attachment removed on save"))
			case d.Existing != nil:
				notes = append(notes, mutedStyle.Render(kindTag(d.Existing.Kind)+" "+d.Existing.DisplayName))
			}
		}
	}
	if len(notes) > 0 {
		title += "  " + strings.Join(notes, "  ")
	}

	help := "enter save • esc cancel • ctrl+f attach • ctrl+x clear attachment"
	inner := title + "\n" + m.ti.View() + "\n" + helpStyle.Render(help)
	return panelStyle.Render(inner)
}

func attachNote(f *todo.StagedFile) string {
	note := kindTag(f.Kind) + " " + f.Name
	if p := f.Preview(); p != nil && !p.Released() {
		note += fmt.Sprintf(" (%d byte preview)", len(p.Data()))
	}
	return mutedStyle.Render(note)
}

func (m Model) statusLine() string {
	if m.busy {
		return mutedStyle.Render("…")
	}
	if m.status != "" {
		return m.status
	}
	return ""
}
