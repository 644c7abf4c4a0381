package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/todoterm/todoterm/internal/todo"
)

func (m Model) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateLoginInputs(msg)
	}

	switch keyMsg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "tab", "shift+tab", "up", "down":
		m.loginFocus = (m.loginFocus + 1) % 2
		if m.loginFocus == 0 {
			m.userTI.Focus()
			m.passTI.Blur()
		} else {
			m.userTI.Blur()
			m.passTI.Focus()
		}
		return m, nil
	case "enter":
		if m.busy {
			return m, nil
		}
		username := strings.TrimSpace(m.userTI.Value())
		password := m.passTI.Value()
		if username == "" || password == "" {
			m.status = errorStyle.Render("Both fields are required")
			return m, nil
		}
		m.busy = true
		m.status = mutedStyle.Render("signing in…")
		return m, m.loginCmd(username, password)
	}
	return m.updateLoginInputs(msg)
}

func (m Model) updateLoginInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.userTI, cmd = m.userTI.Update(msg)
	cmds = append(cmds, cmd)
	m.passTI, cmd = m.passTI.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) updateBoard(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case stateAdd, stateEdit:
		return m.updateInput(msg)
	case stateAttach:
		return m.updateAttach(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	// Filtering owns the keyboard while active.
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case "r":
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, m.loadCmd()
	case "a":
		if m.busy {
			return m, nil
		}
		m.state = stateAdd
		m.status = ""
		m.ti.SetValue("")
		m.ti.Placeholder = m.inputPlaceholder()
		m.ti.Focus()
		return m, nil
	case "e":
		if m.busy {
			return m, nil
		}
		it, ok := m.selected()
		if !ok {
			return m, nil
		}
		if !m.syncer.StartEdit(it.ID) {
			return m, nil
		}
		m.state = stateEdit
		m.status = ""
		m.ti.SetValue(it.Text)
		m.ti.CursorEnd()
		m.ti.Placeholder = m.inputPlaceholder()
		m.ti.Focus()
		return m, nil
	case "d":
		if m.busy {
			return m, nil
		}
		it, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.busy = true
		return m, m.deleteCmd(it.ID)
	case "f":
		if m.busy {
			return m, nil
		}
		// Attach to the compose form; a fresh add starts if none is open.
		m.attachForEdit = false
		return m.startAttach("")
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// updateInput handles the inline add/edit text input.
func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.ti, cmd = m.ti.Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case "enter":
		if m.busy {
			return m, nil
		}
		text := strings.TrimSpace(m.ti.Value())
		if text == "" {
			m.status = errorStyle.Render("Text cannot be empty")
			return m, nil
		}
		m.busy = true
		if m.state == stateEdit {
			m.syncer.SetEditText(text)
			return m, m.saveEditCmd()
		}
		return m, m.createCmd(text)
	case "esc":
		if m.state == stateEdit {
			m.syncer.CancelEdit()
		} else {
			m.syncer.ClearComposeFile()
		}
		m.state = stateList
		m.ti.SetValue("")
		m.ti.Blur()
		m.status = ""
		return m, nil
	case "ctrl+f":
		m.attachForEdit = m.state == stateEdit
		return m.startAttach(m.ti.Value())
	case "ctrl+x":
		if m.state == stateEdit {
			m.syncer.RemoveEditAttachment()
			m.status = mutedStyle.Render("attachment will be removed")
		} else {
			m.syncer.ClearComposeFile()
			m.status = mutedStyle.Render("attachment cleared")
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

// startAttach switches the shared input into file-path mode, stashing the
// text being composed so it can be restored afterwards.
func (m Model) startAttach(pending string) (tea.Model, tea.Cmd) {
	m.pendingText = pending
	m.state = stateAttach
	m.ti.SetValue("")
	m.ti.Placeholder = "Path to file…"
	m.ti.Focus()
	return m, nil
}

func (m Model) updateAttach(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.ti, cmd = m.ti.Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case "enter":
		path := strings.TrimSpace(m.ti.Value())
		if path == "" {
			m.status = errorStyle.Render("Path cannot be empty")
			return m, nil
		}
		return m, stageCmd(path, m.attachForEdit)
	case "esc":
		m.state = stateAdd
		if m.attachForEdit {
			m.state = stateEdit
		}
		m.ti.SetValue(m.pendingText)
		m.ti.CursorEnd()
		m.ti.Placeholder = m.inputPlaceholder()
		return m, nil
	}

	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m Model) selected() (todo.Item, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return todo.Item{}, false
	}
	return it.item, true
}

func (m Model) inputPlaceholder() string {
	if m.state == stateEdit {
		return "Edit task text…"
	}
	return "New task…"
}
