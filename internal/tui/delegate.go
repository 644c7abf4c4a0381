package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/todoterm/todoterm/internal/todo"
)

// listItem adapts a todo.Item to bubbles/list.Item.
type listItem struct {
	item todo.Item
}

func (i listItem) Title() string       { return i.item.Text }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.item.Text }

// itemDelegate renders items on a single line with an attachment tag.
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}

	line := it.item.Text
	if a := it.item.Attachment; a != nil {
		name := a.DisplayName
		if name == "" {
			name = a.URL
		}
		line = fmt.Sprintf("%s %s", line, mutedStyle.Render(kindTag(a.Kind)+" "+name))
	}

	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}
