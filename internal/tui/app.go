// Package tui is the interactive board: a login view gating a Bubble Tea
// list of the user's tasks with inline add, edit, delete, and attach.
package tui

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/todoterm/todoterm/internal/auth"
	"github.com/todoterm/todoterm/internal/logging"
	"github.com/todoterm/todoterm/internal/session"
	"github.com/todoterm/todoterm/internal/todo"
)

// Flash collects user-visible error messages from the sync and login layers
// so the next frame can show them in the status line. It satisfies
// todo.Notifier.
type Flash struct {
	mu  sync.Mutex
	msg string
}

func (f *Flash) Error(message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msg = message
}

// Take returns and clears the pending message.
func (f *Flash) Take() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := f.msg
	f.msg = ""
	return m
}

type mode int

const (
	modeLogin mode = iota
	modeBoard
)

type boardState int

const (
	stateList boardState = iota
	stateAdd
	stateEdit
	stateAttach
)

// SyncerFactory builds the synchronization layer for an authenticated user
// id. The TUI calls it after login establishes the session.
type SyncerFactory func(userID int64) *todo.Syncer

// Model is the Bubble Tea model for the whole client UI.
type Model struct {
	factory SyncerFactory
	flow    *auth.Flow
	store   session.Store
	log     logging.Logger
	flash   *Flash

	syncer *todo.Syncer
	mode   mode

	// login view
	userTI     textinput.Model
	passTI     textinput.Model
	loginFocus int

	// board view
	list          list.Model
	ti            textinput.Model
	state         boardState
	attachForEdit bool
	pendingText   string

	// busy is the only concurrency guard: while a network call is in
	// flight, mutating keys are ignored.
	busy   bool
	loaded bool
	status string

	width, height int
}

// New builds the UI. When the store already carries a username the login view
// is skipped and the board loads immediately.
func New(factory SyncerFactory, flow *auth.Flow, store session.Store, flash *Flash, log logging.Logger) Model {
	if log == nil {
		log = logging.NewNop()
	}

	m := Model{
		factory: factory,
		flow:    flow,
		store:   store,
		log:     log,
		flash:   flash,
		mode:    modeLogin,
		width:   80,
		height:  24,
	}

	m.userTI = textinput.New()
	m.userTI.Prompt = "username > "
	m.userTI.CharLimit = 100
	m.userTI.Focus()
	m.passTI = textinput.New()
	m.passTI.Prompt = "password > "
	m.passTI.EchoMode = textinput.EchoPassword
	m.passTI.CharLimit = 100

	m.ti = textinput.New()
	m.ti.Prompt = "> "
	m.ti.CharLimit = 200

	l := list.New(nil, itemDelegate{}, 0, 0)
	l.Title = titleStyle.Render("Tasks")
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "

	addBind := key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	editBind := key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	delBind := key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	attachBind := key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "attach"))
	reloadBind := key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload"))
	extra := func() []key.Binding {
		return []key.Binding{addBind, editBind, delBind, attachBind, reloadBind}
	}
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra
	m.list = l

	if store != nil && store.Get(session.KeyUsername) != "" {
		m.mode = modeBoard
		m.syncer = factory(storedUserID(store))
	}
	return m
}

// storedUserID reads the persisted user id, defaulting to 1 when the backend
// never told us one.
func storedUserID(store session.Store) int64 {
	var id int64
	if store != nil {
		fmt.Sscanf(store.Get(session.KeyUserID), "%d", &id)
	}
	if id == 0 {
		id = 1
	}
	return id
}

// --- messages ---

type loadDoneMsg struct{ err error }
type createDoneMsg struct{ err error }
type saveDoneMsg struct{ err error }
type deleteDoneMsg struct{ err error }
type loginDoneMsg struct {
	user *auth.User
	err  error
}
type stageDoneMsg struct {
	file    *todo.StagedFile
	forEdit bool
	err     error
}

// --- commands ---

func (m Model) loadCmd() tea.Cmd {
	s := m.syncer
	return func() tea.Msg {
		return loadDoneMsg{err: s.Load(context.Background())}
	}
}

func (m Model) createCmd(text string) tea.Cmd {
	s := m.syncer
	return func() tea.Msg {
		return createDoneMsg{err: s.Create(context.Background(), text)}
	}
}

func (m Model) saveEditCmd() tea.Cmd {
	s := m.syncer
	return func() tea.Msg {
		return saveDoneMsg{err: s.SaveEdit(context.Background())}
	}
}

func (m Model) deleteCmd(id int64) tea.Cmd {
	s := m.syncer
	return func() tea.Msg {
		return deleteDoneMsg{err: s.Delete(context.Background(), id)}
	}
}

func (m Model) loginCmd(username, password string) tea.Cmd {
	flow := m.flow
	return func() tea.Msg {
		user, err := flow.Login(context.Background(), username, password)
		return loginDoneMsg{user: user, err: err}
	}
}

func stageCmd(path string, forEdit bool) tea.Cmd {
	return func() tea.Msg {
		f, err := todo.StageFileFromPath(path)
		return stageDoneMsg{file: f, forEdit: forEdit, err: err}
	}
}

// --- tea.Model ---

func (m Model) Init() tea.Cmd {
	if m.mode == modeBoard {
		return m.loadCmd()
	}
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case loginDoneMsg:
		return m.onLoginDone(msg)
	case loadDoneMsg:
		m.busy = false
		m.loaded = true
		m.refreshList()
		m.pullFlash()
		return m, nil
	case createDoneMsg:
		m.busy = false
		m.refreshList()
		if msg.err == nil {
			// Compose form resets only on success so a failed create can be
			// retried as-is.
			m.ti.SetValue("")
			m.ti.Blur()
			m.state = stateList
		}
		m.pullFlash()
		return m, nil
	case saveDoneMsg:
		m.busy = false
		m.refreshList()
		// Edit mode exits on success and on failure alike; the draft is gone
		// either way.
		m.ti.SetValue("")
		m.ti.Blur()
		m.state = stateList
		m.pullFlash()
		return m, nil
	case deleteDoneMsg:
		m.busy = false
		m.refreshList()
		return m, nil
	case stageDoneMsg:
		return m.onStaged(msg)
	}

	if m.mode == modeLogin {
		return m.updateLogin(msg)
	}
	return m.updateBoard(msg)
}

func (m *Model) pullFlash() {
	if m.flash == nil {
		return
	}
	if s := m.flash.Take(); s != "" {
		m.status = errorStyle.Render(s)
	}
}

func (m *Model) refreshList() {
	if m.syncer == nil {
		return
	}
	items := m.syncer.Items()
	li := make([]list.Item, 0, len(items))
	for _, it := range items {
		li = append(li, listItem{item: it})
	}
	m.list.SetItems(li)
}

func (m Model) onLoginDone(msg loginDoneMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	if msg.err != nil || msg.user == nil {
		m.pullFlash()
		return m, nil
	}
	if err := auth.PersistToken(m.store, msg.user.Token); err != nil {
		m.log.Warnf(context.Background(), "persist token: %v", err)
	}
	id := msg.user.ID
	if id == 0 {
		id = storedUserID(m.store)
	}
	m.syncer = m.factory(id)
	m.mode = modeBoard
	m.status = ""
	m.busy = true
	return m, m.loadCmd()
}

func (m Model) onStaged(msg stageDoneMsg) (tea.Model, tea.Cmd) {
	m.state = stateAdd
	if m.attachForEdit {
		m.state = stateEdit
	}
	if msg.err != nil {
		m.status = errorStyle.Render(msg.err.Error())
	} else if m.attachForEdit {
		m.syncer.StageEditFile(msg.file)
		m.status = mutedStyle.Render("attached " + msg.file.Name)
	} else {
		m.syncer.StageComposeFile(msg.file)
		m.status = mutedStyle.Render("attached " + msg.file.Name)
	}
	m.ti.Placeholder = m.inputPlaceholder()
	m.ti.SetValue(m.pendingText)
	m.ti.CursorEnd()
	m.ti.Focus()
	return m, nil
}

func (m Model) View() string {
	if m.mode == modeLogin {
		return m.viewLogin()
	}
	return m.viewBoard()
}

// Run starts the program on the alternate screen and blocks until it exits.
func Run(m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
