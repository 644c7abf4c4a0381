package todo

import (
	"context"
	"strings"
	"sync"

	"github.com/todoterm/todoterm/internal/logging"
)

// Service is the backend surface the synchronization layer drives.
// *api.TodoService satisfies it.
type Service interface {
	ListTodos(ctx context.Context, userID int64) ([]Item, error)
	CreateTodo(ctx context.Context, userID int64, text string) error
	CreateTodoWithFile(ctx context.Context, userID int64, text string, f *StagedFile) error
	UpdateTodo(ctx context.Context, id int64, text string) error
	UpdateTodoWithFile(ctx context.Context, id int64, text string, f *StagedFile) error
	UpdateTodoRemovingFile(ctx context.Context, id int64, text string) error
	DeleteTodo(ctx context.Context, id int64) error
}

// Notifier surfaces user-visible error messages. It is optional: a nil
// notifier is a valid, silent configuration.
type Notifier interface {
	Error(message string)
}

// User-facing messages for failed mutations. Delete deliberately has none:
// its errors are logged only, matching the backend contract this client
// mirrors.
const (
	msgCreateFailed = "Could not create the task. Please try again."
	msgUpdateFailed = "Could not update the task. Please try again."
)

// Draft is the edit state captured when an item enters edit mode.
type Draft struct {
	ID   int64
	Text string
	// Existing is the attachment the item already carries, display only.
	Existing *Attachment
	// Staged is a new local file replacing the attachment on save.
	Staged *StagedFile
	// RemoveAttachment drops the existing attachment on save. At most one of
	// Staged/RemoveAttachment is in effect.
	RemoveAttachment bool
}

// Syncer owns the local mirror of the user's collection and reconciles every
// mutation against the authoritative server response by refetching the whole
// list.
type Syncer struct {
	svc    Service
	log    logging.Logger
	notify Notifier
	userID int64

	// The TUI runs network operations on command goroutines; the mutex keeps
	// the mirror consistent between them and snapshot reads.
	mu     sync.Mutex
	items  []Item
	staged *StagedFile // compose-form staging
	draft  *Draft
}

// NewSyncer builds the synchronization layer for one authenticated user.
// notify may be nil.
func NewSyncer(svc Service, log logging.Logger, notify Notifier, userID int64) *Syncer {
	if log == nil {
		log = logging.NewNop()
	}
	return &Syncer{svc: svc, log: log, notify: notify, userID: userID}
}

// UserID returns the session's user id.
func (s *Syncer) UserID() int64 { return s.userID }

// Items returns a snapshot copy of the local collection.
func (s *Syncer) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Load fetches the full collection and replaces local state wholesale. On
// failure the previous (stale) state is kept.
func (s *Syncer) Load(ctx context.Context) error {
	items, err := s.svc.ListTodos(ctx, s.userID)
	if err != nil {
		s.log.Errorf(ctx, "load todos: %v", err)
		return err
	}
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

// StageComposeFile stages a file for the next Create, releasing any
// previously staged preview first.
func (s *Syncer) StageComposeFile(f *StagedFile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged.Release()
	s.staged = f
}

// ClearComposeFile drops the compose staging and releases its preview.
func (s *Syncer) ClearComposeFile() {
	s.StageComposeFile(nil)
}

// ComposeFile returns the currently staged compose attachment, if any.
func (s *Syncer) ComposeFile() *StagedFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.staged
}

// Create submits a new item. Empty or whitespace-only text is a no-op: no
// request, no state change. On success the collection is reloaded and the
// staging is cleared; on failure the staging is kept so the user can retry.
func (s *Syncer) Create(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	s.mu.Lock()
	staged := s.staged
	s.mu.Unlock()

	var err error
	if staged != nil {
		err = s.svc.CreateTodoWithFile(ctx, s.userID, text, staged)
	} else {
		err = s.svc.CreateTodo(ctx, s.userID, text)
	}
	if err != nil {
		s.log.Errorf(ctx, "create todo: %v", err)
		if s.notify != nil {
			s.notify.Error(msgCreateFailed)
		}
		return err
	}

	if lerr := s.Load(ctx); lerr != nil {
		// The mutation landed; the mirror is refreshed on the next Load.
		s.log.Warnf(ctx, "refresh after create: %v", lerr)
	}
	s.ClearComposeFile()
	return nil
}

// StartEdit captures the item's current text and attachment as the draft.
// Unknown ids leave the state untouched.
func (s *Syncer) StartEdit(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.ID == id {
			s.draft = &Draft{ID: id, Text: it.Text, Existing: it.Attachment}
			return true
		}
	}
	return false
}

// Draft returns a copy of the current edit draft, nil when not editing.
func (s *Syncer) Draft() *Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return nil
	}
	d := *s.draft
	return &d
}

// Editing reports whether an edit draft is open.
func (s *Syncer) Editing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft != nil
}

// SetEditText updates the draft text.
func (s *Syncer) SetEditText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft != nil {
		s.draft.Text = text
	}
}

// StageEditFile stages a replacement attachment on the draft, releasing any
// previously staged one.
func (s *Syncer) StageEditFile(f *StagedFile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		f.Release()
		return
	}
	s.draft.Staged.Release()
	s.draft.Staged = f
	s.draft.RemoveAttachment = false
}

// RemoveEditAttachment marks the existing attachment for removal on save and
// drops any staged replacement.
func (s *Syncer) RemoveEditAttachment() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return
	}
	s.draft.Staged.Release()
	s.draft.Staged = nil
	s.draft.RemoveAttachment = true
}

// CancelEdit discards the draft and releases any staged preview.
func (s *Syncer) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discardDraftLocked()
}

func (s *Syncer) discardDraftLocked() {
	if s.draft == nil {
		return
	}
	s.draft.Staged.Release()
	s.draft = nil
}

// SaveEdit submits the draft. Empty or whitespace-only text is a no-op and
// keeps the draft open. Otherwise the draft is cleared whether the request
// succeeds or fails: a failed update still exits edit mode and discards the
// unsaved draft.
func (s *Syncer) SaveEdit(ctx context.Context) error {
	s.mu.Lock()
	if s.draft == nil {
		s.mu.Unlock()
		return nil
	}
	d := *s.draft
	s.mu.Unlock()

	text := strings.TrimSpace(d.Text)
	if text == "" {
		return nil
	}

	var err error
	switch {
	case d.Staged != nil:
		err = s.svc.UpdateTodoWithFile(ctx, d.ID, text, d.Staged)
	case d.RemoveAttachment:
		err = s.svc.UpdateTodoRemovingFile(ctx, d.ID, text)
	default:
		err = s.svc.UpdateTodo(ctx, d.ID, text)
	}

	s.mu.Lock()
	s.discardDraftLocked()
	s.mu.Unlock()

	if err != nil {
		s.log.Errorf(ctx, "update todo %d: %v", d.ID, err)
		if s.notify != nil {
			s.notify.Error(msgUpdateFailed)
		}
		return err
	}

	if lerr := s.Load(ctx); lerr != nil {
		s.log.Warnf(ctx, "refresh after update: %v", lerr)
	}
	return nil
}

// Delete removes an item. On success it is dropped from the local mirror by
// identity match; errors are logged but never surfaced to the user here.
func (s *Syncer) Delete(ctx context.Context, id int64) error {
	if err := s.svc.DeleteTodo(ctx, id); err != nil {
		s.log.Errorf(ctx, "delete todo %d: %v", id, err)
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.items[:0]
	for _, it := range s.items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	s.items = kept
	return nil
}
