package model

import (
	"sync"

	"fyne.io/fyne/v2/data/binding"
	"github.com/shhac/schemadesk/internal/domain"
)

// Status states shown by the status bar
const (
	StatusIdle  = "idle"
	StatusBusy  = "busy"
	StatusOK    = "ok"
	StatusError = "error"
)

// ApplicationState represents the centralized application state with Fyne data bindings.
// All UI components bind to these values for reactive updates.
type ApplicationState struct {
	Status   *StatusState
	Document *DocumentState
}

// NewApplicationState creates a new ApplicationState with initialized bindings.
func NewApplicationState() *ApplicationState {
	return &ApplicationState{
		Status:   NewStatusState(),
		Document: NewDocumentState(),
	}
}

// StatusState drives the status bar.
// States: "idle", "busy", "ok", "error"
type StatusState struct {
	State   binding.String
	Message binding.String

	mu   sync.Mutex
	busy []string // messages of running tasks, most recent last
}

// NewStatusState creates a new StatusState with initialized bindings.
func NewStatusState() *StatusState {
	state := binding.NewString()
	_ = state.Set(StatusIdle)

	return &StatusState{
		State:   state,
		Message: binding.NewString(),
	}
}

// Begin shows message as busy until the returned func is called. Nested
// tasks stack; the status returns to the previous task when one ends.
func (s *StatusState) Begin(message string) func() {
	s.mu.Lock()
	s.busy = append(s.busy, message)
	s.mu.Unlock()
	s.set(StatusBusy, message)

	var once sync.Once
	return func() {
		once.Do(func() { s.end(message) })
	}
}

func (s *StatusState) end(message string) {
	s.mu.Lock()
	for i := len(s.busy) - 1; i >= 0; i-- {
		if s.busy[i] == message {
			s.busy = append(s.busy[:i], s.busy[i+1:]...)
			break
		}
	}
	remaining := len(s.busy)
	var top string
	if remaining > 0 {
		top = s.busy[remaining-1]
	}
	s.mu.Unlock()

	if remaining > 0 {
		s.set(StatusBusy, top)
		return
	}
	s.set(StatusIdle, "")
}

// Done reports a finished task
func (s *StatusState) Done(message string) {
	s.set(StatusOK, message)
}

// Fail reports a failed task
func (s *StatusState) Fail(message string) {
	s.set(StatusError, message)
}

// Busy reports whether any task is running
func (s *StatusState) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.busy) > 0
}

func (s *StatusState) set(state, message string) {
	_ = s.State.Set(state)
	_ = s.Message.Set(message)
}

// DocumentState holds the schema open in the editor pane and the session
// that selected it.
type DocumentState struct {
	Path    binding.String
	Title   binding.String
	Summary binding.String
	Content binding.String

	mu      sync.Mutex
	session domain.Session
	open    bool
}

// NewDocumentState creates a new DocumentState with initialized bindings.
func NewDocumentState() *DocumentState {
	return &DocumentState{
		Path:    binding.NewString(),
		Title:   binding.NewString(),
		Summary: binding.NewString(),
		Content: binding.NewString(),
	}
}

// Open replaces the document and the session that selected it
func (d *DocumentState) Open(sess domain.Session, path, content string) {
	d.mu.Lock()
	d.session = sess
	d.open = true
	d.mu.Unlock()

	_ = d.Path.Set(path)
	_ = d.Title.Set(sess.API.Name + " / " + sess.Version.Name)
	_ = d.Content.Set(content)
}

// Close clears the document
func (d *DocumentState) Close() {
	d.mu.Lock()
	d.session = domain.Session{}
	d.open = false
	d.mu.Unlock()

	_ = d.Path.Set("")
	_ = d.Title.Set("")
	_ = d.Summary.Set("")
	_ = d.Content.Set("")
}

// Text returns the edited content and whether a document is open
func (d *DocumentState) Text() (string, bool) {
	d.mu.Lock()
	open := d.open
	d.mu.Unlock()
	if !open {
		return "", false
	}
	content, _ := d.Content.Get()
	return content, true
}

// Session returns the session of the open document
func (d *DocumentState) Session() domain.Session {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.session
}
