package app

import (
	"context"
	"errors"
	"sync"

	"github.com/example/wardnotes/internal/core/patient"
	"github.com/example/wardnotes/internal/ports/primary"
)

// SessionState is the state of a note editing session.
type SessionState int

const (
	SessionUnloaded SessionState = iota
	SessionLoading
	SessionClean
	SessionDirty
	SessionSaving
)

func (s SessionState) String() string {
	switch s {
	case SessionLoading:
		return "loading"
	case SessionClean:
		return "clean"
	case SessionDirty:
		return "dirty"
	case SessionSaving:
		return "saving"
	}
	return "unloaded"
}

// ErrSessionNotLoaded is returned when editing or saving before a note is open.
var ErrSessionNotLoaded = errors.New("no note is open")

// NoteSession tracks one note being edited. It reports unsaved changes but
// never blocks the caller from opening another note.
type NoteSession struct {
	notes primary.NoteService

	mu      sync.Mutex
	state   SessionState
	patient patient.Patient
	date    string
	content string
	saved   string
}

// NewNoteSession creates an unloaded session.
func NewNoteSession(notes primary.NoteService) *NoteSession {
	return &NoteSession{notes: notes}
}

// Open loads the note of p for date, discarding whatever was open.
func (s *NoteSession) Open(ctx context.Context, p patient.Patient, date string) error {
	s.mu.Lock()
	s.state = SessionLoading
	s.mu.Unlock()

	note, err := s.notes.LoadNote(ctx, p, date)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = SessionUnloaded
		return err
	}
	s.patient = p
	s.date = note.Date
	s.content = note.Content
	s.saved = note.Content
	s.state = SessionClean
	return nil
}

// Edit replaces the working content.
func (s *NoteSession) Edit(content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case SessionClean, SessionDirty, SessionSaving:
	default:
		return ErrSessionNotLoaded
	}
	s.content = content
	if s.state != SessionSaving {
		s.state = s.cleanOrDirty()
	}
	return nil
}

// Save writes the working content. A failed save leaves the session dirty
// and returns the error. Saving a clean session writes nothing.
func (s *NoteSession) Save(ctx context.Context) error {
	s.mu.Lock()
	switch s.state {
	case SessionClean:
		s.mu.Unlock()
		return nil
	case SessionDirty:
	default:
		s.mu.Unlock()
		return ErrSessionNotLoaded
	}
	s.state = SessionSaving
	p := s.patient
	note := primary.Note{Date: s.date, Content: s.content}
	s.mu.Unlock()

	err := s.notes.SaveNote(ctx, p, note)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = SessionDirty
		return err
	}
	s.saved = note.Content
	s.state = s.cleanOrDirty()
	return nil
}

// HasUnsavedChanges reports whether edits are not yet durably written.
func (s *NoteSession) HasUnsavedChanges() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == SessionDirty || s.state == SessionSaving
}

// State returns the current session state.
func (s *NoteSession) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Content returns the working content.
func (s *NoteSession) Content() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content
}

// Date returns the date of the open note.
func (s *NoteSession) Date() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.date
}

func (s *NoteSession) cleanOrDirty() SessionState {
	if s.content == s.saved {
		return SessionClean
	}
	return SessionDirty
}
