package primary

import (
	"context"

	"github.com/example/wardnotes/internal/core/patient"
	"github.com/example/wardnotes/internal/core/snapshot"
)

// NoteService defines the primary port for per-day note operations.
type NoteService interface {
	// LoadNote returns the note of a patient for a date. A missing note is
	// returned empty, not as an error.
	LoadNote(ctx context.Context, p patient.Patient, date string) (*Note, error)

	// SaveNote writes the note. One call is one write.
	SaveNote(ctx context.Context, p patient.Patient, note Note) error

	// NoteDates lists the dates a patient has notes for, most recent first.
	NoteDates(ctx context.Context, p patient.Patient) ([]string, error)

	// AdjacentNoteDate returns the closest dated note before or after date.
	AdjacentNoteDate(ctx context.Context, p patient.Patient, date string, dir snapshot.Direction) (string, bool, error)
}

// Note is one day of clinical notes for one patient identity.
// The JSON tags define the persisted note file format.
type Note struct {
	Date    string `json:"date"`
	Content string `json:"content"`
}
