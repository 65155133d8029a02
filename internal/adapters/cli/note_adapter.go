package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/example/wardnotes/internal/core/patient"
	"github.com/example/wardnotes/internal/core/snapshot"
	"github.com/example/wardnotes/internal/ports/primary"
)

// NoteAdapter translates CLI operations to NoteService calls.
type NoteAdapter struct {
	notes    primary.NoteService
	patients *PatientAdapter
	out      io.Writer
}

// NewNoteAdapter creates a new NoteAdapter. Patients are resolved on the list
// of the date being read or written.
func NewNoteAdapter(notes primary.NoteService, patients *PatientAdapter, out io.Writer) *NoteAdapter {
	return &NoteAdapter{
		notes:    notes,
		patients: patients,
		out:      out,
	}
}

// Patient resolves ref on the list of date.
func (a *NoteAdapter) Patient(ctx context.Context, date, ref string) (*patient.Patient, error) {
	if err := a.patients.Open(ctx, date); err != nil {
		return nil, err
	}
	p, err := a.patients.Resolve(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return p, nil
}

// Show prints a patient's note for date.
func (a *NoteAdapter) Show(ctx context.Context, date, ref string) (*primary.Note, error) {
	p, err := a.Patient(ctx, date, ref)
	if err != nil {
		return nil, err
	}

	note, err := a.notes.LoadNote(ctx, *p, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load note: %w", err)
	}

	color.New(color.Bold).Fprintf(a.out, "%s - %s\n", p.DisplayName(), note.Date)
	if note.Content == "" {
		fmt.Fprintln(a.out, "(no notes for this day)")
		return note, nil
	}
	fmt.Fprintln(a.out, note.Content)
	return note, nil
}

// Save replaces a patient's note for date with content.
func (a *NoteAdapter) Save(ctx context.Context, date, ref, content string) error {
	p, err := a.Patient(ctx, date, ref)
	if err != nil {
		return err
	}

	if err := a.notes.SaveNote(ctx, *p, primary.Note{Date: date, Content: content}); err != nil {
		return fmt.Errorf("failed to save note: %w", err)
	}

	fmt.Fprintf(a.out, "✓ Note for %s on %s saved\n", p.DisplayName(), date)
	return nil
}

// Dates prints the dates a patient has notes for.
func (a *NoteAdapter) Dates(ctx context.Context, date, ref string) ([]string, error) {
	p, err := a.Patient(ctx, date, ref)
	if err != nil {
		return nil, err
	}

	dates, err := a.notes.NoteDates(ctx, *p)
	if err != nil {
		return nil, fmt.Errorf("failed to list note dates: %w", err)
	}

	if len(dates) == 0 {
		fmt.Fprintf(a.out, "No notes recorded for %s.\n", p.DisplayName())
		return dates, nil
	}
	for _, d := range dates {
		fmt.Fprintln(a.out, d)
	}
	return dates, nil
}

// Adjacent prints the patient's closest note date before or after date.
func (a *NoteAdapter) Adjacent(ctx context.Context, date, ref string, dir snapshot.Direction) (string, error) {
	p, err := a.Patient(ctx, date, ref)
	if err != nil {
		return "", err
	}

	found, ok, err := a.notes.AdjacentNoteDate(ctx, *p, date, dir)
	if err != nil {
		return "", fmt.Errorf("failed to find adjacent note: %w", err)
	}
	if !ok {
		word := "earlier"
		if dir == snapshot.Next {
			word = "later"
		}
		fmt.Fprintf(a.out, "No %s note than %s.\n", word, date)
		return "", nil
	}

	fmt.Fprintln(a.out, found)
	return found, nil
}
