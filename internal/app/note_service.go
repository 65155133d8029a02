package app

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/wardnotes/internal/core/paths"
	"github.com/example/wardnotes/internal/core/patient"
	"github.com/example/wardnotes/internal/core/snapshot"
	"github.com/example/wardnotes/internal/errs"
	"github.com/example/wardnotes/internal/ports/primary"
	"github.com/example/wardnotes/internal/ports/secondary"
)

// NoteServiceImpl implements the NoteService interface.
type NoteServiceImpl struct {
	store    secondary.FileStore
	dataDirs secondary.DataDirProvider
	logger   *zap.Logger
}

// NewNoteService creates a new NoteService with injected dependencies.
func NewNoteService(store secondary.FileStore, dataDirs secondary.DataDirProvider, logger *zap.Logger) *NoteServiceImpl {
	return &NoteServiceImpl{
		store:    store,
		dataDirs: dataDirs,
		logger:   logger,
	}
}

// LoadNote returns the note of a patient for a date. A missing file is an
// empty note.
func (s *NoteServiceImpl) LoadNote(ctx context.Context, p patient.Patient, date string) (*primary.Note, error) {
	path, day, err := s.notePath("load note", p, date)
	if err != nil {
		return nil, err
	}

	data, err := s.store.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return &primary.Note{Date: day}, nil
	}

	var note primary.Note
	if err := json.Unmarshal(data, &note); err != nil {
		return nil, errs.Corrupt("load note", path, err)
	}
	if note.Date == "" {
		note.Date = day
	}
	return &note, nil
}

// SaveNote writes the note with its date normalised to YYYY-MM-DD.
func (s *NoteServiceImpl) SaveNote(ctx context.Context, p patient.Patient, note primary.Note) error {
	path, day, err := s.notePath("save note", p, note.Date)
	if err != nil {
		return err
	}
	note.Date = day

	data, err := json.MarshalIndent(note, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode note: %w", err)
	}
	if err := s.store.WriteFile(ctx, path, data); err != nil {
		return err
	}
	s.logger.Debug("note saved", zap.String("path", path), zap.Int("bytes", len(data)))
	return nil
}

// NoteDates lists the dates a patient has notes for, most recent first.
func (s *NoteServiceImpl) NoteDates(ctx context.Context, p patient.Patient) ([]string, error) {
	dataDir := s.dataDirs.DataDirectory()
	if dataDir == "" {
		return nil, errs.Unconfigured("list note dates")
	}
	idType, id := p.NotesIdentity()
	dir, err := paths.NotesDirFor(dataDir, idType, id)
	if err != nil {
		return nil, err
	}
	names, err := s.store.ListFiles(ctx, dir)
	if err != nil {
		return nil, err
	}
	return snapshot.NoteDates(names), nil
}

// AdjacentNoteDate returns the closest dated note before or after date.
func (s *NoteServiceImpl) AdjacentNoteDate(ctx context.Context, p patient.Patient, date string, dir snapshot.Direction) (string, bool, error) {
	day, err := paths.NormalizeDate(date)
	if err != nil {
		return "", false, err
	}
	dates, err := s.NoteDates(ctx, p)
	if err != nil {
		return "", false, err
	}
	next, ok := snapshot.AdjacentDate(dates, day, dir)
	return next, ok, nil
}

// notePath checks configuration before any path work, then resolves the
// note file for the patient's notes identity.
func (s *NoteServiceImpl) notePath(op string, p patient.Patient, date string) (string, string, error) {
	dataDir := s.dataDirs.DataDirectory()
	if dataDir == "" {
		return "", "", errs.Unconfigured(op)
	}
	day, err := paths.NormalizeDate(date)
	if err != nil {
		return "", "", err
	}
	idType, id := p.NotesIdentity()
	path, err := paths.NoteFileFor(dataDir, idType, id, day)
	if err != nil {
		return "", "", err
	}
	return path, day, nil
}

// Ensure NoteServiceImpl implements the interface
var _ primary.NoteService = (*NoteServiceImpl)(nil)
