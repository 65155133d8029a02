package cli

import (
	"context"

	"github.com/example/wardnotes/internal/core/patient"
	"github.com/example/wardnotes/internal/core/snapshot"
	"github.com/example/wardnotes/internal/errs"
	"github.com/example/wardnotes/internal/ports/primary"
)

// mockPatientService implements primary.PatientService over an in-memory list.
type mockPatientService struct {
	date string
	list []patient.Patient

	addPatientFn    func(ctx context.Context, req primary.AddPatientRequest) (*primary.AddPatientResponse, error)
	removePatientFn func(ctx context.Context, id string) (bool, error)
	mergeFn         func(ctx context.Context, uuidID, mrn string) (*primary.MergeResult, error)
	addToDateFn     func(ctx context.Context, list []patient.Patient, date string) ([]patient.Patient, error)
	dates           []string

	// Track calls for verification
	navigated   []string
	lastUpdate  patient.Patient
	lastReorder []string
}

func (m *mockPatientService) LoadSnapshot(ctx context.Context, date string) ([]patient.Patient, error) {
	return m.NavigateToDate(ctx, date)
}

func (m *mockPatientService) SaveSnapshot(ctx context.Context, list []patient.Patient) error {
	m.list = list
	return nil
}

func (m *mockPatientService) AddPatient(ctx context.Context, req primary.AddPatientRequest) (*primary.AddPatientResponse, error) {
	if m.addPatientFn != nil {
		return m.addPatientFn(ctx, req)
	}
	p := req.Patient
	p.ID, p.Type = p.MRN, patient.IdentityMRN
	m.list = append(m.list, p)
	return &primary.AddPatientResponse{Patient: p, Outcome: primary.AddCreated}, nil
}

func (m *mockPatientService) RemovePatient(ctx context.Context, id string) (bool, error) {
	if m.removePatientFn != nil {
		return m.removePatientFn(ctx, id)
	}
	return true, nil
}

func (m *mockPatientService) UpdatePatient(ctx context.Context, p patient.Patient) error {
	m.lastUpdate = p
	return nil
}

func (m *mockPatientService) MergePatientData(ctx context.Context, uuidID, mrn string) (*primary.MergeResult, error) {
	if m.mergeFn != nil {
		return m.mergeFn(ctx, uuidID, mrn)
	}
	return &primary.MergeResult{Status: primary.MergeComplete, SourceRemoved: true}, nil
}

func (m *mockPatientService) AddPatientsToDate(ctx context.Context, list []patient.Patient, date string) ([]patient.Patient, error) {
	if m.addToDateFn != nil {
		return m.addToDateFn(ctx, list, date)
	}
	return list, nil
}

func (m *mockPatientService) NavigateToDate(ctx context.Context, date string) ([]patient.Patient, error) {
	m.navigated = append(m.navigated, date)
	m.date = date
	return m.list, nil
}

func (m *mockPatientService) ListAvailableDates(ctx context.Context) ([]string, error) {
	return m.dates, nil
}

func (m *mockPatientService) Reorder(ctx context.Context, ids []string) error {
	m.lastReorder = ids
	return nil
}

func (m *mockPatientService) Patients() []patient.Patient { return m.list }

func (m *mockPatientService) ActiveDate() string { return m.date }

func (m *mockPatientService) GetPatient(id string) (*patient.Patient, error) {
	for _, p := range m.list {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, errs.NotFound("get patient", "patient "+id)
}

func (m *mockPatientService) GetPatientByMRN(mrn string) (*patient.Patient, error) {
	if p, ok := patient.FindByMRN(m.list, mrn); ok {
		return &p, nil
	}
	return nil, errs.NotFound("get patient", "MRN "+mrn)
}

func (m *mockPatientService) Search(term string) []patient.Patient {
	return patient.Search(m.list, term)
}

func (m *mockPatientService) Sorted(mode patient.SortMode) []patient.Patient {
	return patient.Sorted(m.list, mode)
}

// mockNoteService implements primary.NoteService for testing.
type mockNoteService struct {
	notes    map[string]string // date -> content
	dates    []string
	lastSave primary.Note
}

func (m *mockNoteService) LoadNote(ctx context.Context, p patient.Patient, date string) (*primary.Note, error) {
	return &primary.Note{Date: date, Content: m.notes[date]}, nil
}

func (m *mockNoteService) SaveNote(ctx context.Context, p patient.Patient, note primary.Note) error {
	m.lastSave = note
	return nil
}

func (m *mockNoteService) NoteDates(ctx context.Context, p patient.Patient) ([]string, error) {
	return m.dates, nil
}

func (m *mockNoteService) AdjacentNoteDate(ctx context.Context, p patient.Patient, date string, dir snapshot.Direction) (string, bool, error) {
	d, ok := snapshot.AdjacentDate(m.dates, date, dir)
	return d, ok, nil
}

var (
	_ primary.PatientService = (*mockPatientService)(nil)
	_ primary.NoteService    = (*mockNoteService)(nil)
)

func ward() []patient.Patient {
	return []patient.Patient{
		patient.Sanitize(patient.Patient{ID: "12345678", Type: patient.IdentityMRN, MRN: "12345678", RawName: "SMITH, John", Location: "Bed 4"}),
		patient.Sanitize(patient.Patient{ID: "8c4f0d1e-0000-4000-8000-000000000001", Type: patient.IdentityUUID, RawName: "Jane Doe", Location: "Bed 9"}),
	}
}
