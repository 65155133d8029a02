// Package primary defines the primary ports (driving adapters) for the application.
package primary

import (
	"context"

	"github.com/example/wardnotes/internal/core/patient"
)

// PatientService defines the primary port for patient list operations.
// A service holds the working list of exactly one active date.
type PatientService interface {
	// LoadSnapshot reads the list of a date and makes it active. A missing
	// snapshot is created empty.
	LoadSnapshot(ctx context.Context, date string) ([]patient.Patient, error)

	// SaveSnapshot persists list as the active date's snapshot and makes it
	// the working list.
	SaveSnapshot(ctx context.Context, list []patient.Patient) error

	// AddPatient adds a patient to the active list. Returns nil when the user
	// cancels the duplicate-name prompt.
	AddPatient(ctx context.Context, req AddPatientRequest) (*AddPatientResponse, error)

	// RemovePatient removes a patient from the active list after confirmation.
	// Notes are never deleted. Returns false when the user cancels.
	RemovePatient(ctx context.Context, id string) (bool, error)

	// UpdatePatient replaces an entry in place, keeping its position.
	UpdatePatient(ctx context.Context, p patient.Patient) error

	// MergePatientData moves a uuid identity's notes under an MRN and
	// rewrites the list entry.
	MergePatientData(ctx context.Context, uuidID, mrn string) (*MergeResult, error)

	// AddPatientsToDate appends the patients not already listed on date.
	// Returns the patients actually added.
	AddPatientsToDate(ctx context.Context, list []patient.Patient, date string) ([]patient.Patient, error)

	// NavigateToDate activates a date, creating its snapshot if missing.
	NavigateToDate(ctx context.Context, date string) ([]patient.Patient, error)

	// ListAvailableDates lists snapshot dates, most recent first.
	ListAvailableDates(ctx context.Context) ([]string, error)

	// Reorder persists a custom order given as the full list of ids.
	Reorder(ctx context.Context, ids []string) error

	// Patients returns a copy of the working list.
	Patients() []patient.Patient

	// ActiveDate returns the date of the working list.
	ActiveDate() string

	// GetPatient returns the working-list entry with the given id.
	GetPatient(id string) (*patient.Patient, error)

	// GetPatientByMRN returns the working-list entry with the given MRN.
	GetPatientByMRN(mrn string) (*patient.Patient, error)

	// Search filters the working list on name, MRN, and location.
	Search(term string) []patient.Patient

	// Sorted returns the working list in the requested order.
	Sorted(mode patient.SortMode) []patient.Patient
}

// AddPatientRequest contains parameters for adding a patient.
type AddPatientRequest struct {
	Patient patient.Patient // MRN optional; ID and Type are assigned
}

// AddOutcome says what AddPatient did.
type AddOutcome string

const (
	// AddCreated means a new entry was appended.
	AddCreated AddOutcome = "created"
	// AddMergedExisting means the user chose an existing same-name patient.
	AddMergedExisting AddOutcome = "merged-existing"
)

// AddPatientResponse contains the result of adding a patient.
type AddPatientResponse struct {
	Patient     patient.Patient
	Outcome     AddOutcome
	NotesDir    string
	ReusedNotes bool // an MRN notes directory already existed
}

// MergeStatus distinguishes a complete merge from one that left files behind.
type MergeStatus string

const (
	// MergeComplete means every note moved and the uuid directory is gone
	// (or only its removal failed).
	MergeComplete MergeStatus = "complete"
	// MergePartial means the uuid directory still holds entries the merge did
	// not move (unreadable notes, subdirectories, notes written meanwhile);
	// the directory is kept.
	MergePartial MergeStatus = "partial"
)

// MergeResult contains the result of an identity merge.
type MergeResult struct {
	Status        MergeStatus
	Patient       patient.Patient
	SourceDir     string
	TargetDir     string
	Moved         []string // file names copied into the MRN directory
	Skipped       []string // unreadable file names left in the uuid directory
	Overwritten   []string // file names that replaced existing MRN notes
	Remaining     []string // entry names still in the uuid directory
	SourceRemoved bool
}
