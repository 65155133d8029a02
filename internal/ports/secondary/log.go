package secondary

import "context"

// LogWriter defines the interface for writing audit log entries.
// Implementations extract the actor from context.
type LogWriter interface {
	// LogCreate logs a patient added to the list of a date.
	LogCreate(ctx context.Context, patientID, listDate string) error

	// LogUpdate logs a changed patient field.
	LogUpdate(ctx context.Context, patientID, listDate, fieldName, oldValue, newValue string) error

	// LogRemove logs a patient removed from the list of a date.
	LogRemove(ctx context.Context, patientID, listDate string) error

	// LogMerge logs a uuid identity merged into an MRN.
	LogMerge(ctx context.Context, uuidID, mrn, listDate string) error

	// LogImport logs a patient brought in from an external export.
	LogImport(ctx context.Context, patientID, listDate, source string) error
}
