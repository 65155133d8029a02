package sqlite

import (
	"context"

	"github.com/example/wardnotes/internal/ctxutil"
	"github.com/example/wardnotes/internal/ports/secondary"
)

// LogWriterAdapter implements secondary.LogWriter on top of PatientEventRepository.
type LogWriterAdapter struct {
	eventRepo secondary.PatientEventRepository
}

// NewLogWriterAdapter creates a new LogWriterAdapter.
func NewLogWriterAdapter(eventRepo secondary.PatientEventRepository) *LogWriterAdapter {
	return &LogWriterAdapter{eventRepo: eventRepo}
}

// LogCreate logs a patient added to the list of a date.
func (w *LogWriterAdapter) LogCreate(ctx context.Context, patientID, listDate string) error {
	return w.writeEvent(ctx, patientID, listDate, "create", "", "", "")
}

// LogUpdate logs a changed patient field.
func (w *LogWriterAdapter) LogUpdate(ctx context.Context, patientID, listDate, fieldName, oldValue, newValue string) error {
	return w.writeEvent(ctx, patientID, listDate, "update", fieldName, oldValue, newValue)
}

// LogRemove logs a patient removed from the list of a date.
func (w *LogWriterAdapter) LogRemove(ctx context.Context, patientID, listDate string) error {
	return w.writeEvent(ctx, patientID, listDate, "remove", "", "", "")
}

// LogMerge logs the uuid identity that was merged into mrn. The event is
// recorded against the MRN so a patient's history follows the surviving id.
func (w *LogWriterAdapter) LogMerge(ctx context.Context, uuidID, mrn, listDate string) error {
	return w.writeEvent(ctx, mrn, listDate, "merge", "id", uuidID, mrn)
}

// LogImport logs a patient brought in from an external export.
func (w *LogWriterAdapter) LogImport(ctx context.Context, patientID, listDate, source string) error {
	return w.writeEvent(ctx, patientID, listDate, "import", "source", "", source)
}

func (w *LogWriterAdapter) writeEvent(ctx context.Context, patientID, listDate, action, fieldName, oldValue, newValue string) error {
	id, err := w.eventRepo.GetNextID(ctx)
	if err != nil {
		return err
	}

	return w.eventRepo.Create(ctx, &secondary.PatientEventRecord{
		ID:        id,
		ActorID:   ctxutil.ActorFromContext(ctx),
		PatientID: patientID,
		ListDate:  listDate,
		Action:    action,
		FieldName: fieldName,
		OldValue:  oldValue,
		NewValue:  newValue,
	})
}

// Ensure LogWriterAdapter implements the interface
var _ secondary.LogWriter = (*LogWriterAdapter)(nil)
