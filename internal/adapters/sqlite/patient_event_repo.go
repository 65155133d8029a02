// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/wardnotes/internal/errs"
	"github.com/example/wardnotes/internal/ports/secondary"
)

const eventColumns = `id, timestamp, actor_id, patient_id, list_date, action, field_name, old_value, new_value, created_at`

// PatientEventRepository implements secondary.PatientEventRepository with SQLite.
type PatientEventRepository struct {
	db *sql.DB
}

// NewPatientEventRepository creates a new SQLite patient event repository.
func NewPatientEventRepository(db *sql.DB) *PatientEventRepository {
	return &PatientEventRepository{db: db}
}

// Create persists a new event.
func (r *PatientEventRepository) Create(ctx context.Context, event *secondary.PatientEventRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO patient_events (id, actor_id, patient_id, list_date, action, field_name, old_value, new_value) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID,
		nullable(event.ActorID),
		event.PatientID,
		nullable(event.ListDate),
		event.Action,
		nullable(event.FieldName),
		nullable(event.OldValue),
		nullable(event.NewValue),
	)
	if err != nil {
		return fmt.Errorf("failed to create patient event: %w", err)
	}
	return nil
}

// GetByID retrieves an event by its ID.
func (r *PatientEventRepository) GetByID(ctx context.Context, id string) (*secondary.PatientEventRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM patient_events WHERE id = ?`, id)
	record, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("get patient event", fmt.Sprintf("event %s", id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient event: %w", err)
	}
	return record, nil
}

// List retrieves events matching the given filters, newest first.
func (r *PatientEventRepository) List(ctx context.Context, filters secondary.PatientEventFilters) ([]*secondary.PatientEventRecord, error) {
	query := `SELECT ` + eventColumns + ` FROM patient_events WHERE 1=1`
	args := []any{}

	if filters.PatientID != "" {
		query += " AND patient_id = ?"
		args = append(args, filters.PatientID)
	}
	if filters.ActorID != "" {
		query += " AND actor_id = ?"
		args = append(args, filters.ActorID)
	}
	if filters.Action != "" {
		query += " AND action = ?"
		args = append(args, filters.Action)
	}
	if filters.ListDate != "" {
		query += " AND list_date = ?"
		args = append(args, filters.ListDate)
	}

	// Events written within the same second share a timestamp; IDs are monotonic.
	query += " ORDER BY timestamp DESC, id DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list patient events: %w", err)
	}
	defer rows.Close()

	var events []*secondary.PatientEventRecord
	for rows.Next() {
		record, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan patient event: %w", err)
		}
		events = append(events, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list patient events: %w", err)
	}

	return events, nil
}

// GetNextID returns the next available event ID.
func (r *PatientEventRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	prefixLen := len("PE-") + 1
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COALESCE(MAX(CAST(SUBSTR(id, %d) AS INTEGER)), 0) FROM patient_events", prefixLen),
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next patient event ID: %w", err)
	}

	return fmt.Sprintf("PE-%04d", maxID+1), nil
}

// PruneOlderThan deletes events older than the given number of days.
func (r *PatientEventRepository) PruneOlderThan(ctx context.Context, days int) (int, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM patient_events WHERE timestamp < datetime('now', ?)",
		fmt.Sprintf("-%d days", days),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune patient events: %w", err)
	}

	count, _ := result.RowsAffected()
	return int(count), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*secondary.PatientEventRecord, error) {
	var (
		actorID   sql.NullString
		listDate  sql.NullString
		fieldName sql.NullString
		oldValue  sql.NullString
		newValue  sql.NullString
		timestamp time.Time
		createdAt time.Time
	)

	record := &secondary.PatientEventRecord{}
	err := row.Scan(&record.ID,
		&timestamp,
		&actorID,
		&record.PatientID,
		&listDate,
		&record.Action,
		&fieldName,
		&oldValue,
		&newValue,
		&createdAt)
	if err != nil {
		return nil, err
	}

	record.Timestamp = timestamp.Format(time.RFC3339)
	record.ActorID = actorID.String
	record.ListDate = listDate.String
	record.FieldName = fieldName.String
	record.OldValue = oldValue.String
	record.NewValue = newValue.String
	record.CreatedAt = createdAt.Format(time.RFC3339)
	return record, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Ensure PatientEventRepository implements the interface
var _ secondary.PatientEventRepository = (*PatientEventRepository)(nil)
