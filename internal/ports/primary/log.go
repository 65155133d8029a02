package primary

import "context"

// LogService defines the primary port for the patient audit trail.
type LogService interface {
	// ListEvents retrieves events matching the given filters.
	ListEvents(ctx context.Context, filters EventFilters) ([]*Event, error)

	// PruneEvents deletes events older than the specified number of days.
	PruneEvents(ctx context.Context, olderThanDays int) (int, error)
}

// Event represents an audit event at the port boundary.
type Event struct {
	ID        string
	Timestamp string
	ActorID   string
	PatientID string
	ListDate  string
	Action    string // 'create', 'update', 'remove', 'merge', 'import'
	FieldName string // For updates only
	OldValue  string
	NewValue  string
}

// EventFilters contains filter options for querying events.
type EventFilters struct {
	PatientID string
	ActorID   string
	Action    string
	ListDate  string
	Limit     int
}
