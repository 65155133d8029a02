// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import "context"

// PatientEventRepository defines the secondary port for the patient audit trail.
// Events are immutable - no Update operations, but old entries can be pruned.
type PatientEventRepository interface {
	// Create persists a new event.
	Create(ctx context.Context, event *PatientEventRecord) error

	// GetByID retrieves an event by its ID.
	GetByID(ctx context.Context, id string) (*PatientEventRecord, error)

	// List retrieves events matching the given filters, newest first.
	List(ctx context.Context, filters PatientEventFilters) ([]*PatientEventRecord, error)

	// GetNextID returns the next available event ID.
	GetNextID(ctx context.Context) (string, error)

	// PruneOlderThan deletes events older than the given number of days.
	// Returns the number of deleted entries.
	PruneOlderThan(ctx context.Context, days int) (int, error)
}

// PatientEventRecord represents an audit event as stored in persistence.
type PatientEventRecord struct {
	ID        string
	Timestamp string
	ActorID   string // Empty string means null
	PatientID string
	ListDate  string // Empty string means null
	Action    string // 'create', 'update', 'remove', 'merge', 'import'
	FieldName string // Empty string means null - for updates only
	OldValue  string // Empty string means null
	NewValue  string // Empty string means null
	CreatedAt string
}

// PatientEventFilters contains filter options for querying events.
type PatientEventFilters struct {
	PatientID string
	ActorID   string
	Action    string
	ListDate  string
	Limit     int
}
