package app

import (
	"context"
	"fmt"

	"github.com/example/wardnotes/internal/ports/primary"
	"github.com/example/wardnotes/internal/ports/secondary"
)

// LogServiceImpl implements the LogService interface.
type LogServiceImpl struct {
	eventRepo secondary.PatientEventRepository
}

// NewLogService creates a new LogService with injected dependencies.
func NewLogService(eventRepo secondary.PatientEventRepository) *LogServiceImpl {
	return &LogServiceImpl{
		eventRepo: eventRepo,
	}
}

// ListEvents retrieves audit events matching the given filters.
func (s *LogServiceImpl) ListEvents(ctx context.Context, filters primary.EventFilters) ([]*primary.Event, error) {
	records, err := s.eventRepo.List(ctx, secondary.PatientEventFilters{
		PatientID: filters.PatientID,
		ActorID:   filters.ActorID,
		Action:    filters.Action,
		ListDate:  filters.ListDate,
		Limit:     filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	events := make([]*primary.Event, len(records))
	for i, r := range records {
		events[i] = recordToEvent(r)
	}
	return events, nil
}

// PruneEvents deletes events older than the specified number of days.
func (s *LogServiceImpl) PruneEvents(ctx context.Context, olderThanDays int) (int, error) {
	if olderThanDays < 1 {
		return 0, fmt.Errorf("prune needs a positive number of days, got %d", olderThanDays)
	}
	return s.eventRepo.PruneOlderThan(ctx, olderThanDays)
}

func recordToEvent(r *secondary.PatientEventRecord) *primary.Event {
	return &primary.Event{
		ID:        r.ID,
		Timestamp: r.Timestamp,
		ActorID:   r.ActorID,
		PatientID: r.PatientID,
		ListDate:  r.ListDate,
		Action:    r.Action,
		FieldName: r.FieldName,
		OldValue:  r.OldValue,
		NewValue:  r.NewValue,
	}
}

// Ensure LogServiceImpl implements the interface
var _ primary.LogService = (*LogServiceImpl)(nil)
