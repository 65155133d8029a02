package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/example/wardnotes/internal/ports/primary"
)

type mockLogService struct {
	events     []*primary.Event
	lastFilter primary.EventFilters
	pruneDays  int
}

func (m *mockLogService) ListEvents(ctx context.Context, filters primary.EventFilters) ([]*primary.Event, error) {
	m.lastFilter = filters
	return m.events, nil
}

func (m *mockLogService) PruneEvents(ctx context.Context, olderThanDays int) (int, error) {
	m.pruneDays = olderThanDays
	return 3, nil
}

func TestLogAdapter_List(t *testing.T) {
	mock := &mockLogService{events: []*primary.Event{
		{ID: "PE-0002", Timestamp: "2024-03-15T09:31:00Z", ActorID: "drsmith", PatientID: "555", ListDate: "2024-03-15", Action: "update", FieldName: "ward", OldValue: "7A", NewValue: "7B"},
		{ID: "PE-0001", Timestamp: "2024-03-15T09:30:00Z", PatientID: "555", Action: "create"},
	}}
	var buf bytes.Buffer
	adapter := NewLogAdapter(mock, &buf)

	_, err := adapter.List(context.Background(), primary.EventFilters{PatientID: "555"})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if mock.lastFilter.PatientID != "555" {
		t.Errorf("expected filter to be passed through, got %+v", mock.lastFilter)
	}
	output := buf.String()
	if !strings.Contains(output, `ward: "7A" -> "7B"`) {
		t.Errorf("expected field change, got '%s'", output)
	}
}

func TestLogAdapter_Prune(t *testing.T) {
	mock := &mockLogService{}
	var buf bytes.Buffer
	adapter := NewLogAdapter(mock, &buf)

	n, err := adapter.Prune(context.Background(), 30)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if n != 3 || mock.pruneDays != 30 {
		t.Errorf("expected 3 pruned over 30 days, got %d over %d", n, mock.pruneDays)
	}
}
