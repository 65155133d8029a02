package app

import (
	"context"
	"testing"

	"github.com/example/wardnotes/internal/ports/primary"
	"github.com/example/wardnotes/internal/ports/secondary"
)

// Ensure mockPatientEventRepository implements the interface
var _ secondary.PatientEventRepository = (*mockPatientEventRepository)(nil)

// mockPatientEventRepository implements secondary.PatientEventRepository for testing.
type mockPatientEventRepository struct {
	records     []*secondary.PatientEventRecord
	lastFilters secondary.PatientEventFilters
	prunedDays  int
}

func (m *mockPatientEventRepository) Create(ctx context.Context, event *secondary.PatientEventRecord) error {
	m.records = append(m.records, event)
	return nil
}

func (m *mockPatientEventRepository) GetByID(ctx context.Context, id string) (*secondary.PatientEventRecord, error) {
	for _, r := range m.records {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (m *mockPatientEventRepository) List(ctx context.Context, filters secondary.PatientEventFilters) ([]*secondary.PatientEventRecord, error) {
	m.lastFilters = filters
	return m.records, nil
}

func (m *mockPatientEventRepository) GetNextID(ctx context.Context) (string, error) {
	return "PE-0001", nil
}

func (m *mockPatientEventRepository) PruneOlderThan(ctx context.Context, days int) (int, error) {
	m.prunedDays = days
	return len(m.records), nil
}

func TestLogService_ListEvents(t *testing.T) {
	repo := &mockPatientEventRepository{records: []*secondary.PatientEventRecord{
		{ID: "PE-0001", PatientID: "u1", Action: "merge", NewValue: "M1", ActorID: "alice"},
	}}
	svc := NewLogService(repo)

	events, err := svc.ListEvents(context.Background(), primary.EventFilters{PatientID: "u1", Limit: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 1 || events[0].Action != "merge" || events[0].NewValue != "M1" {
		t.Errorf("unexpected events: %+v", events)
	}
	if repo.lastFilters.PatientID != "u1" || repo.lastFilters.Limit != 5 {
		t.Errorf("filters not passed through: %+v", repo.lastFilters)
	}
}

func TestLogService_PruneEvents(t *testing.T) {
	repo := &mockPatientEventRepository{}
	svc := NewLogService(repo)

	if _, err := svc.PruneEvents(context.Background(), 0); err == nil {
		t.Error("expected error for zero days")
	}
	if _, err := svc.PruneEvents(context.Background(), 30); err != nil || repo.prunedDays != 30 {
		t.Errorf("prune = %v, days %d", err, repo.prunedDays)
	}
}
