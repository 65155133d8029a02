package app

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/example/wardnotes/internal/core/patient"
	"github.com/example/wardnotes/internal/errs"
	"github.com/example/wardnotes/internal/ports/primary"
)

// mergeFixture sets up patient u1 (uuid) on today's list with the given notes.
func mergeFixture(t *testing.T, notes map[string]string) *patientFixture {
	t.Helper()
	f := newPatientFixture(testDataDir)
	f.store.put(listPath(testToday), `[
  {"id": "M0", "mrn": "M0", "name": "First Patient"},
  {"id": "u1", "type": "uuid", "name": "Jane Doe", "location": "Bed 4"}
]`)
	f.store.addDir(uuidDir("u1"))
	for name, content := range notes {
		f.store.put(uuidDir("u1")+"/"+name, content)
	}
	if _, err := f.svc.LoadSnapshot(context.Background(), testToday); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	return f
}

func TestMergePatientData_MovesNotesAndRewritesEntry(t *testing.T) {
	note := `{"date":"2024-01-01","content":"hello"}`
	f := mergeFixture(t, map[string]string{"2024-01-01.json": note})
	ctx := context.Background()

	result, err := f.svc.MergePatientData(ctx, "u1", "MRN123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := f.store.content(t, mrnDir("MRN123")+"/2024-01-01.json"); got != note {
		t.Errorf("moved note = %q, want %q", got, note)
	}
	if exists, _ := f.store.Exists(ctx, uuidDir("u1")); exists {
		t.Error("expected uuid directory to be removed")
	}

	list := decodeList(t, f.store.content(t, listPath(testToday)))
	entry := list[1]
	if entry.ID != "MRN123" || entry.Type != patient.IdentityMRN || entry.MRN != "MRN123" {
		t.Errorf("expected rewritten entry in place, got %+v", entry)
	}
	if entry.Location != "Bed 4" {
		t.Errorf("expected descriptive fields kept, got %+v", entry)
	}
	if mem := f.svc.Patients(); mem[1].ID != "MRN123" {
		t.Errorf("expected working list updated, got %+v", mem[1])
	}

	if result.Status != primary.MergeComplete || !result.SourceRemoved {
		t.Errorf("expected complete merge with source removed, got %+v", result)
	}
	if !slices.Equal(result.Moved, []string{"2024-01-01.json"}) {
		t.Errorf("moved = %v", result.Moved)
	}
	if custom := ids(f.svc.Sorted(patient.SortCustom)); !slices.Equal(custom, []string{"M0", "MRN123"}) {
		t.Errorf("custom order = %v", custom)
	}
	if f.events.events[len(f.events.events)-1] != "merge:u1:"+testToday+":MRN123" {
		t.Errorf("expected merge audit event, got %v", f.events.events)
	}
}

func TestMergePatientData_PreservesEveryNote(t *testing.T) {
	notes := map[string]string{
		"2024-01-01.json": `{"date":"2024-01-01","content":"one"}`,
		"2024-01-02.json": `{"date":"2024-01-02","content":"two"}`,
		"2024-01-03.json": `{"date":"2024-01-03","content":"three\nlines"}`,
	}
	f := mergeFixture(t, notes)

	result, err := f.svc.MergePatientData(context.Background(), "u1", "M9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Moved) != len(notes) {
		t.Errorf("moved %d notes, want %d", len(result.Moved), len(notes))
	}
	for name, content := range notes {
		if got := f.store.content(t, mrnDir("M9")+"/"+name); got != content {
			t.Errorf("%s = %q, want %q", name, got, content)
		}
	}
}

func TestMergePatientData_NotFound(t *testing.T) {
	t.Run("no uuid directory", func(t *testing.T) {
		f := mergeFixture(t, nil)
		delete(f.store.dirs, uuidDir("u1"))

		_, err := f.svc.MergePatientData(context.Background(), "u1", "M9")
		if !errors.Is(err, errs.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("entry missing from list on disk", func(t *testing.T) {
		f := mergeFixture(t, map[string]string{"2024-01-01.json": "{}"})
		f.store.put(listPath(testToday), `[{"id": "M0", "mrn": "M0"}]`)

		_, err := f.svc.MergePatientData(context.Background(), "u1", "M9")
		if !errors.Is(err, errs.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if exists, _ := f.store.Exists(context.Background(), mrnDir("M9")); exists {
			t.Error("expected nothing moved when the entry is missing")
		}
	})
}

func TestMergePatientData_GuardRejections(t *testing.T) {
	f := mergeFixture(t, map[string]string{"2024-01-01.json": "{}"})
	f.store.addDir(uuidDir("M0"))

	_, err := f.svc.MergePatientData(context.Background(), "M0", "M7")
	if !errors.Is(err, errs.ErrInvalidArgument) {
		t.Errorf("expected merging an MRN patient to be rejected, got %v", err)
	}
	if err != nil && !strings.Contains(err.Error(), "already identified by MRN") {
		t.Errorf("expected guard reason in error, got %v", err)
	}
	_, err = f.svc.MergePatientData(context.Background(), "u1", " ")
	if !errors.Is(err, errs.ErrInvalidArgument) {
		t.Errorf("expected empty MRN to be rejected, got %v", err)
	}
}

func TestMergePatientData_UnreadableNoteKeepSource(t *testing.T) {
	f := mergeFixture(t, map[string]string{
		"2024-01-01.json": `{"date":"2024-01-01","content":"ok"}`,
		"2024-01-02.json": `{"date":"2024-01-02","content":"locked"}`,
	})
	f.store.readErr[uuidDir("u1")+"/2024-01-02.json"] = errors.New("permission denied")

	result, err := f.svc.MergePatientData(context.Background(), "u1", "M9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != primary.MergePartial || result.SourceRemoved {
		t.Errorf("expected partial merge keeping the source, got %+v", result)
	}
	if !slices.Equal(result.Skipped, []string{"2024-01-02.json"}) {
		t.Errorf("skipped = %v", result.Skipped)
	}
	if f.store.content(t, uuidDir("u1")+"/2024-01-02.json") == "" {
		t.Error("unreadable note must stay in the uuid directory")
	}
	if _, ok := f.store.files[uuidDir("u1")+"/2024-01-01.json"]; ok {
		t.Error("expected the copied note deleted from the uuid directory")
	}
	if !slices.Equal(result.Remaining, []string{"2024-01-02.json"}) {
		t.Errorf("remaining = %v", result.Remaining)
	}
	if f.svc.Patients()[1].ID != "M9" {
		t.Error("expected list rewritten despite skipped note")
	}
}

func TestMergePatientData_UnreadableNoteAbort(t *testing.T) {
	f := mergeFixture(t, map[string]string{
		"2024-01-01.json": `{"date":"2024-01-01","content":"ok"}`,
		"2024-01-02.json": `{"date":"2024-01-02","content":"locked"}`,
	})
	f.svc.policy = patient.UnreadableAbort
	f.store.readErr[uuidDir("u1")+"/2024-01-02.json"] = errors.New("permission denied")
	before := f.store.content(t, listPath(testToday))

	_, err := f.svc.MergePatientData(context.Background(), "u1", "M9")
	if err == nil {
		t.Fatal("expected merge to abort")
	}
	if exists, _ := f.store.Exists(context.Background(), mrnDir("M9")); exists {
		t.Error("expected no MRN directory after abort")
	}
	if f.store.content(t, listPath(testToday)) != before {
		t.Error("expected list untouched after abort")
	}
}

func TestMergePatientData_OverwriteNeedsConfirmation(t *testing.T) {
	setup := func(t *testing.T) *patientFixture {
		f := mergeFixture(t, map[string]string{"2024-01-01.json": `{"date":"2024-01-01","content":"new"}`})
		f.store.put(mrnDir("M9")+"/2024-01-01.json", `{"date":"2024-01-01","content":"existing"}`)
		return f
	}

	t.Run("refused", func(t *testing.T) {
		f := setup(t)
		_, err := f.svc.MergePatientData(context.Background(), "u1", "M9")
		if !errors.Is(err, errs.ErrCancelled) {
			t.Fatalf("expected ErrCancelled, got %v", err)
		}
		if got := f.store.content(t, mrnDir("M9")+"/2024-01-01.json"); got != `{"date":"2024-01-01","content":"existing"}` {
			t.Errorf("existing note changed: %q", got)
		}
		if f.svc.Patients()[1].ID != "u1" {
			t.Error("expected list untouched")
		}
	})

	t.Run("confirmed", func(t *testing.T) {
		f := setup(t)
		f.confirm.answers = []int{1}
		result, err := f.svc.MergePatientData(context.Background(), "u1", "M9")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !slices.Equal(result.Overwritten, []string{"2024-01-01.json"}) {
			t.Errorf("overwritten = %v", result.Overwritten)
		}
		if got := f.store.content(t, mrnDir("M9")+"/2024-01-01.json"); got != `{"date":"2024-01-01","content":"new"}` {
			t.Errorf("note = %q", got)
		}
	})
}

func TestMergePatientData_ListWriteFailureRollsBack(t *testing.T) {
	t.Run("new MRN directory", func(t *testing.T) {
		f := mergeFixture(t, map[string]string{"2024-01-01.json": `{"date":"2024-01-01","content":"hello"}`})
		f.store.writeErr[listPath(testToday)] = errors.New("disk full")

		_, err := f.svc.MergePatientData(context.Background(), "u1", "M9")
		if err == nil {
			t.Fatal("expected failure")
		}
		if exists, _ := f.store.Exists(context.Background(), mrnDir("M9")); exists {
			t.Error("expected MRN directory removed again")
		}
		if f.store.content(t, uuidDir("u1")+"/2024-01-01.json") == "" {
			t.Error("expected uuid notes intact")
		}
		if f.svc.Patients()[1].ID != "u1" {
			t.Error("expected working list untouched")
		}
	})

	t.Run("existing MRN directory", func(t *testing.T) {
		f := mergeFixture(t, map[string]string{
			"2024-01-01.json": `{"date":"2024-01-01","content":"new"}`,
			"2024-01-02.json": `{"date":"2024-01-02","content":"fresh"}`,
		})
		f.store.put(mrnDir("M9")+"/2024-01-01.json", "original")
		f.confirm.answers = []int{1}
		f.store.writeErr[listPath(testToday)] = errors.New("disk full")

		if _, err := f.svc.MergePatientData(context.Background(), "u1", "M9"); err == nil {
			t.Fatal("expected failure")
		}
		if got := f.store.content(t, mrnDir("M9")+"/2024-01-01.json"); got != "original" {
			t.Errorf("expected overwritten note restored, got %q", got)
		}
		if _, ok := f.store.files[mrnDir("M9")+"/2024-01-02.json"]; ok {
			t.Error("expected newly written note removed")
		}
	})
}

func TestMergePatientData_SourceRemovalFailureIsNotFatal(t *testing.T) {
	f := mergeFixture(t, map[string]string{"2024-01-01.json": "{}"})
	f.store.removeErr[uuidDir("u1")] = errors.New("busy")

	result, err := f.svc.MergePatientData(context.Background(), "u1", "M9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != primary.MergeComplete || result.SourceRemoved {
		t.Errorf("expected complete merge without source removal, got %+v", result)
	}
}

func TestMergePatientData_IntoListedMRN(t *testing.T) {
	f := mergeFixture(t, map[string]string{"2024-01-01.json": "{}"})

	result, err := f.svc.MergePatientData(context.Background(), "u1", "M0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ids(f.svc.Patients()); !slices.Equal(got, []string{"M0"}) {
		t.Errorf("expected uuid entry folded into M0, got %v", got)
	}
	if result.Patient.ID != "M0" || result.Patient.RawName != "First Patient" {
		t.Errorf("expected existing MRN entry in result, got %+v", result.Patient)
	}
}

func TestMergePatientData_KeepsUnlistedEntries(t *testing.T) {
	f := mergeFixture(t, map[string]string{"2024-01-01.json": `{"date":"2024-01-01","content":"ok"}`})
	f.store.put(uuidDir("u1")+"/attachments/scan.pdf", "scan")

	result, err := f.svc.MergePatientData(context.Background(), "u1", "M9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != primary.MergePartial || result.SourceRemoved {
		t.Errorf("expected partial merge keeping the source, got %+v", result)
	}
	if !slices.Equal(result.Remaining, []string{"attachments"}) {
		t.Errorf("remaining = %v", result.Remaining)
	}
	if f.store.content(t, uuidDir("u1")+"/attachments/scan.pdf") != "scan" {
		t.Error("expected subdirectory content kept")
	}
}
