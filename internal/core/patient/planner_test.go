package patient

import (
	"path/filepath"
	"testing"

	"github.com/example/wardnotes/internal/core/effects"
)

func TestGenerateMergePlan(t *testing.T) {
	input := MergePlanInput{
		SourceDir: "/d/notes/by-uuid/u1",
		TargetDir: "/d/notes/by-mrn/M1",
		Notes: map[string][]byte{
			"2024-01-02.json": []byte("two"),
			"2024-01-01.json": []byte("one"),
		},
	}

	plan := GenerateMergePlan(input)

	if plan.CreateTarget == nil || plan.CreateTarget.Operation != effects.FileMkdir || plan.CreateTarget.Path != input.TargetDir {
		t.Errorf("expected mkdir of target, got %+v", plan.CreateTarget)
	}
	if len(plan.Writes) != 2 {
		t.Fatalf("expected 2 writes, got %d", len(plan.Writes))
	}
	first := plan.Writes[0]
	if first.Operation != effects.FileWrite ||
		first.Path != filepath.Join(input.TargetDir, "2024-01-01.json") ||
		string(first.Content) != "one" {
		t.Errorf("unexpected first write %+v", first)
	}
	if len(plan.RemoveSources) != 2 || plan.RemoveSources[1].Path != filepath.Join(input.SourceDir, "2024-01-02.json") {
		t.Errorf("unexpected source removals %+v", plan.RemoveSources)
	}
	for _, r := range plan.RemoveSources {
		if r.Operation != effects.FileRemove {
			t.Errorf("expected single-file remove, got %s", r.Operation)
		}
	}
	if plan.RemoveDir.Operation != effects.FileRemove || plan.RemoveDir.Path != input.SourceDir {
		t.Errorf("unexpected directory removal %+v", plan.RemoveDir)
	}
	if len(plan.Conflicts) != 0 {
		t.Errorf("expected no conflicts, got %v", plan.Conflicts)
	}

	effs := plan.Effects()
	if len(effs) != 3 {
		t.Fatalf("expected mkdir + 2 writes, got %d effects", len(effs))
	}
	for _, e := range effs {
		if e.(effects.FileEffect).Operation == effects.FileRemove {
			t.Error("copy phase must not remove anything")
		}
	}
}

func TestGenerateMergePlan_ExistingTargetWithConflicts(t *testing.T) {
	plan := GenerateMergePlan(MergePlanInput{
		SourceDir:    "/s",
		TargetDir:    "/t",
		TargetExists: true,
		Notes:        map[string][]byte{"2024-01-01.json": nil, "2024-01-03.json": nil},
		TargetFiles:  []string{"2024-01-01.json", "2024-01-02.json"},
	})

	if plan.CreateTarget != nil {
		t.Error("expected no mkdir for existing target")
	}
	if len(plan.Conflicts) != 1 || plan.Conflicts[0] != "2024-01-01.json" {
		t.Errorf("Conflicts = %v, want [2024-01-01.json]", plan.Conflicts)
	}
}

func TestGenerateMergePlan_EmptySource(t *testing.T) {
	plan := GenerateMergePlan(MergePlanInput{SourceDir: "/s", TargetDir: "/t"})
	if len(plan.Writes) != 0 || len(plan.RemoveSources) != 0 {
		t.Errorf("expected nothing to copy, got %+v", plan)
	}
	if len(plan.Effects()) != 1 {
		t.Errorf("expected only mkdir, got %d effects", len(plan.Effects()))
	}
	if plan.RemoveDir.Path != "/s" {
		t.Errorf("expected empty source directory still removed, got %+v", plan.RemoveDir)
	}
}

func TestParseUnreadablePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    UnreadablePolicy
		wantErr bool
	}{
		{"", UnreadableKeepSource, false},
		{"keep-source", UnreadableKeepSource, false},
		{" ABORT ", UnreadableAbort, false},
		{"skip", "", true},
	}
	for _, tt := range tests {
		got, err := ParseUnreadablePolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseUnreadablePolicy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseUnreadablePolicy(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
