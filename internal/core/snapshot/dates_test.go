package snapshot

import (
	"reflect"
	"testing"
	"time"
)

func TestSnapshotDates(t *testing.T) {
	files := []string{
		"patients_2024-01-02.json",
		"patients_2024-03-01.json",
		"patients_2023-12-31.json",
		"patients.json",
		"patients_2024-13-01.json",
		"notes",
		"patients_2024-01-02.json.bak",
		".DS_Store",
	}

	got := SnapshotDates(files)

	want := []string{"2024-03-01", "2024-01-02", "2023-12-31"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SnapshotDates() = %v, want %v", got, want)
	}
}

func TestSnapshotDates_Empty(t *testing.T) {
	if got := SnapshotDates(nil); len(got) != 0 {
		t.Errorf("expected no dates, got %v", got)
	}
}

func TestNoteDates(t *testing.T) {
	got := NoteDates([]string{"2024-01-01.json", "2024-02-01.json", "draft.txt", "patients_2024-01-01.json"})
	want := []string{"2024-02-01", "2024-01-01"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NoteDates() = %v, want %v", got, want)
	}
}

func TestAdjacentDate(t *testing.T) {
	dates := []string{"2024-01-05", "2024-01-01", "2024-01-03"}
	tests := []struct {
		name    string
		current string
		dir     Direction
		want    string
		wantOK  bool
	}{
		{"previous in middle", "2024-01-04", Previous, "2024-01-03", true},
		{"next in middle", "2024-01-03", Next, "2024-01-05", true},
		{"previous at start", "2024-01-01", Previous, "", false},
		{"next at end", "2024-01-05", Next, "", false},
		{"previous from gap", "2024-01-02", Previous, "2024-01-01", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := AdjacentDate(dates, tt.current, tt.dir)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("AdjacentDate(%s) = (%q, %v), want (%q, %v)", tt.current, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestToday(t *testing.T) {
	now := time.Date(2026, 10, 19, 23, 59, 0, 0, time.UTC)
	if got := Today(now); got != "2026-10-19" {
		t.Errorf("Today() = %q", got)
	}
}
