// Package snapshot contains the pure rules for dated patient-list snapshots
// and dated note files.
// This is part of the Functional Core - no I/O, only pure functions.
package snapshot

import (
	"regexp"
	"slices"
	"time"

	"github.com/example/wardnotes/internal/core/paths"
)

var (
	snapshotFileRe = regexp.MustCompile(`^patients_(\d{4}-\d{2}-\d{2})\.json$`)
	noteFileRe     = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})\.json$`)
)

// Direction selects which neighbouring date AdjacentDate returns.
type Direction int

const (
	Previous Direction = iota
	Next
)

// SnapshotDates extracts the dates of snapshot file names, most recent first.
// Names that do not match patients_<YYYY-MM-DD>.json are ignored.
func SnapshotDates(fileNames []string) []string {
	return extract(snapshotFileRe, fileNames)
}

// NoteDates extracts the dates of note file names, most recent first.
func NoteDates(fileNames []string) []string {
	return extract(noteFileRe, fileNames)
}

// AdjacentDate returns the closest date before (Previous) or after (Next)
// current among dates. dates may be in any order.
func AdjacentDate(dates []string, current string, dir Direction) (string, bool) {
	var best string
	found := false
	for _, d := range dates {
		switch {
		case dir == Previous && d < current && (!found || d > best):
			best, found = d, true
		case dir == Next && d > current && (!found || d < best):
			best, found = d, true
		}
	}
	return best, found
}

// Today returns the calendar date of now in the canonical layout.
func Today(now time.Time) string {
	return now.Format(paths.DateLayout)
}

func extract(re *regexp.Regexp, fileNames []string) []string {
	seen := make(map[string]bool, len(fileNames))
	dates := make([]string, 0, len(fileNames))
	for _, name := range fileNames {
		m := re.FindStringSubmatch(name)
		if m == nil || seen[m[1]] {
			continue
		}
		if _, err := time.Parse(paths.DateLayout, m[1]); err != nil {
			continue
		}
		seen[m[1]] = true
		dates = append(dates, m[1])
	}
	slices.Sort(dates)
	slices.Reverse(dates)
	return dates
}
