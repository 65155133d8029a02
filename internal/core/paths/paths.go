// Package paths maps patient identities and dates to storage locations.
// This is part of the Functional Core - no I/O, only pure functions.
//
// Layout under the data directory:
//
//	notes/by-mrn/<mrn>/<YYYY-MM-DD>.json
//	notes/by-uuid/<uuid>/<YYYY-MM-DD>.json
//	patient-lists/patients_<YYYY-MM-DD>.json
package paths

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/example/wardnotes/internal/errs"
)

// DateLayout is the canonical calendar date format used in file names.
const DateLayout = "2006-01-02"

const (
	notesDirName        = "notes"
	patientListsDirName = "patient-lists"
	snapshotPrefix      = "patients_"
	jsonExt             = ".json"
)

// NotesDirFor returns the notes directory for an identity.
func NotesDirFor(dataDir, idType, id string) (string, error) {
	if dataDir == "" {
		return "", errs.Unconfigured("resolve notes directory")
	}
	if idType != "mrn" && idType != "uuid" {
		return "", errs.Invalid("resolve notes directory", "unknown identity type %q", idType)
	}
	if err := checkSegment(id); err != nil {
		return "", err
	}
	return filepath.Join(dataDir, notesDirName, "by-"+idType, id), nil
}

// NoteFileFor returns the note file for an identity and an already normalised date.
func NoteFileFor(dataDir, idType, id, date string) (string, error) {
	dir, err := NotesDirFor(dataDir, idType, id)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, date+jsonExt), nil
}

// PatientListDir returns the directory holding dated snapshot files.
func PatientListDir(dataDir string) (string, error) {
	if dataDir == "" {
		return "", errs.Unconfigured("resolve patient list directory")
	}
	return filepath.Join(dataDir, patientListsDirName), nil
}

// PatientListFileFor returns the snapshot file for a date.
func PatientListFileFor(dataDir, date string) (string, error) {
	dir, err := PatientListDir(dataDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, SnapshotFileName(date)), nil
}

// SnapshotFileName returns the bare snapshot file name for a date.
func SnapshotFileName(date string) string {
	return snapshotPrefix + date + jsonExt
}

// NoteFileName returns the bare note file name for a date.
func NoteFileName(date string) string {
	return date + jsonExt
}

// NormalizeDate strips any time component from an ISO-8601 date or timestamp
// and validates the remaining calendar date.
func NormalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "T "); i >= 0 {
		s = s[:i]
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return "", errs.Invalid("normalize date", "%q is not a YYYY-MM-DD date", s)
	}
	return s, nil
}

// checkSegment rejects ids that would escape the notes tree.
func checkSegment(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return errs.Invalid("resolve notes directory", "unusable identity %q", id)
	}
	return nil
}
