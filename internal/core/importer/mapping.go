// Package importer maps rows of an external patient-list export onto patient
// records.
// This is part of the Functional Core - no I/O, only pure functions.
package importer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/example/wardnotes/internal/core/patient"
)

// Mode selects how imported rows combine with the active list.
type Mode string

const (
	// ModeMerge appends rows whose id and MRN are not already listed.
	ModeMerge Mode = "merge"
	// ModeReplace replaces the active list with the imported rows.
	ModeReplace Mode = "replace"
)

// ParseMode validates an import mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeMerge:
		return ModeMerge, nil
	case ModeReplace:
		return ModeReplace, nil
	}
	return "", fmt.Errorf("unknown import mode %q (want merge or replace)", s)
}

// Skipped records a row that produced no patient.
type Skipped struct {
	Row    int // 1-based data row number, header excluded
	Reason string
}

// Column aliases accepted in export headers, keyed by normalised header.
var columnAliases = map[string]string{
	"umrn":           "mrn",
	"mrn":            "mrn",
	"name":           "name",
	"patient_name":   "name",
	"location":       "location",
	"bed":            "location",
	"ward":           "ward",
	"age":            "age",
	"los":            "los",
	"admission_date": "admission_date",
	"cons_name":      "cons_name",
	"consultant":     "cons_name",
	"dsc_date":       "dsc_date",
	"discharge_date": "dsc_date",
	"diagnosis":      "diagnosis",
}

// MapRows converts header-keyed rows into patients. Rows with neither an MRN
// nor a name are skipped. newID supplies ids for rows without an MRN.
func MapRows(rows []map[string]string, newID func() string) ([]patient.Patient, []Skipped) {
	var out []patient.Patient
	var skipped []Skipped

	for i, raw := range rows {
		row := normalizeRow(raw)
		mrn := row["mrn"]
		name := row["name"]
		if mrn == "" && name == "" {
			skipped = append(skipped, Skipped{Row: i + 1, Reason: "missing MRN and name"})
			continue
		}

		p := patient.Patient{
			MRN:            mrn,
			RawName:        name,
			Location:       row["location"],
			Ward:           row["ward"],
			Age:            scalarOf(row["age"]),
			LengthOfStay:   scalarOf(row["los"]),
			AdmissionDate:  row["admission_date"],
			ConsultantName: row["cons_name"],
			DischargeDate:  row["dsc_date"],
			Diagnosis:      row["diagnosis"],
		}
		if mrn != "" {
			p.ID, p.Type = mrn, patient.IdentityMRN
		} else {
			p.ID, p.Type = newID(), patient.IdentityUUID
		}
		out = append(out, patient.Sanitize(p))
	}
	return out, skipped
}

var exportFileRe = regexp.MustCompile(`(?i)^pt_list_(\d{2})_(\d{2})_(\d{4})\.(csv|xlsx)$`)

// PickExportFile chooses the export to import from a folder listing: among
// names matching pt_list_DD_MM_YYYY.csv (or .xlsx), the one with the latest
// date in its name.
func PickExportFile(fileNames []string) (string, bool) {
	var best string
	var bestDate time.Time
	for _, name := range fileNames {
		m := exportFileRe.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		d, err := time.Parse("02_01_2006", m[1]+"_"+m[2]+"_"+m[3])
		if err != nil {
			continue
		}
		if best == "" || d.After(bestDate) {
			best, bestDate = name, d
		}
	}
	return best, best != ""
}

func normalizeRow(raw map[string]string) map[string]string {
	row := make(map[string]string, len(raw))
	for k, v := range raw {
		key := strings.ToLower(strings.TrimSpace(k))
		key = strings.ReplaceAll(key, " ", "_")
		canonical, ok := columnAliases[key]
		if !ok {
			continue
		}
		if v = strings.TrimSpace(v); v != "" {
			row[canonical] = v
		}
	}
	return row
}

// scalarOf keeps numeric cells numeric, the way spreadsheet exports type them.
func scalarOf(v string) patient.Scalar {
	if v == "" {
		return patient.Scalar{}
	}
	if _, err := strconv.ParseFloat(v, 64); err == nil {
		if s, err := patient.Number(v); err == nil {
			return s
		}
	}
	return patient.Text(v)
}
