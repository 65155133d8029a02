package app

import (
	"fmt"
	"strings"

	"github.com/example/wardnotes/internal/core/patient"
	"github.com/example/wardnotes/internal/ports/secondary"
)

// Button index that confirms a two-button request.
const (
	removeConfirmIndex    = 1
	overwriteConfirmIndex = 1
)

func duplicateNameRequest(existing patient.Patient) secondary.ConfirmRequest {
	return secondary.ConfirmRequest{
		Title:   "Duplicate Patient",
		Message: fmt.Sprintf("A patient named %q is already on the list.", existing.RawName),
		Detail:  "Merge Patients keeps the existing entry. Create New adds a separate patient with its own notes.",
		Buttons: patient.DuplicateChoiceLabels,
	}
}

func removeRequest(p patient.Patient, date string) secondary.ConfirmRequest {
	return secondary.ConfirmRequest{
		Title:   "Remove Patient",
		Message: fmt.Sprintf("Remove %s from the list for %s?", p.DisplayName(), date),
		Detail:  "Their notes are preserved and will be available again if the patient is re-added.",
		Buttons: []string{"Cancel", "Remove from List"},
	}
}

func overwriteRequest(mrn string, conflicts []string) secondary.ConfirmRequest {
	return secondary.ConfirmRequest{
		Title:   "Overwrite Notes",
		Message: fmt.Sprintf("MRN %s already has notes for: %s.", mrn, strings.Join(conflicts, ", ")),
		Detail:  "Merging replaces those notes with the ones being moved.",
		Buttons: []string{"Cancel", "Overwrite"},
	}
}
