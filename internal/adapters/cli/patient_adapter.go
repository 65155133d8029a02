// Package cli contains output adapters that translate command invocations
// into service calls and render the results for a terminal.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/example/wardnotes/internal/core/patient"
	"github.com/example/wardnotes/internal/errs"
	"github.com/example/wardnotes/internal/ports/primary"
)

// PatientAdapter translates CLI operations to PatientService calls.
type PatientAdapter struct {
	service primary.PatientService
	out     io.Writer
}

// NewPatientAdapter creates a new PatientAdapter with the given service.
func NewPatientAdapter(service primary.PatientService, out io.Writer) *PatientAdapter {
	return &PatientAdapter{
		service: service,
		out:     out,
	}
}

// Open activates the list of date so later calls operate on it.
func (a *PatientAdapter) Open(ctx context.Context, date string) error {
	if _, err := a.service.NavigateToDate(ctx, date); err != nil {
		return fmt.Errorf("failed to open list for %s: %w", date, err)
	}
	return nil
}

// Resolve finds a working-list patient by id, falling back to MRN.
func (a *PatientAdapter) Resolve(ref string) (*patient.Patient, error) {
	p, err := a.service.GetPatient(ref)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}
	return a.service.GetPatientByMRN(ref)
}

// List prints the patients of date, ordered by mode and filtered by term.
func (a *PatientAdapter) List(ctx context.Context, date string, mode patient.SortMode, term string) ([]patient.Patient, error) {
	if err := a.Open(ctx, date); err != nil {
		return nil, err
	}

	list := a.service.Sorted(mode)
	if strings.TrimSpace(term) != "" {
		matches := make(map[string]bool)
		for _, p := range a.service.Search(term) {
			matches[p.ID] = true
		}
		filtered := list[:0]
		for _, p := range list {
			if matches[p.ID] {
				filtered = append(filtered, p)
			}
		}
		list = filtered
	}

	fmt.Fprintf(a.out, "Patient list for %s\n\n", a.service.ActiveDate())

	if len(list) == 0 {
		if term != "" {
			fmt.Fprintf(a.out, "No patients match %q.\n", term)
			return list, nil
		}
		fmt.Fprintln(a.out, "No patients on this list.")
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "Add one:")
		fmt.Fprintln(a.out, "  wardnotes patient add \"SMITH, John\" --mrn 12345678 --location \"Bed 4\"")
		return list, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tLOCATION\tWARD\tAGE\tDIAGNOSIS")
	fmt.Fprintln(w, "--\t----\t--------\t----\t---\t---------")
	for _, p := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			displayID(p),
			p.DisplayName(),
			p.Location,
			p.Ward,
			p.Age.String(),
			p.Diagnosis,
		)
	}
	w.Flush()

	return list, nil
}

// Show prints every stored field of one patient.
func (a *PatientAdapter) Show(ctx context.Context, date, ref string) (*patient.Patient, error) {
	if err := a.Open(ctx, date); err != nil {
		return nil, err
	}
	p, err := a.Resolve(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	fmt.Fprintf(a.out, "\nPatient: %s\n", p.DisplayName())
	fmt.Fprintf(a.out, "ID:         %s (%s)\n", p.ID, p.Type)
	printIfSet(a.out, "MRN:        ", p.MRN)
	printIfSet(a.out, "Location:   ", p.Location)
	printIfSet(a.out, "Ward:       ", p.Ward)
	printIfSet(a.out, "Age:        ", p.Age.String())
	printIfSet(a.out, "LOS:        ", p.LengthOfStay.String())
	printIfSet(a.out, "Admitted:   ", p.AdmissionDate)
	printIfSet(a.out, "Consultant: ", p.ConsultantName)
	printIfSet(a.out, "Discharge:  ", p.DischargeDate)
	printIfSet(a.out, "Diagnosis:  ", p.Diagnosis)
	fmt.Fprintln(a.out)

	return p, nil
}

// Add adds a patient to the list of date.
func (a *PatientAdapter) Add(ctx context.Context, date string, p patient.Patient) (*primary.AddPatientResponse, error) {
	if err := a.Open(ctx, date); err != nil {
		return nil, err
	}

	resp, err := a.service.AddPatient(ctx, primary.AddPatientRequest{Patient: p})
	if err != nil {
		return nil, fmt.Errorf("failed to add patient: %w", err)
	}
	if resp == nil {
		fmt.Fprintln(a.out, "Cancelled. No patient added.")
		return nil, nil
	}

	switch resp.Outcome {
	case primary.AddMergedExisting:
		fmt.Fprintf(a.out, "✓ %s is already on the list as %s\n", resp.Patient.DisplayName(), resp.Patient.ID)
	default:
		fmt.Fprintf(a.out, "✓ Added %s (%s)\n", resp.Patient.DisplayName(), displayID(resp.Patient))
		if resp.ReusedNotes {
			fmt.Fprintf(a.out, "  Existing notes found in %s\n", resp.NotesDir)
		}
	}
	return resp, nil
}

// Update applies field changes to a patient on the list of date.
func (a *PatientAdapter) Update(ctx context.Context, date, ref string, changes map[string]string) error {
	if len(changes) == 0 {
		return fmt.Errorf("must specify at least one field=value change")
	}
	if err := a.Open(ctx, date); err != nil {
		return err
	}
	current, err := a.Resolve(ref)
	if err != nil {
		return fmt.Errorf("failed to get patient: %w", err)
	}

	updated, err := ApplyFields(*current, changes)
	if err != nil {
		return err
	}
	if err := a.service.UpdatePatient(ctx, updated); err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}

	fmt.Fprintf(a.out, "✓ Patient %s updated\n", displayID(*current))
	return nil
}

// Remove takes a patient off the list of date. Notes are kept.
func (a *PatientAdapter) Remove(ctx context.Context, date, ref string) error {
	if err := a.Open(ctx, date); err != nil {
		return err
	}
	p, err := a.Resolve(ref)
	if err != nil {
		return fmt.Errorf("failed to get patient: %w", err)
	}

	removed, err := a.service.RemovePatient(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("failed to remove patient: %w", err)
	}
	if !removed {
		fmt.Fprintln(a.out, "Cancelled. Patient kept on the list.")
		return nil
	}

	fmt.Fprintf(a.out, "✓ Removed %s from %s (notes preserved)\n", p.DisplayName(), date)
	return nil
}

// Merge moves a uuid patient's notes under mrn.
func (a *PatientAdapter) Merge(ctx context.Context, date, uuidID, mrn string) (*primary.MergeResult, error) {
	if err := a.Open(ctx, date); err != nil {
		return nil, err
	}

	result, err := a.service.MergePatientData(ctx, uuidID, mrn)
	if errors.Is(err, errs.ErrCancelled) {
		fmt.Fprintln(a.out, "Cancelled. Nothing was merged.")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to merge patient: %w", err)
	}

	fmt.Fprintf(a.out, "✓ Merged %s into MRN %s\n", uuidID, mrn)
	fmt.Fprintf(a.out, "  Moved %d note file(s) to %s\n", len(result.Moved), result.TargetDir)
	if len(result.Overwritten) > 0 {
		fmt.Fprintf(a.out, "  Overwrote: %s\n", strings.Join(result.Overwritten, ", "))
	}
	if result.Status == primary.MergePartial {
		warn := color.New(color.FgYellow)
		if len(result.Skipped) > 0 {
			warn.Fprintf(a.out, "  ! Could not read: %s\n", strings.Join(result.Skipped, ", "))
		}
		warn.Fprintf(a.out, "  ! Kept %s, it still holds: %s\n", result.SourceDir, strings.Join(result.Remaining, ", "))
	} else if !result.SourceRemoved {
		color.New(color.FgYellow).Fprintf(a.out, "  ! %s could not be removed\n", result.SourceDir)
	}
	return result, nil
}

// Carry copies the patients of one date onto another, skipping anyone
// already listed there.
func (a *PatientAdapter) Carry(ctx context.Context, from, to string) ([]patient.Patient, error) {
	list, err := a.service.LoadSnapshot(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("failed to load list for %s: %w", from, err)
	}

	added, err := a.service.AddPatientsToDate(ctx, list, to)
	if err != nil {
		return nil, fmt.Errorf("failed to carry patients to %s: %w", to, err)
	}

	if len(added) == 0 {
		fmt.Fprintf(a.out, "Everyone on %s is already on %s.\n", from, to)
		return added, nil
	}
	fmt.Fprintf(a.out, "✓ Carried %d patient(s) from %s to %s\n", len(added), from, to)
	for _, p := range added {
		fmt.Fprintf(a.out, "  %s\n", p.DisplayName())
	}
	return added, nil
}

// Reorder sets a custom order for the list of date.
func (a *PatientAdapter) Reorder(ctx context.Context, date string, refs []string) error {
	if err := a.Open(ctx, date); err != nil {
		return err
	}

	ids := make([]string, len(refs))
	for i, ref := range refs {
		p, err := a.Resolve(ref)
		if err != nil {
			return fmt.Errorf("failed to get patient: %w", err)
		}
		ids[i] = p.ID
	}

	if err := a.service.Reorder(ctx, ids); err != nil {
		return fmt.Errorf("failed to reorder patients: %w", err)
	}

	fmt.Fprintf(a.out, "✓ List for %s reordered\n", a.service.ActiveDate())
	return nil
}

// displayID shows MRN patients by MRN and marks generated ids.
func displayID(p patient.Patient) string {
	if p.Type == patient.IdentityUUID {
		return p.ID + " (no MRN)"
	}
	return p.ID
}

func printIfSet(out io.Writer, label, value string) {
	if value != "" {
		fmt.Fprintf(out, "%s%s\n", label, value)
	}
}
