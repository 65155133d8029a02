package patient

import (
	"fmt"
	"strings"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string // Human-readable reason (populated when not allowed)
}

// Error returns the guard result as an error if not allowed, nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

func allow() GuardResult { return GuardResult{Allowed: true} }

func deny(format string, args ...any) GuardResult {
	return GuardResult{Allowed: false, Reason: fmt.Sprintf(format, args...)}
}

// CanAddPatient checks the minimum data for a new list entry.
// Rule: a patient needs a name or an MRN.
func CanAddPatient(data Patient) GuardResult {
	if strings.TrimSpace(data.RawName) == "" && strings.TrimSpace(data.MRN) == "" {
		return deny("a patient needs a name or an MRN")
	}
	return allow()
}

// CanUpdatePatient checks that an update leaves identity untouched.
// Rule: id and type never change through update; an MRN is attached to a
// uuid patient only by merging.
func CanUpdatePatient(current, updated Patient) GuardResult {
	if current.Type == IdentityUUID && strings.TrimSpace(updated.MRN) != "" {
		return deny("patient %s has no MRN yet - attach one with: wardnotes patient merge %s <mrn>", current.ID, current.ID)
	}
	if current.Type == IdentityMRN && strings.TrimSpace(updated.MRN) != "" && strings.TrimSpace(updated.MRN) != current.MRN {
		return deny("cannot change MRN of patient %s from %s to %s", current.ID, current.MRN, updated.MRN)
	}
	return allow()
}

// MergeContext provides pre-fetched facts for merge guards.
type MergeContext struct {
	UUIDID        string
	MRN           string
	InList        bool         // entry present in the on-disk snapshot
	Type          IdentityType // type of that entry, if present
	SourceDirSeen bool         // uuid notes directory exists
}

// CanMergePatient evaluates whether a uuid identity may be merged into an MRN.
func CanMergePatient(ctx MergeContext) GuardResult {
	mrn := strings.TrimSpace(ctx.MRN)
	switch {
	case mrn == "":
		return deny("an MRN is required to merge patient %s", ctx.UUIDID)
	case mrn == ctx.UUIDID:
		return deny("patient %s already uses %s as its id", ctx.UUIDID, mrn)
	case !ctx.SourceDirSeen:
		return deny("no notes directory for patient %s - nothing to merge", ctx.UUIDID)
	case !ctx.InList:
		return deny("patient %s is not in the patient list", ctx.UUIDID)
	case ctx.Type == IdentityMRN:
		return deny("patient %s is already identified by MRN", ctx.UUIDID)
	}
	return allow()
}

// DuplicateChoice is the user's answer to the duplicate-name prompt.
type DuplicateChoice int

const (
	DuplicateCancel DuplicateChoice = iota
	DuplicateMerge
	DuplicateCreateNew
)

// DuplicateChoiceLabels lists the prompt buttons in choice-index order.
var DuplicateChoiceLabels = []string{"Cancel", "Merge Patients", "Create New"}

// DuplicateChoiceFromIndex maps a prompt answer to a choice. Anything out of
// range is treated as cancel.
func DuplicateChoiceFromIndex(i int) DuplicateChoice {
	switch DuplicateChoice(i) {
	case DuplicateMerge, DuplicateCreateNew:
		return DuplicateChoice(i)
	}
	return DuplicateCancel
}
