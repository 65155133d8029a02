package patient

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/example/wardnotes/internal/core/effects"
)

// UnreadablePolicy decides what a merge does with a note it cannot read.
type UnreadablePolicy string

const (
	// UnreadableAbort reads every note before writing anything and aborts the
	// merge if any read fails.
	UnreadableAbort UnreadablePolicy = "abort"
	// UnreadableKeepSource moves the readable notes, rewrites the list, and
	// keeps the uuid directory holding the unreadable ones.
	UnreadableKeepSource UnreadablePolicy = "keep-source"
)

// ParseUnreadablePolicy validates a policy name. Empty means keep-source.
func ParseUnreadablePolicy(s string) (UnreadablePolicy, error) {
	switch UnreadablePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", UnreadableKeepSource:
		return UnreadableKeepSource, nil
	case UnreadableAbort:
		return UnreadableAbort, nil
	}
	return "", fmt.Errorf("unknown merge policy %q (want abort or keep-source)", s)
}

// MergePlanInput contains pre-fetched data for moving a uuid notes directory
// into an MRN notes directory.
type MergePlanInput struct {
	SourceDir    string
	TargetDir    string
	TargetExists bool
	Notes        map[string][]byte // readable notes in SourceDir, by bare file name
	TargetFiles  []string          // bare file names already in TargetDir
}

// MergePlan represents the planned file effects of a merge.
// Writes run before the patient list is rewritten; the removals run after it.
type MergePlan struct {
	CreateTarget  *effects.FileEffect
	Writes        []effects.FileEffect // note copies into TargetDir
	Conflicts     []string             // file names that would overwrite an existing target file
	RemoveSources []effects.FileEffect // one per copied note in SourceDir
	RemoveDir     effects.FileEffect   // SourceDir itself, only once empty
}

// Effects returns the copy phase as a flat slice in execution order.
func (p MergePlan) Effects() []effects.Effect {
	result := make([]effects.Effect, 0, len(p.Writes)+1)
	if p.CreateTarget != nil {
		result = append(result, *p.CreateTarget)
	}
	for _, e := range p.Writes {
		result = append(result, e)
	}
	return result
}

// GenerateMergePlan creates a plan for a copy-then-delete directory move.
// Only the notes in input.Notes are copied and removed; anything else in
// SourceDir stays, which keeps RemoveDir from succeeding.
// This is a pure function - all input data must be pre-fetched.
func GenerateMergePlan(input MergePlanInput) MergePlan {
	plan := MergePlan{
		RemoveDir: effects.FileEffect{Operation: effects.FileRemove, Path: input.SourceDir},
	}
	if !input.TargetExists {
		plan.CreateTarget = &effects.FileEffect{Operation: effects.FileMkdir, Path: input.TargetDir}
	}

	names := slices.Sorted(maps.Keys(input.Notes))
	for _, name := range names {
		if slices.Contains(input.TargetFiles, name) {
			plan.Conflicts = append(plan.Conflicts, name)
		}
		plan.Writes = append(plan.Writes, effects.FileEffect{
			Operation: effects.FileWrite,
			Path:      filepath.Join(input.TargetDir, name),
			Content:   input.Notes[name],
		})
		plan.RemoveSources = append(plan.RemoveSources, effects.FileEffect{
			Operation: effects.FileRemove,
			Path:      filepath.Join(input.SourceDir, name),
		})
	}
	return plan
}
