package app

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/example/wardnotes/internal/core/effects"
	"github.com/example/wardnotes/internal/core/paths"
	"github.com/example/wardnotes/internal/core/patient"
	"github.com/example/wardnotes/internal/errs"
	"github.com/example/wardnotes/internal/ports/primary"
	"github.com/example/wardnotes/internal/ports/secondary"
)

// MergePatientData moves a uuid identity's notes under an MRN and rewrites
// the list entry.
//
// Notes are copied before the list is rewritten, so a crash mid-merge leaves
// the list pointing at the uuid directory, which still holds every note. If
// the list rewrite fails, the notes written into the MRN directory are
// removed again (and overwritten ones restored) before returning. Only the
// copied notes are deleted afterwards; the uuid directory goes only once it
// is empty.
func (s *PatientServiceImpl) MergePatientData(ctx context.Context, uuidID, mrn string) (*primary.MergeResult, error) {
	const op = "merge patient"
	mrn = strings.TrimSpace(mrn)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureActiveLocked(ctx); err != nil {
		return nil, err
	}
	dataDir, err := s.dataDir(op)
	if err != nil {
		return nil, err
	}

	// 1. Resolve both notes directories and the list file
	sourceDir, err := paths.NotesDirFor(dataDir, string(patient.IdentityUUID), uuidID)
	if err != nil {
		return nil, err
	}
	targetDir, err := paths.NotesDirFor(dataDir, string(patient.IdentityMRN), mrn)
	if err != nil {
		return nil, err
	}
	listPath, err := paths.PatientListFileFor(dataDir, s.activeDate)
	if err != nil {
		return nil, err
	}

	// 2. Pre-fetch facts for the guard
	sourceSeen, err := s.store.Exists(ctx, sourceDir)
	if err != nil {
		return nil, err
	}
	if !sourceSeen {
		return nil, errs.NotFound(op, "notes directory "+sourceDir)
	}
	onDisk, _, err := s.readSnapshot(ctx, listPath)
	if err != nil {
		return nil, err
	}
	idx := patient.IndexOf(onDisk, uuidID)
	if idx < 0 {
		return nil, errs.NotFound(op, fmt.Sprintf("patient %s in %s", uuidID, listPath))
	}
	guardCtx := patient.MergeContext{
		UUIDID:        uuidID,
		MRN:           mrn,
		InList:        true,
		Type:          onDisk[idx].Type,
		SourceDirSeen: true,
	}
	if result := patient.CanMergePatient(guardCtx); !result.Allowed {
		return nil, errs.Invalid(op, "%w", result.Error())
	}

	// 3. Read every note before writing anything, then plan the move
	sourceFiles, err := s.store.ListFiles(ctx, sourceDir)
	if err != nil {
		return nil, err
	}
	notes, skipped, err := s.readMergeSources(ctx, sourceDir, sourceFiles)
	if err != nil {
		return nil, err
	}
	targetExists, err := s.store.Exists(ctx, targetDir)
	if err != nil {
		return nil, err
	}
	targetFiles, err := s.store.ListFiles(ctx, targetDir)
	if err != nil {
		return nil, err
	}
	plan := patient.GenerateMergePlan(patient.MergePlanInput{
		SourceDir:    sourceDir,
		TargetDir:    targetDir,
		TargetExists: targetExists,
		Notes:        notes,
		TargetFiles:  targetFiles,
	})

	// 4. Overwriting existing MRN notes needs one explicit confirmation
	if len(plan.Conflicts) > 0 {
		choice, err := s.confirmer.Confirm(ctx, overwriteRequest(mrn, plan.Conflicts))
		if err != nil {
			return nil, fmt.Errorf("failed to confirm overwrite: %w", err)
		}
		if choice != overwriteConfirmIndex {
			return nil, errs.New(errs.ErrCancelled, op, "MRN %s already has notes for %s",
				mrn, strings.Join(plan.Conflicts, ", "))
		}
	}

	// 5. Copy into the MRN directory
	originals, err := s.readOriginals(ctx, plan.Writes)
	if err != nil {
		return nil, err
	}
	undo := mergeUndo{targetDir: targetDir, createdTarget: plan.CreateTarget != nil, originals: originals}
	for _, w := range plan.Writes {
		undo.written = append(undo.written, w.Path)
	}
	if err := s.executor.Execute(ctx, plan.Effects()); err != nil {
		s.rollbackMerge(ctx, undo)
		return nil, fmt.Errorf("failed to copy notes: %w", err)
	}

	// 6. Rewrite the on-disk list entry
	rewritten, merged := rewriteMergedEntry(onDisk, idx, mrn)
	saved, err := s.writeSnapshot(ctx, listPath, rewritten)
	if err != nil {
		s.rollbackMerge(ctx, undo)
		return nil, err
	}
	s.patients = saved
	s.corruptPath = ""
	s.insertionOrder = renameInOrder(s.insertionOrder, uuidID, mrn)

	result := &primary.MergeResult{
		Status:    primary.MergeComplete,
		Patient:   merged,
		SourceDir: sourceDir,
		TargetDir: targetDir,
		Skipped:   skipped,
	}
	for _, w := range plan.Writes {
		name := filepath.Base(w.Path)
		result.Moved = append(result.Moved, name)
		if _, ok := originals[w.Path]; ok {
			result.Overwritten = append(result.Overwritten, name)
		}
	}

	// 7. Delete the copied notes, then the uuid directory once it is empty
	s.removeMergedSources(ctx, plan, notes)
	if err := s.executor.Execute(ctx, []effects.Effect{plan.RemoveDir}); err == nil {
		result.SourceRemoved = true
	} else if remaining, listErr := s.store.ListEntries(ctx, sourceDir); listErr == nil && len(remaining) > 0 {
		result.Status = primary.MergePartial
		result.Remaining = remaining
		s.logger.Warn("kept uuid notes directory holding unmoved entries",
			zap.String("dir", sourceDir), zap.Strings("remaining", remaining))
	} else {
		s.logger.Warn("failed to remove merged notes directory",
			zap.String("dir", sourceDir), zap.Error(err))
	}
	if len(skipped) > 0 {
		result.Status = primary.MergePartial
	}

	s.recordEvent(func(w secondary.LogWriter) error {
		return w.LogMerge(ctx, uuidID, mrn, s.activeDate)
	})
	s.logger.Info("patient merged",
		zap.String("uuid", uuidID), zap.String("mrn", mrn),
		zap.Int("moved", len(result.Moved)), zap.String("status", string(result.Status)))
	return result, nil
}

// readMergeSources reads the notes in dir by file name. Unreadable notes
// abort the merge or are skipped, per policy.
func (s *PatientServiceImpl) readMergeSources(ctx context.Context, dir string, names []string) (map[string][]byte, []string, error) {
	notes := make(map[string][]byte, len(names))
	var skipped []string
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := s.store.ReadFile(ctx, path)
		if err == nil && data == nil {
			err = errs.NotFound("read note", path)
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, nil, ctxErr
			}
			if s.policy == patient.UnreadableAbort {
				return nil, nil, fmt.Errorf("merge aborted, nothing was changed: %w", err)
			}
			s.logger.Warn("skipping unreadable note", zap.String("path", path), zap.Error(err))
			skipped = append(skipped, name)
			continue
		}
		notes[name] = data
	}
	return notes, skipped, nil
}

// readOriginals keeps the current content of MRN notes about to be
// overwritten so a failed merge can put them back.
func (s *PatientServiceImpl) readOriginals(ctx context.Context, writes []effects.FileEffect) (map[string][]byte, error) {
	originals := make(map[string][]byte)
	for _, w := range writes {
		data, err := s.store.ReadFile(ctx, w.Path)
		if err != nil {
			return nil, err
		}
		if data != nil {
			originals[w.Path] = data
		}
	}
	return originals, nil
}

// removeMergedSources deletes each copied note from the uuid directory. A
// note whose content changed since it was copied is left in place.
func (s *PatientServiceImpl) removeMergedSources(ctx context.Context, plan patient.MergePlan, copied map[string][]byte) {
	for _, rm := range plan.RemoveSources {
		current, err := s.store.ReadFile(ctx, rm.Path)
		if err != nil || !bytes.Equal(current, copied[filepath.Base(rm.Path)]) {
			s.logger.Warn("kept note changed during merge", zap.String("path", rm.Path), zap.Error(err))
			continue
		}
		if err := s.executor.Execute(ctx, []effects.Effect{rm}); err != nil {
			s.logger.Warn("failed to remove merged note", zap.String("path", rm.Path), zap.Error(err))
		}
	}
}

type mergeUndo struct {
	targetDir     string
	createdTarget bool
	written       []string
	originals     map[string][]byte
}

// rollbackMerge removes the notes a failed merge wrote. Cleanup failures are
// logged; the caller reports the original error.
func (s *PatientServiceImpl) rollbackMerge(ctx context.Context, undo mergeUndo) {
	// Cleanup runs even when the merge failed because ctx was cancelled.
	ctx = context.WithoutCancel(ctx)

	if undo.createdTarget {
		if err := s.store.RemoveAll(ctx, undo.targetDir); err != nil {
			s.logger.Error("failed to remove MRN notes directory after failed merge",
				zap.String("dir", undo.targetDir), zap.Error(err))
		}
		return
	}
	for _, path := range undo.written {
		undoEff := effects.FileEffect{Operation: effects.FileRemove, Path: path}
		if original, ok := undo.originals[path]; ok {
			undoEff = effects.FileEffect{Operation: effects.FileWrite, Path: path, Content: original}
		}
		if err := s.executor.Execute(ctx, []effects.Effect{undoEff}); err != nil {
			s.logger.Error("failed to undo merged note", zap.String("path", path), zap.Error(err))
		}
	}
}

// rewriteMergedEntry gives the entry at idx the MRN identity. When the list
// already holds an entry for that MRN, the uuid entry is dropped instead so
// ids stay unique.
func rewriteMergedEntry(list []patient.Patient, idx int, mrn string) ([]patient.Patient, patient.Patient) {
	out := slices.Clone(list)
	for j, p := range out {
		if j != idx && (p.ID == mrn || p.MRN == mrn) {
			return slices.Delete(out, idx, idx+1), p
		}
	}
	entry := out[idx]
	entry.ID, entry.Type, entry.MRN = mrn, patient.IdentityMRN, mrn
	out[idx] = entry
	return out, entry
}

func renameInOrder(order []string, from, to string) []string {
	out := make([]string, 0, len(order))
	seen := false
	for _, id := range order {
		if id == to {
			seen = true
		}
	}
	for _, id := range order {
		switch {
		case id == from && seen:
			continue
		case id == from:
			out = append(out, to)
		default:
			out = append(out, id)
		}
	}
	return out
}
