package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/example/wardnotes/internal/core/effects"
	"github.com/example/wardnotes/internal/core/paths"
	"github.com/example/wardnotes/internal/core/patient"
	"github.com/example/wardnotes/internal/core/snapshot"
	"github.com/example/wardnotes/internal/errs"
	"github.com/example/wardnotes/internal/ports/primary"
	"github.com/example/wardnotes/internal/ports/secondary"
)

// PatientServiceImpl implements the PatientService interface.
// It owns the working list of one active date; every method takes the
// service mutex, so one instance is safe for concurrent use.
type PatientServiceImpl struct {
	store     secondary.FileStore
	confirmer secondary.Confirmer
	dataDirs  secondary.DataDirProvider
	ids       secondary.IDGenerator
	logWriter secondary.LogWriter
	executor  EffectExecutor
	policy    patient.UnreadablePolicy
	logger    *zap.Logger
	now       func() time.Time

	mu             sync.Mutex
	activeDate     string
	patients       []patient.Patient
	insertionOrder []string
	corruptPath    string // active snapshot that failed to parse; saves are refused
}

// NewPatientService creates a new PatientService with injected dependencies.
// logWriter may be nil.
func NewPatientService(
	store secondary.FileStore,
	confirmer secondary.Confirmer,
	dataDirs secondary.DataDirProvider,
	ids secondary.IDGenerator,
	logWriter secondary.LogWriter,
	executor EffectExecutor,
	policy patient.UnreadablePolicy,
	logger *zap.Logger,
) *PatientServiceImpl {
	return &PatientServiceImpl{
		store:     store,
		confirmer: confirmer,
		dataDirs:  dataDirs,
		ids:       ids,
		logWriter: logWriter,
		executor:  executor,
		policy:    policy,
		logger:    logger,
		now:       time.Now,
	}
}

// LoadSnapshot reads the list of a date and makes it active.
func (s *PatientServiceImpl) LoadSnapshot(ctx context.Context, date string) ([]patient.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(ctx, date); err != nil {
		return nil, err
	}
	return slices.Clone(s.patients), nil
}

// NavigateToDate activates a date, creating an empty snapshot when none exists.
func (s *PatientServiceImpl) NavigateToDate(ctx context.Context, date string) ([]patient.Patient, error) {
	return s.LoadSnapshot(ctx, date)
}

// SaveSnapshot persists list as the active date's snapshot.
func (s *PatientServiceImpl) SaveSnapshot(ctx context.Context, list []patient.Patient) error {
	if list == nil {
		err := errs.Invalid("save snapshot", "patient list is nil")
		s.logger.Error("save snapshot called without a list", zap.Error(err))
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureActiveLocked(ctx); err != nil {
		return err
	}
	return s.saveLocked(ctx, list)
}

// AddPatient adds a patient to the active list.
func (s *PatientServiceImpl) AddPatient(ctx context.Context, req primary.AddPatientRequest) (*primary.AddPatientResponse, error) {
	const op = "add patient"

	// 1. Guard check
	if result := patient.CanAddPatient(req.Patient); !result.Allowed {
		return nil, errs.Invalid(op, "%w", result.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureActiveLocked(ctx); err != nil {
		return nil, err
	}
	dataDir, err := s.dataDir(op)
	if err != nil {
		return nil, err
	}
	data := patient.Sanitize(req.Patient)

	// 2. Duplicate checks
	if data.MRN == "" {
		if existing, ok := patient.FindByRawName(s.patients, data.RawName); ok {
			choice, err := s.confirmer.Confirm(ctx, duplicateNameRequest(existing))
			if err != nil {
				return nil, fmt.Errorf("failed to confirm duplicate patient: %w", err)
			}
			switch patient.DuplicateChoiceFromIndex(choice) {
			case patient.DuplicateCancel:
				return nil, nil
			case patient.DuplicateMerge:
				return &primary.AddPatientResponse{Patient: existing, Outcome: primary.AddMergedExisting}, nil
			}
		}
	} else if existing, ok := patient.FindByMRN(s.patients, data.MRN); ok {
		return nil, errs.Invalid(op, "MRN %s is already on the list as %s", data.MRN, existing.DisplayName())
	}

	// 3. Assign identity
	if data.MRN != "" {
		data.ID, data.Type = data.MRN, patient.IdentityMRN
	} else {
		data.ID, data.Type = s.ids.NewID(), patient.IdentityUUID
	}
	idType, id := data.NotesIdentity()
	dir, err := paths.NotesDirFor(dataDir, idType, id)
	if err != nil {
		return nil, err
	}

	// 4. Create the notes directory unless a returning patient already has one
	existed, err := s.store.Exists(ctx, dir)
	if err != nil {
		return nil, err
	}
	if !existed {
		mkdir := effects.FileEffect{Operation: effects.FileMkdir, Path: dir}
		if err := s.executor.Execute(ctx, []effects.Effect{mkdir}); err != nil {
			return nil, fmt.Errorf("failed to create notes directory: %w", err)
		}
	}

	// 5. Persist, undoing the new directory on failure
	if err := s.saveLocked(ctx, append(slices.Clone(s.patients), data)); err != nil {
		if !existed {
			if cleanupErr := s.store.RemoveAll(ctx, dir); cleanupErr != nil {
				s.logger.Error("failed to remove notes directory after failed save",
					zap.String("dir", dir), zap.Error(cleanupErr))
			}
		}
		return nil, err
	}
	s.insertionOrder = append(s.insertionOrder, data.ID)

	added := s.patients[len(s.patients)-1]
	s.recordEvent(func(w secondary.LogWriter) error {
		return w.LogCreate(ctx, added.ID, s.activeDate)
	})
	s.logger.Info("patient added", zap.String("id", added.ID), zap.String("type", string(added.Type)))

	return &primary.AddPatientResponse{
		Patient:     added,
		Outcome:     primary.AddCreated,
		NotesDir:    dir,
		ReusedNotes: existed,
	}, nil
}

// RemovePatient removes a patient from the active list. The notes
// directory is never touched.
func (s *PatientServiceImpl) RemovePatient(ctx context.Context, id string) (bool, error) {
	const op = "remove patient"

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureActiveLocked(ctx); err != nil {
		return false, err
	}
	i := patient.IndexOf(s.patients, id)
	if i < 0 {
		return false, errs.NotFound(op, "patient "+id)
	}
	p := s.patients[i]

	choice, err := s.confirmer.Confirm(ctx, removeRequest(p, s.activeDate))
	if err != nil {
		return false, fmt.Errorf("failed to confirm removal: %w", err)
	}
	if choice != removeConfirmIndex {
		return false, nil
	}

	if err := s.saveLocked(ctx, slices.Delete(slices.Clone(s.patients), i, i+1)); err != nil {
		return false, err
	}

	s.recordEvent(func(w secondary.LogWriter) error {
		return w.LogRemove(ctx, p.ID, s.activeDate)
	})
	s.logger.Info("patient removed from list", zap.String("id", p.ID), zap.String("date", s.activeDate))
	return true, nil
}

// UpdatePatient replaces an entry in place. Identity fields are kept.
func (s *PatientServiceImpl) UpdatePatient(ctx context.Context, p patient.Patient) error {
	const op = "update patient"

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureActiveLocked(ctx); err != nil {
		return err
	}
	i := patient.IndexOf(s.patients, p.ID)
	if i < 0 {
		return errs.NotFound(op, "patient "+p.ID)
	}
	current := s.patients[i]

	if result := patient.CanUpdatePatient(current, p); !result.Allowed {
		return errs.Invalid(op, "%w", result.Error())
	}

	updated := p
	updated.ID, updated.Type, updated.MRN = current.ID, current.Type, current.MRN
	list := slices.Clone(s.patients)
	list[i] = updated
	if err := s.saveLocked(ctx, list); err != nil {
		return err
	}

	for _, c := range changedFields(current, s.patients[i]) {
		s.recordEvent(func(w secondary.LogWriter) error {
			return w.LogUpdate(ctx, current.ID, s.activeDate, c.field, c.old, c.new)
		})
	}
	return nil
}

// AddPatientsToDate appends the patients not already on date's list,
// matching by id and MRN. Running it twice with the same input adds nothing
// the second time.
func (s *PatientServiceImpl) AddPatientsToDate(ctx context.Context, list []patient.Patient, date string) ([]patient.Patient, error) {
	const op = "add patients to date"
	if list == nil {
		return nil, errs.Invalid(op, "patient list is nil")
	}
	day, err := paths.NormalizeDate(date)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dataDir, err := s.dataDir(op)
	if err != nil {
		return nil, err
	}
	path, err := paths.PatientListFileFor(dataDir, day)
	if err != nil {
		return nil, err
	}
	existing, exists, err := s.readSnapshot(ctx, path)
	if err != nil {
		return nil, err
	}

	added := patient.FilterNew(existing, patient.SanitizeList(list))
	if len(added) == 0 && exists {
		return nil, nil
	}

	// Notes directories come before the list entries that point at them.
	var mkdirs []effects.Effect
	for _, p := range added {
		idType, id := p.NotesIdentity()
		dir, err := paths.NotesDirFor(dataDir, idType, id)
		if err != nil {
			return nil, err
		}
		mkdirs = append(mkdirs, effects.FileEffect{Operation: effects.FileMkdir, Path: dir})
	}
	if err := s.executor.Execute(ctx, mkdirs); err != nil {
		return nil, fmt.Errorf("failed to create notes directories: %w", err)
	}

	saved, err := s.writeSnapshot(ctx, path, append(slices.Clone(existing), added...))
	if err != nil {
		return nil, err
	}
	if day == s.activeDate {
		s.patients = saved
		s.corruptPath = ""
		for _, p := range added {
			s.insertionOrder = append(s.insertionOrder, p.ID)
		}
	}

	for _, p := range added {
		s.recordEvent(func(w secondary.LogWriter) error {
			return w.LogCreate(ctx, p.ID, day)
		})
	}
	s.logger.Info("patients added to date", zap.String("date", day), zap.Int("added", len(added)))
	return added, nil
}

// ListAvailableDates lists the dates that have a snapshot, most recent first.
func (s *PatientServiceImpl) ListAvailableDates(ctx context.Context) ([]string, error) {
	dataDir, err := s.dataDir("list dates")
	if err != nil {
		return nil, err
	}
	dir, err := paths.PatientListDir(dataDir)
	if err != nil {
		return nil, err
	}
	names, err := s.store.ListFiles(ctx, dir)
	if err != nil {
		return nil, err
	}
	return snapshot.SnapshotDates(names), nil
}

// Reorder persists a custom order and makes it the insertion order.
func (s *PatientServiceImpl) Reorder(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureActiveLocked(ctx); err != nil {
		return err
	}
	reordered, err := patient.Reorder(s.patients, ids)
	if err != nil {
		return errs.New(errs.ErrInvalidArgument, "reorder patients", "%w", err)
	}
	if err := s.saveLocked(ctx, reordered); err != nil {
		return err
	}
	s.insertionOrder = slices.Clone(ids)
	return nil
}

// Patients returns a copy of the working list.
func (s *PatientServiceImpl) Patients() []patient.Patient {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.patients)
}

// ActiveDate returns the date of the working list, or "" before the first load.
func (s *PatientServiceImpl) ActiveDate() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeDate
}

// GetPatient returns the working-list entry with the given id.
func (s *PatientServiceImpl) GetPatient(id string) (*patient.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := patient.IndexOf(s.patients, id)
	if i < 0 {
		return nil, errs.NotFound("get patient", "patient "+id)
	}
	p := s.patients[i]
	return &p, nil
}

// GetPatientByMRN returns the working-list entry with the given MRN.
func (s *PatientServiceImpl) GetPatientByMRN(mrn string) (*patient.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := patient.FindByMRN(s.patients, strings.TrimSpace(mrn))
	if !ok {
		return nil, errs.NotFound("get patient", "MRN "+mrn)
	}
	return &p, nil
}

// Search filters the working list on name, MRN, and location.
func (s *PatientServiceImpl) Search(term string) []patient.Patient {
	s.mu.Lock()
	defer s.mu.Unlock()
	return patient.Search(s.patients, term)
}

// Sorted returns the working list in the requested order. SortCustom
// restores the order captured at load (or set by Reorder).
func (s *PatientServiceImpl) Sorted(mode patient.SortMode) []patient.Patient {
	s.mu.Lock()
	defer s.mu.Unlock()

	if mode == patient.SortCustom {
		return customOrder(s.patients, s.insertionOrder)
	}
	return patient.Sorted(s.patients, mode)
}

// Helper methods

func (s *PatientServiceImpl) dataDir(op string) (string, error) {
	dir := s.dataDirs.DataDirectory()
	if dir == "" {
		return "", errs.Unconfigured(op)
	}
	return dir, nil
}

// ensureActiveLocked loads today's list when nothing is active yet.
func (s *PatientServiceImpl) ensureActiveLocked(ctx context.Context) error {
	if s.activeDate != "" {
		return nil
	}
	return s.loadLocked(ctx, snapshot.Today(s.now()))
}

func (s *PatientServiceImpl) loadLocked(ctx context.Context, date string) error {
	const op = "load snapshot"
	day, err := paths.NormalizeDate(date)
	if err != nil {
		return err
	}
	dataDir, err := s.dataDir(op)
	if err != nil {
		return err
	}
	path, err := paths.PatientListFileFor(dataDir, day)
	if err != nil {
		return err
	}

	list, exists, err := s.readSnapshot(ctx, path)
	if errors.Is(err, errs.ErrDataCorruption) {
		s.activeDate = day
		s.patients = []patient.Patient{}
		s.insertionOrder = nil
		s.corruptPath = path
		s.logger.Error("patient list is corrupt, working list left empty",
			zap.String("path", path), zap.Error(err))
		return err
	}
	if err != nil {
		return err
	}
	if !exists {
		if err := s.store.WriteFile(ctx, path, []byte("[]")); err != nil {
			return err
		}
		list = []patient.Patient{}
	}

	s.activeDate = day
	s.patients = list
	s.insertionOrder = idsOf(list)
	s.corruptPath = ""
	return nil
}

// readSnapshot parses a snapshot file. Types are derived from MRN presence
// and parsed names re-derived; neither is trusted from disk.
func (s *PatientServiceImpl) readSnapshot(ctx context.Context, path string) ([]patient.Patient, bool, error) {
	data, err := s.store.ReadFile(ctx, path)
	if err != nil {
		return nil, false, err
	}
	if data == nil {
		return nil, false, nil
	}

	var list []patient.Patient
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, true, errs.Corrupt("load snapshot", path, err)
	}
	out := make([]patient.Patient, len(list))
	for i, p := range list {
		out[i] = patient.Sanitize(patient.DeriveType(p))
	}
	return out, true, nil
}

// writeSnapshot writes the sanitised projection of list and returns it.
func (s *PatientServiceImpl) writeSnapshot(ctx context.Context, path string, list []patient.Patient) ([]patient.Patient, error) {
	sanitized := patient.SanitizeList(list)
	data, err := json.MarshalIndent(sanitized, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode patient list: %w", err)
	}
	if err := s.store.WriteFile(ctx, path, data); err != nil {
		return nil, err
	}
	return sanitized, nil
}

// saveLocked persists list to the active snapshot and, on success only,
// makes it the working list.
func (s *PatientServiceImpl) saveLocked(ctx context.Context, list []patient.Patient) error {
	const op = "save snapshot"
	if s.corruptPath != "" {
		return errs.Corrupt(op, s.corruptPath, errors.New("refusing to overwrite; repair or move the file first"))
	}
	dataDir, err := s.dataDir(op)
	if err != nil {
		return err
	}
	path, err := paths.PatientListFileFor(dataDir, s.activeDate)
	if err != nil {
		return err
	}
	saved, err := s.writeSnapshot(ctx, path, list)
	if err != nil {
		return err
	}
	s.patients = saved
	return nil
}

func (s *PatientServiceImpl) recordEvent(write func(w secondary.LogWriter) error) {
	if s.logWriter == nil {
		return
	}
	if err := write(s.logWriter); err != nil {
		s.logger.Warn("failed to write audit event", zap.Error(err))
	}
}

type fieldChange struct {
	field, old, new string
}

func changedFields(before, after patient.Patient) []fieldChange {
	pairs := []fieldChange{
		{"name", before.RawName, after.RawName},
		{"location", before.Location, after.Location},
		{"ward", before.Ward, after.Ward},
		{"age", before.Age.String(), after.Age.String()},
		{"los", before.LengthOfStay.String(), after.LengthOfStay.String()},
		{"admission_date", before.AdmissionDate, after.AdmissionDate},
		{"cons_name", before.ConsultantName, after.ConsultantName},
		{"dsc_date", before.DischargeDate, after.DischargeDate},
		{"diagnosis", before.Diagnosis, after.Diagnosis},
	}
	var out []fieldChange
	for _, c := range pairs {
		if c.old != c.new {
			out = append(out, c)
		}
	}
	return out
}

func idsOf(list []patient.Patient) []string {
	ids := make([]string, len(list))
	for i, p := range list {
		ids[i] = p.ID
	}
	return ids
}

// customOrder orders list by position in order. Ids missing from order keep
// their relative order at the end.
func customOrder(list []patient.Patient, order []string) []patient.Patient {
	pos := make(map[string]int, len(order))
	for i, id := range order {
		if _, dup := pos[id]; !dup {
			pos[id] = i
		}
	}
	rank := func(p patient.Patient) int {
		if i, ok := pos[p.ID]; ok {
			return i
		}
		return len(order)
	}
	out := slices.Clone(list)
	slices.SortStableFunc(out, func(a, b patient.Patient) int {
		return rank(a) - rank(b)
	})
	return out
}

// Ensure PatientServiceImpl implements the interface
var _ primary.PatientService = (*PatientServiceImpl)(nil)
