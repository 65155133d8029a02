package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/wardnotes/internal/core/effects"
	"github.com/example/wardnotes/internal/core/importer"
	"github.com/example/wardnotes/internal/core/paths"
	"github.com/example/wardnotes/internal/core/patient"
	"github.com/example/wardnotes/internal/core/snapshot"
	"github.com/example/wardnotes/internal/errs"
	"github.com/example/wardnotes/internal/ports/primary"
	"github.com/example/wardnotes/internal/ports/secondary"
)

// ImportServiceImpl implements the ImportService interface.
type ImportServiceImpl struct {
	patients  primary.PatientService
	parser    secondary.TabularParser
	store     secondary.FileStore
	dataDirs  secondary.DataDirProvider
	ids       secondary.IDGenerator
	executor  EffectExecutor
	logWriter secondary.LogWriter
	logger    *zap.Logger
}

// NewImportService creates a new ImportService with injected dependencies.
// logWriter may be nil.
func NewImportService(
	patients primary.PatientService,
	parser secondary.TabularParser,
	store secondary.FileStore,
	dataDirs secondary.DataDirProvider,
	ids secondary.IDGenerator,
	executor EffectExecutor,
	logWriter secondary.LogWriter,
	logger *zap.Logger,
) *ImportServiceImpl {
	return &ImportServiceImpl{
		patients:  patients,
		parser:    parser,
		store:     store,
		dataDirs:  dataDirs,
		ids:       ids,
		executor:  executor,
		logWriter: logWriter,
		logger:    logger,
	}
}

// ImportFile imports an export into the active list. Merge mode skips
// patients already listed; replace mode makes the export the whole list.
func (s *ImportServiceImpl) ImportFile(ctx context.Context, req primary.ImportFileRequest) (*primary.ImportResult, error) {
	const op = "import patients"

	switch strings.ToLower(filepath.Ext(req.Path)) {
	case ".csv", ".xlsx":
	default:
		return nil, errs.Invalid(op, "%s is not a .csv or .xlsx file", req.Path)
	}
	mode := req.Mode
	if mode == "" {
		mode = importer.ModeMerge
	}

	rows, err := s.parser.ParseRows(ctx, req.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", req.Path, err)
	}
	mapped, skipped := importer.MapRows(rows, s.ids.NewID)
	for _, sk := range skipped {
		s.logger.Warn("skipping import row", zap.String("file", req.Path), zap.Int("row", sk.Row), zap.String("reason", sk.Reason))
	}

	result := &primary.ImportResult{
		Source:  req.Path,
		Mode:    mode,
		Rows:    len(rows),
		Skipped: skipped,
	}

	date := s.patients.ActiveDate()
	if date == "" {
		if _, err := s.patients.NavigateToDate(ctx, snapshot.Today(time.Now())); err != nil {
			return nil, err
		}
		date = s.patients.ActiveDate()
	}

	switch mode {
	case importer.ModeMerge:
		added, err := s.patients.AddPatientsToDate(ctx, mapped, date)
		if err != nil {
			return nil, err
		}
		result.Added = added
		result.Duplicates = len(mapped) - len(added)
	case importer.ModeReplace:
		list := patient.FilterNew(nil, mapped)
		if err := s.ensureNotesDirs(ctx, list); err != nil {
			return nil, err
		}
		if list == nil {
			list = []patient.Patient{}
		}
		if err := s.patients.SaveSnapshot(ctx, list); err != nil {
			return nil, err
		}
		result.Added = list
		result.Duplicates = len(mapped) - len(list)
	default:
		return nil, errs.Invalid(op, "unknown import mode %q", mode)
	}

	for _, p := range result.Added {
		s.recordEvent(func(w secondary.LogWriter) error {
			return w.LogImport(ctx, p.ID, date, filepath.Base(req.Path))
		})
	}
	s.logger.Info("patients imported",
		zap.String("file", req.Path), zap.String("mode", string(mode)),
		zap.Int("rows", result.Rows), zap.Int("added", len(result.Added)))
	return result, nil
}

// ImportFromFolder imports, in merge mode, the pt_list_DD_MM_YYYY export in
// dir with the latest date.
func (s *ImportServiceImpl) ImportFromFolder(ctx context.Context, dir string) (*primary.ImportResult, error) {
	const op = "import from folder"
	names, err := s.store.ListFiles(ctx, dir)
	if err != nil {
		return nil, err
	}
	if names == nil {
		return nil, errs.NotFound(op, "folder "+dir)
	}
	name, ok := importer.PickExportFile(names)
	if !ok {
		return nil, errs.NotFound(op, "pt_list_DD_MM_YYYY export in "+dir)
	}
	return s.ImportFile(ctx, primary.ImportFileRequest{
		Path: filepath.Join(dir, name),
		Mode: importer.ModeMerge,
	})
}

func (s *ImportServiceImpl) ensureNotesDirs(ctx context.Context, list []patient.Patient) error {
	dataDir := s.dataDirs.DataDirectory()
	if dataDir == "" {
		return errs.Unconfigured("import patients")
	}
	effs := make([]effects.Effect, 0, len(list))
	for _, p := range list {
		idType, id := p.NotesIdentity()
		dir, err := paths.NotesDirFor(dataDir, idType, id)
		if err != nil {
			return err
		}
		effs = append(effs, effects.FileEffect{Operation: effects.FileMkdir, Path: dir})
	}
	if err := s.executor.Execute(ctx, effs); err != nil {
		return fmt.Errorf("failed to create notes directories: %w", err)
	}
	return nil
}

func (s *ImportServiceImpl) recordEvent(write func(w secondary.LogWriter) error) {
	if s.logWriter == nil {
		return
	}
	if err := write(s.logWriter); err != nil {
		s.logger.Warn("failed to write audit event", zap.Error(err))
	}
}

// Ensure ImportServiceImpl implements the interface
var _ primary.ImportService = (*ImportServiceImpl)(nil)
