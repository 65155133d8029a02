// Package wire provides dependency injection for wardnotes.
// It creates singleton services with lazy initialization.
package wire

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	cliadapter "github.com/example/wardnotes/internal/adapters/cli"
	"github.com/example/wardnotes/internal/adapters/filesystem"
	"github.com/example/wardnotes/internal/adapters/idgen"
	"github.com/example/wardnotes/internal/adapters/prompt"
	"github.com/example/wardnotes/internal/adapters/sqlite"
	"github.com/example/wardnotes/internal/adapters/tabular"
	"github.com/example/wardnotes/internal/app"
	"github.com/example/wardnotes/internal/config"
	"github.com/example/wardnotes/internal/db"
	"github.com/example/wardnotes/internal/logging"
	"github.com/example/wardnotes/internal/ports/primary"
	"github.com/example/wardnotes/internal/ports/secondary"
)

// Options select the runtime environment. Call Configure before the first
// service is requested; later calls have no effect.
type Options struct {
	Home      string    // state directory, defaults to db.HomeDir()
	AssumeYes bool      // answer every confirmation with its confirming choice
	In        io.Reader // confirmation answers, defaults to stdin
	Prompts   io.Writer // confirmation prompts, defaults to stderr
}

var (
	opts Options

	cfg            *config.Config
	logger         *zap.Logger
	database       *sql.DB
	patientService primary.PatientService
	noteService    primary.NoteService
	importService  primary.ImportService
	logService     primary.LogService
	initErr        error
	once           sync.Once
)

// Configure records the options used by the first initialization.
func Configure(o Options) {
	opts = o
}

// Home returns the wardnotes state directory.
func Home() (string, error) {
	if opts.Home != "" {
		return opts.Home, nil
	}
	return db.HomeDir()
}

// Config returns the loaded configuration.
func Config() (*config.Config, error) {
	once.Do(initServices)
	return cfg, initErr
}

// Logger returns the process logger.
func Logger() *zap.Logger {
	once.Do(initServices)
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// PatientService returns the singleton PatientService instance.
func PatientService() (primary.PatientService, error) {
	once.Do(initServices)
	return patientService, initErr
}

// NoteService returns the singleton NoteService instance.
func NoteService() (primary.NoteService, error) {
	once.Do(initServices)
	return noteService, initErr
}

// ImportService returns the singleton ImportService instance.
func ImportService() (primary.ImportService, error) {
	once.Do(initServices)
	return importService, initErr
}

// LogService returns the singleton LogService instance.
func LogService() (primary.LogService, error) {
	once.Do(initServices)
	return logService, initErr
}

// Close flushes the logger and closes the database.
func Close() error {
	if logger != nil {
		_ = logger.Sync()
	}
	if database != nil {
		return database.Close()
	}
	return nil
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	home, err := Home()
	if err != nil {
		initErr = err
		return
	}

	cfg, err = config.LoadConfig(home)
	if err != nil {
		initErr = err
		return
	}

	logger, err = logging.New(cfg.LogLevel, cfg.LogFormat, "stderr")
	if err != nil {
		initErr = err
		return
	}

	policy, err := cfg.UnreadablePolicy()
	if err != nil {
		initErr = fmt.Errorf("invalid config: %w", err)
		return
	}

	database, err = db.Open(filepath.Join(home, "wardnotes.db"))
	if err != nil {
		initErr = fmt.Errorf("failed to initialize database: %w", err)
		return
	}

	// Secondary adapters
	eventRepo := sqlite.NewPatientEventRepository(database)
	logWriter := sqlite.NewLogWriterAdapter(eventRepo)
	store := filesystem.NewStore()
	ids := idgen.NewUUIDGenerator()
	parser := tabular.NewParser()
	confirmer := newConfirmer()

	executor := app.NewEffectExecutor(store, logger)

	// Services (primary ports implementation)
	patients := app.NewPatientService(store, confirmer, cfg, ids, logWriter, executor, policy, logger)
	patientService = patients
	noteService = app.NewNoteService(store, cfg, logger)
	importService = app.NewImportService(patients, parser, store, cfg, ids, executor, logWriter, logger)
	logService = app.NewLogService(eventRepo)
}

func newConfirmer() secondary.Confirmer {
	if opts.AssumeYes {
		return prompt.AutoConfirmer{Choice: 1}
	}
	in, out := opts.In, opts.Prompts
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stderr
	}
	return prompt.NewTerminalConfirmer(in, out)
}

// PatientAdapter returns a new PatientAdapter writing to out.
// Each call creates a new adapter (adapters are stateless translators).
func PatientAdapter(out io.Writer) (*cliadapter.PatientAdapter, error) {
	svc, err := PatientService()
	if err != nil {
		return nil, err
	}
	return cliadapter.NewPatientAdapter(svc, out), nil
}

// NoteAdapter returns a new NoteAdapter writing to out.
func NoteAdapter(out io.Writer) (*cliadapter.NoteAdapter, error) {
	patients, err := PatientAdapter(out)
	if err != nil {
		return nil, err
	}
	return cliadapter.NewNoteAdapter(noteService, patients, out), nil
}

// DatesAdapter returns a new DatesAdapter writing to out.
func DatesAdapter(out io.Writer) (*cliadapter.DatesAdapter, error) {
	svc, err := PatientService()
	if err != nil {
		return nil, err
	}
	return cliadapter.NewDatesAdapter(svc, out), nil
}

// ImportAdapter returns a new ImportAdapter writing to out.
func ImportAdapter(out io.Writer) (*cliadapter.ImportAdapter, error) {
	svc, err := ImportService()
	if err != nil {
		return nil, err
	}
	return cliadapter.NewImportAdapter(svc, out), nil
}

// LogAdapter returns a new LogAdapter writing to out.
func LogAdapter(out io.Writer) (*cliadapter.LogAdapter, error) {
	svc, err := LogService()
	if err != nil {
		return nil, err
	}
	return cliadapter.NewLogAdapter(svc, out), nil
}
