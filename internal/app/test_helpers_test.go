package app

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/example/wardnotes/internal/core/patient"
	"github.com/example/wardnotes/internal/errs"
	"github.com/example/wardnotes/internal/ports/secondary"
)

const testDataDir = "/d"

// Ensure memStore implements the interface
var _ secondary.FileStore = (*memStore)(nil)

// memStore implements secondary.FileStore in memory for testing.
type memStore struct {
	files     map[string][]byte
	dirs      map[string]bool
	readErr   map[string]error
	writeErr  map[string]error
	removeErr map[string]error
	reads     []string
	writes    []string
}

func newMemStore() *memStore {
	return &memStore{
		files:     make(map[string][]byte),
		dirs:      make(map[string]bool),
		readErr:   make(map[string]error),
		writeErr:  make(map[string]error),
		removeErr: make(map[string]error),
	}
}

func (m *memStore) ReadFile(ctx context.Context, path string) ([]byte, error) {
	m.reads = append(m.reads, path)
	if err := m.readErr[path]; err != nil {
		return nil, errs.IO("read file", path, err)
	}
	data, ok := m.files[path]
	if !ok {
		return nil, nil
	}
	return slices.Clone(data), nil
}

func (m *memStore) WriteFile(ctx context.Context, path string, content []byte) error {
	if err := m.writeErr[path]; err != nil {
		return errs.IO("write file", path, err)
	}
	m.addDir(filepath.Dir(path))
	m.files[path] = slices.Clone(content)
	m.writes = append(m.writes, path)
	return nil
}

func (m *memStore) Mkdir(ctx context.Context, path string) error {
	if err := m.writeErr[path]; err != nil {
		return errs.IO("create directory", path, err)
	}
	m.addDir(path)
	return nil
}

func (m *memStore) RemoveAll(ctx context.Context, path string) error {
	if err := m.removeErr[path]; err != nil {
		return errs.IO("remove directory", path, err)
	}
	prefix := path + string(filepath.Separator)
	delete(m.files, path)
	delete(m.dirs, path)
	for p := range m.files {
		if strings.HasPrefix(p, prefix) {
			delete(m.files, p)
		}
	}
	for d := range m.dirs {
		if strings.HasPrefix(d, prefix) {
			delete(m.dirs, d)
		}
	}
	return nil
}

func (m *memStore) ListFiles(ctx context.Context, dir string) ([]string, error) {
	if !m.dirs[dir] {
		return nil, nil
	}
	names := []string{}
	for p := range m.files {
		if filepath.Dir(p) == dir {
			names = append(names, filepath.Base(p))
		}
	}
	slices.Sort(names)
	return names, nil
}

func (m *memStore) Remove(ctx context.Context, path string) error {
	if err := m.removeErr[path]; err != nil {
		return errs.IO("remove", path, err)
	}
	if _, ok := m.files[path]; ok {
		delete(m.files, path)
		return nil
	}
	if !m.dirs[path] {
		return nil
	}
	if entries, _ := m.ListEntries(ctx, path); len(entries) > 0 {
		return errs.IO("remove", path, fmt.Errorf("directory not empty"))
	}
	delete(m.dirs, path)
	return nil
}

func (m *memStore) ListEntries(ctx context.Context, dir string) ([]string, error) {
	if !m.dirs[dir] {
		return nil, nil
	}
	names, _ := m.ListFiles(ctx, dir)
	for d := range m.dirs {
		if filepath.Dir(d) == dir {
			names = append(names, filepath.Base(d))
		}
	}
	slices.Sort(names)
	return names, nil
}

func (m *memStore) Exists(ctx context.Context, path string) (bool, error) {
	_, isFile := m.files[path]
	return isFile || m.dirs[path], nil
}

func (m *memStore) addDir(dir string) {
	for d := dir; d != "/" && d != "." && !m.dirs[d]; d = filepath.Dir(d) {
		m.dirs[d] = true
	}
}

func (m *memStore) put(path, content string) {
	m.addDir(filepath.Dir(path))
	m.files[path] = []byte(content)
}

func (m *memStore) content(t *testing.T, path string) string {
	t.Helper()
	data, ok := m.files[path]
	if !ok {
		t.Fatalf("expected file %s to exist", path)
	}
	return string(data)
}

// Ensure mockConfirmer implements the interface
var _ secondary.Confirmer = (*mockConfirmer)(nil)

// mockConfirmer answers prompts from a queue; an empty queue cancels.
type mockConfirmer struct {
	answers  []int
	err      error
	requests []secondary.ConfirmRequest
}

func (m *mockConfirmer) Confirm(ctx context.Context, req secondary.ConfirmRequest) (int, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return 0, m.err
	}
	if len(m.answers) == 0 {
		return 0, nil
	}
	answer := m.answers[0]
	m.answers = m.answers[1:]
	return answer, nil
}

type staticDataDir string

func (d staticDataDir) DataDirectory() string { return string(d) }

// seqIDGenerator hands out uuid-1, uuid-2, ...
type seqIDGenerator struct{ n int }

func (g *seqIDGenerator) NewID() string {
	g.n++
	return fmt.Sprintf("uuid-%d", g.n)
}

// Ensure recordingLogWriter implements the interface
var _ secondary.LogWriter = (*recordingLogWriter)(nil)

// recordingLogWriter keeps audit calls as "action:patient:date[:detail]".
type recordingLogWriter struct {
	events []string
}

func (w *recordingLogWriter) LogCreate(ctx context.Context, patientID, listDate string) error {
	w.events = append(w.events, "create:"+patientID+":"+listDate)
	return nil
}

func (w *recordingLogWriter) LogUpdate(ctx context.Context, patientID, listDate, fieldName, oldValue, newValue string) error {
	w.events = append(w.events, "update:"+patientID+":"+listDate+":"+fieldName)
	return nil
}

func (w *recordingLogWriter) LogRemove(ctx context.Context, patientID, listDate string) error {
	w.events = append(w.events, "remove:"+patientID+":"+listDate)
	return nil
}

func (w *recordingLogWriter) LogMerge(ctx context.Context, uuidID, mrn, listDate string) error {
	w.events = append(w.events, "merge:"+uuidID+":"+listDate+":"+mrn)
	return nil
}

func (w *recordingLogWriter) LogImport(ctx context.Context, patientID, listDate, source string) error {
	w.events = append(w.events, "import:"+patientID+":"+listDate+":"+source)
	return nil
}

// testToday is the date the test services treat as today.
const testToday = "2024-03-15"

type patientFixture struct {
	svc     *PatientServiceImpl
	store   *memStore
	confirm *mockConfirmer
	events  *recordingLogWriter
}

func newPatientFixture(dataDir string) *patientFixture {
	f := &patientFixture{
		store:   newMemStore(),
		confirm: &mockConfirmer{},
		events:  &recordingLogWriter{},
	}
	f.svc = NewPatientService(
		f.store,
		f.confirm,
		staticDataDir(dataDir),
		&seqIDGenerator{},
		f.events,
		NewEffectExecutor(f.store, zap.NewNop()),
		patient.UnreadableKeepSource,
		zap.NewNop(),
	)
	f.svc.now = func() time.Time { return time.Date(2024, 3, 15, 9, 30, 0, 0, time.Local) }
	return f
}

func listPath(date string) string {
	return filepath.Join(testDataDir, "patient-lists", "patients_"+date+".json")
}

func uuidDir(id string) string {
	return filepath.Join(testDataDir, "notes", "by-uuid", id)
}

func mrnDir(mrn string) string {
	return filepath.Join(testDataDir, "notes", "by-mrn", mrn)
}
