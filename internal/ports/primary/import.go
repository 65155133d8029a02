package primary

import (
	"context"

	"github.com/example/wardnotes/internal/core/importer"
	"github.com/example/wardnotes/internal/core/patient"
)

// ImportService defines the primary port for importing external patient lists.
type ImportService interface {
	// ImportFile imports a .csv or .xlsx export into the active list.
	ImportFile(ctx context.Context, req ImportFileRequest) (*ImportResult, error)

	// ImportFromFolder imports the most recent pt_list_DD_MM_YYYY export in dir.
	ImportFromFolder(ctx context.Context, dir string) (*ImportResult, error)
}

// ImportFileRequest contains parameters for importing a file.
type ImportFileRequest struct {
	Path string
	Mode importer.Mode
}

// ImportResult contains the result of an import.
type ImportResult struct {
	Source     string
	Mode       importer.Mode
	Rows       int
	Added      []patient.Patient
	Duplicates int // rows already on the list (merge mode)
	Skipped    []importer.Skipped
}
