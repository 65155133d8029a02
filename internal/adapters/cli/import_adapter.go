package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/example/wardnotes/internal/core/importer"
	"github.com/example/wardnotes/internal/ports/primary"
)

// ImportAdapter translates CLI operations to ImportService calls.
type ImportAdapter struct {
	service primary.ImportService
	out     io.Writer
}

// NewImportAdapter creates a new ImportAdapter.
func NewImportAdapter(service primary.ImportService, out io.Writer) *ImportAdapter {
	return &ImportAdapter{service: service, out: out}
}

// File imports one export file.
func (a *ImportAdapter) File(ctx context.Context, path string, mode importer.Mode) (*primary.ImportResult, error) {
	result, err := a.service.ImportFile(ctx, primary.ImportFileRequest{Path: path, Mode: mode})
	if err != nil {
		return nil, fmt.Errorf("failed to import %s: %w", path, err)
	}
	a.report(result)
	return result, nil
}

// Folder imports the newest pt_list export found in dir.
func (a *ImportAdapter) Folder(ctx context.Context, dir string) (*primary.ImportResult, error) {
	result, err := a.service.ImportFromFolder(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to import from %s: %w", dir, err)
	}
	a.report(result)
	return result, nil
}

func (a *ImportAdapter) report(r *primary.ImportResult) {
	fmt.Fprintf(a.out, "✓ Imported %s (%s): %d row(s), %d added", r.Source, r.Mode, r.Rows, len(r.Added))
	if r.Mode == importer.ModeMerge {
		fmt.Fprintf(a.out, ", %d already listed", r.Duplicates)
	}
	fmt.Fprintln(a.out)

	for _, p := range r.Added {
		fmt.Fprintf(a.out, "  + %s (%s)\n", p.DisplayName(), displayID(p))
	}
	if len(r.Skipped) > 0 {
		warn := color.New(color.FgYellow)
		for _, s := range r.Skipped {
			warn.Fprintf(a.out, "  ! row %d skipped: %s\n", s.Row, s.Reason)
		}
	}
}
