package secondary

import "context"

// ConfirmRequest describes a question put to the user.
type ConfirmRequest struct {
	Title   string
	Message string
	Detail  string
	Buttons []string // index 0 is always the cancelling choice
}

// Confirmer asks the user to pick one of a request's buttons.
type Confirmer interface {
	// Confirm returns the chosen button index.
	Confirm(ctx context.Context, req ConfirmRequest) (int, error)
}

// DataDirProvider supplies the configured data directory.
type DataDirProvider interface {
	// DataDirectory returns the data directory, or "" when unset.
	DataDirectory() string
}

// TabularParser reads a spreadsheet-like export into header-keyed rows.
type TabularParser interface {
	ParseRows(ctx context.Context, path string) ([]map[string]string, error)
}

// IDGenerator produces identifiers for patients without an MRN.
type IDGenerator interface {
	NewID() string
}
