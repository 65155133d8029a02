package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/wardnotes/internal/ports/primary"
)

// DatesAdapter lists and switches between snapshot dates.
type DatesAdapter struct {
	service primary.PatientService
	out     io.Writer
}

// NewDatesAdapter creates a new DatesAdapter.
func NewDatesAdapter(service primary.PatientService, out io.Writer) *DatesAdapter {
	return &DatesAdapter{service: service, out: out}
}

// List prints every date that has a patient list, most recent first.
func (a *DatesAdapter) List(ctx context.Context) ([]string, error) {
	dates, err := a.service.ListAvailableDates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list dates: %w", err)
	}

	if len(dates) == 0 {
		fmt.Fprintln(a.out, "No patient lists saved yet.")
		return dates, nil
	}
	for _, d := range dates {
		fmt.Fprintln(a.out, d)
	}
	return dates, nil
}

// Goto opens the list of date, creating it empty when it does not exist.
func (a *DatesAdapter) Goto(ctx context.Context, date string) error {
	list, err := a.service.NavigateToDate(ctx, date)
	if err != nil {
		return fmt.Errorf("failed to open list for %s: %w", date, err)
	}

	fmt.Fprintf(a.out, "✓ %s: %d patient(s)\n", a.service.ActiveDate(), len(list))
	return nil
}
