package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/example/wardnotes/internal/ports/primary"
)

// LogAdapter renders the patient audit trail.
type LogAdapter struct {
	service primary.LogService
	out     io.Writer
}

// NewLogAdapter creates a new LogAdapter.
func NewLogAdapter(service primary.LogService, out io.Writer) *LogAdapter {
	return &LogAdapter{service: service, out: out}
}

// List prints events matching filters, newest first.
func (a *LogAdapter) List(ctx context.Context, filters primary.EventFilters) ([]*primary.Event, error) {
	events, err := a.service.ListEvents(ctx, filters)
	if err != nil {
		return nil, err
	}

	if len(events) == 0 {
		fmt.Fprintln(a.out, "No events recorded.")
		return events, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tACTOR\tPATIENT\tLIST\tACTION\tCHANGE")
	for _, e := range events {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.ID, e.Timestamp, orDash(e.ActorID), e.PatientID, orDash(e.ListDate), e.Action, describeChange(e))
	}
	w.Flush()
	return events, nil
}

// Prune deletes events older than days.
func (a *LogAdapter) Prune(ctx context.Context, days int) (int, error) {
	n, err := a.service.PruneEvents(ctx, days)
	if err != nil {
		return 0, fmt.Errorf("failed to prune events: %w", err)
	}
	fmt.Fprintf(a.out, "✓ Pruned %d event(s) older than %d day(s)\n", n, days)
	return n, nil
}

func describeChange(e *primary.Event) string {
	switch {
	case e.FieldName == "":
		return ""
	case e.OldValue == "":
		return fmt.Sprintf("%s=%q", e.FieldName, e.NewValue)
	default:
		return fmt.Sprintf("%s: %q -> %q", e.FieldName, e.OldValue, e.NewValue)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
