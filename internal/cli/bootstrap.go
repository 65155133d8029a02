// Package cli provides the cobra commands of wardnotes.
package cli

import (
	gocontext "context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/wardnotes/internal/config"
	"github.com/example/wardnotes/internal/core/paths"
	"github.com/example/wardnotes/internal/core/snapshot"
	"github.com/example/wardnotes/internal/ctxutil"
	"github.com/example/wardnotes/internal/wire"
)

// globalActorID is the person recorded in the audit trail for this invocation.
var globalActorID string

// Bootstrap applies the root persistent flags. Call it from PersistentPreRunE.
func Bootstrap(cmd *cobra.Command) error {
	home, _ := cmd.Flags().GetString("home")
	yes, _ := cmd.Flags().GetBool("yes")
	actor, _ := cmd.Flags().GetString("actor")

	wire.Configure(wire.Options{
		Home:      home,
		AssumeYes: yes,
		In:        cmd.InOrStdin(),
		Prompts:   cmd.ErrOrStderr(),
	})

	if actor == "" {
		actor = ctxutil.LocalActor()
	}
	globalActorID = actor

	if dir, err := wire.Home(); err == nil {
		if cfg, err := config.LoadConfig(dir); err == nil && cfg.Theme == config.ThemePlain {
			color.NoColor = true
		}
	}
	return nil
}

// AddGlobalFlags registers the persistent flags read by Bootstrap.
func AddGlobalFlags(root *cobra.Command) {
	root.PersistentFlags().String("home", "", "State directory holding config and audit log (default ~/.wardnotes, or $WARDNOTES_HOME)")
	root.PersistentFlags().BoolP("yes", "y", false, "Answer every confirmation prompt with its confirming choice")
	root.PersistentFlags().String("actor", "", "Name recorded in the audit log (default: OS user)")
}

// NewContext creates a context.Background() with the current actor ID embedded.
// CLI commands should use this instead of context.Background() directly.
func NewContext() gocontext.Context {
	ctx := gocontext.Background()
	if globalActorID != "" {
		return ctxutil.WithActorID(ctx, globalActorID)
	}
	return ctx
}

// addDateFlag registers --date on cmd.
func addDateFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("date", "d", "", "List date YYYY-MM-DD (default today)")
}

// resolveDate returns the --date flag normalised, or today.
func resolveDate(cmd *cobra.Command) (string, error) {
	raw, _ := cmd.Flags().GetString("date")
	return dateOrToday(raw, time.Now())
}

func dateOrToday(raw string, now time.Time) (string, error) {
	if raw == "" {
		return snapshot.Today(now), nil
	}
	date, err := paths.NormalizeDate(raw)
	if err != nil {
		return "", fmt.Errorf("invalid --date: %w", err)
	}
	return date, nil
}

// Execute runs root and reports errors the way every subcommand expects.
func Execute(root *cobra.Command) int {
	defer wire.Close()

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.New(color.FgRed).Sprint("Error: ")+err.Error())
		return 1
	}
	return 0
}
