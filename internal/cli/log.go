package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/wardnotes/internal/ports/primary"
	"github.com/example/wardnotes/internal/wire"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View the patient audit trail",
	Long:  "View and prune the audit trail of patient list changes (who added, changed, removed, merged or imported whom).",
	RunE: func(cmd *cobra.Command, args []string) error {
		return logShowCmd.RunE(cmd, args)
	},
}

var logShowCmd = &cobra.Command{
	Use:   "show [patient-id]",
	Short: "Show recent events, optionally for one patient",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		actor, _ := cmd.Flags().GetString("actor")
		action, _ := cmd.Flags().GetString("action")
		listDate, _ := cmd.Flags().GetString("list-date")
		if limit <= 0 {
			limit = 50
		}

		filters := primary.EventFilters{
			ActorID:  actor,
			Action:   action,
			ListDate: listDate,
			Limit:    limit,
		}
		if len(args) > 0 {
			filters.PatientID = args[0]
		}

		adapter, err := wire.LogAdapter(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		_, err = adapter.List(NewContext(), filters)
		return err
	},
}

var logPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old events",
	Long:  "Delete events older than the specified number of days (default 90)",
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")

		adapter, err := wire.LogAdapter(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		_, err = adapter.Prune(NewContext(), days)
		return err
	},
}

func init() {
	for _, c := range []*cobra.Command{logCmd, logShowCmd} {
		c.Flags().IntP("limit", "n", 50, "Maximum number of events")
		c.Flags().String("actor", "", "Only events by this actor")
		c.Flags().String("action", "", "Only events of this action (create, update, remove, merge, import)")
		c.Flags().String("list-date", "", "Only events on the list of this date")
	}
	logPruneCmd.Flags().Int("days", 90, "Delete events older than this many days")

	logCmd.AddCommand(logShowCmd)
	logCmd.AddCommand(logPruneCmd)
}

// LogCmd returns the log command
func LogCmd() *cobra.Command {
	return logCmd
}
