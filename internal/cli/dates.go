package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/wardnotes/internal/core/paths"
	"github.com/example/wardnotes/internal/wire"
)

var datesCmd = &cobra.Command{
	Use:   "dates",
	Short: "List and open dated patient lists",
}

var datesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the dates that have a patient list, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		adapter, err := wire.DatesAdapter(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		_, err = adapter.List(NewContext())
		return err
	},
}

var datesGotoCmd = &cobra.Command{
	Use:   "goto [date]",
	Short: "Open the list of a date, creating it empty if needed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := paths.NormalizeDate(args[0])
		if err != nil {
			return err
		}
		adapter, err := wire.DatesAdapter(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		return adapter.Goto(NewContext(), date)
	},
}

func init() {
	datesCmd.AddCommand(datesListCmd)
	datesCmd.AddCommand(datesGotoCmd)
}

// DatesCmd returns the dates command
func DatesCmd() *cobra.Command {
	return datesCmd
}
