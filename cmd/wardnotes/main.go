package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/example/wardnotes/internal/cli"
	"github.com/example/wardnotes/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "wardnotes",
		Short:   "wardnotes - daily patient lists and clinical notes",
		Version: version.String(),
		Long: `wardnotes keeps a dated patient list for each ward round and a note per
patient per day. Patients without an MRN get a generated id that can later be
merged into their MRN, taking their notes with them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cli.Bootstrap(cmd)
		},
	}
	cli.AddGlobalFlags(rootCmd)

	// Add subcommands
	rootCmd.AddCommand(cli.ConfigCmd())
	rootCmd.AddCommand(cli.PatientCmd())
	rootCmd.AddCommand(cli.NoteCmd())
	rootCmd.AddCommand(cli.DatesCmd())
	rootCmd.AddCommand(cli.ImportCmd())
	rootCmd.AddCommand(cli.LogCmd())

	os.Exit(cli.Execute(rootCmd))
}
