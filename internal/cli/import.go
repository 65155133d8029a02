package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/wardnotes/internal/core/importer"
	"github.com/example/wardnotes/internal/wire"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import patient lists exported from the hospital system",
}

var importFileCmd = &cobra.Command{
	Use:   "file [path]",
	Short: "Import a .csv or .xlsx export into today's list",
	Long: `Import a .csv or .xlsx export into the active list (today unless a list was opened).
In merge mode (default) patients already listed are kept and only new ones are added.
In replace mode the list becomes exactly the export.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		modeFlag, _ := cmd.Flags().GetString("mode")
		mode, err := importer.ParseMode(modeFlag)
		if err != nil {
			return err
		}
		if err := openDateIfSet(cmd); err != nil {
			return err
		}

		adapter, err := wire.ImportAdapter(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		_, err = adapter.File(NewContext(), args[0], mode)
		return err
	},
}

var importFolderCmd = &cobra.Command{
	Use:   "folder [dir]",
	Short: "Import the newest pt_list_DD_MM_YYYY export found in a folder",
	Long:  "Import the newest pt_list_DD_MM_YYYY.csv/.xlsx export in dir (default: import_directory from config), merging into the list.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var dir string
		if len(args) > 0 {
			dir = args[0]
		} else {
			cfg, err := wire.Config()
			if err != nil {
				return err
			}
			dir = cfg.ImportDirectory
		}
		if dir == "" {
			return fmt.Errorf("no folder given and import_directory is not configured")
		}
		if err := openDateIfSet(cmd); err != nil {
			return err
		}

		adapter, err := wire.ImportAdapter(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		_, err = adapter.Folder(NewContext(), dir)
		return err
	},
}

// openDateIfSet activates the --date list so the import lands there.
func openDateIfSet(cmd *cobra.Command) error {
	if !cmd.Flags().Changed("date") {
		return nil
	}
	date, err := resolveDate(cmd)
	if err != nil {
		return err
	}
	patients, err := wire.PatientService()
	if err != nil {
		return err
	}
	_, err = patients.NavigateToDate(NewContext(), date)
	return err
}

func init() {
	importFileCmd.Flags().StringP("mode", "m", string(importer.ModeMerge), "merge or replace")
	addDateFlag(importFileCmd)
	addDateFlag(importFolderCmd)

	importCmd.AddCommand(importFileCmd)
	importCmd.AddCommand(importFolderCmd)
}

// ImportCmd returns the import command
func ImportCmd() *cobra.Command {
	return importCmd
}
