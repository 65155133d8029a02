package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	cliadapter "github.com/example/wardnotes/internal/adapters/cli"
	"github.com/example/wardnotes/internal/core/patient"
	"github.com/example/wardnotes/internal/core/paths"
	"github.com/example/wardnotes/internal/wire"
)

var patientCmd = &cobra.Command{
	Use:     "patient",
	Aliases: []string{"pt"},
	Short:   "Manage the patient list of a day",
	Long: `Add, update, remove and merge patients on a dated patient list.
Patients are referred to by id or MRN. Removing a patient never deletes notes.`,
}

var patientListCmd = &cobra.Command{
	Use:   "list",
	Short: "List patients",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := resolveDate(cmd)
		if err != nil {
			return err
		}
		sortFlag, _ := cmd.Flags().GetString("sort")
		mode, err := patient.ParseSortMode(sortFlag)
		if err != nil {
			return err
		}
		search, _ := cmd.Flags().GetString("search")

		adapter, err := wire.PatientAdapter(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		_, err = adapter.List(NewContext(), date, mode, search)
		return err
	},
}

var patientShowCmd = &cobra.Command{
	Use:   "show [id-or-mrn]",
	Short: "Show every field of a patient",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := resolveDate(cmd)
		if err != nil {
			return err
		}
		adapter, err := wire.PatientAdapter(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		_, err = adapter.Show(NewContext(), date, args[0])
		return err
	},
}

var patientAddCmd = &cobra.Command{
	Use:   "add [name] [field=value...]",
	Short: "Add a patient",
	Long: `Add a patient to the list. Without --mrn the patient gets a generated id;
merge it into an MRN later with 'wardnotes patient merge'.`,
	Example: `  wardnotes patient add "SMITH, John" --mrn 12345678 location="Bed 4" ward=7B`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := resolveDate(cmd)
		if err != nil {
			return err
		}
		mrn, _ := cmd.Flags().GetString("mrn")
		changes, err := cliadapter.ParseAssignments(args[1:])
		if err != nil {
			return err
		}

		p, err := cliadapter.ApplyFields(patient.Patient{MRN: mrn, RawName: args[0]}, changes)
		if err != nil {
			return err
		}

		adapter, err := wire.PatientAdapter(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		_, err = adapter.Add(NewContext(), date, p)
		return err
	},
}

var patientUpdateCmd = &cobra.Command{
	Use:     "update [id-or-mrn] [field=value...]",
	Short:   "Change fields of a patient",
	Example: `  wardnotes patient update 12345678 location="Bed 12" diagnosis="CAP"`,
	Args:    cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := resolveDate(cmd)
		if err != nil {
			return err
		}
		changes, err := cliadapter.ParseAssignments(args[1:])
		if err != nil {
			return err
		}

		adapter, err := wire.PatientAdapter(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		return adapter.Update(NewContext(), date, args[0], changes)
	},
}

var patientRemoveCmd = &cobra.Command{
	Use:     "remove [id-or-mrn]",
	Aliases: []string{"rm"},
	Short:   "Take a patient off the list (notes are kept)",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := resolveDate(cmd)
		if err != nil {
			return err
		}
		adapter, err := wire.PatientAdapter(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		return adapter.Remove(NewContext(), date, args[0])
	},
}

var patientMergeCmd = &cobra.Command{
	Use:   "merge [uuid] [mrn]",
	Short: "Move a patient without an MRN, and their notes, under an MRN",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := resolveDate(cmd)
		if err != nil {
			return err
		}
		adapter, err := wire.PatientAdapter(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		_, err = adapter.Merge(NewContext(), date, args[0], args[1])
		return err
	},
}

var patientCarryCmd = &cobra.Command{
	Use:   "carry [from-date]",
	Short: "Copy the patients of an earlier list onto --date",
	Long: `Copy every patient from another day's list onto the list of --date
(default today). Patients already listed are skipped, so carrying twice is safe.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		to, err := resolveDate(cmd)
		if err != nil {
			return err
		}
		from, err := paths.NormalizeDate(args[0])
		if err != nil {
			return err
		}
		if from == to {
			return fmt.Errorf("source and target date are both %s", to)
		}

		adapter, err := wire.PatientAdapter(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		_, err = adapter.Carry(NewContext(), from, to)
		return err
	},
}

var patientReorderCmd = &cobra.Command{
	Use:   "reorder [id-or-mrn...]",
	Short: "Set the custom order of the list",
	Long:  "Set the custom order of the list. Every patient on the list must be named exactly once.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := resolveDate(cmd)
		if err != nil {
			return err
		}
		adapter, err := wire.PatientAdapter(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		return adapter.Reorder(NewContext(), date, args)
	},
}

func init() {
	for _, c := range []*cobra.Command{
		patientListCmd, patientShowCmd, patientAddCmd, patientUpdateCmd,
		patientRemoveCmd, patientMergeCmd, patientCarryCmd, patientReorderCmd,
	} {
		addDateFlag(c)
		patientCmd.AddCommand(c)
	}

	patientListCmd.Flags().StringP("sort", "s", "custom", "Order: custom, name or location")
	patientListCmd.Flags().String("search", "", "Only patients whose name, MRN or location contains this text")

	patientAddCmd.Flags().String("mrn", "", "Medical record number")
}

// PatientCmd returns the patient command
func PatientCmd() *cobra.Command {
	return patientCmd
}
