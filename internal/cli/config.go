package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/wardnotes/internal/config"
	"github.com/example/wardnotes/internal/wire"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and change wardnotes settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		home, cfg, err := loadConfig()
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "# %s/%s\n", home, config.FileName)
		fmt.Fprintln(out, string(data))
		if cfg.DataDirectory() == "" {
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Data directory not set. Choose one with:")
			fmt.Fprintln(out, "  wardnotes config set-data-dir ~/ward-notes")
		}
		return nil
	},
}

var configSetDataDirCmd = &cobra.Command{
	Use:   "set-data-dir [path]",
	Short: "Choose where patient lists and notes are stored",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		home, cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if err := config.SetDataDirectory(home, cfg, args[0]); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Data directory set to %s\n", cfg.DataDirectory())
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a single setting",
	Long:  "Change a single setting. Keys: " + strings.Join(config.Keys(), ", "),
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		home, cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if args[0] == "data_directory" {
			if err := config.SetDataDirectory(home, cfg, args[1]); err != nil {
				return err
			}
		} else {
			if err := cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := config.SaveConfig(home, cfg); err != nil {
				return err
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s updated\n", args[0])
		return nil
	},
}

func loadConfig() (string, *config.Config, error) {
	home, err := wire.Home()
	if err != nil {
		return "", nil, err
	}
	cfg, err := config.LoadConfig(home)
	if err != nil {
		return "", nil, err
	}
	return home, cfg, nil
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetDataDirCmd)
	configCmd.AddCommand(configSetCmd)
}

// ConfigCmd returns the config command
func ConfigCmd() *cobra.Command {
	return configCmd
}
