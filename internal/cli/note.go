package cli

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/wardnotes/internal/app"
	"github.com/example/wardnotes/internal/core/snapshot"
	"github.com/example/wardnotes/internal/wire"
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Read and write a patient's daily notes",
	Long: `Read and write the notes of a patient for one day (--date, default today).
Notes follow the patient's identity: an MRN patient's notes survive removal
from the list and come back when they are re-added.`,
}

var noteShowCmd = &cobra.Command{
	Use:   "show [id-or-mrn]",
	Short: "Print a patient's note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := resolveDate(cmd)
		if err != nil {
			return err
		}
		adapter, err := wire.NoteAdapter(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		_, err = adapter.Show(NewContext(), date, args[0])
		return err
	},
}

var noteSaveCmd = &cobra.Command{
	Use:   "save [id-or-mrn]",
	Short: "Replace a patient's note",
	Long:  "Replace a patient's note with --content, or with standard input when --content is omitted.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := resolveDate(cmd)
		if err != nil {
			return err
		}
		content, err := noteContent(cmd)
		if err != nil {
			return err
		}
		adapter, err := wire.NoteAdapter(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		return adapter.Save(NewContext(), date, args[0], content)
	},
}

var noteEditCmd = &cobra.Command{
	Use:   "edit [id-or-mrn]",
	Short: "Edit a patient's note in $EDITOR",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := resolveDate(cmd)
		if err != nil {
			return err
		}
		adapter, err := wire.NoteAdapter(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		notes, err := wire.NoteService()
		if err != nil {
			return err
		}

		ctx := NewContext()
		p, err := adapter.Patient(ctx, date, args[0])
		if err != nil {
			return err
		}

		session := app.NewNoteSession(notes)
		if err := session.Open(ctx, *p, date); err != nil {
			return err
		}

		edited, err := runEditor(session.Content())
		if err != nil {
			return err
		}
		if err := session.Edit(edited); err != nil {
			return err
		}
		if !session.HasUnsavedChanges() {
			fmt.Fprintln(cmd.OutOrStdout(), "No changes.")
			return nil
		}
		if err := session.Save(ctx); err != nil {
			// Keep the edit somewhere the user can recover it from.
			if path, werr := writeRecovery(edited); werr == nil {
				return fmt.Errorf("failed to save note (your text is in %s): %w", path, err)
			}
			return fmt.Errorf("failed to save note: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Note for %s on %s saved\n", p.DisplayName(), session.Date())
		return nil
	},
}

var noteDatesCmd = &cobra.Command{
	Use:   "dates [id-or-mrn]",
	Short: "List the days a patient has notes for",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := resolveDate(cmd)
		if err != nil {
			return err
		}
		adapter, err := wire.NoteAdapter(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		_, err = adapter.Dates(NewContext(), date, args[0])
		return err
	},
}

var notePrevCmd = &cobra.Command{
	Use:   "prev [id-or-mrn]",
	Short: "Print the closest note date before --date",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAdjacent(cmd, args[0], snapshot.Previous)
	},
}

var noteNextCmd = &cobra.Command{
	Use:   "next [id-or-mrn]",
	Short: "Print the closest note date after --date",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAdjacent(cmd, args[0], snapshot.Next)
	},
}

func runAdjacent(cmd *cobra.Command, ref string, dir snapshot.Direction) error {
	date, err := resolveDate(cmd)
	if err != nil {
		return err
	}
	adapter, err := wire.NoteAdapter(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	_, err = adapter.Adjacent(NewContext(), date, ref, dir)
	return err
}

func noteContent(cmd *cobra.Command) (string, error) {
	if cmd.Flags().Changed("content") {
		content, _ := cmd.Flags().GetString("content")
		return content, nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read note from stdin: %w", err)
	}
	return string(data), nil
}

// runEditor opens content in $VISUAL or $EDITOR (default vi) and returns the
// edited text.
func runEditor(content string) (string, error) {
	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}

	f, err := os.CreateTemp("", "wardnotes-*.txt")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}

	parts := strings.Fields(editor)
	c := exec.Command(parts[0], append(parts[1:], path)...)
	c.Stdin, c.Stdout, c.Stderr = os.Stdin, os.Stdout, os.Stderr
	if err := c.Run(); err != nil {
		return "", fmt.Errorf("editor %q failed: %w", editor, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read edited note: %w", err)
	}
	return string(data), nil
}

func writeRecovery(content string) (string, error) {
	f, err := os.CreateTemp("", "wardnotes-unsaved-*.txt")
	if err != nil {
		return "", err
	}
	defer f.Close()
	_, err = f.WriteString(content)
	return f.Name(), err
}

func init() {
	for _, c := range []*cobra.Command{
		noteShowCmd, noteSaveCmd, noteEditCmd, noteDatesCmd, notePrevCmd, noteNextCmd,
	} {
		addDateFlag(c)
		noteCmd.AddCommand(c)
	}

	noteSaveCmd.Flags().StringP("content", "c", "", "Note content (default: read stdin)")
}

// NoteCmd returns the note command
func NoteCmd() *cobra.Command {
	return noteCmd
}
