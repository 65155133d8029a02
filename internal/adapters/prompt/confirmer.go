// Package prompt asks the person at the terminal to confirm destructive or
// ambiguous operations.
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/example/wardnotes/internal/ports/secondary"
)

// maxAttempts bounds how often an unrecognised answer is re-asked before the
// request is treated as cancelled.
const maxAttempts = 3

// TerminalConfirmer implements secondary.Confirmer on a line-oriented terminal.
type TerminalConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminalConfirmer creates a confirmer reading answers from in.
func NewTerminalConfirmer(in io.Reader, out io.Writer) *TerminalConfirmer {
	return &TerminalConfirmer{in: bufio.NewReader(in), out: out}
}

// Confirm prints the request and returns the chosen button index. An empty
// answer or end of input picks index 0, the cancelling choice. Answers may be
// the button number or a case-insensitive prefix of its label.
func (c *TerminalConfirmer) Confirm(ctx context.Context, req secondary.ConfirmRequest) (int, error) {
	if len(req.Buttons) == 0 {
		return 0, nil
	}

	title := color.New(color.Bold, color.FgYellow)
	fmt.Fprintln(c.out)
	if req.Title != "" {
		title.Fprintln(c.out, req.Title)
	}
	if req.Message != "" {
		fmt.Fprintln(c.out, req.Message)
	}
	if req.Detail != "" {
		color.New(color.Faint).Fprintln(c.out, req.Detail)
	}
	for i, b := range req.Buttons {
		fmt.Fprintf(c.out, "  [%d] %s\n", i, b)
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		fmt.Fprintf(c.out, "Choice [0]: ")

		line, err := c.in.ReadString('\n')
		answer := strings.TrimSpace(line)
		if err != nil && answer == "" {
			if err == io.EOF {
				fmt.Fprintln(c.out)
				return 0, nil
			}
			return 0, fmt.Errorf("failed to read answer: %w", err)
		}
		if answer == "" {
			return 0, nil
		}

		if i, ok := match(answer, req.Buttons); ok {
			return i, nil
		}
		color.New(color.FgRed).Fprintf(c.out, "Unrecognised choice %q\n", answer)
	}

	return 0, nil
}

func match(answer string, buttons []string) (int, bool) {
	if n, err := strconv.Atoi(answer); err == nil {
		if n >= 0 && n < len(buttons) {
			return n, true
		}
		return 0, false
	}

	found := -1
	lower := strings.ToLower(answer)
	for i, b := range buttons {
		if strings.HasPrefix(strings.ToLower(b), lower) {
			if found >= 0 {
				return 0, false // ambiguous
			}
			found = i
		}
	}
	return found, found >= 0
}

// AutoConfirmer answers every request with the same button index, clamped to
// the buttons offered. It backs --yes and non-interactive runs.
type AutoConfirmer struct {
	Choice int
}

// Confirm returns the fixed choice.
func (a AutoConfirmer) Confirm(ctx context.Context, req secondary.ConfirmRequest) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if a.Choice < 0 || a.Choice >= len(req.Buttons) {
		return 0, nil
	}
	return a.Choice, nil
}

var (
	_ secondary.Confirmer = (*TerminalConfirmer)(nil)
	_ secondary.Confirmer = AutoConfirmer{}
)
