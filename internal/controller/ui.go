// Package controller provides the output adapters of the viewspy CLI.
package controller

import (
	"context"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	m "gooze.dev/pkg/viewspy/internal/model"
)

// UI defines how workflow results are shown.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	DisplaySites(ctx context.Context, sites []m.Site) error
	DisplayCoverage(ctx context.Context, coverage m.Coverage) error
	DisplayFixture(ctx context.Context, path m.Path, keys []string) error
	DisplayDiff(ctx context.Context, path m.Path, diff string) error
}

// NewUI returns the interactive TUI when output is a terminal and the plain
// table UI otherwise.
func NewUI(cmd *cobra.Command, tty bool) UI {
	if tty {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether w is an interactive terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
