// Package controller provides output adapters for reporting modification
// runs.
package controller

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "tastmod.dev/pkg/tastmod/internal/model"
)

// UI defines the interface for reporting run progress and results.
// Implementations can use different output methods (simple text, pager).
// Implementations must be safe for concurrent use: files are processed in
// parallel.
type UI interface {
	// FileResult reports the outcome of one modified file, phrased per the
	// output mode (would write vs wrote).
	FileResult(res m.FileResult, mode m.OutputMode)

	// Preview shows the full intended change for one file.
	Preview(path m.Path, before, after []byte)

	// DisplayList prints the table of discovered test declarations.
	DisplayList(infos []m.TestInfo)

	// Summary prints the aggregate outcome of the run, including failures.
	Summary(sum *m.RunSummary, mode m.OutputMode)
}

// NewUI selects a UI implementation: a pager-capable one on a terminal,
// plain output otherwise.
func NewUI(cmd *cobra.Command, isTTY bool) UI {
	simple := NewSimpleUI(cmd)
	if isTTY {
		return NewPagerUI(simple)
	}

	return simple
}

// IsTTY reports whether f is attached to a terminal.
func IsTTY(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
