package controller

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	m "tastmod.dev/pkg/tastmod/internal/model"
)

const diffContextLines = 3

var (
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	headerStyle  = lipgloss.NewStyle().Bold(true)
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// SimpleUI implements UI using cobra Command's output stream. A mutex
// serializes writes because files are processed concurrently.
type SimpleUI struct {
	cmd *cobra.Command
	mu  sync.Mutex
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// FileResult prints the per-file outcome line.
func (s *SimpleUI) FileResult(res m.FileResult, mode m.OutputMode) {
	if !res.Modified {
		return
	}

	switch mode {
	case m.ModeDryRun, m.ModeDryRunVerbose:
		s.printf("Would write to %s\n", res.Path)
	case m.ModeWrite:
		s.printf("Wrote changes to %s\n", res.Path)
	}
}

// Preview prints a unified diff of the intended change.
func (s *SimpleUI) Preview(path m.Path, before, after []byte) {
	diff, err := renderDiff(path, before, after)
	if err != nil {
		s.printf("could not diff %s: %v\n", path, err)
		return
	}

	s.printf("%s\n", diff)
}

// renderDiff builds a colored unified diff between two buffers.
func renderDiff(path m.Path, before, after []byte) (string, error) {
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: string(path),
		ToFile:   string(path) + " (modified)",
		Context:  diffContextLines,
	})
	if err != nil {
		return "", err
	}

	var b strings.Builder

	for line := range strings.SplitSeq(strings.TrimRight(text, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			b.WriteString(headerStyle.Render(line))
		case strings.HasPrefix(line, "+"):
			b.WriteString(addedStyle.Render(line))
		case strings.HasPrefix(line, "-"):
			b.WriteString(removedStyle.Render(line))
		default:
			b.WriteString(line)
		}

		b.WriteString("\n")
	}

	return b.String(), nil
}

// DisplayList prints the discovered test declarations as a table.
func (s *SimpleUI) DisplayList(infos []m.TestInfo) {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Test ID", "Variants", "Contacts", "Path"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT,
	})

	for _, info := range infos {
		table.Append([]string{
			string(info.ID),
			fmt.Sprintf("%d", len(info.Variants)),
			fmt.Sprintf("%d", len(info.Contacts)),
			string(info.Path),
		})
	}

	table.Render()

	s.printf("\n%s", tableBuffer.String())
	s.printf("\nFound %d test declaration(s)\n", len(infos))
}

// Summary prints the aggregate run outcome and any per-file failures.
func (s *SimpleUI) Summary(sum *m.RunSummary, mode m.OutputMode) {
	verb := "modified"
	if mode != m.ModeWrite {
		verb = "would modify"
	}

	s.printf("\nScanned %d file(s), %s %d\n", sum.Scanned, verb, len(sum.Modified))

	for _, failure := range sum.Failed {
		s.printf("%s\n", failedStyle.Render(fmt.Sprintf("failed %s: %v", failure.Path, failure.Err)))
	}
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
