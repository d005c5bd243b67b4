package controller

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	m "tastmod.dev/pkg/tastmod/internal/model"
)

// PagerUI implements UI on a terminal. Short previews print directly;
// long ones open a scrollable Bubble Tea pager.
type PagerUI struct {
	*SimpleUI
}

// NewPagerUI wraps a SimpleUI with pager-capable previews.
func NewPagerUI(simple *SimpleUI) *PagerUI {
	return &PagerUI{SimpleUI: simple}
}

// Preview shows the intended change for one file, paginating when the diff
// does not fit on screen.
func (p *PagerUI) Preview(path m.Path, before, after []byte) {
	diff, err := renderDiff(path, before, after)
	if err != nil {
		p.printf("could not diff %s: %v\n", path, err)
		return
	}

	model := newPreviewModel(path, diff)

	// Get initial terminal size.
	if f, ok := p.cmd.OutOrStdout().(*os.File); ok {
		width, height, err := term.GetSize(int(f.Fd()))
		if err == nil {
			model.height = height
			model.width = width
		}
	}

	// If the diff is short, just print and move on.
	if !model.needsPagination() {
		p.printf("%s\n", diff)
		return
	}

	program := tea.NewProgram(model, tea.WithOutput(p.cmd.OutOrStdout()), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		p.printf("%s\n", diff)
	}
}

// previewModel is the Bubble Tea model for a scrollable diff preview.
type previewModel struct {
	path     m.Path
	lines    []string
	height   int
	width    int
	offset   int // Current scroll offset
	quitting bool
}

func newPreviewModel(path m.Path, diff string) previewModel {
	return previewModel{
		path:  path,
		lines: strings.Split(strings.TrimRight(diff, "\n"), "\n"),
	}
}

func (pm previewModel) Init() tea.Cmd {
	return nil
}

func (pm previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		pm.height = msg.Height
		pm.width = msg.Width

		return pm, nil

	case tea.KeyMsg:
		return pm.handleKeyPress(msg)
	}

	return pm, nil
}

func (pm previewModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		pm.quitting = true
		return pm, tea.Quit
	default:
	}

	switch msg.String() {
	case "q":
		pm.quitting = true
		return pm, tea.Quit

	case "down", "j":
		pm.offset = min(pm.offset+1, pm.maxOffset())
		return pm, nil

	case "up", "k":
		pm.offset = max(pm.offset-1, 0)
		return pm, nil

	case "g", "home":
		pm.offset = 0
		return pm, nil

	case "G", "end":
		pm.offset = pm.maxOffset()
		return pm, nil

	case "d", "pgdown":
		pm.offset = min(pm.offset+pm.linesPerPage(), pm.maxOffset())
		return pm, nil

	case "u", "pgup":
		pm.offset = max(pm.offset-pm.linesPerPage(), 0)
		return pm, nil
	}

	return pm, nil
}

// linesPerPage calculates how many diff lines fit on screen, reserving
// room for the header and footer.
func (pm previewModel) linesPerPage() int {
	if pm.height == 0 {
		return 20 // Default before the first WindowSizeMsg.
	}

	reserved := 4 // header + blank + footer + blank

	available := pm.height - reserved
	if available < 1 {
		return 1
	}

	return available
}

// maxOffset returns the maximum scroll offset.
func (pm previewModel) maxOffset() int {
	maxOff := len(pm.lines) - pm.linesPerPage()
	if maxOff < 0 {
		return 0
	}

	return maxOff
}

// needsPagination returns true if the diff is too large to fit on screen.
func (pm previewModel) needsPagination() bool {
	return pm.height > 0 && len(pm.lines) > pm.linesPerPage()
}

func (pm previewModel) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("Changes to %s", pm.path)))
	b.WriteString("\n\n")

	start := min(pm.offset, pm.maxOffset())
	end := min(start+pm.linesPerPage(), len(pm.lines))

	for _, line := range pm.lines[start:end] {
		b.WriteString(line)
		b.WriteString("\n")
	}

	if pm.needsPagination() {
		b.WriteString(fmt.Sprintf("\nLines %d-%d of %d | ↑/k: up | ↓/j: down | g: top | G: bottom | q: quit\n",
			start+1, end, len(pm.lines)))
	}

	return b.String()
}
