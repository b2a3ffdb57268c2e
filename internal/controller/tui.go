package controller

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"

	m "gooze.dev/pkg/viewspy/internal/model"
	"gooze.dev/pkg/viewspy/pkg/keys"
)

// Lines reserved around the viewport for the header and footer.
const reservedLines = 5

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	patternStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("246"))
	keyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	dynamicStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("214"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	missingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// TUI implements UI with lipgloss styling, paging long listings through a
// Bubble Tea viewport.
type TUI struct {
	output io.Writer
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// DisplaySites shows the wrapper declarations, paged when they do not fit.
func (p *TUI) DisplaySites(ctx context.Context, sites []m.Site) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	title := fmt.Sprintf("viewspy: %d shadow wrapper(s)", len(sites))

	if len(sites) == 0 {
		return p.print(titleStyle.Render(title) + "\n" + mutedStyle.Render("  no shadow wrappers found") + "\n")
	}

	return p.page(title, renderSiteLines(sites))
}

// DisplayCoverage shows unsatisfied keys and the coverage score.
func (p *TUI) DisplayCoverage(ctx context.Context, coverage m.Coverage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", titleStyle.Render(fmt.Sprintf("viewspy: checking %s", coverage.Fixture)))

	for _, site := range coverage.Missing {
		fmt.Fprintf(&b, "  %s %s %s\n", missingStyle.Render("✗"), keyStyle.Render(site.Key), mutedStyle.Render(site.Location()))
	}

	for _, site := range coverage.Mismatched {
		fmt.Fprintf(&b, "  %s %s %s %s\n", missingStyle.Render("≠"), keyStyle.Render(site.Key),
			missingStyle.Render("wants "+site.Type), mutedStyle.Render(site.Location()))
	}

	for _, site := range coverage.Unresolved {
		fmt.Fprintf(&b, "  %s %s %s\n", dynamicStyle.Render("?"), dynamicStyle.Render(siteKey(site)), mutedStyle.Render(site.Location()))
	}

	for _, site := range coverage.CodeInjected {
		fmt.Fprintf(&b, "  %s %s %s\n", patternStyle.Render("•"), patternStyle.Render(siteKey(site)), mutedStyle.Render("inject in code "+site.Location()))
	}

	scoreStyle := addedStyle
	if coverage.Failed() {
		scoreStyle = missingStyle
	}

	fmt.Fprintf(&b, "\n  Injection coverage: %s (%d/%d)\n",
		scoreStyle.Render(fmt.Sprintf("%.2f%%", coverage.Score*100)), coverage.Covered(), len(coverage.Required))

	return p.print(b.String())
}

// DisplayFixture lists the canonical keys of a fixture.
func (p *TUI) DisplayFixture(ctx context.Context, path m.Path, fixtureKeys []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	lines := make([]string, 0, len(fixtureKeys))
	for _, key := range fixtureKeys {
		lines = append(lines, "  "+keyStyle.Render(key))
	}

	return p.page(fmt.Sprintf("viewspy: %s injects %d key(s)", path, len(fixtureKeys)), lines)
}

// DisplayDiff shows a colourised unified diff.
func (p *TUI) DisplayDiff(ctx context.Context, path m.Path, diff string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if diff == "" {
		return p.print(mutedStyle.Render(fmt.Sprintf("%s is up to date", path)) + "\n")
	}

	return p.page(fmt.Sprintf("viewspy: merge into %s", path), colorDiff(diff))
}

func (p *TUI) print(s string) error {
	_, err := fmt.Fprint(p.output, s)
	return err
}

// page prints short content directly and runs a pager for the rest.
func (p *TUI) page(title string, lines []string) error {
	model := newPagerModel(title, lines)

	if f, ok := p.output.(*os.File); ok {
		width, height, err := term.GetSize(f.Fd())
		if err == nil {
			model = model.resize(width, height)
		}
	}

	if !model.needsPagination() {
		return p.print(model.render())
	}

	program := tea.NewProgram(model, tea.WithOutput(p.output), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return err
	}

	return nil
}

func renderSiteLines(sites []m.Site) []string {
	width := 0
	for _, site := range sites {
		width = max(width, len(site.Pattern))
	}

	lines := make([]string, 0, len(sites))

	for _, site := range sites {
		pattern := patternStyle.Render(fmt.Sprintf("%-*s", width, site.Pattern))

		key := keyStyle.Render(siteKey(site))
		switch {
		case site.Dynamic:
			key = dynamicStyle.Render(siteKey(site))
		case site.Pattern == keys.PatternState:
			key = mutedStyle.Render(siteKey(site))
		}

		lines = append(lines, fmt.Sprintf("  %s  %s  %s", pattern, key, mutedStyle.Render(site.Location())))
	}

	return lines
}

func colorDiff(diff string) []string {
	lines := strings.Split(strings.TrimRight(diff, "\n"), "\n")

	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"), strings.HasPrefix(line, "@@"):
			lines[i] = mutedStyle.Render(line)
		case strings.HasPrefix(line, "+"):
			lines[i] = addedStyle.Render(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = removedStyle.Render(line)
		}
	}

	return lines
}

// pagerModel is the Bubble Tea model scrolling a list of lines.
type pagerModel struct {
	title    string
	lines    []string
	viewport viewport.Model
	width    int
	height   int
	quitting bool
}

func newPagerModel(title string, lines []string) pagerModel {
	vp := viewport.New(0, 0)
	vp.SetContent(strings.Join(lines, "\n"))

	return pagerModel{
		title:    title,
		lines:    lines,
		viewport: vp,
	}
}

func (pm pagerModel) resize(width, height int) pagerModel {
	pm.width = width
	pm.height = height
	pm.viewport.Width = width
	pm.viewport.Height = max(height-reservedLines, 1)

	return pm
}

// needsPagination returns true if the lines do not fit on screen.
func (pm pagerModel) needsPagination() bool {
	return pm.height > 0 && len(pm.lines) > pm.height-reservedLines
}

func (pm pagerModel) Init() tea.Cmd {
	return nil
}

func (pm pagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return pm.resize(msg.Width, msg.Height), nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			pm.quitting = true
			return pm, tea.Quit
		case "g", "home":
			pm.viewport.GotoTop()
			return pm, nil
		case "G", "end":
			pm.viewport.GotoBottom()
			return pm, nil
		}
	}

	var cmd tea.Cmd
	pm.viewport, cmd = pm.viewport.Update(msg)

	return pm, cmd
}

func (pm pagerModel) View() string {
	if pm.quitting {
		return ""
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%s\n\n", titleStyle.Render(pm.title))
	b.WriteString(pm.viewport.View())
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s\n", mutedStyle.Render(fmt.Sprintf(
		"%3.f%% | ↑/k: up | ↓/j: down | g: top | G: bottom | q: quit", pm.viewport.ScrollPercent()*100)))

	return b.String()
}

// render returns the whole listing without paging.
func (pm pagerModel) render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n\n", titleStyle.Render(pm.title))

	for _, line := range pm.lines {
		fmt.Fprintf(&b, "%s\n", line)
	}

	return b.String()
}
