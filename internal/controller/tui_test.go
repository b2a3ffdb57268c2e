package controller

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "gooze.dev/pkg/viewspy/internal/model"
	"gooze.dev/pkg/viewspy/pkg/keys"
)

func TestTUI_DisplaySites_PrintsWhenNotATerminal(t *testing.T) {
	out := &bytes.Buffer{}
	ui := NewTUI(out)

	require.NoError(t, ui.DisplaySites(context.Background(), testSites()))

	output := out.String()
	assert.Contains(t, output, "4 shadow wrapper(s)")
	assert.Contains(t, output, "Environment_colorScheme")
	assert.Contains(t, output, "view/settings.go:12")
	assert.Contains(t, output, "<path>")
}

func TestTUI_DisplaySites_Empty(t *testing.T) {
	out := &bytes.Buffer{}

	require.NoError(t, NewTUI(out).DisplaySites(context.Background(), nil))
	assert.Contains(t, out.String(), "no shadow wrappers found")
}

func TestTUI_DisplayCoverage(t *testing.T) {
	out := &bytes.Buffer{}
	sites := testSites()

	err := NewTUI(out).DisplayCoverage(context.Background(), m.Coverage{
		Fixture:  "fixture.yaml",
		Required: sites[:2],
		Missing:  sites[:1],
		Score:    0.5,
	})
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, "checking fixture.yaml")
	assert.Contains(t, output, "Environment_colorScheme")
	assert.Contains(t, output, "50.00%")
	assert.Contains(t, output, "(1/2)")
}

func TestTUI_DisplayCoverage_MismatchedAndCodeInjected(t *testing.T) {
	out := &bytes.Buffer{}

	size := m.Site{Pattern: keys.PatternEnvironment, Key: "Environment_pageSize", Type: "int"}
	store := m.Site{Pattern: keys.PatternEnvironmentObject, Key: "EnvironmentObject_*app.Store"}

	err := NewTUI(out).DisplayCoverage(context.Background(), m.Coverage{
		Fixture:      "fixture.yaml",
		Required:     []m.Site{size},
		Mismatched:   []m.Site{size},
		CodeInjected: []m.Site{store},
	})
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, "Environment_pageSize")
	assert.Contains(t, output, "wants int")
	assert.Contains(t, output, "EnvironmentObject_*app.Store")
	assert.Contains(t, output, "inject in code")
	assert.Contains(t, output, "(0/1)")
}

func TestTUI_DisplayFixtureAndDiff(t *testing.T) {
	out := &bytes.Buffer{}
	ui := NewTUI(out)

	require.NoError(t, ui.DisplayFixture(context.Background(), "f.yaml", []string{"Environment_a"}))
	assert.Contains(t, out.String(), "f.yaml injects 1 key(s)")
	assert.Contains(t, out.String(), "Environment_a")

	out.Reset()
	require.NoError(t, ui.DisplayDiff(context.Background(), "f.yaml", ""))
	assert.Contains(t, out.String(), "f.yaml is up to date")

	out.Reset()
	require.NoError(t, ui.DisplayDiff(context.Background(), "f.yaml", "--- a\n+++ b\n@@ -1 +1 @@\n-old\n+new\n"))
	assert.Contains(t, out.String(), "-old")
	assert.Contains(t, out.String(), "+new")
}

func TestColorDiff_KeepsLineCount(t *testing.T) {
	lines := colorDiff("--- a\n+++ b\n@@ -1 +1 @@\n-old\n+new\n same\n")
	assert.Len(t, lines, 6)
	assert.Equal(t, " same", lines[5])
}

func manyLines(n int) []string {
	lines := make([]string, n)
	for i := range n {
		lines[i] = fmt.Sprintf("line %d", i)
	}

	return lines
}

func TestPagerModel_NeedsPagination(t *testing.T) {
	tests := []struct {
		name   string
		lines  int
		height int
		want   bool
	}{
		{"unknown height", 100, 0, false},
		{"fits", 5, 20, false},
		{"exactly fits", 15, 20, false},
		{"overflows", 16, 20, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := newPagerModel("title", manyLines(tt.lines)).resize(80, tt.height)
			assert.Equal(t, tt.want, model.needsPagination())
		})
	}
}

func TestPagerModel_Update(t *testing.T) {
	model := newPagerModel("title", manyLines(50)).resize(80, 15)

	t.Run("window resize updates viewport", func(t *testing.T) {
		updated, cmd := model.Update(tea.WindowSizeMsg{Width: 100, Height: 25})
		assert.Nil(t, cmd)

		pm := updated.(pagerModel)
		assert.Equal(t, 100, pm.viewport.Width)
		assert.Equal(t, 20, pm.viewport.Height)
	})

	t.Run("G jumps to bottom and g back to top", func(t *testing.T) {
		updated, _ := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}})
		pm := updated.(pagerModel)
		assert.True(t, pm.viewport.AtBottom())

		updated, _ = pm.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})
		pm = updated.(pagerModel)
		assert.True(t, pm.viewport.AtTop())
	})

	t.Run("q quits", func(t *testing.T) {
		updated, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
		assert.Empty(t, updated.View())
	})
}

func TestPagerModel_View(t *testing.T) {
	model := newPagerModel("listing", manyLines(50)).resize(80, 15)

	view := model.View()
	assert.Contains(t, view, "listing")
	assert.Contains(t, view, "line 0")
	assert.NotContains(t, view, "line 49")
	assert.Contains(t, view, "q: quit")

	rendered := model.render()
	assert.Equal(t, 52, strings.Count(rendered, "\n"))
}
