package controller

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "gooze.dev/pkg/viewspy/internal/model"
)

// SimpleUI implements UI using cobra Command's output and plain tables.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// DisplaySites prints one row per wrapper declaration.
func (s *SimpleUI) DisplaySites(ctx context.Context, sites []m.Site) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(sites) == 0 {
		s.printf("no shadow wrappers found\n")
		return nil
	}

	s.printf("\n%s", renderSiteTable(sites))

	return nil
}

// DisplayCoverage prints the unsatisfied keys and the coverage score.
func (s *SimpleUI) DisplayCoverage(ctx context.Context, coverage m.Coverage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(coverage.Missing) > 0 {
		s.printf("\nMissing injections in %s:\n%s", coverage.Fixture, renderSiteTable(coverage.Missing))
	}

	for _, site := range coverage.Mismatched {
		s.printf("wrong type for %s at %s: wrapper reads %s\n", site.Key, site.Location(), site.Type)
	}

	for _, site := range coverage.Unresolved {
		s.printf("unresolved %s %s at %s\n", site.Pattern, site.Name, site.Location())
	}

	for _, site := range coverage.CodeInjected {
		s.printf("inject in code: %s at %s\n", siteKey(site), site.Location())
	}

	s.printf("Injection coverage: %.2f%% (%d/%d)\n", coverage.Score*100, coverage.Covered(), len(coverage.Required))

	return nil
}

// DisplayFixture prints the canonical keys a fixture injects.
func (s *SimpleUI) DisplayFixture(ctx context.Context, path m.Path, keys []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("%s injects %d key(s)\n", path, len(keys))

	for _, key := range keys {
		s.printf("  %s\n", key)
	}

	return nil
}

// DisplayDiff prints a unified diff, or a note when there is nothing to change.
func (s *SimpleUI) DisplayDiff(ctx context.Context, path m.Path, diff string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if diff == "" {
		s.printf("%s is up to date\n", path)
		return nil
	}

	s.printf("%s", diff)

	return nil
}

func renderSiteTable(sites []m.Site) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Pattern", "Key", "Location"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})

	for _, site := range sites {
		table.Append([]string{string(site.Pattern), siteKey(site), site.Location()})
	}

	table.SetFooter([]string{"Total", strconv.Itoa(len(sites)), ""})

	table.Render()

	return tableBuffer.String()
}

// siteKey is the key column: the derived key, or the expression a dynamic
// site is keyed by.
func siteKey(site m.Site) string {
	switch {
	case site.Key != "":
		return site.Key
	case site.Dynamic && site.Name != "":
		return "<" + site.Name + ">"
	case site.Dynamic:
		return "<dynamic>"
	}

	return "-"
}

func (s *SimpleUI) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
