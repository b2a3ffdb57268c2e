package domain

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/sync/errgroup"

	"gooze.dev/pkg/viewspy/internal/adapter"
	"gooze.dev/pkg/viewspy/internal/controller"
	m "gooze.dev/pkg/viewspy/internal/model"
	"gooze.dev/pkg/viewspy/pkg/inject"
	"gooze.dev/pkg/viewspy/pkg/keys"
)

// ErrMissingInjections is returned by Check when the fixture leaves
// signalling keys uninjected.
var ErrMissingInjections = errors.New("missing injections")

// KeysArgs selects the sources to scan.
type KeysArgs struct {
	Paths   []m.Path
	Exclude []string
	Threads int
	// Pattern keeps only sites of one pattern when set.
	Pattern keys.Pattern
}

// CheckArgs contains the arguments for checking a fixture against a project.
type CheckArgs struct {
	KeysArgs
	Fixture m.Path
}

// MergeArgs contains the arguments for merging fixtures.
type MergeArgs struct {
	Inputs []m.Path
	Output m.Path
	DryRun bool
}

// ViewArgs contains the arguments for displaying a fixture.
type ViewArgs struct {
	Fixture m.Path
}

// Workflow defines the CLI use cases.
type Workflow interface {
	Keys(ctx context.Context, args KeysArgs) error
	Check(ctx context.Context, args CheckArgs) error
	Merge(ctx context.Context, args MergeArgs) error
	View(ctx context.Context, args ViewArgs) error
}

type workflow struct {
	adapter.SourceFSAdapter
	adapter.FixtureStore
	controller.UI
	Scanner
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	fixtureStore adapter.FixtureStore,
	ui controller.UI,
	scanner Scanner,
) Workflow {
	return &workflow{
		SourceFSAdapter: fsAdapter,
		FixtureStore:    fixtureStore,
		UI:              ui,
		Scanner:         scanner,
	}
}

func (w *workflow) Keys(ctx context.Context, args KeysArgs) error {
	sites, err := w.scanSites(ctx, args)
	if err != nil {
		return err
	}

	return w.DisplaySites(ctx, sites)
}

func (w *workflow) Check(ctx context.Context, args CheckArgs) error {
	sites, err := w.scanSites(ctx, args.KeysArgs)
	if err != nil {
		return err
	}

	fixture, err := w.Load(ctx, args.Fixture, false)
	if err != nil {
		return err
	}

	coverage := injectionCoverage(sites, fixture.Apply(inject.New()).Values())
	coverage.Fixture = args.Fixture

	slog.Info("checked fixture", "fixture", args.Fixture, "required", len(coverage.Required), "missing", len(coverage.Missing),
		"mismatched", len(coverage.Mismatched), "code_injected", len(coverage.CodeInjected), "unresolved", len(coverage.Unresolved))

	if err := w.DisplayCoverage(ctx, coverage); err != nil {
		return err
	}

	if coverage.Failed() {
		return fmt.Errorf("%w: %d key(s) not injected by %s", ErrMissingInjections, len(coverage.Required)-coverage.Covered(), args.Fixture)
	}

	return nil
}

func (w *workflow) Merge(ctx context.Context, args MergeArgs) error {
	if len(args.Inputs) == 0 {
		return fmt.Errorf("no fixtures to merge")
	}

	fixtures := make([]*inject.Fixture, 0, len(args.Inputs))

	for _, input := range args.Inputs {
		fixture, err := w.Load(ctx, input, false)
		if err != nil {
			return err
		}

		fixtures = append(fixtures, fixture)
	}

	merged := inject.MergeFixtures(fixtures...)

	if !args.DryRun {
		if err := w.Save(ctx, args.Output, merged); err != nil {
			return err
		}

		slog.Info("merged fixtures", "inputs", len(args.Inputs), "output", args.Output, "keys", len(merged.Keys()))

		return nil
	}

	diff, err := w.diffAgainstOutput(ctx, args.Output, merged)
	if err != nil {
		return err
	}

	return w.DisplayDiff(ctx, args.Output, diff)
}

func (w *workflow) View(ctx context.Context, args ViewArgs) error {
	fixture, err := w.Load(ctx, args.Fixture, false)
	if err != nil {
		return err
	}

	return w.DisplayFixture(ctx, args.Fixture, fixture.Keys())
}

func (w *workflow) diffAgainstOutput(ctx context.Context, output m.Path, merged *inject.Fixture) (string, error) {
	current, err := w.Load(ctx, output, true)
	if err != nil {
		return "", err
	}

	before, err := w.Render(current)
	if err != nil {
		return "", err
	}

	after, err := w.Render(merged)
	if err != nil {
		return "", err
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: string(output),
		ToFile:   string(output) + " (merged)",
		Context:  3,
	})
	if err != nil {
		return "", fmt.Errorf("failed to diff %s: %w", output, err)
	}

	return diff, nil
}

func (w *workflow) scanSites(ctx context.Context, args KeysArgs) ([]m.Site, error) {
	sources, err := w.Get(ctx, args.Paths, args.Exclude...)
	if err != nil {
		return nil, fmt.Errorf("get sources: %w", err)
	}

	sources = w.resolvePackages(ctx, sources)

	var (
		sites []m.Site
		mu    sync.Mutex
	)

	group, groupCtx := errgroup.WithContext(ctx)
	if args.Threads > 0 {
		group.SetLimit(args.Threads)
	}

	for _, source := range sources {
		group.Go(func() error {
			found, err := w.Scan(groupCtx, source)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()

			for _, site := range found {
				if args.Pattern == "" || site.Pattern == args.Pattern {
					sites = append(sites, site)
				}
			}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("scan sources: %w", err)
	}

	slices.SortFunc(sites, func(a, b m.Site) int {
		return cmp.Or(
			strings.Compare(string(a.Source.Origin.ShortPath), string(b.Source.Origin.ShortPath)),
			cmp.Compare(a.Line, b.Line),
			cmp.Compare(a.Column, b.Column),
		)
	})

	slog.Debug("scanned sources", "sources", len(sources), "sites", len(sites))

	return sites, nil
}

// resolvePackages fills in the import path of every source from the module
// that contains it. Sources outside a module keep an empty package.
func (w *workflow) resolvePackages(ctx context.Context, sources []m.Source) []m.Source {
	modules := make(map[m.Path]string)

	for i, source := range sources {
		dir := filepath.Dir(string(source.Origin.FullPath))

		root, err := w.FindProjectRoot(ctx, m.Path(dir))
		if err != nil {
			slog.Warn("no module for source", "path", source.Origin.ShortPath, "error", err)
			continue
		}

		modulePath, ok := modules[root]
		if !ok {
			modulePath, err = w.ModulePath(ctx, root)
			if err != nil {
				slog.Warn("failed to read module path", "root", root, "error", err)
			}

			modules[root] = modulePath
		}

		if modulePath == "" {
			continue
		}

		rel, err := filepath.Rel(string(root), dir)
		if err != nil {
			continue
		}

		if rel == "." {
			sources[i].Package = modulePath
		} else {
			sources[i].Package = modulePath + "/" + filepath.ToSlash(rel)
		}
	}

	return sources
}
