// Package adapter contains infrastructure adapters for the viewspy CLI.
package adapter

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/mod/modfile"

	m "gooze.dev/pkg/viewspy/internal/model"
)

// SourceFSAdapter abstracts filesystem-specific operations that the domain layer
// relies on when scanning user projects. It hides direct `os` access so the
// workflow logic can be tested against temporary trees.
type SourceFSAdapter interface {
	// Get resolves Go-style path patterns ("./...", "./pkg") into the Go
	// sources they select, skipping test files and any path matching one of
	// the exclude regexes.
	Get(ctx context.Context, paths []m.Path, exclude ...string) ([]m.Source, error)

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(ctx context.Context, path m.Path) ([]byte, error)

	// WriteFile writes content to a file with the given permissions.
	WriteFile(ctx context.Context, path m.Path, content []byte, perm os.FileMode) error

	// HashFile returns a stable fingerprint (SHA-256) for the file at path.
	HashFile(ctx context.Context, path m.Path) (string, error)

	// FindProjectRoot searches for go.mod walking up the directory tree.
	FindProjectRoot(ctx context.Context, startPath m.Path) (m.Path, error)

	// ModulePath returns the module path declared by root/go.mod.
	ModulePath(ctx context.Context, root m.Path) (string, error)
}

// LocalSourceFSAdapter is the os-backed SourceFSAdapter.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter instance ready to
// be wired into the workflow.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// Get walks every pattern and returns the selected sources in path order.
func (a *LocalSourceFSAdapter) Get(ctx context.Context, paths []m.Path, exclude ...string) ([]m.Source, error) {
	if len(paths) == 0 {
		paths = []m.Path{"./..."}
	}

	excludes, err := compileExcludes(exclude)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})

	var sources []m.Source

	for _, pattern := range paths {
		root, recursive := splitPattern(string(pattern))

		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if err := ctx.Err(); err != nil {
				return err
			}

			if d.IsDir() {
				if path != root && (!recursive || skipDir(d.Name())) {
					return filepath.SkipDir
				}

				return nil
			}

			if !isScannable(path) || matchesAny(excludes, path) {
				return nil
			}

			abs, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("failed to resolve %s: %w", path, err)
			}

			if _, ok := seen[abs]; ok {
				return nil
			}

			seen[abs] = struct{}{}

			hash, err := a.HashFile(ctx, m.Path(abs))
			if err != nil {
				return fmt.Errorf("failed to hash %s: %w", path, err)
			}

			sources = append(sources, m.Source{
				Origin: &m.File{
					FullPath:  m.Path(abs),
					ShortPath: m.Path(filepath.Clean(path)),
					Hash:      hash,
				},
			})

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", pattern, err)
		}
	}

	slices.SortFunc(sources, func(x, y m.Source) int {
		return strings.Compare(string(x.Origin.ShortPath), string(y.Origin.ShortPath))
	})

	return sources, nil
}

func splitPattern(pattern string) (string, bool) {
	switch {
	case pattern == "...":
		return ".", true
	case strings.HasSuffix(pattern, "/..."):
		root := strings.TrimSuffix(pattern, "/...")
		if root == "" {
			root = "/"
		}

		return root, true
	}

	return pattern, false
}

// skipDir mirrors the go tool: vendor, testdata and dot/underscore dirs hold
// no package sources.
func skipDir(name string) bool {
	return name == "vendor" || name == "testdata" ||
		strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

func isScannable(path string) bool {
	return filepath.Ext(path) == ".go" && !strings.HasSuffix(path, "_test.go")
}

func compileExcludes(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))

	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}

		compiled = append(compiled, re)
	}

	return compiled, nil
}

func matchesAny(excludes []*regexp.Regexp, path string) bool {
	base := filepath.Base(path)

	for _, re := range excludes {
		if re.MatchString(path) || re.MatchString(base) {
			return true
		}
	}

	return false
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(ctx context.Context, path m.Path) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return os.ReadFile(string(path))
}

// WriteFile writes content to path, creating parent directories as needed.
func (a *LocalSourceFSAdapter) WriteFile(ctx context.Context, path m.Path, content []byte, perm os.FileMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(string(path)), 0o750); err != nil {
		return err
	}

	return os.WriteFile(string(path), content, perm)
}

// HashFile returns the SHA-256 hash of the file at the provided path.
func (a *LocalSourceFSAdapter) HashFile(ctx context.Context, path m.Path) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f, err := os.Open(string(path))
	if err != nil {
		return "", err
	}

	defer func() {
		_ = f.Close()
	}()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// hashContent fingerprints content the same way HashFile fingerprints a file.
func hashContent(content []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(content))
}

// FindProjectRoot searches for go.mod file walking up the directory tree.
func (a *LocalSourceFSAdapter) FindProjectRoot(ctx context.Context, startPath m.Path) (m.Path, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	abs, err := filepath.Abs(string(startPath))
	if err != nil {
		return "", err
	}

	dir := abs
	if info, err := os.Stat(abs); err != nil || !info.IsDir() {
		dir = filepath.Dir(abs)
	}

	for {
		goModPath := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			return m.Path(dir), nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found in any parent directory of %s", startPath)
		}

		dir = parent
	}
}

// ModulePath parses root/go.mod and returns its module path.
func (a *LocalSourceFSAdapter) ModulePath(ctx context.Context, root m.Path) (string, error) {
	content, err := a.ReadFile(ctx, m.Path(filepath.Join(string(root), "go.mod")))
	if err != nil {
		return "", err
	}

	modulePath := modfile.ModulePath(content)
	if modulePath == "" {
		return "", fmt.Errorf("no module directive in %s", filepath.Join(string(root), "go.mod"))
	}

	return modulePath, nil
}
