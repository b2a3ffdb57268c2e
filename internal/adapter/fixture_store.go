package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	m "gooze.dev/pkg/viewspy/internal/model"
	"gooze.dev/pkg/viewspy/pkg/inject"
)

// FixtureStore persists injection fixtures.
type FixtureStore interface {
	// Load reads the fixture at path. A missing file yields an empty fixture
	// when allowMissing is set.
	Load(ctx context.Context, path m.Path, allowMissing bool) (*inject.Fixture, error)
	// Save writes fixture to path. An output already holding the same bytes
	// is left untouched.
	Save(ctx context.Context, path m.Path, fixture *inject.Fixture) error
	// Render returns the YAML Save would write.
	Render(fixture *inject.Fixture) ([]byte, error)
}

type fixtureStore struct {
	fs SourceFSAdapter
}

// NewFixtureStore returns a FixtureStore writing YAML files through fsAdapter.
func NewFixtureStore(fsAdapter SourceFSAdapter) FixtureStore {
	return &fixtureStore{fs: fsAdapter}
}

func (s *fixtureStore) Load(ctx context.Context, path m.Path, allowMissing bool) (*inject.Fixture, error) {
	content, err := s.fs.ReadFile(ctx, path)
	if err != nil {
		if allowMissing && errors.Is(err, fs.ErrNotExist) {
			return &inject.Fixture{Version: inject.CurrentFixtureVersion}, nil
		}

		return nil, fmt.Errorf("failed to read fixture %s: %w", path, err)
	}

	fixture, err := inject.LoadFixture(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to load fixture %s: %w", path, err)
	}

	return fixture, nil
}

func (s *fixtureStore) Save(ctx context.Context, path m.Path, fixture *inject.Fixture) error {
	content, err := s.Render(fixture)
	if err != nil {
		return err
	}

	if current, err := s.fs.HashFile(ctx, path); err == nil && current == hashContent(content) {
		slog.Debug("fixture unchanged", "path", path)
		return nil
	}

	if err := s.fs.WriteFile(ctx, path, content, os.FileMode(0o644)); err != nil {
		return fmt.Errorf("failed to write fixture %s: %w", path, err)
	}

	return nil
}

func (s *fixtureStore) Render(fixture *inject.Fixture) ([]byte, error) {
	var buf bytes.Buffer
	if err := fixture.Encode(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode fixture: %w", err)
	}

	return buf.Bytes(), nil
}
