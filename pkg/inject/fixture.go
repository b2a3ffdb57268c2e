package inject

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"gooze.dev/pkg/viewspy/pkg/keys"
)

// CurrentFixtureVersion is the fixture format version written by Encode.
const CurrentFixtureVersion = 1

// Fixture is a declarative set of injections, usually loaded from YAML:
//
//	version: 1
//	environment:
//	  colorScheme: dark
//	storage:
//	  boolKey: true
//	values:
//	  Custom_key: 3
//
// YAML scalars decode to int, float64, bool and string, so a wrapper typed
// int64 will not match an integer fixture value.
type Fixture struct {
	Version      int            `yaml:"version"`
	Environment  map[string]any `yaml:"environment,omitempty"`
	Storage      map[string]any `yaml:"storage,omitempty"`
	SceneStorage map[string]any `yaml:"scene_storage,omitempty"`
	Focused      map[string]any `yaml:"focused,omitempty"`
	Values       map[string]any `yaml:"values,omitempty"`
}

// ErrUnsupportedVersion is returned for fixtures newer than this package understands.
var ErrUnsupportedVersion = errors.New("unsupported fixture version")

// LoadFixture decodes a fixture from r.
func LoadFixture(r io.Reader) (*Fixture, error) {
	var f Fixture

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	if err := decoder.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &Fixture{Version: CurrentFixtureVersion}, nil
		}

		return nil, fmt.Errorf("failed to decode fixture: %w", err)
	}

	if f.Version == 0 {
		f.Version = CurrentFixtureVersion
	}

	if f.Version > CurrentFixtureVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, f.Version)
	}

	return &f, nil
}

// ReadFixtureFile loads the fixture stored at path.
func ReadFixtureFile(path string) (*Fixture, error) {
	// #nosec G304 - fixture path is supplied by the test author
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open fixture: %w", err)
	}

	defer func() {
		if err := file.Close(); err != nil {
			slog.Error("failed to close fixture", "path", path, "error", err)
		}
	}()

	f, err := LoadFixture(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	slog.Debug("loaded fixture", "path", path, "keys", len(f.Keys()))

	return f, nil
}

// Apply injects every entry of f into inj.
func (f *Fixture) Apply(inj *Injector) *Injector {
	for _, path := range sortedKeys(f.Environment) {
		inj.Environment(path, f.Environment[path])
	}

	for _, key := range sortedKeys(f.Storage) {
		inj.Storage(key, f.Storage[key])
	}

	for _, key := range sortedKeys(f.SceneStorage) {
		inj.SceneStorage(key, f.SceneStorage[key])
	}

	for _, path := range sortedKeys(f.Focused) {
		inj.FocusedValue(path, f.Focused[path])
	}

	for _, key := range sortedKeys(f.Values) {
		inj.Inject(key, f.Values[key])
	}

	return inj
}

// Keys returns the sorted canonical keys f injects.
func (f *Fixture) Keys() []string {
	set := make(map[string]struct{})

	for path := range f.Environment {
		set[keys.Environment(path)] = struct{}{}
	}

	for key := range f.Storage {
		set[keys.Storage(key)] = struct{}{}
	}

	for key := range f.SceneStorage {
		set[keys.SceneStorage(key)] = struct{}{}
	}

	for path := range f.Focused {
		set[keys.FocusedValue(path)] = struct{}{}
	}

	for key := range f.Values {
		set[key] = struct{}{}
	}

	return slices.Sorted(maps.Keys(set))
}

// Encode writes f as YAML.
func (f *Fixture) Encode(w io.Writer) error {
	out := *f
	if out.Version == 0 {
		out.Version = CurrentFixtureVersion
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	if err := encoder.Encode(&out); err != nil {
		return fmt.Errorf("failed to encode fixture: %w", err)
	}

	return encoder.Close()
}

// MergeFixtures combines fixtures in order; later entries win.
func MergeFixtures(fixtures ...*Fixture) *Fixture {
	merged := &Fixture{Version: CurrentFixtureVersion}

	for _, f := range fixtures {
		if f == nil {
			continue
		}

		merged.Environment = mergeSection(merged.Environment, f.Environment)
		merged.Storage = mergeSection(merged.Storage, f.Storage)
		merged.SceneStorage = mergeSection(merged.SceneStorage, f.SceneStorage)
		merged.Focused = mergeSection(merged.Focused, f.Focused)
		merged.Values = mergeSection(merged.Values, f.Values)
	}

	return merged
}

func mergeSection(dst, src map[string]any) map[string]any {
	if len(src) == 0 {
		return dst
	}

	if dst == nil {
		dst = make(map[string]any, len(src))
	}

	maps.Copy(dst, src)

	return dst
}

func sortedKeys(m map[string]any) []string {
	return slices.Sorted(maps.Keys(m))
}
