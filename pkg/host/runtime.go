// Package host is the minimal in-process UI runtime that shadow wrappers
// delegate to outside of tests. It owns environment values, environment
// objects, persisted preferences, and the current focus.
package host

import (
	"context"
	"log/slog"
	"maps"
	"sync"

	"gooze.dev/pkg/viewspy/pkg/keys"
)

var (
	defaultsMu sync.RWMutex
	defaults   = map[string]any{}
)

// RegisterEnvironment declares the default value of the environment entry at
// path. Later registrations replace earlier ones.
func RegisterEnvironment(path string, defaultValue any) {
	defaultsMu.Lock()
	defer defaultsMu.Unlock()

	defaults[path] = defaultValue
}

func registeredDefault(path string) (any, bool) {
	defaultsMu.RLock()
	defer defaultsMu.RUnlock()

	v, ok := defaults[path]

	return v, ok
}

// Runtime holds the state a mounted view hierarchy reads from.
type Runtime struct {
	mu          sync.RWMutex
	environment map[string]any
	objects     map[string]any
	preferences PreferenceStore
	scenes      PreferenceStore
	focus       *Focus
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithPreferences sets the app-scoped preference store.
func WithPreferences(store PreferenceStore) Option {
	return func(r *Runtime) {
		r.preferences = store
	}
}

// WithSceneStorage sets the scene-scoped preference store.
func WithSceneStorage(store PreferenceStore) Option {
	return func(r *Runtime) {
		r.scenes = store
	}
}

// New creates a Runtime. Stores default to in-memory ones.
func New(options ...Option) *Runtime {
	r := &Runtime{
		environment: make(map[string]any),
		objects:     make(map[string]any),
		focus:       newFocus(),
	}

	for _, option := range options {
		option(r)
	}

	if r.preferences == nil {
		r.preferences = NewMemoryStore()
	}

	if r.scenes == nil {
		r.scenes = NewMemoryStore()
	}

	return r
}

var shared = New()

type runtimeKey struct{}

// WithRuntime returns a context whose views read from r.
func WithRuntime(ctx context.Context, r *Runtime) context.Context {
	return context.WithValue(ctx, runtimeKey{}, r)
}

// FromContext returns the Runtime installed in ctx, or the shared process
// runtime when there is none.
func FromContext(ctx context.Context) *Runtime {
	if ctx != nil {
		if r, ok := ctx.Value(runtimeKey{}).(*Runtime); ok && r != nil {
			return r
		}
	}

	return shared
}

// Shared returns the process runtime used when a context carries none.
func Shared() *Runtime {
	return shared
}

// SetEnvironment overrides the environment entry at path.
func (r *Runtime) SetEnvironment(path string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.environment[path] = value
	slog.Debug("environment set", "path", path)
}

// SetEnvironmentValue overrides the environment entry keyed by the type of value.
func (r *Runtime) SetEnvironmentValue(value any) {
	r.SetEnvironment(keys.TypeNameOf(value), value)
}

// Environment returns the entry at path, falling back to its registered default.
func (r *Runtime) Environment(path string) (any, bool) {
	r.mu.RLock()
	v, ok := r.environment[path]
	r.mu.RUnlock()

	if ok {
		return v, true
	}

	return registeredDefault(path)
}

// Provide makes obj available to environment object readers of its type.
func (r *Runtime) Provide(obj any) {
	name := keys.TypeNameOf(obj)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.objects[name] = obj
	slog.Debug("environment object provided", "type", name)
}

// Object returns the environment object provided for the named type.
func (r *Runtime) Object(typeName string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.objects[typeName]

	return v, ok
}

// Preferences returns the app-scoped preference store.
func (r *Runtime) Preferences() PreferenceStore {
	return r.preferences
}

// SceneStorage returns the scene-scoped preference store.
func (r *Runtime) SceneStorage() PreferenceStore {
	return r.scenes
}

// Focus returns the focus registry.
func (r *Runtime) Focus() *Focus {
	return r.focus
}

// Focus tracks the values published by the currently focused node.
type Focus struct {
	mu      sync.RWMutex
	values  map[string]any
	objects map[string]any
}

func newFocus() *Focus {
	return &Focus{
		values:  make(map[string]any),
		objects: make(map[string]any),
	}
}

// Set publishes value at path for the focused node.
func (f *Focus) Set(path string, value any) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.values[path] = value
}

// SetObject publishes obj under its type name.
func (f *Focus) SetObject(obj any) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.objects[keys.TypeNameOf(obj)] = obj
}

// Value returns the focused value at path.
func (f *Focus) Value(path string) (any, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	v, ok := f.values[path]

	return v, ok
}

// Object returns the focused object for the named type.
func (f *Focus) Object(typeName string) (any, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	v, ok := f.objects[typeName]

	return v, ok
}

// Move replaces everything published so far, as when focus moves to another node.
func (f *Focus) Move(values map[string]any, objects ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.values = maps.Clone(values)
	if f.values == nil {
		f.values = make(map[string]any)
	}

	f.objects = make(map[string]any, len(objects))
	for _, obj := range objects {
		f.objects[keys.TypeNameOf(obj)] = obj
	}
}

// Clear drops all focused values and objects.
func (f *Focus) Clear() {
	f.Move(nil)
}
