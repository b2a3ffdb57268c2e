// Package inject accumulates test doubles before a subject is constructed.
package inject

import (
	"log/slog"
	"maps"
	"sync"

	"gooze.dev/pkg/viewspy/pkg/keys"
	"gooze.dev/pkg/viewspy/pkg/scope"
)

// Injector is a builder of key → test-double mappings. Every builder method
// returns the Injector so calls can be chained. It is safe for concurrent use.
//
// Supplying a value of the wrong type for a key is not an error here; the
// reading wrapper treats it as absent.
type Injector struct {
	mu     sync.Mutex
	values scope.Values
}

// New returns an Injector holding only the "test is running" sentinel.
func New() *Injector {
	return &Injector{
		values: scope.Values{keys.Testing: true},
	}
}

// Inject stores value under key, replacing any previous value.
func (i *Injector) Inject(key string, value any) *Injector {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.values == nil {
		i.values = scope.Values{keys.Testing: true}
	}

	i.values[key] = value

	slog.Debug("injected value", "key", key)

	return i
}

// Environment injects an environment value read by path.
func (i *Injector) Environment(path string, value any) *Injector {
	return i.Inject(keys.Environment(path), value)
}

// Storage injects the initial value of an app-scoped persisted value.
func (i *Injector) Storage(key string, value any) *Injector {
	return i.Inject(keys.Storage(key), value)
}

// SceneStorage injects the initial value of a scene-scoped persisted value.
func (i *Injector) SceneStorage(key string, value any) *Injector {
	return i.Inject(keys.SceneStorage(key), value)
}

// FocusedValue injects a focused value read by path. Inject a host.Binding to
// back a focused binding.
func (i *Injector) FocusedValue(path string, value any) *Injector {
	return i.Inject(keys.FocusedValue(path), value)
}

// Values returns a copy of the accumulated mapping.
func (i *Injector) Values() scope.Values {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.values == nil {
		return scope.Values{keys.Testing: true}
	}

	return maps.Clone(i.values)
}

// Len returns the number of entries, sentinel included.
func (i *Injector) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.values == nil {
		return 1
	}

	return len(i.values)
}

// EnvironmentObject injects an environment object by type. The optional-typed
// counterpart is populated with the same value.
func EnvironmentObject[T any](i *Injector, value T) *Injector {
	i.Inject(keys.EnvironmentObject[T](), value)
	return i.Inject(keys.OptionalEnvironmentObject[T](), value)
}

// EnvironmentValue injects an environment value read by its concrete type.
func EnvironmentValue[T any](i *Injector, value T) *Injector {
	return i.Inject(keys.EnvironmentType[T](), value)
}

// StateObject injects a state object by type.
func StateObject[T any](i *Injector, value T) *Injector {
	return i.Inject(keys.StateObject[T](), value)
}

// FocusedObject injects a focused object by type.
func FocusedObject[T any](i *Injector, value T) *Injector {
	return i.Inject(keys.FocusedObject[T](), value)
}
