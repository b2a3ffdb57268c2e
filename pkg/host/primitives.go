package host

import (
	"context"
	"sync"

	"gooze.dev/pkg/viewspy/pkg/cell"
	"gooze.dev/pkg/viewspy/pkg/keys"
)

// Binding is a gettable, settable reference to a value owned elsewhere.
type Binding[T any] interface {
	Get() T
	Set(value T)
}

type funcBinding[T any] struct {
	get func() T
	set func(T)
}

func (b funcBinding[T]) Get() T { return b.get() }

func (b funcBinding[T]) Set(value T) {
	if b.set != nil {
		b.set(value)
	}
}

// NewBinding builds a Binding from accessor functions. A nil set makes the
// binding read-only.
func NewBinding[T any](get func() T, set func(T)) Binding[T] {
	return funcBinding[T]{get: get, set: set}
}

// Constant returns a Binding that always reads value and ignores writes.
func Constant[T any](value T) Binding[T] {
	return NewBinding(func() T { return value }, nil)
}

// State is view-owned mutable storage.
type State[T any] struct {
	value cell.Cell[T]
}

// NewState creates State holding initial.
func NewState[T any](initial T) *State[T] {
	return &State[T]{value: cell.New(initial)}
}

// Get returns the current value.
func (s *State[T]) Get() T { return s.value.Load() }

// Set replaces the current value.
func (s *State[T]) Set(value T) { s.value.Store(value) }

// Binding returns a Binding onto s.
func (s *State[T]) Binding() Binding[T] {
	return NewBinding(s.Get, s.Set)
}

// Environment reads an environment entry by path from the runtime in ctx.
type Environment[T any] struct {
	path string
}

// NewEnvironment creates an Environment reader for path.
func NewEnvironment[T any](path string) *Environment[T] {
	return &Environment[T]{path: path}
}

// Get returns the entry, its registered default, or the zero value.
func (e *Environment[T]) Get(ctx context.Context) T {
	var zero T

	raw, ok := FromContext(ctx).Environment(e.path)
	if !ok {
		return zero
	}

	v, ok := raw.(T)
	if !ok {
		return zero
	}

	return v
}

// EnvironmentObject reads an object provided by an ancestor.
type EnvironmentObject[T any] struct {
	typeName string
}

// NewEnvironmentObject creates an EnvironmentObject reader for T.
func NewEnvironmentObject[T any]() *EnvironmentObject[T] {
	return &EnvironmentObject[T]{typeName: keys.TypeName[T]()}
}

// Get returns the provided object, or false when no ancestor provided one.
func (e *EnvironmentObject[T]) Get(ctx context.Context) (T, bool) {
	return lookup[T](FromContext(ctx).Object(e.typeName))
}

// Storage is a persisted value in a PreferenceStore.
type Storage[T any] struct {
	key          string
	defaultValue T
	store        PreferenceStore
}

// NewAppStorage binds key in the app-scoped store of the runtime in ctx.
func NewAppStorage[T any](ctx context.Context, key string, defaultValue T) *Storage[T] {
	return &Storage[T]{key: key, defaultValue: defaultValue, store: FromContext(ctx).Preferences()}
}

// NewSceneStorage binds key in the scene-scoped store of the runtime in ctx.
func NewSceneStorage[T any](ctx context.Context, key string, defaultValue T) *Storage[T] {
	return &Storage[T]{key: key, defaultValue: defaultValue, store: FromContext(ctx).SceneStorage()}
}

// Get returns the stored value, or the default when unset or of another type.
func (s *Storage[T]) Get() T {
	v, ok := lookup[T](s.store.Get(s.key))
	if !ok {
		return s.defaultValue
	}

	return v
}

// Set persists value.
func (s *Storage[T]) Set(value T) {
	s.store.Set(s.key, value)
}

// StateObject owns an object created on first access.
type StateObject[T any] struct {
	once    sync.Once
	factory func() T
	value   T
}

// NewStateObject creates a StateObject built lazily by factory.
func NewStateObject[T any](factory func() T) *StateObject[T] {
	return &StateObject[T]{factory: factory}
}

// Get returns the object, creating it on the first call.
func (s *StateObject[T]) Get() T {
	s.once.Do(func() {
		if s.factory != nil {
			s.value = s.factory()
		}
	})

	return s.value
}

// FocusedValue reads a value published by the focused node.
type FocusedValue[T any] struct {
	path     string
	typeName string
}

// NewFocusedValue creates a reader for the focused value at path.
func NewFocusedValue[T any](path string) *FocusedValue[T] {
	return &FocusedValue[T]{path: path}
}

// NewFocusedObject creates a reader for the focused object of type T.
func NewFocusedObject[T any]() *FocusedValue[T] {
	return &FocusedValue[T]{typeName: keys.TypeName[T]()}
}

// Get returns the focused value, or false when nothing is focused.
func (f *FocusedValue[T]) Get(ctx context.Context) (T, bool) {
	focus := FromContext(ctx).Focus()
	if f.typeName != "" {
		return lookup[T](focus.Object(f.typeName))
	}

	return lookup[T](focus.Value(f.path))
}

func lookup[T any](raw any, ok bool) (T, bool) {
	var zero T
	if !ok {
		return zero, false
	}

	v, ok := raw.(T)
	if !ok {
		return zero, false
	}

	return v, true
}
