package shadow

import (
	"context"

	"gooze.dev/pkg/viewspy/pkg/cell"
	"gooze.dev/pkg/viewspy/pkg/host"
	"gooze.dev/pkg/viewspy/pkg/keys"
	"gooze.dev/pkg/viewspy/pkg/scope"
)

// Storage is a persisted value, app-scoped or scene-scoped.
//
// In a test scope, reads return the last written value; before any write
// they return the injected value, or the declared default.
type Storage[T any] struct {
	key          string
	defaultValue T
	real         *host.Storage[T]
	local        cell.Cell[slot[T]]
}

// NewAppStorage binds the app-scoped preference key. ctx selects the host
// runtime whose store backs production reads.
func NewAppStorage[T any](ctx context.Context, key string, defaultValue T) *Storage[T] {
	return newStorage(keys.Storage(key), defaultValue, host.NewAppStorage(ctx, key, defaultValue))
}

// NewSceneStorage binds the scene-scoped preference key.
func NewSceneStorage[T any](ctx context.Context, key string, defaultValue T) *Storage[T] {
	return newStorage(keys.SceneStorage(key), defaultValue, host.NewSceneStorage(ctx, key, defaultValue))
}

func newStorage[T any](key string, defaultValue T, primitive *host.Storage[T]) *Storage[T] {
	return &Storage[T]{
		key:          key,
		defaultValue: defaultValue,
		real:         primitive,
		local:        cell.New(slot[T]{value: defaultValue}),
	}
}

// Key returns the injection key of s.
func (s *Storage[T]) Key() string {
	return s.key
}

// Get returns the current value.
func (s *Storage[T]) Get(ctx context.Context) T {
	if !scope.IsTesting(ctx) {
		return s.real.Get()
	}

	if current := s.local.Load(); current.updated {
		return current.value
	}

	if injected, ok := scope.Value[T](ctx, s.key); ok {
		return injected
	}

	return s.defaultValue
}

// Set persists value; in a test scope it is kept locally.
func (s *Storage[T]) Set(ctx context.Context, value T) {
	if scope.IsTesting(ctx) {
		s.local.Store(slot[T]{value: value, updated: true})
		return
	}

	s.real.Set(value)
}

// Binding returns a Binding onto s evaluated against ctx.
func (s *Storage[T]) Binding(ctx context.Context) host.Binding[T] {
	return host.NewBinding(
		func() T { return s.Get(ctx) },
		func(v T) { s.Set(ctx, v) },
	)
}
