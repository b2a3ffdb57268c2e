package shadow

import (
	"context"

	"gooze.dev/pkg/viewspy/pkg/cell"
	"gooze.dev/pkg/viewspy/pkg/host"
	"gooze.dev/pkg/viewspy/pkg/scope"
)

// State is view-owned mutable state. It is never injected: tests read the
// declared default until they write a value.
type State[T any] struct {
	real  *host.State[T]
	local cell.Cell[slot[T]]
}

// NewState creates State starting at defaultValue. The default is built by
// the caller, so it is evaluated eagerly in both modes.
func NewState[T any](defaultValue T) *State[T] {
	return &State[T]{
		real:  host.NewState(defaultValue),
		local: cell.New(slot[T]{value: defaultValue}),
	}
}

// Get returns the current value.
func (s *State[T]) Get(ctx context.Context) T {
	if scope.IsTesting(ctx) {
		return s.local.Load().value
	}

	return s.real.Get()
}

// Set replaces the current value.
func (s *State[T]) Set(ctx context.Context, value T) {
	if scope.IsTesting(ctx) {
		s.local.Store(slot[T]{value: value, updated: true})
		return
	}

	s.real.Set(value)
}

// Binding returns a Binding onto s evaluated against ctx.
func (s *State[T]) Binding(ctx context.Context) host.Binding[T] {
	return host.NewBinding(
		func() T { return s.Get(ctx) },
		func(v T) { s.Set(ctx, v) },
	)
}
