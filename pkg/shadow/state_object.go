package shadow

import (
	"context"

	"gooze.dev/pkg/viewspy/pkg/host"
	"gooze.dev/pkg/viewspy/pkg/keys"
)

// StateObject owns an observable object created on first access.
//
// It has no test-mode override: reads always go to the host primitive, even
// when a value was injected under Key. Tests that need a double should pass
// it to the subject explicitly.
type StateObject[T any] struct {
	key  string
	real *host.StateObject[T]
}

// NewStateObject creates a StateObject built lazily by factory.
func NewStateObject[T any](factory func() T) *StateObject[T] {
	return &StateObject[T]{
		key:  keys.StateObject[T](),
		real: host.NewStateObject(factory),
	}
}

// Key returns the injection key of s.
func (s *StateObject[T]) Key() string {
	return s.key
}

// Get returns the object.
func (s *StateObject[T]) Get(_ context.Context) T {
	return s.real.Get()
}
