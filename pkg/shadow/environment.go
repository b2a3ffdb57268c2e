package shadow

import (
	"context"

	"gooze.dev/pkg/viewspy/pkg/host"
	"gooze.dev/pkg/viewspy/pkg/keys"
	"gooze.dev/pkg/viewspy/pkg/notify"
	"gooze.dev/pkg/viewspy/pkg/scope"
)

// Environment reads a value supplied by an ancestor. It is read-only.
//
// In a test scope an absent injection posts a missing-injection signal on
// every read and falls back to the host value or default, so the test keeps
// running and the harness can report all missing keys at the end.
type Environment[T any] struct {
	key  string
	real *host.Environment[T]
}

// NewEnvironment reads the environment entry at path.
func NewEnvironment[T any](path string) *Environment[T] {
	return &Environment[T]{
		key:  keys.Environment(path),
		real: host.NewEnvironment[T](path),
	}
}

// NewEnvironmentValue reads the environment entry keyed by the concrete type T.
func NewEnvironmentValue[T any]() *Environment[T] {
	return &Environment[T]{
		key:  keys.EnvironmentType[T](),
		real: host.NewEnvironment[T](keys.TypeName[T]()),
	}
}

// Key returns the injection key of e.
func (e *Environment[T]) Key() string {
	return e.key
}

// Get returns the current value.
func (e *Environment[T]) Get(ctx context.Context) T {
	if scope.IsTesting(ctx) {
		if injected, ok := scope.Value[T](ctx, e.key); ok {
			return injected
		}

		reportMissing(ctx, e.key)
	}

	return e.real.Get(ctx)
}

// EnvironmentObject reads an object provided by an ancestor, by type.
//
// A read with neither an injected nor a provided object reports
// *notify.MissingObjectError to the scope's fatal handler, which the harness
// installs to fail the run and stop the reading goroutine. Without a handler
// the error is raised as a panic.
type EnvironmentObject[T any] struct {
	key  string
	real *host.EnvironmentObject[T]
}

// NewEnvironmentObject creates a reader for the object of type T.
func NewEnvironmentObject[T any]() *EnvironmentObject[T] {
	return &EnvironmentObject[T]{
		key:  keys.EnvironmentObject[T](),
		real: host.NewEnvironmentObject[T](),
	}
}

// Key returns the injection key of e.
func (e *EnvironmentObject[T]) Key() string {
	return e.key
}

// Get returns the object.
func (e *EnvironmentObject[T]) Get(ctx context.Context) T {
	if scope.IsTesting(ctx) {
		if injected, ok := scope.Value[T](ctx, e.key); ok {
			return injected
		}

		reportMissing(ctx, e.key)
	}

	obj, ok := e.real.Get(ctx)
	if !ok {
		err := &notify.MissingObjectError{Key: e.key}
		notify.Fatal(ctx, err)
		panic(err)
	}

	return obj
}

// OptionalEnvironmentObject reads an object that may be absent. It never
// signals.
type OptionalEnvironmentObject[T any] struct {
	key  string
	real *host.EnvironmentObject[T]
}

// NewOptionalEnvironmentObject creates an optional reader for the object of type T.
func NewOptionalEnvironmentObject[T any]() *OptionalEnvironmentObject[T] {
	return &OptionalEnvironmentObject[T]{
		key:  keys.OptionalEnvironmentObject[T](),
		real: host.NewEnvironmentObject[T](),
	}
}

// Key returns the injection key of e.
func (e *OptionalEnvironmentObject[T]) Key() string {
	return e.key
}

// Get returns the object and whether one was found.
func (e *OptionalEnvironmentObject[T]) Get(ctx context.Context) (T, bool) {
	if scope.IsTesting(ctx) {
		return scope.Value[T](ctx, e.key)
	}

	return e.real.Get(ctx)
}
