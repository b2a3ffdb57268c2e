package shadow

import (
	"context"

	"gooze.dev/pkg/viewspy/pkg/host"
	"gooze.dev/pkg/viewspy/pkg/keys"
	"gooze.dev/pkg/viewspy/pkg/scope"
)

// FocusedValue reads a value published by whichever node holds focus.
// In a test scope it returns the injected value, or nothing.
type FocusedValue[T any] struct {
	key  string
	real *host.FocusedValue[T]
}

// NewFocusedValue reads the focused value at path.
func NewFocusedValue[T any](path string) *FocusedValue[T] {
	return &FocusedValue[T]{
		key:  keys.FocusedValue(path),
		real: host.NewFocusedValue[T](path),
	}
}

// NewFocusedObject reads the focused object of type T.
func NewFocusedObject[T any]() *FocusedValue[T] {
	return &FocusedValue[T]{
		key:  keys.FocusedObject[T](),
		real: host.NewFocusedObject[T](),
	}
}

// Key returns the injection key of f.
func (f *FocusedValue[T]) Key() string {
	return f.key
}

// Get returns the focused value and whether one is present.
func (f *FocusedValue[T]) Get(ctx context.Context) (T, bool) {
	if scope.IsTesting(ctx) {
		return scope.Value[T](ctx, f.key)
	}

	return f.real.Get(ctx)
}

// FocusedBinding reads and writes a host.Binding published by the focused node.
type FocusedBinding[T any] struct {
	key  string
	real *host.FocusedValue[host.Binding[T]]
}

// NewFocusedBinding reads the focused binding at path.
func NewFocusedBinding[T any](path string) *FocusedBinding[T] {
	return &FocusedBinding[T]{
		key:  keys.FocusedValue(path),
		real: host.NewFocusedValue[host.Binding[T]](path),
	}
}

// Key returns the injection key of f.
func (f *FocusedBinding[T]) Key() string {
	return f.key
}

// Get returns the bound value and whether a binding is present.
func (f *FocusedBinding[T]) Get(ctx context.Context) (T, bool) {
	binding, ok := f.binding(ctx)
	if !ok {
		var zero T
		return zero, false
	}

	return binding.Get(), true
}

// Set writes through the binding. Without a binding it does nothing.
func (f *FocusedBinding[T]) Set(ctx context.Context, value T) {
	if binding, ok := f.binding(ctx); ok {
		binding.Set(value)
	}
}

func (f *FocusedBinding[T]) binding(ctx context.Context) (host.Binding[T], bool) {
	if scope.IsTesting(ctx) {
		return scope.Value[host.Binding[T]](ctx, f.key)
	}

	return f.real.Get(ctx)
}
