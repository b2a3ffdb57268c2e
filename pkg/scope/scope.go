// Package scope carries injected test values through a context.Context.
//
// A scope is installed for the dynamic extent of one test body. Every
// goroutine that receives the scoped context sees the same values, including
// after blocking; contexts created outside the scope never see them. Two
// scopes installed by concurrently running tests are independent.
package scope

import (
	"context"
	"maps"
	"slices"

	"github.com/google/uuid"

	"gooze.dev/pkg/viewspy/pkg/keys"
)

// Values maps injection keys to type-erased values.
type Values map[string]any

type contextKey struct{}

type frame struct {
	id     string
	values Values
}

// With returns a context carrying a copy of values. Values from an enclosing
// scope remain visible unless overridden by the same key, and the nested
// scope keeps the identity of the outermost one.
func With(ctx context.Context, values Values) context.Context {
	merged := make(Values, len(values))
	id := ""

	if parent, ok := current(ctx); ok {
		maps.Copy(merged, parent.values)
		id = parent.id
	}

	maps.Copy(merged, values)

	if id == "" {
		id = uuid.NewString()
	}

	return context.WithValue(ctx, contextKey{}, &frame{
		id:     id,
		values: merged,
	})
}

// Run calls body with values installed. The scope ends when body returns.
func Run[R any](ctx context.Context, values Values, body func(ctx context.Context) (R, error)) (R, error) {
	return body(With(ctx, values))
}

// Value looks key up in the nearest enclosing scope. A value of the wrong
// type is reported as absent.
func Value[T any](ctx context.Context, key string) (T, bool) {
	var zero T

	f, ok := current(ctx)
	if !ok {
		return zero, false
	}

	raw, ok := f.values[key]
	if !ok {
		return zero, false
	}

	value, ok := raw.(T)
	if !ok {
		return zero, false
	}

	return value, true
}

// IsTesting reports whether ctx runs inside a test scope.
func IsTesting(ctx context.Context) bool {
	testing, ok := Value[bool](ctx, keys.Testing)
	return ok && testing
}

// ID returns the identity of the scope chain ctx runs in, or "" outside any
// scope. Concurrently installed top-level scopes never share an identity.
func ID(ctx context.Context) string {
	f, ok := current(ctx)
	if !ok {
		return ""
	}

	return f.id
}

// Keys returns the sorted keys visible in the nearest scope.
func Keys(ctx context.Context) []string {
	f, ok := current(ctx)
	if !ok {
		return nil
	}

	return slices.Sorted(maps.Keys(f.values))
}

func current(ctx context.Context) (*frame, bool) {
	if ctx == nil {
		return nil, false
	}

	f, ok := ctx.Value(contextKey{}).(*frame)

	return f, ok && f != nil
}
