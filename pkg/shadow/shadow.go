// Package shadow provides state wrappers that read from the host runtime in
// production and from the injected scope while a test is running.
//
// Each wrapper always constructs its host primitive, derives its injection
// key once at construction, and decides per call whether the context is a
// test scope (see scope.IsTesting). A value injected with the wrong type is
// treated as absent.
package shadow

import (
	"context"
	"log/slog"

	"gooze.dev/pkg/viewspy/pkg/notify"
	"gooze.dev/pkg/viewspy/pkg/scope"
)

// slot is the test-mode storage of local mutable wrappers.
type slot[T any] struct {
	value   T
	updated bool
}

// reportMissing signals an environment read that found no injection.
func reportMissing(ctx context.Context, key string) {
	id := scope.ID(ctx)

	slog.Debug("missing injection", "key", key, "scope", id)
	notify.FromContext(ctx).PostMissing(id, key)
}
