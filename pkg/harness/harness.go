// Package harness runs a subject under test inside an injection scope and
// fails when the subject read environment values nobody injected.
package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"gooze.dev/pkg/viewspy/pkg/inject"
	"gooze.dev/pkg/viewspy/pkg/notify"
	"gooze.dev/pkg/viewspy/pkg/scope"
)

// ConfigureFunc populates the injector before the subject is constructed.
type ConfigureFunc func(ctx context.Context, inj *inject.Injector) error

// Option customises a run.
type Option func(*config)

type config struct {
	bus      *notify.Bus
	fixtures []*inject.Fixture
}

// WithBus makes the run listen on b instead of notify.Default.
func WithBus(b *notify.Bus) Option {
	return func(c *config) {
		c.bus = b
	}
}

// WithFixture applies f to the injector before the configure step runs.
func WithFixture(f *inject.Fixture) Option {
	return func(c *config) {
		c.fixtures = append(c.fixtures, f)
	}
}

// MissingInjectionsError lists every environment key the subject read
// without a matching injection.
type MissingInjectionsError struct {
	Keys  []string
	Cause error // error returned or raised by the body, if any
}

func (e *MissingInjectionsError) Error() string {
	msg := fmt.Sprintf("missing injections for %d key(s): %s", len(e.Keys), strings.Join(e.Keys, ", "))
	if e.Cause != nil {
		msg += fmt.Sprintf(" (body: %v)", e.Cause)
	}

	return msg
}

func (e *MissingInjectionsError) Unwrap() error {
	return e.Cause
}

// Run builds an injector, lets configure populate it, then constructs the
// subject with factory and exercises it with body, both inside the
// injection scope.
//
// Missing-injection signals raised during the run are collected rather than
// failing fast. A missing environment object is fatal: the goroutine that
// read it stops, the scoped context is cancelled with the error as its
// cause, and the run fails. This holds for goroutines the body starts as
// well as for the body itself. If any keys were collected Run returns a
// *MissingInjectionsError naming each distinct key; otherwise it returns the
// body's error. The listener is removed on every exit path, panics included.
func Run[S any](
	ctx context.Context,
	factory func(ctx context.Context) S,
	configure ConfigureFunc,
	body func(ctx context.Context, subject S) error,
	options ...Option,
) error {
	cfg := config{bus: notify.Default}
	for _, option := range options {
		option(&cfg)
	}

	inj := inject.New()
	for _, f := range cfg.fixtures {
		f.Apply(inj)
	}

	if configure != nil {
		if err := configure(ctx, inj); err != nil {
			return fmt.Errorf("failed to configure injections: %w", err)
		}
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	c := &collector{cancel: cancel}
	ctx = notify.WithFatal(notify.WithBus(ctx, cfg.bus), c.fatal)

	_, bodyErr := scope.Run(ctx, inj.Values(), func(ctx context.Context) (struct{}, error) {
		c.scope = scope.ID(ctx)

		unsubscribe := cfg.bus.Subscribe(c.receive)
		defer unsubscribe()

		return struct{}{}, exercise(ctx, factory, body)
	})

	missing := c.distinct()
	failure := c.failure()

	slog.Debug("harness run finished", "scope", c.scope, "injections", inj.Len(), "missing", len(missing), "fatal", failure, "error", bodyErr)

	if failure != nil {
		bodyErr = errors.Join(failure, bodyErr)
	}

	if len(missing) > 0 {
		return &MissingInjectionsError{Keys: missing, Cause: bodyErr}
	}

	return bodyErr
}

// Test is Run for use inside a Go test; it fails t on any error.
func Test[S any](
	t testing.TB,
	factory func(ctx context.Context) S,
	configure ConfigureFunc,
	body func(ctx context.Context, subject S) error,
	options ...Option,
) {
	t.Helper()

	require.NoError(t, Run(t.Context(), factory, configure, body, options...))
}

// exercise runs factory and body on their own goroutine so a fatal read can
// end it without ending the caller. Other panics are re-raised on the
// calling goroutine.
func exercise[S any](
	ctx context.Context,
	factory func(ctx context.Context) S,
	body func(ctx context.Context, subject S) error,
) error {
	var (
		err       error
		recovered any
		panicked  bool
	)

	done := make(chan struct{})

	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				recovered, panicked = r, true
			}
		}()

		err = body(ctx, factory(ctx))
	}()

	<-done

	if panicked {
		panic(recovered)
	}

	return err
}

// collector accumulates missing keys for one scope. Signals may arrive from
// any goroutine spawned by the body.
type collector struct {
	scope    string
	cancel   context.CancelCauseFunc
	mu       sync.Mutex
	keys     []string
	seen     map[string]struct{}
	fatalErr error
}

func (c *collector) receive(e notify.Event) {
	if e.Name != notify.MissingInjection || e.Scope != c.scope {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.seen == nil {
		c.seen = make(map[string]struct{})
	}

	if _, ok := c.seen[e.Key]; ok {
		return
	}

	c.seen[e.Key] = struct{}{}
	c.keys = append(c.keys, e.Key)
}

// fatal records the first fatal error, cancels the run and ends the calling
// goroutine.
func (c *collector) fatal(err error) {
	c.mu.Lock()
	if c.fatalErr == nil {
		c.fatalErr = err
	}
	c.mu.Unlock()

	c.cancel(err)

	runtime.Goexit()
}

func (c *collector) failure() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.fatalErr
}

func (c *collector) distinct() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]string(nil), c.keys...)
}
