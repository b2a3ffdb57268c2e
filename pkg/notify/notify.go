// Package notify broadcasts missing-injection signals from shadow wrappers to
// whichever harness run is listening.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// MissingInjection is the name of the event posted when an environment read
// inside a test scope finds no injected value.
const MissingInjection = "viewspy.missingInjection"

// Event is one broadcast signal.
type Event struct {
	Name  string
	Scope string // identity of the scope the read happened in
	Key   string
}

// Listener receives events. Listeners run on the posting goroutine and must
// not block.
type Listener func(Event)

// Bus is a process-wide broadcast channel. The zero value is ready to use.
type Bus struct {
	mu        sync.RWMutex
	next      uint64
	listeners map[uint64]Listener
}

// Default is the bus used by shadow wrappers and the harness.
var Default = &Bus{}

// Subscribe registers l and returns a function that unregisters it. The
// returned function is safe to call more than once.
func (b *Bus) Subscribe(l Listener) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.listeners == nil {
		b.listeners = make(map[uint64]Listener)
	}

	id := b.next
	b.next++
	b.listeners[id] = l

	var once sync.Once

	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()

			delete(b.listeners, id)
		})
	}
}

// Post delivers e to every registered listener.
func (b *Bus) Post(e Event) {
	b.mu.RLock()
	listeners := make([]Listener, 0, len(b.listeners))

	for _, l := range b.listeners {
		listeners = append(listeners, l)
	}
	b.mu.RUnlock()

	slog.Debug("posting event", "name", e.Name, "scope", e.Scope, "key", e.Key, "listeners", len(listeners))

	for _, l := range listeners {
		l(e)
	}
}

// Len returns the number of registered listeners.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.listeners)
}

type busKey struct{}

// WithBus returns a context whose shadow wrappers report to b.
func WithBus(ctx context.Context, b *Bus) context.Context {
	return context.WithValue(ctx, busKey{}, b)
}

// FromContext returns the bus installed in ctx, or Default.
func FromContext(ctx context.Context) *Bus {
	if ctx != nil {
		if b, ok := ctx.Value(busKey{}).(*Bus); ok && b != nil {
			return b
		}
	}

	return Default
}

// PostMissing posts a MissingInjection event for key in scope.
func (b *Bus) PostMissing(scopeID, key string) {
	b.Post(Event{Name: MissingInjection, Scope: scopeID, Key: key})
}

type fatalKey struct{}

// FatalHandler takes an error that must stop the current unit of work. A
// handler normally does not return: it ends the calling goroutine the way
// testing.T.FailNow does.
type FatalHandler func(err error)

// WithFatal returns a context whose wrappers report unrecoverable reads to h.
func WithFatal(ctx context.Context, h FatalHandler) context.Context {
	return context.WithValue(ctx, fatalKey{}, h)
}

// Fatal hands err to the handler installed in ctx. It returns only when no
// handler is installed or the handler returned.
func Fatal(ctx context.Context, err error) {
	if ctx == nil {
		return
	}

	if h, ok := ctx.Value(fatalKey{}).(FatalHandler); ok && h != nil {
		h(err)
	}
}

// MissingObjectError is reported when an object-typed environment read has
// neither an injected value nor a host-provided object. It goes to the
// context's FatalHandler, or is raised as a panic value when none is set.
type MissingObjectError struct {
	Key string
}

func (e *MissingObjectError) Error() string {
	return fmt.Sprintf("no injected or provided object for %s", e.Key)
}
