package notify

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestBus_SubscribeAndPost(t *testing.T) {
	var bus Bus

	var got []Event

	cancel := bus.Subscribe(func(e Event) { got = append(got, e) })

	bus.PostMissing("scope-1", "Environment_colorScheme")
	bus.Post(Event{Name: "other", Key: "k"})

	require.Len(t, got, 2)
	assert.Equal(t, Event{Name: MissingInjection, Scope: "scope-1", Key: "Environment_colorScheme"}, got[0])
	assert.Equal(t, "other", got[1].Name)

	cancel()
	bus.PostMissing("scope-1", "late")
	assert.Len(t, got, 2, "unsubscribed listener must not receive events")
}

func TestBus_CancelIsIdempotent(t *testing.T) {
	var bus Bus

	cancelA := bus.Subscribe(func(Event) {})
	cancelB := bus.Subscribe(func(Event) {})
	require.Equal(t, 2, bus.Len())

	cancelA()
	cancelA()
	assert.Equal(t, 1, bus.Len())

	cancelB()
	assert.Equal(t, 0, bus.Len())
}

func TestBus_ConcurrentPost(t *testing.T) {
	var bus Bus

	var (
		mu    sync.Mutex
		count int
	)

	cancel := bus.Subscribe(func(Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})
	defer cancel()

	var wg sync.WaitGroup

	for range 50 {
		wg.Add(1)

		go func() {
			defer wg.Done()
			bus.PostMissing("s", "k")
		}()
	}

	wg.Wait()
	assert.Equal(t, 50, count)
}

func TestBus_ListenerMayUnsubscribeDuringPost(t *testing.T) {
	var bus Bus

	var cancel func()

	calls := 0
	cancel = bus.Subscribe(func(Event) {
		calls++
		cancel()
	})

	bus.PostMissing("s", "k")
	bus.PostMissing("s", "k")
	assert.Equal(t, 1, calls)
}

func TestMissingObjectError(t *testing.T) {
	err := &MissingObjectError{Key: "EnvironmentObject_x"}
	assert.Contains(t, err.Error(), "EnvironmentObject_x")
}

func TestFromContext(t *testing.T) {
	assert.Same(t, Default, FromContext(context.Background()))

	bus := &Bus{}
	assert.Same(t, bus, FromContext(WithBus(context.Background(), bus)))
}

func TestFatal(t *testing.T) {
	t.Run("no handler returns", func(t *testing.T) {
		assert.NotPanics(t, func() {
			Fatal(context.Background(), &MissingObjectError{Key: "k"})
		})
	})

	t.Run("handler receives error", func(t *testing.T) {
		var got error

		ctx := WithFatal(context.Background(), func(err error) { got = err })
		want := &MissingObjectError{Key: "EnvironmentObject_*app.Store"}

		Fatal(ctx, want)

		assert.Same(t, want, got)
	})
}
