package cell

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCell(t *testing.T) {
	t.Run("Load returns initial value", func(t *testing.T) {
		c := New(7)
		require.Equal(t, 7, c.Load())
	})

	t.Run("Store replaces value", func(t *testing.T) {
		c := New("a")
		c.Store("b")
		require.Equal(t, "b", c.Load())
	})

	t.Run("zero value struct", func(t *testing.T) {
		type pair struct {
			A int
			B string
		}

		c := New(pair{})
		c.Store(pair{A: 1, B: "x"})
		require.Equal(t, pair{A: 1, B: "x"}, c.Load())
	})
}

func TestCell_ConcurrentWriters(t *testing.T) {
	c := New(-1)

	const workers = 32

	var wg sync.WaitGroup

	for i := range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			c.Store(i)
			_ = c.Load()
		}()
	}

	wg.Wait()

	got := c.Load()
	assert.GreaterOrEqual(t, got, 0)
	assert.Less(t, got, workers, "the last write wins")
}

func TestCell_NoTornReads(t *testing.T) {
	type wide struct {
		A, B, C, D int64
	}

	c := New(wide{})

	var wg sync.WaitGroup

	wg.Add(2)

	go func() {
		defer wg.Done()

		for i := int64(0); i < 2000; i++ {
			c.Store(wide{A: i, B: i, C: i, D: i})
		}
	}()

	go func() {
		defer wg.Done()

		for range 2000 {
			v := c.Load()
			assert.True(t, v.A == v.B && v.B == v.C && v.C == v.D, "torn read: %+v", v)
		}
	}()

	wg.Wait()
}

func BenchmarkLoad(b *testing.B) {
	c := New(1)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = c.Load()
		}
	})
}
