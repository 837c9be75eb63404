package lru_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/rhinodoc"
	"github.com/fwojciec/rhinodoc/lru"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loader(ns string, calls *atomic.Int32) lru.LoadFunc {
	return func(ctx context.Context) (*rhinodoc.Shard, error) {
		calls.Add(1)
		return &rhinodoc.Shard{Namespace: ns}, nil
	}
}

func TestShardCache_Acquire(t *testing.T) {
	t.Parallel()

	t.Run("loads on miss and serves hits from memory", func(t *testing.T) {
		t.Parallel()

		c := lru.NewShardCache(2)
		var calls atomic.Int32

		s1, release1, err := c.Acquire(context.Background(), "rhino", loader("rhino", &calls))
		require.NoError(t, err)
		release1()
		s2, release2, err := c.Acquire(context.Background(), "rhino", loader("rhino", &calls))
		require.NoError(t, err)
		release2()

		assert.Same(t, s1, s2)
		assert.Equal(t, int32(1), calls.Load())
		assert.Equal(t, lru.Stats{Hits: 1, Misses: 1, Loads: 1}, c.Stats())
	})

	t.Run("never exceeds capacity", func(t *testing.T) {
		t.Parallel()

		c := lru.NewShardCache(3)
		var calls atomic.Int32

		for i := 0; i < 10; i++ {
			ns := fmt.Sprintf("ns%d", i)
			_, release, err := c.Acquire(context.Background(), ns, loader(ns, &calls))
			require.NoError(t, err)
			release()
			assert.LessOrEqual(t, c.Len(), 3)
		}

		assert.Equal(t, 3, c.Len())
		assert.Equal(t, 7, c.Stats().Evictions)
		assert.True(t, c.Contains("ns9"))
		assert.False(t, c.Contains("ns0"))
	})

	t.Run("evicts the least recently used shard", func(t *testing.T) {
		t.Parallel()

		c := lru.NewShardCache(2)
		var calls atomic.Int32
		acquire := func(ns string) {
			_, release, err := c.Acquire(context.Background(), ns, loader(ns, &calls))
			require.NoError(t, err)
			release()
		}

		acquire("a")
		acquire("b")
		acquire("a")
		acquire("c")

		assert.True(t, c.Contains("a"))
		assert.False(t, c.Contains("b"))
		assert.True(t, c.Contains("c"))
	})

	t.Run("does not evict pinned shards", func(t *testing.T) {
		t.Parallel()

		c := lru.NewShardCache(2)
		var calls atomic.Int32

		pinned, releasePinned, err := c.Acquire(context.Background(), "a", loader("a", &calls))
		require.NoError(t, err)
		_, releaseB, err := c.Acquire(context.Background(), "b", loader("b", &calls))
		require.NoError(t, err)
		releaseB()
		_, releaseC, err := c.Acquire(context.Background(), "c", loader("c", &calls))
		require.NoError(t, err)
		releaseC()

		assert.True(t, c.Contains("a"))
		assert.False(t, c.Contains("b"))
		assert.Equal(t, "a", pinned.Namespace)
		releasePinned()
	})

	t.Run("serves uncached when every shard is pinned", func(t *testing.T) {
		t.Parallel()

		c := lru.NewShardCache(1)
		var calls atomic.Int32

		_, releaseA, err := c.Acquire(context.Background(), "a", loader("a", &calls))
		require.NoError(t, err)

		b, releaseB, err := c.Acquire(context.Background(), "b", loader("b", &calls))
		require.NoError(t, err)
		releaseB()

		assert.Equal(t, "b", b.Namespace)
		assert.True(t, c.Contains("a"))
		assert.False(t, c.Contains("b"))
		assert.Equal(t, 1, c.Stats().Uncached)

		releaseA()
		_, releaseB, err = c.Acquire(context.Background(), "b", loader("b", &calls))
		require.NoError(t, err)
		releaseB()
		assert.True(t, c.Contains("b"))
	})

	t.Run("release is idempotent", func(t *testing.T) {
		t.Parallel()

		c := lru.NewShardCache(1)
		var calls atomic.Int32

		_, releaseA, err := c.Acquire(context.Background(), "a", loader("a", &calls))
		require.NoError(t, err)
		_, releaseA2, err := c.Acquire(context.Background(), "a", loader("a", &calls))
		require.NoError(t, err)
		releaseA()
		releaseA()

		// a is still pinned by the second acquisition.
		_, releaseB, err := c.Acquire(context.Background(), "b", loader("b", &calls))
		require.NoError(t, err)
		releaseB()
		assert.True(t, c.Contains("a"))

		releaseA2()
	})

	t.Run("loads once for concurrent callers", func(t *testing.T) {
		t.Parallel()

		c := lru.NewShardCache(4)
		var calls atomic.Int32
		gate := make(chan struct{})
		load := func(ctx context.Context) (*rhinodoc.Shard, error) {
			calls.Add(1)
			<-gate
			return &rhinodoc.Shard{Namespace: "rhino.geometry"}, nil
		}

		const n = 16
		var wg sync.WaitGroup
		var started sync.WaitGroup
		results := make([]*rhinodoc.Shard, n)
		started.Add(n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				started.Done()
				s, release, err := c.Acquire(context.Background(), "rhino.geometry", load)
				assert.NoError(t, err)
				if err == nil {
					results[i] = s
					release()
				}
			}(i)
		}
		started.Wait()
		close(gate)
		wg.Wait()

		// Late arrivals may hit the cache instead of joining the load, but
		// nobody triggers a second one.
		assert.Equal(t, int32(1), calls.Load())
		for _, s := range results {
			assert.Same(t, results[0], s)
		}
		assert.Equal(t, 1, c.Len())
	})

	t.Run("loads once when callers race an instant load", func(t *testing.T) {
		t.Parallel()

		for iter := 0; iter < 2000; iter++ {
			c := lru.NewShardCache(4)
			var calls atomic.Int32
			load := loader("a", &calls)

			var wg sync.WaitGroup
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, release, err := c.Acquire(context.Background(), "a", load)
					if assert.NoError(t, err) {
						release()
					}
				}()
			}
			wg.Wait()

			require.Equal(t, int32(1), calls.Load(), "iteration %d", iter)
			require.Equal(t, 1, c.Stats().Loads, "iteration %d", iter)
			require.Equal(t, 1, c.Len(), "iteration %d", iter)
		}
	})

	t.Run("does not cache load errors", func(t *testing.T) {
		t.Parallel()

		c := lru.NewShardCache(2)
		var calls atomic.Int32
		failing := func(ctx context.Context) (*rhinodoc.Shard, error) {
			calls.Add(1)
			return nil, rhinodoc.Errorf(rhinodoc.ENOTFOUND, "shard not found")
		}

		_, _, err := c.Acquire(context.Background(), "a", failing)
		assert.Equal(t, rhinodoc.ENOTFOUND, rhinodoc.ErrorCode(err))
		_, _, err = c.Acquire(context.Background(), "a", failing)
		assert.Equal(t, rhinodoc.ENOTFOUND, rhinodoc.ErrorCode(err))

		assert.Equal(t, int32(2), calls.Load())
		assert.False(t, c.Contains("a"))
		assert.Zero(t, c.Len())
	})

	t.Run("returns context errors while waiting", func(t *testing.T) {
		t.Parallel()

		c := lru.NewShardCache(2)
		gate := make(chan struct{})
		defer close(gate)
		load := func(ctx context.Context) (*rhinodoc.Shard, error) {
			<-gate
			return &rhinodoc.Shard{}, nil
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, _, err := c.Acquire(ctx, "a", load)
		assert.True(t, errors.Is(err, context.Canceled))
	})
}

func TestNewShardCache(t *testing.T) {
	t.Parallel()

	assert.Equal(t, lru.DefaultCapacity, lru.NewShardCache(0).Capacity())
	assert.Equal(t, lru.DefaultCapacity, lru.NewShardCache(-5).Capacity())
	assert.Equal(t, 7, lru.NewShardCache(7).Capacity())
}
