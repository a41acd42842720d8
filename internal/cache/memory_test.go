package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_SetGetDelete", func(t *testing.T) {
		c := NewMemoryCache(0)

		_, found, err := c.Get(ctx, "k")
		require.NoError(t, err)
		assert.False(t, found)

		require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
		value, found, err := c.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, []byte("v"), value)

		require.NoError(t, c.Delete(ctx, "k"))
		_, found, _ = c.Get(ctx, "k")
		assert.False(t, found)

		assert.NoError(t, c.Delete(ctx, "absent"))
		assert.NoError(t, c.Ping(ctx))
	})

	t.Run("Success_EntryExpires", func(t *testing.T) {
		c := NewMemoryCache(0)

		require.NoError(t, c.Set(ctx, "k", []byte("v"), 20*time.Millisecond))
		_, found, _ := c.Get(ctx, "k")
		require.True(t, found)

		assert.Eventually(t, func() bool {
			_, found, _ := c.Get(ctx, "k")
			return !found
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("Success_HitDoesNotExtendLifetime", func(t *testing.T) {
		c := NewMemoryCache(0)
		require.NoError(t, c.Set(ctx, "k", []byte("v"), 60*time.Millisecond))

		deadline := time.Now().Add(60 * time.Millisecond)
		for time.Now().Before(deadline.Add(-15 * time.Millisecond)) {
			_, _, _ = c.Get(ctx, "k")
			time.Sleep(5 * time.Millisecond)
		}

		assert.Eventually(t, func() bool {
			_, found, _ := c.Get(ctx, "k")
			return !found
		}, 100*time.Millisecond, 5*time.Millisecond)
	})

	t.Run("Success_StoredValueIsCopied", func(t *testing.T) {
		c := NewMemoryCache(0)
		value := []byte("abc")
		require.NoError(t, c.Set(ctx, "k", value, time.Minute))
		value[0] = 'z'

		got, _, _ := c.Get(ctx, "k")
		assert.Equal(t, []byte("abc"), got)
	})

	t.Run("Success_StartStop", func(t *testing.T) {
		c := NewMemoryCache(10)
		done := make(chan struct{})
		go func() {
			c.Start()
			close(done)
		}()

		c.Stop()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("memory cache cleanup loop did not stop")
		}
	})
}

func TestNoOpCache(t *testing.T) {
	ctx := context.Background()
	c := NewNoOpCache()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	value, found, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, value)
	assert.NoError(t, c.Delete(ctx, "k"))
	assert.NoError(t, c.Ping(ctx))
}
