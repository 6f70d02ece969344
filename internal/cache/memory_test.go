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
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemoryCache()
	c.now = func() time.Time { return now }

	t.Run("Miss", func(t *testing.T) {
		_, err := c.Get(ctx, "admin_config:delivery_charge_per_order")
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("Hit returns a copy", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "k", []byte("120"), time.Minute))
		v, err := c.Get(ctx, "k")
		require.NoError(t, err)
		v[0] = '9'

		again, err := c.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "120", string(again))
	})

	t.Run("Expiry", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "short", []byte("1"), time.Second))
		now = now.Add(2 * time.Second)
		_, err := c.Get(ctx, "short")
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "gone", []byte("1"), time.Minute))
		require.NoError(t, c.Delete(ctx, "gone"))
		_, err := c.Get(ctx, "gone")
		assert.ErrorIs(t, err, ErrCacheMiss)
	})
}
