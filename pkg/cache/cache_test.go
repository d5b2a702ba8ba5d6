package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type coinConfig struct {
	Unit    string `json:"unit"`
	Enabled bool   `json:"enabled"`
}

func TestMemoryCache_RoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "coin:unit:BTC", &coinConfig{Unit: "BTC", Enabled: true}, time.Minute))

	var got coinConfig
	require.NoError(t, c.Get(ctx, "coin:unit:BTC", &got))
	assert.Equal(t, "BTC", got.Unit)
	assert.True(t, got.Enabled)
}

func TestMemoryCache_MissIsSentinel(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	var got coinConfig
	err := c.Get(context.Background(), "coin:unit:DOGE", &got)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCache_DeleteThenMiss(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", &coinConfig{Unit: "ETH"}, time.Minute))
	require.NoError(t, c.Delete(ctx, "k"))

	var got coinConfig
	assert.ErrorIs(t, c.Get(ctx, "k", &got), ErrCacheMiss)
}

func TestMemoryCache_TTLExpires(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", &coinConfig{Unit: "ETH"}, 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	var got coinConfig
	assert.ErrorIs(t, c.Get(ctx, "k", &got), ErrCacheMiss)
}
