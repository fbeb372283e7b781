package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gadgetproof/receipt-engine/internal/config"
	"github.com/gadgetproof/receipt-engine/internal/models"
)

func setupTestCache(t *testing.T) *Cache {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	t.Cleanup(func() { mr.Close() })

	cfg := config.RedisConnection{
		AddressRedis: mr.Addr(),
		Password:     "",
		DB:           0,
		User:         "",
	}

	cache, err := InitServer(context.Background(), cfg)
	require.NoError(t, err)
	return cache
}

func TestSetAndGet(t *testing.T) {
	cache := setupTestCache(t)

	expected := models.Receipt{
		ID:         7,
		Merchant:   "alice-market",
		Buyer:      "bob",
		ContentRef: "sha256:abc",
		Status:     models.StatusActive,
	}
	err := cache.Set("receipt:7", expected, time.Minute)
	require.NoError(t, err)

	var actual models.Receipt
	found, err := cache.Get("receipt:7", &actual)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, expected, actual)
}

func TestGetNotFound(t *testing.T) {
	cache := setupTestCache(t)

	var out models.Receipt
	found, err := cache.Get("no_such_key", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidate(t *testing.T) {
	cache := setupTestCache(t)

	require.NoError(t, cache.Set("receipt:1", models.Receipt{ID: 1}, time.Minute))
	require.NoError(t, cache.Invalidate("receipt:1"))

	var out models.Receipt
	found, err := cache.Get("receipt:1", &out)
	require.NoError(t, err)
	assert.False(t, found)
}
