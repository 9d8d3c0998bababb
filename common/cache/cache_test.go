package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/altarsite/gallery/common/logger"
	rediscommon "github.com/altarsite/gallery/common/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache(logger.Discard())
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "tags:all", []byte("x"), time.Minute))

	val, found, err := c.Get(ctx, "tags:all")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("x"), val)

	require.NoError(t, c.Delete(ctx, "tags:all"))
	_, found, _ = c.Get(ctx, "tags:all")
	assert.False(t, found)
}

func TestMemoryCache_Expired(t *testing.T) {
	c := NewMemoryCache(logger.Discard())
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), -time.Second))

	_, found, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryCache_CloseIsIdempotent(t *testing.T) {
	c := NewMemoryCache(logger.Discard())
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	// Writes after close are dropped
	require.NoError(t, c.Set(context.Background(), "k", []byte("v"), time.Minute))
	assert.Equal(t, 0, c.Stats()["entries"])
}

func TestRedisCache_Prefix(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := rediscommon.Dial(context.Background(), rediscommon.Options{Addr: mr.Addr()}, logger.Discard())
	require.NoError(t, err)
	defer client.Close()

	c := NewRedisCache(client, "gallery:")
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "images:page=1", []byte("[]"), time.Minute))
	assert.True(t, mr.Exists("gallery:images:page=1"))

	val, found, err := c.Get(ctx, "images:page=1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("[]"), val)

	mr.FastForward(2 * time.Minute)
	_, found, err = c.Get(ctx, "images:page=1")
	require.NoError(t, err)
	assert.False(t, found)
}
