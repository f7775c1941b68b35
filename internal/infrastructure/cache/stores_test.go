package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/precivox/backend/internal/domain"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	t.Run("set and get", func(t *testing.T) {
		err := store.Set(ctx, "k1", []byte("v1"), time.Minute)
		require.NoError(t, err)

		got, err := store.Get(ctx, "k1")
		require.NoError(t, err)
		assert.Equal(t, []byte("v1"), got)
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := store.Get(ctx, "absent")
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})

	t.Run("expired entry reads as missing", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "short", []byte("v"), 5*time.Millisecond))
		time.Sleep(20 * time.Millisecond)

		_, err := store.Get(ctx, "short")
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "d1", []byte("v"), time.Minute))
		require.NoError(t, store.Set(ctx, "d2", []byte("v"), time.Minute))
		require.NoError(t, store.Delete(ctx, "d1", "d2"))

		_, err := store.Get(ctx, "d1")
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(rdb)
	ctx := context.Background()

	t.Run("set and get", func(t *testing.T) {
		err := store.Set(ctx, "k1", []byte("v1"), time.Minute)
		require.NoError(t, err)

		got, err := store.Get(ctx, "k1")
		require.NoError(t, err)
		assert.Equal(t, []byte("v1"), got)
	})

	t.Run("missing key maps to cache miss", func(t *testing.T) {
		_, err := store.Get(ctx, "absent")
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})

	t.Run("entry expires with redis TTL", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "short", []byte("v"), time.Second))
		mr.FastForward(2 * time.Second)

		_, err := store.Get(ctx, "short")
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "d1", []byte("v"), time.Minute))
		require.NoError(t, store.Delete(ctx, "d1"))

		_, err := store.Get(ctx, "d1")
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})

	t.Run("server down maps to cache unavailable", func(t *testing.T) {
		mr.Close()
		_, err := store.Get(ctx, "k1")
		assert.ErrorIs(t, err, domain.ErrCacheUnavailable)
	})
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()

	t.Run("set and get", func(t *testing.T) {
		err := store.Set(ctx, "k1", []byte("v1"), time.Minute)
		require.NoError(t, err)

		got, err := store.Get(ctx, "k1")
		require.NoError(t, err)
		assert.Equal(t, []byte("v1"), got)
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := store.Get(ctx, "absent")
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})

	t.Run("overwrite replaces the value", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "k2", []byte("old"), time.Minute))
		require.NoError(t, store.Set(ctx, "k2", []byte("new"), time.Minute))

		got, err := store.Get(ctx, "k2")
		require.NoError(t, err)
		assert.Equal(t, []byte("new"), got)
	})

	t.Run("expired row reads as missing and is removed", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "short", []byte("v"), 5*time.Millisecond))
		time.Sleep(20 * time.Millisecond)

		_, err := store.Get(ctx, "short")
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})

	t.Run("delete multiple keys", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "d1", []byte("v"), time.Minute))
		require.NoError(t, store.Set(ctx, "d2", []byte("v"), time.Minute))
		require.NoError(t, store.Delete(ctx, "d1", "d2"))

		_, err := store.Get(ctx, "d1")
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})

	t.Run("entries survive reopening", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "persist", []byte("v"), time.Hour))
		require.NoError(t, store.Close())

		reopened, err := NewSQLiteStore(path)
		require.NoError(t, err)
		t.Cleanup(func() { reopened.Close() })

		got, err := reopened.Get(ctx, "persist")
		require.NoError(t, err)
		assert.Equal(t, []byte("v"), got)
	})
}
