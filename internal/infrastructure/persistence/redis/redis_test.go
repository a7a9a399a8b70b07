package redis

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

func newTestClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestSessionStore_Blacklist(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t)
	store := NewSessionStore(client)

	in, err := store.IsInBlacklist(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, in)

	require.NoError(t, store.AddToBlacklist(ctx, "token-a", time.Minute))
	in, err = store.IsInBlacklist(ctx, "token-a")
	require.NoError(t, err)
	assert.True(t, in)

	// 过期后自动移出黑名单
	mr.FastForward(2 * time.Minute)
	in, err = store.IsInBlacklist(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, in)

	// 已过期的Token无需记录
	require.NoError(t, store.AddToBlacklist(ctx, "token-b", 0))
	in, err = store.IsInBlacklist(ctx, "token-b")
	require.NoError(t, err)
	assert.False(t, in)
}

func TestSessionStore_Session(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t)
	store := NewSessionStore(client)

	require.NoError(t, store.SaveSession(ctx, "admin", map[string]interface{}{"ip": "10.0.0.1"}, time.Hour))
	assert.Equal(t, time.Hour, mr.TTL("session:admin"))

	data, err := store.GetSession(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", data["ip"])

	require.NoError(t, store.DeleteSession(ctx, "admin"))
	data, err = store.GetSession(ctx, "admin")
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestUsedTokenStore_MarkUsed(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t)
	store := NewUsedTokenStore(client)

	first, err := store.MarkUsed(ctx, "jti-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, first)

	again, err := store.MarkUsed(ctx, "jti-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, again)

	mr.Close()
	_, err = store.MarkUsed(ctx, "jti-2", time.Minute)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeRedisError, apperrors.GetAppError(err).Code)
}

func TestNewClient(t *testing.T) {
	t.Run("未启用返回nil", func(t *testing.T) {
		client, err := NewClient(&config.Config{})
		require.NoError(t, err)
		assert.Nil(t, client)
	})

	t.Run("连接miniredis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := &config.Config{Redis: config.RedisConfig{
			Enabled:     true,
			Host:        mr.Host(),
			Port:        mustPort(t, mr.Port()),
			PoolSize:    2,
			DialTimeout: time.Second,
		}}

		client, err := NewClient(cfg)
		require.NoError(t, err)
		require.NotNil(t, client)
		_ = client.Close()
	})
}

func mustPort(t *testing.T, port string) int {
	t.Helper()
	p, err := strconv.Atoi(port)
	require.NoError(t, err)
	return p
}
