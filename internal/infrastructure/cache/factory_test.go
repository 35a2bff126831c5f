package cache

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hexlet/taskmanager/internal/infrastructure/auth"
	"github.com/hexlet/taskmanager/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func redisConfigFor(t *testing.T, mr *miniredis.Miniredis) config.RedisConfig {
	t.Helper()
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	return config.RedisConfig{Enabled: true, Host: mr.Host(), Port: port}
}

// unusedRedisConfig points at a port nothing listens on
func unusedRedisConfig(t *testing.T) config.RedisConfig {
	mr := miniredis.RunT(t)
	cfg := redisConfigFor(t, mr)
	mr.Close()
	return cfg
}

func TestCreateBlacklist_RedisDisabled(t *testing.T) {
	blacklist, closeFn, err := NewBlacklistFactory(config.RedisConfig{}).CreateBlacklist(context.Background())

	require.NoError(t, err)
	assert.IsType(t, &auth.InMemoryTokenBlacklist{}, blacklist)
	assert.NoError(t, closeFn())
}

func TestCreateBlacklist_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	blacklist, closeFn, err := NewBlacklistFactory(redisConfigFor(t, mr)).CreateBlacklist(ctx)
	require.NoError(t, err)
	defer func() { assert.NoError(t, closeFn()) }()

	assert.IsType(t, &auth.RedisTokenBlacklist{}, blacklist)

	require.NoError(t, blacklist.AddToBlacklist(ctx, "jti", time.Hour))
	assert.True(t, mr.Exists(auth.DefaultBlacklistKeyPrefix+"jti:jti"))
}

func TestCreateBlacklist_FallsBackWhenUnreachable(t *testing.T) {
	core, recorded := observer.New(zapcore.WarnLevel)
	factory := NewBlacklistFactory(unusedRedisConfig(t), WithLogger(zap.New(core)))

	blacklist, _, err := factory.CreateBlacklist(context.Background())

	require.NoError(t, err)
	assert.IsType(t, &auth.InMemoryTokenBlacklist{}, blacklist)
	assert.Equal(t, 1, recorded.Len())
}

func TestCreateBlacklist_NoFallback(t *testing.T) {
	factory := NewBlacklistFactory(unusedRedisConfig(t), WithInMemoryFallback(false))

	_, _, err := factory.CreateBlacklist(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unavailable")
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), redisConfigFor(t, mr))
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}
