package cache

import (
	"context"
	"fmt"

	"github.com/hexlet/taskmanager/internal/infrastructure/auth"
	"github.com/hexlet/taskmanager/internal/infrastructure/config"
	"go.uber.org/zap"
)

// BlacklistFactory creates the token blacklist based on configuration
type BlacklistFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// BlacklistFactoryOption is a functional option for configuring the factory
type BlacklistFactoryOption func(*BlacklistFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) BlacklistFactoryOption {
	return func(f *BlacklistFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory
// blacklist when Redis is enabled but unreachable. Default is true.
func WithInMemoryFallback(allow bool) BlacklistFactoryOption {
	return func(f *BlacklistFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewBlacklistFactory creates a new factory
func NewBlacklistFactory(cfg config.RedisConfig, opts ...BlacklistFactoryOption) *BlacklistFactory {
	f := &BlacklistFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CloseFunc releases resources held by a created blacklist
type CloseFunc func() error

// CreateBlacklist returns a Redis blacklist when Redis is enabled and
// reachable, and an in-memory one otherwise.
func (f *BlacklistFactory) CreateBlacklist(ctx context.Context) (auth.TokenBlacklist, CloseFunc, error) {
	noop := func() error { return nil }

	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory token blacklist")
		return auth.NewInMemoryTokenBlacklist(), noop, nil
	}

	client, err := NewRedisClient(ctx, f.redisConfig)
	if err == nil {
		f.logger.Info("Using Redis token blacklist", zap.String("addr", f.redisConfig.Addr()))
		return auth.NewRedisTokenBlacklist(client), client.Close, nil
	}

	if !f.allowInMemoryFallback {
		return nil, nil, fmt.Errorf("redis required for token blacklist but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory token blacklist. "+
		"Logouts will not be shared between instances.",
		zap.Error(err),
	)
	return auth.NewInMemoryTokenBlacklist(), noop, nil
}
