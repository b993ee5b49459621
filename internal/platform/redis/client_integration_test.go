//go:build integration

package redis_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kycflow/internal/platform/config"
	"kycflow/internal/platform/redis"
	"kycflow/pkg/testutil/containers"
)

func TestNewConnects(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()
	rc := containers.GetManager().GetRedis(t)

	client, err := redis.New(ctx, config.RedisConfig{URL: rc.Addr, PoolSize: 2})
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	assert.NoError(t, client.Health(ctx))
}

func TestNewWithoutURL(t *testing.T) {
	client, err := redis.New(context.Background(), config.RedisConfig{})
	require.NoError(t, err)
	assert.Nil(t, client)
}
