package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCooldownWithoutRedisAlwaysAllows(t *testing.T) {
	c := NewCooldown(nil, "sos:cooldown", time.Minute)

	for i := 0; i < 3; i++ {
		ok, err := c.Acquire(context.Background(), "u-1")
		require.NoError(t, err)
		assert.True(t, ok)
	}

	remaining, err := c.Remaining(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Zero(t, remaining)
	assert.NoError(t, c.Release(context.Background(), "u-1"))
}

func TestCooldownKey(t *testing.T) {
	c := NewCooldown(nil, "sos:cooldown", time.Minute)
	assert.Equal(t, "sos:cooldown:u-42", c.key("u-42"))
}

func TestConnectRedisEmptyURL(t *testing.T) {
	client, err := ConnectRedis("")
	require.NoError(t, err)
	assert.Nil(t, client)
}
