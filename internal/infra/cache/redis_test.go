package cache

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/homerent/server/internal/infra/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClient(t *testing.T) {
	t.Run("connects", func(t *testing.T) {
		mr := miniredis.RunT(t)

		client, err := NewRedisClient(&config.RedisConfig{Address: mr.Addr()})
		require.NoError(t, err)
		assert.NoError(t, Close(client))
	})

	t.Run("unreachable", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		_, err := NewRedisClient(&config.RedisConfig{Address: addr})
		assert.Error(t, err)
	})
}
