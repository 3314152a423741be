//go:build integration

package middleware

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func TestRateLimiter_RedisSharedAcrossEngines(t *testing.T) {
	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(uri)
	require.NoError(t, err)
	rdb := redis.NewClient(opts)
	t.Cleanup(func() { _ = rdb.Close() })

	// Two engines stand in for two replicas sharing one Redis.
	engine := func() *gin.Engine {
		r := gin.New()
		r.Use(RateLimiter(rdb, 3, time.Minute))
		r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
		return r
	}
	a, b := engine(), engine()

	assert.Equal(t, http.StatusOK, do(a, http.MethodGet, "/x").Code)
	assert.Equal(t, http.StatusOK, do(b, http.MethodGet, "/x").Code)
	assert.Equal(t, http.StatusOK, do(a, http.MethodGet, "/x").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(b, http.MethodGet, "/x").Code)

	keys, err := rdb.Keys(ctx, "ratelimit:*").Result()
	require.NoError(t, err)
	require.NotEmpty(t, keys)
	ttl, err := rdb.TTL(ctx, keys[0]).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
