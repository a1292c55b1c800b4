package redis

import (
	"context"
	"net"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	options "github.com/kart-io/campusgpt/pkg/options/redis"
)

// testRedisOptions returns options for the Redis at CAMPUSGPT_TEST_REDIS
// (host:port), skipping the test when it is not set.
func testRedisOptions(t *testing.T) *options.Options {
	t.Helper()
	addr := os.Getenv("CAMPUSGPT_TEST_REDIS")
	if addr == "" {
		t.Skip("CAMPUSGPT_TEST_REDIS not set")
	}
	opts := options.NewOptions()
	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err, "CAMPUSGPT_TEST_REDIS must be host:port")
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	opts.Host, opts.Port = host, port
	opts.DialTimeout = time.Second
	return opts
}

func TestNewNilOptions(t *testing.T) {
	_, err := New(context.Background(), nil)
	assert.Error(t, err)
}

func TestNewInvalidOptions(t *testing.T) {
	opts := options.NewOptions()
	opts.Port = 0
	_, err := New(context.Background(), opts)
	assert.Error(t, err)
}

func TestNewUnreachable(t *testing.T) {
	opts := options.NewOptions()
	opts.Host = "127.0.0.1"
	opts.Port = 1
	opts.MaxRetries = -1
	opts.DialTimeout = 200 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := New(ctx, opts)
	assert.Error(t, err)
}

func TestClientRoundTrip(t *testing.T) {
	opts := testRedisOptions(t)
	ctx := context.Background()

	c, err := New(ctx, opts)
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, "redis", c.Name())
	require.NoError(t, c.Ping(ctx))
	require.NoError(t, c.Client().Set(ctx, "campusgpt:test", "ok", time.Minute).Err())
	assert.Equal(t, "ok", c.Client().Get(ctx, "campusgpt:test").Val())
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
}
