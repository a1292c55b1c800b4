// Package redis opens the shared Redis connection pool.
package redis

import (
	"context"
	stderrors "errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kart-io/campusgpt/pkg/component/storage"
	options "github.com/kart-io/campusgpt/pkg/options/redis"
)

// Client is a go-redis client registered with the storage manager. Close
// may be called more than once.
//
//	c, err := redis.New(ctx, opts)
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//	err = c.Client().Set(ctx, "key", "value", 0).Err()
type Client struct {
	rdb  *goredis.Client
	addr string
}

var _ storage.Client = (*Client)(nil)

// New validates opts, dials Redis and pings it with ctx.
func New(ctx context.Context, opts *options.Options) (*Client, error) {
	if opts == nil {
		return nil, fmt.Errorf("redis options cannot be nil")
	}
	if errs := opts.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid redis options: %w", stderrors.Join(errs...))
	}

	c := &Client{rdb: goredis.NewClient(opts.ClientOptions()), addr: opts.Addr()}
	if err := c.Ping(ctx); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("ping redis %s: %w", c.addr, err)
	}
	return c, nil
}

func (c *Client) Name() string { return "redis" }

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	if err := c.rdb.Close(); err != nil && !stderrors.Is(err, goredis.ErrClosed) {
		return err
	}
	return nil
}

// Client returns the go-redis client for issuing commands.
func (c *Client) Client() *goredis.Client { return c.rdb }
