// Package redis carries the relay broadcast between processes over Redis
// pub/sub, so the page relay and the adapters can run apart.
package redis

import (
	"context"
	"sync"
	"time"

	"github.com/gabapcia/blinkrelay/internal/pkg/resilience/retry"
	"github.com/gabapcia/blinkrelay/internal/pkg/transport/bus"
	"github.com/gabapcia/blinkrelay/internal/pkg/types"

	redis "github.com/redis/go-redis/v9"
)

// DefaultChannel is the pub/sub channel used when none is configured.
const DefaultChannel = "blinkrelay"

type config struct {
	channel    string
	retry      retry.Retry
	bufferSize int
}

// Option configures NewClient.
type Option func(*config)

// WithChannel selects the pub/sub channel. Both endpoints must agree on it.
func WithChannel(channel string) Option {
	return func(c *config) {
		if channel != "" {
			c.channel = channel
		}
	}
}

// WithRetry replaces the policy used for the initial connection check.
func WithRetry(r retry.Retry) Option {
	return func(c *config) {
		c.retry = r
	}
}

type client struct {
	conn       *redis.Client
	channel    string
	bufferSize int

	mu     sync.Mutex
	subs   types.Set[*subscription]
	closed bool
}

var _ bus.Bus = (*client)(nil)

func (c *client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	subs := c.subs.ToSlice()
	c.subs = types.NewSet[*subscription]()
	c.mu.Unlock()

	for _, sub := range subs {
		sub.shutdown()
	}

	return c.conn.Close()
}

// NewClient connects to Redis and returns a bus.Bus over one pub/sub
// channel. The connection is checked with PING under a retry policy.
func NewClient(ctx context.Context, addr, username, password string, db int, opts ...Option) (*client, error) {
	cfg := config{
		channel:    DefaultChannel,
		retry:      retry.New(retry.WithAttempts(5), retry.WithDelay(200*time.Millisecond)),
		bufferSize: 32,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	conn := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
		DB:       db,
	})

	if err := cfg.retry.Execute(ctx, func() error { return conn.Ping(ctx).Err() }); err != nil {
		conn.Close()
		return nil, err
	}

	return &client{
		conn:       conn,
		channel:    cfg.channel,
		bufferSize: cfg.bufferSize,
		subs:       types.NewSet[*subscription](),
	}, nil
}
