package redis

import (
	"context"
	"sync"

	"github.com/gabapcia/blinkrelay/internal/pkg/logger"
	"github.com/gabapcia/blinkrelay/internal/pkg/transport/bus"
	"github.com/gabapcia/blinkrelay/internal/pkg/x/chflow"
	"github.com/gabapcia/blinkrelay/internal/protocol"

	redis "github.com/redis/go-redis/v9"
)

type subscription struct {
	client *client
	ps     *redis.PubSub
	ch     chan protocol.Message
	cancel context.CancelFunc
	once   sync.Once
}

var _ bus.Subscription = (*subscription)(nil)

func (s *subscription) C() <-chan protocol.Message {
	return s.ch
}

func (s *subscription) Close() {
	s.client.mu.Lock()
	s.client.subs.Delete(s)
	s.client.mu.Unlock()

	s.shutdown()
}

func (s *subscription) shutdown() {
	s.once.Do(func() {
		s.cancel()
		s.ps.Close()
	})
}

// forward decodes frames into s.ch until ctx, canceled by shutdown, is done.
// Frames that do not decode as relay messages are dropped.
func (s *subscription) forward(ctx context.Context) {
	defer close(s.ch)

	frames := s.ps.Channel()
	for {
		frame, ok := chflow.Receive(ctx, frames)
		if !ok {
			return
		}

		msg, err := protocol.Decode([]byte(frame.Payload))
		if err != nil {
			logger.Warn(ctx, "dropping invalid relay frame", "error", err)
			continue
		}

		if !chflow.Send(ctx, s.ch, msg) {
			return
		}
	}
}

// Publish encodes msg and publishes it on the relay channel.
func (c *client) Publish(ctx context.Context, msg protocol.Message) error {
	payload, err := protocol.Encode(msg)
	if err != nil {
		return err
	}

	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return bus.ErrClosed
	}

	return c.conn.Publish(ctx, c.channel, payload).Err()
}

// Subscribe opens a pub/sub connection and waits for Redis to confirm the
// subscription before returning, so a request published right after cannot
// outrun its response listener.
func (c *client) Subscribe(ctx context.Context) (bus.Subscription, error) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return nil, bus.ErrClosed
	}

	ps := c.conn.Subscribe(ctx, c.channel)
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, err
	}

	fwdCtx, cancel := context.WithCancel(logger.Derive(context.WithoutCancel(ctx), "channel", c.channel))

	sub := &subscription{
		client: c,
		ps:     ps,
		ch:     make(chan protocol.Message, c.bufferSize),
		cancel: cancel,
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		cancel()
		ps.Close()
		return nil, bus.ErrClosed
	}
	c.subs.Add(sub)
	c.mu.Unlock()

	go sub.forward(fwdCtx)

	return sub, nil
}
