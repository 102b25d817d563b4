package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gabapcia/blinkrelay/internal/pkg/resilience/retry"
	"github.com/gabapcia/blinkrelay/internal/pkg/transport/bus"
	"github.com/gabapcia/blinkrelay/internal/protocol"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient connects to the Redis server named by BLINKRELAY_TEST_REDIS_ADDR,
// or to an in-process miniredis when it is unset, on a channel private to the
// test.
func newTestClient(t *testing.T) *client {
	t.Helper()

	addr := os.Getenv("BLINKRELAY_TEST_REDIS_ADDR")
	if addr == "" {
		addr = miniredis.RunT(t).Addr()
	}

	c, err := NewClient(t.Context(), addr, "", "", 0, WithChannel("blinkrelay-test-"+uuid.NewString()))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	return c
}

func receive(t *testing.T, sub bus.Subscription) protocol.Message {
	t.Helper()

	select {
	case msg, ok := <-sub.C():
		require.True(t, ok, "subscription channel closed")
		return msg
	case <-time.After(2 * time.Second):
		require.FailNow(t, "no message received")
		return protocol.Message{}
	}
}

func TestNewClient(t *testing.T) {
	t.Run("fails when redis is unreachable", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
		defer cancel()

		c, err := NewClient(ctx, "127.0.0.1:1", "", "", 0,
			WithRetry(retry.New(retry.WithAttempts(1), retry.WithDelay(time.Millisecond))),
		)

		assert.Nil(t, c)
		assert.Error(t, err)
	})

	t.Run("keeps the default channel for an empty name", func(t *testing.T) {
		cfg := config{channel: DefaultChannel}
		WithChannel("")(&cfg)

		assert.Equal(t, DefaultChannel, cfg.channel)
	})
}

func TestClient_PublishSubscribe(t *testing.T) {
	t.Run("delivers to every subscriber across clients", func(t *testing.T) {
		srv := miniredis.RunT(t)
		channel := WithChannel("blinkrelay-test-" + uuid.NewString())

		relaySide, err := NewClient(t.Context(), srv.Addr(), "", "", 0, channel)
		require.NoError(t, err)
		defer relaySide.Close()

		adapterSide, err := NewClient(t.Context(), srv.Addr(), "", "", 0, channel)
		require.NoError(t, err)
		defer adapterSide.Close()

		sub, err := relaySide.Subscribe(t.Context())
		require.NoError(t, err)
		defer sub.Close()

		req := protocol.NewConnectRequest(protocol.Ethereum, "8453")
		require.NoError(t, adapterSide.Publish(t.Context(), req))

		assert.Equal(t, req, receive(t, sub))
	})

	t.Run("stops delivering after close", func(t *testing.T) {
		c := newTestClient(t)

		sub, err := c.Subscribe(t.Context())
		require.NoError(t, err)

		sub.Close()
		sub.Close()

		select {
		case _, ok := <-sub.C():
			assert.False(t, ok)
		case <-time.After(2 * time.Second):
			t.Fatal("subscription channel not closed")
		}
	})

	t.Run("delivers published messages to subscribers", func(t *testing.T) {
		c := newTestClient(t)

		sub, err := c.Subscribe(t.Context())
		require.NoError(t, err)
		defer sub.Close()

		req := protocol.NewSignRequest(protocol.Solana, "", "AQID")
		require.NoError(t, c.Publish(t.Context(), req))

		assert.Equal(t, req, receive(t, sub))
	})

	t.Run("drops frames that are not relay messages", func(t *testing.T) {
		c := newTestClient(t)

		sub, err := c.Subscribe(t.Context())
		require.NoError(t, err)
		defer sub.Close()

		require.NoError(t, c.conn.Publish(t.Context(), c.channel, "not json").Err())
		require.NoError(t, c.conn.Publish(t.Context(), c.channel, `{"type":"UNKNOWN"}`).Err())

		loaded := protocol.NewAnnouncement(protocol.TypePageScriptLoaded)
		require.NoError(t, c.Publish(t.Context(), loaded))

		assert.Equal(t, loaded, receive(t, sub))
	})

	t.Run("refuses to publish an invalid message", func(t *testing.T) {
		c := newTestClient(t)

		err := c.Publish(t.Context(), protocol.Message{Type: protocol.RequestType(protocol.KindSign, protocol.Ethereum), ID: "1"})

		assert.Error(t, err)
	})

	t.Run("closes subscriptions with the client", func(t *testing.T) {
		c := newTestClient(t)

		sub, err := c.Subscribe(t.Context())
		require.NoError(t, err)

		require.NoError(t, c.Close())

		select {
		case _, ok := <-sub.C():
			assert.False(t, ok)
		case <-time.After(2 * time.Second):
			t.Fatal("subscription channel not closed")
		}

		_, err = c.Subscribe(t.Context())
		assert.ErrorIs(t, err, bus.ErrClosed)
		assert.ErrorIs(t, c.Publish(t.Context(), protocol.NewAnnouncement(protocol.TypePageScriptLoaded)), bus.ErrClosed)
	})
}
