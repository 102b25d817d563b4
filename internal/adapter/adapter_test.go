package adapter

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gabapcia/blinkrelay/internal/pkg/transport/bus"
	"github.com/gabapcia/blinkrelay/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// responder answers every request seen on b with answer until the test ends.
// Requests for which answer returns false are left unanswered.
func responder(t *testing.T, b *bus.Memory, answer func(req protocol.Message) (protocol.Message, bool)) {
	t.Helper()

	sub, err := b.Subscribe(t.Context())
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range sub.C() {
			route, ok := msg.Route()
			if !ok || route.Outcome != protocol.OutcomeRequest {
				continue
			}
			if resp, ok := answer(msg); ok {
				go b.Publish(context.Background(), resp)
			}
		}
	}()

	t.Cleanup(func() {
		sub.Close()
		<-done
	})
}

func newBus(t *testing.T, opts ...bus.MemoryOption) *bus.Memory {
	t.Helper()

	b := bus.NewMemory(opts...)
	t.Cleanup(func() { b.Close() })
	return b
}

type readyFlag bool

func (r readyFlag) Ready() bool { return bool(r) }

func TestNew(t *testing.T) {
	t.Run("uses the family default timeouts", func(t *testing.T) {
		b := newBus(t)

		sol := New(protocol.Solana, b)
		assert.Equal(t, 30*time.Second, sol.connectTimeout)
		assert.Equal(t, 60*time.Second, sol.signTimeout)

		for _, family := range []protocol.ChainFamily{protocol.Ethereum, protocol.Starknet} {
			a := New(family, b)
			assert.Equal(t, 60*time.Second, a.connectTimeout, family)
			assert.Equal(t, 60*time.Second, a.signTimeout, family)
		}
	})

	t.Run("applies options", func(t *testing.T) {
		a := New(protocol.Ethereum, newBus(t),
			WithChainID("8453"),
			WithConnectTimeout(time.Second),
			WithSignTimeout(2*time.Second),
			WithSignErrorsAsResult(),
		)

		assert.Equal(t, protocol.Ethereum, a.Family())
		assert.Equal(t, "8453", a.chainID)
		assert.Equal(t, time.Second, a.connectTimeout)
		assert.Equal(t, 2*time.Second, a.signTimeout)
		assert.True(t, a.signErrorsAsResult)
	})

	t.Run("keeps the solana connect timeout apart", func(t *testing.T) {
		b := newBus(t)

		sol := New(protocol.Solana, b, WithConnectTimeout(time.Second))
		assert.Equal(t, 30*time.Second, sol.connectTimeout)

		sol = New(protocol.Solana, b, WithSolanaConnectTimeout(5*time.Second))
		assert.Equal(t, 5*time.Second, sol.connectTimeout)

		eth := New(protocol.Ethereum, b, WithSolanaConnectTimeout(5*time.Second))
		assert.Equal(t, 60*time.Second, eth.connectTimeout)
	})

	t.Run("ignores non positive timeouts", func(t *testing.T) {
		a := New(protocol.Starknet, newBus(t), WithConnectTimeout(0), WithSignTimeout(-time.Second))

		assert.Equal(t, 60*time.Second, a.connectTimeout)
		assert.Equal(t, 60*time.Second, a.signTimeout)
	})
}

func TestAdapter_Connect(t *testing.T) {
	t.Run("resolves with the carried account", func(t *testing.T) {
		b := newBus(t)
		responder(t, b, func(req protocol.Message) (protocol.Message, bool) {
			assert.Equal(t, protocol.Type("CONNECT_WALLET_SOLANA"), req.Type)
			return protocol.NewConnected(req, protocol.Solana, "Abc123"), true
		})

		account, err := New(protocol.Solana, b).Connect(t.Context())

		require.NoError(t, err)
		assert.Equal(t, "Abc123", account)
		assert.Equal(t, 1, b.Subscribers(), "only the responder should remain subscribed")
	})

	t.Run("sends the chain id for ethereum only", func(t *testing.T) {
		b := newBus(t)
		chains := make(chan string, 2)
		responder(t, b, func(req protocol.Message) (protocol.Message, bool) {
			chains <- req.Chain
			route, _ := req.Route()
			return protocol.NewConnected(req, route.Family, "acct"), true
		})

		_, err := New(protocol.Ethereum, b, WithChainID("8453")).Connect(t.Context())
		require.NoError(t, err)
		_, err = New(protocol.Starknet, b, WithChainID("8453")).Connect(t.Context())
		require.NoError(t, err)

		assert.Equal(t, "8453", <-chains)
		assert.Equal(t, "", <-chains)
	})

	t.Run("rejects with the carried message verbatim", func(t *testing.T) {
		b := newBus(t)
		responder(t, b, func(req protocol.Message) (protocol.Message, bool) {
			route, _ := req.Route()
			return protocol.NewFailure(req, route, "No Ethereum provider found"), true
		})

		_, err := New(protocol.Ethereum, b).Connect(t.Context())

		var remote *RemoteError
		require.ErrorAs(t, err, &remote)
		assert.EqualError(t, err, "No Ethereum provider found")
		assert.Equal(t, 1, b.Subscribers())
	})

	t.Run("times out and removes its listener", func(t *testing.T) {
		b := newBus(t)

		_, err := New(protocol.Solana, b, WithSolanaConnectTimeout(20*time.Millisecond)).Connect(t.Context())

		assert.ErrorIs(t, err, ErrTimeout)
		assert.EqualError(t, err, "wallet connection timed out")
		assert.Equal(t, 0, b.Subscribers())
	})

	t.Run("ignores responses for other requests", func(t *testing.T) {
		b := newBus(t)
		responder(t, b, func(req protocol.Message) (protocol.Message, bool) {
			other := protocol.NewConnectRequest(protocol.Solana, "")
			b.Publish(t.Context(), protocol.NewConnected(other, protocol.Solana, "stranger"))
			b.Publish(t.Context(), protocol.NewConnected(req, protocol.Ethereum, "wrong-family"))
			return protocol.NewConnected(req, protocol.Solana, "Abc123"), true
		})

		account, err := New(protocol.Solana, b).Connect(t.Context())

		require.NoError(t, err)
		assert.Equal(t, "Abc123", account)
	})

	t.Run("pairs concurrent calls with their own responses", func(t *testing.T) {
		b := newBus(t)
		responder(t, b, func(req protocol.Message) (protocol.Message, bool) {
			return protocol.NewConnected(req, protocol.Starknet, "acct-"+req.ID), true
		})

		a := New(protocol.Starknet, b)

		var wg sync.WaitGroup
		for range 5 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				account, err := a.Connect(t.Context())
				assert.NoError(t, err)
				assert.Contains(t, account, "acct-")
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, b.Subscribers())
	})

	t.Run("returns the context error when canceled", func(t *testing.T) {
		b := newBus(t)
		ctx, cancel := context.WithCancel(t.Context())
		time.AfterFunc(10*time.Millisecond, cancel)

		_, err := New(protocol.Ethereum, b).Connect(ctx)

		assert.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, ErrTimeout)
		assert.Equal(t, 0, b.Subscribers())
	})

	t.Run("fails before the relay is ready", func(t *testing.T) {
		b := newBus(t)

		_, err := New(protocol.Solana, b, WithReadiness(readyFlag(false))).Connect(t.Context())

		assert.ErrorIs(t, err, ErrNotReady)
		assert.Equal(t, 0, b.Subscribers())
	})

	t.Run("fails when the bus closes", func(t *testing.T) {
		b := bus.NewMemory()
		time.AfterFunc(10*time.Millisecond, func() { b.Close() })

		_, err := New(protocol.Solana, b).Connect(t.Context())

		assert.ErrorIs(t, err, ErrClosed)
	})
}

func TestAdapter_SignTransaction(t *testing.T) {
	t.Run("resolves with the transaction hash", func(t *testing.T) {
		b := newBus(t)
		responder(t, b, func(req protocol.Message) (protocol.Message, bool) {
			assert.Equal(t, "0x02f8", req.Transaction)
			return protocol.NewSigned(req, protocol.Ethereum, "0xhash"), true
		})

		result, err := New(protocol.Ethereum, b).SignTransaction(t.Context(), "0x02f8")

		require.NoError(t, err)
		assert.Equal(t, SignResult{Signature: "0xhash"}, result)
	})

	t.Run("resolves with the solana signature", func(t *testing.T) {
		b := newBus(t)
		responder(t, b, func(req protocol.Message) (protocol.Message, bool) {
			return protocol.NewSigned(req, protocol.Solana, "5sig"), true
		})

		result, err := New(protocol.Solana, b).SignTransaction(t.Context(), "AQID")

		require.NoError(t, err)
		assert.Equal(t, "5sig", result.Signature)
	})

	t.Run("rejects with the carried message", func(t *testing.T) {
		b := newBus(t)
		responder(t, b, func(req protocol.Message) (protocol.Message, bool) {
			route, _ := req.Route()
			return protocol.NewFailure(req, route, "User rejected the request."), true
		})

		result, err := New(protocol.Starknet, b).SignTransaction(t.Context(), "{}")

		assert.EqualError(t, err, "User rejected the request.")
		assert.Empty(t, result)
	})

	t.Run("reports the failure as a result when configured", func(t *testing.T) {
		b := newBus(t)
		responder(t, b, func(req protocol.Message) (protocol.Message, bool) {
			route, _ := req.Route()
			return protocol.NewFailure(req, route, "User rejected the request."), true
		})

		result, err := New(protocol.Starknet, b, WithSignErrorsAsResult()).SignTransaction(t.Context(), "{}")

		require.NoError(t, err)
		assert.Equal(t, SignResult{Error: "User rejected the request."}, result)
	})

	t.Run("times out and removes its listener", func(t *testing.T) {
		b := newBus(t)

		_, err := New(protocol.Ethereum, b, WithSignTimeout(20*time.Millisecond), WithSignErrorsAsResult()).
			SignTransaction(t.Context(), "0x02f8")

		assert.ErrorIs(t, err, ErrTimeout)
		assert.EqualError(t, err, "transaction signing timed out")
		assert.Equal(t, 0, b.Subscribers())
	})

	t.Run("rejects an empty transaction", func(t *testing.T) {
		b := newBus(t)

		_, err := New(protocol.Solana, b).SignTransaction(t.Context(), "")

		assert.Error(t, err)
		assert.Equal(t, 0, b.Subscribers())
	})
}

func TestAdapter_ConfirmTransaction(t *testing.T) {
	b := newBus(t)
	a := New(protocol.Solana, b)

	for _, sig := range []string{"", "5sig", "0xhash"} {
		assert.NoError(t, a.ConfirmTransaction(t.Context(), sig))
	}
	assert.Equal(t, 0, b.Subscribers())
}

func TestAdapter_Metrics(t *testing.T) {
	t.Run("counts outcomes per family and kind", func(t *testing.T) {
		reader := sdkmetric.NewManualReader()
		mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

		b := newBus(t)
		responder(t, b, func(req protocol.Message) (protocol.Message, bool) {
			if req.Transaction == "bad" {
				route, _ := req.Route()
				return protocol.NewFailure(req, route, "nope"), true
			}
			return protocol.NewSigned(req, protocol.Solana, "5sig"), true
		})

		a := New(protocol.Solana, b, WithMeterProvider(mp), WithSignTimeout(time.Second))
		_, err := a.SignTransaction(t.Context(), "AQID")
		require.NoError(t, err)
		_, err = a.SignTransaction(t.Context(), "bad")
		require.Error(t, err)

		var rm metricdata.ResourceMetrics
		require.NoError(t, reader.Collect(t.Context(), &rm))

		require.Len(t, rm.ScopeMetrics, 1)
		require.Len(t, rm.ScopeMetrics[0].Metrics, 1)

		m := rm.ScopeMetrics[0].Metrics[0]
		assert.Equal(t, "blinkrelay.adapter.requests", m.Name)

		sum, ok := m.Data.(metricdata.Sum[int64])
		require.True(t, ok)

		outcomes := map[string]int64{}
		for _, dp := range sum.DataPoints {
			v, _ := dp.Attributes.Value("outcome")
			outcomes[v.AsString()] += dp.Value
		}
		assert.Equal(t, map[string]int64{"success": 1, "error": 1}, outcomes)
	})

	t.Run("classifies errors", func(t *testing.T) {
		assert.Equal(t, "success", outcomeOf(nil))
		assert.Equal(t, "timeout", outcomeOf(timeoutError{kind: protocol.KindSign}))
		assert.Equal(t, "not_ready", outcomeOf(ErrNotReady))
		assert.Equal(t, "canceled", outcomeOf(context.Canceled))
		assert.Equal(t, "error", outcomeOf(errors.New("boom")))
	})
}
