package adapter

import (
	"context"
	"errors"
	"time"

	"github.com/gabapcia/blinkrelay/internal/pkg/transport/bus"
	"github.com/gabapcia/blinkrelay/internal/pkg/x/chflow"
	"github.com/gabapcia/blinkrelay/internal/protocol"
)

// roundTrip publishes req and waits for the response carrying its id. The
// listener is registered before publishing and removed, together with the
// deadline timer, before roundTrip returns, whatever the outcome.
//
// A failure response yields a *RemoteError. The deadline yields an error
// matching ErrTimeout; cancellation of ctx yields ctx.Err().
func roundTrip(ctx context.Context, b bus.Bus, req protocol.Message, timeout time.Duration) (protocol.Message, error) {
	route, ok := req.Route()
	if !ok || route.Outcome != protocol.OutcomeRequest {
		return protocol.Message{}, protocol.ErrUnknownType
	}

	sub, err := b.Subscribe(ctx)
	if err != nil {
		return protocol.Message{}, err
	}
	defer sub.Close()

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	expired := func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if errors.Is(waitCtx.Err(), context.DeadlineExceeded) {
			return timeoutError{kind: route.Kind}
		}
		return nil
	}

	if err := b.Publish(waitCtx, req); err != nil {
		if e := expired(); e != nil {
			return protocol.Message{}, e
		}
		return protocol.Message{}, err
	}

	success := protocol.SuccessType(route.Kind, route.Family)
	failure := protocol.ErrorType(route.Kind, route.Family)

	resp, ok := chflow.ReceiveMatch(waitCtx, sub.C(), func(m protocol.Message) bool {
		return m.ID == req.ID && (m.Type == success || m.Type == failure)
	})
	if !ok {
		if e := expired(); e != nil {
			return protocol.Message{}, e
		}
		return protocol.Message{}, ErrClosed
	}

	if resp.Type == failure {
		return resp, &RemoteError{Message: resp.Error}
	}

	return resp, nil
}
