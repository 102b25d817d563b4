// Package bus is the broadcast transport shared by the page relay and the
// adapters. Every subscriber sees every published message in publish order;
// pairing requests with responses is left to the callers.
package bus

import (
	"context"
	"errors"

	"github.com/gabapcia/blinkrelay/internal/protocol"
)

// ErrClosed is returned when publishing to or subscribing on a closed bus.
var ErrClosed = errors.New("bus closed")

// Bus broadcasts protocol messages to all current subscribers.
type Bus interface {
	// Publish validates msg and delivers it to every subscriber. It blocks
	// until each subscriber has accepted the message, unsubscribed, or ctx is
	// done.
	Publish(ctx context.Context, msg protocol.Message) error

	// Subscribe registers a listener. Messages published after Subscribe
	// returns are guaranteed to reach it.
	Subscribe(ctx context.Context) (Subscription, error)

	// Close stops delivery and closes every open subscription.
	Close() error
}

// Subscription is a registered listener. C is closed once the subscription is
// closed, either directly or by closing the bus.
type Subscription interface {
	C() <-chan protocol.Message

	// Close unregisters the listener. It is safe to call more than once.
	Close()
}
