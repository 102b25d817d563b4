package adapter

import (
	"errors"

	"github.com/gabapcia/blinkrelay/internal/protocol"
)

var (
	// ErrTimeout matches every error returned when no response arrived before
	// the deadline.
	ErrTimeout = errors.New("timed out")

	// ErrNotReady is returned when the page relay has not announced itself.
	ErrNotReady = errors.New("page relay not ready")

	// ErrClosed is returned when the bus subscription ends before a response.
	ErrClosed = errors.New("relay subscription closed")
)

type timeoutError struct {
	kind protocol.Kind
}

func (e timeoutError) Error() string {
	if e.kind == protocol.KindConnect {
		return "wallet connection timed out"
	}
	return "transaction signing timed out"
}

func (e timeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// RemoteError is a failure reported by the page relay. Only the message
// crosses the bus, so that is all it holds.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}
