// Package chflow holds small generic helpers for channel operations that must
// give up when a context is done.
package chflow

import "context"

// Receive waits for a value from ch. The boolean is false when ctx is done
// first or ch is closed; the value is then the zero value.
func Receive[T any](ctx context.Context, ch <-chan T) (T, bool) {
	var data T
	select {
	case <-ctx.Done():
		return data, false
	case data, ok := <-ch:
		return data, ok
	}
}

// ReceiveMatch keeps receiving from ch until match accepts a value. Values it
// rejects are discarded. The boolean is false when ctx is done first or ch is
// closed.
func ReceiveMatch[T any](ctx context.Context, ch <-chan T, match func(T) bool) (T, bool) {
	for {
		data, ok := Receive(ctx, ch)
		if !ok || match(data) {
			return data, ok
		}
	}
}

// Send delivers data on ch unless ctx is done first, in which case it
// returns false.
func Send[T any](ctx context.Context, ch chan<- T, data T) bool {
	select {
	case <-ctx.Done():
		return false
	case ch <- data:
		return true
	}
}
