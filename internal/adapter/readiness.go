package adapter

import (
	"context"
	"sync"

	"github.com/gabapcia/blinkrelay/internal/pkg/transport/bus"
	"github.com/gabapcia/blinkrelay/internal/pkg/x/chflow"
	"github.com/gabapcia/blinkrelay/internal/protocol"
)

// Readiness tracks the page relay announcements. Repeated announcements are
// harmless.
type Readiness struct {
	mu            sync.RWMutex
	pageReady     bool
	ethereumReady bool

	ready     chan struct{}
	readyOnce sync.Once

	sub  bus.Subscription
	done chan struct{}
}

// WatchReadiness subscribes to b and records announcements until ctx is done
// or Close is called. Either way the subscription is released.
func WatchReadiness(ctx context.Context, b bus.Bus) (*Readiness, error) {
	sub, err := b.Subscribe(ctx)
	if err != nil {
		return nil, err
	}

	r := &Readiness{
		ready: make(chan struct{}),
		sub:   sub,
		done:  make(chan struct{}),
	}

	go r.watch(ctx)

	return r, nil
}

// watch releases the subscription when it returns so an abandoned watcher
// never holds up publishers.
func (r *Readiness) watch(ctx context.Context) {
	defer close(r.done)
	defer r.sub.Close()

	for {
		msg, ok := chflow.Receive(ctx, r.sub.C())
		if !ok {
			return
		}
		r.observe(msg.Type)
	}
}

func (r *Readiness) observe(t protocol.Type) {
	switch t {
	case protocol.TypePageScriptLoaded:
		r.mu.Lock()
		r.pageReady = true
		r.mu.Unlock()
		r.readyOnce.Do(func() { close(r.ready) })
	case protocol.TypeEthereumReady:
		r.mu.Lock()
		r.ethereumReady = true
		r.mu.Unlock()
	}
}

// Ready reports whether PAGE_SCRIPT_LOADED has been seen.
func (r *Readiness) Ready() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pageReady
}

// EthereumReady reports whether ETHEREUM_READY has been seen. It is advisory.
func (r *Readiness) EthereumReady() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ethereumReady
}

// Wait blocks until the relay is ready or ctx is done.
func (r *Readiness) Wait(ctx context.Context) error {
	select {
	case <-r.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops watching and releases the subscription.
func (r *Readiness) Close() {
	r.sub.Close()
	<-r.done
}
