package bus

import (
	"context"
	"sync"

	"github.com/gabapcia/blinkrelay/internal/pkg/types"
	"github.com/gabapcia/blinkrelay/internal/protocol"
)

const defaultBufferSize = 32

type memorySubscription struct {
	bus  *Memory
	ch   chan protocol.Message
	done chan struct{}
	once sync.Once
}

var _ Subscription = (*memorySubscription)(nil)

func (s *memorySubscription) C() <-chan protocol.Message {
	return s.ch
}

func (s *memorySubscription) Close() {
	s.bus.unsubscribe(s)
}

// stop releases publishers blocked on this subscriber.
func (s *memorySubscription) stop() {
	s.once.Do(func() { close(s.done) })
}

// Memory is an in-process Bus. Both endpoints can share one instance when
// they run in the same process.
type Memory struct {
	mu         sync.RWMutex
	subs       types.Set[*memorySubscription]
	closed     bool
	done       chan struct{}
	closeOnce  sync.Once
	bufferSize int
}

var _ Bus = (*Memory)(nil)

// MemoryOption configures NewMemory.
type MemoryOption func(*Memory)

// WithBufferSize sets the per-subscriber buffer. Publishers block once a
// subscriber's buffer is full.
func WithBufferSize(n int) MemoryOption {
	return func(m *Memory) {
		if n >= 0 {
			m.bufferSize = n
		}
	}
}

// NewMemory returns an empty in-process bus.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		subs:       types.NewSet[*memorySubscription](),
		done:       make(chan struct{}),
		bufferSize: defaultBufferSize,
	}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

func (m *Memory) Publish(ctx context.Context, msg protocol.Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return ErrClosed
	}

	for sub := range m.subs.ToIter() {
		select {
		case sub.ch <- msg:
		case <-sub.done:
		case <-m.done:
			return ErrClosed
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}

func (m *Memory) Subscribe(ctx context.Context) (Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}

	sub := &memorySubscription{
		bus:  m,
		ch:   make(chan protocol.Message, m.bufferSize),
		done: make(chan struct{}),
	}
	m.subs.Add(sub)

	return sub, nil
}

func (m *Memory) unsubscribe(sub *memorySubscription) {
	sub.stop()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.subs.Has(sub) {
		m.subs.Delete(sub)
		close(sub.ch)
	}
}

// Subscribers returns the number of open subscriptions.
func (m *Memory) Subscribers() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subs)
}

func (m *Memory) Close() error {
	m.closeOnce.Do(func() { close(m.done) })

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true

	for sub := range m.subs.ToIter() {
		sub.stop()
		close(sub.ch)
	}
	m.subs = types.NewSet[*memorySubscription]()

	return nil
}
