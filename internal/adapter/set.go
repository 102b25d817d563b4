package adapter

import (
	"fmt"

	"github.com/gabapcia/blinkrelay/internal/pkg/transport/bus"
	"github.com/gabapcia/blinkrelay/internal/protocol"
)

// Descriptor is what the action resolver knows about an action: the chain
// family it targets and, for Ethereum, the chain id.
type Descriptor interface {
	Family() protocol.ChainFamily
	ChainID() string
}

// Set holds one adapter per chain family sharing a bus and options.
type Set struct {
	bus      bus.Bus
	opts     []Option
	metrics  *metrics
	adapters map[protocol.ChainFamily]*adapter
}

// NewSet builds an adapter for every chain family on b.
func NewSet(b bus.Bus, opts ...Option) *Set {
	m := newMetrics(newConfig(protocol.Ethereum, opts...).meterProvider)

	adapters := make(map[protocol.ChainFamily]*adapter, len(protocol.Families))
	for _, family := range protocol.Families {
		adapters[family] = newAdapter(family, b, newConfig(family, opts...), m)
	}

	return &Set{
		bus:      b,
		opts:     opts,
		metrics:  m,
		adapters: adapters,
	}
}

// Get returns the adapter of family.
func (s *Set) Get(family protocol.ChainFamily) (Adapter, bool) {
	a, ok := s.adapters[family]
	return a, ok
}

// Select returns the adapter matching d. An Ethereum descriptor with a chain
// id gets an adapter bound to that chain.
func (s *Set) Select(d Descriptor) (Adapter, error) {
	family := d.Family()

	a, ok := s.adapters[family]
	if !ok {
		return nil, fmt.Errorf("%w: %q", protocol.ErrUnknownChainFamily, family)
	}

	if family == protocol.Ethereum && d.ChainID() != "" && d.ChainID() != a.chainID {
		opts := append(append([]Option{}, s.opts...), WithChainID(d.ChainID()))
		return newAdapter(family, s.bus, newConfig(family, opts...), s.metrics), nil
	}

	return a, nil
}
