package pagerelay

import (
	"context"
	"sync"

	"github.com/gabapcia/blinkrelay/internal/protocol"
)

// session is the connected account of one chain family. It lives as long as
// the relay and is never invalidated: a disconnect inside the wallet is not
// observed.
type session struct {
	mu      sync.Mutex
	address string
}

// ensure returns the connected address, calling connect first when there is
// none. Concurrent callers wait for the same connect.
func (s *session) ensure(ctx context.Context, connect func(context.Context) (string, error)) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.address != "" {
		return s.address, nil
	}

	address, err := connect(ctx)
	if err != nil {
		return "", err
	}

	s.address = address
	return address, nil
}

// replace runs connect unconditionally and stores its result.
func (s *session) replace(ctx context.Context, connect func(context.Context) (string, error)) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	address, err := connect(ctx)
	if err != nil {
		return "", err
	}

	s.address = address
	return address, nil
}

func (s *session) current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.address
}

// state holds every session owned by the relay.
type state struct {
	sessions map[protocol.ChainFamily]*session
}

func newState() *state {
	sessions := make(map[protocol.ChainFamily]*session, len(protocol.Families))
	for _, family := range protocol.Families {
		sessions[family] = &session{}
	}

	return &state{sessions: sessions}
}

func (st *state) session(family protocol.ChainFamily) *session {
	return st.sessions[family]
}
