// Package pagerelay is the wallet side of the relay. It owns the wallet
// drivers, answers connect and sign requests seen on the bus, and announces
// its readiness.
package pagerelay

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gabapcia/blinkrelay/internal/pkg/logger"
	"github.com/gabapcia/blinkrelay/internal/pkg/transport/bus"
	"github.com/gabapcia/blinkrelay/internal/pkg/x/chflow"
	"github.com/gabapcia/blinkrelay/internal/protocol"
	"github.com/gabapcia/blinkrelay/internal/wallet"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/gabapcia/blinkrelay/internal/pagerelay"

// ErrServiceAlreadyStarted is returned if Start is called on a running relay.
var ErrServiceAlreadyStarted = errors.New("service already started")

// Service is the page relay lifecycle.
type Service interface {
	// Start subscribes to the bus, announces readiness and begins answering
	// requests in the background. Returns ErrServiceAlreadyStarted if the
	// relay is running.
	Start(ctx context.Context) error

	// Close stops answering requests and waits for in-flight ones to finish.
	// It is safe to call on a relay that was never started.
	Close()
}

type closeFunc func()

type service struct {
	mu        sync.Mutex
	isStarted bool
	closeFunc closeFunc

	bus      bus.Bus
	drivers  map[protocol.ChainFamily]wallet.Driver
	handlers map[protocol.Type]handler
	state    *state

	announceInterval time.Duration
	tracer           trace.Tracer
}

var _ Service = (*service)(nil)

func (s *service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isStarted {
		return ErrServiceAlreadyStarted
	}

	ctx, cancel := context.WithCancel(ctx)

	sub, err := s.bus.Subscribe(ctx)
	if err != nil {
		cancel()
		return err
	}

	var wg sync.WaitGroup
	s.closeFunc = func() {
		cancel()
		sub.Close()
		wg.Wait()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.listen(ctx, sub, &wg)
	}()

	if err := s.announce(ctx); err != nil {
		s.closeFunc()
		s.closeFunc = nil
		return err
	}

	if s.announceInterval > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.reannounce(ctx)
		}()
	}

	s.isStarted = true
	return nil
}

func (s *service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closeFunc != nil {
		s.closeFunc()
	}

	s.closeFunc = nil
	s.isStarted = false
}

// listen dispatches every request with a registered handler on its own
// goroutine. Other messages, including the relay's own responses, are
// ignored. The subscription is released when ctx ends, with or without Close.
func (s *service) listen(ctx context.Context, sub bus.Subscription, wg *sync.WaitGroup) {
	defer sub.Close()

	for {
		msg, ok := chflow.Receive(ctx, sub.C())
		if !ok {
			return
		}

		h, ok := s.handlers[msg.Type]
		if !ok {
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			s.handle(ctx, h, msg)
		}()
	}
}

// handle runs h and broadcasts its answer. Driver errors become failure
// broadcasts carrying only the error text.
func (s *service) handle(ctx context.Context, h handler, req protocol.Message) {
	route, _ := req.Route()

	ctx, span := s.tracer.Start(ctx, string(req.Type), trace.WithAttributes(
		attribute.String("relay.family", route.Family.String()),
		attribute.String("relay.kind", route.Kind.String()),
		attribute.String("relay.request_id", req.ID),
	))
	defer span.End()

	ctx = logger.Derive(ctx, "type", req.Type, "id", req.ID)

	resp, err := h(ctx, req)
	if err == nil {
		err = resp.Validate()
	}
	if err != nil {
		logger.Warn(ctx, "wallet request failed", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		resp = protocol.NewFailure(req, route, err.Error())
	}

	if err := s.bus.Publish(ctx, resp); err != nil {
		span.RecordError(err)
		if ctx.Err() == nil {
			logger.Error(ctx, "error publishing relay response", "error", err)
		}
		return
	}

	logger.Debug(ctx, "relay response published", "response", resp.Type)
}

// announce broadcasts PAGE_SCRIPT_LOADED, then ETHEREUM_READY when an
// Ethereum provider is configured.
func (s *service) announce(ctx context.Context) error {
	if err := s.bus.Publish(ctx, protocol.NewAnnouncement(protocol.TypePageScriptLoaded)); err != nil {
		return err
	}

	if d, ok := s.drivers[protocol.Ethereum]; ok && d != nil && d.Available() {
		return s.bus.Publish(ctx, protocol.NewAnnouncement(protocol.TypeEthereumReady))
	}

	return nil
}

// reannounce repeats the announcements so adapters started after the relay
// learn that it is ready.
func (s *service) reannounce(ctx context.Context) {
	ticker := time.NewTicker(s.announceInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.announce(ctx); err != nil && ctx.Err() == nil {
				logger.Warn(ctx, "error re-announcing relay readiness", "error", err)
			}
		}
	}
}

// ConnectedAddress returns the cached account of family, or "" before the
// first successful connect.
func (s *service) ConnectedAddress(family protocol.ChainFamily) string {
	sess := s.state.session(family)
	if sess == nil {
		return ""
	}
	return sess.current()
}

type config struct {
	announceInterval time.Duration
	tracerProvider   trace.TracerProvider
}

// Option configures New.
type Option func(*config)

// WithAnnounceInterval re-broadcasts the readiness announcements every d.
// Zero, the default, announces once at Start.
func WithAnnounceInterval(d time.Duration) Option {
	return func(c *config) {
		c.announceInterval = d
	}
}

// WithTracerProvider sets the provider used for request spans. Defaults to
// the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *config) {
		c.tracerProvider = tp
	}
}

// New returns a relay answering on b with drivers. Families without a driver
// get no handlers, so their requests are left for the adapter to time out.
func New(b bus.Bus, drivers map[protocol.ChainFamily]wallet.Driver, opts ...Option) *service {
	cfg := config{
		tracerProvider: otel.GetTracerProvider(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	st := newState()

	return &service{
		bus:              b,
		drivers:          drivers,
		handlers:         buildHandlers(drivers, st),
		state:            st,
		announceInterval: cfg.announceInterval,
		tracer:           cfg.tracerProvider.Tracer(instrumentationName),
	}
}
