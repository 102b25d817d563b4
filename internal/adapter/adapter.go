// Package adapter is the client side of the relay. Each Adapter turns
// connect and sign calls into request broadcasts and waits for the page
// relay's correlated answer.
package adapter

import (
	"context"
	"errors"
	"time"

	"github.com/gabapcia/blinkrelay/internal/pkg/logger"
	"github.com/gabapcia/blinkrelay/internal/pkg/transport/bus"
	"github.com/gabapcia/blinkrelay/internal/protocol"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	defaultTimeout       = 60 * time.Second
	solanaConnectTimeout = 30 * time.Second
)

// SignResult is the outcome of SignTransaction. Error is only set when the
// adapter was built WithSignErrorsAsResult.
type SignResult struct {
	Signature string `json:"signature,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Adapter is the wallet capability handed to the action renderer.
type Adapter interface {
	Family() protocol.ChainFamily

	// Connect returns the account the wallet connected with.
	Connect(ctx context.Context) (string, error)

	// SignTransaction has the wallet sign and send tx, serialized the way its
	// family expects, and returns the signature or transaction hash.
	SignTransaction(ctx context.Context, tx string) (SignResult, error)

	// ConfirmTransaction returns immediately. Confirmation is left to the
	// caller.
	ConfirmTransaction(ctx context.Context, signature string) error
}

// ReadinessChecker reports whether the page relay has announced itself.
type ReadinessChecker interface {
	Ready() bool
}

type adapter struct {
	family  protocol.ChainFamily
	bus     bus.Bus
	chainID string

	connectTimeout time.Duration
	signTimeout    time.Duration

	readiness          ReadinessChecker
	signErrorsAsResult bool
	metrics            *metrics
}

var _ Adapter = (*adapter)(nil)

func (a *adapter) Family() protocol.ChainFamily {
	return a.family
}

// chain is the target chain sent with requests. Only Ethereum uses it.
func (a *adapter) chain() string {
	if a.family != protocol.Ethereum {
		return ""
	}
	return a.chainID
}

func (a *adapter) checkReady() error {
	if a.readiness != nil && !a.readiness.Ready() {
		return ErrNotReady
	}
	return nil
}

func (a *adapter) Connect(ctx context.Context) (account string, err error) {
	defer func() { a.metrics.record(ctx, a.family, protocol.KindConnect, err) }()

	if err := a.checkReady(); err != nil {
		return "", err
	}

	req := protocol.NewConnectRequest(a.family, a.chain())
	ctx = logger.Derive(ctx, "family", a.family, "id", req.ID)

	resp, err := roundTrip(ctx, a.bus, req, a.connectTimeout)
	if err != nil {
		logger.Debug(ctx, "wallet connection failed", "error", err)
		return "", err
	}

	return resp.Account, nil
}

func (a *adapter) SignTransaction(ctx context.Context, tx string) (result SignResult, err error) {
	defer func() {
		if result.Error != "" {
			a.metrics.record(ctx, a.family, protocol.KindSign, &RemoteError{Message: result.Error})
			return
		}
		a.metrics.record(ctx, a.family, protocol.KindSign, err)
	}()

	if err := a.checkReady(); err != nil {
		return SignResult{}, err
	}

	req := protocol.NewSignRequest(a.family, a.chain(), tx)
	ctx = logger.Derive(ctx, "family", a.family, "id", req.ID)

	resp, err := roundTrip(ctx, a.bus, req, a.signTimeout)
	if err != nil {
		logger.Debug(ctx, "transaction signing failed", "error", err)

		var remote *RemoteError
		if a.signErrorsAsResult && errors.As(err, &remote) {
			return SignResult{Error: remote.Message}, nil
		}
		return SignResult{}, err
	}

	return SignResult{Signature: resp.Result()}, nil
}

func (a *adapter) ConfirmTransaction(context.Context, string) error {
	return nil
}

type config struct {
	chainID              string
	connectTimeout       time.Duration
	solanaConnectTimeout time.Duration
	signTimeout          time.Duration
	readiness            ReadinessChecker
	signErrorsAsResult   bool
	meterProvider        metric.MeterProvider
}

// Option configures an adapter.
type Option func(*config)

// WithChainID sets the Ethereum chain the wallet must be on. Other families
// ignore it.
func WithChainID(chainID string) Option {
	return func(c *config) {
		c.chainID = chainID
	}
}

// WithConnectTimeout overrides the connect deadline of every family but
// Solana.
func WithConnectTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.connectTimeout = d
		}
	}
}

// WithSolanaConnectTimeout overrides the Solana connect deadline, which
// WithConnectTimeout leaves alone.
func WithSolanaConnectTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.solanaConnectTimeout = d
		}
	}
}

// WithSignTimeout overrides the sign deadline.
func WithSignTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.signTimeout = d
		}
	}
}

// WithReadiness makes calls fail with ErrNotReady until r reports ready.
func WithReadiness(r ReadinessChecker) Option {
	return func(c *config) {
		c.readiness = r
	}
}

// WithSignErrorsAsResult reports relay sign failures as SignResult.Error
// instead of an error.
func WithSignErrorsAsResult() Option {
	return func(c *config) {
		c.signErrorsAsResult = true
	}
}

// WithMeterProvider sets the provider of the outcome counter. Defaults to
// the global provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *config) {
		c.meterProvider = mp
	}
}

func newConfig(family protocol.ChainFamily, opts ...Option) config {
	cfg := config{
		connectTimeout:       defaultTimeout,
		solanaConnectTimeout: solanaConnectTimeout,
		signTimeout:          defaultTimeout,
		meterProvider:        otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if family == protocol.Solana {
		cfg.connectTimeout = cfg.solanaConnectTimeout
	}

	return cfg
}

func newAdapter(family protocol.ChainFamily, b bus.Bus, cfg config, m *metrics) *adapter {
	return &adapter{
		family:             family,
		bus:                b,
		chainID:            cfg.chainID,
		connectTimeout:     cfg.connectTimeout,
		signTimeout:        cfg.signTimeout,
		readiness:          cfg.readiness,
		signErrorsAsResult: cfg.signErrorsAsResult,
		metrics:            m,
	}
}

// New returns the adapter of family on b. Connect waits 30s for Solana and
// 60s otherwise; SignTransaction waits 60s.
func New(family protocol.ChainFamily, b bus.Bus, opts ...Option) *adapter {
	cfg := newConfig(family, opts...)
	return newAdapter(family, b, cfg, newMetrics(cfg.meterProvider))
}
