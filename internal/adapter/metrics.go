package adapter

import (
	"context"
	"errors"

	"github.com/gabapcia/blinkrelay/internal/protocol"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/gabapcia/blinkrelay/internal/adapter"

const (
	outcomeSuccess  = "success"
	outcomeError    = "error"
	outcomeTimeout  = "timeout"
	outcomeNotReady = "not_ready"
	outcomeCanceled = "canceled"
)

type metrics struct {
	requests metric.Int64Counter
}

func newMetrics(mp metric.MeterProvider) *metrics {
	requests, err := mp.Meter(instrumentationName).Int64Counter("blinkrelay.adapter.requests",
		metric.WithDescription("Wallet requests issued through the relay, by outcome."),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return &metrics{}
	}

	return &metrics{requests: requests}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomeSuccess
	case errors.Is(err, ErrTimeout):
		return outcomeTimeout
	case errors.Is(err, ErrNotReady):
		return outcomeNotReady
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return outcomeCanceled
	default:
		return outcomeError
	}
}

func (m *metrics) record(ctx context.Context, family protocol.ChainFamily, kind protocol.Kind, err error) {
	if m.requests == nil {
		return
	}

	m.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("family", family.String()),
		attribute.String("kind", kind.String()),
		attribute.String("outcome", outcomeOf(err)),
	))
}
