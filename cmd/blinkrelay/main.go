package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gabapcia/blinkrelay/internal/action"
	"github.com/gabapcia/blinkrelay/internal/adapter"
	"github.com/gabapcia/blinkrelay/internal/config"
	"github.com/gabapcia/blinkrelay/internal/handlers/cli"
	"github.com/gabapcia/blinkrelay/internal/infra/broker/redis"
	"github.com/gabapcia/blinkrelay/internal/infra/wallet/keypair"
	"github.com/gabapcia/blinkrelay/internal/pagerelay"
	"github.com/gabapcia/blinkrelay/internal/pkg/logger"
	"github.com/gabapcia/blinkrelay/internal/pkg/telemetry"
	transporthttp "github.com/gabapcia/blinkrelay/internal/pkg/transport/http"
	"github.com/gabapcia/blinkrelay/internal/pkg/transport/bus"
	"github.com/gabapcia/blinkrelay/internal/pkg/transport/jsonrpc"
	"github.com/gabapcia/blinkrelay/internal/protocol"
	"github.com/gabapcia/blinkrelay/internal/wallet"
	"github.com/gabapcia/blinkrelay/internal/wallet/ethereum"
	"github.com/gabapcia/blinkrelay/internal/wallet/solana"
	"github.com/gabapcia/blinkrelay/internal/wallet/starknet"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) (err error) {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.TelemetryEnabled {
		shutdown, err := telemetry.Init(ctx, cfg.ServiceName)
		if err != nil {
			return fmt.Errorf("init telemetry: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer cancel()

			err = errors.Join(err, shutdown(shutdownCtx))
		}()
	}

	if err := logger.Init(logger.WithLevel(cfg.LogLevel), logger.WithOutput(os.Stderr)); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	b, err := newBus(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	drivers, err := newDrivers(cfg)
	if err != nil {
		return err
	}

	deps := cli.Dependencies{
		Bus:   b,
		Relay: pagerelay.New(b, drivers, pagerelay.WithAnnounceInterval(cfg.AnnounceInterval)),
		Adapters: adapter.NewSet(b,
			adapter.WithChainID(cfg.Ethereum.ChainID),
			adapter.WithConnectTimeout(cfg.Timeouts.Connect),
			adapter.WithSolanaConnectTimeout(cfg.Timeouts.SolanaConnect),
			adapter.WithSignTimeout(cfg.Timeouts.Sign),
		),
		Resolver:      action.NewResolver(transporthttp.NewClient()),
		EmbeddedRelay: cfg.InProcess(),
	}

	return cli.Run(ctx, deps, os.Args)
}

func newBus(ctx context.Context, cfg config.Config) (bus.Bus, error) {
	if cfg.InProcess() {
		return bus.NewMemory(), nil
	}

	client, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Username, cfg.Redis.Password, cfg.Redis.DB,
		redis.WithChannel(cfg.Redis.Channel),
	)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	return client, nil
}

// newDrivers builds a driver for every family. Families without a configured
// provider still get one so their requests fail with a "no provider" error.
func newDrivers(cfg config.Config) (map[protocol.ChainFamily]wallet.Driver, error) {
	var ethereumProvider jsonrpc.Client
	if cfg.Ethereum.ProviderURL != "" {
		ethereumProvider = jsonrpc.NewClient(cfg.Ethereum.ProviderURL)
	}

	var starknetProvider jsonrpc.Client
	if cfg.Starknet.ProviderURL != "" {
		starknetProvider = jsonrpc.NewClient(cfg.Starknet.ProviderURL)
	}

	var solanaProvider solana.Provider
	if cfg.Solana.KeypairPath != "" {
		p, err := keypair.Load(cfg.Solana.KeypairPath)
		if err != nil {
			return nil, err
		}
		solanaProvider = p
	}

	return map[protocol.ChainFamily]wallet.Driver{
		protocol.Ethereum: ethereum.New(ethereumProvider),
		protocol.Solana:   solana.New(solanaProvider),
		protocol.Starknet: starknet.New(starknetProvider),
	}, nil
}
