package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gabapcia/blinkrelay/internal/adapter"
	"github.com/gabapcia/blinkrelay/internal/protocol"

	"github.com/urfave/cli/v3"
)

const defaultReadyTimeout = 10 * time.Second

// target is an adapter.Descriptor built from flags.
type target struct {
	family  protocol.ChainFamily
	chainID string
}

func (t target) Family() protocol.ChainFamily { return t.family }
func (t target) ChainID() string              { return t.chainID }

func chainFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "chain",
			Usage:    "Chain family (ethereum, solana, starknet)",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "chain-id",
			Usage: "Ethereum chain the wallet must be on",
		},
		&cli.BoolFlag{
			Name:  "wait-ready",
			Usage: "Wait for the relay readiness announcement first",
		},
		&cli.DurationFlag{
			Name:  "ready-timeout",
			Usage: "How long --wait-ready waits",
			Value: defaultReadyTimeout,
		},
	}
}

func targetFromFlags(c *cli.Command) (target, error) {
	family, err := protocol.ParseChainFamily(c.String("chain"))
	if err != nil {
		return target{}, err
	}

	return target{family: family, chainID: c.String("chain-id")}, nil
}

// withRelay runs fn once the relay can answer: it starts the embedded relay
// when there is one and, if asked, waits for the readiness announcement.
func withRelay(ctx context.Context, deps Dependencies, c *cli.Command, fn func(ctx context.Context) error) error {
	var readiness *adapter.Readiness
	if c.Bool("wait-ready") {
		r, err := adapter.WatchReadiness(ctx, deps.Bus)
		if err != nil {
			return err
		}
		defer r.Close()

		readiness = r
	}

	if deps.EmbeddedRelay {
		if err := deps.Relay.Start(ctx); err != nil {
			return err
		}
		defer deps.Relay.Close()
	}

	if readiness != nil {
		waitCtx, cancel := context.WithTimeout(ctx, c.Duration("ready-timeout"))
		defer cancel()

		if err := readiness.Wait(waitCtx); err != nil {
			return fmt.Errorf("%w: %w", adapter.ErrNotReady, err)
		}
	}

	return fn(ctx)
}

// connectCommand returns a CLI command that connects a wallet through the
// relay and prints the connected account.
//
// Usage example:
//
//	blinkrelay connect --chain ethereum --chain-id 8453
func connectCommand(deps Dependencies) *cli.Command {
	return &cli.Command{
		Name:        "connect",
		Description: "Connect a wallet of the given chain family through the relay.",
		Usage:       "Prints the connected account.",
		Flags:       chainFlags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			t, err := targetFromFlags(c)
			if err != nil {
				return err
			}

			return withRelay(ctx, deps, c, func(ctx context.Context) error {
				a, err := deps.Adapters.Select(t)
				if err != nil {
					return err
				}

				account, err := a.Connect(ctx)
				if err != nil {
					return err
				}

				_, err = fmt.Fprintln(c.Root().Writer, account)
				return err
			})
		},
	}
}

// signCommand returns a CLI command that has the wallet sign and send a
// serialized transaction.
//
// Usage example:
//
//	blinkrelay sign --chain solana --tx AQAB...
func signCommand(deps Dependencies) *cli.Command {
	flags := append(chainFlags(), &cli.StringFlag{
		Name:     "tx",
		Usage:    "Serialized transaction (hex RLP or JSON for ethereum, base64 for solana, JSON calls for starknet)",
		Required: true,
	})

	return &cli.Command{
		Name:        "sign",
		Description: "Sign and send a transaction with the wallet of the given chain family.",
		Usage:       "Prints the signature or transaction hash as JSON.",
		Flags:       flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			t, err := targetFromFlags(c)
			if err != nil {
				return err
			}

			return withRelay(ctx, deps, c, func(ctx context.Context) error {
				a, err := deps.Adapters.Select(t)
				if err != nil {
					return err
				}

				result, err := a.SignTransaction(ctx, c.String("tx"))
				if err != nil {
					return err
				}

				return json.NewEncoder(c.Root().Writer).Encode(result)
			})
		},
	}
}
