package cli

import (
	"context"
	"encoding/json"

	"github.com/gabapcia/blinkrelay/internal/action"
	"github.com/gabapcia/blinkrelay/internal/protocol"

	"github.com/urfave/cli/v3"
)

type resolved struct {
	action.Descriptor
	Family  protocol.ChainFamily `json:"family"`
	ChainID string               `json:"chainId,omitempty"`
	Account string               `json:"account,omitempty"`
}

// resolveCommand returns a CLI command that fetches an action descriptor
// and, with --connect, connects the wallet its chain family needs.
//
// Usage example:
//
//	blinkrelay resolve --url https://example.com/api/actions/mint --connect
func resolveCommand(deps Dependencies) *cli.Command {
	return &cli.Command{
		Name:        "resolve",
		Description: "Fetch an action API descriptor and select the matching wallet adapter.",
		Usage:       "Prints the descriptor and its chain family as JSON.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "url",
				Usage:    "Action API URL",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "connect",
				Usage: "Connect the selected wallet",
			},
			&cli.BoolFlag{
				Name:  "wait-ready",
				Usage: "Wait for the relay readiness announcement before connecting",
			},
			&cli.DurationFlag{
				Name:  "ready-timeout",
				Usage: "How long --wait-ready waits",
				Value: defaultReadyTimeout,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			d, err := deps.Resolver.Resolve(ctx, c.String("url"))
			if err != nil {
				return err
			}

			out := resolved{
				Descriptor: d,
				Family:     d.Family(),
				ChainID:    d.ChainID(),
			}

			if c.Bool("connect") {
				err := withRelay(ctx, deps, c, func(ctx context.Context) error {
					a, err := deps.Adapters.Select(d)
					if err != nil {
						return err
					}

					out.Account, err = a.Connect(ctx)
					return err
				})
				if err != nil {
					return err
				}
			}

			return json.NewEncoder(c.Root().Writer).Encode(out)
		},
	}
}
