package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gabapcia/blinkrelay/internal/pkg/logger"

	"github.com/urfave/cli/v3"
)

// relayCommand returns a CLI command that runs the page relay, answering
// connect and sign requests with the configured wallets.
//
// Usage example:
//
//	blinkrelay relay
//
// The process runs until it receives an interrupt (SIGINT or SIGTERM).
func relayCommand(deps Dependencies) *cli.Command {
	return &cli.Command{
		Name:        "relay",
		Description: "Runs the wallet side of the relay and announces its readiness on the bus.",
		Usage:       "Answers wallet requests until Ctrl+C or a termination signal.",
		Action: func(ctx context.Context, c *cli.Command) error {
			quit := make(chan os.Signal, 1)
			defer signal.Stop(quit)

			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			if err := deps.Relay.Start(ctx); err != nil {
				return err
			}
			defer deps.Relay.Close()

			logger.Info(ctx, "relay started")

			select {
			case <-quit:
			case <-ctx.Done():
			}

			logger.Info(ctx, "relay stopping")
			return nil
		},
	}
}
