package cli

import (
	"context"
	"io"

	"github.com/gabapcia/blinkrelay/internal/action"
	"github.com/gabapcia/blinkrelay/internal/adapter"
	"github.com/gabapcia/blinkrelay/internal/pagerelay"
	"github.com/gabapcia/blinkrelay/internal/pkg/transport/bus"

	"github.com/urfave/cli/v3"
)

// Dependencies are the services the commands run against.
type Dependencies struct {
	Bus      bus.Bus
	Relay    pagerelay.Service
	Adapters *adapter.Set
	Resolver action.Resolver

	// EmbeddedRelay starts Relay around connect, sign and resolve. Set it
	// when Bus is in process, since no other relay can answer.
	EmbeddedRelay bool

	// Writer receives command results. Defaults to stdout.
	Writer io.Writer
}

// Run initializes and executes the blinkrelay CLI application.
//
// It registers all available commands, including:
//
//   - `relay`: Runs the wallet side until interrupted.
//   - `connect`: Connects a wallet through the relay and prints the account.
//   - `sign`: Has the wallet sign and send a transaction.
//   - `resolve`: Fetches an action descriptor and picks its adapter.
//
// args is usually os.Args.
func Run(ctx context.Context, deps Dependencies, args []string) error {
	app := &cli.Command{
		EnableShellCompletion: true,
		Name:                  "blinkrelay",
		Description:           "Relays wallet connect and sign requests between action renderers and wallet providers.",
		Usage:                 "blinkrelay [command] [flags]",
		Writer:                deps.Writer,
		Commands: []*cli.Command{
			relayCommand(deps),
			connectCommand(deps),
			signCommand(deps),
			resolveCommand(deps),
		},
	}

	return app.Run(ctx, args)
}
