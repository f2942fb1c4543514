package cli

import (
	"context"
	"fmt"

	"github.com/gabapcia/ledgertest/internal/blockchain"
	"github.com/gabapcia/ledgertest/internal/ledger"

	"github.com/urfave/cli/v3"
)

// createAccountCommand returns a CLI command that creates a new account on
// the emulated chain and prints its address and public key.
//
// Usage example:
//
//	ledgertest create-account
func createAccountCommand(bc *blockchain.Blockchain) *cli.Command {
	return &cli.Command{
		Name:        "create-account",
		Description: "Create a new account funded by the service account.",
		Usage:       "Creates an account and prints its address and public key.",
		Action: func(ctx context.Context, c *cli.Command) error {
			account, err := bc.CreateAccount(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(c.Root().Writer, "address=%s publicKey=%s\n", account.Address, account.PublicKey)
			return nil
		},
	}
}

// printEvent renders a single event in the journal listing format shared by
// the events and stream commands.
func printEvent(c *cli.Command, event ledger.Event) {
	fmt.Fprintf(c.Root().Writer, "height=%d type=%s txId=%s\n", event.Height, event.Type, event.TxID)
	for name, value := range event.Fields {
		fmt.Fprintf(c.Root().Writer, "  %s=%s\n", name, value.String())
	}
}

// listEventsCommand returns a CLI command that prints the accumulated event
// journal, optionally restricted to a single event type.
//
// Usage example:
//
//	ledgertest events --type Mint
func listEventsCommand(bc *blockchain.Blockchain) *cli.Command {
	return &cli.Command{
		Name:        "events",
		Description: "Print the event journal in emission order.",
		Usage:       "Lists all emitted events. Use --type to restrict to a single event type.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "type",
				Usage: "Only print events of this type",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			var (
				events []ledger.Event
				err    error
			)

			if eventType := c.String("type"); eventType != "" {
				events, err = bc.EventsOfType(ctx, eventType)
			} else {
				events, err = bc.Events(ctx)
			}
			if err != nil {
				return err
			}

			for _, event := range events {
				printEvent(c, event)
			}
			return nil
		},
	}
}

// listLogsCommand returns a CLI command that prints the accumulated log
// journal in emission order.
//
// Usage example:
//
//	ledgertest logs
func listLogsCommand(bc *blockchain.Blockchain) *cli.Command {
	return &cli.Command{
		Name:        "logs",
		Description: "Print the log journal in emission order.",
		Usage:       "Lists every log line recorded during script, transaction and contract execution.",
		Action: func(ctx context.Context, c *cli.Command) error {
			logs, err := bc.Logs(ctx)
			if err != nil {
				return err
			}

			for _, line := range logs {
				fmt.Fprintln(c.Root().Writer, line)
			}
			return nil
		},
	}
}

// resetCommand returns a CLI command that rewinds the chain state to a
// previously committed block height.
//
// Usage example:
//
//	ledgertest reset --height 0
func resetCommand(bc *blockchain.Blockchain) *cli.Command {
	return &cli.Command{
		Name:        "reset",
		Description: "Rewind the chain state to a committed block height.",
		Usage:       "Restores the state snapshot of the given height and discards everything after it.",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:     "height",
				Usage:    "Committed block height to rewind to",
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return bc.Reset(ctx, uint64(c.Uint("height")))
		},
	}
}

// moveTimeCommand returns a CLI command that shifts the simulated clock by a
// signed duration.
//
// Usage example:
//
//	ledgertest move-time --by 72h
func moveTimeCommand(bc *blockchain.Blockchain) *cli.Command {
	return &cli.Command{
		Name:        "move-time",
		Description: "Shift the simulated clock by a duration.",
		Usage:       "Moves the emulated clock forward, or backward with a negative duration.",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:     "by",
				Usage:    "Duration to shift the clock by (e.g., 72h, -30m)",
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return bc.MoveTime(ctx, c.Duration("by"))
		},
	}
}
