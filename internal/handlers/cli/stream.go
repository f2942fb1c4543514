package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gabapcia/ledgertest/internal/eventstream"

	"github.com/urfave/cli/v3"
)

// streamEventsCommand returns a CLI command that follows the event journal,
// printing every newly emitted event as it is observed.
//
// Usage example:
//
//	ledgertest stream
//
// The process runs indefinitely until it receives an interrupt (SIGINT or SIGTERM).
func streamEventsCommand(es eventstream.Service) *cli.Command {
	return &cli.Command{
		Name:        "stream",
		Description: "Follow newly emitted events as they are observed.",
		Usage:       "Polls the chain and prints new events. Terminates gracefully on Ctrl+C or termination signals.",
		Action: func(ctx context.Context, c *cli.Command) error {
			quit := make(chan os.Signal, 1)
			defer close(quit)

			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			events, err := es.Start(ctx)
			if err != nil {
				return err
			}
			defer es.Close()

			for {
				select {
				case <-quit:
					return nil
				case <-ctx.Done():
					return ctx.Err()
				case event, ok := <-events:
					if !ok {
						return nil
					}
					printEvent(c, event)
				}
			}
		},
	}
}
