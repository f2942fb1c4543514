package cli

import (
	"context"
	"os"

	"github.com/gabapcia/ledgertest/internal/blockchain"
	"github.com/gabapcia/ledgertest/internal/eventstream"

	"github.com/urfave/cli/v3"
)

// Run initializes and executes the ledgertest CLI application.
//
// It registers all available commands, including:
//
//   - `create-account`: Creates a new account on the emulated chain.
//   - `script`: Executes a read-only script against the current state.
//   - `deploy`: Deploys a contract under an account's namespace.
//   - `events`: Prints the event journal, optionally filtered by type.
//   - `logs`: Prints the log journal.
//   - `reset`: Rewinds the chain state to a committed block height.
//   - `move-time`: Shifts the simulated clock by a duration.
//   - `stream`: Follows newly emitted events until interrupted.
//
// Parameters:
//   - ctx: Context used to control the lifecycle of the CLI application.
//   - bc: The blockchain harness all chain commands run against.
//   - es: The eventstream service implementation used by the stream command.
//
// This function sets up shell completion and invokes the CLI framework to parse and run commands.
func Run(ctx context.Context, bc *blockchain.Blockchain, es eventstream.Service) error {
	app := &cli.Command{
		EnableShellCompletion: true,
		Name:                  "ledgertest",
		Description:           "Command-line interface for driving an emulated ledger.",
		Usage:                 "ledgertest [command] [flags]",
		Commands: []*cli.Command{
			createAccountCommand(bc),
			executeScriptCommand(bc),
			deployContractCommand(bc),
			listEventsCommand(bc),
			listLogsCommand(bc),
			resetCommand(bc),
			moveTimeCommand(bc),
			streamEventsCommand(es),
		},
	}

	return app.Run(ctx, os.Args)
}
