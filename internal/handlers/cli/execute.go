package cli

import (
	"context"
	"fmt"

	"github.com/gabapcia/ledgertest/internal/blockchain"
	"github.com/gabapcia/ledgertest/internal/ledger"
	"github.com/gabapcia/ledgertest/internal/values"

	"github.com/urfave/cli/v3"
)

// parseArguments converts "Type:value" literals from the command line into
// typed values.
func parseArguments(literals []string) ([]values.Value, error) {
	args := make([]values.Value, 0, len(literals))
	for _, literal := range literals {
		v, err := values.Parse(literal)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", literal, err)
		}
		args = append(args, v)
	}
	return args, nil
}

// executeScriptCommand returns a CLI command that executes a read-only script
// from a source file against the current chain state and prints its return
// value.
//
// Usage example:
//
//	ledgertest script --file ./get_balance.cdc --arg Address:0x02
func executeScriptCommand(bc *blockchain.Blockchain) *cli.Command {
	return &cli.Command{
		Name:        "script",
		Description: "Execute a read-only script against the current chain state.",
		Usage:       "Runs the script in the given file. Arguments are passed as Type:value literals.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Usage:    "Path to the script source file",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:  "arg",
				Usage: "Script argument as a Type:value literal (repeatable)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			code, err := blockchain.ReadFile(c.String("file"))
			if err != nil {
				return err
			}

			args, err := parseArguments(c.StringSlice("arg"))
			if err != nil {
				return err
			}

			result, err := bc.ExecuteScript(ctx, code, args)
			if err != nil {
				return err
			}
			if !result.Succeeded() {
				return fmt.Errorf("script failed: %w", result.Err)
			}

			if result.Value != nil {
				fmt.Fprintln(c.Root().Writer, result.Value.String())
			}
			return nil
		},
	}
}

// deployContractCommand returns a CLI command that deploys a contract from a
// source file under the namespace of an existing account.
//
// Usage example:
//
//	ledgertest deploy --name Counter --file ./counter.cdc --address 0x02 --public-key pk-02
func deployContractCommand(bc *blockchain.Blockchain) *cli.Command {
	return &cli.Command{
		Name:        "deploy",
		Description: "Deploy a named contract under an account's namespace.",
		Usage:       "Deploys the contract in the given file. Must provide name, file and the deploying account.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "name",
				Usage:    "Contract name",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "file",
				Usage:    "Path to the contract source file",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "address",
				Usage:    "Address of the deploying account",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "public-key",
				Usage:    "Public key of the deploying account",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:  "arg",
				Usage: "Initializer argument as a Type:value literal (repeatable)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			code, err := blockchain.ReadFile(c.String("file"))
			if err != nil {
				return err
			}

			args, err := parseArguments(c.StringSlice("arg"))
			if err != nil {
				return err
			}

			account := ledger.Account{
				Address:   c.String("address"),
				PublicKey: c.String("public-key"),
			}

			return bc.DeployContract(ctx, c.String("name"), code, account, args)
		},
	}
}
