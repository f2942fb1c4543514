// Package blockchain defines the client-facing surface of the harness: the
// Backend capability interface, the entities exchanged with it, and the
// Blockchain façade that test code drives.
//
// Two Backend implementations exist: the in-memory emulator
// (internal/emulator) and a JSON-RPC client for an external emulator process
// (internal/infra/emulator/jsonrpc).
package blockchain

import (
	"context"
	"time"

	"github.com/gabapcia/ledgertest/internal/ledger"
	"github.com/gabapcia/ledgertest/internal/values"
)

// Backend is the capability set of an emulated ledger.
//
// All methods are synchronous and block the caller until the backend
// returns. Implementations are driven sequentially by a single test; they
// are not required to be safe for concurrent use.
//
// Execution failures of scripts and transactions are captured into the
// returned result, not surfaced as Go errors. The error return reports
// harness-level failures only (transport errors, malformed calls).
type Backend interface {
	// ExecuteScript runs a read-only script against the current committed
	// state. It never mutates block state.
	ExecuteScript(ctx context.Context, code string, args []values.Value) (ScriptResult, error)

	// CreateAccount adds a new account, funded by the implicit service
	// account, and returns it.
	CreateAccount(ctx context.Context) (ledger.Account, error)

	// AddTransaction enqueues a transaction into the pending block without
	// executing it.
	AddTransaction(ctx context.Context, tx Transaction) error

	// ExecuteNextTransaction executes the oldest enqueued transaction that
	// has not run yet. When the queue holds no unexecuted transaction it
	// returns the zero TransactionResult, whose IsEmpty method reports true.
	ExecuteNextTransaction(ctx context.Context) (TransactionResult, error)

	// CommitBlock finalizes the pending block and returns it. It fails with
	// ErrPendingTransactions when any enqueued transaction has not been
	// executed, leaving the block pending.
	CommitBlock(ctx context.Context) (ledger.Block, error)

	// DeployContract deploys a named contract under the account's namespace.
	DeployContract(ctx context.Context, name, code string, account ledger.Account, args []values.Value) error

	// UseConfiguration replaces the import-location resolution table used
	// for subsequent script, transaction and contract code. The last applied
	// configuration wins.
	UseConfiguration(ctx context.Context, cfg Configuration) error

	// Logs returns every log line emitted since backend creation, in order.
	Logs(ctx context.Context) ([]string, error)

	// Events returns every event emitted since backend creation, in order.
	Events(ctx context.Context) ([]ledger.Event, error)

	// EventsOfType returns the order-preserved subsequence of Events whose
	// declared type equals eventType.
	EventsOfType(ctx context.Context, eventType string) ([]ledger.Event, error)

	// Reset rewinds the backend to the state committed at the given block
	// height, discarding any pending block.
	Reset(ctx context.Context, height uint64) error

	// MoveTime shifts the backend's simulated clock by delta, which may be
	// negative. Timestamps of already committed blocks are unaffected.
	MoveTime(ctx context.Context, delta time.Duration) error
}
