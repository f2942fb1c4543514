package blockchain

import (
	"context"
	"errors"
	"time"

	"github.com/gabapcia/ledgertest/internal/ledger"
	"github.com/gabapcia/ledgertest/internal/pkg/logger"
	"github.com/gabapcia/ledgertest/internal/values"
)

// ErrPendingTransactions is returned by CommitBlock when the pending block
// still holds transactions that have not been executed.
var ErrPendingTransactions = errors.New("pending block holds unexecuted transactions")

// Blockchain is the façade test code drives. It owns its Backend exclusively
// and forwards every operation to it, layering input validation and the
// transaction convenience compositions on top.
type Blockchain struct {
	backend Backend
}

// New wraps the given backend in a Blockchain façade.
func New(backend Backend) *Blockchain {
	return &Blockchain{
		backend: backend,
	}
}

// ExecuteScript runs a read-only script against the current committed state.
func (b *Blockchain) ExecuteScript(ctx context.Context, code string, args []values.Value) (ScriptResult, error) {
	return b.backend.ExecuteScript(ctx, code, args)
}

// CreateAccount adds a new account funded by the implicit service account.
func (b *Blockchain) CreateAccount(ctx context.Context) (ledger.Account, error) {
	return b.backend.CreateAccount(ctx)
}

// AddTransaction validates tx and enqueues it into the pending block without
// executing it.
func (b *Blockchain) AddTransaction(ctx context.Context, tx Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	return b.backend.AddTransaction(ctx, tx)
}

// ExecuteNextTransaction executes the oldest unexecuted transaction of the
// pending block. The returned result is empty (IsEmpty reports true) when
// there is nothing left to execute.
func (b *Blockchain) ExecuteNextTransaction(ctx context.Context) (TransactionResult, error) {
	return b.backend.ExecuteNextTransaction(ctx)
}

// CommitBlock finalizes the pending block. It fails with
// ErrPendingTransactions while any enqueued transaction is unexecuted.
func (b *Blockchain) CommitBlock(ctx context.Context) (ledger.Block, error) {
	return b.backend.CommitBlock(ctx)
}

// ExecuteTransaction submits and executes tx in its own block: it composes
// AddTransaction, ExecuteNextTransaction and CommitBlock in that exact
// order.
func (b *Blockchain) ExecuteTransaction(ctx context.Context, tx Transaction) (TransactionResult, error) {
	if err := b.AddTransaction(ctx, tx); err != nil {
		return TransactionResult{}, err
	}

	result, err := b.ExecuteNextTransaction(ctx)
	if err != nil {
		return TransactionResult{}, err
	}

	if _, err := b.CommitBlock(ctx); err != nil {
		return TransactionResult{}, err
	}

	return result, nil
}

// ExecuteTransactions submits the batch into a single block, executes every
// transaction in FIFO order, and commits once at the end. Results are
// returned in execution order.
func (b *Blockchain) ExecuteTransactions(ctx context.Context, txs []Transaction) ([]TransactionResult, error) {
	for _, tx := range txs {
		if err := b.AddTransaction(ctx, tx); err != nil {
			return nil, err
		}
	}

	results := make([]TransactionResult, 0, len(txs))
	for range txs {
		result, err := b.ExecuteNextTransaction(ctx)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	if _, err := b.CommitBlock(ctx); err != nil {
		return nil, err
	}

	return results, nil
}

// DeployContract validates the deployment and deploys the named contract
// under the account's namespace.
func (b *Blockchain) DeployContract(ctx context.Context, name, code string, account ledger.Account, args []values.Value) error {
	deployment := ledger.Contract{
		Name:  name,
		Code:  code,
		Owner: account.Address,
	}
	if err := validateDeployment(deployment, account); err != nil {
		return err
	}

	logger.Debug(ctx, "deploying contract",
		"contract.name", name,
		"contract.owner", account.Address,
	)
	return b.backend.DeployContract(ctx, name, code, account, args)
}

// UseConfiguration validates cfg and replaces the backend's import-location
// resolution table with it.
func (b *Blockchain) UseConfiguration(ctx context.Context, cfg Configuration) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	return b.backend.UseConfiguration(ctx, cfg)
}

// Logs returns every log line emitted since backend creation, in order.
func (b *Blockchain) Logs(ctx context.Context) ([]string, error) {
	return b.backend.Logs(ctx)
}

// Events returns every event emitted since backend creation, in order.
func (b *Blockchain) Events(ctx context.Context) ([]ledger.Event, error) {
	return b.backend.Events(ctx)
}

// EventsOfType returns the order-preserved subsequence of Events with the
// given declared type.
func (b *Blockchain) EventsOfType(ctx context.Context, eventType string) ([]ledger.Event, error) {
	return b.backend.EventsOfType(ctx, eventType)
}

// Reset rewinds the backend to the state committed at the given height,
// discarding any pending block.
func (b *Blockchain) Reset(ctx context.Context, height uint64) error {
	return b.backend.Reset(ctx, height)
}

// MoveTime shifts the backend's simulated clock by delta, which may be
// negative.
func (b *Blockchain) MoveTime(ctx context.Context, delta time.Duration) error {
	return b.backend.MoveTime(ctx, delta)
}
