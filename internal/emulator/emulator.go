// Package emulator provides the in-memory Backend implementation of the
// harness: a single-process emulated ledger with a pending-block state
// machine, FIFO transaction execution, event and log aggregation, height
// snapshots and a simulated clock.
//
// The emulator carries no language runtime. Executable behavior is
// registered up front as Go functions keyed by source text (see
// RegisterScript, RegisterTransaction and RegisterContract); executing
// unregistered source yields a failed result.
package emulator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gabapcia/ledgertest/internal/blockchain"
	"github.com/gabapcia/ledgertest/internal/ledger"
	"github.com/gabapcia/ledgertest/internal/pkg/logger"
	"github.com/gabapcia/ledgertest/internal/values"

	"github.com/google/uuid"
)

// backend is the in-memory Backend implementation.
//
// A single mutex serializes all operations: tests drive the backend
// sequentially, but the event stream service may poll it from another
// goroutine.
type backend struct {
	mu sync.Mutex

	state     *ledger.State
	programs  *registry
	cfg       blockchain.Configuration
	snapshots SnapshotStorage

	blocks  []ledger.Block
	pending []pendingTransaction
	cursor  int // count of executed pending transactions

	events []ledger.Event
	logs   []string

	baseTime   time.Time
	timeOffset time.Duration
}

// pendingTransaction is a transaction enqueued into the pending block.
type pendingTransaction struct {
	id     string
	tx     blockchain.Transaction
	result blockchain.TransactionResult
}

var _ blockchain.Backend = (*backend)(nil)

// config holds construction options for the emulator.
type config struct {
	startTime time.Time
	snapshots SnapshotStorage
}

// Option configures the emulator before construction.
type Option func(*config)

// WithStartTime pins the simulated clock's starting point, for deterministic
// block timestamps. Default: the wall clock at construction time.
func WithStartTime(t time.Time) Option {
	return func(c *config) {
		c.startTime = t
	}
}

// WithSnapshotStorage replaces the in-memory snapshot store, e.g. with the
// Redis-backed implementation. Default: process-memory snapshots.
func WithSnapshotStorage(s SnapshotStorage) Option {
	return func(c *config) {
		c.snapshots = s
	}
}

// New constructs an emulator with a fresh ledger holding only the implicit
// service account (address 0x01), and commits the genesis block at height 0.
func New(ctx context.Context, opts ...Option) (*backend, error) {
	cfg := config{
		startTime: time.Now().UTC(),
		snapshots: newMemorySnapshots(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	state := ledger.NewState()
	state.CreateAccount(uuid.NewString()) // service account, 0x01

	b := &backend{
		state:     state,
		programs:  newRegistry(),
		snapshots: cfg.snapshots,
		baseTime:  cfg.startTime,
	}

	genesis := ledger.Block{
		Height:    0,
		Hash:      uuid.NewString(),
		Timestamp: b.now(),
	}
	if err := b.snapshots.SaveSnapshot(ctx, genesis.Height, state); err != nil {
		return nil, fmt.Errorf("saving genesis snapshot: %w", err)
	}

	b.blocks = append(b.blocks, genesis)
	return b, nil
}

// RegisterScript binds the Go behavior standing in for the given script
// source. The source must be in its import-resolved form.
func (b *backend) RegisterScript(source string, fn ScriptFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.programs.scripts[source] = fn
}

// RegisterTransaction binds the Go behavior standing in for the given
// transaction source, declaring how many authorized account parameters the
// entry point takes.
func (b *backend) RegisterTransaction(source string, authorizers int, fn TransactionFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.programs.transactions[source] = transactionProgram{authorizers: authorizers, fn: fn}
}

// RegisterContract binds the initializer run when the given contract source
// is deployed. Contracts without registered initializers deploy with no
// side effects beyond the code record.
func (b *backend) RegisterContract(source string, fn ContractInitFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.programs.contracts[source] = fn
}

// ExecuteScript runs the registered script program for code against a
// disposable clone of the committed state. Writes and events are discarded;
// log lines reach the aggregate. Execution failures, including panics, are
// captured into the result.
func (b *backend) ExecuteScript(_ context.Context, code string, args []values.Value) (blockchain.ScriptResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	resolved := resolveImports(code, b.cfg)
	fn, ok := b.programs.scripts[resolved]
	if !ok {
		return blockchain.NewFailedScriptResult(fmt.Errorf("%w: script", ErrUnknownProgram)), nil
	}

	env := &environment{
		state:  b.state.Clone(),
		height: b.nextHeight(),
		now:    b.now(),
		logs:   &b.logs,
	}

	value, err := runScript(fn, env, args)
	if err != nil {
		return blockchain.NewFailedScriptResult(err), nil
	}
	return blockchain.NewSucceededScriptResult(value), nil
}

// CreateAccount adds a new account to the committed state and returns it.
func (b *backend) CreateAccount(_ context.Context) (ledger.Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.CreateAccount(uuid.NewString()), nil
}

// AddTransaction enqueues tx into the pending block without executing it.
func (b *backend) AddTransaction(_ context.Context, tx blockchain.Transaction) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.pending = append(b.pending, pendingTransaction{
		id: uuid.NewString(),
		tx: tx,
	})
	return nil
}

// ExecuteNextTransaction executes the oldest enqueued transaction that has
// not run yet, in FIFO order. State changes apply atomically: a failed
// transaction leaves the ledger untouched. When every enqueued transaction
// has already executed, the empty result sentinel is returned.
func (b *backend) ExecuteNextTransaction(_ context.Context) (blockchain.TransactionResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cursor >= len(b.pending) {
		return blockchain.TransactionResult{}, nil
	}

	next := &b.pending[b.cursor]
	next.result = b.executeTransaction(next.id, next.tx)
	b.cursor++

	return next.result, nil
}

// executeTransaction runs a single transaction against a clone of the
// current state, applying the clone and the buffered events only on success.
func (b *backend) executeTransaction(txID string, tx blockchain.Transaction) blockchain.TransactionResult {
	resolved := resolveImports(tx.Code, b.cfg)
	program, ok := b.programs.transactions[resolved]
	if !ok {
		return blockchain.NewFailedTransactionResult(txID, fmt.Errorf("%w: transaction", ErrUnknownProgram))
	}

	if len(tx.Authorizers) != program.authorizers {
		err := fmt.Errorf("%w: got %d authorizers, entry point declares %d",
			ErrAuthorizerCountMismatch, len(tx.Authorizers), program.authorizers)
		return blockchain.NewFailedTransactionResult(txID, err)
	}

	signers := make([]ledger.Account, 0, len(tx.Authorizers))
	for _, address := range tx.Authorizers {
		account, ok := b.state.Account(address)
		if !ok {
			err := fmt.Errorf("unknown authorizer account %s", address)
			return blockchain.NewFailedTransactionResult(txID, err)
		}
		signers = append(signers, account)
	}

	env := &environment{
		state:  b.state.Clone(),
		height: b.nextHeight(),
		txID:   txID,
		now:    b.now(),
		logs:   &b.logs,
	}

	if err := runTransaction(program.fn, env, signers, tx.Arguments); err != nil {
		return blockchain.NewFailedTransactionResult(txID, err)
	}

	b.state = env.state
	b.events = append(b.events, env.events...)
	return blockchain.NewSucceededTransactionResult(txID)
}

// CommitBlock finalizes the pending block. It fails while any enqueued
// transaction is unexecuted, leaving the block pending. Committing with an
// empty queue produces an empty block.
func (b *backend) CommitBlock(ctx context.Context) (ledger.Block, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cursor < len(b.pending) {
		return ledger.Block{}, fmt.Errorf("%w: %d of %d executed",
			blockchain.ErrPendingTransactions, b.cursor, len(b.pending))
	}

	block := ledger.Block{
		Height:    b.nextHeight(),
		Hash:      uuid.NewString(),
		Timestamp: b.now(),
		TxIDs:     make([]string, 0, len(b.pending)),
	}
	for _, pending := range b.pending {
		block.TxIDs = append(block.TxIDs, pending.id)
	}

	if err := b.snapshots.SaveSnapshot(ctx, block.Height, b.state); err != nil {
		return ledger.Block{}, fmt.Errorf("saving snapshot at height %d: %w", block.Height, err)
	}

	b.blocks = append(b.blocks, block)
	b.pending = nil
	b.cursor = 0

	logger.Debug(ctx, "block committed",
		"block.height", block.Height,
		"block.transactions", len(block.TxIDs),
	)
	return block, nil
}

// DeployContract records the contract under the account's namespace and runs
// its registered initializer, if any, atomically.
func (b *backend) DeployContract(_ context.Context, name, code string, account ledger.Account, args []values.Value) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.state.Account(account.Address); !ok {
		return fmt.Errorf("unknown deploying account %s", account.Address)
	}

	resolved := resolveImports(code, b.cfg)
	env := &environment{
		state:  b.state.Clone(),
		height: b.nextHeight(),
		now:    b.now(),
		logs:   &b.logs,
	}

	env.state.SetContract(ledger.Contract{
		Name:  name,
		Code:  resolved,
		Owner: account.Address,
	})

	if fn, ok := b.programs.contracts[resolved]; ok {
		if err := runContractInit(fn, env, account, args); err != nil {
			return err
		}
	}

	b.state = env.state
	b.events = append(b.events, env.events...)
	return nil
}

// UseConfiguration replaces the import-location resolution table. The last
// applied configuration wins.
func (b *backend) UseConfiguration(_ context.Context, cfg blockchain.Configuration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cfg = cfg
	return nil
}

// Logs returns a copy of every log line emitted since creation, in order.
func (b *backend) Logs(_ context.Context) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	logs := make([]string, len(b.logs))
	copy(logs, b.logs)
	return logs, nil
}

// Events returns a copy of every event emitted since creation, in order.
func (b *backend) Events(_ context.Context) ([]ledger.Event, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	events := make([]ledger.Event, len(b.events))
	copy(events, b.events)
	return events, nil
}

// EventsOfType returns the order-preserved subsequence of Events whose
// declared type equals eventType.
func (b *backend) EventsOfType(_ context.Context, eventType string) ([]ledger.Event, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var events []ledger.Event
	for _, event := range b.events {
		if event.Type == eventType {
			events = append(events, event)
		}
	}
	return events, nil
}

// Reset rewinds the ledger to the state committed at the given height and
// discards any pending block. Heights above the latest committed block, or
// heights discarded by a previous reset, are unknown.
func (b *backend) Reset(ctx context.Context, height uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	keep := -1
	for i, block := range b.blocks {
		if block.Height == height {
			keep = i
			break
		}
	}
	if keep < 0 {
		return fmt.Errorf("%w: %d", ErrSnapshotNotFound, height)
	}

	state, err := b.snapshots.LoadSnapshot(ctx, height)
	if err != nil {
		return fmt.Errorf("loading snapshot at height %d: %w", height, err)
	}

	b.state = state
	b.blocks = b.blocks[:keep+1]
	b.pending = nil
	b.cursor = 0

	logger.Debug(ctx, "ledger reset", "block.height", height)
	return nil
}

// MoveTime shifts the simulated clock by delta, which may be negative.
// Already committed block timestamps are immutable history; only the clock
// used for future blocks moves.
func (b *backend) MoveTime(_ context.Context, delta time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.timeOffset += delta
	return nil
}

// now returns the simulated clock reading.
func (b *backend) now() time.Time {
	return b.baseTime.Add(b.timeOffset)
}

// nextHeight returns the height the pending block will commit at.
func (b *backend) nextHeight() uint64 {
	return b.blocks[len(b.blocks)-1].Height + 1
}

// runScript invokes a script program, converting panics into errors.
func runScript(fn ScriptFunc, env Environment, args []values.Value) (value values.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("script panicked: %v", r)
		}
	}()
	return fn(env, args)
}

// runTransaction invokes a transaction program, converting panics into
// errors.
func runTransaction(fn TransactionFunc, env Environment, signers []ledger.Account, args []values.Value) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("transaction panicked: %v", r)
		}
	}()
	return fn(env, signers, args)
}

// runContractInit invokes a contract initializer, converting panics into
// errors.
func runContractInit(fn ContractInitFunc, env Environment, owner ledger.Account, args []values.Value) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("contract initializer panicked: %v", r)
		}
	}()
	return fn(env, owner, args)
}
