// Package jsonrpc implements the blockchain.Backend interface against an
// external emulator process exposing its surface over JSON-RPC 2.0.
//
// Read-only calls are wrapped in the configured retry policy; mutating
// calls are sent exactly once, since the remote emulator does not
// deduplicate submissions.
package jsonrpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gabapcia/ledgertest/internal/blockchain"
	"github.com/gabapcia/ledgertest/internal/ledger"
	"github.com/gabapcia/ledgertest/internal/pkg/resilience/retry"
	"github.com/gabapcia/ledgertest/internal/pkg/transport/jsonrpc"
	"github.com/gabapcia/ledgertest/internal/values"
)

// ErrMalformedResponse indicates the remote emulator returned a payload the
// client cannot interpret.
var ErrMalformedResponse = errors.New("malformed emulator response")

// ExecutionError is a script or transaction execution failure reported by
// the remote emulator, captured into the result.
type ExecutionError struct {
	Message string
}

func (e *ExecutionError) Error() string {
	return e.Message
}

// RPC method names of the emulator surface.
const (
	methodExecuteScript          = "emulator_executeScript"
	methodCreateAccount          = "emulator_createAccount"
	methodAddTransaction         = "emulator_addTransaction"
	methodExecuteNextTransaction = "emulator_executeNextTransaction"
	methodCommitBlock            = "emulator_commitBlock"
	methodDeployContract         = "emulator_deployContract"
	methodUseConfiguration       = "emulator_useConfiguration"
	methodLogs                   = "emulator_logs"
	methodEvents                 = "emulator_events"
	methodEventsOfType           = "emulator_eventsOfType"
	methodReset                  = "emulator_reset"
	methodMoveTime               = "emulator_moveTime"
)

// client implements blockchain.Backend over a JSON-RPC connection.
type client struct {
	conn  jsonrpc.Client
	retry retry.Retry
}

var _ blockchain.Backend = (*client)(nil)

// Option configures the client.
type Option func(*client)

// WithRetry sets the retry policy applied to read-only calls.
// Default: no retries.
func WithRetry(r retry.Retry) Option {
	return func(c *client) {
		c.retry = r
	}
}

// NewClient builds a remote emulator backend over the given JSON-RPC
// connection.
func NewClient(conn jsonrpc.Client, opts ...Option) *client {
	c := &client{
		conn: conn,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// fetchWithRetry performs a read-only call under the retry policy, when one
// is configured.
func (c *client) fetchWithRetry(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	if c.retry == nil {
		return c.conn.Fetch(ctx, method, params...)
	}

	var result json.RawMessage
	err := c.retry.Execute(ctx, func() error {
		var err error
		result, err = c.conn.Fetch(ctx, method, params...)
		return err
	})
	return result, err
}

func (c *client) ExecuteScript(ctx context.Context, code string, args []values.Value) (blockchain.ScriptResult, error) {
	encodedArgs, err := values.EncodeAll(args)
	if err != nil {
		return blockchain.ScriptResult{}, fmt.Errorf("encoding script arguments: %w", err)
	}

	raw, err := c.fetchWithRetry(ctx, methodExecuteScript, code, json.RawMessage(encodedArgs))
	if err != nil {
		return blockchain.ScriptResult{}, err
	}

	var payload scriptResultPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return blockchain.ScriptResult{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return payload.toResult()
}

func (c *client) CreateAccount(ctx context.Context) (ledger.Account, error) {
	raw, err := c.conn.Fetch(ctx, methodCreateAccount)
	if err != nil {
		return ledger.Account{}, err
	}

	var payload accountPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ledger.Account{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return payload.toAccount(), nil
}

func (c *client) AddTransaction(ctx context.Context, tx blockchain.Transaction) error {
	payload, err := newTransactionPayload(tx)
	if err != nil {
		return err
	}

	_, err = c.conn.Fetch(ctx, methodAddTransaction, payload)
	return err
}

func (c *client) ExecuteNextTransaction(ctx context.Context) (blockchain.TransactionResult, error) {
	raw, err := c.conn.Fetch(ctx, methodExecuteNextTransaction)
	if err != nil {
		return blockchain.TransactionResult{}, err
	}

	// a null result is the empty sentinel: nothing left to execute
	if len(raw) == 0 || string(raw) == "null" {
		return blockchain.TransactionResult{}, nil
	}

	var payload transactionResultPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return blockchain.TransactionResult{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return payload.toResult()
}

func (c *client) CommitBlock(ctx context.Context) (ledger.Block, error) {
	raw, err := c.conn.Fetch(ctx, methodCommitBlock)
	if err != nil {
		if errors.Is(err, jsonrpc.ErrProviderReturnedError) {
			return ledger.Block{}, fmt.Errorf("%w: %v", blockchain.ErrPendingTransactions, err)
		}
		return ledger.Block{}, err
	}

	var payload blockPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ledger.Block{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return payload.toBlock()
}

func (c *client) DeployContract(ctx context.Context, name, code string, account ledger.Account, args []values.Value) error {
	encodedArgs, err := values.EncodeAll(args)
	if err != nil {
		return fmt.Errorf("encoding contract arguments: %w", err)
	}

	deployer := accountPayload{
		Address:   account.Address,
		PublicKey: account.PublicKey,
	}

	_, err = c.conn.Fetch(ctx, methodDeployContract, name, code, deployer, json.RawMessage(encodedArgs))
	return err
}

func (c *client) UseConfiguration(ctx context.Context, cfg blockchain.Configuration) error {
	_, err := c.conn.Fetch(ctx, methodUseConfiguration, cfg.Addresses)
	return err
}

func (c *client) Logs(ctx context.Context) ([]string, error) {
	raw, err := c.fetchWithRetry(ctx, methodLogs)
	if err != nil {
		return nil, err
	}

	var logs []string
	if err := json.Unmarshal(raw, &logs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return logs, nil
}

func (c *client) Events(ctx context.Context) ([]ledger.Event, error) {
	return c.fetchEvents(ctx, methodEvents)
}

func (c *client) EventsOfType(ctx context.Context, eventType string) ([]ledger.Event, error) {
	return c.fetchEvents(ctx, methodEventsOfType, eventType)
}

func (c *client) fetchEvents(ctx context.Context, method string, params ...any) ([]ledger.Event, error) {
	raw, err := c.fetchWithRetry(ctx, method, params...)
	if err != nil {
		return nil, err
	}

	var payloads []eventPayload
	if err := json.Unmarshal(raw, &payloads); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	events := make([]ledger.Event, 0, len(payloads))
	for _, payload := range payloads {
		event, err := payload.toEvent()
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

func (c *client) Reset(ctx context.Context, height uint64) error {
	_, err := c.conn.Fetch(ctx, methodReset, heightToHex(height))
	return err
}

func (c *client) MoveTime(ctx context.Context, delta time.Duration) error {
	_, err := c.conn.Fetch(ctx, methodMoveTime, delta.Milliseconds())
	return err
}
