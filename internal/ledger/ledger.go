// Package ledger holds the state model of an emulated chain: accounts,
// deployed contracts, per-account key/value storage, and the block, event
// and log records produced while executing against it.
package ledger

import (
	"time"

	"github.com/gabapcia/ledgertest/internal/values"
)

// Account is an account on the emulated chain. Accounts are created by the
// backend and funded by the implicit service account.
type Account struct {
	// Address is the "0x"-prefixed hexadecimal account address.
	Address string `json:"address" validate:"required"`

	// PublicKey is the account public key, opaque to the harness.
	PublicKey string `json:"publicKey" validate:"required"`
}

// Contract is a named contract deployed under an account's namespace.
type Contract struct {
	Name  string `json:"name" validate:"required"`
	Code  string `json:"code" validate:"required"`
	Owner string `json:"owner" validate:"required"` // address of the deploying account
}

// Block is a committed block.
type Block struct {
	Height    uint64    // sequential height, genesis is 0
	Hash      string    // unique block identifier
	Timestamp time.Time // simulated clock reading at commit time
	TxIDs     []string  // IDs of the transactions included, in execution order
}

// Event is an event emitted during script, transaction or contract code
// execution.
type Event struct {
	Type   string                  // declared event type, e.g. "Mint"
	Height uint64                  // height of the pending block at emission time
	TxID   string                  // ID of the emitting transaction, empty otherwise
	Fields map[string]values.Value // event payload
}
