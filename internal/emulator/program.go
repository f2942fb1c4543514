package emulator

import (
	"errors"
	"time"

	"github.com/gabapcia/ledgertest/internal/ledger"
	"github.com/gabapcia/ledgertest/internal/values"
)

var (
	// ErrUnknownProgram is captured into a failed result when no program is
	// registered for the (import-resolved) source of a script, transaction
	// or contract.
	ErrUnknownProgram = errors.New("no program registered for source")

	// ErrAuthorizerCountMismatch is captured into a failed result when a
	// transaction's authorizer count differs from the count its entry point
	// declares.
	ErrAuthorizerCountMismatch = errors.New("authorizer count does not match entry point")
)

// Environment is the capability surface handed to executing programs.
// Scripts receive a read-only view: their writes and events are discarded,
// while log lines always reach the backend's aggregate.
type Environment interface {
	// Account looks up an account by address.
	Account(address string) (ledger.Account, bool)

	// ContractCode returns the code of the named contract deployed under
	// owner, if any.
	ContractCode(owner, name string) (string, bool)

	// Get reads the value stored under key in the account's storage.
	Get(address, key string) (values.Value, bool)

	// Set writes a value under key in the account's storage.
	Set(address, key string, v values.Value)

	// Emit records an event of the given declared type.
	Emit(eventType string, fields map[string]values.Value)

	// Log appends a line to the backend's log aggregate.
	Log(message string)

	// Now returns the backend's simulated clock reading.
	Now() time.Time

	// Height returns the height of the pending block.
	Height() uint64
}

// ScriptFunc is the behavior of a registered script: a read-only program
// returning a value.
type ScriptFunc func(env Environment, args []values.Value) (values.Value, error)

// TransactionFunc is the behavior of a registered transaction entry point.
// signers carries the authorized accounts bound to the entry point's
// parameters, in authorizer order.
type TransactionFunc func(env Environment, signers []ledger.Account, args []values.Value) error

// ContractInitFunc is the behavior run when a registered contract is
// deployed.
type ContractInitFunc func(env Environment, owner ledger.Account, args []values.Value) error

// transactionProgram pairs a transaction entry point with the number of
// authorized account parameters it declares.
type transactionProgram struct {
	authorizers int
	fn          TransactionFunc
}

// registry maps import-resolved source text to executable behavior. The
// in-memory backend has no language runtime; tests register the Go behavior
// that stands in for each piece of source they execute.
type registry struct {
	scripts      map[string]ScriptFunc
	transactions map[string]transactionProgram
	contracts    map[string]ContractInitFunc
}

func newRegistry() *registry {
	return &registry{
		scripts:      make(map[string]ScriptFunc),
		transactions: make(map[string]transactionProgram),
		contracts:    make(map[string]ContractInitFunc),
	}
}
