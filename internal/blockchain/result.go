package blockchain

import "github.com/gabapcia/ledgertest/internal/values"

// Status is the outcome of a script or transaction execution.
type Status int

const (
	// StatusUnknown is the zero status, carried by the empty result
	// sentinel.
	StatusUnknown Status = iota

	// StatusSucceeded marks a successful execution.
	StatusSucceeded

	// StatusFailed marks an execution that errored or panicked.
	StatusFailed
)

// String renders the status for logs and CLI output.
func (s Status) String() string {
	switch s {
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ScriptResult is the outcome of a script execution. It holds exactly one of
// a success with an optional return value, or a failure with a non-nil
// error; the constructors enforce this.
type ScriptResult struct {
	Status Status
	Value  values.Value
	Err    error
}

// NewSucceededScriptResult builds a successful result carrying the script's
// return value, which may be nil.
func NewSucceededScriptResult(v values.Value) ScriptResult {
	return ScriptResult{Status: StatusSucceeded, Value: v}
}

// NewFailedScriptResult builds a failed result carrying the captured
// execution error.
func NewFailedScriptResult(err error) ScriptResult {
	return ScriptResult{Status: StatusFailed, Err: err}
}

// Succeeded reports whether the script execution succeeded.
func (r ScriptResult) Succeeded() bool {
	return r.Status == StatusSucceeded
}

// TransactionResult is the outcome of a transaction execution. It holds
// exactly one of a success or a failure with a non-nil error.
type TransactionResult struct {
	TxID   string
	Status Status
	Err    error
}

// NewSucceededTransactionResult builds a successful result for the given
// transaction ID.
func NewSucceededTransactionResult(txID string) TransactionResult {
	return TransactionResult{TxID: txID, Status: StatusSucceeded}
}

// NewFailedTransactionResult builds a failed result carrying the captured
// execution error.
func NewFailedTransactionResult(txID string, err error) TransactionResult {
	return TransactionResult{TxID: txID, Status: StatusFailed, Err: err}
}

// Succeeded reports whether the transaction execution succeeded.
func (r TransactionResult) Succeeded() bool {
	return r.Status == StatusSucceeded
}

// IsEmpty reports whether the result is the empty sentinel returned by
// ExecuteNextTransaction when the pending block holds no unexecuted
// transaction.
func (r TransactionResult) IsEmpty() bool {
	return r.Status == StatusUnknown
}
