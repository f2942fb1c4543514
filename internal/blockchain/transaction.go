package blockchain

import (
	"github.com/gabapcia/ledgertest/internal/ledger"
	"github.com/gabapcia/ledgertest/internal/pkg/validation"
	"github.com/gabapcia/ledgertest/internal/values"
)

// Transaction is a state-mutating program submitted to a pending block.
//
// Authorizers are the addresses bound to the entry point's authorized
// account parameters; their count must match the count the entry point
// declares, or execution fails. Signers are the accounts signing the
// submission.
type Transaction struct {
	Code        string `validate:"required"`
	Authorizers []string
	Signers     []ledger.Account
	Arguments   []values.Value
}

// Validate checks the structural validity of the transaction before
// submission.
func (tx Transaction) Validate() error {
	return validation.Validate(tx)
}

// Configuration maps import-location placeholders in source code to concrete
// account addresses. Applying a configuration replaces the previous table
// entirely: the last write wins.
type Configuration struct {
	Addresses map[string]string `validate:"required"`
}

// Validate checks the structural validity of the configuration.
func (c Configuration) Validate() error {
	return validation.Validate(c)
}
