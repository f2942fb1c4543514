package blockchain

import (
	"os"

	"github.com/gabapcia/ledgertest/internal/ledger"
	"github.com/gabapcia/ledgertest/internal/pkg/validation"
)

// ReadFile loads local source text for use as script, transaction or
// contract code.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// validateDeployment checks the structural validity of a contract deployment
// and its deploying account.
func validateDeployment(contract ledger.Contract, account ledger.Account) error {
	if err := validation.Validate(contract); err != nil {
		return err
	}
	return validation.Validate(account)
}
