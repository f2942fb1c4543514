package ledger

import (
	"fmt"
	"maps"

	"github.com/gabapcia/ledgertest/internal/pkg/types"
	"github.com/gabapcia/ledgertest/internal/values"
)

// State is the mutable chain state of an emulated ledger: accounts, deployed
// contracts and per-account key/value storage. It is the unit of snapshotting:
// the backend clones it when committing blocks and restores a clone on reset.
//
// State is not safe for concurrent use; the backend serializes access.
type State struct {
	accounts    map[string]Account
	contracts   map[string]map[string]Contract // address → contract name → contract
	storage     types.DefaultMap[string, map[string]values.Value]
	nextAddress uint64
}

// NewState returns an empty chain state. The first created account receives
// address "0x01".
func NewState() *State {
	return &State{
		accounts:    make(map[string]Account),
		contracts:   make(map[string]map[string]Contract),
		storage:     newStorageMap(),
		nextAddress: 1,
	}
}

func newStorageMap() types.DefaultMap[string, map[string]values.Value] {
	return types.NewDefaultMap[string, map[string]values.Value](func() map[string]values.Value {
		return make(map[string]values.Value)
	})
}

// CreateAccount adds a new account with the next sequential address and the
// given public key, and returns it.
func (s *State) CreateAccount(publicKey string) Account {
	account := Account{
		Address:   fmt.Sprintf("0x%02x", s.nextAddress),
		PublicKey: publicKey,
	}

	s.accounts[account.Address] = account
	s.nextAddress++
	return account
}

// Account returns the account registered under address, if any.
func (s *State) Account(address string) (Account, bool) {
	account, ok := s.accounts[address]
	return account, ok
}

// Accounts returns the number of registered accounts.
func (s *State) Accounts() int {
	return len(s.accounts)
}

// SetContract records a contract under its owner's namespace. Deploying a
// contract with the name of an existing one replaces it.
func (s *State) SetContract(contract Contract) {
	if s.contracts[contract.Owner] == nil {
		s.contracts[contract.Owner] = make(map[string]Contract)
	}
	s.contracts[contract.Owner][contract.Name] = contract
}

// Contract returns the contract deployed under the given owner address and
// name, if any.
func (s *State) Contract(owner, name string) (Contract, bool) {
	contract, ok := s.contracts[owner][name]
	return contract, ok
}

// StorageGet reads the value stored under key in the account's storage.
func (s *State) StorageGet(address, key string) (values.Value, bool) {
	v, ok := s.storage.Get(address)[key]
	return v, ok
}

// StorageSet writes a value under key in the account's storage. Values are
// treated as immutable; callers must not mutate them after storing.
func (s *State) StorageSet(address, key string, v values.Value) {
	s.storage.Get(address)[key] = v
}

// Clone returns a deep copy of the state. Stored values are shared between
// the original and the copy, which is safe because they are immutable.
func (s *State) Clone() *State {
	clone := &State{
		accounts:    maps.Clone(s.accounts),
		contracts:   make(map[string]map[string]Contract, len(s.contracts)),
		storage:     newStorageMap(),
		nextAddress: s.nextAddress,
	}

	for owner, named := range s.contracts {
		clone.contracts[owner] = maps.Clone(named)
	}

	for address, kv := range s.storage.ToMap() {
		clone.storage.Set(address, maps.Clone(kv))
	}

	return clone
}
