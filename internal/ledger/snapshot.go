package ledger

import (
	"encoding/json"

	"github.com/gabapcia/ledgertest/internal/values"
)

// snapshot is the serialized wire form of a State, used when persisting
// snapshots outside the process (e.g. in Redis). Stored values travel in
// their JSON envelope form.
type snapshot struct {
	Accounts    map[string]Account                    `json:"accounts"`
	Contracts   map[string]map[string]Contract        `json:"contracts"`
	Storage     map[string]map[string]json.RawMessage `json:"storage"`
	NextAddress uint64                                `json:"nextAddress"`
}

// EncodeState serializes a State into its JSON snapshot form.
func EncodeState(s *State) ([]byte, error) {
	snap := snapshot{
		Accounts:    s.accounts,
		Contracts:   s.contracts,
		Storage:     make(map[string]map[string]json.RawMessage, len(s.storage.ToMap())),
		NextAddress: s.nextAddress,
	}

	for address, kv := range s.storage.ToMap() {
		encoded := make(map[string]json.RawMessage, len(kv))
		for key, v := range kv {
			data, err := values.Encode(v)
			if err != nil {
				return nil, err
			}
			encoded[key] = data
		}
		snap.Storage[address] = encoded
	}

	return json.Marshal(snap)
}

// DecodeState parses a JSON snapshot back into a State.
func DecodeState(data []byte) (*State, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}

	state := NewState()
	state.nextAddress = snap.NextAddress

	for address, account := range snap.Accounts {
		state.accounts[address] = account
	}

	for _, named := range snap.Contracts {
		for _, contract := range named {
			state.SetContract(contract)
		}
	}

	for address, kv := range snap.Storage {
		for key, raw := range kv {
			v, err := values.Decode(raw)
			if err != nil {
				return nil, err
			}
			state.StorageSet(address, key, v)
		}
	}

	return state, nil
}
