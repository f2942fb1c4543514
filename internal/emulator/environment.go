package emulator

import (
	"time"

	"github.com/gabapcia/ledgertest/internal/ledger"
	"github.com/gabapcia/ledgertest/internal/values"
)

// environment implements Environment over a ledger state. Writes go to
// whatever state it wraps (a discardable clone during execution), emitted
// events buffer locally until the backend decides to keep them, and log
// lines stream straight into the backend's aggregate.
type environment struct {
	state  *ledger.State
	height uint64
	txID   string
	now    time.Time

	events []ledger.Event // buffered; applied by the backend on success
	logs   *[]string      // backend log aggregate, appended to directly
}

var _ Environment = (*environment)(nil)

func (e *environment) Account(address string) (ledger.Account, bool) {
	return e.state.Account(address)
}

func (e *environment) ContractCode(owner, name string) (string, bool) {
	contract, ok := e.state.Contract(owner, name)
	if !ok {
		return "", false
	}
	return contract.Code, true
}

func (e *environment) Get(address, key string) (values.Value, bool) {
	return e.state.StorageGet(address, key)
}

func (e *environment) Set(address, key string, v values.Value) {
	e.state.StorageSet(address, key, v)
}

func (e *environment) Emit(eventType string, fields map[string]values.Value) {
	e.events = append(e.events, ledger.Event{
		Type:   eventType,
		Height: e.height,
		TxID:   e.txID,
		Fields: fields,
	})
}

func (e *environment) Log(message string) {
	*e.logs = append(*e.logs, message)
}

func (e *environment) Now() time.Time {
	return e.now
}

func (e *environment) Height() uint64 {
	return e.height
}
