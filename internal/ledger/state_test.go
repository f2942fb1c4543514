package ledger

import (
	"testing"

	"github.com/gabapcia/ledgertest/internal/values"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_CreateAccount(t *testing.T) {
	t.Run("assigns sequential addresses starting at 0x01", func(t *testing.T) {
		state := NewState()

		first := state.CreateAccount("key-1")
		second := state.CreateAccount("key-2")

		assert.Equal(t, "0x01", first.Address)
		assert.Equal(t, "0x02", second.Address)
		assert.Equal(t, 2, state.Accounts())
	})

	t.Run("created accounts are retrievable", func(t *testing.T) {
		state := NewState()
		created := state.CreateAccount("key-1")

		got, ok := state.Account(created.Address)
		require.True(t, ok)
		assert.Equal(t, created, got)
	})

	t.Run("unknown address is not found", func(t *testing.T) {
		state := NewState()
		_, ok := state.Account("0xff")
		assert.False(t, ok)
	})
}

func TestState_Contracts(t *testing.T) {
	t.Run("stores a contract under its owner namespace", func(t *testing.T) {
		state := NewState()
		owner := state.CreateAccount("key-1")

		contract := Contract{Name: "Counter", Code: "contract Counter {}", Owner: owner.Address}
		state.SetContract(contract)

		got, ok := state.Contract(owner.Address, "Counter")
		require.True(t, ok)
		assert.Equal(t, contract, got)
	})

	t.Run("redeploying under the same name replaces the contract", func(t *testing.T) {
		state := NewState()
		owner := state.CreateAccount("key-1")

		state.SetContract(Contract{Name: "Counter", Code: "v1", Owner: owner.Address})
		state.SetContract(Contract{Name: "Counter", Code: "v2", Owner: owner.Address})

		got, ok := state.Contract(owner.Address, "Counter")
		require.True(t, ok)
		assert.Equal(t, "v2", got.Code)
	})

	t.Run("same name under a different owner is a different contract", func(t *testing.T) {
		state := NewState()
		a := state.CreateAccount("key-1")
		b := state.CreateAccount("key-2")

		state.SetContract(Contract{Name: "Counter", Code: "a", Owner: a.Address})

		_, ok := state.Contract(b.Address, "Counter")
		assert.False(t, ok)
	})
}

func TestState_Storage(t *testing.T) {
	t.Run("reads back a stored value", func(t *testing.T) {
		state := NewState()
		state.StorageSet("0x01", "count", values.NewInt64(3))

		got, ok := state.StorageGet("0x01", "count")
		require.True(t, ok)
		assert.True(t, values.NewInt64(3).Equal(got))
	})

	t.Run("missing key is not found", func(t *testing.T) {
		state := NewState()
		_, ok := state.StorageGet("0x01", "missing")
		assert.False(t, ok)
	})
}

func TestState_Clone(t *testing.T) {
	t.Run("mutating the clone does not affect the original", func(t *testing.T) {
		state := NewState()
		owner := state.CreateAccount("key-1")
		state.SetContract(Contract{Name: "Counter", Code: "v1", Owner: owner.Address})
		state.StorageSet(owner.Address, "count", values.NewInt64(1))

		clone := state.Clone()
		clone.CreateAccount("key-2")
		clone.SetContract(Contract{Name: "Counter", Code: "v2", Owner: owner.Address})
		clone.StorageSet(owner.Address, "count", values.NewInt64(99))

		assert.Equal(t, 1, state.Accounts())

		contract, ok := state.Contract(owner.Address, "Counter")
		require.True(t, ok)
		assert.Equal(t, "v1", contract.Code)

		v, ok := state.StorageGet(owner.Address, "count")
		require.True(t, ok)
		assert.True(t, values.NewInt64(1).Equal(v))
	})

	t.Run("clone continues the address sequence", func(t *testing.T) {
		state := NewState()
		state.CreateAccount("key-1")

		clone := state.Clone()
		account := clone.CreateAccount("key-2")
		assert.Equal(t, "0x02", account.Address)
	})
}

func TestEncodeDecodeState(t *testing.T) {
	t.Run("round-trips accounts, contracts and storage", func(t *testing.T) {
		state := NewState()
		owner := state.CreateAccount("key-1")
		state.SetContract(Contract{Name: "Counter", Code: "contract Counter {}", Owner: owner.Address})
		state.StorageSet(owner.Address, "count", values.NewInt64(7))
		state.StorageSet(owner.Address, "tags", values.NewArray(values.NewString("a")))

		data, err := EncodeState(state)
		require.NoError(t, err)

		decoded, err := DecodeState(data)
		require.NoError(t, err)

		got, ok := decoded.Account(owner.Address)
		require.True(t, ok)
		assert.Equal(t, owner, got)

		contract, ok := decoded.Contract(owner.Address, "Counter")
		require.True(t, ok)
		assert.Equal(t, "contract Counter {}", contract.Code)

		count, ok := decoded.StorageGet(owner.Address, "count")
		require.True(t, ok)
		assert.True(t, values.NewInt64(7).Equal(count))

		next := decoded.CreateAccount("key-2")
		assert.Equal(t, "0x02", next.Address)
	})
}
