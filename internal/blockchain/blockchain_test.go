package blockchain_test

import (
	"testing"
	"time"

	"github.com/gabapcia/ledgertest/internal/blockchain"
	"github.com/gabapcia/ledgertest/internal/emulator"
	"github.com/gabapcia/ledgertest/internal/expect"
	"github.com/gabapcia/ledgertest/internal/ledger"
	"github.com/gabapcia/ledgertest/internal/matcher"
	"github.com/gabapcia/ledgertest/internal/pkg/logger"
	"github.com/gabapcia/ledgertest/internal/pkg/validation"
	"github.com/gabapcia/ledgertest/internal/values"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	validation.Init()
	// Initialize logger for tests to prevent nil pointer dereference
	_ = logger.Init(logger.WithLevel("error"))
}

const (
	counterScript = "access(all) fun main(): Int64 { return Counter.count }"
	incrementTx   = "transaction { prepare(signer: &Account) { Counter.increment() } }"
)

// newHarness wires a Blockchain façade over a fresh emulator with a counter
// script and an increment transaction registered.
func newHarness(t *testing.T) *blockchain.Blockchain {
	t.Helper()

	backend, err := emulator.New(t.Context(),
		emulator.WithStartTime(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
	)
	require.NoError(t, err)

	backend.RegisterScript(counterScript, func(env emulator.Environment, _ []values.Value) (values.Value, error) {
		if v, ok := env.Get("0x01", "count"); ok {
			return v, nil
		}
		return values.NewInt64(0), nil
	})

	backend.RegisterTransaction(incrementTx, 1, func(env emulator.Environment, _ []ledger.Account, _ []values.Value) error {
		current := int64(0)
		if v, ok := env.Get("0x01", "count"); ok {
			current = int64(v.(values.Int64Value))
		}
		env.Set("0x01", "count", values.NewInt64(current+1))
		env.Emit("CounterIncremented", map[string]values.Value{
			"count": values.NewInt64(current + 1),
		})
		return nil
	})

	return blockchain.New(backend)
}

func incrementTransaction() blockchain.Transaction {
	return blockchain.Transaction{
		Code:        incrementTx,
		Authorizers: []string{"0x01"},
	}
}

func counterValue(t *testing.T, bc *blockchain.Blockchain) values.Value {
	t.Helper()

	result, err := bc.ExecuteScript(t.Context(), counterScript, nil)
	require.NoError(t, err)
	require.True(t, result.Succeeded())
	return result.Value
}

func TestBlockchain_ExecuteTransaction(t *testing.T) {
	t.Run("composes add, execute next and commit", func(t *testing.T) {
		composed := newHarness(t)
		manual := newHarness(t)

		result, err := composed.ExecuteTransaction(t.Context(), incrementTransaction())
		require.NoError(t, err)
		assert.True(t, result.Succeeded())

		require.NoError(t, manual.AddTransaction(t.Context(), incrementTransaction()))
		manualResult, err := manual.ExecuteNextTransaction(t.Context())
		require.NoError(t, err)
		block, err := manual.CommitBlock(t.Context())
		require.NoError(t, err)

		assert.Equal(t, manualResult.Status, result.Status)
		assert.Equal(t, uint64(1), block.Height)
		assert.True(t, counterValue(t, composed).Equal(counterValue(t, manual)))
	})

	t.Run("each call commits its own block", func(t *testing.T) {
		bc := newHarness(t)

		for range 3 {
			_, err := bc.ExecuteTransaction(t.Context(), incrementTransaction())
			require.NoError(t, err)
		}

		events, err := bc.Events(t.Context())
		require.NoError(t, err)
		require.Len(t, events, 3)
		assert.Equal(t, uint64(3), events[2].Height)
	})

	t.Run("rejects a transaction without code", func(t *testing.T) {
		bc := newHarness(t)

		_, err := bc.ExecuteTransaction(t.Context(), blockchain.Transaction{})
		require.Error(t, err)
		assert.ErrorIs(t, err, validation.ErrValidation)
	})
}

func TestBlockchain_ExecuteTransactions(t *testing.T) {
	t.Run("executes the batch FIFO with a single commit", func(t *testing.T) {
		bc := newHarness(t)

		txs := []blockchain.Transaction{
			incrementTransaction(),
			incrementTransaction(),
			incrementTransaction(),
		}

		results, err := bc.ExecuteTransactions(t.Context(), txs)
		require.NoError(t, err)
		require.Len(t, results, 3)
		for _, result := range results {
			assert.True(t, result.Succeeded())
		}

		// all three executed in one block
		events, err := bc.Events(t.Context())
		require.NoError(t, err)
		require.Len(t, events, 3)
		for _, event := range events {
			assert.Equal(t, uint64(1), event.Height)
		}

		assert.True(t, values.NewInt64(3).Equal(counterValue(t, bc)))
	})

	t.Run("empty batch commits an empty block", func(t *testing.T) {
		bc := newHarness(t)

		results, err := bc.ExecuteTransactions(t.Context(), nil)
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestBlockchain_Validation(t *testing.T) {
	t.Run("add transaction rejects missing code", func(t *testing.T) {
		bc := newHarness(t)

		err := bc.AddTransaction(t.Context(), blockchain.Transaction{Authorizers: []string{"0x01"}})
		require.Error(t, err)
		assert.ErrorIs(t, err, validation.ErrValidation)
	})

	t.Run("use configuration rejects a missing address table", func(t *testing.T) {
		bc := newHarness(t)

		err := bc.UseConfiguration(t.Context(), blockchain.Configuration{})
		require.Error(t, err)
		assert.ErrorIs(t, err, validation.ErrValidation)
	})

	t.Run("deploy contract rejects an unnamed contract", func(t *testing.T) {
		bc := newHarness(t)

		account, err := bc.CreateAccount(t.Context())
		require.NoError(t, err)

		err = bc.DeployContract(t.Context(), "", "code", account, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, validation.ErrValidation)
	})

	t.Run("deploy contract rejects a zero account", func(t *testing.T) {
		bc := newHarness(t)

		err := bc.DeployContract(t.Context(), "Counter", "code", ledger.Account{}, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, validation.ErrValidation)
	})
}

func TestBlockchain_Forwarding(t *testing.T) {
	t.Run("reset and move time reach the backend", func(t *testing.T) {
		bc := newHarness(t)

		_, err := bc.ExecuteTransaction(t.Context(), incrementTransaction())
		require.NoError(t, err)

		require.NoError(t, bc.MoveTime(t.Context(), time.Hour))
		require.NoError(t, bc.Reset(t.Context(), 0))

		assert.True(t, values.NewInt64(0).Equal(counterValue(t, bc)))
	})

	t.Run("logs aggregate across executions", func(t *testing.T) {
		bc := newHarness(t)

		logs, err := bc.Logs(t.Context())
		require.NoError(t, err)
		assert.Empty(t, logs)
	})
}

func TestResultInvariants(t *testing.T) {
	t.Run("script results hold exactly one of value or error", func(t *testing.T) {
		success := blockchain.NewSucceededScriptResult(values.NewInt64(1))
		assert.True(t, success.Succeeded())
		assert.NoError(t, success.Err)

		failure := blockchain.NewFailedScriptResult(assert.AnError)
		assert.False(t, failure.Succeeded())
		assert.Nil(t, failure.Value)
		assert.Error(t, failure.Err)
	})

	t.Run("transaction results report the empty sentinel", func(t *testing.T) {
		var empty blockchain.TransactionResult
		assert.True(t, empty.IsEmpty())
		assert.False(t, blockchain.NewSucceededTransactionResult("id").IsEmpty())
		assert.False(t, blockchain.NewFailedTransactionResult("id", assert.AnError).IsEmpty())
	})
}

func TestHarnessAssertions(t *testing.T) {
	t.Run("matchers run against live results", func(t *testing.T) {
		bc := newHarness(t)

		result, err := bc.ExecuteTransaction(t.Context(), incrementTransaction())
		require.NoError(t, err)

		assert.NoError(t, expect.Match(result, matcher.BeSucceeded[blockchain.TransactionResult]()))
		assert.Error(t, expect.Match(result, matcher.BeFailed[blockchain.TransactionResult]()))

		count := counterValue(t, bc)
		assert.NoError(t, expect.Match(count, matcher.Equal(values.NewInt64(1))))
		assert.NoError(t, expect.Match(count,
			matcher.BeGreaterThan(values.NewInt64(0)).And(matcher.BeLessThan(values.NewInt64(2)))))
		assert.NoError(t, expect.Equal(values.NewInt64(1), count))
	})

	t.Run("declared type mismatch fails equality on equal magnitudes", func(t *testing.T) {
		bc := newHarness(t)

		_, err := bc.ExecuteTransaction(t.Context(), incrementTransaction())
		require.NoError(t, err)

		err = expect.Equal(values.NewUInt64(1), counterValue(t, bc))
		require.Error(t, err)
		assert.ErrorIs(t, err, expect.ErrNotEqual)
	})
}
