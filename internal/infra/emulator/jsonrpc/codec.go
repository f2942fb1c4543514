package jsonrpc

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gabapcia/ledgertest/internal/blockchain"
	"github.com/gabapcia/ledgertest/internal/ledger"
	"github.com/gabapcia/ledgertest/internal/pkg/types"
	"github.com/gabapcia/ledgertest/internal/values"
)

// Wire payloads of the emulator JSON-RPC surface. Block heights travel as
// "0x"-prefixed hex strings, typed values in their JSON envelope form, and
// timestamps as RFC 3339 strings.

type accountPayload struct {
	Address   string `json:"address"`
	PublicKey string `json:"publicKey"`
}

func (p accountPayload) toAccount() ledger.Account {
	return ledger.Account{
		Address:   p.Address,
		PublicKey: p.PublicKey,
	}
}

type transactionPayload struct {
	Code        string           `json:"code"`
	Authorizers []string         `json:"authorizers,omitempty"`
	Signers     []accountPayload `json:"signers,omitempty"`
	Arguments   json.RawMessage  `json:"arguments,omitempty"`
}

func newTransactionPayload(tx blockchain.Transaction) (transactionPayload, error) {
	payload := transactionPayload{
		Code:        tx.Code,
		Authorizers: tx.Authorizers,
	}

	for _, signer := range tx.Signers {
		payload.Signers = append(payload.Signers, accountPayload{
			Address:   signer.Address,
			PublicKey: signer.PublicKey,
		})
	}

	if len(tx.Arguments) > 0 {
		args, err := values.EncodeAll(tx.Arguments)
		if err != nil {
			return transactionPayload{}, fmt.Errorf("encoding transaction arguments: %w", err)
		}
		payload.Arguments = args
	}

	return payload, nil
}

type scriptResultPayload struct {
	Status string          `json:"status"`
	Value  json.RawMessage `json:"value,omitempty"`
	Error  string          `json:"error,omitempty"`
}

func (p scriptResultPayload) toResult() (blockchain.ScriptResult, error) {
	switch p.Status {
	case statusSucceeded:
		var value values.Value
		if len(p.Value) > 0 {
			v, err := values.Decode(p.Value)
			if err != nil {
				return blockchain.ScriptResult{}, fmt.Errorf("decoding script return value: %w", err)
			}
			value = v
		}
		return blockchain.NewSucceededScriptResult(value), nil

	case statusFailed:
		return blockchain.NewFailedScriptResult(&ExecutionError{Message: p.Error}), nil

	default:
		return blockchain.ScriptResult{}, fmt.Errorf("%w: script status %q", ErrMalformedResponse, p.Status)
	}
}

type transactionResultPayload struct {
	TxID   string `json:"txId"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func (p transactionResultPayload) toResult() (blockchain.TransactionResult, error) {
	switch p.Status {
	case statusSucceeded:
		return blockchain.NewSucceededTransactionResult(p.TxID), nil
	case statusFailed:
		return blockchain.NewFailedTransactionResult(p.TxID, &ExecutionError{Message: p.Error}), nil
	default:
		return blockchain.TransactionResult{}, fmt.Errorf("%w: transaction status %q", ErrMalformedResponse, p.Status)
	}
}

type blockPayload struct {
	Height    types.Hex `json:"height"`
	Hash      string    `json:"hash"`
	Timestamp string    `json:"timestamp"`
	TxIDs     []string  `json:"txIds,omitempty"`
}

func (p blockPayload) toBlock() (ledger.Block, error) {
	timestamp, err := time.Parse(time.RFC3339Nano, p.Timestamp)
	if err != nil {
		return ledger.Block{}, fmt.Errorf("%w: block timestamp: %v", ErrMalformedResponse, err)
	}

	return ledger.Block{
		Height:    uint64(p.Height.Int()),
		Hash:      p.Hash,
		Timestamp: timestamp,
		TxIDs:     p.TxIDs,
	}, nil
}

type eventPayload struct {
	Type   string                     `json:"type"`
	Height types.Hex                  `json:"height"`
	TxID   string                     `json:"txId,omitempty"`
	Fields map[string]json.RawMessage `json:"fields,omitempty"`
}

func (p eventPayload) toEvent() (ledger.Event, error) {
	event := ledger.Event{
		Type:   p.Type,
		Height: uint64(p.Height.Int()),
		TxID:   p.TxID,
	}

	if len(p.Fields) > 0 {
		event.Fields = make(map[string]values.Value, len(p.Fields))
		for name, raw := range p.Fields {
			v, err := values.Decode(raw)
			if err != nil {
				return ledger.Event{}, fmt.Errorf("decoding event field %q: %w", name, err)
			}
			event.Fields[name] = v
		}
	}

	return event, nil
}

const (
	statusSucceeded = "succeeded"
	statusFailed    = "failed"
)

// heightToHex renders a block height in its wire form.
func heightToHex(height uint64) types.Hex {
	return types.Hex(fmt.Sprintf("0x%x", height))
}
