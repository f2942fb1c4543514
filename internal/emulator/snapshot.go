package emulator

import (
	"context"
	"errors"

	"github.com/gabapcia/ledgertest/internal/ledger"
)

// ErrSnapshotNotFound is returned by LoadSnapshot when no snapshot exists
// for the requested height.
var ErrSnapshotNotFound = errors.New("no snapshot found for height")

// SnapshotStorage persists the chain state committed at each block height,
// so the backend can rewind to it on Reset.
type SnapshotStorage interface {
	// SaveSnapshot records the state committed at the given height.
	// Saving the same height again overwrites the previous snapshot.
	SaveSnapshot(ctx context.Context, height uint64, state *ledger.State) error

	// LoadSnapshot returns the state committed at the given height, or
	// ErrSnapshotNotFound when none was saved.
	LoadSnapshot(ctx context.Context, height uint64) (*ledger.State, error)
}

// memorySnapshots is the default SnapshotStorage, holding cloned states in
// process memory.
type memorySnapshots struct {
	states map[uint64]*ledger.State
}

var _ SnapshotStorage = (*memorySnapshots)(nil)

func newMemorySnapshots() *memorySnapshots {
	return &memorySnapshots{
		states: make(map[uint64]*ledger.State),
	}
}

func (m *memorySnapshots) SaveSnapshot(_ context.Context, height uint64, state *ledger.State) error {
	m.states[height] = state.Clone()
	return nil
}

func (m *memorySnapshots) LoadSnapshot(_ context.Context, height uint64) (*ledger.State, error) {
	state, ok := m.states[height]
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	return state.Clone(), nil
}
