package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/gabapcia/ledgertest/internal/emulator"
	"github.com/gabapcia/ledgertest/internal/ledger"

	"github.com/redis/go-redis/v9"
)

// snapshotKeyPrefix is the namespace prefix for all keys related to emulator state snapshots.
const snapshotKeyPrefix = "emulator"

// snapshotKey constructs the Redis key under which the state snapshot of a
// given block height is stored. The format is:
//
//	"emulator:snapshot:<height>"
func snapshotKey(height uint64) string {
	return fmt.Sprintf("%s:snapshot:%d", snapshotKeyPrefix, height)
}

// SaveSnapshot persists the chain state committed at the given block height.
//
// The state is serialized into its JSON snapshot form and stored as a Redis
// key with no expiration. Saving the same height twice overwrites the
// previous snapshot.
//
// Parameters:
//   - ctx: context for timeout and cancellation.
//   - height: the committed block height the snapshot belongs to.
//   - state: the chain state to persist.
//
// Returns:
//   - An error if serialization or the Redis operation fails.
func (c *client) SaveSnapshot(ctx context.Context, height uint64, state *ledger.State) error {
	data, err := ledger.EncodeState(state)
	if err != nil {
		return fmt.Errorf("encoding state snapshot: %w", err)
	}

	return c.conn.Set(ctx, snapshotKey(height), data, 0).Err()
}

// LoadSnapshot retrieves the chain state committed at the given block height.
//
// If no snapshot exists for the height, it returns emulator.ErrSnapshotNotFound.
// Otherwise, the stored payload is deserialized back into a ledger.State.
//
// Parameters:
//   - ctx: context for timeout and cancellation.
//   - height: the committed block height to load.
//
// Returns:
//   - The chain state at that height, or an error if retrieval or decoding fails.
func (c *client) LoadSnapshot(ctx context.Context, height uint64) (*ledger.State, error) {
	data, err := c.conn.Get(ctx, snapshotKey(height)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			err = emulator.ErrSnapshotNotFound
		}

		return nil, err
	}

	return ledger.DecodeState(data)
}

// Compile-time assertion to ensure client implements the SnapshotStorage interface.
var _ emulator.SnapshotStorage = new(client)
