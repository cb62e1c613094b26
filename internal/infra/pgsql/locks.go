package pgsql

import (
	"context"
	"hash/fnv"

	"github.com/google/uuid"
)

const advisoryXactLock = `SELECT pg_advisory_xact_lock($1)`

// AdvisoryXactLock blocks until the transaction-scoped lock for key is held.
func (q *Queries) AdvisoryXactLock(ctx context.Context, db DBTX, key int64) error {
	_, err := db.Exec(ctx, advisoryXactLock, key)
	return err
}

// RoomTypeLockKey folds a room type id into the bigint advisory lock space.
// Collisions only serialize unrelated room types; they never admit overlaps.
func RoomTypeLockKey(id uuid.UUID) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte("room_type:"))
	_, _ = h.Write(id[:])
	// #nosec G115 -- the sign bit is irrelevant for an advisory key
	return int64(h.Sum64())
}
