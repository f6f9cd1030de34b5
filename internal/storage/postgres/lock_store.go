package postgres

import (
	"context"
	"fmt"
	"time"

	"solana-launchpad/internal/storage"
)

// LockStore implements storage.LockStore on the claim_locks table.
// Expiry is evaluated against the database clock so all service instances agree.
type LockStore struct {
	pool *Pool
}

// NewLockStore creates a new LockStore.
func NewLockStore(pool *Pool) *LockStore {
	return &LockStore{pool: pool}
}

// Compile-time interface check.
var _ storage.LockStore = (*LockStore)(nil)

// TryAcquire inserts the lock row, or takes over an expired one, in a single statement.
// No returned row means an unexpired lock exists.
func (s *LockStore) TryAcquire(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
	if key == "" || owner == "" || ttl <= 0 {
		return false, storage.ErrInvalidInput
	}

	query := `
		INSERT INTO claim_locks (lock_key, owner, acquired_at, expires_at)
		VALUES ($1, $2, now(), now() + $3 * interval '1 millisecond')
		ON CONFLICT (lock_key) DO UPDATE
			SET owner = EXCLUDED.owner,
				acquired_at = EXCLUDED.acquired_at,
				expires_at = EXCLUDED.expires_at
			WHERE claim_locks.expires_at <= now()
		RETURNING owner
	`

	var got string
	err := s.pool.QueryRow(ctx, query, key, owner, ttl.Milliseconds()).Scan(&got)
	if err != nil {
		if isNotFoundError(err) {
			return false, nil
		}
		return false, fmt.Errorf("acquire claim lock: %w", err)
	}
	return got == owner, nil
}

// Release deletes the lock row only if owner still holds it.
func (s *LockStore) Release(ctx context.Context, key, owner string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM claim_locks WHERE lock_key = $1 AND owner = $2`, key, owner)
	if err != nil {
		return fmt.Errorf("release claim lock: %w", err)
	}
	return nil
}
