package memory

import (
	"context"
	"sync"
	"time"

	"solana-launchpad/internal/domain"
	"solana-launchpad/internal/storage"
)

// LockStore is an in-memory implementation of storage.LockStore.
// Acquisition is a single critical section, matching the conditional upsert of the SQL store.
type LockStore struct {
	mu    sync.Mutex
	locks map[string]domain.ClaimLock
	now   func() time.Time
}

// NewLockStore creates a new in-memory lock store using the wall clock.
func NewLockStore() *LockStore {
	return NewLockStoreWithClock(time.Now)
}

// NewLockStoreWithClock creates a lock store that reads time from now.
func NewLockStoreWithClock(now func() time.Time) *LockStore {
	return &LockStore{
		locks: make(map[string]domain.ClaimLock),
		now:   now,
	}
}

// TryAcquire takes the lock for owner until now+ttl unless an unexpired lock exists.
func (s *LockStore) TryAcquire(_ context.Context, key, owner string, ttl time.Duration) (bool, error) {
	if key == "" || owner == "" || ttl <= 0 {
		return false, storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if held, ok := s.locks[key]; ok && !held.Expired(now) {
		return false, nil
	}

	s.locks[key] = domain.ClaimLock{
		Key:        key,
		Owner:      owner,
		AcquiredAt: now,
		ExpiresAt:  now.Add(ttl),
	}
	return true, nil
}

// Release drops the lock if it is still held by owner.
func (s *LockStore) Release(_ context.Context, key, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if held, ok := s.locks[key]; ok && held.Owner == owner {
		delete(s.locks, key)
	}
	return nil
}

// Get returns the current lock record for key, if any (expired or not).
func (s *LockStore) Get(key string) (domain.ClaimLock, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[key]
	return l, ok
}

var _ storage.LockStore = (*LockStore)(nil)
