package settlement

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"
)

const releaseTimeout = 5 * time.Second

// lockKeys lists every key a claim holds: one per token in scope, sorted, then the
// beneficiary's own key. Claims through different identities of the same creator
// share the token keys.
func (l *Ledger) lockKeys(beneficiary string, tokenIDs []string) []string {
	ids := slices.Clone(tokenIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, l.tokenLockKey(id))
	}
	return append(keys, l.lockKey(beneficiary))
}

// AcquireLock takes the claim lock on every token in scope and on the beneficiary
// for LockDuration. It returns the owner token needed for release, or ok=false if
// another claim holds any of the keys. A partial acquisition is rolled back.
func (l *Ledger) AcquireLock(ctx context.Context, beneficiary string, tokenIDs []string) (owner string, ok bool, err error) {
	owner = l.newOwner()
	keys := l.lockKeys(beneficiary, tokenIDs)

	for i, key := range keys {
		ok, err = l.locks.TryAcquire(ctx, key, owner, l.surface.LockDuration)
		if err == nil && ok {
			continue
		}
		l.release(ctx, beneficiary, keys[:i], owner)
		if err != nil {
			return "", false, fmt.Errorf("acquire claim lock: %w", err)
		}
		return "", false, nil
	}
	return owner, true, nil
}

// ReleaseLock drops every key AcquireLock took if owner still holds it.
// It runs even when ctx is already cancelled.
func (l *Ledger) ReleaseLock(ctx context.Context, beneficiary string, tokenIDs []string, owner string) {
	l.release(ctx, beneficiary, l.lockKeys(beneficiary, tokenIDs), owner)
}

func (l *Ledger) release(ctx context.Context, beneficiary string, keys []string, owner string) {
	if len(keys) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()

	for _, key := range keys {
		if err := l.locks.Release(ctx, key, owner); err != nil {
			l.logger.Warn("release claim lock",
				zap.String("beneficiary", beneficiary),
				zap.String("key", key),
				zap.Duration("expires_in", l.surface.LockDuration),
				zap.Error(err),
			)
		}
	}
}
