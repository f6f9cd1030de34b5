package settlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"solana-launchpad/internal/domain"
	"solana-launchpad/internal/storage"
)

// CheckCooldown reports whether the beneficiary's last completed claim is at least
// Cooldown old. The window is scoped to this surface and to the beneficiary key
// across all its tokens: a creator's wallet and handle keep separate windows, while
// the token balance they draw from is shared (see ComputeClaimable).
func (l *Ledger) CheckCooldown(ctx context.Context, beneficiary string) (CooldownStatus, error) {
	last, err := l.distributions.LatestCompleted(ctx, beneficiary, domain.CreatorDistributionTypes)
	if errors.Is(err, storage.ErrNotFound) {
		return CooldownStatus{CanClaim: true}, nil
	}
	if err != nil {
		return CooldownStatus{}, fmt.Errorf("read last claim: %w", err)
	}

	status := CooldownStatus{LastClaimAt: last.CreatedAt}
	next := last.CreatedAt.Add(l.surface.Cooldown)
	now := l.now()
	if !now.Before(next) {
		status.CanClaim = true
		return status, nil
	}

	status.NextClaimAt = next
	status.RemainingSeconds = ceilSeconds(next.Sub(now))
	return status, nil
}

func ceilSeconds(d time.Duration) int64 {
	s := int64(d / time.Second)
	if d%time.Second != 0 {
		s++
	}
	return s
}
