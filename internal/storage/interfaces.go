package storage

import (
	"context"
	"time"

	"solana-launchpad/internal/domain"
)

// FeeClaimStore provides access to a fee-claims table.
// Rows are written by the external fee-collection process; the ledger only reads them.
type FeeClaimStore interface {
	// Insert adds a new fee claim. Returns ErrDuplicateKey if id exists.
	Insert(ctx context.Context, c *domain.FeeClaimRecord) error

	// GetByTokenIDs retrieves all fee claims for the given tokens, ordered by created_at ASC.
	// An empty token set returns no rows.
	GetByTokenIDs(ctx context.Context, tokenIDs []string) ([]*domain.FeeClaimRecord, error)
}

// DistributionStore provides access to a distributions table.
type DistributionStore interface {
	// Insert adds a new distribution. Returns ErrDuplicateKey if id exists.
	Insert(ctx context.Context, d *domain.DistributionRecord) error

	// InsertBulk adds multiple distributions atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, records []*domain.DistributionRecord) error

	// GetByBeneficiary retrieves all distributions for a beneficiary restricted to tokenIDs,
	// ordered by created_at ASC. A nil token set means every token.
	GetByBeneficiary(ctx context.Context, beneficiary string, tokenIDs []string) ([]*domain.DistributionRecord, error)

	// GetByTokenIDs retrieves every distribution for the given tokens regardless of
	// beneficiary, ordered by created_at ASC.
	GetByTokenIDs(ctx context.Context, tokenIDs []string) ([]*domain.DistributionRecord, error)

	// LatestCompleted returns the most recent completed distribution for a beneficiary
	// with one of the given types. Returns ErrNotFound if there is none.
	LatestCompleted(ctx context.Context, beneficiary string, types []string) (*domain.DistributionRecord, error)
}

// LockStore provides short-lived mutual exclusion keyed by string.
// Both operations must be single atomic operations at the storage layer.
type LockStore interface {
	// TryAcquire takes the lock for owner until now+ttl. Returns false if an unexpired
	// lock is held by anyone, including owner. An expired lock is treated as absent.
	TryAcquire(ctx context.Context, key, owner string, ttl time.Duration) (bool, error)

	// Release drops the lock if it is still held by owner. Releasing a lock that expired
	// or was taken over by another owner is a no-op.
	Release(ctx context.Context, key, owner string) error
}

// TokenScopeStore resolves which tokens a beneficiary may claim fees for.
type TokenScopeStore interface {
	// Insert adds a token. Returns ErrDuplicateKey if id exists.
	Insert(ctx context.Context, t *domain.Token) error

	// TokensForBeneficiary returns the token ids created by the wallet or attributed to
	// the social handle, sorted ascending. Unknown beneficiaries get an empty slice.
	TokensForBeneficiary(ctx context.Context, beneficiary string) ([]string, error)
}

// CurvePointStore provides access to curve_points storage.
type CurvePointStore interface {
	// InsertBulk adds multiple points. Fails entire batch on duplicate (token_id, timestamp_ms).
	InsertBulk(ctx context.Context, points []*domain.CurvePoint) error

	// GetByTimeRange retrieves points for a token within [start, end] (inclusive), ordered by timestamp ASC.
	GetByTimeRange(ctx context.Context, tokenID string, start, end int64) ([]*domain.CurvePoint, error)
}
