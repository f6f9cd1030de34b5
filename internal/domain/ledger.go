package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FeeClaimRecord is SOL actually collected from a token's fee vault.
// Written by the external fee-collection process. Immutable.
type FeeClaimRecord struct {
	ID         string          // unique record id
	TokenID    string          // token the fees were collected for
	ClaimedSol decimal.Decimal // SOL collected
	Signature  string          // collection transaction signature (optional)
	CreatedAt  time.Time
}

// DistributionRecord is a payout made (or attempted) to a beneficiary.
// Append-only; one row per token in the claim scope.
type DistributionRecord struct {
	ID               string          // deterministic hash, see idhash.ComputeDistributionID
	TokenID          string          // token this share was attributed to
	BeneficiaryKey   string          // normalized wallet or social handle
	AmountSol        decimal.Decimal // this token's share of the payout
	DistributionType string          // "creator_claim" | "creator"
	Status           string          // "pending" | "completed" | "failed"
	Signature        string          // payment transaction signature
	CreatedAt        time.Time
}

// Distribution type constants
const (
	DistributionTypeCreatorClaim = "creator_claim" // beneficiary-initiated claim
	DistributionTypeCreator      = "creator"       // automatic creator distribution
)

// Distribution status constants
const (
	DistributionStatusPending   = "pending"
	DistributionStatusCompleted = "completed"
	DistributionStatusFailed    = "failed"
)

// CreatorDistributionTypes are the types that count as creator payouts.
var CreatorDistributionTypes = []string{DistributionTypeCreatorClaim, DistributionTypeCreator}

// ClaimLock is a short-lived mutual-exclusion record keyed by beneficiary.
type ClaimLock struct {
	Key        string // surface-qualified beneficiary key
	Owner      string // token identifying the holder; only the holder may release
	AcquiredAt time.Time
	ExpiresAt  time.Time // an expired lock is treated as absent
}

// Expired reports whether the lock is no longer held at t.
func (l ClaimLock) Expired(t time.Time) bool {
	return !t.Before(l.ExpiresAt)
}
