package reporting

import (
	"time"

	"github.com/shopspring/decimal"
)

// Statement is a beneficiary's settlement history on one surface.
type Statement struct {
	// Metadata
	GeneratedAt time.Time
	Surface     string
	Beneficiary string

	Summary Summary

	// Per-token position, in scope order
	Tokens []TokenRow

	// All distributions, oldest first
	Distributions []DistributionRow
}

// Summary aggregates the statement.
type Summary struct {
	TotalEarned decimal.Decimal
	TotalPaid   decimal.Decimal // completed and pending
	Claimable   decimal.Decimal // after the single-claim cap
	PendingSol  decimal.Decimal // paid but awaiting reconciliation

	CompletedCount int
	PendingCount   int
	FailedCount    int

	CanClaim    bool
	LastClaimAt time.Time // zero if never claimed
	NextClaimAt time.Time // zero if CanClaim
}

// TokenRow is one token's position.
type TokenRow struct {
	TokenID   string
	Collected decimal.Decimal
	Earned    decimal.Decimal
	Paid      decimal.Decimal
	Unpaid    decimal.Decimal
}

// DistributionRow is one distribution record.
type DistributionRow struct {
	CreatedAt time.Time
	TokenID   string
	Type      string
	Status    string
	AmountSol decimal.Decimal
	Signature string
}
