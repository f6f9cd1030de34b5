package settlement

import (
	"time"

	"github.com/shopspring/decimal"
)

// Outcome is the terminal state of a claim attempt.
type Outcome string

// Claim outcomes.
const (
	OutcomeCompleted         Outcome = "completed"
	OutcomeInvalidInput      Outcome = "invalid_input"
	OutcomeRateLimited       Outcome = "rate_limited"
	OutcomeBelowMinimum      Outcome = "below_minimum"
	OutcomeLocked            Outcome = "locked"
	OutcomeNothingLeft       Outcome = "nothing_left_after_verification"
	OutcomeInsufficientFunds Outcome = "insufficient_funds"
	OutcomeFailed            Outcome = "failed"
	OutcomeRecordingFailure  Outcome = "distribution_recording_failure"
)

// Retryable reports whether the beneficiary may simply try again later.
func (o Outcome) Retryable() bool {
	switch o {
	case OutcomeRateLimited, OutcomeBelowMinimum, OutcomeLocked, OutcomeNothingLeft, OutcomeFailed:
		return true
	default:
		return false
	}
}

// TokenBalance is the claimable position of one token in scope.
type TokenBalance struct {
	TokenID   string
	Collected decimal.Decimal // SOL collected from the fee vault
	Earned    decimal.Decimal // collected * creator share
	Paid      decimal.Decimal // completed and pending creator payouts
}

// Unpaid returns earned - paid, which may be negative for an overpaid token.
func (t TokenBalance) Unpaid() decimal.Decimal {
	return t.Earned.Sub(t.Paid)
}

// Balance is the result of ComputeClaimable.
type Balance struct {
	Beneficiary string
	TokenIDs    []string
	TotalEarned decimal.Decimal
	TotalPaid   decimal.Decimal
	Claimable   decimal.Decimal // after the single-claim cap
	Uncapped    decimal.Decimal // max(0, earned - paid)
	Tokens      []TokenBalance
}

// Capped reports whether the single-claim cap reduced the claimable amount.
func (b Balance) Capped() bool {
	return b.Claimable.LessThan(b.Uncapped)
}

// CooldownStatus is the result of CheckCooldown.
type CooldownStatus struct {
	CanClaim         bool
	RemainingSeconds int64
	NextClaimAt      time.Time // zero when CanClaim
	LastClaimAt      time.Time // zero when no completed claim exists
}

// ClaimRequest asks for a payout of everything claimable.
type ClaimRequest struct {
	Beneficiary   string // wallet address or social handle
	PayoutAddress string // wallet receiving the SOL; defaults to Beneficiary when it is a wallet
}

// ClaimResult describes how a claim attempt ended.
// Every rejection carries a human-readable Reason.
type ClaimResult struct {
	Outcome          Outcome
	Reason           string
	Surface          string
	Beneficiary      string
	PayoutAddress    string
	Amount           decimal.Decimal // paid, or attempted when the payment did not complete
	Signature        string
	RemainingSeconds int64
	NextClaimAt      time.Time
	Balance          *Balance
	Distributions    int // rows recorded for the payment
}
