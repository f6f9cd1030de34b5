package settlement

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"solana-launchpad/internal/domain"
	"solana-launchpad/internal/idhash"
	"solana-launchpad/internal/observability"
)

// ExecutePayment sends amount to the payout address after checking that the funding
// wallet holds amount plus ReserveBuffer. The balance is read fresh on every call.
// Returns ErrInsufficientFunds without sending anything when the check fails, and
// ErrPaymentWindowElapsed when ctx is done before the transfer starts.
func (l *Ledger) ExecutePayment(ctx context.Context, to string, amount decimal.Decimal) (string, error) {
	if !IsWallet(to) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPayoutAddress, to)
	}

	balance, err := l.payer.GetBalance(ctx, l.payer.FundingAddress())
	if err != nil {
		return "", fmt.Errorf("read funding balance: %w", err)
	}
	balanceF, _ := balance.Float64()
	observability.UpdateFundingBalance(l.surface.Name, balanceF)

	required := amount.Add(l.surface.ReserveBuffer)
	if balance.LessThan(required) {
		return "", fmt.Errorf("%w: have %s SOL, need %s SOL", ErrInsufficientFunds, balance, required)
	}

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrPaymentWindowElapsed, err)
	}
	return l.payer.Transfer(ctx, to, amount)
}

// RecordDistribution appends one row per token share, all carrying the payment
// signature and status. The rows are written in one atomic batch.
func (l *Ledger) RecordDistribution(ctx context.Context, beneficiary, signature, status string, shares []TokenShare) ([]*domain.DistributionRecord, error) {
	if len(shares) == 0 {
		return nil, fmt.Errorf("record distribution: no token shares")
	}

	now := l.now()
	records := make([]*domain.DistributionRecord, 0, len(shares))
	for _, s := range shares {
		records = append(records, &domain.DistributionRecord{
			ID:               idhash.ComputeDistributionID(signature, s.TokenID, beneficiary, domain.DistributionTypeCreatorClaim),
			TokenID:          s.TokenID,
			BeneficiaryKey:   beneficiary,
			AmountSol:        s.Amount,
			DistributionType: domain.DistributionTypeCreatorClaim,
			Status:           status,
			Signature:        signature,
			CreatedAt:        now,
		})
	}

	if err := l.distributions.InsertBulk(ctx, records); err != nil {
		return nil, err
	}
	return records, nil
}
