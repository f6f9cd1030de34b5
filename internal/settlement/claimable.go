package settlement

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"solana-launchpad/internal/domain"
)

// ResolveScope returns the tokens the beneficiary may claim against.
func (l *Ledger) ResolveScope(ctx context.Context, beneficiary string) ([]string, error) {
	ids, err := l.tokens.TokensForBeneficiary(ctx, beneficiary)
	if err != nil {
		return nil, fmt.Errorf("resolve token scope: %w", err)
	}
	return ids, nil
}

// ComputeClaimable returns what the beneficiary may still claim across tokenIDs.
//
//	earned    = sum(collected) * creator share, rounded down to lamports
//	paid      = sum(completed and pending creator payouts on those tokens)
//	claimable = min(max(0, earned - paid), MaxClaim)
//
// Paid amounts are counted per token across every beneficiary key, so a token
// reachable by both its creator wallet and handle is paid out once. The capped
// remainder stays claimable for later claims. Read only.
func (l *Ledger) ComputeClaimable(ctx context.Context, beneficiary string, tokenIDs []string) (*Balance, error) {
	bal := &Balance{
		Beneficiary: beneficiary,
		TokenIDs:    tokenIDs,
		TotalEarned: decimal.Zero,
		TotalPaid:   decimal.Zero,
		Claimable:   decimal.Zero,
		Uncapped:    decimal.Zero,
	}
	if len(tokenIDs) == 0 {
		return bal, nil
	}

	var (
		claims        []*domain.FeeClaimRecord
		distributions []*domain.DistributionRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		claims, err = l.feeClaims.GetByTokenIDs(gctx, tokenIDs)
		if err != nil {
			return fmt.Errorf("read fee claims: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		distributions, err = l.distributions.GetByTokenIDs(gctx, tokenIDs)
		if err != nil {
			return fmt.Errorf("read distributions: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	collected := make(map[string]decimal.Decimal, len(tokenIDs))
	paid := make(map[string]decimal.Decimal, len(tokenIDs))
	totalCollected := decimal.Zero

	for _, c := range claims {
		collected[c.TokenID] = collected[c.TokenID].Add(c.ClaimedSol)
		totalCollected = totalCollected.Add(c.ClaimedSol)
	}
	for _, d := range distributions {
		if !countsAsPaid(d) {
			continue
		}
		paid[d.TokenID] = paid[d.TokenID].Add(d.AmountSol)
		bal.TotalPaid = bal.TotalPaid.Add(d.AmountSol)
	}

	share := l.surface.CreatorShare
	bal.TotalEarned = totalCollected.Mul(share).RoundDown(domain.AmountScale)
	bal.Tokens = make([]TokenBalance, 0, len(tokenIDs))
	for _, id := range tokenIDs {
		bal.Tokens = append(bal.Tokens, TokenBalance{
			TokenID:   id,
			Collected: collected[id],
			Earned:    collected[id].Mul(share).RoundDown(domain.AmountScale),
			Paid:      paid[id],
		})
	}

	unpaid := bal.TotalEarned.Sub(bal.TotalPaid)
	if unpaid.IsPositive() {
		bal.Uncapped = unpaid
		bal.Claimable = unpaid
	}
	if ceiling := l.surface.MaxClaim; ceiling.IsPositive() && bal.Claimable.GreaterThan(ceiling) {
		bal.Claimable = ceiling
	}
	return bal, nil
}

// countsAsPaid reports whether a distribution reduces the claimable balance.
// Pending payments count so an unconfirmed transfer is never paid twice.
func countsAsPaid(d *domain.DistributionRecord) bool {
	if d.DistributionType != domain.DistributionTypeCreatorClaim && d.DistributionType != domain.DistributionTypeCreator {
		return false
	}
	return d.Status == domain.DistributionStatusCompleted || d.Status == domain.DistributionStatusPending
}

// Split divides amount across tokens in proportion to each token's positive unpaid balance.
// Shares are rounded down to lamports and the last weighted token absorbs the remainder,
// so the shares always sum to amount. Tokens with a zero share are omitted.
func Split(amount decimal.Decimal, tokens []TokenBalance) []TokenShare {
	if !amount.IsPositive() || len(tokens) == 0 {
		return nil
	}

	var (
		weighted []TokenBalance
		total    = decimal.Zero
	)
	for _, t := range tokens {
		if u := t.Unpaid(); u.IsPositive() {
			weighted = append(weighted, t)
			total = total.Add(u)
		}
	}
	if len(weighted) == 0 {
		return []TokenShare{{TokenID: tokens[0].TokenID, Amount: amount}}
	}

	shares := make([]TokenShare, 0, len(weighted))
	allocated := decimal.Zero
	for i, t := range weighted {
		var part decimal.Decimal
		if i == len(weighted)-1 {
			part = amount.Sub(allocated)
		} else {
			part = amount.Mul(t.Unpaid()).Div(total).RoundDown(domain.AmountScale)
		}
		allocated = allocated.Add(part)
		if part.IsPositive() {
			shares = append(shares, TokenShare{TokenID: t.TokenID, Amount: part})
		}
	}
	return shares
}

// TokenShare is one token's portion of a payout.
type TokenShare struct {
	TokenID string
	Amount  decimal.Decimal
}
