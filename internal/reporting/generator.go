package reporting

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"solana-launchpad/internal/domain"
	"solana-launchpad/internal/settlement"
	"solana-launchpad/internal/storage"
)

// LedgerReader is the read side of a settlement ledger.
type LedgerReader interface {
	Surface() settlement.Surface
	ResolveScope(ctx context.Context, beneficiary string) ([]string, error)
	ComputeClaimable(ctx context.Context, beneficiary string, tokenIDs []string) (*settlement.Balance, error)
	CheckCooldown(ctx context.Context, beneficiary string) (settlement.CooldownStatus, error)
}

// Generator produces statements from ledger data.
type Generator struct {
	ledger        LedgerReader
	distributions storage.DistributionStore
	now           func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new statement generator.
func NewGenerator(ledger LedgerReader, distributions storage.DistributionStore) *Generator {
	return &Generator{
		ledger:        ledger,
		distributions: distributions,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate builds the statement for a wallet or handle.
func (g *Generator) Generate(ctx context.Context, beneficiary string) (*Statement, error) {
	who, err := settlement.ParseBeneficiary(beneficiary)
	if err != nil {
		return nil, err
	}

	scope, err := g.ledger.ResolveScope(ctx, who.Key)
	if err != nil {
		return nil, err
	}
	bal, err := g.ledger.ComputeClaimable(ctx, who.Key, scope)
	if err != nil {
		return nil, err
	}
	cd, err := g.ledger.CheckCooldown(ctx, who.Key)
	if err != nil {
		return nil, err
	}
	records, err := g.distributions.GetByBeneficiary(ctx, who.Key, scope)
	if err != nil {
		return nil, fmt.Errorf("read distributions: %w", err)
	}

	st := &Statement{
		GeneratedAt: g.now(),
		Surface:     g.ledger.Surface().Name,
		Beneficiary: who.Key,
		Summary: Summary{
			TotalEarned: bal.TotalEarned,
			TotalPaid:   bal.TotalPaid,
			Claimable:   bal.Claimable,
			PendingSol:  decimal.Zero,
			CanClaim:    cd.CanClaim,
			LastClaimAt: cd.LastClaimAt,
			NextClaimAt: cd.NextClaimAt,
		},
	}

	for _, t := range bal.Tokens {
		st.Tokens = append(st.Tokens, TokenRow{
			TokenID:   t.TokenID,
			Collected: t.Collected,
			Earned:    t.Earned,
			Paid:      t.Paid,
			Unpaid:    t.Unpaid(),
		})
	}

	for _, r := range records {
		switch r.Status {
		case domain.DistributionStatusCompleted:
			st.Summary.CompletedCount++
		case domain.DistributionStatusPending:
			st.Summary.PendingCount++
			st.Summary.PendingSol = st.Summary.PendingSol.Add(r.AmountSol)
		case domain.DistributionStatusFailed:
			st.Summary.FailedCount++
		}
		st.Distributions = append(st.Distributions, DistributionRow{
			CreatedAt: r.CreatedAt,
			TokenID:   r.TokenID,
			Type:      r.DistributionType,
			Status:    r.Status,
			AmountSol: r.AmountSol,
			Signature: r.Signature,
		})
	}

	return st, nil
}
