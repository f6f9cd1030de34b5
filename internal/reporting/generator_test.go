package reporting

import (
	"context"
	"strings"
	"testing"
	"time"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"solana-launchpad/internal/domain"
	"solana-launchpad/internal/payment/stub"
	"solana-launchpad/internal/settlement"
	"solana-launchpad/internal/storage/memory"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func setupLedger(t *testing.T) (*settlement.Ledger, *memory.DistributionStore, string) {
	t.Helper()
	ctx := context.Background()

	key, err := solanago.NewRandomPrivateKey()
	if err != nil {
		t.Fatalf("generate wallet: %v", err)
	}
	wallet := key.PublicKey().String()

	feeClaims := memory.NewFeeClaimStore()
	distributions := memory.NewDistributionStore()
	tokens := memory.NewTokenScopeStore()

	for _, id := range []string{"mint1", "mint2"} {
		if err := tokens.Insert(ctx, &domain.Token{ID: id, CreatorWallet: wallet, CreatedAt: testNow}); err != nil {
			t.Fatalf("Insert token failed: %v", err)
		}
	}
	claims := []*domain.FeeClaimRecord{
		{ID: "fc1", TokenID: "mint1", ClaimedSol: decimal.RequireFromString("2"), CreatedAt: testNow},
		{ID: "fc2", TokenID: "mint2", ClaimedSol: decimal.RequireFromString("1"), CreatedAt: testNow},
	}
	for _, c := range claims {
		if err := feeClaims.Insert(ctx, c); err != nil {
			t.Fatalf("Insert fee claim failed: %v", err)
		}
	}
	records := []*domain.DistributionRecord{
		{ID: "d1", TokenID: "mint1", BeneficiaryKey: wallet, AmountSol: decimal.RequireFromString("0.2"),
			DistributionType: domain.DistributionTypeCreatorClaim, Status: domain.DistributionStatusCompleted,
			Signature: "sigA", CreatedAt: testNow.Add(-30 * time.Minute)},
		{ID: "d2", TokenID: "mint2", BeneficiaryKey: wallet, AmountSol: decimal.RequireFromString("0.1"),
			DistributionType: domain.DistributionTypeCreatorClaim, Status: domain.DistributionStatusPending,
			Signature: "sigB", CreatedAt: testNow.Add(-10 * time.Minute)},
		{ID: "d3", TokenID: "mint2", BeneficiaryKey: wallet, AmountSol: decimal.RequireFromString("0.1"),
			DistributionType: domain.DistributionTypeCreatorClaim, Status: domain.DistributionStatusFailed,
			Signature: "sigC", CreatedAt: testNow.Add(-5 * time.Minute)},
	}
	for _, r := range records {
		if err := distributions.Insert(ctx, r); err != nil {
			t.Fatalf("Insert distribution failed: %v", err)
		}
	}

	ledger, err := settlement.New(settlement.Surface{
		Name:          "claw",
		CreatorShare:  decimal.RequireFromString("0.3"),
		MinClaim:      decimal.RequireFromString("0.01"),
		Cooldown:      time.Hour,
		LockDuration:  time.Minute,
		ReserveBuffer: decimal.RequireFromString("0.05"),
	}, settlement.Stores{
		FeeClaims:     feeClaims,
		Distributions: distributions,
		Tokens:        tokens,
		Locks:         memory.NewLockStore(),
	}, stub.NewExecutor("treasury", decimal.NewFromInt(10)), settlement.WithClock(func() time.Time { return testNow }))
	if err != nil {
		t.Fatalf("New ledger failed: %v", err)
	}
	return ledger, distributions, wallet
}

func TestGenerator_Generate(t *testing.T) {
	ledger, distributions, wallet := setupLedger(t)
	gen := NewGenerator(ledger, distributions).WithClock(func() time.Time { return testNow })

	st, err := gen.Generate(context.Background(), wallet)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if st.Surface != "claw" || st.Beneficiary != wallet {
		t.Errorf("unexpected header: surface=%s beneficiary=%s", st.Surface, st.Beneficiary)
	}
	if got := st.Summary.TotalEarned.String(); got != "0.9" {
		t.Errorf("TotalEarned = %s, want 0.9", got)
	}
	if got := st.Summary.TotalPaid.String(); got != "0.3" {
		t.Errorf("TotalPaid = %s, want 0.3 (completed + pending)", got)
	}
	if got := st.Summary.Claimable.String(); got != "0.6" {
		t.Errorf("Claimable = %s, want 0.6", got)
	}
	if got := st.Summary.PendingSol.String(); got != "0.1" {
		t.Errorf("PendingSol = %s, want 0.1", got)
	}
	if st.Summary.CompletedCount != 1 || st.Summary.PendingCount != 1 || st.Summary.FailedCount != 1 {
		t.Errorf("counts = %d/%d/%d, want 1/1/1",
			st.Summary.CompletedCount, st.Summary.PendingCount, st.Summary.FailedCount)
	}
	if st.Summary.CanClaim {
		t.Error("claim 30 minutes ago should keep cooldown active")
	}
	if !st.Summary.NextClaimAt.Equal(testNow.Add(30 * time.Minute)) {
		t.Errorf("NextClaimAt = %s", st.Summary.NextClaimAt)
	}
	if len(st.Tokens) != 2 || len(st.Distributions) != 3 {
		t.Fatalf("rows: tokens=%d distributions=%d", len(st.Tokens), len(st.Distributions))
	}
	if st.Distributions[0].Signature != "sigA" {
		t.Errorf("distributions not ordered oldest first: %s", st.Distributions[0].Signature)
	}
}

func TestGenerator_InvalidBeneficiary(t *testing.T) {
	ledger, distributions, _ := setupLedger(t)
	if _, err := NewGenerator(ledger, distributions).Generate(context.Background(), "not valid!"); err == nil {
		t.Fatal("expected error for malformed beneficiary")
	}
}

func TestRenderStatementCSV(t *testing.T) {
	ledger, distributions, wallet := setupLedger(t)
	st, err := NewGenerator(ledger, distributions).WithClock(func() time.Time { return testNow }).
		Generate(context.Background(), wallet)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	out := RenderStatementCSV(st)
	lines := strings.Split(out, "\n")
	if lines[0] != "created_at,surface,beneficiary,token_id,distribution_type,status,amount_sol,signature" {
		t.Errorf("unexpected header: %s", lines[0])
	}
	want := "2026-03-01T11:30:00Z,claw," + wallet + ",mint1,creator_claim,completed,0.200000000,sigA"
	if lines[1] != want {
		t.Errorf("row 1 = %s\nwant     %s", lines[1], want)
	}
	for _, s := range []string{"total_earned_sol,0.900000000", "pending_sol,0.100000000", "claimable_sol,0.600000000", "can_claim,false"} {
		if !strings.Contains(out, s) {
			t.Errorf("CSV missing %q", s)
		}
	}
}

func TestRenderStatementMarkdown(t *testing.T) {
	ledger, distributions, wallet := setupLedger(t)
	st, err := NewGenerator(ledger, distributions).Generate(context.Background(), wallet)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	md := RenderStatementMarkdown(st)
	for _, s := range []string{"# Creator Fee Statement", "## Summary", "## Tokens", "## Distributions", "1 pending distribution(s)"} {
		if !strings.Contains(md, s) {
			t.Errorf("Markdown missing %q", s)
		}
	}
}

func TestRenderStatementMarkdown_Empty(t *testing.T) {
	md := RenderStatementMarkdown(&Statement{Surface: "agent", Beneficiary: "someone", Summary: Summary{CanClaim: true}})
	if !strings.Contains(md, "No tokens found.") || !strings.Contains(md, "No distributions yet.") {
		t.Error("empty statement should say so")
	}
	if !strings.Contains(md, "| Next claim | now |") {
		t.Error("empty statement should be claimable now")
	}
}
