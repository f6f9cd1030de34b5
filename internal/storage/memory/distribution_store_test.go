package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"solana-launchpad/internal/domain"
	"solana-launchpad/internal/storage"
)

func testDistribution(id, token, beneficiary, status string, at time.Time) *domain.DistributionRecord {
	return &domain.DistributionRecord{
		ID:               id,
		TokenID:          token,
		BeneficiaryKey:   beneficiary,
		AmountSol:        decimal.RequireFromString("0.1"),
		DistributionType: domain.DistributionTypeCreatorClaim,
		Status:           status,
		Signature:        "sig-" + id,
		CreatedAt:        at,
	}
}

func TestDistributionStore_InsertBulkAtomic(t *testing.T) {
	store := NewDistributionStore()
	ctx := context.Background()
	now := time.Now()

	if err := store.Insert(ctx, testDistribution("d1", "tokA", "alice", domain.DistributionStatusCompleted, now)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	// d1 already exists, so d2 must not be written either.
	batch := []*domain.DistributionRecord{
		testDistribution("d2", "tokA", "alice", domain.DistributionStatusCompleted, now),
		testDistribution("d1", "tokB", "alice", domain.DistributionStatusCompleted, now),
	}
	err := store.InsertBulk(ctx, batch)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("Expected ErrDuplicateKey, got %v", err)
	}

	got, _ := store.GetByBeneficiary(ctx, "alice", nil)
	if len(got) != 1 {
		t.Errorf("expected 1 distribution after failed batch, got %d", len(got))
	}

	// Intra-batch duplicate
	err = store.InsertBulk(ctx, []*domain.DistributionRecord{
		testDistribution("d3", "tokA", "alice", domain.DistributionStatusCompleted, now),
		testDistribution("d3", "tokB", "alice", domain.DistributionStatusCompleted, now),
	})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey for intra-batch duplicate, got %v", err)
	}
}

func TestDistributionStore_GetByBeneficiaryScope(t *testing.T) {
	store := NewDistributionStore()
	ctx := context.Background()
	now := time.Now()

	err := store.InsertBulk(ctx, []*domain.DistributionRecord{
		testDistribution("d1", "tokA", "alice", domain.DistributionStatusCompleted, now),
		testDistribution("d2", "tokB", "alice", domain.DistributionStatusCompleted, now.Add(time.Second)),
		testDistribution("d3", "tokA", "bob", domain.DistributionStatusCompleted, now),
	})
	if err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetByBeneficiary(ctx, "alice", []string{"tokA"})
	if err != nil {
		t.Fatalf("GetByBeneficiary failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "d1" {
		t.Errorf("expected only d1, got %d rows", len(got))
	}

	all, _ := store.GetByBeneficiary(ctx, "alice", nil)
	if len(all) != 2 {
		t.Errorf("expected 2 rows for nil scope, got %d", len(all))
	}

	none, _ := store.GetByBeneficiary(ctx, "alice", []string{})
	if len(none) != 0 {
		t.Errorf("expected 0 rows for empty scope, got %d", len(none))
	}
}

func TestDistributionStore_GetByTokenIDsAcrossBeneficiaries(t *testing.T) {
	store := NewDistributionStore()
	ctx := context.Background()
	now := time.Now()

	err := store.InsertBulk(ctx, []*domain.DistributionRecord{
		testDistribution("d1", "tokA", "alice", domain.DistributionStatusCompleted, now.Add(time.Second)),
		testDistribution("d2", "tokA", "alice_handle", domain.DistributionStatusPending, now),
		testDistribution("d3", "tokB", "alice", domain.DistributionStatusCompleted, now),
	})
	if err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetByTokenIDs(ctx, []string{"tokA"})
	if err != nil {
		t.Fatalf("GetByTokenIDs failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows for tokA, got %d", len(got))
	}
	if got[0].ID != "d2" || got[1].ID != "d1" {
		t.Errorf("expected created_at order d2, d1; got %s, %s", got[0].ID, got[1].ID)
	}

	none, _ := store.GetByTokenIDs(ctx, nil)
	if len(none) != 0 {
		t.Errorf("expected 0 rows for empty scope, got %d", len(none))
	}
}

func TestDistributionStore_LatestCompleted(t *testing.T) {
	store := NewDistributionStore()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	_, err := store.LatestCompleted(ctx, "alice", domain.CreatorDistributionTypes)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound on empty store, got %v", err)
	}

	other := testDistribution("d4", "tokA", "alice", domain.DistributionStatusCompleted, base.Add(3*time.Hour))
	other.DistributionType = "platform"

	err = store.InsertBulk(ctx, []*domain.DistributionRecord{
		testDistribution("d1", "tokA", "alice", domain.DistributionStatusCompleted, base),
		testDistribution("d2", "tokA", "alice", domain.DistributionStatusCompleted, base.Add(time.Hour)),
		testDistribution("d3", "tokA", "alice", domain.DistributionStatusPending, base.Add(2*time.Hour)),
		other,
	})
	if err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	latest, err := store.LatestCompleted(ctx, "alice", domain.CreatorDistributionTypes)
	if err != nil {
		t.Fatalf("LatestCompleted failed: %v", err)
	}
	if latest.ID != "d2" {
		t.Errorf("expected d2, got %s", latest.ID)
	}
}

func TestDistributionStore_FailInserts(t *testing.T) {
	store := NewDistributionStore()
	ctx := context.Background()
	outage := errors.New("connection reset")

	store.FailInserts(outage)
	err := store.InsertBulk(ctx, []*domain.DistributionRecord{
		testDistribution("d1", "tokA", "alice", domain.DistributionStatusCompleted, time.Now()),
	})
	if !errors.Is(err, outage) {
		t.Fatalf("Expected injected error, got %v", err)
	}

	store.FailInserts(nil)
	if err := store.Insert(ctx, testDistribution("d1", "tokA", "alice", domain.DistributionStatusCompleted, time.Now())); err != nil {
		t.Errorf("Insert after recovery failed: %v", err)
	}
}
