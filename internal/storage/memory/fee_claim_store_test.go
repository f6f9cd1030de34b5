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

func TestFeeClaimStore_GetByTokenIDs(t *testing.T) {
	store := NewFeeClaimStore()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	claims := []*domain.FeeClaimRecord{
		{ID: "c3", TokenID: "tokB", ClaimedSol: decimal.RequireFromString("0.2"), CreatedAt: base.Add(2 * time.Minute)},
		{ID: "c1", TokenID: "tokA", ClaimedSol: decimal.RequireFromString("0.5"), CreatedAt: base},
		{ID: "c2", TokenID: "tokC", ClaimedSol: decimal.RequireFromString("9"), CreatedAt: base.Add(time.Minute)},
	}
	for _, c := range claims {
		if err := store.Insert(ctx, c); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	got, err := store.GetByTokenIDs(ctx, []string{"tokA", "tokB"})
	if err != nil {
		t.Fatalf("GetByTokenIDs failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 claims, got %d", len(got))
	}
	if got[0].ID != "c1" || got[1].ID != "c3" {
		t.Errorf("wrong order: %s, %s", got[0].ID, got[1].ID)
	}

	empty, err := store.GetByTokenIDs(ctx, nil)
	if err != nil {
		t.Fatalf("GetByTokenIDs(nil) failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected no claims for empty scope, got %d", len(empty))
	}
}

func TestFeeClaimStore_DuplicateKey(t *testing.T) {
	store := NewFeeClaimStore()
	ctx := context.Background()

	c := &domain.FeeClaimRecord{ID: "c1", TokenID: "tokA", ClaimedSol: decimal.NewFromInt(1)}
	if err := store.Insert(ctx, c); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.Insert(ctx, c)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestFeeClaimStore_ReturnsCopies(t *testing.T) {
	store := NewFeeClaimStore()
	ctx := context.Background()

	c := &domain.FeeClaimRecord{ID: "c1", TokenID: "tokA", ClaimedSol: decimal.NewFromInt(1)}
	if err := store.Insert(ctx, c); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	c.ClaimedSol = decimal.NewFromInt(100)

	got, _ := store.GetByTokenIDs(ctx, []string{"tokA"})
	if !got[0].ClaimedSol.Equal(decimal.NewFromInt(1)) {
		t.Errorf("store aliased caller's record: got %s", got[0].ClaimedSol)
	}
}
