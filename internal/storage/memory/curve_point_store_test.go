package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"solana-launchpad/internal/domain"
	"solana-launchpad/internal/storage"
)

func TestCurvePointStore_TimeRange(t *testing.T) {
	store := NewCurvePointStore()
	ctx := context.Background()

	points := []*domain.CurvePoint{
		{TokenID: "mintA", TimestampMs: 3000, SpotPrice: decimal.RequireFromString("0.00000003")},
		{TokenID: "mintA", TimestampMs: 1000, SpotPrice: decimal.RequireFromString("0.00000001")},
		{TokenID: "mintA", TimestampMs: 2000, SpotPrice: decimal.RequireFromString("0.00000002")},
		{TokenID: "mintB", TimestampMs: 2000},
	}
	if err := store.InsertBulk(ctx, points); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetByTimeRange(ctx, "mintA", 1000, 2000)
	if err != nil {
		t.Fatalf("GetByTimeRange failed: %v", err)
	}
	if len(got) != 2 || got[0].TimestampMs != 1000 || got[1].TimestampMs != 2000 {
		t.Errorf("unexpected range result: %d points", len(got))
	}
}

func TestCurvePointStore_DuplicateKey(t *testing.T) {
	store := NewCurvePointStore()
	ctx := context.Background()

	p := &domain.CurvePoint{TokenID: "mintA", TimestampMs: 1000}
	if err := store.InsertBulk(ctx, []*domain.CurvePoint{p}); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	err := store.InsertBulk(ctx, []*domain.CurvePoint{{TokenID: "mintA", TimestampMs: 2000}, p})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("Expected ErrDuplicateKey, got %v", err)
	}

	got, _ := store.GetByTimeRange(ctx, "mintA", 0, 5000)
	if len(got) != 1 {
		t.Errorf("failed batch was partially applied: %d points", len(got))
	}
}
