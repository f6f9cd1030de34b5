package memory

import (
	"context"
	"errors"
	"testing"

	"solana-launchpad/internal/domain"
	"solana-launchpad/internal/storage"
)

func TestTokenScopeStore_TokensForBeneficiary(t *testing.T) {
	store := NewTokenScopeStore()
	ctx := context.Background()

	tokens := []*domain.Token{
		{ID: "mintB", CreatorWallet: "walletA"},
		{ID: "mintA", CreatorWallet: "walletA", CreatorHandle: "alice"},
		{ID: "mintC", CreatorHandle: "alice"},
		{ID: "mintD", CreatorWallet: "walletB"},
	}
	for _, tok := range tokens {
		if err := store.Insert(ctx, tok); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	byWallet, _ := store.TokensForBeneficiary(ctx, "walletA")
	if len(byWallet) != 2 || byWallet[0] != "mintA" || byWallet[1] != "mintB" {
		t.Errorf("wallet scope: got %v", byWallet)
	}

	byHandle, _ := store.TokensForBeneficiary(ctx, "alice")
	if len(byHandle) != 2 || byHandle[0] != "mintA" || byHandle[1] != "mintC" {
		t.Errorf("handle scope: got %v", byHandle)
	}

	unknown, err := store.TokensForBeneficiary(ctx, "nobody")
	if err != nil || unknown == nil || len(unknown) != 0 {
		t.Errorf("unknown beneficiary: got %v, %v", unknown, err)
	}
}

func TestTokenScopeStore_Validation(t *testing.T) {
	store := NewTokenScopeStore()
	ctx := context.Background()

	if err := store.Insert(ctx, &domain.Token{ID: "mintA"}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for ownerless token, got %v", err)
	}

	tok := &domain.Token{ID: "mintA", CreatorWallet: "w"}
	_ = store.Insert(ctx, tok)
	if err := store.Insert(ctx, tok); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}
