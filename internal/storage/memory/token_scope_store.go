package memory

import (
	"context"
	"sort"
	"sync"

	"solana-launchpad/internal/domain"
	"solana-launchpad/internal/storage"
)

// TokenScopeStore is an in-memory implementation of storage.TokenScopeStore.
type TokenScopeStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Token // keyed by token id
}

// NewTokenScopeStore creates a new in-memory token scope store.
func NewTokenScopeStore() *TokenScopeStore {
	return &TokenScopeStore{
		data: make(map[string]*domain.Token),
	}
}

// Insert adds a token. Returns ErrDuplicateKey if id exists.
func (s *TokenScopeStore) Insert(_ context.Context, t *domain.Token) error {
	if t == nil || t.ID == "" || (t.CreatorWallet == "" && t.CreatorHandle == "") {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[t.ID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *t
	s.data[t.ID] = &copy
	return nil
}

// TokensForBeneficiary returns the ids of tokens whose creator wallet or handle equals beneficiary.
func (s *TokenScopeStore) TokensForBeneficiary(_ context.Context, beneficiary string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []string{}
	if beneficiary == "" {
		return result, nil
	}
	for id, t := range s.data {
		if t.CreatorWallet == beneficiary || t.CreatorHandle == beneficiary {
			result = append(result, id)
		}
	}

	sort.Strings(result)
	return result, nil
}

var _ storage.TokenScopeStore = (*TokenScopeStore)(nil)
