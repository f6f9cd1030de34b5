package memory

import (
	"context"
	"sort"
	"sync"

	"solana-launchpad/internal/domain"
	"solana-launchpad/internal/storage"
)

// FeeClaimStore is an in-memory implementation of storage.FeeClaimStore.
type FeeClaimStore struct {
	mu   sync.RWMutex
	data map[string]*domain.FeeClaimRecord // keyed by id
}

// NewFeeClaimStore creates a new in-memory fee claim store.
func NewFeeClaimStore() *FeeClaimStore {
	return &FeeClaimStore{
		data: make(map[string]*domain.FeeClaimRecord),
	}
}

// Insert adds a new fee claim. Returns ErrDuplicateKey if id exists.
func (s *FeeClaimStore) Insert(_ context.Context, c *domain.FeeClaimRecord) error {
	if c == nil || c.ID == "" || c.TokenID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[c.ID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *c
	s.data[c.ID] = &copy
	return nil
}

// GetByTokenIDs retrieves all fee claims for the given tokens, ordered by created_at ASC.
func (s *FeeClaimStore) GetByTokenIDs(_ context.Context, tokenIDs []string) ([]*domain.FeeClaimRecord, error) {
	if len(tokenIDs) == 0 {
		return nil, nil
	}
	scope := toSet(tokenIDs)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.FeeClaimRecord
	for _, c := range s.data {
		if _, ok := scope[c.TokenID]; ok {
			copy := *c
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

var _ storage.FeeClaimStore = (*FeeClaimStore)(nil)
