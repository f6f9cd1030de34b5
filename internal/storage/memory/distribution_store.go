package memory

import (
	"context"
	"slices"
	"sort"
	"sync"

	"solana-launchpad/internal/domain"
	"solana-launchpad/internal/storage"
)

// DistributionStore is an in-memory implementation of storage.DistributionStore.
type DistributionStore struct {
	mu   sync.RWMutex
	data map[string]*domain.DistributionRecord // keyed by id

	// failInsert, when set, is returned by every insert. Used to simulate a ledger outage.
	failInsert error
}

// NewDistributionStore creates a new in-memory distribution store.
func NewDistributionStore() *DistributionStore {
	return &DistributionStore{
		data: make(map[string]*domain.DistributionRecord),
	}
}

// FailInserts makes subsequent inserts return err. Pass nil to restore normal behavior.
func (s *DistributionStore) FailInserts(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failInsert = err
}

// Insert adds a new distribution. Returns ErrDuplicateKey if id exists.
func (s *DistributionStore) Insert(_ context.Context, d *domain.DistributionRecord) error {
	if err := validateDistribution(d); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failInsert != nil {
		return s.failInsert
	}
	if _, exists := s.data[d.ID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *d
	s.data[d.ID] = &copy
	return nil
}

// InsertBulk adds multiple distributions atomically. Fails entire batch on any duplicate.
func (s *DistributionStore) InsertBulk(_ context.Context, records []*domain.DistributionRecord) error {
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failInsert != nil {
		return s.failInsert
	}

	// Track keys in this batch to detect intra-batch duplicates
	batchKeys := make(map[string]struct{}, len(records))

	// First pass: check for duplicates (existing + intra-batch)
	for _, d := range records {
		if err := validateDistribution(d); err != nil {
			return err
		}
		if _, exists := s.data[d.ID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[d.ID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[d.ID] = struct{}{}
	}

	// Second pass: insert all
	for _, d := range records {
		copy := *d
		s.data[d.ID] = &copy
	}

	return nil
}

// GetByBeneficiary retrieves all distributions for a beneficiary restricted to tokenIDs,
// ordered by created_at ASC.
func (s *DistributionStore) GetByBeneficiary(_ context.Context, beneficiary string, tokenIDs []string) ([]*domain.DistributionRecord, error) {
	var scope map[string]struct{}
	if tokenIDs != nil {
		scope = toSet(tokenIDs)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.DistributionRecord
	for _, d := range s.data {
		if d.BeneficiaryKey != beneficiary {
			continue
		}
		if scope != nil {
			if _, ok := scope[d.TokenID]; !ok {
				continue
			}
		}
		copy := *d
		result = append(result, &copy)
	}

	sortDistributions(result)
	return result, nil
}

// GetByTokenIDs retrieves every distribution for tokenIDs across all beneficiaries,
// ordered by created_at ASC.
func (s *DistributionStore) GetByTokenIDs(_ context.Context, tokenIDs []string) ([]*domain.DistributionRecord, error) {
	if len(tokenIDs) == 0 {
		return nil, nil
	}
	scope := toSet(tokenIDs)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.DistributionRecord
	for _, d := range s.data {
		if _, ok := scope[d.TokenID]; !ok {
			continue
		}
		copy := *d
		result = append(result, &copy)
	}

	sortDistributions(result)
	return result, nil
}

func sortDistributions(rows []*domain.DistributionRecord) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].ID < rows[j].ID
		}
		return rows[i].CreatedAt.Before(rows[j].CreatedAt)
	})
}

// LatestCompleted returns the most recent completed distribution of one of the given types.
// Returns ErrNotFound if there is none.
func (s *DistributionStore) LatestCompleted(_ context.Context, beneficiary string, types []string) (*domain.DistributionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *domain.DistributionRecord
	for _, d := range s.data {
		if d.BeneficiaryKey != beneficiary || d.Status != domain.DistributionStatusCompleted {
			continue
		}
		if !slices.Contains(types, d.DistributionType) {
			continue
		}
		if latest == nil || d.CreatedAt.After(latest.CreatedAt) {
			latest = d
		}
	}

	if latest == nil {
		return nil, storage.ErrNotFound
	}

	copy := *latest
	return &copy, nil
}

func validateDistribution(d *domain.DistributionRecord) error {
	if d == nil || d.ID == "" || d.TokenID == "" || d.BeneficiaryKey == "" {
		return storage.ErrInvalidInput
	}
	if d.AmountSol.IsNegative() {
		return storage.ErrInvalidInput
	}
	return nil
}

var _ storage.DistributionStore = (*DistributionStore)(nil)
