package memory

import (
	"context"
	"sort"
	"sync"

	"solana-launchpad/internal/domain"
	"solana-launchpad/internal/storage"
)

// curvePointKey is the composite key for curve points.
type curvePointKey struct {
	TokenID     string
	TimestampMs int64
}

// CurvePointStore is an in-memory implementation of storage.CurvePointStore.
type CurvePointStore struct {
	mu   sync.RWMutex
	data map[curvePointKey]*domain.CurvePoint
}

// NewCurvePointStore creates a new in-memory curve point store.
func NewCurvePointStore() *CurvePointStore {
	return &CurvePointStore{
		data: make(map[curvePointKey]*domain.CurvePoint),
	}
}

// InsertBulk adds multiple points. Fails entire batch on duplicate (token_id, timestamp_ms).
func (s *CurvePointStore) InsertBulk(_ context.Context, points []*domain.CurvePoint) error {
	if len(points) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[curvePointKey]struct{}, len(points))
	for _, p := range points {
		if p == nil || p.TokenID == "" {
			return storage.ErrInvalidInput
		}
		key := curvePointKey{TokenID: p.TokenID, TimestampMs: p.TimestampMs}
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, p := range points {
		copy := *p
		s.data[curvePointKey{TokenID: p.TokenID, TimestampMs: p.TimestampMs}] = &copy
	}

	return nil
}

// GetByTimeRange retrieves points for a token within [start, end] (inclusive), ordered by timestamp ASC.
func (s *CurvePointStore) GetByTimeRange(_ context.Context, tokenID string, start, end int64) ([]*domain.CurvePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.CurvePoint
	for key, p := range s.data {
		if key.TokenID == tokenID && key.TimestampMs >= start && key.TimestampMs <= end {
			copy := *p
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].TimestampMs < result[j].TimestampMs
	})

	return result, nil
}

var _ storage.CurvePointStore = (*CurvePointStore)(nil)
