package clickhouse

import (
	"context"
	"fmt"
	"time"

	"solana-launchpad/internal/domain"
	"solana-launchpad/internal/observability"
	"solana-launchpad/internal/storage"
)

// CurvePointStore implements storage.CurvePointStore using ClickHouse.
type CurvePointStore struct {
	conn *Conn
}

// NewCurvePointStore creates a new CurvePointStore.
func NewCurvePointStore(conn *Conn) *CurvePointStore {
	return &CurvePointStore{conn: conn}
}

// Compile-time interface check.
var _ storage.CurvePointStore = (*CurvePointStore)(nil)

// InsertBulk adds multiple points. Fails entire batch on duplicate (token_id, timestamp_ms).
func (s *CurvePointStore) InsertBulk(ctx context.Context, points []*domain.CurvePoint) (err error) {
	if len(points) == 0 {
		return nil
	}
	defer observeQuery("insert", time.Now(), &err)

	// Check for intra-batch duplicates
	type key struct {
		tokenID     string
		timestampMs int64
	}
	seen := make(map[key]struct{})
	for _, p := range points {
		if p == nil || p.TokenID == "" {
			return storage.ErrInvalidInput
		}
		k := key{p.TokenID, p.TimestampMs}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	// MergeTree does not enforce uniqueness, so check existing rows explicitly.
	for _, p := range points {
		exists, err := s.exists(ctx, p.TokenID, p.TimestampMs)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO curve_points (
			token_id, timestamp_ms, spot_price, effective_sol, effective_token,
			real_sol, market_cap_sol, progress_pct
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range points {
		err = batch.Append(
			p.TokenID, p.TimestampMs, p.SpotPrice, p.EffectiveSol, p.EffectiveToken,
			p.RealSol, p.MarketCapSol, p.ProgressPct,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByTimeRange retrieves points for a token within [start, end] (inclusive).
func (s *CurvePointStore) GetByTimeRange(ctx context.Context, tokenID string, start, end int64) (_ []*domain.CurvePoint, err error) {
	defer observeQuery("select", time.Now(), &err)

	query := `
		SELECT token_id, timestamp_ms, spot_price, effective_sol, effective_token,
			real_sol, market_cap_sol, progress_pct
		FROM curve_points
		WHERE token_id = ? AND timestamp_ms >= ? AND timestamp_ms <= ?
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, tokenID, start, end)
	if err != nil {
		return nil, fmt.Errorf("query by time range: %w", err)
	}
	defer rows.Close()

	return scanCurvePoints(rows)
}

func observeQuery(op string, start time.Time, err *error) {
	observability.RecordDBQuery("clickhouse", op, time.Since(start).Seconds(), *err)
}

// exists checks if a point with the given key exists.
func (s *CurvePointStore) exists(ctx context.Context, tokenID string, timestampMs int64) (bool, error) {
	query := `
		SELECT count(*) FROM curve_points
		WHERE token_id = ? AND timestamp_ms = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query, tokenID, timestampMs).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// scanCurvePoints scans multiple rows.
func scanCurvePoints(rows chRows) ([]*domain.CurvePoint, error) {
	var points []*domain.CurvePoint

	for rows.Next() {
		var p domain.CurvePoint
		err := rows.Scan(
			&p.TokenID, &p.TimestampMs, &p.SpotPrice, &p.EffectiveSol, &p.EffectiveToken,
			&p.RealSol, &p.MarketCapSol, &p.ProgressPct,
		)
		if err != nil {
			return nil, fmt.Errorf("scan curve point row: %w", err)
		}
		points = append(points, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate curve point rows: %w", err)
	}

	return points, nil
}
