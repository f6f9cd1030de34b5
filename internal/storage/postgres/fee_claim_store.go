package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"solana-launchpad/internal/domain"
	"solana-launchpad/internal/storage"
)

// FeeClaimStore implements storage.FeeClaimStore using PostgreSQL.
// Each product surface has its own table.
type FeeClaimStore struct {
	pool  *Pool
	table string
}

// NewFeeClaimStore creates a new FeeClaimStore over the given table.
func NewFeeClaimStore(pool *Pool, table string) *FeeClaimStore {
	return &FeeClaimStore{pool: pool, table: tableName(table)}
}

// Compile-time interface check.
var _ storage.FeeClaimStore = (*FeeClaimStore)(nil)

// Insert adds a new fee claim. Returns ErrDuplicateKey if id exists.
func (s *FeeClaimStore) Insert(ctx context.Context, c *domain.FeeClaimRecord) error {
	if c == nil || c.ID == "" || c.TokenID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO ` + s.table + ` (id, token_id, claimed_sol, signature, created_at)
		VALUES ($1, $2, $3::text::numeric, $4, $5)
	`

	_, err := s.pool.Exec(ctx, query, c.ID, c.TokenID, c.ClaimedSol.String(), c.Signature, c.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert fee claim: %w", err)
	}
	return nil
}

// GetByTokenIDs retrieves all fee claims for the given tokens, ordered by created_at ASC.
func (s *FeeClaimStore) GetByTokenIDs(ctx context.Context, tokenIDs []string) ([]*domain.FeeClaimRecord, error) {
	if len(tokenIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, token_id, claimed_sol::text, signature, created_at
		FROM ` + s.table + `
		WHERE token_id = ANY($1)
		ORDER BY created_at ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, tokenIDs)
	if err != nil {
		return nil, fmt.Errorf("query fee claims by token ids: %w", err)
	}
	defer rows.Close()

	return scanFeeClaims(rows)
}

// scanFeeClaims scans multiple rows.
func scanFeeClaims(rows pgx.Rows) ([]*domain.FeeClaimRecord, error) {
	var claims []*domain.FeeClaimRecord

	for rows.Next() {
		var c domain.FeeClaimRecord
		var claimed string
		if err := rows.Scan(&c.ID, &c.TokenID, &claimed, &c.Signature, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan fee claim row: %w", err)
		}
		amount, err := parseNumeric(claimed)
		if err != nil {
			return nil, err
		}
		c.ClaimedSol = amount
		claims = append(claims, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fee claim rows: %w", err)
	}

	return claims, nil
}
