package postgres

import (
	"context"
	"fmt"

	"solana-launchpad/internal/domain"
	"solana-launchpad/internal/storage"
)

// TokenScopeStore implements storage.TokenScopeStore using PostgreSQL.
type TokenScopeStore struct {
	pool  *Pool
	table string
}

// NewTokenScopeStore creates a new TokenScopeStore over the given tokens table.
func NewTokenScopeStore(pool *Pool, table string) *TokenScopeStore {
	return &TokenScopeStore{pool: pool, table: tableName(table)}
}

// Compile-time interface check.
var _ storage.TokenScopeStore = (*TokenScopeStore)(nil)

// Insert adds a token. Returns ErrDuplicateKey if id exists.
func (s *TokenScopeStore) Insert(ctx context.Context, t *domain.Token) error {
	if t == nil || t.ID == "" || (t.CreatorWallet == "" && t.CreatorHandle == "") {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO ` + s.table + ` (token_id, creator_wallet, creator_handle, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := s.pool.Exec(ctx, query, t.ID, t.CreatorWallet, t.CreatorHandle, t.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

// TokensForBeneficiary returns the ids of tokens created by the wallet or credited to the handle.
func (s *TokenScopeStore) TokensForBeneficiary(ctx context.Context, beneficiary string) ([]string, error) {
	result := []string{}
	if beneficiary == "" {
		return result, nil
	}

	query := `
		SELECT token_id FROM ` + s.table + `
		WHERE creator_wallet = $1 OR creator_handle = $1
		ORDER BY token_id ASC
	`

	rows, err := s.pool.Query(ctx, query, beneficiary)
	if err != nil {
		return nil, fmt.Errorf("query tokens for beneficiary: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan token row: %w", err)
		}
		result = append(result, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate token rows: %w", err)
	}

	return result, nil
}
