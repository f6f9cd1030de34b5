package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"solana-launchpad/internal/domain"
	"solana-launchpad/internal/storage"
)

// DistributionStore implements storage.DistributionStore using PostgreSQL.
// Each product surface has its own table.
type DistributionStore struct {
	pool  *Pool
	table string
}

// NewDistributionStore creates a new DistributionStore over the given table.
func NewDistributionStore(pool *Pool, table string) *DistributionStore {
	return &DistributionStore{pool: pool, table: tableName(table)}
}

// Compile-time interface check.
var _ storage.DistributionStore = (*DistributionStore)(nil)

func (s *DistributionStore) insertQuery() string {
	return `
		INSERT INTO ` + s.table + ` (
			id, token_id, beneficiary_key, amount_sol,
			distribution_type, status, signature, created_at
		) VALUES (
			$1, $2, $3, $4::text::numeric,
			$5, $6, $7, $8
		)
	`
}

func distributionArgs(d *domain.DistributionRecord) []any {
	return []any{
		d.ID, d.TokenID, d.BeneficiaryKey, d.AmountSol.String(),
		d.DistributionType, d.Status, d.Signature, d.CreatedAt,
	}
}

// Insert adds a new distribution. Returns ErrDuplicateKey if id exists.
func (s *DistributionStore) Insert(ctx context.Context, d *domain.DistributionRecord) error {
	if d == nil || d.ID == "" || d.TokenID == "" || d.BeneficiaryKey == "" {
		return storage.ErrInvalidInput
	}

	_, err := s.pool.Exec(ctx, s.insertQuery(), distributionArgs(d)...)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert distribution: %w", err)
	}
	return nil
}

// InsertBulk adds multiple distributions atomically. Fails entire batch on any duplicate.
func (s *DistributionStore) InsertBulk(ctx context.Context, records []*domain.DistributionRecord) error {
	if len(records) == 0 {
		return nil
	}
	for _, d := range records {
		if d == nil || d.ID == "" || d.TokenID == "" || d.BeneficiaryKey == "" {
			return storage.ErrInvalidInput
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := s.insertQuery()
	for _, d := range records {
		if _, err := tx.Exec(ctx, query, distributionArgs(d)...); err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert distribution in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

const distributionColumns = `
	id, token_id, beneficiary_key, amount_sol::text,
	distribution_type, status, signature, created_at
`

// GetByBeneficiary retrieves all distributions for a beneficiary restricted to tokenIDs.
func (s *DistributionStore) GetByBeneficiary(ctx context.Context, beneficiary string, tokenIDs []string) ([]*domain.DistributionRecord, error) {
	if tokenIDs != nil && len(tokenIDs) == 0 {
		return nil, nil
	}

	query := `SELECT ` + distributionColumns + ` FROM ` + s.table + ` WHERE beneficiary_key = $1`
	args := []any{beneficiary}
	if tokenIDs != nil {
		query += ` AND token_id = ANY($2)`
		args = append(args, tokenIDs)
	}
	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query distributions by beneficiary: %w", err)
	}
	return collectDistributions(rows)
}

// GetByTokenIDs retrieves every distribution for tokenIDs across all beneficiaries.
func (s *DistributionStore) GetByTokenIDs(ctx context.Context, tokenIDs []string) ([]*domain.DistributionRecord, error) {
	if len(tokenIDs) == 0 {
		return nil, nil
	}

	query := `SELECT ` + distributionColumns + ` FROM ` + s.table + `
		WHERE token_id = ANY($1)
		ORDER BY created_at ASC, id ASC`

	rows, err := s.pool.Query(ctx, query, tokenIDs)
	if err != nil {
		return nil, fmt.Errorf("query distributions by token: %w", err)
	}
	return collectDistributions(rows)
}

func collectDistributions(rows pgx.Rows) ([]*domain.DistributionRecord, error) {
	defer rows.Close()

	var result []*domain.DistributionRecord
	for rows.Next() {
		d, err := scanDistribution(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate distribution rows: %w", err)
	}

	return result, nil
}

// LatestCompleted returns the most recent completed distribution of one of the given types.
func (s *DistributionStore) LatestCompleted(ctx context.Context, beneficiary string, types []string) (*domain.DistributionRecord, error) {
	query := `
		SELECT ` + distributionColumns + `
		FROM ` + s.table + `
		WHERE beneficiary_key = $1 AND status = $2 AND distribution_type = ANY($3)
		ORDER BY created_at DESC
		LIMIT 1
	`

	row := s.pool.QueryRow(ctx, query, beneficiary, domain.DistributionStatusCompleted, types)
	d, err := scanDistribution(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get latest completed distribution: %w", err)
	}
	return d, nil
}

// scanDistribution scans a single row. pgx.ErrNoRows is returned unwrapped.
func scanDistribution(row pgx.Row) (*domain.DistributionRecord, error) {
	var d domain.DistributionRecord
	var amount string

	err := row.Scan(
		&d.ID, &d.TokenID, &d.BeneficiaryKey, &amount,
		&d.DistributionType, &d.Status, &d.Signature, &d.CreatedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("scan distribution row: %w", err)
	}

	d.AmountSol, err = parseNumeric(amount)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
