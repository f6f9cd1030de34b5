package migrations

import (
	"context"
	"fmt"

	"solana-launchpad/internal/storage/postgres"
)

// RunPostgresMigrations applies the ledger schema for every surface and the shared
// lock table. Each file is sent as one multi-statement Exec and must be idempotent.
// Returns the applied file names.
func RunPostgresMigrations(ctx context.Context, pool *postgres.Pool) ([]string, error) {
	ms, err := Postgres()
	if err != nil {
		return nil, err
	}
	for _, m := range ms {
		if _, err := pool.Exec(ctx, m.SQL); err != nil {
			return nil, fmt.Errorf("apply migration %s: %w", m.Name, err)
		}
	}
	return names(ms), nil
}
