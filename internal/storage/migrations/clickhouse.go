package migrations

import (
	"context"
	"fmt"
	"strings"

	chstore "solana-launchpad/internal/storage/clickhouse"
)

// RunClickhouseMigrations creates the curve history tables in the database conn
// points at, which must already exist. Returns the applied file names.
func RunClickhouseMigrations(ctx context.Context, conn *chstore.Conn) ([]string, error) {
	ms, err := Clickhouse()
	if err != nil {
		return nil, err
	}
	for _, m := range ms {
		// The driver runs one statement per Exec.
		for _, stmt := range splitStatements(m.SQL) {
			if err := conn.Exec(ctx, stmt); err != nil {
				return nil, fmt.Errorf("apply migration %s: %w", m.Name, err)
			}
		}
	}
	return names(ms), nil
}

// splitStatements cuts SQL at semicolons outside single-quoted strings and drops
// -- comment lines.
func splitStatements(sql string) []string {
	var (
		stmts    []string
		cur      strings.Builder
		inString bool
	)
	flush := func() {
		if stmt := strings.TrimSpace(cur.String()); stmt != "" {
			stmts = append(stmts, stmt)
		}
		cur.Reset()
	}

	for _, line := range strings.Split(sql, "\n") {
		if !inString && strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		for i := 0; i < len(line); i++ {
			ch := line[i]
			switch {
			case ch == '\'':
				inString = !inString
			case ch == ';' && !inString:
				flush()
				continue
			}
			cur.WriteByte(ch)
		}
		cur.WriteByte('\n')
	}
	flush()
	return stmts
}
