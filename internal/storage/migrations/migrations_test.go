package migrations

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_SortsAndSkipsBlank(t *testing.T) {
	fsys := fstest.MapFS{
		"pg/002_locks.sql":  {Data: []byte("CREATE TABLE b (x int);")},
		"pg/001_ledger.sql": {Data: []byte("CREATE TABLE a (x int);")},
		"pg/003_empty.sql":  {Data: []byte("  \n")},
		"pg/README.md":      {Data: []byte("not sql")},
	}

	ms, err := load(fsys, "pg")
	require.NoError(t, err)
	assert.Equal(t, []string{"001_ledger.sql", "002_locks.sql"}, names(ms))
}

func TestEmbedded(t *testing.T) {
	pg, err := Postgres()
	require.NoError(t, err)
	require.NotEmpty(t, pg)
	all := ""
	for _, m := range pg {
		all += m.SQL
	}
	for _, table := range []string{"agent_distributions", "claw_distributions", "claim_locks"} {
		assert.Contains(t, all, table)
	}

	ch, err := Clickhouse()
	require.NoError(t, err)
	require.NotEmpty(t, ch)
	assert.Len(t, splitStatements(ch[0].SQL), 1)
}

func TestSplitStatements(t *testing.T) {
	sql := strings.Join([]string{
		"-- curve history; two tables",
		"CREATE TABLE a (x String DEFAULT 'a;b');",
		"",
		"CREATE TABLE b (y Int64)",
		";",
		"INSERT INTO a VALUES ('it''s')",
	}, "\n")

	stmts := splitStatements(sql)
	require.Len(t, stmts, 3)
	assert.Equal(t, "CREATE TABLE a (x String DEFAULT 'a;b')", stmts[0])
	assert.Equal(t, "CREATE TABLE b (y Int64)", stmts[1])
	assert.Equal(t, "INSERT INTO a VALUES ('it''s')", stmts[2])
}
