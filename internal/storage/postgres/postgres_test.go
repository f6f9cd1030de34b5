package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateKeyError(t *testing.T) {
	assert.False(t, isDuplicateKeyError(nil))
	assert.False(t, isDuplicateKeyError(errors.New("boom")))
	assert.True(t, isDuplicateKeyError(fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, isDuplicateKeyError(&pgconn.PgError{Code: "23503"}))
}

func TestIsNotFoundError(t *testing.T) {
	assert.True(t, isNotFoundError(fmt.Errorf("get: %w", pgx.ErrNoRows)))
	assert.False(t, isNotFoundError(errors.New("other")))
}

func TestTableName(t *testing.T) {
	assert.Equal(t, `"agent_distributions"`, tableName("agent_distributions"))
	assert.Equal(t, `"bad""; drop"`, tableName(`bad"; drop`))
}

func TestParseNumeric(t *testing.T) {
	d, err := parseNumeric("0.300000000")
	assert.NoError(t, err)
	assert.Equal(t, "0.3", d.String())

	_, err = parseNumeric("NaN")
	assert.Error(t, err)
}

func TestOperation(t *testing.T) {
	assert.Equal(t, "select", operation("\n\t\tSELECT 1"))
	assert.Equal(t, "insert", operation("insert into x values (1)"))
	assert.Equal(t, "other", operation("VACUUM"))
	assert.Equal(t, "unknown", operation("   "))
}
