package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestErrorCodeHelpers(t *testing.T) {
	unique := fmt.Errorf("insert failed: %w", &pgconn.PgError{Code: "23505"})
	fk := &pgconn.PgError{Code: "23503"}

	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsForeignKeyViolation(unique))
	assert.True(t, IsForeignKeyViolation(fk))
	assert.True(t, IsInvalidInput(&pgconn.PgError{Code: "22P02"}))
	assert.True(t, IsNotNullViolation(&pgconn.PgError{Code: "23502"}))
	assert.False(t, IsNotNullViolation(fk))
	assert.False(t, IsUniqueViolation(errors.New("plain error")))
	assert.False(t, IsUniqueViolation(nil))
}
