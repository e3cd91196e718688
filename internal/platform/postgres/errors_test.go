package postgres_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/scry-review/internal/platform/postgres"
	"github.com/phrazzld/scry-review/internal/store"
	"github.com/stretchr/testify/assert"
)

func newPgError(code string) *pgconn.PgError {
	return &pgconn.PgError{
		Code:           code,
		Message:        "error message",
		TableName:      "review_cards",
		ColumnName:     "mastery_tier",
		ConstraintName: "review_cards_mastery_tier_check",
	}
}

func TestMapError(t *testing.T) {
	t.Parallel()

	plain := errors.New("connection refused")
	plainPg := newPgError("22001")

	tests := []struct {
		name   string
		err    error
		target error
	}{
		{name: "no rows", err: sql.ErrNoRows, target: store.ErrNotFound},
		{name: "unique violation", err: newPgError("23505"), target: store.ErrDuplicate},
		{name: "check violation", err: newPgError("23514"), target: store.ErrInvalidEntity},
		{name: "not null violation", err: newPgError("23502"), target: store.ErrInvalidEntity},
		{name: "serialization failure", err: newPgError("40001"), target: store.ErrTransactionFailed},
		{name: "deadlock", err: newPgError("40P01"), target: store.ErrTransactionFailed},
		{name: "unmapped pg error", err: plainPg, target: plainPg},
		{name: "wrapped unique violation", err: fmt.Errorf("insert: %w", newPgError("23505")), target: store.ErrDuplicate},
		{name: "unmapped error", err: plain, target: plain},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.ErrorIs(t, postgres.MapError(tc.err), tc.target)
		})
	}

	assert.NoError(t, postgres.MapError(nil))
}

func TestMapErrorKeepsDriverError(t *testing.T) {
	t.Parallel()

	pgErr := newPgError("23514")
	mapped := postgres.MapError(pgErr)

	var got *pgconn.PgError
	assert.ErrorAs(t, mapped, &got)
	assert.Contains(t, mapped.Error(), "review_cards_mastery_tier_check")
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()
	assert.True(t, postgres.IsUniqueViolation(newPgError("23505")))
	assert.True(t, postgres.IsUniqueViolation(fmt.Errorf("wrapped: %w", newPgError("23505"))))
	assert.False(t, postgres.IsUniqueViolation(newPgError("23514")))
	assert.False(t, postgres.IsUniqueViolation(errors.New("23505")))
	assert.False(t, postgres.IsUniqueViolation(nil))
}
