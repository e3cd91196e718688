package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/scry-review/internal/store"
)

// SQLSTATE codes with a store mapping.
const (
	uniqueViolationCode      = "23505"
	checkViolationCode       = "23514"
	notNullViolationCode     = "23502"
	serializationFailureCode = "40001"
	deadlockDetectedCode     = "40P01"
)

// MapError translates driver errors into store sentinels so callers can
// match with errors.Is. The original error stays in the chain. Errors with
// no mapping are returned as they are.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %w", store.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case uniqueViolationCode:
		return fmt.Errorf("%w: %w", store.ErrDuplicate, err)
	case checkViolationCode:
		return fmt.Errorf("%w: constraint %s: %w", store.ErrInvalidEntity, pgErr.ConstraintName, err)
	case notNullViolationCode:
		return fmt.Errorf("%w: column %s is required: %w", store.ErrInvalidEntity, pgErr.ColumnName, err)
	case serializationFailureCode, deadlockDetectedCode:
		return fmt.Errorf("%w: %w", store.ErrTransactionFailed, err)
	default:
		return err
	}
}

// IsUniqueViolation reports whether err is a unique constraint violation,
// which for review_cards means the card ID is taken.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
