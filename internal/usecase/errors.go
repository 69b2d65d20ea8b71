package usecase

import (
	"errors"
	"strings"

	"go-care-scheduling/internal/domain/repository"

	"github.com/jackc/pgx/v5/pgconn"
)

// isDuplicateKeyError checks if the error is a unique violation on the named constraint
// or column
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		return pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName))
	}
	return errors.Is(err, repository.ErrDuplicateKey) && strings.Contains(err.Error(), constraintName)
}

// isForeignKeyError checks if the error is a foreign key violation on the named
// constraint
func isForeignKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23503 = foreign_key_violation
		return pgErr.Code == "23503" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName))
	}
	return errors.Is(err, repository.ErrForeignKey) && strings.Contains(err.Error(), constraintName)
}
