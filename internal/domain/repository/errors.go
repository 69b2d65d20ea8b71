package repository

import "errors"

// Constraint errors for implementations that do not surface Postgres errors. The
// wrapped message names the violated column.
var (
	ErrDuplicateKey = errors.New("duplicate key value violates unique constraint")
	ErrForeignKey   = errors.New("violates foreign key constraint")
)
