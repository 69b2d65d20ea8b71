package repository

import (
	"context"

	"gorm.io/gorm"
)

// Transactor hands out database handles to usecases. Repositories take the handle as
// their first argument so a usecase can run several of them in one transaction.
type Transactor interface {
	// Conn returns a non-transactional handle bound to ctx.
	Conn(ctx context.Context) *gorm.DB
	// WithinTransaction runs fn in a transaction; a non-nil error rolls it back.
	WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}
