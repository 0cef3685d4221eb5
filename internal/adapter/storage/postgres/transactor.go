package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Transactor hands out pgx transactions to the service layer, which runs the
// lifecycle and wallet flows under row locks. It wraps the Pool interface so
// tests can substitute pgxmock.
type Transactor struct {
	pool Pool
}

// NewTransactor wraps the connection pool.
func NewTransactor(pool Pool) *Transactor {
	return &Transactor{pool: pool}
}

// Begin opens a transaction at the pool's default isolation level (read
// committed, which the conditional claim and cancel UPDATEs assume).
func (t *Transactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return t.pool.Begin(ctx)
}
