package repository

import (
	"context"

	"marketplace-backend/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ TxRunner = (*PgTxRunner)(nil)

// PgTxRunner hands fn a Repository bound to a read-committed transaction.
type PgTxRunner struct {
	pool *pgxpool.Pool
}

func NewTxRunner(pool *pgxpool.Pool) *PgTxRunner {
	return &PgTxRunner{pool: pool}
}

func (r *PgTxRunner) WithinTx(ctx context.Context, fn func(repo Repository) error) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(NewPostgresRepository(tx))
	})
}
