package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"gym-membership-platform/internal/domain"
	"gym-membership-platform/internal/domain/ports/repository"
)

var _ repository.CounterRepository = (*counterRepo)(nil)

type counterRepo struct{ pool *pgxpool.Pool }

func NewCounterRepo(pool *pgxpool.Pool) *counterRepo {
	return &counterRepo{pool: pool}
}

// Next is a single upsert so concurrent callers serialize on the row and each
// observe a distinct value.
func (r *counterRepo) Next(ctx context.Context, tx repository.Tx, key string) (int64, error) {
	const q = `
INSERT INTO counters (key, seq) VALUES ($1, 1)
ON CONFLICT (key) DO UPDATE SET seq = counters.seq + 1
RETURNING seq;`

	row, err := pickRow(ctx, r.pool, tx, q, key)
	if err != nil {
		return 0, err
	}
	var seq int64
	if err := row.Scan(&seq); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return seq, nil
}
