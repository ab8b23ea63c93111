package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"gym-membership-platform/internal/domain"
	"gym-membership-platform/internal/domain/model"
	"gym-membership-platform/internal/domain/ports/repository"
)

var _ repository.DayPassRepository = (*dayPassRepo)(nil)

type dayPassRepo struct{ pool *pgxpool.Pool }

func NewDayPassRepo(pool *pgxpool.Pool) *dayPassRepo {
	return &dayPassRepo{pool: pool}
}

const dayPassColumns = `id, member_id, pass_id, name, age, phone, email, no_of_days, availed, payment_id, terms, created_at`

func scanDayPass(row pgx.Row) (*model.DayPass, error) {
	d := &model.DayPass{}
	if err := row.Scan(&d.ID, &d.MemberID, &d.PassID, &d.Name, &d.Age, &d.Phone, &d.Email, &d.NoOfDays, &d.Availed, &d.PaymentID, &d.Terms, &d.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return d, nil
}

func (r *dayPassRepo) Save(ctx context.Context, tx repository.Tx, d *model.DayPass) error {
	const q = `
INSERT INTO day_passes (
  id, member_id, pass_id, name, age, phone, email, no_of_days, availed, payment_id, terms, created_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12
) ON CONFLICT (id) DO UPDATE SET
  availed=$9;`

	_, err := execSQL(ctx, r.pool, tx, q, d.ID, d.MemberID, d.PassID, d.Name, d.Age, d.Phone, d.Email, d.NoOfDays, d.Availed, d.PaymentID, d.Terms, d.CreatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *dayPassRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.DayPass, error) {
	const q = `SELECT ` + dayPassColumns + ` FROM day_passes WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanDayPass(row)
}

// MarkAvailed flips the flag only while it is unset; a false return means the
// pass was already availed.
func (r *dayPassRepo) MarkAvailed(ctx context.Context, tx repository.Tx, id string) (bool, error) {
	const q = `UPDATE day_passes SET availed=true WHERE id=$1 AND availed=false;`
	cmd, err := execSQL(ctx, r.pool, tx, q, id)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return false, err
		}
		return false, domain.ErrOperationFailed
	}
	return cmd.RowsAffected() >= 1, nil
}

func (r *dayPassRepo) ListByMember(ctx context.Context, tx repository.Tx, memberID string, cursor string, limit int) ([]*model.DayPass, string, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `SELECT ` + dayPassColumns + ` FROM day_passes WHERE member_id=$1 AND ($2 = '' OR id < $2) ORDER BY id DESC LIMIT $3;`
	rows, err := queryRows(ctx, r.pool, tx, q, memberID, cursor, limit)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return nil, "", err
		}
		return nil, "", domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.DayPass
	for rows.Next() {
		d, err := scanDayPass(rows)
		if err != nil {
			return nil, "", err
		}
		out = append(out, d)
	}
	next := ""
	if len(out) == limit {
		next = out[len(out)-1].ID
	}
	return out, next, nil
}

func (r *dayPassRepo) DeleteByMember(ctx context.Context, tx repository.Tx, memberID string) error {
	const q = `DELETE FROM day_passes WHERE member_id=$1;`
	_, err := execSQL(ctx, r.pool, tx, q, memberID)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}
