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

var _ repository.MemberRepository = (*memberRepo)(nil)

type memberRepo struct{ pool *pgxpool.Pool }

func NewMemberRepo(pool *pgxpool.Pool) *memberRepo {
	return &memberRepo{pool: pool}
}

func (r *memberRepo) Save(ctx context.Context, tx repository.Tx, a *model.MemberAccount) error {
	const q = `
INSERT INTO members (id, email, profile_completed, profile_id, is_admin, registered_at)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (id) DO UPDATE SET
  email=$2, profile_completed=$3, profile_id=$4, is_admin=$5;`

	_, err := execSQL(ctx, r.pool, tx, q, a.ID, a.Email, a.ProfileCompleted, a.ProfileID, a.IsAdmin, a.RegisteredAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *memberRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.MemberAccount, error) {
	const q = `SELECT id, email, profile_completed, profile_id, is_admin, registered_at FROM members WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	a := &model.MemberAccount{}
	if err := row.Scan(&a.ID, &a.Email, &a.ProfileCompleted, &a.ProfileID, &a.IsAdmin, &a.RegisteredAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return a, nil
}

func (r *memberRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.MemberAccount, error) {
	const q = `SELECT id, email, profile_completed, profile_id, is_admin, registered_at FROM members WHERE email=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, email)
	if err != nil {
		return nil, err
	}
	a := &model.MemberAccount{}
	if err := row.Scan(&a.ID, &a.Email, &a.ProfileCompleted, &a.ProfileID, &a.IsAdmin, &a.RegisteredAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return a, nil
}

func (r *memberRepo) SetProfile(ctx context.Context, tx repository.Tx, memberID, profileID string, completed bool) error {
	const q = `UPDATE members SET profile_id=$2, profile_completed=$3 WHERE id=$1;`
	cmd, err := execSQL(ctx, r.pool, tx, q, memberID, profileID, completed)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *memberRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	const q = `DELETE FROM members WHERE id=$1;`
	cmd, err := execSQL(ctx, r.pool, tx, q, id)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
