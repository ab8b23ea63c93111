package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"gym-membership-platform/internal/domain"
	"gym-membership-platform/internal/domain/model"
	"gym-membership-platform/internal/domain/ports/repository"
)

var _ repository.PaymentRepository = (*paymentRepo)(nil)

type paymentRepo struct{ pool *pgxpool.Pool }

func NewPaymentRepo(pool *pgxpool.Pool) *paymentRepo {
	return &paymentRepo{pool: pool}
}

const paymentColumns = `id, member_id, plan_id, plan_type, plan_duration, plan_status, amount, currency, order_id, payment_id, status, method, plan_end_date, payment_date, created_at, updated_at`

func scanPayment(row pgx.Row) (*model.Payment, error) {
	p := &model.Payment{}
	if err := row.Scan(&p.ID, &p.MemberID, &p.PlanID, &p.PlanType, &p.PlanDuration, &p.PlanStatus, &p.Amount, &p.Currency, &p.OrderID, &p.PaymentID, &p.Status, &p.Method, &p.PlanEndDate, &p.PaymentDate, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return p, nil
}

func (r *paymentRepo) Save(ctx context.Context, tx repository.Tx, p *model.Payment) error {
	const q = `
INSERT INTO payments (
  id, member_id, plan_id, plan_type, plan_duration, plan_status, amount, currency, order_id, payment_id, status, method, plan_end_date, payment_date, created_at, updated_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16
) ON CONFLICT (id) DO UPDATE SET
  plan_status=$6, payment_id=$10, status=$11, method=$12, plan_end_date=$13, payment_date=$14, updated_at=$16;`

	_, err := execSQL(ctx, r.pool, tx, q, p.ID, p.MemberID, p.PlanID, p.PlanType, p.PlanDuration, p.PlanStatus, p.Amount, p.Currency, p.OrderID, p.PaymentID, p.Status, p.Method, p.PlanEndDate, p.PaymentDate, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *paymentRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanPayment(row)
}

func (r *paymentRepo) FindPaidByOrderID(ctx context.Context, tx repository.Tx, orderID string) (*model.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE order_id=$1 AND status='paid' LIMIT 1;`
	row, err := pickRow(ctx, r.pool, tx, q, orderID)
	if err != nil {
		return nil, err
	}
	return scanPayment(row)
}

func (r *paymentRepo) FindUnpaidByOrderID(ctx context.Context, tx repository.Tx, orderID string) (*model.Payment, error) {
	q := `SELECT ` + paymentColumns + ` FROM payments WHERE order_id=$1 AND status <> 'paid' LIMIT 1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += ";"
	row, err := pickRow(ctx, r.pool, tx, q, orderID)
	if err != nil {
		return nil, err
	}
	return scanPayment(row)
}

// MarkPaidIfUnpaid repeats the unpaid condition so the transition to 'paid'
// happens at most once even when two confirmations race outside a lock.
func (r *paymentRepo) MarkPaidIfUnpaid(ctx context.Context, tx repository.Tx, orderID, paymentID, method string, endDate, paidAt time.Time) (bool, error) {
	const q = `
    UPDATE payments
       SET status = 'paid',
           plan_status = 'active',
           payment_id = $2,
           method = $3,
           plan_end_date = $4,
           payment_date = $5,
           updated_at = NOW()
     WHERE order_id = $1
       AND status <> 'paid';`

	cmd, err := execSQL(ctx, r.pool, tx, q, orderID, paymentID, method, endDate, paidAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return false, err
		}
		return false, domain.ErrOperationFailed
	}
	return cmd.RowsAffected() >= 1, nil
}

func (r *paymentRepo) ListByMember(ctx context.Context, tx repository.Tx, memberID string, cursor string, limit int) ([]*model.Payment, string, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE member_id=$1 AND ($2 = '' OR id < $2) ORDER BY id DESC LIMIT $3;`
	rows, err := queryRows(ctx, r.pool, tx, q, memberID, cursor, limit)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return nil, "", err
		}
		return nil, "", domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, "", err
		}
		out = append(out, p)
	}
	next := ""
	if len(out) == limit {
		next = out[len(out)-1].ID
	}
	return out, next, nil
}

func (r *paymentRepo) ListCreatedOlderThan(ctx context.Context, tx repository.Tx, olderThan time.Time, limit int) ([]*model.Payment, error) {
	if limit <= 0 {
		limit = 100
	}
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE status='created' AND created_at < $1 ORDER BY created_at ASC LIMIT $2;`
	rows, err := queryRows(ctx, r.pool, tx, q, olderThan, limit)
	if err != nil {
		switch err {
		case pgx.ErrNoRows:
			return nil, domain.ErrNotFound
		case domain.ErrInvalidArgument, domain.ErrInvalidExecContext:
			return nil, err
		default:
			return nil, domain.ErrOperationFailed
		}
	}
	defer rows.Close()

	var out []*model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *paymentRepo) DeleteByMember(ctx context.Context, tx repository.Tx, memberID string) error {
	const q = `DELETE FROM payments WHERE member_id=$1;`
	_, err := execSQL(ctx, r.pool, tx, q, memberID)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}
