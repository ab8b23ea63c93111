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

var _ repository.ProfileRepository = (*profileRepo)(nil)

type profileRepo struct{ pool *pgxpool.Pool }

func NewProfileRepo(pool *pgxpool.Pool) *profileRepo {
	return &profileRepo{pool: pool}
}

const profileColumns = `id, member_id, roll_no,
  name, email, phone, gender, dob, emergency_name, emergency_phone, emergency_relation,
  height, weight, goal, had_medical_condition, conditions, other_conditions,
  photo_url, photo_handle, document_url, document_handle,
  membership_status, membership_plan_id, membership_plan_type, membership_end_date, last_payment_date, last_payment_id,
  terms, created_at, updated_at`

func scanProfile(row pgx.Row) (*model.MemberProfile, error) {
	p := &model.MemberProfile{}
	if err := row.Scan(
		&p.ID, &p.MemberID, &p.RollNo,
		&p.Personal.Name, &p.Personal.Email, &p.Personal.Phone, &p.Personal.Gender, &p.Personal.DOB, &p.Personal.EmergencyName, &p.Personal.EmergencyPhone, &p.Personal.EmergencyRelation,
		&p.Health.Height, &p.Health.Weight, &p.Health.Goal, &p.Health.HadMedicalCondition, &p.Health.Conditions, &p.Health.OtherConditions,
		&p.Photo.URL, &p.Photo.Handle, &p.Document.URL, &p.Document.Handle,
		&p.Membership.Status, &p.Membership.PlanID, &p.Membership.PlanType, &p.Membership.EndDate, &p.Membership.LastPaymentDate, &p.Membership.LastPaymentID,
		&p.Terms, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return p, nil
}

func (r *profileRepo) Save(ctx context.Context, tx repository.Tx, p *model.MemberProfile) error {
	const q = `
INSERT INTO profiles (
  id, member_id, roll_no,
  name, email, phone, gender, dob, emergency_name, emergency_phone, emergency_relation,
  height, weight, goal, had_medical_condition, conditions, other_conditions,
  photo_url, photo_handle, document_url, document_handle,
  membership_status, membership_plan_id, membership_plan_type, membership_end_date, last_payment_date, last_payment_id,
  terms, created_at, updated_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28,$29,$30
) ON CONFLICT (id) DO UPDATE SET
  name=$4, email=$5, phone=$6, gender=$7, dob=$8, emergency_name=$9, emergency_phone=$10, emergency_relation=$11,
  height=$12, weight=$13, goal=$14, had_medical_condition=$15, conditions=$16, other_conditions=$17,
  photo_url=$18, photo_handle=$19, document_url=$20, document_handle=$21,
  terms=$28, updated_at=$30;`

	_, err := execSQL(ctx, r.pool, tx, q,
		p.ID, p.MemberID, p.RollNo,
		p.Personal.Name, p.Personal.Email, p.Personal.Phone, p.Personal.Gender, p.Personal.DOB, p.Personal.EmergencyName, p.Personal.EmergencyPhone, p.Personal.EmergencyRelation,
		p.Health.Height, p.Health.Weight, p.Health.Goal, p.Health.HadMedicalCondition, p.Health.Conditions, p.Health.OtherConditions,
		p.Photo.URL, p.Photo.Handle, p.Document.URL, p.Document.Handle,
		p.Membership.Status, p.Membership.PlanID, p.Membership.PlanType, p.Membership.EndDate, p.Membership.LastPaymentDate, p.Membership.LastPaymentID,
		p.Terms, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *profileRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.MemberProfile, error) {
	const q = `SELECT ` + profileColumns + ` FROM profiles WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanProfile(row)
}

func (r *profileRepo) FindByMemberID(ctx context.Context, tx repository.Tx, memberID string) (*model.MemberProfile, error) {
	q := `SELECT ` + profileColumns + ` FROM profiles WHERE member_id=$1 LIMIT 1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += ";"
	row, err := pickRow(ctx, r.pool, tx, q, memberID)
	if err != nil {
		return nil, err
	}
	return scanProfile(row)
}

func (r *profileRepo) UpdateMembership(ctx context.Context, tx repository.Tx, profileID string, m model.Membership) error {
	const q = `
UPDATE profiles
   SET membership_status=$2,
       membership_plan_id=$3,
       membership_plan_type=$4,
       membership_end_date=$5,
       last_payment_date=$6,
       last_payment_id=$7,
       updated_at=NOW()
 WHERE id=$1;`
	cmd, err := execSQL(ctx, r.pool, tx, q, profileID, m.Status, m.PlanID, m.PlanType, m.EndDate, m.LastPaymentDate, m.LastPaymentID)
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

func (r *profileRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	const q = `DELETE FROM profiles WHERE id=$1;`
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

// SweepExpired flips lapsed windows in one statement so two overlapping sweep
// runs never notify the same member twice.
func (r *profileRepo) SweepExpired(ctx context.Context, tx repository.Tx) ([]*model.MemberProfile, error) {
	const q = `
UPDATE profiles
   SET membership_status='inactive', updated_at=NOW()
 WHERE membership_status='active' AND membership_end_date < NOW()
RETURNING ` + profileColumns + `;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return nil, err
		}
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.MemberProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *profileRepo) ListExpiringWithin(ctx context.Context, tx repository.Tx, days int) ([]*model.MemberProfile, error) {
	const q = `
SELECT ` + profileColumns + `
  FROM profiles
 WHERE membership_status='active'
   AND membership_end_date >= NOW()
   AND membership_end_date < NOW() + make_interval(days => $1);`
	rows, err := queryRows(ctx, r.pool, tx, q, days)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return nil, err
		}
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.MemberProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
