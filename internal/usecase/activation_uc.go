package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"gym-membership-platform/internal/domain"
	"gym-membership-platform/internal/domain/model"
	"gym-membership-platform/internal/domain/ports/repository"
	"gym-membership-platform/internal/infra/metrics"
)

// Compile-time check
var _ ActivationUseCase = (*activationUC)(nil)

// ActivationResult reports what a confirmation did. AlreadyProcessed is a
// success outcome: it means some earlier (or concurrent) confirmation of the
// same order won the gate.
type ActivationResult struct {
	PlanType         model.PlanType
	EndDate          time.Time
	AlreadyProcessed bool
}

// ActivationUseCase is the atomic heart of confirmation. Confirm runs the
// idempotency gate, the membership window write and the payment finalization
// in a single transaction; any failure aborts the whole thing, so it is always
// safe to retry.
type ActivationUseCase interface {
	Confirm(ctx context.Context, orderID, paymentID, method string) (ActivationResult, error)
}

type activationUC struct {
	payments repository.PaymentRepository
	profiles repository.ProfileRepository
	plans    repository.PlanRepository
	txm      repository.TransactionManager
	log      *zerolog.Logger
}

func NewActivationUseCase(
	payments repository.PaymentRepository,
	profiles repository.ProfileRepository,
	plans repository.PlanRepository,
	txm repository.TransactionManager,
	logger *zerolog.Logger,
) *activationUC {
	l := logger.With().Str("component", "ActivationUC").Logger()
	return &activationUC{payments: payments, profiles: profiles, plans: plans, txm: txm, log: &l}
}

func (u *activationUC) Confirm(ctx context.Context, orderID, paymentID, method string) (ActivationResult, error) {
	var (
		res      ActivationResult
		amount   int64
		currency string
	)

	err := u.txm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		// Idempotency gate: the row lock on the unpaid record serializes
		// concurrent confirmations of the same order.
		p, err := u.payments.FindUnpaidByOrderID(ctx, tx, orderID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				res.AlreadyProcessed = true
				return nil
			}
			return err
		}
		amount, currency = p.Amount, p.Currency

		now := time.Now()
		var endDate time.Time
		if p.PlanType != model.PlanTypeDayPass {
			profile, err := u.profiles.FindByMemberID(ctx, tx, p.MemberID)
			if err != nil {
				return fmt.Errorf("load profile for member %s: %w", p.MemberID, err)
			}
			endDate = model.NextWindow(profile.Membership, now, p.PlanDuration)
			err = u.profiles.UpdateMembership(ctx, tx, profile.ID, model.Membership{
				Status:          model.MembershipStatusActive,
				PlanID:          p.PlanID,
				PlanType:        p.PlanType,
				EndDate:         &endDate,
				LastPaymentDate: &now,
				LastPaymentID:   p.ID,
			})
			if err != nil {
				return err
			}
		} else {
			// Day-passes carry their access window on the payment record only.
			endDate = now.AddDate(0, 0, p.PlanDuration)
		}

		// The update repeats the gate condition so a racer that slipped past
		// the select cannot double-apply.
		matched, err := u.payments.MarkPaidIfUnpaid(ctx, tx, orderID, paymentID, method, endDate, now)
		if err != nil {
			return err
		}
		if !matched {
			res = ActivationResult{AlreadyProcessed: true}
			return nil
		}

		if err := u.plans.IncrementChosen(ctx, tx, p.PlanID); err != nil {
			return err
		}

		res.PlanType = p.PlanType
		res.EndDate = endDate
		return nil
	})
	if err != nil {
		u.log.Error().Err(err).Str("order_id", orderID).Msg("activation aborted")
		return ActivationResult{}, fmt.Errorf("%w: %v", domain.ErrActivationFailed, err)
	}

	if !res.AlreadyProcessed {
		metrics.IncPayment(string(model.PaymentStatusPaid))
		metrics.AddPaymentRevenue(currency, amount)
		metrics.IncMembershipActivated(string(res.PlanType))
		u.log.Info().
			Str("order_id", orderID).
			Str("plan_type", string(res.PlanType)).
			Time("end_date", res.EndDate).
			Msg("membership activated")
	}
	return res, nil
}
