package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"gym-membership-platform/internal/domain"
	"gym-membership-platform/internal/domain/model"
	"gym-membership-platform/internal/domain/ports/adapter"
	"gym-membership-platform/internal/domain/ports/repository"
	"gym-membership-platform/internal/infra/metrics"
)

// Compile-time check
var _ OrderUseCase = (*orderUC)(nil)

// OrderInvoice is what the checkout client needs to open the gateway widget.
type OrderInvoice struct {
	OrderID   string
	PaymentID string // our Payment record id, not the gateway's
	Amount    int64
	Currency  string
}

// OrderUseCase creates purchase intent: one gateway order paired with one
// Payment record, plus a linked day-pass record when applicable. No membership
// state changes here.
type OrderUseCase interface {
	CreateOrder(ctx context.Context, memberID, planID string, dayPass *model.DayPassRequest) (*OrderInvoice, error)
}

type orderUC struct {
	plans     repository.PlanRepository
	payments  repository.PaymentRepository
	profiles  repository.ProfileRepository
	dayPasses repository.DayPassRepository
	serials   *SerialAllocator
	gateway   adapter.PaymentGateway
	txm       repository.TransactionManager
	log       *zerolog.Logger
}

func NewOrderUseCase(
	plans repository.PlanRepository,
	payments repository.PaymentRepository,
	profiles repository.ProfileRepository,
	dayPasses repository.DayPassRepository,
	serials *SerialAllocator,
	gateway adapter.PaymentGateway,
	txm repository.TransactionManager,
	logger *zerolog.Logger,
) *orderUC {
	l := logger.With().Str("component", "OrderUC").Logger()
	return &orderUC{
		plans:     plans,
		payments:  payments,
		profiles:  profiles,
		dayPasses: dayPasses,
		serials:   serials,
		gateway:   gateway,
		txm:       txm,
		log:       &l,
	}
}

func (u *orderUC) CreateOrder(ctx context.Context, memberID, planID string, dayPass *model.DayPassRequest) (*OrderInvoice, error) {
	plan, err := u.plans.FindByID(ctx, repository.NoTX, planID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrPlanNotFound
		}
		return nil, err
	}

	var (
		price    int64
		duration int
		planType model.PlanType
	)
	if plan.IsDayPass() {
		if dayPass == nil {
			return nil, domain.ErrIncompleteDayPassRequest
		}
		if err := dayPass.Validate(); err != nil {
			return nil, err
		}
		price = plan.Price * int64(dayPass.NoOfDays)
		duration = dayPass.NoOfDays + 1 // inclusive buffer day
		planType = model.PlanTypeDayPass
	} else {
		if _, err := u.profiles.FindByMemberID(ctx, repository.NoTX, memberID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrProfileRequired
			}
			return nil, err
		}
		price = plan.Price
		duration = plan.DurationDays
		planType = model.PlanTypeSubscription
	}

	// Gateway order first; the Payment record is persisted only on success so
	// a gateway failure never leaves an orphaned record behind.
	receipt := "rcpt_" + uuid.NewString()[:20]
	order, err := u.gateway.CreateOrder(ctx, toMinorUnits(price), "INR", receipt)
	if err != nil {
		return nil, fmt.Errorf("create gateway order: %w", err)
	}

	p := model.NewPayment(memberID, planID, planType, duration, price, order.Currency, order.ID)
	if planType == model.PlanTypeDayPass {
		// The serial may leave a hole if the transaction below aborts; the
		// counter only promises uniqueness, not density.
		passID, err := u.serials.Allocate(ctx, "DP")
		if err != nil {
			return nil, err
		}
		pass := model.NewDayPass(memberID, passID, p.ID, *dayPass)
		// A confirmable Payment without its pass record would activate a
		// purchase that cannot be redeemed, so the pair commits together.
		err = u.txm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
			if err := u.payments.Save(ctx, tx, p); err != nil {
				return err
			}
			return u.dayPasses.Save(ctx, tx, pass)
		})
		if err != nil {
			return nil, err
		}
	} else {
		if err := u.payments.Save(ctx, repository.NoTX, p); err != nil {
			return nil, err
		}
	}
	metrics.IncPayment(string(p.Status))

	u.log.Info().
		Str("member_id", memberID).
		Str("plan_id", planID).
		Str("order_id", order.ID).
		Int64("amount", price).
		Msg("order created")

	return &OrderInvoice{
		OrderID:   order.ID,
		PaymentID: p.ID,
		Amount:    price,
		Currency:  order.Currency,
	}, nil
}

func toMinorUnits(amount int64) int64 {
	return int64(math.Round(float64(amount) * 100))
}
