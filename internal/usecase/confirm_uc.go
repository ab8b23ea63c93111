package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"gym-membership-platform/internal/domain"
	"gym-membership-platform/internal/domain/model"
	"gym-membership-platform/internal/domain/ports/adapter"
	"gym-membership-platform/internal/domain/ports/repository"
	"gym-membership-platform/internal/infra/logging"
	"gym-membership-platform/internal/infra/metrics"
)

// Compile-time check
var _ ConfirmUseCase = (*confirmUC)(nil)

// ConfirmUseCase is the convergence point for the two delivery channels of a
// gateway payment event: the client's verification call and the gateway's
// webhook. Both paths run the same checks and end in the same idempotent
// activation, so it does not matter which arrives first, or whether both do.
type ConfirmUseCase interface {
	// VerifyCallback handles the client-side redirect payload. The signature
	// only proves the redirect is genuine; capture is confirmed against the
	// gateway directly.
	VerifyCallback(ctx context.Context, orderID, paymentID, signature string) (ActivationResult, error)
	// HandleWebhook handles a server-pushed gateway event. Delivery is
	// at-least-once and unordered relative to VerifyCallback.
	HandleWebhook(ctx context.Context, body []byte, signature string) (ActivationResult, error)
	// Reconcile finalizes a stale pending order when the gateway shows a
	// captured payment for it. Used by the background reconciler; callers
	// never reach it with client-supplied data.
	Reconcile(ctx context.Context, orderID string) (ActivationResult, error)
}

type confirmUC struct {
	payments   repository.PaymentRepository
	profiles   repository.ProfileRepository
	plans      repository.PlanRepository
	gateway    adapter.PaymentGateway
	activation ActivationUseCase
	notifier   adapter.Notifier
	log        *zerolog.Logger
}

func NewConfirmUseCase(
	payments repository.PaymentRepository,
	profiles repository.ProfileRepository,
	plans repository.PlanRepository,
	gateway adapter.PaymentGateway,
	activation ActivationUseCase,
	notifier adapter.Notifier,
	logger *zerolog.Logger,
) *confirmUC {
	l := logger.With().Str("component", "ConfirmUC").Logger()
	return &confirmUC{
		payments:   payments,
		profiles:   profiles,
		plans:      plans,
		gateway:    gateway,
		activation: activation,
		notifier:   notifier,
		log:        &l,
	}
}

func (u *confirmUC) VerifyCallback(ctx context.Context, orderID, paymentID, signature string) (ActivationResult, error) {
	if !u.gateway.VerifyCallbackSignature(orderID, paymentID, signature) {
		metrics.IncPaymentVerify("signature_mismatch")
		return ActivationResult{}, domain.ErrSignatureMismatch
	}
	return u.confirm(ctx, orderID, paymentID)
}

// webhookEvent mirrors the gateway's event envelope. Only the payment/order
// entities are read; everything else is ignored.
type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
				Method  string `json:"method"`
			} `json:"entity"`
		} `json:"payment"`
		Order struct {
			Entity struct {
				ID string `json:"id"`
			} `json:"entity"`
		} `json:"order"`
	} `json:"payload"`
}

func (u *confirmUC) HandleWebhook(ctx context.Context, body []byte, signature string) (ActivationResult, error) {
	defer logging.TraceDuration(u.log, "ConfirmUC.HandleWebhook")()

	if !u.gateway.VerifyWebhookSignature(body, signature) {
		metrics.IncWebhookEvent("signature_mismatch")
		return ActivationResult{}, domain.ErrWebhookSignatureMismatch
	}

	var ev webhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		// Authentic but unparseable; redelivery would only replay the same
		// bytes, so acknowledge and leave a trace for reconciliation.
		metrics.IncWebhookEvent("malformed")
		u.log.Warn().Err(err).Msg("webhook body unparseable")
		return ActivationResult{AlreadyProcessed: true}, nil
	}

	if ev.Event != "payment.captured" && ev.Event != "order.paid" {
		metrics.IncWebhookEvent("ignored")
		u.log.Debug().Str("event", ev.Event).Msg("webhook event ignored")
		return ActivationResult{AlreadyProcessed: true}, nil
	}

	orderID := ev.Payload.Payment.Entity.OrderID
	if orderID == "" {
		orderID = ev.Payload.Order.Entity.ID
	}
	paymentID := ev.Payload.Payment.Entity.ID
	if orderID == "" || paymentID == "" {
		// No resolvable order: logged for reconciliation, otherwise dropped.
		metrics.IncWebhookEvent("unresolvable")
		u.log.Warn().Str("event", ev.Event).Msg("webhook event without resolvable order id")
		return ActivationResult{AlreadyProcessed: true}, nil
	}

	metrics.IncWebhookEvent(ev.Event)
	return u.confirm(ctx, orderID, paymentID)
}

func (u *confirmUC) Reconcile(ctx context.Context, orderID string) (ActivationResult, error) {
	if paid, err := u.payments.FindPaidByOrderID(ctx, repository.NoTX, orderID); err == nil {
		var end time.Time
		if paid.PlanEndDate != nil {
			end = *paid.PlanEndDate
		}
		return ActivationResult{PlanType: paid.PlanType, EndDate: end, AlreadyProcessed: true}, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return ActivationResult{}, err
	}

	infos, err := u.gateway.FetchPaymentsForOrder(ctx, orderID)
	if err != nil {
		metrics.IncPaymentVerify("gateway_error")
		return ActivationResult{}, fmt.Errorf("fetch payments for order %s: %w", orderID, err)
	}
	for _, info := range infos {
		if info.Status == adapter.PaymentStatusCaptured {
			return u.confirm(ctx, orderID, info.ID)
		}
	}
	return ActivationResult{}, domain.ErrPaymentNotCaptured
}

// confirm is the shared tail of both entry points: fast-path idempotency read,
// authoritative capture check, then the transactional activation.
func (u *confirmUC) confirm(ctx context.Context, orderID, paymentID string) (ActivationResult, error) {
	if paid, err := u.payments.FindPaidByOrderID(ctx, repository.NoTX, orderID); err == nil {
		var end time.Time
		if paid.PlanEndDate != nil {
			end = *paid.PlanEndDate
		}
		metrics.IncPaymentVerify("already_processed")
		return ActivationResult{PlanType: paid.PlanType, EndDate: end, AlreadyProcessed: true}, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return ActivationResult{}, err
	}

	// Never trust the callback or webhook body for the monetary fact.
	info, err := u.gateway.FetchPayment(ctx, paymentID)
	if err != nil {
		metrics.IncPaymentVerify("gateway_error")
		return ActivationResult{}, fmt.Errorf("fetch payment %s: %w", paymentID, err)
	}
	if info.Status != adapter.PaymentStatusCaptured {
		metrics.IncPaymentVerify("not_captured")
		return ActivationResult{}, domain.ErrPaymentNotCaptured
	}

	res, err := u.activation.Confirm(ctx, orderID, paymentID, info.Method)
	if err != nil {
		return ActivationResult{}, err
	}
	if !res.AlreadyProcessed {
		metrics.IncPaymentVerify("confirmed")
		u.notifyActivated(ctx, orderID, res)
	}
	return res, nil
}

// notifyActivated is fire-and-forget: the membership is already committed, so
// a notification failure is only logged.
func (u *confirmUC) notifyActivated(ctx context.Context, orderID string, res ActivationResult) {
	if res.PlanType == model.PlanTypeDayPass {
		return
	}
	p, err := u.payments.FindPaidByOrderID(ctx, repository.NoTX, orderID)
	if err != nil {
		u.log.Warn().Err(err).Str("order_id", orderID).Msg("activation mail skipped: payment lookup failed")
		return
	}
	profile, err := u.profiles.FindByMemberID(ctx, repository.NoTX, p.MemberID)
	if err != nil {
		u.log.Warn().Err(err).Str("order_id", orderID).Msg("activation mail skipped: profile lookup failed")
		return
	}
	plan, err := u.plans.FindByID(ctx, repository.NoTX, p.PlanID)
	if err != nil {
		u.log.Warn().Err(err).Str("order_id", orderID).Msg("activation mail skipped: plan lookup failed")
		return
	}
	if err := u.notifier.SendMembershipActivated(ctx, profile.Personal.Email, profile.Personal.Name, plan.Title, res.EndDate); err != nil {
		u.log.Warn().Err(err).Str("order_id", orderID).Msg("activation mail failed")
	}
}
