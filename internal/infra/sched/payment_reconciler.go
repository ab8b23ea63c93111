package sched

import (
	"context"
	"errors"
	"time"

	"gym-membership-platform/internal/domain"
	"gym-membership-platform/internal/domain/ports/repository"
	"gym-membership-platform/internal/usecase"

	"github.com/rs/zerolog"
)

// PaymentReconciler periodically scans for stale created payments and tries to
// finalize them against the gateway. This covers cases where both the client
// callback and the webhook were lost, or the process crashed mid-confirm.
type PaymentReconciler struct {
	uc         usecase.ConfirmUseCase
	payments   repository.PaymentRepository
	interval   time.Duration // how often to scan
	staleAfter time.Duration // how old a created payment must be to retry
	log        *zerolog.Logger
}

func NewPaymentReconciler(uc usecase.ConfirmUseCase, payments repository.PaymentRepository, interval, staleAfter time.Duration, logger *zerolog.Logger) *PaymentReconciler {
	if interval <= 0 {
		interval = time.Minute
	}
	if staleAfter <= 0 {
		staleAfter = 10 * time.Minute
	}
	recLog := logger.With().Str("component", "PaymentReconciler").Logger()
	return &PaymentReconciler{uc: uc, payments: payments, interval: interval, staleAfter: staleAfter, log: &recLog}
}

func (w *PaymentReconciler) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *PaymentReconciler) tick(ctx context.Context) {
	cutoff := time.Now().Add(-w.staleAfter)
	stale, err := w.payments.ListCreatedOlderThan(ctx, repository.NoTX, cutoff, 200)
	if err != nil {
		w.log.Error().Err(err).Msg("list stale payments failed")
		return
	}
	for _, p := range stale {
		if p.OrderID == "" {
			continue
		}
		res, err := w.uc.Reconcile(ctx, p.OrderID)
		if err != nil {
			// Not captured just means the member never paid; keep waiting.
			if !errors.Is(err, domain.ErrPaymentNotCaptured) {
				w.log.Warn().Err(err).Str("payment_id", p.ID).Str("order_id", p.OrderID).Msg("reconcile failed")
			}
			continue
		}
		if !res.AlreadyProcessed {
			w.log.Info().Str("payment_id", p.ID).Str("order_id", p.OrderID).Msg("payment reconciled")
		}
	}
}
