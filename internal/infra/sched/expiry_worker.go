package sched

import (
	"context"
	"time"

	"gym-membership-platform/internal/infra/metrics"
	"gym-membership-platform/internal/usecase"

	"github.com/rs/zerolog"
)

// ExpiryWorker periodically closes lapsed membership windows via the use case.
type ExpiryWorker struct {
	interval time.Duration
	notifUC  usecase.NotificationUseCase
	log      *zerolog.Logger
}

func NewExpiryWorker(interval time.Duration, notifUC usecase.NotificationUseCase, logger *zerolog.Logger) *ExpiryWorker {
	exprLog := logger.With().Str("component", "ExpiryWorker").Logger()
	return &ExpiryWorker{
		interval: interval,
		notifUC:  notifUC,
		log:      &exprLog,
	}
}

func (w *ExpiryWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting expiry worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping expiry worker")
			return ctx.Err()
		case <-ticker.C:
			n, err := w.notifUC.SweepExpired(ctx)
			if err != nil {
				w.log.Error().Err(err).Msg("expiry worker error")
			}
			if n > 0 {
				metrics.AddMembershipsExpired(n)
				w.log.Info().Int("count", n).Msg("expired memberships closed")
			}
		}
	}
}
