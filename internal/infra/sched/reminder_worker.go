package sched

import (
	"context"
	"time"

	"gym-membership-platform/internal/infra/metrics"
	"gym-membership-platform/internal/usecase"

	"github.com/rs/zerolog"
)

// ReminderWorker mails members whose window ends within the configured number
// of days.
type ReminderWorker struct {
	interval   time.Duration
	withinDays int
	notifUC    usecase.NotificationUseCase
	log        *zerolog.Logger
}

func NewReminderWorker(interval time.Duration, withinDays int, notifUC usecase.NotificationUseCase, logger *zerolog.Logger) *ReminderWorker {
	if withinDays <= 0 {
		withinDays = 3
	}
	remLog := logger.With().Str("component", "ReminderWorker").Logger()
	return &ReminderWorker{
		interval:   interval,
		withinDays: withinDays,
		notifUC:    notifUC,
		log:        &remLog,
	}
}

func (w *ReminderWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting reminder worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping reminder worker")
			return ctx.Err()
		case <-ticker.C:
			n, err := w.notifUC.SendReminders(ctx, w.withinDays)
			if err != nil {
				w.log.Error().Err(err).Msg("reminder worker error")
			}
			if n > 0 {
				metrics.AddMembershipReminders(n)
				w.log.Info().Int("count", n).Msg("expiry reminders sent")
			}
		}
	}
}
