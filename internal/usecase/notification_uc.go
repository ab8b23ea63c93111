package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"gym-membership-platform/internal/domain/model"
	"gym-membership-platform/internal/domain/ports/adapter"
	"gym-membership-platform/internal/domain/ports/repository"
)

// Compile-time check
var _ NotificationUseCase = (*notificationUC)(nil)

type NotificationUseCase interface {
	// SweepExpired flips lapsed windows to inactive and mails each affected
	// member. Returns how many windows were closed.
	SweepExpired(ctx context.Context) (int, error)
	// SendReminders mails members whose window ends within the given number
	// of days. Returns how many reminders went out.
	SendReminders(ctx context.Context, withinDays int) (int, error)
}

type notificationUC struct {
	profiles repository.ProfileRepository
	notifier adapter.Notifier
	log      *zerolog.Logger
}

func NewNotificationUseCase(profiles repository.ProfileRepository, notifier adapter.Notifier, logger *zerolog.Logger) *notificationUC {
	l := logger.With().Str("component", "NotificationUC").Logger()
	return &notificationUC{profiles: profiles, notifier: notifier, log: &l}
}

func (n *notificationUC) SweepExpired(ctx context.Context) (int, error) {
	expired, err := n.profiles.SweepExpired(ctx, repository.NoTX)
	if err != nil {
		return 0, err
	}
	for _, p := range expired {
		n.send(ctx, p, true)
	}
	return len(expired), nil
}

func (n *notificationUC) SendReminders(ctx context.Context, withinDays int) (int, error) {
	expiring, err := n.profiles.ListExpiringWithin(ctx, repository.NoTX, withinDays)
	if err != nil {
		return 0, err
	}
	for _, p := range expiring {
		n.send(ctx, p, false)
	}
	return len(expiring), nil
}

func (n *notificationUC) send(ctx context.Context, p *model.MemberProfile, expired bool) {
	if p.Membership.EndDate == nil {
		return
	}
	var err error
	if expired {
		err = n.notifier.SendMembershipExpired(ctx, p.Personal.Email, p.Personal.Name, *p.Membership.EndDate)
	} else {
		err = n.notifier.SendExpiryReminder(ctx, p.Personal.Email, p.Personal.Name, *p.Membership.EndDate)
	}
	if err != nil {
		n.log.Warn().Err(err).Str("profile_id", p.ID).Msg("membership mail failed")
	}
}
