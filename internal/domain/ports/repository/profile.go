package repository

import (
	"context"

	"gym-membership-platform/internal/domain/model"
)

type ProfileRepository interface {
	Save(ctx context.Context, tx Tx, p *model.MemberProfile) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.MemberProfile, error)
	FindByMemberID(ctx context.Context, tx Tx, memberID string) (*model.MemberProfile, error)
	// UpdateMembership writes the embedded window fields only. Callers other
	// than the activator and the expiry sweep have no business here.
	UpdateMembership(ctx context.Context, tx Tx, profileID string, m model.Membership) error
	Delete(ctx context.Context, tx Tx, id string) error
	// SweepExpired flips lapsed active windows to inactive and returns the
	// affected profiles so callers can notify. Never sets status=active.
	SweepExpired(ctx context.Context, tx Tx) ([]*model.MemberProfile, error)
	// ListExpiringWithin returns profiles whose active window ends within the
	// given number of days.
	ListExpiringWithin(ctx context.Context, tx Tx, days int) ([]*model.MemberProfile, error)
}
