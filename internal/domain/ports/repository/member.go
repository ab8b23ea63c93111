package repository

import (
	"context"

	"gym-membership-platform/internal/domain/model"
)

type MemberRepository interface {
	Save(ctx context.Context, tx Tx, a *model.MemberAccount) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.MemberAccount, error)
	FindByEmail(ctx context.Context, tx Tx, email string) (*model.MemberAccount, error)
	// SetProfile records (or clears) the account's profile link and the
	// profile-completed flag.
	SetProfile(ctx context.Context, tx Tx, memberID, profileID string, completed bool) error
	Delete(ctx context.Context, tx Tx, id string) error
}
