package model

import (
	"time"

	"gym-membership-platform/internal/domain"

	"github.com/google/uuid"
)

// MemberAccount is the auth-side record a profile hangs off. Registration and
// session mechanics live outside the core; the account row is consumed here as
// the owner reference for profiles, payments and day-passes.
type MemberAccount struct {
	ID               string
	Email            string
	ProfileCompleted bool
	ProfileID        string
	IsAdmin          bool
	RegisteredAt     time.Time
}

func NewMemberAccount(id, email string) (*MemberAccount, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if email == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &MemberAccount{
		ID:           id,
		Email:        email,
		RegisteredAt: time.Now(),
	}, nil
}

func (a *MemberAccount) IsZero() bool { return a == nil || a.ID == "" }
