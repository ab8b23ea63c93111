package model

import (
	"time"

	"gym-membership-platform/internal/domain"

	"github.com/oklog/ulid/v2"
)

type MembershipStatus string

const (
	MembershipStatusActive   MembershipStatus = "active"
	MembershipStatusInactive MembershipStatus = "inactive"
)

// Membership is the access window embedded in a member profile. It is written
// only by the activation transaction (to active) and the expiry sweep (to
// inactive).
type Membership struct {
	Status          MembershipStatus
	PlanID          string
	PlanType        PlanType
	EndDate         *time.Time
	LastPaymentDate *time.Time
	LastPaymentID   string
}

// IsCurrent reports whether the window grants access at the given instant.
func (m Membership) IsCurrent(now time.Time) bool {
	return m.Status == MembershipStatusActive && m.EndDate != nil && m.EndDate.After(now)
}

// NextWindow computes the end date a successful payment of durationDays
// produces. Renewal before expiry extends from the existing end date; renewal
// after expiry, or a first purchase, starts from now.
func NextWindow(cur Membership, now time.Time, durationDays int) time.Time {
	base := now
	if cur.IsCurrent(now) {
		base = *cur.EndDate
	}
	return base.AddDate(0, 0, durationDays)
}

// AssetRef points at a blob in the external asset store. The handle is owned
// exclusively by the profile holding it and must not outlive the profile row.
type AssetRef struct {
	URL    string
	Handle string
}

func (a AssetRef) IsZero() bool { return a.Handle == "" }

type PersonalInfo struct {
	Name              string
	Email             string
	Phone             string
	Gender            string
	DOB               string
	EmergencyName     string
	EmergencyPhone    string
	EmergencyRelation string
}

type HealthInfo struct {
	Height              float64
	Weight              float64
	Goal                string
	HadMedicalCondition bool
	Conditions          []string
	OtherConditions     string
}

// MemberProfile is the member-facing record. It carries at most two external
// assets: the identity photo and the identity document.
type MemberProfile struct {
	ID         string
	MemberID   string // owning account
	RollNo     string // human-readable serial, e.g. GYM-2026-0042
	Personal   PersonalInfo
	Health     HealthInfo
	Photo      AssetRef
	Document   AssetRef
	Membership Membership
	Terms      bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func NewMemberProfile(memberID, rollNo string, personal PersonalInfo, health HealthInfo, photo, document AssetRef) (*MemberProfile, error) {
	if memberID == "" || rollNo == "" || personal.Name == "" || personal.Email == "" {
		return nil, domain.ErrInvalidArgument
	}
	if photo.IsZero() || document.IsZero() {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &MemberProfile{
		ID:       ulid.Make().String(),
		MemberID: memberID,
		RollNo:   rollNo,
		Personal: personal,
		Health:   health,
		Photo:    photo,
		Document: document,
		Membership: Membership{
			Status: MembershipStatusInactive,
		},
		Terms:     true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (p *MemberProfile) IsZero() bool { return p == nil || p.ID == "" }
