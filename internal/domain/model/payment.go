package model

import (
	"time"

	"github.com/oklog/ulid/v2"
)

type PaymentStatus string

const (
	PaymentStatusCreated PaymentStatus = "created" // gateway order created, money not yet confirmed
	PaymentStatusPaid    PaymentStatus = "paid"    // capture verified; membership granted
	PaymentStatusFailed  PaymentStatus = "failed"  // explicitly failed at the gateway
)

type PlanType string

const (
	PlanTypeSubscription PlanType = "subscription"
	PlanTypeDayPass      PlanType = "day-pass"
)

// Payment records one purchase attempt against the gateway.
// OrderID is the idempotency key for confirmation: at most one row may ever
// hold a given order id with status=paid, and the created->paid transition
// happens exactly once.
type Payment struct {
	ID           string // ULID
	MemberID     string
	PlanID       string
	PlanType     PlanType
	PlanDuration int // access window in days
	PlanStatus   string
	Amount       int64 // major currency units
	Currency     string
	OrderID      string // gateway order id, unique
	PaymentID    string // gateway payment id, set on confirmation
	Status       PaymentStatus
	Method       string
	PlanEndDate  *time.Time
	PaymentDate  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewPayment(memberID, planID string, planType PlanType, durationDays int, amount int64, currency, orderID string) *Payment {
	now := time.Now()
	return &Payment{
		ID:           ulid.Make().String(),
		MemberID:     memberID,
		PlanID:       planID,
		PlanType:     planType,
		PlanDuration: durationDays,
		PlanStatus:   "inactive",
		Amount:       amount,
		Currency:     currency,
		OrderID:      orderID,
		Status:       PaymentStatusCreated,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (p *Payment) IsZero() bool { return p == nil || p.ID == "" }
