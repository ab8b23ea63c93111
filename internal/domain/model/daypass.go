package model

import (
	"time"

	"gym-membership-platform/internal/domain"

	"github.com/oklog/ulid/v2"
)

// DayPassRequest carries the visitor details submitted with a day-pass order.
// Every field is mandatory.
type DayPassRequest struct {
	Name     string
	Age      int
	Phone    string
	Email    string
	NoOfDays int
	Terms    bool
}

func (r DayPassRequest) Validate() error {
	if r.Name == "" || r.Age <= 0 || r.Phone == "" || r.Email == "" || r.NoOfDays <= 0 || !r.Terms {
		return domain.ErrIncompleteDayPassRequest
	}
	return nil
}

// DayPass is a single-use access grant. It never carries a membership window;
// the access period lives on the linked Payment record.
type DayPass struct {
	ID        string
	MemberID  string
	PassID    string // human-readable serial, e.g. DP-2026-0117
	Name      string
	Age       int
	Phone     string
	Email     string
	NoOfDays  int
	Availed   bool
	PaymentID string // links to the Payment record created in the same order
	Terms     bool
	CreatedAt time.Time
}

func NewDayPass(memberID, passID, paymentID string, req DayPassRequest) *DayPass {
	return &DayPass{
		ID:        ulid.Make().String(),
		MemberID:  memberID,
		PassID:    passID,
		Name:      req.Name,
		Age:       req.Age,
		Phone:     req.Phone,
		Email:     req.Email,
		NoOfDays:  req.NoOfDays,
		PaymentID: paymentID,
		Terms:     req.Terms,
		CreatedAt: time.Now(),
	}
}
