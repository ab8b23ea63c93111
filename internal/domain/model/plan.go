package model

import (
	"time"

	"gym-membership-platform/internal/domain"
)

// Plan is a purchasable membership plan. The day-pass plan is priced per day;
// every other plan carries a flat price and a fixed duration.
type Plan struct {
	ID           string
	Title        string
	Description  string
	DurationDays int
	Price        int64
	Discount     int
	IsActive     bool
	Features     []string
	NoOfChosen   int64 // usage analytics, incremented on successful activation
	CreatedAt    time.Time
}

const DayPassTitle = "day-pass"

func (p *Plan) IsDayPass() bool { return p != nil && p.Title == DayPassTitle }

func (p *Plan) IsZero() bool { return p == nil || p.ID == "" }

// NewPlan validates and constructs a plan.
func NewPlan(id, title string, durationDays int, price int64) (*Plan, error) {
	if id == "" || title == "" || durationDays <= 0 || price < 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &Plan{
		ID:           id,
		Title:        title,
		DurationDays: durationDays,
		Price:        price,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}, nil
}
