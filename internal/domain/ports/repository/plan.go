package repository

import (
	"context"

	"gym-membership-platform/internal/domain/model"
)

type PlanRepository interface {
	Save(ctx context.Context, tx Tx, plan *model.Plan) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Plan, error)
	ListActive(ctx context.Context, tx Tx) ([]*model.Plan, error)
	// IncrementChosen bumps the plan's usage counter. Best-effort analytics,
	// but still part of the activation transaction.
	IncrementChosen(ctx context.Context, tx Tx, id string) error
}
