package repository

import (
	"context"

	"gym-membership-platform/internal/domain/model"
)

type DayPassRepository interface {
	Save(ctx context.Context, tx Tx, d *model.DayPass) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.DayPass, error)
	// MarkAvailed sets the availed flag; flipping an already-availed pass
	// reports false with no error.
	MarkAvailed(ctx context.Context, tx Tx, id string) (bool, error)
	ListByMember(ctx context.Context, tx Tx, memberID string, cursor string, limit int) ([]*model.DayPass, string, error)
	DeleteByMember(ctx context.Context, tx Tx, memberID string) error
}
