package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"gym-membership-platform/internal/domain/model"
	"gym-membership-platform/internal/domain/ports/repository"
)

// Compile-time check
var _ DayPassUseCase = (*dayPassUC)(nil)

type DayPassUseCase interface {
	// MarkAvailed sets the availed flag exactly once; marking an already
	// availed pass reports alreadyAvailed.
	MarkAvailed(ctx context.Context, dayPassID string) (alreadyAvailed bool, err error)
	ListByMember(ctx context.Context, memberID, cursor string, limit int) ([]*model.DayPass, string, error)
}

type dayPassUC struct {
	dayPasses repository.DayPassRepository
	log       *zerolog.Logger
}

func NewDayPassUseCase(dayPasses repository.DayPassRepository, logger *zerolog.Logger) *dayPassUC {
	l := logger.With().Str("component", "DayPassUC").Logger()
	return &dayPassUC{dayPasses: dayPasses, log: &l}
}

func (u *dayPassUC) MarkAvailed(ctx context.Context, dayPassID string) (bool, error) {
	flipped, err := u.dayPasses.MarkAvailed(ctx, repository.NoTX, dayPassID)
	if err != nil {
		return false, err
	}
	if !flipped {
		u.log.Debug().Str("day_pass_id", dayPassID).Msg("day pass already availed")
	}
	return !flipped, nil
}

func (u *dayPassUC) ListByMember(ctx context.Context, memberID, cursor string, limit int) ([]*model.DayPass, string, error) {
	return u.dayPasses.ListByMember(ctx, repository.NoTX, memberID, cursor, limit)
}
