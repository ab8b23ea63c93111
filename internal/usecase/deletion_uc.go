package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"gym-membership-platform/internal/domain"
	"gym-membership-platform/internal/domain/model"
	"gym-membership-platform/internal/domain/ports/adapter"
	"gym-membership-platform/internal/domain/ports/repository"
	"gym-membership-platform/internal/infra/logging"
	"gym-membership-platform/internal/infra/metrics"
)

// Compile-time check
var _ DeletionUseCase = (*deletionUC)(nil)

// DeletionUseCase tears down a member across the asset store and the database.
// External assets go first: retrying an asset delete against a live profile is
// recoverable, an orphaned blob with no database reference is not. Record
// deletion happens in one transaction only after both asset deletions
// succeeded, and the confirmation mail goes out strictly after commit.
type DeletionUseCase interface {
	// DeleteProfile removes the profile and its dependent records, keeping the
	// account alive with its profile-completed flag cleared. Repeating it after
	// the profile is gone is a no-op.
	DeleteProfile(ctx context.Context, memberID string) error
	// DeleteAccount removes the account and, when present, its profile and
	// dependent records. Repeating it against an already-deleted account is a
	// no-op.
	DeleteAccount(ctx context.Context, memberID string) error
}

type deletionUC struct {
	profiles  repository.ProfileRepository
	payments  repository.PaymentRepository
	dayPasses repository.DayPassRepository
	members   repository.MemberRepository
	assets    adapter.AssetStore
	notifier  adapter.Notifier
	txm       repository.TransactionManager
	log       *zerolog.Logger
}

func NewDeletionUseCase(
	profiles repository.ProfileRepository,
	payments repository.PaymentRepository,
	dayPasses repository.DayPassRepository,
	members repository.MemberRepository,
	assets adapter.AssetStore,
	notifier adapter.Notifier,
	txm repository.TransactionManager,
	logger *zerolog.Logger,
) *deletionUC {
	l := logger.With().Str("component", "DeletionUC").Logger()
	return &deletionUC{
		profiles:  profiles,
		payments:  payments,
		dayPasses: dayPasses,
		members:   members,
		assets:    assets,
		notifier:  notifier,
		txm:       txm,
		log:       &l,
	}
}

func (u *deletionUC) DeleteProfile(ctx context.Context, memberID string) error {
	var (
		email, name string
		found       bool
	)

	err := u.txm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		profile, err := u.profiles.FindByMemberID(ctx, tx, memberID)
		if err != nil {
			// Already gone: an earlier deletion ran to completion, so a
			// repeated call succeeds without touching anything.
			if errors.Is(err, domain.ErrNotFound) {
				return nil
			}
			return err
		}
		found = true
		email, name = profile.Personal.Email, profile.Personal.Name

		if err := u.deleteAssets(ctx, profile); err != nil {
			return err
		}
		if err := u.profiles.Delete(ctx, tx, profile.ID); err != nil {
			return err
		}
		if err := u.payments.DeleteByMember(ctx, tx, memberID); err != nil {
			return err
		}
		if err := u.dayPasses.DeleteByMember(ctx, tx, memberID); err != nil {
			return err
		}
		return u.members.SetProfile(ctx, tx, memberID, "", false)
	})
	if err != nil {
		metrics.IncDeletion("profile", "aborted")
		if errors.Is(err, domain.ErrAssetDeleteBlocked) {
			return err
		}
		return fmt.Errorf("%w: %v", domain.ErrDeletionFailed, err)
	}
	if !found {
		return nil
	}

	metrics.IncDeletion("profile", "committed")
	u.sendConfirmation(ctx, email, name)
	return nil
}

func (u *deletionUC) DeleteAccount(ctx context.Context, memberID string) error {
	var email, name string

	err := u.txm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		account, accErr := u.members.FindByID(ctx, tx, memberID)
		if accErr != nil && !errors.Is(accErr, domain.ErrNotFound) {
			return accErr
		}
		profile, profErr := u.profiles.FindByMemberID(ctx, tx, memberID)
		if profErr != nil && !errors.Is(profErr, domain.ErrNotFound) {
			return profErr
		}

		// Nothing left: an earlier deletion already ran to completion.
		if accErr != nil && profErr != nil {
			return nil
		}

		if profErr == nil {
			if err := u.deleteAssets(ctx, profile); err != nil {
				return err
			}
			if err := u.profiles.Delete(ctx, tx, profile.ID); err != nil {
				return err
			}
			if err := u.payments.DeleteByMember(ctx, tx, memberID); err != nil {
				return err
			}
			if err := u.dayPasses.DeleteByMember(ctx, tx, memberID); err != nil {
				return err
			}
			email, name = profile.Personal.Email, profile.Personal.Name
		}
		if accErr == nil {
			if email == "" {
				email = account.Email
			}
			return u.members.Delete(ctx, tx, memberID)
		}
		return nil
	})
	if err != nil {
		metrics.IncDeletion("account", "aborted")
		if errors.Is(err, domain.ErrAssetDeleteBlocked) {
			return err
		}
		return fmt.Errorf("%w: %v", domain.ErrDeletionFailed, err)
	}

	metrics.IncDeletion("account", "committed")
	if email != "" {
		u.sendConfirmation(ctx, email, name)
	}
	return nil
}

// deleteAssets removes both profile assets concurrently. Both must succeed;
// a partial asset failure aborts the surrounding transaction so the database
// keeps referencing whatever blobs remain, and the caller retries.
func (u *deletionUC) deleteAssets(ctx context.Context, profile *model.MemberProfile) error {
	handles := []string{profile.Photo.Handle, profile.Document.Handle}

	var wg sync.WaitGroup
	errs := make([]error, len(handles))
	for i, h := range handles {
		if h == "" {
			continue
		}
		wg.Add(1)
		go func(i int, handle string) {
			defer wg.Done()
			errs[i] = u.assets.Delete(ctx, handle)
		}(i, h)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			u.log.Error().Err(err).Str("profile_id", profile.ID).Msg("asset deletion failed")
			return fmt.Errorf("%w: %v", domain.ErrAssetDeleteBlocked, err)
		}
	}
	return nil
}

func (u *deletionUC) sendConfirmation(ctx context.Context, email, name string) {
	if err := u.notifier.SendDeletionConfirmation(ctx, email, name); err != nil {
		// Deletion is already committed; the mail is best-effort.
		u.log.Warn().Err(err).Str("email", logging.Redact(email)).Msg("deletion confirmation mail failed")
	}
}
