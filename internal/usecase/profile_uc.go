package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"gym-membership-platform/internal/domain"
	"gym-membership-platform/internal/domain/model"
	"gym-membership-platform/internal/domain/ports/adapter"
	"gym-membership-platform/internal/domain/ports/repository"
)

// Compile-time check
var _ ProfileUseCase = (*profileUC)(nil)

const (
	photoFolder    = "gymMembers/image"
	documentFolder = "gymMembers/document"
)

// ProfileInput carries the member-submitted profile fields.
type ProfileInput struct {
	Personal model.PersonalInfo
	Health   model.HealthInfo
	Terms    bool
}

type ProfileUseCase interface {
	// Create uploads both identity assets, allocates a roll number and writes
	// the profile. Both assets are mandatory.
	Create(ctx context.Context, memberID string, in ProfileInput, photo, document []byte) (*model.MemberProfile, error)
	Get(ctx context.Context, memberID string) (*model.MemberProfile, error)
	// Update overwrites submitted fields; photo/document bytes are optional
	// and replace the stored asset when present.
	Update(ctx context.Context, memberID string, in ProfileInput, photo, document []byte) error
	// ExtendMembership is the explicit manual extension an administrator may
	// apply to an active window. It never activates a lapsed membership.
	ExtendMembership(ctx context.Context, profileID string, days int) error
	ListPayments(ctx context.Context, memberID, cursor string, limit int) ([]*model.Payment, string, error)
}

type profileUC struct {
	profiles repository.ProfileRepository
	payments repository.PaymentRepository
	members  repository.MemberRepository
	assets   adapter.AssetStore
	serials  *SerialAllocator
	log      *zerolog.Logger
}

func NewProfileUseCase(
	profiles repository.ProfileRepository,
	payments repository.PaymentRepository,
	members repository.MemberRepository,
	assets adapter.AssetStore,
	serials *SerialAllocator,
	logger *zerolog.Logger,
) *profileUC {
	l := logger.With().Str("component", "ProfileUC").Logger()
	return &profileUC{
		profiles: profiles,
		payments: payments,
		members:  members,
		assets:   assets,
		serials:  serials,
		log:      &l,
	}
}

func (u *profileUC) Create(ctx context.Context, memberID string, in ProfileInput, photo, document []byte) (*model.MemberProfile, error) {
	if len(photo) == 0 || len(document) == 0 {
		return nil, fmt.Errorf("%w: both identity photo and document are required", domain.ErrInvalidArgument)
	}
	if !in.Terms {
		return nil, fmt.Errorf("%w: terms must be accepted", domain.ErrInvalidArgument)
	}
	if _, err := u.profiles.FindByMemberID(ctx, repository.NoTX, memberID); err == nil {
		return nil, domain.ErrAlreadyExists
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	photoRef, docRef, err := u.uploadPair(ctx, photo, document)
	if err != nil {
		return nil, err
	}

	rollNo, err := u.serials.Allocate(ctx, "GYM")
	if err != nil {
		return nil, err
	}

	profile, err := model.NewMemberProfile(memberID, rollNo, in.Personal, in.Health, photoRef, docRef)
	if err != nil {
		return nil, err
	}
	if err := u.profiles.Save(ctx, repository.NoTX, profile); err != nil {
		return nil, err
	}
	if err := u.members.SetProfile(ctx, repository.NoTX, memberID, profile.ID, true); err != nil {
		return nil, err
	}

	u.log.Info().Str("member_id", memberID).Str("roll_no", rollNo).Msg("profile created")
	return profile, nil
}

func (u *profileUC) Get(ctx context.Context, memberID string) (*model.MemberProfile, error) {
	return u.profiles.FindByMemberID(ctx, repository.NoTX, memberID)
}

func (u *profileUC) Update(ctx context.Context, memberID string, in ProfileInput, photo, document []byte) error {
	profile, err := u.profiles.FindByMemberID(ctx, repository.NoTX, memberID)
	if err != nil {
		return err
	}

	if len(photo) > 0 {
		ref, err := u.assets.Upload(ctx, photo, photoFolder)
		if err != nil {
			return fmt.Errorf("upload photo: %w", err)
		}
		profile.Photo = ref
	}
	if len(document) > 0 {
		ref, err := u.assets.Upload(ctx, document, documentFolder)
		if err != nil {
			return fmt.Errorf("upload document: %w", err)
		}
		profile.Document = ref
	}

	merge(&profile.Personal, in.Personal)
	mergeHealth(&profile.Health, in.Health)
	profile.UpdatedAt = time.Now()
	return u.profiles.Save(ctx, repository.NoTX, profile)
}

func (u *profileUC) ExtendMembership(ctx context.Context, profileID string, days int) error {
	if days <= 0 {
		return domain.ErrInvalidArgument
	}
	profile, err := u.profiles.FindByID(ctx, repository.NoTX, profileID)
	if err != nil {
		return err
	}
	m := profile.Membership
	if m.Status != model.MembershipStatusActive || m.EndDate == nil {
		return domain.ErrMembershipInactive
	}
	end := m.EndDate.AddDate(0, 0, days)
	m.EndDate = &end
	return u.profiles.UpdateMembership(ctx, repository.NoTX, profileID, m)
}

func (u *profileUC) ListPayments(ctx context.Context, memberID, cursor string, limit int) ([]*model.Payment, string, error) {
	return u.payments.ListByMember(ctx, repository.NoTX, memberID, cursor, limit)
}

// uploadPair pushes both assets concurrently; if either upload fails the
// profile is not created (a stray uploaded blob is tolerated and overwritten
// on retry).
func (u *profileUC) uploadPair(ctx context.Context, photo, document []byte) (model.AssetRef, model.AssetRef, error) {
	var (
		wg       sync.WaitGroup
		photoRef model.AssetRef
		docRef   model.AssetRef
		photoErr error
		docErr   error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		photoRef, photoErr = u.assets.Upload(ctx, photo, photoFolder)
	}()
	go func() {
		defer wg.Done()
		docRef, docErr = u.assets.Upload(ctx, document, documentFolder)
	}()
	wg.Wait()

	if photoErr != nil {
		return model.AssetRef{}, model.AssetRef{}, fmt.Errorf("upload photo: %w", photoErr)
	}
	if docErr != nil {
		return model.AssetRef{}, model.AssetRef{}, fmt.Errorf("upload document: %w", docErr)
	}
	return photoRef, docRef, nil
}

func merge(dst *model.PersonalInfo, in model.PersonalInfo) {
	if in.Name != "" {
		dst.Name = in.Name
	}
	if in.Email != "" {
		dst.Email = in.Email
	}
	if in.Phone != "" {
		dst.Phone = in.Phone
	}
	if in.Gender != "" {
		dst.Gender = in.Gender
	}
	if in.DOB != "" {
		dst.DOB = in.DOB
	}
	if in.EmergencyName != "" {
		dst.EmergencyName = in.EmergencyName
	}
	if in.EmergencyPhone != "" {
		dst.EmergencyPhone = in.EmergencyPhone
	}
	if in.EmergencyRelation != "" {
		dst.EmergencyRelation = in.EmergencyRelation
	}
}

func mergeHealth(dst *model.HealthInfo, in model.HealthInfo) {
	if in.Height > 0 {
		dst.Height = in.Height
	}
	if in.Weight > 0 {
		dst.Weight = in.Weight
	}
	if in.Goal != "" {
		dst.Goal = in.Goal
	}
	if in.HadMedicalCondition {
		dst.HadMedicalCondition = true
	}
	if len(in.Conditions) > 0 {
		dst.Conditions = in.Conditions
	}
	if in.OtherConditions != "" {
		dst.OtherConditions = in.OtherConditions
	}
}
