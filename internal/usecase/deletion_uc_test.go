//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"

	"gym-membership-platform/internal/domain"
	"gym-membership-platform/internal/domain/model"
	"gym-membership-platform/internal/domain/ports/repository"
	"gym-membership-platform/internal/usecase"
)

type deletionFixture struct {
	profiles  *MockProfileRepo
	payments  *MockPaymentRepo
	dayPasses *MockDayPassRepo
	members   *MockMemberRepo
	assets    *MockAssetStore
	notifier  *MockNotifier
	uc        usecase.DeletionUseCase
}

func newDeletionFixture() *deletionFixture {
	f := &deletionFixture{
		profiles:  NewMockProfileRepo(),
		payments:  NewMockPaymentRepo(),
		dayPasses: NewMockDayPassRepo(),
		members:   NewMockMemberRepo(),
		assets:    &MockAssetStore{},
		notifier:  &MockNotifier{},
	}
	f.uc = usecase.NewDeletionUseCase(
		f.profiles, f.payments, f.dayPasses, f.members,
		f.assets, f.notifier, NewMockTxManager(), testLogger(),
	)
	return f
}

func (f *deletionFixture) seedMember(memberID string) (*model.MemberAccount, *model.MemberProfile) {
	account, err := model.NewMemberAccount(memberID, memberID+"@example.com")
	if err != nil {
		panic(err)
	}
	_ = f.members.Save(context.Background(), repository.NoTX, account)
	profile := seedProfile(f.profiles, memberID, model.Membership{Status: model.MembershipStatusActive, EndDate: daysFromNow(20)})
	_ = f.members.SetProfile(context.Background(), repository.NoTX, memberID, profile.ID, true)
	seedPayment(f.payments, memberID, "plan-monthly", model.PlanTypeSubscription, 30, "order_"+memberID)
	_ = f.dayPasses.Save(context.Background(), repository.NoTX,
		model.NewDayPass(memberID, "DP-2026-0001", "pmt", model.DayPassRequest{Name: "G", Age: 30, Phone: "1", Email: "g@example.com", NoOfDays: 1, Terms: true}))
	return account, profile
}

func TestDeletion_DeleteProfile(t *testing.T) {
	f := newDeletionFixture()
	ctx := context.Background()
	_, profile := f.seedMember("member-1")

	if err := f.uc.DeleteProfile(ctx, "member-1"); err != nil {
		t.Fatalf("DeleteProfile: %v", err)
	}

	if _, err := f.profiles.FindByMemberID(ctx, repository.NoTX, "member-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatal("profile record survived deletion")
	}
	if n := f.payments.CountByMember("member-1"); n != 0 {
		t.Fatalf("%d payment records survived deletion", n)
	}
	if f.dayPasses.FirstByMember("member-1") != nil {
		t.Fatal("day-pass records survived deletion")
	}

	deleted := f.assets.DeletedHandles()
	if len(deleted) != 2 || deleted[0] != profile.Document.Handle || deleted[1] != profile.Photo.Handle {
		t.Fatalf("asset deletions = %v, want both profile handles", deleted)
	}

	account, err := f.members.FindByID(ctx, repository.NoTX, "member-1")
	if err != nil {
		t.Fatalf("account must survive profile deletion: %v", err)
	}
	if account.ProfileCompleted || account.ProfileID != "" {
		t.Fatalf("account profile link not cleared: %+v", account)
	}

	if len(f.notifier.Deleted) != 1 {
		t.Fatalf("deletion mails = %d, want 1", len(f.notifier.Deleted))
	}
}

func TestDeletion_DeleteProfile_AssetFailureBlocksRecords(t *testing.T) {
	f := newDeletionFixture()
	ctx := context.Background()
	_, profile := f.seedMember("member-1")

	f.assets.DeleteFunc = func(ctx context.Context, handle string) error {
		if handle == profile.Document.Handle {
			return errors.New("storage timeout")
		}
		return nil
	}

	err := f.uc.DeleteProfile(ctx, "member-1")
	if !errors.Is(err, domain.ErrAssetDeleteBlocked) {
		t.Fatalf("err = %v, want ErrAssetDeleteBlocked", err)
	}

	// Every record must still reference its blobs so a retry can finish the job.
	if _, err := f.profiles.FindByMemberID(ctx, repository.NoTX, "member-1"); err != nil {
		t.Fatal("profile was deleted despite a failed asset removal")
	}
	if n := f.payments.CountByMember("member-1"); n != 1 {
		t.Fatalf("payment records = %d after aborted deletion, want 1", n)
	}
	if len(f.notifier.Deleted) != 0 {
		t.Fatal("no confirmation mail may go out for an aborted deletion")
	}

	// Retry succeeds once storage recovers.
	f.assets.DeleteFunc = nil
	if err := f.uc.DeleteProfile(ctx, "member-1"); err != nil {
		t.Fatalf("retry after storage recovery: %v", err)
	}
}

func TestDeletion_DeleteProfile_RepeatIsNoOp(t *testing.T) {
	f := newDeletionFixture()
	ctx := context.Background()
	f.seedMember("member-1")

	if err := f.uc.DeleteProfile(ctx, "member-1"); err != nil {
		t.Fatalf("first DeleteProfile: %v", err)
	}
	if err := f.uc.DeleteProfile(ctx, "member-1"); err != nil {
		t.Fatalf("repeated DeleteProfile must be a no-op: %v", err)
	}
	if len(f.notifier.Deleted) != 1 {
		t.Fatalf("deletion mails = %d after repeat, want 1", len(f.notifier.Deleted))
	}
}

func TestDeletion_DeleteProfile_AbsentProfileIsNoOp(t *testing.T) {
	f := newDeletionFixture()

	if err := f.uc.DeleteProfile(context.Background(), "member-ghost"); err != nil {
		t.Fatalf("DeleteProfile without a profile must succeed: %v", err)
	}
	if len(f.notifier.Deleted) != 0 {
		t.Fatalf("deletion mails = %d, want 0 when nothing was deleted", len(f.notifier.Deleted))
	}
}

func TestDeletion_DeleteAccount(t *testing.T) {
	f := newDeletionFixture()
	ctx := context.Background()
	f.seedMember("member-1")

	if err := f.uc.DeleteAccount(ctx, "member-1"); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}

	if _, err := f.members.FindByID(ctx, repository.NoTX, "member-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatal("account record survived deletion")
	}
	if _, err := f.profiles.FindByMemberID(ctx, repository.NoTX, "member-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatal("profile record survived account deletion")
	}
	if len(f.assets.DeletedHandles()) != 2 {
		t.Fatalf("asset deletions = %v, want both profile handles", f.assets.DeletedHandles())
	}
	if len(f.notifier.Deleted) != 1 {
		t.Fatalf("deletion mails = %d, want 1", len(f.notifier.Deleted))
	}
}

func TestDeletion_DeleteAccount_RepeatIsNoOp(t *testing.T) {
	f := newDeletionFixture()
	ctx := context.Background()
	f.seedMember("member-1")

	if err := f.uc.DeleteAccount(ctx, "member-1"); err != nil {
		t.Fatalf("first DeleteAccount: %v", err)
	}
	if err := f.uc.DeleteAccount(ctx, "member-1"); err != nil {
		t.Fatalf("repeated DeleteAccount must be a no-op: %v", err)
	}
	if len(f.notifier.Deleted) != 1 {
		t.Fatalf("deletion mails = %d after repeat, want 1", len(f.notifier.Deleted))
	}
}

func TestDeletion_DeleteAccount_WithoutProfile(t *testing.T) {
	f := newDeletionFixture()
	ctx := context.Background()

	account, err := model.NewMemberAccount("member-2", "member-2@example.com")
	if err != nil {
		t.Fatal(err)
	}
	_ = f.members.Save(ctx, repository.NoTX, account)

	if err := f.uc.DeleteAccount(ctx, "member-2"); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}
	if _, err := f.members.FindByID(ctx, repository.NoTX, "member-2"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatal("account record survived deletion")
	}
	if len(f.assets.DeletedHandles()) != 0 {
		t.Fatal("no assets exist for a profile-less account")
	}
	if len(f.notifier.Deleted) != 1 || f.notifier.Deleted[0] != "member-2@example.com" {
		t.Fatalf("deletion mail = %v, want the account email", f.notifier.Deleted)
	}
}

func TestDeletion_DeleteAccount_AssetFailureBlocks(t *testing.T) {
	f := newDeletionFixture()
	ctx := context.Background()
	f.seedMember("member-1")

	f.assets.DeleteFunc = func(ctx context.Context, handle string) error {
		return errors.New("storage down")
	}

	err := f.uc.DeleteAccount(ctx, "member-1")
	if !errors.Is(err, domain.ErrAssetDeleteBlocked) {
		t.Fatalf("err = %v, want ErrAssetDeleteBlocked", err)
	}
	if _, err := f.members.FindByID(ctx, repository.NoTX, "member-1"); err != nil {
		t.Fatal("account was deleted despite failed asset removal")
	}
}
