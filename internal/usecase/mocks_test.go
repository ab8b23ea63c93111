//go:build !integration

package usecase_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"gym-membership-platform/internal/domain"
	"gym-membership-platform/internal/domain/model"
	"gym-membership-platform/internal/domain/ports/adapter"
	"gym-membership-platform/internal/domain/ports/repository"
)

// -----------------------------
// Utilities: tiny helpers
// -----------------------------

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func now() time.Time { return time.Now().Truncate(time.Millisecond) }

func daysFromNow(d int) *time.Time {
	t := now().AddDate(0, 0, d)
	return &t
}

// =============================
// Repositories (in-memory)
// =============================

// ---- Mock PaymentRepository ----

type MockPaymentRepo struct {
	mu       sync.Mutex
	byID     map[string]*model.Payment
	SaveFunc func(ctx context.Context, tx repository.Tx, p *model.Payment) error

	Calls struct {
		Save         int
		MarkPaid     int
		DeleteMember []string
	}
}

var _ repository.PaymentRepository = (*MockPaymentRepo)(nil)

func NewMockPaymentRepo() *MockPaymentRepo {
	return &MockPaymentRepo{byID: make(map[string]*model.Payment)}
}

func (m *MockPaymentRepo) Save(ctx context.Context, tx repository.Tx, p *model.Payment) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, p)
	}
	m.mu.Lock()
	m.Calls.Save++
	prev, had := m.byID[p.ID]
	cp := *p
	m.byID[p.ID] = &cp
	m.mu.Unlock()
	if t, ok := tx.(*mockTx); ok {
		t.onDiscard(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			if had {
				m.byID[p.ID] = prev
			} else {
				delete(m.byID, p.ID)
			}
		})
	}
	return nil
}

func (m *MockPaymentRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockPaymentRepo) FindPaidByOrderID(ctx context.Context, tx repository.Tx, orderID string) (*model.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.byID {
		if p.OrderID == orderID && p.Status == model.PaymentStatusPaid {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockPaymentRepo) FindUnpaidByOrderID(ctx context.Context, tx repository.Tx, orderID string) (*model.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.byID {
		if p.OrderID == orderID && p.Status != model.PaymentStatusPaid {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

// MarkPaidIfUnpaid re-checks the status under the lock, like the conditional
// UPDATE it stands in for, so concurrent confirmations see exactly one winner.
func (m *MockPaymentRepo) MarkPaidIfUnpaid(ctx context.Context, tx repository.Tx, orderID, paymentID, method string, endDate, paidAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.MarkPaid++
	for _, p := range m.byID {
		if p.OrderID == orderID && p.Status != model.PaymentStatusPaid {
			p.Status = model.PaymentStatusPaid
			p.PlanStatus = "active"
			p.PaymentID = paymentID
			p.Method = method
			p.PlanEndDate = &endDate
			p.PaymentDate = &paidAt
			p.UpdatedAt = time.Now()
			return true, nil
		}
	}
	return false, nil
}

func (m *MockPaymentRepo) ListByMember(ctx context.Context, tx repository.Tx, memberID, cursor string, limit int) ([]*model.Payment, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Payment
	for _, p := range m.byID {
		if p.MemberID == memberID && (cursor == "" || p.ID < cursor) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	next := ""
	if limit > 0 && len(out) == limit {
		next = out[len(out)-1].ID
	}
	return out, next, nil
}

func (m *MockPaymentRepo) ListCreatedOlderThan(ctx context.Context, tx repository.Tx, olderThan time.Time, limit int) ([]*model.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Payment
	for _, p := range m.byID {
		if p.Status == model.PaymentStatusCreated && p.CreatedAt.Before(olderThan) {
			cp := *p
			out = append(out, &cp)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockPaymentRepo) DeleteByMember(ctx context.Context, tx repository.Tx, memberID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.DeleteMember = append(m.Calls.DeleteMember, memberID)
	for id, p := range m.byID {
		if p.MemberID == memberID {
			delete(m.byID, id)
		}
	}
	return nil
}

func (m *MockPaymentRepo) CountByMember(memberID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, p := range m.byID {
		if p.MemberID == memberID {
			n++
		}
	}
	return n
}

// ---- Mock ProfileRepository ----

type MockProfileRepo struct {
	mu   sync.Mutex
	byID map[string]*model.MemberProfile

	UpdateMembershipFunc func(ctx context.Context, tx repository.Tx, profileID string, mem model.Membership) error

	Calls struct {
		UpdateMembership []string
		Delete           []string
	}
}

var _ repository.ProfileRepository = (*MockProfileRepo)(nil)

func NewMockProfileRepo() *MockProfileRepo {
	return &MockProfileRepo{byID: make(map[string]*model.MemberProfile)}
}

func (m *MockProfileRepo) Save(ctx context.Context, tx repository.Tx, p *model.MemberProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *MockProfileRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.MemberProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockProfileRepo) FindByMemberID(ctx context.Context, tx repository.Tx, memberID string) (*model.MemberProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.byID {
		if p.MemberID == memberID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockProfileRepo) UpdateMembership(ctx context.Context, tx repository.Tx, profileID string, mem model.Membership) error {
	if m.UpdateMembershipFunc != nil {
		return m.UpdateMembershipFunc(ctx, tx, profileID, mem)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.UpdateMembership = append(m.Calls.UpdateMembership, profileID)
	p, ok := m.byID[profileID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Membership = mem
	p.UpdatedAt = time.Now()
	return nil
}

func (m *MockProfileRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.Delete = append(m.Calls.Delete, id)
	if _, ok := m.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *MockProfileRepo) SweepExpired(ctx context.Context, tx repository.Tx) ([]*model.MemberProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.MemberProfile
	for _, p := range m.byID {
		if p.Membership.Status == model.MembershipStatusActive &&
			p.Membership.EndDate != nil && p.Membership.EndDate.Before(time.Now()) {
			p.Membership.Status = model.MembershipStatusInactive
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockProfileRepo) ListExpiringWithin(ctx context.Context, tx repository.Tx, days int) ([]*model.MemberProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := time.Now().AddDate(0, 0, days)
	var out []*model.MemberProfile
	for _, p := range m.byID {
		if p.Membership.Status == model.MembershipStatusActive &&
			p.Membership.EndDate != nil && p.Membership.EndDate.Before(cutoff) && p.Membership.EndDate.After(time.Now()) {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ---- Mock PlanRepository ----

type MockPlanRepo struct {
	mu   sync.Mutex
	byID map[string]*model.Plan
}

var _ repository.PlanRepository = (*MockPlanRepo)(nil)

func NewMockPlanRepo() *MockPlanRepo {
	return &MockPlanRepo{byID: make(map[string]*model.Plan)}
}

func (m *MockPlanRepo) Save(ctx context.Context, tx repository.Tx, plan *model.Plan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *plan
	m.byID[plan.ID] = &cp
	return nil
}

func (m *MockPlanRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockPlanRepo) ListActive(ctx context.Context, tx repository.Tx) ([]*model.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Plan
	for _, p := range m.byID {
		if p.IsActive {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	return out, nil
}

func (m *MockPlanRepo) IncrementChosen(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.NoOfChosen++
	return nil
}

func (m *MockPlanRepo) Chosen(id string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.byID[id]; ok {
		return p.NoOfChosen
	}
	return 0
}

// ---- Mock DayPassRepository ----

type MockDayPassRepo struct {
	mu   sync.Mutex
	byID map[string]*model.DayPass

	SaveFunc func(ctx context.Context, tx repository.Tx, d *model.DayPass) error

	Calls struct {
		DeleteMember []string
	}
}

var _ repository.DayPassRepository = (*MockDayPassRepo)(nil)

func NewMockDayPassRepo() *MockDayPassRepo {
	return &MockDayPassRepo{byID: make(map[string]*model.DayPass)}
}

func (m *MockDayPassRepo) Save(ctx context.Context, tx repository.Tx, d *model.DayPass) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, d)
	}
	m.mu.Lock()
	prev, had := m.byID[d.ID]
	cp := *d
	m.byID[d.ID] = &cp
	m.mu.Unlock()
	if t, ok := tx.(*mockTx); ok {
		t.onDiscard(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			if had {
				m.byID[d.ID] = prev
			} else {
				delete(m.byID, d.ID)
			}
		})
	}
	return nil
}

func (m *MockDayPassRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.DayPass, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *MockDayPassRepo) MarkAvailed(ctx context.Context, tx repository.Tx, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.byID[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if d.Availed {
		return false, nil
	}
	d.Availed = true
	return true, nil
}

func (m *MockDayPassRepo) ListByMember(ctx context.Context, tx repository.Tx, memberID, cursor string, limit int) ([]*model.DayPass, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.DayPass
	for _, d := range m.byID {
		if d.MemberID == memberID && (cursor == "" || d.ID < cursor) {
			cp := *d
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	next := ""
	if limit > 0 && len(out) == limit {
		next = out[len(out)-1].ID
	}
	return out, next, nil
}

func (m *MockDayPassRepo) DeleteByMember(ctx context.Context, tx repository.Tx, memberID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.DeleteMember = append(m.Calls.DeleteMember, memberID)
	for id, d := range m.byID {
		if d.MemberID == memberID {
			delete(m.byID, id)
		}
	}
	return nil
}

func (m *MockDayPassRepo) FirstByMember(memberID string) *model.DayPass {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.byID {
		if d.MemberID == memberID {
			cp := *d
			return &cp
		}
	}
	return nil
}

// ---- Mock MemberRepository ----

type MockMemberRepo struct {
	mu   sync.Mutex
	byID map[string]*model.MemberAccount

	Calls struct {
		SetProfile []string
		Delete     []string
	}
}

var _ repository.MemberRepository = (*MockMemberRepo)(nil)

func NewMockMemberRepo() *MockMemberRepo {
	return &MockMemberRepo{byID: make(map[string]*model.MemberAccount)}
}

func (m *MockMemberRepo) Save(ctx context.Context, tx repository.Tx, a *model.MemberAccount) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	m.byID[a.ID] = &cp
	return nil
}

func (m *MockMemberRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.MemberAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *MockMemberRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.MemberAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.byID {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockMemberRepo) SetProfile(ctx context.Context, tx repository.Tx, memberID, profileID string, completed bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.SetProfile = append(m.Calls.SetProfile, fmt.Sprintf("%s:%s:%t", memberID, profileID, completed))
	a, ok := m.byID[memberID]
	if !ok {
		return domain.ErrNotFound
	}
	a.ProfileID = profileID
	a.ProfileCompleted = completed
	return nil
}

func (m *MockMemberRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.Delete = append(m.Calls.Delete, id)
	if _, ok := m.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

// ---- Mock CounterRepository ----

type MockCounterRepo struct {
	mu   sync.Mutex
	seqs map[string]int64

	NextFunc func(ctx context.Context, tx repository.Tx, key string) (int64, error)
}

var _ repository.CounterRepository = (*MockCounterRepo)(nil)

func NewMockCounterRepo() *MockCounterRepo {
	return &MockCounterRepo{seqs: make(map[string]int64)}
}

func (m *MockCounterRepo) Next(ctx context.Context, tx repository.Tx, key string) (int64, error) {
	if m.NextFunc != nil {
		return m.NextFunc(ctx, tx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seqs[key]++
	return m.seqs[key], nil
}

// ---- Mock TransactionManager ----

type MockTxManager struct {
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error

	Began int64
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

func NewMockTxManager() *MockTxManager { return &MockTxManager{} }

// WithTx runs fn inline with a journaling handle; writes the repositories
// register against it are undone when fn fails, mirroring a real rollback.
// Assign WithTxFunc to inject failures.
func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	atomic.AddInt64(&m.Began, 1)
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	tx := &mockTx{}
	if err := fn(ctx, tx); err != nil {
		tx.discard()
		return err
	}
	return nil
}

// mockTx collects undo closures so MockTxManager can revert in-memory writes
// when the callback errors.
type mockTx struct {
	mu   sync.Mutex
	undo []func()
}

func (t *mockTx) onDiscard(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.undo = append(t.undo, fn)
}

func (t *mockTx) discard() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
}

// =============================
// Adapters
// =============================

// ---- Mock PaymentGateway ----

type MockGateway struct {
	mu sync.Mutex

	CreateOrderFunc           func(ctx context.Context, amountMinor int64, currency, receipt string) (adapter.Order, error)
	FetchPaymentFunc          func(ctx context.Context, paymentID string) (adapter.PaymentInfo, error)
	FetchPaymentsForOrderFunc func(ctx context.Context, orderID string) ([]adapter.PaymentInfo, error)
	VerifyCallbackFunc        func(orderID, paymentID, signature string) bool
	VerifyWebhookFunc         func(body []byte, signature string) bool

	Calls struct {
		CreateOrder   int
		FetchPayment  []string
		FetchForOrder []string
	}
}

var _ adapter.PaymentGateway = (*MockGateway)(nil)

func (m *MockGateway) Name() string { return "mock" }

func (m *MockGateway) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (adapter.Order, error) {
	m.mu.Lock()
	m.Calls.CreateOrder++
	n := m.Calls.CreateOrder
	m.mu.Unlock()
	if m.CreateOrderFunc != nil {
		return m.CreateOrderFunc(ctx, amountMinor, currency, receipt)
	}
	return adapter.Order{
		ID:       fmt.Sprintf("order_mock_%d", n),
		Amount:   amountMinor,
		Currency: currency,
		Receipt:  receipt,
	}, nil
}

func (m *MockGateway) FetchPayment(ctx context.Context, paymentID string) (adapter.PaymentInfo, error) {
	m.mu.Lock()
	m.Calls.FetchPayment = append(m.Calls.FetchPayment, paymentID)
	m.mu.Unlock()
	if m.FetchPaymentFunc != nil {
		return m.FetchPaymentFunc(ctx, paymentID)
	}
	return adapter.PaymentInfo{ID: paymentID, Status: adapter.PaymentStatusCaptured, Method: "upi"}, nil
}

func (m *MockGateway) FetchPaymentsForOrder(ctx context.Context, orderID string) ([]adapter.PaymentInfo, error) {
	m.mu.Lock()
	m.Calls.FetchForOrder = append(m.Calls.FetchForOrder, orderID)
	m.mu.Unlock()
	if m.FetchPaymentsForOrderFunc != nil {
		return m.FetchPaymentsForOrderFunc(ctx, orderID)
	}
	return nil, nil
}

func (m *MockGateway) VerifyCallbackSignature(orderID, paymentID, signature string) bool {
	if m.VerifyCallbackFunc != nil {
		return m.VerifyCallbackFunc(orderID, paymentID, signature)
	}
	return signature == "valid"
}

func (m *MockGateway) VerifyWebhookSignature(body []byte, signature string) bool {
	if m.VerifyWebhookFunc != nil {
		return m.VerifyWebhookFunc(body, signature)
	}
	return signature == "valid"
}

// ---- Mock AssetStore ----

type MockAssetStore struct {
	mu sync.Mutex

	UploadFunc func(ctx context.Context, content []byte, folder string) (model.AssetRef, error)
	DeleteFunc func(ctx context.Context, handle string) error

	Uploaded []string // folders, in upload order
	Deleted  []string // handles
	uploads  int64
}

var _ adapter.AssetStore = (*MockAssetStore)(nil)

func (m *MockAssetStore) Upload(ctx context.Context, content []byte, folder string) (model.AssetRef, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, content, folder)
	}
	n := atomic.AddInt64(&m.uploads, 1)
	m.mu.Lock()
	m.Uploaded = append(m.Uploaded, folder)
	m.mu.Unlock()
	handle := fmt.Sprintf("%s/asset_%d", folder, n)
	return model.AssetRef{URL: "https://cdn.example/" + handle, Handle: handle}, nil
}

func (m *MockAssetStore) Delete(ctx context.Context, handle string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, handle)
	}
	m.mu.Lock()
	m.Deleted = append(m.Deleted, handle)
	m.mu.Unlock()
	return nil
}

func (m *MockAssetStore) DeletedHandles() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Deleted))
	copy(out, m.Deleted)
	sort.Strings(out)
	return out
}

// ---- Mock Notifier ----

type MockNotifier struct {
	mu sync.Mutex

	SendDeletionConfirmationFunc func(ctx context.Context, email, name string) error

	Activated []string // "email|planTitle"
	Deleted   []string // emails
	Reminded  []string // emails
	Expired   []string // emails
	Codes     []string // "email|code"
}

var _ adapter.Notifier = (*MockNotifier)(nil)

func (m *MockNotifier) SendLoginCode(ctx context.Context, email, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Codes = append(m.Codes, strings.Join([]string{email, code}, "|"))
	return nil
}

func (m *MockNotifier) SendMembershipActivated(ctx context.Context, email, name, planTitle string, endDate time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Activated = append(m.Activated, strings.Join([]string{email, planTitle}, "|"))
	return nil
}

func (m *MockNotifier) SendDeletionConfirmation(ctx context.Context, email, name string) error {
	if m.SendDeletionConfirmationFunc != nil {
		return m.SendDeletionConfirmationFunc(ctx, email, name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deleted = append(m.Deleted, email)
	return nil
}

func (m *MockNotifier) SendExpiryReminder(ctx context.Context, email, name string, endDate time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Reminded = append(m.Reminded, email)
	return nil
}

func (m *MockNotifier) SendMembershipExpired(ctx context.Context, email, name string, endDate time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Expired = append(m.Expired, email)
	return nil
}

func (m *MockNotifier) ActivatedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Activated)
}

// =============================
// Fixture builders
// =============================

func seedPlan(repo *MockPlanRepo, id string, durationDays int, price int64) *model.Plan {
	p, err := model.NewPlan(id, id, durationDays, price)
	if err != nil {
		panic(err)
	}
	_ = repo.Save(context.Background(), repository.NoTX, p)
	return p
}

func seedDayPassPlan(repo *MockPlanRepo, id string, pricePerDay int64) *model.Plan {
	p, err := model.NewPlan(id, model.DayPassTitle, 1, pricePerDay)
	if err != nil {
		panic(err)
	}
	_ = repo.Save(context.Background(), repository.NoTX, p)
	return p
}

func seedProfile(repo *MockProfileRepo, memberID string, mem model.Membership) *model.MemberProfile {
	p, err := model.NewMemberProfile(memberID, "GYM-2026-9999",
		model.PersonalInfo{Name: "Asha Rao", Email: memberID + "@example.com", Phone: "9000000000"},
		model.HealthInfo{Height: 170, Weight: 68},
		model.AssetRef{URL: "https://cdn.example/p", Handle: "gymMembers/image/p"},
		model.AssetRef{URL: "https://cdn.example/d", Handle: "gymMembers/document/d"},
	)
	if err != nil {
		panic(err)
	}
	p.Membership = mem
	_ = repo.Save(context.Background(), repository.NoTX, p)
	return p
}

func seedPayment(repo *MockPaymentRepo, memberID, planID string, planType model.PlanType, durationDays int, orderID string) *model.Payment {
	p := model.NewPayment(memberID, planID, planType, durationDays, 1500, "INR", orderID)
	_ = repo.Save(context.Background(), repository.NoTX, p)
	return p
}
