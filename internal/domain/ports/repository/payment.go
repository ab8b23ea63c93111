package repository

import (
	"context"
	"time"

	"gym-membership-platform/internal/domain/model"
)

// PaymentRepository persists Payment records. OrderID carries a unique
// constraint; the two *IfUnpaid methods are the storage half of the
// idempotency gate and must be atomic conditional operations.
type PaymentRepository interface {
	Save(ctx context.Context, tx Tx, p *model.Payment) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Payment, error)
	// FindPaidByOrderID is the fast-path idempotency read: returns ErrNotFound
	// unless a paid record holds this order id.
	FindPaidByOrderID(ctx context.Context, tx Tx, orderID string) (*model.Payment, error)
	// FindUnpaidByOrderID selects the record matching orderID AND status <> paid,
	// locking it when tx is a real transaction. ErrNotFound means another
	// confirmation already won.
	FindUnpaidByOrderID(ctx context.Context, tx Tx, orderID string) (*model.Payment, error)
	// MarkPaidIfUnpaid finalizes the record only while status <> paid and
	// reports whether the update matched. A false return with no error means a
	// concurrent confirmation got there first.
	MarkPaidIfUnpaid(ctx context.Context, tx Tx, orderID, paymentID, method string, endDate, paidAt time.Time) (bool, error)
	ListByMember(ctx context.Context, tx Tx, memberID string, cursor string, limit int) ([]*model.Payment, string, error)
	ListCreatedOlderThan(ctx context.Context, tx Tx, olderThan time.Time, limit int) ([]*model.Payment, error)
	DeleteByMember(ctx context.Context, tx Tx, memberID string) error
}
