package adapter

import (
	"context"
	"time"
)

// Notifier sends outbound member mail. Fire-and-forget from the core's
// perspective: failures are logged by callers, never propagated, and a
// notification is only ever sent after the state change it announces has
// committed.
type Notifier interface {
	SendLoginCode(ctx context.Context, email, code string) error
	SendMembershipActivated(ctx context.Context, email, name, planTitle string, endDate time.Time) error
	SendDeletionConfirmation(ctx context.Context, email, name string) error
	SendExpiryReminder(ctx context.Context, email, name string, endDate time.Time) error
	SendMembershipExpired(ctx context.Context, email, name string, endDate time.Time) error
}
