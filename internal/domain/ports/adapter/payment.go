package adapter

import "context"

// Order is the gateway-side order paired 1:1 with a Payment record.
type Order struct {
	ID       string
	Amount   int64 // minor units
	Currency string
	Receipt  string
}

// PaymentInfo is the gateway's authoritative view of a payment. Status is the
// monetary fact; callback and webhook bodies are never trusted for it.
type PaymentInfo struct {
	ID      string
	OrderID string
	Status  string // created | authorized | captured | refunded | failed
	Method  string
}

const PaymentStatusCaptured = "captured"

// PaymentGateway is the hex port for the external payment processor.
// Implementations must bound every call with a timeout; a timeout is a
// transient failure, not proof of non-payment.
type PaymentGateway interface {
	Name() string

	// CreateOrder registers a purchase intent with the gateway. amountMinor is
	// in minor currency units (paise for INR).
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (Order, error)
	// FetchPayment looks up the authoritative status of a payment.
	FetchPayment(ctx context.Context, paymentID string) (PaymentInfo, error)
	// FetchPaymentsForOrder lists the payments the gateway holds against an
	// order. Used by reconciliation when only the order id is known.
	FetchPaymentsForOrder(ctx context.Context, orderID string) ([]PaymentInfo, error)

	// VerifyCallbackSignature checks the client-redirect signature computed
	// over "orderID|paymentID" with the key secret.
	VerifyCallbackSignature(orderID, paymentID, signature string) bool
	// VerifyWebhookSignature checks the server-push signature computed over
	// the raw event body with the webhook secret.
	VerifyWebhookSignature(body []byte, signature string) bool
}
