//go:build !integration

package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func sign(payload, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyCallbackSignature(t *testing.T) {
	g := NewRazorpayGateway("key_id", "key_secret", "wh_secret")

	orderID := "order_Nxq3ZK7f"
	paymentID := "pay_Nxq4aB8g"
	good := sign(orderID+"|"+paymentID, "key_secret")

	if !g.VerifyCallbackSignature(orderID, paymentID, good) {
		t.Error("expected valid signature to verify")
	}
	if g.VerifyCallbackSignature(orderID, paymentID, sign(orderID+"|"+paymentID, "wrong")) {
		t.Error("expected signature with wrong secret to fail")
	}
	if g.VerifyCallbackSignature(orderID, "pay_other", good) {
		t.Error("expected signature over different payment id to fail")
	}
	if g.VerifyCallbackSignature(orderID, paymentID, "") {
		t.Error("expected empty signature to fail")
	}
}

func TestVerifyWebhookSignature(t *testing.T) {
	g := NewRazorpayGateway("key_id", "key_secret", "wh_secret")

	body := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_1"}}}}`)
	good := sign(string(body), "wh_secret")

	if !g.VerifyWebhookSignature(body, good) {
		t.Error("expected valid webhook signature to verify")
	}

	// Any mutation of the raw body must break verification.
	tampered := append([]byte{}, body...)
	tampered[10] ^= 0x01
	if g.VerifyWebhookSignature(tampered, good) {
		t.Error("expected tampered body to fail")
	}
	// Webhook signatures use the webhook secret, never the key secret.
	if g.VerifyWebhookSignature(body, sign(string(body), "key_secret")) {
		t.Error("expected key-secret signature to fail webhook verification")
	}
}
