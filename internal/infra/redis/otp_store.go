package redis

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"gym-membership-platform/internal/domain"
)

// OTPStore keeps short-lived login codes. Codes are stored hashed so a Redis
// dump never leaks usable secrets, and a successful verify consumes the code.
type OTPStore struct {
	client *Client
	secret string
	ttl    time.Duration
}

func NewOTPStore(client *Client, secret string, ttl time.Duration) *OTPStore {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &OTPStore{client: client, secret: secret, ttl: ttl}
}

func (s *OTPStore) key(email string) string { return "otp:" + email }

func (s *OTPStore) hash(code string) string {
	mac := hmac.New(sha256.New, []byte(s.secret))
	mac.Write([]byte(code))
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *OTPStore) Put(ctx context.Context, email, code string) error {
	return s.client.Set(ctx, s.key(email), s.hash(code), s.ttl)
}

// Verify checks the code and deletes it on success. A missing or expired key
// reports ErrNotFound.
func (s *OTPStore) Verify(ctx context.Context, email, code string) error {
	stored, err := s.client.Get(ctx, s.key(email))
	if err != nil {
		if IsNil(err) {
			return domain.ErrNotFound
		}
		return err
	}
	if !hmac.Equal([]byte(stored), []byte(s.hash(code))) {
		return domain.ErrInvalidArgument
	}
	return s.client.Del(ctx, s.key(email))
}
