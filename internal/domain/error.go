package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrOperationFailed    = errors.New("operation failed")
	ErrInvalidExecContext = errors.New("invalid execution context")
	ErrReadDatabaseRow    = errors.New("failed to read database row")

	// Order creation
	ErrPlanNotFound             = errors.New("plan not found")
	ErrProfileRequired          = errors.New("member profile required for subscription plans")
	ErrIncompleteDayPassRequest = errors.New("day-pass request is missing required visitor details")

	// Payment confirmation
	ErrSignatureMismatch        = errors.New("payment signature mismatch")
	ErrWebhookSignatureMismatch = errors.New("webhook signature mismatch")
	ErrPaymentNotCaptured       = errors.New("payment not captured by gateway")
	ErrActivationFailed         = errors.New("membership activation failed")

	// Deletion
	ErrAssetDeleteBlocked = errors.New("asset deletion incomplete; record deletion aborted")
	ErrDeletionFailed     = errors.New("deletion failed")

	// Membership
	ErrMembershipInactive = errors.New("membership is not active")
)
