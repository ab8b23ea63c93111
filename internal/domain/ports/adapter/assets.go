package adapter

import (
	"context"

	"gym-membership-platform/internal/domain/model"
)

// AssetStore is the hex port for external blob storage.
//
// Delete must be idempotent: removing a handle that is already gone reports
// success, so the deletion coordinator can safely retry after a partial
// failure.
type AssetStore interface {
	Upload(ctx context.Context, content []byte, folder string) (model.AssetRef, error)
	Delete(ctx context.Context, handle string) error
}
