package storage

import (
	"context"
	"time"

	apperrors "github.com/louisbranch/zitie/internal/platform/errors"
)

// PreferenceKey is the fixed key the preference record is stored under.
const PreferenceKey = "handwriting_app_config"

// FontAsset is one uploaded font binary. Assets are immutable once stored.
type FontAsset struct {
	ID          string
	DisplayName string
	Data        []byte
	CreatedAt   time.Time
}

// AssetStore persists font binaries across process restarts.
//
// Put never overwrites an existing id and a failed Put leaves nothing
// visible to GetAll. Get reports a missing id as found=false, and Delete of
// a missing id is a no-op.
type AssetStore interface {
	Put(ctx context.Context, displayName string, data []byte) (string, error)
	GetAll(ctx context.Context) ([]FontAsset, error)
	Get(ctx context.Context, id string) (FontAsset, bool, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

// PreferenceStore persists the single StoredPreference record.
//
// Save replaces the whole record. Load reports an absent or undecodable
// record as found=false with a nil error; errors are reserved for the
// underlying store rejecting the read.
type PreferenceStore interface {
	Save(ctx context.Context, pref StoredPreference) error
	Load(ctx context.Context) (StoredPreference, bool, error)
	Clear(ctx context.Context) error
}

// StorageFailure wraps a persistence-layer rejection for op.
func StorageFailure(op string, cause error) error {
	return apperrors.Wrap(apperrors.CodeStorageFailure, op, cause)
}
