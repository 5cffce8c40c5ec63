// Package storefakes provides in-memory worksheet store fakes for tests.
package storefakes

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/louisbranch/zitie/internal/services/worksheet/storage"
)

// AssetStore is an in-memory AssetStore fake for tests.
//
// The *Err fields inject failures; they are read on every call so tests can
// flip them between operations.
type AssetStore struct {
	mu     sync.Mutex
	assets map[string]storage.FontAsset
	seq    int

	// NextID, when set, is the id handed out by the next Put.
	NextID string

	PutErr    error
	GetAllErr error
	GetErr    error
	DeleteErr error
	ClearErr  error
}

// NewAssetStore constructs an AssetStore fake with initialized state maps.
func NewAssetStore() *AssetStore {
	return &AssetStore{assets: make(map[string]storage.FontAsset)}
}

// Seed stores an asset under a fixed id, bypassing id generation.
func (s *AssetStore) Seed(asset storage.FontAsset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if asset.CreatedAt.IsZero() {
		s.seq++
		asset.CreatedAt = time.Unix(int64(s.seq), 0).UTC()
	}
	s.assets[asset.ID] = asset
}

// IDs returns the stored ids in creation order.
func (s *AssetStore) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedIDs()
}

func (s *AssetStore) Put(_ context.Context, displayName string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.PutErr != nil {
		return "", s.PutErr
	}
	s.seq++
	id := fmt.Sprintf("font_%d", s.seq)
	if s.NextID != "" {
		id, s.NextID = s.NextID, ""
	}
	s.assets[id] = storage.FontAsset{
		ID:          id,
		DisplayName: displayName,
		Data:        append([]byte(nil), data...),
		CreatedAt:   time.Unix(int64(s.seq), 0).UTC(),
	}
	return id, nil
}

func (s *AssetStore) GetAll(_ context.Context) ([]storage.FontAsset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetAllErr != nil {
		return nil, s.GetAllErr
	}
	assets := make([]storage.FontAsset, 0, len(s.assets))
	for _, id := range s.sortedIDs() {
		assets = append(assets, s.assets[id])
	}
	return assets, nil
}

func (s *AssetStore) Get(_ context.Context, id string) (storage.FontAsset, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetErr != nil {
		return storage.FontAsset{}, false, s.GetErr
	}
	asset, ok := s.assets[id]
	return asset, ok, nil
}

func (s *AssetStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	delete(s.assets, id)
	return nil
}

func (s *AssetStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ClearErr != nil {
		return s.ClearErr
	}
	s.assets = make(map[string]storage.FontAsset)
	return nil
}

func (s *AssetStore) sortedIDs() []string {
	ids := make([]string, 0, len(s.assets))
	for id := range s.assets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := s.assets[ids[i]], s.assets[ids[j]]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return ids[i] < ids[j]
	})
	return ids
}

// PreferenceStore is an in-memory PreferenceStore fake for tests.
type PreferenceStore struct {
	mu     sync.Mutex
	pref   storage.StoredPreference
	stored bool
	saves  []storage.StoredPreference

	SaveErr  error
	LoadErr  error
	ClearErr error
}

// NewPreferenceStore constructs an empty PreferenceStore fake.
func NewPreferenceStore() *PreferenceStore {
	return &PreferenceStore{}
}

// Seed sets the stored record without counting it as a save.
func (s *PreferenceStore) Seed(pref storage.StoredPreference) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pref = pref
	s.stored = true
}

// Stored returns the current record and whether one exists.
func (s *PreferenceStore) Stored() (storage.StoredPreference, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pref, s.stored
}

// Saves returns every successfully saved record in order.
func (s *PreferenceStore) Saves() []storage.StoredPreference {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]storage.StoredPreference(nil), s.saves...)
}

// SetSaveErr changes the injected save failure under the store lock.
func (s *PreferenceStore) SetSaveErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SaveErr = err
}

func (s *PreferenceStore) Save(_ context.Context, pref storage.StoredPreference) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.pref = pref
	s.stored = true
	s.saves = append(s.saves, pref)
	return nil
}

func (s *PreferenceStore) Load(_ context.Context) (storage.StoredPreference, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LoadErr != nil {
		return storage.StoredPreference{}, false, s.LoadErr
	}
	return s.pref, s.stored, nil
}

func (s *PreferenceStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ClearErr != nil {
		return s.ClearErr
	}
	s.pref = storage.StoredPreference{}
	s.stored = false
	return nil
}

var (
	_ storage.AssetStore      = (*AssetStore)(nil)
	_ storage.PreferenceStore = (*PreferenceStore)(nil)
)
