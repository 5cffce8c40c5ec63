package bbolt

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/zitie/internal/services/worksheet/storage"
	"go.etcd.io/bbolt"
)

const preferenceBucket = "preferences"

// Store provides a BoltDB-backed preference store.
type Store struct {
	db *bbolt.DB
}

// Open opens a BoltDB-backed store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	db, err := bbolt.Open(cleanPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	store := &Store{db: db}
	if err := store.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying BoltDB database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// ready reports why the store cannot serve a call.
func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

// Save replaces the stored preference record.
func (s *Store) Save(ctx context.Context, pref storage.StoredPreference) error {
	if err := s.ready(ctx); err != nil {
		return storage.StorageFailure("save preference", err)
	}

	payload, err := storage.EncodePreference(pref)
	if err != nil {
		return storage.StorageFailure("encode preference", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(preferenceBucket))
		if bucket == nil {
			return fmt.Errorf("preference bucket is missing")
		}
		return bucket.Put([]byte(storage.PreferenceKey), payload)
	})
	if err != nil {
		return storage.StorageFailure("save preference", err)
	}
	return nil
}

// Load returns the stored preference record. An absent or undecodable record
// reports found=false.
func (s *Store) Load(ctx context.Context) (storage.StoredPreference, bool, error) {
	if err := s.ready(ctx); err != nil {
		return storage.StoredPreference{}, false, storage.StorageFailure("load preference", err)
	}

	var payload []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(preferenceBucket))
		if bucket == nil {
			return fmt.Errorf("preference bucket is missing")
		}
		// Bolt values are only valid for the life of the transaction.
		if value := bucket.Get([]byte(storage.PreferenceKey)); value != nil {
			payload = append([]byte(nil), value...)
		}
		return nil
	})
	if err != nil {
		return storage.StoredPreference{}, false, storage.StorageFailure("load preference", err)
	}
	if payload == nil {
		return storage.StoredPreference{}, false, nil
	}

	pref, err := storage.DecodePreference(payload)
	if err != nil {
		log.Printf("stored preference is unreadable; using defaults: %v", err)
		return storage.StoredPreference{}, false, nil
	}
	return pref, true, nil
}

// Clear removes the stored preference record.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.ready(ctx); err != nil {
		return storage.StorageFailure("clear preference", err)
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(preferenceBucket))
		if bucket == nil {
			return fmt.Errorf("preference bucket is missing")
		}
		return bucket.Delete([]byte(storage.PreferenceKey))
	})
	if err != nil {
		return storage.StorageFailure("clear preference", err)
	}
	return nil
}

func (s *Store) ensureBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(preferenceBucket)); err != nil {
			return fmt.Errorf("create preference bucket: %w", err)
		}
		return nil
	})
}

var _ storage.PreferenceStore = (*Store)(nil)
