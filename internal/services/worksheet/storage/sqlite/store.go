package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	apperrors "github.com/louisbranch/zitie/internal/platform/errors"
	"github.com/louisbranch/zitie/internal/platform/id"
	sqlitemigrate "github.com/louisbranch/zitie/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/zitie/internal/services/worksheet/storage"
	"github.com/louisbranch/zitie/internal/services/worksheet/storage/sqlite/migrations"
	"github.com/zeebo/xxh3"
	_ "modernc.org/sqlite"
)

// FontIDPrefix prefixes every generated asset id.
const FontIDPrefix = "font"

// maxIDAttempts bounds retries when a generated id collides with a stored one.
const maxIDAttempts = 3

// Store provides SQLite-backed persistence for font assets.
type Store struct {
	sqlDB *sql.DB
	newID func() (string, error)
	now   func() time.Time
}

// Option customizes a Store.
type Option func(*Store)

// WithIDGenerator replaces the asset id generator.
func WithIDGenerator(fn func() (string, error)) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithClock replaces the clock used for CreatedAt.
func WithClock(fn func() time.Time) Option {
	return func(s *Store) {
		if fn != nil {
			s.now = fn
		}
	}
}

// Open opens and migrates a font asset SQLite store.
func Open(path string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{
		sqlDB: sqlDB,
		newID: func() (string, error) { return id.NewPrefixedID(FontIDPrefix) },
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(store)
	}
	if err := sqlitemigrate.ApplyMigrations(context.Background(), sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

var errNotConfigured = storage.StorageFailure("font assets", errors.New("storage is not configured"))

// Put stores a new font asset under a freshly generated id.
func (s *Store) Put(ctx context.Context, displayName string, data []byte) (string, error) {
	if s == nil || s.sqlDB == nil {
		return "", errNotConfigured
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return "", apperrors.WithMetadata(apperrors.CodeInvalidArgument, "display name is required", map[string]string{"Field": "displayName"})
	}
	if len(data) == 0 {
		return "", apperrors.WithMetadata(apperrors.CodeInvalidArgument, "font data is required", map[string]string{"Field": "binaryData"})
	}

	createdAt := s.now().UTC()
	sum := checksum(data)
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		assetID, err := s.newID()
		if err != nil {
			return "", storage.StorageFailure("generate font asset id", err)
		}
		_, err = s.sqlDB.ExecContext(
			ctx,
			`INSERT INTO font_assets (id, display_name, data, size_bytes, checksum, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			assetID,
			displayName,
			data,
			int64(len(data)),
			sum,
			createdAt.UnixMilli(),
		)
		if err == nil {
			return assetID, nil
		}
		if !isUniqueViolation(err) {
			return "", storage.StorageFailure("put font asset", err)
		}
	}
	return "", storage.StorageFailure("put font asset", fmt.Errorf("no unused id after %d attempts", maxIDAttempts))
}

// GetAll returns every verified font asset ordered by creation time.
func (s *Store) GetAll(ctx context.Context) ([]storage.FontAsset, error) {
	if s == nil || s.sqlDB == nil {
		return nil, errNotConfigured
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, display_name, data, checksum, created_at
		 FROM font_assets
		 ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, storage.StorageFailure("list font assets", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	assets := make([]storage.FontAsset, 0)
	for rows.Next() {
		asset, ok, err := scanAsset(rows)
		if err != nil {
			return nil, storage.StorageFailure("scan font asset", err)
		}
		if ok {
			assets = append(assets, asset)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, storage.StorageFailure("iterate font assets", err)
	}
	return assets, nil
}

// Get loads one font asset by id.
func (s *Store) Get(ctx context.Context, assetID string) (storage.FontAsset, bool, error) {
	if s == nil || s.sqlDB == nil {
		return storage.FontAsset{}, false, errNotConfigured
	}
	assetID = strings.TrimSpace(assetID)
	if assetID == "" {
		return storage.FontAsset{}, false, nil
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, display_name, data, checksum, created_at
		 FROM font_assets
		 WHERE id = ?`,
		assetID,
	)
	asset, ok, err := scanAsset(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.FontAsset{}, false, nil
		}
		return storage.FontAsset{}, false, storage.StorageFailure("get font asset", err)
	}
	return asset, ok, nil
}

// Delete removes a font asset. Missing ids are ignored.
func (s *Store) Delete(ctx context.Context, assetID string) error {
	if s == nil || s.sqlDB == nil {
		return errNotConfigured
	}
	assetID = strings.TrimSpace(assetID)
	if assetID == "" {
		return nil
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM font_assets WHERE id = ?`, assetID); err != nil {
		return storage.StorageFailure("delete font asset", err)
	}
	return nil
}

// Clear removes every font asset.
func (s *Store) Clear(ctx context.Context) error {
	if s == nil || s.sqlDB == nil {
		return errNotConfigured
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM font_assets`); err != nil {
		return storage.StorageFailure("clear font assets", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanAsset reads one row and verifies its checksum. A mismatch is logged
// and reported as ok=false.
func scanAsset(row rowScanner) (storage.FontAsset, bool, error) {
	var asset storage.FontAsset
	var sum string
	var createdAt int64
	if err := row.Scan(&asset.ID, &asset.DisplayName, &asset.Data, &sum, &createdAt); err != nil {
		return storage.FontAsset{}, false, err
	}
	if checksum(asset.Data) != sum {
		log.Printf("font asset %s failed checksum verification; skipping", asset.ID)
		return storage.FontAsset{}, false, nil
	}
	asset.CreatedAt = unixMillisToTime(createdAt)
	return asset, true, nil
}

func checksum(data []byte) string {
	return fmt.Sprintf("%016x", xxh3.Hash(data))
}

func isUniqueViolation(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

func unixMillisToTime(value int64) time.Time {
	if value <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(value).UTC()
}

var _ storage.AssetStore = (*Store)(nil)
