package bbolt

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	apperrors "github.com/louisbranch/zitie/internal/platform/errors"
	"github.com/louisbranch/zitie/internal/services/worksheet/storage"
	"go.etcd.io/bbolt"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prefs.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store, path
}

func strPtr(value string) *string { return &value }

func intPtr(value int) *int { return &value }

func floatPtr(value float64) *float64 { return &value }

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadEmptyStoreIsAbsent(t *testing.T) {
	store, _ := openTestStore(t)

	_, found, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if found {
		t.Fatal("expected no stored preference")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	pref := storage.StoredPreference{
		Content:           strPtr("永"),
		CellSize:          intPtr(120),
		GridStyle:         strPtr("field-grid"),
		GridColor:         strPtr("#3366ff"),
		TextColor:         strPtr("#111111"),
		TextOpacity:       floatPtr(0.5),
		FontSelector:      strPtr("font_abc"),
		ActiveFontAssetID: strPtr("font_abc"),
	}
	if err := store.Save(ctx, pref); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, found, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !found {
		t.Fatal("expected stored preference")
	}
	if diff := cmp.Diff(pref, loaded); diff != "" {
		t.Fatalf("preference mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveReplacesWholeRecord(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, storage.StoredPreference{Content: strPtr("first"), CellSize: intPtr(80)}); err != nil {
		t.Fatalf("save first: %v", err)
	}
	if err := store.Save(ctx, storage.StoredPreference{Content: strPtr("second")}); err != nil {
		t.Fatalf("save second: %v", err)
	}

	loaded, _, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Content == nil || *loaded.Content != "second" {
		t.Fatalf("content = %v, want second", loaded.Content)
	}
	if loaded.CellSize != nil {
		t.Fatalf("cellSize = %d, want absent", *loaded.CellSize)
	}
}

func TestSurvivesReopen(t *testing.T) {
	store, path := openTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, storage.StoredPreference{GridStyle: strPtr("palace-grid")}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	loaded, found, err := reopened.Load(ctx)
	if err != nil || !found {
		t.Fatalf("load: found=%v err=%v", found, err)
	}
	if loaded.GridStyle == nil || *loaded.GridStyle != "palace-grid" {
		t.Fatalf("gridStyle = %v, want palace-grid", loaded.GridStyle)
	}
}

func TestCorruptRecordIsAbsent(t *testing.T) {
	store, _ := openTestStore(t)

	err := store.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(preferenceBucket)).Put([]byte(storage.PreferenceKey), []byte("{not json"))
	})
	if err != nil {
		t.Fatalf("seed corrupt record: %v", err)
	}

	_, found, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if found {
		t.Fatal("expected corrupt record to read as absent")
	}
}

func TestLegacyRecordIsDecoded(t *testing.T) {
	store, _ := openTestStore(t)

	legacy := `{"content":"你好","size":90,"gridType":"田字格","fontFamily":"serif","customFontId":"font_old"}`
	err := store.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(preferenceBucket)).Put([]byte(storage.PreferenceKey), []byte(legacy))
	})
	if err != nil {
		t.Fatalf("seed legacy record: %v", err)
	}

	loaded, found, err := store.Load(context.Background())
	if err != nil || !found {
		t.Fatalf("load: found=%v err=%v", found, err)
	}
	want := storage.StoredPreference{
		Content:           strPtr("你好"),
		CellSize:          intPtr(90),
		GridStyle:         strPtr("field-grid"),
		FontSelector:      strPtr("serif"),
		ActiveFontAssetID: strPtr("font_old"),
	}
	if diff := cmp.Diff(want, loaded); diff != "" {
		t.Fatalf("preference mismatch (-want +got):\n%s", diff)
	}
}

func TestClearRemovesRecord(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, storage.StoredPreference{Content: strPtr("x")}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear again: %v", err)
	}
	_, found, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if found {
		t.Fatal("expected record to be cleared")
	}
}

func TestCanceledContextIsStorageFailure(t *testing.T) {
	store, _ := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, loadErr := store.Load(ctx)
	for name, err := range map[string]error{
		"save":  store.Save(ctx, storage.StoredPreference{}),
		"load":  loadErr,
		"clear": store.Clear(ctx),
	} {
		if !apperrors.HasCode(err, apperrors.CodeStorageFailure) {
			t.Fatalf("%s err = %v, want storage failure", name, err)
		}
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("%s err = %v, want wrapped context.Canceled", name, err)
		}
		if got := apperrors.CodeOf(err).HTTPStatus(); got != http.StatusInternalServerError {
			t.Fatalf("%s status = %d, want 500 from storage failure", name, got)
		}
	}
}

func TestNilStoreIsStorageFailure(t *testing.T) {
	var store *Store
	if err := store.Save(context.Background(), storage.StoredPreference{}); !apperrors.HasCode(err, apperrors.CodeStorageFailure) {
		t.Fatalf("save err = %v, want storage failure", err)
	}
	if _, _, err := store.Load(context.Background()); !apperrors.HasCode(err, apperrors.CodeStorageFailure) {
		t.Fatalf("load err = %v, want storage failure", err)
	}
}
