package app

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/louisbranch/zitie/internal/services/worksheet/controller"
	"github.com/louisbranch/zitie/internal/services/worksheet/sheet"
	"github.com/louisbranch/zitie/internal/services/worksheet/storage"
	"github.com/louisbranch/zitie/internal/testkit/storefakes"
	"golang.org/x/image/font/gofont/goregular"
)

type testEnv struct {
	handler http.Handler
	ctrl    *controller.Controller
	assets  *storefakes.AssetStore
	prefs   *storefakes.PreferenceStore
}

func newTestEnv(t *testing.T, config Config) testEnv {
	t.Helper()
	assets := storefakes.NewAssetStore()
	prefs := storefakes.NewPreferenceStore()
	ctrl := controller.New(assets, prefs)
	if err := ctrl.Start(context.Background()); err != nil {
		t.Fatalf("start controller: %v", err)
	}
	t.Cleanup(func() {
		_ = ctrl.Close(context.Background())
	})
	handler, err := NewHandler(config, ctrl)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	return testEnv{handler: handler, ctrl: ctrl, assets: assets, prefs: prefs}
}

func (e testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func postForm(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func postFile(t *testing.T, target, fileName string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(uploadField, fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func assertRedirectHome(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d; body = %s", rec.Code, http.StatusSeeOther, rec.Body.String())
	}
	if got := rec.Header().Get("Location"); got != "/" {
		t.Fatalf("Location = %q, want /", got)
	}
}

func TestNewHandlerRequiresWorksheet(t *testing.T) {
	if _, err := NewHandler(Config{}, nil); err == nil {
		t.Fatal("expected error for nil worksheet")
	}
}

func TestNewHandlerRejectsBadPreviewFont(t *testing.T) {
	ctrl := controller.New(storefakes.NewAssetStore(), storefakes.NewPreferenceStore())
	if _, err := NewHandler(Config{PreviewFont: []byte("not a font")}, ctrl); err == nil {
		t.Fatal("expected preview font error")
	}
}

func TestNewServerRequiresAddress(t *testing.T) {
	ctrl := controller.New(storefakes.NewAssetStore(), storefakes.NewPreferenceStore())
	if _, err := NewServer(Config{}, ctrl); err == nil {
		t.Fatal("expected error for empty address")
	}
}

func TestWorksheetPageRendersDefaults(t *testing.T) {
	env := newTestEnv(t, Config{})
	rec := env.do(httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`<html lang="zh-CN">`,
		"云端字帖",
		"共 24 字",
		"米字格",
		"楷体",
		`class="sheet-grid"`,
		"静夜思",
		`/static/worksheet.css`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("page missing %q", want)
		}
	}
}

func TestWorksheetPageLanguageQuerySetsCookie(t *testing.T) {
	env := newTestEnv(t, Config{})
	rec := env.do(httptest.NewRequest(http.MethodGet, "/?lang=en-US", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Cloud Copybook") || !strings.Contains(body, "24 characters") {
		t.Fatalf("expected english page, got %s", body)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != "en-US" {
		t.Fatalf("cookies = %v, want lang cookie en-US", cookies)
	}
}

func TestWorksheetPageSearchFiltersPoems(t *testing.T) {
	env := newTestEnv(t, Config{})
	rec := env.do(httptest.NewRequest(http.MethodGet, "/?q="+url.QueryEscape("李白"), nil))
	body := rec.Body.String()
	if !strings.Contains(body, "早发白帝城") {
		t.Fatal("expected matching poem in results")
	}
	if strings.Contains(body, "春晓") {
		t.Fatal("unexpected non-matching poem in results")
	}
	if strings.Contains(body, "基础练习") {
		t.Fatal("basic sets should hide while searching")
	}
}

func TestWorksheetPageUnknownPathIs404(t *testing.T) {
	env := newTestEnv(t, Config{})
	rec := env.do(httptest.NewRequest(http.MethodGet, "/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestStaticStylesheetIsServed(t *testing.T) {
	env := newTestEnv(t, Config{})
	rec := env.do(httptest.NewRequest(http.MethodGet, "/static/worksheet.css", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "@media print") {
		t.Fatal("expected print rules in stylesheet")
	}
}

func TestResponsesAreCompressedWhenAccepted(t *testing.T) {
	env := newTestEnv(t, Config{})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := env.do(req)
	if got := rec.Header().Get("Content-Encoding"); got != "gzip" {
		t.Fatalf("Content-Encoding = %q, want gzip", got)
	}
}

func TestConfigFormUpdatesFields(t *testing.T) {
	env := newTestEnv(t, Config{})
	rec := env.do(postForm("/config", url.Values{
		"cellSize":    {"120"},
		"gridStyle":   {"field-grid"},
		"gridColor":   {"#00FF00"},
		"textOpacity": {"0.2"},
	}))
	assertRedirectHome(t, rec)

	cfg := env.ctrl.Snapshot().Config
	if cfg.CellSize != 120 || cfg.GridStyle != sheet.GridField || cfg.GridColor != "#00ff00" || cfg.TextOpacity != 0.2 {
		t.Fatalf("config = %+v", cfg)
	}
	if cfg.Content != sheet.DefaultContent {
		t.Fatalf("content = %q, want unchanged default", cfg.Content)
	}
}

func TestConfigFormEmptyContentClearsText(t *testing.T) {
	env := newTestEnv(t, Config{})
	assertRedirectHome(t, env.do(postForm("/config", url.Values{"content": {""}})))
	if got := env.ctrl.Snapshot().Config.Content; got != "" {
		t.Fatalf("content = %q, want empty", got)
	}
}

func TestConfigFormRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		values url.Values
	}{
		{name: "non numeric size", values: url.Values{"cellSize": {"big"}}},
		{name: "zero size", values: url.Values{"cellSize": {"0"}}},
		{name: "opacity above one", values: url.Values{"textOpacity": {"1.5"}}},
		{name: "bad color", values: url.Values{"gridColor": {"red"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, Config{})
			rec := env.do(postForm("/config", tt.values))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
			if !strings.Contains(rec.Body.String(), `role="alert"`) {
				t.Fatal("expected error alert on page")
			}
			if got := env.ctrl.Snapshot().Config; got != sheet.Defaults() {
				t.Fatalf("config changed to %+v", got)
			}
		})
	}
}

func TestLibraryFormReplacesContent(t *testing.T) {
	env := newTestEnv(t, Config{})
	assertRedirectHome(t, env.do(postForm("/content/library", url.Values{"entry": {"set:1"}})))
	if got := env.ctrl.Snapshot().Config.Content; got != "金木水火土" {
		t.Fatalf("content = %q, want 金木水火土", got)
	}

	rec := env.do(postForm("/content/library", url.Values{"entry": {"poem:99"}}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestFontUploadServeAndDelete(t *testing.T) {
	env := newTestEnv(t, Config{})
	assertRedirectHome(t, env.do(postFile(t, "/fonts", "Go Regular.ttf", goregular.TTF)))

	snap := env.ctrl.Snapshot()
	if !snap.Font.Custom() || snap.Font.DisplayName != "Go Regular.ttf" {
		t.Fatalf("font = %+v, want uploaded custom font", snap.Font)
	}
	id := snap.Font.AssetID

	page := env.do(httptest.NewRequest(http.MethodGet, "/", nil)).Body.String()
	if !strings.Contains(page, "@font-face") || !strings.Contains(page, "/fonts/"+id) {
		t.Fatal("expected @font-face for the cached font")
	}

	rec := env.do(httptest.NewRequest(http.MethodGet, "/fonts/"+id, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("font status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Header().Get("Content-Type"); got != "font/ttf" {
		t.Fatalf("Content-Type = %q, want font/ttf", got)
	}
	if !bytes.Equal(rec.Body.Bytes(), goregular.TTF) {
		t.Fatal("served font bytes differ from upload")
	}

	assertRedirectHome(t, env.do(postForm("/fonts/"+id+"/delete", url.Values{})))
	snap = env.ctrl.Snapshot()
	if snap.Font.Custom() || len(snap.Fonts) != 0 {
		t.Fatalf("after delete font = %+v fonts = %d", snap.Font, len(snap.Fonts))
	}
	if rec := env.do(httptest.NewRequest(http.MethodGet, "/fonts/"+id, nil)); rec.Code != http.StatusNotFound {
		t.Fatalf("deleted font status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestFontUploadFailureLinksRepair(t *testing.T) {
	env := newTestEnv(t, Config{})
	rec := env.do(postFile(t, "/fonts", "broken.ttf", []byte("definitely not a font")))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "broken.ttf") || !strings.Contains(body, "前往字体修复工具尝试修复") {
		t.Fatalf("expected decode failure with repair link, got %s", body)
	}
	if ids := env.assets.IDs(); len(ids) != 0 {
		t.Fatalf("assets = %v, want none", ids)
	}
}

func TestFontUploadRejectsOversizedFile(t *testing.T) {
	env := newTestEnv(t, Config{MaxUploadBytes: 1024})
	rec := env.do(postFile(t, "/fonts", "big.ttf", goregular.TTF))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if ids := env.assets.IDs(); len(ids) != 0 {
		t.Fatalf("assets = %v, want none", ids)
	}
}

func TestFontSelectStaticFamily(t *testing.T) {
	env := newTestEnv(t, Config{})
	family := sheet.StaticFonts()[1].Family
	assertRedirectHome(t, env.do(postForm("/fonts/select", url.Values{"font": {family}})))
	if got := env.ctrl.Snapshot().Font.Family; got != family {
		t.Fatalf("family = %q, want %q", got, family)
	}

	rec := env.do(postForm("/fonts/select", url.Values{"font": {"font_missing"}}))
	if rec.Code < http.StatusBadRequest {
		t.Fatalf("status = %d, want an error", rec.Code)
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	env := newTestEnv(t, Config{})
	assertRedirectHome(t, env.do(postFile(t, "/fonts", "a.ttf", goregular.TTF)))
	assertRedirectHome(t, env.do(postForm("/config", url.Values{"content": {"永"}})))

	assertRedirectHome(t, env.do(postForm("/reset", url.Values{})))
	snap := env.ctrl.Snapshot()
	if snap.Config != sheet.Defaults() || len(snap.Fonts) != 0 {
		t.Fatalf("snapshot after reset = %+v", snap)
	}
	if ids := env.assets.IDs(); len(ids) != 0 {
		t.Fatalf("assets = %v, want none", ids)
	}
}

func TestAPIConfigGetAndPatch(t *testing.T) {
	env := newTestEnv(t, Config{})

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/config", nil))
	var got apiState
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.State != "ready" || got.Config.CellSize != sheet.DefaultCellSize {
		t.Fatalf("state = %+v", got)
	}

	family := sheet.StaticFonts()[2].Family
	body, err := json.Marshal(map[string]any{"content": "永字", "cellSize": 80, "font": family})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	rec = env.do(httptest.NewRequest(http.MethodPatch, "/api/config", bytes.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body = %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Config.Content != "永字" || got.Config.CellSize != 80 || got.Font.Family != family {
		t.Fatalf("patched state = %+v", got)
	}
}

func TestAPIConfigPatchErrors(t *testing.T) {
	env := newTestEnv(t, Config{})
	tests := []struct {
		name string
		body string
		want int
		code string
	}{
		{name: "malformed", body: `{`, want: http.StatusBadRequest, code: "INVALID_ARGUMENT"},
		{name: "unknown field", body: `{"size":90}`, want: http.StatusBadRequest, code: "INVALID_ARGUMENT"},
		{name: "invalid value", body: `{"textOpacity":-1}`, want: http.StatusBadRequest, code: "INVALID_ARGUMENT"},
		{name: "unknown cached font", body: `{"font":"font_nope"}`, want: http.StatusNotFound, code: "NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(httptest.NewRequest(http.MethodPatch, "/api/config", strings.NewReader(tt.body)))
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			var payload map[string]apiError
			if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if payload["error"].Code != tt.code || payload["error"].Message == "" {
				t.Fatalf("error = %+v, want code %s", payload["error"], tt.code)
			}
		})
	}
}

func TestAPIConfigPatchWithRejectedFontChangesNothing(t *testing.T) {
	env := newTestEnv(t, Config{})

	body := `{"content":"床前明月光","cellSize":150,"font":"font_nope"}`
	rec := env.do(httptest.NewRequest(http.MethodPatch, "/api/config", strings.NewReader(body)))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if got := env.ctrl.Snapshot().Config; got != sheet.Defaults() {
		t.Fatalf("config = %+v, want defaults", got)
	}
}

func TestAPIFontsListAndDelete(t *testing.T) {
	env := newTestEnv(t, Config{})
	cached, err := env.ctrl.UploadFont(context.Background(), "go.ttf", goregular.TTF)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/fonts", nil))
	var list map[string][]apiCachedFont
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	fonts := list["fonts"]
	if len(fonts) != 1 || fonts[0].ID != cached.ID || !fonts[0].Registered || fonts[0].SizeBytes != int64(len(goregular.TTF)) {
		t.Fatalf("fonts = %+v", fonts)
	}

	rec = env.do(httptest.NewRequest(http.MethodDelete, "/api/fonts/"+cached.ID, nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if n := len(env.ctrl.Snapshot().Fonts); n != 0 {
		t.Fatalf("fonts = %d, want 0", n)
	}
}

func TestNotReadyControllerReturns503(t *testing.T) {
	ctrl := controller.New(storefakes.NewAssetStore(), storefakes.NewPreferenceStore())
	handler, err := NewHandler(Config{}, ctrl)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, postForm("/config", url.Values{"content": {"永"}}))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/config", nil))
	var got apiState
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.State != controller.StateUninitialized.String() {
		t.Fatalf("state = %q, want uninitialized", got.State)
	}
}

func TestPreviewPNG(t *testing.T) {
	env := newTestEnv(t, Config{PreviewFont: goregular.TTF})
	rec := env.do(httptest.NewRequest(http.MethodGet, "/worksheet.png?download=1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Header().Get("Content-Type"); got != "image/png" {
		t.Fatalf("Content-Type = %q, want image/png", got)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "zitie.png") {
		t.Fatalf("Content-Disposition = %q", got)
	}
	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if img.Bounds().Dx() == 0 || img.Bounds().Dy() == 0 {
		t.Fatalf("bounds = %v", img.Bounds())
	}
}

func TestPreviewPNGRejectsHugeCellSize(t *testing.T) {
	env := newTestEnv(t, Config{PreviewFont: goregular.TTF})
	size := 1 << 62
	if _, err := env.ctrl.UpdateConfig(context.Background(), sheet.Patch{CellSize: &size}); err != nil {
		t.Fatalf("update: %v", err)
	}

	rec := env.do(httptest.NewRequest(http.MethodGet, "/worksheet.png", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if got := rec.Header().Get("Content-Type"); strings.HasPrefix(got, "image/png") {
		t.Fatalf("Content-Type = %q, want an error page", got)
	}
}

func TestWorksheetPageEscapesUserStrings(t *testing.T) {
	const hostileID = `x</style><script>alert(1)</script>`
	assets := storefakes.NewAssetStore()
	assets.Seed(storage.FontAsset{ID: hostileID, DisplayName: `"><svg onload=alert(2)>.ttf`, Data: goregular.TTF})
	prefs := storefakes.NewPreferenceStore()
	activeID := hostileID
	prefs.Seed(storage.StoredPreference{ActiveFontAssetID: &activeID})
	ctrl := controller.New(assets, prefs)
	if err := ctrl.Start(context.Background()); err != nil {
		t.Fatalf("start controller: %v", err)
	}
	t.Cleanup(func() {
		_ = ctrl.Close(context.Background())
	})
	handler, err := NewHandler(Config{}, ctrl)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	env := testEnv{handler: handler, ctrl: ctrl, assets: assets, prefs: prefs}

	content := `<script>alert(3)</script>`
	if _, err := ctrl.Edit(context.Background(), sheet.Patch{Content: &content}, nil); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if _, err := ctrl.UploadFont(context.Background(), `<img src=x onerror=alert(4)>.ttf`, goregular.TTF); err != nil {
		t.Fatalf("upload: %v", err)
	}

	query := url.Values{"q": {`"><script>alert(5)</script>`}}
	rec := env.do(httptest.NewRequest(http.MethodGet, "/?"+query.Encode(), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	body := rec.Body.String()
	for _, raw := range []string{"<script>", "<svg onload", "<img src=x", "</style><script"} {
		if strings.Contains(body, raw) {
			t.Fatalf("page contains unescaped %q", raw)
		}
	}
	if strings.Contains(body, "font-family:\""+hostileID) {
		t.Fatal("page declares a font face for a non-identifier id")
	}
	if !strings.Contains(body, "&lt;svg onload=alert(2)&gt;") {
		t.Fatal("expected escaped display name on the page")
	}
}

func TestRepairPageAndDownload(t *testing.T) {
	env := newTestEnv(t, Config{})
	rec := env.do(httptest.NewRequest(http.MethodGet, "/repair", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "字体修复工具") {
		t.Fatalf("repair page status = %d", rec.Code)
	}

	rec = env.do(postFile(t, "/repair", "goregular.ttf", goregular.TTF))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body = %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "font/ttf" {
		t.Fatalf("Content-Type = %q, want font/ttf", got)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "goregular_fixed.ttf") {
		t.Fatalf("Content-Disposition = %q", got)
	}
	if rec.Body.Len() == 0 {
		t.Fatal("expected repaired font bytes")
	}
	if ids := env.assets.IDs(); len(ids) != 0 {
		t.Fatalf("repair touched the asset store: %v", ids)
	}
}

func TestRepairFailureShowsReason(t *testing.T) {
	env := newTestEnv(t, Config{})
	rec := env.do(postFile(t, "/repair", "junk.ttf", []byte("junk")))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
	if !strings.Contains(rec.Body.String(), "修复失败") {
		t.Fatal("expected localized repair failure")
	}

	rec = env.do(postForm("/repair", url.Values{}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing file status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
