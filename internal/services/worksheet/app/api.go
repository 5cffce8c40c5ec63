package app

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/louisbranch/zitie/internal/services/worksheet/controller"
	"github.com/louisbranch/zitie/internal/services/worksheet/sheet"
)

type apiConfig struct {
	Content           string  `json:"content"`
	CellSize          int     `json:"cellSize"`
	GridStyle         string  `json:"gridStyle"`
	GridColor         string  `json:"gridColor"`
	TextColor         string  `json:"textColor"`
	TextOpacity       float64 `json:"textOpacity"`
	FontSelector      string  `json:"fontSelector"`
	ActiveFontAssetID string  `json:"activeFontAssetId,omitempty"`
}

type apiFont struct {
	Family        string `json:"family"`
	DisplayName   string `json:"displayName"`
	AssetID       string `json:"assetId,omitempty"`
	StylesheetURL string `json:"stylesheetUrl,omitempty"`
}

type apiState struct {
	State         string    `json:"state"`
	Uploading     bool      `json:"uploading"`
	Config        apiConfig `json:"config"`
	Font          apiFont   `json:"font"`
	LastSaveError string    `json:"lastSaveError,omitempty"`
}

type apiCachedFont struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName"`
	SizeBytes   int64     `json:"sizeBytes"`
	CreatedAt   time.Time `json:"createdAt"`
	Registered  bool      `json:"registered"`
	Family      string    `json:"family,omitempty"`
	Format      string    `json:"format,omitempty"`
	Error       string    `json:"error,omitempty"`
}

// configPatch is the PATCH /api/config body. Font selects a static family
// or cached asset id.
type configPatch struct {
	sheet.Patch
	Font *string `json:"font,omitempty"`
}

func stateFromSnapshot(snap controller.Snapshot) apiState {
	cfg := snap.Config
	out := apiState{
		State:     snap.State.String(),
		Uploading: snap.Uploading,
		Config: apiConfig{
			Content:           cfg.Content,
			CellSize:          cfg.CellSize,
			GridStyle:         string(cfg.GridStyle),
			GridColor:         cfg.GridColor,
			TextColor:         cfg.TextColor,
			TextOpacity:       cfg.TextOpacity,
			FontSelector:      cfg.FontSelector,
			ActiveFontAssetID: cfg.ActiveFontAssetID,
		},
		Font: apiFont{
			Family:        snap.Font.Family,
			DisplayName:   snap.Font.DisplayName,
			AssetID:       snap.Font.AssetID,
			StylesheetURL: snap.Font.StylesheetURL,
		},
	}
	if snap.LastSaveError != nil {
		out.LastSaveError = snap.LastSaveError.Error()
	}
	return out
}

func fontsFromSnapshot(snap controller.Snapshot) []apiCachedFont {
	failures := make(map[string]string, len(snap.Failures))
	for _, f := range snap.Failures {
		failures[f.AssetID] = f.Err.Error()
	}
	out := make([]apiCachedFont, 0, len(snap.Fonts))
	for _, f := range snap.Fonts {
		out = append(out, apiCachedFont{
			ID:          f.ID,
			DisplayName: f.DisplayName,
			SizeBytes:   f.SizeBytes,
			CreatedAt:   f.CreatedAt,
			Registered:  f.Registered,
			Family:      f.Family,
			Format:      string(f.Format),
			Error:       failures[f.ID],
		})
	}
	return out
}

func (h *handler) handleAPIGetConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, stateFromSnapshot(h.worksheet.Snapshot()))
}

func (h *handler) handleAPIPatchConfig(w http.ResponseWriter, r *http.Request) {
	var body configPatch
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&body); err != nil {
		writeJSONError(w, r, invalidForm("body", err))
		return
	}
	if !body.Patch.IsEmpty() || body.Font != nil {
		if _, err := h.worksheet.Edit(r.Context(), body.Patch, body.Font); err != nil {
			writeJSONError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, stateFromSnapshot(h.worksheet.Snapshot()))
}

func (h *handler) handleAPIListFonts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]apiCachedFont{"fonts": fontsFromSnapshot(h.worksheet.Snapshot())})
}

func (h *handler) handleAPIDeleteFont(w http.ResponseWriter, r *http.Request) {
	if err := h.worksheet.DeleteFont(r.Context(), r.PathValue("id")); err != nil {
		writeJSONError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
