package storage

import (
	"encoding/json"
	"fmt"
)

// StoredPreference is the persisted worksheet configuration.
//
// Every field is optional so records written by older or newer versions stay
// readable; nil means "use the default".
type StoredPreference struct {
	Content           *string  `json:"content,omitempty"`
	CellSize          *int     `json:"cellSize,omitempty"`
	GridStyle         *string  `json:"gridStyle,omitempty"`
	GridColor         *string  `json:"gridColor,omitempty"`
	TextColor         *string  `json:"textColor,omitempty"`
	TextOpacity       *float64 `json:"textOpacity,omitempty"`
	FontSelector      *string  `json:"fontSelector,omitempty"`
	ActiveFontAssetID *string  `json:"activeFontAssetId,omitempty"`
}

// legacyGridLabels maps grid labels written by the first release to grid style ids.
var legacyGridLabels = map[string]string{
	"米字格": "character-grid",
	"田字格": "field-grid",
	"回宫格": "palace-grid",
	"空白":  "none",
}

// preferenceWire accepts both the current keys and the first release's keys.
type preferenceWire struct {
	StoredPreference

	Size         *int    `json:"size,omitempty"`
	GridType     *string `json:"gridType,omitempty"`
	FontFamily   *string `json:"fontFamily,omitempty"`
	CustomFontID *string `json:"customFontId,omitempty"`
}

// EncodePreference serializes pref as JSON using the current key names.
func EncodePreference(pref StoredPreference) ([]byte, error) {
	payload, err := json.Marshal(pref)
	if err != nil {
		return nil, fmt.Errorf("marshal preference: %w", err)
	}
	return payload, nil
}

// DecodePreference parses a persisted record. Current keys win over legacy
// keys when both are present.
func DecodePreference(payload []byte) (StoredPreference, error) {
	var wire preferenceWire
	if err := json.Unmarshal(payload, &wire); err != nil {
		return StoredPreference{}, fmt.Errorf("unmarshal preference: %w", err)
	}
	pref := wire.StoredPreference
	if pref.CellSize == nil {
		pref.CellSize = wire.Size
	}
	if pref.GridStyle == nil && wire.GridType != nil {
		style := *wire.GridType
		if mapped, ok := legacyGridLabels[style]; ok {
			style = mapped
		}
		pref.GridStyle = &style
	}
	if pref.FontSelector == nil {
		pref.FontSelector = wire.FontFamily
	}
	if pref.ActiveFontAssetID == nil && wire.CustomFontID != nil && *wire.CustomFontID != "" {
		pref.ActiveFontAssetID = wire.CustomFontID
	}
	return pref, nil
}
