package controller

import (
	"github.com/louisbranch/zitie/internal/services/worksheet/sheet"
)

func defaultActiveFont() ActiveFont {
	return staticActiveFont(sheet.DefaultStaticFont())
}

func staticActiveFont(f sheet.StaticFont) ActiveFont {
	return ActiveFont{
		Family:        f.Family,
		DisplayName:   f.Name,
		StylesheetURL: f.StylesheetURL,
	}
}

func customActiveFont(f CachedFont) ActiveFont {
	return ActiveFont{
		Family:      f.ID,
		DisplayName: f.DisplayName,
		AssetID:     f.ID,
	}
}

// resolveActiveFont applies the font precedence to cfg and returns the
// active font with cfg normalized to match it. A dangling or unregistered
// activeFontAssetId is dropped silently.
func resolveActiveFont(cfg sheet.Config, fonts []CachedFont) (ActiveFont, sheet.Config) {
	if cfg.ActiveFontAssetID != "" {
		if f, ok := findFont(fonts, cfg.ActiveFontAssetID); ok && f.Registered {
			cfg.FontSelector = f.ID
			return customActiveFont(f), cfg
		}
		cfg.ActiveFontAssetID = ""
	}
	if f, ok := sheet.LookupStaticFont(cfg.FontSelector); ok {
		return staticActiveFont(f), cfg
	}
	cfg.FontSelector = sheet.DefaultFontFamily
	return defaultActiveFont(), cfg
}

func findFont(fonts []CachedFont, id string) (CachedFont, bool) {
	for _, f := range fonts {
		if f.ID == id {
			return f, true
		}
	}
	return CachedFont{}, false
}
