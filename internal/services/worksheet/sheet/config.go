package sheet

import (
	"math"
	"regexp"
	"strings"
	"unicode"

	apperrors "github.com/louisbranch/zitie/internal/platform/errors"
	"github.com/louisbranch/zitie/internal/services/worksheet/storage"
)

const (
	DefaultContent     = "床前明月光，疑是地上霜。举头望明月，低头思故乡。"
	DefaultCellSize    = 100
	DefaultGridStyle   = GridCharacter
	DefaultGridColor   = "#ef4444"
	DefaultTextColor   = "#000000"
	DefaultTextOpacity = 0.8

	// GlyphScale is the glyph size as a fraction of the cell edge.
	GlyphScale = 0.75
	// GridOpacity is the stroke opacity of every grid line.
	GridOpacity = 0.3
)

// Range hints for the sidebar controls. The controller accepts any
// positive cell size and any opacity in [0,1].
const (
	CellSizeMin    = 40
	CellSizeMax    = 200
	CellSizeStep   = 5
	OpacityMin     = 0.05
	OpacityStep    = 0.05
	TracingOpacity = 0.2
	CopyingOpacity = 1.0
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Config is the live worksheet configuration.
//
// FontSelector is either a static family stack or an asset id.
// ActiveFontAssetID, when set, names the cached font that should be active.
type Config struct {
	Content           string
	CellSize          int
	GridStyle         GridStyle
	GridColor         string
	TextColor         string
	TextOpacity       float64
	FontSelector      string
	ActiveFontAssetID string
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Content:      DefaultContent,
		CellSize:     DefaultCellSize,
		GridStyle:    DefaultGridStyle,
		GridColor:    DefaultGridColor,
		TextColor:    DefaultTextColor,
		TextOpacity:  DefaultTextOpacity,
		FontSelector: DefaultFontFamily,
	}
}

// FromPreference builds a Config from a stored record. Absent or invalid
// fields take their default.
func FromPreference(pref storage.StoredPreference) Config {
	cfg := Defaults()
	if pref.Content != nil {
		cfg.Content = *pref.Content
	}
	if pref.CellSize != nil && ValidateCellSize(*pref.CellSize) == nil {
		cfg.CellSize = *pref.CellSize
	}
	if pref.GridStyle != nil {
		if style, ok := ParseGridStyle(*pref.GridStyle); ok {
			cfg.GridStyle = style
		}
	}
	if pref.GridColor != nil && ValidateColor("gridColor", *pref.GridColor) == nil {
		cfg.GridColor = normalizeColor(*pref.GridColor)
	}
	if pref.TextColor != nil && ValidateColor("textColor", *pref.TextColor) == nil {
		cfg.TextColor = normalizeColor(*pref.TextColor)
	}
	if pref.TextOpacity != nil && ValidateOpacity(*pref.TextOpacity) == nil {
		cfg.TextOpacity = *pref.TextOpacity
	}
	if pref.FontSelector != nil && strings.TrimSpace(*pref.FontSelector) != "" {
		cfg.FontSelector = *pref.FontSelector
	}
	if pref.ActiveFontAssetID != nil {
		cfg.ActiveFontAssetID = strings.TrimSpace(*pref.ActiveFontAssetID)
	}
	return cfg
}

// ToPreference returns the full record persisted for c.
func (c Config) ToPreference() storage.StoredPreference {
	content := c.Content
	cellSize := c.CellSize
	gridStyle := string(c.GridStyle)
	gridColor := c.GridColor
	textColor := c.TextColor
	textOpacity := c.TextOpacity
	fontSelector := c.FontSelector
	pref := storage.StoredPreference{
		Content:      &content,
		CellSize:     &cellSize,
		GridStyle:    &gridStyle,
		GridColor:    &gridColor,
		TextColor:    &textColor,
		TextOpacity:  &textOpacity,
		FontSelector: &fontSelector,
	}
	if c.ActiveFontAssetID != "" {
		active := c.ActiveFontAssetID
		pref.ActiveFontAssetID = &active
	}
	return pref
}

// Patch holds the scalar edits a user can make. Nil fields are unchanged.
type Patch struct {
	Content     *string  `json:"content,omitempty"`
	CellSize    *int     `json:"cellSize,omitempty"`
	GridStyle   *string  `json:"gridStyle,omitempty"`
	GridColor   *string  `json:"gridColor,omitempty"`
	TextColor   *string  `json:"textColor,omitempty"`
	TextOpacity *float64 `json:"textOpacity,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Content == nil && p.CellSize == nil && p.GridStyle == nil &&
		p.GridColor == nil && p.TextColor == nil && p.TextOpacity == nil
}

// Apply validates every field of p and returns the edited configuration.
// A single invalid field rejects the whole patch.
func (c Config) Apply(p Patch) (Config, error) {
	next := c
	if p.Content != nil {
		next.Content = *p.Content
	}
	if p.CellSize != nil {
		if err := ValidateCellSize(*p.CellSize); err != nil {
			return c, err
		}
		next.CellSize = *p.CellSize
	}
	if p.GridStyle != nil {
		style, ok := ParseGridStyle(*p.GridStyle)
		if !ok {
			return c, invalidField("gridStyle", "unknown grid style")
		}
		next.GridStyle = style
	}
	if p.GridColor != nil {
		if err := ValidateColor("gridColor", *p.GridColor); err != nil {
			return c, err
		}
		next.GridColor = normalizeColor(*p.GridColor)
	}
	if p.TextColor != nil {
		if err := ValidateColor("textColor", *p.TextColor); err != nil {
			return c, err
		}
		next.TextColor = normalizeColor(*p.TextColor)
	}
	if p.TextOpacity != nil {
		if err := ValidateOpacity(*p.TextOpacity); err != nil {
			return c, err
		}
		next.TextOpacity = *p.TextOpacity
	}
	return next, nil
}

// ValidateCellSize rejects non-positive sizes.
func ValidateCellSize(size int) error {
	if size <= 0 {
		return invalidField("cellSize", "cell size must be positive")
	}
	return nil
}

// ValidateOpacity rejects values outside [0,1].
func ValidateOpacity(opacity float64) error {
	if math.IsNaN(opacity) || opacity < 0 || opacity > 1 {
		return invalidField("textOpacity", "text opacity must be between 0 and 1")
	}
	return nil
}

// ValidateColor accepts #rgb and #rrggbb hex colors.
func ValidateColor(field, value string) error {
	if !hexColor.MatchString(strings.TrimSpace(value)) {
		return invalidField(field, "color must be #rgb or #rrggbb")
	}
	return nil
}

func normalizeColor(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func invalidField(field, message string) error {
	return apperrors.WithMetadata(apperrors.CodeInvalidArgument, message, map[string]string{"Field": field})
}

// CleanText removes every whitespace rune; punctuation is kept.
func CleanText(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)
}

// Chars splits the cleaned content into one string per cell.
func Chars(text string) []string {
	cleaned := CleanText(text)
	chars := make([]string, 0, len(cleaned))
	for _, r := range cleaned {
		chars = append(chars, string(r))
	}
	return chars
}

// PadCells returns how many empty cells complete the last row of perRow.
func PadCells(count, perRow int) int {
	if perRow <= 0 {
		return 0
	}
	rem := count % perRow
	if rem == 0 {
		return 0
	}
	return perRow - rem
}
