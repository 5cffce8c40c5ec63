package sheet

// GridStyle is the pattern overlaid on every character cell.
type GridStyle string

const (
	GridNone      GridStyle = "none"
	GridField     GridStyle = "field-grid"
	GridCharacter GridStyle = "character-grid"
	GridPalace    GridStyle = "palace-grid"
)

var gridStyles = []GridStyle{GridCharacter, GridField, GridPalace, GridNone}

var gridLabels = map[GridStyle]string{
	GridCharacter: "米字格",
	GridField:     "田字格",
	GridPalace:    "回宫格",
	GridNone:      "空白",
}

// GridStyles returns every grid style in display order.
func GridStyles() []GridStyle {
	return append([]GridStyle(nil), gridStyles...)
}

// ParseGridStyle accepts a style id or its Chinese label.
func ParseGridStyle(value string) (GridStyle, bool) {
	for _, style := range gridStyles {
		if value == string(style) || value == gridLabels[style] {
			return style, true
		}
	}
	return "", false
}

// Label returns the conventional Chinese name of the style.
func (g GridStyle) Label() string {
	return gridLabels[g]
}

// HasCross reports whether the style draws the dashed centre cross.
func (g GridStyle) HasCross() bool {
	return g == GridField || g == GridCharacter || g == GridPalace
}

// HasDiagonals reports whether the style draws both diagonals.
func (g GridStyle) HasDiagonals() bool {
	return g == GridCharacter
}

// HasInnerSquare reports whether the style draws the inner palace square.
func (g GridStyle) HasInnerSquare() bool {
	return g == GridPalace
}
