package render

import (
	"fmt"
	"strings"

	"github.com/louisbranch/zitie/internal/services/worksheet/sheet"
)

// dashPattern is the stroke-dasharray of every guide line, in viewBox units.
const dashPattern = "4 2"

// GridSVG returns the inline SVG drawn behind one cell on a 0..100 viewBox.
// GridNone yields an empty string.
func GridSVG(style sheet.GridStyle, gridColor string) string {
	if style == sheet.GridNone || style.Label() == "" {
		return ""
	}
	stroke := parseHexColor(gridColor, parseHexColor(sheet.DefaultGridColor, blackNRGBA))
	attrs := fmt.Sprintf(`stroke="#%02x%02x%02x" stroke-opacity="%g"`, stroke.R, stroke.G, stroke.B, sheet.GridOpacity)

	var b strings.Builder
	b.WriteString(`<svg class="grid" viewBox="0 0 100 100" aria-hidden="true">`)
	fmt.Fprintf(&b, `<rect x="0" y="0" width="100" height="100" fill="none" stroke-width="2" %s/>`, attrs)
	if style.HasCross() {
		writeDashedLine(&b, 50, 0, 50, 100, attrs)
		writeDashedLine(&b, 0, 50, 100, 50, attrs)
	}
	if style.HasDiagonals() {
		writeDashedLine(&b, 0, 0, 100, 100, attrs)
		writeDashedLine(&b, 100, 0, 0, 100, attrs)
	}
	if style.HasInnerSquare() {
		fmt.Fprintf(&b, `<rect x="25" y="25" width="50" height="50" fill="none" stroke-width="1" stroke-dasharray="%s" %s/>`, dashPattern, attrs)
	}
	b.WriteString(`</svg>`)
	return b.String()
}

func writeDashedLine(b *strings.Builder, x1, y1, x2, y2 int, attrs string) {
	fmt.Fprintf(b, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke-width="1" stroke-dasharray="%s" %s/>`, x1, y1, x2, y2, dashPattern, attrs)
}
