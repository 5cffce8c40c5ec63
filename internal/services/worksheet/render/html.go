package render

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"
	"github.com/louisbranch/zitie/internal/services/worksheet/sheet"
)

// Sheet renders the tiled worksheet grid.
func Sheet(in Input) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		size := in.cellSize()
		grid := GridSVG(in.GridStyle, in.GridColor)
		textColor := parseHexColor(in.TextColor, blackNRGBA)
		glyphStyle := fmt.Sprintf(
			"font-family: %s; font-size: %spx; color: #%02x%02x%02x; opacity: %s;",
			in.FontFamily,
			formatFloat(float64(size)*sheet.GlyphScale),
			textColor.R, textColor.G, textColor.B,
			formatFloat(in.TextOpacity),
		)
		cellStyle := fmt.Sprintf("width: %dpx; height: %dpx;", size, size)

		if _, err := io.WriteString(w, `<div class="sheet-grid">`); err != nil {
			return err
		}
		for _, ch := range in.Cells() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if _, err := io.WriteString(w, `<div class="cell" style="`+templ.EscapeString(cellStyle)+`">`+grid); err != nil {
				return err
			}
			if ch != "" {
				if _, err := io.WriteString(w, `<span class="glyph" style="`+templ.EscapeString(glyphStyle)+`">`+templ.EscapeString(ch)+`</span>`); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</div>`); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}

// PrintHeader renders the title block shown only on paper.
func PrintHeader(title, dateLabel string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<div class="print-only print-header"><h1>`+templ.EscapeString(title)+`</h1><p>`+templ.EscapeString(dateLabel)+`: _________________</p></div>`)
		return err
	})
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
