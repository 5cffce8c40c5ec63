package render

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/louisbranch/zitie/internal/services/worksheet/sheet"
)

// DefaultPerRow is the number of cells per row on the printed sheet.
const DefaultPerRow = 12

// Input is everything the renderer consumes.
type Input struct {
	Content     string
	CellSize    int
	GridStyle   sheet.GridStyle
	GridColor   string
	FontFamily  string
	TextColor   string
	TextOpacity float64
	PerRow      int
}

// InputFrom builds renderer input from a live configuration and the
// resolved font family.
func InputFrom(cfg sheet.Config, fontFamily string) Input {
	return Input{
		Content:     cfg.Content,
		CellSize:    cfg.CellSize,
		GridStyle:   cfg.GridStyle,
		GridColor:   cfg.GridColor,
		FontFamily:  fontFamily,
		TextColor:   cfg.TextColor,
		TextOpacity: cfg.TextOpacity,
		PerRow:      DefaultPerRow,
	}
}

// Cells returns the characters to tile followed by blank cells that
// complete the last row.
func (in Input) Cells() []string {
	chars := sheet.Chars(in.Content)
	pad := sheet.PadCells(len(chars), in.perRow())
	return append(chars, make([]string, pad)...)
}

// rows counts sheet rows; an empty sheet still shows one row.
func (in Input) rows() int {
	cols := in.perRow()
	cells := len(in.Cells())
	if cells == 0 {
		cells = cols
	}
	return (cells + cols - 1) / cols
}

func (in Input) perRow() int {
	if in.PerRow <= 0 {
		return DefaultPerRow
	}
	return in.PerRow
}

func (in Input) cellSize() int {
	if in.CellSize <= 0 {
		return sheet.DefaultCellSize
	}
	return in.CellSize
}

// parseHexColor reads #rgb or #rrggbb. Anything else yields fallback.
func parseHexColor(value string, fallback color.NRGBA) color.NRGBA {
	hex := strings.TrimPrefix(strings.TrimSpace(value), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return fallback
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return fallback
	}
	return color.NRGBA{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 0xff}
}

func withOpacity(c color.NRGBA, opacity float64) color.NRGBA {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	c.A = uint8(opacity*255 + 0.5)
	return c
}
