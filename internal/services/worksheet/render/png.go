package render

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	apperrors "github.com/louisbranch/zitie/internal/platform/errors"
	"github.com/louisbranch/zitie/internal/services/worksheet/sheet"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

const (
	// CellGap is the space between neighbouring cells in pixels.
	CellGap = 4
	// Margin is the blank border around the raster in pixels.
	Margin = 32
	// MaxPixels bounds the raster so oversized cells cannot exhaust memory.
	MaxPixels = 64 << 20
)

var blackNRGBA = color.NRGBA{A: 0xff}

// Layout is the pixel geometry of a rasterized worksheet.
type Layout struct {
	CellSize int
	Cols     int
	Rows     int
	Width    int
	Height   int
}

// LayoutFor computes the raster geometry for in. Callers must check the
// input with CheckSize first; oversized cells overflow int arithmetic.
func LayoutFor(in Input) Layout {
	size := in.cellSize()
	cols := in.perRow()
	rows := in.rows()
	return Layout{
		CellSize: size,
		Cols:     cols,
		Rows:     rows,
		Width:    2*Margin + cols*size + (cols-1)*CellGap,
		Height:   2*Margin + rows*size + (rows-1)*CellGap,
	}
}

// CheckSize rejects inputs whose raster would exceed MaxPixels. Each side
// is bounded before the area is taken so no product can overflow.
func CheckSize(in Input) error {
	size, cols, rows := int64(in.cellSize()), int64(in.perRow()), int64(in.rows())
	if size > MaxPixels || cols > MaxPixels || rows > MaxPixels {
		return errTooLarge()
	}
	width := 2*Margin + cols*size + (cols-1)*CellGap
	height := 2*Margin + rows*size + (rows-1)*CellGap
	if width > MaxPixels || height > MaxPixels || width*height > MaxPixels {
		return errTooLarge()
	}
	return nil
}

func errTooLarge() error {
	return apperrors.WithMetadata(apperrors.CodeInvalidArgument, "worksheet is too large to rasterize", map[string]string{"Field": "cellSize"})
}

// Origin returns the top-left pixel of cell i.
func (l Layout) Origin(i int) image.Point {
	col, row := i%l.Cols, i/l.Cols
	return image.Point{
		X: Margin + col*(l.CellSize+CellGap),
		Y: Margin + row*(l.CellSize+CellGap),
	}
}

// Rasterize draws the worksheet on a white background. A nil face draws the
// grid without glyphs.
func Rasterize(in Input, face font.Face) (*image.NRGBA, error) {
	if err := CheckSize(in); err != nil {
		return nil, err
	}
	layout := LayoutFor(in)

	img := image.NewNRGBA(image.Rect(0, 0, layout.Width, layout.Height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	cells := in.Cells()
	if len(cells) == 0 {
		cells = make([]string, layout.Cols)
	}

	if in.GridStyle != sheet.GridNone {
		z := vector.NewRasterizer(layout.Width, layout.Height)
		for i := range cells {
			addCellGrid(z, layout.Origin(i), layout.CellSize, in.GridStyle)
		}
		gridColor := withOpacity(parseHexColor(in.GridColor, parseHexColor(sheet.DefaultGridColor, blackNRGBA)), sheet.GridOpacity)
		z.Draw(img, img.Bounds(), image.NewUniform(gridColor), image.Point{})
	}

	if face != nil {
		textColor := withOpacity(parseHexColor(in.TextColor, blackNRGBA), in.TextOpacity)
		drawGlyphs(img, face, layout, cells, textColor)
	}
	return img, nil
}

// EncodePNG rasterizes in and writes it as PNG.
func EncodePNG(w io.Writer, in Input, face font.Face) error {
	img, err := Rasterize(in, face)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

func drawGlyphs(img draw.Image, face font.Face, layout Layout, cells []string, c color.NRGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
	}
	m := face.Metrics()
	half := fixed.I(layout.CellSize) / 2
	for i, ch := range cells {
		if ch == "" {
			continue
		}
		origin := layout.Origin(i)
		advance := d.MeasureString(ch)
		d.Dot = fixed.Point26_6{
			X: fixed.I(origin.X) + half - advance/2,
			Y: fixed.I(origin.Y) + half + (m.Ascent-m.Descent)/2,
		}
		d.DrawString(ch)
	}
}

// addCellGrid adds the guide lines of one cell. Coordinates follow the SVG
// viewBox scaled to size pixels.
func addCellGrid(z *vector.Rasterizer, origin image.Point, size int, style sheet.GridStyle) {
	s := float32(size) / 100
	x0, y0 := float32(origin.X), float32(origin.Y)
	at := func(u, v float32) (float32, float32) { return x0 + u*s, y0 + v*s }
	line := float32(math.Max(float64(s), 1))

	// The SVG border is stroke-width 2 centred on the edge and clipped by the
	// viewBox, leaving one unit inside the cell.
	border := line
	fillRect(z, x0, y0, x0+float32(size), y0+border)
	fillRect(z, x0, y0+float32(size)-border, x0+float32(size), y0+float32(size))
	fillRect(z, x0, y0, x0+border, y0+float32(size))
	fillRect(z, x0+float32(size)-border, y0, x0+float32(size), y0+float32(size))

	dash, gap := 4*s, 2*s
	dashed := func(u1, v1, u2, v2 float32) {
		ax, ay := at(u1, v1)
		bx, by := at(u2, v2)
		dashedSegment(z, ax, ay, bx, by, line, dash, gap)
	}
	if style.HasCross() {
		dashed(50, 0, 50, 100)
		dashed(0, 50, 100, 50)
	}
	if style.HasDiagonals() {
		dashed(0, 0, 100, 100)
		dashed(100, 0, 0, 100)
	}
	if style.HasInnerSquare() {
		dashed(25, 25, 75, 25)
		dashed(75, 25, 75, 75)
		dashed(75, 75, 25, 75)
		dashed(25, 75, 25, 25)
	}
}

// fillRect winds the same way as strokeSegment so overlaps never cancel.
func fillRect(z *vector.Rasterizer, x0, y0, x1, y1 float32) {
	z.MoveTo(x0, y0)
	z.LineTo(x0, y1)
	z.LineTo(x1, y1)
	z.LineTo(x1, y0)
	z.ClosePath()
}

// dashedSegment adds dash quads of the given width along a→b.
func dashedSegment(z *vector.Rasterizer, ax, ay, bx, by, width, dash, gap float32) {
	dx, dy := bx-ax, by-ay
	length := float32(math.Hypot(float64(dx), float64(dy)))
	if length == 0 || dash <= 0 {
		return
	}
	ux, uy := dx/length, dy/length
	for start := float32(0); start < length; start += dash + gap {
		end := start + dash
		if end > length {
			end = length
		}
		strokeSegment(z, ax+ux*start, ay+uy*start, ax+ux*end, ay+uy*end, width)
	}
}

// strokeSegment adds a quad of the given width centred on a→b.
func strokeSegment(z *vector.Rasterizer, ax, ay, bx, by, width float32) {
	dx, dy := bx-ax, by-ay
	length := float32(math.Hypot(float64(dx), float64(dy)))
	if length == 0 {
		return
	}
	nx, ny := -dy/length*width/2, dx/length*width/2
	z.MoveTo(ax+nx, ay+ny)
	z.LineTo(bx+nx, by+ny)
	z.LineTo(bx-nx, by-ny)
	z.LineTo(ax-nx, ay-ny)
	z.ClosePath()
}
