package fontreg

import "errors"

var (
	errEmptyFont = errors.New("font data is empty")
	errNoGlyphs  = errors.New("font has no glyphs")
)
