package fontreg

import (
	"bytes"
	"sort"
	"strings"
	"sync"

	apperrors "github.com/louisbranch/zitie/internal/platform/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// Format identifies the outline flavour of a registered font.
type Format string

const (
	FormatTrueType Format = "ttf"
	FormatOpenType Format = "otf"
)

// ContentType returns the media type served for the format.
func (f Format) ContentType() string {
	if f == FormatOpenType {
		return "font/otf"
	}
	return "font/ttf"
}

// Info describes a registered font.
type Info struct {
	ID        string
	Family    string
	Format    Format
	NumGlyphs int
}

type entry struct {
	info Info
	font *opentype.Font
}

// Registry holds decoded fonts keyed by family id. It is safe for
// concurrent use.
type Registry struct {
	mu    sync.RWMutex
	fonts map[string]entry
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{fonts: make(map[string]entry)}
}

// Register decodes data and makes it available under id. Registering an id
// again replaces the previous font. A decode failure leaves the registry
// unchanged.
func (r *Registry) Register(id string, data []byte) (Info, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Info{}, apperrors.WithMetadata(apperrors.CodeInvalidArgument, "font id is required", map[string]string{"Field": "id"})
	}

	info, parsed, err := Decode(data)
	if err != nil {
		return Info{}, apperrors.WrapWithMetadata(apperrors.CodeFontDecodeFailure, "decode font", map[string]string{"ID": id}, err)
	}
	info.ID = id

	r.mu.Lock()
	defer r.mu.Unlock()
	r.fonts[id] = entry{info: info, font: parsed}
	return info, nil
}

// Unregister removes id. Unknown ids are ignored.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.fonts, id)
}

// Clear removes every registered font.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fonts = make(map[string]entry)
}

// Lookup returns the info registered under id.
func (r *Registry) Lookup(id string) (Info, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.fonts[id]
	return e.info, ok
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.Lookup(id)
	return ok
}

// IDs returns the registered ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.fonts))
	for id := range r.fonts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Face returns a new face for id at size pixels. Faces are not safe for
// concurrent use; the caller owns and closes the result.
func (r *Registry) Face(id string, size float64) (font.Face, error) {
	r.mu.RLock()
	e, ok := r.fonts[id]
	r.mu.RUnlock()
	if !ok {
		return nil, apperrors.WithMetadata(apperrors.CodeNotFound, "font is not registered", map[string]string{"ID": id})
	}
	return newFace(e.font, size)
}

// Decode parses data as a TrueType or OpenType font and verifies a face
// can be built from it.
func Decode(data []byte) (Info, *opentype.Font, error) {
	if len(data) == 0 {
		return Info{}, nil, errEmptyFont
	}
	// sfnt keeps referencing the source slice.
	src := append([]byte(nil), data...)
	parsed, err := opentype.Parse(src)
	if err != nil {
		return Info{}, nil, err
	}
	if parsed.NumGlyphs() == 0 {
		return Info{}, nil, errNoGlyphs
	}
	face, err := newFace(parsed, 16)
	if err != nil {
		return Info{}, nil, err
	}
	_ = face.Close()

	info := Info{
		Family:    familyName(parsed),
		Format:    detectFormat(src),
		NumGlyphs: parsed.NumGlyphs(),
	}
	return info, parsed, nil
}

func newFace(f *opentype.Font, size float64) (font.Face, error) {
	if size <= 0 {
		size = 16
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

func familyName(f *opentype.Font) string {
	var buf sfnt.Buffer
	name, err := f.Name(&buf, sfnt.NameIDFamily)
	if err != nil {
		return ""
	}
	return name
}

func detectFormat(data []byte) Format {
	if bytes.HasPrefix(data, []byte("OTTO")) {
		return FormatOpenType
	}
	return FormatTrueType
}
