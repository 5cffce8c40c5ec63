package repair

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	apperrors "github.com/louisbranch/zitie/internal/platform/errors"
	"github.com/louisbranch/zitie/internal/services/worksheet/fontreg"
	"seehuhn.de/go/sfnt"
)

// ContentType is the media type of every repaired font.
const ContentType = "font/ttf"

// FixedSuffix is appended to the original base name of a repaired file.
const FixedSuffix = "_fixed.ttf"

// Result is a repaired font.
type Result struct {
	FileName  string
	Data      []byte
	Family    string
	NumGlyphs int
	Outlines  string
}

// Repair parses data and writes it back out. The output is checked to load
// with the same decoder the worksheet uses.
func Repair(fileName string, data []byte) (Result, error) {
	if len(data) == 0 {
		return Result{}, failure("font file is empty", nil)
	}

	font, err := read(data)
	if err != nil {
		return Result{}, failure(err.Error(), err)
	}

	var buf bytes.Buffer
	if _, err := font.Write(&buf); err != nil {
		return Result{}, failure(fmt.Sprintf("rewrite font: %v", err), err)
	}
	if _, _, err := fontreg.Decode(buf.Bytes()); err != nil {
		return Result{}, failure(fmt.Sprintf("rewritten font does not load: %v", err), err)
	}

	outlines := "glyf"
	if font.IsCFF() {
		outlines = "CFF"
	}
	return Result{
		FileName:  FixedName(fileName),
		Data:      buf.Bytes(),
		Family:    font.FamilyName,
		NumGlyphs: font.NumGlyphs(),
		Outlines:  outlines,
	}, nil
}

// FixedName derives the download name: the base name without its
// extension plus FixedSuffix.
func FixedName(fileName string) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(fileName), `\`, "/"))
	if base == "." || base == "/" || base == "" {
		base = "font"
	}
	if dot := strings.LastIndex(base, "."); dot > 0 {
		base = base[:dot]
	}
	return base + FixedSuffix
}

// read parses data, converting a parser panic on hostile input into an
// error.
func read(data []byte) (font *sfnt.Font, err error) {
	defer func() {
		if r := recover(); r != nil {
			font, err = nil, fmt.Errorf("malformed font: %v", r)
		}
	}()
	return sfnt.Read(bytes.NewReader(data))
}

func failure(reason string, cause error) error {
	meta := map[string]string{"Reason": reason}
	if cause == nil {
		return apperrors.WithMetadata(apperrors.CodeFontRepairFailure, reason, meta)
	}
	return apperrors.WrapWithMetadata(apperrors.CodeFontRepairFailure, "repair font", meta, cause)
}
