package repair

import (
	"testing"

	apperrors "github.com/louisbranch/zitie/internal/platform/errors"
	"github.com/louisbranch/zitie/internal/services/worksheet/fontreg"
	"golang.org/x/image/font/gofont/goregular"
)

func TestRepairValidFont(t *testing.T) {
	result, err := Repair("GoRegular.ttf", goregular.TTF)
	if err != nil {
		t.Fatalf("repair: %v", err)
	}
	if result.FileName != "GoRegular_fixed.ttf" {
		t.Fatalf("file name = %q, want GoRegular_fixed.ttf", result.FileName)
	}
	if result.Outlines != "glyf" {
		t.Fatalf("outlines = %q, want glyf", result.Outlines)
	}
	if result.NumGlyphs == 0 || len(result.Data) == 0 {
		t.Fatalf("result = %+v, want glyphs and data", result)
	}
	if _, err := fontreg.New().Register("repaired", result.Data); err != nil {
		t.Fatalf("register repaired font: %v", err)
	}
}

func TestRepairRejectsGarbage(t *testing.T) {
	tests := map[string][]byte{
		"empty":     nil,
		"text":      []byte("this is not a font file"),
		"truncated": append([]byte(nil), goregular.TTF[:200]...),
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Repair("bad.ttf", data)
			if !apperrors.HasCode(err, apperrors.CodeFontRepairFailure) {
				t.Fatalf("err = %v, want font repair failure", err)
			}
			if apperrors.MetadataOf(err)["Reason"] == "" {
				t.Fatal("expected a human-readable reason")
			}
		})
	}
}

func TestFixedName(t *testing.T) {
	tests := map[string]string{
		"MyFont.ttf":           "MyFont_fixed.ttf",
		"my.font.otf":          "my.font_fixed.ttf",
		"noext":                "noext_fixed.ttf",
		".hidden":              ".hidden_fixed.ttf",
		`C:\fonts\KaiTi.ttf`:   "KaiTi_fixed.ttf",
		"/tmp/upload/Song.TTF": "Song_fixed.ttf",
		"":                     "font_fixed.ttf",
	}
	for input, want := range tests {
		if got := FixedName(input); got != want {
			t.Fatalf("FixedName(%q) = %q, want %q", input, got, want)
		}
	}
}
