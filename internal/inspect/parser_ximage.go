package inspect

import (
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// ximageParser implements Parse using golang.org/x/image/font/opentype.
type ximageParser struct{}

func (p *ximageParser) Parse(data []byte) (ParsedFont, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("inspect: ximage: failed to parse font: %w", err)
	}
	return &ximageParsedFont{font: f}, nil
}

// ximageParsedFont implements ParsedFont using sfnt.Font.
type ximageParsedFont struct {
	font *opentype.Font
}

func (f *ximageParsedFont) Name() string {
	if name, err := f.font.Name(nil, sfnt.NameIDFamily); err == nil {
		return name
	}
	return ""
}

func (f *ximageParsedFont) NumGlyphs() int {
	return f.font.NumGlyphs()
}

func (f *ximageParsedFont) UnitsPerEm() int {
	return int(f.font.UnitsPerEm())
}

func (f *ximageParsedFont) GlyphIndex(r rune) uint16 {
	idx, err := f.font.GlyphIndex(nil, r)
	if err != nil {
		return 0
	}
	return uint16(idx)
}

func (f *ximageParsedFont) GlyphAdvance(glyphIndex uint16) float64 {
	var buf sfnt.Buffer

	// at ppem == unitsPerEm the 26.6 advance is in font units
	upm := f.font.UnitsPerEm()
	advance, err := f.font.GlyphAdvance(&buf, sfnt.GlyphIndex(glyphIndex), fixed.I(int(upm)), font.HintingNone)
	if err != nil {
		return 0
	}
	return float64(advance) / 64
}
