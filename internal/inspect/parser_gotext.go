package inspect

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/go-text/typesetting/font"
	ot "github.com/go-text/typesetting/font/opentype"
)

// gotextParser implements Parse using github.com/go-text/typesetting.
type gotextParser struct{}

func (p *gotextParser) Parse(data []byte) (ParsedFont, error) {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("inspect: gotext: failed to parse font: %w", err)
	}

	// glyph count and family name come from the raw tables
	ld, err := ot.NewLoader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("inspect: gotext: failed to load tables: %w", err)
	}
	maxp, err := ld.RawTable(ot.MustNewTag("maxp"))
	if err != nil || len(maxp) < 6 {
		return nil, fmt.Errorf("inspect: gotext: missing maxp table")
	}
	desc, _ := font.Describe(ld, nil)

	return &gotextParsedFont{
		face:      face,
		family:    desc.Family,
		numGlyphs: int(binary.BigEndian.Uint16(maxp[4:])),
	}, nil
}

// gotextParsedFont implements ParsedFont using font.Face.
type gotextParsedFont struct {
	face      *font.Face
	family    string
	numGlyphs int
}

func (f *gotextParsedFont) Name() string { return f.family }

func (f *gotextParsedFont) NumGlyphs() int { return f.numGlyphs }

func (f *gotextParsedFont) UnitsPerEm() int { return int(f.face.Upem()) }

func (f *gotextParsedFont) GlyphIndex(r rune) uint16 {
	gid, ok := f.face.NominalGlyph(r)
	if !ok {
		return 0
	}
	return uint16(gid)
}

func (f *gotextParsedFont) GlyphAdvance(glyphIndex uint16) float64 {
	return float64(f.face.HorizontalAdvance(font.GID(glyphIndex)))
}
