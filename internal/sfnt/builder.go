package sfnt

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Point is an outline point in font units, y up.
type Point struct {
	X, Y float64
}

// Glyph is one glyph to add to the font.
type Glyph struct {
	// Rune is the character mapped to the glyph. Zero leaves it unmapped.
	Rune rune
	// Name is the PostScript glyph name written to the post table.
	Name     string
	Contours [][]Point
	Advance  int
}

// Info holds the font-wide settings.
type Info struct {
	FamilyName string
	// StyleName defaults to Regular, Italic, Bold or Bold Italic depending
	// on ItalicAngle and WeightClass.
	StyleName string
	Version   string

	UnitsPerEm int
	Ascender   int
	Descender  int

	// ItalicAngle is the slant in degrees, positive leaning right.
	ItalicAngle float64
	// WeightClass is the OS/2 usWeightClass, 100 to 900. Zero means 400.
	WeightClass uint16

	// Created is written as both the created and modified date.
	Created time.Time
}

type ipoint struct {
	x, y int16
}

type rect struct {
	xMin, yMin, xMax, yMax int16
}

// glyph is a validated, integer-coordinate glyph.
type glyph struct {
	name     string
	advance  uint16
	contours [][]ipoint
	bounds   rect
}

func (g *glyph) numPoints() int {
	n := 0
	for _, c := range g.contours {
		n += len(c)
	}
	return n
}

// Builder collects glyphs and encodes the font. A Builder is not safe for
// concurrent use.
type Builder struct {
	info   Info
	glyphs []glyph
	cmap   map[rune]uint16
}

// NewBuilder returns a builder that already holds the .notdef glyph.
func NewBuilder(info Info) (*Builder, error) {
	switch {
	case info.UnitsPerEm < 16 || info.UnitsPerEm > 16384:
		return nil, fmt.Errorf("%w: unitsPerEm %d", ErrInvalidMetrics, info.UnitsPerEm)
	case info.Ascender <= info.Descender:
		return nil, fmt.Errorf("%w: ascender %d not above descender %d", ErrInvalidMetrics, info.Ascender, info.Descender)
	case !fitsInt16(float64(info.Ascender)) || !fitsInt16(float64(info.Descender)):
		return nil, fmt.Errorf("%w: ascender/descender out of range", ErrInvalidMetrics)
	case math.IsNaN(info.ItalicAngle) || math.Abs(info.ItalicAngle) >= 90:
		return nil, fmt.Errorf("%w: italic angle %g", ErrInvalidMetrics, info.ItalicAngle)
	}
	if info.FamilyName == "" {
		info.FamilyName = "Untitled"
	}
	if info.WeightClass == 0 {
		info.WeightClass = 400
	}
	if info.StyleName == "" {
		info.StyleName = styleName(info)
	}
	if info.Version == "" {
		info.Version = "Version 1.000"
	}
	b := &Builder{
		info: info,
		cmap: make(map[rune]uint16),
	}
	b.glyphs = append(b.glyphs, notdef(info))
	return b, nil
}

// AddGlyph validates g, rounds it to the font grid and appends it.
// It returns the new glyph index.
func (b *Builder) AddGlyph(g Glyph) (uint16, error) {
	if len(b.glyphs) >= math.MaxUint16 {
		return 0, ErrTooManyGlyphs
	}
	if g.Rune != 0 {
		if _, ok := b.cmap[g.Rune]; ok {
			return 0, fmt.Errorf("%w: U+%04X", ErrDuplicateRune, g.Rune)
		}
	}
	if g.Advance < 0 || g.Advance > math.MaxInt16 {
		return 0, fmt.Errorf("%w: advance %d for glyph %s", ErrInvalidMetrics, g.Advance, g.Name)
	}

	out := glyph{name: g.Name, advance: uint16(g.Advance)}
	for ci, c := range g.Contours {
		pts := make([]ipoint, 0, len(c))
		for pi, p := range c {
			if !fitsInt16(p.X) || !fitsInt16(p.Y) {
				return 0, &CoordinateError{Glyph: g.Name, Contour: ci, Point: pi, X: p.X, Y: p.Y}
			}
			ip := ipoint{x: int16(math.Round(p.X)), y: int16(math.Round(p.Y))}
			if len(pts) > 0 && pts[len(pts)-1] == ip {
				continue
			}
			pts = append(pts, ip)
		}
		for len(pts) > 1 && pts[len(pts)-1] == pts[0] {
			pts = pts[:len(pts)-1]
		}
		if len(pts) < 3 {
			continue
		}
		out.contours = append(out.contours, pts)
	}
	if out.numPoints() > math.MaxUint16 {
		return 0, fmt.Errorf("%w: %s has %d points", ErrTooManyPoints, g.Name, out.numPoints())
	}
	out.bounds = bounds(out.contours)

	id := uint16(len(b.glyphs))
	b.glyphs = append(b.glyphs, out)
	if g.Rune != 0 {
		b.cmap[g.Rune] = id
	}
	return id, nil
}

// NumGlyphs returns the number of glyphs, including .notdef.
func (b *Builder) NumGlyphs() int {
	return len(b.glyphs)
}

// Bytes encodes the font.
func (b *Builder) Bytes() ([]byte, error) {
	glyf, loca := b.glyfLoca()
	tables := map[string][]byte{
		"OS/2": b.os2(),
		"cmap": b.cmapTable(),
		"glyf": glyf,
		"head": b.head(),
		"hhea": b.hhea(),
		"hmtx": b.hmtx(),
		"loca": loca,
		"maxp": b.maxp(),
		"post": b.post(),
	}
	name, err := b.name()
	if err != nil {
		return nil, err
	}
	tables["name"] = name
	return assemble(tables), nil
}

// assemble writes the table directory followed by the tables in tag order
// and fixes up the checksums.
func assemble(tables map[string][]byte) []byte {
	tags := make([]string, 0, len(tables))
	for tag := range tables {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	w := &writer{}
	numTables := len(tags)
	searchRange, entrySelector, rangeShift := searchParams(numTables, 16)
	w.WriteUint32(0x00010000) // sfntVersion
	w.WriteUint16(uint16(numTables))
	w.WriteUint16(searchRange)
	w.WriteUint16(entrySelector)
	w.WriteUint16(rangeShift)

	// table records are filled in below
	w.WriteBytes(make([]byte, numTables*16))

	headPos := -1
	for i, tag := range tags {
		data := tables[tag]
		offset := w.Len()
		if tag == "head" {
			headPos = offset
		}
		w.WriteBytes(data)
		w.Pad(4)

		rec := 12 + i*16
		w.PutUint32(rec, tagUint32(tag))
		w.PutUint32(rec+4, checksum(w.buf[offset:w.Len()]))
		w.PutUint32(rec+8, uint32(offset))
		w.PutUint32(rec+12, uint32(len(data)))
	}
	if headPos >= 0 {
		w.PutUint32(headPos+8, 0xB1B0AFBA-checksum(w.Bytes()))
	}
	return w.Bytes()
}

func tagUint32(tag string) uint32 {
	return uint32(tag[0])<<24 | uint32(tag[1])<<16 | uint32(tag[2])<<8 | uint32(tag[3])
}

func fitsInt16(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	r := math.Round(v)
	return r >= math.MinInt16 && r <= math.MaxInt16
}

func bounds(contours [][]ipoint) rect {
	if len(contours) == 0 {
		return rect{}
	}
	r := rect{
		xMin: math.MaxInt16, yMin: math.MaxInt16,
		xMax: math.MinInt16, yMax: math.MinInt16,
	}
	for _, c := range contours {
		for _, p := range c {
			r.xMin = min(r.xMin, p.x)
			r.yMin = min(r.yMin, p.y)
			r.xMax = max(r.xMax, p.x)
			r.yMax = max(r.yMax, p.y)
		}
	}
	return r
}

// notdef draws a hollow rectangle spanning the lower part of the em.
func notdef(info Info) glyph {
	adv := info.UnitsPerEm / 2
	stroke := max(info.UnitsPerEm/20, 1)
	top := info.Ascender * 7 / 10
	if top <= stroke*3 {
		top = info.UnitsPerEm * 7 / 10
	}
	x0, x1 := int16(stroke), int16(adv-stroke)
	y0, y1 := int16(0), int16(top)
	s := int16(stroke)

	g := glyph{
		name:    ".notdef",
		advance: uint16(adv),
		contours: [][]ipoint{
			{{x0, y0}, {x0, y1}, {x1, y1}, {x1, y0}},
			{{x0 + s, y0 + s}, {x1 - s, y0 + s}, {x1 - s, y1 - s}, {x0 + s, y1 - s}},
		},
	}
	g.bounds = bounds(g.contours)
	return g
}

func styleName(info Info) string {
	bold := info.WeightClass >= 700
	italic := info.ItalicAngle != 0
	switch {
	case bold && italic:
		return "Bold Italic"
	case bold:
		return "Bold"
	case italic:
		return "Italic"
	}
	return "Regular"
}
