package sfnt

import (
	"math"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
)

// Simple glyph flags.
const (
	flagOnCurve      = 0x01
	flagXShort       = 0x02
	flagYShort       = 0x04
	flagXSameOrPlus  = 0x10
	flagYSameOrPlus  = 0x20
	headMagic        = 0x5F0F3CF5
	locaLongFormat   = 1
	macStyleBold     = 1 << 0
	macStyleItalic   = 1 << 1
	fsSelItalic      = 1 << 0
	fsSelBold        = 1 << 5
	fsSelRegular     = 1 << 6
	fsSelUseTypo     = 1 << 7
	postNotdefIndex  = 0
	postCustomOffset = 258
)

// sfntEpoch is the reference date of LONGDATETIME values.
var sfntEpoch = time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)

func (b *Builder) glyfLoca() (glyf, loca []byte) {
	gw, lw := &writer{}, &writer{}
	for i := range b.glyphs {
		lw.WriteUint32(uint32(gw.Len()))
		encodeGlyph(gw, &b.glyphs[i])
		gw.Pad(4)
	}
	lw.WriteUint32(uint32(gw.Len()))
	return gw.Bytes(), lw.Bytes()
}

// encodeGlyph writes a simple glyph with all points on-curve. Glyphs
// without contours are written as zero-length entries.
func encodeGlyph(w *writer, g *glyph) {
	if len(g.contours) == 0 {
		return
	}
	w.WriteInt16(int16(len(g.contours)))
	w.WriteInt16(g.bounds.xMin)
	w.WriteInt16(g.bounds.yMin)
	w.WriteInt16(g.bounds.xMax)
	w.WriteInt16(g.bounds.yMax)

	end := -1
	for _, c := range g.contours {
		end += len(c)
		w.WriteUint16(uint16(end))
	}
	w.WriteUint16(0) // instructionLength

	var flags []byte
	var xs, ys writer
	var prev ipoint
	for _, c := range g.contours {
		for _, p := range c {
			dx := int(p.x) - int(prev.x)
			dy := int(p.y) - int(prev.y)
			prev = p

			f := byte(flagOnCurve)
			f |= coord(&xs, dx, flagXShort, flagXSameOrPlus)
			f |= coord(&ys, dy, flagYShort, flagYSameOrPlus)
			flags = append(flags, f)
		}
	}
	w.WriteBytes(flags)
	w.WriteBytes(xs.Bytes())
	w.WriteBytes(ys.Bytes())
}

// coord writes one delta coordinate in its smallest form and returns the
// flag bits describing it.
func coord(w *writer, d int, short, same byte) byte {
	switch {
	case d == 0:
		return same
	case d > 0 && d <= 255:
		w.WriteUint8(uint8(d))
		return short | same
	case d < 0 && d >= -255:
		w.WriteUint8(uint8(-d))
		return short
	}
	w.WriteInt16(int16(d))
	return 0
}

// fontBounds is the union of all glyph bounding boxes.
func (b *Builder) fontBounds() rect {
	var r rect
	first := true
	for i := range b.glyphs {
		g := &b.glyphs[i]
		if len(g.contours) == 0 {
			continue
		}
		if first {
			r = g.bounds
			first = false
			continue
		}
		r.xMin = min(r.xMin, g.bounds.xMin)
		r.yMin = min(r.yMin, g.bounds.yMin)
		r.xMax = max(r.xMax, g.bounds.xMax)
		r.yMax = max(r.yMax, g.bounds.yMax)
	}
	return r
}

func (b *Builder) head() []byte {
	r := b.fontBounds()
	ts := int64(0)
	if !b.info.Created.IsZero() {
		ts = int64(b.info.Created.UTC().Sub(sfntEpoch) / time.Second)
	}
	var macStyle uint16
	if b.info.WeightClass >= 700 {
		macStyle |= macStyleBold
	}
	if b.info.ItalicAngle != 0 {
		macStyle |= macStyleItalic
	}

	w := &writer{}
	w.WriteUint32(0x00010000) // version
	w.WriteFixed(1)           // fontRevision
	w.WriteUint32(0)          // checkSumAdjustment, set by assemble
	w.WriteUint32(headMagic)
	w.WriteUint16(0x0003) // flags: baseline at y=0, lsb at x=0
	w.WriteUint16(uint16(b.info.UnitsPerEm))
	w.WriteInt64(ts) // created
	w.WriteInt64(ts) // modified
	w.WriteInt16(r.xMin)
	w.WriteInt16(r.yMin)
	w.WriteInt16(r.xMax)
	w.WriteInt16(r.yMax)
	w.WriteUint16(macStyle)
	w.WriteUint16(8) // lowestRecPPEM
	w.WriteInt16(2)  // fontDirectionHint
	w.WriteInt16(locaLongFormat)
	w.WriteInt16(0) // glyphDataFormat
	return w.Bytes()
}

func (b *Builder) hhea() []byte {
	var advMax uint16
	minLSB, minRSB, maxExtent := int16(math.MaxInt16), int16(math.MaxInt16), int16(math.MinInt16)
	drawn := false
	for i := range b.glyphs {
		g := &b.glyphs[i]
		advMax = max(advMax, g.advance)
		if len(g.contours) == 0 {
			continue
		}
		drawn = true
		minLSB = min(minLSB, g.bounds.xMin)
		minRSB = min(minRSB, clampInt16(int(g.advance)-int(g.bounds.xMax)))
		maxExtent = max(maxExtent, g.bounds.xMax)
	}
	if !drawn {
		minLSB, minRSB, maxExtent = 0, 0, 0
	}
	rise, run := caretSlope(b.info.ItalicAngle, b.info.UnitsPerEm)

	w := &writer{}
	w.WriteUint32(0x00010000) // version
	w.WriteInt16(int16(b.info.Ascender))
	w.WriteInt16(int16(b.info.Descender))
	w.WriteInt16(0) // lineGap
	w.WriteUint16(advMax)
	w.WriteInt16(minLSB)
	w.WriteInt16(minRSB)
	w.WriteInt16(maxExtent)
	w.WriteInt16(rise)
	w.WriteInt16(run)
	w.WriteInt16(0) // caretOffset
	w.WriteBytes(make([]byte, 8))
	w.WriteInt16(0) // metricDataFormat
	w.WriteUint16(uint16(len(b.glyphs)))
	return w.Bytes()
}

// caretSlope returns the hhea caret rise and run for a right-leaning slant
// of the given degrees.
func caretSlope(degrees float64, upm int) (rise, run int16) {
	if degrees == 0 {
		return 1, 0
	}
	return int16(upm), clampInt16(int(math.Round(float64(upm) * math.Tan(degrees*math.Pi/180))))
}

func (b *Builder) hmtx() []byte {
	w := &writer{}
	for i := range b.glyphs {
		g := &b.glyphs[i]
		w.WriteUint16(g.advance)
		w.WriteInt16(g.bounds.xMin)
	}
	return w.Bytes()
}

func (b *Builder) maxp() []byte {
	var maxPoints, maxContours int
	for i := range b.glyphs {
		g := &b.glyphs[i]
		maxPoints = max(maxPoints, g.numPoints())
		maxContours = max(maxContours, len(g.contours))
	}
	w := &writer{}
	w.WriteUint32(0x00010000) // version 1.0
	w.WriteUint16(uint16(len(b.glyphs)))
	w.WriteUint16(uint16(maxPoints))
	w.WriteUint16(uint16(maxContours))
	w.WriteUint16(0) // maxCompositePoints
	w.WriteUint16(0) // maxCompositeContours
	w.WriteUint16(2) // maxZones
	w.WriteBytes(make([]byte, 18))
	return w.Bytes()
}

func (b *Builder) post() []byte {
	upm := b.info.UnitsPerEm
	w := &writer{}
	w.WriteUint32(0x00020000)
	// italicAngle is counter-clockwise from vertical
	w.WriteFixed(-b.info.ItalicAngle)
	w.WriteInt16(clampInt16(-upm / 10)) // underlinePosition
	w.WriteInt16(clampInt16(upm / 20))  // underlineThickness
	w.WriteUint32(0)                    // isFixedPitch
	w.WriteBytes(make([]byte, 16))      // min/max memory
	w.WriteUint16(uint16(len(b.glyphs)))

	var names writer
	custom := 0
	for i := range b.glyphs {
		name := b.glyphs[i].name
		if name == ".notdef" {
			w.WriteUint16(postNotdefIndex)
			continue
		}
		if name == "" || len(name) > 63 {
			name = glyphIDName(i)
		}
		w.WriteUint16(uint16(postCustomOffset + custom))
		names.WriteUint8(uint8(len(name)))
		names.WriteString(name)
		custom++
	}
	w.WriteBytes(names.Bytes())
	return w.Bytes()
}

func glyphIDName(i int) string {
	const digits = "0123456789"
	s := ""
	for {
		s = string(digits[i%10]) + s
		i /= 10
		if i == 0 {
			break
		}
	}
	return "glyph" + s
}

func (b *Builder) os2() []byte {
	upm := b.info.UnitsPerEm
	r := b.fontBounds()

	var fsSelection uint16 = fsSelUseTypo
	if b.info.ItalicAngle != 0 {
		fsSelection |= fsSelItalic
	}
	if b.info.WeightClass >= 700 {
		fsSelection |= fsSelBold
	}
	if fsSelection&(fsSelItalic|fsSelBold) == 0 {
		fsSelection |= fsSelRegular
	}

	first, last := uint16(0xFFFF), uint16(0)
	for rn := range b.cmap {
		c := uint16(min(rn, 0xFFFF))
		first = min(first, c)
		last = max(last, c)
	}
	if len(b.cmap) == 0 {
		first = 0
	}

	var avg, n int
	for i := range b.glyphs {
		if a := int(b.glyphs[i].advance); a > 0 {
			avg += a
			n++
		}
	}
	if n > 0 {
		avg /= n
	}

	w := &writer{}
	w.WriteUint16(4) // version
	w.WriteInt16(clampInt16(avg))
	w.WriteUint16(b.info.WeightClass)
	w.WriteUint16(5) // usWidthClass: medium
	w.WriteUint16(0) // fsType: installable
	sub := clampInt16(upm * 65 / 100)
	w.WriteInt16(sub)                        // ySubscriptXSize
	w.WriteInt16(sub)                        // ySubscriptYSize
	w.WriteInt16(0)                          // ySubscriptXOffset
	w.WriteInt16(clampInt16(upm / 7))        // ySubscriptYOffset
	w.WriteInt16(sub)                        // ySuperscriptXSize
	w.WriteInt16(sub)                        // ySuperscriptYSize
	w.WriteInt16(0)                          // ySuperscriptXOffset
	w.WriteInt16(clampInt16(upm * 48 / 100)) // ySuperscriptYOffset
	w.WriteInt16(clampInt16(upm / 20))       // yStrikeoutSize
	w.WriteInt16(clampInt16(upm / 4))        // yStrikeoutPosition
	w.WriteInt16(0)                          // sFamilyClass
	w.WriteBytes(make([]byte, 10))           // panose
	w.WriteBytes(make([]byte, 16))           // ulUnicodeRange1-4
	w.WriteString("NONE")                    // achVendID
	w.WriteUint16(fsSelection)
	w.WriteUint16(first)
	w.WriteUint16(last)
	w.WriteInt16(int16(b.info.Ascender))  // sTypoAscender
	w.WriteInt16(int16(b.info.Descender)) // sTypoDescender
	w.WriteInt16(0)                       // sTypoLineGap
	w.WriteUint16(uint16(max(b.info.Ascender, int(r.yMax), 0)))
	w.WriteUint16(uint16(max(-b.info.Descender, -int(r.yMin), 0)))
	w.WriteUint32(1)  // ulCodePageRange1: Latin 1
	w.WriteUint32(0)  // ulCodePageRange2
	w.WriteInt16(0)   // sxHeight
	w.WriteInt16(0)   // sCapHeight
	w.WriteUint16(0)  // usDefaultChar
	w.WriteUint16(32) // usBreakChar
	w.WriteUint16(1)  // usMaxContext
	return w.Bytes()
}

// mapping is one character to glyph assignment.
type mapping struct {
	r   rune
	gid uint16
}

// group is a run of consecutive characters mapped to consecutive glyphs.
type group struct {
	start, end rune
	gid        uint16
}

func (b *Builder) sortedMappings() []mapping {
	m := make([]mapping, 0, len(b.cmap))
	for r, gid := range b.cmap {
		m = append(m, mapping{r, gid})
	}
	sort.Slice(m, func(i, j int) bool { return m[i].r < m[j].r })
	return m
}

func groups(m []mapping) []group {
	var out []group
	for _, e := range m {
		if n := len(out); n > 0 {
			g := &out[n-1]
			if e.r == g.end+1 && int(e.gid) == int(g.gid)+int(e.r-g.start) {
				g.end = e.r
				continue
			}
		}
		out = append(out, group{start: e.r, end: e.r, gid: e.gid})
	}
	return out
}

// cmapTable writes a Windows Unicode BMP subtable (format 4) and a Windows
// Unicode full repertoire subtable (format 12).
func (b *Builder) cmapTable() []byte {
	all := b.sortedMappings()
	var bmp []mapping
	for _, e := range all {
		if e.r < 0xFFFF {
			bmp = append(bmp, e)
		}
	}

	w := &writer{}
	w.WriteUint16(0) // version
	w.WriteUint16(2) // numTables
	w.WriteUint16(3) // platformID
	w.WriteUint16(1) // encodingID: Unicode BMP
	w.WriteUint32(0) // offset, patched below
	w.WriteUint16(3)
	w.WriteUint16(10) // encodingID: Unicode full repertoire
	w.WriteUint32(0)

	w.PutUint32(8, uint32(w.Len()))
	writeCmap4(w, groups(bmp))
	w.PutUint32(16, uint32(w.Len()))
	writeCmap12(w, groups(all))
	return w.Bytes()
}

func writeCmap4(w *writer, gs []group) {
	// a segment maps start..end with idDelta; the final 0xFFFF segment is
	// required
	gs = append(gs, group{start: 0xFFFF, end: 0xFFFF, gid: 0})
	segCount := len(gs)

	start := w.Len()
	searchRange, entrySelector, rangeShift := searchParams(segCount, 2)
	w.WriteUint16(4) // format
	w.WriteUint16(uint16(16 + 8*segCount))
	w.WriteUint16(0) // language
	w.WriteUint16(uint16(segCount * 2))
	w.WriteUint16(searchRange)
	w.WriteUint16(entrySelector)
	w.WriteUint16(rangeShift)
	for _, g := range gs {
		w.WriteUint16(uint16(g.end))
	}
	w.WriteUint16(0) // reservedPad
	for _, g := range gs {
		w.WriteUint16(uint16(g.start))
	}
	for _, g := range gs {
		if g.start == 0xFFFF {
			w.WriteUint16(1)
			continue
		}
		w.WriteUint16(uint16(int(g.gid) - int(g.start)))
	}
	for range gs {
		w.WriteUint16(0) // idRangeOffset
	}
	w.PutUint16(start+2, uint16(w.Len()-start))
}

func writeCmap12(w *writer, gs []group) {
	start := w.Len()
	w.WriteUint16(12) // format
	w.WriteUint16(0)  // reserved
	w.WriteUint32(0)  // length, patched below
	w.WriteUint32(0)  // language
	w.WriteUint32(uint32(len(gs)))
	for _, g := range gs {
		w.WriteUint32(uint32(g.start))
		w.WriteUint32(uint32(g.end))
		w.WriteUint32(uint32(g.gid))
	}
	w.PutUint32(start+4, uint32(w.Len()-start))
}

// Name IDs written to the name table.
const (
	nameFamily         = 1
	nameSubfamily      = 2
	nameUniqueID       = 3
	nameFull           = 4
	nameVersion        = 5
	namePostScript     = 6
	windowsEnglishUS   = 0x0409
	platformWindows    = 3
	encodingUnicodeBMP = 1
)

func (b *Builder) name() ([]byte, error) {
	full := b.info.FamilyName
	if b.info.StyleName != "Regular" {
		full += " " + b.info.StyleName
	}
	ps := postScriptName(b.info.FamilyName + "-" + b.info.StyleName)
	records := []struct {
		id    uint16
		value string
	}{
		{nameFamily, b.info.FamilyName},
		{nameSubfamily, b.info.StyleName},
		{nameUniqueID, b.info.Version + ";" + ps},
		{nameFull, full},
		{nameVersion, b.info.Version},
		{namePostScript, ps},
	}

	enc := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewEncoder()
	var strs writer
	w := &writer{}
	w.WriteUint16(0) // format
	w.WriteUint16(uint16(len(records)))
	w.WriteUint16(uint16(6 + 12*len(records)))
	for _, rec := range records {
		data, err := enc.Bytes([]byte(rec.value))
		if err != nil {
			return nil, err
		}
		w.WriteUint16(platformWindows)
		w.WriteUint16(encodingUnicodeBMP)
		w.WriteUint16(windowsEnglishUS)
		w.WriteUint16(rec.id)
		w.WriteUint16(uint16(len(data)))
		w.WriteUint16(uint16(strs.Len()))
		strs.WriteBytes(data)
	}
	w.WriteBytes(strs.Bytes())
	return w.Bytes(), nil
}

// postScriptName keeps the printable ASCII characters PostScript allows in
// a font name, truncated to 63 bytes.
func postScriptName(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r < 33 || r > 126 || strings.ContainsRune("[](){}<>/%", r) {
			continue
		}
		sb.WriteRune(r)
		if sb.Len() == 63 {
			break
		}
	}
	if sb.Len() == 0 {
		return "Untitled"
	}
	return sb.String()
}

func clampInt16(v int) int16 {
	return int16(min(max(v, math.MinInt16), math.MaxInt16))
}
