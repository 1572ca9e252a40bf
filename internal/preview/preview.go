// Package preview renders glyphs of an encoded font into alpha masks.
//
// Outlines are read back from the font binary with golang.org/x/image/font/sfnt
// and filled with golang.org/x/image/vector, whose accumulation rule treats
// overlapping same-direction contours as solid. A proof sheet therefore
// shows what a typical rasterizer will show for the exported font.
package preview

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// DefaultSize is the default em size in pixels.
const DefaultSize = 64

// ErrNoGlyphs is returned when a sheet is requested for no characters.
var ErrNoGlyphs = errors.New("preview: no glyphs to render")

// Options configures a proof sheet.
type Options struct {
	// Size is the em size in pixels. Zero selects DefaultSize.
	Size int
	// Columns is the number of cells per row. Zero selects 16.
	Columns int
	// Padding is the gap between cells in pixels.
	Padding int
}

func (o Options) withDefaults() Options {
	if o.Size <= 0 {
		o.Size = DefaultSize
	}
	if o.Columns <= 0 {
		o.Columns = 16
	}
	if o.Padding < 0 {
		o.Padding = 0
	}
	return o
}

// Renderer rasterizes glyphs of one parsed font. It is not safe for
// concurrent use.
type Renderer struct {
	font *sfnt.Font
	buf  sfnt.Buffer
	ppem fixed.Int26_6

	ascent  fixed.Int26_6
	descent fixed.Int26_6

	z *vector.Rasterizer
}

// NewRenderer parses data and prepares rendering at size pixels per em.
func NewRenderer(data []byte, size int) (*Renderer, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("preview: failed to parse font: %w", err)
	}
	if size <= 0 {
		size = DefaultSize
	}
	r := &Renderer{font: f, ppem: fixed.I(size), z: vector.NewRasterizer(0, 0)}
	m, err := f.Metrics(&r.buf, r.ppem, font.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("preview: failed to read metrics: %w", err)
	}
	r.ascent, r.descent = m.Ascent, m.Descent
	return r, nil
}

// CellSize returns the pixel size of one glyph cell: the largest advance by
// ascent plus descent.
func (r *Renderer) CellSize(runes []rune) image.Point {
	w := 0
	for _, c := range runes {
		gid, err := r.font.GlyphIndex(&r.buf, c)
		if err != nil {
			continue
		}
		adv, err := r.font.GlyphAdvance(&r.buf, gid, r.ppem, font.HintingNone)
		if err != nil {
			continue
		}
		w = max(w, adv.Ceil())
	}
	if w == 0 {
		w = r.ppem.Ceil()
	}
	return image.Pt(w, (r.ascent + r.descent).Ceil())
}

// Glyph renders the glyph mapped to c into a cell-sized mask with the
// baseline at the cell's ascent. Unmapped characters render .notdef.
func (r *Renderer) Glyph(c rune) (*image.Alpha, error) {
	size := r.CellSize([]rune{c})
	dst := image.NewAlpha(image.Rect(0, 0, size.X, size.Y))
	if err := r.draw(dst, dst.Bounds(), c); err != nil {
		return nil, err
	}
	return dst, nil
}

// draw fills the outline of c into cell.
func (r *Renderer) draw(dst draw.Image, cell image.Rectangle, c rune) error {
	gid, err := r.font.GlyphIndex(&r.buf, c)
	if err != nil {
		return fmt.Errorf("preview: glyph index for %q: %w", c, err)
	}
	segs, err := r.font.LoadGlyph(&r.buf, gid, r.ppem, nil)
	if err != nil {
		return fmt.Errorf("preview: loading glyph for %q: %w", c, err)
	}
	if len(segs) == 0 {
		return nil
	}

	baseline := float32(r.ascent) / 64
	pt := func(p fixed.Point26_6) (float32, float32) {
		return float32(p.X) / 64, float32(p.Y)/64 + baseline
	}

	r.z.Reset(cell.Dx(), cell.Dy())
	r.z.DrawOp = draw.Over
	open := false
	for _, s := range segs {
		switch s.Op {
		case sfnt.SegmentOpMoveTo:
			if open {
				r.z.ClosePath()
			}
			r.z.MoveTo(pt(s.Args[0]))
			open = true
		case sfnt.SegmentOpLineTo:
			r.z.LineTo(pt(s.Args[0]))
		case sfnt.SegmentOpQuadTo:
			x1, y1 := pt(s.Args[0])
			x2, y2 := pt(s.Args[1])
			r.z.QuadTo(x1, y1, x2, y2)
		case sfnt.SegmentOpCubeTo:
			x1, y1 := pt(s.Args[0])
			x2, y2 := pt(s.Args[1])
			x3, y3 := pt(s.Args[2])
			r.z.CubeTo(x1, y1, x2, y2, x3, y3)
		}
	}
	if open {
		r.z.ClosePath()
	}
	r.z.Draw(dst, cell, image.Opaque, image.Point{})
	return nil
}

// Sheet renders runes into a grid, left to right and top to bottom.
func Sheet(data []byte, runes []rune, opts Options) (*image.Alpha, error) {
	if len(runes) == 0 {
		return nil, ErrNoGlyphs
	}
	opts = opts.withDefaults()
	r, err := NewRenderer(data, opts.Size)
	if err != nil {
		return nil, err
	}

	cell := r.CellSize(runes)
	cols := min(opts.Columns, len(runes))
	rows := int(math.Ceil(float64(len(runes)) / float64(cols)))
	pad := opts.Padding
	dst := image.NewAlpha(image.Rect(0, 0,
		cols*(cell.X+pad)+pad,
		rows*(cell.Y+pad)+pad))

	for i, c := range runes {
		x := pad + (i%cols)*(cell.X+pad)
		y := pad + (i/cols)*(cell.Y+pad)
		rect := image.Rect(x, y, x+cell.X, y+cell.Y)
		if err := r.draw(dst, rect, c); err != nil {
			return nil, err
		}
	}
	return dst, nil
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("preview: encoding png: %w", err)
	}
	return nil
}
