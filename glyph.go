package strokefont

import (
	"fmt"
	"math"

	"github.com/gogpu/strokefont/internal/path"
	"github.com/gogpu/strokefont/internal/stroke"
)

// Contour is one closed outline. The first point is not repeated at the end.
type Contour []Point

// Glyph is the assembled outline of one character, in font units with the
// y axis pointing up.
type Glyph struct {
	Character    rune
	Name         string
	Contours     []Contour
	AdvanceWidth int
}

// StrokeOutline returns the filled outline of a single stroke in
// box-relative coordinates, before any box or em mapping. Open strokes are
// offset by their thickness scaled by style's weight multiplier; closed
// strokes are filled as drawn. It returns nil for strokes that produce no
// area.
func StrokeOutline(s Stroke, style GlobalStyle, opts ...ExportOption) Contour {
	o := newOptions(opts)
	a := newAssembler(style, DefaultMetrics(), o)
	return toContour(a.outline(s), Identity())
}

// AssembleGlyph builds the glyph for one composition using the given style
// and metrics. It is the per-character step of Export.
func AssembleGlyph(comp Composition, style GlobalStyle, metrics FontMetrics, opts ...ExportOption) (Glyph, error) {
	r, ok := singleRune(comp.Character)
	if !ok {
		return Glyph{}, fmt.Errorf("strokefont: %q is not a single character", comp.Character)
	}
	metrics = metrics.orDefault()
	if err := metrics.Validate(); err != nil {
		return Glyph{}, err
	}
	a := newAssembler(style, metrics, newOptions(opts))
	return a.glyph(r, &comp), nil
}

// assembler turns compositions into glyphs for one export. All of its state
// is fixed when the export starts.
type assembler struct {
	style     GlobalStyle
	metrics   FontMetrics
	tolerance float64
	epsilon   float64

	// toFont maps character space (unit cell, y down) to font units,
	// including the slant.
	toFont Matrix
}

func newAssembler(style GlobalStyle, metrics FontMetrics, o exportOptions) *assembler {
	asc := float64(metrics.Ascender)
	desc := float64(metrics.Descender)
	em := Matrix{
		A: float64(metrics.AdvanceWidth),
		E: -(asc - desc),
		F: asc,
	}
	return &assembler{
		style:     style,
		metrics:   metrics,
		tolerance: o.tolerance,
		epsilon:   o.epsilon,
		toFont:    SlantAround(style.SlantDegrees, (asc+desc)/2).Multiply(em),
	}
}

func (a *assembler) glyph(r rune, comp *Composition) Glyph {
	g := Glyph{
		Character:    r,
		Name:         glyphName(r),
		AdvanceWidth: a.metrics.AdvanceWidth,
	}
	if comp == nil {
		return g
	}
	for _, p := range comp.Placements {
		c := toContour(a.outline(p.Stroke), a.toFont.Multiply(p.Box.matrix()))
		if c != nil {
			g.Contours = append(g.Contours, c)
		}
	}
	Logger().Debug("glyph assembled",
		"char", string(r),
		"placements", len(comp.Placements),
		"contours", len(g.Contours))
	return g
}

// outline converts one stroke to its box-relative fill contour.
func (a *assembler) outline(s Stroke) []stroke.Point {
	if len(s.Points) == 0 {
		Logger().Debug("skipping stroke without points", "stroke", s.ID)
		return nil
	}
	line := stroke.FromPath(path.Flatten(strokeElements(s.Points, s.Closed), a.tolerance))

	if s.Closed {
		c := stroke.FillContour(line, a.epsilon)
		if c == nil {
			Logger().Debug("skipping degenerate closed stroke", "stroke", s.ID, "points", len(s.Points))
		}
		return c
	}

	width := s.Thickness * a.style.weight()
	if !(width > 0) || math.IsInf(width, 0) {
		Logger().Debug("skipping stroke with invalid thickness",
			"stroke", s.ID, "thickness", s.Thickness, "weight", a.style.weight())
		return nil
	}
	ex := stroke.NewExpander(stroke.Style{
		Width: width,
		Cap:   resolveCap(s.LineCap, a.style.DefaultLineCap),
	})
	ex.SetTolerance(a.tolerance)
	ex.SetEpsilon(a.epsilon)

	c := ex.Expand(line)
	if c == nil {
		Logger().Debug("skipping degenerate stroke", "stroke", s.ID, "points", len(s.Points))
	}
	return c
}

// strokeElements converts anchors to path elements. A segment is cubic when
// both of its handles are set, quadratic when only one is, and straight
// otherwise. Closed strokes get the closing segment from the last anchor back
// to the first.
func strokeElements(anchors []AnchorPoint, closed bool) []path.PathElement {
	els := make([]path.PathElement, 0, len(anchors)+1)
	els = append(els, path.MoveTo{Point: path.Point(anchors[0].Pos())})
	for i := 1; i < len(anchors); i++ {
		els = append(els, segment(anchors[i-1], anchors[i]))
	}
	if closed && len(anchors) > 1 {
		els = append(els, segment(anchors[len(anchors)-1], anchors[0]))
	}
	return els
}

func segment(from, to AnchorPoint) path.PathElement {
	end := path.Point(to.Pos())
	switch {
	case from.HandleOut != nil && to.HandleIn != nil:
		return path.CubicTo{
			Control1: path.Point(*from.HandleOut),
			Control2: path.Point(*to.HandleIn),
			Point:    end,
		}
	case from.HandleOut != nil:
		return path.QuadTo{Control: path.Point(*from.HandleOut), Point: end}
	case to.HandleIn != nil:
		return path.QuadTo{Control: path.Point(*to.HandleIn), Point: end}
	default:
		return path.LineTo{Point: end}
	}
}

func toContour(pts []stroke.Point, m Matrix) Contour {
	if len(pts) == 0 {
		return nil
	}
	c := make(Contour, len(pts))
	for i, p := range pts {
		c[i] = m.TransformPoint(Point(p))
	}
	return c
}

// glyphName returns the production glyph name for r.
func glyphName(r rune) string {
	if r > 0xFFFF {
		return fmt.Sprintf("u%05X", r)
	}
	return fmt.Sprintf("uni%04X", r)
}
