package strokefont

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(x0, y0, x1, y1 float64) []AnchorPoint {
	return []AnchorPoint{{X: x0, Y: y0}, {X: x1, Y: y1}}
}

func bounds(c Contour) (minPt, maxPt Point) {
	minPt = Point{math.Inf(1), math.Inf(1)}
	maxPt = Point{math.Inf(-1), math.Inf(-1)}
	for _, p := range c {
		minPt.X = math.Min(minPt.X, p.X)
		minPt.Y = math.Min(minPt.Y, p.Y)
		maxPt.X = math.Max(maxPt.X, p.X)
		maxPt.Y = math.Max(maxPt.Y, p.Y)
	}
	return minPt, maxPt
}

func area(c Contour) float64 {
	var sum float64
	for i := range c {
		j := (i + 1) % len(c)
		sum += c[i].X*c[j].Y - c[j].X*c[i].Y
	}
	return sum / 2
}

func assertPointsInDelta(t *testing.T, want, got []Point, delta float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for _, w := range want {
		found := false
		for _, g := range got {
			if math.Abs(g.X-w.X) <= delta && math.Abs(g.Y-w.Y) <= delta {
				found = true
				break
			}
		}
		assert.True(t, found, "point %v not in %v", w, got)
	}
}

func TestStrokeOutline_ButtRectangle(t *testing.T) {
	s := Stroke{Points: line(0, 0, 1, 0), Thickness: 0.1, LineCap: LineCapButt}

	got := StrokeOutline(s, DefaultStyle())

	assertPointsInDelta(t, []Point{{0, -0.05}, {1, -0.05}, {1, 0.05}, {0, 0.05}}, got, 1e-12)
}

func TestStrokeOutline_RoundCaps(t *testing.T) {
	s := Stroke{Points: line(0, 0, 1, 0), Thickness: 0.1, LineCap: LineCapRound}

	got := StrokeOutline(s, DefaultStyle())

	assert.Greater(t, len(got), 4)
	minPt, maxPt := bounds(got)
	assert.InDelta(t, -0.05, minPt.X, 1e-9)
	assert.InDelta(t, 1.05, maxPt.X, 1e-9)
	assert.InDelta(t, -0.05, minPt.Y, 1e-9)
	assert.InDelta(t, 0.05, maxPt.Y, 1e-9)
}

func TestStrokeOutline_CapResolution(t *testing.T) {
	tests := []struct {
		name      string
		strokeCap LineCap
		globalCap LineCap
		wantMinX  float64
	}{
		{"stroke override", LineCapButt, LineCapSquare, 0},
		{"global default", LineCapDefault, LineCapSquare, -0.05},
		{"fallback round", LineCapDefault, LineCapDefault, -0.05},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Stroke{Points: line(0, 0, 1, 0), Thickness: 0.1, LineCap: tt.strokeCap}
			style := GlobalStyle{DefaultLineCap: tt.globalCap}

			got := StrokeOutline(s, style)

			minPt, _ := bounds(got)
			assert.InDelta(t, tt.wantMinX, minPt.X, 1e-9)
		})
	}
}

func TestStrokeOutline_ClosedIgnoresThickness(t *testing.T) {
	square := []AnchorPoint{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	want := []Point{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

	for _, thickness := range []float64{0, 0.3, -1, math.NaN()} {
		got := StrokeOutline(Stroke{Points: square, Closed: true, Thickness: thickness}, DefaultStyle())
		assert.Equal(t, Contour(want), got, "thickness %v", thickness)
	}
}

func TestStrokeOutline_WeightScalesBeforeOffset(t *testing.T) {
	thin := Stroke{Points: line(0, 0, 1, 0), Thickness: 0.05, LineCap: LineCapRound}
	heavy := GlobalStyle{WeightMultiplier: 2}

	got := StrokeOutline(thin, heavy)
	want := StrokeOutline(Stroke{Points: line(0, 0, 1, 0), Thickness: 0.1, LineCap: LineCapRound}, DefaultStyle())

	assert.Equal(t, want, got)
}

func TestStrokeOutline_InvalidThickness(t *testing.T) {
	for _, thickness := range []float64{0, -0.1, math.NaN(), math.Inf(1)} {
		s := Stroke{Points: line(0, 0, 1, 0), Thickness: thickness}
		assert.Nil(t, StrokeOutline(s, DefaultStyle()), "thickness %v", thickness)
	}
	s := Stroke{Points: line(0, 0, 1, 0), Thickness: 0.1}
	assert.Nil(t, StrokeOutline(s, GlobalStyle{WeightMultiplier: -1}))
}

func TestStrokeOutline_Degenerate(t *testing.T) {
	tests := []struct {
		name string
		s    Stroke
	}{
		{"no points", Stroke{Thickness: 0.1}},
		{"single butt point", Stroke{Points: line(0.5, 0.5, 0.5, 0.5), Thickness: 0.1, LineCap: LineCapButt}},
		{"closed two points", Stroke{Points: line(0, 0, 1, 1), Closed: true}},
		{"closed single point", Stroke{Points: []AnchorPoint{{X: 0.3, Y: 0.3}}, Closed: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, StrokeOutline(tt.s, DefaultStyle()))
		})
	}
}

func TestStrokeOutline_ZeroLengthRoundDisc(t *testing.T) {
	s := Stroke{Points: line(0.5, 0.5, 0.5, 0.5), Thickness: 0.2, LineCap: LineCapRound}

	got := StrokeOutline(s, DefaultStyle())

	require.GreaterOrEqual(t, len(got), 8)
	for _, p := range got {
		assert.InDelta(t, 0.1, p.Distance(Pt(0.5, 0.5)), 1e-9)
	}
}

func TestStrokeOutline_Curves(t *testing.T) {
	tests := []struct {
		name    string
		anchors []AnchorPoint
		wantMin float64
	}{
		{
			"cubic",
			[]AnchorPoint{
				{X: 0, Y: 0.5, HandleOut: &Point{0.25, 0}},
				{X: 1, Y: 0.5, HandleIn: &Point{0.75, 0}},
			},
			0.125,
		},
		{
			"quadratic from out handle",
			[]AnchorPoint{{X: 0, Y: 0.5, HandleOut: &Point{0.5, 0}}, {X: 1, Y: 0.5}},
			0.25,
		},
		{
			"quadratic from in handle",
			[]AnchorPoint{{X: 0, Y: 0.5}, {X: 1, Y: 0.5, HandleIn: &Point{0.5, 0}}},
			0.25,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Stroke{Points: tt.anchors, Thickness: 0.02, LineCap: LineCapButt}

			got := StrokeOutline(s, DefaultStyle())

			minPt, _ := bounds(got)
			// the outline bulges one half-thickness beyond the curve apex
			assert.InDelta(t, tt.wantMin-0.01, minPt.Y, 0.004)
		})
	}
}

func TestStrokeOutline_OrientationIndependentOfDirection(t *testing.T) {
	style := DefaultStyle()
	fwd := StrokeOutline(Stroke{Points: line(0.1, 0.2, 0.9, 0.7), Thickness: 0.1}, style)
	back := StrokeOutline(Stroke{Points: line(0.9, 0.7, 0.1, 0.2), Thickness: 0.1}, style)

	require.NotNil(t, fwd)
	require.NotNil(t, back)
	assert.Equal(t, math.Signbit(area(fwd)), math.Signbit(area(back)))
	assert.InDelta(t, area(fwd), area(back), 1e-9)
}

func TestStrokeOutline_Deterministic(t *testing.T) {
	s := Stroke{
		Points: []AnchorPoint{
			{X: 0.1, Y: 0.9},
			{X: 0.5, Y: 0.1, HandleIn: &Point{0.2, 0.1}, HandleOut: &Point{0.8, 0.1}},
			{X: 0.9, Y: 0.9},
		},
		Thickness: 0.07,
	}
	assert.Equal(t, StrokeOutline(s, DefaultStyle()), StrokeOutline(s, DefaultStyle()))
}

func TestAssembleGlyph_BoxAndEmMapping(t *testing.T) {
	comp := Composition{
		Character: "-",
		Placements: []Placement{{
			Box:    ContainerBox{X: 0.5, Y: 0, Width: 0.5, Height: 0.5},
			Stroke: Stroke{Points: line(0, 0.5, 1, 0.5), Thickness: 0.1, LineCap: LineCapButt},
		}},
	}

	g, err := AssembleGlyph(comp, DefaultStyle(), DefaultMetrics())
	require.NoError(t, err)

	assert.Equal(t, '-', g.Character)
	assert.Equal(t, "uni002D", g.Name)
	assert.Equal(t, 1000, g.AdvanceWidth)
	require.Len(t, g.Contours, 1)
	assertPointsInDelta(t, []Point{{500, 525}, {1000, 525}, {1000, 575}, {500, 575}}, g.Contours[0], 1e-9)
}

func TestAssembleGlyph_OutOfBoxNotClamped(t *testing.T) {
	comp := Composition{
		Character: "x",
		Placements: []Placement{{
			Box:    UnitBox(),
			Stroke: Stroke{Points: line(-0.5, 1.5, 1.5, 1.5), Thickness: 0.1, LineCap: LineCapButt},
		}},
	}

	g, err := AssembleGlyph(comp, DefaultStyle(), DefaultMetrics())
	require.NoError(t, err)

	minPt, maxPt := bounds(g.Contours[0])
	assert.InDelta(t, -500, minPt.X, 1e-9)
	assert.InDelta(t, 1500, maxPt.X, 1e-9)
	assert.InDelta(t, -750, minPt.Y, 1e-9)
}

func TestAssembleGlyph_SlantZeroIsNoOp(t *testing.T) {
	s := Stroke{
		Points: []AnchorPoint{
			{X: 0.13, Y: 0.77},
			{X: 0.41, Y: 0.19, HandleOut: &Point{0.6, 0.05}},
			{X: 0.88, Y: 0.52},
		},
		Thickness: 0.06,
	}
	comp := Composition{Character: "s", Placements: []Placement{{Stroke: s, Box: UnitBox()}}}

	g, err := AssembleGlyph(comp, GlobalStyle{SlantDegrees: 0}, DefaultMetrics())
	require.NoError(t, err)

	rel := StrokeOutline(s, DefaultStyle())
	require.Len(t, g.Contours, 1)
	require.Len(t, g.Contours[0], len(rel))
	for i, p := range rel {
		assert.Equal(t, Pt(p.X*1000, 800-p.Y*1000), g.Contours[0][i])
	}
}

func TestAssembleGlyph_Slant(t *testing.T) {
	s := Stroke{Points: line(0.5, 0, 0.5, 1), Thickness: 0.1, LineCap: LineCapButt}
	comp := Composition{Character: "l", Placements: []Placement{{Stroke: s, Box: UnitBox()}}}

	upright, err := AssembleGlyph(comp, DefaultStyle(), DefaultMetrics())
	require.NoError(t, err)
	slanted, err := AssembleGlyph(comp, GlobalStyle{SlantDegrees: 12}, DefaultMetrics())
	require.NoError(t, err)

	k := math.Tan(12 * math.Pi / 180)
	require.Len(t, slanted.Contours[0], len(upright.Contours[0]))
	for i, p := range upright.Contours[0] {
		q := slanted.Contours[0][i]
		// shear around the vertical center of the cell, (800 + -200) / 2
		assert.InDelta(t, p.X+k*(p.Y-300), q.X, 1e-9)
		assert.InDelta(t, p.Y, q.Y, 1e-9)
	}

	minPt, maxPt := bounds(slanted.Contours[0])
	assert.Greater(t, maxPt.X, 550.0, "top leans right")
	assert.Less(t, minPt.X, 450.0, "bottom leans left")
}

func TestAssembleGlyph_SkipsDegenerateStrokes(t *testing.T) {
	comp := Composition{
		Character: "k",
		Placements: []Placement{
			{Box: UnitBox(), Stroke: Stroke{ID: "empty", Thickness: 0.1}},
			{Box: UnitBox(), Stroke: Stroke{ID: "zero", Points: line(0, 0, 1, 1), Thickness: 0}},
			{Box: UnitBox(), Stroke: Stroke{ID: "ok", Points: line(0, 0, 1, 1), Thickness: 0.1}},
			{Box: UnitBox(), Stroke: Stroke{ID: "dot", Points: line(0.2, 0.2, 0.2, 0.2), Thickness: 0.1, LineCap: LineCapButt}},
		},
	}

	g, err := AssembleGlyph(comp, DefaultStyle(), DefaultMetrics())
	require.NoError(t, err)
	assert.Len(t, g.Contours, 1)
}

func TestAssembleGlyph_OverlappingStrokesKeepOrientation(t *testing.T) {
	comp := Composition{
		Character: "+",
		Placements: []Placement{
			{Box: UnitBox(), Stroke: Stroke{Points: line(0.1, 0.5, 0.9, 0.5), Thickness: 0.1}},
			{Box: UnitBox(), Stroke: Stroke{Points: line(0.5, 0.9, 0.5, 0.1), Thickness: 0.1}},
		},
	}

	g, err := AssembleGlyph(comp, DefaultStyle(), DefaultMetrics())
	require.NoError(t, err)
	require.Len(t, g.Contours, 2)
	assert.Equal(t, math.Signbit(area(g.Contours[0])), math.Signbit(area(g.Contours[1])))
}

func TestAssembleGlyph_Errors(t *testing.T) {
	_, err := AssembleGlyph(Composition{Character: "ab"}, DefaultStyle(), DefaultMetrics())
	assert.Error(t, err)

	_, err = AssembleGlyph(Composition{Character: "a"}, DefaultStyle(), FontMetrics{UnitsPerEm: 1000, Ascender: -1, Descender: 0, AdvanceWidth: 1})
	assert.Error(t, err)

	g, err := AssembleGlyph(Composition{Character: "a"}, DefaultStyle(), FontMetrics{})
	require.NoError(t, err)
	assert.Empty(t, g.Contours)
	assert.Equal(t, 1000, g.AdvanceWidth)
}

func TestGlyphName(t *testing.T) {
	assert.Equal(t, "uni0041", glyphName('A'))
	assert.Equal(t, "uniAC00", glyphName('가'))
	assert.Equal(t, "u1F600", glyphName(0x1F600))
}
