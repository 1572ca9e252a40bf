package preview

import (
	"bytes"
	"context"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/strokefont"
)

func line(x0, y0, x1, y1 float64) []strokefont.AnchorPoint {
	return []strokefont.AnchorPoint{{X: x0, Y: y0}, {X: x1, Y: y1}}
}

// testFont exports '+' (two crossing strokes), '.' (a zero-length round
// stroke) and 'o' (a closed diamond) with the default 1000-unit metrics.
func testFont(t *testing.T) []byte {
	t.Helper()
	snap := &strokefont.Snapshot{
		FamilyName: "Preview Test",
		Style:      strokefont.DefaultStyle(),
		Metrics:    strokefont.DefaultMetrics(),
		Compositions: []strokefont.Composition{
			{Character: "+", Placements: []strokefont.Placement{
				{Box: strokefont.UnitBox(), Stroke: strokefont.Stroke{Points: line(0.1, 0.5, 0.9, 0.5), Thickness: 0.1}},
				{Box: strokefont.UnitBox(), Stroke: strokefont.Stroke{Points: line(0.5, 0.9, 0.5, 0.1), Thickness: 0.1}},
			}},
			{Character: ".", Placements: []strokefont.Placement{
				{Box: strokefont.UnitBox(), Stroke: strokefont.Stroke{
					Points:    line(0.5, 0.5, 0.5, 0.5),
					Thickness: 0.3,
					LineCap:   strokefont.LineCapRound,
				}},
			}},
			{Character: "o", Placements: []strokefont.Placement{
				{Box: strokefont.UnitBox(), Stroke: strokefont.Stroke{
					Points: []strokefont.AnchorPoint{{X: 0.5, Y: 0.2}, {X: 0.8, Y: 0.5}, {X: 0.5, Y: 0.8}, {X: 0.2, Y: 0.5}},
					Closed: true,
				}},
			}},
		},
	}
	f, err := strokefont.NewExporter().Export(context.Background(), snap, []string{"+", ".", "o"})
	require.NoError(t, err)
	return f.Data
}

func TestRenderer_OverlappingStrokesStayFilled(t *testing.T) {
	r, err := NewRenderer(testFont(t), 100)
	require.NoError(t, err)

	img, err := r.Glyph('+')
	require.NoError(t, err)

	// the cell center is (500, 300) in font units: pixel (50, 50)
	assert.GreaterOrEqual(t, img.AlphaAt(50, 50).A, uint8(250), "crossing is filled")
	assert.GreaterOrEqual(t, img.AlphaAt(20, 50).A, uint8(250), "horizontal bar")
	assert.GreaterOrEqual(t, img.AlphaAt(50, 20).A, uint8(250), "vertical bar")
	assert.Zero(t, img.AlphaAt(20, 20).A, "background")
}

func TestRenderer_RoundDotDiscFilled(t *testing.T) {
	r, err := NewRenderer(testFont(t), 100)
	require.NoError(t, err)

	img, err := r.Glyph('.')
	require.NoError(t, err)

	assert.GreaterOrEqual(t, img.AlphaAt(50, 50).A, uint8(250), "disc center")
	assert.GreaterOrEqual(t, img.AlphaAt(60, 50).A, uint8(250), "inside radius")
	assert.Zero(t, img.AlphaAt(70, 50).A, "outside radius")
}

func TestRenderer_ClosedShapeFilled(t *testing.T) {
	r, err := NewRenderer(testFont(t), 100)
	require.NoError(t, err)

	img, err := r.Glyph('o')
	require.NoError(t, err)

	assert.GreaterOrEqual(t, img.AlphaAt(50, 50).A, uint8(250))
	assert.Zero(t, img.AlphaAt(22, 22).A)
}

func TestRenderer_CellSize(t *testing.T) {
	r, err := NewRenderer(testFont(t), 100)
	require.NoError(t, err)

	got := r.CellSize([]rune{'+', 'o'})
	assert.Equal(t, 100, got.X)
	assert.Equal(t, 100, got.Y)
}

func TestSheet(t *testing.T) {
	data := testFont(t)

	img, err := Sheet(data, []rune{'+', '.', 'o'}, Options{Size: 100, Columns: 2, Padding: 4})
	require.NoError(t, err)
	assert.Equal(t, 212, img.Bounds().Dx())
	assert.Equal(t, 212, img.Bounds().Dy())

	// second row, first cell: the diamond
	assert.GreaterOrEqual(t, img.AlphaAt(4+50, 108+50).A, uint8(250))
	// second row, second cell is empty
	assert.Zero(t, img.AlphaAt(108+50, 108+50).A)

	_, err = Sheet(data, nil, Options{})
	assert.ErrorIs(t, err, ErrNoGlyphs)
}

func TestSheet_Defaults(t *testing.T) {
	img, err := Sheet(testFont(t), []rune{'+'}, Options{})
	require.NoError(t, err)
	assert.Equal(t, DefaultSize, img.Bounds().Dx())
}

func TestWritePNG(t *testing.T) {
	img, err := Sheet(testFont(t), []rune{'+', 'o'}, Options{Size: 32})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, img))

	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())
}

func TestNewRenderer_Garbage(t *testing.T) {
	_, err := NewRenderer([]byte("nope"), 10)
	assert.Error(t, err)
}
