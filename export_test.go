package strokefont

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/strokefont/internal/inspect"
)

// testSnapshot returns a small snapshot with a Hangul syllable, a cross and
// a closed diamond.
func testSnapshot() *Snapshot {
	return &Snapshot{
		FamilyName: "Test Hand",
		Style:      DefaultStyle(),
		Metrics:    DefaultMetrics(),
		Compositions: []Composition{
			{
				Character: "가",
				Placements: []Placement{
					{Box: ContainerBox{X: 0, Y: 0, Width: 0.6, Height: 1}, Stroke: Stroke{
						ID:        "giyeok",
						Points:    []AnchorPoint{{X: 0.2, Y: 0.25}, {X: 0.8, Y: 0.25}, {X: 0.6, Y: 0.8}},
						Thickness: 0.08,
					}},
					{Box: ContainerBox{X: 0.6, Y: 0, Width: 0.4, Height: 1}, Stroke: Stroke{
						ID:        "a-vertical",
						Points:    line(0.4, 0.1, 0.4, 0.9),
						Thickness: 0.08,
						LineCap:   LineCapButt,
					}},
					{Box: ContainerBox{X: 0.6, Y: 0, Width: 0.4, Height: 1}, Stroke: Stroke{
						ID:        "a-branch",
						Points:    line(0.4, 0.5, 0.8, 0.5),
						Thickness: 0.08,
					}},
				},
			},
			{
				Character: "+",
				Placements: []Placement{
					{Box: UnitBox(), Stroke: Stroke{Points: line(0.1, 0.5, 0.9, 0.5), Thickness: 0.1}},
					{Box: UnitBox(), Stroke: Stroke{Points: line(0.5, 0.1, 0.5, 0.9), Thickness: 0.1}},
				},
			},
			{
				Character: "o",
				Placements: []Placement{
					{Box: UnitBox(), Stroke: Stroke{
						Points: []AnchorPoint{{X: 0.5, Y: 0.2}, {X: 0.8, Y: 0.5}, {X: 0.5, Y: 0.8}, {X: 0.2, Y: 0.5}},
						Closed: true,
					}},
				},
			},
		},
	}
}

type progressEvent struct {
	completed, total int
	phase            Phase
}

type progressRecorder struct {
	mu     sync.Mutex
	events []progressEvent
}

func (r *progressRecorder) record(completed, total int, phase Phase) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, progressEvent{completed, total, phase})
}

func TestExport_HangulSyllable(t *testing.T) {
	f, err := NewExporter().Export(context.Background(), testSnapshot(), []string{"가"})
	require.NoError(t, err)
	require.NotEmpty(t, f.Data)
	assert.Equal(t, 2, f.GlyphCount)

	for _, backend := range inspect.Backends {
		pf, err := inspect.Parse(f.Data, backend)
		require.NoError(t, err, backend.String())
		assert.NotEqual(t, uint16(0), pf.GlyphIndex('가'), backend.String())
		assert.Equal(t, "Test Hand", pf.Name(), backend.String())
	}
}

func TestExport_RejectsConcurrentExport(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	ex := NewExporter(WithProgress(func(completed, total int, phase Phase) {
		if phase == PhaseOutline && completed == 1 {
			once.Do(func() {
				close(started)
				<-release
			})
		}
	}))

	type result struct {
		font *Font
		err  error
	}
	first := make(chan result, 1)
	go func() {
		f, err := ex.Export(context.Background(), testSnapshot(), []string{"가", "+", "o"})
		first <- result{f, err}
	}()

	<-started
	_, err := ex.Export(context.Background(), testSnapshot(), []string{"+"})
	assert.ErrorIs(t, err, ErrExportInProgress)

	res := ex.Run(context.Background(), testSnapshot(), []string{"+"})
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "in progress")

	close(release)
	got := <-first
	require.NoError(t, got.err)

	want, err := NewExporter().Export(context.Background(), testSnapshot(), []string{"가", "+", "o"})
	require.NoError(t, err)
	assert.Equal(t, want.Data, got.font.Data, "first export unaffected by the rejected one")

	// the guard is released once the export returns
	_, err = ex.Export(context.Background(), testSnapshot(), []string{"+"})
	assert.NoError(t, err)
}

func TestExport_ProgressSequence(t *testing.T) {
	var rec progressRecorder
	ex := NewExporter(WithProgress(rec.record))

	_, err := ex.Export(context.Background(), testSnapshot(), []string{"가", "+", "o"})
	require.NoError(t, err)

	want := []progressEvent{
		{0, 0, PhaseCollect},
		{0, 3, PhaseOutline},
		{1, 3, PhaseOutline},
		{2, 3, PhaseOutline},
		{3, 3, PhaseOutline},
		{3, 3, PhaseCompile},
		{3, 3, PhaseEncode},
		{3, 3, PhaseDone},
	}
	assert.Equal(t, want, rec.events)
}

func TestExport_DoneReportedOnFailure(t *testing.T) {
	snap := testSnapshot()
	// a box far outside the cell pushes coordinates beyond int16
	snap.Compositions[1].Placements[0].Box = ContainerBox{X: 50, Y: 0, Width: 1, Height: 1}

	var rec progressRecorder
	ex := NewExporter(WithProgress(rec.record))
	f, err := ex.Export(context.Background(), snap, []string{"가", "+"})

	require.Error(t, err)
	assert.Nil(t, f)
	var se *SerializationError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, PhaseCompile, se.Stage)
	assert.Equal(t, "+", se.Character)

	require.NotEmpty(t, rec.events)
	assert.Equal(t, PhaseDone, rec.events[len(rec.events)-1].phase)
}

func TestExport_NaNIsSerializationFailure(t *testing.T) {
	snap := testSnapshot()
	snap.Compositions[2].Placements[0].Stroke.Points[0].X = math.NaN()

	res := NewExporter().Run(context.Background(), snap, []string{"o"})
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "font compilation")
}

func TestExport_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f, err := NewExporter().Export(ctx, testSnapshot(), []string{"가"})
	assert.Nil(t, f)
	assert.ErrorIs(t, err, ErrCancelled)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExport_CancelledBetweenCharacters(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var rec progressRecorder
	ex := NewExporter(WithProgress(func(completed, total int, phase Phase) {
		rec.record(completed, total, phase)
		if phase == PhaseOutline && completed == 1 {
			cancel()
		}
	}))

	f, err := ex.Export(ctx, testSnapshot(), []string{"가", "+", "o"})
	assert.Nil(t, f)
	assert.ErrorIs(t, err, ErrCancelled)

	last := rec.events[len(rec.events)-1]
	assert.Equal(t, progressEvent{1, 3, PhaseDone}, last)
}

func TestExport_NormalizesCharacters(t *testing.T) {
	snap := testSnapshot()
	snap.Compositions = append(snap.Compositions, Composition{
		Character: "\u00e9",
		Placements: []Placement{
			{Box: UnitBox(), Stroke: Stroke{Points: line(0.2, 0.6, 0.8, 0.6), Thickness: 0.1}},
		},
	})

	// decomposed and precomposed é are one character; "ab" and "" are skipped
	f, err := NewExporter().Export(context.Background(), snap, []string{"e\u0301", "+", "\u00e9", "ab", "", "+"})
	require.NoError(t, err)
	assert.Equal(t, 3, f.GlyphCount)

	pf, err := inspect.Parse(f.Data, inspect.BackendXImage)
	require.NoError(t, err)
	assert.Equal(t, uint16(1), pf.GlyphIndex('\u00e9'))
	assert.Equal(t, uint16(2), pf.GlyphIndex('+'))
}

func TestExport_MissingCompositionIsBlank(t *testing.T) {
	f, err := NewExporter().Export(context.Background(), testSnapshot(), []string{"Z"})
	require.NoError(t, err)

	pf, err := inspect.Parse(f.Data, inspect.BackendGoText)
	require.NoError(t, err)
	assert.Equal(t, uint16(1), pf.GlyphIndex('Z'))
}

func TestExport_SnapshotIsolation(t *testing.T) {
	snap := testSnapshot()
	ex := NewExporter(WithProgress(func(completed, total int, phase Phase) {
		if phase == PhaseOutline && completed == 0 {
			// a host mutating its stores mid-export
			snap.Compositions[1].Placements[0].Stroke.Thickness = 0.4
			snap.Compositions[1].Placements[0].Stroke.Points[0].X = 0
			snap.Style.SlantDegrees = 20
		}
	}))

	got, err := ex.Export(context.Background(), snap, []string{"+"})
	require.NoError(t, err)
	want, err := NewExporter().Export(context.Background(), testSnapshot(), []string{"+"})
	require.NoError(t, err)
	assert.Equal(t, want.Data, got.Data)
}

func TestExport_Deterministic(t *testing.T) {
	chars := SplitCharacters("가+o")
	a, err := NewExporter().Export(context.Background(), testSnapshot(), chars)
	require.NoError(t, err)
	b, err := NewExporter().Export(context.Background(), testSnapshot(), chars)
	require.NoError(t, err)
	assert.Equal(t, a.Data, b.Data)

	stamped, err := NewExporter(WithTimestamp(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))).
		Export(context.Background(), testSnapshot(), chars)
	require.NoError(t, err)
	assert.NotEqual(t, a.Data, stamped.Data)
}

func TestExport_InputErrors(t *testing.T) {
	ex := NewExporter()

	_, err := ex.Export(context.Background(), nil, []string{"a"})
	assert.ErrorIs(t, err, ErrNilSnapshot)

	_, err = ex.Export(context.Background(), testSnapshot(), nil)
	assert.ErrorIs(t, err, ErrNoCharacters)

	_, err = ex.Export(context.Background(), testSnapshot(), []string{"ab", "\x00"})
	assert.ErrorIs(t, err, ErrNoCharacters)

	snap := testSnapshot()
	snap.Metrics.UnitsPerEm = 4
	_, err = ex.Export(context.Background(), snap, []string{"+"})
	assert.Error(t, err)
}

func TestRun_Delivery(t *testing.T) {
	var gotName string
	var gotData []byte
	ex := NewExporter(WithDelivery(DeliveryFunc(func(_ context.Context, name string, data []byte) error {
		gotName, gotData = name, data
		return nil
	})))

	res := ex.Run(context.Background(), testSnapshot(), []string{"+"})
	assert.Equal(t, Result{Success: true}, res)
	assert.Equal(t, "Test-Hand.ttf", gotName)
	assert.NotEmpty(t, gotData)
}

func TestRun_DeliveryFailure(t *testing.T) {
	ex := NewExporter(WithDelivery(DeliveryFunc(func(context.Context, string, []byte) error {
		return errors.New("disk full")
	})))

	res := ex.Run(context.Background(), testSnapshot(), []string{"+"})
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "disk full")
}

func TestExport_WithoutVerification(t *testing.T) {
	f, err := NewExporter(WithVerification(false), WithTolerance(0.01), WithSimplifyEpsilon(0)).
		Export(context.Background(), testSnapshot(), []string{"o"})
	require.NoError(t, err)
	assert.NotEmpty(t, f.Data)
}

func TestWeightClass(t *testing.T) {
	tests := []struct {
		multiplier float64
		want       uint16
	}{
		{1, 400},
		{0.5, 200},
		{1.75, 700},
		{0.01, 100},
		{5, 900},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, weightClass(tt.multiplier), "multiplier %v", tt.multiplier)
	}
}

func TestFont_FileName(t *testing.T) {
	assert.Equal(t, "My-Hand.ttf", (&Font{Family: "My Hand"}).FileName())
	assert.Equal(t, "strokefont.ttf", (&Font{Family: "가나"}).FileName())
	assert.Equal(t, "a_b-1.ttf", (&Font{Family: "a_b/-1"}).FileName())
}

func TestSplitCharacters(t *testing.T) {
	assert.Equal(t, []string{"\u00e9", "a"}, SplitCharacters("e\u0301a"))
	assert.Empty(t, SplitCharacters(""))
}
