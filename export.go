package strokefont

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync/atomic"
	"unicode"
	"unicode/utf8"

	"github.com/emirpasic/gods/sets/linkedhashset"
	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/strokefont/internal/inspect"
	"github.com/gogpu/strokefont/internal/sfnt"
)

// Font is an encoded TrueType font. Data is owned by the caller.
type Font struct {
	Data       []byte
	GlyphCount int
	Family     string
}

// FileName returns a file name derived from the family name.
func (f *Font) FileName() string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r == ' ':
			return '-'
		case r == '-' || r == '_' || r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			return r
		}
		return -1
	}, f.Family)
	if name == "" {
		name = "strokefont"
	}
	return name + ".ttf"
}

// Result is the host-facing outcome of Run.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Delivery receives a finished font. Implementations live with the host
// (download, storage, file system).
type Delivery interface {
	Deliver(ctx context.Context, name string, data []byte) error
}

// DeliveryFunc adapts a function to the Delivery interface.
type DeliveryFunc func(ctx context.Context, name string, data []byte) error

// Deliver calls f.
func (f DeliveryFunc) Deliver(ctx context.Context, name string, data []byte) error {
	return f(ctx, name, data)
}

// Exporter converts snapshots into fonts. At most one export runs at a
// time; a concurrent request fails with ErrExportInProgress instead of
// waiting.
type Exporter struct {
	opts exportOptions
	busy atomic.Bool
}

// NewExporter creates an Exporter with the given options.
func NewExporter(opts ...ExportOption) *Exporter {
	return &Exporter{opts: newOptions(opts)}
}

// Export builds a font containing one glyph per requested character, in
// request order after NFC normalization and de-duplication. Characters
// without a composition in the snapshot get a blank glyph.
//
// The snapshot is copied before any work starts. ctx is checked between
// characters; a cancelled export returns an error wrapping ErrCancelled and
// no font.
func (e *Exporter) Export(ctx context.Context, snap *Snapshot, chars []string) (*Font, error) {
	if !e.busy.CompareAndSwap(false, true) {
		Logger().Warn("export rejected: another export is in progress")
		return nil, ErrExportInProgress
	}
	defer e.busy.Store(false)

	var completed, total int
	defer func() { e.report(completed, total, PhaseDone) }()

	if snap == nil {
		return nil, ErrNilSnapshot
	}
	e.report(0, 0, PhaseCollect)
	snap = snap.Clone()
	metrics := snap.Metrics.orDefault()
	if err := metrics.Validate(); err != nil {
		return nil, err
	}
	runes := normalizeCharacters(chars)
	if len(runes) == 0 {
		return nil, ErrNoCharacters
	}
	total = len(runes)
	index := snap.lookup()

	Logger().Info("export started",
		"family", snap.FamilyName,
		"characters", total,
		"weight", snap.Style.weight(),
		"slant", snap.Style.SlantDegrees)

	e.report(0, total, PhaseOutline)
	a := newAssembler(snap.Style, metrics, e.opts)
	glyphs := make([]Glyph, 0, total)
	for _, r := range runes {
		if err := ctx.Err(); err != nil {
			Logger().Info("export cancelled", "completed", completed, "total", total)
			return nil, fmt.Errorf("%w: %w", ErrCancelled, err)
		}
		comp := index[r]
		if comp == nil {
			Logger().Warn("no composition for character, exporting blank glyph", "char", string(r))
		}
		glyphs = append(glyphs, a.glyph(r, comp))
		completed++
		e.report(completed, total, PhaseOutline)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCancelled, err)
	}
	e.report(completed, total, PhaseCompile)
	b, err := sfnt.NewBuilder(sfnt.Info{
		FamilyName:  snap.FamilyName,
		UnitsPerEm:  metrics.UnitsPerEm,
		Ascender:    metrics.Ascender,
		Descender:   metrics.Descender,
		ItalicAngle: snap.Style.SlantDegrees,
		WeightClass: weightClass(snap.Style.weight()),
		Created:     e.opts.timestamp,
	})
	if err != nil {
		return nil, &SerializationError{Stage: PhaseCompile, Err: err}
	}
	for _, g := range glyphs {
		if _, err := b.AddGlyph(g.toSFNT()); err != nil {
			return nil, &SerializationError{Stage: PhaseCompile, Character: string(g.Character), Err: err}
		}
	}

	e.report(completed, total, PhaseEncode)
	data, err := b.Bytes()
	if err != nil {
		return nil, &SerializationError{Stage: PhaseEncode, Err: err}
	}
	if e.opts.verify {
		if err := inspect.Verify(data, runes); err != nil {
			return nil, &SerializationError{Stage: PhaseEncode, Err: err}
		}
	}

	family := snap.FamilyName
	if family == "" {
		family = "Untitled"
	}
	Logger().Info("export finished", "family", family, "glyphs", b.NumGlyphs(), "bytes", len(data))
	return &Font{Data: data, GlyphCount: b.NumGlyphs(), Family: family}, nil
}

// Run exports and hands the font to the configured Delivery. All failures,
// including delivery errors, are reported in the Result.
func (e *Exporter) Run(ctx context.Context, snap *Snapshot, chars []string) Result {
	f, err := e.Export(ctx, snap, chars)
	if err != nil {
		Logger().Error("export failed", "err", err)
		return Result{Error: err.Error()}
	}
	if e.opts.delivery != nil {
		if err := e.opts.delivery.Deliver(ctx, f.FileName(), f.Data); err != nil {
			Logger().Error("delivery failed", "file", f.FileName(), "err", err)
			return Result{Error: fmt.Sprintf("strokefont: delivery failed: %v", err)}
		}
	}
	return Result{Success: true}
}

func (e *Exporter) report(completed, total int, phase Phase) {
	if e.opts.progress != nil {
		e.opts.progress(completed, total, phase)
	}
}

// toSFNT converts the glyph for the font builder.
func (g Glyph) toSFNT() sfnt.Glyph {
	out := sfnt.Glyph{
		Rune:     g.Character,
		Name:     g.Name,
		Advance:  g.AdvanceWidth,
		Contours: make([][]sfnt.Point, len(g.Contours)),
	}
	for i, c := range g.Contours {
		pts := make([]sfnt.Point, len(c))
		for j, p := range c {
			pts[j] = sfnt.Point(p)
		}
		out.Contours[i] = pts
	}
	return out
}

// weightClass maps a thickness multiplier to the nearest OS/2 weight class.
func weightClass(multiplier float64) uint16 {
	w := math.Round(4*multiplier) * 100
	return uint16(min(max(w, 100), 900))
}

// SplitCharacters normalizes s to NFC and returns its code points as
// separate characters.
func SplitCharacters(s string) []string {
	s = norm.NFC.String(s)
	out := make([]string, 0, utf8.RuneCountInString(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

// normalizeCharacters returns the distinct code points of chars in first
// occurrence order. Entries that are not a single code point after NFC
// normalization are skipped.
func normalizeCharacters(chars []string) []rune {
	set := linkedhashset.New()
	for _, c := range chars {
		r, ok := singleRune(c)
		if !ok {
			Logger().Warn("skipping character that is not a single code point", "char", c)
			continue
		}
		set.Add(r)
	}
	out := make([]rune, 0, set.Size())
	for _, v := range set.Values() {
		out = append(out, v.(rune))
	}
	return out
}

// singleRune reports the code point of s when s is exactly one valid,
// non-zero code point after NFC normalization.
func singleRune(s string) (rune, bool) {
	s = norm.NFC.String(s)
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) || r == utf8.RuneError || r == 0 {
		return 0, false
	}
	return r, true
}
