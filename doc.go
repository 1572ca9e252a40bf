// Package strokefont turns hand-authored strokes into a TrueType font.
//
// # Overview
//
// Each character of a font is composed of strokes placed in container
// boxes. Open strokes are centerlines drawn with a thickness and a line cap;
// closed strokes are filled shapes. strokefont converts every stroke to a
// closed outline, maps it from its box into the character cell, applies the
// global weight and slant, and encodes the result as an sfnt binary.
//
// # Quick Start
//
//	import "github.com/gogpu/strokefont"
//
//	snap := &strokefont.Snapshot{
//		FamilyName: "My Hand",
//		Style:      strokefont.DefaultStyle(),
//		Metrics:    strokefont.DefaultMetrics(),
//		Compositions: []strokefont.Composition{{
//			Character: "I",
//			Placements: []strokefont.Placement{{
//				Box: strokefont.UnitBox(),
//				Stroke: strokefont.Stroke{
//					Points:    []strokefont.AnchorPoint{{X: 0.5, Y: 0.1}, {X: 0.5, Y: 0.9}},
//					Thickness: 0.08,
//				},
//			}},
//		}},
//	}
//
//	ex := strokefont.NewExporter()
//	font, err := ex.Export(ctx, snap, strokefont.SplitCharacters("I"))
//
// # Coordinate System
//
// Strokes use box-relative coordinates:
//   - Origin (0,0) at the top-left of the container box
//   - X increases right, Y increases down
//   - (1,1) is the bottom-right corner; values outside [0,1] are allowed
//
// Boxes are placed in the unit character cell the same way. The cell maps
// to font units with its top edge on the ascender, its bottom edge on the
// descender and its width equal to the advance width.
//
// # Pipeline
//
// The export runs synchronously on the caller's goroutine:
//   - Collect: clone the snapshot and normalize the requested characters
//   - Outline: flatten curves, offset open strokes, fill closed strokes
//   - Compile: round outlines to the font grid and build the glyph set
//   - Encode: write the sfnt tables and re-parse the result as a self-check
//
// Only one export may run on an Exporter at a time.
package strokefont
