// Package stroke converts centerline strokes into closed fill contours.
//
// Expansion builds two offset rails around a flattened centerline:
//   - Left rail: offset by +width/2 along the left normal
//   - Right rail: offset by -width/2
//
// The contour is assembled as:
//  1. Left rail in centerline order
//  2. End cap from left to right
//  3. Right rail reversed
//  4. Start cap from right back to left
//
// Each rail is simplified with Douglas-Peucker before the caps are added,
// so a straight stroke always yields a four-corner rectangle plus its caps.
//
// # Line Caps
//
//   - LineCapButt: flat, ending exactly at the endpoint
//   - LineCapRound: semicircle of radius width/2
//   - LineCapSquare: flat, extended width/2 past the endpoint
//
// # Joins
//
// Interior vertices whose turn is nearly straight are offset along the
// bisector. Sharper turns get a bevel on the outer side and a miter point
// on the inner side, clamped to the shorter adjacent segment.
//
// # Usage
//
//	e := stroke.NewExpander(stroke.Style{Width: 0.08, Cap: stroke.LineCapRound})
//	e.SetTolerance(0.001)
//	contour := e.Expand(centerline)
//
// Closed strokes are not expanded; FillContour turns their outline into a
// fill contour directly.
//
// # References
//
//   - tiny-skia (Rust): path/src/stroker.rs
//   - kurbo (Rust): src/stroke.rs
package stroke
