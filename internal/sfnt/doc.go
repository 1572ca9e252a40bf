// Package sfnt assembles glyph outlines into a TrueType (glyf-flavoured sfnt)
// font binary.
//
// The builder writes a minimal but complete table set:
//
//	OS/2  cmap  glyf  head  hhea  hmtx  loca  maxp  name  post
//
// Glyph 0 is always .notdef. Every contour is stored as a simple glyph
// contour made of on-curve points only. Contour direction is written as
// given; filling relies on the non-zero rule used by common rasterizers.
package sfnt
