package stroke

import "github.com/gogpu/strokefont/internal/path"

// FillContour turns the flattened outline of a closed stroke into its fill
// contour. The outline itself is the filled region: no offsetting happens
// and the stroke width plays no role. A repeated closing point is dropped,
// the ring is simplified with eps, and nil is returned when fewer than three
// distinct points remain.
func FillContour(outline []Point, eps float64) []Point {
	ring := path.DedupRing(ToPath(outline))
	if len(ring) < 3 {
		return nil
	}
	if eps > 0 {
		ring = path.SimplifyClosed(ring, eps)
	}
	if len(ring) < 3 {
		return nil
	}
	return FromPath(ring)
}
