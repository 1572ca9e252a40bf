package path

import "math"

// samePointEps is the distance under which two points are treated as one.
const samePointEps = 1e-9

// Dedup returns a copy of points without consecutive duplicates.
func Dedup(points []Point) []Point {
	out := make([]Point, 0, len(points))
	for _, p := range points {
		if n := len(out); n > 0 && out[n-1].Distance(p) <= samePointEps {
			continue
		}
		out = append(out, p)
	}
	return out
}

// DedupRing is Dedup for closed rings: a trailing point equal to the first
// one is dropped as well.
func DedupRing(points []Point) []Point {
	out := Dedup(points)
	for len(out) > 1 && out[len(out)-1].Distance(out[0]) <= samePointEps {
		out = out[:len(out)-1]
	}
	return out
}

// Simplify reduces an open polyline with the Douglas-Peucker algorithm.
// Both endpoints are always kept, and every dropped point lies within eps of
// the simplified polyline. The input is never modified.
func Simplify(points []Point, eps float64) []Point {
	if len(points) <= 2 || eps <= 0 {
		return append([]Point(nil), points...)
	}

	keep := make([]bool, len(points))
	keep[0] = true
	keep[len(points)-1] = true

	// Explicit stack: stroke rails can hold thousands of points.
	type span struct{ first, last int }
	stack := []span{{0, len(points) - 1}}

	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		maxDist := -1.0
		index := -1
		for i := s.first + 1; i < s.last; i++ {
			d := distanceToLine(points[i], points[s.first], points[s.last])
			if d > maxDist {
				maxDist = d
				index = i
			}
		}

		if index >= 0 && maxDist > eps {
			keep[index] = true
			stack = append(stack, span{s.first, index}, span{index, s.last})
		}
	}

	out := make([]Point, 0, len(points))
	for i, p := range points {
		if keep[i] {
			out = append(out, p)
		}
	}
	return out
}

// SimplifyClosed reduces a closed ring (without a repeated closing point).
// The ring is split at the vertex farthest from the first one and each half
// is simplified with Simplify, so the result never has more points than the
// input.
func SimplifyClosed(ring []Point, eps float64) []Point {
	if len(ring) <= 3 || eps <= 0 {
		return append([]Point(nil), ring...)
	}

	far := 0
	farDist := -1.0
	for i, p := range ring {
		if d := p.Distance(ring[0]); d > farDist {
			farDist = d
			far = i
		}
	}
	if far == 0 {
		return append([]Point(nil), ring...)
	}

	first := Simplify(ring[:far+1], eps)

	second := make([]Point, 0, len(ring)-far+1)
	second = append(second, ring[far:]...)
	second = append(second, ring[0])
	second = Simplify(second, eps)

	// first ends with ring[far], second starts with it and ends with ring[0].
	out := make([]Point, 0, len(first)+len(second))
	out = append(out, first...)
	out = append(out, second[1:len(second)-1]...)
	return out
}

// Area returns the signed area of a closed ring (shoelace formula).
// The ring may or may not repeat its first point.
func Area(ring []Point) float64 {
	if len(ring) < 3 {
		return 0
	}
	var sum float64
	for i := range ring {
		j := (i + 1) % len(ring)
		sum += ring[i].X*ring[j].Y - ring[j].X*ring[i].Y
	}
	return sum / 2
}

// Bounds returns the axis-aligned bounding box of points.
func Bounds(points []Point) (minPt, maxPt Point) {
	if len(points) == 0 {
		return Point{}, Point{}
	}
	minPt = Point{X: math.Inf(1), Y: math.Inf(1)}
	maxPt = Point{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, p := range points {
		minPt.X = math.Min(minPt.X, p.X)
		minPt.Y = math.Min(minPt.Y, p.Y)
		maxPt.X = math.Max(maxPt.X, p.X)
		maxPt.Y = math.Max(maxPt.Y, p.Y)
	}
	return minPt, maxPt
}
