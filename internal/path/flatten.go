// Package path provides internal path processing utilities.
package path

import "math"

// Point represents a 2D point (internal copy to avoid import cycle).
type Point struct {
	X, Y float64
}

// DefaultTolerance is the default maximum distance between a curve and its
// flattened polyline, in box-relative units.
const DefaultTolerance = 0.002

// maxDepth bounds curve subdivision.
const maxDepth = 16

// PathElement represents an element in a path.
type PathElement interface {
	isPathElement()
}

// MoveTo moves to a point.
type MoveTo struct{ Point Point }

func (MoveTo) isPathElement() {}

// LineTo draws a line.
type LineTo struct{ Point Point }

func (LineTo) isPathElement() {}

// QuadTo draws a quadratic curve.
type QuadTo struct{ Control, Point Point }

func (QuadTo) isPathElement() {}

// CubicTo draws a cubic curve.
type CubicTo struct{ Control1, Control2, Point Point }

func (CubicTo) isPathElement() {}

// Close closes the path.
type Close struct{}

func (Close) isPathElement() {}

// Flatten converts a path with curves into a polyline.
// Every curve is replaced by straight segments whose distance to the curve
// stays below tolerance. Close appends the subpath start point.
// A non-positive tolerance selects DefaultTolerance.
func Flatten(elements []PathElement, tolerance float64) []Point {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}

	var points []Point
	var current, start Point

	for _, elem := range elements {
		switch e := elem.(type) {
		case MoveTo:
			current = e.Point
			start = e.Point
			points = append(points, current)

		case LineTo:
			current = e.Point
			points = append(points, current)

		case QuadTo:
			points = flattenQuadratic(current, e.Control, e.Point, tolerance, points)
			current = e.Point

		case CubicTo:
			points = flattenCubic(current, e.Control1, e.Control2, e.Point, tolerance, points)
			current = e.Point

		case Close:
			if len(points) > 0 {
				points = append(points, start)
				current = start
			}
		}
	}

	return points
}

// Lerp performs linear interpolation between two points.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{
		X: p.X + (q.X-p.X)*t,
		Y: p.Y + (q.Y-p.Y)*t,
	}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Mul scales p by s.
func (p Point) Mul(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Length returns the distance of p from the origin.
func (p Point) Length() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y)
}

// Distance returns the distance between p and q.
func (p Point) Distance(q Point) float64 {
	return p.Sub(q).Length()
}

// flattenQuadratic appends the flattened quadratic Bezier (excluding p0) to points.
func flattenQuadratic(p0, p1, p2 Point, tolerance float64, points []Point) []Point {
	flattenQuadraticRec(p0, p1, p2, tolerance, 0, &points)
	return points
}

// flattenQuadraticRec recursively subdivides a quadratic Bezier curve.
func flattenQuadraticRec(p0, p1, p2 Point, tolerance float64, depth int, points *[]Point) {
	if depth >= maxDepth || distanceToLine(p1, p0, p2) < tolerance {
		*points = append(*points, p2)
		return
	}

	q0 := p0.Lerp(p1, 0.5)
	q1 := p1.Lerp(p2, 0.5)
	q2 := q0.Lerp(q1, 0.5)

	flattenQuadraticRec(p0, q0, q2, tolerance, depth+1, points)
	flattenQuadraticRec(q2, q1, p2, tolerance, depth+1, points)
}

// flattenCubic appends the flattened cubic Bezier (excluding p0) to points.
func flattenCubic(p0, p1, p2, p3 Point, tolerance float64, points []Point) []Point {
	flattenCubicRec(p0, p1, p2, p3, tolerance, 0, &points)
	return points
}

// flattenCubicRec recursively subdivides a cubic Bezier curve.
func flattenCubicRec(p0, p1, p2, p3 Point, tolerance float64, depth int, points *[]Point) {
	d1 := distanceToLine(p1, p0, p3)
	d2 := distanceToLine(p2, p0, p3)

	if depth >= maxDepth || math.Max(d1, d2) < tolerance {
		*points = append(*points, p3)
		return
	}

	// de Casteljau split at t = 0.5
	q0 := p0.Lerp(p1, 0.5)
	q1 := p1.Lerp(p2, 0.5)
	q2 := p2.Lerp(p3, 0.5)
	r0 := q0.Lerp(q1, 0.5)
	r1 := q1.Lerp(q2, 0.5)
	s := r0.Lerp(r1, 0.5)

	flattenCubicRec(p0, q0, r0, s, tolerance, depth+1, points)
	flattenCubicRec(s, r1, q2, p3, tolerance, depth+1, points)
}

// distanceToLine calculates the perpendicular distance from point p to line segment (a, b).
func distanceToLine(p, a, b Point) float64 {
	ab := b.Sub(a)
	abLen := ab.Length()

	if abLen < 1e-12 {
		return p.Distance(a)
	}

	ap := p.Sub(a)
	t := ap.Dot(ab) / (abLen * abLen)

	if t < 0 {
		return p.Distance(a)
	}
	if t > 1 {
		return p.Distance(b)
	}

	closest := a.Add(ab.Mul(t))
	return p.Distance(closest)
}
