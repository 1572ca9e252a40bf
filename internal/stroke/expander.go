// Package stroke provides stroke expansion algorithms for converting stroked paths to filled outlines.
//
// Key algorithm insight: A centerline stroke is converted to a FILL contour where:
//   - The left offset rail goes forward
//   - The end cap connects the left rail to the right rail
//   - The right offset rail is reversed
//   - The start cap connects back to the beginning of the left rail
package stroke

import (
	"math"

	"github.com/gogpu/strokefont/internal/path"
)

// Point represents a 2D point (internal copy to avoid import cycle).
type Point struct {
	X, Y float64
}

// Vec2 returns the point as a vector from the origin.
func (p Point) Vec2() Vec2 {
	return Vec2(p)
}

// Add returns the point translated by v.
func (p Point) Add(v Vec2) Point {
	return Point{X: p.X + v.X, Y: p.Y + v.Y}
}

// Sub returns the difference between two points as a vector.
func (p Point) Sub(q Point) Vec2 {
	return Vec2{X: p.X - q.X, Y: p.Y - q.Y}
}

// Distance returns the distance between two points.
func (p Point) Distance(q Point) float64 {
	return p.Sub(q).Length()
}

// Vec2 represents a 2D vector.
type Vec2 struct {
	X, Y float64
}

// Add returns the sum of two vectors.
func (v Vec2) Add(w Vec2) Vec2 {
	return Vec2{X: v.X + w.X, Y: v.Y + w.Y}
}

// Scale returns the vector scaled by s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Neg returns the negated vector.
func (v Vec2) Neg() Vec2 {
	return Vec2{X: -v.X, Y: -v.Y}
}

// Dot returns the dot product of two vectors.
func (v Vec2) Dot(w Vec2) float64 {
	return v.X*w.X + v.Y*w.Y
}

// Cross returns the 2D cross product (z-component of 3D cross).
func (v Vec2) Cross(w Vec2) float64 {
	return v.X*w.Y - v.Y*w.X
}

// Length returns the length of the vector.
func (v Vec2) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Normalize returns a unit vector in the same direction.
func (v Vec2) Normalize() Vec2 {
	length := v.Length()
	if length < 1e-12 {
		return Vec2{X: 0, Y: 0}
	}
	return Vec2{X: v.X / length, Y: v.Y / length}
}

// Perp returns the perpendicular vector (rotated 90 degrees counter-clockwise).
func (v Vec2) Perp() Vec2 {
	return Vec2{X: -v.Y, Y: v.X}
}

// LineCap specifies the shape of line endpoints.
type LineCap int

const (
	// LineCapRound specifies a semicircular cap with radius width/2.
	LineCapRound LineCap = iota
	// LineCapButt specifies a flat cap ending exactly at the endpoint.
	LineCapButt
	// LineCapSquare specifies a flat cap extended by width/2 past the endpoint.
	LineCapSquare
)

// String returns the cap name.
func (c LineCap) String() string {
	switch c {
	case LineCapButt:
		return "butt"
	case LineCapSquare:
		return "square"
	default:
		return "round"
	}
}

const (
	// DefaultTolerance is the maximum deviation of a cap arc from a true circle.
	DefaultTolerance = path.DefaultTolerance

	// DefaultEpsilon is the Douglas-Peucker epsilon applied to each rail.
	DefaultEpsilon = 0.0005

	// joinCos is the cosine of the largest turn treated as smooth. Sharper
	// interior turns get a bevel join.
	joinCos = 0.985

	minArcSegments = 4
	maxArcSegments = 64
)

// Style defines the parameters for one stroke expansion.
type Style struct {
	Width float64
	Cap   LineCap
}

// Expander converts centerline polylines to filled ribbon contours.
type Expander struct {
	style Style

	// tolerance bounds the chord error of cap arcs.
	tolerance float64

	// epsilon is the Douglas-Peucker epsilon for the rails.
	epsilon float64
}

// NewExpander creates a new expander with the given style.
func NewExpander(style Style) *Expander {
	return &Expander{
		style:     style,
		tolerance: DefaultTolerance,
		epsilon:   DefaultEpsilon,
	}
}

// SetTolerance sets the arc subdivision tolerance.
func (e *Expander) SetTolerance(tolerance float64) {
	if tolerance > 0 {
		e.tolerance = tolerance
	}
}

// SetEpsilon sets the rail simplification epsilon. Zero disables simplification.
func (e *Expander) SetEpsilon(eps float64) {
	if eps >= 0 {
		e.epsilon = eps
	}
}

// Expand converts a flattened centerline to one closed contour.
//
// It returns nil when the stroke has no usable geometry: a non-positive
// width, no points, or a single distinct point with a butt cap. A single
// distinct point with a round cap yields a disc, with a square cap a square.
// The returned contour does not repeat its first point.
func (e *Expander) Expand(centerline []Point) []Point {
	if !(e.style.Width > 0) {
		return nil
	}

	pts := dedup(centerline)
	switch len(pts) {
	case 0:
		return nil
	case 1:
		return e.dot(pts[0])
	}

	radius := e.style.Width / 2
	left, right := e.rails(pts, radius)

	n := len(pts)
	startTan := pts[1].Sub(pts[0]).Normalize()
	endTan := pts[n-1].Sub(pts[n-2]).Normalize()

	if e.style.Cap == LineCapSquare {
		ext0 := startTan.Scale(-radius)
		ext1 := endTan.Scale(radius)
		left[0] = left[0].Add(ext0)
		right[0] = right[0].Add(ext0)
		left[len(left)-1] = left[len(left)-1].Add(ext1)
		right[len(right)-1] = right[len(right)-1].Add(ext1)
	}

	left = e.simplify(left)
	right = e.simplify(right)

	out := make([]Point, 0, len(left)+len(right)+2*maxArcSegments)
	out = append(out, left...)

	if e.style.Cap == LineCapRound {
		endNorm := endTan.Perp()
		out = e.arc(out, pts[n-1], endNorm, endTan, radius)
	}

	for i := len(right) - 1; i >= 0; i-- {
		out = append(out, right[i])
	}

	if e.style.Cap == LineCapRound {
		startNorm := startTan.Perp()
		out = e.arc(out, pts[0], startNorm.Neg(), startTan.Neg(), radius)
	}

	out = dedupRing(out)
	if len(out) < 3 {
		return nil
	}
	return out
}

// rails computes the left (+normal) and right (-normal) offset rails, both in
// centerline order.
func (e *Expander) rails(pts []Point, radius float64) (left, right []Point) {
	n := len(pts)
	tans := make([]Vec2, n-1)
	lens := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		d := pts[i+1].Sub(pts[i])
		lens[i] = d.Length()
		tans[i] = d.Normalize()
	}

	left = make([]Point, 0, n+8)
	right = make([]Point, 0, n+8)

	norm := tans[0].Perp()
	left = append(left, pts[0].Add(norm.Scale(radius)))
	right = append(right, pts[0].Add(norm.Scale(-radius)))

	for i := 1; i < n-1; i++ {
		left, right = e.join(left, right, pts[i], tans[i-1], tans[i], math.Min(lens[i-1], lens[i]), radius)
	}

	norm = tans[n-2].Perp()
	left = append(left, pts[n-1].Add(norm.Scale(radius)))
	right = append(right, pts[n-1].Add(norm.Scale(-radius)))
	return left, right
}

// join appends the rail points for the interior vertex p.
func (e *Expander) join(left, right []Point, p Point, tanIn, tanOut Vec2, shortest, radius float64) ([]Point, []Point) {
	normIn := tanIn.Perp()
	normOut := tanOut.Perp()
	bisector := normIn.Add(normOut).Normalize()

	if tanIn.Dot(tanOut) >= joinCos {
		left = append(left, p.Add(bisector.Scale(radius)))
		right = append(right, p.Add(bisector.Scale(-radius)))
		return left, right
	}

	inner := e.innerJoin(bisector, normIn, shortest, radius)

	// cross > 0 turns toward +normal, so the left rail is on the inside.
	if tanIn.Cross(tanOut) > 0 {
		left = append(left, p.Add(inner))
		right = append(right, p.Add(normIn.Scale(-radius)), p.Add(normOut.Scale(-radius)))
	} else {
		left = append(left, p.Add(normIn.Scale(radius)), p.Add(normOut.Scale(radius)))
		right = append(right, p.Add(inner.Neg()))
	}
	return left, right
}

// innerJoin returns the offset (relative to the +normal side) of the point
// where the two inner offset lines meet, clamped so that acute turns do not
// reach past the shorter adjacent segment.
func (e *Expander) innerJoin(bisector, normIn Vec2, shortest, radius float64) Vec2 {
	cosHalf := bisector.Dot(normIn)
	if bisector == (Vec2{}) || cosHalf < 1e-6 {
		// Full reversal: both inner lines pass through p.
		return Vec2{}
	}
	miter := radius / cosHalf
	limit := math.Hypot(radius, shortest)
	if miter > limit {
		miter = limit
	}
	return bisector.Scale(miter)
}

// arc appends the interior points of a half circle around center, starting
// at center+radius*u, passing center+radius*v and ending at center-radius*u.
// The end points themselves belong to the rails and are not appended.
func (e *Expander) arc(out []Point, center Point, u, v Vec2, radius float64) []Point {
	segments := e.arcSegments(radius)
	for i := 1; i < segments; i++ {
		theta := math.Pi * float64(i) / float64(segments)
		off := u.Scale(radius * math.Cos(theta)).Add(v.Scale(radius * math.Sin(theta)))
		out = append(out, center.Add(off))
	}
	return out
}

// arcSegments returns the number of chords for a half circle of the given
// radius so that the chord error stays below the tolerance.
func (e *Expander) arcSegments(radius float64) int {
	if e.tolerance >= radius {
		return minArcSegments
	}
	step := 2 * math.Acos(1-e.tolerance/radius)
	n := int(math.Ceil(math.Pi / step))
	if n < minArcSegments {
		n = minArcSegments
	}
	if n > maxArcSegments {
		n = maxArcSegments
	}
	return n
}

// dot builds the contour of a zero-length stroke.
func (e *Expander) dot(c Point) []Point {
	r := e.style.Width / 2
	switch e.style.Cap {
	case LineCapRound:
		n := 2 * e.arcSegments(r)
		out := make([]Point, n)
		for i := 0; i < n; i++ {
			// Clockwise in y-up terms, matching the ribbon orientation.
			theta := -2 * math.Pi * float64(i) / float64(n)
			out[i] = Point{X: c.X + r*math.Cos(theta), Y: c.Y + r*math.Sin(theta)}
		}
		return out
	case LineCapSquare:
		return []Point{
			{X: c.X - r, Y: c.Y - r},
			{X: c.X - r, Y: c.Y + r},
			{X: c.X + r, Y: c.Y + r},
			{X: c.X + r, Y: c.Y - r},
		}
	default:
		return nil
	}
}

func (e *Expander) simplify(rail []Point) []Point {
	if e.epsilon <= 0 {
		return rail
	}
	return FromPath(path.Simplify(ToPath(rail), e.epsilon))
}

func dedup(points []Point) []Point {
	return FromPath(path.Dedup(ToPath(points)))
}

func dedupRing(points []Point) []Point {
	return FromPath(path.DedupRing(ToPath(points)))
}

// ToPath converts stroke points to path points.
func ToPath(points []Point) []path.Point {
	out := make([]path.Point, len(points))
	for i, p := range points {
		out[i] = path.Point(p)
	}
	return out
}

// FromPath converts path points to stroke points.
func FromPath(points []path.Point) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = Point(p)
	}
	return out
}
