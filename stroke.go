package strokefont

import (
	"fmt"
	"strings"

	"github.com/gogpu/strokefont/internal/stroke"
)

// LineCap is the shape applied at the open ends of a centerline stroke.
type LineCap int

const (
	// LineCapDefault defers to the global style, and from there to LineCapRound.
	LineCapDefault LineCap = iota
	// LineCapRound ends the stroke with a semicircle of radius thickness/2.
	LineCapRound
	// LineCapButt ends the stroke flat, exactly at the endpoint.
	LineCapButt
	// LineCapSquare ends the stroke flat, thickness/2 past the endpoint.
	LineCapSquare
)

// String returns the cap name as used in snapshot files.
func (c LineCap) String() string {
	switch c {
	case LineCapRound:
		return "round"
	case LineCapButt:
		return "butt"
	case LineCapSquare:
		return "square"
	default:
		return "default"
	}
}

// ParseLineCap parses a cap name. The empty string is LineCapDefault.
func ParseLineCap(s string) (LineCap, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return LineCapDefault, nil
	case "round":
		return LineCapRound, nil
	case "butt":
		return LineCapButt, nil
	case "square":
		return LineCapSquare, nil
	}
	return LineCapDefault, fmt.Errorf("strokefont: unknown line cap %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (c LineCap) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *LineCap) UnmarshalText(text []byte) error {
	v, err := ParseLineCap(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// resolveCap picks the effective cap: stroke override, then global default,
// then round.
func resolveCap(strokeCap, globalCap LineCap) stroke.LineCap {
	c := strokeCap
	if c == LineCapDefault {
		c = globalCap
	}
	switch c {
	case LineCapButt:
		return stroke.LineCapButt
	case LineCapSquare:
		return stroke.LineCapSquare
	default:
		return stroke.LineCapRound
	}
}

// AnchorPoint is one on-curve point of a stroke, in box-relative
// coordinates. HandleIn and HandleOut are optional Bezier control points,
// also box-relative (absolute positions, not offsets from the anchor).
// A missing handle makes that side of the segment straight.
type AnchorPoint struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	HandleIn  *Point  `json:"handleIn,omitempty"`
	HandleOut *Point  `json:"handleOut,omitempty"`
}

// Pos returns the anchor position.
func (a AnchorPoint) Pos() Point {
	return Point{X: a.X, Y: a.Y}
}

// Stroke is one hand-authored path. Open strokes are centerlines drawn with
// Thickness; closed strokes are filled directly and Thickness is ignored.
type Stroke struct {
	ID        string        `json:"id"`
	Points    []AnchorPoint `json:"points"`
	Closed    bool          `json:"closed"`
	Thickness float64       `json:"thickness"`
	LineCap   LineCap       `json:"linecap,omitempty"`
	Label     string        `json:"label,omitempty"`
}

// clone returns a deep copy of s.
func (s Stroke) clone() Stroke {
	c := s
	c.Points = make([]AnchorPoint, len(s.Points))
	for i, a := range s.Points {
		c.Points[i] = a
		if a.HandleIn != nil {
			h := *a.HandleIn
			c.Points[i].HandleIn = &h
		}
		if a.HandleOut != nil {
			h := *a.HandleOut
			c.Points[i].HandleOut = &h
		}
	}
	return c
}

// ContainerBox is the normalized placement rectangle of a stroke inside the
// character cell.
type ContainerBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// UnitBox is the box covering the whole character cell.
func UnitBox() ContainerBox {
	return ContainerBox{Width: 1, Height: 1}
}

// ToCharacter maps a box-relative point to character space. Values outside
// [0,1] are mapped the same way and are never clamped.
func (b ContainerBox) ToCharacter(p Point) Point {
	return b.matrix().TransformPoint(p)
}

func (b ContainerBox) matrix() Matrix {
	return Translate(b.X, b.Y).Multiply(Scale(b.Width, b.Height))
}

// GlobalStyle holds the per-export style applied to every character.
type GlobalStyle struct {
	// WeightMultiplier scales every open stroke's thickness. It is the
	// already-resolved multiplier, not a raw weight value.
	WeightMultiplier float64 `json:"weightMultiplier"`

	// SlantDegrees shears each character; positive leans to the right.
	SlantDegrees float64 `json:"slantDegrees"`

	// DefaultLineCap applies to strokes whose own cap is LineCapDefault.
	DefaultLineCap LineCap `json:"defaultLinecap,omitempty"`
}

// DefaultStyle returns the neutral style: no weight change, no slant,
// round caps.
func DefaultStyle() GlobalStyle {
	return GlobalStyle{
		WeightMultiplier: 1,
		SlantDegrees:     0,
		DefaultLineCap:   LineCapRound,
	}
}

// weight returns the effective multiplier. A zero value means "unset".
func (s GlobalStyle) weight() float64 {
	if s.WeightMultiplier == 0 {
		return 1
	}
	return s.WeightMultiplier
}
