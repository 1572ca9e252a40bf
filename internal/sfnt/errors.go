package sfnt

import (
	"errors"
	"fmt"
)

// Sentinel errors for the sfnt package.
var (
	// ErrInvalidCoordinate is returned for NaN, infinite or out-of-range
	// outline coordinates.
	ErrInvalidCoordinate = errors.New("sfnt: invalid coordinate")

	// ErrTooManyGlyphs is returned when a font would exceed 65535 glyphs.
	ErrTooManyGlyphs = errors.New("sfnt: too many glyphs")

	// ErrTooManyPoints is returned when a glyph has more points than a
	// simple glyph can index.
	ErrTooManyPoints = errors.New("sfnt: too many points in glyph")

	// ErrDuplicateRune is returned when two glyphs map the same character.
	ErrDuplicateRune = errors.New("sfnt: character mapped twice")

	// ErrInvalidMetrics is returned when the font-wide metrics are unusable.
	ErrInvalidMetrics = errors.New("sfnt: invalid metrics")
)

// CoordinateError describes an outline point that cannot be encoded.
type CoordinateError struct {
	Glyph   string
	Contour int
	Point   int
	X, Y    float64
}

func (e *CoordinateError) Error() string {
	return fmt.Sprintf("sfnt: glyph %s contour %d point %d: coordinate (%g, %g) cannot be encoded",
		e.Glyph, e.Contour, e.Point, e.X, e.Y)
}

// Is reports whether target is ErrInvalidCoordinate.
func (e *CoordinateError) Is(target error) bool {
	return target == ErrInvalidCoordinate
}
