// Package inspect re-reads encoded fonts through independent parsers.
//
// It backs the post-export self-check and the CLI inspect command. Two
// backends are available: golang.org/x/image/font/opentype and
// github.com/go-text/typesetting. A font is only considered valid when it
// resolves every expected character under both.
package inspect

import (
	"errors"
	"fmt"
	"strings"
)

// Backend selects the parser used by Parse.
type Backend int

const (
	// BackendXImage parses with golang.org/x/image/font/opentype.
	BackendXImage Backend = iota
	// BackendGoText parses with github.com/go-text/typesetting/font.
	BackendGoText
)

// Backends lists every backend, in the order Verify uses them.
var Backends = []Backend{BackendXImage, BackendGoText}

// String returns the backend name.
func (b Backend) String() string {
	switch b {
	case BackendXImage:
		return "ximage"
	case BackendGoText:
		return "gotext"
	default:
		return fmt.Sprintf("Backend(%d)", int(b))
	}
}

// ParseBackend parses a backend name as printed by String.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(s) {
	case "ximage", "x/image":
		return BackendXImage, nil
	case "gotext", "go-text":
		return BackendGoText, nil
	}
	return 0, fmt.Errorf("inspect: unknown backend %q", s)
}

// ParsedFont is the read-only view of a font shared by all backends.
type ParsedFont interface {
	// Name returns the family name.
	Name() string

	// NumGlyphs returns the number of glyphs, including .notdef.
	NumGlyphs() int

	// UnitsPerEm returns the design units per em.
	UnitsPerEm() int

	// GlyphIndex returns the glyph mapped to r, or 0 when r is unmapped.
	GlyphIndex(r rune) uint16

	// GlyphAdvance returns the advance width in font units.
	GlyphAdvance(glyphIndex uint16) float64
}

// ErrMissingGlyph is returned by Verify when a character maps to .notdef.
var ErrMissingGlyph = errors.New("inspect: character not mapped")

// MissingGlyphError lists the characters a backend could not resolve.
type MissingGlyphError struct {
	Backend Backend
	Runes   []rune
}

func (e *MissingGlyphError) Error() string {
	parts := make([]string, len(e.Runes))
	for i, r := range e.Runes {
		parts[i] = fmt.Sprintf("U+%04X", r)
	}
	return fmt.Sprintf("inspect: %s: %d character(s) not mapped: %s",
		e.Backend, len(e.Runes), strings.Join(parts, " "))
}

// Is reports whether target is ErrMissingGlyph.
func (e *MissingGlyphError) Is(target error) bool {
	return target == ErrMissingGlyph
}

// Parse parses data with the given backend.
func Parse(data []byte, backend Backend) (ParsedFont, error) {
	switch backend {
	case BackendXImage:
		return (&ximageParser{}).Parse(data)
	case BackendGoText:
		return (&gotextParser{}).Parse(data)
	}
	return nil, fmt.Errorf("inspect: unknown backend %v", backend)
}

// Verify parses data with every backend and checks that each rune resolves
// to a real glyph and that the backends agree on the glyph count.
func Verify(data []byte, runes []rune) error {
	count := -1
	for _, b := range Backends {
		f, err := Parse(data, b)
		if err != nil {
			return err
		}
		if count >= 0 && f.NumGlyphs() != count {
			return fmt.Errorf("inspect: %s reports %d glyphs, expected %d", b, f.NumGlyphs(), count)
		}
		count = f.NumGlyphs()

		var missing []rune
		for _, r := range runes {
			if f.GlyphIndex(r) == 0 {
				missing = append(missing, r)
			}
		}
		if len(missing) > 0 {
			return &MissingGlyphError{Backend: b, Runes: missing}
		}
	}
	return nil
}

// GlyphInfo describes one mapped character.
type GlyphInfo struct {
	Rune    rune
	Index   uint16
	Advance float64
}

// Glyphs looks up each rune in f.
func Glyphs(f ParsedFont, runes []rune) []GlyphInfo {
	out := make([]GlyphInfo, len(runes))
	for i, r := range runes {
		gid := f.GlyphIndex(r)
		out[i] = GlyphInfo{Rune: r, Index: gid, Advance: f.GlyphAdvance(gid)}
	}
	return out
}
