package strokefont

import "fmt"

// FontMetrics are the font-wide constants, in font design units.
type FontMetrics struct {
	UnitsPerEm   int `json:"unitsPerEm"`
	Ascender     int `json:"ascender"`
	Descender    int `json:"descender"`
	AdvanceWidth int `json:"advanceWidth"`
}

// DefaultMetrics returns a 1000-unit em with the character cell spanning
// ascender to descender and a square advance.
func DefaultMetrics() FontMetrics {
	return FontMetrics{
		UnitsPerEm:   1000,
		Ascender:     800,
		Descender:    -200,
		AdvanceWidth: 1000,
	}
}

// Validate checks that the metrics describe a usable font.
func (m FontMetrics) Validate() error {
	switch {
	case m.UnitsPerEm < 16 || m.UnitsPerEm > 16384:
		return fmt.Errorf("strokefont: unitsPerEm %d out of range [16, 16384]", m.UnitsPerEm)
	case m.Ascender <= m.Descender:
		return fmt.Errorf("strokefont: ascender %d must be above descender %d", m.Ascender, m.Descender)
	case m.AdvanceWidth <= 0 || m.AdvanceWidth > 0x7FFF:
		return fmt.Errorf("strokefont: advance width %d out of range", m.AdvanceWidth)
	}
	return nil
}

// orDefault fills a zero FontMetrics with DefaultMetrics.
func (m FontMetrics) orDefault() FontMetrics {
	if m == (FontMetrics{}) {
		return DefaultMetrics()
	}
	return m
}

// Placement is one stroke placed in its container box.
type Placement struct {
	Stroke Stroke       `json:"stroke"`
	Box    ContainerBox `json:"box"`
}

// Composition is the resolved stroke layout of one character. Compound
// elements that span several boxes appear as several placements.
type Composition struct {
	Character  string      `json:"character"`
	Placements []Placement `json:"placements"`
}

// Snapshot is the read-only input of one export. Host applications resolve
// conditional styling and layout boxes before building it.
type Snapshot struct {
	FamilyName   string        `json:"familyName,omitempty"`
	Style        GlobalStyle   `json:"style"`
	Metrics      FontMetrics   `json:"metrics"`
	Compositions []Composition `json:"compositions"`
}

// Clone returns a deep copy, so an export never observes later changes made
// by the host to its own stores.
func (s *Snapshot) Clone() *Snapshot {
	c := &Snapshot{
		FamilyName:   s.FamilyName,
		Style:        s.Style,
		Metrics:      s.Metrics,
		Compositions: make([]Composition, len(s.Compositions)),
	}
	for i, comp := range s.Compositions {
		cc := Composition{
			Character:  comp.Character,
			Placements: make([]Placement, len(comp.Placements)),
		}
		for j, p := range comp.Placements {
			cc.Placements[j] = Placement{Stroke: p.Stroke.clone(), Box: p.Box}
		}
		c.Compositions[i] = cc
	}
	return c
}

// lookup indexes compositions by NFC-normalized character. When a character
// appears more than once the last composition wins.
func (s *Snapshot) lookup() map[rune]*Composition {
	m := make(map[rune]*Composition, len(s.Compositions))
	for i := range s.Compositions {
		if r, ok := singleRune(s.Compositions[i].Character); ok {
			m[r] = &s.Compositions[i]
		}
	}
	return m
}
