package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"

	"github.com/gogpu/strokefont"
	"github.com/gogpu/strokefont/internal/inspect"
	"github.com/gogpu/strokefont/internal/preview"
)

// loadSnapshot reads a JSON snapshot file.
func loadSnapshot(name string) (*strokefont.Snapshot, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var snap strokefont.Snapshot
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&snap); err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", name, err)
	}
	return &snap, nil
}

// snapshotCharacters lists the characters of all compositions in order.
func snapshotCharacters(snap *strokefont.Snapshot) []string {
	out := make([]string, 0, len(snap.Compositions))
	for _, c := range snap.Compositions {
		out = append(out, c.Character)
	}
	return out
}

func runesOf(chars []string) []rune {
	var out []rune
	for _, c := range chars {
		out = append(out, []rune(c)...)
	}
	return out
}

// fileDelivery writes the finished font into dir.
type fileDelivery struct {
	dir string

	path string
	data []byte
}

func (d *fileDelivery) Deliver(_ context.Context, name string, data []byte) error {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(d.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	d.path, d.data = path, data
	return nil
}

// progressBar mirrors export progress on a terminal bar. The bar starts
// once the character count is known.
type progressBar struct {
	pb   *pterm.ProgressbarPrinter
	done int
}

func newProgressBar() *progressBar { return &progressBar{} }

func (p *progressBar) update(completed, total int, phase strokefont.Phase) {
	if phase == strokefont.PhaseDone {
		p.stop()
		return
	}
	if p.pb == nil {
		if total <= 0 {
			return
		}
		pb, err := pterm.DefaultProgressbar.WithTotal(total).WithTitle(string(phase)).Start()
		if err != nil {
			return
		}
		p.pb = pb
	}
	if completed > p.done {
		p.pb.Add(completed - p.done)
		p.done = completed
	}
	p.pb.UpdateTitle(string(phase))
}

func (p *progressBar) stop() {
	if p.pb == nil {
		return
	}
	_, _ = p.pb.Stop()
	p.pb = nil
}

// writePreview renders a proof sheet of runes to a PNG file.
func writePreview(name string, data []byte, runes []rune, size int) error {
	img, err := preview.Sheet(data, runes, preview.Options{Size: size, Padding: size / 8})
	if err != nil {
		return err
	}
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := preview.WritePNG(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// describeFont parses data with the named backend and returns a one-line
// summary plus a glyph table for runes (header row first).
func describeFont(data []byte, backendName string, runes []rune) (string, pterm.TableData, error) {
	backend, err := inspect.ParseBackend(backendName)
	if err != nil {
		return "", nil, err
	}
	f, err := inspect.Parse(data, backend)
	if err != nil {
		return "", nil, err
	}
	summary := fmt.Sprintf("%s: family %q, %d glyphs, %d units per em",
		backend, f.Name(), f.NumGlyphs(), f.UnitsPerEm())

	table := pterm.TableData{{"Char", "Code point", "Glyph", "Advance"}}
	for _, g := range inspect.Glyphs(f, runes) {
		glyph := fmt.Sprint(g.Index)
		if g.Index == 0 {
			glyph = "missing"
		}
		table = append(table, []string{
			string(g.Rune),
			fmt.Sprintf("U+%04X", g.Rune),
			glyph,
			fmt.Sprintf("%.0f", g.Advance),
		})
	}
	return summary, table, nil
}
