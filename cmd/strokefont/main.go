// Command strokefont converts a stroke snapshot into a TrueType font and
// inspects the result.
//
// Usage:
//
//	strokefont export -in snapshot.json -chars "가+o" -out fonts/ [-preview sheet.png] [-v]
//	strokefont inspect -font fonts/Sample.ttf -chars "가+o" [-backend x/image]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/pterm/pterm"

	"github.com/gogpu/strokefont"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch os.Args[1] {
	case "export":
		err = runExport(ctx, os.Args[2:])
	case "inspect":
		err = runInspect(os.Args[2:])
	case "-h", "-help", "--help", "help":
		usage()
		return
	default:
		pterm.Error.Printf("unknown command %q\n", os.Args[1])
		usage()
		os.Exit(2)
	}
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func usage() {
	pterm.Println(`strokefont converts hand-drawn strokes into a TrueType font.

Commands:
  export   build a font from a snapshot file
  inspect  parse a font and list its glyphs

Run "strokefont <command> -h" for the flags of a command.`)
}

// setupLogging routes library logs to stderr. Without -v only warnings
// are shown.
func setupLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	strokefont.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

func runExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	var (
		in       = fs.String("in", "", "snapshot JSON file (required)")
		chars    = fs.String("chars", "", "characters to export (default: every composition in the snapshot)")
		out      = fs.String("out", ".", "output directory")
		preview  = fs.String("preview", "", "write a PNG proof sheet to this file")
		size     = fs.Int("size", 64, "proof sheet em size in pixels")
		verbose  = fs.Bool("v", false, "verbose logging")
		noVerify = fs.Bool("no-verify", false, "skip re-parsing the encoded font")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		fs.Usage()
		return errors.New("missing -in")
	}
	setupLogging(*verbose)

	snap, err := loadSnapshot(*in)
	if err != nil {
		return err
	}
	requested := strokefont.SplitCharacters(*chars)
	if len(requested) == 0 {
		requested = snapshotCharacters(snap)
	}

	bar := newProgressBar()
	deliver := &fileDelivery{dir: *out}
	exp := strokefont.NewExporter(
		strokefont.WithProgress(bar.update),
		strokefont.WithVerification(!*noVerify),
		strokefont.WithDelivery(deliver),
	)

	res := exp.Run(ctx, snap, requested)
	bar.stop()
	if !res.Success {
		return errors.New(res.Error)
	}
	pterm.Success.Printf("wrote %s (%d bytes)\n", deliver.path, len(deliver.data))

	if *preview == "" {
		return nil
	}
	if err := writePreview(*preview, deliver.data, runesOf(requested), *size); err != nil {
		return err
	}
	pterm.Success.Printf("wrote %s\n", *preview)
	return nil
}

func runInspect(args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	var (
		path    = fs.String("font", "", "TrueType font file (required)")
		chars   = fs.String("chars", "", "characters to look up")
		backend = fs.String("backend", "x/image", "parser backend: x/image or go-text")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *path == "" {
		fs.Usage()
		return errors.New("missing -font")
	}
	data, err := os.ReadFile(*path)
	if err != nil {
		return err
	}
	summary, table, err := describeFont(data, *backend, runesOf(strokefont.SplitCharacters(*chars)))
	if err != nil {
		return fmt.Errorf("inspect %s: %w", *path, err)
	}
	pterm.Info.Println(summary)
	if len(table) > 1 {
		return pterm.DefaultTable.WithHasHeader().WithData(table).Render()
	}
	return nil
}
