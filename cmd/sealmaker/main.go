package main

import (
	"context"
	"encoding/base64"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	seal "github.com/gcslaoli/seal-maker-go"
)

// go run . -text 張無忌 -out seal.png
// go run . -text 王小明 -font SimSun -fontfile simsun=/usr/share/fonts/simsun.ttc
// go run . -text 王小明 -outbase64
// go run . -text 王小明 -system-fonts=false -verify
// go run . -serve :8080

func main() {
	text := flag.String("text", seal.DefaultText, "Seal label")
	width := flag.Int("width", seal.DefaultWidth, "Seal width in pixels (min 100)")
	height := flag.Int("height", seal.DefaultHeight, "Seal height in pixels (min 50)")
	fontID := flag.String("font", seal.DefaultFont, "Label font id from -list-fonts, or any registered family")
	watermarkText := flag.String("watermark", seal.DefaultWatermark, "Watermark caption tiled along the bottom edge")
	output := flag.String("out", "", "Output path (defaults to <text>_職章.png)")
	outputBase64 := flag.Bool("outbase64", false, "Write the seal PNG as base64 to stdout instead of a file")
	fontTimeout := flag.Duration("font-timeout", seal.DefaultFontTimeout, "How long to wait for font files before falling back")
	serveAddr := flag.String("serve", "", "Serve seals over HTTP on this address instead of rendering once")
	listFonts := flag.Bool("list-fonts", false, "List the selectable fonts and exit")
	systemFonts := flag.Bool("system-fonts", true, "Look up the catalog fonts among the installed system fonts")
	verify := flag.Bool("verify", false, "Read the written PNG back and check it against the rendered seal")
	verbose := flag.Bool("v", false, "Enable debug logging")

	var fontFiles fontFileFlags
	flag.Var(&fontFiles, "fontfile", "Register a font file as family[:bold]=path (repeatable)")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	seal.SetLogger(logger)

	if *listFonts {
		for _, opt := range seal.Catalog {
			fmt.Printf("%-20s %s\n", opt.ID, opt.Label)
		}
		return
	}

	book := seal.NewFontBook()
	for _, ff := range fontFiles {
		book.LoadFileAsync(ff.family, ff.bold, ff.path)
	}
	if *systemFonts {
		book.LoadSystemFonts(seal.NewSystemFonts(), seal.SystemFamilies()...)
	}
	renderer := seal.NewRenderer(seal.WithFontBook(book), seal.WithFontTimeout(*fontTimeout))

	if *serveAddr != "" {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := serve(ctx, *serveAddr, renderer, logger); err != nil {
			fmt.Fprintf(os.Stderr, "serve: %v\n", err)
			os.Exit(1)
		}
		return
	}

	family := *fontID
	if opt, ok := seal.LookupFont(family); ok {
		family = opt.Family
	}

	spec := seal.Spec{
		Text:       *text,
		Width:      *width,
		Height:     *height,
		FontFamily: family,
		Watermark:  *watermarkText,
	}.Clamp()

	ctx, cancel := context.WithTimeout(context.Background(), *fontTimeout+5*time.Second)
	defer cancel()

	data, filename, plan, err := renderer.RenderBytes(ctx, spec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "render seal: %v\n", err)
		os.Exit(1)
	}

	if *outputBase64 {
		fmt.Println(base64.StdEncoding.EncodeToString(data))
		fmt.Fprintf(os.Stderr, "Rendered %dx%d seal -> base64 [font %dpx, border %dpx]\n", spec.Width, spec.Height, plan.LabelFontSize, plan.BorderWidth)
		return
	}

	outPath := *output
	if outPath == "" {
		outPath = filename
	}

	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write output: %v\n", err)
		os.Exit(1)
	}

	if *verify {
		if err := verifyOutput(ctx, renderer, spec, outPath); err != nil {
			fmt.Fprintf(os.Stderr, "verify output: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Printf("Rendered %dx%d seal -> %s [font %dpx, border %dpx, %d watermark repetitions]\n",
		spec.Width, spec.Height, filepath.Clean(outPath), plan.LabelFontSize, plan.BorderWidth, len(plan.Watermark))
}

// verifyOutput reads the written file back and checks it against a fresh
// render of the same spec.
func verifyOutput(ctx context.Context, renderer *seal.Renderer, spec seal.Spec, path string) error {
	written, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	img, err := renderer.Render(ctx, spec)
	if err != nil {
		return err
	}
	return seal.VerifyPNG(written, img)
}

type fontFile struct {
	family string
	bold   bool
	path   string
}

// fontFileFlags collects -fontfile family[:bold]=path values.
type fontFileFlags []fontFile

func (f *fontFileFlags) String() string {
	parts := make([]string, 0, len(*f))
	for _, ff := range *f {
		name := ff.family
		if ff.bold {
			name += ":bold"
		}
		parts = append(parts, name+"="+ff.path)
	}
	return strings.Join(parts, ",")
}

func (f *fontFileFlags) Set(value string) error {
	ff, err := parseFontFile(value)
	if err != nil {
		return err
	}
	*f = append(*f, ff)
	return nil
}

func parseFontFile(value string) (fontFile, error) {
	name, path, ok := strings.Cut(value, "=")
	if !ok || strings.TrimSpace(name) == "" || strings.TrimSpace(path) == "" {
		return fontFile{}, fmt.Errorf("want family[:bold]=path, got %q", value)
	}

	family, weight, hasWeight := strings.Cut(name, ":")
	ff := fontFile{family: strings.TrimSpace(family), path: strings.TrimSpace(path)}
	if hasWeight {
		switch strings.ToLower(strings.TrimSpace(weight)) {
		case "bold":
			ff.bold = true
		case "regular", "":
		default:
			return fontFile{}, fmt.Errorf("unknown font weight %q", weight)
		}
	}
	return ff, nil
}
