package seal

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FallbackFamily is appended to every family lookup. The Go fonts are
// registered under it so a lookup never comes back empty.
const FallbackFamily = "serif"

// TextMeasurer reports the advance width of text in pixels.
type TextMeasurer interface {
	MeasureWidth(text string, size float64, family string, bold bool) float64
}

// FaceResolver hands out the faces used for drawing. Implementations must
// measure with the same faces they return so layout and pixels agree.
type FaceResolver interface {
	TextMeasurer
	Face(family string, size float64, bold bool) (font.Face, error)
}

type fontKey struct {
	family string
	bold   bool
}

// FontBook maps logical family names to parsed OpenType fonts. Fonts may be
// registered synchronously or loaded in the background; Ready waits for the
// background loads.
type FontBook struct {
	mu      sync.Mutex
	fonts   map[fontKey]*opentype.Font
	pending int
	idle    chan struct{}
}

// NewFontBook returns a book holding the built-in fallback fonts.
func NewFontBook() *FontBook {
	idle := make(chan struct{})
	close(idle)

	b := &FontBook{
		fonts: make(map[fontKey]*opentype.Font),
		idle:  idle,
	}
	// The embedded Go fonts always parse.
	_ = b.Register(FallbackFamily, false, goregular.TTF)
	_ = b.Register(FallbackFamily, true, gobold.TTF)
	return b
}

// Register parses an OpenType/TrueType font, or the first font of a
// collection, and binds it to family.
func (b *FontBook) Register(family string, bold bool, data []byte) error {
	return b.register(family, bold, data, false)
}

func (b *FontBook) register(family string, bold bool, data []byte, keepExisting bool) error {
	name := normalizeFamily(family)
	if name == "" {
		return fmt.Errorf("empty font family")
	}

	f, err := parseFont(data)
	if err != nil {
		return fmt.Errorf("parse font %q: %w", family, err)
	}

	key := fontKey{family: name, bold: bold}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.fonts[key]; ok && keepExisting {
		return nil
	}
	b.fonts[key] = f
	return nil
}

func parseFont(data []byte) (*opentype.Font, error) {
	f, err := opentype.Parse(data)
	if err == nil {
		return f, nil
	}

	coll, collErr := opentype.ParseCollection(data)
	if collErr != nil || coll.NumFonts() == 0 {
		return nil, err
	}
	return coll.Font(0)
}

// RegisterFile reads a font file from disk and registers it.
func (b *FontBook) RegisterFile(family string, bold bool, path string) error {
	return b.registerFile(family, bold, path, false)
}

func (b *FontBook) registerFile(family string, bold bool, path string, keepExisting bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read font %s: %w", path, err)
	}
	return b.register(family, bold, data, keepExisting)
}

// LoadFileAsync registers a font file in the background. Failures are
// logged and the family keeps resolving to the fallback.
func (b *FontBook) LoadFileAsync(family string, bold bool, path string) {
	b.background(func() {
		b.loadFile(family, bold, path, false)
	})
}

// LoadSystemFonts locates files for families with loc and registers them in
// the background. Fonts registered explicitly, before or after, take
// precedence over the located ones.
func (b *FontBook) LoadSystemFonts(loc FontLocator, families ...string) {
	b.background(func() {
		for _, family := range families {
			files := loc.Locate(family)
			if len(files) == 0 {
				Logger().Debug("no system font", "family", family)
				continue
			}
			for _, f := range files {
				b.loadFile(family, f.Bold, f.Path, true)
			}
		}
	})
}

func (b *FontBook) loadFile(family string, bold bool, path string, keepExisting bool) {
	if err := b.registerFile(family, bold, path, keepExisting); err != nil {
		Logger().Warn("font load failed", "family", family, "bold", bold, "path", path, "error", err)
		return
	}
	Logger().Debug("font loaded", "family", family, "bold", bold, "path", path)
}

// background runs load on its own goroutine and tracks it for Ready.
func (b *FontBook) background(load func()) {
	b.mu.Lock()
	if b.pending == 0 {
		b.idle = make(chan struct{})
	}
	b.pending++
	b.mu.Unlock()

	go func() {
		defer func() {
			b.mu.Lock()
			b.pending--
			if b.pending == 0 {
				close(b.idle)
			}
			b.mu.Unlock()
		}()
		load()
	}()
}

// Ready blocks until every background load has finished or ctx is done.
func (b *FontBook) Ready(ctx context.Context) error {
	b.mu.Lock()
	idle := b.idle
	b.mu.Unlock()

	select {
	case <-idle:
		return nil
	default:
	}

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Families lists the registered family names in sorted order.
func (b *FontBook) Families() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	seen := make(map[string]bool, len(b.fonts))
	var out []string
	for k := range b.fonts {
		if !seen[k.family] {
			seen[k.family] = true
			out = append(out, k.family)
		}
	}
	sort.Strings(out)
	return out
}

// Snapshot freezes the currently registered fonts into a FaceSet. Fonts
// loaded afterwards are not visible to the set, so one render measures and
// draws against the same fonts.
func (b *FontBook) Snapshot() *FaceSet {
	b.mu.Lock()
	defer b.mu.Unlock()

	fonts := make(map[fontKey]*opentype.Font, len(b.fonts))
	for k, f := range b.fonts {
		fonts[k] = f
	}
	return &FaceSet{fonts: fonts, faces: make(map[faceKey]font.Face)}
}

type faceKey struct {
	fontKey
	size float64
}

// FaceSet resolves faces from a frozen set of fonts and caches them by
// family, weight and size. A FaceSet is not safe for concurrent use.
type FaceSet struct {
	fonts map[fontKey]*opentype.Font
	faces map[faceKey]font.Face
}

// Face returns a face for family at size pixels. family may be a comma
// separated list; the first registered entry wins and FallbackFamily is
// tried last. A missing bold variant falls back to the regular one.
func (s *FaceSet) Face(family string, size float64, bold bool) (font.Face, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid font size %v", size)
	}

	key, f, ok := s.lookup(family, bold)
	if !ok {
		return nil, fmt.Errorf("no font for family %q", family)
	}

	fk := faceKey{fontKey: key, size: size}
	if face, ok := s.faces[fk]; ok {
		return face, nil
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("create face %q %vpx: %w", key.family, size, err)
	}
	s.faces[fk] = face
	return face, nil
}

// MeasureWidth returns the advance width of text, or 0 when no face can be
// built for the request.
func (s *FaceSet) MeasureWidth(text string, size float64, family string, bold bool) float64 {
	face, err := s.Face(family, size, bold)
	if err != nil {
		return 0
	}
	return fixedToFloat(font.MeasureString(face, text))
}

// Close releases every cached face.
func (s *FaceSet) Close() error {
	var first error
	for k, face := range s.faces {
		if err := face.Close(); err != nil && first == nil {
			first = err
		}
		delete(s.faces, k)
	}
	return first
}

func (s *FaceSet) lookup(family string, bold bool) (fontKey, *opentype.Font, bool) {
	names := append(strings.Split(family, ","), FallbackFamily)
	for _, n := range names {
		name := normalizeFamily(n)
		if name == "" {
			continue
		}
		for _, k := range []fontKey{{name, bold}, {name, false}} {
			if f, ok := s.fonts[k]; ok {
				return k, f, true
			}
		}
	}
	return fontKey{}, nil, false
}

func normalizeFamily(family string) string {
	name := strings.TrimSpace(family)
	name = strings.Trim(name, `"'`)
	return strings.ToLower(strings.TrimSpace(name))
}
