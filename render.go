package seal

import (
	"context"
	"image"
	"image/color"
	"math"
	"sync"
	"time"

	"golang.org/x/image/font"
)

var (
	// SealColor is the border and label red (#E61E28).
	SealColor = color.RGBA{R: 0xE6, G: 0x1E, B: 0x28, A: 0xFF}
	// PanelColor fills the inner panel.
	PanelColor = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	// WatermarkColor is the light grey of the watermark band (#CCCCCC).
	WatermarkColor = color.RGBA{R: 0xCC, G: 0xCC, B: 0xCC, A: 0xFF}
)

// WatermarkFamily is the family used for the watermark band regardless of
// the label font.
const WatermarkFamily = `"Times New Roman", serif`

// DefaultFontTimeout bounds how long Renderer.Render waits for background
// font loads.
const DefaultFontTimeout = 2 * time.Second

// RenderWith draws the seal described by spec using faces for both
// measuring and drawing. The returned image is freshly allocated and owned
// by the caller.
func RenderWith(spec Spec, faces FaceResolver) (*image.RGBA, error) {
	img, _, err := render(spec, faces)
	return img, err
}

func render(spec Spec, faces FaceResolver) (*image.RGBA, Plan, error) {
	p, err := PlanSeal(spec, faces)
	if err != nil {
		return nil, Plan{}, err
	}

	c := NewCanvas(p.Width, p.Height)
	c.FillRect(c.Bounds(), SealColor)
	c.FillRect(p.Inner, PanelColor)

	if spec.Text != "" && p.LabelFontSize > 0 {
		face, err := faces.Face(p.LabelFamily, float64(p.LabelFontSize), true)
		if err != nil {
			Logger().Debug("label skipped", "family", p.LabelFamily, "size", p.LabelFontSize, "error", err)
		} else {
			c.DrawText(face, spec.Text, p.LabelX, p.LabelY, AnchorMiddle, AnchorMiddle, SealColor)
		}
	}

	if len(p.Watermark) > 0 {
		face, err := faces.Face(WatermarkFamily, float64(p.WatermarkFontSize), false)
		if err != nil {
			Logger().Debug("watermark skipped", "size", p.WatermarkFontSize, "error", err)
		} else {
			drawWatermark(c, p, face)
		}
	}

	return c.Image(), p, nil
}

func drawWatermark(c *Canvas, p Plan, face font.Face) {
	baseline := float64(p.WatermarkY)
	for _, rep := range p.Watermark {
		dst := c
		if rep.Clipped {
			dst = c.Clipped(image.Rect(
				int(math.Floor(rep.X)),
				p.WatermarkY-p.WatermarkFontSize,
				int(math.Floor(rep.X+rep.Visible)),
				p.WatermarkY,
			))
		}
		dst.DrawText(face, p.WatermarkUnit, rep.X, baseline, AnchorStart, AnchorEnd, WatermarkColor)
	}
}

// Renderer renders seals against a FontBook. It is safe for concurrent use;
// every call resolves its own faces.
type Renderer struct {
	fonts       *FontBook
	fontTimeout time.Duration
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithFontBook makes the renderer use b instead of a fresh book.
func WithFontBook(b *FontBook) Option {
	return func(r *Renderer) {
		if b != nil {
			r.fonts = b
		}
	}
}

// WithFontTimeout sets how long Render waits for background font loads.
// Zero or negative skips the wait.
func WithFontTimeout(d time.Duration) Option {
	return func(r *Renderer) {
		r.fontTimeout = d
	}
}

// NewRenderer constructs a Renderer. Without WithFontBook it gets a fresh
// book with the built-in fonts and starts loading the installed fonts of
// SystemFamilies in the background.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{fontTimeout: DefaultFontTimeout}
	for _, opt := range opts {
		opt(r)
	}
	if r.fonts == nil {
		r.fonts = NewFontBook()
		r.fonts.LoadSystemFonts(NewSystemFonts(), SystemFamilies()...)
	}
	return r
}

// Fonts returns the renderer's font book.
func (r *Renderer) Fonts() *FontBook {
	return r.fonts
}

var defaultRenderer struct {
	once sync.Once
	r    *Renderer
}

// Render renders spec with the default renderer.
func Render(spec Spec) (*image.RGBA, error) {
	return sharedRenderer().Render(context.Background(), spec)
}

func sharedRenderer() *Renderer {
	defaultRenderer.once.Do(func() {
		defaultRenderer.r = NewRenderer()
	})
	return defaultRenderer.r
}

// Render waits for pending font loads, then renders spec. When the wait
// times out the seal is drawn with whatever fonts are loaded.
func (r *Renderer) Render(ctx context.Context, spec Spec) (*image.RGBA, error) {
	img, _, err := r.render(ctx, spec)
	return img, err
}

func (r *Renderer) render(ctx context.Context, spec Spec) (*image.RGBA, Plan, error) {
	if err := spec.Validate(); err != nil {
		return nil, Plan{}, err
	}

	if err := r.waitFonts(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, Plan{}, ctxErr
		}
		Logger().WarnContext(ctx, "fonts not ready, rendering with fallback", "timeout", r.fontTimeout, "error", err)
	}

	faces := r.fonts.Snapshot()
	defer faces.Close()

	img, p, err := render(spec, faces)
	if err != nil {
		return nil, Plan{}, err
	}

	Logger().DebugContext(ctx, "seal rendered",
		"width", p.Width, "height", p.Height,
		"border", p.BorderWidth,
		"font_size", p.LabelFontSize, "initial_font_size", p.InitialFontSize,
		"repetitions", len(p.Watermark))
	return img, p, nil
}

func (r *Renderer) waitFonts(ctx context.Context) error {
	if r.fontTimeout <= 0 {
		return nil
	}

	wctx, cancel := context.WithTimeout(ctx, r.fontTimeout)
	defer cancel()

	return r.fonts.Ready(wctx)
}
